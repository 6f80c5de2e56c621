package seed

import (
	"log"

	"aqarcrm_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUser panel kullanıcısını env'den oluşturur. Kayıt akışı olmadığı
// için kullanıcılar yalnızca buradan eklenir; mevcut kullanıcıya dokunulmaz.
func SeedAdminUser(db *gorm.DB, adminEmail, adminPassword string) {
	if adminEmail == "" || adminPassword == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var existing model.User
	if err := db.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}

	user := model.User{
		Email:    adminEmail,
		Password: string(hashed),
		Name:     "Admin",
	}

	if err := db.Create(&user).Error; err != nil {
		log.Printf("Error creating admin user: %v", err)
		return
	}

	log.Println("Admin user seeded successfully!")
}
