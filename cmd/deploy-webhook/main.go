package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

// Push sonrası sunucuda güncellemeyi tetikleyen küçük webhook dinleyicisi.
// API'den bağımsız çalışır, systemd altında ayrı servis olarak koşar.

func verifySignature(secret string, payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func runStep(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func updateApp(projectPath string) error {
	log.Println("Starting deploy update...")

	if err := runStep(projectPath, "git", "pull", "origin", "main"); err != nil {
		return err
	}
	if err := runStep(projectPath, "go", "build", "-o", "bin/api", "./cmd/api"); err != nil {
		return err
	}
	if err := runStep(projectPath, "systemctl", "restart", "aqarcrm-api"); err != nil {
		return err
	}

	log.Println("Deploy update finished")
	return nil
}

func main() {
	godotenv.Load()

	secret := os.Getenv("WEBHOOK_SECRET")
	projectPath := os.Getenv("PROJECT_PATH")
	if projectPath == "" {
		projectPath = "."
	}

	app := fiber.New()
	app.Use(logger.New())

	app.Post("/webhook", func(c *fiber.Ctx) error {
		// İmza varsa doğrula, secret set değilse atla
		signature := c.Get("X-Hub-Signature-256")
		if secret != "" && signature != "" {
			if !verifySignature(secret, c.Body(), signature) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"status":  "error",
					"message": "Invalid signature",
				})
			}
		}

		if err := updateApp(projectPath); err != nil {
			log.Printf("Deploy update failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":    "error",
				"message":   "فشل التحديث",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		}

		return c.JSON(fiber.Map{
			"status":    "success",
			"message":   "تم التحديث بنجاح",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	port := os.Getenv("WEBHOOK_PORT")
	if port == "" {
		port = "9000"
	}

	log.Printf("Deploy webhook listening on port %s", port)
	log.Fatal(app.Listen(":" + port))
}
