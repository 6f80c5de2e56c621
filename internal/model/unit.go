package model

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Price Modes
type PriceMode string

const (
	PriceModeSale        PriceMode = "sale"
	PriceModeRentMonthly PriceMode = "rent_monthly"
	PriceModeRentYearly  PriceMode = "rent_yearly"
)

// Unit satılık/kiralık tek bir konut birimi. Fotoğraflar object storage'da
// tutulur; kayıtta sadece key saklanır, okuma sırasında public URL'e çözülür.
type Unit struct {
	gorm.Model
	ProjectID    *uint          `json:"project_id" gorm:"index"`
	UnitTypeID   *uint          `json:"unit_type_id" gorm:"index"`
	UnitCode     *string        `json:"unit_code" gorm:"index"`
	UnitType     *string        `json:"unit_type"` // serbest metin tip etiketi
	FloorNo      *int           `json:"floor_no"`
	FloorLabel   *string        `json:"floor_label"`
	Rooms        *int           `json:"rooms"`
	Baths        *int           `json:"baths"`
	Features     *string        `json:"features" gorm:"type:text"`
	GuardPhone   *string        `json:"guard_phone"`
	AqarURL      *string        `json:"aqar_url"`
	LocationDesc *string        `json:"location_desc" gorm:"type:text"`
	MapURL       *string        `json:"map_url"`
	Price        *float64       `json:"price"`
	PriceMode    *PriceMode     `json:"price_mode"`
	PrimaryPhoto *string        `json:"primary_photo"`
	PhotosPaths  datatypes.JSON `json:"photos_paths"`
	Active       bool           `json:"active" gorm:"default:true"`

	// İlişkiler
	Project      *Project      `json:"project" gorm:"foreignKey:ProjectID"`
	UnitTypeRef  *UnitType     `json:"unit_type_ref" gorm:"foreignKey:UnitTypeID"`
	Appointments []Appointment `json:"-" gorm:"foreignKey:UnitID"`
}

// GalleryPaths photos_paths JSON kolonunu string dizisine çözer
func (u *Unit) GalleryPaths() []string {
	if len(u.PhotosPaths) == 0 {
		return nil
	}
	var paths []string
	if err := json.Unmarshal(u.PhotosPaths, &paths); err != nil {
		return nil
	}
	return paths
}

// SetGalleryPaths galeri key listesini JSON kolonuna yazar
func (u *Unit) SetGalleryPaths(paths []string) error {
	b, err := json.Marshal(paths)
	if err != nil {
		return err
	}
	u.PhotosPaths = datatypes.JSON(b)
	return nil
}

// MatchesSearch vahid kodu, özellikler ve proje adında arama yapar
func (u *Unit) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if u.UnitCode != nil && strings.Contains(strings.ToLower(*u.UnitCode), term) {
		return true
	}
	if u.Features != nil && strings.Contains(strings.ToLower(*u.Features), term) {
		return true
	}
	if u.Project != nil && strings.Contains(strings.ToLower(u.Project.Name), term) {
		return true
	}
	return false
}
