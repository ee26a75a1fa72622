package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Hotel struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DestinationID uint        `gorm:"index;not null" json:"destination_id"`
	Destination   Destination `gorm:"foreignKey:DestinationID" json:"destination,omitempty"`

	Name          string  `gorm:"size:200;not null" json:"name"`
	Address       string  `gorm:"type:text" json:"address"`
	PricePerNight float64 `gorm:"index" json:"price_per_night"` // USD
	Category      string  `gorm:"size:30;index" json:"category"`
	Rating        float64 `json:"rating"`
	ReviewCount   int     `json:"review_count"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Description   string  `gorm:"type:text" json:"description"`
	ImageURL      string  `gorm:"size:255" json:"image_url"`

	Amenities datatypes.JSONSlice[string] `json:"amenities"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

var HotelCategories = []string{"budget", "mid-range", "luxury", "boutique", "resort"}

// PriceInMMK converts the nightly USD price with the given rate.
func (h Hotel) PriceInMMK(rate float64) float64 {
	return h.PricePerNight * rate
}

func (h Hotel) HasAmenity(name string) bool {
	for _, a := range h.Amenities {
		if equalFold(a, name) {
			return true
		}
	}
	return false
}
