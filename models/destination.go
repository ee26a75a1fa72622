package models

import (
	"time"

	"gorm.io/gorm"
)

type DestinationType string

const (
	DestinationCity       DestinationType = "city"
	DestinationTown       DestinationType = "town"
	DestinationAttraction DestinationType = "attraction"
	DestinationState      DestinationType = "state"
	DestinationRegion     DestinationType = "region"
	DestinationAirport    DestinationType = "airport"
)

func (t DestinationType) Valid() bool {
	switch t {
	case DestinationCity, DestinationTown, DestinationAttraction, DestinationState, DestinationRegion, DestinationAirport:
		return true
	}
	return false
}

type Destination struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string          `gorm:"size:150;uniqueIndex;not null" json:"name"`
	Region      string          `gorm:"size:150;index" json:"region"`
	Type        DestinationType `gorm:"size:20;index;default:city" json:"type"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	Description string          `gorm:"type:text" json:"description"`
	ImageURL    string          `gorm:"size:255" json:"image_url"`
	AirportCode string          `gorm:"size:8" json:"airport_code,omitempty"`
	IsPopular   bool            `gorm:"default:false" json:"is_popular"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
