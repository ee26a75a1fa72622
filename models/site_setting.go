package models

import "time"

// SiteSetting is a single-row table with contact details and the Leaflet
// map defaults served to the frontend.
type SiteSetting struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:255" json:"name"`
	ContactEmail string `gorm:"size:150" json:"contact_email"`
	Phone        string `gorm:"size:50" json:"phone"`
	Website      string `gorm:"size:255" json:"website"`

	MapCenterLat   float64 `json:"map_center_lat"`
	MapCenterLng   float64 `json:"map_center_lng"`
	MapZoom        int     `json:"map_zoom"`
	MapTileURL     string  `gorm:"size:255" json:"map_tile_url"`
	MapAttribution string  `gorm:"size:255" json:"map_attribution"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func DefaultSiteSetting() SiteSetting {
	return SiteSetting{
		Name:           "Myanmar Travel Planner",
		ContactEmail:   "hello@myanmartravel.local",
		MapCenterLat:   19.7633,
		MapCenterLng:   96.0785,
		MapZoom:        6,
		MapTileURL:     "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		MapAttribution: "&copy; OpenStreetMap contributors",
	}
}
