package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TripDraft     = "draft"
	TripBooked    = "booked"
	TripCancelled = "cancelled"
)

// TransportSelection is the denormalised transport choice kept on a trip.
type TransportSelection struct {
	Type          TransportType `json:"type"`
	ID            uint          `json:"id"`
	Name          string        `json:"name"`
	From          string        `json:"from,omitempty"`
	To            string        `json:"to,omitempty"`
	Date          string        `json:"date"` // YYYY-MM-DD
	DepartureTime string        `json:"departure_time,omitempty"`
	ArrivalTime   string        `json:"arrival_time,omitempty"`
	UnitPrice     float64       `json:"unit_price"`
	Quantity      int           `json:"quantity"`
	TotalPrice    float64       `json:"total_price"`
	Seats         []string      `json:"seats,omitempty"`
}

type TripPlan struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UserID        uint   `gorm:"index;not null" json:"user_id"`
	ReferenceCode string `gorm:"size:32;uniqueIndex;not null" json:"reference_code"`
	Title         string `gorm:"size:200" json:"title"`

	DestinationID uint        `gorm:"index;not null" json:"destination_id"`
	Destination   Destination `gorm:"foreignKey:DestinationID" json:"destination,omitempty"`
	HotelID       *uint       `gorm:"index" json:"hotel_id,omitempty"`
	Hotel         *Hotel      `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Travelers int       `gorm:"default:1" json:"travelers"`
	Rooms     int       `gorm:"default:1" json:"rooms"`

	TransportDetails datatypes.JSONType[TransportSelection] `json:"transport_details"`
	// TransportKey indexes the selection ("flight:12:2026-11-07") so seat
	// lookups do not scan the JSON blob.
	TransportKey string `gorm:"size:64;index" json:"-"`

	Status    string     `gorm:"size:20;index;default:draft" json:"status"`
	TotalCost float64    `json:"total_cost"` // MMK, snapshot at booking
	Notes     string     `gorm:"type:text" json:"notes"`
	BookedAt  *time.Time `json:"booked_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Transport returns the stored selection, if any.
func (t TripPlan) Transport() (TransportSelection, bool) {
	sel := t.TransportDetails.Data()
	if sel.Type == "" || sel.ID == 0 {
		return TransportSelection{}, false
	}
	return sel, true
}

func (t *TripPlan) ClearTransport() {
	t.TransportDetails = datatypes.NewJSONType(TransportSelection{})
	t.TransportKey = ""
}

func TransportKey(tt TransportType, id uint, date string) string {
	return fmt.Sprintf("%s:%d:%s", tt, id, date)
}

func (t *TripPlan) SetTransport(sel TransportSelection) {
	t.TransportDetails = datatypes.NewJSONType(sel)
	t.TransportKey = TransportKey(sel.Type, sel.ID, sel.Date)
}
