package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TransportType string

const (
	TransportFlight TransportType = "flight"
	TransportBus    TransportType = "bus"
	TransportCar    TransportType = "car"
)

func ParseTransportType(raw string) (TransportType, bool) {
	switch TransportType(strings.ToLower(strings.TrimSpace(raw))) {
	case TransportFlight:
		return TransportFlight, true
	case TransportBus:
		return TransportBus, true
	case TransportCar:
		return TransportCar, true
	}
	return "", false
}

type Airline struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:150;not null" json:"name"`
	Code    string `gorm:"size:8;uniqueIndex;not null" json:"code"`
	LogoURL string `gorm:"size:255" json:"logo_url"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Flight struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	FlightNumber string  `gorm:"size:20;index;not null" json:"flight_number"`
	AirlineID    uint    `gorm:"index;not null" json:"airline_id"`
	Airline      Airline `gorm:"foreignKey:AirlineID" json:"airline,omitempty"`

	DepartureID uint        `gorm:"index;not null" json:"departure_id"`
	Departure   Destination `gorm:"foreignKey:DepartureID" json:"departure,omitempty"`
	ArrivalID   uint        `gorm:"index;not null" json:"arrival_id"`
	Arrival     Destination `gorm:"foreignKey:ArrivalID" json:"arrival,omitempty"`

	DepartureTime string  `gorm:"size:5" json:"departure_time"` // HH:MM
	ArrivalTime   string  `gorm:"size:5" json:"arrival_time"`
	Price         float64 `json:"price"` // MMK per seat
	TotalSeats    int     `json:"total_seats"`
	SeatClass     string  `gorm:"size:20;default:economy" json:"seat_class"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (f Flight) Duration() time.Duration {
	return clockDuration(f.DepartureTime, f.ArrivalTime)
}

type BusService struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Operator string `gorm:"size:150;not null" json:"operator"`
	BusType  string `gorm:"size:20;default:standard" json:"bus_type"`

	DepartureID uint        `gorm:"index;not null" json:"departure_id"`
	Departure   Destination `gorm:"foreignKey:DepartureID" json:"departure,omitempty"`
	ArrivalID   uint        `gorm:"index;not null" json:"arrival_id"`
	Arrival     Destination `gorm:"foreignKey:ArrivalID" json:"arrival,omitempty"`

	DepartureTime string  `gorm:"size:5" json:"departure_time"`
	ArrivalTime   string  `gorm:"size:5" json:"arrival_time"`
	Price         float64 `json:"price"` // MMK per seat
	TotalSeats    int     `json:"total_seats"`

	Amenities datatypes.JSONSlice[string] `json:"amenities"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b BusService) Duration() time.Duration {
	return clockDuration(b.DepartureTime, b.ArrivalTime)
}

type CarRental struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Company    string      `gorm:"size:150;not null" json:"company"`
	LocationID uint        `gorm:"index;not null" json:"location_id"`
	Location   Destination `gorm:"foreignKey:LocationID" json:"location,omitempty"`

	CarModel    string  `gorm:"size:100" json:"car_model"`
	CarType     string  `gorm:"size:20" json:"car_type"`
	Seats       int     `json:"seats"`
	PricePerDay float64 `json:"price_per_day"` // MMK
	WithDriver  bool    `json:"with_driver"`
	FleetSize   int     `gorm:"default:1" json:"fleet_size"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// clockDuration measures HH:MM to HH:MM, wrapping past midnight.
func clockDuration(from, to string) time.Duration {
	start, err := time.Parse("15:04", strings.TrimSpace(from))
	if err != nil {
		return 0
	}
	end, err := time.Parse("15:04", strings.TrimSpace(to))
	if err != nil {
		return 0
	}
	d := end.Sub(start)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d
}

// ValidClock reports whether s is a HH:MM time of day.
func ValidClock(s string) bool {
	_, err := time.Parse("15:04", strings.TrimSpace(s))
	return err == nil
}

func (f Flight) DisplayName() string {
	if f.Airline.Name != "" {
		return fmt.Sprintf("%s %s", f.Airline.Name, f.FlightNumber)
	}
	return f.FlightNumber
}

func (b BusService) DisplayName() string {
	if b.BusType != "" {
		return fmt.Sprintf("%s (%s)", b.Operator, b.BusType)
	}
	return b.Operator
}

func (c CarRental) DisplayName() string {
	return fmt.Sprintf("%s %s", c.Company, c.CarModel)
}
