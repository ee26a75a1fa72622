package models

import "time"

const (
	ScheduleAvailable = "available"
	ScheduleLimited   = "limited"
	ScheduleSoldOut   = "sold_out"
)

// TransportSchedule is the materialised price/availability row of one
// transport on one day.
type TransportSchedule struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	TransportType TransportType `gorm:"size:10;not null;uniqueIndex:idx_schedule_day" json:"transport_type"`
	TransportID   uint          `gorm:"not null;uniqueIndex:idx_schedule_day" json:"transport_id"`
	Date          time.Time     `gorm:"column:schedule_date;not null;uniqueIndex:idx_schedule_day" json:"date"`

	Price          float64 `json:"price"` // MMK
	AvailableSeats int     `json:"available_seats"`
	Status         string  `gorm:"size:20;default:available" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScheduleStatus derives the status label from remaining capacity.
func ScheduleStatus(available, capacity int) string {
	if available <= 0 {
		return ScheduleSoldOut
	}
	if capacity > 0 && float64(available) < float64(capacity)*0.2 {
		return ScheduleLimited
	}
	return ScheduleAvailable
}
