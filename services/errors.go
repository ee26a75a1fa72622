package services

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Sentinel errors. The text doubles as the machine-readable code.
var (
	ErrNotFound          = errors.New("not_found")
	ErrInvalidInput      = errors.New("invalid_input")
	ErrDuplicate         = errors.New("duplicate")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidDates      = errors.New("invalid_dates")
	ErrTripNotDraft      = errors.New("trip_not_draft")
	ErrTripNotBooked     = errors.New("trip_not_booked")
	ErrHotelMismatch     = errors.New("hotel_not_in_destination")
	ErrNoSchedule        = errors.New("schedule_not_found")
	ErrInsufficientSeats = errors.New("insufficient_seats")
	ErrInvalidSeats      = errors.New("invalid_seats")
	ErrSeatTaken         = errors.New("seat_taken")
	ErrNoTransport       = errors.New("transport_not_selected")
	ErrInvalidCredential = errors.New("invalid_credentials")
)

// notFound maps gorm.ErrRecordNotFound to ErrNotFound and passes other
// errors through.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// IsDuplicateKey recognises unique violations across drivers.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate") || strings.Contains(lower, "unique constraint")
}
