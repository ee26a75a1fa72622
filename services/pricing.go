package services

import (
	"math"
	"time"

	"myanmar-travel/models"
	"myanmar-travel/utils"
)

// Nights counts calendar days between start and end. Anything that is not
// positive counts as one night.
func Nights(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 1
	}
	n := int(math.Round(utils.DateOnly(end).Sub(utils.DateOnly(start)).Hours() / 24))
	if n <= 0 {
		return 1
	}
	return n
}

// HotelCostMMK = USD price per night × nights × rooms × rate.
func HotelCostMMK(pricePerNightUSD float64, nights, rooms int, rate float64) float64 {
	if rooms < 1 {
		rooms = 1
	}
	if nights < 1 {
		nights = 1
	}
	return pricePerNightUSD * float64(nights) * float64(rooms) * rate
}

// TransportQuantity is seats for flights and buses, rental days for cars.
func TransportQuantity(t models.TransportType, travelers, nights int) int {
	switch t {
	case models.TransportCar:
		if nights < 1 {
			return 1
		}
		return nights
	default:
		if travelers < 1 {
			return 1
		}
		return travelers
	}
}

type CostBreakdown struct {
	Nights           int     `json:"nights"`
	Rooms            int     `json:"rooms"`
	Travelers        int     `json:"travelers"`
	HotelNightlyUSD  float64 `json:"hotel_nightly_usd"`
	HotelTotalUSD    float64 `json:"hotel_total_usd"`
	HotelTotalMMK    float64 `json:"hotel_total_mmk"`
	TransportMMK     float64 `json:"transport_mmk"`
	TotalMMK         float64 `json:"total_mmk"`
	ExchangeRate     float64 `json:"exchange_rate"`
	HotelDisplay     string  `json:"hotel_display"`
	TransportDisplay string  `json:"transport_display"`
	TotalDisplay     string  `json:"total_display"`
}

// TripCost composes hotel and transport into the trip total (MMK).
func TripCost(trip models.TripPlan, rate float64) CostBreakdown {
	nights := Nights(trip.StartDate, trip.EndDate)
	rooms := trip.Rooms
	if rooms < 1 {
		rooms = 1
	}

	cb := CostBreakdown{
		Nights:       nights,
		Rooms:        rooms,
		Travelers:    trip.Travelers,
		ExchangeRate: rate,
	}

	if trip.Hotel != nil && trip.Hotel.ID != 0 {
		cb.HotelNightlyUSD = trip.Hotel.PricePerNight
		cb.HotelTotalUSD = trip.Hotel.PricePerNight * float64(nights) * float64(rooms)
		cb.HotelTotalMMK = HotelCostMMK(trip.Hotel.PricePerNight, nights, rooms, rate)
	}
	if sel, ok := trip.Transport(); ok {
		cb.TransportMMK = sel.TotalPrice
	}

	cb.TotalMMK = cb.HotelTotalMMK + cb.TransportMMK
	cb.HotelDisplay = utils.FormatMMK(cb.HotelTotalMMK)
	cb.TransportDisplay = utils.FormatMMK(cb.TransportMMK)
	cb.TotalDisplay = utils.FormatMMK(cb.TotalMMK)
	return cb
}
