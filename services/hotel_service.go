package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"myanmar-travel/models"
	"myanmar-travel/utils"

	"gorm.io/gorm"
)

type HotelFilter struct {
	DestinationID uint
	Category      string
	MinPrice      float64 // USD
	MaxPrice      float64 // USD
	MinRating     float64
	Amenity       string
	NearLat       *float64
	NearLng       *float64
	RadiusKm      float64
	Sort          string // price | -price | rating | distance
}

// HotelView decorates a hotel with converted prices and distance.
type HotelView struct {
	models.Hotel
	PriceMMK     float64  `json:"price_mmk"`
	PriceDisplay string   `json:"price_display"`
	USDDisplay   string   `json:"usd_display"`
	DistanceKm   *float64 `json:"distance_km,omitempty"`
}

type HotelService struct {
	DB   *gorm.DB
	Rate float64
}

func NewHotelService(db *gorm.DB, rate float64) *HotelService {
	return &HotelService{DB: db, Rate: rate}
}

func (s *HotelService) view(h models.Hotel) HotelView {
	mmk := h.PriceInMMK(s.Rate)
	return HotelView{
		Hotel:        h,
		PriceMMK:     mmk,
		PriceDisplay: utils.FormatMMK(mmk),
		USDDisplay:   utils.FormatUSD(h.PricePerNight),
	}
}

func (s *HotelService) List(ctx context.Context, f HotelFilter) ([]HotelView, error) {
	q := s.DB.WithContext(ctx).Model(&models.Hotel{}).Preload("Destination")
	if f.DestinationID != 0 {
		q = q.Where("destination_id = ?", f.DestinationID)
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where("category = ?", strings.ToLower(c))
	}
	if f.MinPrice > 0 {
		q = q.Where("price_per_night >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price_per_night <= ?", f.MaxPrice)
	}
	if f.MinRating > 0 {
		q = q.Where("rating >= ?", f.MinRating)
	}

	switch f.Sort {
	case "price":
		q = q.Order("price_per_night ASC")
	case "-price":
		q = q.Order("price_per_night DESC")
	case "rating":
		q = q.Order("rating DESC").Order("review_count DESC")
	default:
		q = q.Order("id ASC")
	}

	var hotels []models.Hotel
	if err := q.Find(&hotels).Error; err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}

	out := make([]HotelView, 0, len(hotels))
	for _, h := range hotels {
		// amenities live in a JSON column, so this filter runs in Go
		if f.Amenity != "" && !h.HasAmenity(f.Amenity) {
			continue
		}
		v := s.view(h)
		if f.NearLat != nil && f.NearLng != nil {
			d := HaversineKm(*f.NearLat, *f.NearLng, h.Latitude, h.Longitude)
			if f.RadiusKm > 0 && d > f.RadiusKm {
				continue
			}
			v.DistanceKm = &d
		}
		out = append(out, v)
	}

	if f.Sort == "distance" && f.NearLat != nil {
		sort.SliceStable(out, func(i, j int) bool {
			return *out[i].DistanceKm < *out[j].DistanceKm
		})
	}
	return out, nil
}

func (s *HotelService) Get(ctx context.Context, id uint) (HotelView, error) {
	var h models.Hotel
	if err := s.DB.WithContext(ctx).Preload("Destination").First(&h, id).Error; err != nil {
		return HotelView{}, notFound(err)
	}
	return s.view(h), nil
}

func validateHotel(ctx context.Context, db *gorm.DB, h *models.Hotel) error {
	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if h.PricePerNight < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if h.Rating < 0 || h.Rating > 5 {
		return fmt.Errorf("%w: rating must be within 0-5", ErrInvalidInput)
	}
	h.Category = strings.ToLower(strings.TrimSpace(h.Category))
	if h.Category == "" {
		h.Category = "mid-range"
	}
	var n int64
	if err := db.WithContext(ctx).Model(&models.Destination{}).Where("id = ?", h.DestinationID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: destination %d does not exist", ErrInvalidInput, h.DestinationID)
	}
	return nil
}
