package services

import (
	"context"
	"fmt"
	"strings"

	"myanmar-travel/models"

	"gorm.io/gorm"
)

type DestinationFilter struct {
	Type    string
	Region  string
	Query   string
	Popular *bool
}

type DestinationService struct {
	DB *gorm.DB
}

func NewDestinationService(db *gorm.DB) *DestinationService {
	return &DestinationService{DB: db}
}

func (s *DestinationService) List(ctx context.Context, f DestinationFilter) ([]models.Destination, error) {
	q := s.DB.WithContext(ctx).Model(&models.Destination{})
	if t := strings.TrimSpace(f.Type); t != "" {
		q = q.Where("type = ?", strings.ToLower(t))
	}
	if r := strings.TrimSpace(f.Region); r != "" {
		q = q.Where("LOWER(region) = ?", strings.ToLower(r))
	}
	if term := strings.ToLower(strings.TrimSpace(f.Query)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(region) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}
	if f.Popular != nil {
		q = q.Where("is_popular = ?", *f.Popular)
	}

	var out []models.Destination
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	return out, nil
}

func (s *DestinationService) Get(ctx context.Context, id uint) (models.Destination, error) {
	var d models.Destination
	if err := s.DB.WithContext(ctx).First(&d, id).Error; err != nil {
		return models.Destination{}, notFound(err)
	}
	return d, nil
}

// HotelCount is shown on destination detail pages.
func (s *DestinationService) HotelCount(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Hotel{}).Where("destination_id = ?", id).Count(&n).Error
	return n, err
}

func validateDestination(d *models.Destination) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if d.Type == "" {
		d.Type = models.DestinationCity
	}
	d.Type = models.DestinationType(strings.ToLower(string(d.Type)))
	if !d.Type.Valid() {
		return fmt.Errorf("%w: unknown destination type %q", ErrInvalidInput, d.Type)
	}
	if d.Latitude < -90 || d.Latitude > 90 || d.Longitude < -180 || d.Longitude > 180 {
		return fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	return nil
}

// FindByName is a case-insensitive exact match.
func (s *DestinationService) FindByName(ctx context.Context, name string) (models.Destination, error) {
	var d models.Destination
	err := s.DB.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&d).Error
	if err != nil {
		return models.Destination{}, notFound(err)
	}
	return d, nil
}
