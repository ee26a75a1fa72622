package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"myanmar-travel/models"
	"myanmar-travel/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// adminResource is the CRUD surface of one catalogue table.
type adminResource struct {
	list   func(ctx context.Context, db *gorm.DB, q string, offset, limit int) (any, int64, error)
	get    func(ctx context.Context, db *gorm.DB, id uint) (any, error)
	save   func(ctx context.Context, db *gorm.DB, id uint, body []byte) (any, error)
	remove func(ctx context.Context, tx *gorm.DB, ids []uint) (int64, error)
}

// protectedFields never come from a request body.
var protectedFields = []string{"id", "created_at", "updated_at", "deleted_at"}

func stripProtected(body []byte) ([]byte, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidInput)
	}
	for _, k := range protectedFields {
		delete(m, k)
	}
	return json.Marshal(m)
}

func resource[T any](preload []string, order, search string, tt models.TransportType, validate func(context.Context, *gorm.DB, *T) error) adminResource {
	withPreload := func(db *gorm.DB) *gorm.DB {
		for _, p := range preload {
			db = db.Preload(p)
		}
		return db
	}
	get := func(ctx context.Context, db *gorm.DB, id uint) (any, error) {
		var v T
		if err := withPreload(db.WithContext(ctx)).First(&v, id).Error; err != nil {
			return nil, notFound(err)
		}
		return v, nil
	}

	return adminResource{
		list: func(ctx context.Context, db *gorm.DB, q string, offset, limit int) (any, int64, error) {
			tx := db.WithContext(ctx).Model(new(T))
			if q = strings.ToLower(strings.TrimSpace(q)); q != "" && search != "" {
				tx = tx.Where("LOWER("+search+") LIKE ?", "%"+q+"%")
			}
			var total int64
			if err := tx.Count(&total).Error; err != nil {
				return nil, 0, err
			}
			var rows []T
			if err := withPreload(tx).Order(order).Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
				return nil, 0, err
			}
			return rows, total, nil
		},
		get: get,
		save: func(ctx context.Context, db *gorm.DB, id uint, body []byte) (any, error) {
			body, err := stripProtected(body)
			if err != nil {
				return nil, err
			}
			var v T
			if id != 0 {
				if err := db.WithContext(ctx).First(&v, id).Error; err != nil {
					return nil, notFound(err)
				}
			}
			if err := json.Unmarshal(body, &v); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			if err := validate(ctx, db, &v); err != nil {
				return nil, err
			}
			write := db.WithContext(ctx).Omit(clause.Associations)
			if id != 0 {
				err = write.Save(&v).Error
			} else {
				err = write.Create(&v).Error
			}
			if err != nil {
				if IsDuplicateKey(err) {
					return nil, ErrDuplicate
				}
				return nil, err
			}
			return v, nil
		},
		remove: func(ctx context.Context, tx *gorm.DB, ids []uint) (int64, error) {
			res := tx.WithContext(ctx).Delete(new(T), ids)
			if res.Error != nil {
				return 0, res.Error
			}
			if tt != "" {
				if err := tx.WithContext(ctx).Where("transport_type = ? AND transport_id IN ?", tt, ids).
					Delete(&models.TransportSchedule{}).Error; err != nil {
					return 0, err
				}
			}
			return res.RowsAffected, nil
		},
	}
}

func validateAirline(_ context.Context, _ *gorm.DB, a *models.Airline) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Code = strings.ToUpper(strings.TrimSpace(a.Code))
	if a.Name == "" || a.Code == "" {
		return fmt.Errorf("%w: name and code are required", ErrInvalidInput)
	}
	return nil
}

var adminResources = map[string]adminResource{
	"destinations": resource[models.Destination](nil, "name ASC", "name", "",
		func(_ context.Context, _ *gorm.DB, d *models.Destination) error { return validateDestination(d) }),
	"hotels":   resource[models.Hotel]([]string{"Destination"}, "name ASC", "name", "", validateHotel),
	"airlines": resource[models.Airline](nil, "name ASC", "name", "", validateAirline),
	"flights": resource[models.Flight]([]string{"Airline", "Departure", "Arrival"}, "flight_number ASC", "flight_number",
		models.TransportFlight, ValidateFlight),
	"buses": resource[models.BusService]([]string{"Departure", "Arrival"}, "operator ASC", "operator",
		models.TransportBus, ValidateBus),
	"cars": resource[models.CarRental]([]string{"Location"}, "company ASC", "company",
		models.TransportCar, ValidateCar),
}

type AdminPage struct {
	Items    any   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

type Dashboard struct {
	Counts       map[string]int64 `json:"counts"`
	BookedTrips  int64            `json:"booked_trips"`
	DraftTrips   int64            `json:"draft_trips"`
	Revenue      float64          `json:"revenue_mmk"`
	RevenueLabel string           `json:"revenue_display"`
}

type AdminService struct {
	DB *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db}
}

func AdminResources() []string {
	names := make([]string, 0, len(adminResources))
	for k := range adminResources {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func lookupResource(name string) (adminResource, error) {
	r, ok := adminResources[strings.ToLower(name)]
	if !ok {
		return adminResource{}, fmt.Errorf("%w: unknown resource %q", ErrNotFound, name)
	}
	return r, nil
}

func (s *AdminService) List(ctx context.Context, name, q string, page, size int) (AdminPage, error) {
	r, err := lookupResource(name)
	if err != nil {
		return AdminPage{}, err
	}
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 50
	}
	items, total, err := r.list(ctx, s.DB, q, (page-1)*size, size)
	if err != nil {
		return AdminPage{}, fmt.Errorf("list %s: %w", name, err)
	}
	return AdminPage{Items: items, Total: total, Page: page, PageSize: size}, nil
}

func (s *AdminService) Get(ctx context.Context, name string, id uint) (any, error) {
	r, err := lookupResource(name)
	if err != nil {
		return nil, err
	}
	return r.get(ctx, s.DB, id)
}

// Create decodes body into the resource's model, validates and inserts it.
func (s *AdminService) Create(ctx context.Context, name string, body []byte) (any, error) {
	r, err := lookupResource(name)
	if err != nil {
		return nil, err
	}
	return r.save(ctx, s.DB, 0, body)
}

// Update merges body onto the stored row, so absent fields keep their value.
func (s *AdminService) Update(ctx context.Context, name string, id uint, body []byte) (any, error) {
	r, err := lookupResource(name)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, ErrNotFound
	}
	if _, err := r.save(ctx, s.DB, id, body); err != nil {
		return nil, err
	}
	return r.get(ctx, s.DB, id)
}

func (s *AdminService) Delete(ctx context.Context, name string, id uint) error {
	n, err := s.BulkDelete(ctx, name, []uint{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkDelete removes rows by id in one transaction. Transport rows take
// their schedules with them.
func (s *AdminService) BulkDelete(ctx context.Context, name string, ids []uint) (int64, error) {
	r, err := lookupResource(name)
	if err != nil {
		return 0, err
	}
	clean := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != 0 {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return 0, fmt.Errorf("%w: ids are required", ErrInvalidInput)
	}
	var n int64
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = r.remove(ctx, tx, clean)
		return err
	})
	return n, err
}

func (s *AdminService) Dashboard(ctx context.Context) (Dashboard, error) {
	d := Dashboard{Counts: map[string]int64{}}
	db := s.DB.WithContext(ctx)
	tables := map[string]any{
		"destinations": &models.Destination{},
		"hotels":       &models.Hotel{},
		"flights":      &models.Flight{},
		"buses":        &models.BusService{},
		"cars":         &models.CarRental{},
		"users":        &models.User{},
		"posts":        &models.Post{},
	}
	for name, model := range tables {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			return d, fmt.Errorf("count %s: %w", name, err)
		}
		d.Counts[name] = n
	}
	if err := db.Model(&models.TripPlan{}).Where("status = ?", models.TripBooked).Count(&d.BookedTrips).Error; err != nil {
		return d, err
	}
	if err := db.Model(&models.TripPlan{}).Where("status = ?", models.TripDraft).Count(&d.DraftTrips).Error; err != nil {
		return d, err
	}
	var revenue struct{ Total float64 }
	if err := db.Model(&models.TripPlan{}).Select("COALESCE(SUM(total_cost), 0) AS total").
		Where("status = ?", models.TripBooked).Scan(&revenue).Error; err != nil {
		return d, err
	}
	d.Revenue = revenue.Total
	d.RevenueLabel = utils.FormatMMK(d.Revenue)
	return d, nil
}
