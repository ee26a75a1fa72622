package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"myanmar-travel/models"
	"myanmar-travel/utils"

	"gorm.io/gorm"
)

// TransportOption is one bookable flight, bus or car on a given day.
type TransportOption struct {
	Type           models.TransportType `json:"type"`
	ID             uint                 `json:"id"`
	Name           string               `json:"name"`
	From           string               `json:"from,omitempty"`
	To             string               `json:"to,omitempty"`
	DepartureTime  string               `json:"departure_time,omitempty"`
	ArrivalTime    string               `json:"arrival_time,omitempty"`
	Duration       string               `json:"duration,omitempty"`
	Date           string               `json:"date"`
	Price          float64              `json:"price"`
	PriceDisplay   string               `json:"price_display"`
	AvailableSeats int                  `json:"available_seats"`
	Capacity       int                  `json:"capacity"`
	Status         string               `json:"status"`
	Scheduled      bool                 `json:"scheduled"`

	Flight *models.Flight     `json:"flight,omitempty"`
	Bus    *models.BusService `json:"bus,omitempty"`
	Car    *models.CarRental  `json:"car,omitempty"`
}

type RouteQuery struct {
	FromID uint
	ToID   uint
	Date   time.Time
}

type TransportService struct {
	DB *gorm.DB
}

func NewTransportService(db *gorm.DB) *TransportService {
	return &TransportService{DB: db}
}

func flightOption(f models.Flight) TransportOption {
	return TransportOption{
		Type:          models.TransportFlight,
		ID:            f.ID,
		Name:          f.DisplayName(),
		From:          f.Departure.Name,
		To:            f.Arrival.Name,
		DepartureTime: f.DepartureTime,
		ArrivalTime:   f.ArrivalTime,
		Duration:      utils.FormatDuration(f.Duration()),
		Price:         f.Price,
		Capacity:      f.TotalSeats,
		Flight:        &f,
	}
}

func busOption(b models.BusService) TransportOption {
	return TransportOption{
		Type:          models.TransportBus,
		ID:            b.ID,
		Name:          b.DisplayName(),
		From:          b.Departure.Name,
		To:            b.Arrival.Name,
		DepartureTime: b.DepartureTime,
		ArrivalTime:   b.ArrivalTime,
		Duration:      utils.FormatDuration(b.Duration()),
		Price:         b.Price,
		Capacity:      b.TotalSeats,
		Bus:           &b,
	}
}

func carOption(c models.CarRental) TransportOption {
	return TransportOption{
		Type:     models.TransportCar,
		ID:       c.ID,
		Name:     c.DisplayName(),
		From:     c.Location.Name,
		To:       c.Location.Name,
		Price:    c.PricePerDay,
		Capacity: c.FleetSize,
		Car:      &c,
	}
}

// applySchedules overlays the day's schedule rows onto options. Options
// without a row keep the base price and full capacity.
func (s *TransportService) applySchedules(ctx context.Context, tt models.TransportType, date time.Time, opts []TransportOption) error {
	day := utils.DateOnly(date)
	for i := range opts {
		opts[i].Date = day.Format(utils.DateLayout)
		opts[i].AvailableSeats = opts[i].Capacity
		opts[i].Status = models.ScheduleStatus(opts[i].Capacity, opts[i].Capacity)
	}
	if len(opts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(opts))
	for _, o := range opts {
		ids = append(ids, o.ID)
	}
	var rows []models.TransportSchedule
	err := s.DB.WithContext(ctx).
		Where("transport_type = ? AND transport_id IN ? AND schedule_date >= ? AND schedule_date < ?", tt, ids, day, day.AddDate(0, 0, 1)).
		Find(&rows).Error
	if err != nil {
		return fmt.Errorf("load schedules: %w", err)
	}
	byID := make(map[uint]models.TransportSchedule, len(rows))
	for _, r := range rows {
		byID[r.TransportID] = r
	}
	for i := range opts {
		if r, ok := byID[opts[i].ID]; ok {
			opts[i].Price = r.Price
			opts[i].AvailableSeats = r.AvailableSeats
			opts[i].Status = r.Status
			opts[i].Scheduled = true
		}
		opts[i].PriceDisplay = utils.FormatMMK(opts[i].Price)
	}
	return nil
}

func (s *TransportService) SearchFlights(ctx context.Context, q RouteQuery) ([]TransportOption, error) {
	tx := s.DB.WithContext(ctx).Preload("Airline").Preload("Departure").Preload("Arrival")
	if q.FromID != 0 {
		tx = tx.Where("departure_id = ?", q.FromID)
	}
	if q.ToID != 0 {
		tx = tx.Where("arrival_id = ?", q.ToID)
	}
	var flights []models.Flight
	if err := tx.Order("departure_time ASC").Find(&flights).Error; err != nil {
		return nil, fmt.Errorf("search flights: %w", err)
	}
	opts := make([]TransportOption, 0, len(flights))
	for _, f := range flights {
		opts = append(opts, flightOption(f))
	}
	return opts, s.applySchedules(ctx, models.TransportFlight, q.Date, opts)
}

func (s *TransportService) SearchBuses(ctx context.Context, q RouteQuery) ([]TransportOption, error) {
	tx := s.DB.WithContext(ctx).Preload("Departure").Preload("Arrival")
	if q.FromID != 0 {
		tx = tx.Where("departure_id = ?", q.FromID)
	}
	if q.ToID != 0 {
		tx = tx.Where("arrival_id = ?", q.ToID)
	}
	var buses []models.BusService
	if err := tx.Order("departure_time ASC").Find(&buses).Error; err != nil {
		return nil, fmt.Errorf("search buses: %w", err)
	}
	opts := make([]TransportOption, 0, len(buses))
	for _, b := range buses {
		opts = append(opts, busOption(b))
	}
	return opts, s.applySchedules(ctx, models.TransportBus, q.Date, opts)
}

func (s *TransportService) SearchCars(ctx context.Context, locationID uint, date time.Time) ([]TransportOption, error) {
	tx := s.DB.WithContext(ctx).Preload("Location")
	if locationID != 0 {
		tx = tx.Where("location_id = ?", locationID)
	}
	var cars []models.CarRental
	if err := tx.Order("price_per_day ASC").Find(&cars).Error; err != nil {
		return nil, fmt.Errorf("search cars: %w", err)
	}
	opts := make([]TransportOption, 0, len(cars))
	for _, c := range cars {
		opts = append(opts, carOption(c))
	}
	return opts, s.applySchedules(ctx, models.TransportCar, date, opts)
}

// Option loads one transport by type and id, without schedule data.
func (s *TransportService) Option(ctx context.Context, tt models.TransportType, id uint) (TransportOption, error) {
	db := s.DB.WithContext(ctx)
	switch tt {
	case models.TransportFlight:
		var f models.Flight
		if err := db.Preload("Airline").Preload("Departure").Preload("Arrival").First(&f, id).Error; err != nil {
			return TransportOption{}, notFound(err)
		}
		return flightOption(f), nil
	case models.TransportBus:
		var b models.BusService
		if err := db.Preload("Departure").Preload("Arrival").First(&b, id).Error; err != nil {
			return TransportOption{}, notFound(err)
		}
		return busOption(b), nil
	case models.TransportCar:
		var c models.CarRental
		if err := db.Preload("Location").First(&c, id).Error; err != nil {
			return TransportOption{}, notFound(err)
		}
		return carOption(c), nil
	}
	return TransportOption{}, fmt.Errorf("%w: unknown transport type %q", ErrInvalidInput, tt)
}

// Schedule returns the materialised row for one transport on one day.
func Schedule(ctx context.Context, db *gorm.DB, tt models.TransportType, id uint, date time.Time) (models.TransportSchedule, error) {
	day := utils.DateOnly(date)
	var row models.TransportSchedule
	err := db.WithContext(ctx).
		Where("transport_type = ? AND transport_id = ? AND schedule_date >= ? AND schedule_date < ?", tt, id, day, day.AddDate(0, 0, 1)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.TransportSchedule{}, ErrNoSchedule
	}
	return row, err
}

// SeatLabels lists the seat names of a vehicle: flights use rows of six
// ("1A".."1F"), buses are numbered ("B01"). Cars have no seat map.
func SeatLabels(tt models.TransportType, capacity int) []string {
	if capacity <= 0 {
		return nil
	}
	labels := make([]string, 0, capacity)
	switch tt {
	case models.TransportFlight:
		const letters = "ABCDEF"
		for i := 0; i < capacity; i++ {
			labels = append(labels, fmt.Sprintf("%d%c", i/len(letters)+1, letters[i%len(letters)]))
		}
	case models.TransportBus:
		for i := 1; i <= capacity; i++ {
			labels = append(labels, fmt.Sprintf("B%02d", i))
		}
	default:
		return nil
	}
	return labels
}

// TakenSeats collects seat labels held by booked trips on the same
// transport and day.
func TakenSeats(ctx context.Context, db *gorm.DB, tt models.TransportType, id uint, date string) (map[string]bool, error) {
	var trips []models.TripPlan
	err := db.WithContext(ctx).
		Where("transport_key = ? AND status = ?", models.TransportKey(tt, id, date), models.TripBooked).
		Find(&trips).Error
	if err != nil {
		return nil, fmt.Errorf("load booked trips: %w", err)
	}
	taken := map[string]bool{}
	for _, t := range trips {
		if sel, ok := t.Transport(); ok {
			for _, seat := range sel.Seats {
				taken[strings.ToUpper(seat)] = true
			}
		}
	}
	return taken, nil
}

type Seat struct {
	Label string `json:"label"`
	Taken bool   `json:"taken"`
}

type SeatMap struct {
	Type      models.TransportType `json:"type"`
	ID        uint                 `json:"id"`
	Date      string               `json:"date"`
	Capacity  int                  `json:"capacity"`
	Available int                  `json:"available"`
	Seats     []Seat               `json:"seats"`
}

func (s *TransportService) SeatMap(ctx context.Context, tt models.TransportType, id uint, date time.Time) (SeatMap, error) {
	if tt == models.TransportCar {
		return SeatMap{}, fmt.Errorf("%w: cars have no seat map", ErrInvalidInput)
	}
	opt, err := s.Option(ctx, tt, id)
	if err != nil {
		return SeatMap{}, err
	}
	day := utils.DateOnly(date).Format(utils.DateLayout)
	taken, err := TakenSeats(ctx, s.DB, tt, id, day)
	if err != nil {
		return SeatMap{}, err
	}

	sm := SeatMap{Type: tt, ID: id, Date: day, Capacity: opt.Capacity}
	for _, label := range SeatLabels(tt, opt.Capacity) {
		sm.Seats = append(sm.Seats, Seat{Label: label, Taken: taken[label]})
		if !taken[label] {
			sm.Available++
		}
	}
	return sm, nil
}

// ValidateFlight checks times and destination references before a write.
func ValidateFlight(ctx context.Context, db *gorm.DB, f *models.Flight) error {
	f.FlightNumber = strings.ToUpper(strings.TrimSpace(f.FlightNumber))
	if f.FlightNumber == "" {
		return fmt.Errorf("%w: flight_number is required", ErrInvalidInput)
	}
	if err := validateRoute(ctx, db, f.DepartureID, f.ArrivalID, f.DepartureTime, f.ArrivalTime, f.Price, f.TotalSeats); err != nil {
		return err
	}
	if f.SeatClass == "" {
		f.SeatClass = "economy"
	}
	return requireRow(ctx, db, &models.Airline{}, f.AirlineID, "airline")
}

func ValidateBus(ctx context.Context, db *gorm.DB, b *models.BusService) error {
	b.Operator = strings.TrimSpace(b.Operator)
	if b.Operator == "" {
		return fmt.Errorf("%w: operator is required", ErrInvalidInput)
	}
	if b.BusType == "" {
		b.BusType = "standard"
	}
	return validateRoute(ctx, db, b.DepartureID, b.ArrivalID, b.DepartureTime, b.ArrivalTime, b.Price, b.TotalSeats)
}

func ValidateCar(ctx context.Context, db *gorm.DB, c *models.CarRental) error {
	c.Company = strings.TrimSpace(c.Company)
	if c.Company == "" {
		return fmt.Errorf("%w: company is required", ErrInvalidInput)
	}
	if c.PricePerDay < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if c.FleetSize < 1 {
		c.FleetSize = 1
	}
	return requireRow(ctx, db, &models.Destination{}, c.LocationID, "location")
}

func validateRoute(ctx context.Context, db *gorm.DB, from, to uint, dep, arr string, price float64, seats int) error {
	if from == 0 || to == 0 || from == to {
		return fmt.Errorf("%w: departure and arrival must be two different destinations", ErrInvalidInput)
	}
	if !models.ValidClock(dep) || !models.ValidClock(arr) {
		return fmt.Errorf("%w: times must be HH:MM", ErrInvalidInput)
	}
	if price < 0 || seats <= 0 {
		return fmt.Errorf("%w: price must not be negative and seats must be positive", ErrInvalidInput)
	}
	if err := requireRow(ctx, db, &models.Destination{}, from, "departure"); err != nil {
		return err
	}
	return requireRow(ctx, db, &models.Destination{}, to, "arrival")
}

func requireRow(ctx context.Context, db *gorm.DB, model any, id uint, label string) error {
	var n int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d does not exist", ErrInvalidInput, label, id)
	}
	return nil
}
