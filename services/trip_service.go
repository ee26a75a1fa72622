package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"myanmar-travel/models"
	"myanmar-travel/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TripInput struct {
	Title         string
	DestinationID uint
	StartDate     time.Time
	EndDate       time.Time
	Travelers     int
	Rooms         int
	Notes         string
}

// TripUpdate carries the optional fields of a PATCH. Dates, travelers and
// rooms can only change while the trip is a draft.
type TripUpdate struct {
	Title     *string
	Notes     *string
	StartDate *time.Time
	EndDate   *time.Time
	Travelers *int
	Rooms     *int
}

type TransportChoice struct {
	Type models.TransportType
	ID   uint
	Date time.Time // zero means the trip start date
}

type TripSummary struct {
	Trip models.TripPlan `json:"trip"`
	Cost CostBreakdown   `json:"cost"`
}

type TripService struct {
	DB          *gorm.DB
	Rate        float64
	SMTP        utils.SMTPConfig
	FrontendURL string
}

func NewTripService(db *gorm.DB, rate float64) *TripService {
	return &TripService{DB: db, Rate: rate}
}

func (s *TripService) owned(ctx context.Context, db *gorm.DB, userID, tripID uint) (models.TripPlan, error) {
	var trip models.TripPlan
	err := db.WithContext(ctx).Preload("Destination").Preload("Hotel").
		Where("id = ? AND user_id = ?", tripID, userID).
		First(&trip).Error
	if err != nil {
		return models.TripPlan{}, notFound(err)
	}
	return trip, nil
}

func (s *TripService) ownedDraft(ctx context.Context, userID, tripID uint) (models.TripPlan, error) {
	trip, err := s.owned(ctx, s.DB, userID, tripID)
	if err != nil {
		return trip, err
	}
	if trip.Status != models.TripDraft {
		return trip, ErrTripNotDraft
	}
	return trip, nil
}

func checkDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidDates)
	}
	if utils.DateOnly(end).Before(utils.DateOnly(start)) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidDates)
	}
	return nil
}

// Create opens a draft trip. Reference codes are retried on collision.
func (s *TripService) Create(ctx context.Context, userID uint, in TripInput) (models.TripPlan, error) {
	if err := checkDates(in.StartDate, in.EndDate); err != nil {
		return models.TripPlan{}, err
	}
	var dest models.Destination
	if err := s.DB.WithContext(ctx).First(&dest, in.DestinationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.TripPlan{}, fmt.Errorf("%w: destination %d does not exist", ErrInvalidInput, in.DestinationID)
		}
		return models.TripPlan{}, err
	}
	if in.Travelers < 1 {
		in.Travelers = 1
	}
	if in.Rooms < 1 {
		in.Rooms = 1
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Trip to " + dest.Name
	}

	trip := models.TripPlan{
		UserID:        userID,
		Title:         title,
		DestinationID: dest.ID,
		StartDate:     utils.DateOnly(in.StartDate),
		EndDate:       utils.DateOnly(in.EndDate),
		Travelers:     in.Travelers,
		Rooms:         in.Rooms,
		Notes:         strings.TrimSpace(in.Notes),
		Status:        models.TripDraft,
	}
	trip.ClearTransport()

	var createErr error
	for attempt := 0; attempt < 5; attempt++ {
		trip.ID = 0
		trip.ReferenceCode = utils.NewReferenceCode()
		createErr = s.DB.WithContext(ctx).Omit(clause.Associations).Create(&trip).Error
		if createErr == nil {
			break
		}
		if IsDuplicateKey(createErr) {
			log.Printf("trip reference collision (attempt %d) - retrying", attempt+1)
			continue
		}
		return models.TripPlan{}, fmt.Errorf("create trip: %w", createErr)
	}
	if createErr != nil {
		return models.TripPlan{}, fmt.Errorf("create trip after retries: %w", createErr)
	}
	trip.Destination = dest
	return trip, nil
}

func (s *TripService) List(ctx context.Context, userID uint, status string) ([]models.TripPlan, error) {
	tx := s.DB.WithContext(ctx).Preload("Destination").Preload("Hotel").Where("user_id = ?", userID)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var trips []models.TripPlan
	if err := tx.Order("created_at DESC").Find(&trips).Error; err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return trips, nil
}

func (s *TripService) Get(ctx context.Context, userID, tripID uint) (models.TripPlan, error) {
	return s.owned(ctx, s.DB, userID, tripID)
}

// ByReference looks a trip up by its public reference code.
func (s *TripService) ByReference(ctx context.Context, ref string) (models.TripPlan, error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if ref == "" {
		return models.TripPlan{}, fmt.Errorf("%w: empty reference", ErrInvalidInput)
	}
	var trip models.TripPlan
	err := s.DB.WithContext(ctx).Preload("Destination").Preload("Hotel").
		Where("reference_code = ?", ref).First(&trip).Error
	return trip, notFound(err)
}

func (s *TripService) Update(ctx context.Context, userID, tripID uint, in TripUpdate) (models.TripPlan, error) {
	trip, err := s.owned(ctx, s.DB, userID, tripID)
	if err != nil {
		return trip, err
	}
	if in.Title != nil {
		trip.Title = strings.TrimSpace(*in.Title)
	}
	if in.Notes != nil {
		trip.Notes = strings.TrimSpace(*in.Notes)
	}

	planChanged := in.StartDate != nil || in.EndDate != nil || in.Travelers != nil || in.Rooms != nil
	if planChanged {
		if trip.Status != models.TripDraft {
			return trip, ErrTripNotDraft
		}
		start, end := trip.StartDate, trip.EndDate
		if in.StartDate != nil {
			start = utils.DateOnly(*in.StartDate)
		}
		if in.EndDate != nil {
			end = utils.DateOnly(*in.EndDate)
		}
		if err := checkDates(start, end); err != nil {
			return trip, err
		}
		trip.StartDate, trip.EndDate = start, end
		if in.Rooms != nil {
			trip.Rooms = max(*in.Rooms, 1)
		}
		if in.Travelers != nil && max(*in.Travelers, 1) != trip.Travelers {
			trip.Travelers = max(*in.Travelers, 1)
			if sel, ok := trip.Transport(); ok {
				sel.Seats = nil
				trip.SetTransport(sel)
			}
		}
		if sel, ok := trip.Transport(); ok {
			sel.Quantity = TransportQuantity(sel.Type, trip.Travelers, Nights(trip.StartDate, trip.EndDate))
			sel.TotalPrice = sel.UnitPrice * float64(sel.Quantity)
			trip.SetTransport(sel)
		}
	}

	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Save(&trip).Error; err != nil {
		return trip, fmt.Errorf("update trip: %w", err)
	}
	return trip, nil
}

// Delete removes a trip. Booked trips give their seats back first.
func (s *TripService) Delete(ctx context.Context, userID, tripID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trip, err := s.owned(ctx, tx, userID, tripID)
		if err != nil {
			return err
		}
		if trip.Status == models.TripBooked {
			if err := releaseSeats(ctx, tx, trip); err != nil {
				return err
			}
		}
		return tx.Delete(&models.TripPlan{}, trip.ID).Error
	})
}

// SelectHotel attaches a hotel in the trip's destination. Zero clears it.
func (s *TripService) SelectHotel(ctx context.Context, userID, tripID, hotelID uint) (models.TripPlan, error) {
	trip, err := s.ownedDraft(ctx, userID, tripID)
	if err != nil {
		return trip, err
	}
	if hotelID == 0 {
		trip.HotelID, trip.Hotel = nil, nil
	} else {
		var hotel models.Hotel
		if err := s.DB.WithContext(ctx).First(&hotel, hotelID).Error; err != nil {
			return trip, notFound(err)
		}
		if hotel.DestinationID != trip.DestinationID {
			return trip, ErrHotelMismatch
		}
		trip.HotelID, trip.Hotel = &hotel.ID, &hotel
	}
	err = s.DB.WithContext(ctx).Model(&models.TripPlan{}).Where("id = ?", trip.ID).
		Update("hotel_id", trip.HotelID).Error
	if err != nil {
		return trip, fmt.Errorf("select hotel: %w", err)
	}
	return trip, nil
}

// seatsNeeded is how much of a schedule's availability one trip consumes:
// one seat per traveler, or one vehicle for a car.
func seatsNeeded(sel models.TransportSelection, travelers int) int {
	if sel.Type == models.TransportCar {
		return 1
	}
	return max(travelers, 1)
}

// SaveTransport resolves the day's schedule and stores the denormalised
// selection on the trip.
func (s *TripService) SaveTransport(ctx context.Context, userID, tripID uint, choice TransportChoice) (models.TripPlan, error) {
	trip, err := s.ownedDraft(ctx, userID, tripID)
	if err != nil {
		return trip, err
	}
	date := choice.Date
	if date.IsZero() {
		date = trip.StartDate
	}
	day := utils.DateOnly(date)

	opt, err := NewTransportService(s.DB).Option(ctx, choice.Type, choice.ID)
	if err != nil {
		return trip, err
	}
	sched, err := Schedule(ctx, s.DB, choice.Type, choice.ID, day)
	if err != nil {
		return trip, err
	}

	sel := models.TransportSelection{
		Type:          choice.Type,
		ID:            choice.ID,
		Name:          opt.Name,
		From:          opt.From,
		To:            opt.To,
		Date:          day.Format(utils.DateLayout),
		DepartureTime: opt.DepartureTime,
		ArrivalTime:   opt.ArrivalTime,
		UnitPrice:     sched.Price,
	}
	if sched.AvailableSeats < seatsNeeded(sel, trip.Travelers) {
		return trip, ErrInsufficientSeats
	}
	sel.Quantity = TransportQuantity(choice.Type, trip.Travelers, Nights(trip.StartDate, trip.EndDate))
	sel.TotalPrice = sel.UnitPrice * float64(sel.Quantity)
	trip.SetTransport(sel)

	if err := s.saveTransportColumns(ctx, s.DB, &trip); err != nil {
		return trip, err
	}
	return trip, nil
}

func (s *TripService) ClearTransport(ctx context.Context, userID, tripID uint) (models.TripPlan, error) {
	trip, err := s.ownedDraft(ctx, userID, tripID)
	if err != nil {
		return trip, err
	}
	trip.ClearTransport()
	return trip, s.saveTransportColumns(ctx, s.DB, &trip)
}

func (s *TripService) saveTransportColumns(ctx context.Context, db *gorm.DB, trip *models.TripPlan) error {
	err := db.WithContext(ctx).Model(&models.TripPlan{}).Where("id = ?", trip.ID).
		Updates(map[string]any{
			"transport_details": trip.TransportDetails,
			"transport_key":     trip.TransportKey,
		}).Error
	if err != nil {
		return fmt.Errorf("save transport: %w", err)
	}
	return nil
}

func normalizeSeats(seats []string) []string {
	out := make([]string, 0, len(seats))
	for _, seat := range seats {
		seat = strings.ToUpper(strings.TrimSpace(seat))
		if seat != "" {
			out = append(out, seat)
		}
	}
	return out
}

// SelectSeats assigns exactly one seat label per traveler.
func (s *TripService) SelectSeats(ctx context.Context, userID, tripID uint, seats []string) (models.TripPlan, error) {
	trip, err := s.ownedDraft(ctx, userID, tripID)
	if err != nil {
		return trip, err
	}
	sel, ok := trip.Transport()
	if !ok {
		return trip, ErrNoTransport
	}
	if sel.Type == models.TransportCar {
		return trip, fmt.Errorf("%w: cars have no seats", ErrInvalidSeats)
	}

	seats = normalizeSeats(seats)
	if len(seats) != trip.Travelers {
		return trip, fmt.Errorf("%w: choose %d seat(s), got %d", ErrInvalidSeats, trip.Travelers, len(seats))
	}

	opt, err := NewTransportService(s.DB).Option(ctx, sel.Type, sel.ID)
	if err != nil {
		return trip, err
	}
	valid := SeatLabels(sel.Type, opt.Capacity)
	seen := map[string]bool{}
	for _, seat := range seats {
		if !slices.Contains(valid, seat) {
			return trip, fmt.Errorf("%w: unknown seat %s", ErrInvalidSeats, seat)
		}
		if seen[seat] {
			return trip, fmt.Errorf("%w: seat %s chosen twice", ErrInvalidSeats, seat)
		}
		seen[seat] = true
	}

	taken, err := TakenSeats(ctx, s.DB, sel.Type, sel.ID, sel.Date)
	if err != nil {
		return trip, err
	}
	for _, seat := range seats {
		if taken[seat] {
			return trip, fmt.Errorf("%w: %s", ErrSeatTaken, seat)
		}
	}

	sel.Seats = seats
	trip.SetTransport(sel)
	return trip, s.saveTransportColumns(ctx, s.DB, &trip)
}

func (s *TripService) Summary(ctx context.Context, userID, tripID uint) (TripSummary, error) {
	trip, err := s.owned(ctx, s.DB, userID, tripID)
	if err != nil {
		return TripSummary{}, err
	}
	return TripSummary{Trip: trip, Cost: s.cost(trip)}, nil
}

// cost prices a draft from current rates. Booked and cancelled trips report
// the total charged at booking; the hotel line absorbs any price drift.
func (s *TripService) cost(trip models.TripPlan) CostBreakdown {
	cb := TripCost(trip, s.Rate)
	if trip.Status == models.TripDraft || trip.BookedAt == nil {
		return cb
	}
	cb.TotalMMK = trip.TotalCost
	cb.TotalDisplay = utils.FormatMMK(cb.TotalMMK)
	if trip.HotelID != nil {
		cb.HotelTotalMMK = max(trip.TotalCost-cb.TransportMMK, 0)
		cb.HotelDisplay = utils.FormatMMK(cb.HotelTotalMMK)
	}
	return cb
}

// Book confirms a draft. The schedule row is re-read and decremented in
// the same transaction, guarded so availability never goes negative.
func (s *TripService) Book(ctx context.Context, userID, tripID uint) (models.TripPlan, error) {
	var trip models.TripPlan
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		trip, err = s.owned(ctx, tx, userID, tripID)
		if err != nil {
			return err
		}
		if trip.Status != models.TripDraft {
			return ErrTripNotDraft
		}
		sel, hasTransport := trip.Transport()
		if trip.HotelID == nil && !hasTransport {
			return fmt.Errorf("%w: select a hotel or transport first", ErrInvalidInput)
		}

		if hasTransport {
			if sel.Type != models.TransportCar && len(sel.Seats) > 0 {
				taken, err := TakenSeats(ctx, tx, sel.Type, sel.ID, sel.Date)
				if err != nil {
					return err
				}
				for _, seat := range sel.Seats {
					if taken[seat] {
						return fmt.Errorf("%w: %s", ErrSeatTaken, seat)
					}
				}
			}
			if err := takeSeats(ctx, tx, sel, seatsNeeded(sel, trip.Travelers)); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		cost := TripCost(trip, s.Rate)
		trip.Status = models.TripBooked
		trip.TotalCost = cost.TotalMMK
		trip.BookedAt = &now
		return tx.Model(&models.TripPlan{}).Where("id = ?", trip.ID).Updates(map[string]any{
			"status":     trip.Status,
			"total_cost": trip.TotalCost,
			"booked_at":  trip.BookedAt,
		}).Error
	})
	if err != nil {
		return trip, err
	}

	log.Printf("✅ Trip %s booked by user %d (%s)", trip.ReferenceCode, userID, utils.FormatMMK(trip.TotalCost))
	s.notifyBooked(ctx, trip)
	return trip, nil
}

func takeSeats(ctx context.Context, tx *gorm.DB, sel models.TransportSelection, need int) error {
	day, err := utils.ParseDate(sel.Date)
	if err != nil {
		return fmt.Errorf("%w: bad transport date", ErrInvalidInput)
	}
	sched, err := Schedule(ctx, tx, sel.Type, sel.ID, day)
	if err != nil {
		return err
	}
	if sched.AvailableSeats < need {
		return ErrInsufficientSeats
	}
	opt, err := NewTransportService(tx).Option(ctx, sel.Type, sel.ID)
	if err != nil {
		return err
	}
	left := sched.AvailableSeats - need
	res := tx.WithContext(ctx).Model(&models.TransportSchedule{}).
		Where("id = ? AND available_seats >= ?", sched.ID, need).
		Updates(map[string]any{
			"available_seats": gorm.Expr("available_seats - ?", need),
			"status":          models.ScheduleStatus(left, opt.Capacity),
		})
	if res.Error != nil {
		return fmt.Errorf("take seats: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientSeats
	}
	return nil
}

// releaseSeats gives a booked trip's seats back, capped at capacity. A
// schedule row that no longer exists is skipped.
func releaseSeats(ctx context.Context, tx *gorm.DB, trip models.TripPlan) error {
	sel, ok := trip.Transport()
	if !ok {
		return nil
	}
	day, err := utils.ParseDate(sel.Date)
	if err != nil {
		return nil
	}
	sched, err := Schedule(ctx, tx, sel.Type, sel.ID, day)
	if errors.Is(err, ErrNoSchedule) {
		log.Printf("⚠️ no schedule left for %s, seats not restored", trip.TransportKey)
		return nil
	}
	if err != nil {
		return err
	}
	capacity := sched.AvailableSeats + seatsNeeded(sel, trip.Travelers)
	if opt, err := NewTransportService(tx).Option(ctx, sel.Type, sel.ID); err == nil {
		capacity = min(capacity, opt.Capacity)
		sched.AvailableSeats = capacity
		sched.Status = models.ScheduleStatus(capacity, opt.Capacity)
	} else {
		sched.AvailableSeats = capacity
		sched.Status = models.ScheduleStatus(capacity, capacity)
	}
	return tx.WithContext(ctx).Model(&models.TransportSchedule{}).Where("id = ?", sched.ID).
		Updates(map[string]any{"available_seats": sched.AvailableSeats, "status": sched.Status}).Error
}

// Cancel moves a draft or booked trip to cancelled. Booked trips restore
// the schedule's availability in the same transaction.
func (s *TripService) Cancel(ctx context.Context, userID, tripID uint) (models.TripPlan, error) {
	var trip models.TripPlan
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		trip, err = s.owned(ctx, tx, userID, tripID)
		if err != nil {
			return err
		}
		switch trip.Status {
		case models.TripCancelled:
			return ErrTripNotBooked
		case models.TripBooked:
			if err := releaseSeats(ctx, tx, trip); err != nil {
				return err
			}
		}
		trip.Status = models.TripCancelled
		return tx.Model(&models.TripPlan{}).Where("id = ?", trip.ID).Update("status", trip.Status).Error
	})
	if err != nil {
		return trip, err
	}
	log.Printf("Trip %s cancelled by user %d", trip.ReferenceCode, userID)
	return trip, nil
}

func (s *TripService) notifyBooked(ctx context.Context, trip models.TripPlan) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, trip.UserID).Error; err != nil {
		log.Printf("⚠️ booking email skipped for %s: %v", trip.ReferenceCode, err)
		return
	}
	if strings.TrimSpace(user.Email) == "" {
		return
	}

	e := utils.TripEmail{
		RecipientEmail: user.Email,
		RecipientName:  firstNonEmpty(user.FullName, user.Username),
		ReferenceCode:  trip.ReferenceCode,
		Destination:    trip.Destination.Name,
		StartDate:      utils.FormatDate(trip.StartDate),
		EndDate:        utils.FormatDate(trip.EndDate),
		TotalCost:      utils.FormatMMK(trip.TotalCost),
	}
	if trip.Hotel != nil {
		e.Hotel = trip.Hotel.Name
	}
	if sel, ok := trip.Transport(); ok {
		e.Transport = fmt.Sprintf("%s on %s", sel.Name, sel.Date)
	}
	if s.FrontendURL != "" {
		e.TripLink = fmt.Sprintf("%s/trips/%d", strings.TrimRight(s.FrontendURL, "/"), trip.ID)
	}
	if err := utils.SendTripConfirmationEmail(s.SMTP, e); err != nil {
		log.Printf("⚠️ booking email failed for %s: %v", trip.ReferenceCode, err)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
