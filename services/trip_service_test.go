package services

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"myanmar-travel/models"
)

func newTrip(t *testing.T, svc *TripService, f fixture, userID uint, travelers int) models.TripPlan {
	t.Helper()
	trip, err := svc.Create(t.Context(), userID, TripInput{
		DestinationID: f.mandalay.ID,
		StartDate:     f.day,
		EndDate:       f.day.AddDate(0, 0, 3),
		Travelers:     travelers,
		Rooms:         1,
	})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}
	return trip
}

func TestTripBuilderFlow(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewTripService(db, 2100)
	ctx := t.Context()

	trip := newTrip(t, svc, f, f.user.ID, 2)
	if trip.Status != models.TripDraft || trip.Title != "Trip to Mandalay" || trip.ReferenceCode == "" {
		t.Fatalf("unexpected draft %+v", trip)
	}

	if _, err := svc.SelectHotel(ctx, f.user.ID, trip.ID, f.farHotel.ID); !errors.Is(err, ErrHotelMismatch) {
		t.Fatalf("expected hotel mismatch, got %v", err)
	}
	if _, err := svc.SelectHotel(ctx, f.user.ID, trip.ID, f.hotel.ID); err != nil {
		t.Fatalf("select hotel: %v", err)
	}

	trip, err := svc.SaveTransport(ctx, f.user.ID, trip.ID, TransportChoice{Type: models.TransportFlight, ID: f.flight.ID})
	if err != nil {
		t.Fatalf("save transport: %v", err)
	}
	sel, ok := trip.Transport()
	if !ok || sel.UnitPrice != 180000 || sel.Quantity != 2 || sel.TotalPrice != 360000 || sel.Date != "2026-11-07" {
		t.Fatalf("unexpected selection %+v", sel)
	}
	if trip.TransportKey != models.TransportKey(models.TransportFlight, f.flight.ID, "2026-11-07") {
		t.Fatalf("unexpected transport key %q", trip.TransportKey)
	}

	for _, bad := range [][]string{{"1A"}, {"1A", "1A"}, {"1A", "9Z"}} {
		if _, err := svc.SelectSeats(ctx, f.user.ID, trip.ID, bad); !errors.Is(err, ErrInvalidSeats) {
			t.Fatalf("seats %v: expected invalid seats, got %v", bad, err)
		}
	}
	trip, err = svc.SelectSeats(ctx, f.user.ID, trip.ID, []string{" 1a", "1B"})
	if err != nil {
		t.Fatalf("select seats: %v", err)
	}
	if sel, _ := trip.Transport(); len(sel.Seats) != 2 || sel.Seats[0] != "1A" || sel.Seats[1] != "1B" {
		t.Fatalf("unexpected seats %v", sel.Seats)
	}

	sum, err := svc.Summary(ctx, f.user.ID, trip.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Cost.Nights != 3 || sum.Cost.HotelTotalMMK != 504000 || sum.Cost.TransportMMK != 360000 || sum.Cost.TotalMMK != 864000 {
		t.Fatalf("unexpected cost %+v", sum.Cost)
	}
	if sum.Cost.TotalDisplay != "864,000 MMK" {
		t.Fatalf("unexpected display %q", sum.Cost.TotalDisplay)
	}

	booked, err := svc.Book(ctx, f.user.ID, trip.ID)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if booked.Status != models.TripBooked || booked.TotalCost != 864000 || booked.BookedAt == nil {
		t.Fatalf("unexpected booked trip %+v", booked)
	}
	if row := scheduleRow(t, db, models.TransportFlight, f.flight.ID, f.day); row.AvailableSeats != 4 || row.Status != models.ScheduleAvailable {
		t.Fatalf("expected 4 seats left, got %+v", row)
	}
	if _, err := svc.Book(ctx, f.user.ID, trip.ID); !errors.Is(err, ErrTripNotDraft) {
		t.Fatalf("expected not draft on rebook, got %v", err)
	}

	// a second traveller cannot take the same seats
	other := newTrip(t, svc, f, f.other.ID, 2)
	if _, err := svc.SaveTransport(ctx, f.other.ID, other.ID, TransportChoice{Type: models.TransportFlight, ID: f.flight.ID, Date: f.day}); err != nil {
		t.Fatalf("save transport for other: %v", err)
	}
	if _, err := svc.SelectSeats(ctx, f.other.ID, other.ID, []string{"1A", "1C"}); !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("expected seat taken, got %v", err)
	}
	if _, err := svc.Get(ctx, f.other.ID, trip.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user must not see the trip, got %v", err)
	}

	cancelled, err := svc.Cancel(ctx, f.user.ID, trip.ID)
	if err != nil || cancelled.Status != models.TripCancelled {
		t.Fatalf("cancel: %v %+v", err, cancelled)
	}
	if row := scheduleRow(t, db, models.TransportFlight, f.flight.ID, f.day); row.AvailableSeats != 6 {
		t.Fatalf("expected seats restored, got %d", row.AvailableSeats)
	}
	if _, err := svc.Cancel(ctx, f.user.ID, trip.ID); !errors.Is(err, ErrTripNotBooked) {
		t.Fatalf("expected second cancel to fail, got %v", err)
	}
	if _, err := svc.SelectSeats(ctx, f.other.ID, other.ID, []string{"1A", "1C"}); err != nil {
		t.Fatalf("seats should be free after cancel: %v", err)
	}
}

func TestCreateTripValidation(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewTripService(db, 2100)

	_, err := svc.Create(t.Context(), f.user.ID, TripInput{DestinationID: f.mandalay.ID, StartDate: f.day, EndDate: f.day.AddDate(0, 0, -1)})
	if !errors.Is(err, ErrInvalidDates) {
		t.Fatalf("expected invalid dates, got %v", err)
	}
	_, err = svc.Create(t.Context(), f.user.ID, TripInput{DestinationID: 999, StartDate: f.day, EndDate: f.day})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected unknown destination, got %v", err)
	}

	trip, err := svc.Create(t.Context(), f.user.ID, TripInput{DestinationID: f.mandalay.ID, StartDate: f.day, EndDate: f.day, Title: "Day trip"})
	if err != nil {
		t.Fatalf("same-day trip: %v", err)
	}
	if trip.Travelers != 1 || trip.Rooms != 1 || trip.Title != "Day trip" {
		t.Fatalf("unexpected defaults %+v", trip)
	}
	if got := TripCost(trip, 2100).Nights; got != 1 {
		t.Fatalf("same-day trip should count one night, got %d", got)
	}
}

func TestSaveTransportChecksAvailability(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewTripService(db, 2100)
	ctx := t.Context()

	big := newTrip(t, svc, f, f.user.ID, 5)
	if _, err := svc.SaveTransport(ctx, f.user.ID, big.ID, TransportChoice{Type: models.TransportBus, ID: f.bus.ID}); !errors.Is(err, ErrInsufficientSeats) {
		t.Fatalf("expected insufficient seats, got %v", err)
	}
	if _, err := svc.SaveTransport(ctx, f.user.ID, big.ID, TransportChoice{Type: models.TransportBus, ID: f.bus.ID, Date: f.day.AddDate(0, 0, 1)}); !errors.Is(err, ErrNoSchedule) {
		t.Fatalf("expected missing schedule, got %v", err)
	}
	if _, err := svc.SaveTransport(ctx, f.user.ID, big.ID, TransportChoice{Type: models.TransportFlight, ID: 999}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown flight, got %v", err)
	}
	if _, err := svc.SelectSeats(ctx, f.user.ID, big.ID, []string{"B01"}); !errors.Is(err, ErrNoTransport) {
		t.Fatalf("expected no transport, got %v", err)
	}
}

func TestCarBookingUsesOneVehicle(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewTripService(db, 2100)
	ctx := t.Context()

	trip := newTrip(t, svc, f, f.user.ID, 3)
	trip, err := svc.SaveTransport(ctx, f.user.ID, trip.ID, TransportChoice{Type: models.TransportCar, ID: f.car.ID})
	if err != nil {
		t.Fatalf("save car: %v", err)
	}
	sel, _ := trip.Transport()
	if sel.Quantity != 3 || sel.TotalPrice != 252000 {
		t.Fatalf("car should be priced per day: %+v", sel)
	}
	if _, err := svc.SelectSeats(ctx, f.user.ID, trip.ID, []string{"1A", "1B", "1C"}); !errors.Is(err, ErrInvalidSeats) {
		t.Fatalf("cars have no seats, got %v", err)
	}
	if _, err := svc.Book(ctx, f.user.ID, trip.ID); err != nil {
		t.Fatalf("book car: %v", err)
	}
	if row := scheduleRow(t, db, models.TransportCar, f.car.ID, f.day); row.AvailableSeats != 1 {
		t.Fatalf("expected one car left, got %d", row.AvailableSeats)
	}
}

func TestBookRechecksAvailability(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewTripService(db, 2100)
	ctx := t.Context()

	trip := newTrip(t, svc, f, f.user.ID, 2)
	if _, err := svc.SaveTransport(ctx, f.user.ID, trip.ID, TransportChoice{Type: models.TransportFlight, ID: f.flight.ID}); err != nil {
		t.Fatalf("save transport: %v", err)
	}
	if err := db.Model(&models.TransportSchedule{}).Where("transport_type = ?", models.TransportFlight).
		Update("available_seats", 1).Error; err != nil {
		t.Fatalf("shrink schedule: %v", err)
	}
	if _, err := svc.Book(ctx, f.user.ID, trip.ID); !errors.Is(err, ErrInsufficientSeats) {
		t.Fatalf("expected insufficient seats at booking, got %v", err)
	}
	again, _ := svc.Get(ctx, f.user.ID, trip.ID)
	if again.Status != models.TripDraft {
		t.Fatalf("failed booking must leave a draft, got %s", again.Status)
	}

	empty := newTrip(t, svc, f, f.user.ID, 1)
	if _, err := svc.Book(ctx, f.user.ID, empty.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected nothing-to-book error, got %v", err)
	}
}

func TestUpdateTrip(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewTripService(db, 2100)
	ctx := t.Context()

	trip := newTrip(t, svc, f, f.user.ID, 2)
	if _, err := svc.SaveTransport(ctx, f.user.ID, trip.ID, TransportChoice{Type: models.TransportFlight, ID: f.flight.ID}); err != nil {
		t.Fatalf("save transport: %v", err)
	}
	if _, err := svc.SelectSeats(ctx, f.user.ID, trip.ID, []string{"1D", "1E"}); err != nil {
		t.Fatalf("seats: %v", err)
	}

	three := 3
	title := "Family trip"
	updated, err := svc.Update(ctx, f.user.ID, trip.ID, TripUpdate{Travelers: &three, Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	sel, _ := updated.Transport()
	if updated.Travelers != 3 || sel.Quantity != 3 || sel.TotalPrice != 540000 || len(sel.Seats) != 0 || updated.Title != title {
		t.Fatalf("unexpected update %+v / %+v", updated, sel)
	}

	earlier := f.day.AddDate(0, 0, -3)
	if _, err := svc.Update(ctx, f.user.ID, trip.ID, TripUpdate{EndDate: &earlier}); !errors.Is(err, ErrInvalidDates) {
		t.Fatalf("expected invalid dates, got %v", err)
	}

	if _, err := svc.SelectSeats(ctx, f.user.ID, trip.ID, []string{"1D", "1E", "1F"}); err != nil {
		t.Fatalf("seats: %v", err)
	}
	if _, err := svc.Book(ctx, f.user.ID, trip.ID); err != nil {
		t.Fatalf("book: %v", err)
	}
	later := f.day.AddDate(0, 0, 5)
	if _, err := svc.Update(ctx, f.user.ID, trip.ID, TripUpdate{EndDate: &later}); !errors.Is(err, ErrTripNotDraft) {
		t.Fatalf("booked dates are frozen, got %v", err)
	}
	notes := "window seats please"
	if got, err := svc.Update(ctx, f.user.ID, trip.ID, TripUpdate{Notes: &notes}); err != nil || got.Notes != notes {
		t.Fatalf("notes update on booked trip: %v", err)
	}
}

func TestDeleteBookedTripRestoresSeats(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewTripService(db, 2100)
	ctx := t.Context()

	trip := newTrip(t, svc, f, f.user.ID, 3)
	if _, err := svc.SaveTransport(ctx, f.user.ID, trip.ID, TransportChoice{Type: models.TransportBus, ID: f.bus.ID}); err != nil {
		t.Fatalf("save bus: %v", err)
	}
	if _, err := svc.Book(ctx, f.user.ID, trip.ID); err != nil {
		t.Fatalf("book: %v", err)
	}
	if row := scheduleRow(t, db, models.TransportBus, f.bus.ID, f.day); row.AvailableSeats != 1 || row.Status != models.ScheduleAvailable {
		t.Fatalf("unexpected bus row %+v", row)
	}
	if err := svc.Delete(ctx, f.other.ID, trip.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user cannot delete, got %v", err)
	}
	if err := svc.Delete(ctx, f.user.ID, trip.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if row := scheduleRow(t, db, models.TransportBus, f.bus.ID, f.day); row.AvailableSeats != 4 {
		t.Fatalf("expected seats back, got %d", row.AvailableSeats)
	}
	list, _ := svc.List(ctx, f.user.ID, "")
	if len(list) != 0 {
		t.Fatalf("expected no trips, got %d", len(list))
	}
}

func TestBookingMarksScheduleLimited(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewTripService(db, 2100)
	ctx := t.Context()

	trip := newTrip(t, svc, f, f.user.ID, 5)
	if _, err := svc.SaveTransport(ctx, f.user.ID, trip.ID, TransportChoice{Type: models.TransportFlight, ID: f.flight.ID}); err != nil {
		t.Fatalf("save flight: %v", err)
	}
	if _, err := svc.Book(ctx, f.user.ID, trip.ID); err != nil {
		t.Fatalf("book: %v", err)
	}
	if row := scheduleRow(t, db, models.TransportFlight, f.flight.ID, f.day); row.AvailableSeats != 1 || row.Status != models.ScheduleLimited {
		t.Fatalf("expected 1 of 6 seats limited, got %+v", row)
	}
	if _, err := svc.Cancel(ctx, f.user.ID, trip.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if row := scheduleRow(t, db, models.TransportFlight, f.flight.ID, f.day); row.AvailableSeats != 6 || row.Status != models.ScheduleAvailable {
		t.Fatalf("expected seats restored, got %+v", row)
	}
}

func TestSummaryKeepsBookedTotal(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewTripService(db, 2100)
	ctx := t.Context()

	trip := newTrip(t, svc, f, f.user.ID, 2)
	if _, err := svc.SelectHotel(ctx, f.user.ID, trip.ID, f.hotel.ID); err != nil {
		t.Fatalf("select hotel: %v", err)
	}
	booked, err := svc.Book(ctx, f.user.ID, trip.ID)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if booked.TotalCost != 504000 {
		t.Fatalf("unexpected booked total %v", booked.TotalCost)
	}

	if err := db.Model(&models.Hotel{}).Where("id = ?", f.hotel.ID).Update("price_per_night", 999).Error; err != nil {
		t.Fatalf("reprice hotel: %v", err)
	}
	sum, err := svc.Summary(ctx, f.user.ID, trip.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Cost.TotalMMK != 504000 || sum.Cost.HotelTotalMMK != 504000 || sum.Cost.TotalDisplay != "504,000 MMK" {
		t.Fatalf("booked summary drifted: %+v", sum.Cost)
	}

	// drafts follow the live price
	draft := newTrip(t, svc, f, f.user.ID, 2)
	if _, err := svc.SelectHotel(ctx, f.user.ID, draft.ID, f.hotel.ID); err != nil {
		t.Fatalf("select hotel: %v", err)
	}
	sum, _ = svc.Summary(ctx, f.user.ID, draft.ID)
	if sum.Cost.TotalMMK != 999*3*2100 {
		t.Fatalf("draft should use current price, got %v", sum.Cost.TotalMMK)
	}
}

func TestByReferenceAndItinerary(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewTripService(db, 2100)
	ctx := t.Context()

	trip := newTrip(t, svc, f, f.user.ID, 1)
	if _, err := svc.SelectHotel(ctx, f.user.ID, trip.ID, f.hotel.ID); err != nil {
		t.Fatalf("select hotel: %v", err)
	}
	got, err := svc.ByReference(ctx, " "+trip.ReferenceCode+" ")
	if err != nil || got.ID != trip.ID {
		t.Fatalf("by reference: %v", err)
	}
	if _, err := svc.ByReference(ctx, "MMT-NOPE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	pdf, name, err := svc.Itinerary(ctx, f.user.ID, trip.ID)
	if err != nil {
		t.Fatalf("itinerary: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected a PDF document")
	}
	if name != "itinerary-"+trip.ReferenceCode+".pdf" {
		t.Fatalf("unexpected file name %q", name)
	}
	if _, _, err := svc.Itinerary(ctx, f.other.ID, trip.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for other user, got %v", err)
	}
}

func TestNightsPolicy(t *testing.T) {
	d := time.Date(2026, 1, 10, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		start, end time.Time
		want       int
	}{
		{d, d.AddDate(0, 0, 2), 2},
		{d, d, 1},
		{d, d.AddDate(0, 0, -1), 1},
		{time.Time{}, d, 1},
	}
	for _, c := range cases {
		if got := Nights(c.start, c.end); got != c.want {
			t.Fatalf("Nights(%v, %v) = %d, want %d", c.start, c.end, got, c.want)
		}
	}
}
