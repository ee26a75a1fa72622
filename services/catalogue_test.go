package services

import (
	"errors"
	"testing"

	"myanmar-travel/models"
)

func TestSeatLabels(t *testing.T) {
	flight := SeatLabels(models.TransportFlight, 8)
	if len(flight) != 8 || flight[0] != "1A" || flight[5] != "1F" || flight[6] != "2A" {
		t.Fatalf("unexpected flight labels %v", flight)
	}
	bus := SeatLabels(models.TransportBus, 12)
	if len(bus) != 12 || bus[0] != "B01" || bus[11] != "B12" {
		t.Fatalf("unexpected bus labels %v", bus)
	}
	if SeatLabels(models.TransportCar, 4) != nil || SeatLabels(models.TransportBus, 0) != nil {
		t.Fatalf("cars and empty vehicles have no seats")
	}
}

func TestSearchFlightsOverlaysSchedule(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewTransportService(db)
	ctx := t.Context()

	opts, err := svc.SearchFlights(ctx, RouteQuery{FromID: f.yangon.ID, ToID: f.mandalay.ID, Date: f.day})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(opts) != 1 {
		t.Fatalf("expected one flight, got %d", len(opts))
	}
	o := opts[0]
	if !o.Scheduled || o.Price != 180000 || o.AvailableSeats != 6 || o.Name != "Air KBZ K7222" || o.Duration != "1h 25m" {
		t.Fatalf("unexpected scheduled option %+v", o)
	}
	if o.PriceDisplay != "180,000 MMK" || o.From != "Yangon" || o.To != "Mandalay" {
		t.Fatalf("unexpected display fields %+v", o)
	}

	opts, _ = svc.SearchFlights(ctx, RouteQuery{FromID: f.yangon.ID, ToID: f.mandalay.ID, Date: f.day.AddDate(0, 0, 1)})
	if o := opts[0]; o.Scheduled || o.Price != 150000 || o.AvailableSeats != 6 || o.Date != "2026-11-08" {
		t.Fatalf("unscheduled day should fall back to the base fare: %+v", o)
	}

	opts, _ = svc.SearchFlights(ctx, RouteQuery{FromID: f.mandalay.ID, ToID: f.yangon.ID, Date: f.day})
	if len(opts) != 0 {
		t.Fatalf("reverse route should be empty, got %d", len(opts))
	}
}

func TestSearchBusesAndCars(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewTransportService(db)
	ctx := t.Context()

	buses, err := svc.SearchBuses(ctx, RouteQuery{FromID: f.yangon.ID, Date: f.day})
	if err != nil || len(buses) != 1 {
		t.Fatalf("search buses: %v (%d)", err, len(buses))
	}
	if b := buses[0]; b.Price != 48000 || b.Name != "JJ Express (vip)" || b.Duration != "9h 30m" {
		t.Fatalf("unexpected bus option %+v", b)
	}

	cars, err := svc.SearchCars(ctx, f.mandalay.ID, f.day)
	if err != nil || len(cars) != 1 {
		t.Fatalf("search cars: %v (%d)", err, len(cars))
	}
	if c := cars[0]; c.Price != 84000 || c.AvailableSeats != 2 || c.From != "Mandalay" {
		t.Fatalf("unexpected car option %+v", c)
	}
	if cars, _ := svc.SearchCars(ctx, f.yangon.ID, f.day); len(cars) != 0 {
		t.Fatalf("no cars in Yangon, got %d", len(cars))
	}

	if _, err := svc.Option(ctx, "boat", 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid transport type, got %v", err)
	}
}

func TestSeatMapMarksBookedSeats(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	trips := NewTripService(db, 2100)
	ctx := t.Context()

	trip := newTrip(t, trips, f, f.user.ID, 2)
	if _, err := trips.SaveTransport(ctx, f.user.ID, trip.ID, TransportChoice{Type: models.TransportBus, ID: f.bus.ID}); err != nil {
		t.Fatalf("save bus: %v", err)
	}
	if _, err := trips.SelectSeats(ctx, f.user.ID, trip.ID, []string{"b01", "B03"}); err != nil {
		t.Fatalf("select seats: %v", err)
	}

	svc := NewTransportService(db)
	sm, err := svc.SeatMap(ctx, models.TransportBus, f.bus.ID, f.day)
	if err != nil {
		t.Fatalf("seat map: %v", err)
	}
	if sm.Available != 4 {
		t.Fatalf("draft trips do not hold seats, got %d available", sm.Available)
	}

	if _, err := trips.Book(ctx, f.user.ID, trip.ID); err != nil {
		t.Fatalf("book: %v", err)
	}
	sm, _ = svc.SeatMap(ctx, models.TransportBus, f.bus.ID, f.day)
	if sm.Capacity != 4 || sm.Available != 2 || !sm.Seats[0].Taken || sm.Seats[1].Taken || !sm.Seats[2].Taken {
		t.Fatalf("unexpected seat map %+v", sm)
	}

	if _, err := svc.SeatMap(ctx, models.TransportCar, f.car.ID, f.day); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("cars have no seat map, got %v", err)
	}
}

func TestValidateTransport(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	ctx := t.Context()

	fl := models.Flight{FlightNumber: " ub101 ", AirlineID: f.airline.ID, DepartureID: f.yangon.ID, ArrivalID: f.yangon.ID,
		DepartureTime: "06:00", ArrivalTime: "07:10", Price: 1000, TotalSeats: 10}
	if err := ValidateFlight(ctx, db, &fl); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("same origin and destination must fail, got %v", err)
	}
	fl.ArrivalID = f.mandalay.ID
	if err := ValidateFlight(ctx, db, &fl); err != nil {
		t.Fatalf("valid flight: %v", err)
	}
	if fl.FlightNumber != "UB101" || fl.SeatClass != "economy" {
		t.Fatalf("flight not normalised: %+v", fl)
	}
	fl.ArrivalTime = "7pm"
	if err := ValidateFlight(ctx, db, &fl); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad clock must fail, got %v", err)
	}

	car := models.CarRental{Company: "Shwe", LocationID: 999, PricePerDay: 1}
	if err := ValidateCar(ctx, db, &car); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown location must fail, got %v", err)
	}
	car.LocationID = f.mandalay.ID
	if err := ValidateCar(ctx, db, &car); err != nil || car.FleetSize != 1 {
		t.Fatalf("valid car: %v (fleet %d)", err, car.FleetSize)
	}
}

func TestHotelListFilters(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewHotelService(db, 2100)
	ctx := t.Context()

	all, err := svc.List(ctx, HotelFilter{Sort: "-price"})
	if err != nil || len(all) != 2 {
		t.Fatalf("list: %v (%d)", err, len(all))
	}
	if all[0].ID != f.farHotel.ID || all[0].PriceMMK != 252000 || all[0].PriceDisplay != "252,000 MMK" || all[0].USDDisplay != "$120.00" {
		t.Fatalf("unexpected first hotel %+v", all[0])
	}

	pool, _ := svc.List(ctx, HotelFilter{Amenity: "POOL"})
	if len(pool) != 1 || pool[0].ID != f.hotel.ID {
		t.Fatalf("amenity filter failed: %d", len(pool))
	}

	lat, lng := 21.96, 96.09
	near, _ := svc.List(ctx, HotelFilter{NearLat: &lat, NearLng: &lng, RadiusKm: 10, Sort: "distance"})
	if len(near) != 1 || near[0].DistanceKm == nil || *near[0].DistanceKm > 5 {
		t.Fatalf("radius filter failed: %+v", near)
	}

	cheap, _ := svc.List(ctx, HotelFilter{MaxPrice: 100, DestinationID: f.mandalay.ID})
	if len(cheap) != 1 {
		t.Fatalf("price filter failed: %d", len(cheap))
	}

	if _, err := svc.Get(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDestinationQueries(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewDestinationService(db)
	ctx := t.Context()

	got, err := svc.List(ctx, DestinationFilter{Query: "manda"})
	if err != nil || len(got) != 1 || got[0].ID != f.mandalay.ID {
		t.Fatalf("search: %v %+v", err, got)
	}
	byName, err := svc.FindByName(ctx, " YANGON ")
	if err != nil || byName.ID != f.yangon.ID {
		t.Fatalf("find by name: %v", err)
	}
	n, _ := svc.HotelCount(ctx, f.mandalay.ID)
	if n != 1 {
		t.Fatalf("expected 1 hotel in Mandalay, got %d", n)
	}

	bad := models.Destination{Name: "Nowhere", Type: "planet"}
	if err := validateDestination(&bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid type, got %v", err)
	}
}
