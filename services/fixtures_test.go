package services

import (
	"fmt"
	"testing"
	"time"

	"myanmar-travel/config"
	"myanmar-travel/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	yangon, mandalay models.Destination
	hotel, farHotel  models.Hotel
	airline          models.Airline
	flight           models.Flight
	bus              models.BusService
	car              models.CarRental
	user, other      models.User
	day              time.Time
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Omit("Destination", "Airline", "Departure", "Arrival", "Location").Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

// newFixture builds a tiny catalogue: Yangon -> Mandalay by a 6-seat flight
// and a 4-seat bus, one car with a fleet of 2, and schedule rows on a
// Saturday for each.
func newFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{day: time.Date(2026, 11, 7, 0, 0, 0, 0, time.UTC)}

	f.yangon = models.Destination{Name: "Yangon", Region: "Yangon Region", Type: models.DestinationCity, Latitude: 16.84, Longitude: 96.17}
	f.mandalay = models.Destination{Name: "Mandalay", Region: "Mandalay Region", Type: models.DestinationCity, Latitude: 21.96, Longitude: 96.09}
	mustCreate(t, db, &f.yangon)
	mustCreate(t, db, &f.mandalay)

	f.hotel = models.Hotel{DestinationID: f.mandalay.ID, Name: "Mandalay Hill Resort", PricePerNight: 80, Category: "resort", Rating: 4.5,
		Latitude: 21.97, Longitude: 96.10, Amenities: []string{"pool", "wifi"}}
	f.farHotel = models.Hotel{DestinationID: f.yangon.ID, Name: "Yangon Grand", PricePerNight: 120, Category: "luxury", Rating: 4.8,
		Latitude: 16.85, Longitude: 96.16, Amenities: []string{"wifi"}}
	mustCreate(t, db, &f.hotel)
	mustCreate(t, db, &f.farHotel)

	f.airline = models.Airline{Name: "Air KBZ", Code: "K7"}
	mustCreate(t, db, &f.airline)
	f.flight = models.Flight{FlightNumber: "K7222", AirlineID: f.airline.ID, DepartureID: f.yangon.ID, ArrivalID: f.mandalay.ID,
		DepartureTime: "07:00", ArrivalTime: "08:25", Price: 150000, TotalSeats: 6, SeatClass: "economy"}
	mustCreate(t, db, &f.flight)
	f.bus = models.BusService{Operator: "JJ Express", BusType: "vip", DepartureID: f.yangon.ID, ArrivalID: f.mandalay.ID,
		DepartureTime: "20:00", ArrivalTime: "05:30", Price: 40000, TotalSeats: 4}
	mustCreate(t, db, &f.bus)
	f.car = models.CarRental{Company: "Golden Land", LocationID: f.mandalay.ID, CarModel: "Toyota Corolla", CarType: "sedan",
		Seats: 4, PricePerDay: 70000, WithDriver: true, FleetSize: 2}
	mustCreate(t, db, &f.car)

	for _, row := range []models.TransportSchedule{
		{TransportType: models.TransportFlight, TransportID: f.flight.ID, Date: f.day, Price: 180000, AvailableSeats: 6, Status: models.ScheduleAvailable},
		{TransportType: models.TransportBus, TransportID: f.bus.ID, Date: f.day, Price: 48000, AvailableSeats: 4, Status: models.ScheduleAvailable},
		{TransportType: models.TransportCar, TransportID: f.car.ID, Date: f.day, Price: 84000, AvailableSeats: 2, Status: models.ScheduleAvailable},
	} {
		row := row
		mustCreate(t, db, &row)
	}

	f.user = models.User{Username: "aung", Email: "aung@example.com", FullName: "Aung Aung", Role: models.RoleUser}
	f.other = models.User{Username: "thiri", Email: "thiri@example.com", Role: models.RoleUser}
	mustCreate(t, db, &f.user)
	mustCreate(t, db, &f.other)
	return f
}

func scheduleRow(t *testing.T, db *gorm.DB, tt models.TransportType, id uint, day time.Time) models.TransportSchedule {
	t.Helper()
	row, err := Schedule(t.Context(), db, tt, id, day)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	return row
}
