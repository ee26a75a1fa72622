package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"myanmar-travel/models"
	"myanmar-travel/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SeedResult struct {
	Destinations int `json:"destinations"`
	Airlines     int `json:"airlines"`
	Hotels       int `json:"hotels"`
	Flights      int `json:"flights"`
	Buses        int `json:"buses"`
	Cars         int `json:"cars"`
}

type SeedService struct {
	DB   *gorm.DB
	Rand *rand.Rand

	mu sync.Mutex // serialises Run, which owns Rand
}

func NewSeedService(db *gorm.DB, rng *rand.Rand) *SeedService {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x73656564))
	}
	return &SeedService{DB: db, Rand: rng}
}

var seedDestinations = []models.Destination{
	{Name: "Yangon", Region: "Yangon Region", Type: models.DestinationCity, Latitude: 16.8409, Longitude: 96.1735, AirportCode: "RGN", IsPopular: true,
		Description: "Former capital with colonial streets, tea shops and the Shwedagon Pagoda."},
	{Name: "Mandalay", Region: "Mandalay Region", Type: models.DestinationCity, Latitude: 21.9588, Longitude: 96.0891, AirportCode: "MDL", IsPopular: true,
		Description: "Royal city on the Ayeyarwady with the palace, Mandalay Hill and craft workshops."},
	{Name: "Bagan", Region: "Mandalay Region", Type: models.DestinationTown, Latitude: 21.1717, Longitude: 94.8585, AirportCode: "NYU", IsPopular: true,
		Description: "Plain of more than two thousand temples and stupas."},
	{Name: "Inle Lake", Region: "Shan State", Type: models.DestinationAttraction, Latitude: 20.5833, Longitude: 96.9167, AirportCode: "HEH", IsPopular: true,
		Description: "Highland lake of stilt villages, floating gardens and leg-rowing fishermen."},
	{Name: "Naypyidaw", Region: "Naypyidaw Union Territory", Type: models.DestinationCity, Latitude: 19.7633, Longitude: 96.0785, AirportCode: "NYT",
		Description: "Purpose-built capital with wide boulevards and the Uppatasanti Pagoda."},
	{Name: "Ngapali", Region: "Rakhine State", Type: models.DestinationTown, Latitude: 18.4167, Longitude: 94.3167, AirportCode: "SNW", IsPopular: true,
		Description: "Palm-fringed beach on the Bay of Bengal."},
	{Name: "Kyaiktiyo", Region: "Mon State", Type: models.DestinationAttraction, Latitude: 17.4833, Longitude: 97.1000,
		Description: "Pilgrimage site of the Golden Rock balanced on a cliff edge."},
	{Name: "Hpa-An", Region: "Kayin State", Type: models.DestinationTown, Latitude: 16.8906, Longitude: 97.6333,
		Description: "Limestone karsts, caves and rice paddies along the Thanlwin river."},
	{Name: "Mawlamyine", Region: "Mon State", Type: models.DestinationCity, Latitude: 16.4905, Longitude: 97.6283, AirportCode: "MNU",
		Description: "Colonial port town with hilltop pagodas."},
	{Name: "Pyin Oo Lwin", Region: "Mandalay Region", Type: models.DestinationTown, Latitude: 22.0333, Longitude: 96.4667,
		Description: "Cool hill station with botanical gardens and horse carriages."},
	{Name: "Kalaw", Region: "Shan State", Type: models.DestinationTown, Latitude: 20.6333, Longitude: 96.5667,
		Description: "Pine-forested trekking base on the road to Inle."},
	{Name: "Myitkyina", Region: "Kachin State", Type: models.DestinationCity, Latitude: 25.3833, Longitude: 97.4000, AirportCode: "MYT",
		Description: "Kachin capital near the confluence of the Ayeyarwady."},
	{Name: "Mrauk U", Region: "Rakhine State", Type: models.DestinationTown, Latitude: 20.5961, Longitude: 93.1900,
		Description: "Stone temples of the old Arakanese kingdom."},
	{Name: "Dawei", Region: "Tanintharyi Region", Type: models.DestinationCity, Latitude: 14.0833, Longitude: 98.2000, AirportCode: "TVY",
		Description: "Southern coastal town with quiet peninsula beaches."},
}

var seedAirlines = []models.Airline{
	{Name: "Myanmar National Airlines", Code: "UB"},
	{Name: "Air KBZ", Code: "K7"},
	{Name: "Myanmar Airways International", Code: "8M"},
	{Name: "Mann Yadanarpon Airlines", Code: "7Y"},
	{Name: "Golden Myanmar Airlines", Code: "Y5"},
}

// flightRoutes and busRoutes are one-way pairs; the reverse leg is added too.
var flightRoutes = [][2]string{
	{"Yangon", "Mandalay"}, {"Yangon", "Bagan"}, {"Yangon", "Inle Lake"}, {"Yangon", "Ngapali"},
	{"Yangon", "Naypyidaw"}, {"Yangon", "Myitkyina"}, {"Yangon", "Dawei"}, {"Yangon", "Mawlamyine"},
	{"Mandalay", "Bagan"}, {"Mandalay", "Inle Lake"}, {"Mandalay", "Myitkyina"}, {"Bagan", "Inle Lake"},
	{"Inle Lake", "Ngapali"},
}

var busRoutes = [][2]string{
	{"Yangon", "Mandalay"}, {"Yangon", "Bagan"}, {"Yangon", "Inle Lake"}, {"Yangon", "Naypyidaw"},
	{"Yangon", "Hpa-An"}, {"Yangon", "Mawlamyine"}, {"Yangon", "Kyaiktiyo"}, {"Yangon", "Kalaw"},
	{"Yangon", "Ngapali"}, {"Mandalay", "Bagan"}, {"Mandalay", "Inle Lake"}, {"Mandalay", "Pyin Oo Lwin"},
	{"Bagan", "Inle Lake"}, {"Kalaw", "Inle Lake"}, {"Mawlamyine", "Hpa-An"}, {"Naypyidaw", "Mandalay"},
}

var busOperators = []string{"JJ Express", "Elite Express", "Mandalar Minn", "Shwe Mandalar", "OK Express"}

var hotelAmenities = []string{"wifi", "pool", "spa", "restaurant", "airport shuttle", "air conditioning", "breakfast", "gym", "bar", "parking", "laundry"}

type hotelTemplate struct {
	suffix   string
	category string
	minUSD   float64
	maxUSD   float64
}

var hotelTemplates = []hotelTemplate{
	{"Guest House", "budget", 18, 45},
	{"Riverside Inn", "mid-range", 50, 110},
	{"Heritage Boutique", "boutique", 80, 160},
	{"Grand Hotel", "luxury", 150, 350},
	{"Garden Resort", "resort", 120, 300},
}

type carTemplate struct {
	model   string
	carType string
	seats   int
	minMMK  float64
	maxMMK  float64
}

var carTemplates = []carTemplate{
	{"Toyota Corolla", "sedan", 4, 60000, 85000},
	{"Toyota Land Cruiser Prado", "suv", 6, 120000, 160000},
	{"Toyota HiAce", "van", 10, 100000, 140000},
	{"Toyota Coaster", "minibus", 20, 180000, 240000},
}

var carCompanies = []string{"Myanmar Car Rental", "Golden Land Rent-a-Car", "Shwe Taxi Services"}

func (s *SeedService) between(lo, hi float64) float64 {
	return lo + s.Rand.Float64()*(hi-lo)
}

func clock(minutes int) string {
	minutes = ((minutes % (24 * 60)) + 24*60) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Run populates every empty catalogue table. With reset, catalogue tables
// and the trips and schedules that point at them are wiped first.
func (s *SeedService) Run(ctx context.Context, reset bool) (SeedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res SeedResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if reset {
			if err := resetCatalogue(tx); err != nil {
				return err
			}
		}
		steps := []struct {
			name string
			run  func(*gorm.DB) (int, error)
			out  *int
		}{
			{"destinations", s.seedDestinations, &res.Destinations},
			{"airlines", s.seedAirlines, &res.Airlines},
			{"hotels", s.seedHotels, &res.Hotels},
			{"flights", s.seedFlights, &res.Flights},
			{"buses", s.seedBuses, &res.Buses},
			{"cars", s.seedCars, &res.Cars},
		}
		for _, step := range steps {
			n, err := step.run(tx)
			if err != nil {
				return fmt.Errorf("seed %s: %w", step.name, err)
			}
			*step.out = n
			if n > 0 {
				log.Printf("✅ Seeded %d %s", n, step.name)
			}
		}
		return nil
	})
	return res, err
}

func resetCatalogue(tx *gorm.DB) error {
	wipe := []any{
		&models.TransportSchedule{}, &models.TripPlan{}, &models.CarRental{}, &models.BusService{},
		&models.Flight{}, &models.Airline{}, &models.Hotel{},
	}
	for _, m := range wipe {
		if err := tx.Unscoped().Where("1 = 1").Delete(m).Error; err != nil {
			return err
		}
	}
	if err := tx.Model(&models.Post{}).Where("destination_id IS NOT NULL").Update("destination_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("1 = 1").Delete(&models.Destination{}).Error; err != nil {
		return err
	}
	log.Println("🧹 Catalogue tables cleared")
	return nil
}

func isEmpty(tx *gorm.DB, model any) (bool, error) {
	var n int64
	err := tx.Model(model).Count(&n).Error
	return n == 0, err
}

func destinationsByName(tx *gorm.DB) (map[string]models.Destination, error) {
	var all []models.Destination
	if err := tx.Find(&all).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.Destination, len(all))
	for _, d := range all {
		out[d.Name] = d
	}
	return out, nil
}

func (s *SeedService) seedDestinations(tx *gorm.DB) (int, error) {
	if empty, err := isEmpty(tx, &models.Destination{}); err != nil || !empty {
		return 0, err
	}
	rows := make([]models.Destination, len(seedDestinations))
	copy(rows, seedDestinations)
	return len(rows), tx.Create(&rows).Error
}

func (s *SeedService) seedAirlines(tx *gorm.DB) (int, error) {
	if empty, err := isEmpty(tx, &models.Airline{}); err != nil || !empty {
		return 0, err
	}
	rows := make([]models.Airline, len(seedAirlines))
	copy(rows, seedAirlines)
	return len(rows), tx.Create(&rows).Error
}

func (s *SeedService) pickAmenities(n int) datatypes.JSONSlice[string] {
	perm := s.Rand.Perm(len(hotelAmenities))
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, hotelAmenities[i])
	}
	return out
}

func (s *SeedService) seedHotels(tx *gorm.DB) (int, error) {
	if empty, err := isEmpty(tx, &models.Hotel{}); err != nil || !empty {
		return 0, err
	}
	dests, err := destinationsByName(tx)
	if err != nil {
		return 0, err
	}
	var rows []models.Hotel
	for _, seed := range seedDestinations {
		d, ok := dests[seed.Name]
		if !ok {
			continue
		}
		count := 3 + s.Rand.IntN(3)
		for _, i := range s.Rand.Perm(len(hotelTemplates))[:count] {
			t := hotelTemplates[i]
			rows = append(rows, models.Hotel{
				DestinationID: d.ID,
				Name:          fmt.Sprintf("%s %s", d.Name, t.suffix),
				Address:       fmt.Sprintf("%d Main Road, %s, %s", 1+s.Rand.IntN(200), d.Name, d.Region),
				PricePerNight: math.Round(s.between(t.minUSD, t.maxUSD)),
				Category:      t.category,
				Rating:        math.Round(s.between(3.0, 5.0)*10) / 10,
				ReviewCount:   20 + s.Rand.IntN(1500),
				Latitude:      d.Latitude + s.between(-0.02, 0.02),
				Longitude:     d.Longitude + s.between(-0.02, 0.02),
				Description:   fmt.Sprintf("A %s stay in %s.", t.category, d.Name),
				Amenities:     s.pickAmenities(3 + s.Rand.IntN(4)),
			})
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows), tx.Omit(clause.Associations).CreateInBatches(&rows, 100).Error
}

func (s *SeedService) seedFlights(tx *gorm.DB) (int, error) {
	if empty, err := isEmpty(tx, &models.Flight{}); err != nil || !empty {
		return 0, err
	}
	dests, err := destinationsByName(tx)
	if err != nil {
		return 0, err
	}
	var airlines []models.Airline
	if err := tx.Order("id ASC").Find(&airlines).Error; err != nil {
		return 0, err
	}
	if len(airlines) == 0 {
		return 0, nil
	}

	seq := map[string]int{}
	var rows []models.Flight
	for _, r := range flightRoutes {
		for _, leg := range [][2]string{r, {r[1], r[0]}} {
			from, okFrom := dests[leg[0]]
			to, okTo := dests[leg[1]]
			if !okFrom || !okTo {
				continue
			}
			km := HaversineKm(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
			minutes := int(math.Round((km/480*60+25)/5)) * 5
			for i := 0; i < 2; i++ {
				a := airlines[s.Rand.IntN(len(airlines))]
				seq[a.Code]++
				dep := 6*60 + s.Rand.IntN(12)*60 + 5*s.Rand.IntN(12)
				rows = append(rows, models.Flight{
					FlightNumber:  fmt.Sprintf("%s%03d", a.Code, 100+seq[a.Code]),
					AirlineID:     a.ID,
					DepartureID:   from.ID,
					ArrivalID:     to.ID,
					DepartureTime: clock(dep),
					ArrivalTime:   clock(dep + minutes),
					Price:         utils.RoundTo(60000+km*250*s.between(0.9, 1.2), 1000),
					TotalSeats:    []int{70, 78, 120, 180}[s.Rand.IntN(4)],
					SeatClass:     "economy",
				})
			}
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows), tx.Omit(clause.Associations).CreateInBatches(&rows, 100).Error
}

func (s *SeedService) seedBuses(tx *gorm.DB) (int, error) {
	if empty, err := isEmpty(tx, &models.BusService{}); err != nil || !empty {
		return 0, err
	}
	dests, err := destinationsByName(tx)
	if err != nil {
		return 0, err
	}
	type busKind struct {
		name      string
		seats     int
		factor    float64
		amenities []string
	}
	kinds := []busKind{
		{"standard", 45, 1.0, []string{"air conditioning"}},
		{"express", 40, 1.25, []string{"air conditioning", "water", "snack"}},
		{"vip", 27, 1.6, []string{"air conditioning", "reclining seats", "blanket", "snack", "usb charging"}},
	}
	departures := []int{7 * 60, 8*60 + 30, 19 * 60, 20*60 + 30}

	var rows []models.BusService
	for _, r := range busRoutes {
		for _, leg := range [][2]string{r, {r[1], r[0]}} {
			from, okFrom := dests[leg[0]]
			to, okTo := dests[leg[1]]
			if !okFrom || !okTo {
				continue
			}
			km := HaversineKm(from.Latitude, from.Longitude, to.Latitude, to.Longitude) * 1.3
			minutes := int(math.Round(km/45*60/15)) * 15
			for _, k := range kinds {
				if k.name == "standard" && s.Rand.IntN(2) == 0 {
					continue
				}
				dep := departures[s.Rand.IntN(len(departures))]
				rows = append(rows, models.BusService{
					Operator:      busOperators[s.Rand.IntN(len(busOperators))],
					BusType:       k.name,
					DepartureID:   from.ID,
					ArrivalID:     to.ID,
					DepartureTime: clock(dep),
					ArrivalTime:   clock(dep + minutes),
					Price:         utils.RoundTo(math.Max(8000, km*55*k.factor), 500),
					TotalSeats:    k.seats,
					Amenities:     k.amenities,
				})
			}
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows), tx.Omit(clause.Associations).CreateInBatches(&rows, 100).Error
}

func (s *SeedService) seedCars(tx *gorm.DB) (int, error) {
	if empty, err := isEmpty(tx, &models.CarRental{}); err != nil || !empty {
		return 0, err
	}
	dests, err := destinationsByName(tx)
	if err != nil {
		return 0, err
	}
	var rows []models.CarRental
	for _, seed := range seedDestinations {
		d, ok := dests[seed.Name]
		if !ok || d.Type == models.DestinationAttraction {
			continue
		}
		for _, i := range s.Rand.Perm(len(carTemplates))[:2+s.Rand.IntN(2)] {
			t := carTemplates[i]
			rows = append(rows, models.CarRental{
				Company:     carCompanies[s.Rand.IntN(len(carCompanies))],
				LocationID:  d.ID,
				CarModel:    t.model,
				CarType:     t.carType,
				Seats:       t.seats,
				PricePerDay: utils.RoundTo(s.between(t.minMMK, t.maxMMK), 1000),
				WithDriver:  s.Rand.IntN(5) != 0,
				FleetSize:   2 + s.Rand.IntN(5),
			})
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows), tx.Omit(clause.Associations).CreateInBatches(&rows, 100).Error
}
