package services

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"myanmar-travel/models"
	"myanmar-travel/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScheduleOptions struct {
	Start     time.Time
	Days      int
	Overwrite bool
	Types     []models.TransportType // empty means all
}

type ScheduleResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Deleted int `json:"deleted"`
}

type ScheduleService struct {
	DB   *gorm.DB
	Rand *rand.Rand

	mu sync.Mutex // guards Rand
}

func NewScheduleService(db *gorm.DB, rng *rand.Rand) *ScheduleService {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6d6d74))
	}
	return &ScheduleService{DB: db, Rand: rng}
}

// transportUnit is the capacity and base price the generator needs.
type transportUnit struct {
	ID        uint
	BasePrice float64
	Capacity  int
}

func scheduleUnits(ctx context.Context, db *gorm.DB, tt models.TransportType) ([]transportUnit, error) {
	db = db.WithContext(ctx)
	var out []transportUnit
	switch tt {
	case models.TransportFlight:
		var rows []models.Flight
		if err := db.Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, transportUnit{ID: r.ID, BasePrice: r.Price, Capacity: r.TotalSeats})
		}
	case models.TransportBus:
		var rows []models.BusService
		if err := db.Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, transportUnit{ID: r.ID, BasePrice: r.Price, Capacity: r.TotalSeats})
		}
	case models.TransportCar:
		var rows []models.CarRental
		if err := db.Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, transportUnit{ID: r.ID, BasePrice: r.PricePerDay, Capacity: r.FleetSize})
		}
	default:
		return nil, fmt.Errorf("%w: unknown transport type %q", ErrInvalidInput, tt)
	}
	return out, nil
}

func (s *ScheduleService) between(lo, hi float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.Rand.Float64()*(hi-lo)
}

// dayRow perturbs base price and availability. Weekends cost more and have
// fewer free seats.
func (s *ScheduleService) dayRow(tt models.TransportType, u transportUnit, day time.Time) models.TransportSchedule {
	var mult, availLo, availHi float64
	if utils.IsWeekend(day) {
		mult, availLo, availHi = s.between(1.15, 1.30), 0.40, 0.80
	} else {
		mult, availLo, availHi = s.between(0.95, 1.05), 0.60, 1.00
	}

	available := int(float64(u.Capacity) * s.between(availLo, availHi))
	if available > u.Capacity {
		available = u.Capacity
	}
	if available < 0 {
		available = 0
	}

	return models.TransportSchedule{
		TransportType:  tt,
		TransportID:    u.ID,
		Date:           day,
		Price:          utils.RoundTo(u.BasePrice*mult, 100),
		AvailableSeats: available,
		Status:         models.ScheduleStatus(available, u.Capacity),
	}
}

// Generate materialises one schedule row per transport per day in
// [Start, Start+Days). Existing rows are skipped unless Overwrite is set,
// in which case the window is rebuilt inside one transaction.
func (s *ScheduleService) Generate(ctx context.Context, opts ScheduleOptions) (ScheduleResult, error) {
	if opts.Days <= 0 {
		return ScheduleResult{}, fmt.Errorf("%w: days must be positive", ErrInvalidInput)
	}
	start := utils.DateOnly(opts.Start)
	if opts.Start.IsZero() {
		start = utils.DateOnly(time.Now())
	}
	end := start.AddDate(0, 0, opts.Days)

	types := opts.Types
	if len(types) == 0 {
		types = []models.TransportType{models.TransportFlight, models.TransportBus, models.TransportCar}
	}

	var res ScheduleResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, tt := range types {
			units, err := scheduleUnits(ctx, tx, tt)
			if err != nil {
				return err
			}

			existing := map[string]bool{}
			if opts.Overwrite {
				del := tx.Where("transport_type = ? AND schedule_date >= ? AND schedule_date < ?", tt, start, end).Delete(&models.TransportSchedule{})
				if del.Error != nil {
					return fmt.Errorf("clear schedules: %w", del.Error)
				}
				res.Deleted += int(del.RowsAffected)
			} else {
				var rows []models.TransportSchedule
				if err := tx.Select("transport_id", "schedule_date").
					Where("transport_type = ? AND schedule_date >= ? AND schedule_date < ?", tt, start, end).
					Find(&rows).Error; err != nil {
					return fmt.Errorf("load schedules: %w", err)
				}
				for _, r := range rows {
					existing[scheduleKey(r.TransportID, r.Date)] = true
				}
			}

			batch := make([]models.TransportSchedule, 0, len(units)*opts.Days)
			for _, u := range units {
				for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
					if existing[scheduleKey(u.ID, day)] {
						res.Skipped++
						continue
					}
					batch = append(batch, s.dayRow(tt, u, day))
				}
			}
			if len(batch) == 0 {
				continue
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&batch, 200).Error; err != nil {
				return fmt.Errorf("insert schedules: %w", err)
			}
			res.Created += len(batch)
		}
		return nil
	})
	if err != nil {
		return ScheduleResult{}, err
	}

	log.Printf("✅ Schedules %s..%s: created=%d skipped=%d deleted=%d",
		start.Format(utils.DateLayout), end.AddDate(0, 0, -1).Format(utils.DateLayout), res.Created, res.Skipped, res.Deleted)
	return res, nil
}

func scheduleKey(id uint, day time.Time) string {
	return fmt.Sprintf("%d|%s", id, utils.DateOnly(day).Format(utils.DateLayout))
}

// List returns the rows of one transport between two days inclusive.
func (s *ScheduleService) List(ctx context.Context, tt models.TransportType, id uint, from, to time.Time) ([]models.TransportSchedule, error) {
	var rows []models.TransportSchedule
	err := s.DB.WithContext(ctx).
		Where("transport_type = ? AND transport_id = ? AND schedule_date >= ? AND schedule_date < ?", tt, id, utils.DateOnly(from), utils.DateOnly(to).AddDate(0, 0, 1)).
		Order("schedule_date ASC").
		Find(&rows).Error
	return rows, err
}
