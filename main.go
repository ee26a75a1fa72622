package main

import (
	"context"
	"flag"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"myanmar-travel/config"
	"myanmar-travel/controllers"
	"myanmar-travel/routes"
	"myanmar-travel/services"
	"myanmar-travel/utils"
)

func main() {
	config.LoadEnvFile()
	cfg := config.Load()

	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied.")

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "seed":
			runSeed(os.Args[2:])
			return
		case "schedules":
			runSchedules(os.Args[2:])
			return
		default:
			log.Fatalf("❌ unknown command %q (want seed or schedules)", os.Args[1])
		}
	}

	serve(cfg)
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// seed [--reset] [--days N] [--overwrite] [--seed N]
func runSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	reset := fs.Bool("reset", false, "delete catalogue and schedules before seeding")
	days := fs.Int("days", 30, "days of schedules to generate after seeding (0 to skip)")
	overwrite := fs.Bool("overwrite", false, "rebuild existing schedule rows")
	seed := fs.Uint64("seed", 0, "random seed for reproducible data")
	_ = fs.Parse(args)

	ctx := context.Background()
	rng := newRand(*seed)
	res, err := services.NewSeedService(config.DB, rng).Run(ctx, *reset)
	if err != nil {
		log.Fatalf("❌ Seed failed: %v", err)
	}
	log.Printf("✅ Seeded %d destinations, %d airlines, %d hotels, %d flights, %d buses, %d cars",
		res.Destinations, res.Airlines, res.Hotels, res.Flights, res.Buses, res.Cars)

	if *days > 0 {
		sched, err := services.NewScheduleService(config.DB, rng).Generate(ctx, services.ScheduleOptions{
			Days:      *days,
			Overwrite: *overwrite,
		})
		if err != nil {
			log.Fatalf("❌ Schedule generation failed: %v", err)
		}
		log.Printf("✅ Schedules: %d created, %d skipped, %d deleted", sched.Created, sched.Skipped, sched.Deleted)
	}
}

// schedules [--start YYYY-MM-DD] [--days N] [--overwrite] [--seed N]
func runSchedules(args []string) {
	fs := flag.NewFlagSet("schedules", flag.ExitOnError)
	start := fs.String("start", "", "first day (default today)")
	days := fs.Int("days", 30, "number of days to generate")
	overwrite := fs.Bool("overwrite", false, "rebuild existing schedule rows")
	seed := fs.Uint64("seed", 0, "random seed for reproducible prices")
	_ = fs.Parse(args)

	opts := services.ScheduleOptions{Days: *days, Overwrite: *overwrite}
	if *start != "" {
		d, err := utils.ParseDate(*start)
		if err != nil {
			log.Fatalf("❌ --start must be YYYY-MM-DD: %v", err)
		}
		opts.Start = d
	}
	res, err := services.NewScheduleService(config.DB, newRand(*seed)).Generate(context.Background(), opts)
	if err != nil {
		log.Fatalf("❌ Schedule generation failed: %v", err)
	}
	log.Printf("✅ Schedules: %d created, %d skipped, %d deleted", res.Created, res.Skipped, res.Deleted)
}

func serve(cfg config.Config) {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	db := config.DB

	if cfg.JWTSecret == "dev-secret-change-me" && gin.Mode() == gin.ReleaseMode {
		secret, err := utils.GenerateSecureToken(32)
		if err != nil {
			log.Fatalf("❌ generating JWT secret: %v", err)
		}
		cfg.JWTSecret = secret
		log.Println("⚠️  JWT_SECRET not set; using a random secret, tokens will not survive a restart")
	}

	cache := services.NewRedisCache(config.ConnectRedis(cfg))
	if cache.Client != nil {
		log.Printf("✅ Redis cache enabled at %s", cfg.RedisAddr)
	} else {
		log.Println("⚠️  REDIS_ADDR not set; external lookups are not cached")
	}
	cacheTTL := time.Duration(cfg.CacheTTLMinutes) * time.Minute

	// Initialize services
	destinationService := services.NewDestinationService(db)
	hotelService := services.NewHotelService(db, cfg.USDToMMKRate)
	transportService := services.NewTransportService(db)
	scheduleService := services.NewScheduleService(db, nil)
	tripService := services.NewTripService(db, cfg.USDToMMKRate)
	tripService.FrontendURL = cfg.FrontendURL
	tripService.SMTP = utils.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		FromName: cfg.SMTPFromName,
	}
	userService := services.NewUserService(db, cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	userService.UploadDir = cfg.UploadDir
	postService := services.NewPostService(db, cfg.UploadDir)
	weatherService := services.NewWeatherService(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cache, cacheTTL)
	mapsService := services.NewMapsService(db, cfg.GoogleMapsAPIKey, cfg.GoogleMapsBaseURL, cache, cacheTTL)
	adminService := services.NewAdminService(db)
	seedService := services.NewSeedService(db, nil)

	if cfg.OpenWeatherAPIKey == "" {
		log.Println("⚠️  OPENWEATHER_API_KEY not set; serving mock weather")
	}
	if cfg.GoogleMapsAPIKey == "" {
		log.Println("⚠️  GOOGLE_MAPS_API_KEY not set; serving sample places")
	}

	// Initialize controllers
	handlers := routes.Handlers{
		Destinations: controllers.NewDestinationController(destinationService),
		Hotels:       controllers.NewHotelController(hotelService),
		Transport:    controllers.NewTransportController(transportService, scheduleService),
		Trips:        controllers.NewTripController(tripService),
		Auth:         controllers.NewAuthController(userService),
		Posts:        controllers.NewPostController(postService),
		Geo:          controllers.NewGeoController(weatherService, mapsService, destinationService),
		Admin:        controllers.NewAdminController(adminService, userService, scheduleService, seedService),
	}

	router := routes.SetupRouter(cfg, handlers, userService)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}
	if cache.Client != nil {
		_ = cache.Client.Close()
	}

	log.Println("✅ Server stopped gracefully")
}
