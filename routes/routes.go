package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"myanmar-travel/config"
	"myanmar-travel/controllers"
	"myanmar-travel/middleware"
)

// Handlers bundles the controller instances mounted by SetupRouter.
type Handlers struct {
	Destinations *controllers.DestinationController
	Hotels       *controllers.HotelController
	Transport    *controllers.TransportController
	Trips        *controllers.TripController
	Auth         *controllers.AuthController
	Posts        *controllers.PostController
	Geo          *controllers.GeoController
	Admin        *controllers.AdminController
}

func SetupRouter(cfg config.Config, h Handlers, tokens middleware.TokenParser) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())
	r.Static("/uploads", cfg.UploadDir)

	origins := cfg.Origins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	optional := middleware.Authenticate(tokens, false)
	required := middleware.Authenticate(tokens, true)

	api := r.Group("/api")
	{
		destinations := api.Group("/destinations")
		{
			destinations.GET("", h.Destinations.List)
			destinations.GET("/:id", h.Destinations.Get)
		}

		hotels := api.Group("/hotels")
		{
			hotels.GET("", h.Hotels.List)
			hotels.GET("/:id", h.Hotels.Get)
		}

		transport := api.Group("/transport")
		{
			transport.GET("/flights", h.Transport.Flights)
			transport.GET("/buses", h.Transport.Buses)
			transport.GET("/cars", h.Transport.Cars)
			transport.GET("/:type/:id", h.Transport.Get)
			transport.GET("/:type/:id/seats", h.Transport.Seats)
			transport.GET("/:type/:id/schedules", h.Transport.Schedules)
		}

		api.GET("/weather", h.Geo.Weather)
		maps := api.Group("/maps")
		{
			maps.GET("/geocode", h.Geo.Geocode)
			maps.GET("/places", h.Geo.Places)
			maps.GET("/config", h.Geo.MapConfig)
		}

		api.GET("/settings", controllers.GetSiteSettings)

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/me", required, h.Auth.Me)
			auth.PATCH("/me", required, h.Auth.UpdateMe)
			auth.POST("/password", required, h.Auth.ChangePassword)
		}

		trips := api.Group("/trips", required)
		{
			trips.GET("", h.Trips.List)
			trips.POST("", h.Trips.Create)
			trips.GET("/:id", h.Trips.Get)
			trips.PATCH("/:id", h.Trips.Update)
			trips.DELETE("/:id", h.Trips.Delete)
			trips.POST("/:id/hotel/:hotelId", h.Trips.SelectHotel)
			trips.POST("/:id/transport", h.Trips.SaveTransport)
			trips.DELETE("/:id/transport", h.Trips.ClearTransport)
			trips.POST("/:id/seats", h.Trips.SelectSeats)
			trips.GET("/:id/summary", h.Trips.Summary)
			trips.POST("/:id/book", h.Trips.Book)
			trips.POST("/:id/cancel", h.Trips.Cancel)
			trips.GET("/:id/itinerary.pdf", h.Trips.Itinerary)
		}
		api.GET("/bookings/:ref", required, h.Trips.ByReference)

		posts := api.Group("/posts")
		{
			posts.GET("", optional, h.Posts.Feed)
			posts.GET("/:id", optional, h.Posts.Get)
			posts.POST("", required, h.Posts.Create)
			posts.DELETE("/:id", required, h.Posts.Delete)
			posts.POST("/:id/comments", required, h.Posts.AddComment)
			posts.POST("/:id/like", required, h.Posts.ToggleLike)
		}
		api.DELETE("/comments/:id", required, h.Posts.DeleteComment)

		admin := api.Group("/admin", required, middleware.RequireAdmin())
		{
			admin.GET("/dashboard", h.Admin.Dashboard)
			admin.GET("/resources", h.Admin.Resources)
			admin.GET("/r/:resource", h.Admin.List)
			admin.POST("/r/:resource", h.Admin.Create)
			admin.POST("/r/:resource/bulk-delete", h.Admin.BulkDelete)
			admin.GET("/r/:resource/:id", h.Admin.Get)
			admin.PATCH("/r/:resource/:id", h.Admin.Update)
			admin.DELETE("/r/:resource/:id", h.Admin.Delete)
			admin.GET("/users", h.Admin.ListUsers)
			admin.PATCH("/users/:id/role", h.Admin.SetRole)
			admin.POST("/schedules/generate", h.Admin.GenerateSchedules)
			admin.POST("/seed", h.Admin.Seed)
			admin.GET("/settings", controllers.GetSiteSettings)
			admin.PUT("/settings", controllers.UpdateSiteSettings)
		}
	}

	return r
}
