package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"myanmar-travel/middleware"
	"myanmar-travel/models"
	"myanmar-travel/services"
	"myanmar-travel/utils"

	"github.com/gin-gonic/gin"
)

type TripController struct {
	Svc *services.TripService
}

func NewTripController(svc *services.TripService) *TripController {
	return &TripController{Svc: svc}
}

type tripPayload struct {
	Title         string `json:"title"`
	DestinationID uint   `json:"destination_id" binding:"required"`
	StartDate     string `json:"start_date" binding:"required"`
	EndDate       string `json:"end_date" binding:"required"`
	Travelers     int    `json:"travelers"`
	Rooms         int    `json:"rooms"`
	Notes         string `json:"notes"`
}

type tripPatch struct {
	Title     *string `json:"title"`
	Notes     *string `json:"notes"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Travelers *int    `json:"travelers"`
	Rooms     *int    `json:"rooms"`
}

type transportPayload struct {
	Type string `json:"type" binding:"required"`
	ID   uint   `json:"id" binding:"required"`
	Date string `json:"date"`
}

type seatsPayload struct {
	Seats []string `json:"seats" binding:"required"`
}

func parseDatePtr(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := utils.ParseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GET /api/trips?status=
func (ctrl *TripController) List(c *gin.Context) {
	trips, err := ctrl.Svc.List(c.Request.Context(), middleware.UserID(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// POST /api/trips
func (ctrl *TripController) Create(c *gin.Context) {
	var p tripPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		log.Printf("❌ Trip payload error: %v", err)
		badRequest(c, err.Error())
		return
	}
	start, err1 := utils.ParseDate(p.StartDate)
	end, err2 := utils.ParseDate(p.EndDate)
	if err1 != nil || err2 != nil {
		utils.JSONCodedError(c, http.StatusBadRequest, "error.invalidDate", "dates must be YYYY-MM-DD")
		return
	}
	trip, err := ctrl.Svc.Create(c.Request.Context(), middleware.UserID(c), services.TripInput{
		Title:         p.Title,
		DestinationID: p.DestinationID,
		StartDate:     start,
		EndDate:       end,
		Travelers:     p.Travelers,
		Rooms:         p.Rooms,
		Notes:         p.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Trip created", "data": trip})
}

// GET /api/trips/:id
func (ctrl *TripController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	trip, err := ctrl.Svc.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// GET /api/bookings/:ref
// Owners and admins only; anyone else sees a 404.
func (ctrl *TripController) ByReference(c *gin.Context) {
	trip, err := ctrl.Svc.ByReference(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	if trip.UserID != middleware.UserID(c) && !middleware.IsAdmin(c) {
		respondError(c, services.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// PATCH /api/trips/:id
func (ctrl *TripController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var p tripPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err.Error())
		return
	}
	start, err1 := parseDatePtr(p.StartDate)
	end, err2 := parseDatePtr(p.EndDate)
	if err1 != nil || err2 != nil {
		utils.JSONCodedError(c, http.StatusBadRequest, "error.invalidDate", "dates must be YYYY-MM-DD")
		return
	}
	trip, err := ctrl.Svc.Update(c.Request.Context(), middleware.UserID(c), id, services.TripUpdate{
		Title:     p.Title,
		Notes:     p.Notes,
		StartDate: start,
		EndDate:   end,
		Travelers: p.Travelers,
		Rooms:     p.Rooms,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip updated", "data": trip})
}

// DELETE /api/trips/:id
func (ctrl *TripController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Svc.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}

// POST /api/trips/:id/hotel/:hotelId (hotelId 0 clears the selection)
func (ctrl *TripController) SelectHotel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	hotelID := uint(0)
	if c.Param("hotelId") != "0" {
		if hotelID, ok = paramID(c, "hotelId"); !ok {
			return
		}
	}
	trip, err := ctrl.Svc.SelectHotel(c.Request.Context(), middleware.UserID(c), id, hotelID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Hotel saved", "data": trip})
}

// POST /api/trips/:id/transport
func (ctrl *TripController) SaveTransport(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var p transportPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err.Error())
		return
	}
	tt, ok := models.ParseTransportType(p.Type)
	if !ok {
		utils.JSONCodedError(c, http.StatusBadRequest, "error.invalidTransportType", "type must be flight, bus or car")
		return
	}
	choice := services.TransportChoice{Type: tt, ID: p.ID}
	if strings.TrimSpace(p.Date) != "" {
		d, err := utils.ParseDate(p.Date)
		if err != nil {
			utils.JSONCodedError(c, http.StatusBadRequest, "error.invalidDate", "date must be YYYY-MM-DD")
			return
		}
		choice.Date = d
	}
	trip, err := ctrl.Svc.SaveTransport(c.Request.Context(), middleware.UserID(c), id, choice)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transport saved", "data": trip})
}

// DELETE /api/trips/:id/transport
func (ctrl *TripController) ClearTransport(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	trip, err := ctrl.Svc.ClearTransport(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transport cleared", "data": trip})
}

// POST /api/trips/:id/seats
func (ctrl *TripController) SelectSeats(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var p seatsPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err.Error())
		return
	}
	trip, err := ctrl.Svc.SelectSeats(c.Request.Context(), middleware.UserID(c), id, p.Seats)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Seats saved", "data": trip})
}

// GET /api/trips/:id/summary
func (ctrl *TripController) Summary(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sum, err := ctrl.Svc.Summary(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// POST /api/trips/:id/book
func (ctrl *TripController) Book(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	trip, err := ctrl.Svc.Book(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip booked", "data": trip})
}

// POST /api/trips/:id/cancel
func (ctrl *TripController) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	trip, err := ctrl.Svc.Cancel(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip cancelled", "data": trip})
}

// GET /api/trips/:id/itinerary.pdf
func (ctrl *TripController) Itinerary(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	body, filename, err := ctrl.Svc.Itinerary(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", body)
}
