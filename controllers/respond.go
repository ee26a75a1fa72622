package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"myanmar-travel/models"
	"myanmar-travel/services"
	"myanmar-travel/utils"

	"github.com/gin-gonic/gin"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrNoSchedule, http.StatusNotFound},
	{services.ErrInvalidInput, http.StatusBadRequest},
	{services.ErrInvalidDates, http.StatusBadRequest},
	{services.ErrHotelMismatch, http.StatusBadRequest},
	{services.ErrInvalidSeats, http.StatusBadRequest},
	{services.ErrNoTransport, http.StatusBadRequest},
	{services.ErrDuplicate, http.StatusConflict},
	{services.ErrTripNotDraft, http.StatusConflict},
	{services.ErrTripNotBooked, http.StatusConflict},
	{services.ErrInsufficientSeats, http.StatusConflict},
	{services.ErrSeatTaken, http.StatusConflict},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrInvalidCredential, http.StatusUnauthorized},
}

// errorCode turns "insufficient_seats" into "error.insufficientSeats".
func errorCode(sentinel error) string {
	parts := strings.Split(sentinel.Error(), "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return "error." + strings.Join(parts, "")
}

// respondError maps service errors onto the error envelope. Anything
// unrecognised is logged and reported as a 500.
func respondError(c *gin.Context, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			utils.JSONCodedError(c, e.status, errorCode(e.err), err.Error())
			return
		}
	}
	log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	utils.JSONCodedError(c, http.StatusInternalServerError, "error.internal", "internal server error")
}

func badRequest(c *gin.Context, message string) {
	utils.JSONCodedError(c, http.StatusBadRequest, "error.invalidPayload", message)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.JSONCodedError(c, http.StatusBadRequest, "error.invalidId", name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(strings.TrimSpace(c.Query(name)), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return def
	}
	return v
}

func queryFloat(c *gin.Context, name string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Query(name)), 64)
	return v, err == nil
}

// queryDate reads a YYYY-MM-DD parameter, defaulting to today. The bool
// is false (and a 400 written) when the value is malformed.
func queryDate(c *gin.Context, name string) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return utils.DateOnly(time.Now()), true
	}
	d, err := utils.ParseDate(raw)
	if err != nil {
		utils.JSONCodedError(c, http.StatusBadRequest, "error.invalidDate", name+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

func parseLatLng(raw string) (float64, float64, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

func transportParam(c *gin.Context, name string) (models.TransportType, bool) {
	tt, ok := models.ParseTransportType(c.Param(name))
	if !ok {
		utils.JSONCodedError(c, http.StatusBadRequest, "error.invalidTransportType", "type must be flight, bus or car")
		return "", false
	}
	return tt, true
}
