package controllers

import (
	"net/http"

	"myanmar-travel/services"

	"github.com/gin-gonic/gin"
)

type TransportController struct {
	Svc         *services.TransportService
	ScheduleSvc *services.ScheduleService
}

func NewTransportController(svc *services.TransportService, schedules *services.ScheduleService) *TransportController {
	return &TransportController{Svc: svc, ScheduleSvc: schedules}
}

func (ctrl *TransportController) routeQuery(c *gin.Context) (services.RouteQuery, bool) {
	day, ok := queryDate(c, "date")
	if !ok {
		return services.RouteQuery{}, false
	}
	q := services.RouteQuery{
		FromID: queryUint(c, "from"),
		ToID:   queryUint(c, "to"),
		Date:   day,
	}
	if q.FromID == 0 || q.ToID == 0 {
		badRequest(c, "from and to destination ids are required")
		return q, false
	}
	return q, true
}

// GET /api/transport/flights?from=&to=&date=
func (ctrl *TransportController) Flights(c *gin.Context) {
	q, ok := ctrl.routeQuery(c)
	if !ok {
		return
	}
	opts, err := ctrl.Svc.SearchFlights(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// GET /api/transport/buses?from=&to=&date=
func (ctrl *TransportController) Buses(c *gin.Context) {
	q, ok := ctrl.routeQuery(c)
	if !ok {
		return
	}
	opts, err := ctrl.Svc.SearchBuses(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// GET /api/transport/cars?location=&date=
func (ctrl *TransportController) Cars(c *gin.Context) {
	day, ok := queryDate(c, "date")
	if !ok {
		return
	}
	location := queryUint(c, "location")
	if location == 0 {
		badRequest(c, "location destination id is required")
		return
	}
	opts, err := ctrl.Svc.SearchCars(c.Request.Context(), location, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// GET /api/transport/:type/:id
func (ctrl *TransportController) Get(c *gin.Context) {
	tt, ok := transportParam(c, "type")
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	opt, err := ctrl.Svc.Option(c.Request.Context(), tt, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opt)
}

// GET /api/transport/:type/:id/seats?date=
func (ctrl *TransportController) Seats(c *gin.Context) {
	tt, ok := transportParam(c, "type")
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	day, ok := queryDate(c, "date")
	if !ok {
		return
	}
	sm, err := ctrl.Svc.SeatMap(c.Request.Context(), tt, id, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sm)
}

// GET /api/transport/:type/:id/schedules?from=&to=
// Defaults to the next 14 days.
func (ctrl *TransportController) Schedules(c *gin.Context) {
	tt, ok := transportParam(c, "type")
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to := from.AddDate(0, 0, 13)
	if c.Query("to") != "" {
		if to, ok = queryDate(c, "to"); !ok {
			return
		}
	}
	if to.Before(from) {
		badRequest(c, "to must not be before from")
		return
	}
	rows, err := ctrl.ScheduleSvc.List(c.Request.Context(), tt, id, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
