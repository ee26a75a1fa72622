package controllers

import (
	"net/http"
	"strings"

	"myanmar-travel/services"

	"github.com/gin-gonic/gin"
)

type DestinationController struct {
	Svc *services.DestinationService
}

func NewDestinationController(svc *services.DestinationService) *DestinationController {
	return &DestinationController{Svc: svc}
}

// GET /api/destinations?type=&region=&q=&popular=
func (ctrl *DestinationController) List(c *gin.Context) {
	f := services.DestinationFilter{
		Type:   c.Query("type"),
		Region: c.Query("region"),
		Query:  c.Query("q"),
	}
	if raw := strings.ToLower(strings.TrimSpace(c.Query("popular"))); raw != "" {
		popular := raw == "1" || raw == "true"
		f.Popular = &popular
	}
	dests, err := ctrl.Svc.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dests)
}

// GET /api/destinations/:id
func (ctrl *DestinationController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	dest, err := ctrl.Svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	count, err := ctrl.Svc.HotelCount(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"destination": dest, "hotel_count": count})
}
