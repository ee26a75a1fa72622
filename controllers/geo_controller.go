package controllers

import (
	"net/http"
	"strings"

	"myanmar-travel/services"

	"github.com/gin-gonic/gin"
)

// GeoController serves weather and map lookups. Both degrade to sample
// data when the upstream API is unavailable.
type GeoController struct {
	Forecasts    *services.WeatherService
	Maps         *services.MapsService
	Destinations *services.DestinationService
}

func NewGeoController(weather *services.WeatherService, maps *services.MapsService, dests *services.DestinationService) *GeoController {
	return &GeoController{Forecasts: weather, Maps: maps, Destinations: dests}
}

// GET /api/weather?destination_id= or ?lat=&lon=&location=
func (ctrl *GeoController) Weather(c *gin.Context) {
	if id := queryUint(c, "destination_id"); id != 0 {
		dest, err := ctrl.Destinations.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ctrl.Forecasts.Lookup(c.Request.Context(), dest.Name, dest.Latitude, dest.Longitude))
		return
	}

	location := strings.TrimSpace(c.Query("location"))
	lat, okLat := queryFloat(c, "lat")
	lon, okLon := queryFloat(c, "lon")
	if !okLat && !okLon && location != "" {
		dest, err := ctrl.Destinations.FindByName(c.Request.Context(), location)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ctrl.Forecasts.Lookup(c.Request.Context(), dest.Name, dest.Latitude, dest.Longitude))
		return
	}
	if !okLat || !okLon || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		badRequest(c, "destination_id, location or lat and lon required")
		return
	}
	if location == "" {
		location = "Custom location"
	}
	c.JSON(http.StatusOK, ctrl.Forecasts.Lookup(c.Request.Context(), location, lat, lon))
}

// GET /api/maps/geocode?address=
func (ctrl *GeoController) Geocode(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		badRequest(c, "address required")
		return
	}
	res, err := ctrl.Maps.Geocode(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/maps/places?query=&destination_id= (q is accepted too)
func (ctrl *GeoController) Places(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		query = strings.TrimSpace(c.Query("q"))
	}
	res, err := ctrl.Maps.Places(c.Request.Context(), query, queryUint(c, "destination_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/maps/config
func (ctrl *GeoController) MapConfig(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.Maps.Config(c.Request.Context()))
}
