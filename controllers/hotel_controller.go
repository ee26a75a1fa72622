package controllers

import (
	"net/http"
	"strings"

	"myanmar-travel/services"

	"github.com/gin-gonic/gin"
)

type HotelController struct {
	Svc *services.HotelService
}

func NewHotelController(svc *services.HotelService) *HotelController {
	return &HotelController{Svc: svc}
}

// GET /api/hotels
//
//	destination_id, category, min_price, max_price (USD), min_rating,
//	amenity, near=lat,lng, radius_km, sort=price|-price|rating|distance
func (ctrl *HotelController) List(c *gin.Context) {
	f := services.HotelFilter{
		DestinationID: queryUint(c, "destination_id"),
		Category:      c.Query("category"),
		Amenity:       strings.TrimSpace(c.Query("amenity")),
		Sort:          c.Query("sort"),
	}
	f.MinPrice, _ = queryFloat(c, "min_price")
	f.MaxPrice, _ = queryFloat(c, "max_price")
	f.MinRating, _ = queryFloat(c, "min_rating")
	f.RadiusKm, _ = queryFloat(c, "radius_km")

	if near := strings.TrimSpace(c.Query("near")); near != "" {
		lat, lng, ok := parseLatLng(near)
		if !ok {
			badRequest(c, "near must be lat,lng")
			return
		}
		f.NearLat, f.NearLng = &lat, &lng
	}

	hotels, err := ctrl.Svc.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hotels)
}

// GET /api/hotels/:id
func (ctrl *HotelController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	hotel, err := ctrl.Svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hotel)
}
