package controllers

import (
	"errors"
	"net/http"
	"strings"

	"myanmar-travel/config"
	"myanmar-travel/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type siteSettingsPayload struct {
	Name           string   `json:"name"`
	ContactEmail   string   `json:"contact_email"`
	Phone          string   `json:"phone"`
	Website        string   `json:"website"`
	MapCenterLat   *float64 `json:"map_center_lat"`
	MapCenterLng   *float64 `json:"map_center_lng"`
	MapZoom        *int     `json:"map_zoom"`
	MapTileURL     string   `json:"map_tile_url"`
	MapAttribution string   `json:"map_attribution"`
}

func GetSiteSettings(c *gin.Context) {
	var setting models.SiteSetting
	if err := config.DB.First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"settings": models.DefaultSiteSetting()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": setting})
}

func UpdateSiteSettings(c *gin.Context) {
	var payload siteSettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err.Error())
		return
	}
	if payload.MapZoom != nil && (*payload.MapZoom < 1 || *payload.MapZoom > 20) {
		badRequest(c, "map_zoom must be between 1 and 20")
		return
	}

	var setting models.SiteSetting
	err := config.DB.First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.DefaultSiteSetting()
	} else if err != nil {
		respondError(c, err)
		return
	}

	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&setting.Name, payload.Name)
	set(&setting.ContactEmail, payload.ContactEmail)
	set(&setting.Phone, payload.Phone)
	set(&setting.Website, payload.Website)
	set(&setting.MapTileURL, payload.MapTileURL)
	set(&setting.MapAttribution, payload.MapAttribution)
	if payload.MapCenterLat != nil {
		setting.MapCenterLat = *payload.MapCenterLat
	}
	if payload.MapCenterLng != nil {
		setting.MapCenterLng = *payload.MapCenterLng
	}
	if payload.MapZoom != nil {
		setting.MapZoom = *payload.MapZoom
	}

	if err := config.DB.Save(&setting).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": setting})
}
