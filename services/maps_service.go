package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"myanmar-travel/models"

	"gorm.io/gorm"
)

const defaultGoogleMapsURL = "https://maps.googleapis.com"

type Place struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	PlaceID  string   `json:"place_id,omitempty"`
	Rating   float64  `json:"rating,omitempty"`
	Types    []string `json:"types,omitempty"`
	Distance *float64 `json:"distance_km,omitempty"`
}

type PlaceResult struct {
	Source  string  `json:"source"` // google | sample
	Query   string  `json:"query"`
	Results []Place `json:"results"`
}

type MapConfig struct {
	CenterLat     float64 `json:"center_lat"`
	CenterLng     float64 `json:"center_lng"`
	Zoom          int     `json:"zoom"`
	TileURL       string  `json:"tile_url"`
	Attribution   string  `json:"attribution"`
	GoogleEnabled bool    `json:"google_enabled"`
}

type MapsService struct {
	DB      *gorm.DB
	Client  *http.Client
	APIKey  string
	BaseURL string
	Cache   Cache
	TTL     time.Duration
}

func NewMapsService(db *gorm.DB, apiKey, baseURL string, cache Cache, ttl time.Duration) *MapsService {
	if baseURL == "" {
		baseURL = defaultGoogleMapsURL
	}
	return &MapsService{
		DB:      db,
		Client:  &http.Client{Timeout: 10 * time.Second},
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Cache:   cache,
		TTL:     ttl,
	}
}

// sampleLandmarks backs the map when neither Google nor seeded data can answer.
var sampleLandmarks = []Place{
	{Name: "Shwedagon Pagoda", Address: "Singuttara Hill, Yangon", Lat: 16.7983, Lng: 96.1497, Types: []string{"tourist_attraction"}},
	{Name: "Sule Pagoda", Address: "Sule Pagoda Rd, Yangon", Lat: 16.7746, Lng: 96.1588, Types: []string{"tourist_attraction"}},
	{Name: "Mandalay Palace", Address: "Mandalay", Lat: 21.9922, Lng: 96.0960, Types: []string{"tourist_attraction"}},
	{Name: "U Bein Bridge", Address: "Amarapura, Mandalay", Lat: 21.8924, Lng: 96.0578, Types: []string{"tourist_attraction"}},
	{Name: "Ananda Temple", Address: "Old Bagan", Lat: 21.1707, Lng: 94.8679, Types: []string{"tourist_attraction"}},
	{Name: "Shwezigon Pagoda", Address: "Nyaung-U, Bagan", Lat: 21.1946, Lng: 94.8948, Types: []string{"tourist_attraction"}},
	{Name: "Inle Lake", Address: "Nyaungshwe, Shan State", Lat: 20.5500, Lng: 96.9167, Types: []string{"natural_feature"}},
	{Name: "Kyaiktiyo Pagoda (Golden Rock)", Address: "Kyaikto, Mon State", Lat: 17.4817, Lng: 97.0981, Types: []string{"tourist_attraction"}},
	{Name: "Ngapali Beach", Address: "Thandwe, Rakhine State", Lat: 18.4167, Lng: 94.3000, Types: []string{"natural_feature"}},
	{Name: "Uppatasanti Pagoda", Address: "Naypyidaw", Lat: 19.7717, Lng: 96.1822, Types: []string{"tourist_attraction"}},
	{Name: "Pindaya Caves", Address: "Pindaya, Shan State", Lat: 20.9431, Lng: 96.6597, Types: []string{"tourist_attraction"}},
	{Name: "Mrauk U Archaeological Zone", Address: "Mrauk U, Rakhine State", Lat: 20.5961, Lng: 93.1900, Types: []string{"tourist_attraction"}},
}

func matches(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func (s *MapsService) googleGet(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", s.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("google maps %s returned %d", path, resp.StatusCode)
	}
	return json.Unmarshal(body, out)
}

type googleResults struct {
	Status  string `json:"status"`
	Results []struct {
		Name             string   `json:"name"`
		FormattedAddress string   `json:"formatted_address"`
		PlaceID          string   `json:"place_id"`
		Rating           float64  `json:"rating"`
		Types            []string `json:"types"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

func (r googleResults) places() ([]Place, error) {
	if r.Status != "OK" && r.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("google maps status %s: %s", r.Status, r.ErrorMessage)
	}
	out := make([]Place, 0, len(r.Results))
	for _, g := range r.Results {
		out = append(out, Place{
			Name:    g.Name,
			Address: g.FormattedAddress,
			Lat:     g.Geometry.Location.Lat,
			Lng:     g.Geometry.Location.Lng,
			PlaceID: g.PlaceID,
			Rating:  g.Rating,
			Types:   g.Types,
		})
	}
	return out, nil
}

// Geocode resolves an address through the Geocoding API, falling back to
// seeded destinations and the sample landmarks.
func (s *MapsService) Geocode(ctx context.Context, address string) (PlaceResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return PlaceResult{}, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if s.APIKey != "" {
		res, err := cached(ctx, s.Cache, "geocode:"+strings.ToLower(address), s.TTL, func() (PlaceResult, bool, error) {
			var r googleResults
			params := url.Values{"address": {address}, "region": {"mm"}}
			if err := s.googleGet(ctx, "/maps/api/geocode/json", params, &r); err != nil {
				return PlaceResult{}, false, err
			}
			places, err := r.places()
			if err != nil {
				return PlaceResult{}, false, err
			}
			return PlaceResult{Source: "google", Query: address, Results: places}, true, nil
		})
		if err == nil {
			return res, nil
		}
		log.Printf("⚠️ geocode %q failed, using sample data: %v", address, err)
	}
	return s.sampleGeocode(ctx, address), nil
}

func (s *MapsService) sampleGeocode(ctx context.Context, address string) PlaceResult {
	q := strings.ToLower(address)
	res := PlaceResult{Source: "sample", Query: address}
	if s.DB != nil {
		var dests []models.Destination
		like := "%" + q + "%"
		if err := s.DB.WithContext(ctx).Where("LOWER(name) LIKE ? OR LOWER(region) LIKE ?", like, like).
			Limit(10).Find(&dests).Error; err == nil {
			for _, d := range dests {
				res.Results = append(res.Results, Place{
					Name: d.Name, Address: strings.TrimSpace(d.Name + ", " + d.Region),
					Lat: d.Latitude, Lng: d.Longitude, Types: []string{string(d.Type)},
				})
			}
		}
	}
	for _, p := range sampleLandmarks {
		if matches(q, p.Name, p.Address) {
			res.Results = append(res.Results, p)
		}
	}
	if res.Results == nil {
		res.Results = []Place{}
	}
	return res
}

// Places runs a text search, biased to a destination when one is given.
func (s *MapsService) Places(ctx context.Context, query string, destinationID uint) (PlaceResult, error) {
	query = strings.TrimSpace(query)
	var dest *models.Destination
	if destinationID != 0 {
		var d models.Destination
		if err := s.DB.WithContext(ctx).First(&d, destinationID).Error; err != nil {
			return PlaceResult{}, notFound(err)
		}
		dest = &d
	}
	if query == "" && dest == nil {
		return PlaceResult{}, fmt.Errorf("%w: query or destination_id is required", ErrInvalidInput)
	}

	if s.APIKey != "" {
		text := query
		params := url.Values{}
		if dest != nil {
			if text == "" {
				text = "tourist attractions"
			}
			text = text + " in " + dest.Name
			params.Set("location", fmt.Sprintf("%f,%f", dest.Latitude, dest.Longitude))
			params.Set("radius", "20000")
		}
		params.Set("query", text)
		res, err := cached(ctx, s.Cache, "places:"+strings.ToLower(text), s.TTL, func() (PlaceResult, bool, error) {
			var r googleResults
			if err := s.googleGet(ctx, "/maps/api/place/textsearch/json", params, &r); err != nil {
				return PlaceResult{}, false, err
			}
			places, err := r.places()
			if err != nil {
				return PlaceResult{}, false, err
			}
			return PlaceResult{Source: "google", Query: text, Results: places}, true, nil
		})
		if err == nil {
			return res, nil
		}
		log.Printf("⚠️ places search %q failed, using sample data: %v", text, err)
	}
	return s.samplePlaces(ctx, query, dest), nil
}

func (s *MapsService) samplePlaces(ctx context.Context, query string, dest *models.Destination) PlaceResult {
	q := strings.ToLower(query)
	res := PlaceResult{Source: "sample", Query: query, Results: []Place{}}

	hotels := s.DB.WithContext(ctx).Model(&models.Hotel{})
	if dest != nil {
		hotels = hotels.Where("destination_id = ?", dest.ID)
	}
	if q != "" {
		like := "%" + q + "%"
		hotels = hotels.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", like, like)
	}
	var rows []models.Hotel
	if err := hotels.Order("rating DESC").Limit(10).Find(&rows).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("⚠️ sample places hotels: %v", err)
	}
	for _, h := range rows {
		res.Results = append(res.Results, Place{
			Name: h.Name, Address: h.Address, Lat: h.Latitude, Lng: h.Longitude,
			Rating: h.Rating, Types: []string{"lodging"},
		})
	}

	for _, p := range sampleLandmarks {
		if dest != nil {
			km := HaversineKm(dest.Latitude, dest.Longitude, p.Lat, p.Lng)
			if km > 60 {
				continue
			}
			km = float64(int(km*10)) / 10
			p.Distance = &km
		}
		if matches(q, p.Name, p.Address) || (dest != nil && q == "") {
			res.Results = append(res.Results, p)
		}
	}
	return res
}

// Config returns the Leaflet map defaults from site settings.
func (s *MapsService) Config(ctx context.Context) MapConfig {
	setting := models.DefaultSiteSetting()
	if s.DB != nil {
		var stored models.SiteSetting
		if err := s.DB.WithContext(ctx).First(&stored).Error; err == nil {
			setting = stored
		}
	}
	return MapConfig{
		CenterLat:     setting.MapCenterLat,
		CenterLng:     setting.MapCenterLng,
		Zoom:          setting.MapZoom,
		TileURL:       setting.MapTileURL,
		Attribution:   setting.MapAttribution,
		GoogleEnabled: s.APIKey != "",
	}
}
