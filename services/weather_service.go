package services

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const defaultOpenWeatherURL = "https://api.openweathermap.org"

type CurrentWeather struct {
	TempC       float64 `json:"temp_c"`
	FeelsLikeC  float64 `json:"feels_like_c"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

type DailyForecast struct {
	Date        string  `json:"date"`
	MinC        float64 `json:"min_c"`
	MaxC        float64 `json:"max_c"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	RainChance  int     `json:"rain_chance"`
}

type Weather struct {
	Source   string          `json:"source"` // live | mock
	Location string          `json:"location"`
	Lat      float64         `json:"lat"`
	Lon      float64         `json:"lon"`
	Season   string          `json:"season"`
	Current  CurrentWeather  `json:"current"`
	Forecast []DailyForecast `json:"forecast"`
}

type WeatherService struct {
	Client  *http.Client
	APIKey  string
	BaseURL string
	Cache   Cache
	TTL     time.Duration
	Now     func() time.Time
}

func NewWeatherService(apiKey, baseURL string, cache Cache, ttl time.Duration) *WeatherService {
	if baseURL == "" {
		baseURL = defaultOpenWeatherURL
	}
	return &WeatherService{
		Client:  &http.Client{Timeout: 10 * time.Second},
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Cache:   cache,
		TTL:     ttl,
		Now:     time.Now,
	}
}

// Season buckets a month into Myanmar's three seasons.
func Season(m time.Month) string {
	switch {
	case m >= time.March && m <= time.May:
		return "hot"
	case m >= time.June && m <= time.October:
		return "rainy"
	default:
		return "cool"
	}
}

// Lookup returns live conditions when an API key is configured, and a
// seasonal mock otherwise or on any upstream failure.
func (s *WeatherService) Lookup(ctx context.Context, location string, lat, lon float64) Weather {
	now := s.Now()
	if s.APIKey == "" {
		return MockWeather(location, lat, lon, now)
	}
	key := fmt.Sprintf("weather:%.3f,%.3f", lat, lon)
	w, err := cached(ctx, s.Cache, key, s.TTL, func() (Weather, bool, error) {
		w, err := s.fetch(ctx, lat, lon)
		return w, err == nil, err
	})
	if err != nil {
		log.Printf("⚠️ weather lookup for %s failed, using mock: %v", location, err)
		return MockWeather(location, lat, lon, now)
	}
	if location != "" {
		w.Location = location
	}
	return w
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmCurrent struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []owmCondition `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type owmForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			TempMin float64 `json:"temp_min"`
			TempMax float64 `json:"temp_max"`
		} `json:"main"`
		Weather []owmCondition `json:"weather"`
		Pop     float64        `json:"pop"`
	} `json:"list"`
	City struct {
		Timezone int `json:"timezone"`
	} `json:"city"`
}

func (s *WeatherService) get(ctx context.Context, path string, lat, lon float64, out any) error {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("units", "metric")
	q.Set("appid", s.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path+"?"+q.Encode(), nil)
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
		return fmt.Errorf("openweathermap %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, out)
}

func (s *WeatherService) fetch(ctx context.Context, lat, lon float64) (Weather, error) {
	var cur owmCurrent
	if err := s.get(ctx, "/data/2.5/weather", lat, lon, &cur); err != nil {
		return Weather{}, err
	}
	var fc owmForecast
	if err := s.get(ctx, "/data/2.5/forecast", lat, lon, &fc); err != nil {
		return Weather{}, err
	}

	w := Weather{
		Source:   "live",
		Location: cur.Name,
		Lat:      lat,
		Lon:      lon,
		Season:   Season(s.Now().Month()),
		Current: CurrentWeather{
			TempC:      cur.Main.Temp,
			FeelsLikeC: cur.Main.FeelsLike,
			Humidity:   cur.Main.Humidity,
			WindSpeed:  cur.Wind.Speed,
		},
	}
	if len(cur.Weather) > 0 {
		w.Current.Condition = cur.Weather[0].Main
		w.Current.Description = cur.Weather[0].Description
		w.Current.Icon = cur.Weather[0].Icon
	}

	// Three-hour slots are folded into local calendar days.
	tz := time.FixedZone("local", fc.City.Timezone)
	days := map[string]*DailyForecast{}
	for _, slot := range fc.List {
		date := time.Unix(slot.Dt, 0).In(tz).Format("2006-01-02")
		d, ok := days[date]
		if !ok {
			d = &DailyForecast{Date: date, MinC: slot.Main.TempMin, MaxC: slot.Main.TempMax}
			days[date] = d
		}
		d.MinC = math.Min(d.MinC, slot.Main.TempMin)
		d.MaxC = math.Max(d.MaxC, slot.Main.TempMax)
		if rain := int(math.Round(slot.Pop * 100)); rain > d.RainChance {
			d.RainChance = rain
		}
		if d.Condition == "" && len(slot.Weather) > 0 {
			d.Condition = slot.Weather[0].Main
			d.Description = slot.Weather[0].Description
			d.Icon = slot.Weather[0].Icon
		}
	}
	for _, d := range days {
		w.Forecast = append(w.Forecast, *d)
	}
	sort.Slice(w.Forecast, func(i, j int) bool { return w.Forecast[i].Date < w.Forecast[j].Date })
	if len(w.Forecast) > 5 {
		w.Forecast = w.Forecast[:5]
	}
	return w, nil
}

type seasonProfile struct {
	minC, maxC  float64
	humidity    int
	rainChance  int
	condition   string
	description string
	icon        string
}

var seasonProfiles = map[string]seasonProfile{
	"hot":   {minC: 26, maxC: 38, humidity: 45, rainChance: 10, condition: "Clear", description: "hot and sunny", icon: "01d"},
	"rainy": {minC: 24, maxC: 31, humidity: 85, rainChance: 75, condition: "Rain", description: "monsoon showers", icon: "10d"},
	"cool":  {minC: 17, maxC: 29, humidity: 60, rainChance: 5, condition: "Clouds", description: "mild with a few clouds", icon: "02d"},
}

// MockWeather derives stable numbers from the place and day so repeated
// calls agree with each other.
func MockWeather(location string, lat, lon float64, now time.Time) Weather {
	jitter := func(day time.Time, salt string) float64 {
		h := fnv.New32a()
		fmt.Fprintf(h, "%.2f|%.2f|%s|%s", lat, lon, day.Format("2006-01-02"), salt)
		return float64(h.Sum32()%1000)/1000*2 - 1 // [-1, 1)
	}

	season := Season(now.Month())
	p := seasonProfiles[season]
	w := Weather{
		Source:   "mock",
		Location: location,
		Lat:      lat,
		Lon:      lon,
		Season:   season,
	}

	// Highland stations run cooler.
	offset := 0.0
	if lat > 20.5 && lon > 96.5 {
		offset = -5
	}

	mid := (p.minC+p.maxC)/2 + offset
	temp := math.Round((mid+2*jitter(now, "t"))*10) / 10
	w.Current = CurrentWeather{
		TempC:       temp,
		FeelsLikeC:  math.Round((temp+float64(p.humidity)/40)*10) / 10,
		Humidity:    p.humidity + int(5*jitter(now, "h")),
		WindSpeed:   math.Round((3+2*jitter(now, "w"))*10) / 10,
		Condition:   p.condition,
		Description: p.description,
		Icon:        p.icon,
	}
	for i := 0; i < 5; i++ {
		day := now.AddDate(0, 0, i)
		rain := p.rainChance + int(15*jitter(day, "r"))
		rain = max(0, min(100, rain))
		w.Forecast = append(w.Forecast, DailyForecast{
			Date:        day.Format("2006-01-02"),
			MinC:        math.Round((p.minC+offset+jitter(day, "lo"))*10) / 10,
			MaxC:        math.Round((p.maxC+offset+jitter(day, "hi"))*10) / 10,
			Condition:   p.condition,
			Description: p.description,
			Icon:        p.icon,
			RainChance:  rain,
		})
	}
	return w
}
