// Package services holds clients for external collaborators. The only one in
// this application is the Open-Meteo forecast API backing the home-page
// weather widget.
package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
)

// HourlyPreviewSize is the number of hourly entries shaped into a snapshot.
const HourlyPreviewSize = 12

// WeatherService fetches current conditions and an hourly series from
// Open-Meteo and shapes them for rendering. Responses are cached per
// coordinate pair so a busy home page does not hammer the API.
type WeatherService struct {
	client  *http.Client
	cache   *cache.Cache
	baseURL string
}

// HourlyEntry is one (time, temperature) pair of the hourly preview.
type HourlyEntry struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
}

// Snapshot is the shaped result of one forecast call.
type Snapshot struct {
	Temperature float64       `json:"temperature"`
	Description string        `json:"description"`
	ObservedAt  string        `json:"observed_at"`
	Location    string        `json:"location"`
	Hourly      []HourlyEntry `json:"hourly"`
}

// forecastResponse mirrors the Open-Meteo /v1/forecast payload, limited to
// the fields this service requests.
type forecastResponse struct {
	Current struct {
		Time          string  `json:"time"`
		Temperature2m float64 `json:"temperature_2m"`
		WeatherCode   int     `json:"weather_code"`
	} `json:"current"`
	Hourly struct {
		Time          []string  `json:"time"`
		Temperature2m []float64 `json:"temperature_2m"`
	} `json:"hourly"`
}

// NewWeatherService creates a weather service talking to the public
// Open-Meteo endpoint.
func NewWeatherService() *WeatherService {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &WeatherService{
		client: &http.Client{
			Transport: transport,
			Timeout:   10 * time.Second,
		},
		cache:   cache.New(10*time.Minute, 20*time.Minute),
		baseURL: "https://api.open-meteo.com/v1",
	}
}

// NewWeatherServiceWithBaseURL creates a weather service against a custom
// endpoint, used by tests.
func NewWeatherServiceWithBaseURL(baseURL string) *WeatherService {
	ws := NewWeatherService()
	ws.baseURL = baseURL
	return ws
}

// Fetch retrieves a shaped snapshot for the given coordinates. label is the
// fixed display name rendered for the configured location. Any network, HTTP
// or parse failure returns an error; callers are expected to degrade to a nil
// snapshot rather than failing the page.
func (ws *WeatherService) Fetch(latitude, longitude float64, label string) (*Snapshot, error) {
	cacheKey := fmt.Sprintf("forecast_%.4f_%.4f", latitude, longitude)
	if cached, found := ws.cache.Get(cacheKey); found {
		return cached.(*Snapshot), nil
	}

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", latitude))
	params.Set("longitude", fmt.Sprintf("%.4f", longitude))
	params.Set("current", "temperature_2m,weather_code")
	params.Set("hourly", "temperature_2m")
	params.Set("timezone", "auto")

	reqURL := fmt.Sprintf("%s/forecast?%s", ws.baseURL, params.Encode())

	resp, err := ws.client.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var data forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	snapshot := &Snapshot{
		Temperature: data.Current.Temperature2m,
		Description: ws.Description(data.Current.WeatherCode),
		ObservedAt:  formatObservationTime(data.Current.Time),
		Location:    label,
		Hourly:      shapeHourly(data.Hourly.Time, data.Hourly.Temperature2m),
	}

	ws.cache.Set(cacheKey, snapshot, cache.DefaultExpiration)
	return snapshot, nil
}

// Description maps an Open-Meteo weather code to human-readable text.
// Unknown codes render as "Weather code <n>".
func (ws *WeatherService) Description(code int) string {
	weatherCodes := map[int]string{
		0:  "Clear sky",
		1:  "Mainly clear",
		2:  "Partly cloudy",
		3:  "Overcast",
		45: "Fog",
		48: "Depositing rime fog",
		51: "Light drizzle",
		53: "Moderate drizzle",
		55: "Dense drizzle",
		56: "Light freezing drizzle",
		57: "Dense freezing drizzle",
		61: "Slight rain",
		63: "Moderate rain",
		65: "Heavy rain",
		66: "Light freezing rain",
		67: "Heavy freezing rain",
		71: "Slight snow",
		73: "Moderate snow",
		75: "Heavy snow",
		77: "Snow grains",
		80: "Slight rain showers",
		81: "Moderate rain showers",
		82: "Violent rain showers",
		85: "Slight snow showers",
		86: "Heavy snow showers",
		95: "Thunderstorm",
		96: "Thunderstorm with slight hail",
		99: "Thunderstorm with heavy hail",
	}

	if desc, ok := weatherCodes[code]; ok {
		return desc
	}
	return fmt.Sprintf("Weather code %d", code)
}

// shapeHourly pairs up the parallel time/temperature arrays and bounds the
// preview, starting from the first hourly entry of the response.
func shapeHourly(times []string, temps []float64) []HourlyEntry {
	n := len(times)
	if len(temps) < n {
		n = len(temps)
	}
	if n > HourlyPreviewSize {
		n = HourlyPreviewSize
	}

	hourly := make([]HourlyEntry, 0, n)
	for i := 0; i < n; i++ {
		hourly = append(hourly, HourlyEntry{Time: times[i], Temperature: temps[i]})
	}
	return hourly
}

// formatObservationTime reformats Open-Meteo's local timestamp for display.
// An unparseable value is passed through unchanged.
func formatObservationTime(raw string) string {
	t, err := time.Parse("2006-01-02T15:04", raw)
	if err != nil {
		return raw
	}
	return t.Format("Jan 2, 15:04")
}
