// Package ergast fetches the Formula 1 schedule and race-site weather,
// returning parsed value objects.
package ergast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"teaBot/internal/domain"
)

const (
	scheduleURL = "https://ergast.com/api/f1/current.json"
	weatherURL  = "https://api.openweathermap.org/data/2.5/weather"

	// Sessions run for about two hours; a race still counts as "next" until
	// that long after lights out.
	raceLength = 2 * time.Hour

	scheduleTTL = time.Hour
)

type Client struct {
	http       *http.Client
	weatherKey string

	mu      sync.Mutex
	races   []domain.Race
	fetched time.Time
}

func NewClient(weatherKey string) *Client {
	return &Client{
		http:       &http.Client{},
		weatherKey: weatherKey,
	}
}

func (c *Client) NextRace(ctx context.Context) (*domain.Race, error) {
	races, err := c.schedule(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, race := range races {
		if now.Before(race.Start.Add(raceLength)) {
			r := race
			return &r, nil
		}
	}
	return nil, nil
}

func (c *Client) RaceWeather(ctx context.Context, race *domain.Race) (*domain.RaceWeather, error) {
	if c.weatherKey == "" {
		return nil, fmt.Errorf("ergast: no weather api key configured")
	}

	query := url.Values{}
	query.Set("q", race.City+","+race.Country)
	query.Set("units", "metric")
	query.Set("appid", c.weatherKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, weatherURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("ergast: weather request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ergast: weather fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ergast: weather fetch failed (%d)", resp.StatusCode)
	}

	var payload struct {
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("ergast: weather decode: %w", err)
	}

	weather := &domain.RaceWeather{
		TempCelsius: payload.Main.Temp,
		WindSpeed:   payload.Wind.Speed,
	}
	if len(payload.Weather) > 0 {
		weather.Description = payload.Weather[0].Description
	}
	return weather, nil
}

func (c *Client) schedule(ctx context.Context) ([]domain.Race, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.races != nil && time.Since(c.fetched) < scheduleTTL {
		return c.races, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scheduleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ergast: schedule request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ergast: schedule fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ergast: schedule fetch failed (%d)", resp.StatusCode)
	}

	var payload struct {
		MRData struct {
			RaceTable struct {
				Races []struct {
					RaceName string `json:"raceName"`
					Date     string `json:"date"`
					Time     string `json:"time"`
					Circuit  struct {
						CircuitName string `json:"circuitName"`
						Location    struct {
							Locality string `json:"locality"`
							Country  string `json:"country"`
						} `json:"Location"`
					} `json:"Circuit"`
				} `json:"Races"`
			} `json:"RaceTable"`
		} `json:"MRData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("ergast: schedule decode: %w", err)
	}

	races := make([]domain.Race, 0, len(payload.MRData.RaceTable.Races))
	for _, raw := range payload.MRData.RaceTable.Races {
		start, err := time.Parse(time.RFC3339, raw.Date+"T"+raw.Time)
		if err != nil {
			continue
		}
		races = append(races, domain.Race{
			Name:    raw.RaceName,
			Circuit: raw.Circuit.CircuitName,
			City:    raw.Circuit.Location.Locality,
			Country: raw.Circuit.Location.Country,
			Start:   start,
		})
	}

	c.races = races
	c.fetched = time.Now()
	return c.races, nil
}
