package domain

import (
	"context"
	"time"
)

type Race struct {
	Name    string
	Circuit string
	City    string
	Country string
	Start   time.Time
}

type RaceWeather struct {
	Description string
	TempCelsius float64
	WindSpeed   float64
}

type SchedulePort interface {
	// NextRace returns the next or currently running race, or nil if the
	// season is over.
	NextRace(ctx context.Context) (*Race, error)
	RaceWeather(ctx context.Context, race *Race) (*RaceWeather, error)
}
