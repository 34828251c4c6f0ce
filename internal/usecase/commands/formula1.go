package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"teaBot/internal/domain"
)

// Formula1Command reports the next race, or the weather at its circuit with
// "!formula1 weather".
type Formula1Command struct {
	schedule domain.SchedulePort
	timeout  time.Duration
}

func NewFormula1Command(schedule domain.SchedulePort, timeout time.Duration) *Formula1Command {
	return &Formula1Command{
		schedule: schedule,
		timeout:  timeout,
	}
}

func (c *Formula1Command) Handle(ctx context.Context, cmdCtx *Context) (string, error) {
	msg := cmdCtx.Message

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	race, err := c.schedule.NextRace(ctx)
	if err != nil {
		return "", fmt.Errorf("formula1: next race: %w", err)
	}
	if race == nil {
		return fmt.Sprintf("%s, there is no next race", msg.Username), nil
	}

	if len(cmdCtx.Args) > 0 && strings.EqualFold(cmdCtx.Args[0], "weather") {
		weather, err := c.schedule.RaceWeather(ctx, race)
		if err != nil {
			return "", fmt.Errorf("formula1: weather: %w", err)
		}
		return fmt.Sprintf("%s, weather at the %s (%s, %s): %s, %.0f°C, wind %.0f m/s",
			msg.Username, race.Circuit, race.City, race.Country,
			weather.Description, weather.TempCelsius, weather.WindSpeed), nil
	}

	return fmt.Sprintf("%s, next race: %s at the %s in %s, %s || %s GMT",
		msg.Username, race.Name, race.Circuit, race.City, race.Country,
		race.Start.UTC().Format("Mon, 02 Jan 15:04")), nil
}
