// Package timezone keeps every timestamp the API renders or parses in one location, set by
// APP_TIMEZONE. Listings and stays are in Gamasa, so the location defaults to Africa/Cairo.
package timezone

import (
	"sync"
	"time"

	"gamasa/config"

	"github.com/rs/zerolog/log"
)

const DefaultLocation = "Africa/Cairo"

var (
	location *time.Location
	once     sync.Once
)

func load() {
	name := config.Get().App.Timezone
	if name == "" {
		name = DefaultLocation
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

		location = time.UTC

		return
	}

	location = loc

	log.Debug().Str("timezone", loc.String()).Msg("Application timezone initialized")
}

// GetLocation returns the application location, loading it on first use.
func GetLocation() *time.Location {
	once.Do(load)

	return location
}

func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse reads value as a wall clock time in the application location.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// StartOfDay returns midnight of t's calendar day in the application location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := ToAppTime(t).Date()

	return time.Date(year, month, day, 0, 0, 0, 0, GetLocation())
}
