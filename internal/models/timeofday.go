package models

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time without date or zone, stored as seconds after midnight.
type TimeOfDay int

const secondsPerDay = 24 * 60 * 60

// ParseTimeOfDay accepts "15:04" or "15:04:05".
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"15:04:05", "15:04"} {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return TimeOfDay(parsed.Hour()*3600 + parsed.Minute()*60 + parsed.Second()), nil
		}
	}

	return 0, fmt.Errorf("invalid time of day %q", value)
}

// NewTimeOfDay builds a TimeOfDay from clock components.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// Valid reports whether the value lies within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < secondsPerDay
}

// String formats the value as HH:MM:SS.
func (t TimeOfDay) String() string {
	seconds := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
