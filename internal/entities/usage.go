package entities

import "time"

// DailyUsage counts resolved answers per source for one day.
type DailyUsage struct {
	Date       time.Time `json:"date"`
	Remote     int       `json:"remote"`
	Predefined int       `json:"predefined"`
	Default    int       `json:"default"`
}

func (d DailyUsage) Total() int {
	return d.Remote + d.Predefined + d.Default
}
