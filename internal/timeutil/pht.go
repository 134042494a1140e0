package timeutil

import (
	"time"
)

// PHT is the Philippine Standard Time location (UTC+8)
var PHT *time.Location

func init() {
	var err error
	PHT, err = time.LoadLocation("Asia/Manila")
	if err != nil {
		// Fallback: create fixed zone if Asia/Manila not available
		PHT = time.FixedZone("PHT", 8*60*60) // UTC+8
	}
}

// Now returns the current time in PHT
func Now() time.Time {
	return time.Now().In(PHT)
}

// ToPHT converts any time to PHT
func ToPHT(t time.Time) time.Time {
	return t.In(PHT)
}

// ParseInPHT parses a time string and returns it in PHT
func ParseInPHT(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, PHT)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// StartOfDay returns the start of day (00:00:00) in PHT for the given time
func StartOfDay(t time.Time) time.Time {
	pht := t.In(PHT)
	return time.Date(pht.Year(), pht.Month(), pht.Day(), 0, 0, 0, 0, PHT)
}

// Common layouts for PHT formatting
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
