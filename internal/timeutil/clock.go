package timeutil

import (
	"fmt"
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30). Report dates are rendered in it.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Clock supplies the current time to lifecycle operations.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FormatIndianDate renders t the way the en-IN locale prints a short date (d/m/yyyy).
func FormatIndianDate(t time.Time) string {
	ist := t.In(IST)
	return fmt.Sprintf("%d/%d/%d", ist.Day(), int(ist.Month()), ist.Year())
}

// ISODate returns the UTC calendar date of t as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// StartOfDay returns 00:00:00 IST of the given calendar day.
func StartOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
}

// EndOfDay returns the last nanosecond of the given calendar day in IST.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParseDateInIST parses a YYYY-MM-DD value as a calendar day in IST.
func ParseDateInIST(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, IST)
}
