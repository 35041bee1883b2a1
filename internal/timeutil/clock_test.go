package timeutil

import (
	"testing"
	"time"
)

func TestFormatIndianDateUsesIST(t *testing.T) {
	// 19:00 UTC on the 31st is already 00:30 IST on the 1st.
	at := time.Date(2024, 1, 31, 19, 0, 0, 0, time.UTC)
	if got := FormatIndianDate(at); got != "1/2/2024" {
		t.Fatalf("got %s", got)
	}
	if got := ISODate(at); got != "2024-01-31" {
		t.Fatalf("ISODate: got %s", got)
	}
}

func TestDayBounds(t *testing.T) {
	day, err := ParseDateInIST("2024-01-20")
	if err != nil {
		t.Fatal(err)
	}
	start, end := StartOfDay(day), EndOfDay(day)
	if want := time.Date(2024, 1, 19, 18, 30, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("start: got %v, want %v", start.UTC(), want)
	}
	if want := time.Date(2024, 1, 20, 18, 29, 59, 999999999, time.UTC); !end.Equal(want) {
		t.Fatalf("end: got %v, want %v", end.UTC(), want)
	}
	if _, err := ParseDateInIST("20/01/2024"); err == nil {
		t.Fatal("expected parse error")
	}
}
