package export

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTableBytes(t *testing.T) {
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	table := NewTable("Title", "Cost", "Created Date")
	table.Append(Text(`Line "A", phase 2`), Number(decimal.NewFromInt(251000)), Date(created))
	table.Append(Text("Plain"), Number(decimal.RequireFromString("12.50")), Date(created))

	want := "Title,Cost,Created Date\n" +
		`"Line ""A"", phase 2",251000,15/1/2024` + "\n" +
		`"Plain",12.5,15/1/2024`
	if got := string(table.Bytes()); got != want {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", got, want)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
}

func TestDateUsesIndianCalendarDay(t *testing.T) {
	// 20:00 UTC is already the next day in IST.
	late := time.Date(2024, 3, 31, 20, 0, 0, 0, time.UTC)
	if got := Date(late).Value; got != "1/4/2024" {
		t.Fatalf("expected 1/4/2024, got %s", got)
	}
}

func TestBareCellWithDelimiterIsQuoted(t *testing.T) {
	table := NewTable("a,b")
	if got := string(table.Bytes()); got != `"a,b"` {
		t.Fatalf("unexpected header: %s", got)
	}
}
