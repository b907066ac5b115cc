package timezone

import (
	"testing"
	"time"
)

func TestLocationFallsBack(t *testing.T) {
	if got := Location("Not/AZone").String(); got != DefaultTimezone {
		t.Fatalf("fallback = %s", got)
	}
	if got := Location("UTC").String(); got != "UTC" {
		t.Fatalf("utc = %s", got)
	}
}

func TestDayRangeIsHalfOpen(t *testing.T) {
	loc := Location(DefaultTimezone)
	from, to, err := DayRange("2025-03-01", "2025-03-31", loc)
	if err != nil {
		t.Fatal(err)
	}
	if !from.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, loc)) || !to.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("range = %s .. %s", from, to)
	}
	if _, _, err := DayRange("2025-3-1", "2025-03-31", loc); err == nil {
		t.Fatal("loose dates must be rejected")
	}
}

func TestParseDateTime(t *testing.T) {
	loc := Location(DefaultTimezone)

	local, err := ParseDateTime("2025-03-10T10:00", loc)
	if err != nil {
		t.Fatal(err)
	}
	if local.Location() != loc || local.Hour() != 10 {
		t.Fatalf("local = %s", local)
	}

	zoned, err := ParseDateTime("2025-03-10T15:00:00Z", loc)
	if err != nil {
		t.Fatal(err)
	}
	if !zoned.Equal(local) {
		t.Fatalf("10:00 Lima should equal 15:00Z, got %s vs %s", zoned, local)
	}

	if _, err := ParseDateTime("tomorrow", loc); err == nil {
		t.Fatal("garbage must not parse")
	}
}

func TestWeekAndMonthRanges(t *testing.T) {
	thu := time.Date(2025, 3, 13, 18, 30, 0, 0, time.UTC)
	from, to := WeekRange(thu)
	if from.Weekday() != time.Monday || from.Day() != 10 || to.Sub(from) != 7*24*time.Hour {
		t.Fatalf("week = %s .. %s", from, to)
	}

	from, to = MonthRange(2024, time.February, time.UTC)
	if to.Sub(from) != 29*24*time.Hour {
		t.Fatalf("leap february = %s", to.Sub(from))
	}

	if d := DateOnly(thu); d.Hour() != 0 || d.Day() != 13 {
		t.Fatalf("date only = %s", d)
	}
}
