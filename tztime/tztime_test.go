package tztime

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDaysFromCivil(t *testing.T) {
	cases := []struct {
		year, month, day int
		want             int64
	}{
		{1970, 1, 1, 0},
		{1970, 1, 2, 1},
		{1969, 12, 31, -1},
		{2000, 3, 1, 11017},
		{2024, 2, 29, 19782},
		{1800, 1, 1, -62091},
		{1, 1, 1, -719162},
		{0, 3, 1, -719468},
	}
	for _, c := range cases {
		if got := DaysFromCivil(c.year, c.month, c.day); got != c.want {
			t.Errorf("DaysFromCivil(%d, %d, %d) = %d, want %d", c.year, c.month, c.day, got, c.want)
		}
	}
}

func TestCivilFromDays_RoundTrip(t *testing.T) {
	type date struct{ Year, Month, Day int }
	for _, d := range []date{
		{MinYear, 1, 1},
		{-1, 12, 31},
		{0, 2, 29},
		{1600, 2, 29},
		{1900, 2, 28},
		{1970, 1, 1},
		{2023, 12, 31},
		{MaxYear, 12, 31},
	} {
		y, m, dd := CivilFromDays(DaysFromCivil(d.Year, d.Month, d.Day))
		if diff := cmp.Diff(d, date{y, m, dd}); diff != "" {
			t.Errorf("CivilFromDays(DaysFromCivil(%v)) mismatch (-want +got):\n%s", d, diff)
		}
	}
}

func TestDayOfWeek(t *testing.T) {
	cases := []struct {
		year, month, day int
		want             int
	}{
		{1970, 1, 1, 4},   // Thursday
		{2021, 3, 28, 7},  // Sunday
		{2024, 2, 29, 4},  // Thursday
		{1969, 12, 29, 1}, // Monday
		{1800, 1, 1, 3},   // Wednesday
	}
	for _, c := range cases {
		if got := DayOfWeek(DaysFromCivil(c.year, c.month, c.day)); got != c.want {
			t.Errorf("DayOfWeek(%d-%02d-%02d) = %d, want %d", c.year, c.month, c.day, got, c.want)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	got := []int{DaysInMonth(2021, 2), DaysInMonth(2020, 2), DaysInMonth(1900, 2), DaysInMonth(2000, 2), DaysInMonth(2021, 4), DaysInMonth(2021, 12)}
	want := []int{28, 29, 28, 29, 30, 31}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DaysInMonth mismatch (-want +got):\n%s", diff)
	}
}

func TestInstant_FromTime(t *testing.T) {
	tm := time.Date(2021, time.March, 28, 1, 2, 3, 456789100, time.UTC)
	i := FromTime(tm)
	if want := FromUTC(2021, 3, 28, 1, 2, 3).PlusTicks(4567891); i != want {
		t.Errorf("FromTime(%v) = %v, want %v", tm, i, want)
	}
	if got := i.Time(); !got.Equal(tm) {
		t.Errorf("Time() = %v, want %v", got, tm)
	}
}

func TestInstant_Bounds(t *testing.T) {
	if !MinValue.IsValid() || !MaxValue.IsValid() {
		t.Fatalf("MinValue/MaxValue must be valid")
	}
	if BeforeMinValue.IsValid() || AfterMaxValue.IsValid() {
		t.Fatalf("sentinels must not be valid")
	}
	if got := MinValue.PlusTicks(-1); got != BeforeMinValue {
		t.Errorf("MinValue.PlusTicks(-1) = %v, want BeforeMinValue", got)
	}
	if got := MaxValue.PlusTicks(1); got != AfterMaxValue {
		t.Errorf("MaxValue.PlusTicks(1) = %v, want AfterMaxValue", got)
	}
	if got := AfterMaxValue.PlusTicks(-TicksPerDay); got != AfterMaxValue {
		t.Errorf("AfterMaxValue.PlusTicks(-1d) = %v, want AfterMaxValue", got)
	}
	if got := MaxValue.DaysSinceEpoch(); got != maxDays {
		t.Errorf("MaxValue.DaysSinceEpoch() = %d, want %d", got, maxDays)
	}
	if got := Instant(-1).DaysSinceEpoch(); got != -1 {
		t.Errorf("Instant(-1).DaysSinceEpoch() = %d, want -1", got)
	}
}

func TestInstant_SafePlusAndMinus(t *testing.T) {
	plus5 := OffsetFromHours(5)
	cases := []struct {
		name string
		in   Instant
		off  Offset
		want LocalInstant
	}{
		{"normal", FromUTC(2000, 1, 1, 0, 0, 0), plus5, LocalFromDateTime(2000, 1, 1, 5*time.Hour)},
		{"before min", BeforeMinValue, plus5, BeforeMinLocal},
		{"after max", AfterMaxValue, -plus5, AfterMaxLocal},
		{"underflow", MinValue, -plus5, BeforeMinLocal},
		{"overflow", MaxValue, plus5, AfterMaxLocal},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.in.SafePlus(c.off)
			if got != c.want {
				t.Fatalf("SafePlus() = %v, want %v", got, c.want)
			}
			if c.in.IsValid() && got.IsValid() {
				if back := got.SafeMinus(c.off); back != c.in {
					t.Errorf("SafeMinus() = %v, want %v", back, c.in)
				}
			}
		})
	}
}

func TestLocalInstant_Year(t *testing.T) {
	cases := []struct {
		in   LocalInstant
		want int
	}{
		{LocalFromDateTime(2021, 12, 31, 23*time.Hour+59*time.Minute), 2021},
		{LocalFromDateTime(2021, 12, 31, 24*time.Hour), 2022},
		{LocalFromDateTime(-5, 6, 1, 0), -5},
		{LocalInstant(-1), 1969},
	}
	for _, c := range cases {
		if got := c.in.Year(); got != c.want {
			t.Errorf("%v.Year() = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestOffset_String(t *testing.T) {
	cases := []struct {
		in   Offset
		want string
	}{
		{Zero, "+00:00"},
		{OffsetFromHours(-8), "-08:00"},
		{OffsetFromHoursAndMinutes(5, 30), "+05:30"},
		{OffsetFromMilliseconds(29*MillisecondsPerMinute + 45*MillisecondsPerSecond + 500), "+00:29:45.500"},
		{OffsetFromSeconds(34*60 + 8), "+00:34:08"},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.want {
			t.Errorf("Offset(%d).String() = %q, want %q", int32(c.in), got, c.want)
		}
	}
}

func TestOffset_IsValid(t *testing.T) {
	if !MaxOffset.IsValid() || !MinOffset.IsValid() {
		t.Errorf("bounds must be valid")
	}
	if (MaxOffset + 1).IsValid() || (MinOffset - 1).IsValid() {
		t.Errorf("values beyond the bounds must be invalid")
	}
}
