package zone

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-tzdb/tztime"
)

var (
	// Second Sunday in March, 02:00 wall time.
	usDaylightStart = YearOffset{Mode: ModeWall, Month: 3, DayOfMonth: 8, DayOfWeek: 7, AdvanceDayOfWeek: true, TimeOfDay: 2 * time.Hour}
	// First Sunday in November, 02:00 wall time.
	usDaylightEnd = YearOffset{Mode: ModeWall, Month: 11, DayOfMonth: 1, DayOfWeek: 7, AdvanceDayOfWeek: true, TimeOfDay: 2 * time.Hour}
	// Last Sunday in March, 01:00 UTC.
	euDaylightStart = YearOffset{Mode: ModeUTC, Month: 3, DayOfMonth: -1, DayOfWeek: 7, TimeOfDay: time.Hour}
)

func mustRecurrence(t testing.TB, name string, savings tztime.Offset, yo YearOffset, from, to int) Recurrence {
	t.Helper()
	r, err := NewRecurrence(name, savings, yo, from, to)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestYearOffset_OccurrenceForYear(t *testing.T) {
	cases := []struct {
		name string
		yo   YearOffset
		year int
		want tztime.LocalInstant
	}{
		{"second Sunday", usDaylightStart, 2024, tztime.LocalFromDateTime(2024, 3, 10, 2*time.Hour)},
		{"second Sunday on the 8th", usDaylightStart, 2020, tztime.LocalFromDateTime(2020, 3, 8, 2*time.Hour)},
		{"first Sunday", usDaylightEnd, 2024, tztime.LocalFromDateTime(2024, 11, 3, 2*time.Hour)},
		{"last Sunday", euDaylightStart, 2021, tztime.LocalFromDateTime(2021, 3, 28, time.Hour)},
		{"last Sunday on the last day", euDaylightStart, 2024, tztime.LocalFromDateTime(2024, 3, 31, time.Hour)},
		{"fixed day", YearOffset{Month: 4, DayOfMonth: 23}, 2021, tztime.LocalFromDateTime(2021, 4, 23, 0)},
		{"last day of February", YearOffset{Month: 2, DayOfMonth: -1}, 2020, tztime.LocalFromDateTime(2020, 2, 29, 0)},
		{"leap day in a leap year", YearOffset{Month: 2, DayOfMonth: 29}, 2020, tztime.LocalFromDateTime(2020, 2, 29, 0)},
		{"leap day in a non-leap year", YearOffset{Month: 2, DayOfMonth: 29}, 2021, tztime.LocalFromDateTime(2021, 2, 28, 0)},
		{"Saturday on or after leap day", YearOffset{Month: 2, DayOfMonth: 28, DayOfWeek: 6, AdvanceDayOfWeek: true}, 2020, tztime.LocalFromDateTime(2020, 2, 29, 0)},
		{"Sunday on or after into next month", YearOffset{Month: 3, DayOfMonth: 30, DayOfWeek: 7, AdvanceDayOfWeek: true}, 2021, tztime.LocalFromDateTime(2021, 4, 4, 0)},
		{"Sunday on or after into next year", YearOffset{Month: 12, DayOfMonth: 30, DayOfWeek: 7, AdvanceDayOfWeek: true}, 2021, tztime.LocalFromDateTime(2022, 1, 2, 0)},
		{"Sunday on or before into last month", YearOffset{Month: 3, DayOfMonth: 5, DayOfWeek: 7}, 2021, tztime.LocalFromDateTime(2021, 2, 28, 0)},
		{"Sunday on or before into last year", YearOffset{Month: 1, DayOfMonth: 2, DayOfWeek: 7}, 2021, tztime.LocalFromDateTime(2020, 12, 27, 0)},
		{"Sunday on or before on the day", YearOffset{Month: 3, DayOfMonth: 28, DayOfWeek: 7}, 2021, tztime.LocalFromDateTime(2021, 3, 28, 0)},
		{"24:00", YearOffset{Month: 12, DayOfMonth: 31, AddDay: true}, 2021, tztime.LocalFromDateTime(2022, 1, 1, 0)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.yo.Validate(); err != nil {
				t.Fatal(err)
			}
			got := c.yo.OccurrenceForYear(c.year)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("OccurrenceForYear(%d) mismatch (-want +got):\n%s", c.year, diff)
			}
		})
	}
}

func TestYearOffset_Validate(t *testing.T) {
	cases := []struct {
		yo   YearOffset
		want []string
	}{
		{YearOffset{Month: 0, DayOfMonth: 1}, []string{"month 0"}},
		{YearOffset{Month: 13, DayOfMonth: 1}, []string{"month 13"}},
		{YearOffset{Month: 1, DayOfMonth: 0}, []string{"day of month 0"}},
		{YearOffset{Month: 1, DayOfMonth: -32}, []string{"day of month -32"}},
		{YearOffset{Month: 1, DayOfMonth: 1, DayOfWeek: 8}, []string{"day of week 8"}},
		{YearOffset{Month: 1, DayOfMonth: 1, TimeOfDay: 24 * time.Hour}, []string{"time of day 24h0m0s"}},
		{YearOffset{Month: 1, DayOfMonth: 1, TimeOfDay: time.Microsecond}, []string{"whole number of milliseconds"}},
		{YearOffset{Mode: 3, Month: 0, DayOfMonth: 0}, []string{"transition mode 3", "month 0", "day of month 0"}},
	}
	for _, c := range cases {
		err := c.yo.Validate()
		if err == nil {
			t.Errorf("Validate(%+v) = nil, want errors containing %q", c.yo, c.want)
			continue
		}
		for _, w := range c.want {
			if !strings.Contains(err.Error(), w) {
				t.Errorf("Validate(%+v) = %q, want it to contain %q", c.yo, err, w)
			}
		}
	}
}

func TestNewRecurrence_Invalid(t *testing.T) {
	cases := []struct {
		name     string
		savings  tztime.Offset
		yo       YearOffset
		from, to int
	}{
		{"invalid year offset", tztime.OffsetFromHours(1), YearOffset{}, NoStartYear, NoEndYear},
		{"invalid savings", tztime.MaxOffset + 1, usDaylightStart, NoStartYear, NoEndYear},
		{"reversed years", tztime.OffsetFromHours(1), usDaylightStart, 2000, 1999},
		{"first year out of range", tztime.OffsetFromHours(1), usDaylightStart, -10000, 2000},
		{"last year out of range", tztime.OffsetFromHours(1), usDaylightStart, 2000, 10000},
	}
	for _, c := range cases {
		if _, err := NewRecurrence(c.name, c.savings, c.yo, c.from, c.to); err == nil {
			t.Errorf("NewRecurrence(%s) = nil error, want error", c.name)
		}
	}
}

func TestRecurrence_Next(t *testing.T) {
	pst := tztime.OffsetFromHours(-8)
	pdt := tztime.OffsetFromHours(-7)
	daylight := mustRecurrence(t, "PDT", tztime.OffsetFromHours(1), usDaylightStart, NoStartYear, NoEndYear)
	standard := mustRecurrence(t, "PST", tztime.Zero, usDaylightEnd, NoStartYear, NoEndYear)
	bounded := mustRecurrence(t, "PDT", tztime.OffsetFromHours(1), usDaylightStart, 2000, 2005)

	cases := []struct {
		name   string
		r      Recurrence
		after  tztime.Instant
		saves  tztime.Offset
		want   Transition
		wantOK bool
	}{
		{"daylight from January", daylight, tztime.FromUTC(2024, 1, 1, 0, 0, 0), tztime.Zero,
			Transition{tztime.FromUTC(2024, 3, 10, 10, 0, 0), pdt}, true},
		{"daylight one tick before", daylight, tztime.FromUTC(2024, 3, 10, 10, 0, 0).PlusTicks(-1), tztime.Zero,
			Transition{tztime.FromUTC(2024, 3, 10, 10, 0, 0), pdt}, true},
		{"daylight strictly after", daylight, tztime.FromUTC(2024, 3, 10, 10, 0, 0), tztime.Zero,
			Transition{tztime.FromUTC(2025, 3, 9, 10, 0, 0), pdt}, true},
		{"standard from July", standard, tztime.FromUTC(2024, 7, 1, 0, 0, 0), tztime.OffsetFromHours(1),
			Transition{tztime.FromUTC(2024, 11, 3, 9, 0, 0), pst}, true},
		{"standard late December", standard, tztime.FromUTC(2024, 12, 31, 23, 0, 0), tztime.OffsetFromHours(1),
			Transition{tztime.FromUTC(2025, 11, 2, 9, 0, 0), pst}, true},
		{"bounded before first year", bounded, tztime.FromUTC(1990, 1, 1, 0, 0, 0), tztime.Zero,
			Transition{tztime.FromUTC(2000, 3, 12, 10, 0, 0), pdt}, true},
		{"bounded in last year", bounded, tztime.FromUTC(2005, 1, 1, 0, 0, 0), tztime.Zero,
			Transition{tztime.FromUTC(2005, 3, 13, 10, 0, 0), pdt}, true},
		{"bounded after last year", bounded, tztime.FromUTC(2005, 7, 1, 0, 0, 0), tztime.Zero,
			Transition{}, false},
		{"end of time", daylight, tztime.FromUTC(9999, 7, 1, 0, 0, 0), tztime.Zero,
			Transition{tztime.AfterMaxValue, pdt}, true},
		{"from start of time", daylight, tztime.BeforeMinValue, tztime.Zero,
			Transition{usDaylightStart.OccurrenceForYear(tztime.MinYear).SafeMinus(pst), pdt}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := c.r.Next(c.after, pst, c.saves)
			if ok != c.wantOK {
				t.Fatalf("Next(%v) ok = %v, want %v", c.after, ok, c.wantOK)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("Next(%v) mismatch (-want +got):\n%s", c.after, diff)
			}
		})
	}
}

func TestRecurrence_PreviousOrSame(t *testing.T) {
	pst := tztime.OffsetFromHours(-8)
	pdt := tztime.OffsetFromHours(-7)
	daylight := mustRecurrence(t, "PDT", tztime.OffsetFromHours(1), usDaylightStart, NoStartYear, NoEndYear)
	standard := mustRecurrence(t, "PST", tztime.Zero, usDaylightEnd, NoStartYear, NoEndYear)
	bounded := mustRecurrence(t, "PDT", tztime.OffsetFromHours(1), usDaylightStart, 2000, 2005)

	cases := []struct {
		name   string
		r      Recurrence
		before tztime.Instant
		saves  tztime.Offset
		want   Transition
		wantOK bool
	}{
		{"daylight from July", daylight, tztime.FromUTC(2024, 7, 1, 0, 0, 0), tztime.Zero,
			Transition{tztime.FromUTC(2024, 3, 10, 10, 0, 0), pdt}, true},
		{"daylight at the transition", daylight, tztime.FromUTC(2024, 3, 10, 10, 0, 0), tztime.Zero,
			Transition{tztime.FromUTC(2024, 3, 10, 10, 0, 0), pdt}, true},
		{"daylight one tick before", daylight, tztime.FromUTC(2024, 3, 10, 10, 0, 0).PlusTicks(-1), tztime.Zero,
			Transition{tztime.FromUTC(2023, 3, 12, 10, 0, 0), pdt}, true},
		{"standard from January", standard, tztime.FromUTC(2024, 1, 15, 0, 0, 0), tztime.OffsetFromHours(1),
			Transition{tztime.FromUTC(2023, 11, 5, 9, 0, 0), pst}, true},
		{"bounded after last year", bounded, tztime.FromUTC(2010, 1, 1, 0, 0, 0), tztime.Zero,
			Transition{tztime.FromUTC(2005, 3, 13, 10, 0, 0), pdt}, true},
		{"bounded before first year", bounded, tztime.FromUTC(1990, 1, 1, 0, 0, 0), tztime.Zero,
			Transition{}, false},
		{"bounded in first year before occurrence", bounded, tztime.FromUTC(2000, 1, 1, 0, 0, 0), tztime.Zero,
			Transition{}, false},
		{"start of time", daylight, tztime.FromUTC(tztime.MinYear, 1, 2, 0, 0, 0), tztime.Zero,
			Transition{tztime.BeforeMinValue, pdt}, true},
		{"end of time", daylight, tztime.AfterMaxValue, tztime.Zero,
			Transition{usDaylightStart.OccurrenceForYear(tztime.MaxYear).SafeMinus(pst), pdt}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := c.r.PreviousOrSame(c.before, pst, c.saves)
			if ok != c.wantOK {
				t.Fatalf("PreviousOrSame(%v) ok = %v, want %v", c.before, ok, c.wantOK)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("PreviousOrSame(%v) mismatch (-want +got):\n%s", c.before, diff)
			}
		})
	}
}

// Occurrences of the years just outside the representable range can still
// fall inside it.
func TestRecurrence_YearsOutsideRange(t *testing.T) {
	// First Sunday on or after December 31. December 31 of MinYear-1 is a
	// Monday, so that occurrence is January 6 of MinYear.
	firstSunday := mustRecurrence(t, "A", tztime.Zero,
		YearOffset{Mode: ModeUTC, Month: 12, DayOfMonth: 31, DayOfWeek: 7, AdvanceDayOfWeek: true}, NoStartYear, NoEndYear)
	// Last Sunday on or before January 1. January 1 of MaxYear+1 is a
	// Saturday, so that occurrence is December 26 of MaxYear.
	lastSunday := mustRecurrence(t, "B", tztime.Zero,
		YearOffset{Mode: ModeUTC, Month: 1, DayOfMonth: 1, DayOfWeek: 7}, NoStartYear, NoEndYear)

	first := tztime.FromUTC(tztime.MinYear, 1, 6, 0, 0, 0)
	last := tztime.FromUTC(tztime.MaxYear, 12, 26, 0, 0, 0)
	cases := []struct {
		name string
		got  func() (Transition, bool)
		want tztime.Instant
	}{
		{"next from start of time", func() (Transition, bool) {
			return firstSunday.Next(tztime.BeforeMinValue, tztime.Zero, tztime.Zero)
		}, first},
		{"next from first instant", func() (Transition, bool) {
			return firstSunday.Next(tztime.MinValue, tztime.Zero, tztime.Zero)
		}, first},
		{"previous in first days", func() (Transition, bool) {
			return firstSunday.PreviousOrSame(tztime.FromUTC(tztime.MinYear, 1, 10, 0, 0, 0), tztime.Zero, tztime.Zero)
		}, first},
		{"previous before first occurrence", func() (Transition, bool) {
			return firstSunday.PreviousOrSame(tztime.FromUTC(tztime.MinYear, 1, 5, 0, 0, 0), tztime.Zero, tztime.Zero)
		}, tztime.BeforeMinValue},
		{"previous from end of time", func() (Transition, bool) {
			return lastSunday.PreviousOrSame(tztime.AfterMaxValue, tztime.Zero, tztime.Zero)
		}, last},
		{"previous from last instant", func() (Transition, bool) {
			return lastSunday.PreviousOrSame(tztime.MaxValue, tztime.Zero, tztime.Zero)
		}, last},
		{"next in last days", func() (Transition, bool) {
			return lastSunday.Next(tztime.FromUTC(tztime.MaxYear, 12, 20, 0, 0, 0), tztime.Zero, tztime.Zero)
		}, last},
		{"next after last occurrence", func() (Transition, bool) {
			return lastSunday.Next(last, tztime.Zero, tztime.Zero)
		}, tztime.AfterMaxValue},
	}
	for _, c := range cases {
		got, ok := c.got()
		if !ok || got.Instant != c.want {
			t.Errorf("%s = %v, %v; want %v", c.name, got, ok, c.want)
		}
	}
}

func TestRecurrence_OrFailPanics(t *testing.T) {
	bounded := mustRecurrence(t, "PDT", tztime.OffsetFromHours(1), usDaylightStart, 2000, 2005)
	mustPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s did not panic", name)
			}
		}()
		fn()
	}
	mustPanic("NextOrFail", func() { bounded.NextOrFail(tztime.FromUTC(2006, 1, 1, 0, 0, 0), tztime.Zero, tztime.Zero) })
	mustPanic("PreviousOrSameOrFail", func() { bounded.PreviousOrSameOrFail(tztime.FromUTC(1999, 1, 1, 0, 0, 0), tztime.Zero, tztime.Zero) })
}

func TestRecurrence_Helpers(t *testing.T) {
	r := mustRecurrence(t, "PDT", tztime.OffsetFromHours(1), usDaylightStart, 2000, NoEndYear)
	if !r.IsInfinite() {
		t.Errorf("IsInfinite() = false for a recurrence without last year")
	}
	if r.WithName("PWT").Name() != "PWT" {
		t.Errorf("WithName did not rename")
	}
	if r.WithName("PWT").Equal(r) {
		t.Errorf("renamed recurrence compares equal")
	}
	s := r.ToStartOfTime()
	if s.FromYear() != NoStartYear {
		t.Errorf("ToStartOfTime().FromYear() = %d, want NoStartYear", s.FromYear())
	}
	want := mustRecurrence(t, "PDT", tztime.OffsetFromHours(1), usDaylightStart, NoStartYear, NoEndYear)
	if !s.Equal(want) {
		t.Errorf("ToStartOfTime() = %v, want %v", s, want)
	}
	// Occurrences before the original first year now exist.
	if _, ok := s.PreviousOrSame(tztime.FromUTC(1990, 7, 1, 0, 0, 0), tztime.Zero, tztime.Zero); !ok {
		t.Errorf("PreviousOrSame before 2000 after ToStartOfTime found nothing")
	}
}
