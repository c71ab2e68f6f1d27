package zone

import (
	"errors"
	"fmt"
	"time"

	"github.com/ngrash/go-tzdb/tzio"
	"github.com/ngrash/go-tzdb/tztime"
)

// TransitionMode tells which clock the time of day of a YearOffset is
// read on.
type TransitionMode byte

func (m TransitionMode) String() string {
	switch m {
	case ModeUTC:
		return "UTC"
	case ModeStandard:
		return "Standard"
	case ModeWall:
		return "Wall"
	default:
		return fmt.Sprintf("<undefined mode (%d)>", byte(m))
	}
}

const (
	// ModeUTC means the time of day is universal time.
	ModeUTC TransitionMode = iota
	// ModeStandard means the time of day is local standard time.
	ModeStandard
	// ModeWall means the time of day is local wall clock time, including
	// whatever savings are in effect before the transition.
	ModeWall
)

// YearOffset describes when in a given year a recurring transition occurs,
// e.g. "the second Sunday in March at 02:00 wall time".
//
// The day is computed in three steps. DayOfMonth selects a day within Month,
// counting from the end of the month when negative (-1 is the last day).
// February 29 in a non-leap year becomes February 28. If DayOfWeek is set,
// the day moves forward (AdvanceDayOfWeek) or backward to the nearest such
// weekday, possibly into a neighbouring month. Finally AddDay moves the
// result one day later, which expresses rules written as "24:00".
type YearOffset struct {
	Mode       TransitionMode
	Month      int // 1..12
	DayOfMonth int // 1..31 or -31..-1
	// DayOfWeek is an ISO day of week, 1 (Monday) to 7 (Sunday), or 0 when
	// the rule does not depend on the day of week.
	DayOfWeek        int
	AdvanceDayOfWeek bool
	// TimeOfDay is the time since the start of the selected day, in
	// [0, 24h).
	TimeOfDay time.Duration
	AddDay    bool
}

// Validate reports every field that is out of range.
func (y YearOffset) Validate() error {
	var errs []error
	if y.Mode > ModeWall {
		errs = append(errs, fmt.Errorf("invalid transition mode %d", byte(y.Mode)))
	}
	if y.Month < 1 || y.Month > 12 {
		errs = append(errs, fmt.Errorf("month %d out of range [1, 12]", y.Month))
	}
	if y.DayOfMonth == 0 || y.DayOfMonth < -31 || y.DayOfMonth > 31 {
		errs = append(errs, fmt.Errorf("day of month %d out of range [-31, -1] or [1, 31]", y.DayOfMonth))
	}
	if y.DayOfWeek < 0 || y.DayOfWeek > 7 {
		errs = append(errs, fmt.Errorf("day of week %d out of range [0, 7]", y.DayOfWeek))
	}
	if y.TimeOfDay < 0 || y.TimeOfDay >= 24*time.Hour {
		errs = append(errs, fmt.Errorf("time of day %v out of range [0, 24h)", y.TimeOfDay))
	}
	if y.TimeOfDay%time.Millisecond != 0 {
		errs = append(errs, fmt.Errorf("time of day %v is not a whole number of milliseconds", y.TimeOfDay))
	}
	return errors.Join(errs...)
}

// OccurrenceForYear returns the local instant of the occurrence whose
// nominal year is year. The result may fall into the previous or next
// calendar year when DayOfWeek or AddDay move it across a year boundary.
func (y YearOffset) OccurrenceForYear(year int) tztime.LocalInstant {
	day := y.DayOfMonth
	if day < 0 {
		day = tztime.DaysInMonth(year, y.Month) + day + 1
	}
	if y.Month == 2 && day == 29 && !tztime.IsLeapYear(year) {
		day = 28
	}
	days := tztime.DaysFromCivil(year, y.Month, day)
	if y.DayOfWeek != 0 {
		diff := y.DayOfWeek - tztime.DayOfWeek(days)
		if y.AdvanceDayOfWeek {
			if diff < 0 {
				diff += 7
			}
		} else if diff > 0 {
			diff -= 7
		}
		days += int64(diff)
	}
	if y.AddDay {
		days++
	}
	return tztime.LocalInstant(days*tztime.TicksPerDay + int64(y.TimeOfDay/100))
}

// ruleOffset returns the offset that converts between UTC and the clock
// the rule is expressed in, given the standard offset and the savings in
// effect before the transition.
func (y YearOffset) ruleOffset(standard, savings tztime.Offset) tztime.Offset {
	switch y.Mode {
	case ModeWall:
		return standard + savings
	case ModeStandard:
		return standard
	default:
		return tztime.Zero
	}
}

func (y YearOffset) String() string {
	s := fmt.Sprintf("month %d day %d", y.Month, y.DayOfMonth)
	if y.DayOfWeek != 0 {
		dir := "<="
		if y.AdvanceDayOfWeek {
			dir = ">="
		}
		s += fmt.Sprintf(" weekday %s %d", dir, y.DayOfWeek)
	}
	if y.AddDay {
		s += " +1d"
	}
	return fmt.Sprintf("%s at %v %v", s, y.TimeOfDay, y.Mode)
}

const (
	yearOffsetModeMask    = 0x03
	yearOffsetAdvanceFlag = 0x04
	yearOffsetAddDayFlag  = 0x08
)

// Write writes y as a flags byte (mode, advance, add day) followed by the
// month, the signed day of month, the day of week and the time of day in
// milliseconds.
func (y YearOffset) Write(w *tzio.Writer) error {
	if err := y.Validate(); err != nil {
		return err
	}
	flags := byte(y.Mode)
	if y.AdvanceDayOfWeek {
		flags |= yearOffsetAdvanceFlag
	}
	if y.AddDay {
		flags |= yearOffsetAddDayFlag
	}
	if err := w.WriteByte(flags); err != nil {
		return err
	}
	if err := w.WriteCount(y.Month); err != nil {
		return err
	}
	if err := w.WriteSignedCount(int32(y.DayOfMonth)); err != nil {
		return err
	}
	if err := w.WriteCount(y.DayOfWeek); err != nil {
		return err
	}
	return w.WriteCount(int(y.TimeOfDay / time.Millisecond))
}

// ReadYearOffset reads a YearOffset written by YearOffset.Write.
func ReadYearOffset(r *tzio.Reader) (YearOffset, error) {
	start := r.Offset()
	flags, err := r.ReadByte()
	if err != nil {
		return YearOffset{}, err
	}
	if flags&^(yearOffsetModeMask|yearOffsetAdvanceFlag|yearOffsetAddDayFlag) != 0 {
		return YearOffset{}, r.Errorf(start, "invalid year offset flags 0x%02x", flags)
	}
	y := YearOffset{
		Mode:             TransitionMode(flags & yearOffsetModeMask),
		AdvanceDayOfWeek: flags&yearOffsetAdvanceFlag != 0,
		AddDay:           flags&yearOffsetAddDayFlag != 0,
	}
	if y.Month, err = r.ReadCount(); err != nil {
		return YearOffset{}, err
	}
	dom, err := r.ReadSignedCount()
	if err != nil {
		return YearOffset{}, err
	}
	y.DayOfMonth = int(dom)
	if y.DayOfWeek, err = r.ReadCount(); err != nil {
		return YearOffset{}, err
	}
	ms, err := r.ReadCount()
	if err != nil {
		return YearOffset{}, err
	}
	y.TimeOfDay = time.Duration(ms) * time.Millisecond
	if err := y.Validate(); err != nil {
		return YearOffset{}, r.Errorf(start, "year offset: %v", err)
	}
	return y, nil
}
