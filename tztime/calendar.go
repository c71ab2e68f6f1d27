package tztime

// MinYear and MaxYear bound the proleptic Gregorian years representable by
// Instant and LocalInstant.
const (
	MinYear = -9998
	MaxYear = 9999
)

// The constants were copied from time.go in the Go standard library's time package.
const (
	daysPer400Years = 365*400 + 97
	daysPer100Years = 365*100 + 24
	daysPer4Years   = 365*4 + 1

	absoluteZeroYear = -292277022399
)

// daysBeforeMonth holds the number of days in a non-leap year before the
// first day of each month.
var daysBeforeMonth = [12]int64{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// unixEpochDays is the number of days from the absolute epoch to 1970-01-01.
var unixEpochDays = int64(daysSinceAbsolute(1970))

// daysSinceAbsolute takes a year and returns the number of days from
// the absolute epoch to the start of that year.
// This is basically (year - zeroYear) * 365, but accounting for leap days.
//
// This function was copied from time.go in the Go standard library time package.
func daysSinceAbsolute(year int) uint64 {
	y := uint64(int64(year) - absoluteZeroYear)

	// Add in days from 400-year cycles.
	n := y / 400
	y -= 400 * n
	d := daysPer400Years * n

	// Add in 100-year cycles.
	n = y / 100
	y -= 100 * n
	d += daysPer100Years * n

	// Add in 4-year cycles.
	n = y / 4
	y -= 4 * n
	d += daysPer4Years * n

	// Add in non-leap years.
	n = y
	d += 365 * n

	return d
}

// IsLeapYear reports whether year is a leap year in the proleptic Gregorian calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month (1-12) of year.
func DaysInMonth(year, month int) int {
	if month == 2 {
		if IsLeapYear(year) {
			return 29
		}
		return 28
	}
	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}
	return 31
}

// DaysFromCivil returns the number of days between 1970-01-01 and the given
// date. It assumes the proleptic Gregorian calendar and does not validate its
// arguments beyond what is needed to avoid indexing out of range.
func DaysFromCivil(year, month, day int) int64 {
	d := int64(daysSinceAbsolute(year)) - unixEpochDays + daysBeforeMonth[month-1] + int64(day-1)
	if month > 2 && IsLeapYear(year) {
		d++ // +leap year
	}
	return d
}

// CivilFromDays is the inverse of DaysFromCivil.
func CivilFromDays(days int64) (year, month, day int) {
	// Shift the epoch to 0000-03-01 so that leap days fall at the end of a
	// year and 400-year eras start on day zero.
	z := days + 719468
	era := floorDiv(z, daysPer400Years)
	doe := z - era*daysPer400Years
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if mp >= 10 {
		m = mp - 9
	}
	y := yoe + era*400
	if m <= 2 {
		y++
	}
	return int(y), int(m), int(d)
}

// YearFromDays returns the year containing the day that is days after 1970-01-01.
func YearFromDays(days int64) int {
	y, _, _ := CivilFromDays(days)
	return y
}

// DayOfWeek returns the ISO day of week (1 = Monday ... 7 = Sunday) of the
// day that is days after 1970-01-01.
func DayOfWeek(days int64) int {
	// 1970-01-01 was a Thursday.
	return int(floorMod(days+3, 7)) + 1
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
