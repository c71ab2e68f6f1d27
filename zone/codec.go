package zone

import (
	"errors"
	"fmt"

	"github.com/ngrash/go-tzdb/tzio"
	"github.com/ngrash/go-tzdb/tztime"
)

// Rule set type bytes.
const (
	typeFixed            byte = 1
	typePrecomputed      byte = 2
	typeStandardDaylight byte = 3
)

// Write writes rs as a type byte followed by its rules. A Cache is written
// as its source.
//
//	Fixed             name, offset
//	Precomputed       count, then per interval the start transition, name,
//	                  wall offset and savings; the end transition of the
//	                  last interval; a tail presence byte and the tail
//	StandardDaylight  standard offset, standard name and year offset,
//	                  daylight name and year offset, daylight savings
func Write(w *tzio.Writer, rs RuleSet) error {
	switch rs := rs.(type) {
	case Fixed:
		if err := w.WriteByte(typeFixed); err != nil {
			return err
		}
		if err := w.WriteString(rs.interval.name); err != nil {
			return err
		}
		return w.WriteOffset(rs.interval.wallOffset)
	case *Precomputed:
		if err := w.WriteByte(typePrecomputed); err != nil {
			return err
		}
		return writePrecomputed(w, rs)
	case *StandardDaylight:
		if err := w.WriteByte(typeStandardDaylight); err != nil {
			return err
		}
		return writeStandardDaylight(w, rs)
	case *Cache:
		return Write(w, rs.source)
	case nil:
		return errors.New("nil rule set")
	default:
		panic(fmt.Sprintf("zone: unknown rule set %T", rs))
	}
}

func writePrecomputed(w *tzio.Writer, p *Precomputed) error {
	if err := w.WriteCount(len(p.intervals)); err != nil {
		return err
	}
	previous := tztime.BeforeMinValue
	for _, iv := range p.intervals {
		if err := w.WriteZoneIntervalTransition(previous, iv.start); err != nil {
			return err
		}
		previous = iv.start
		if err := w.WriteString(iv.name); err != nil {
			return err
		}
		if err := w.WriteOffset(iv.wallOffset); err != nil {
			return err
		}
		if err := w.WriteOffset(iv.savings); err != nil {
			return err
		}
	}
	if err := w.WriteZoneIntervalTransition(previous, p.intervals[len(p.intervals)-1].end); err != nil {
		return err
	}
	if p.tail == nil {
		return w.WriteByte(0)
	}
	if err := w.WriteByte(1); err != nil {
		return err
	}
	return Write(w, p.tail)
}

func writeStandardDaylight(w *tzio.Writer, s *StandardDaylight) error {
	if err := w.WriteOffset(s.standardOffset); err != nil {
		return err
	}
	if err := w.WriteString(s.standard.name); err != nil {
		return err
	}
	if err := s.standard.yearOffset.Write(w); err != nil {
		return err
	}
	if err := w.WriteString(s.daylight.name); err != nil {
		return err
	}
	if err := s.daylight.yearOffset.Write(w); err != nil {
		return err
	}
	return w.WriteOffset(s.daylight.savings)
}

// Read reads a rule set written by Write.
func Read(r *tzio.Reader) (RuleSet, error) {
	return read(r, true)
}

func read(r *tzio.Reader, allowPrecomputed bool) (RuleSet, error) {
	start := r.Offset()
	typ, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch typ {
	case typeFixed:
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		offset, err := r.ReadOffset()
		if err != nil {
			return nil, err
		}
		return NewFixed(name, offset), nil
	case typePrecomputed:
		if !allowPrecomputed {
			return nil, r.Errorf(start, "precomputed rule set as a tail")
		}
		return readPrecomputed(r)
	case typeStandardDaylight:
		return readStandardDaylight(r)
	default:
		return nil, r.Errorf(start, "invalid rule set type %d", typ)
	}
}

func readPrecomputed(r *tzio.Reader) (RuleSet, error) {
	start := r.Offset()
	n, err := r.ReadCount()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, r.Errorf(start, "precomputed rule set without intervals")
	}
	// Each interval takes at least four bytes.
	if n > r.Remaining()/4 {
		return nil, r.Errorf(start, "%d intervals exceed the %d remaining bytes", n, r.Remaining())
	}
	type fields struct {
		name              string
		wallOffset, saves tztime.Offset
	}
	starts := make([]tztime.Instant, n+1)
	data := make([]fields, n)
	previous := tztime.BeforeMinValue
	for k := 0; k < n; k++ {
		pos := r.Offset()
		if starts[k], err = r.ReadZoneIntervalTransition(previous); err != nil {
			return nil, err
		}
		if k > 0 && starts[k] <= previous {
			return nil, r.Errorf(pos, "interval start %v not after previous start %v", starts[k], previous)
		}
		previous = starts[k]
		if data[k].name, err = r.ReadString(); err != nil {
			return nil, err
		}
		if data[k].wallOffset, err = r.ReadOffset(); err != nil {
			return nil, err
		}
		if data[k].saves, err = r.ReadOffset(); err != nil {
			return nil, err
		}
	}
	pos := r.Offset()
	if starts[n], err = r.ReadZoneIntervalTransition(previous); err != nil {
		return nil, err
	}
	if starts[n] <= previous {
		return nil, r.Errorf(pos, "last interval end %v not after its start %v", starts[n], previous)
	}
	intervals := make([]Interval, n)
	for k := range intervals {
		intervals[k] = NewInterval(data[k].name, starts[k], starts[k+1], data[k].wallOffset, data[k].saves)
	}

	var tail RuleSet
	pos = r.Offset()
	hasTail, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch hasTail {
	case 0:
	case 1:
		if tail, err = read(r, false); err != nil {
			return nil, err
		}
	default:
		return nil, r.Errorf(pos, "invalid tail presence byte %d", hasTail)
	}
	p, err := NewPrecomputed(intervals, tail)
	if err != nil {
		return nil, r.Errorf(start, "%v", err)
	}
	return p, nil
}

func readStandardDaylight(r *tzio.Reader) (RuleSet, error) {
	start := r.Offset()
	standardOffset, err := r.ReadOffset()
	if err != nil {
		return nil, err
	}
	stdName, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	stdOffset, err := ReadYearOffset(r)
	if err != nil {
		return nil, err
	}
	dstName, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	dstOffset, err := ReadYearOffset(r)
	if err != nil {
		return nil, err
	}
	savings, err := r.ReadOffset()
	if err != nil {
		return nil, err
	}
	std, err := NewRecurrence(stdName, tztime.Zero, stdOffset, NoStartYear, NoEndYear)
	if err != nil {
		return nil, r.Errorf(start, "%v", err)
	}
	dst, err := NewRecurrence(dstName, savings, dstOffset, NoStartYear, NoEndYear)
	if err != nil {
		return nil, r.Errorf(start, "%v", err)
	}
	s, err := NewStandardDaylight(standardOffset, std, dst)
	if err != nil {
		return nil, r.Errorf(start, "%v", err)
	}
	return s, nil
}
