// Package tzio implements the compact binary encoding used for time zone
// rule data.
//
// The format is built from a handful of primitives:
//
//	count          7 bits per byte, little-endian groups, top bit set on all
//	               but the last byte; at most 5 bytes, at most 2^31-1
//	signed count   zig-zag encoded, then written as a count
//	string         count of UTF-8 bytes followed by the bytes, or, when a
//	               string pool is in use, the count of the pool index
//	offset         one byte (half hours + 64) for whole half hours,
//	               otherwise 0x80 followed by a signed count of milliseconds
//	transition     see WriteZoneIntervalTransition
//	dictionary     count of entries, then key and value strings sorted by key
package tzio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/ngrash/go-tzdb/tztime"
)

// NOTE: Raw tick values are stored in network octet order (big-endian)
// using two's complement, matching the TZif convention.
var order = binary.BigEndian

const (
	// offsetHalfHour is the granularity of single-byte offsets.
	offsetHalfHour = 30 * tztime.MillisecondsPerMinute
	// offsetHalfHourBias maps the half-hour count into 0..127.
	offsetHalfHourBias = 64
	// offsetMarkerMilliseconds introduces a signed count of milliseconds.
	offsetMarkerMilliseconds = 0x80
)

// Transition markers, stored in the top three bits of the first byte.
const (
	markerHoursSincePrevious = 1 // 001: 21 bits of hours since the previous transition, 3 bytes
	markerMinutesSinceEpoch  = 2 // 010: 29 bits of minutes since TransitionEpoch, 4 bytes
	markerRawTicks           = 3 // 011: marker byte followed by 8 bytes of ticks

	// MaxHoursSincePrevious is the exclusive upper bound of hour deltas
	// encodable relative to the previous transition.
	MaxHoursSincePrevious = 1 << 21
	// MaxMinutesSinceEpoch is the exclusive upper bound of minute counts
	// encodable relative to TransitionEpoch.
	MaxMinutesSinceEpoch = 1 << 29
)

// TransitionEpoch is the origin of the minutes-since-epoch transition
// encoding. It predates the first transition of every TZDB zone.
var TransitionEpoch = tztime.FromUTC(1800, 1, 1, 0, 0, 0)

// Writer writes the primitives of the binary format to an io.Writer.
// When a StringPool is attached, strings are written as pool indexes.
type Writer struct {
	w       io.Writer
	pool    *StringPool
	scratch [9]byte
}

// NewWriter returns a Writer that writes to w. The pool may be nil, in which
// case strings are written inline.
func NewWriter(w io.Writer, pool *StringPool) *Writer {
	return &Writer{w: w, pool: pool}
}

// Pool returns the attached string pool, or nil.
func (w *Writer) Pool() *StringPool {
	return w.pool
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	w.scratch[0] = b
	_, err := w.w.Write(w.scratch[:1])
	return err
}

// WriteBytes writes b verbatim, without a length prefix.
func (w *Writer) WriteBytes(b []byte) error {
	_, err := w.w.Write(b)
	return err
}

// WriteCount writes a non-negative count.
func (w *Writer) WriteCount(n int) error {
	if n < 0 || n > math.MaxInt32 {
		return fmt.Errorf("count %d out of range [0, %d]", n, math.MaxInt32)
	}
	return w.writeVarint(uint32(n))
}

// WriteSignedCount writes n zig-zag encoded, so that values close to zero
// take few bytes regardless of their sign.
func (w *Writer) WriteSignedCount(n int32) error {
	return w.writeVarint(uint32((n << 1) ^ (n >> 31)))
}

func (w *Writer) writeVarint(v uint32) error {
	i := 0
	for v >= 0x80 {
		w.scratch[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	w.scratch[i] = byte(v)
	_, err := w.w.Write(w.scratch[:i+1])
	return err
}

// WriteString writes s, as a pool index if a pool is attached.
func (w *Writer) WriteString(s string) error {
	if w.pool != nil {
		return w.WriteCount(w.pool.IndexOf(s))
	}
	return w.writeRawString(s)
}

func (w *Writer) writeRawString(s string) error {
	if err := w.WriteCount(len(s)); err != nil {
		return err
	}
	_, err := io.WriteString(w.w, s)
	return err
}

// WriteStringPool writes the contents of p as a count followed by the
// strings, always inline.
func (w *Writer) WriteStringPool(p *StringPool) error {
	if err := w.WriteCount(p.Len()); err != nil {
		return err
	}
	for _, s := range p.strings {
		if err := w.writeRawString(s); err != nil {
			return err
		}
	}
	return nil
}

// WriteOffset writes o. Whole half hours, which cover nearly all offsets in
// use, take a single byte.
func (w *Writer) WriteOffset(o tztime.Offset) error {
	if !o.IsValid() {
		return fmt.Errorf("offset %v out of range", o)
	}
	ms := o.Milliseconds()
	if ms%offsetHalfHour == 0 {
		return w.WriteByte(byte(ms/offsetHalfHour + offsetHalfHourBias))
	}
	if err := w.WriteByte(offsetMarkerMilliseconds); err != nil {
		return err
	}
	return w.WriteSignedCount(int32(ms))
}

// WriteZoneIntervalTransition writes the transition instant value. The
// previous transition, if valid, is used to pick a compact delta encoding;
// pass tztime.BeforeMinValue when there is no previous transition. The
// encodings are tried in this order:
//
//   - whole hours since previous, if fewer than MaxHoursSincePrevious
//   - whole minutes since TransitionEpoch, if fewer than MaxMinutesSinceEpoch
//   - raw ticks
func (w *Writer) WriteZoneIntervalTransition(previous, value tztime.Instant) error {
	if previous.IsValid() && value.IsValid() {
		if value < previous {
			return fmt.Errorf("transition %v is earlier than previous transition %v", value, previous)
		}
		delta := value.Ticks() - previous.Ticks()
		if delta%tztime.TicksPerHour == 0 {
			if hours := delta / tztime.TicksPerHour; hours < MaxHoursSincePrevious {
				w.scratch[0] = markerHoursSincePrevious<<5 | byte(hours>>16)
				w.scratch[1] = byte(hours >> 8)
				w.scratch[2] = byte(hours)
				_, err := w.w.Write(w.scratch[:3])
				return err
			}
		}
	}
	if value.IsValid() && value >= TransitionEpoch {
		delta := value.Ticks() - TransitionEpoch.Ticks()
		if delta%tztime.TicksPerMinute == 0 {
			if minutes := delta / tztime.TicksPerMinute; minutes < MaxMinutesSinceEpoch {
				w.scratch[0] = markerMinutesSinceEpoch<<5 | byte(minutes>>24)
				w.scratch[1] = byte(minutes >> 16)
				w.scratch[2] = byte(minutes >> 8)
				w.scratch[3] = byte(minutes)
				_, err := w.w.Write(w.scratch[:4])
				return err
			}
		}
	}
	w.scratch[0] = markerRawTicks << 5
	order.PutUint64(w.scratch[1:9], uint64(value.Ticks()))
	_, err := w.w.Write(w.scratch[:9])
	return err
}

// WriteDictionary writes m with its keys in sorted order.
func (w *Writer) WriteDictionary(m map[string]string) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if err := w.WriteCount(len(keys)); err != nil {
		return err
	}
	for _, k := range keys {
		if err := w.WriteString(k); err != nil {
			return err
		}
		if err := w.WriteString(m[k]); err != nil {
			return err
		}
	}
	return nil
}
