package tzio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ngrash/go-tzdb/tztime"
)

// Reader reads the primitives written by Writer from an in-memory byte
// slice. Every failure is reported as a *DataError carrying the offset at
// which the offending value starts.
type Reader struct {
	data []byte
	pos  int
	pool []string
}

// NewReader returns a Reader over data. A nil pool means strings are stored
// inline; a non-nil pool (even an empty one) means strings are stored as
// pool indexes.
func NewReader(data []byte, pool []string) *Reader {
	return &Reader{data: data, pool: pool}
}

// HasMoreData reports whether at least one more byte is available.
func (r *Reader) HasMoreData() bool {
	return r.pos < len(r.data)
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.pos
}

// Remaining returns the number of bytes not yet consumed.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) errorAt(pos int, err error) error {
	return &DataError{Offset: pos, Err: err}
}

func (r *Reader) errorf(pos int, format string, args ...any) error {
	return r.errorAt(pos, fmt.Errorf(format, args...))
}

// Errorf returns a *DataError at offset pos. Decoders built on top of the
// Reader use it to report values that are well-formed primitives but
// invalid in their context.
func (r *Reader) Errorf(pos int, format string, args ...any) error {
	return r.errorf(pos, format, args...)
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, r.errorAt(r.pos, io.ErrUnexpectedEOF)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes. The returned slice aliases the
// underlying data.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, r.errorf(r.pos, "negative length %d", n)
	}
	if r.Remaining() < n {
		return nil, r.errorAt(r.pos, fmt.Errorf("need %d bytes, %d remaining: %w", n, r.Remaining(), io.ErrUnexpectedEOF))
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadCount reads a count written by Writer.WriteCount.
func (r *Reader) ReadCount() (int, error) {
	start := r.pos
	v, err := r.readVarint()
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 {
		return 0, r.errorf(start, "count %d out of range", v)
	}
	return int(v), nil
}

// ReadSignedCount reads a value written by Writer.WriteSignedCount.
func (r *Reader) ReadSignedCount() (int32, error) {
	v, err := r.readVarint()
	if err != nil {
		return 0, err
	}
	return int32(v>>1) ^ -int32(v&1), nil
}

func (r *Reader) readVarint() (uint32, error) {
	start := r.pos
	var v uint64
	for shift := 0; ; shift += 7 {
		if shift > 28 {
			return 0, r.errorf(start, "varint longer than 5 bytes")
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
	}
	if v > math.MaxUint32 {
		return 0, r.errorf(start, "varint %d overflows 32 bits", v)
	}
	return uint32(v), nil
}

// ReadString reads a string, resolving pool indexes if the reader has a pool.
func (r *Reader) ReadString() (string, error) {
	if r.pool != nil {
		start := r.pos
		i, err := r.ReadCount()
		if err != nil {
			return "", err
		}
		if i >= len(r.pool) {
			return "", r.errorf(start, "string pool index %d out of range [0, %d)", i, len(r.pool))
		}
		return r.pool[i], nil
	}
	return r.readRawString()
}

func (r *Reader) readRawString() (string, error) {
	n, err := r.ReadCount()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadStringPool reads a pool written by Writer.WriteStringPool.
func (r *Reader) ReadStringPool() ([]string, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, err
	}
	// Every string takes at least one byte, which bounds the allocation.
	if n > r.Remaining() {
		return nil, r.errorAt(r.pos, fmt.Errorf("string pool of %d entries exceeds %d remaining bytes: %w", n, r.Remaining(), io.ErrUnexpectedEOF))
	}
	pool := make([]string, n)
	for i := range pool {
		if pool[i], err = r.readRawString(); err != nil {
			return nil, err
		}
	}
	return pool, nil
}

// ReadOffset reads an offset written by Writer.WriteOffset.
func (r *Reader) ReadOffset() (tztime.Offset, error) {
	start := r.pos
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	var o tztime.Offset
	switch {
	case b&0x80 == 0:
		o = tztime.Offset((int(b) - offsetHalfHourBias) * offsetHalfHour)
	case b == offsetMarkerMilliseconds:
		ms, err := r.ReadSignedCount()
		if err != nil {
			return 0, err
		}
		o = tztime.Offset(ms)
	default:
		return 0, r.errorf(start, "invalid offset marker 0x%02x", b)
	}
	if !o.IsValid() {
		return 0, r.errorf(start, "offset %v out of range", o)
	}
	return o, nil
}

// ReadZoneIntervalTransition reads a transition written by
// Writer.WriteZoneIntervalTransition with the same previous value.
func (r *Reader) ReadZoneIntervalTransition(previous tztime.Instant) (tztime.Instant, error) {
	start := r.pos
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	switch b >> 5 {
	case markerHoursSincePrevious:
		rest, err := r.ReadBytes(2)
		if err != nil {
			return 0, err
		}
		if !previous.IsValid() {
			return 0, r.errorf(start, "hours since previous transition without a previous transition")
		}
		hours := int64(b&0x1f)<<16 | int64(rest[0])<<8 | int64(rest[1])
		v := previous.PlusTicks(hours * tztime.TicksPerHour)
		if !v.IsValid() {
			return 0, r.errorf(start, "transition %d hours after %v out of range", hours, previous)
		}
		return v, nil
	case markerMinutesSinceEpoch:
		rest, err := r.ReadBytes(3)
		if err != nil {
			return 0, err
		}
		minutes := int64(b&0x1f)<<24 | int64(rest[0])<<16 | int64(rest[1])<<8 | int64(rest[2])
		return TransitionEpoch.PlusTicks(minutes * tztime.TicksPerMinute), nil
	case markerRawTicks:
		rest, err := r.ReadBytes(8)
		if err != nil {
			return 0, err
		}
		v := tztime.Instant(int64(order.Uint64(rest)))
		if !v.IsValid() && v != tztime.BeforeMinValue && v != tztime.AfterMaxValue {
			return 0, r.errorf(start, "raw transition %d out of range", v.Ticks())
		}
		return v, nil
	default:
		return 0, r.errorf(start, "invalid transition marker %03b", b>>5)
	}
}

// ReadDictionary reads a dictionary written by Writer.WriteDictionary.
func (r *Reader) ReadDictionary() (map[string]string, error) {
	start := r.pos
	n, err := r.ReadCount()
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, min(n, r.Remaining()))
	for i := 0; i < n; i++ {
		k, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		v, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		if _, dup := m[k]; dup {
			return nil, r.errorf(start, "duplicate dictionary key %q", k)
		}
		m[k] = v
	}
	return m, nil
}

// IsTruncated reports whether err was caused by the stream ending early.
func IsTruncated(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF)
}
