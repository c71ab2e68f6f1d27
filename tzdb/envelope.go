package tzdb

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/ngrash/go-tzdb/internal/compress"
	"github.com/ngrash/go-tzdb/tzio"
)

// An envelope wraps a container for storage:
//
//	"TZDE"  magic
//	1 byte  compression type
//	8 bytes xxHash64 of the container, big-endian
//	...     compressed container
var envelopeMagic = []byte("TZDE")

const envelopeHeaderSize = 4 + 1 + 8

// Pack compresses a container written by Encode into an envelope.
func Pack(container []byte, t compress.Type) ([]byte, error) {
	codec, err := compress.Get(t)
	if err != nil {
		return nil, err
	}
	body, err := codec.Compress(container)
	if err != nil {
		return nil, err
	}
	out := make([]byte, envelopeHeaderSize, envelopeHeaderSize+len(body))
	copy(out, envelopeMagic)
	out[4] = byte(t)
	binary.BigEndian.PutUint64(out[5:], xxhash.Sum64(container))
	return append(out, body...), nil
}

// IsPacked reports whether b starts like an envelope.
func IsPacked(b []byte) bool {
	return bytes.HasPrefix(b, envelopeMagic)
}

// Unpack returns the container inside an envelope after checking its
// checksum.
func Unpack(b []byte) ([]byte, compress.Type, error) {
	if !IsPacked(b) {
		return nil, 0, tzio.Invalid("missing envelope magic")
	}
	if len(b) < envelopeHeaderSize {
		return nil, 0, tzio.Invalid("envelope header truncated to %d bytes", len(b))
	}
	t := compress.Type(b[4])
	codec, err := compress.Get(t)
	if err != nil {
		return nil, 0, tzio.Invalid("%v", err)
	}
	container, err := codec.Decompress(b[envelopeHeaderSize:])
	if err != nil {
		return nil, t, tzio.Invalid("decompressing %v envelope: %v", t, err)
	}
	want := binary.BigEndian.Uint64(b[5:])
	if got := xxhash.Sum64(container); got != want {
		return nil, t, tzio.Invalid("envelope checksum %016x, want %016x", got, want)
	}
	return container, t, nil
}

// Open decodes b, which is either a container or an envelope.
func Open(b []byte, opts ...Option) (*Provider, error) {
	if !IsPacked(b) {
		return Decode(b, opts...)
	}
	container, t, err := Unpack(b)
	if err != nil {
		return nil, err
	}
	logger.Info("Unpacked ", t, " envelope, ", len(b), " -> ", len(container), " bytes")
	return Decode(container, opts...)
}
