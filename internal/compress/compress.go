// Package compress provides the block codecs used to compress packed time
// zone containers.
package compress

import "fmt"

// Type identifies a codec on the wire.
type Type uint8

const (
	None Type = 0x1
	Zstd Type = 0x2
	S2   Type = 0x3
	LZ4  Type = 0x4
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("<undefined compression (%d)>", uint8(t))
	}
}

// ParseType returns the Type named s, as printed by Type.String.
func ParseType(s string) (Type, error) {
	for _, t := range []Type{None, Zstd, S2, LZ4} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown compression %q", s)
}

// Codec compresses and decompresses whole blocks. Implementations are safe
// for concurrent use. Empty input yields nil output in both directions.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

var codecs = map[Type]Codec{
	None: noop{},
	Zstd: zstdCodec{},
	S2:   s2Codec{},
	LZ4:  lz4Codec{},
}

// Get returns the codec for t.
func Get(t Type) (Codec, error) {
	if c, ok := codecs[t]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unsupported compression type %v", t)
}

type noop struct{}

// Compress returns data itself, not a copy.
func (noop) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

func (noop) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}
