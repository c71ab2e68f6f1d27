package compress

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var allTypes = []Type{None, Zstd, S2, LZ4}

func TestType_String(t *testing.T) {
	for _, typ := range allTypes {
		got, err := ParseType(typ.String())
		require.NoError(t, err)
		require.Equal(t, typ, got)
	}
	require.Equal(t, "<undefined compression (9)>", Type(9).String())
	_, err := ParseType("gzip")
	require.Error(t, err)
}

func TestGet(t *testing.T) {
	for _, typ := range allTypes {
		c, err := Get(typ)
		require.NoError(t, err, typ)
		require.NotNil(t, c)
	}
	_, err := Get(0)
	require.Error(t, err)
}

func TestCodecs_EmptyData(t *testing.T) {
	for _, typ := range allTypes {
		c, err := Get(typ)
		require.NoError(t, err)

		out, err := c.Compress(nil)
		require.NoError(t, err, typ)
		require.Nil(t, out, typ)

		out, err = c.Decompress([]byte{})
		require.NoError(t, err, typ)
		require.Nil(t, out, typ)
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"single byte": {0x42},
		"text":        []byte("America/Los_Angeles America/New_York Europe/London"),
		"repetitive":  bytes.Repeat([]byte{0x40, 0x42, 0x3e, 0x80}, 10000),
		"sequential": func() []byte {
			b := make([]byte, 70000)
			for i := range b {
				b[i] = byte(i * 31)
			}
			return b
		}(),
	}
	for _, typ := range allTypes {
		c, err := Get(typ)
		require.NoError(t, err)
		for name, in := range inputs {
			t.Run(fmt.Sprintf("%v/%s", typ, name), func(t *testing.T) {
				packed, err := c.Compress(in)
				require.NoError(t, err)
				out, err := c.Decompress(packed)
				require.NoError(t, err)
				require.Equal(t, in, out)
			})
		}
	}
}

func TestCodecs_Shrink(t *testing.T) {
	in := bytes.Repeat([]byte("Etc/GMT+1 "), 5000)
	for _, typ := range []Type{Zstd, S2, LZ4} {
		c, err := Get(typ)
		require.NoError(t, err)
		packed, err := c.Compress(in)
		require.NoError(t, err)
		require.Less(t, len(packed), len(in)/4, typ)
	}
}

func TestCodecs_InvalidData(t *testing.T) {
	garbage := []byte{0xff, 0xff, 0xff, 0xff}
	for _, typ := range []Type{Zstd, S2, LZ4} {
		c, err := Get(typ)
		require.NoError(t, err)
		_, err = c.Decompress(garbage)
		require.Error(t, err, typ)
	}
}

func TestCodecs_Concurrent(t *testing.T) {
	in := bytes.Repeat([]byte("Europe/Berlin CET CEST "), 2000)
	for _, typ := range allTypes {
		c, err := Get(typ)
		require.NoError(t, err)
		var wg sync.WaitGroup
		errs := make(chan error, 16)
		for g := 0; g < 16; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				packed, err := c.Compress(in)
				if err != nil {
					errs <- err
					return
				}
				out, err := c.Decompress(packed)
				if err != nil {
					errs <- err
					return
				}
				if !bytes.Equal(in, out) {
					errs <- fmt.Errorf("%v: round trip mismatch", typ)
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
	}
}
