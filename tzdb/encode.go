package tzdb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/ngrash/go-tzdb/tzio"
	"github.com/ngrash/go-tzdb/zone"
)

// EncodeOptions control how Encode lays out a container.
type EncodeOptions struct {
	// Pooled stores every string once in the string pool field and refers
	// to it by index elsewhere.
	Pooled bool
}

type field struct {
	id      FieldID
	payload []byte
}

// Encode writes d as a container. Fields are written in a fixed order and
// zones sorted by id, so equal Data encode to equal bytes.
func Encode(w io.Writer, d *Data, opts EncodeOptions) error {
	if err := d.check(); err != nil {
		return err
	}
	var pool *tzio.StringPool
	if opts.Pooled {
		pool = tzio.NewStringPool()
	}
	var fields []field
	add := func(id FieldID, write func(*tzio.Writer) error) error {
		var buf bytes.Buffer
		if err := write(tzio.NewWriter(&buf, pool)); err != nil {
			return fmt.Errorf("writing field %v: %w", id, err)
		}
		fields = append(fields, field{id, buf.Bytes()})
		return nil
	}

	if err := add(FieldTzdbVersion, func(w *tzio.Writer) error { return w.WriteString(d.Version) }); err != nil {
		return err
	}
	if err := add(FieldTzdbIDMap, func(w *tzio.Writer) error { return w.WriteDictionary(d.IDMap) }); err != nil {
		return err
	}
	if err := add(FieldWindowsZones, d.WindowsZones.write); err != nil {
		return err
	}
	if d.WindowsAdditionalNames != nil {
		if err := add(FieldWindowsAdditionalStandardNameToIDMapping, func(w *tzio.Writer) error { return w.WriteDictionary(d.WindowsAdditionalNames) }); err != nil {
			return err
		}
	}
	if d.ZoneLocations != nil {
		if err := add(FieldZoneLocations, func(w *tzio.Writer) error { return writeZoneLocations(w, d.ZoneLocations) }); err != nil {
			return err
		}
	}
	if d.Zone1970Locations != nil {
		if err := add(FieldZone1970Locations, func(w *tzio.Writer) error { return writeZone1970Locations(w, d.Zone1970Locations) }); err != nil {
			return err
		}
	}
	for _, id := range sortedKeys(d.Zones) {
		rs := d.Zones[id]
		err := add(FieldTimeZone, func(w *tzio.Writer) error {
			if err := w.WriteString(id); err != nil {
				return err
			}
			return zone.Write(w, rs)
		})
		if err != nil {
			return fmt.Errorf("zone %s: %w", id, err)
		}
	}

	// The pool is complete only once every other field has been written.
	var poolPayload bytes.Buffer
	pw := tzio.NewWriter(&poolPayload, nil)
	if pool == nil {
		if err := pw.WriteByte(0); err != nil {
			return err
		}
	} else {
		if err := pw.WriteByte(1); err != nil {
			return err
		}
		if err := pw.WriteStringPool(pool); err != nil {
			return err
		}
	}

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], FormatVersion)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	out := tzio.NewWriter(w, nil)
	for _, f := range append([]field{{FieldStringPool, poolPayload.Bytes()}}, fields...) {
		if err := out.WriteByte(byte(f.id)); err != nil {
			return err
		}
		if err := out.WriteCount(len(f.payload)); err != nil {
			return err
		}
		if err := out.WriteBytes(f.payload); err != nil {
			return err
		}
	}
	return nil
}

// check reports problems that would make the encoded container unreadable.
func (d *Data) check() error {
	for id, canonical := range d.IDMap {
		if _, ok := d.Zones[canonical]; !ok {
			return fmt.Errorf("id %s maps to %s, which has no rules", id, canonical)
		}
	}
	for id, rs := range d.Zones {
		if rs == nil {
			return fmt.Errorf("zone %s has no rules", id)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (wz WindowsZones) write(w *tzio.Writer) error {
	for _, s := range []string{wz.Version, wz.TzdbVersion, wz.WindowsVersion} {
		if err := w.WriteString(s); err != nil {
			return err
		}
	}
	if err := w.WriteCount(len(wz.MapZones)); err != nil {
		return err
	}
	for _, m := range wz.MapZones {
		if err := w.WriteString(m.WindowsID); err != nil {
			return err
		}
		if err := w.WriteString(m.Territory); err != nil {
			return err
		}
		if err := w.WriteCount(len(m.TzdbIDs)); err != nil {
			return err
		}
		for _, id := range m.TzdbIDs {
			if err := w.WriteString(id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c Coordinates) write(w *tzio.Writer) error {
	if !c.valid() {
		return fmt.Errorf("coordinates %d, %d out of range", c.Latitude, c.Longitude)
	}
	if err := w.WriteSignedCount(c.Latitude); err != nil {
		return err
	}
	return w.WriteSignedCount(c.Longitude)
}

func writeZoneLocations(w *tzio.Writer, locs []ZoneLocation) error {
	if err := w.WriteCount(len(locs)); err != nil {
		return err
	}
	for _, l := range locs {
		if err := l.Coordinates.write(w); err != nil {
			return err
		}
		for _, s := range []string{l.CountryName, l.CountryCode, l.ZoneID, l.Comment} {
			if err := w.WriteString(s); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeZone1970Locations(w *tzio.Writer, locs []Zone1970Location) error {
	if err := w.WriteCount(len(locs)); err != nil {
		return err
	}
	for _, l := range locs {
		if err := l.Coordinates.write(w); err != nil {
			return err
		}
		if err := w.WriteCount(len(l.Countries)); err != nil {
			return err
		}
		for _, c := range l.Countries {
			if err := w.WriteString(c.Name); err != nil {
				return err
			}
			if err := w.WriteString(c.Code); err != nil {
				return err
			}
		}
		if err := w.WriteString(l.ZoneID); err != nil {
			return err
		}
		if err := w.WriteString(l.Comment); err != nil {
			return err
		}
	}
	return nil
}
