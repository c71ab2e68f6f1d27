package tzdb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/jrivets/log4g"

	"github.com/ngrash/go-tzdb/tzio"
)

var logger = log4g.GetLogger("tzdb")

// builder collects container fields in the order they appear.
type builder struct {
	seen map[FieldID]bool

	pool          []string
	version       string
	idMap         map[string]string
	windows       WindowsZones
	additional    map[string]string
	locations     []ZoneLocation
	locations1970 []Zone1970Location
	zones         map[string]*zoneSlot
}

func newBuilder() *builder {
	return &builder{
		seen:  make(map[FieldID]bool),
		zones: make(map[string]*zoneSlot),
	}
}

// Decode reads a container written by Encode. Zone rules are parsed when a
// zone is first used unless WithEagerZones is given.
func Decode(data []byte, opts ...Option) (*Provider, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.cache != nil {
		if err := o.cache.Validate(); err != nil {
			return nil, fmt.Errorf("cache config: %w", err)
		}
	}

	r := tzio.NewReader(data, nil)
	header, err := r.ReadBytes(4)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if v := binary.BigEndian.Uint32(header); v != FormatVersion {
		return nil, r.Errorf(0, "unsupported format version %d", v)
	}

	b := newBuilder()
	for r.HasMoreData() {
		pos := r.Offset()
		id, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		n, err := r.ReadCount()
		if err != nil {
			return nil, fmt.Errorf("field %v at offset %d: %w", FieldID(id), pos, err)
		}
		payload, err := r.ReadBytes(n)
		if err != nil {
			return nil, fmt.Errorf("field %v at offset %d: %w", FieldID(id), pos, err)
		}
		if err := b.handle(FieldID(id), payload); err != nil {
			return nil, fmt.Errorf("field %v at offset %d: %w", FieldID(id), pos, err)
		}
	}
	if err := b.validate(); err != nil {
		return nil, err
	}

	p := b.provider(o)
	logger.Info("Loaded TZDB ", p.version, ": ", len(p.ids), " zones, ", len(p.idMap)-len(p.ids), " aliases")
	if o.eager {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (b *builder) handle(id FieldID, payload []byte) error {
	if id > FieldZone1970Locations {
		logger.Debug("Skipping unknown field ", byte(id), " of ", len(payload), " bytes")
		return nil
	}
	if id != FieldTimeZone {
		if b.seen[id] {
			return tzio.Invalid("duplicate field")
		}
	}
	if id != FieldStringPool && !b.seen[FieldStringPool] {
		return tzio.Invalid("field precedes the string pool")
	}
	b.seen[id] = true

	r := tzio.NewReader(payload, b.pool)
	var err error
	switch id {
	case FieldStringPool:
		err = b.readStringPool(r)
	case FieldTimeZone:
		err = b.readTimeZone(r, payload)
	case FieldTzdbVersion:
		b.version, err = r.ReadString()
	case FieldTzdbIDMap:
		b.idMap, err = r.ReadDictionary()
	case FieldWindowsZones:
		b.windows, err = readWindowsZones(r)
	case FieldWindowsAdditionalStandardNameToIDMapping:
		b.additional, err = r.ReadDictionary()
	case FieldZoneLocations:
		b.locations, err = readZoneLocations(r)
	case FieldZone1970Locations:
		b.locations1970, err = readZone1970Locations(r)
	}
	if err != nil {
		return err
	}
	// Zone rules are read later, so only the other fields can be checked
	// for trailing data here.
	if id != FieldTimeZone && r.HasMoreData() {
		return r.Errorf(r.Offset(), "%d trailing bytes", r.Remaining())
	}
	return nil
}

func (b *builder) readStringPool(r *tzio.Reader) error {
	present, err := r.ReadByte()
	if err != nil {
		return err
	}
	switch present {
	case 0:
	case 1:
		if b.pool, err = r.ReadStringPool(); err != nil {
			return err
		}
	default:
		return r.Errorf(0, "invalid string pool presence byte %d", present)
	}
	return nil
}

func (b *builder) readTimeZone(r *tzio.Reader, payload []byte) error {
	id, err := r.ReadString()
	if err != nil {
		return err
	}
	if _, dup := b.zones[id]; dup {
		return tzio.Invalid("duplicate zone %s", id)
	}
	b.zones[id] = &zoneSlot{id: id, payload: payload, pool: b.pool}
	return nil
}

// validate reports every required field that is missing, and ids that map
// to zones without rules.
func (b *builder) validate() error {
	var errs []error
	for _, id := range []FieldID{FieldStringPool, FieldTzdbVersion, FieldTzdbIDMap, FieldWindowsZones} {
		if !b.seen[id] {
			errs = append(errs, tzio.Invalid("missing field %v", id))
		}
	}
	for _, alias := range sortedKeys(b.idMap) {
		if canonical := b.idMap[alias]; b.zones[canonical] == nil {
			errs = append(errs, tzio.Invalid("id %s maps to unknown zone %s", alias, canonical))
		}
	}
	return errors.Join(errs...)
}

func (b *builder) provider(o options) *Provider {
	p := &Provider{
		version:       b.version,
		idMap:         make(map[string]string, len(b.idMap)+len(b.zones)),
		zones:         b.zones,
		windows:       b.windows,
		additional:    b.additional,
		locations:     b.locations,
		locations1970: b.locations1970,
		cache:         o.cache,
	}
	for id := range b.zones {
		p.ids = append(p.ids, id)
		p.idMap[id] = id
	}
	sort.Strings(p.ids)
	for alias, canonical := range b.idMap {
		p.idMap[alias] = canonical
	}
	return p
}

func readWindowsZones(r *tzio.Reader) (WindowsZones, error) {
	var wz WindowsZones
	for _, s := range []*string{&wz.Version, &wz.TzdbVersion, &wz.WindowsVersion} {
		var err error
		if *s, err = r.ReadString(); err != nil {
			return WindowsZones{}, err
		}
	}
	n, err := readBoundedCount(r, 3)
	if err != nil {
		return WindowsZones{}, err
	}
	if n > 0 {
		wz.MapZones = make([]MapZone, n)
	}
	for i := range wz.MapZones {
		m := &wz.MapZones[i]
		if m.WindowsID, err = r.ReadString(); err != nil {
			return WindowsZones{}, err
		}
		if m.Territory, err = r.ReadString(); err != nil {
			return WindowsZones{}, err
		}
		ids, err := readBoundedCount(r, 1)
		if err != nil {
			return WindowsZones{}, err
		}
		if ids > 0 {
			m.TzdbIDs = make([]string, ids)
		}
		for k := range m.TzdbIDs {
			if m.TzdbIDs[k], err = r.ReadString(); err != nil {
				return WindowsZones{}, err
			}
		}
	}
	return wz, nil
}

// readBoundedCount reads the length of a list whose entries take at least
// minSize bytes each.
func readBoundedCount(r *tzio.Reader, minSize int) (int, error) {
	pos := r.Offset()
	n, err := r.ReadCount()
	if err != nil {
		return 0, err
	}
	if n > r.Remaining()/minSize {
		return 0, r.Errorf(pos, "%d entries exceed the %d remaining bytes", n, r.Remaining())
	}
	return n, nil
}

func readCoordinates(r *tzio.Reader) (Coordinates, error) {
	pos := r.Offset()
	var c Coordinates
	var err error
	if c.Latitude, err = r.ReadSignedCount(); err != nil {
		return Coordinates{}, err
	}
	if c.Longitude, err = r.ReadSignedCount(); err != nil {
		return Coordinates{}, err
	}
	if !c.valid() {
		return Coordinates{}, r.Errorf(pos, "coordinates %d, %d out of range", c.Latitude, c.Longitude)
	}
	return c, nil
}

func readZoneLocations(r *tzio.Reader) ([]ZoneLocation, error) {
	n, err := readBoundedCount(r, 6)
	if err != nil {
		return nil, err
	}
	locs := make([]ZoneLocation, n)
	for i := range locs {
		l := &locs[i]
		if l.Coordinates, err = readCoordinates(r); err != nil {
			return nil, err
		}
		for _, s := range []*string{&l.CountryName, &l.CountryCode, &l.ZoneID, &l.Comment} {
			if *s, err = r.ReadString(); err != nil {
				return nil, err
			}
		}
	}
	return locs, nil
}

func readZone1970Locations(r *tzio.Reader) ([]Zone1970Location, error) {
	n, err := readBoundedCount(r, 5)
	if err != nil {
		return nil, err
	}
	locs := make([]Zone1970Location, n)
	for i := range locs {
		l := &locs[i]
		if l.Coordinates, err = readCoordinates(r); err != nil {
			return nil, err
		}
		countries, err := readBoundedCount(r, 2)
		if err != nil {
			return nil, err
		}
		if countries > 0 {
			l.Countries = make([]Country, countries)
		}
		for k := range l.Countries {
			if l.Countries[k].Name, err = r.ReadString(); err != nil {
				return nil, err
			}
			if l.Countries[k].Code, err = r.ReadString(); err != nil {
				return nil, err
			}
		}
		if l.ZoneID, err = r.ReadString(); err != nil {
			return nil, err
		}
		if l.Comment, err = r.ReadString(); err != nil {
			return nil, err
		}
	}
	return locs, nil
}
