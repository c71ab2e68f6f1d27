package tzdb

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ngrash/go-tzdb/tzio"
	"github.com/ngrash/go-tzdb/tztime"
	"github.com/ngrash/go-tzdb/zone"
)

// Provider answers queries against a decoded container. It is safe for
// concurrent use.
type Provider struct {
	version       string
	ids           []string
	idMap         map[string]string
	zones         map[string]*zoneSlot
	windows       WindowsZones
	additional    map[string]string
	locations     []ZoneLocation
	locations1970 []Zone1970Location
	cache         *zone.CacheConfig
}

// zoneSlot holds the undecoded rules of one zone until first use.
type zoneSlot struct {
	id      string
	payload []byte
	pool    []string

	once sync.Once
	rs   zone.RuleSet
	err  error
}

func (s *zoneSlot) load(cache *zone.CacheConfig) (zone.RuleSet, error) {
	s.once.Do(func() {
		s.rs, s.err = s.decode(cache)
		if s.err != nil {
			s.err = fmt.Errorf("zone %s: %w", s.id, s.err)
		}
		logger.Debug("Materialized zone ", s.id, ", err=", s.err)
	})
	return s.rs, s.err
}

func (s *zoneSlot) decode(cache *zone.CacheConfig) (zone.RuleSet, error) {
	r := tzio.NewReader(s.payload, s.pool)
	if _, err := r.ReadString(); err != nil {
		return nil, err
	}
	rs, err := zone.Read(r)
	if err != nil {
		return nil, err
	}
	if r.HasMoreData() {
		return nil, r.Errorf(r.Offset(), "%d trailing bytes", r.Remaining())
	}
	// Fixed zones answer every query with the same interval.
	if _, fixed := rs.(zone.Fixed); fixed || cache == nil {
		return rs, nil
	}
	return zone.NewCache(rs, *cache)
}

// Version returns the TZDB release the container was built from.
func (p *Provider) Version() string {
	return p.version
}

// IDs returns the canonical zone ids in sorted order.
func (p *Provider) IDs() []string {
	return append([]string(nil), p.ids...)
}

// Aliases returns the ids that are not canonical, mapped to their
// canonical ids.
func (p *Provider) Aliases() map[string]string {
	m := make(map[string]string)
	for alias, canonical := range p.idMap {
		if alias != canonical {
			m[alias] = canonical
		}
	}
	return m
}

// CanonicalID returns the canonical id for a zone id or alias.
func (p *Provider) CanonicalID(id string) (string, error) {
	canonical, ok := p.idMap[id]
	if !ok {
		return "", &ZoneNotFoundError{ID: id}
	}
	return canonical, nil
}

// Zone returns the rules of a zone, given its id or an alias. The rules are
// decoded on first use and shared by later calls.
func (p *Provider) Zone(id string) (zone.RuleSet, error) {
	canonical, err := p.CanonicalID(id)
	if err != nil {
		return nil, err
	}
	return p.zones[canonical].load(p.cache)
}

// Resolve returns the interval of zone id that contains t.
func (p *Provider) Resolve(id string, t tztime.Instant) (zone.Interval, error) {
	rs, err := p.Zone(id)
	if err != nil {
		return zone.Interval{}, err
	}
	return rs.Interval(t), nil
}

// Validate decodes every zone and reports all that fail.
func (p *Provider) Validate() error {
	var errs []error
	for _, id := range p.ids {
		if _, err := p.zones[id].load(p.cache); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WindowsZones returns the Windows zone mapping.
func (p *Provider) WindowsZones() WindowsZones {
	return p.windows
}

// WindowsToTzdbID returns the canonical TZDB id for a Windows zone id.
func (p *Provider) WindowsToTzdbID(windowsID string) (string, error) {
	id, ok := p.windows.PrimaryID(windowsID)
	if !ok {
		return "", &ZoneNotFoundError{ID: windowsID}
	}
	return p.CanonicalID(id)
}

// WindowsStandardNameToTzdbID maps a Windows standard name, such as
// "Pacific Standard Time", to a canonical TZDB id. Names missing from the
// additional mapping are tried as Windows ids.
func (p *Provider) WindowsStandardNameToTzdbID(name string) (string, error) {
	if windowsID, ok := p.additional[name]; ok {
		return p.WindowsToTzdbID(windowsID)
	}
	return p.WindowsToTzdbID(name)
}

// ZoneLocations returns the zone.tab entries, or nil if the container has
// none.
func (p *Provider) ZoneLocations() []ZoneLocation {
	return p.locations
}

// Zone1970Locations returns the zone1970.tab entries, or nil if the
// container has none.
func (p *Provider) Zone1970Locations() []Zone1970Location {
	return p.locations1970
}

// Data decodes every zone and returns the container content, suitable for
// Encode.
func (p *Provider) Data() (*Data, error) {
	d := &Data{
		Version:                p.version,
		Zones:                  make(map[string]zone.RuleSet, len(p.ids)),
		IDMap:                  make(map[string]string),
		WindowsZones:           p.windows,
		WindowsAdditionalNames: p.additional,
		ZoneLocations:          p.locations,
		Zone1970Locations:      p.locations1970,
	}
	for _, id := range p.ids {
		rs, err := p.zones[id].load(p.cache)
		if err != nil {
			return nil, err
		}
		if c, ok := rs.(*zone.Cache); ok {
			rs = c.Source()
		}
		d.Zones[id] = rs
	}
	for id, canonical := range p.idMap {
		d.IDMap[id] = canonical
	}
	return d, nil
}

// AliasesOf returns the aliases of a canonical id, sorted.
func (p *Provider) AliasesOf(canonical string) []string {
	var aliases []string
	for alias, c := range p.idMap {
		if c == canonical && alias != canonical {
			aliases = append(aliases, alias)
		}
	}
	sort.Strings(aliases)
	return aliases
}
