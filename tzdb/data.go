// Package tzdb reads and writes time zone database containers and answers
// zone interval queries against them.
//
// A container is a 4-byte big-endian format version followed by field
// records, each a field id byte, a payload length and the payload. The
// string pool field comes first; every other field may refer to it.
package tzdb

import (
	"fmt"

	"github.com/ngrash/go-tzdb/zone"
)

// FormatVersion is the container format written by Encode.
const FormatVersion = 1

// FieldID identifies a container field.
type FieldID byte

const (
	FieldStringPool FieldID = iota
	FieldTimeZone
	FieldTzdbVersion
	FieldTzdbIDMap
	FieldWindowsZones
	FieldWindowsAdditionalStandardNameToIDMapping
	FieldZoneLocations
	FieldZone1970Locations
)

var fieldNames = [...]string{
	FieldStringPool:   "StringPool",
	FieldTimeZone:     "TimeZone",
	FieldTzdbVersion:  "TzdbVersion",
	FieldTzdbIDMap:    "TzdbIDMap",
	FieldWindowsZones: "WindowsZones",
	FieldWindowsAdditionalStandardNameToIDMapping: "WindowsAdditionalStandardNameToIDMapping",
	FieldZoneLocations:                            "ZoneLocations",
	FieldZone1970Locations:                        "Zone1970Locations",
}

func (f FieldID) String() string {
	if int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return fmt.Sprintf("FieldID(%d)", byte(f))
}

// Data is the content of a container.
type Data struct {
	// Version is the TZDB release, such as "2024a".
	Version string
	// Zones maps canonical zone ids to their rules.
	Zones map[string]zone.RuleSet
	// IDMap maps every known zone id, canonical ones included, to its
	// canonical id.
	IDMap        map[string]string
	WindowsZones WindowsZones
	// WindowsAdditionalNames maps Windows standard names, as reported by
	// the registry, to Windows zone ids. It may be nil.
	WindowsAdditionalNames map[string]string
	ZoneLocations          []ZoneLocation
	Zone1970Locations      []Zone1970Location
}

// WindowsZones is the CLDR mapping between Windows and TZDB zone ids.
type WindowsZones struct {
	Version        string
	TzdbVersion    string
	WindowsVersion string
	MapZones       []MapZone
}

// PrimaryTerritory is the territory of the mapping used when a Windows id
// is translated without further context.
const PrimaryTerritory = "001"

// MapZone maps one Windows zone id within a territory to TZDB ids.
type MapZone struct {
	WindowsID string
	Territory string
	TzdbIDs   []string
}

// PrimaryID returns the TZDB id that windowsID maps to in the primary
// territory.
func (w WindowsZones) PrimaryID(windowsID string) (string, bool) {
	for _, m := range w.MapZones {
		if m.WindowsID == windowsID && m.Territory == PrimaryTerritory && len(m.TzdbIDs) > 0 {
			return m.TzdbIDs[0], true
		}
	}
	return "", false
}

// Coordinates are in seconds of arc, positive north and east.
type Coordinates struct {
	Latitude  int32
	Longitude int32
}

const (
	maxLatitude  = 90 * 3600
	maxLongitude = 180 * 3600
)

func (c Coordinates) valid() bool {
	return c.Latitude >= -maxLatitude && c.Latitude <= maxLatitude &&
		c.Longitude >= -maxLongitude && c.Longitude <= maxLongitude
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%s%s", dms(c.Latitude, 2, "+-"), dms(c.Longitude, 3, "+-"))
}

// dms formats seconds of arc the way zone.tab does, as ±DDMMSS.
func dms(sec int32, degreeDigits int, signs string) string {
	sign := signs[0]
	if sec < 0 {
		sign = signs[1]
		sec = -sec
	}
	return fmt.Sprintf("%c%0*d%02d%02d", sign, degreeDigits, sec/3600, sec/60%60, sec%60)
}

// ZoneLocation is a zone.tab entry.
type ZoneLocation struct {
	Coordinates
	CountryName string
	CountryCode string
	ZoneID      string
	Comment     string
}

// Country is an ISO 3166 country.
type Country struct {
	Name string
	Code string
}

// Zone1970Location is a zone1970.tab entry, which may cover several
// countries.
type Zone1970Location struct {
	Coordinates
	Countries []Country
	ZoneID    string
	Comment   string
}
