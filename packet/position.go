package packet

import (
	"fmt"
	"time"

	"aprsdecode/units"

	"github.com/golang/geo/s2"
	"github.com/tzneal/coordconv"
)

// Mean earth radius used for great-circle distances.
const earthRadius units.Kilometers = 6371.0088

// Format is the wire encoding a position was decoded from.
type Format int

const (
	FormatUncompressed Format = iota
	FormatCompressed
	FormatMicE
)

func (f Format) String() string {
	switch f {
	case FormatUncompressed:
		return "uncompressed"
	case FormatCompressed:
		return "compressed"
	case FormatMicE:
		return "mice"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Symbol selects the station icon.
type Symbol struct {
	Table byte
	Code  byte
}

func (s Symbol) String() string {
	return string([]byte{s.Table, s.Code})
}

// Position is shared by live position reports, objects and items.
// Optional fields are nil when the packet did not carry them.
type Position struct {
	Format     Format
	Latitude   units.Degrees
	Longitude  units.Degrees
	Resolution units.Meters
	Ambiguity  int // Blanked digits, 0-4
	Symbol     Symbol

	Course     *units.Degrees
	Speed      *units.KilometersPerHour
	Altitude   *units.Meters
	RadioRange *units.Kilometers
	Timestamp  *time.Time

	Comment          string
	Weather          string // Raw weather run removed from the comment
	DAODatum         byte   // Datum of a !DAO! extension, 0 if none
	MicEMessage      string // Mic-E status, e.g. "M0: Off Duty"
	MicEText         string // Mic-E status text as received, device bytes included
	MessagingCapable bool
}

func (*Position) Type() PacketType { return TypePosition }
func (*Position) payload()         {}

// LatLng returns the position as an s2.LatLng.
func (p *Position) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(float64(p.Latitude), float64(p.Longitude))
}

// DistanceTo returns the great-circle distance to another position.
func (p *Position) DistanceTo(other *Position) units.Kilometers {
	angle := p.LatLng().Distance(other.LatLng())
	return units.Kilometers(angle.Radians()) * earthRadius
}

// GridSquare returns the Maidenhead locator with the given number of pairs.
func (p *Position) GridSquare(pairs int) (string, error) {
	return units.GridSquare(p.Latitude, p.Longitude, pairs)
}

// UTM converts the position to Universal Transverse Mercator, letting the
// converter pick the zone.
func (p *Position) UTM() (coordconv.UTMCoord, error) {
	return coordconv.DefaultUTMConverter.ConvertFromGeodetic(p.LatLng(), 0)
}

// MGRS returns the Military Grid Reference System string for the position
// with the given precision (1-5 digits per axis).
func (p *Position) MGRS(precision int) (string, error) {
	coord, err := coordconv.DefaultMGRSConverter.ConvertFromGeodetic(p.LatLng(), precision)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(coord), nil
}
