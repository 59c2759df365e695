package aprs

import (
	"fmt"
	"math"

	"aprsdecode/packet"
	"aprsdecode/units"
)

const compressedLen = 13

// Grid step of a four digit base 91 latitude.
const compressedResolution units.Meters = 0.291

// Highest byte accepted in the coordinate digits.
const compressedDigitMax = 'z'

// Compression type origin bits select what the cs pair carries.
const (
	compressionOriginMask = 0x18
	compressionOriginGGA  = 0x10
)

func isCompressedTable(c byte) bool {
	return c == '/' || c == '\\' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'j')
}

// decodeCompressed parses /YYYYXXXX$csT and returns the unparsed remainder.
func decodeCompressed(body []byte) (*packet.Position, string, error) {
	if len(body) < compressedLen {
		return nil, "", bodyErrorf("compressed position too short (%d bytes)", len(body))
	}

	for _, c := range body[1:9] {
		if c < base91Min || c > compressedDigitMax {
			return nil, "", fmt.Errorf("%w: %q is outside the coordinate digit range", ErrInvalidCompressedField, c)
		}
	}

	latValue, err := decodeBase91(body[1:5])
	if err != nil {
		return nil, "", fmt.Errorf("%w: latitude: %v", ErrInvalidCompressedField, err)
	}
	lonValue, err := decodeBase91(body[5:9])
	if err != nil {
		return nil, "", fmt.Errorf("%w: longitude: %v", ErrInvalidCompressedField, err)
	}

	lat := 90 - float64(latValue)/380926
	lon := -180 + float64(lonValue)/190463
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, "", fmt.Errorf("%w: position %.4f,%.4f out of range", ErrInvalidCompressedField, lat, lon)
	}

	pos := &packet.Position{
		Format:     packet.FormatCompressed,
		Latitude:   units.Degrees(lat),
		Longitude:  units.Degrees(lon),
		Resolution: compressedResolution,
		Symbol:     packet.Symbol{Table: body[0], Code: body[9]},
	}
	if pos.Symbol.Table >= 'a' && pos.Symbol.Table <= 'j' {
		// Overlay digits are sent as a-j to stay clear of the base 91 digits.
		pos.Symbol.Table = pos.Symbol.Table - 'a' + '0'
	}

	decodeCompressedExtension(pos, body[10], body[11], body[12])

	return pos, string(body[compressedLen:]), nil
}

// decodeCompressedExtension interprets the cs pair according to the
// compression type byte t.
func decodeCompressedExtension(pos *packet.Position, c, s, t byte) {
	if c == ' ' || !isBase91(c) || !isBase91(s) {
		return
	}
	cv := int(c - base91Min)
	sv := int(s - base91Min)

	if isBase91(t) && (int(t-base91Min)&compressionOriginMask) == compressionOriginGGA {
		alt := units.Feet(math.Pow(1.002, float64(cv*91+sv))).Meters()
		pos.Altitude = &alt
		return
	}

	switch {
	case cv <= 89:
		course := units.Degrees(cv * 4).Normalize()
		speed := units.Knots(math.Pow(1.08, float64(sv)) - 1).KilometersPerHour()
		pos.Course = &course
		pos.Speed = &speed
	case cv == 90:
		radio := units.Miles(2 * math.Pow(1.08, float64(sv))).Kilometers()
		pos.RadioRange = &radio
	}
}
