// Package units holds the typed quantities used by decoded APRS packets.
package units

import (
	"math"

	"github.com/golang/geo/s1"
)

const (
	feetPerMeter   = 1 / 0.3048
	kmhPerKnot     = 1.852
	kilometersMile = 1.609344
)

// Degrees is an angle or coordinate in decimal degrees.
type Degrees float64

// Angle converts d to an s1.Angle.
func (d Degrees) Angle() s1.Angle {
	return s1.Angle(d) * s1.Degree
}

// Normalize wraps d into [0, 360).
func (d Degrees) Normalize() Degrees {
	n := math.Mod(float64(d), 360)
	if n < 0 {
		n += 360
	}
	return Degrees(n)
}

// Meters is a distance in meters.
type Meters float64

// Feet converts m to feet.
func (m Meters) Feet() Feet {
	return Feet(float64(m) * feetPerMeter)
}

// Feet is a distance in feet.
type Feet float64

// Meters converts f to meters.
func (f Feet) Meters() Meters {
	return Meters(float64(f) * 0.3048)
}

// Kilometers is a distance in kilometers.
type Kilometers float64

// Miles is a distance in statute miles.
type Miles float64

// Kilometers converts m to kilometers.
func (m Miles) Kilometers() Kilometers {
	return Kilometers(float64(m) * kilometersMile)
}

// KilometersPerHour is a speed in km/h.
type KilometersPerHour float64

// Knots converts k to knots.
func (k KilometersPerHour) Knots() Knots {
	return Knots(float64(k) / kmhPerKnot)
}

// Knots is a speed in nautical miles per hour.
type Knots float64

// KilometersPerHour converts k to km/h.
func (k Knots) KilometersPerHour() KilometersPerHour {
	return KilometersPerHour(float64(k) * kmhPerKnot)
}

// MaxAmbiguity is the highest number of blanked position digits.
const MaxAmbiguity = 4

// Resolution returns the positional uncertainty of a coordinate expressed
// with the given number of decimal places of arc minutes. Negative values
// mean whole minutes were dropped; -2 and below count in tens of minutes of
// a degree rather than powers of ten.
func Resolution(decimals int) Meters {
	scale := 1000.0
	if decimals <= -2 {
		scale = 600
	}
	return Meters(kmhPerKnot * scale * math.Pow(10, float64(-decimals)))
}

// AmbiguityResolution maps an ambiguity level (0-4 blanked digits) of an
// uncompressed or Mic-E position to its resolution.
func AmbiguityResolution(level int) Meters {
	if level < 0 {
		level = 0
	}
	if level > MaxAmbiguity {
		level = MaxAmbiguity
	}
	return Resolution(2 - level)
}
