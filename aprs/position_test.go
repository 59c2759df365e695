package aprs

import (
	"fmt"
	"testing"

	"aprsdecode/packet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDecodeUncompressed(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		lat, lon   float64
		ambiguity  int
		resolution float64
		course     *float64
		speed      *float64
		rest       string
	}{
		{
			name: "full precision",
			body: "4903.50N/07201.75W-Test",
			lat:  49.058333, lon: -72.029167,
			resolution: 18.52,
			rest:       "Test",
		},
		{
			name: "southern and eastern",
			body: "3351.00S/15112.00E>",
			lat:  -33.85, lon: 151.2,
			resolution: 18.52,
		},
		{
			name: "one blank",
			body: "4903.5 N/07201.75W-",
			lat:  49.059167, lon: -72.029167,
			ambiguity: 1, resolution: 185.2,
		},
		{
			name: "two blanks",
			body: "3908.  NW11942.  Wa",
			lat:  39.141667, lon: -119.708333,
			ambiguity: 2, resolution: 1852,
		},
		{
			name: "three blanks",
			body: "490 .  N/07201.75W-",
			lat:  49.083333, lon: -72.083333,
			ambiguity: 3, resolution: 18520,
		},
		{
			name: "four blanks",
			body: "49  .  N/072  .  W-",
			lat:  49.5, lon: -72.5,
			ambiguity: 4, resolution: 111120,
		},
		{
			name: "longitude blanked further",
			body: "4903.50N/072  .  W-",
			lat:  49.5, lon: -72.5,
			ambiguity: 4, resolution: 111120,
		},
		{
			name: "course and speed",
			body: "4903.50N/07201.75W>088/036",
			lat:  49.058333, lon: -72.029167,
			resolution: 18.52,
			course:     ptr(88.0),
			speed:      ptr(66.672),
		},
		{
			name: "zero course",
			body: "4903.50N/07201.75W>000/010 moving",
			lat:  49.058333, lon: -72.029167,
			resolution: 18.52,
			speed:      ptr(18.52),
			rest:       " moving",
		},
		{
			name: "north course",
			body: "4903.50N/07201.75W>360/000",
			lat:  49.058333, lon: -72.029167,
			resolution: 18.52,
			course:     ptr(0.0),
			speed:      ptr(0.0),
		},
		{
			name: "weather instead of course",
			body: "4903.50N/07201.75W_220/004g005t077",
			lat:  49.058333, lon: -72.029167,
			resolution: 18.52,
			rest:       "220/004g005t077",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, rest, err := decodeUncompressed([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, packet.FormatUncompressed, pos.Format)
			assert.InDelta(t, tt.lat, float64(pos.Latitude), 1e-6)
			assert.InDelta(t, tt.lon, float64(pos.Longitude), 1e-6)
			assert.Equal(t, tt.ambiguity, pos.Ambiguity)
			assert.InDelta(t, tt.resolution, float64(pos.Resolution), 1e-6)
			assert.Equal(t, tt.rest, rest)

			if tt.course == nil {
				assert.Nil(t, pos.Course)
			} else if assert.NotNil(t, pos.Course) {
				assert.InDelta(t, *tt.course, float64(*pos.Course), 1e-9)
			}
			if tt.speed == nil {
				assert.Nil(t, pos.Speed)
			} else if assert.NotNil(t, pos.Speed) {
				assert.InDelta(t, *tt.speed, float64(*pos.Speed), 1e-9)
			}
		})
	}
}

func TestDecodeUncompressedInvalid(t *testing.T) {
	for _, body := range []string{
		"4903.50N/07201",      // short
		"4903.50X/07201.75W-", // hemisphere
		"49 3.50N/07201.75W-", // blank not from the right
		"9100.00N/07201.75W-", // latitude degrees
		"4960.00N/07201.75W-", // minutes
		"4903.50N/18100.00W-", // longitude degrees
		"4903.50N/07201.75W ", // symbol code
	} {
		t.Run(body, func(t *testing.T) {
			_, _, err := decodeUncompressed([]byte(body))
			require.Error(t, err)
			assert.ErrorIs(t, err, errBody)
			assert.False(t, IsFatal(err))
		})
	}
}

func TestDecodeUncompressedRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		latDeg := rapid.IntRange(0, 89).Draw(t, "latDeg")
		latHundredths := rapid.IntRange(0, 5999).Draw(t, "latHundredths")
		lonDeg := rapid.IntRange(0, 179).Draw(t, "lonDeg")
		lonHundredths := rapid.IntRange(0, 5999).Draw(t, "lonHundredths")
		ns := rapid.SampledFrom([]byte("NS")).Draw(t, "ns")
		ew := rapid.SampledFrom([]byte("EW")).Draw(t, "ew")

		body := fmt.Sprintf("%02d%02d.%02d%c/%03d%02d.%02d%c>",
			latDeg, latHundredths/100, latHundredths%100, ns,
			lonDeg, lonHundredths/100, lonHundredths%100, ew)

		pos, _, err := decodeUncompressed([]byte(body))
		if err != nil {
			t.Fatalf("%q: %v", body, err)
		}

		lat := float64(latDeg) + float64(latHundredths)/100/60
		if ns == 'S' {
			lat = -lat
		}
		lon := float64(lonDeg) + float64(lonHundredths)/100/60
		if ew == 'W' {
			lon = -lon
		}
		if d := float64(pos.Latitude) - lat; d > 1e-4 || d < -1e-4 {
			t.Fatalf("%q: latitude %v, want %v", body, pos.Latitude, lat)
		}
		if d := float64(pos.Longitude) - lon; d > 1e-4 || d < -1e-4 {
			t.Fatalf("%q: longitude %v, want %v", body, pos.Longitude, lon)
		}
	})
}

func TestCountAmbiguity(t *testing.T) {
	for minutes, want := range map[string]int{
		"0350": 0,
		"035 ": 1,
		"03  ": 2,
		"0   ": 3,
		"    ": 4,
	} {
		level, err := countAmbiguity(minutes)
		require.NoError(t, err, minutes)
		assert.Equal(t, want, level, minutes)
	}

	_, err := countAmbiguity("0 50")
	assert.ErrorIs(t, err, errBody)
}

func ptr[T any](v T) *T {
	return &v
}
