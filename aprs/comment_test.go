package aprs

import (
	"testing"

	"aprsdecode/packet"
	"aprsdecode/units"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherRunLen(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"224/001g002t055r000p000P000h76b10174eWUHU216DAVISVP2.", "224/001g002t055r000p000P000h76b10174"},
		{"143/000g000t054r000P000p000h37b10264 -- Red Rock/Stead, NV", "143/000g000t054r000P000p000h37b10264"},
		{"016/000g003t039r001p001P001h54b10246L174.DsVP", "016/000g003t039r001p001P001h54b10246L174"},
		{"309/005g009t036r000p...P000h51b10235L000.DsVP", "309/005g009t036r000p...P000h51b10235L000"},
		{".../...g...t-05", ".../...g...t-05"},
		{"220/004g005t077r000p000P000h50b09900wRSW", "220/004g005t077r000p000P000h50b09900"},
		{"264/018/A=005033", ""},
		{"088/036", ""},
		{"Just a comment", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.text[:weatherRunLen(tt.text)])
		})
	}
}

func TestExtractComment(t *testing.T) {
	d := NewDecoder(Options{})

	tests := []struct {
		name     string
		text     string
		comment  string
		weather  string
		altitude *float64
	}{
		{
			name:    "plain",
			text:    "  Direwolf 1.3 ON RPi+SDR ",
			comment: "Direwolf 1.3 ON RPi+SDR",
		},
		{
			name:    "weather",
			text:    "224/001g002t055r000p000P000h76b10174eWUHU216DAVISVP2.",
			comment: "eWUHU216DAVISVP2.",
			weather: "224/001g002t055r000p000P000h76b10174",
		},
		{
			name:    "phg kept",
			text:    "PHG7050 W2 igate Black Rock Desert K1BRC",
			comment: "PHG7050 W2 igate Black Rock Desert K1BRC",
		},
		{
			name:     "altitude only",
			text:     "/A=004665",
			altitude: ptr(1421.892),
		},
		{
			name:     "altitude inside text",
			text:     "Mobile /A=001000 going home",
			comment:  "Mobile  going home",
			altitude: ptr(304.8),
		},
		{
			name:     "first altitude wins",
			text:     "/A=001000 x /A=002000",
			comment:  "x /A=002000",
			altitude: ptr(304.8),
		},
		{
			name:     "negative altitude",
			text:     "/A=-00100 below sea level",
			comment:  "below sea level",
			altitude: ptr(-30.48),
		},
		{
			name:    "short altitude",
			text:    "/A=1234 nope",
			comment: "/A=1234 nope",
		},
		{
			name:     "after phg",
			text:     "PHG2830/A=009214",
			comment:  "PHG2830",
			altitude: ptr(9214 * 0.3048),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := &packet.Position{}
			d.extractComment(tt.text, pos)
			assert.Equal(t, tt.comment, pos.Comment)
			assert.Equal(t, tt.weather, pos.Weather)
			if tt.altitude == nil {
				assert.Nil(t, pos.Altitude)
			} else if assert.NotNil(t, pos.Altitude) {
				assert.InDelta(t, *tt.altitude, float64(*pos.Altitude), 1e-6)
			}
		})
	}
}

func TestExtractCommentKeepsMicEAltitude(t *testing.T) {
	alt := units.Meters(1303)
	pos := &packet.Position{Altitude: &alt}
	NewDecoder(Options{}).extractComment("x/A=001000y", pos)
	assert.Equal(t, units.Meters(1303), *pos.Altitude)
	assert.Equal(t, "xy", pos.Comment)
}

func TestApplyDAO(t *testing.T) {
	t.Run("human readable", func(t *testing.T) {
		pos := &packet.Position{Latitude: 10, Longitude: -20, Resolution: 18.52}
		rest := applyDAO("before !W52! after", pos)
		assert.Equal(t, "before  after", rest)
		assert.Equal(t, byte('W'), pos.DAODatum)
		assert.InDelta(t, 10+5*0.001/60, float64(pos.Latitude), 1e-12)
		assert.InDelta(t, -20-2*0.001/60, float64(pos.Longitude), 1e-12)
		assert.InDelta(t, 1.852, float64(pos.Resolution), 1e-9)
	})

	t.Run("base 91", func(t *testing.T) {
		pos := &packet.Position{Latitude: -10, Longitude: 20, Resolution: 18.52}
		rest := applyDAO("!w@u!|3", pos)
		assert.Equal(t, "|3", rest)
		assert.Equal(t, byte('W'), pos.DAODatum)
		assert.InDelta(t, -10-31.0/91*0.01/60, float64(pos.Latitude), 1e-12)
		assert.InDelta(t, 20+84.0/91*0.01/60, float64(pos.Longitude), 1e-12)
		assert.InDelta(t, 0.1852, float64(pos.Resolution), 1e-9)
	})

	t.Run("datum only", func(t *testing.T) {
		pos := &packet.Position{Latitude: 10, Longitude: 20, Resolution: 18.52}
		rest := applyDAO("!W  !", pos)
		assert.Empty(t, rest)
		assert.Equal(t, byte('W'), pos.DAODatum)
		assert.Equal(t, units.Degrees(10), pos.Latitude)
		assert.InDelta(t, 18.52, float64(pos.Resolution), 1e-9)
	})

	t.Run("last one wins", func(t *testing.T) {
		pos := &packet.Position{Latitude: 10, Longitude: 20, Resolution: 18.52}
		rest := applyDAO("!W11! !W99!", pos)
		assert.Equal(t, "!W11! ", rest)
		assert.InDelta(t, 10+9*0.001/60, float64(pos.Latitude), 1e-12)
	})

	t.Run("ambiguous position keeps coordinates", func(t *testing.T) {
		pos := &packet.Position{Latitude: 10, Longitude: 20, Resolution: 1852, Ambiguity: 2}
		rest := applyDAO("!W52!", pos)
		assert.Empty(t, rest)
		assert.Equal(t, byte('W'), pos.DAODatum)
		assert.Equal(t, units.Degrees(10), pos.Latitude)
		assert.InDelta(t, 1852, float64(pos.Resolution), 1e-9)
	})

	t.Run("compressed keeps coordinates", func(t *testing.T) {
		pos := &packet.Position{Format: packet.FormatCompressed, Latitude: 10, Resolution: 0.291}
		applyDAO("!w@u!", pos)
		assert.Equal(t, units.Degrees(10), pos.Latitude)
		assert.InDelta(t, 0.291, float64(pos.Resolution), 1e-9)
	})

	t.Run("not an extension", func(t *testing.T) {
		pos := &packet.Position{Latitude: 10}
		for _, text := range []string{"!Wxy!", "!wx !", "no dao here", "!W5!"} {
			assert.Equal(t, text, applyDAO(text, pos))
		}
		assert.Zero(t, pos.DAODatum)
	})
}

func TestText(t *testing.T) {
	raw := " Caf\xe9 "
	assert.Equal(t, "Caf\xe9", NewDecoder(Options{}).text(raw))
	assert.Equal(t, "Café", NewDecoder(Options{Latin1Comments: true}).text(raw))
	assert.Equal(t, "Café", NewDecoder(Options{Latin1Comments: true}).text("Café"))
}

func TestDecodeAltitudeWithoutCourse(t *testing.T) {
	pkt, err := Decode([]byte("N0CALL>APRS:!3933.06N/11949.37W>Going up /A=004665"), reference)
	require.NoError(t, err)
	pos, _ := pkt.Position()
	assert.Nil(t, pos.Course)
	assert.Nil(t, pos.Speed)
	require.NotNil(t, pos.Altitude)
	assert.InDelta(t, 1421.892, float64(*pos.Altitude), 1e-6)
	assert.Equal(t, "Going up", pos.Comment)
}
