package aprs

import (
	"regexp"
	"strconv"

	"aprsdecode/packet"
	"aprsdecode/units"
)

// 1: lat degrees (dd)
// 2: lat minutes (mm.mm, blanks from the right for ambiguity)
// 3: lat hemisphere
// 4: symbol table
// 5: lon degrees (ddd)
// 6: lon minutes
// 7: lon hemisphere
// 8: symbol code
var uncompressedRegex = regexp.MustCompile(
	`^(\d{2})([0-9 ]{2}\.[0-9 ]{2})([NnSs])` +
		`([\/\\0-9A-Z])` +
		`(\d{3})([0-9 ]{2}\.[0-9 ]{2})([EeWw])` +
		`([\x21-\x7e])`,
)

const uncompressedLen = 19

var courseSpeedRegex = regexp.MustCompile(`^(\d{3})/(\d{3})`)

// Offset in minutes that centres a coordinate on the range its blanked
// digits cover.
var ambiguityCenter = [units.MaxAmbiguity + 1]float64{0, 0.05, 0.5, 5, 30}

// countAmbiguity returns how many of the MMmm minute digits are blanked.
// Blanks must run from the right.
func countAmbiguity(minutes string) (int, error) {
	level := trailingBlanks(minutes)
	for i := 0; i < len(minutes)-level; i++ {
		if !isDigit(minutes[i]) {
			return 0, bodyErrorf("misplaced ambiguity blank in %q", minutes)
		}
	}
	return level, nil
}

func trailingBlanks(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == ' '; i-- {
		n++
	}
	return n
}

// ambiguousMinutes reads MMmm minute digits as decimal minutes, discarding
// the last level digits and centring the value on the range they cover.
func ambiguousMinutes(minutes string, level int) (float64, error) {
	b := []byte(minutes)
	for i := len(b) - level; i < len(b); i++ {
		b[i] = '0'
	}
	for i, c := range b {
		if c == ' ' {
			b[i] = '0'
			continue
		}
		if !isDigit(c) {
			return 0, bodyErrorf("bad minute digits %q", minutes)
		}
	}
	whole := int(b[0]-'0')*10 + int(b[1]-'0')
	hundredths := int(b[2]-'0')*10 + int(b[3]-'0')
	if whole > 59 {
		return 0, bodyErrorf("minutes %d out of range", whole)
	}
	return float64(whole) + float64(hundredths)/100 + ambiguityCenter[level], nil
}

// coordinate combines degrees and minutes, applies the hemisphere sign and
// clamps to limit.
func coordinate(degrees int, minutes float64, negative bool, limit float64) (units.Degrees, error) {
	if float64(degrees) > limit {
		return 0, bodyErrorf("degrees %d out of range", degrees)
	}
	v := float64(degrees) + minutes/60
	if v > limit {
		v = limit
	}
	if negative {
		v = -v
	}
	return units.Degrees(v), nil
}

// decodeUncompressed parses DDMM.mmN/DDDMM.mmW$ and the optional CCC/SSS
// that follows it. It returns the unparsed remainder.
func decodeUncompressed(body []byte) (*packet.Position, string, error) {
	if len(body) < uncompressedLen {
		return nil, "", bodyErrorf("uncompressed position too short (%d bytes)", len(body))
	}
	m := uncompressedRegex.FindSubmatch(body[:uncompressedLen])
	if m == nil {
		return nil, "", bodyErrorf("invalid uncompressed position %q", body[:uncompressedLen])
	}

	latMinutes := string(m[2][:2]) + string(m[2][3:])
	lonMinutes := string(m[6][:2]) + string(m[6][3:])

	level, err := countAmbiguity(latMinutes)
	if err != nil {
		return nil, "", err
	}
	// Some stations blank more longitude than latitude digits. The
	// coarser of the two sets the precision of both.
	if lonLevel := trailingBlanks(lonMinutes); lonLevel > level {
		level = lonLevel
	}

	latDeg, _ := strconv.Atoi(string(m[1]))
	lonDeg, _ := strconv.Atoi(string(m[5]))

	minutes, err := ambiguousMinutes(latMinutes, level)
	if err != nil {
		return nil, "", err
	}
	south := m[3][0] == 'S' || m[3][0] == 's'
	lat, err := coordinate(latDeg, minutes, south, 90)
	if err != nil {
		return nil, "", err
	}

	minutes, err = ambiguousMinutes(lonMinutes, level)
	if err != nil {
		return nil, "", err
	}
	west := m[7][0] == 'W' || m[7][0] == 'w'
	lon, err := coordinate(lonDeg, minutes, west, 180)
	if err != nil {
		return nil, "", err
	}

	pos := &packet.Position{
		Format:     packet.FormatUncompressed,
		Latitude:   lat,
		Longitude:  lon,
		Ambiguity:  level,
		Resolution: units.AmbiguityResolution(level),
		Symbol:     packet.Symbol{Table: m[4][0], Code: m[8][0]},
	}

	rest := string(body[uncompressedLen:])
	if cm := courseSpeedRegex.FindStringSubmatch(rest); cm != nil && weatherRunLen(rest) == 0 {
		setCourseSpeed(pos, cm[1], cm[2])
		rest = rest[len(cm[0]):]
	}

	return pos, rest, nil
}

// setCourseSpeed stores a CCC/SSS pair. A course of 000, or beyond 360, is
// unknown; speed is in knots.
func setCourseSpeed(pos *packet.Position, course, speed string) {
	if c, err := strconv.Atoi(course); err == nil && c > 0 && c <= 360 {
		deg := units.Degrees(c).Normalize()
		pos.Course = &deg
	}
	if s, err := strconv.Atoi(speed); err == nil {
		kmh := units.Knots(s).KilometersPerHour()
		pos.Speed = &kmh
	}
}
