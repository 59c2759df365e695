package aprs

import (
	"fmt"
	"regexp"
	"strings"

	"aprsdecode/packet"
	"aprsdecode/units"
)

// micEBit is the message bit a destination character carries.
type micEBit int

const (
	micEZero micEBit = iota
	micEStandard
	micECustom
)

// micEDigit is what one destination character encodes.
type micEDigit struct {
	digit byte    // '0'-'9', or ' ' for an ambiguity blank
	bit   micEBit // message bit
	set   bool    // north, +100 degrees or west, depending on the position
	head  bool    // only valid in the first three positions
}

// micETable maps every legal destination character to its digit class.
var micETable = buildMicETable()

func buildMicETable() map[byte]micEDigit {
	t := make(map[byte]micEDigit, 40)
	for i := byte(0); i < 10; i++ {
		t['0'+i] = micEDigit{digit: '0' + i, bit: micEZero}
		t['A'+i] = micEDigit{digit: '0' + i, bit: micECustom, head: true}
		t['P'+i] = micEDigit{digit: '0' + i, bit: micEStandard, set: true}
	}
	t['K'] = micEDigit{digit: ' ', bit: micECustom, head: true}
	t['L'] = micEDigit{digit: ' ', bit: micEZero}
	t['Z'] = micEDigit{digit: ' ', bit: micEStandard, set: true}
	return t
}

// Indexed by the inverted three bit message code, so 111 is entry 0.
var (
	micEStandardMessages = [8]string{
		"M0: Off Duty", "M1: En Route", "M2: In Service", "M3: Returning",
		"M4: Committed", "M5: Special", "M6: Priority", "Emergency",
	}
	micECustomMessages = [8]string{
		"C0: Custom-0", "C1: Custom-1", "C2: Custom-2", "C3: Custom-3",
		"C4: Custom-4", "C5: Custom-5", "C6: Custom-6", "Emergency",
	}
)

const micEUnknownMessage = "Unknown"

// Body bytes 1-8: longitude, speed/course and the symbol pair.
var micEBodyRegex = regexp.MustCompile(
	`^[\x26-\x7f][\x26-\x61][\x1c-\x7f]{2}[\x1c-\x7d][\x1c-\x7f][\x21-\x7b\x7d][/\\A-Z0-9]`,
)

// Altitude in meters above -10000, three base 91 digits ended by '}' at
// the start of the status text, after an optional device type byte.
var micEAltitudeRegex = regexp.MustCompile("(?s)^([`'>\\]]?)([\\x21-\\x7b]{3})\\}(.*)$")

const (
	micEBodyLen = 9
	micEBias    = 28
)

func isMicEIndicator(c byte) bool {
	return c == '`' || c == '\'' || c == 0x1c || c == 0x1d
}

// isMicEShaped reports whether dest, less any SSID, is six upper case
// letters or digits and so may carry a Mic-E latitude. Whether every
// character is a legal digit class is left to decodeMicEDestination.
func isMicEShaped(dest string) bool {
	base, _, _ := strings.Cut(dest, "-")
	if len(base) != 6 {
		return false
	}
	for i := 0; i < len(base); i++ {
		c := base[i]
		if !isDigit(c) && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// micEDestination is the latitude half of a Mic-E report.
type micEDestination struct {
	latitude  units.Degrees
	ambiguity int
	lonOffset bool
	west      bool
	message   string
}

// decodeMicEDestination reads latitude, hemisphere flags and the message
// code out of a destination field such as S2U1Q2-1.
func decodeMicEDestination(dest string) (micEDestination, error) {
	var out micEDestination

	if i := strings.IndexByte(dest, '-'); i != -1 {
		dest = dest[:i]
	}
	if len(dest) != 6 {
		return out, fmt.Errorf("%w: %q is not six characters", ErrInvalidMicEDestination, dest)
	}

	var classes [6]micEDigit
	var digits [6]byte
	for i := 0; i < 6; i++ {
		class, ok := micETable[dest[i]]
		if !ok || (class.head && i >= 3) {
			return out, fmt.Errorf("%w: %q at position %d", ErrInvalidMicEDestination, dest[i], i+1)
		}
		classes[i] = class
		digits[i] = class.digit
	}

	level := 0
	for i := 5; i >= 2 && digits[i] == ' '; i-- {
		level++
	}
	for i := 0; i < 6-level; i++ {
		if digits[i] == ' ' {
			return out, fmt.Errorf("%w: misplaced ambiguity blank in %q", ErrInvalidMicEDestination, dest)
		}
	}

	degrees := int(digits[0]-'0')*10 + int(digits[1]-'0')
	minutes, err := ambiguousMinutes(string(digits[2:]), level)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidMicEDestination, err)
	}
	lat, err := coordinate(degrees, minutes, !classes[3].set, 90)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidMicEDestination, err)
	}

	out.latitude = lat
	out.ambiguity = level
	out.lonOffset = classes[4].set
	out.west = classes[5].set
	out.message = micEMessage(classes[:3])
	return out, nil
}

func micEMessage(head []micEDigit) string {
	code := 0
	var standard, custom bool
	for _, class := range head {
		code <<= 1
		switch class.bit {
		case micEStandard:
			code |= 1
			standard = true
		case micECustom:
			code |= 1
			custom = true
		}
	}
	switch {
	case code == 0:
		return micEStandardMessages[7]
	case standard && custom:
		return micEUnknownMessage
	case custom:
		return micECustomMessages[7-code]
	}
	return micEStandardMessages[7-code]
}

// decodeMicE combines the destination latitude with the longitude, motion
// and symbol bytes of the body. body[0] is the type indicator.
func (d *Decoder) decodeMicE(dest string, body []byte) (*packet.Position, error) {
	destination, err := decodeMicEDestination(dest)
	if err != nil {
		return nil, err
	}

	if len(body) < micEBodyLen {
		return nil, bodyErrorf("Mic-E body too short (%d bytes)", len(body))
	}
	if !micEBodyRegex.Match(body[1:micEBodyLen]) {
		return nil, bodyErrorf("invalid Mic-E body %q", body[1:micEBodyLen])
	}

	lonDeg := int(body[1]) - micEBias
	if destination.lonOffset {
		lonDeg += 100
	}
	switch {
	case lonDeg >= 180 && lonDeg <= 189:
		lonDeg -= 80
	case lonDeg >= 190 && lonDeg <= 199:
		lonDeg -= 190
	}

	lonMin := int(body[2]) - micEBias
	if lonMin >= 60 {
		lonMin -= 60
	}
	lonHundredths := int(body[3]) - micEBias

	minutes, err := ambiguousMinutes(fmt.Sprintf("%02d%02d", lonMin, lonHundredths), destination.ambiguity)
	if err != nil {
		return nil, err
	}
	lon, err := coordinate(lonDeg, minutes, destination.west, 180)
	if err != nil {
		return nil, err
	}

	sp := int(body[4]-micEBias)*10 + int(body[5]-micEBias)/10
	if sp >= 800 {
		sp -= 800
	}
	dc := int(body[5]-micEBias)%10*100 + int(body[6]-micEBias)
	if dc >= 400 {
		dc -= 400
	}
	course := units.Degrees(dc).Normalize()
	speed := units.Knots(sp).KilometersPerHour()

	pos := &packet.Position{
		Format:      packet.FormatMicE,
		Latitude:    destination.latitude,
		Longitude:   lon,
		Ambiguity:   destination.ambiguity,
		Resolution:  units.AmbiguityResolution(destination.ambiguity),
		Symbol:      packet.Symbol{Table: body[8], Code: body[7]},
		Course:      &course,
		Speed:       &speed,
		MicEMessage: destination.message,
		MicEText:    string(body[micEBodyLen:]),
	}

	comment := string(body[micEBodyLen:])
	if m := micEAltitudeRegex.FindStringSubmatch(comment); m != nil {
		if v, err := decodeBase91([]byte(m[2])); err == nil {
			alt := units.Meters(v - 10000)
			pos.Altitude = &alt
			comment = m[1] + m[3]
		}
	}

	d.extractComment(comment, pos)
	return pos, nil
}
