package aprs

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"aprsdecode/packet"
	"aprsdecode/units"

	"golang.org/x/text/encoding/charmap"
)

// A weather run is a wind direction/speed pair followed by fixed-width
// one-letter fields (gust, temperature, rain, humidity, pressure, luminosity,
// snow, raw rain counter). Values may be blanked with spaces or dots.
var weatherRegex = regexp.MustCompile(
	`^[0-9 .]{3}/[0-9 .]{3}` +
		`(?:[gtrpPLls#][0-9 .\-]{3}|h[0-9 .]{2}|b[0-9 .]{5})+`,
)

// PHGphgd power/height/gain/directivity. Recognized and left in the text.
var phgRegex = regexp.MustCompile(`^PHG\d[\x30-\x7e]\d\d`)

var altitudeRegex = regexp.MustCompile(`/A=(-\d{5}|\d{6})`)

var daoRegex = regexp.MustCompile(`!([\x21-\x7b])([\x20-\x7b]{2})!`)

// weatherRunLen returns the length of the weather run at the start of text,
// or 0 if text does not start with one.
func weatherRunLen(text string) int {
	if loc := weatherRegex.FindStringIndex(text); loc != nil {
		return loc[1]
	}
	return 0
}

// extractComment strips the recognized trailing tokens from the free text
// following a position and stores what they carry in pos. The remainder
// becomes pos.Comment.
func (d *Decoder) extractComment(text string, pos *packet.Position) {
	switch {
	case phgRegex.MatchString(text):
		// PHG stays part of the comment.
	default:
		if n := weatherRunLen(text); n > 0 {
			pos.Weather = text[:n]
			text = text[n:]
		}
	}

	if loc := altitudeRegex.FindStringSubmatchIndex(text); loc != nil {
		feet, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err == nil {
			if pos.Altitude == nil {
				alt := units.Feet(feet).Meters()
				pos.Altitude = &alt
			}
			text = text[:loc[0]] + text[loc[1]:]
		}
	}

	text = applyDAO(text, pos)

	pos.Comment = d.text(text)
}

// text trims free text and, when enabled, reads it as ISO 8859-1 if it is
// not valid UTF-8.
func (d *Decoder) text(s string) string {
	if d.opts.Latin1Comments && !utf8.ValidString(s) {
		if decoded, err := charmap.ISO8859_1.NewDecoder().String(s); err == nil {
			s = decoded
		}
	}
	return strings.TrimSpace(s)
}

// applyDAO looks for the last !DAO! datum/precision extension, refines the
// position with it and returns the text without it.
func applyDAO(text string, pos *packet.Position) string {
	matches := daoRegex.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}
	m := matches[len(matches)-1]
	datum := text[m[2]]
	extra := text[m[4]:m[5]]

	var latOff, lonOff float64
	var resolution units.Meters
	switch {
	case datum >= 'A' && datum <= 'Z' && isDigit(extra[0]) && isDigit(extra[1]):
		// Human readable: thousandths of a minute.
		latOff = float64(extra[0]-'0') * 0.001 / 60
		lonOff = float64(extra[1]-'0') * 0.001 / 60
		resolution = units.Resolution(3)
	case datum >= 'a' && datum <= 'z' && isBase91(extra[0]) && isBase91(extra[1]):
		// Base 91: 1/91 steps of a hundredth of a minute.
		latOff = float64(extra[0]-base91Min) / 91 * 0.01 / 60
		lonOff = float64(extra[1]-base91Min) / 91 * 0.01 / 60
		resolution = units.Resolution(4)
	case extra == "  ":
		// Datum only.
	default:
		return text
	}

	pos.DAODatum = strings.ToUpper(string(datum))[0]
	text = text[:m[0]] + text[m[1]:]

	if resolution == 0 || pos.Format == packet.FormatCompressed || pos.Ambiguity > 0 {
		return text
	}

	if pos.Latitude >= 0 {
		pos.Latitude += units.Degrees(latOff)
	} else {
		pos.Latitude -= units.Degrees(latOff)
	}
	if pos.Longitude >= 0 {
		pos.Longitude += units.Degrees(lonOff)
	} else {
		pos.Longitude -= units.Degrees(lonOff)
	}
	pos.Resolution = resolution

	return text
}
