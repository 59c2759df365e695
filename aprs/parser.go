package aprs

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"aprsdecode/packet"
)

const (
	objectNameLen = 9
	itemNameMin   = 3
	itemNameMax   = 9

	// A '!' this far into a body with an unknown type indicator still
	// starts a position report.
	fallbackPositionWindow = 40
)

var statusTimestampRegex = regexp.MustCompile(`^\d{6}z`)

// decodeBody selects a payload decoder from the body's data type
// indicator.
func (d *Decoder) decodeBody(dest string, body []byte, now time.Time) (packet.Payload, error) {
	if len(body) == 0 {
		return nil, bodyErrorf("empty body")
	}
	dataType := body[0]

	// Mic-E packets carry latitude digits in the destination instead of
	// a callsign.
	micE := isMicEIndicator(dataType) && isMicEShaped(dest)
	if !micE {
		if _, err := parseCallsign(dest, d.opts.Callsigns); err != nil {
			return nil, fmt.Errorf("destination: %w", err)
		}
	}

	switch dataType {
	case '!', '=':
		pos, err := d.decodePosition(body[1:])
		if err != nil {
			return nil, err
		}
		pos.MessagingCapable = dataType == '='
		return pos, nil

	case '/', '@':
		ts, err := parseTimestamp(body[1:], now, d.opts.Location)
		if err != nil {
			return nil, err
		}
		pos, err := d.decodePosition(body[1+timestampLen:])
		if err != nil {
			return nil, err
		}
		pos.Timestamp = &ts
		pos.MessagingCapable = dataType == '@'
		return pos, nil

	case ';':
		return d.decodeObject(body, now)

	case ')':
		return d.decodeItem(body)

	case '>':
		return d.decodeStatus(body, now)

	case ':':
		msg, err := decodeMessage(body)
		if err != nil {
			return nil, err
		}
		if m, ok := msg.(*packet.Message); ok {
			m.Text = d.text(m.Text)
		}
		return msg, nil

	case '`', '\'', 0x1c, 0x1d:
		if !micE {
			return nil, bodyErrorf("Mic-E data type %q with destination %q", dataType, dest)
		}
		return d.decodeMicE(dest, body)
	}

	// Some stations put junk before an otherwise valid '!' report.
	idx := bytes.IndexByte(body, '!')
	if idx > 0 && idx < fallbackPositionWindow {
		pos, err := d.decodePosition(body[idx+1:])
		if err != nil {
			return nil, bodyErrorf("unknown data type %q, no position after '!': %v", dataType, err)
		}
		return pos, nil
	}

	return nil, bodyErrorf("unknown data type %q", dataType)
}

// decodePosition decodes an uncompressed or compressed position, the
// extensions after it and its comment.
func (d *Decoder) decodePosition(body []byte) (*packet.Position, error) {
	if len(body) == 0 {
		return nil, bodyErrorf("missing position")
	}

	var (
		pos  *packet.Position
		rest string
		err  error
	)
	switch {
	case isDigit(body[0]):
		pos, rest, err = decodeUncompressed(body)
	case isCompressedTable(body[0]):
		pos, rest, err = decodeCompressed(body)
	default:
		err = bodyErrorf("unknown position format %q", body[0])
	}
	if err != nil {
		return nil, err
	}

	d.extractComment(rest, pos)
	return pos, nil
}

// decodeObject parses ;NAME_____*DDHHMMz<position>.
func (d *Decoder) decodeObject(body []byte, now time.Time) (*packet.Object, error) {
	if len(body) < 1+objectNameLen+1+timestampLen {
		return nil, bodyErrorf("object too short (%d bytes)", len(body))
	}

	obj := &packet.Object{Name: strings.TrimRight(string(body[1:1+objectNameLen]), " ")}
	switch marker := body[1+objectNameLen]; marker {
	case '*':
		obj.Alive = true
	case '_':
	default:
		return nil, bodyErrorf("invalid object marker %q", marker)
	}

	tsStart := 2 + objectNameLen
	ts, err := parseTimestamp(body[tsStart:], now, d.opts.Location)
	if err != nil {
		return nil, err
	}

	pos, err := d.decodePosition(body[tsStart+timestampLen:])
	if err != nil {
		return nil, err
	}
	pos.Timestamp = &ts
	obj.Position = *pos

	return obj, nil
}

// decodeItem parses )NAME!<position>, where the name is 3-9 characters
// and '_' replaces '!' for a killed item.
func (d *Decoder) decodeItem(body []byte) (*packet.Item, error) {
	for i := 1 + itemNameMin; i <= 1+itemNameMax && i < len(body); i++ {
		if body[i] != '!' && body[i] != '_' {
			continue
		}
		pos, err := d.decodePosition(body[i+1:])
		if err != nil {
			return nil, err
		}
		return &packet.Item{
			Name:     string(body[1:i]),
			Alive:    body[i] == '!',
			Position: *pos,
		}, nil
	}
	return nil, bodyErrorf("item name not terminated")
}

// decodeStatus parses >[DDHHMMz]text.
func (d *Decoder) decodeStatus(body []byte, now time.Time) (*packet.Status, error) {
	st := &packet.Status{}
	text := body[1:]

	if statusTimestampRegex.Match(text) {
		ts, err := parseTimestamp(text, now, d.opts.Location)
		if err != nil {
			return nil, err
		}
		st.Timestamp = &ts
		text = text[timestampLen:]
	}
	st.Text = d.text(string(text))

	return st, nil
}
