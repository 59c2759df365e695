// Package packet defines the decoded form of an APRS packet.
package packet

import (
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// PacketType identifies which payload variant a packet carries.
type PacketType int

const (
	TypeUnsupported PacketType = iota // Unknown or undecodable body
	TypePosition                      // A live position report
	TypeObject                        // An object report
	TypeItem                          // An item report
	TypeStatus                        // A status report
	TypeMessage                       // A message, ack or reject
	TypeTelemetry                     // A telemetry parameter message
)

var typeNames = map[PacketType]string{
	TypeUnsupported: "unsupported",
	TypePosition:    "position",
	TypeObject:      "object",
	TypeItem:        "item",
	TypeStatus:      "status",
	TypeMessage:     "message",
	TypeTelemetry:   "telemetry-message",
}

func (t PacketType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PacketType(%d)", int(t))
}

// Callsign is a station identifier with an optional SSID.
type Callsign struct {
	Base string
	SSID string
}

func (c Callsign) String() string {
	if c.SSID == "" {
		return c.Base
	}
	return c.Base + "-" + c.SSID
}

// PathHop is one entry of the relay path.
type PathHop struct {
	Callsign string
	Relayed  bool // The hop carried a trailing '*'
}

func (h PathHop) String() string {
	if h.Relayed {
		return h.Callsign + "*"
	}
	return h.Callsign
}

// Packet holds one decoded APRS packet.
type Packet struct {
	Source      Callsign
	Destination string // Raw, may carry Mic-E latitude
	Path        []PathHop
	Payload     Payload
}

// Type reports the payload variant.
func (p *Packet) Type() PacketType {
	if p.Payload == nil {
		return TypeUnsupported
	}
	return p.Payload.Type()
}

// Position returns the position carried by position, object and item
// payloads.
func (p *Packet) Position() (*Position, bool) {
	switch pl := p.Payload.(type) {
	case *Position:
		return pl, true
	case *Object:
		return &pl.Position, true
	case *Item:
		return &pl.Position, true
	}
	return nil, false
}

// Timestamp returns the time carried by the payload, if any.
func (p *Packet) Timestamp() (time.Time, bool) {
	if pos, ok := p.Position(); ok && pos.Timestamp != nil {
		return *pos.Timestamp, true
	}
	if st, ok := p.Payload.(*Status); ok && st.Timestamp != nil {
		return *st.Timestamp, true
	}
	return time.Time{}, false
}

// Summary renders a one-line description of the packet. timeFormat is a
// strftime pattern used for the payload timestamp; an empty pattern leaves
// the timestamp out.
func (p *Packet) Summary(timeFormat string) (string, error) {
	var b strings.Builder

	b.WriteString(p.Source.String())
	b.WriteString(">")
	b.WriteString(p.Destination)
	for _, hop := range p.Path {
		b.WriteString(",")
		b.WriteString(hop.String())
	}
	fmt.Fprintf(&b, " [%s]", p.Type())

	if ts, ok := p.Timestamp(); ok && timeFormat != "" {
		formatted, err := strftime.Format(timeFormat, ts.UTC())
		if err != nil {
			return "", fmt.Errorf("bad timestamp format %q: %w", timeFormat, err)
		}
		b.WriteString(" ")
		b.WriteString(formatted)
	}

	switch pl := p.Payload.(type) {
	case *Object:
		fmt.Fprintf(&b, " %s", pl.Name)
	case *Item:
		fmt.Fprintf(&b, " %s", pl.Name)
	}

	if pos, ok := p.Position(); ok {
		fmt.Fprintf(&b, " %.4f,%.4f", pos.Latitude, pos.Longitude)
		if pos.Comment != "" {
			fmt.Fprintf(&b, " %q", pos.Comment)
		}
		return b.String(), nil
	}

	switch pl := p.Payload.(type) {
	case *Status:
		fmt.Fprintf(&b, " %q", pl.Text)
	case *Message:
		fmt.Fprintf(&b, " to %s", pl.Addressee)
		switch pl.Kind {
		case MessageAck:
			fmt.Fprintf(&b, " ack %s", pl.ID)
		case MessageReject:
			fmt.Fprintf(&b, " rej %s", pl.ID)
		default:
			fmt.Fprintf(&b, " %q", pl.Text)
		}
	case *TelemetryMessage:
		fmt.Fprintf(&b, " to %s %s %s", pl.Addressee, pl.Keyword, strings.Join(pl.Values, ","))
	case *Unsupported:
		if pl.Reason != "" {
			fmt.Fprintf(&b, " (%s)", pl.Reason)
		}
	}

	return b.String(), nil
}
