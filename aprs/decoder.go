// Package aprs decodes APRS packets in SRC>DEST,PATH:BODY text form.
package aprs

import (
	"io"
	"time"

	"aprsdecode/packet"

	"github.com/charmbracelet/log"
)

// Options adjusts how packets are decoded. The zero value decodes with
// AX.25 callsign rules, treats local timestamps as UTC and logs nothing.
type Options struct {
	// Callsigns is the grammar header callsigns must follow.
	Callsigns CallsignPolicy
	// Location is used for DDHHMM/ local-time timestamps. Nil means UTC.
	Location *time.Location
	// Latin1Comments reinterprets comments that are not valid UTF-8 as
	// ISO 8859-1.
	Latin1Comments bool
	// Logger receives debug messages about degraded bodies.
	Logger *log.Logger
}

// Decoder decodes packets. It holds no per-packet state and is safe for
// concurrent use.
type Decoder struct {
	opts Options
	log  *log.Logger
}

// NewDecoder returns a decoder using opts.
func NewDecoder(opts Options) *Decoder {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Decoder{opts: opts, log: logger}
}

var defaultDecoder = NewDecoder(Options{})

// Decode decodes one packet with the default options. now is the
// reference instant timestamps are resolved against.
func Decode(raw []byte, now time.Time) (*packet.Packet, error) {
	return defaultDecoder.Decode(raw, now)
}

// Decode decodes one newline-stripped packet. A malformed header or a
// required field that cannot be decoded fails the whole packet with an
// error wrapping one of the Err* values. A body that does not follow its
// type's grammar yields a packet with an Unsupported payload.
func (d *Decoder) Decode(raw []byte, now time.Time) (*packet.Packet, error) {
	h, body, err := splitPacket(raw, d.opts.Callsigns)
	if err != nil {
		d.log.Debug("rejected packet", "error", err)
		return nil, err
	}

	pkt := &packet.Packet{
		Source:      h.source,
		Destination: h.destination,
		Path:        h.path,
	}

	payload, err := d.decodeBody(h.destination, body, now)
	if err != nil {
		if IsFatal(err) {
			d.log.Debug("rejected packet", "source", pkt.Source, "error", err)
			return nil, err
		}
		d.log.Debug("unsupported body", "source", pkt.Source, "type", indicator(body), "reason", err)
		payload = unsupported(body, err.Error())
	}
	pkt.Payload = payload

	return pkt, nil
}

func unsupported(body []byte, reason string) *packet.Unsupported {
	u := &packet.Unsupported{Body: string(body), Reason: reason}
	if len(body) > 0 {
		u.Indicator = body[0]
	}
	return u
}

func indicator(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	return string(body[:1])
}
