package aprs

import (
	"regexp"
	"strings"

	"aprsdecode/packet"
)

// Keywords that start a telemetry definition sent as a message to oneself.
var telemetryKeywords = []string{
	"PARM.",
	"UNIT.",
	"EQNS.",
	"BITS.",
}

const addresseeLen = 9

var (
	ackRegex       = regexp.MustCompile(`^(ack|rej)([A-Za-z0-9}]{1,7})$`)
	messageIDRegex = regexp.MustCompile(`^[A-Za-z0-9}]{1,7}$`)
)

// decodeMessage parses a message packet (data type ':').
// Format: :ADDRESSEE:message text{id
func decodeMessage(body []byte) (packet.Payload, error) {
	s := string(body[1:])

	if len(s) < addresseeLen+1 {
		return nil, bodyErrorf("message too short (%d bytes)", len(body))
	}
	if s[addresseeLen] != ':' {
		return nil, bodyErrorf("missing message text separator ':'")
	}

	to := strings.TrimSpace(s[:addresseeLen])
	if to == "" {
		return nil, bodyErrorf("message addressee is blank")
	}
	text := s[addresseeLen+1:]

	for _, kw := range telemetryKeywords {
		if strings.HasPrefix(text, kw) {
			return &packet.TelemetryMessage{
				Addressee: to,
				Keyword:   strings.TrimSuffix(kw, "."),
				Values:    strings.Split(strings.TrimSpace(text[len(kw):]), ","),
			}, nil
		}
	}

	msg := &packet.Message{Addressee: to, Kind: packet.MessageText}

	if m := ackRegex.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		msg.Kind = packet.MessageAck
		if m[1] == "rej" {
			msg.Kind = packet.MessageReject
		}
		msg.ID = m[2]
		return msg, nil
	}

	if idIndex := strings.LastIndexByte(text, '{'); idIndex != -1 {
		id := strings.TrimSpace(text[idIndex+1:])
		if messageIDRegex.MatchString(id) {
			msg.ID = id
			text = text[:idIndex]
		}
	}
	msg.Text = strings.TrimSpace(text)

	return msg, nil
}
