package aprs

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"aprsdecode/packet"
)

// CallsignPolicy selects the grammar callsigns in the header must follow.
type CallsignPolicy int

const (
	// CallsignsAX25 accepts BASE[-SSID] with 1-6 alphanumerics and a 1-2
	// digit SSID, as carried over RF.
	CallsignsAX25 CallsignPolicy = iota
	// CallsignsAPRSIS also accepts the longer names and alphanumeric SSIDs
	// seen on APRS-IS (T2ONTARIO, AE7JW-B).
	CallsignsAPRSIS
)

func (p CallsignPolicy) String() string {
	switch p {
	case CallsignsAX25:
		return "ax25"
	case CallsignsAPRSIS:
		return "aprs-is"
	}
	return fmt.Sprintf("CallsignPolicy(%d)", int(p))
}

// ParseCallsignPolicy maps a configuration string to a policy.
func ParseCallsignPolicy(s string) (CallsignPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ax25", "ax.25":
		return CallsignsAX25, nil
	case "aprs-is", "aprsis":
		return CallsignsAPRSIS, nil
	}
	return 0, fmt.Errorf("unknown callsign policy %q", s)
}

var callsignPatterns = map[CallsignPolicy]*regexp.Regexp{
	CallsignsAX25:   regexp.MustCompile(`^([A-Za-z0-9]{1,6})(?:-([0-9]{1,2}))?$`),
	CallsignsAPRSIS: regexp.MustCompile(`^([A-Za-z0-9]{1,9})(?:-([A-Za-z0-9]{1,2}))?$`),
}

// parseCallsign validates a header token against the policy's grammar.
func parseCallsign(token string, policy CallsignPolicy) (packet.Callsign, error) {
	re, ok := callsignPatterns[policy]
	if !ok {
		re = callsignPatterns[CallsignsAX25]
	}
	m := re.FindStringSubmatch(token)
	if m == nil {
		return packet.Callsign{}, fmt.Errorf("%w: %q", ErrInvalidCallsign, token)
	}
	return packet.Callsign{Base: m[1], SSID: m[2]}, nil
}

// header is the part of a packet before the body.
type header struct {
	source      packet.Callsign
	destination string
	path        []packet.PathHop
}

// splitPacket separates a SRC>DEST,PATH:BODY packet into its header and
// body. The destination is returned unvalidated because Mic-E packets carry
// latitude digits there.
func splitPacket(raw []byte, policy CallsignPolicy) (header, []byte, error) {
	var h header

	srcEnd := bytes.IndexByte(raw, '>')
	if srcEnd == -1 {
		return h, nil, fmt.Errorf("%w: no source callsign separator '>'", ErrMalformedHeader)
	}
	rest := raw[srcEnd+1:]

	bodyStart := bytes.IndexByte(rest, ':')
	if bodyStart == -1 {
		return h, nil, fmt.Errorf("%w: no body separator ':'", ErrMalformedHeader)
	}
	body := rest[bodyStart+1:]

	src, err := parseCallsign(string(raw[:srcEnd]), policy)
	if err != nil {
		return h, nil, fmt.Errorf("source: %w", err)
	}
	h.source = src

	tokens := strings.Split(string(rest[:bodyStart]), ",")
	h.destination = tokens[0]
	if h.destination == "" {
		return h, nil, fmt.Errorf("%w: empty destination", ErrMalformedHeader)
	}

	h.path = make([]packet.PathHop, 0, len(tokens)-1)
	for _, token := range tokens[1:] {
		hop := packet.PathHop{Callsign: token}
		if strings.HasSuffix(token, "*") {
			hop.Callsign = strings.TrimSuffix(token, "*")
			hop.Relayed = true
		}
		if _, err := parseCallsign(hop.Callsign, policy); err != nil {
			return h, nil, fmt.Errorf("path: %w", err)
		}
		h.path = append(h.path, hop)
	}

	return h, body, nil
}
