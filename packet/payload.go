package packet

import "time"

// Payload is the type-specific part of a packet. The set of implementations
// is closed: Position, Object, Item, Status, Message, TelemetryMessage and
// Unsupported.
type Payload interface {
	Type() PacketType
	payload()
}

// Object is a position report for something other than the sender.
type Object struct {
	Name  string
	Alive bool // '*' live, '_' killed
	Position
}

func (*Object) Type() PacketType { return TypeObject }
func (*Object) payload()         {}

// Item is like an object but without a timestamp.
type Item struct {
	Name  string
	Alive bool // '!' live, '_' killed
	Position
}

func (*Item) Type() PacketType { return TypeItem }
func (*Item) payload()         {}

// Status is free text with an optional timestamp.
type Status struct {
	Timestamp *time.Time
	Text      string
}

func (*Status) Type() PacketType { return TypeStatus }
func (*Status) payload()         {}

// MessageKind distinguishes text messages from acknowledgements.
type MessageKind int

const (
	MessageText MessageKind = iota
	MessageAck
	MessageReject
)

// Message is an addressed message, or an ack/rej of one.
type Message struct {
	Addressee string
	Kind      MessageKind
	Text      string
	ID        string // Message number, or the number being acked/rejected
}

func (*Message) Type() PacketType { return TypeMessage }
func (*Message) payload()         {}

// TelemetryMessage is a PARM/UNIT/EQNS/BITS message describing a station's
// telemetry channels.
type TelemetryMessage struct {
	Addressee string
	Keyword   string // PARM, UNIT, EQNS or BITS
	Values    []string
}

func (*TelemetryMessage) Type() PacketType { return TypeTelemetry }
func (*TelemetryMessage) payload()         {}

// Unsupported is returned when the body has an unknown type indicator or
// does not follow the grammar its indicator announces.
type Unsupported struct {
	Indicator byte
	Body      string
	Reason    string
}

func (*Unsupported) Type() PacketType { return TypeUnsupported }
func (*Unsupported) payload()         {}
