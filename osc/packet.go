package osc

import (
	"strings"
)

// MaxPacketSize is the largest UDP payload the server reads in one datagram.
const MaxPacketSize = 65507

// Message represents a single decoded OSC message. An OSC message consists of
// an OSC address pattern and zero or more arguments.
type Message struct {
	Address   string
	Arguments []Value
}

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...Value) *Message {
	return &Message{Address: addr, Arguments: args}
}

// IsEmpty reports whether m carries no address. Datagrams that do not start
// with '/' decode to an empty Message.
func (m *Message) IsEmpty() bool {
	return m == nil || m.Address == ""
}

// TypeTags returns the type tag string, including the leading ','.
func (m *Message) TypeTags() string {
	if m == nil {
		return ""
	}
	return "," + typeTags(m.Arguments)
}

// Payload returns the arguments of m in the shape handlers receive them.
func (m *Message) Payload() Payload {
	if m == nil {
		return Payload{}
	}
	return NewPayload(m.Arguments)
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.Address)
	if len(m.Arguments) == 0 {
		return b.String()
	}

	b.WriteByte(' ')
	b.WriteString(m.TypeTags())
	for _, arg := range m.Arguments {
		b.WriteByte(' ')
		b.WriteString(arg.String())
	}
	return b.String()
}

// PayloadKind describes how many arguments a Payload carries.
type PayloadKind uint8

const (
	PayloadEmpty PayloadKind = iota
	PayloadSingle
	PayloadMany
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadEmpty:
		return "empty"
	case PayloadSingle:
		return "single"
	case PayloadMany:
		return "many"
	default:
		return "unknown"
	}
}

// Payload is what a Handler is notified with: nothing, a single unwrapped
// Value, or the ordered sequence of two or more Values.
type Payload struct {
	kind   PayloadKind
	values []Value
}

// NewPayload builds the Payload for args. The slice is copied.
func NewPayload(args []Value) Payload {
	switch len(args) {
	case 0:
		return Payload{kind: PayloadEmpty}
	case 1:
		return Payload{kind: PayloadSingle, values: []Value{args[0]}}
	default:
		return Payload{kind: PayloadMany, values: append([]Value(nil), args...)}
	}
}

func (p Payload) Kind() PayloadKind {
	return p.kind
}

// Len returns the number of values carried.
func (p Payload) Len() int {
	return len(p.values)
}

// Single returns the value of a PayloadSingle. ok is false for any other kind.
func (p Payload) Single() (v Value, ok bool) {
	if p.kind != PayloadSingle {
		return Value{}, false
	}
	return p.values[0], true
}

// Values returns the values of a PayloadMany. It returns nil for any other
// kind. The returned slice must not be modified.
func (p Payload) Values() []Value {
	if p.kind != PayloadMany {
		return nil
	}
	return p.values
}

func (p Payload) String() string {
	switch p.kind {
	case PayloadSingle:
		return p.values[0].String()
	case PayloadMany:
		parts := make([]string, len(p.values))
		for i, v := range p.values {
			parts[i] = v.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return "[]"
	}
}
