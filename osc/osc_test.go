package osc

import (
	"bytes"
	"encoding/binary"
	"strings"
)

const zero = string(byte(0))

// nulls returns a string of `i` nulls.
func nulls(i int) string {
	return strings.Repeat(zero, i)
}

// writePaddedString writes str, its terminator and padding up to the next 4
// byte boundary of b.
func writePaddedString(str string, b *bytes.Buffer) {
	b.WriteString(str)
	b.WriteByte(0)
	for b.Len()%4 != 0 {
		b.WriteByte(0)
	}
}

// encode builds the OSC wire form of a message, the way a conforming client
// would send it.
func encode(addr string, args ...Value) []byte {
	b := new(bytes.Buffer)
	writePaddedString(addr, b)
	writePaddedString(","+typeTags(args), b)
	for _, a := range args {
		switch a.Type() {
		case TypeString:
			s, _ := a.Str()
			writePaddedString(s, b)
		case TypeInt32:
			i, _ := a.Int32()
			_ = binary.Write(b, binary.BigEndian, i)
		case TypeFloat32:
			f, _ := a.Float32()
			_ = binary.Write(b, binary.BigEndian, f)
		}
	}
	return b.Bytes()
}

// recorder is a Handler that keeps every payload it is notified with.
type recorder struct {
	addr     string
	payloads []Payload
	onNotify func()
}

func (r *recorder) Address() string { return r.addr }

func (r *recorder) Notify(p Payload) {
	r.payloads = append(r.payloads, p)
	if r.onNotify != nil {
		r.onNotify()
	}
}

func (r *recorder) calls() int { return len(r.payloads) }
