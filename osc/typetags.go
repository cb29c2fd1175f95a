package osc

import (
	"fmt"
	"strconv"
)

type TypeTag rune

const (
	TypeString  TypeTag = 's'
	TypeInt32   TypeTag = 'i'
	TypeFloat32 TypeTag = 'f'
	TypeInvalid TypeTag = 0
)

// Supported reports whether the decoder produces a value for t.
func (t TypeTag) Supported() bool {
	switch t {
	case TypeString, TypeInt32, TypeFloat32:
		return true
	default:
		return false
	}
}

func (t TypeTag) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt32:
		return "int32"
	case TypeFloat32:
		return "float32"
	case TypeInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("unknown(%q)", rune(t))
	}
}

// Value is a single decoded OSC argument. The zero Value has TypeInvalid.
type Value struct {
	tag TypeTag
	s   string
	i   int32
	f   float32
}

// StringValue returns a Value holding an OSC string.
func StringValue(s string) Value {
	return Value{tag: TypeString, s: s}
}

// Int32Value returns a Value holding an OSC int32.
func Int32Value(i int32) Value {
	return Value{tag: TypeInt32, i: i}
}

// Float32Value returns a Value holding an OSC float32.
func Float32Value(f float32) Value {
	return Value{tag: TypeFloat32, f: f}
}

// Type returns the OSC TypeTag of v.
func (v Value) Type() TypeTag {
	return v.tag
}

// Str returns the string held by v and whether v is a string.
func (v Value) Str() (string, bool) {
	return v.s, v.tag == TypeString
}

// Int32 returns the integer held by v and whether v is an int32.
func (v Value) Int32() (int32, bool) {
	return v.i, v.tag == TypeInt32
}

// Float32 returns the float held by v and whether v is a float32.
func (v Value) Float32() (float32, bool) {
	return v.f, v.tag == TypeFloat32
}

// Interface returns the Go value held by v: string, int32, float32 or nil.
func (v Value) Interface() interface{} {
	switch v.tag {
	case TypeString:
		return v.s
	case TypeInt32:
		return v.i
	case TypeFloat32:
		return v.f
	default:
		return nil
	}
}

// String implements the fmt.Stringer interface.
func (v Value) String() string {
	switch v.tag {
	case TypeString:
		return strconv.Quote(v.s)
	case TypeInt32:
		return strconv.FormatInt(int64(v.i), 10)
	case TypeFloat32:
		return strconv.FormatFloat(float64(v.f), 'g', -1, 32)
	default:
		return "Nil"
	}
}

// typeTags returns the OSC type tag string (without the leading ',') for args.
func typeTags(args []Value) string {
	tags := make([]byte, 0, len(args))
	for _, a := range args {
		tags = append(tags, byte(a.tag))
	}
	return string(tags)
}
