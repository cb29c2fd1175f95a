package osc

// Decoder turns raw datagrams into Messages. The zero Decoder is strict.
type Decoder struct {
	// SkipUnknownTags ignores type tags other than 's', 'i' and 'f' instead of
	// failing with ErrUnsupportedTag. No value is produced and no bytes are
	// consumed for a skipped tag.
	SkipUnknownTags bool
}

// Decode decodes data with the zero Decoder.
func Decode(data []byte) (*Message, error) {
	return Decoder{}.Decode(data)
}

// NewMessageFromData returns a new Message decoded from data.
func NewMessageFromData(data []byte) (*Message, error) {
	return Decode(data)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (m *Message) UnmarshalBinary(data []byte) error {
	msg, err := Decode(data)
	if err != nil {
		return err
	}
	*m = *msg
	return nil
}

// Decode decodes a single OSC message from data.
//
// A datagram that does not start with '/' is not an error: it decodes to an
// empty Message with no arguments. Bytes between the address terminator and
// the ',' of the type tag string are skipped without validation. Each
// argument starts at the next multiple of 4 from the start of data.
func (d Decoder) Decode(data []byte) (*Message, error) {
	msg := &Message{}
	if len(data) == 0 || data[0] != '/' {
		return msg, nil
	}

	// First, read the OSC address
	end := indexFrom(data, 0, 0)
	if end == -1 {
		end = len(data)
	}
	msg.Address = string(data[:end])

	comma := indexFrom(data, end, ',')
	if comma == -1 {
		return nil, &DecodeError{Offset: end, Err: ErrMissingTypeTag}
	}

	// The type tag string runs to the next NUL; a missing terminator at the very
	// end of the datagram is tolerated.
	tagsEnd := indexFrom(data, comma+1, 0)
	if tagsEnd == -1 {
		tagsEnd = len(data)
	}
	tags := data[comma+1 : tagsEnd]
	if len(tags) == 0 {
		return msg, nil
	}

	args, err := d.readArguments(data, tags, tagsEnd+1)
	if err != nil {
		return nil, err
	}
	msg.Arguments = args
	return msg, nil
}

// readArguments reads one value per tag, starting at pos.
func (d Decoder) readArguments(data, tags []byte, pos int) ([]Value, error) {
	args := make([]Value, 0, len(tags))
	for _, c := range tags {
		tag := TypeTag(c)
		pos = align(pos)

		var (
			v   Value
			err error
		)
		start := pos
		switch tag {
		default:
			if d.SkipUnknownTags {
				continue
			}
			return nil, &DecodeError{Offset: pos, Tag: tag, Err: ErrUnsupportedTag}

		case TypeString:
			var s string
			s, pos, err = parseString(data, pos)
			v = StringValue(s)

		case TypeInt32:
			var i int32
			i, pos, err = parseInt32(data, pos)
			v = Int32Value(i)

		case TypeFloat32:
			var f float32
			f, pos, err = parseFloat32(data, pos)
			v = Float32Value(f)
		}
		if err != nil {
			return nil, &DecodeError{Offset: start, Tag: tag, Err: err}
		}
		args = append(args, v)
	}
	return args, nil
}
