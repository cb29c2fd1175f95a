package osc

import (
	"bytes"
	"encoding/binary"
	"math"
)

const bit32Size = 4

////
// Decoding helpers. Every helper takes the whole datagram and an absolute
// offset, since alignment is relative to the start of the datagram.
////

// padBytesNeeded determines how many bytes are needed to fill up to the next 4
// byte length.
func padBytesNeeded(elementLen int) int {
	return (4 - (elementLen % 4)) % 4
}

// align moves pos forward to the next multiple of 4.
func align(pos int) int {
	return pos + padBytesNeeded(pos)
}

// indexFrom returns the offset of the first c at or after pos, or -1.
func indexFrom(data []byte, pos int, c byte) int {
	if pos >= len(data) {
		return -1
	}
	i := bytes.IndexByte(data[pos:], c)
	if i == -1 {
		return -1
	}
	return pos + i
}

// parseString reads a NUL terminated string starting at pos. It returns the
// string without the terminator and the offset just past the terminator.
func parseString(data []byte, pos int) (string, int, error) {
	end := indexFrom(data, pos, 0)
	if end == -1 {
		return "", pos, ErrTruncatedBuffer
	}
	return string(data[pos:end]), end + 1, nil
}

// parseUint32 reads a big-endian 32 bit word starting at pos.
func parseUint32(data []byte, pos int) (uint32, int, error) {
	if pos < 0 || len(data)-pos < bit32Size {
		return 0, pos, ErrTruncatedBuffer
	}
	return binary.BigEndian.Uint32(data[pos : pos+bit32Size]), pos + bit32Size, nil
}

func parseInt32(data []byte, pos int) (int32, int, error) {
	u, n, err := parseUint32(data, pos)
	return int32(u), n, err
}

func parseFloat32(data []byte, pos int) (float32, int, error) {
	u, n, err := parseUint32(data, pos)
	return math.Float32frombits(u), n, err
}
