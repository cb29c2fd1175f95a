package osc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name    string
	raw     []byte
	obj     *Message
	wantErr error
}

var messageTestCases = []testCase{
	{
		"string",
		encode("/foo", StringValue("bar")),
		&Message{Address: "/foo", Arguments: []Value{StringValue("bar")}},
		nil,
	},
	{
		"int_and_string",
		encode("/foo", Int32Value(42), StringValue("hi")),
		&Message{Address: "/foo", Arguments: []Value{Int32Value(42), StringValue("hi")}},
		nil,
	},
	{
		"odd_string_then_int",
		encode("/foo/bar", StringValue("hi"), Int32Value(7), StringValue("four")),
		&Message{Address: "/foo/bar", Arguments: []Value{StringValue("hi"), Int32Value(7), StringValue("four")}},
		nil,
	},
	{
		"int_and_float",
		encode("/x", Int32Value(-1), Float32Value(0.5)),
		&Message{Address: "/x", Arguments: []Value{Int32Value(-1), Float32Value(0.5)}},
		nil,
	},
	{
		"type_tags_fill_word",
		encode("/ab", StringValue("a"), StringValue(""), StringValue("abcd")),
		&Message{Address: "/ab", Arguments: []Value{StringValue("a"), StringValue(""), StringValue("abcd")}},
		nil,
	},
	{
		"no_arguments",
		[]byte("/foo" + nulls(4) + "," + nulls(3)),
		&Message{Address: "/foo"},
		nil,
	},
	{
		"bytes_before_comma_skipped",
		[]byte("/foo\x00XY\x00,i\x00\x00\x00\x00\x01\x00"),
		&Message{Address: "/foo", Arguments: []Value{Int32Value(256)}},
		nil,
	},
	{
		"wildcard_address_kept_verbatim",
		encode("/foo/{a,b}/*", Float32Value(1)),
		&Message{Address: "/foo/{a,b}/*", Arguments: []Value{Float32Value(1)}},
		nil,
	},
	{
		"not_an_address",
		[]byte("foo" + zero + ",s" + nulls(2) + "bar" + zero),
		&Message{},
		nil,
	},
	{
		"bundle_ignored",
		[]byte("#bundle" + zero + nulls(8)),
		&Message{},
		nil,
	},
	{
		"empty",
		[]byte{},
		&Message{},
		nil,
	},
	{
		"missing_type_tag",
		[]byte("/foo" + nulls(4)),
		nil,
		ErrMissingTypeTag,
	},
	{
		"address_without_terminator",
		[]byte("/foo"),
		nil,
		ErrMissingTypeTag,
	},
	{
		"truncated_int",
		[]byte("/foo" + nulls(4) + ",i" + nulls(2) + "\x00\x01"),
		nil,
		ErrTruncatedBuffer,
	},
	{
		"truncated_float",
		[]byte("/foo" + nulls(4) + ",f" + nulls(2)),
		nil,
		ErrTruncatedBuffer,
	},
	{
		"unterminated_string",
		[]byte("/a" + nulls(2) + ",s" + nulls(2) + "abcd"),
		nil,
		ErrTruncatedBuffer,
	},
	{
		"unsupported_tag",
		[]byte("/a" + nulls(2) + ",hi" + zero + nulls(4)),
		nil,
		ErrUnsupportedTag,
	},
}

func TestDecode(t *testing.T) {
	for _, tt := range messageTestCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				var de *DecodeError
				require.True(t, errors.As(err, &de))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.obj, got)
		})
	}
}

func TestDecodeNeverErrorsWithoutSlash(t *testing.T) {
	for _, raw := range []string{"", zero, ",", "foo", "#bundle", "\\foo" + zero + ",i", " /foo"} {
		got, err := Decode([]byte(raw))
		require.NoError(t, err, "%q", raw)
		assert.Empty(t, got.Address)
		assert.Empty(t, got.Arguments)
		assert.True(t, got.IsEmpty())
	}
}

func TestDecodeErrorOffset(t *testing.T) {
	_, err := Decode([]byte("/foo" + nulls(4) + ",i" + nulls(2) + "\x00\x01"))

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 12, de.Offset)
	assert.Equal(t, TypeInt32, de.Tag)
	assert.Equal(t, "truncated_buffer", de.Reason())
	assert.Contains(t, de.Error(), "offset 12")

	_, err = Decode([]byte("/foo"))
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 4, de.Offset)
	assert.Equal(t, "missing_type_tag", de.Reason())
}

func TestDecoderSkipUnknownTags(t *testing.T) {
	raw := []byte("/a" + nulls(2) + ",hi" + zero + "\x00\x00\x00\x07")

	_, err := Decoder{}.Decode(raw)
	assert.ErrorIs(t, err, ErrUnsupportedTag)

	got, err := Decoder{SkipUnknownTags: true}.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, &Message{Address: "/a", Arguments: []Value{Int32Value(7)}}, got)
}

func TestDecodeRoundTrip(t *testing.T) {
	args := []Value{Int32Value(42), StringValue("hi")}
	raw := encode("/round/trip", args...)

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "/round/trip", got.Address)
	assert.Equal(t, args, got.Arguments)
	assert.Equal(t, ",is", got.TypeTags())
}

func TestDecodeCopiesInput(t *testing.T) {
	raw := encode("/foo", StringValue("bar"))
	got, err := Decode(raw)
	require.NoError(t, err)

	for i := range raw {
		raw[i] = 'x'
	}
	assert.Equal(t, "/foo", got.Address)
	assert.Equal(t, []Value{StringValue("bar")}, got.Arguments)
}

func TestMessage_UnmarshalBinary(t *testing.T) {
	for _, tt := range messageTestCases {
		t.Run(tt.name, func(t *testing.T) {
			m := new(Message)
			err := m.UnmarshalBinary(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.obj, m)
		})
	}
}

func TestMessage_String(t *testing.T) {
	m := NewMessage("/a", StringValue("x"), Int32Value(3), Float32Value(1.5))
	assert.Equal(t, `/a ,sif "x" 3 1.5`, m.String())
	assert.Equal(t, "/b", NewMessage("/b").String())
}

func FuzzDecode(f *testing.F) {
	for _, tc := range messageTestCases {
		f.Add(tc.raw)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		msg, err := Decoder{SkipUnknownTags: true}.Decode(data)
		if err != nil {
			return
		}
		if len(data) == 0 || data[0] != '/' {
			if !msg.IsEmpty() {
				t.Fatalf("Decode(%q) = %v, want empty message", data, msg)
			}
		}
	})
}

var result interface{}

func BenchmarkDecode(b *testing.B) {
	raw := encode("/composition/layers/1/clips/1/transport/position", Float32Value(0.123456789), StringValue("hello world"))
	var m *Message
	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		m, _ = Decode(raw)
	}
	result = m
}
