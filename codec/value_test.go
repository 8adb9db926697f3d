package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsnmpvs/lsnmpvs/codec"
)

func roundTripValue(t *testing.T, v codec.Value) codec.Value {
	t.Helper()
	enc, err := codec.Encode(v)
	require.NoError(t, err)
	dec, rest, err := codec.Decode(enc)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, len(enc), len(enc)-len(rest), "consumed exactly len(encode(v)) bytes")
	return dec
}

func TestValueRoundTripEveryVariant(t *testing.T) {
	ts, err := codec.ParseTimestamp("13:11:2025:23:5:51:478")
	require.NoError(t, err)
	iid := mustIID(t, "2.3.1")

	cases := []codec.Value{
		codec.ByteValue{V: 42},
		codec.ShortBytesValue{V: []byte("hello")},
		codec.LongBytesValue{V: make([]byte, 300)},
		codec.IntValue{V: 123, Width: 1},
		codec.IntValue{V: -300, Width: 2},
		codec.IntValue{V: 70000, Width: 4},
		codec.IntValue{V: 1 << 40, Width: 8},
		codec.IntSeqValue{V: []int64{1, 2, 3}, Width: 1},
		codec.TimestampValue{T: ts},
		codec.AsciiValue{V: "Agent_001"},
		codec.ExtAsciiValue{V: "Sensing Hub"},
		codec.IIDValue{V: iid},
	}
	for _, v := range cases {
		got := roundTripValue(t, v)
		assert.Equal(t, v, got)
	}
}

func TestValueMinimumWidthEncoding(t *testing.T) {
	cases := []struct {
		n     int64
		width int
	}{
		{0, 1}, {127, 1}, {-128, 1},
		{128, 2}, {-129, 2}, {32767, 2},
		{32768, 4}, {-32769, 4}, {2147483647, 4},
		{2147483648, 8}, {-2147483649, 8},
	}
	for _, c := range cases {
		enc, err := codec.Encode(codec.IntValue{V: c.n})
		require.NoError(t, err)
		dec, _, err := codec.Decode(enc)
		require.NoError(t, err)
		got := dec.(codec.IntValue)
		assert.Equal(t, c.n, got.V)
		assert.Equal(t, c.width, got.Width, "value %d", c.n)
	}
}

func TestFromUntypedAutoDetection(t *testing.T) {
	v, err := codec.FromUntyped(123)
	require.NoError(t, err)
	assert.Equal(t, codec.IntValue{V: 123}, v)

	v, err = codec.FromUntyped("Agent_001")
	require.NoError(t, err)
	assert.Equal(t, codec.AsciiValue{V: "Agent_001"}, v)

	v, err = codec.FromUntyped("13:11:2025:23:5:51:478")
	require.NoError(t, err)
	tv, ok := v.(codec.TimestampValue)
	require.True(t, ok)
	assert.Equal(t, codec.TimestampAbsolute, tv.T.Kind)

	v, err = codec.FromUntyped("2.3.1")
	require.NoError(t, err)
	assert.Equal(t, codec.IIDValue{V: mustIID(t, "2.3.1")}, v)

	v, err = codec.FromUntyped([]int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, codec.IntSeqValue{V: []int64{1, 2, 3}}, v)
}

func TestValueListRoundTrip(t *testing.T) {
	values := []codec.Value{
		codec.IntValue{V: 123},
		codec.AsciiValue{V: "Agent_001"},
		codec.AsciiValue{V: "Sensing Hub"},
	}
	enc, err := codec.EncodeList(values)
	require.NoError(t, err)

	dec, rest, err := codec.DecodeList(enc, false)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, values, dec)
}

func TestValueListTolerantStopsOnBadElement(t *testing.T) {
	good, err := codec.Encode(codec.IntValue{V: 5})
	require.NoError(t, err)
	buf := append([]byte{2}, good...)
	buf = append(buf, 0x7F) // unrecognized discriminator

	dec, rest, err := codec.DecodeList(buf, false)
	require.NoError(t, err)
	assert.Len(t, dec, 1)
	assert.Nil(t, rest)
}
