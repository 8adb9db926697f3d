package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsnmpvs/lsnmpvs/codec"
)

func TestIIDParseAndRoundTrip(t *testing.T) {
	cases := []string{"1.4", "2.3.1", "2.1.3.10"}
	for _, s := range cases {
		iid, err := codec.ParseIID(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, iid.String())

		enc := codec.EncodeIID(iid)
		dec, rest, err := codec.DecodeIID(enc)
		require.NoError(t, err)
		assert.Empty(t, rest)
		assert.Equal(t, iid, dec)
	}
}

func TestIIDRangeValidation(t *testing.T) {
	_, err := codec.ParseIID("0.1")
	assert.Error(t, err, "S must be 1-255")

	_, err = codec.ParseIID("256.1")
	assert.Error(t, err)

	_, err = codec.ParseIID("2.1.5.3")
	assert.Error(t, err, "I2 < I1 is invalid")

	_, err = codec.ParseIID("1.2.3.4.5")
	assert.Error(t, err, "at most 4 parts")
}

func TestIIDListRoundTrip(t *testing.T) {
	iids := []codec.IID{
		mustIID(t, "1.1"),
		mustIID(t, "1.2"),
		mustIID(t, "1.5"),
		mustIID(t, "1.8"),
	}
	enc := codec.EncodeIIDList(iids)
	assert.Equal(t, byte(len(iids)), enc[0])

	dec, rest, err := codec.DecodeIIDList(enc, false)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, iids, dec)
}

func TestIIDListTolerantStopsOnBadElement(t *testing.T) {
	good := codec.EncodeIID(mustIID(t, "2.3.1"))
	buf := append([]byte{2}, good...) // count says 2, but only one follows
	buf = append(buf, 0xFF)           // garbage discriminator for 2nd element

	dec, rest, err := codec.DecodeIIDList(buf, false)
	require.NoError(t, err)
	assert.Len(t, dec, 1)
	assert.Nil(t, rest, "tolerant stop discards the remainder of the list")
}

func TestIIDListStrictErrorsOnBadElement(t *testing.T) {
	buf := []byte{1, 0xFF}
	_, _, err := codec.DecodeIIDList(buf, true)
	assert.Error(t, err)
}

func mustIID(t *testing.T, s string) codec.IID {
	t.Helper()
	iid, err := codec.ParseIID(s)
	require.NoError(t, err)
	return iid
}
