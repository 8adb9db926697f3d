package framer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsnmpvs/lsnmpvs/framer"
)

func TestSealOpenRoundTrip(t *testing.T) {
	key := framer.Key("correct horse battery staple")
	cases := [][]byte{
		nil,
		[]byte("a"),
		[]byte("exactly16bytes!!"),
		[]byte("this message is longer than one aes block"),
	}
	for _, pt := range cases {
		ct, err := framer.Seal(key, pt)
		require.NoError(t, err)
		assert.Equal(t, 0, len(ct)%16)

		got, err := framer.Open(key, ct)
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
}

func TestKeyIsDeterministicAndSecretDependent(t *testing.T) {
	k1 := framer.Key("shared-secret-a")
	k2 := framer.Key("shared-secret-a")
	k3 := framer.Key("shared-secret-b")
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestOpenRejectsBadLength(t *testing.T) {
	key := framer.Key("secret")
	_, err := framer.Open(key, []byte("not-a-multiple-of-16"))
	assert.Error(t, err)

	_, err = framer.Open(key, nil)
	assert.Error(t, err)
}

func TestOpenRejectsCorruptPadding(t *testing.T) {
	key := framer.Key("secret")
	ct, err := framer.Seal(key, []byte("hello"))
	require.NoError(t, err)
	ct[len(ct)-1] ^= 0xFF

	_, err = framer.Open(key, ct)
	assert.Error(t, err)
}

func TestDifferentKeysProduceDifferentCiphertext(t *testing.T) {
	plaintext := []byte("identical plaintext")
	ct1, err := framer.Seal(framer.Key("secret-one"), plaintext)
	require.NoError(t, err)
	ct2, err := framer.Seal(framer.Key("secret-two"), plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, ct1, ct2)
}
