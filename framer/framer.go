// Package framer implements the datagram confidentiality layer that sits
// underneath codec.PDU on the wire: AES-128-ECB with PKCS#7 padding, keyed
// by the first 16 bytes of SHA-256 of a shared secret string. It has no
// ecosystem equivalent in this codebase's dependency set — every wire
// library available elsewhere in the tree speaks ASN.1/BER or TLS, neither
// of which applies here — so it is built directly on crypto/aes,
// crypto/cipher and crypto/sha256.
package framer

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
)

const blockSize = aes.BlockSize // 16

// Key derives the 16-byte AES-128 key from a shared secret.
func Key(secret string) [16]byte {
	sum := sha256.Sum256([]byte(secret))
	var key [16]byte
	copy(key[:], sum[:16])
	return key
}

// Seal pads plaintext with PKCS#7 and encrypts it under AES-128 in ECB mode.
// The result is always a multiple of the block size, never shorter than
// len(plaintext)+1.
func Seal(key [16]byte, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("framer: new cipher: %w", err)
	}
	padded := pkcs7Pad(plaintext, blockSize)
	out := make([]byte, len(padded))
	for off := 0; off < len(padded); off += blockSize {
		block.Encrypt(out[off:off+blockSize], padded[off:off+blockSize])
	}
	return out, nil
}

// Open decrypts ciphertext produced by Seal and removes its PKCS#7 padding.
// It returns an error for any input that isn't a valid, correctly-padded
// sequence of whole blocks — the caller maps this to wire error code 1
// ("malformed frame").
func Open(key [16]byte, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%blockSize != 0 {
		return nil, fmt.Errorf("framer: ciphertext length %d is not a positive multiple of %d", len(ciphertext), blockSize)
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("framer: new cipher: %w", err)
	}
	padded := make([]byte, len(ciphertext))
	for off := 0; off < len(ciphertext); off += blockSize {
		block.Decrypt(padded[off:off+blockSize], ciphertext[off:off+blockSize])
	}
	return pkcs7Unpad(padded, blockSize)
}

func pkcs7Pad(data []byte, size int) []byte {
	padLen := size - len(data)%size
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(append([]byte{}, data...), padding...)
}

func pkcs7Unpad(data []byte, size int) ([]byte, error) {
	n := len(data)
	if n == 0 || n%size != 0 {
		return nil, fmt.Errorf("framer: padded data length %d is not a positive multiple of %d", n, size)
	}
	padLen := int(data[n-1])
	if padLen == 0 || padLen > size || padLen > n {
		return nil, fmt.Errorf("framer: invalid pkcs7 padding length %d", padLen)
	}
	for _, b := range data[n-padLen:] {
		if int(b) != padLen {
			return nil, fmt.Errorf("framer: corrupt pkcs7 padding")
		}
	}
	return data[:n-padLen], nil
}
