// Package codec implements the L-SNMPvS wire format: instance identifiers,
// the closed Value tagged union, the two timestamp variants, and the
// top-level PDU framing that ties them together. Timestamp encoding is
// total (invalid input yields the sentinel body); the value, list and PDU
// encoders return an error for oversized or unencodable input. Every
// decoder is tolerant within a list
// (a malformed element stops that list rather than the whole PDU) but
// fatal across the fixed header (a bad tag aborts decoding entirely).
package codec

import (
	"encoding/binary"
	"fmt"
)

// Message types for the PDU "type" byte.
const (
	MsgGetRequest   byte = 0
	MsgSetRequest   byte = 1
	MsgNotification byte = 2
	MsgResponse     byte = 3
	MsgUnknown      byte = 4
)

// Tag is the constant 8-byte protocol tag every PDU begins with.
var Tag = [8]byte{'L', 'S', 'N', 'M', 'P', 'v', '2', 0}

const headerSize = 8 + 1 + 6 + 8 // tag + type + timestamp body + msg-id

// PDU is one protocol data unit: fixed header plus four variable-length
// lists in fixed order.
type PDU struct {
	Type      byte
	Timestamp Timestamp // always TimestampAbsolute on the wire
	MsgID     uint64
	IIDList   []IID
	VList     []Value
	TList     []Timestamp
	EList     []ErrorCode
}

// EncodePDU serializes a PDU. It returns an error when a list has more
// than 255 elements or when an element cannot be encoded (for example an
// oversized string or byte-string).
func EncodePDU(pdu PDU) ([]byte, error) {
	buf := make([]byte, 0, headerSize+32)
	buf = append(buf, Tag[:]...)
	buf = append(buf, pdu.Type)
	ts := pdu.Timestamp
	ts.Kind = TimestampAbsolute
	body := EncodeTimestampBody(ts)
	buf = append(buf, body[:]...)
	buf = binary.BigEndian.AppendUint64(buf, pdu.MsgID)

	buf = append(buf, EncodeIIDList(pdu.IIDList)...)

	vList, err := EncodeList(pdu.VList)
	if err != nil {
		return nil, fmt.Errorf("codec: pdu: v-list: %w", err)
	}
	buf = append(buf, vList...)

	tList, err := EncodeTimestampList(pdu.TList)
	if err != nil {
		return nil, fmt.Errorf("codec: pdu: t-list: %w", err)
	}
	buf = append(buf, tList...)

	buf = append(buf, EncodeErrorList(pdu.EList)...)
	return buf, nil
}

// DecodePDU deserializes a PDU. A short buffer or bad tag is fatal (wire
// error codes 1/2 respectively); everything past the
// fixed header decodes tolerantly in strict=false mode — a malformed
// element in one list stops that list and every list after it (their
// start position can no longer be located), and DecodePDU still returns
// the PDU decoded so far with a nil error. In strict=true mode, any
// malformed element anywhere aborts decoding with an error.
func DecodePDU(buf []byte, strict bool) (PDU, error) {
	if len(buf) < headerSize {
		return PDU{}, newDecodeError(ErrDecode, fmt.Sprintf("short header (%d bytes, need %d)", len(buf), headerSize))
	}
	var tag [8]byte
	copy(tag[:], buf[:8])
	if tag != Tag {
		return PDU{}, newDecodeError(ErrTag, fmt.Sprintf("bad tag %q", tag))
	}

	pdu := PDU{Type: buf[8]}
	if pdu.Type > MsgResponse {
		// An unknown type byte decodes to the literal "unknown"; the
		// dispatcher, not the codec, raises wire error code 3.
		pdu.Type = MsgUnknown
	}

	var body [6]byte
	copy(body[:], buf[9:15])
	pdu.Timestamp = DecodeTimestampBody(TimestampAbsolute, body)
	pdu.MsgID = binary.BigEndian.Uint64(buf[15:23])

	rest := buf[headerSize:]

	iids, next, err := DecodeIIDList(rest, strict)
	if err != nil {
		return PDU{}, fmt.Errorf("codec: pdu: iid-list: %w", err)
	}
	pdu.IIDList = iids
	if next == nil {
		return pdu, nil
	}
	rest = next

	vals, next, err := DecodeList(rest, strict)
	if err != nil {
		return PDU{}, fmt.Errorf("codec: pdu: v-list: %w", err)
	}
	pdu.VList = vals
	if next == nil {
		return pdu, nil
	}
	rest = next

	ts, next, err := DecodeTimestampList(rest, strict)
	if err != nil {
		return PDU{}, fmt.Errorf("codec: pdu: t-list: %w", err)
	}
	pdu.TList = ts
	if next == nil {
		return pdu, nil
	}
	rest = next

	errs, _, err := DecodeErrorList(rest, strict)
	if err != nil {
		return PDU{}, fmt.Errorf("codec: pdu: e-list: %w", err)
	}
	pdu.EList = errs

	return pdu, nil
}
