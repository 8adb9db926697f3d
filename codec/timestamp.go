package codec

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Timestamp kinds.
const (
	TimestampAbsolute uint8 = 0 // day:month:year:hour:minute:second:ms
	TimestampElapsed  uint8 = 1 // days:hours:minutes:seconds:ms
)

// Timestamp is one of the two six-byte timestamp variants. Day/Month/Year
// are meaningful only for TimestampAbsolute; Days only for TimestampElapsed.
// Hour/Minute/Second/Ms are shared by both kinds.
type Timestamp struct {
	Kind   uint8
	Day    uint8
	Month  uint8
	Year   uint16
	Days   uint16
	Hour   uint8
	Minute uint8
	Second uint8
	Ms     uint16
}

// maxDayOf returns the maximum valid day-of-month for the given month,
// enforcing 30-day months and a 29-day February.
func maxDayOf(month uint8) uint8 {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		return 29
	default:
		return 31
	}
}

func (t Timestamp) valid() bool {
	if t.Second > 59 || t.Minute > 59 || t.Ms > 999 {
		return false
	}
	if t.Kind == TimestampAbsolute {
		if t.Hour > 23 || t.Month < 1 || t.Month > 12 {
			return false
		}
		if t.Year < 2000 || t.Year > 2127 {
			return false
		}
		if t.Day < 1 || t.Day > maxDayOf(t.Month) {
			return false
		}
		return true
	}
	// TimestampElapsed: Days is a full uint16, always in range; Hour 0-23.
	return t.Hour <= 23
}

// ParseTimestamp parses the colon-separated string form. Seven fields
// (day:month:year:hour:minute:second:ms) parse as TimestampAbsolute; five
// fields (days:hours:minutes:seconds:ms) parse as TimestampElapsed.
func ParseTimestamp(s string) (Timestamp, error) {
	fields := strings.Split(s, ":")
	nums := make([]int64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 32)
		if err != nil {
			return Timestamp{}, fmt.Errorf("codec: timestamp %q: field %d not numeric: %w", s, i, err)
		}
		nums[i] = n
	}
	switch len(fields) {
	case 7:
		t := Timestamp{
			Kind:   TimestampAbsolute,
			Day:    uint8(nums[0]),
			Month:  uint8(nums[1]),
			Year:   uint16(nums[2]),
			Hour:   uint8(nums[3]),
			Minute: uint8(nums[4]),
			Second: uint8(nums[5]),
			Ms:     uint16(nums[6]),
		}
		if !t.valid() {
			return Timestamp{}, fmt.Errorf("codec: timestamp %q: fields out of range", s)
		}
		return t, nil
	case 5:
		t := Timestamp{
			Kind:   TimestampElapsed,
			Days:   uint16(nums[0]),
			Hour:   uint8(nums[1]),
			Minute: uint8(nums[2]),
			Second: uint8(nums[3]),
			Ms:     uint16(nums[4]),
		}
		if !t.valid() {
			return Timestamp{}, fmt.Errorf("codec: timestamp %q: fields out of range", s)
		}
		return t, nil
	default:
		return Timestamp{}, fmt.Errorf("codec: timestamp %q: expected 5 or 7 colon-separated fields, got %d", s, len(fields))
	}
}

// String formats the timestamp back into colon-separated form.
func (t Timestamp) String() string {
	if t.Kind == TimestampAbsolute {
		return fmt.Sprintf("%d:%d:%d:%d:%d:%d:%d", t.Day, t.Month, t.Year, t.Hour, t.Minute, t.Second, t.Ms)
	}
	return fmt.Sprintf("%d:%d:%d:%d:%d", t.Days, t.Hour, t.Minute, t.Second, t.Ms)
}

// timestampSentinel is the fixed three-word body emitted for invalid input:
// words (0, 0, 0xFFFF).
var timestampSentinel = [6]byte{0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF}

// EncodeTimestampBody packs a timestamp into its 6-byte little-endian body:
// secs_ms, hours_mins, date (Day/Month/Year packed, or Days verbatim).
// Encoding is total: an out-of-range Timestamp produces the sentinel body
// instead of an error.
func EncodeTimestampBody(t Timestamp) [6]byte {
	if !t.valid() {
		return timestampSentinel
	}
	secsMs := uint16(t.Second)*1000 + t.Ms
	hoursMins := uint16(t.Hour)*60 + uint16(t.Minute)
	var date uint16
	if t.Kind == TimestampAbsolute {
		date = uint16(t.Year-2000)<<9 | uint16(t.Month)<<5 | uint16(t.Day)
	} else {
		date = t.Days
	}
	var out [6]byte
	binary.LittleEndian.PutUint16(out[0:2], secsMs)
	binary.LittleEndian.PutUint16(out[2:4], hoursMins)
	binary.LittleEndian.PutUint16(out[4:6], date)
	return out
}

// DecodeTimestampBody unpacks a 6-byte little-endian timestamp body of the
// given kind. It never fails: a sentinel or otherwise out-of-range body
// decodes to a Timestamp whose fields are simply out of range, which
// String() will render as such.
func DecodeTimestampBody(kind uint8, body [6]byte) Timestamp {
	secsMs := binary.LittleEndian.Uint16(body[0:2])
	hoursMins := binary.LittleEndian.Uint16(body[2:4])
	date := binary.LittleEndian.Uint16(body[4:6])

	t := Timestamp{
		Kind:   kind,
		Second: uint8(secsMs / 1000),
		Ms:     secsMs % 1000,
		Hour:   uint8(hoursMins / 60),
		Minute: uint8(hoursMins % 60),
	}
	if kind == TimestampAbsolute {
		t.Year = 2000 + (date >> 9)
		t.Month = uint8((date >> 5) & 0xF)
		t.Day = uint8(date & 0x1F)
	} else {
		t.Days = date
	}
	return t
}
