package mib

import (
	"time"

	"github.com/lsnmpvs/lsnmpvs/codec"
)

// timeNow is a var, not a direct time.Now call, so tests can swap it for a
// deterministic clock without threading a clock interface through every
// MIB method.
var timeNow = time.Now

// Now returns the current wall-clock moment as a Type 0 timestamp. Exported
// for the agent's transport layer, which stamps response PDU headers with
// it without reaching into mib's internals.
func Now() codec.Timestamp {
	return currentTimestamp()
}

// currentTimestamp derives device field 1.6 from the wall clock.
func currentTimestamp() codec.Timestamp {
	now := timeNow()
	return codec.Timestamp{
		Kind:   codec.TimestampAbsolute,
		Day:    uint8(now.Day()),
		Month:  uint8(now.Month()),
		Year:   uint16(now.Year()),
		Hour:   uint8(now.Hour()),
		Minute: uint8(now.Minute()),
		Second: uint8(now.Second()),
		Ms:     uint16(now.Nanosecond() / 1_000_000),
	}
}
