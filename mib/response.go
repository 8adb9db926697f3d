package mib

import (
	"math/rand/v2"

	"github.com/lsnmpvs/lsnmpvs/codec"
)

// Device group object identifiers (structure 1).
const (
	oidLMibID       = 1
	oidDeviceID     = 2
	oidDeviceType   = 3
	oidBeaconSecs   = 4
	oidSensorCount  = 5
	oidDateTime     = 6
	oidUptime       = 7
	oidOperStatus   = 8
	oidResetCmd     = 9
)

// Sensor table column identifiers (structure 2).
const (
	colID       = 1
	colType     = 2
	colCurrent  = 3
	colMin      = 4
	colMax      = 5
	colLastSamp = 6
	colRate     = 7
)

// nullValue is the wire placeholder for "no value at this position". The
// closed Value union has no dedicated null discriminator, so a single zero
// byte (ByteValue{0}) is reused; callers must consult the
// accompanying error code to tell an unresolved position apart from an
// actual zero byte value — a nonzero E-list entry at position i means
// v_list[i] is this placeholder, not a real reading.
var nullValue = codec.ByteValue{V: 0}

// Get resolves each iid positionally against the MIB, returning a value
// and an error code for every position (ErrNone when the iid resolved).
// GET of a 2.3.k column triggers a fresh sample of sensor k.
func (m *MIB) Get(iids []codec.IID) ([]codec.Value, []codec.ErrorCode) {
	values := make([]codec.Value, len(iids))
	errs := make([]codec.ErrorCode, len(iids))
	for i, iid := range iids {
		v, err := m.getOne(iid)
		if err != codec.ErrNone {
			v = nullValue
		}
		values[i] = v
		errs[i] = err
	}
	return values, errs
}

func (m *MIB) getOne(iid codec.IID) (codec.Value, codec.ErrorCode) {
	switch {
	case iid.Parts == 2 && iid.S == 1:
		return m.getDeviceField(uint8(iid.O))
	case iid.Parts == 3 && iid.S == 2:
		return m.getSensorField(uint8(iid.O), int64(iid.I1))
	default:
		return nil, codec.ErrUnknownIID
	}
}

func (m *MIB) getDeviceField(col uint8) (codec.Value, codec.ErrorCode) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch col {
	case oidLMibID:
		return codec.IntValue{V: m.lmibID}, codec.ErrNone
	case oidDeviceID:
		return codec.AsciiValue{V: m.deviceID}, codec.ErrNone
	case oidDeviceType:
		return codec.AsciiValue{V: m.deviceType}, codec.ErrNone
	case oidBeaconSecs:
		return codec.IntValue{V: m.beaconPeriodSecs}, codec.ErrNone
	case oidSensorCount:
		return codec.IntValue{V: int64(len(m.sensors))}, codec.ErrNone
	case oidDateTime:
		return codec.TimestampValue{T: currentTimestamp()}, codec.ErrNone
	case oidUptime:
		return codec.TimestampValue{T: m.uptime()}, codec.ErrNone
	case oidOperStatus:
		return codec.IntValue{V: m.operStatus}, codec.ErrNone
	case oidResetCmd:
		// Write-only in effect: always reads back zero.
		return codec.IntValue{V: 0}, codec.ErrNone
	default:
		return nil, codec.ErrUnknownIID
	}
}

func (m *MIB) getSensorField(col uint8, index int64) (codec.Value, codec.ErrorCode) {
	if col == colCurrent {
		// GET(2.3.k) draws a fresh sample.
		row, err := m.sampleByIndex(index)
		if err != codec.ErrNone {
			return nil, err
		}
		return codec.IntValue{V: row.Current}, codec.ErrNone
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.byIndex[index]
	if !ok {
		return nil, codec.ErrUnknownIID
	}
	switch col {
	case colID:
		return codec.AsciiValue{V: row.ID}, codec.ErrNone
	case colType:
		return codec.AsciiValue{V: row.Type}, codec.ErrNone
	case colMin:
		return codec.IntValue{V: row.Min}, codec.ErrNone
	case colMax:
		return codec.IntValue{V: row.Max}, codec.ErrNone
	case colLastSamp:
		return codec.TimestampValue{T: elapsedSince(row.LastSampleAt)}, codec.ErrNone
	case colRate:
		return codec.IntValue{V: row.RateTenthsHz}, codec.ErrNone
	default:
		return nil, codec.ErrUnknownIID
	}
}

// Set mutates the MIB positionally for the three writable fields (beacon
// period 1.4, reset trigger 1.9, per-sensor rate 2.7.k), echoing back the
// new value on success. Any other iid is rejected at that position with
// ErrUnknownIID and the value is the null placeholder.
func (m *MIB) Set(iids []codec.IID, values []codec.Value) ([]codec.Value, []codec.ErrorCode) {
	out := make([]codec.Value, len(iids))
	errs := make([]codec.ErrorCode, len(iids))
	for i, iid := range iids {
		if i >= len(values) {
			out[i] = nullValue
			errs[i] = codec.ErrListLengthMismatch
			continue
		}
		v, err := m.setOne(iid, values[i])
		if err != codec.ErrNone {
			v = nullValue
		}
		out[i] = v
		errs[i] = err
	}
	return out, errs
}

func (m *MIB) setOne(iid codec.IID, value codec.Value) (codec.Value, codec.ErrorCode) {
	writable := (iid.Parts == 2 && iid.S == 1 && (iid.O == oidBeaconSecs || iid.O == oidResetCmd)) ||
		(iid.Parts == 3 && iid.S == 2 && iid.O == colRate)
	if !writable {
		return nil, codec.ErrUnknownIID
	}

	intVal, ok := value.(codec.IntValue)
	if !ok {
		return nil, codec.ErrUnsupportedValue
	}

	switch {
	case iid.Parts == 2 && iid.S == 1 && iid.O == oidBeaconSecs:
		m.mu.Lock()
		m.beaconPeriodSecs = intVal.V
		m.mu.Unlock()
		return value, codec.ErrNone

	case iid.Parts == 2 && iid.S == 1 && iid.O == oidResetCmd:
		if intVal.V != 1 {
			return nil, codec.ErrUnsupportedValue
		}
		m.Reset()
		return value, codec.ErrNone

	case iid.Parts == 3 && iid.S == 2 && iid.O == colRate:
		m.mu.Lock()
		row, ok := m.byIndex[int64(iid.I1)]
		if ok {
			row.RateTenthsHz = intVal.V
		}
		m.mu.Unlock()
		if !ok {
			return nil, codec.ErrUnknownIID
		}
		return value, codec.ErrNone

	default:
		return nil, codec.ErrUnknownIID
	}
}

// sampleByIndex draws a fresh uniform reading for one sensor and records
// the sample time, returning the updated row. It takes an exclusive lock:
// SAMPLE and the read that follows it must be atomic with respect to other
// readers, preserving per-sensor read ordering.
func (m *MIB) sampleByIndex(index int64) (SensorRow, codec.ErrorCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.byIndex[index]
	if !ok {
		return SensorRow{}, codec.ErrUnknownIID
	}
	row.Current = sampleUniform(row.Min, row.Max)
	row.LastSampleAt = timeNow()
	return *row, codec.ErrNone
}

func sampleUniform(min, max int64) int64 {
	if max <= min {
		return min
	}
	span := max - min + 1
	return min + rand.Int64N(span)
}
