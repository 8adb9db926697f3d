package manager

import (
	"fmt"

	"github.com/lsnmpvs/lsnmpvs/codec"
)

// DeviceInfo is the device group (1.x) read back as Go values instead of
// a positional value/error-code pair. Grounded on the reference
// manager's get_device_info_complete, which issues one get-request for
// 1.1-1.9 and prints each field.
type DeviceInfo struct {
	LMibID       int64
	DeviceID     string
	DeviceType   string
	BeaconSecs   int64
	SensorCount  int64
	DateTime     codec.Timestamp
	Uptime       codec.Timestamp
	OperStatus   int64
}

// SensorInfo is one sensor table row (2.x) read back as Go values.
type SensorInfo struct {
	Index          int64
	ID             string
	Type           string
	Current        int64
	Min, Max       int64
	LastSampleAgo  codec.Timestamp
	RateTenthsHz   int64
}

var deviceInfoIIDs = mustIIDs("1.1", "1.2", "1.3", "1.4", "1.5", "1.6", "1.7", "1.8")

// GetDeviceInfo issues a single get-request for device fields 1.1-1.8
// (1.9, the write-only reset trigger, is not requested) and decodes the
// response into a DeviceInfo. A per-field error code stops
// that field from being populated but does not fail the whole call;
// callers that need per-field error detail should call Client.Get
// directly instead.
func GetDeviceInfo(c *Client) (DeviceInfo, error) {
	values, _, err := c.Get(deviceInfoIIDs)
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("manager: get device info: %w", err)
	}
	if len(values) != len(deviceInfoIIDs) {
		return DeviceInfo{}, fmt.Errorf("manager: get device info: short response (%d of %d fields)", len(values), len(deviceInfoIIDs))
	}
	var info DeviceInfo
	info.LMibID = asInt(values[0])
	info.DeviceID = asString(values[1])
	info.DeviceType = asString(values[2])
	info.BeaconSecs = asInt(values[3])
	info.SensorCount = asInt(values[4])
	info.DateTime = asTimestamp(values[5])
	info.Uptime = asTimestamp(values[6])
	info.OperStatus = asInt(values[7])
	return info, nil
}

// ReadAllSensors issues one get-request per sensor index in
// [1, sensorCount] for the full row (2.1-2.7) and returns them in index
// order. Grounded on the reference manager's read_all_sensors, which
// loops over every known sensor index issuing one request per row.
func ReadAllSensors(c *Client, sensorCount int64) ([]SensorInfo, error) {
	rows := make([]SensorInfo, 0, sensorCount)
	for i := int64(1); i <= sensorCount; i++ {
		row, err := readSensorRow(c, i)
		if err != nil {
			return rows, fmt.Errorf("manager: read sensor %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readSensorRow(c *Client, index int64) (SensorInfo, error) {
	iids := mustIIDs(
		fmt.Sprintf("2.1.%d", index),
		fmt.Sprintf("2.2.%d", index),
		fmt.Sprintf("2.3.%d", index),
		fmt.Sprintf("2.4.%d", index),
		fmt.Sprintf("2.5.%d", index),
		fmt.Sprintf("2.6.%d", index),
		fmt.Sprintf("2.7.%d", index),
	)
	values, _, err := c.Get(iids)
	if err != nil {
		return SensorInfo{}, err
	}
	if len(values) != len(iids) {
		return SensorInfo{}, fmt.Errorf("short response (%d of %d fields)", len(values), len(iids))
	}
	return SensorInfo{
		Index:         index,
		ID:            asString(values[0]),
		Type:          asString(values[1]),
		Current:       asInt(values[2]),
		Min:           asInt(values[3]),
		Max:           asInt(values[4]),
		LastSampleAgo: asTimestamp(values[5]),
		RateTenthsHz:  asInt(values[6]),
	}, nil
}

// ConfigureBeaconRate sets the device's beacon period (field 1.4) to
// periodSecs seconds (0 disables beacons).
func ConfigureBeaconRate(c *Client, periodSecs int64) error {
	iid := mustIID("1.4")
	_, errs, err := c.Set([]codec.IID{iid}, []codec.Value{codec.IntValue{V: periodSecs}})
	if err != nil {
		return fmt.Errorf("manager: configure beacon rate: %w", err)
	}
	if len(errs) != 1 || errs[0] != codec.ErrNone {
		return fmt.Errorf("manager: configure beacon rate: agent rejected (%v)", errs)
	}
	return nil
}

// ConfigureSensorRate sets one sensor's sampling rate (field 2.7.index),
// in tenths of Hz, matching the wire encoding mib.SensorRow uses.
func ConfigureSensorRate(c *Client, index, rateTenthsHz int64) error {
	iid := mustIID(fmt.Sprintf("2.7.%d", index))
	_, errs, err := c.Set([]codec.IID{iid}, []codec.Value{codec.IntValue{V: rateTenthsHz}})
	if err != nil {
		return fmt.Errorf("manager: configure sensor rate: %w", err)
	}
	if len(errs) != 1 || errs[0] != codec.ErrNone {
		return fmt.Errorf("manager: configure sensor rate: agent rejected (%v)", errs)
	}
	return nil
}

// ResetDevice issues the reset-trigger write (field 1.9).
func ResetDevice(c *Client) error {
	iid := mustIID("1.9")
	_, errs, err := c.Set([]codec.IID{iid}, []codec.Value{codec.IntValue{V: 1}})
	if err != nil {
		return fmt.Errorf("manager: reset device: %w", err)
	}
	if len(errs) != 1 || errs[0] != codec.ErrNone {
		return fmt.Errorf("manager: reset device: agent rejected (%v)", errs)
	}
	return nil
}

func mustIID(s string) codec.IID {
	iid, err := codec.ParseIID(s)
	if err != nil {
		panic(fmt.Sprintf("manager: invalid built-in iid %q: %v", s, err))
	}
	return iid
}

func mustIIDs(ss ...string) []codec.IID {
	out := make([]codec.IID, len(ss))
	for i, s := range ss {
		out[i] = mustIID(s)
	}
	return out
}

func asInt(v codec.Value) int64 {
	switch vv := v.(type) {
	case codec.IntValue:
		return vv.V
	case codec.ByteValue:
		return int64(vv.V)
	default:
		return 0
	}
}

func asString(v codec.Value) string {
	switch vv := v.(type) {
	case codec.AsciiValue:
		return vv.V
	case codec.ExtAsciiValue:
		return vv.V
	default:
		return ""
	}
}

func asTimestamp(v codec.Value) codec.Timestamp {
	if ts, ok := v.(codec.TimestampValue); ok {
		return ts.T
	}
	return codec.Timestamp{}
}
