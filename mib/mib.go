// Package mib implements the agent's in-memory Management Information
// Base: the device group (1.x), the sensor table (2.x), the sampler that
// drives per-sensor readings, and the beacon emitter that reports device
// status. The MIB itself is an opaque, lock-protected object — callers
// reach it only through its methods (Get, Set, Reset, SetStatus and the
// read accessors), never through exported fields,
// mirroring how the reference's connection pool and worker pool hide their
// internal state behind methods.
package mib

import (
	"sync"
	"time"

	"github.com/lsnmpvs/lsnmpvs/codec"
	"github.com/lsnmpvs/lsnmpvs/models"
)

// Operational status values for device field 1.8.
const (
	StatusStandby = 0
	StatusNormal  = 1
	StatusError   = 2
)

// MIB is the authoritative runtime state of one agent. Zero value is not
// usable; construct with New.
type MIB struct {
	mu sync.RWMutex

	lmibID             int64
	deviceID           string
	deviceType         string
	beaconPeriodSecs   int64
	defaultBeaconSecs  int64
	operStatus         int64
	bootTime           time.Time

	sensors   []*SensorRow
	byIndex   map[int64]*SensorRow
}

// New builds a MIB from a configuration seed. Sensor identity (id, type,
// min, max) is fixed for the process lifetime; only readings, sample
// times, beacon period and per-row rates ever change afterward.
func New(seed models.AgentSeed) *MIB {
	m := &MIB{
		lmibID:            seed.LMibID,
		deviceID:          seed.DeviceID,
		deviceType:        seed.DeviceType,
		beaconPeriodSecs:  seed.BeaconSecs,
		defaultBeaconSecs: seed.BeaconSecs,
		operStatus:        StatusNormal,
		bootTime:          timeNow(),
		byIndex:           make(map[int64]*SensorRow, len(seed.Sensors)),
	}
	for _, s := range seed.Sensors {
		tenths := int64(s.DefaultRateHz*10 + 0.5)
		row := &SensorRow{
			Index:         s.Index,
			ID:            s.ID,
			Type:          s.Type,
			Min:           s.Min,
			Max:           s.Max,
			Current:       s.Min,
			LastSampleAt:  m.bootTime,
			RateTenthsHz:  tenths,
			DefaultTenths: tenths,
		}
		m.sensors = append(m.sensors, row)
		m.byIndex[s.Index] = row
	}
	return m
}

// SensorIndices returns every configured sensor's table index, in
// configuration order. The returned slice is a copy.
func (m *MIB) SensorIndices() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int64, len(m.sensors))
	for i, s := range m.sensors {
		out[i] = s.Index
	}
	return out
}

// uptime returns the elapsed-time value for field 1.7, derived from the
// wall clock rather than stored.
func (m *MIB) uptime() codec.Timestamp {
	return elapsedSince(m.bootTime)
}

// BeaconPeriodSeconds returns the currently configured beacon period
// (field 1.4); zero means beacons are suspended.
func (m *MIB) BeaconPeriodSeconds() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.beaconPeriodSecs
}

// DueSensors returns the indices of every sensor whose configured interval
// has elapsed since its last sample, as of now. Reading the due-check
// under a shared lock (rather than racing the exclusive sampleByIndex
// call per row) keeps the check-and-sample sequence safe without holding
// the lock across every row's sample draw.
func (m *MIB) DueSensors(now time.Time) []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var due []int64
	for _, row := range m.sensors {
		interval := row.intervalFor()
		if interval <= 0 {
			continue
		}
		if now.Sub(row.LastSampleAt) >= interval {
			due = append(due, row.Index)
		}
	}
	return due
}

func elapsedSince(since time.Time) codec.Timestamp {
	d := timeNow().Sub(since)
	days := int64(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int64(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int64(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute
	seconds := int64(d / time.Second)
	d -= time.Duration(seconds) * time.Second
	ms := int64(d / time.Millisecond)
	return codec.Timestamp{
		Kind:   codec.TimestampElapsed,
		Days:   uint16(days),
		Hour:   uint8(hours),
		Minute: uint8(minutes),
		Second: uint8(seconds),
		Ms:     uint16(ms),
	}
}
