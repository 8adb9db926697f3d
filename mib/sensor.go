package mib

import "time"

// SensorRow is one row of the sensor table (columns 2.1..2.7). Identity
// fields (ID, Type, Min, Max) are immutable after construction; Current,
// LastSampleAt and RateTenthsHz are mutated by the Sampler and by SET
// handlers respectively.
//
// The reference implementation kept three overlapping fields for a sensor's
// reading (current_value, last_sample, last_sample_time) that were never
// all kept in sync — current_value in particular was set once at
// construction and never touched again, so every later read came from the
// separate last_sample field. That split is not reproduced here: Current
// is the single source of truth for "the most recent reading".
type SensorRow struct {
	Index         int64
	ID            string
	Type          string
	Min           int64
	Max           int64
	Current       int64
	LastSampleAt  time.Time
	RateTenthsHz  int64 // sampling rate in tenths of Hz, column 2.7
	DefaultTenths int64 // restored on reset
}

// intervalFor returns the minimum spacing between samples implied by the
// row's current rate, or zero if sampling is disabled (rate == 0).
func (r *SensorRow) intervalFor() time.Duration {
	if r.RateTenthsHz <= 0 {
		return 0
	}
	hz := float64(r.RateTenthsHz) / 10.0
	return time.Duration(float64(time.Second) / hz)
}
