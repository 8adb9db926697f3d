// Package models holds the shared domain types used across every other
// package in this module. Nothing in this package depends on any other
// internal package, so it is always safe to import.
package models

// AgentSeed is the configuration-supplied initial content of an agent's
// MIB: the device group scalars and the sensor table rows. It is the
// external-configuration analog of the MIB lifecycle rule that rows are
// immutable for identity after creation.
type AgentSeed struct {
	LMibID      int64        `yaml:"l_mib_id"`
	DeviceID    string       `yaml:"device_id"`
	DeviceType  string       `yaml:"device_type"`
	BeaconSecs  int64        `yaml:"beacon_period_seconds"`
	Sensors     []SensorSeed `yaml:"sensors"`
}

// SensorSeed is the immutable identity plus default configuration of one
// sensor-table row: id, type, bounds, and the sampling rate the row resets
// to when the device is reset.
type SensorSeed struct {
	Index             int64   `yaml:"index"`
	ID                string  `yaml:"id"`
	Type              string  `yaml:"type"`
	Min               int64   `yaml:"min"`
	Max               int64   `yaml:"max"`
	DefaultRateHz     float64 `yaml:"default_sampling_rate_hz"`
}

// DefaultAgentSeed mirrors the reference deployment's demo fixture: eight
// sensors with varied ranges and sampling rates, relabeled with generic
// English sensor-type names.
func DefaultAgentSeed() AgentSeed {
	return AgentSeed{
		LMibID:     123,
		DeviceID:   "agent-001",
		DeviceType: "sensing-hub",
		BeaconSecs: 30,
		Sensors: []SensorSeed{
			{Index: 1, ID: "sensor-1", Type: "temperature", Min: 0, Max: 100, DefaultRateHz: 1},
			{Index: 2, ID: "sensor-2", Type: "humidity", Min: -50, Max: 50, DefaultRateHz: 1},
			{Index: 3, ID: "sensor-3", Type: "light", Min: 0, Max: 1000, DefaultRateHz: 2},
			{Index: 4, ID: "sensor-4", Type: "pressure", Min: 980, Max: 1020, DefaultRateHz: 0.2},
			{Index: 5, ID: "sensor-5", Type: "air-quality", Min: 0, Max: 100, DefaultRateHz: 0.15},
			{Index: 6, ID: "sensor-6", Type: "external-temperature", Min: -20, Max: 60, DefaultRateHz: 0.08},
			{Index: 7, ID: "sensor-7", Type: "noise", Min: 0, Max: 500, DefaultRateHz: 0.25},
			{Index: 8, ID: "sensor-8", Type: "battery", Min: 0, Max: 100, DefaultRateHz: 0.3},
		},
	}
}

// AgentEndpoint identifies one agent a manager can talk to.
type AgentEndpoint struct {
	Name             string `yaml:"name"`
	Host             string `yaml:"host"`
	ServicePort      int    `yaml:"service_port"`
	NotificationPort int    `yaml:"notification_port"`
	SharedSecret     string `yaml:"shared_secret"`
}
