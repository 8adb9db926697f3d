package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lsnmpvs/lsnmpvs/config"
)

func tmpDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestPathsFromEnvDefaults(t *testing.T) {
	t.Setenv("LSNMPVS_AGENT_SEED_DIRECTORY_PATH", "")
	t.Setenv("LSNMPVS_MANAGER_ENDPOINTS_DIRECTORY_PATH", "")
	p := config.PathsFromEnv()
	require.Equal(t, "/etc/lsnmpvs/agent", p.AgentSeed)
	require.Equal(t, "/etc/lsnmpvs/endpoints", p.Endpoints)
}

func TestPathsFromEnvOverride(t *testing.T) {
	t.Setenv("LSNMPVS_AGENT_SEED_DIRECTORY_PATH", "/custom/agent")
	p := config.PathsFromEnv()
	require.Equal(t, "/custom/agent", p.AgentSeed)
}

func TestLoadAgentSeedMissingDirFallsBackToDefault(t *testing.T) {
	seed, err := config.LoadAgentSeed(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	require.NoError(t, err)
	require.Equal(t, "agent-001", seed.DeviceID)
	require.Len(t, seed.Sensors, 8)
}

var deviceYAML = `
l_mib_id: 42
device_id: hub-7
device_type: sensing-hub
beacon_period_seconds: 15
`

var sensorsYAML = `
sensors:
  - index: 1
    id: s1
    type: temperature
    min: 0
    max: 100
    default_sampling_rate_hz: 2
  - index: 2
    id: s2
    type: humidity
    min: 0
    max: 80
    default_sampling_rate_hz: 0.5
`

func TestLoadAgentSeedMergesMultipleFiles(t *testing.T) {
	dir := tmpDir(t, map[string]string{
		"01-device.yaml":  deviceYAML,
		"02-sensors.yaml": sensorsYAML,
	})
	seed, err := config.LoadAgentSeed(dir, nil)
	require.NoError(t, err)
	require.Equal(t, int64(42), seed.LMibID)
	require.Equal(t, "hub-7", seed.DeviceID)
	require.Equal(t, int64(15), seed.BeaconSecs)
	require.Len(t, seed.Sensors, 2)
	require.Equal(t, "s1", seed.Sensors[0].ID)
}

func TestLoadAgentSeedLaterFileWinsPerSensorIndex(t *testing.T) {
	dir := tmpDir(t, map[string]string{
		"01.yaml": "sensors:\n  - index: 1\n    id: old\n    type: temperature\n    min: 0\n    max: 1\n",
		"02.yaml": "sensors:\n  - index: 1\n    id: new\n    type: temperature\n    min: 0\n    max: 1\n",
	})
	seed, err := config.LoadAgentSeed(dir, nil)
	require.NoError(t, err)
	require.Len(t, seed.Sensors, 1)
	require.Equal(t, "new", seed.Sensors[0].ID)
}

func TestLoadAgentSeedReportsMalformedFile(t *testing.T) {
	dir := tmpDir(t, map[string]string{
		"bad.yaml": "this: [is, not, : valid",
	})
	_, err := config.LoadAgentSeed(dir, nil)
	require.Error(t, err)
}

var endpointsYAML = `
hub-a:
  host: 10.0.0.1
  service_port: 1161
  notification_port: 1163
  shared_secret: secret-a
hub-b:
  host: 10.0.0.2
  shared_secret: secret-b
`

func TestLoadEndpointsAppliesPortDefaults(t *testing.T) {
	dir := tmpDir(t, map[string]string{"endpoints.yaml": endpointsYAML})
	eps, err := config.LoadEndpoints(dir, nil)
	require.NoError(t, err)
	require.Len(t, eps, 2)
	require.Equal(t, 1161, eps["hub-a"].ServicePort)
	require.Equal(t, 1161, eps["hub-b"].ServicePort, "missing service_port defaults to 1161")
	require.Equal(t, 1163, eps["hub-b"].NotificationPort)
	require.Equal(t, "hub-b", eps["hub-b"].Name)
}

func TestLoadEndpointsMissingDirIsEmptyNotError(t *testing.T) {
	eps, err := config.LoadEndpoints(filepath.Join(t.TempDir(), "nope"), nil)
	require.NoError(t, err)
	require.Empty(t, eps)
}
