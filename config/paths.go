// Package config provides YAML directory-tree loading for both ends of
// L-SNMPvS: an agent's MIB seed (device identity + sensor table) and a
// manager's list of known agent endpoints. Shape grounded on
// pkg/snmpcollector/config package (env-driven directory Paths, a Load
// entry point, per-file error accumulation so operators see every
// problem at once), re-targeted at this protocol's much smaller schema.
package config

import "os"

// Paths holds the directory locations for both configuration trees.
type Paths struct {
	AgentSeed string // LSNMPVS_AGENT_SEED_DIRECTORY_PATH
	Endpoints string // LSNMPVS_MANAGER_ENDPOINTS_DIRECTORY_PATH
}

// PathsFromEnv reads each path from its environment variable, falling
// back to the documented default when unset or empty.
func PathsFromEnv() Paths {
	return Paths{
		AgentSeed: envOr("LSNMPVS_AGENT_SEED_DIRECTORY_PATH", "/etc/lsnmpvs/agent"),
		Endpoints: envOr("LSNMPVS_MANAGER_ENDPOINTS_DIRECTORY_PATH", "/etc/lsnmpvs/endpoints"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
