package main

import (
	"fmt"

	"github.com/lsnmpvs/lsnmpvs/config"
	"github.com/lsnmpvs/lsnmpvs/manager"
	"github.com/lsnmpvs/lsnmpvs/models"
)

// dialEndpoint resolves name against the configured endpoints directory
// and dials it.
func dialEndpoint(name string) (*manager.Client, error) {
	ep, err := resolveEndpoint(name)
	if err != nil {
		return nil, err
	}
	return manager.Dial(ep)
}

func resolveEndpoint(name string) (models.AgentEndpoint, error) {
	paths := config.PathsFromEnv()
	if endpointsDirFlag != "" {
		paths.Endpoints = endpointsDirFlag
	}
	endpoints, err := config.LoadEndpoints(paths.Endpoints, nil)
	if err != nil {
		return models.AgentEndpoint{}, fmt.Errorf("load endpoints: %w", err)
	}
	ep, ok := endpoints[name]
	if !ok {
		return models.AgentEndpoint{}, fmt.Errorf("unknown endpoint %q (checked %s)", name, paths.Endpoints)
	}
	return ep, nil
}

func statusLabel(operStatus int64) string {
	switch operStatus {
	case 0:
		return "standby"
	case 1:
		return "normal"
	case 2:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", operStatus)
	}
}
