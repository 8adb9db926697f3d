package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lsnmpvs/lsnmpvs/models"
)

// LoadAgentSeed reads every YAML file under dir and merges them into one
// models.AgentSeed: device-group scalars are filled in first-file-wins
// (files are visited in path order), sensors from every file are
// appended and de-duplicated by index, last definition for a given index
// wins. This lets an operator split device identity and sensor table
// into separate files, or one per sensor, the way the reference loader's device
// config directory allows one file per device.
//
// A missing directory is not an error — it yields models.DefaultAgentSeed()
// so a fresh checkout has a runnable agent with no configuration at all.
func LoadAgentSeed(dir string, logger *slog.Logger) (models.AgentSeed, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}

	files, err := yamlFiles(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return models.DefaultAgentSeed(), nil
		}
		return models.AgentSeed{}, fmt.Errorf("config: list agent seed dir %q: %w", dir, err)
	}
	if len(files) == 0 {
		return models.DefaultAgentSeed(), nil
	}

	var seed models.AgentSeed
	sensorsByIndex := make(map[int64]models.SensorSeed)
	var order []int64

	var errs []string
	for _, path := range files {
		var part models.AgentSeed
		if err := decodeFile(path, &part); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		mergeAgentScalars(&seed, part)
		for _, s := range part.Sensors {
			if _, seen := sensorsByIndex[s.Index]; !seen {
				order = append(order, s.Index)
			}
			sensorsByIndex[s.Index] = s
		}
		logger.Debug("config: loaded agent seed file", "file", path, "sensors", len(part.Sensors))
	}
	if len(errs) > 0 {
		return models.AgentSeed{}, fmt.Errorf("config: %d agent seed error(s):\n  %s", len(errs), strings.Join(errs, "\n  "))
	}

	seed.Sensors = make([]models.SensorSeed, len(order))
	for i, idx := range order {
		seed.Sensors[i] = sensorsByIndex[idx]
	}
	return seed, nil
}

func mergeAgentScalars(dst *models.AgentSeed, src models.AgentSeed) {
	if dst.LMibID == 0 {
		dst.LMibID = src.LMibID
	}
	if dst.DeviceID == "" {
		dst.DeviceID = src.DeviceID
	}
	if dst.DeviceType == "" {
		dst.DeviceType = src.DeviceType
	}
	if dst.BeaconSecs == 0 {
		dst.BeaconSecs = src.BeaconSecs
	}
}
