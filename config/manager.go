package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lsnmpvs/lsnmpvs/models"
)

// rawEndpointFile is the top-level shape of one endpoints YAML file: a
// map keyed by endpoint name, mirroring the reference loader's device-file shape
// (map[hostname]rawDeviceEntry in pkg/snmpcollector/config/loader.go).
type rawEndpointFile map[string]rawEndpointEntry

type rawEndpointEntry struct {
	Host             string `yaml:"host"`
	ServicePort      int    `yaml:"service_port"`
	NotificationPort int    `yaml:"notification_port"`
	SharedSecret     string `yaml:"shared_secret"`
}

// LoadEndpoints reads every YAML file under dir and returns the union of
// their agent endpoints, keyed by name. A later file's entry for the
// same name overwrites an earlier one. A missing directory yields an
// empty, non-nil map.
func LoadEndpoints(dir string, logger *slog.Logger) (map[string]models.AgentEndpoint, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}

	result := make(map[string]models.AgentEndpoint)
	files, err := yamlFiles(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, fmt.Errorf("config: list endpoints dir %q: %w", dir, err)
	}

	var errs []string
	for _, path := range files {
		var raw rawEndpointFile
		if err := decodeFile(path, &raw); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		for name, e := range raw {
			servicePort := e.ServicePort
			if servicePort == 0 {
				servicePort = 1161
			}
			notifyPort := e.NotificationPort
			if notifyPort == 0 {
				notifyPort = 1163
			}
			result[name] = models.AgentEndpoint{
				Name:             name,
				Host:             e.Host,
				ServicePort:      servicePort,
				NotificationPort: notifyPort,
				SharedSecret:     e.SharedSecret,
			}
		}
		logger.Debug("config: loaded endpoints file", "file", path, "count", len(raw))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %d endpoint file error(s):\n  %s", len(errs), strings.Join(errs, "\n  "))
	}
	return result, nil
}
