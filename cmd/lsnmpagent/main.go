// Command lsnmpagent runs one L-SNMPvS agent: a UDP service endpoint,
// a background sampler and beacon emitter, and an optional Prometheus
// metrics endpoint.
//
// It loads its MIB seed from a YAML directory specified by an
// environment variable (or a command-line flag override) and runs until
// interrupted (SIGINT/SIGTERM).
//
// Usage:
//
//	lsnmpagent [flags]
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"flag"

	"github.com/lsnmpvs/lsnmpvs/agent"
	"github.com/lsnmpvs/lsnmpvs/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lsnmpagent: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		logLevel     string
		logFmt       string
		serviceAddr  string
		notifyAddr   string
		metricsAddr  string
		sharedSecret string
		workers      int
		seedDir      string
	)

	flag.StringVar(&logLevel, "log.level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&logFmt, "log.fmt", "json", "Log format: json, text")
	flag.StringVar(&serviceAddr, "service.addr", "0.0.0.0:1161", "UDP address for get/set requests")
	flag.StringVar(&notifyAddr, "notify.addr", "255.255.255.255:1163", "UDP broadcast address for beacons and sensor notifications")
	flag.StringVar(&metricsAddr, "metrics.addr", "", "Prometheus /metrics listen address (empty disables it)")
	flag.StringVar(&sharedSecret, "shared.secret", "default_key_12345678", "Shared secret the framer key is derived from")
	flag.IntVar(&workers, "workers", 16, "Request worker pool size")
	flag.StringVar(&seedDir, "config.agent.seed", "", "Override LSNMPVS_AGENT_SEED_DIRECTORY_PATH")
	flag.Parse()

	logger, err := buildLogger(logLevel, logFmt)
	if err != nil {
		return err
	}

	paths := config.PathsFromEnv()
	if seedDir != "" {
		paths.AgentSeed = seedDir
	}
	seed, err := config.LoadAgentSeed(paths.AgentSeed, logger)
	if err != nil {
		return fmt.Errorf("load agent seed: %w", err)
	}

	a := agent.New(agent.Config{
		ServiceAddr:      serviceAddr,
		NotificationAddr: notifyAddr,
		MetricsAddr:      metricsAddr,
		SharedSecret:     sharedSecret,
		Workers:          workers,
		Seed:             seed,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	logger.Info("lsnmpagent: running — press Ctrl-C to stop", "device_id", seed.DeviceID)
	<-ctx.Done()
	logger.Info("lsnmpagent: received shutdown signal")
	a.Stop()
	return nil
}

func buildLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q (expected debug|info|warn|error)", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q (expected json|text)", format)
	}
	return slog.New(handler), nil
}
