// Package file — split.go provides a Transport that writes global-device
// beacons and per-sensor notifications to separate destinations (files).
//
// Pipeline position:
//
//	format/json [serialize] → transport/file/split [write]
//
// Routing logic:
//   - JSON payloads containing `"kind":"sensor"` → sensor writer
//   - Everything else (global beacons) → global writer
//
// Both writers can be plain io.Writers (os.Stdout, *os.File) or RotatingFile
// instances for automatic size-based rotation.
package file

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// ─────────────────────────────────────────────────────────────────────────────
// SplitConfig
// ─────────────────────────────────────────────────────────────────────────────

// SplitConfig controls SplitWriterTransport behaviour.
type SplitConfig struct {
	// GlobalWriter receives global-device beacon payloads.
	// nil defaults to os.Stdout.
	GlobalWriter io.Writer

	// SensorWriter receives per-sensor notification payloads.
	// nil defaults to os.Stderr.
	SensorWriter io.Writer

	// Newline appended after each message.  Default "\n".
	Newline string
}

// ─────────────────────────────────────────────────────────────────────────────
// SplitWriterTransport
// ─────────────────────────────────────────────────────────────────────────────

// SplitWriterTransport implements Transport by routing each JSON message to one
// of two io.Writers based on its content type.  It is safe for concurrent use.
//
// Detection: a fast bytes.Contains check for the `"kind":"sensor"` key is
// used instead of full JSON unmarshalling to keep the hot path
// allocation-free.
type SplitWriterTransport struct {
	globalMu sync.Mutex
	sensorMu sync.Mutex
	globalW  io.Writer
	sensorW  io.Writer
	nl       []byte
	closers  []io.Closer
	logger   *slog.Logger
}

// sensorMarker is the byte sequence used to identify per-sensor
// notification payloads. Every sensor BeaconRecord's "kind" field carries
// this exact value.
var sensorMarker = []byte(`"kind":"sensor"`)

// NewSplit constructs a SplitWriterTransport.
//
//   - cfg.GlobalWriter defaults to os.Stdout when nil.
//   - cfg.SensorWriter defaults to os.Stderr when nil.
//   - cfg.Newline defaults to "\n" when empty.
//   - logger defaults to a no-op logger when nil.
func NewSplit(cfg SplitConfig, logger *slog.Logger) *SplitWriterTransport {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}

	gw := cfg.GlobalWriter
	if gw == nil {
		gw = os.Stdout
	}
	sw := cfg.SensorWriter
	if sw == nil {
		sw = os.Stderr
	}
	nl := cfg.Newline
	if nl == "" {
		nl = "\n"
	}

	st := &SplitWriterTransport{
		globalW: gw,
		sensorW: sw,
		nl:      []byte(nl),
		logger:  logger,
	}

	// Track io.Closers so Close() can clean up RotatingFile instances.
	if c, ok := gw.(io.Closer); ok && gw != os.Stdout && gw != os.Stderr {
		st.closers = append(st.closers, c)
	}
	if c, ok := sw.(io.Closer); ok && sw != os.Stdout && sw != os.Stderr {
		st.closers = append(st.closers, c)
	}

	return st
}

// Send inspects data for the sensor marker and routes to the appropriate
// writer.
func (st *SplitWriterTransport) Send(data []byte) error {
	if bytes.Contains(data, sensorMarker) {
		return st.writeSensor(data)
	}
	return st.writeGlobal(data)
}

// Close flushes and closes any io.Closer writers (e.g. RotatingFile).
// Plain os.Stdout / os.Stderr are never closed.
func (st *SplitWriterTransport) Close() error {
	var firstErr error
	for _, c := range st.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ─────────────────────────────────────────────────────────────────────────────

func (st *SplitWriterTransport) writeGlobal(data []byte) error {
	st.globalMu.Lock()
	defer st.globalMu.Unlock()

	if _, err := st.globalW.Write(data); err != nil {
		st.logger.Error("transport/file: global beacon write failed",
			"error", err.Error(), "bytes", len(data),
		)
		return fmt.Errorf("transport/file: global write: %w", err)
	}
	if _, err := st.globalW.Write(st.nl); err != nil {
		st.logger.Error("transport/file: global beacon newline write failed",
			"error", err.Error(),
		)
		return fmt.Errorf("transport/file: global write newline: %w", err)
	}

	st.logger.Debug("transport/file: sent global beacon", "bytes", len(data))
	return nil
}

func (st *SplitWriterTransport) writeSensor(data []byte) error {
	st.sensorMu.Lock()
	defer st.sensorMu.Unlock()

	if _, err := st.sensorW.Write(data); err != nil {
		st.logger.Error("transport/file: sensor notification write failed",
			"error", err.Error(), "bytes", len(data),
		)
		return fmt.Errorf("transport/file: sensor write: %w", err)
	}
	if _, err := st.sensorW.Write(st.nl); err != nil {
		st.logger.Error("transport/file: sensor notification newline write failed",
			"error", err.Error(),
		)
		return fmt.Errorf("transport/file: sensor write newline: %w", err)
	}

	st.logger.Debug("transport/file: sent sensor notification", "bytes", len(data))
	return nil
}
