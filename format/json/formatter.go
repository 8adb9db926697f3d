// Package json implements the JSON output format for beacons and sensor
// notifications observed by the manager CLI's watch-beacons command.
//
// Pipeline position:
//
//	manager.BeaconListener [receive] → format/json [serialize] → transport/file [write]
//
// The formatter converts a BeaconRecord — a flattened, JSON-friendly view of
// a manager.Beacon — into a JSON byte slice, one object per line when used
// together with transport/file's newline-delimited writers.
package json

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/lsnmpvs/lsnmpvs/codec"
	"github.com/lsnmpvs/lsnmpvs/manager"
)

// ─────────────────────────────────────────────────────────────────────────────
// BeaconRecord
// ─────────────────────────────────────────────────────────────────────────────

// BeaconRecord is the flattened, JSON-serialisable projection of a
// manager.Beacon. It exists so format/json need not import codec.Value's
// internal tagged-union representation into the wire schema: values are
// reduced to plain JSON scalars by valueToJSON.
type BeaconRecord struct {
	Kind        string        `json:"kind"`
	From        string        `json:"from"`
	Timestamp   string        `json:"timestamp"`
	MsgID       uint64        `json:"msg_id"`
	SensorIndex *int64        `json:"sensor_index,omitempty"`
	IIDs        []string      `json:"iids"`
	Values      []interface{} `json:"values"`
}

// NewBeaconRecord flattens b into its JSON-serialisable projection.
func NewBeaconRecord(b manager.Beacon) *BeaconRecord {
	rec := &BeaconRecord{
		Kind:      beaconKindString(b.Kind),
		Timestamp: b.PDU.Timestamp.String(),
		MsgID:     b.PDU.MsgID,
	}
	if b.From != nil {
		rec.From = b.From.String()
	}
	if b.Kind == manager.BeaconSensor {
		idx := b.SensorIndex
		rec.SensorIndex = &idx
	}
	rec.IIDs = make([]string, len(b.PDU.IIDList))
	for i, iid := range b.PDU.IIDList {
		rec.IIDs[i] = iid.String()
	}
	rec.Values = make([]interface{}, len(b.PDU.VList))
	for i, v := range b.PDU.VList {
		rec.Values[i] = valueToJSON(v)
	}
	return rec
}

func beaconKindString(k manager.BeaconKind) string {
	switch k {
	case manager.BeaconGlobal:
		return "global"
	case manager.BeaconSensor:
		return "sensor"
	default:
		return "unknown"
	}
}

// valueToJSON reduces a codec.Value to a plain JSON-marshalable scalar.
func valueToJSON(v codec.Value) interface{} {
	switch vv := v.(type) {
	case codec.ByteValue:
		return vv.V
	case codec.IntValue:
		return vv.V
	case codec.IntSeqValue:
		return vv.V
	case codec.AsciiValue:
		return vv.V
	case codec.ExtAsciiValue:
		return vv.V
	case codec.TimestampValue:
		return vv.T.String()
	case codec.IIDValue:
		return vv.V.String()
	case codec.ShortBytesValue:
		return vv.V
	case codec.LongBytesValue:
		return vv.V
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Formatter interface
// ─────────────────────────────────────────────────────────────────────────────

// Formatter serialises a BeaconRecord into a byte slice. Alternative
// formats can be added by implementing this interface without touching the
// listener or transport layers.
type Formatter interface {
	Format(rec *BeaconRecord) ([]byte, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// Configuration
// ─────────────────────────────────────────────────────────────────────────────

// Config controls JSONFormatter behaviour.
type Config struct {
	// PrettyPrint emits indented, human-readable JSON when true.
	PrettyPrint bool

	// Indent is the indent string used when PrettyPrint=true.
	// Defaults to two spaces when empty and PrettyPrint=true.
	Indent string
}

// ─────────────────────────────────────────────────────────────────────────────
// JSONFormatter
// ─────────────────────────────────────────────────────────────────────────────

// JSONFormatter implements Formatter using encoding/json from the standard
// library. It is safe for concurrent use by multiple goroutines; all fields
// are immutable after construction.
type JSONFormatter struct {
	cfg    Config
	logger *slog.Logger
}

// New constructs a JSONFormatter. If logger is nil, a no-op logger is
// substituted so the formatter never panics on a nil receiver.
func New(cfg Config, logger *slog.Logger) *JSONFormatter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	if cfg.PrettyPrint && cfg.Indent == "" {
		cfg.Indent = "  "
	}
	return &JSONFormatter{cfg: cfg, logger: logger}
}

// Format serialises rec to JSON. It returns a non-nil error when rec is nil
// or when json.Marshal itself fails. The returned byte slice is always
// non-nil on success.
func (f *JSONFormatter) Format(rec *BeaconRecord) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("format/json: record must not be nil")
	}

	var (
		data []byte
		err  error
	)

	if f.cfg.PrettyPrint {
		data, err = json.MarshalIndent(rec, "", f.cfg.Indent)
	} else {
		data, err = json.Marshal(rec)
	}

	if err != nil {
		f.logger.Error("format/json: marshal failed",
			"kind", rec.Kind,
			"from", rec.From,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("format/json: marshal: %w", err)
	}

	f.logger.Debug("format/json: formatted beacon",
		"kind", rec.Kind,
		"from", rec.From,
		"msg_id", rec.MsgID,
		"bytes", len(data),
	)

	return data, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// no-op logger writer
// ─────────────────────────────────────────────────────────────────────────────

// noopWriter discards all log output when no logger is provided.
type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }
