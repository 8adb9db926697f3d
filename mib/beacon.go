package mib

import (
	"context"
	"log/slog"
	"time"

	"github.com/lsnmpvs/lsnmpvs/codec"
)

// beaconCheckInterval is how often the emitter re-checks the configured
// beacon period against the wall clock. A zero period suspends emission
// without stopping the loop, so that a later SET(1.4, n>0) takes effect
// within one check interval rather than requiring a restart.
const beaconCheckInterval = 1 * time.Second

// globalBeaconIIDs is the fixed shape the manager recognises as a device
// status beacon.
var globalBeaconIIDs = []codec.IID{
	mustIID("1.1"), mustIID("1.2"), mustIID("1.5"), mustIID("1.8"),
}

func mustIID(s string) codec.IID {
	iid, err := codec.ParseIID(s)
	if err != nil {
		panic("mib: invalid built-in iid " + s + ": " + err.Error())
	}
	return iid
}

// BeaconEmitter periodically composes and publishes a device-status
// beacon. Grounded on the reference's beacon loop: it sleeps for the
// configured period and a zero period suspends emission until the value
// changes away from zero.
type BeaconEmitter struct {
	mib    *MIB
	logger *slog.Logger

	Beacons chan codec.PDU

	lastEmit time.Time
	done     chan struct{}
}

// NewBeaconEmitter creates a BeaconEmitter over mib.
func NewBeaconEmitter(m *MIB, logger *slog.Logger) *BeaconEmitter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	return &BeaconEmitter{
		mib:     m,
		logger:  logger,
		Beacons: make(chan codec.PDU, 8),
		done:    make(chan struct{}),
	}
}

// Start runs the beacon loop until ctx is cancelled.
func (b *BeaconEmitter) Start(ctx context.Context) {
	defer close(b.done)
	ticker := time.NewTicker(beaconCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.maybeEmit()
		}
	}
}

// Stop waits for the beacon loop to exit. The caller must cancel the
// context passed to Start first.
func (b *BeaconEmitter) Stop() {
	<-b.done
}

func (b *BeaconEmitter) maybeEmit() {
	period := b.mib.BeaconPeriodSeconds()
	if period <= 0 {
		return
	}
	now := timeNow()
	if !b.lastEmit.IsZero() && now.Sub(b.lastEmit) < time.Duration(period)*time.Second {
		return
	}
	b.lastEmit = now

	values, _ := b.mib.Get(globalBeaconIIDs)
	pdu := codec.PDU{
		Type:      codec.MsgNotification,
		Timestamp: currentTimestamp(),
		MsgID:     0,
		IIDList:   globalBeaconIIDs,
		VList:     values,
	}
	select {
	case b.Beacons <- pdu:
	default:
		b.logger.Warn("mib: beacon channel full, dropping beacon")
	}
}
