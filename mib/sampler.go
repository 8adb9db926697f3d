package mib

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/lsnmpvs/lsnmpvs/codec"
)

// pollInterval is the sampler's tick resolution (~10ms).
const pollInterval = 10 * time.Millisecond

// Sampler drives the per-sensor sampling loop: on every tick it checks each
// sensor's due time against its configured rate, calls SAMPLE when due, and
// publishes a notification PDU on Notifications. The reference modeled
// this fan-out as a callback held by the sampler pointing back at the
// agent's emitter; that cyclic reference is replaced with a channel the
// sampler writes and the agent's emitter drains.
type Sampler struct {
	mib    *MIB
	logger *slog.Logger

	Notifications chan codec.PDU

	mu     sync.Mutex
	nextID uint64

	done chan struct{}
}

// NewSampler creates a Sampler over mib. The notification channel is
// buffered so a slow emitter doesn't stall sampling; the agent is expected
// to keep draining it.
func NewSampler(m *MIB, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	return &Sampler{
		mib:           m,
		logger:        logger,
		Notifications: make(chan codec.PDU, 64),
		done:          make(chan struct{}),
	}
}

// Start runs the sampling loop until ctx is cancelled. Missed deadlines are
// never compensated: the scheduler only ever checks "is it due now", so a
// tick that arrives late just samples immediately with no catch-up burst.
func (s *Sampler) Start(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// Stop waits for the sampling loop to exit. The caller must cancel the
// context passed to Start first.
func (s *Sampler) Stop() {
	<-s.done
}

func (s *Sampler) tick() {
	now := timeNow()
	for _, index := range s.mib.DueSensors(now) {
		sampled, errCode := s.mib.sampleByIndex(index)
		if errCode != codec.ErrNone {
			continue
		}
		s.publish(sampled)
	}
}

func (s *Sampler) publish(row SensorRow) {
	iid := IID23(row.Index)
	pdu := codec.PDU{
		Type:      codec.MsgNotification,
		Timestamp: currentTimestamp(),
		MsgID:     s.nextMsgID(),
		IIDList:   []codec.IID{iid},
		VList:     []codec.Value{codec.IntValue{V: row.Current}},
	}
	select {
	case s.Notifications <- pdu:
	default:
		s.logger.Warn("mib: notification channel full, dropping sample", "sensor", row.Index)
	}
}

func (s *Sampler) nextMsgID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID
}

// IID23 builds the "2.3.k" instance identifier for sensor k's current
// reading, the shape sensor notifications carry.
func IID23(index int64) codec.IID {
	iid, _ := codec.ParseIID("2.3." + strconv.FormatInt(index, 10))
	return iid
}
