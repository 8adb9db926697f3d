package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lsnmpvs/lsnmpvs/codec"
	"github.com/lsnmpvs/lsnmpvs/framer"
)

// BeaconKind distinguishes the two shapes a beacon's IID list can take.
type BeaconKind int

const (
	// BeaconUnknown is an iid shape the listener doesn't recognize.
	BeaconUnknown BeaconKind = iota
	// BeaconGlobal is the device-wide beacon {1.1, 1.2, 1.5, 1.8}.
	BeaconGlobal
	// BeaconSensor is a single-sensor notification {2.3.k}.
	BeaconSensor
)

// Beacon is one decoded notification PDU plus the classification the
// listener derived from its IID list shape.
type Beacon struct {
	Kind      BeaconKind
	From      *net.UDPAddr
	PDU       codec.PDU
	// SensorIndex is set only when Kind == BeaconSensor.
	SensorIndex int64
}

// BeaconListener listens on a UDP broadcast port for agent beacons and
// sensor notifications, classifying and forwarding them on a channel.
// Concurrency shape grounded on
// pkg/snmpcollector/trapreceiver.TrapReceiver (Start(ctx) spawning a
// cancellable ReadFromUDP loop feeding an output channel); the
// classification logic is grounded on the reference manager's
// udp_client.py _handle_beacon.
type BeaconListener struct {
	listenAddr string
	key        [16]byte
	logger     *slog.Logger

	output chan Beacon

	mu      sync.Mutex
	conn    *net.UDPConn
	running bool
	eg      *errgroup.Group
}

// NewBeaconListener constructs a listener bound to listenAddr (e.g.
// "0.0.0.0:1163") once Start is called.
func NewBeaconListener(listenAddr string, sharedSecret string, logger *slog.Logger) *BeaconListener {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	return &BeaconListener{
		listenAddr: listenAddr,
		key:        framer.Key(sharedSecret),
		logger:     logger,
		output:     make(chan Beacon, 256),
	}
}

// Output returns the channel beacons are delivered on. It is closed when
// the listener stops.
func (l *BeaconListener) Output() <-chan Beacon { return l.output }

// Start binds the UDP socket and begins receiving. It returns once the
// socket is bound; reception runs in a background goroutine until ctx is
// cancelled or Stop is called.
func (l *BeaconListener) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return fmt.Errorf("manager: beacon listener already running")
	}
	addr, err := net.ResolveUDPAddr("udp4", l.listenAddr)
	if err != nil {
		l.mu.Unlock()
		return fmt.Errorf("manager: resolve beacon addr: %w", err)
	}
	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		l.mu.Unlock()
		return fmt.Errorf("manager: bind beacon socket: %w", err)
	}
	l.conn = conn
	l.running = true
	eg := &errgroup.Group{}
	l.eg = eg
	l.mu.Unlock()

	eg.Go(l.receiveLoop)
	go func() {
		<-ctx.Done()
		l.Stop()
	}()
	l.logger.Info("manager: beacon listener started", "addr", l.listenAddr)
	return nil
}

// Stop closes the socket, waits for the receive loop to exit, and closes
// the output channel. Safe to call more than once.
func (l *BeaconListener) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	conn := l.conn
	eg := l.eg
	l.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if eg != nil {
		if err := eg.Wait(); err != nil {
			l.logger.Error("manager: beacon receive loop exited with error", "error", err.Error())
		}
	}
	close(l.output)
	l.logger.Info("manager: beacon listener stopped")
}

// receiveLoop reads and classifies beacons until the socket is closed by
// Stop. A closed-connection read error ends the loop cleanly (nil); any
// other error is surfaced through the errgroup.
func (l *BeaconListener) receiveLoop() error {
	buf := make([]byte, 65535)
	for {
		n, addr, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		plain, err := framer.Open(l.key, buf[:n])
		if err != nil {
			l.logger.Warn("manager: beacon open failed", "addr", addr, "error", err.Error())
			continue
		}
		pdu, err := codec.DecodePDU(plain, false)
		if err != nil {
			l.logger.Warn("manager: beacon decode failed", "addr", addr, "error", err.Error())
			continue
		}
		b := classify(pdu, addr)
		select {
		case l.output <- b:
		default:
			l.logger.Warn("manager: beacon output full, dropping", "addr", addr)
		}
	}
}

// classify mirrors the reference manager's _handle_beacon: the global
// beacon carries exactly the four device-wide iids {1.1,1.2,1.5,1.8} in
// that order, a sensor notification carries exactly one iid shaped
// "2.3.k".
func classify(pdu codec.PDU, addr *net.UDPAddr) Beacon {
	if isGlobalShape(pdu.IIDList) {
		return Beacon{Kind: BeaconGlobal, From: addr, PDU: pdu}
	}
	if len(pdu.IIDList) == 1 {
		iid := pdu.IIDList[0]
		if iid.Parts == 3 && iid.S == 2 && iid.O == 3 {
			return Beacon{Kind: BeaconSensor, From: addr, PDU: pdu, SensorIndex: int64(iid.I1)}
		}
	}
	return Beacon{Kind: BeaconUnknown, From: addr, PDU: pdu}
}

func isGlobalShape(iids []codec.IID) bool {
	want := []string{"1.1", "1.2", "1.5", "1.8"}
	if len(iids) != len(want) {
		return false
	}
	for i, iid := range iids {
		if iid.String() != want[i] {
			return false
		}
	}
	return true
}
