// Package agent implements the agent-side transport endpoint: a
// request/response dispatcher bound to a service port, a concurrent
// sampler and beacon emitter broadcasting to a notification port, all
// sharing one mib.MIB. Lifecycle shape (context-cancelled goroutines,
// ordered shutdown) is grounded on pkg/snmpcollector/app.App,
// generalized from a channel pipeline to a request/dispatch/reply loop
// plus background emitters; the goroutines are supervised by an
// errgroup.Group instead of a bare sync.WaitGroup so the first background
// loop to fail is observable on Stop rather than silently swallowed.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/lsnmpvs/lsnmpvs/codec"
	"github.com/lsnmpvs/lsnmpvs/framer"
	"github.com/lsnmpvs/lsnmpvs/mib"
	"github.com/lsnmpvs/lsnmpvs/models"
)

// Config configures an Agent. Zero-value fields fall back to defaults via
// withDefaults.
type Config struct {
	// ServiceAddr is the unicast request/response bind address, e.g.
	// "0.0.0.0:1161".
	ServiceAddr string
	// NotificationAddr is the broadcast destination for beacons and
	// sensor notifications, e.g. "255.255.255.255:1163".
	NotificationAddr string
	// MetricsAddr, if non-empty, serves Prometheus metrics at /metrics.
	MetricsAddr string
	// SharedSecret derives the framer key.
	SharedSecret string
	// Workers is the size of the request worker pool.
	Workers int
	// Seed is the initial MIB content.
	Seed models.AgentSeed
}

func (c *Config) withDefaults() {
	if c.ServiceAddr == "" {
		c.ServiceAddr = "0.0.0.0:1161"
	}
	if c.NotificationAddr == "" {
		c.NotificationAddr = "255.255.255.255:1163"
	}
	if c.Workers <= 0 {
		c.Workers = 16
	}
}

// Agent is one running L-SNMPvS agent: MIB, sampler, beacon emitter and
// the two UDP sockets that serve them.
type Agent struct {
	cfg    Config
	logger *slog.Logger
	key    [16]byte

	m       *mib.MIB
	sampler *mib.Sampler
	beacon  *mib.BeaconEmitter
	pool    *workerPool
	dedup   *dedup
	metrics *metricsRegistry

	conn       *net.UDPConn
	notifyConn *net.UDPConn
	notifyAddr *net.UDPAddr

	cancel context.CancelFunc
	eg     *errgroup.Group
}

// New constructs an Agent. It does not bind any socket or start any
// goroutine — call Start for that.
func New(cfg Config, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	cfg.withDefaults()
	m := mib.New(cfg.Seed)
	a := &Agent{
		cfg:     cfg,
		logger:  logger,
		key:     framer.Key(cfg.SharedSecret),
		m:       m,
		sampler: mib.NewSampler(m, logger),
		beacon:  mib.NewBeaconEmitter(m, logger),
		dedup:   newDedup(),
		metrics: newMetricsRegistry(),
	}
	a.pool = newWorkerPool(cfg.Workers, a, logger)
	return a
}

// MIB returns the agent's underlying MIB, for management-plane use
// (tests, embedding hosts that want direct access alongside the network
// endpoint).
func (a *Agent) MIB() *mib.MIB { return a.m }

// Start binds both UDP sockets and launches the request loop, sampler,
// beacon emitter, and (if configured) the metrics server. The caller must
// eventually call Stop.
func (a *Agent) Start(ctx context.Context) error {
	serviceAddr, err := net.ResolveUDPAddr("udp4", a.cfg.ServiceAddr)
	if err != nil {
		return fmt.Errorf("agent: resolve service addr: %w", err)
	}
	conn, err := net.ListenUDP("udp4", serviceAddr)
	if err != nil {
		return fmt.Errorf("agent: bind service socket: %w", err)
	}
	a.conn = conn

	notifyAddr, err := net.ResolveUDPAddr("udp4", a.cfg.NotificationAddr)
	if err != nil {
		conn.Close()
		return fmt.Errorf("agent: resolve notification addr: %w", err)
	}
	a.notifyAddr = notifyAddr

	notifyConn, err := listenBroadcastUDP(":0")
	if err != nil {
		conn.Close()
		return fmt.Errorf("agent: bind notification socket: %w", err)
	}
	a.notifyConn = notifyConn

	pipeCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	eg, egCtx := errgroup.WithContext(pipeCtx)
	a.eg = eg

	a.pool.Start(pipeCtx)

	eg.Go(func() error {
		a.sampler.Start(egCtx)
		return nil
	})

	eg.Go(func() error {
		a.beacon.Start(egCtx)
		return nil
	})

	eg.Go(func() error {
		a.receiveLoop(egCtx)
		return nil
	})

	eg.Go(func() error {
		a.emitLoop(egCtx)
		return nil
	})

	if a.cfg.MetricsAddr != "" {
		eg.Go(func() error {
			return a.metrics.serve(egCtx, a.cfg.MetricsAddr, a.logger)
		})
	}

	a.logger.Info("agent: started",
		"service_addr", a.cfg.ServiceAddr,
		"notification_addr", a.cfg.NotificationAddr,
		"workers", a.cfg.Workers,
	)
	return nil
}

// Stop performs an ordered shutdown: cancel, unblock both sockets by
// closing them, drain the worker pool and background loops, then wait.
func (a *Agent) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.conn != nil {
		a.conn.Close()
	}
	if a.notifyConn != nil {
		a.notifyConn.Close()
	}
	a.pool.Stop()
	a.sampler.Stop()
	a.beacon.Stop()
	if a.eg != nil {
		if err := a.eg.Wait(); err != nil {
			a.logger.Error("agent: background loop exited with error", "error", err.Error())
		}
	}
	a.logger.Info("agent: stopped")
}

func (a *Agent) receiveLoop(ctx context.Context) {
	buf := make([]byte, 65535)
	for {
		n, addr, err := a.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				a.logger.Warn("agent: read error", "error", err.Error())
				continue
			}
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		a.metrics.requestsTotal.Inc()
		a.pool.TrySubmit(datagram{addr: addr, data: data})
	}
}

func (a *Agent) emitLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case pdu := <-a.sampler.Notifications:
			a.broadcast(pdu)
			a.metrics.notificationsTx.Inc()
		case pdu := <-a.beacon.Beacons:
			a.broadcast(pdu)
			a.metrics.beaconsTx.Inc()
		}
	}
}

func (a *Agent) broadcast(pdu codec.PDU) {
	plain, err := codec.EncodePDU(pdu)
	if err != nil {
		a.logger.Error("agent: encode notification failed", "error", err.Error())
		return
	}
	sealed, err := framer.Seal(a.key, plain)
	if err != nil {
		a.logger.Error("agent: seal notification failed", "error", err.Error())
		return
	}
	if _, err := a.notifyConn.WriteToUDP(sealed, a.notifyAddr); err != nil {
		a.logger.Warn("agent: broadcast send failed", "error", err.Error())
	}
}
