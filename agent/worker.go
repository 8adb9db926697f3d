package agent

import (
	"context"
	"log/slog"
	"net"
	"sync"
)

// datagram is one inbound request: the raw encrypted bytes plus the
// address to reply to.
type datagram struct {
	addr *net.UDPAddr
	data []byte
}

// requestHandler is the subset of Agent the worker pool depends on,
// mirroring the reference poller's interface seam so tests can inject a stub.
type requestHandler interface {
	handle(d datagram)
}

// workerPool fans inbound datagrams out to a bounded set of goroutines.
// Grounded on poller.WorkerPool: same jobs-channel-plus-WaitGroup
// shape, generalized from SNMP poll jobs to raw request datagrams.
type workerPool struct {
	numWorkers int
	handler    requestHandler
	logger     *slog.Logger

	jobs chan datagram
	wg   sync.WaitGroup
}

func newWorkerPool(numWorkers int, handler requestHandler, logger *slog.Logger) *workerPool {
	if numWorkers <= 0 {
		numWorkers = 16
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	return &workerPool{
		numWorkers: numWorkers,
		handler:    handler,
		logger:     logger,
		jobs:       make(chan datagram, numWorkers*4),
	}
}

func (w *workerPool) Start(ctx context.Context) {
	for i := 0; i < w.numWorkers; i++ {
		w.wg.Add(1)
		go w.worker(ctx)
	}
}

// TrySubmit enqueues a datagram without blocking. Returns false (datagram
// dropped) if every worker is backed up.
func (w *workerPool) TrySubmit(d datagram) bool {
	select {
	case w.jobs <- d:
		return true
	default:
		w.logger.Warn("agent: request queue full, dropping datagram", "addr", d.addr)
		return false
	}
}

func (w *workerPool) Stop() {
	close(w.jobs)
	w.wg.Wait()
}

func (w *workerPool) worker(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case d, ok := <-w.jobs:
			if !ok {
				return
			}
			w.handler.handle(d)
		case <-ctx.Done():
			return
		}
	}
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }
