package manager

import (
	"fmt"
	"sync"

	"github.com/lsnmpvs/lsnmpvs/models"
)

// Pool manages one Client per agent endpoint, dialed lazily and kept
// open for reuse by callers that repeatedly address the same agent. Grounded on pkg/snmpcollector/poller.ConnectionPool
// shape (map keyed by remote identity under a RWMutex, dial-on-miss),
// simplified from gosnmp's session-checkout/return cycle down to a
// single long-lived *Client per endpoint since UDP has no handshake to
// amortize and L-SNMPvS requests are one-at-a-time per Client.
type Pool struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewPool returns an empty, ready-to-use Pool.
func NewPool() *Pool {
	return &Pool{clients: make(map[string]*Client)}
}

// Get returns the Client for ep, dialing it on first use.
func (p *Pool) Get(ep models.AgentEndpoint) (*Client, error) {
	key := poolKey(ep)

	p.mu.RLock()
	c, ok := p.clients[key]
	p.mu.RUnlock()
	if ok {
		return c, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok = p.clients[key]; ok {
		return c, nil
	}
	c, err := Dial(ep)
	if err != nil {
		return nil, fmt.Errorf("manager: pool dial %s: %w", ep.Name, err)
	}
	p.clients[key] = c
	return c, nil
}

// Close closes every dialed Client and empties the pool.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.clients {
		c.Close()
	}
	p.clients = make(map[string]*Client)
}

func poolKey(ep models.AgentEndpoint) string {
	return fmt.Sprintf("%s:%d", ep.Host, ep.ServicePort)
}
