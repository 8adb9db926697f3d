// Package manager implements the manager-side transport endpoint: a
// request/reply Client for GET/SET against one agent, a background
// beacon listener, and a pool that caches one Client per agent endpoint.
package manager

import (
	"fmt"
	"math/rand/v2"
	"net"
	"time"

	"github.com/lsnmpvs/lsnmpvs/codec"
	"github.com/lsnmpvs/lsnmpvs/framer"
	"github.com/lsnmpvs/lsnmpvs/models"
)

// requestTimeout bounds how long Client.Get/Set wait for a response,
// matching the reference manager's 5-second socket timeout.
const requestTimeout = 5 * time.Second

// Client is a request/reply connection to one agent's service socket.
// It is not safe for concurrent use by multiple goroutines. A Pool hands
// every caller the same Client for a given endpoint, so it does not change
// this.
type Client struct {
	conn   *net.UDPConn
	key    [16]byte
	msgID  uint64
	buf    []byte
}

// Dial opens a Client against one agent endpoint. The UDP socket is
// connected (not bound), so Close is the only cleanup required.
func Dial(ep models.AgentEndpoint) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", ep.Host, ep.ServicePort)
	raddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("manager: resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp4", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("manager: dial %s: %w", addr, err)
	}
	return &Client{
		conn:  conn,
		key:   framer.Key(ep.SharedSecret),
		msgID: uint64(rand.IntN(51)), // reference manager seeds in [0,50]
		buf:   make([]byte, 65535),
	}, nil
}

// Close closes the underlying socket.
func (c *Client) Close() error { return c.conn.Close() }

// noopWriter discards log output, the same fallback slog sink the reference code's
// packages use when no logger is supplied.
type noopWriter struct{}

func (noopWriter) Write(b []byte) (int, error) { return len(b), nil }

// Get sends a get-request for the given iids and returns the response's
// values and error codes, positionally aligned with iids.
func (c *Client) Get(iids []codec.IID) ([]codec.Value, []codec.ErrorCode, error) {
	resp, err := c.roundTrip(codec.MsgGetRequest, iids, nil)
	if err != nil {
		return nil, nil, err
	}
	return resp.VList, resp.EList, nil
}

// Set sends a set-request, iids aligned 1:1 with values, and returns the
// response's echoed values and error codes.
func (c *Client) Set(iids []codec.IID, values []codec.Value) ([]codec.Value, []codec.ErrorCode, error) {
	resp, err := c.roundTrip(codec.MsgSetRequest, iids, values)
	if err != nil {
		return nil, nil, err
	}
	return resp.VList, resp.EList, nil
}

func (c *Client) roundTrip(msgType byte, iids []codec.IID, values []codec.Value) (codec.PDU, error) {
	req := codec.PDU{
		Type:    msgType,
		MsgID:   c.msgID,
		IIDList: iids,
		VList:   values,
	}
	plain, err := codec.EncodePDU(req)
	if err != nil {
		return codec.PDU{}, fmt.Errorf("manager: encode request: %w", err)
	}
	sealed, err := framer.Seal(c.key, plain)
	if err != nil {
		return codec.PDU{}, fmt.Errorf("manager: seal request: %w", err)
	}
	if err := c.conn.SetDeadline(time.Now().Add(requestTimeout)); err != nil {
		return codec.PDU{}, fmt.Errorf("manager: set deadline: %w", err)
	}
	if _, err := c.conn.Write(sealed); err != nil {
		return codec.PDU{}, fmt.Errorf("manager: send request: %w", err)
	}
	c.msgID++

	n, err := c.conn.Read(c.buf)
	if err != nil {
		return codec.PDU{}, fmt.Errorf("manager: read response: %w", err)
	}
	respPlain, err := framer.Open(c.key, c.buf[:n])
	if err != nil {
		return codec.PDU{}, fmt.Errorf("manager: open response: %w", err)
	}
	resp, err := codec.DecodePDU(respPlain, false)
	if err != nil {
		return codec.PDU{}, fmt.Errorf("manager: decode response: %w", err)
	}
	return resp, nil
}
