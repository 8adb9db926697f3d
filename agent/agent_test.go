package agent_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lsnmpvs/lsnmpvs/agent"
	"github.com/lsnmpvs/lsnmpvs/codec"
	"github.com/lsnmpvs/lsnmpvs/framer"
	"github.com/lsnmpvs/lsnmpvs/models"
)

func testSeed() models.AgentSeed {
	return models.AgentSeed{
		LMibID:     1,
		DeviceID:   "test-agent",
		DeviceType: "sensing-hub",
		BeaconSecs: 0,
		Sensors: []models.SensorSeed{
			{Index: 1, ID: "sensor-1", Type: "temperature", Min: 0, Max: 100, DefaultRateHz: 1},
		},
	}
}

func TestAgentGetRequestRoundTrip(t *testing.T) {
	cfg := agent.Config{
		ServiceAddr:      "127.0.0.1:11611",
		NotificationAddr: "127.0.0.1:19164",
		SharedSecret:     "shared",
		Workers:          4,
		Seed:             testSeed(),
	}
	a := agent.New(cfg, nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, a.Start(ctx))
	defer func() {
		cancel()
		a.Stop()
	}()

	key := framer.Key(cfg.SharedSecret)
	client, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 11611})
	require.NoError(t, err)
	defer client.Close()

	deviceID, err := codec.ParseIID("1.2")
	require.NoError(t, err)
	req := codec.PDU{
		Type:    codec.MsgGetRequest,
		MsgID:   1,
		IIDList: []codec.IID{deviceID},
	}
	send(t, client, key, req)

	resp := recv(t, client, key)
	require.Equal(t, codec.MsgResponse, resp.Type)
	require.Equal(t, uint64(1), resp.MsgID)
	require.Len(t, resp.VList, 1)
	require.Equal(t, []codec.ErrorCode{codec.ErrNone}, resp.EList)
	sv, ok := resp.VList[0].(codec.AsciiValue)
	require.True(t, ok)
	require.Equal(t, "test-agent", sv.V)
}

func TestAgentSetBeaconPeriod(t *testing.T) {
	cfg := agent.Config{
		ServiceAddr:      "127.0.0.1:11612",
		NotificationAddr: "127.0.0.1:19165",
		SharedSecret:     "shared",
		Workers:          4,
		Seed:             testSeed(),
	}
	a := agent.New(cfg, nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, a.Start(ctx))
	defer func() {
		cancel()
		a.Stop()
	}()

	key := framer.Key(cfg.SharedSecret)
	client, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 11612})
	require.NoError(t, err)
	defer client.Close()

	beaconPeriod, err := codec.ParseIID("1.4")
	require.NoError(t, err)
	req := codec.PDU{
		Type:    codec.MsgSetRequest,
		MsgID:   2,
		IIDList: []codec.IID{beaconPeriod},
		VList:   []codec.Value{codec.IntValue{V: 5}},
	}
	send(t, client, key, req)

	resp := recv(t, client, key)
	require.Equal(t, []codec.ErrorCode{codec.ErrNone}, resp.EList)
	require.Equal(t, int64(5), a.MIB().BeaconPeriodSeconds())
}

func TestAgentDuplicateMessageIsRejected(t *testing.T) {
	cfg := agent.Config{
		ServiceAddr:      "127.0.0.1:11613",
		NotificationAddr: "127.0.0.1:19166",
		SharedSecret:     "shared",
		Workers:          4,
		Seed:             testSeed(),
	}
	a := agent.New(cfg, nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, a.Start(ctx))
	defer func() {
		cancel()
		a.Stop()
	}()

	key := framer.Key(cfg.SharedSecret)
	client, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 11613})
	require.NoError(t, err)
	defer client.Close()

	deviceID, err := codec.ParseIID("1.2")
	require.NoError(t, err)
	req := codec.PDU{
		Type:    codec.MsgGetRequest,
		MsgID:   7,
		IIDList: []codec.IID{deviceID},
	}
	send(t, client, key, req)
	first := recv(t, client, key)
	require.Equal(t, []codec.ErrorCode{codec.ErrNone}, first.EList)

	send(t, client, key, req)
	second := recv(t, client, key)
	require.Equal(t, []codec.ErrorCode{codec.ErrDuplicateMessage}, second.EList)
}

func TestAgentBadTagIsSilentlyDropped(t *testing.T) {
	cfg := agent.Config{
		ServiceAddr:      "127.0.0.1:11614",
		NotificationAddr: "127.0.0.1:19167",
		SharedSecret:     "shared",
		Workers:          4,
		Seed:             testSeed(),
	}
	a := agent.New(cfg, nil)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, a.Start(ctx))
	defer func() {
		cancel()
		a.Stop()
	}()

	key := framer.Key(cfg.SharedSecret)
	client, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 11614})
	require.NoError(t, err)
	defer client.Close()

	garbage, err := framer.Seal(key, []byte("not a valid pdu at all, just junk bytes"))
	require.NoError(t, err)
	_, err = client.Write(garbage)
	require.NoError(t, err)

	require.NoError(t, client.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	buf := make([]byte, 2048)
	_, err = client.Read(buf)
	require.Error(t, err, "agent must not reply to a tag-corrupted datagram")
}

func send(t *testing.T, conn *net.UDPConn, key [16]byte, pdu codec.PDU) {
	t.Helper()
	plain, err := codec.EncodePDU(pdu)
	require.NoError(t, err)
	sealed, err := framer.Seal(key, plain)
	require.NoError(t, err)
	_, err = conn.Write(sealed)
	require.NoError(t, err)
}

func recv(t *testing.T, conn *net.UDPConn, key [16]byte) codec.PDU {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 2048)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	plain, err := framer.Open(key, buf[:n])
	require.NoError(t, err)
	pdu, err := codec.DecodePDU(plain, false)
	require.NoError(t, err)
	return pdu
}
