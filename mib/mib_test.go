package mib_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsnmpvs/lsnmpvs/codec"
	"github.com/lsnmpvs/lsnmpvs/mib"
	"github.com/lsnmpvs/lsnmpvs/models"
)

func testSeed() models.AgentSeed {
	return models.AgentSeed{
		LMibID:     123,
		DeviceID:   "Agent_001",
		DeviceType: "Sensing Hub",
		BeaconSecs: 30,
		Sensors: []models.SensorSeed{
			{Index: 1, ID: "sensor-1", Type: "temperature", Min: 0, Max: 100, DefaultRateHz: 0.1},
		},
	}
}

func mustIID(t *testing.T, s string) codec.IID {
	t.Helper()
	iid, err := codec.ParseIID(s)
	require.NoError(t, err)
	return iid
}

func elapsedMillis(ts codec.Timestamp) int64 {
	return int64(ts.Days)*24*3600*1000 +
		int64(ts.Hour)*3600*1000 +
		int64(ts.Minute)*60*1000 +
		int64(ts.Second)*1000 +
		int64(ts.Ms)
}

// TestGetDeviceFields exercises getting device-group fields.
func TestGetDeviceFields(t *testing.T) {
	m := mib.New(testSeed())
	values, errs := m.Get([]codec.IID{mustIID(t, "1.1"), mustIID(t, "1.2"), mustIID(t, "1.3")})

	require.Len(t, values, 3)
	for _, e := range errs {
		assert.Equal(t, codec.ErrNone, e)
	}
	assert.Equal(t, codec.IntValue{V: 123}, values[0])
	assert.Equal(t, codec.AsciiValue{V: "Agent_001"}, values[1])
	assert.Equal(t, codec.AsciiValue{V: "Sensing Hub"}, values[2])
}

func TestGetSensorCountDerived(t *testing.T) {
	m := mib.New(testSeed())
	values, _ := m.Get([]codec.IID{mustIID(t, "1.5")})
	assert.Equal(t, codec.IntValue{V: 1}, values[0])
}

// TestSetBeaconPeriod exercises setting the beacon period.
func TestSetBeaconPeriod(t *testing.T) {
	m := mib.New(testSeed())
	values, errs := m.Set([]codec.IID{mustIID(t, "1.4")}, []codec.Value{codec.IntValue{V: 60}})
	require.Equal(t, codec.ErrNone, errs[0])
	assert.Equal(t, codec.IntValue{V: 60}, values[0])
	assert.Equal(t, int64(60), m.BeaconPeriodSeconds())
}

func TestSetUnknownIIDIsRejected(t *testing.T) {
	m := mib.New(testSeed())
	values, errs := m.Set([]codec.IID{mustIID(t, "1.2")}, []codec.Value{codec.AsciiValue{V: "x"}})
	assert.Equal(t, codec.ErrUnknownIID, errs[0])
	assert.Equal(t, codec.ByteValue{V: 0}, values[0])
}

func TestGetUnknownIIDReturnsNullWithErrorPositionally(t *testing.T) {
	m := mib.New(testSeed())
	values, errs := m.Get([]codec.IID{mustIID(t, "1.1"), mustIID(t, "9.9")})
	require.Len(t, values, 2)
	assert.Equal(t, codec.ErrNone, errs[0])
	assert.Equal(t, codec.ErrUnknownIID, errs[1])
	assert.Equal(t, codec.ByteValue{V: 0}, values[1])
}

func TestGetSensorCurrentSamplesWithinBounds(t *testing.T) {
	m := mib.New(testSeed())
	for i := 0; i < 20; i++ {
		values, errs := m.Get([]codec.IID{mustIID(t, "2.3.1")})
		require.Equal(t, codec.ErrNone, errs[0])
		v, ok := values[0].(codec.IntValue)
		require.True(t, ok)
		assert.GreaterOrEqual(t, v.V, int64(0))
		assert.LessOrEqual(t, v.V, int64(100))
	}
}

// TestResetSemantics exercises the reset operation's uptime and field semantics.
func TestResetSemantics(t *testing.T) {
	m := mib.New(testSeed())
	time.Sleep(20 * time.Millisecond)

	before, _ := m.Get([]codec.IID{mustIID(t, "1.7")})
	beforeUptime := before[0].(codec.TimestampValue).T

	values, errs := m.Set([]codec.IID{mustIID(t, "1.4")}, []codec.Value{codec.IntValue{V: 5}})
	require.Equal(t, codec.ErrNone, errs[0])
	assert.Equal(t, codec.IntValue{V: 5}, values[0])

	time.Sleep(20 * time.Millisecond)
	_, errs = m.Set([]codec.IID{mustIID(t, "1.9")}, []codec.Value{codec.IntValue{V: 1}})
	require.Equal(t, codec.ErrNone, errs[0])

	after, _ := m.Get([]codec.IID{mustIID(t, "1.7")})
	afterUptime := after[0].(codec.TimestampValue).T
	assert.Less(t, elapsedMillis(afterUptime), elapsedMillis(beforeUptime),
		"uptime must strictly decrease right after a reset")

	resetField, _ := m.Get([]codec.IID{mustIID(t, "1.9")})
	assert.Equal(t, codec.IntValue{V: 0}, resetField[0])

	assert.Equal(t, int64(30), m.BeaconPeriodSeconds())
}

// TestSamplerEmitsNotifications exercises the sampler emitting notifications,
// at an accelerated rate so the test completes quickly.
func TestSamplerEmitsNotifications(t *testing.T) {
	seed := testSeed()
	seed.Sensors[0].DefaultRateHz = 50 // fast enough for a short test window
	m := mib.New(seed)

	sampler := mib.NewSampler(m, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go sampler.Start(ctx)

	var notifications []codec.PDU
	timeout := time.After(500 * time.Millisecond)
loop:
	for len(notifications) < 3 {
		select {
		case pdu := <-sampler.Notifications:
			notifications = append(notifications, pdu)
		case <-timeout:
			break loop
		}
	}
	cancel()
	sampler.Stop()

	require.GreaterOrEqual(t, len(notifications), 3)
	for _, pdu := range notifications {
		assert.Equal(t, codec.MsgNotification, pdu.Type)
		require.Len(t, pdu.IIDList, 1)
		assert.Equal(t, mustIID(t, "2.3.1"), pdu.IIDList[0])
		require.Len(t, pdu.VList, 1)
		v, ok := pdu.VList[0].(codec.IntValue)
		require.True(t, ok)
		assert.GreaterOrEqual(t, v.V, int64(0))
		assert.LessOrEqual(t, v.V, int64(100))
	}
}

func TestBeaconEmitterComposesGlobalShape(t *testing.T) {
	seed := testSeed()
	seed.BeaconSecs = 1
	m := mib.New(seed)

	emitter := mib.NewBeaconEmitter(m, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go emitter.Start(ctx)

	var pdu codec.PDU
	select {
	case pdu = <-emitter.Beacons:
	case <-time.After(3 * time.Second):
		t.Fatal("no beacon emitted within 3s")
	}
	cancel()
	emitter.Stop()

	assert.Equal(t, codec.MsgNotification, pdu.Type)
	require.Len(t, pdu.IIDList, 4)
	assert.Equal(t, []codec.IID{
		mustIID(t, "1.1"), mustIID(t, "1.2"), mustIID(t, "1.5"), mustIID(t, "1.8"),
	}, pdu.IIDList)
	require.Len(t, pdu.VList, 4)
}

func TestBeaconSuspendedWhenPeriodZero(t *testing.T) {
	seed := testSeed()
	seed.BeaconSecs = 0
	m := mib.New(seed)

	emitter := mib.NewBeaconEmitter(m, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go emitter.Start(ctx)

	select {
	case <-emitter.Beacons:
		t.Fatal("expected no beacon while period is zero")
	case <-time.After(1200 * time.Millisecond):
	}
	cancel()
	emitter.Stop()
}
