package transport

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	frames chan []byte

	mu     sync.Mutex
	writes []interface{}

	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		frames: make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case f := <-c.frames:
		return f, nil
	case <-c.closed:
		return nil, errors.New("connection reset")
	}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, v)
	return nil
}

func (c *fakeConn) Writes() []interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]interface{}(nil), c.writes...)
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

// Drop simulates an abrupt closure by the peer.
func (c *fakeConn) Drop() { _ = c.Close() }

type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
	fail  bool
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail {
		return nil, errors.New("connection refused")
	}
	c := newFakeConn()
	d.conns = append(d.conns, c)
	return c, nil
}

func (d *fakeDialer) DialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

func (d *fakeDialer) Conn(i int) *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[i]
}

func (d *fakeDialer) SetFail(fail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = fail
}

type recordingListener struct {
	mu     sync.Mutex
	frames [][]byte
	states []State
}

func (l *recordingListener) OnFrame(frame []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = append(l.frames, frame)
}

func (l *recordingListener) OnStateChange(state State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.states = append(l.states, state)
}

func (l *recordingListener) Frames() [][]byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([][]byte(nil), l.frames...)
}

func (l *recordingListener) States() []State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]State(nil), l.states...)
}

const testDelay = 25 * time.Millisecond

func newTestSession(t *testing.T) (*Session, *fakeDialer, *recordingListener) {
	t.Helper()
	dialer := &fakeDialer{}
	listener := &recordingListener{}
	s := NewSession("ws://backend/ws/chat", dialer, testDelay, nil)
	s.SetListener(listener)
	t.Cleanup(func() { _ = s.Close() })
	return s, dialer, listener
}

func TestConnectTransitionsToReady(t *testing.T) {
	s, dialer, listener := newTestSession(t)

	require.NoError(t, s.Connect(context.Background()))
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, 1, dialer.DialCount())
	require.NotEmpty(t, listener.States())
	assert.Equal(t, StateReady, listener.States()[0])
}

func TestSendRejectedWhileNotConnected(t *testing.T) {
	s, dialer, _ := newTestSession(t)

	err := s.Send(map[string]string{"message": "hi"})
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Equal(t, 0, dialer.DialCount())
}

func TestSendWritesToLiveConnection(t *testing.T) {
	s, dialer, _ := newTestSession(t)
	require.NoError(t, s.Connect(context.Background()))

	require.NoError(t, s.Send(map[string]string{"message": "hi"}))
	writes := dialer.Conn(0).Writes()
	require.Len(t, writes, 1)
}

func TestFramesDeliveredInOrder(t *testing.T) {
	s, dialer, listener := newTestSession(t)
	require.NoError(t, s.Connect(context.Background()))

	conn := dialer.Conn(0)
	conn.frames <- []byte(`{"type":"chunk","content":"a"}`)
	conn.frames <- []byte(`{"type":"chunk","content":"b"}`)
	conn.frames <- []byte(`{"type":"done"}`)

	require.Eventually(t, func() bool {
		return len(listener.Frames()) == 3
	}, time.Second, time.Millisecond)

	frames := listener.Frames()
	assert.Contains(t, string(frames[0]), `"a"`)
	assert.Contains(t, string(frames[1]), `"b"`)
	assert.Contains(t, string(frames[2]), "done")
}

func TestDropSchedulesExactlyOneReconnect(t *testing.T) {
	s, dialer, listener := newTestSession(t)
	require.NoError(t, s.Connect(context.Background()))

	dialer.Conn(0).Drop()

	require.Eventually(t, func() bool {
		states := listener.States()
		return len(states) >= 2 && states[1] == StateDisconnected
	}, time.Second, time.Millisecond)

	// One attempt after the fixed delay, and no more.
	require.Eventually(t, func() bool {
		return dialer.DialCount() == 2
	}, time.Second, time.Millisecond)

	time.Sleep(4 * testDelay)
	assert.Equal(t, 2, dialer.DialCount())
	assert.Equal(t, StateReady, s.State())
}

func TestRepeatedDropsKeepReconnecting(t *testing.T) {
	s, dialer, _ := newTestSession(t)
	require.NoError(t, s.Connect(context.Background()))

	for i := 0; i < 3; i++ {
		dialer.Conn(i).Drop()
		require.Eventually(t, func() bool {
			return dialer.DialCount() == i+2
		}, time.Second, time.Millisecond, "reconnect %d", i+1)
	}
	require.Eventually(t, func() bool {
		return s.State() == StateReady
	}, time.Second, time.Millisecond)
}

func TestDialFailureRetries(t *testing.T) {
	s, dialer, _ := newTestSession(t)
	dialer.SetFail(true)

	err := s.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateDisconnected, s.State())

	dialer.SetFail(false)
	require.Eventually(t, func() bool {
		return s.State() == StateReady
	}, time.Second, time.Millisecond)
}

func TestCloseStopsReconnect(t *testing.T) {
	s, dialer, _ := newTestSession(t)
	require.NoError(t, s.Connect(context.Background()))

	dialer.Conn(0).Drop()
	require.NoError(t, s.Close())

	time.Sleep(4 * testDelay)
	assert.Equal(t, 1, dialer.DialCount())
	assert.ErrorIs(t, s.Connect(context.Background()), ErrSessionClosed)
}

func TestNewConnectionInvalidatesPrevious(t *testing.T) {
	s, dialer, _ := newTestSession(t)
	require.NoError(t, s.Connect(context.Background()))
	require.NoError(t, s.Connect(context.Background()))

	assert.Equal(t, 2, dialer.DialCount())
	select {
	case <-dialer.Conn(0).closed:
	default:
		t.Error("first connection should be closed")
	}
}
