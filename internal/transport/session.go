package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/antigravity-labs/ultra-console/internal/infrastructure/logging"
	"github.com/antigravity-labs/ultra-console/internal/shared/id"
)

// State is the connection lifecycle state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateReady        State = "ready"
)

var (
	// ErrNotConnected is returned by Send while the session is not READY.
	ErrNotConnected = errors.New("transport: not connected")

	// ErrSessionClosed is returned after Close.
	ErrSessionClosed = errors.New("transport: session closed")
)

// Conn is one established duplex connection.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteJSON(v interface{}) error
	Close() error
}

// Dialer establishes connections. The production implementation wraps
// gorilla/websocket; tests substitute fakes.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// Listener observes the session. OnFrame is called from a single
// goroutine in strict arrival order; OnStateChange reports READY and
// DISCONNECTED transitions.
type Listener interface {
	OnFrame(frame []byte)
	OnStateChange(state State)
}

// Session owns one connection and its lifecycle.
type Session struct {
	url      string
	dialer   Dialer
	listener Listener
	delay    time.Duration
	log      *logging.Logger

	mu     sync.Mutex
	state  State
	conn   Conn
	gen    uint64 // bumped on every dial; invalidates stale loops and timers
	closed bool
}

// NewSession creates a session for url. It does not dial; set a
// listener with SetListener, then call Connect.
func NewSession(url string, dialer Dialer, delay time.Duration, log *logging.Logger) *Session {
	if log == nil {
		log = logging.NewNop()
	}
	return &Session{
		url:    url,
		dialer: dialer,
		delay:  delay,
		state:  StateDisconnected,
		log:    log,
	}
}

// SetListener installs the session's observer. Must be called before
// Connect; frames seen without a listener are dropped.
func (s *Session) SetListener(listener Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = listener
}

func (s *Session) notify(state State) {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l != nil {
		l.OnStateChange(state)
	}
}

func (s *Session) deliver(frame []byte) {
	s.mu.Lock()
	l := s.listener
	s.mu.Unlock()
	if l != nil {
		l.OnFrame(frame)
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect dials the backend. On success the session transitions to
// READY and starts the read loop; on failure it transitions to
// DISCONNECTED and schedules one reconnect attempt. Opening a new
// connection invalidates any previous one.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.gen++
	gen := s.gen
	s.state = StateConnecting
	connID := id.NewConnID()
	s.mu.Unlock()

	conn, err := s.dialer.Dial(ctx, s.url)
	if err != nil {
		s.log.Warn("dial failed",
			zap.String("conn_id", connID.String()),
			zap.String("url", s.url),
			zap.Error(err))
		s.transitionDown(gen)
		return fmt.Errorf("dial %s: %w", s.url, err)
	}

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		_ = conn.Close()
		return ErrSessionClosed
	}
	s.conn = conn
	s.state = StateReady
	s.mu.Unlock()

	s.log.Info("connected", zap.String("conn_id", connID.String()), zap.String("url", s.url))
	s.notify(StateReady)

	go s.readLoop(conn, gen, connID)
	return nil
}

// Send writes one JSON frame. Rejected with ErrNotConnected while the
// session is not READY; callers check state first.
func (s *Session) Send(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady || s.conn == nil {
		return ErrNotConnected
	}
	return s.conn.WriteJSON(v)
}

// Close shuts the session down permanently. No reconnect is scheduled
// and no state change is delivered.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.gen++ // orphan any pending timer or read loop
	s.state = StateDisconnected
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func (s *Session) readLoop(conn Conn, gen uint64, connID id.ConnID) {
	for {
		frame, err := conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			stale := s.closed || gen != s.gen
			s.mu.Unlock()
			if stale {
				return
			}
			s.log.Warn("connection lost",
				zap.String("conn_id", connID.String()),
				zap.Error(err))
			s.transitionDown(gen)
			return
		}
		s.deliver(frame)
	}
}

// transitionDown moves the session to DISCONNECTED and schedules
// exactly one reconnect attempt after the fixed delay.
func (s *Session) transitionDown(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.state = StateDisconnected
	time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		stale := s.closed || gen != s.gen
		s.mu.Unlock()
		if stale {
			return
		}
		_ = s.Connect(context.Background())
	})
	s.mu.Unlock()

	s.notify(StateDisconnected)
}
