// Package stream maintains the persistent notification WebSocket. It
// owns the connection state machine: dial with the current credential,
// pump inbound events, and on any loss of the link arm exactly one
// reconnect timer that re-reads the credential before trying again.
package stream

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RobertRaul/storefront-notify/internal/logging"
	"github.com/RobertRaul/storefront-notify/internal/protocol"
)

// TokenFunc supplies the credential. It is consulted fresh on every
// dial attempt, so a token swapped while the timer was pending is
// picked up without a restart.
type TokenFunc func() (string, error)

// EventHandler receives every parsed inbound event.
type EventHandler func(ev protocol.Inbound)

// StateHandler receives state transitions.
type StateHandler func(s State)

var (
	// ErrAlreadyStarted is returned by Start on a running manager.
	ErrAlreadyStarted = errors.New("stream already started")
	// ErrNotConnected is returned by Send when the stream is down.
	ErrNotConnected = errors.New("stream not connected")
)

const (
	// DefaultReconnectDelay is how long the single reconnect timer waits.
	DefaultReconnectDelay = 5 * time.Second
	// DefaultPingInterval is the application-level keepalive period.
	DefaultPingInterval = 30 * time.Second

	streamPath   = "/ws/notifications/"
	writeTimeout = 10 * time.Second
)

// Manager runs one notification stream session.
type Manager struct {
	endpoint       string
	clientID       string
	token          TokenFunc
	dialer         *websocket.Dialer
	reconnectDelay time.Duration
	pingInterval   time.Duration
	onEvent        EventHandler
	onState        StateHandler
	log            logging.Logger

	// writeMu serializes frame writes; gorilla connections allow only
	// one concurrent writer.
	writeMu sync.Mutex

	mu             sync.Mutex
	state          State
	conn           *websocket.Conn
	generation     int
	reconnectTimer *time.Timer
	started        bool
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
}

// Option configures a Manager.
type Option func(*Manager)

// WithReconnectDelay overrides the reconnect timer duration.
func WithReconnectDelay(d time.Duration) Option {
	return func(m *Manager) { m.reconnectDelay = d }
}

// WithPingInterval overrides the keepalive period.
func WithPingInterval(d time.Duration) Option {
	return func(m *Manager) { m.pingInterval = d }
}

// WithClientID tags every dial with a client instance identifier so the
// server can tell this process apart from other sessions on the same
// account.
func WithClientID(id string) Option {
	return func(m *Manager) { m.clientID = id }
}

// WithDialer overrides the WebSocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(m *Manager) { m.dialer = d }
}

// WithEventHandler sets the inbound event sink.
func WithEventHandler(h EventHandler) Option {
	return func(m *Manager) { m.onEvent = h }
}

// WithStateHandler sets the state transition sink.
func WithStateHandler(h StateHandler) Option {
	return func(m *Manager) { m.onState = h }
}

// WithLogger overrides the logger.
func WithLogger(log logging.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// New creates a stream manager for the given host. useTLS selects wss.
func New(host string, useTLS bool, token TokenFunc, opts ...Option) *Manager {
	if token == nil {
		panic("stream.New: token func cannot be nil")
	}
	scheme := "ws"
	if useTLS {
		scheme = "wss"
	}
	m := &Manager{
		endpoint:       fmt.Sprintf("%s://%s%s", scheme, host, streamPath),
		token:          token,
		dialer:         websocket.DefaultDialer,
		reconnectDelay: DefaultReconnectDelay,
		pingInterval:   DefaultPingInterval,
		log:            logging.GetGlobal(),
		state:          StateDisconnected,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins the session and returns immediately; the first dial runs
// in the background. Calling Start on a running manager is an error.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.attempt()
	}()
	return nil
}

// Stop tears the session down: cancels any pending reconnect, closes
// the connection, and waits for the pumps to exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	m.cancel()
	if m.reconnectTimer != nil {
		m.reconnectTimer.Stop()
		m.reconnectTimer = nil
	}
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.generation++
	m.mu.Unlock()

	m.wg.Wait()
	m.setState(StateDisconnected)
}

// State returns the current connection phase.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connected reports whether the stream is live.
func (m *Manager) Connected() bool {
	return m.State() == StateConnected
}

// Send writes one command to the stream. Best effort: when the stream
// is down the caller falls back to REST, so the error is advisory.
func (m *Manager) Send(cmd protocol.Outbound) error {
	data, err := cmd.Encode()
	if err != nil {
		return err
	}
	m.mu.Lock()
	conn := m.conn
	connected := m.state == StateConnected
	m.mu.Unlock()
	if !connected || conn == nil {
		return ErrNotConnected
	}
	return m.writeMessage(conn, data)
}

func (m *Manager) writeMessage(conn *websocket.Conn, data []byte) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// attempt performs one dial. With no usable credential it goes straight
// to disconnected without dialing and without arming a timer; a failed
// dial arms the single reconnect timer instead.
func (m *Manager) attempt() {
	m.mu.Lock()
	if m.ctx == nil || m.ctx.Err() != nil {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	token, err := m.token()
	if err != nil {
		m.log.Warn("credential read failed", "err", err)
		m.setState(StateDisconnected)
		return
	}
	if token == "" {
		m.log.Debug("no credential, staying disconnected")
		m.setState(StateDisconnected)
		return
	}

	m.setState(StateConnecting)
	conn, resp, err := m.dialer.DialContext(m.ctx, m.dialURL(token), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		m.log.Warn("stream dial failed", "err", err)
		m.scheduleReconnect()
		return
	}

	m.mu.Lock()
	if m.ctx.Err() != nil {
		m.mu.Unlock()
		conn.Close()
		return
	}
	m.conn = conn
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	m.setState(StateConnected)
	m.log.Info("stream connected")

	m.wg.Add(2)
	go func() {
		defer m.wg.Done()
		m.readPump(conn, gen)
	}()
	go func() {
		defer m.wg.Done()
		m.pingLoop(conn)
	}()
}

func (m *Manager) dialURL(token string) string {
	u := m.endpoint + "?token=" + url.QueryEscape(token)
	if m.clientID != "" {
		u += "&client_id=" + url.QueryEscape(m.clientID)
	}
	return u
}

// readPump drains the connection until it breaks. Payloads that do not
// parse are discarded without disturbing the connection.
func (m *Manager) readPump(conn *websocket.Conn, gen int) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.handleClose(gen)
			return
		}
		ev, err := protocol.ParseInbound(data)
		if err != nil {
			m.log.Debug("discarding malformed stream payload", "err", err)
			continue
		}
		if m.onEvent != nil {
			m.onEvent(ev)
		}
	}
}

// pingLoop sends application-level keepalives on its own connection, so
// a loop left over from a superseded connection exits on the first
// failed write instead of leaking onto the replacement.
func (m *Manager) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(m.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			data, err := (protocol.PingCommand{Timestamp: time.Now().UTC().Format(time.RFC3339)}).Encode()
			if err != nil {
				return
			}
			if err := m.writeMessage(conn, data); err != nil {
				return
			}
		}
	}
}

// handleClose reacts to a broken connection. A stale pump from a
// superseded connection is ignored.
func (m *Manager) handleClose(gen int) {
	m.mu.Lock()
	if gen != m.generation || m.ctx.Err() != nil {
		m.mu.Unlock()
		return
	}
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.mu.Unlock()

	m.log.Info("stream closed")
	m.scheduleReconnect()
}

// scheduleReconnect arms the reconnect timer. At most one timer is ever
// outstanding; a second loss while pending does not stack another.
func (m *Manager) scheduleReconnect() {
	m.mu.Lock()
	if m.ctx.Err() != nil || m.reconnectTimer != nil {
		m.mu.Unlock()
		return
	}
	m.reconnectTimer = time.AfterFunc(m.reconnectDelay, func() {
		m.mu.Lock()
		m.reconnectTimer = nil
		stopped := m.ctx == nil || m.ctx.Err() != nil
		m.mu.Unlock()
		if stopped {
			return
		}
		m.attempt()
	})
	m.mu.Unlock()

	m.setState(StateReconnectPending)
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	if m.state == s {
		m.mu.Unlock()
		return
	}
	m.state = s
	m.mu.Unlock()
	if m.onState != nil {
		m.onState(s)
	}
}
