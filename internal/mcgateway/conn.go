// Package mcgateway is the game-chat transport: a websocket client speaking
// to the Minecraft gateway sidecar that owns the actual game session. One
// Conn per configured bot account.
package mcgateway

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type Conn struct {
	id       string
	username string
	wsURL    string
	log      *zap.Logger

	// conn and gen are guarded by stateM. gen identifies one dialed socket;
	// the listen and ping goroutines carry the gen they were spawned for and
	// exit once it is superseded.
	conn   *websocket.Conn
	gen    int
	state  State
	stateM sync.RWMutex
	writeM sync.Mutex

	lineCbs  []LineCallback
	stateCbs []StateCallback
	cbM      sync.RWMutex

	maxReconnectAttempts int
	pingInterval         time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	rootCtx    context.Context
	rootCancel context.CancelFunc
}

// NewConn prepares a gateway connection for one bot account. The relay
// treats connection loss as fatal, so maxReconnectAttempts is normally 0:
// a drop goes straight to StateFailed and the supervisor restarts us.
func NewConn(gatewayURL, username string, maxReconnectAttempts int, log *zap.Logger) *Conn {
	if log == nil {
		log = zap.NewNop()
	}
	return &Conn{
		id:                   uuid.NewString(),
		username:             username,
		wsURL:                gatewayURL + "?username=" + url.QueryEscape(username),
		log:                  log.With(zap.String("username", username)),
		state:                StateDisconnected,
		maxReconnectAttempts: maxReconnectAttempts,
		pingInterval:         30 * time.Second,
		stopCh:               make(chan struct{}),
	}
}

func (c *Conn) ID() string       { return c.id }
func (c *Conn) Username() string { return c.username }

func (c *Conn) Connect(ctx context.Context) error {
	c.stateM.Lock()
	if c.state == StateConnected || c.state == StateConnecting {
		c.stateM.Unlock()
		return nil
	}
	c.stateM.Unlock()

	c.rootCtx, c.rootCancel = context.WithCancel(context.Background())
	c.setState(StateConnecting)

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, c.wsURL, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		c.setState(StateFailed)
		return err
	}

	gen := c.attach(conn)
	c.setState(StateConnected)

	c.wg.Add(2)
	go c.listen(conn, gen)
	go c.pingLoop(conn, gen)
	return nil
}

// attach installs a freshly dialed socket as the current one and returns its
// generation. Any goroutine holding an older generation is superseded.
func (c *Conn) attach(conn *websocket.Conn) int {
	c.stateM.Lock()
	c.gen++
	c.conn = conn
	gen := c.gen
	c.stateM.Unlock()
	return gen
}

// socket returns the live socket when gen still identifies it, nil otherwise.
func (c *Conn) socket(gen int) *websocket.Conn {
	c.stateM.RLock()
	defer c.stateM.RUnlock()
	if gen != c.gen {
		return nil
	}
	return c.conn
}

// detach closes and clears the current socket, but only when gen still
// identifies it. A stale generation detaching is a no-op.
func (c *Conn) detach(gen int, code websocket.StatusCode, reason string) error {
	c.stateM.Lock()
	if gen != c.gen || c.conn == nil {
		c.stateM.Unlock()
		return nil
	}
	conn := c.conn
	c.conn = nil
	c.stateM.Unlock()
	return conn.Close(code, reason)
}

func (c *Conn) listen(conn *websocket.Conn, gen int) {
	defer c.wg.Done()
	for {
		select {
		case <-c.stopCh:
			return
		default:
		}

		var frame Frame
		if err := wsjson.Read(c.rootCtx, conn, &frame); err != nil {
			if c.isStopping() || c.socket(gen) == nil {
				return
			}
			c.setState(StateDisconnected)
			_ = c.detach(gen, websocket.StatusGoingAway, "read failure")
			c.scheduleReconnect()
			return
		}
		if frame.Type != "chat" || frame.Line == "" {
			continue
		}

		c.cbM.RLock()
		callbacks := append([]LineCallback(nil), c.lineCbs...)
		c.cbM.RUnlock()
		for _, cb := range callbacks {
			if cb != nil {
				cb(frame.Line)
			}
		}
	}
}

func (c *Conn) pingLoop(conn *websocket.Conn, gen int) {
	defer c.wg.Done()
	t := time.NewTicker(c.pingInterval)
	defer t.Stop()
	failures := 0
	for {
		select {
		case <-c.stopCh:
			return
		case <-t.C:
			// a reconnect spawns a fresh loop for the new socket
			if c.socket(gen) == nil {
				return
			}
			ctx, cancel := context.WithTimeout(c.rootCtx, 3*time.Second)
			err := conn.Ping(ctx)
			cancel()
			if err != nil {
				failures++
				if failures >= 2 {
					if c.isStopping() {
						return
					}
					c.setState(StateDisconnected)
					_ = c.detach(gen, websocket.StatusGoingAway, "ping failure")
					c.scheduleReconnect()
					return
				}
				continue
			}
			failures = 0
		}
	}
}

func (c *Conn) scheduleReconnect() {
	if c.maxReconnectAttempts <= 0 {
		c.setState(StateFailed)
		return
	}
	c.setState(StateReconnecting)

	go func() {
		for attempt := 1; attempt <= c.maxReconnectAttempts; attempt++ {
			select {
			case <-c.stopCh:
				return
			case <-time.After(backoffDuration(attempt)):
			}

			dialCtx, cancel := context.WithTimeout(c.rootCtx, 10*time.Second)
			conn, _, err := websocket.Dial(dialCtx, c.wsURL, &websocket.DialOptions{
				CompressionMode: websocket.CompressionNoContextTakeover,
			})
			cancel()
			if err != nil {
				continue
			}

			gen := c.attach(conn)
			c.setState(StateConnected)

			c.wg.Add(2)
			go c.listen(conn, gen)
			go c.pingLoop(conn, gen)
			return
		}
		c.setState(StateFailed)
	}()
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}

// SendCommand writes one chat command frame. Commands over the game
// server's length cap are dropped silently; that is transport policy, not
// an error.
func (c *Conn) SendCommand(ctx context.Context, cmd string) error {
	if len(cmd) > MaxCommandLength {
		c.log.Debug("command over length cap dropped", zap.Int("length", len(cmd)))
		return nil
	}

	c.stateM.RLock()
	conn := c.conn
	connected := c.state == StateConnected && conn != nil
	c.stateM.RUnlock()
	if !connected {
		return ErrNotConnected
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}

	// wsjson.Write is not safe for concurrent writers
	c.writeM.Lock()
	defer c.writeM.Unlock()
	return wsjson.Write(ctx, conn, &Frame{Type: "command", Command: cmd})
}

func (c *Conn) OnLine(cb LineCallback) {
	c.cbM.Lock()
	c.lineCbs = append(c.lineCbs, cb)
	c.cbM.Unlock()
}

func (c *Conn) OnStateChange(cb StateCallback) {
	c.cbM.Lock()
	c.stateCbs = append(c.stateCbs, cb)
	c.cbM.Unlock()
}

func (c *Conn) setState(state State) {
	c.stateM.Lock()
	c.state = state
	c.stateM.Unlock()

	c.cbM.RLock()
	callbacks := append([]StateCallback(nil), c.stateCbs...)
	c.cbM.RUnlock()
	for _, cb := range callbacks {
		if cb != nil {
			cb(state)
		}
	}
}

func (c *Conn) Close(ctx context.Context) error {
	c.stopOnce.Do(func() { close(c.stopCh) })

	c.stateM.Lock()
	conn := c.conn
	c.conn = nil
	c.stateM.Unlock()
	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "close")
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		if c.rootCancel != nil {
			c.rootCancel()
		}
		return nil
	}
}

func (c *Conn) isStopping() bool {
	select {
	case <-c.stopCh:
		return true
	default:
	}
	return false
}
