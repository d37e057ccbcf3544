// Package client talks to a blackjack server over WebSocket.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjackadvisor/internal/server" // Reuse message types
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
)

// ErrDisconnected is returned once the connection has gone away.
var ErrDisconnected = errors.New("disconnected from server")

// RemoteError is an error message sent by the server.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("server error %s: %s", e.Code, e.Message)
}

// Option configures a Client.
type Option func(*Client)

// WithClock sets the clock used for message timestamps and pings.
func WithClock(clock quartz.Clock) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// Client is a WebSocket connection to a blackjack server. Replies are read
// in order with Next; one goroutine should drive a client at a time.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *server.Message
	receive   chan *server.Message
	clock     quartz.Clock
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	connected bool
	closeOnce sync.Once
	requests  atomic.Uint64
	welcome   server.WelcomeData
}

// NewClient creates a client for serverURL. http and https URLs are
// converted to ws and wss, and an empty path becomes /ws.
func NewClient(serverURL string, logger *log.Logger, opts ...Option) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		serverURL: serverURL,
		send:      make(chan *server.Message, 64),
		receive:   make(chan *server.Message, 64),
		clock:     quartz.NewReal(),
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the server and waits for its welcome message.
func (c *Client) Connect(ctx context.Context) error {
	c.logger.Info("Connecting to server", "url", c.serverURL)

	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	// Convert http/https to ws/wss
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()

	msg, err := c.Next(ctx)
	if err != nil {
		_ = c.Close()
		return err
	}
	if msg.Type != server.MessageTypeWelcome {
		_ = c.Close()
		return fmt.Errorf("expected welcome, got %s", msg.Type)
	}
	welcome, err := Decode[server.WelcomeData](msg)
	if err != nil {
		_ = c.Close()
		return err
	}
	c.welcome = welcome

	c.logger.Info("Connected to server", "id", welcome.ConnectionID, "rules", welcome.Rules)
	return nil
}

// Welcome returns the server's greeting from Connect.
func (c *Client) Welcome() server.WelcomeData {
	return c.welcome
}

// Close closes the WebSocket connection
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.conn != nil {
			_ = c.conn.Close() // Ignore close errors during shutdown
			c.connected = false
		}
		c.logger.Info("Disconnected from server")
	})
	return nil
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Send queues a message and returns its request id.
func (c *Client) Send(messageType server.MessageType, data any) (string, error) {
	msg, err := server.NewMessage(messageType, data, c.clock.Now())
	if err != nil {
		return "", err
	}
	msg.RequestID = strconv.FormatUint(c.requests.Add(1), 10)

	select {
	case c.send <- msg:
		return msg.RequestID, nil
	case <-c.ctx.Done():
		return "", ErrDisconnected
	default:
		return "", fmt.Errorf("send buffer full")
	}
}

// Next returns the next message from the server.
func (c *Client) Next(ctx context.Context) (*server.Message, error) {
	select {
	case msg, ok := <-c.receive:
		if !ok {
			return nil, ErrDisconnected
		}
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Request sends a message and returns the first reply. Error replies are
// returned as *RemoteError.
func (c *Client) Request(ctx context.Context, messageType server.MessageType, data any) (*server.Message, error) {
	id, err := c.Send(messageType, data)
	if err != nil {
		return nil, err
	}

	msg, err := c.Next(ctx)
	if err != nil {
		return nil, err
	}
	if msg.RequestID != id {
		c.logger.Warn("Reply out of order", "want", id, "got", msg.RequestID, "type", msg.Type)
	}
	if msg.Type == server.MessageTypeError {
		data, err := Decode[server.ErrorData](msg)
		if err != nil {
			return nil, err
		}
		return nil, &RemoteError{Code: data.Code, Message: data.Message}
	}
	return msg, nil
}

// Decode unmarshals a message's data.
func Decode[T any](msg *server.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Data, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s: %w", msg.Type, err)
	}
	return v, nil
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		close(c.receive)
	}()

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

		select {
		case c.receive <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := c.clock.NewTicker(pingPeriod, "client", "ping")
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
