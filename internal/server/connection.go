package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/lox/blackjackadvisor/internal/session"
	"github.com/lox/blackjackadvisor/internal/strategy"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = websocket.ErrCloseSent

// Connection is one player's websocket. It owns a private session; only the
// read goroutine touches it.
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *Message
	session   *session.Session
	clock     quartz.Clock
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// NewConnection wraps conn with a fresh session.
func NewConnection(id string, conn *websocket.Conn, sess *session.Session, clock quartz.Clock, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		id:      id,
		conn:    conn,
		send:    make(chan *Message, 64),
		session: sess,
		clock:   clock,
		logger:  logger.WithPrefix("conn").With("id", id),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ID returns the connection identifier.
func (c *Connection) ID() string {
	return c.id
}

// Done is closed when the connection shuts down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client.
func (c *Connection) SendMessage(msg *Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, dropping connection")
		go func() { _ = c.Close() }()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := c.clock.NewTicker(pingPeriod, "conn", "ping")
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
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
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

	switch msg.Type {
	case MessageTypeAdvise:
		var data AdviseData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse advise data")
			return
		}
		c.handleAdvise(msg, data)

	case MessageTypeStartRound:
		var data StartRoundData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.sendError(msg, "invalid_message", "Failed to parse start round data")
				return
			}
		}
		c.handleStartRound(msg, data)

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse action data")
			return
		}
		c.handleAction(msg, data)

	case MessageTypeFinish:
		c.handleFinish(msg)

	case MessageTypeStats:
		c.reply(msg, MessageTypeStats, StatsFrom(c.session.Stats(), c.session.Bankroll()))

	default:
		c.sendError(msg, "unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleAdvise(msg *Message, data AdviseData) {
	advice, err := c.session.Advisor().AdviseCards(data.Cards, data.Dealer)
	if err != nil {
		c.sendError(msg, "invalid_cards", err.Error())
		return
	}
	c.reply(msg, MessageTypeAdvice, advice)
}

func (c *Connection) handleStartRound(msg *Message, data StartRoundData) {
	if err := c.session.Deal(data.Bet); err != nil {
		code := "invalid_bet"
		if errors.Is(err, session.ErrInsufficientBankroll) {
			code = "insufficient_bankroll"
		}
		c.sendError(msg, code, err.Error())
		return
	}

	engine := c.session.Engine()
	c.logger.Info("Round started", "round", engine.RoundID(), "dealer_up", engine.DealerUpCard())
	c.reply(msg, MessageTypeRoundState, c.roundState())

	if engine.DealerHasBlackjack() {
		c.finishRound(msg)
	}
}

func (c *Connection) handleAction(msg *Message, data ActionData) {
	action, err := blackjack.ParseAction(data.Action)
	if err != nil {
		c.sendError(msg, "invalid_action", err.Error())
		return
	}

	if _, err := c.session.Act(data.Hand, action); err != nil {
		code := "illegal_action"
		switch {
		case errors.Is(err, blackjack.ErrWrongPhase):
			code = "no_round"
		case errors.Is(err, blackjack.ErrHandIndex):
			code = "invalid_hand"
		}
		c.sendError(msg, code, err.Error())
		return
	}

	c.reply(msg, MessageTypeRoundState, c.roundState())
	if c.session.Engine().AllHandsComplete() {
		c.finishRound(msg)
	}
}

func (c *Connection) handleFinish(msg *Message) {
	if c.session.Engine().Phase() != blackjack.PhasePlayerActing {
		c.sendError(msg, "no_round", "No round in progress")
		return
	}
	c.finishRound(msg)
}

func (c *Connection) finishRound(msg *Message) {
	result, change, err := c.session.Finish()
	if err != nil {
		c.sendError(msg, "finish_failed", err.Error())
		return
	}

	data := RoundResultFrom(result)
	data.Bankroll = c.session.Bankroll()
	data.Change = change.String()
	data.Warning = c.session.Warning()

	c.logger.Info("Round resolved", "round", result.RoundID, "net", result.Net, "bankroll", data.Bankroll)
	c.reply(msg, MessageTypeRoundResult, data)
}

// roundState snapshots the current round, with advice for the next open hand.
func (c *Connection) roundState() RoundStateData {
	engine := c.session.Engine()
	state := RoundStateData{
		RoundID:       engine.RoundID(),
		Phase:         engine.Phase().String(),
		DealerUp:      dealerUp(engine.DealerUpCard()),
		ActiveHand:    -1,
		Bankroll:      c.session.Bankroll(),
		ShoeRemaining: engine.ShoeRemaining(),
	}
	for _, h := range engine.PlayerHands() {
		state.Hands = append(state.Hands, HandStateFrom(h))
	}

	if i, ok := engine.NextOpenHand(); ok && !engine.DealerHasBlackjack() {
		state.ActiveHand = i
		var advice strategy.Advice
		advice, _ = c.session.Advise(i)
		state.Advice = &advice
	}
	return state
}

func (c *Connection) reply(req *Message, messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data, c.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	msg.RequestID = req.RequestID
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(req *Message, code, message string) {
	c.logger.Debug("Sending error", "code", code, "message", message)
	c.reply(req, MessageTypeError, ErrorData{Code: code, Message: message})
}
