package server

import (
	"encoding/json"
	"time"

	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/lox/blackjackadvisor/internal/deck"
	"github.com/lox/blackjackadvisor/internal/statistics"
	"github.com/lox/blackjackadvisor/internal/strategy"
)

// MessageType represents a WebSocket message type
type MessageType string

const (
	// Client to server messages
	MessageTypeAdvise     MessageType = "advise"
	MessageTypeStartRound MessageType = "start_round"
	MessageTypeAction     MessageType = "action"
	MessageTypeFinish     MessageType = "finish"
	MessageTypeStats      MessageType = "stats" // also the reply type

	// Server to client messages
	MessageTypeWelcome     MessageType = "welcome"
	MessageTypeAdvice      MessageType = "advice"
	MessageTypeRoundState  MessageType = "round_state"
	MessageTypeRoundResult MessageType = "round_result"
	MessageTypeError       MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a message stamped with now.
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// Client → Server Messages

type AdviseData struct {
	Cards  string `json:"cards"`
	Dealer string `json:"dealer"`
}

type StartRoundData struct {
	Bet int `json:"bet,omitempty"` // zero uses the base bet
}

type ActionData struct {
	Hand   int    `json:"hand"`
	Action string `json:"action"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type WelcomeData struct {
	ConnectionID string `json:"connectionId"`
	Rules        string `json:"rules"`
	Soft17       string `json:"soft17"`
	Bankroll     int    `json:"bankroll"`
	BaseBet      int    `json:"baseBet"`
}

type HandState struct {
	Cards     []string `json:"cards"`
	Display   string   `json:"display"`
	Value     int      `json:"value"`
	Soft      bool     `json:"soft"`
	Pair      bool     `json:"pair"`
	Blackjack bool     `json:"blackjack"`
	Busted    bool     `json:"busted"`
	Stood     bool     `json:"stood"`
	Doubled   bool     `json:"doubled"`
	Bet       int      `json:"bet"`
}

type RoundStateData struct {
	RoundID       string           `json:"roundId"`
	Phase         string           `json:"phase"`
	DealerUp      string           `json:"dealerUp"`
	Hands         []HandState      `json:"hands"`
	ActiveHand    int              `json:"activeHand"` // -1 when no hand awaits action
	Advice        *strategy.Advice `json:"advice,omitempty"`
	Bankroll      int              `json:"bankroll"`
	ShoeRemaining int              `json:"shoeRemaining"`
}

type HandOutcomeData struct {
	Index  int       `json:"index"`
	Amount int       `json:"amount"`
	Label  string    `json:"label"`
	Hand   HandState `json:"hand"`
}

type RoundResultData struct {
	RoundID  string            `json:"roundId"`
	Dealer   HandState         `json:"dealer"`
	Hands    []HandOutcomeData `json:"hands"`
	Net      int               `json:"net"`
	Bankroll int               `json:"bankroll"`
	Change   string            `json:"change"`
	Warning  string            `json:"warning,omitempty"`
}

type StatsData struct {
	Rounds        int     `json:"rounds"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Pushes        int     `json:"pushes"`
	WinPercentage float64 `json:"winPercentage"`
	Blackjacks    int     `json:"blackjacks"`
	Busts         int     `json:"busts"`
	Net           int     `json:"net"`
	Bankroll      int     `json:"bankroll"`
}

// HandStateFrom converts a hand for the wire.
func HandStateFrom(h *blackjack.Hand) HandState {
	cards := h.Cards()
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return HandState{
		Cards:     names,
		Display:   h.String(),
		Value:     h.Value(),
		Soft:      h.IsSoft(),
		Pair:      h.IsPair(),
		Blackjack: h.IsBlackjack(),
		Busted:    h.IsBusted(),
		Stood:     h.Stood(),
		Doubled:   h.Doubled(),
		Bet:       h.Bet(),
	}
}

// RoundResultFrom converts a settled round for the wire.
func RoundResultFrom(r blackjack.Result) RoundResultData {
	data := RoundResultData{
		RoundID: r.RoundID,
		Hands:   make([]HandOutcomeData, 0, len(r.Hands)),
		Net:     r.Net,
	}
	if r.Dealer != nil {
		data.Dealer = HandStateFrom(r.Dealer)
	}
	for _, o := range r.Hands {
		data.Hands = append(data.Hands, HandOutcomeData{
			Index:  o.Index,
			Amount: o.Amount,
			Label:  o.Label.String(),
			Hand:   HandStateFrom(o.Hand),
		})
	}
	return data
}

// StatsFrom converts session statistics for the wire.
func StatsFrom(s statistics.Statistics, bankroll int) StatsData {
	return StatsData{
		Rounds:        s.Rounds,
		Wins:          s.Wins,
		Losses:        s.Losses,
		Pushes:        s.Pushes,
		WinPercentage: s.WinPercentage(),
		Blackjacks:    s.Blackjacks,
		Busts:         s.Busts,
		Net:           s.Net(),
		Bankroll:      bankroll,
	}
}

func dealerUp(r deck.Rank) string {
	if !r.Valid() {
		return ""
	}
	return r.String()
}
