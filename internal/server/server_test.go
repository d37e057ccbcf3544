package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/lox/blackjackadvisor/internal/session"
	"github.com/lox/blackjackadvisor/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	srv, err := NewServer(Config{
		Rules:   blackjack.DefaultRules(),
		Session: session.DefaultConfig(),
		Seed:    42,
	}, logger, WithClock(quartz.NewMock(t)))
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Stop()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	welcome := readMessage(t, conn)
	require.Equal(t, MessageTypeWelcome, welcome.Type)
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType MessageType, data any, requestID string) {
	t.Helper()

	msg, err := NewMessage(msgType, data, time.Now())
	require.NoError(t, err)
	msg.RequestID = requestID
	require.NoError(t, conn.WriteJSON(msg))
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func decode[T any](t *testing.T, msg Message) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(msg.Data, &v), "decode %s", msg.Type)
	return v
}

func TestNewServerRejectsBadConfig(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})

	_, err := NewServer(Config{Rules: blackjack.Rules{Decks: 0}, Session: session.DefaultConfig()}, logger)
	assert.Error(t, err)

	_, err = NewServer(Config{Rules: blackjack.DefaultRules(), Session: session.Config{BaseBet: 0}}, logger)
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "6 decks, S17, DAS", body["rules"])
}

func TestAdviseEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantAction string
		wantCode   string
	}{
		{"split eights", `{"cards":"8,8","dealer":"6"}`, http.StatusOK, "SP", ""},
		{"double soft eighteen", `{"cards":"A,7","dealer":"3"}`, http.StatusOK, "D", ""},
		{"hit sixteen against ten", `{"cards":"10,6","dealer":"K"}`, http.StatusOK, "H", ""},
		{"stand hard twenty", `{"cards":"K,Q","dealer":"A"}`, http.StatusOK, "ST", ""},
		{"one card", `{"cards":"8","dealer":"6"}`, http.StatusBadRequest, "", "invalid_cards"},
		{"bad dealer", `{"cards":"8,8","dealer":"Z"}`, http.StatusBadRequest, "", "invalid_cards"},
		{"not json", `cards=8,8`, http.StatusBadRequest, "", "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/advise", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus != http.StatusOK {
				var e ErrorData
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
				assert.Equal(t, tt.wantCode, e.Code)
				return
			}

			var advice strategy.Advice
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&advice))
			assert.Equal(t, tt.wantAction, advice.Action)
			assert.NotEmpty(t, advice.Description)
		})
	}
}

func TestChartEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/chart")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Dealer   []string           `json:"dealer"`
		Sections []strategy.Section `json:"sections"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "A"}, body.Dealer)
	require.Len(t, body.Sections, 3)
	assert.Equal(t, "Pairs", body.Sections[2].Title)
}

func TestWebSocketWelcome(t *testing.T) {
	_, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeWelcome, msg.Type)

	welcome := decode[WelcomeData](t, msg)
	assert.NotEmpty(t, welcome.ConnectionID)
	assert.Equal(t, session.DefaultBankroll, welcome.Bankroll)
	assert.Equal(t, session.DefaultBaseBet, welcome.BaseBet)
	assert.Equal(t, "Dealer stands on soft 17", welcome.Soft17)
}

func TestWebSocketAdvise(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, MessageTypeAdvise, AdviseData{Cards: "A,A", Dealer: "10"}, "req-1")
	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeAdvice, msg.Type)
	assert.Equal(t, "req-1", msg.RequestID)
	assert.Equal(t, "SP", decode[strategy.Advice](t, msg).Action)

	send(t, conn, MessageTypeAdvise, AdviseData{Cards: "X", Dealer: "10"}, "req-2")
	msg = readMessage(t, conn)
	require.Equal(t, MessageTypeError, msg.Type)
	assert.Equal(t, "req-2", msg.RequestID)
	assert.Equal(t, "invalid_cards", decode[ErrorData](t, msg).Code)
}

func TestWebSocketPlayRound(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, MessageTypeStartRound, StartRoundData{}, "deal")
	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeRoundState, msg.Type)
	state := decode[RoundStateData](t, msg)
	require.Len(t, state.Hands, 1)
	assert.Equal(t, session.DefaultBaseBet, state.Hands[0].Bet)
	assert.NotEmpty(t, state.RoundID)

	// Stand on every hand until the round resolves; a dealer blackjack
	// resolves it straight after the deal.
	for state.ActiveHand >= 0 {
		require.NotNil(t, state.Advice)
		send(t, conn, MessageTypeAction, ActionData{Hand: state.ActiveHand, Action: "stand"}, "act")
		msg = readMessage(t, conn)
		require.Equal(t, MessageTypeRoundState, msg.Type)
		state = decode[RoundStateData](t, msg)
	}

	msg = readMessage(t, conn)
	require.Equal(t, MessageTypeRoundResult, msg.Type)
	result := decode[RoundResultData](t, msg)
	assert.Equal(t, state.RoundID, result.RoundID)
	assert.Equal(t, session.DefaultBankroll+result.Net, result.Bankroll)
	require.Len(t, result.Hands, 1)
	assert.NotEmpty(t, result.Hands[0].Label)
	assert.NotEmpty(t, result.Change)

	send(t, conn, MessageTypeStats, nil, "stats")
	msg = readMessage(t, conn)
	require.Equal(t, MessageTypeStats, msg.Type)
	stats := decode[StatsData](t, msg)
	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, result.Net, stats.Net)
	assert.Equal(t, result.Bankroll, stats.Bankroll)
}

func TestWebSocketErrors(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	tests := []struct {
		name     string
		msgType  MessageType
		data     any
		wantCode string
	}{
		{"unknown type", MessageType("shuffle"), nil, "unknown_message_type"},
		{"action without round", MessageTypeAction, ActionData{Hand: 0, Action: "H"}, "no_round"},
		{"bad action code", MessageTypeAction, ActionData{Hand: 0, Action: "surrender"}, "invalid_action"},
		{"finish without round", MessageTypeFinish, nil, "no_round"},
		{"bet above bankroll", MessageTypeStartRound, StartRoundData{Bet: 5000}, "insufficient_bankroll"},
		{"negative bet", MessageTypeStartRound, StartRoundData{Bet: -5}, "invalid_bet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			send(t, conn, tt.msgType, tt.data, tt.name)
			msg := readMessage(t, conn)
			require.Equal(t, MessageTypeError, msg.Type)
			assert.Equal(t, tt.name, msg.RequestID)
			assert.Equal(t, tt.wantCode, decode[ErrorData](t, msg).Code)
		})
	}
}

func TestConnectionsAreTracked(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts)

	assert.Equal(t, 1, srv.ConnectionCount())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		return srv.ConnectionCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
