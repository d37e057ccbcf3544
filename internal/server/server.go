package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/lox/blackjackadvisor/internal/randutil"
	"github.com/lox/blackjackadvisor/internal/roundid"
	"github.com/lox/blackjackadvisor/internal/session"
	"github.com/lox/blackjackadvisor/internal/strategy"
)

const shutdownTimeout = 5 * time.Second

// Config holds server settings.
type Config struct {
	Addr    string
	Rules   blackjack.Rules
	Session session.Config
	// Seed is the base seed for per-connection shoes; zero picks one at random.
	Seed int64
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock used for timestamps, round ids and pings.
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// Server serves the advisor over HTTP and hosts play sessions over WebSocket.
type Server struct {
	config   Config
	seed     int64
	advisor  *strategy.Advisor
	router   chi.Router
	upgrader websocket.Upgrader
	clock    quartz.Clock
	logger   *log.Logger

	mu          sync.Mutex
	connections map[string]*Connection
	accepted    int
}

// NewServer creates a server for config.
func NewServer(config Config, logger *log.Logger, opts ...Option) (*Server, error) {
	if err := config.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if err := config.Session.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}

	s := &Server{
		config:  config,
		seed:    randutil.Seed(config.Seed),
		advisor: strategy.NewAdvisor(config.Rules),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clock:       quartz.NewReal(),
		logger:      logger.WithPrefix("server"),
		connections: make(map[string]*Connection),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
	r.Route("/api", func(r chi.Router) {
		r.Post("/advise", s.handleAdvise)
		r.Get("/chart", s.handleChart)
	})
	s.router = r

	return s, nil
}

// Handler returns the HTTP handler, for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Seed returns the base seed in use.
func (s *Server) Seed() int64 {
	return s.seed
}

// ConnectionCount returns the number of open WebSocket connections.
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", s.config.Addr, "rules", s.config.Rules.String(), "seed", s.seed)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := httpServer.Shutdown(shutdownCtx)
	s.Stop()
	return err
}

// Stop closes every open connection.
func (s *Server) Stop() {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for _, c := range s.connections {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"rules":       s.config.Rules.String(),
		"connections": s.ConnectionCount(),
	})
}

func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	var req AdviseData
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorData{Code: "invalid_request", Message: "Failed to parse request body"})
		return
	}

	advice, err := s.advisor.AdviseCards(req.Cards, req.Dealer)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorData{Code: "invalid_cards", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, advice)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rules":    s.config.Rules.String(),
		"soft17":   strategy.Soft17Note(s.config.Rules),
		"dealer":   DealerUpLabels(),
		"sections": strategy.Chart(),
	})
}

// handleWebSocket upgrades the request and starts a play session.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	id := uuid.NewString()
	sess, err := s.newSession(id)
	if err != nil {
		s.logger.Error("Failed to create session", "error", err)
		_ = conn.Close()
		return
	}

	client := NewConnection(id, conn, sess, s.clock, s.logger)
	s.mu.Lock()
	s.connections[id] = client
	s.mu.Unlock()

	client.Start()
	s.logger.Info("Player connected", "id", id, "remote", r.RemoteAddr)

	welcome, err := NewMessage(MessageTypeWelcome, WelcomeData{
		ConnectionID: id,
		Rules:        s.config.Rules.String(),
		Soft17:       strategy.Soft17Note(s.config.Rules),
		Bankroll:     sess.Bankroll(),
		BaseBet:      sess.BaseBet(),
	}, s.clock.Now())
	if err == nil {
		_ = client.SendMessage(welcome)
	}

	go func() {
		<-client.Done()
		s.mu.Lock()
		delete(s.connections, id)
		s.mu.Unlock()
		s.logger.Info("Player disconnected", "id", id)
	}()
}

// newSession builds a session whose shoe is seeded from the base seed and
// the connection's arrival order.
func (s *Server) newSession(id string) (*session.Session, error) {
	s.mu.Lock()
	n := s.accepted
	s.accepted++
	s.mu.Unlock()

	seed := randutil.Derive(s.seed, n)
	logger := s.logger.With("conn", id)
	engine, err := blackjack.NewEngine(s.config.Rules, randutil.New(seed),
		blackjack.WithLogger(logger),
		blackjack.WithRoundIDs(roundid.NewGenerator(s.clock, randutil.New(seed^0x5eed))))
	if err != nil {
		return nil, err
	}
	return session.New(engine, s.config.Session, logger)
}

// DealerUpLabels returns the chart column headings.
func DealerUpLabels() []string {
	labels := make([]string, len(strategy.DealerUpCards))
	for i, r := range strategy.DealerUpCards {
		labels[i] = r.String()
	}
	return labels
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
