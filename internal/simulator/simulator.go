// Package simulator plays large numbers of rounds with basic strategy to
// measure the house edge under a set of rules.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/lox/blackjackadvisor/internal/randutil"
	"github.com/lox/blackjackadvisor/internal/roundid"
	"github.com/lox/blackjackadvisor/internal/session"
	"github.com/lox/blackjackadvisor/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// ErrTimeout is returned when a simulation runs past its timeout.
var ErrTimeout = errors.New("simulation timed out")

// checkEvery is how many rounds a worker plays between cancellation checks.
const checkEvery = 256

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Workers int
	Seed    int64
	Rules   blackjack.Rules
	BaseBet int
	Timeout time.Duration // zero means no timeout
	Clock   quartz.Clock
	Logger  *log.Logger
}

// Result is the outcome of a simulation run.
type Result struct {
	Rules      blackjack.Rules
	Seed       int64
	Workers    int
	BaseBet    int
	Stats      *statistics.Statistics
	Reshuffles int
	StartedAt  time.Time
	Elapsed    time.Duration
}

// EdgePercent returns the player's expected return per unit bet, as a
// percentage. Negative values are the house edge.
func (r *Result) EdgePercent() float64 {
	if r.BaseBet == 0 {
		return 0
	}
	return r.Stats.Mean() / float64(r.BaseBet) * 100
}

// Simulator runs blackjack simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	if config.Rounds < 0 {
		return nil, fmt.Errorf("rounds must not be negative, got %d", config.Rounds)
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.BaseBet <= 0 {
		config.BaseBet = session.DefaultBaseBet
	}
	if err := config.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	config.Seed = randutil.Seed(config.Seed)

	return &Simulator{
		config: config,
		logger: config.Logger.WithPrefix("sim"),
	}, nil
}

// Seed returns the base seed; rerunning with it reproduces the results.
func (s *Simulator) Seed() int64 {
	return s.config.Seed
}

type workerResult struct {
	stats      *statistics.Statistics
	reshuffles int
}

// Run plays every round across the configured workers. Each worker owns its
// own engine and shoe seeded from the base seed, so results depend only on
// the seed and worker count.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	start := s.config.Clock.Now()

	if s.config.Timeout > 0 {
		var cancel context.CancelCauseFunc
		ctx, cancel = context.WithCancelCause(ctx)
		timer := s.config.Clock.AfterFunc(s.config.Timeout, func() {
			cancel(ErrTimeout)
		})
		defer timer.Stop()
		defer cancel(nil)
	}

	s.logger.Info("Starting simulation",
		"rounds", s.config.Rounds,
		"workers", s.config.Workers,
		"seed", s.config.Seed,
		"rules", s.config.Rules.String())

	workers := s.config.Workers
	perWorker := s.config.Rounds / workers
	remainder := s.config.Rounds % workers
	results := make([]workerResult, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		rounds := perWorker
		if w < remainder {
			rounds++
		}
		g.Go(func() error {
			res, err := s.runWorker(gctx, w, rounds)
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			results[w] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return nil, cause
		}
		return nil, err
	}

	// Merge in worker order so Values is deterministic.
	total := &statistics.Statistics{}
	reshuffles := 0
	for _, res := range results {
		total.Merge(res.stats)
		reshuffles += res.reshuffles
	}
	if total.Rounds > 0 {
		if err := total.Validate(); err != nil {
			return nil, fmt.Errorf("statistics validation failed: %w", err)
		}
	}

	result := &Result{
		Rules:      s.config.Rules,
		Seed:       s.config.Seed,
		Workers:    workers,
		BaseBet:    s.config.BaseBet,
		Stats:      total,
		Reshuffles: reshuffles,
		StartedAt:  start,
		Elapsed:    s.config.Clock.Since(start),
	}
	s.logger.Info("Simulation complete",
		"rounds", total.Rounds,
		"edge", fmt.Sprintf("%.3f%%", result.EdgePercent()),
		"elapsed", result.Elapsed)
	return result, nil
}

func (s *Simulator) runWorker(ctx context.Context, worker, rounds int) (workerResult, error) {
	seed := randutil.Derive(s.config.Seed, worker)
	rng := randutil.New(seed)
	ids := roundid.NewGenerator(s.config.Clock, randutil.New(seed^0x5eed))

	engine, err := blackjack.NewEngine(s.config.Rules, rng,
		blackjack.WithLogger(s.config.Logger),
		blackjack.WithRoundIDs(ids))
	if err != nil {
		return workerResult{}, err
	}
	sess, err := session.New(engine, session.Config{BaseBet: s.config.BaseBet, Unlimited: true}, s.config.Logger)
	if err != nil {
		return workerResult{}, err
	}

	for i := 0; i < rounds; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return workerResult{}, err
			}
		}
		if _, err := sess.AutoPlay(0); err != nil {
			return workerResult{}, fmt.Errorf("round %d: %w", i, err)
		}
	}

	stats := sess.Stats()
	s.logger.Debug("Worker finished", "worker", worker, "rounds", stats.Rounds, "net", stats.Net())
	return workerResult{stats: &stats, reshuffles: engine.Reshuffles()}, nil
}
