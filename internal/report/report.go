// Package report turns simulation results into JSON files and text summaries.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/lox/blackjackadvisor/internal/simulator"
)

// Report is the JSON document written for a simulation run.
type Report struct {
	Metadata Metadata   `json:"metadata"`
	Rules    Rules      `json:"rules"`
	Results  Statistics `json:"results"`
}

// Metadata records how the run was produced.
type Metadata struct {
	StartTime       time.Time `json:"start_time"`
	DurationSeconds float64   `json:"duration_seconds"`
	RoundsPerSecond float64   `json:"rounds_per_second"`
	Seed            int64     `json:"seed"`
	Workers         int       `json:"workers"`
	BaseBet         int       `json:"base_bet"`
}

// Rules mirrors the table rules in the report.
type Rules struct {
	DealerHitsSoft17 bool   `json:"dealer_hits_soft_17"`
	DoubleAfterSplit bool   `json:"double_after_split"`
	Decks            int    `json:"decks"`
	Summary          string `json:"summary"`
}

// Statistics holds the aggregated results.
type Statistics struct {
	Rounds        int        `json:"rounds"`
	HandsDealt    int        `json:"hands_dealt"`
	Wins          int        `json:"wins"`
	Losses        int        `json:"losses"`
	Pushes        int        `json:"pushes"`
	WinPercentage float64    `json:"win_percentage"`
	Blackjacks    int        `json:"blackjacks"`
	Busts         int        `json:"busts"`
	Doubles       int        `json:"doubles"`
	Splits        int        `json:"splits"`
	Reshuffles    int        `json:"reshuffles"`
	Net           int        `json:"net"`
	MeanPerRound  float64    `json:"mean_per_round"`
	StdDev        float64    `json:"std_dev"`
	CI95          [2]float64 `json:"ci_95"`
	EdgePercent   float64    `json:"edge_percent"`
}

// New builds a report from a simulation result.
func New(result *simulator.Result) *Report {
	s := result.Stats
	low, high := s.ConfidenceInterval95()

	seconds := result.Elapsed.Seconds()
	rps := 0.0
	if seconds > 0 {
		rps = float64(s.Rounds) / seconds
	}

	return &Report{
		Metadata: Metadata{
			StartTime:       result.StartedAt,
			DurationSeconds: seconds,
			RoundsPerSecond: rps,
			Seed:            result.Seed,
			Workers:         result.Workers,
			BaseBet:         result.BaseBet,
		},
		Rules: Rules{
			DealerHitsSoft17: result.Rules.DealerHitsSoft17,
			DoubleAfterSplit: result.Rules.DoubleAfterSplit,
			Decks:            result.Rules.Decks,
			Summary:          result.Rules.String(),
		},
		Results: Statistics{
			Rounds:        s.Rounds,
			HandsDealt:    s.HandsDealt,
			Wins:          s.Wins,
			Losses:        s.Losses,
			Pushes:        s.Pushes,
			WinPercentage: s.WinPercentage(),
			Blackjacks:    s.Blackjacks,
			Busts:         s.Busts,
			Doubles:       s.Doubles,
			Splits:        s.Splits,
			Reshuffles:    result.Reshuffles,
			Net:           s.Net(),
			MeanPerRound:  s.Mean(),
			StdDev:        s.StdDev(),
			CI95:          [2]float64{low, high},
			EdgePercent:   result.EdgePercent(),
		},
	}
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteFile writes the report to filename atomically.
func (r *Report) WriteFile(filename string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return writeFileAtomic(filename, append(data, '\n'), 0o644)
}

// WriteSummary prints a human-readable summary.
func (r *Report) WriteSummary(w io.Writer) error {
	res := r.Results
	pct := func(n int) float64 {
		if res.Rounds == 0 {
			return 0
		}
		return float64(n) / float64(res.Rounds) * 100
	}

	lines := []string{
		fmt.Sprintf("\n=== SIMULATION RESULTS (%s) ===", r.Rules.Summary),
		fmt.Sprintf("Rounds played: %d (%d hands, %d workers, seed %d)", res.Rounds, res.HandsDealt, r.Metadata.Workers, r.Metadata.Seed),
		fmt.Sprintf("Wins: %d (%.1f%%) | Losses: %d (%.1f%%) | Pushes: %d (%.1f%%)",
			res.Wins, pct(res.Wins), res.Losses, pct(res.Losses), res.Pushes, pct(res.Pushes)),
		fmt.Sprintf("Blackjacks: %d | Busts: %d | Doubles: %d | Splits: %d | Reshuffles: %d",
			res.Blackjacks, res.Busts, res.Doubles, res.Splits, res.Reshuffles),
		"\n=== STATISTICAL RESULTS ===",
		fmt.Sprintf("Net: %+d units at %d per round", res.Net, r.Metadata.BaseBet),
		fmt.Sprintf("Mean: %.4f units/round", res.MeanPerRound),
		fmt.Sprintf("Std Dev: %.4f units", res.StdDev),
		fmt.Sprintf("95%% CI: [%.4f, %.4f] units/round", res.CI95[0], res.CI95[1]),
		fmt.Sprintf("Player edge: %.3f%%", res.EdgePercent),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
