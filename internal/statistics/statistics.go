package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjackadvisor/internal/blackjack"
)

// RoundResult is the summary of one settled round as the statistics see it.
type RoundResult struct {
	Net        int // net units won or lost across every hand of the round
	Hands      int // player hands in the round, more than one after a split
	Blackjacks int
	Busts      int
	Doubles    int
	Splits     int
}

// FromResult summarises a settled round.
func FromResult(r blackjack.Result) RoundResult {
	rr := RoundResult{Net: r.Net, Hands: len(r.Hands)}
	if rr.Hands > 1 {
		rr.Splits = rr.Hands - 1
	}
	for _, o := range r.Hands {
		if o.Label == blackjack.LabelBlackjackWin {
			rr.Blackjacks++
		}
		if o.Label == blackjack.LabelBustLoss {
			rr.Busts++
		}
		if o.Hand != nil && o.Hand.Doubled() {
			rr.Doubles++
		}
	}
	return rr
}

// Statistics tracks session results. Wins, losses and pushes are counted per
// round by the sign of the round's net result.
type Statistics struct {
	Rounds  int
	Wins    int
	Losses  int
	Pushes  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Per-round net results for median/percentile calculation

	// Hand-level counters
	HandsDealt int
	Blackjacks int
	Busts      int
	Doubles    int
	Splits     int
}

// Add incorporates a settled round.
func (s *Statistics) Add(result RoundResult) {
	net := float64(result.Net)
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)

	switch {
	case result.Net > 0:
		s.Wins++
	case result.Net < 0:
		s.Losses++
	default:
		s.Pushes++
	}

	s.HandsDealt += result.Hands
	s.Blackjacks += result.Blackjacks
	s.Busts += result.Busts
	s.Doubles += result.Doubles
	s.Splits += result.Splits
}

// Merge folds other into s. Used to combine per-worker simulator totals.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.HandsDealt += other.HandsDealt
	s.Blackjacks += other.Blackjacks
	s.Busts += other.Busts
	s.Doubles += other.Doubles
	s.Splits += other.Splits
}

// WinPercentage returns the share of rounds won, 0 to 100.
func (s *Statistics) WinPercentage() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds) * 100
}

// Net returns the total net result in units.
func (s *Statistics) Net() int {
	return int(math.Round(s.SumNet))
}

// Mean returns the mean net result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of round results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of round results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median round result
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the round result at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks the counters agree with each other.
func (s *Statistics) Validate() error {
	if s.Wins+s.Losses+s.Pushes != s.Rounds {
		return fmt.Errorf("wins (%d) + losses (%d) + pushes (%d) does not match rounds (%d)",
			s.Wins, s.Losses, s.Pushes, s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds (%d)", len(s.Values), s.Rounds)
	}
	if s.HandsDealt < s.Rounds {
		return fmt.Errorf("hands dealt (%d) is less than rounds (%d)", s.HandsDealt, s.Rounds)
	}
	if s.Blackjacks+s.Busts > s.HandsDealt {
		return fmt.Errorf("blackjacks (%d) + busts (%d) exceeds hands dealt (%d)", s.Blackjacks, s.Busts, s.HandsDealt)
	}
	return nil
}
