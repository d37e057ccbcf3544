// Package blackjack implements hand valuation, table rules and the round
// engine for a single-player blackjack advisor.
//
// The main type is Engine, which owns the shoe and walks one round at a time
// through dealing, player actions, dealer play and resolution.
//
// # Basic Usage
//
//	rules := blackjack.DefaultRules()
//	eng, err := blackjack.NewEngine(rules, randutil.New(seed))
//	if err != nil {
//	    return err
//	}
//	_ = eng.StartRound(10)
//	up := eng.DealerUpCard()
//	for {
//	    i, ok := eng.NextOpenHand()
//	    if !ok {
//	        break
//	    }
//	    action := strategy.Recommend(eng.PlayerHands()[i], up)
//	    if _, err := eng.Apply(i, action); err != nil {
//	        _, _ = eng.Apply(i, blackjack.Hit)
//	    }
//	}
//	result := eng.Finish()
//
// # Hand Values
//
// Evaluate is the single source of truth for totals. Aces count as one and at
// most one ace is promoted to eleven when that does not bust the hand. Hand
// exposes the value as a derived accessor so it is recomputed on every read.
//
// # Outcomes
//
// DetermineOutcome is a pure function of a player hand and the dealer hand.
// A zero bet is valued as one unit so advisory hands still produce a result.
package blackjack
