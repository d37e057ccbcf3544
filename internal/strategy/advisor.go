package strategy

import (
	"fmt"

	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/lox/blackjackadvisor/internal/deck"
)

// Advice is a recommendation together with the facts a driver displays
// alongside it.
type Advice struct {
	Hand        string   `json:"hand"`
	DealerUp    string   `json:"dealer_up"`
	Value       int      `json:"value"`
	Soft        bool     `json:"soft"`
	Pair        bool     `json:"pair"`
	Blackjack   bool     `json:"blackjack"`
	Busted      bool     `json:"busted"`
	Action      string   `json:"action,omitempty"`
	Description string   `json:"description,omitempty"`
	Play        string   `json:"play,omitempty"`
	Note        string   `json:"note,omitempty"`
	Insurance   []string `json:"insurance,omitempty"`
	RulesNote   string   `json:"rules_note"`
}

// Advisor answers "what should I do?" for a table's rules. The rules only
// shape the notes; the table itself does not depend on them.
type Advisor struct {
	rules blackjack.Rules
}

// NewAdvisor creates an advisor for rules.
func NewAdvisor(rules blackjack.Rules) *Advisor {
	return &Advisor{rules: rules}
}

// Rules returns the advisor's rules.
func (a *Advisor) Rules() blackjack.Rules {
	return a.rules
}

// Advise builds advice for h against the dealer's up card. A busted hand
// gets no action.
func (a *Advisor) Advise(h *blackjack.Hand, up deck.Rank) Advice {
	adv := Advice{
		Hand:      h.String(),
		DealerUp:  up.String(),
		Value:     h.Value(),
		Soft:      h.IsSoft(),
		Pair:      h.IsPair(),
		Blackjack: h.IsBlackjack(),
		Busted:    h.IsBusted(),
		Insurance: InsuranceNote(up, h),
		RulesNote: Soft17Note(a.rules),
	}
	if adv.Busted {
		return adv
	}

	action := Recommend(h, up)
	play, note := Playable(h, action, a.rules)
	adv.Action = action.String()
	adv.Description = Describe(action)
	adv.Play = play.String()
	adv.Note = note
	return adv
}

// Playable maps a recommendation onto an action the engine accepts for h,
// with a note when the two differ. A double that is no longer allowed
// becomes a hit.
func Playable(h *blackjack.Hand, a blackjack.Action, rules blackjack.Rules) (blackjack.Action, string) {
	if a != blackjack.Double {
		return a, ""
	}
	if h.Len() != 2 {
		return blackjack.Hit, "Cannot double after hitting. Hit instead."
	}
	if h.FromSplit() && !rules.DoubleAfterSplit {
		return blackjack.Hit, "Cannot double after a split at this table. Hit instead."
	}
	return a, ""
}

// AdviseCards parses the player's cards and the dealer's up card and
// advises on them. At least two player cards are required.
func (a *Advisor) AdviseCards(cards, dealer string) (Advice, error) {
	ranks, err := deck.ParseRanks(cards)
	if err != nil {
		return Advice{}, err
	}
	if len(ranks) < 2 {
		return Advice{}, fmt.Errorf("need at least two player cards, got %d", len(ranks))
	}
	up, err := deck.ParseRank(dealer)
	if err != nil {
		return Advice{}, fmt.Errorf("dealer card: %w", err)
	}
	return a.Advise(blackjack.NewHand(0, ranks...), up), nil
}
