package strategy

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/blackjackadvisor/internal/blackjack"
	"github.com/lox/blackjackadvisor/internal/deck"
)

// DealerUpCards are the chart columns, 2 through 10 then ace.
var DealerUpCards = []deck.Rank{
	deck.Two, deck.Three, deck.Four, deck.Five, deck.Six,
	deck.Seven, deck.Eight, deck.Nine, deck.Ten, deck.Ace,
}

// Row is one player hand shape against every dealer up card.
type Row struct {
	Label   string             `json:"label"`
	Actions []blackjack.Action `json:"actions"`
}

// Section groups the rows of one table: hard, soft or pairs.
type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Chart evaluates Recommend over representative hands to produce the full
// strategy chart.
func Chart() []Section {
	hard := Section{Title: "Hard totals"}
	for total := 8; total <= 17; total++ {
		label := fmt.Sprintf("%d", total)
		switch total {
		case 8:
			label = "5-8"
		case 17:
			label = "17+"
		}
		hard.Rows = append(hard.Rows, row(label, hardHand(total)))
	}

	soft := Section{Title: "Soft totals"}
	for r := deck.Two; r <= deck.Nine; r++ {
		soft.Rows = append(soft.Rows, row("A,"+r.String(), blackjack.NewHand(0, deck.Ace, r)))
	}

	pairs := Section{Title: "Pairs"}
	for r := deck.Two; r <= deck.Ten; r++ {
		pairs.Rows = append(pairs.Rows, row(r.String()+","+r.String(), blackjack.NewHand(0, r, r)))
	}
	pairs.Rows = append(pairs.Rows, row("A,A", blackjack.NewHand(0, deck.Ace, deck.Ace)))

	return []Section{hard, soft, pairs}
}

func row(label string, h *blackjack.Hand) Row {
	r := Row{Label: label, Actions: make([]blackjack.Action, len(DealerUpCards))}
	for i, up := range DealerUpCards {
		r.Actions[i] = Recommend(h, up)
	}
	return r
}

// hardHand returns a two-card hand with the given hard total that is neither
// a pair nor soft. Totals from 5 to 19 are supported.
func hardHand(total int) *blackjack.Hand {
	for a := deck.Two; a <= deck.Ten; a++ {
		b := deck.Rank(total - int(a))
		if b > a && b <= deck.Ten {
			return blackjack.NewHand(0, a, b)
		}
	}
	panic(fmt.Sprintf("no hard two-card hand totals %d", total))
}

var (
	chartTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	chartHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#626262")).
				Width(4).
				Align(lipgloss.Center)

	chartLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(6)

	chartNoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	actionStyles = map[blackjack.Action]lipgloss.Style{
		blackjack.Hit:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		blackjack.Stand:  lipgloss.NewStyle().Foreground(lipgloss.Color("#96CEB4")),
		blackjack.Double: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		blackjack.Split:  lipgloss.NewStyle().Foreground(lipgloss.Color("#74B9FF")).Bold(true),
	}
)

// RenderChart writes the strategy chart for rules to w.
func RenderChart(w io.Writer, rules blackjack.Rules) error {
	var b strings.Builder

	b.WriteString(chartTitleStyle.Render("Basic Strategy"))
	b.WriteString("\n")
	b.WriteString(chartNoteStyle.Render(fmt.Sprintf("%s. %s.", rules, Soft17Note(rules))))
	b.WriteString("\n")

	for _, section := range Chart() {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(section.Title))
		b.WriteString("\n")

		b.WriteString(chartLabelStyle.Render(""))
		for _, up := range DealerUpCards {
			b.WriteString(chartHeaderStyle.Render(up.String()))
		}
		b.WriteString("\n")

		for _, r := range section.Rows {
			b.WriteString(chartLabelStyle.Render(r.Label))
			for _, a := range r.Actions {
				b.WriteString(actionStyles[a].Width(4).Align(lipgloss.Center).Render(a.String()))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(chartNoteStyle.Render("H = Hit, ST = Stand, D = Double, SP = Split"))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
