package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjackadvisor/internal/session"
	"github.com/lox/blackjackadvisor/internal/strategy"
)

const (
	playPlaceholder = "h, st, d, sp to act • ? for advice"
	idlePlaceholder = "Enter to deal, 'deal 25' to bet 25, 'help' for commands"
)

// Model is the Bubble Tea model for interactive play
type Model struct {
	session *session.Session
	logger  *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	round       int
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	testMode    bool
	capturedLog []string // For test assertions
}

// NewModel creates a play model for sess.
func NewModel(sess *session.Session, logger *log.Logger) *Model {
	return NewModelWithOptions(sess, logger, false)
}

// NewModelWithOptions creates a play model with test mode option
func NewModelWithOptions(sess *session.Session, logger *log.Logger, testMode bool) *Model {
	// Will be properly sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = idlePlaceholder
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &Model{
		session:     sess,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		focusedPane: 1, // Start with input focused
		testMode:    testMode,
		capturedLog: []string{},
	}

	rules := sess.Engine().Rules()
	m.addStyled(HeaderStyle, " Blackjack Basic Strategy Advisor ")
	m.addStyled(InfoStyle, fmt.Sprintf("%s. %s.", rules, strategy.Soft17Note(rules)))
	m.addStyled(InfoStyle, fmt.Sprintf("Bankroll: %d, base bet: %d. Type 'help' for commands.", sess.Bankroll(), sess.BaseBet()))
	return m
}

// Run starts an interactive play session on the terminal.
func Run(sess *session.Session, logger *log.Logger) error {
	p := tea.NewProgram(NewModel(sess, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			// Switch focus between log and input
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if m.Execute(input) {
					m.quitting = true
					return m, tea.Sequence(tea.ClearScreen, tea.Quit)
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd

	// Only update input if it's focused
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1))
	if m.focusedPane == 1 {
		actionStyle = actionStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	actionPane := actionStyle.Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1) // borders and action pane

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight

	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows the bankroll and session totals
func (m *Model) renderSidebarPane() string {
	var b strings.Builder
	stats := m.session.Stats()
	engine := m.session.Engine()

	b.WriteString(WarningStyle.Render(fmt.Sprintf("Bankroll: %d", m.session.Bankroll())))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Base bet: %d\n\n", m.session.BaseBet()))

	b.WriteString(InfoStyle.Render(engine.Rules().String()))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Shoe: %d cards left", engine.ShoeRemaining())))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Rounds: %d\n", stats.Rounds))
	b.WriteString(fmt.Sprintf("W/L/P: %d/%d/%d\n", stats.Wins, stats.Losses, stats.Pushes))
	b.WriteString(fmt.Sprintf("Net: %+d\n", stats.Net()))

	if warning := m.session.Warning(); warning != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(warning))
	}
	return b.String()
}

// renderActionPane shows the hand in play and the input field
func (m *Model) renderActionPane() string {
	var b strings.Builder
	engine := m.session.Engine()

	if i, ok := m.openHand(); ok {
		h := engine.PlayerHands()[i]
		b.WriteString(HandInfoStyle.Render(fmt.Sprintf("Dealer: %s  Hand %d: %s", engine.DealerUpCard(), i+1, h)))
		b.WriteString("\n")
		play, _ := strategy.Playable(h, strategy.Recommend(h, engine.DealerUpCard()), engine.Rules())
		b.WriteString(AdviceStyle.Render("Advice: " + strategy.Describe(play)))
		b.WriteString("\n")
		m.actionInput.Placeholder = playPlaceholder
	} else {
		b.WriteString(HandInfoStyle.Render("Waiting for the next deal..."))
		b.WriteString("\n")
		m.actionInput.Placeholder = idlePlaceholder
	}

	b.WriteString(m.actionInput.View())
	b.WriteString("\n")

	if m.focusedPane == 0 {
		b.WriteString(helpStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		b.WriteString(helpStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit"))
	}
	return b.String()
}

// AddLogEntry adds an entry to the game log
func (m *Model) AddLogEntry(entry string) {
	m.addLine(entry, entry)
}

func (m *Model) addStyled(style lipgloss.Style, entry string) {
	m.addLine(style.Render(entry), entry)
}

func (m *Model) addLine(rendered, plain string) {
	m.gameLog = append(m.gameLog, rendered)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, plain)
		return // Skip UI updates in test mode
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// ClearLog clears the game log
func (m *Model) ClearLog() {
	m.gameLog = []string{}
	m.capturedLog = []string{}
	m.logViewport.SetContent("")
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *Model) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the model is in test mode
func (m *Model) IsTestMode() bool {
	return m.testMode
}
