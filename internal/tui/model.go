package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/majkelowskiii/jack-of-all-trades/internal/blackjack"
)

// dealDelay paces automatic card reveals so deals read as animation
const dealDelay = 250 * time.Millisecond

// stepMsg asks the model to consume one queued deal or dealer step
type stepMsg struct{}

// Model is the Bubble Tea model for the local blackjack table
type Model struct {
	manager *blackjack.Manager
	logger  *log.Logger

	logViewport viewport.Model
	actionInput textinput.Model

	errMsg      string
	width       int
	height      int
	initialized bool
	quitting    bool
}

// NewModel creates the table UI over an already configured session
func NewModel(manager *blackjack.Manager, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "bet 100, hit, stand, double, split, surrender, insure 50, skip, next, quit"
	ti.Focus()
	ti.CharLimit = 60
	ti.Width = 80
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	return &Model{
		manager:     manager,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = msg.Width - 4
		m.logViewport.Height = max(5, msg.Height-16)
		m.initialized = true

	case stepMsg:
		m.consumeStep()
		if cmd := m.autoStep(); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			command := strings.TrimSpace(m.actionInput.Value())
			m.actionInput.SetValue("")
			if command != "" {
				if cmd := m.execute(command); cmd != nil {
					if m.quitting {
						return m, cmd
					}
					cmds = append(cmds, cmd)
				}
			}
		}
	}

	var cmd tea.Cmd
	m.actionInput, cmd = m.actionInput.Update(msg)
	cmds = append(cmds, cmd)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// execute parses and runs one typed command, returning a follow-up
// command when the session has queued deals to animate.
func (m *Model) execute(command string) tea.Cmd {
	fields := strings.Fields(strings.ToLower(command))
	m.errMsg = ""

	var err error
	switch fields[0] {
	case "quit", "exit", "q":
		m.quitting = true
		return tea.Sequence(tea.ClearScreen, tea.Quit)
	case "bet", "b":
		var amount int
		if amount, err = commandAmount(fields); err == nil {
			err = m.manager.Apply(blackjack.Action{Op: blackjack.OpPlaceBet, Amount: amount})
		}
	case "hit", "h":
		err = m.manager.Apply(blackjack.Action{Op: blackjack.OpHit})
	case "stand", "s":
		err = m.manager.Apply(blackjack.Action{Op: blackjack.OpStand})
	case "double", "d":
		err = m.manager.Apply(blackjack.Action{Op: blackjack.OpDouble})
	case "split", "p":
		err = m.manager.Apply(blackjack.Action{Op: blackjack.OpSplit})
	case "surrender":
		err = m.manager.Apply(blackjack.Action{Op: blackjack.OpSurrender})
	case "insure", "i":
		var amount int
		if amount, err = commandAmount(fields); err == nil {
			err = m.manager.Apply(blackjack.Action{Op: blackjack.OpBuyInsurance, Amount: amount})
		}
	case "skip":
		err = m.manager.Apply(blackjack.Action{Op: blackjack.OpSkipInsurance})
	case "next", "n":
		err = m.manager.StartNextHand()
	default:
		err = fmt.Errorf("unknown command %q", fields[0])
	}

	if err != nil {
		m.errMsg = err.Error()
		m.logger.Debug("command rejected", "command", command, "error", err)
		return nil
	}
	return m.autoStep()
}

func commandAmount(fields []string) (int, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("%s needs an amount", fields[0])
	}
	amount, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("bad amount %q", fields[1])
	}
	return amount, nil
}

// consumeStep applies one queued deal or dealer step
func (m *Model) consumeStep() {
	switch m.manager.Phase() {
	case blackjack.PhaseInitialDeal:
		if err := m.manager.Apply(blackjack.Action{Op: blackjack.OpDeal}); err != nil {
			m.errMsg = err.Error()
		}
	case blackjack.PhaseDealerAction:
		if err := m.manager.Apply(blackjack.Action{Op: blackjack.OpDealerStep}); err != nil {
			m.errMsg = err.Error()
		}
	}
}

// autoStep schedules the next queued card whenever the session is in
// a dealing phase.
func (m *Model) autoStep() tea.Cmd {
	switch m.manager.Phase() {
	case blackjack.PhaseInitialDeal, blackjack.PhaseDealerAction:
		return tea.Tick(dealDelay, func(time.Time) tea.Msg { return stepMsg{} })
	default:
		return nil
	}
}

var suitSymbols = map[string]string{
	"spades":   "♠",
	"hearts":   "♥",
	"diamonds": "♦",
	"clubs":    "♣",
}

func renderCard(c blackjack.CardPayload) string {
	symbol, ok := suitSymbols[c.Suit]
	if !ok {
		symbol = "?"
	}
	text := c.Rank + symbol
	if c.Suit == "hearts" || c.Suit == "diamonds" {
		return RedCardStyle.Render(text)
	}
	return BlackCardStyle.Render(text)
}

func renderCards(cards []blackjack.CardPayload) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, renderCard(c))
	}
	return strings.Join(parts, " ")
}

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" Blackjack Trainer "))
	b.WriteString("\n\n")

	switch snap := m.manager.Snapshot().(type) {
	case *blackjack.SetupSnapshot:
		b.WriteString(InfoStyle.Render("Session not configured."))
		b.WriteString("\n")
	case *blackjack.Snapshot:
		m.renderTable(&b, snap)
	}

	if m.errMsg != "" {
		b.WriteString(ErrorStyle.Render("! " + m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.actionInput.View())
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("esc to quit"))
	return b.String()
}

func (m *Model) renderTable(b *strings.Builder, snap *blackjack.Snapshot) {
	dealerLine := "Dealer: " + renderCards(snap.Dealer.Cards)
	for i := 0; i < snap.Dealer.HiddenCards; i++ {
		dealerLine += " " + InfoStyle.Render("[?]")
	}
	if snap.Dealer.Total != nil {
		dealerLine += fmt.Sprintf("  (%d)", *snap.Dealer.Total)
	} else {
		dealerLine += fmt.Sprintf("  (showing %d)", snap.Dealer.VisibleTotal)
	}
	b.WriteString(dealerLine)
	b.WriteString("\n\n")

	for i, hand := range snap.Player.Hands {
		marker := "  "
		if snap.Player.ActiveHandIndex != nil && *snap.Player.ActiveHandIndex == i {
			marker = ActionsStyle.Render("> ")
		}
		line := fmt.Sprintf("%sHand %d: %s  (%d) bet %d  %s",
			marker, i+1, renderCards(hand.Cards), hand.Total, hand.Bet, hand.Status)
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(snap.Player.Hands) == 0 {
		b.WriteString(InfoStyle.Render("  place a bet to start a hand"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(TableInfoStyle.Render(fmt.Sprintf(
		"Bankroll %d  |  Bet %d-%d  |  Hand #%d  |  Phase %s",
		snap.Player.Bankroll,
		snap.Player.BetLimits.Min,
		snap.Player.BetLimits.Max,
		snap.HandNumber,
		snap.Phase)))
	b.WriteString("\n")
	b.WriteString(CountStyle.Render(fmt.Sprintf(
		"Count %+d (true %.2f)  |  Shoe %d/%d",
		snap.RunningCount,
		snap.TrueCount,
		snap.Shoe.CardsRemaining,
		snap.Shoe.TotalCards)))
	b.WriteString("\n\n")

	var lines []string
	for _, msg := range snap.Messages {
		lines = append(lines, MessageStyle.Render(msg))
	}
	for _, res := range snap.HandResults {
		lines = append(lines, ResultStyle.Render(res))
	}
	if m.initialized {
		m.logViewport.SetContent(strings.Join(lines, "\n"))
		m.logViewport.GotoBottom()
		b.WriteString(m.logViewport.View())
	} else {
		b.WriteString(strings.Join(lines, "\n"))
	}
	b.WriteString("\n")

	if actions := availableCommands(snap.AvailableActions); actions != "" {
		b.WriteString(ActionsStyle.Render("Available: " + actions))
		b.WriteString("\n")
	}
}

// availableCommands lists the commands the session will accept now
func availableCommands(a blackjack.AvailableActions) string {
	var out []string
	if a.CanPlaceBet {
		out = append(out, "bet <amount>")
	}
	if a.CanHit {
		out = append(out, "hit")
	}
	if a.CanStand {
		out = append(out, "stand")
	}
	if a.CanDouble {
		out = append(out, "double")
	}
	if a.CanSplit {
		out = append(out, "split")
	}
	if a.CanSurrender {
		out = append(out, "surrender")
	}
	if a.CanBuyInsurance {
		out = append(out, "insure <amount>")
	}
	if a.CanSkipInsurance {
		out = append(out, "skip")
	}
	if a.CanStartNextHand {
		out = append(out, "next")
	}
	return strings.Join(out, ", ")
}
