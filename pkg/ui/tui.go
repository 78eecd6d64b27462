package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	"github.com/fd1az/arbitrage-evaluator/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"
	PhaseDashboard Phase = "dashboard"
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	prices      *components.PricesComponent
	evaluations *components.EvaluationsComponent
	status      *components.StatusComponent
	stats       *components.StatsComponent

	keys KeyMap
	help help.Model

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// State
	quitting      bool
	paused        bool // freezes the evaluation list
	width         int
	height        int
	lastUpdate    time.Time
	errors        []ErrorEntry // last 3
	logs          []string
	activityFeed  []string
	totalDuration time.Duration
}

// New creates a new TUI model.
func New() Model {
	return Model{
		prices:       components.NewPricesComponent(),
		evaluations:  components.NewEvaluationsComponent(50),
		status:       components.NewStatusComponent(),
		stats:        components.NewStatsComponent(),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		phase:        PhaseWelcome,
		welcomeStart: time.Now(),
		logs:         make([]string, 0, 5),
		errors:       make([]ErrorEntry, 0, maxErrors),
		activityFeed: make([]string, 0, 6),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

func (m Model) leaveWelcome() Model {
	m.phase = PhaseDashboard
	// Not Send(): Update must not block on the program's own channel.
	if OnStartModules != nil {
		go OnStartModules()
	}
	return m
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.phase == PhaseWelcome {
			return m.leaveWelcome(), tickCmd()
		}
		switch {
		case key.Matches(msg, m.keys.Clear):
			m.evaluations.Clear()
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.ScrollUp):
			m.evaluations.ScrollUp()
		case key.Matches(msg, m.keys.ScrollDown):
			m.evaluations.ScrollDown()
		case key.Matches(msg, m.keys.ClearErrs):
			m.errors = make([]ErrorEntry, 0, maxErrors)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m = m.leaveWelcome()
		}
		return m, tickCmd()

	case ReportMsg:
		if msg.Report != nil {
			m.applyReport(msg.Report)
		}

	case QuotesMsg:
		rows := make([]components.QuoteRow, 0, len(msg.Quotes))
		for _, q := range msg.Quotes {
			if q == nil {
				continue
			}
			rows = append(rows, components.QuoteRow{
				Exchange:  q.Exchange.String(),
				Pair:      q.Pair,
				Price:     q.Price,
				FetchedAt: q.FetchedAt,
			})
		}
		m.prices.Update(rows...)
		m.lastUpdate = time.Now()

	case ConnectionStatusMsg:
		m.status.Update(components.ConnectionStatus{
			Name:       msg.Name,
			Connected:  msg.Connected,
			Latency:    msg.Latency,
			LastUpdate: time.Now(),
		})
		m.lastUpdate = time.Now()

	case PollStateMsg:
		st := m.stats.Stats()
		st.PollEnabled = msg.Enabled
		m.stats.Update(st)
		if !msg.Enabled && msg.Reason != "" {
			m.activityFeed = keepLast(m.activityFeed, stamped("Poller disabled: %s", msg.Reason), maxActivity)
		}

	case ErrorMsg:
		m.logs = keepLast(m.logs, stamped("error: %v", msg.Error), maxLogs)
		m.errors = keepLast(m.errors, ErrorEntry{Message: msg.Error.Error(), Timestamp: time.Now()}, maxErrors)
		st := m.stats.Stats()
		st.Errors++
		m.stats.Update(st)

	case LogMsg:
		m.logs = keepLast(m.logs, stamped("%s: %s", msg.Level, msg.Message), maxLogs)
	}

	return m, nil
}

func (m *Model) applyReport(r *domain.Report) {
	st := m.stats.Stats()
	st.Evaluations++
	st.Warnings += int64(len(r.Warnings))

	m.totalDuration += r.Duration
	st.AvgDurationMs = float64(m.totalDuration.Milliseconds()) / float64(st.Evaluations)

	network := "-"
	if r.Network != nil {
		network = r.Network.Reasoning
	}

	if r.Result != nil {
		switch r.Result.Diagnosis {
		case domain.Positive:
			st.Positive++
		case domain.Negative:
			st.Negative++
		default:
			st.Neutral++
		}

		if !m.paused {
			m.evaluations.Add(components.EvaluationRow{
				Timestamp:  r.Timestamp.Local().Format("15:04:05"),
				Direction:  r.Route.Direction().String(),
				Mode:       r.Route.Mode.String(),
				Asset:      r.Route.LegA.Asset.String(),
				SpreadPct:  r.Result.NetSpreadPercent,
				FinalValue: r.Result.FinalValue,
				Diagnosis:  string(r.Result.Diagnosis),
				Network:    network,
				Profitable: r.IsProfitable(),
			})
		}

		m.activityFeed = keepLast(m.activityFeed, stamped("%s %s: %+.3f%% (%s)",
			r.Route.LegA.Asset, r.Route.Direction(), r.Result.NetSpreadPercent.InexactFloat64(), r.Result.Diagnosis), maxActivity)
	}
	for _, w := range r.Warnings {
		m.activityFeed = keepLast(m.activityFeed, stamped("warning: %s", w), maxActivity)
	}

	m.stats.Update(st)
	m.lastUpdate = time.Now()
}

const (
	maxLogs     = 5
	maxActivity = 6
	maxErrors   = 3
)

// keepLast appends v and drops the oldest entries beyond limit.
func keepLast[T any](items []T, v T, limit int) []T {
	items = append(items, v)
	if len(items) > limit {
		items = items[len(items)-limit:]
	}
	return items
}

func stamped(format string, args ...any) string {
	return "[" + time.Now().Format("15:04:05") + "] " + fmt.Sprintf(format, args...)
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}
	if m.phase == PhaseWelcome {
		return m.renderWelcomeScreen()
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(" Cross-Exchange Arbitrage Evaluator "))
	b.WriteString("\n\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	leftCol := m.prices.View() + "\n\n" + m.renderActivityFeed()
	rightCol := m.evaluations.View()

	if m.width > 120 {
		left := BoxStyle.Width(m.width/3 - 2).Render(leftCol)
		right := BoxStyle.Width(2*m.width/3 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		width := max(m.width-4, 40)
		b.WriteString(BoxStyle.Width(width).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(width).Render(rightCol))
	}
	b.WriteString("\n\n")
	b.WriteString(m.stats.View())
	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(MutedValue.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(MutedValue.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.paused {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ColorWarning).Render("⏸ PAUSED"))
		b.WriteString(" • ")
	}
	b.WriteString(HelpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m Model) renderActivityFeed() string {
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("LIVE ACTIVITY"))
	sb.WriteString("\n\n")

	if len(m.activityFeed) == 0 {
		sb.WriteString(MutedValue.Render("  Waiting for the first evaluation..."))
		return sb.String()
	}
	for _, activity := range m.activityFeed {
		sb.WriteString(activityStyle(activity).Render("  " + activity))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	greenStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	dots := strings.Repeat(".", int(time.Since(m.welcomeStart).Milliseconds()/300)%4)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")
	sb.WriteString(titleStyle.Render("        A R B I T R A G E   E V A L U A T O R"))
	sb.WriteString("\n\n")
	sb.WriteString(MutedValue.Render("     MEXC · Bitmart · Gate.io · Poloniex · Binance"))
	sb.WriteString("\n\n\n")
	sb.WriteString(greenStyle.Render("                  Initializing" + dots))
	sb.WriteString("\n\n")
	sb.WriteString(MutedValue.Render("           Press any key to skip, or wait..."))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderStatusBar() string {
	parts := []string{m.status.View()}
	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}
	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules should start.
// This is set by main.go to signal when to begin loading modules.
var OnStartModules func()

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
