// Package popup is the dashboard: today's progress, the weekly goal table,
// the notification setting, recent history, and data export/import.
package popup

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	practicedto "typetrack/internal/modules/practice/dto"
	themedto "typetrack/internal/modules/theme/dto"
	apperrors "typetrack/internal/platform/errors"
	"typetrack/internal/ui/components"
	"typetrack/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type PracticePort interface {
	Status(ctx context.Context) (practicedto.StatusOutput, error)
	Goals(ctx context.Context) (practicedto.GoalsOutput, error)
	SetGoal(ctx context.Context, weekday string, minutes float64) (practicedto.GoalsOutput, error)
	Frequency(ctx context.Context) (practicedto.FrequencyOutput, error)
	SetFrequency(ctx context.Context, frequency string) (practicedto.FrequencyOutput, error)
	History(ctx context.Context) (practicedto.HistoryOutput, error)
	ExportFile(ctx context.Context, path string) (practicedto.Snapshot, error)
	ImportFile(ctx context.Context, path string) (practicedto.ImportOutput, error)
	Chart(ctx context.Context, path string, open bool) (practicedto.ChartOutput, error)
}

type ThemePort interface {
	List(ctx context.Context) ([]themedto.TabTheme, error)
	Default() themedto.Theme
}

type Options struct {
	Shortcut    string
	HistoryRows int
}

// ─── messages ────────────────────────────────────────────────────────────────

// LoadedMsg carries everything the popup shows. Err is a RetrievalError.
type LoadedMsg struct {
	Status    practicedto.StatusOutput
	Goals     practicedto.GoalsOutput
	Frequency practicedto.FrequencyOutput
	History   practicedto.HistoryOutput
	Theme     themedto.Theme
	Err       error
}

// ActionDoneMsg reports a write triggered from the popup.
type ActionDoneMsg struct {
	Status string
	Err    error
	Reload bool
}

var paletteHints = []string{
	"export <file.json|file.yaml>",
	"import <file.json|file.yaml>",
	"chart <file.html> [open]",
	"goal <weekday> <minutes>",
	"notify <never|quarterGoalCompletion|halfGoalCompletion|goalCompletion>",
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Edit    key.Binding
	Inc     key.Binding
	Dec     key.Binding
	Notify  key.Binding
	Reload  key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "weekday")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↑/↓", "weekday")),
		Edit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit goal")),
		Inc:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "goal ±5")),
		Dec:     key.NewBinding(key.WithKeys("-"), key.WithHelp("+/-", "goal ±5")),
		Notify:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "notifications")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Edit, k.Inc, k.Notify, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Edit, k.Inc, k.Dec}, {k.Notify, k.Reload, k.Palette, k.Quit}}
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	practice PracticePort
	themes   ThemePort
	opts     Options

	loaded    bool
	loadErr   error
	status    practicedto.StatusOutput
	goals     practicedto.GoalsOutput
	frequency practicedto.FrequencyOutput
	history   practicedto.HistoryOutput

	cursor  int
	editing bool
	input   textinput.Model
	bar     progress.Model
	palette components.Palette
	styles  theme.Styles
	keys    keyMap
	help    help.Model
	message string
	width   int
}

func New(practice PracticePort, themes ThemePort, opts Options) Model {
	if opts.HistoryRows <= 0 {
		opts.HistoryRows = 7
	}
	ti := textinput.New()
	ti.Placeholder = "minutes"
	ti.CharLimit = 8
	styles := theme.FromTheme(themes.Default())
	return Model{
		practice: practice,
		themes:   themes,
		opts:     opts,
		input:    ti,
		bar:      newBar(themes.Default()),
		palette:  components.NewPalette(paletteHints, styles),
		styles:   styles,
		keys:     defaultKeys(),
		help:     help.New(),
	}
}

func newBar(t themedto.Theme) progress.Model {
	return progress.New(progress.WithSolidFill("#"+t.MainColor), progress.WithWidth(40), progress.WithoutPercentage())
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.palette.SetWidth(min(msg.Width-4, 80))
		m.bar.Width = max(10, min(msg.Width-10, 60))

	case LoadedMsg:
		if msg.Err != nil {
			m.loadErr = msg.Err
			return m, nil
		}
		m.loaded = true
		m.loadErr = nil
		m.status = msg.Status
		m.goals = msg.Goals
		m.frequency = msg.Frequency
		m.history = msg.History
		m.styles = theme.FromTheme(msg.Theme)
		m.bar = newBar(msg.Theme)
		m.palette.SetStyles(m.styles)

	case ActionDoneMsg:
		if msg.Err != nil {
			m.message = "error: " + msg.Err.Error()
		} else {
			m.message = msg.Status
		}
		if msg.Reload {
			return m, m.loadCmd()
		}

	case components.PaletteSubmitMsg:
		return m, m.execute(msg.Input)

	case components.PaletteCancelMsg:
		m.message = ""

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			return m, m.loadCmd()
		}
		if !m.loaded {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursor = (m.cursor + len(m.goals.Weekdays) - 1) % len(m.goals.Weekdays)
		case key.Matches(msg, m.keys.Down):
			m.cursor = (m.cursor + 1) % len(m.goals.Weekdays)
		case key.Matches(msg, m.keys.Edit):
			m.editing = true
			m.input.SetValue(strconv.FormatFloat(m.selectedGoal(), 'f', -1, 64))
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Inc):
			return m, m.setGoalCmd(m.selectedWeekday(), m.selectedGoal()+5)
		case key.Matches(msg, m.keys.Dec):
			return m, m.setGoalCmd(m.selectedWeekday(), max(0, m.selectedGoal()-5))
		case key.Matches(msg, m.keys.Notify):
			return m, m.setFrequencyCmd(m.nextFrequency())
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		minutes, err := strconv.ParseFloat(strings.TrimSpace(m.input.Value()), 64)
		if err != nil {
			m.message = "error: goal must be a number of minutes"
			return m, nil
		}
		return m, m.setGoalCmd(m.selectedWeekday(), minutes)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	width := m.width
	if width < 20 {
		width = 64
	}
	if m.loadErr != nil {
		return m.styles.App.Width(width).Render(
			m.styles.Title.Render("typetrack") + "\n\n" +
				m.styles.Wrong.Render(m.loadErr.Error()) + "\n\n" +
				m.styles.Muted.Render("r: retry  q: quit"))
	}
	if !m.loaded {
		return m.styles.App.Width(width).Render(m.styles.Muted.Render("loading…"))
	}
	if m.palette.Visible() {
		return m.styles.App.Width(width).Render(m.palette.View())
	}

	sections := []string{
		m.styles.Title.Render("typetrack") + "  " + m.styles.Muted.Render("open with "+m.opts.Shortcut),
		m.renderToday(),
		m.renderGoals(),
		m.renderHistory(),
	}
	if m.message != "" {
		sections = append(sections, m.message)
	}
	sections = append(sections, m.help.View(m.keys))
	return m.styles.App.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderToday() string {
	s := m.status
	var sb strings.Builder
	sb.WriteString(m.styles.Hot.Render("today") + "\n")
	if s.HasGoal {
		sb.WriteString(fmt.Sprintf("%.1f / %s minutes (%s)\n", s.Today.Minutes, formatMinutes(s.Goal), s.Weekday))
	} else {
		sb.WriteString(fmt.Sprintf("%.1f minutes, no goal for %s\n", s.Today.Minutes, s.Weekday))
	}
	sb.WriteString(m.bar.ViewAs(s.Percent/100) + fmt.Sprintf(" %.0f%%", s.Percent))
	sb.WriteString("\n" + m.styles.Muted.Render("notifications: "+m.frequency.Frequency))
	return m.styles.Pane.Render(sb.String())
}

func (m Model) renderGoals() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Hot.Render("daily goals") + "\n")
	for i, day := range m.goals.Weekdays {
		line := fmt.Sprintf("%-10s %6s min", day, formatMinutes(m.goals.Goals[day]))
		switch {
		case i == m.cursor && m.editing:
			line = fmt.Sprintf("%-10s ", day) + m.input.View()
			sb.WriteString(m.styles.Hot.Render("> ") + line + "\n")
		case i == m.cursor:
			sb.WriteString(m.styles.Hot.Render("> " + line) + "\n")
		default:
			sb.WriteString("  " + line + "\n")
		}
	}
	return m.styles.PaneActive.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m Model) renderHistory() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Hot.Render("history") + "\n")
	records := m.history.Records
	if len(records) == 0 {
		sb.WriteString(m.styles.Muted.Render("no archived days yet"))
		return m.styles.Pane.Render(sb.String())
	}
	start := max(0, len(records)-m.opts.HistoryRows)
	for _, r := range records[start:] {
		sb.WriteString(fmt.Sprintf("%s  %6.1f min\n", r.Date.Format("Mon 2006-01-02"), r.Minutes))
	}
	return m.styles.Pane.Render(strings.TrimRight(sb.String(), "\n"))
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) execute(input string) tea.Cmd {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}
	fail := func(format string, args ...any) tea.Cmd {
		err := fmt.Errorf(format, args...)
		return func() tea.Msg { return ActionDoneMsg{Err: err} }
	}
	switch parts[0] {
	case "export":
		if len(parts) != 2 {
			return fail("usage: export <file>")
		}
		return func() tea.Msg {
			snap, err := m.practice.ExportFile(context.Background(), parts[1])
			return ActionDoneMsg{Status: fmt.Sprintf("exported %d archived days to %s", len(snap.History), parts[1]), Err: err}
		}
	case "import":
		if len(parts) != 2 {
			return fail("usage: import <file>")
		}
		return func() tea.Msg {
			out, err := m.practice.ImportFile(context.Background(), parts[1])
			return ActionDoneMsg{Status: fmt.Sprintf("imported %d archived days", out.HistoryDays), Err: err, Reload: err == nil}
		}
	case "chart":
		if len(parts) < 2 {
			return fail("usage: chart <file.html> [open]")
		}
		open := len(parts) > 2 && parts[2] == "open"
		return func() tea.Msg {
			out, err := m.practice.Chart(context.Background(), parts[1], open)
			return ActionDoneMsg{Status: fmt.Sprintf("chart of %d days written to %s", out.Days, out.Path), Err: err}
		}
	case "goal":
		if len(parts) != 3 {
			return fail("usage: goal <weekday> <minutes>")
		}
		minutes, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return fail("goal minutes: %w", apperrors.ErrInvalidInput)
		}
		return m.setGoalCmd(parts[1], minutes)
	case "notify":
		if len(parts) != 2 {
			return fail("usage: notify <frequency>")
		}
		return m.setFrequencyCmd(parts[1])
	default:
		return fail("unknown command: %s", parts[0])
	}
}

func (m Model) loadCmd() tea.Cmd {
	practice, themes := m.practice, m.themes
	return func() tea.Msg {
		ctx := context.Background()
		var out LoadedMsg
		var err error
		if out.Status, err = practice.Status(ctx); err != nil {
			return LoadedMsg{Err: &apperrors.RetrievalError{What: "today's progress", Err: err}}
		}
		if out.Goals, err = practice.Goals(ctx); err != nil {
			return LoadedMsg{Err: &apperrors.RetrievalError{What: "daily goals", Err: err}}
		}
		if out.Frequency, err = practice.Frequency(ctx); err != nil {
			return LoadedMsg{Err: &apperrors.RetrievalError{What: "notification frequency", Err: err}}
		}
		if out.History, err = practice.History(ctx); err != nil {
			return LoadedMsg{Err: &apperrors.RetrievalError{What: "history", Err: err}}
		}
		out.Theme = themes.Default()
		mapped, err := themes.List(ctx)
		if err != nil {
			return LoadedMsg{Err: &apperrors.RetrievalError{What: "themes", Err: err}}
		}
		if len(mapped) > 0 {
			out.Theme = mapped[len(mapped)-1].Theme
		}
		return out
	}
}

func (m Model) setGoalCmd(weekday string, minutes float64) tea.Cmd {
	practice := m.practice
	return func() tea.Msg {
		_, err := practice.SetGoal(context.Background(), weekday, minutes)
		return ActionDoneMsg{Status: fmt.Sprintf("%s goal set to %s minutes", weekday, formatMinutes(minutes)), Err: err, Reload: err == nil}
	}
}

func (m Model) setFrequencyCmd(frequency string) tea.Cmd {
	practice := m.practice
	return func() tea.Msg {
		out, err := practice.SetFrequency(context.Background(), frequency)
		return ActionDoneMsg{Status: "notifications: " + out.Frequency, Err: err, Reload: err == nil}
	}
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) selectedWeekday() string {
	if m.cursor < len(m.goals.Weekdays) {
		return m.goals.Weekdays[m.cursor]
	}
	return ""
}

func (m Model) selectedGoal() float64 {
	return m.goals.Goals[m.selectedWeekday()]
}

func (m Model) nextFrequency() string {
	options := m.frequency.Options
	for i, option := range options {
		if option == m.frequency.Frequency {
			return options[(i+1)%len(options)]
		}
	}
	if len(options) > 0 {
		return options[0]
	}
	return ""
}

// LoadError is the retrieval error shown instead of the dashboard, if any.
func (m Model) LoadError() error {
	return m.loadErr
}

func formatMinutes(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
