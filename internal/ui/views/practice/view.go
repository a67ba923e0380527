// Package practice is the typing surface. It measures keystrokes, reports typing
// time to the daemon, and mirrors its current site theme onto the daemon icon.
package practice

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-hclog"

	themedto "typetrack/internal/modules/theme/dto"
	typingdto "typetrack/internal/modules/typing/dto"
	"typetrack/internal/platform/interval"
	"typetrack/internal/ui/theme"
)

type TypingPort interface {
	RecordKeystroke(ctx context.Context)
	Flush(ctx context.Context) (typingdto.FlushOutput, error)
	ObserveTheme(ctx context.Context, theme themedto.Theme) (typingdto.ThemeOutput, error)
	Stats() typingdto.Stats
}

type Options struct {
	FlushInterval     time.Duration
	ThemePollInterval time.Duration
	WordCount         int
	Seed              uint64
	Logger            hclog.Logger
}

// FlushedMsg carries the result of a flush started by the view.
type FlushedMsg struct {
	Out typingdto.FlushOutput
	Err error
}

// surface is shared between model copies and the interval goroutines.
type surface struct {
	port    TypingPort
	logger  hclog.Logger
	focused atomic.Bool
	preset  atomic.Int32
	flush   *interval.Interval
	poll    *interval.Interval
}

func (s *surface) hidden() bool { return !s.focused.Load() }

func (s *surface) toggle() {
	s.flush.Toggle()
	s.poll.Toggle()
}

func (s *surface) currentTheme() themedto.Theme {
	return theme.Presets[int(s.preset.Load())%len(theme.Presets)].Theme
}

func (s *surface) flushNow() {
	if _, err := s.port.Flush(context.Background()); err != nil {
		s.logger.Warn("periodic flush", "error", err)
	}
}

func (s *surface) observeTheme() {
	if _, err := s.port.ObserveTheme(context.Background(), s.currentTheme()); err != nil {
		s.logger.Warn("theme poll", "error", err)
	}
}

type keyMap struct {
	Theme   key.Binding
	Restart key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding { return []key.Binding{k.Theme, k.Restart, k.Quit} }

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// Model is the Bubble Tea practice view.
type Model struct {
	s         *surface
	rng       *rand.Rand
	wordCount int
	target    []rune
	typed     []rune
	correct   int
	wrong     int
	styles    theme.Styles
	keys      keyMap
	help      help.Model
	status    string
	width     int
	height    int
}

func New(port TypingPort, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 10 * time.Second
	}
	if opts.ThemePollInterval <= 0 {
		opts.ThemePollInterval = time.Second
	}
	if opts.WordCount <= 0 {
		opts.WordCount = 25
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}
	s := &surface{port: port, logger: opts.Logger}
	s.focused.Store(true)
	s.flush = interval.Schedule(s.flushNow, opts.FlushInterval, "saveTimeTyping", s.hidden, opts.Logger)
	s.poll = interval.Schedule(s.observeTheme, opts.ThemePollInterval, "updateTheme", s.hidden, opts.Logger)

	m := Model{
		s:         s,
		rng:       rand.New(rand.NewPCG(opts.Seed, opts.Seed>>1|1)),
		wordCount: opts.WordCount,
		styles:    theme.FromTheme(s.currentTheme()),
		keys: keyMap{
			Theme:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "next theme")),
			Restart: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "new words")),
			Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
		},
		help:   help.New(),
		status: "start typing",
	}
	m.newText()
	return m
}

// Init arms both intervals; this is the load-time toggle.
func (m Model) Init() tea.Cmd {
	m.s.toggle()
	return nil
}

// Close stops both intervals. The program must have exited.
func (m Model) Close() {
	m.s.flush.Stop()
	m.s.poll.Stop()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.FocusMsg:
		m.s.focused.Store(true)
		m.s.toggle()
		m.status = "focused"

	case tea.BlurMsg:
		m.s.focused.Store(false)
		m.s.toggle()
		m.status = "paused"
		return m, m.flushCmd()

	case FlushedMsg:
		switch {
		case msg.Err != nil:
			m.status = "save failed: " + msg.Err.Error()
		case !msg.Out.Sent:
		case !msg.Out.Success:
			m.status = msg.Out.Message
		default:
			m.status = fmt.Sprintf("saved %.2f minutes", msg.Out.Minutes)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Sequence(m.flushCmd(), tea.Quit)
		case key.Matches(msg, m.keys.Theme):
			next := (m.s.preset.Load() + 1) % int32(len(theme.Presets))
			m.s.preset.Store(next)
			m.styles = theme.FromTheme(m.s.currentTheme())
			m.status = "theme: " + theme.Presets[next].Name
			return m, nil
		case key.Matches(msg, m.keys.Restart):
			m.newText()
			return m, nil
		}
		switch msg.Type {
		case tea.KeyBackspace:
			if len(m.typed) > 0 {
				m.typed = m.typed[:len(m.typed)-1]
			}
		case tea.KeySpace:
			m.s.port.RecordKeystroke(context.Background())
			m.typeRunes([]rune{' '})
		case tea.KeyRunes:
			m.s.port.RecordKeystroke(context.Background())
			m.typeRunes(msg.Runes)
		}
	}
	return m, nil
}

func (m Model) View() string {
	var text strings.Builder
	for i, r := range m.target {
		switch {
		case i < len(m.typed) && m.typed[i] == r:
			text.WriteString(m.styles.Correct.Render(string(r)))
		case i < len(m.typed):
			text.WriteString(m.styles.Wrong.Render(string(r)))
		case i == len(m.typed):
			text.WriteString(m.styles.Cursor.Render(string(r)))
		default:
			text.WriteString(m.styles.Muted.Render(string(r)))
		}
	}

	width := m.width
	if width < 20 {
		width = 80
	}
	stats := m.s.port.Stats()
	preset := theme.Presets[int(m.s.preset.Load())%len(theme.Presets)]
	header := m.styles.Title.Render("typetrack") + "  " + m.styles.Muted.Render(preset.Name)
	body := m.styles.Pane.Width(width - 4).Render(text.String())
	counts := fmt.Sprintf("pending %.1fs  reported %.2f min  reports %d  accuracy %s",
		stats.Pending.Seconds(), stats.ReportedTotal, stats.Reports, m.accuracy())
	footer := m.styles.Muted.Render(counts) + "\n" + m.status + "\n" + m.help.View(m.keys)
	return m.styles.App.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer))
}

// Focused reports whether the view currently counts as visible.
func (m Model) Focused() bool { return m.s.focused.Load() }

// Theme is the site theme the view currently shows.
func (m Model) Theme() themedto.Theme { return m.s.currentTheme() }

func (m *Model) typeRunes(runes []rune) {
	for _, r := range runes {
		idx := len(m.typed)
		if idx >= len(m.target) {
			break
		}
		if m.target[idx] == r {
			m.correct++
		} else {
			m.wrong++
		}
		m.typed = append(m.typed, r)
	}
	if len(m.typed) >= len(m.target) {
		m.newText()
	}
}

func (m *Model) newText() {
	m.target = []rune(randomWords(m.rng, m.wordCount))
	m.typed = m.typed[:0]
}

func (m Model) accuracy() string {
	total := m.correct + m.wrong
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", float64(m.correct)*100/float64(total))
}

func (m Model) flushCmd() tea.Cmd {
	port := m.s.port
	return func() tea.Msg {
		out, err := port.Flush(context.Background())
		return FlushedMsg{Out: out, Err: err}
	}
}
