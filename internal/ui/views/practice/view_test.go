package practice

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	themedto "typetrack/internal/modules/theme/dto"
	typingdto "typetrack/internal/modules/typing/dto"
	"typetrack/internal/ui/theme"
)

type fakeTyping struct {
	mu         sync.Mutex
	keystrokes int
	flushes    int
	themes     []themedto.Theme
}

func (f *fakeTyping) RecordKeystroke(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keystrokes++
}

func (f *fakeTyping) Flush(context.Context) (typingdto.FlushOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return typingdto.FlushOutput{Sent: true, Success: true, Minutes: 0.25}, nil
}

func (f *fakeTyping) ObserveTheme(_ context.Context, t themedto.Theme) (typingdto.ThemeOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.themes = append(f.themes, t)
	return typingdto.ThemeOutput{Sent: true, Success: true}, nil
}

func (f *fakeTyping) Stats() typingdto.Stats { return typingdto.Stats{} }

func (f *fakeTyping) snapshot() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keystrokes, f.flushes, len(f.themes)
}

func TestKeystrokesAreRecorded(t *testing.T) {
	t.Parallel()
	port := &fakeTyping{}
	var model tea.Model = New(port, Options{Seed: 7, WordCount: 3})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeySpace})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if keys, _, _ := port.snapshot(); keys != 2 {
		t.Fatalf("expected two recorded keystrokes, got %d", keys)
	}
	if model.View() == "" {
		t.Fatalf("expected a rendered view")
	}
}

func TestBlurFlushesAndPauses(t *testing.T) {
	t.Parallel()
	port := &fakeTyping{}
	m := New(port, Options{Seed: 1, FlushInterval: time.Hour, ThemePollInterval: time.Hour})
	m.Init()
	defer m.Close()

	next, cmd := m.Update(tea.BlurMsg{})
	if next.(Model).Focused() {
		t.Fatalf("blur must pause the view")
	}
	if cmd == nil {
		t.Fatalf("blur must flush")
	}
	msg, ok := cmd().(FlushedMsg)
	if !ok || !msg.Out.Success {
		t.Fatalf("unexpected flush message %#v", msg)
	}
	next, _ = next.Update(msg)
	if got := next.(Model).status; got != "saved 0.25 minutes" {
		t.Fatalf("unexpected status %q", got)
	}
	next, _ = next.Update(tea.FocusMsg{})
	if !next.(Model).Focused() {
		t.Fatalf("focus must resume the view")
	}
}

func TestThemePollRunsOnlyWhileFocused(t *testing.T) {
	t.Parallel()
	port := &fakeTyping{}
	m := New(port, Options{Seed: 1, FlushInterval: time.Hour, ThemePollInterval: 10 * time.Millisecond})
	m.Init()
	defer m.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, _, themes := port.snapshot(); themes > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("theme poll never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}

	m.Update(tea.BlurMsg{})
	_, _, before := port.snapshot()
	time.Sleep(50 * time.Millisecond)
	if _, _, after := port.snapshot(); after != before {
		t.Fatalf("theme poll kept running while blurred: %d -> %d", before, after)
	}
}

func TestThemeKeyCyclesPresets(t *testing.T) {
	t.Parallel()
	m := New(&fakeTyping{}, Options{Seed: 1})
	if m.Theme() != theme.Presets[0].Theme {
		t.Fatalf("expected default preset first")
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if next.(Model).Theme() != theme.Presets[1].Theme {
		t.Fatalf("expected second preset after ctrl+t")
	}
}
