package popup

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	practicedto "typetrack/internal/modules/practice/dto"
	themedto "typetrack/internal/modules/theme/dto"
	apperrors "typetrack/internal/platform/errors"
)

var weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

type fakePractice struct {
	statusErr error
	goals     map[string]float64
	frequency string
	setGoals  []practicedto.SetGoalInput
	exported  []string
}

func newFakePractice() *fakePractice {
	goals := make(map[string]float64, len(weekdays))
	for _, d := range weekdays {
		goals[d] = 0
	}
	goals["tuesday"] = 20
	return &fakePractice{goals: goals, frequency: "never"}
}

func (f *fakePractice) Status(context.Context) (practicedto.StatusOutput, error) {
	if f.statusErr != nil {
		return practicedto.StatusOutput{}, f.statusErr
	}
	return practicedto.StatusOutput{
		Today:   practicedto.Record{Date: time.Date(2026, time.January, 6, 9, 0, 0, 0, time.UTC), Minutes: 5},
		Weekday: "tuesday", Goal: 20, HasGoal: true, Ratio: 0.25, Percent: 25, Frequency: f.frequency,
	}, nil
}

func (f *fakePractice) Goals(context.Context) (practicedto.GoalsOutput, error) {
	return practicedto.GoalsOutput{Goals: f.goals, Weekdays: weekdays}, nil
}

func (f *fakePractice) SetGoal(_ context.Context, weekday string, minutes float64) (practicedto.GoalsOutput, error) {
	f.setGoals = append(f.setGoals, practicedto.SetGoalInput{Weekday: weekday, Minutes: minutes})
	f.goals[weekday] = minutes
	return practicedto.GoalsOutput{Goals: f.goals, Weekdays: weekdays}, nil
}

func (f *fakePractice) Frequency(context.Context) (practicedto.FrequencyOutput, error) {
	return practicedto.FrequencyOutput{Frequency: f.frequency, Options: []string{"never", "quarterGoalCompletion", "halfGoalCompletion", "goalCompletion"}}, nil
}

func (f *fakePractice) SetFrequency(_ context.Context, frequency string) (practicedto.FrequencyOutput, error) {
	f.frequency = frequency
	return practicedto.FrequencyOutput{Frequency: frequency}, nil
}

func (f *fakePractice) History(context.Context) (practicedto.HistoryOutput, error) {
	return practicedto.HistoryOutput{Records: []practicedto.Record{{Date: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), Minutes: 105}}}, nil
}

func (f *fakePractice) ExportFile(_ context.Context, path string) (practicedto.Snapshot, error) {
	f.exported = append(f.exported, path)
	return practicedto.Snapshot{}, nil
}

func (f *fakePractice) ImportFile(context.Context, string) (practicedto.ImportOutput, error) {
	return practicedto.ImportOutput{}, errors.New("not used")
}

func (f *fakePractice) Chart(context.Context, string, bool) (practicedto.ChartOutput, error) {
	return practicedto.ChartOutput{}, nil
}

type fakeThemes struct{ mapped []themedto.TabTheme }

func (f fakeThemes) List(context.Context) ([]themedto.TabTheme, error) { return f.mapped, nil }

func (fakeThemes) Default() themedto.Theme {
	return themedto.Theme{MainColor: "e2b714", BgColor: "323437", SubColor: "646669", SubAltColor: "2c2e31", TextColor: "d1d0c5", ErrorColor: "ca4754"}
}

func load(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(m.Init()())
	return next.(Model)
}

// run executes cmd and feeds its message back, following reloads.
func run(m Model, cmd tea.Cmd) Model {
	for cmd != nil {
		var next tea.Model
		next, cmd = m.Update(cmd())
		m = next.(Model)
	}
	return m
}

func TestPopupShowsProgressGoalsAndHistory(t *testing.T) {
	t.Parallel()
	m := load(t, New(newFakePractice(), fakeThemes{}, Options{Shortcut: "Alt+Shift+T"}))
	view := m.View()
	for _, want := range []string{"5.0 / 20 minutes (tuesday)", "25%", "Alt+Shift+T", "Mon 2026-01-05", "notifications: never"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestPopupEditsGoalOfSelectedWeekday(t *testing.T) {
	t.Parallel()
	practice := newFakePractice()
	m := load(t, New(practice, fakeThemes{}, Options{}))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	m = run(next.(Model), cmd)
	if len(practice.setGoals) != 1 || practice.setGoals[0] != (practicedto.SetGoalInput{Weekday: "tuesday", Minutes: 25}) {
		t.Fatalf("unexpected goal writes: %+v", practice.setGoals)
	}
	if !strings.Contains(m.View(), "tuesday goal set to 25 minutes") {
		t.Fatalf("expected confirmation in view")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if !m.editing {
		t.Fatalf("enter must start editing")
	}
	m.input.SetValue("12.5")
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(next.(Model), cmd)
	if last := practice.setGoals[len(practice.setGoals)-1]; last.Minutes != 12.5 || last.Weekday != "tuesday" {
		t.Fatalf("unexpected typed goal: %+v", last)
	}
}

func TestPopupCyclesNotificationFrequency(t *testing.T) {
	t.Parallel()
	practice := newFakePractice()
	m := load(t, New(practice, fakeThemes{}, Options{}))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	run(next.(Model), cmd)
	if practice.frequency != "quarterGoalCompletion" {
		t.Fatalf("expected next frequency, got %q", practice.frequency)
	}
}

func TestPopupRetrievalErrorAbortsInit(t *testing.T) {
	t.Parallel()
	practice := newFakePractice()
	practice.statusErr = errors.New("database is locked")
	m := load(t, New(practice, fakeThemes{}, Options{}))
	var retrieval *apperrors.RetrievalError
	if !errors.As(m.LoadError(), &retrieval) {
		t.Fatalf("expected retrieval error, got %v", m.LoadError())
	}
	if !strings.Contains(m.View(), "unable to get today's progress") {
		t.Fatalf("expected error in view:\n%s", m.View())
	}
}

func TestPopupPaletteExports(t *testing.T) {
	t.Parallel()
	practice := newFakePractice()
	m := load(t, New(practice, fakeThemes{}, Options{}))
	cmd := m.execute("export /tmp/typetrack.json")
	m = run(m, cmd)
	if len(practice.exported) != 1 || practice.exported[0] != "/tmp/typetrack.json" {
		t.Fatalf("unexpected exports: %v", practice.exported)
	}
	if cmd := m.execute("launch rockets"); cmd == nil {
		t.Fatalf("expected failure command")
	} else if msg := cmd().(ActionDoneMsg); msg.Err == nil {
		t.Fatalf("expected unknown command error")
	}
}

func TestPopupUsesLastMappedTheme(t *testing.T) {
	t.Parallel()
	mapped := []themedto.TabTheme{{TabID: 3, Theme: themedto.Theme{MainColor: "88c0d0", BgColor: "242933", SubColor: "929aaa", SubAltColor: "1d2129", TextColor: "d8dee9", ErrorColor: "bf616a"}}}
	m := load(t, New(newFakePractice(), fakeThemes{mapped: mapped}, Options{}))
	if string(m.styles.Main) != "#88c0d0" {
		t.Fatalf("expected mapped theme, got %s", m.styles.Main)
	}
}
