package in

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"typetrack/internal/modules/practice/dto"
	practicein "typetrack/internal/modules/practice/port/in"
)

type CLIHandler struct {
	usecase practicein.Usecase
}

func NewCLIHandler(usecase practicein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Install(ctx context.Context) (dto.InstallOutput, error) {
	return h.usecase.Install(ctx)
}

func (h CLIHandler) Report(ctx context.Context, minutes float64, at time.Time) (dto.SaveOutput, error) {
	return h.usecase.SaveTimeTyping(ctx, dto.SaveInput{Minutes: minutes, At: at})
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Goals(ctx context.Context) (dto.GoalsOutput, error) {
	return h.usecase.Goals(ctx)
}

func (h CLIHandler) SetGoal(ctx context.Context, weekday string, minutes float64) (dto.GoalsOutput, error) {
	return h.usecase.SetGoal(ctx, dto.SetGoalInput{Weekday: weekday, Minutes: minutes})
}

func (h CLIHandler) SetGoals(ctx context.Context, goals map[string]float64) (dto.GoalsOutput, error) {
	return h.usecase.SetGoals(ctx, dto.SetGoalsInput{Goals: goals})
}

func (h CLIHandler) Frequency(ctx context.Context) (dto.FrequencyOutput, error) {
	return h.usecase.Frequency(ctx)
}

func (h CLIHandler) SetFrequency(ctx context.Context, frequency string) (dto.FrequencyOutput, error) {
	return h.usecase.SetFrequency(ctx, frequency)
}

func (h CLIHandler) History(ctx context.Context) (dto.HistoryOutput, error) {
	return h.usecase.History(ctx)
}

func (h CLIHandler) Chart(ctx context.Context, path string, open bool) (dto.ChartOutput, error) {
	return h.usecase.RenderChart(ctx, dto.ChartInput{Path: path, Open: open})
}

// ExportFile writes a snapshot as YAML for .yaml/.yml paths and as JSON otherwise.
func (h CLIHandler) ExportFile(ctx context.Context, path string) (dto.Snapshot, error) {
	snapshot, err := h.usecase.Export(ctx)
	if err != nil {
		return dto.Snapshot{}, err
	}
	var raw []byte
	if isYAML(path) {
		raw, err = yaml.Marshal(snapshot)
	} else {
		raw, err = json.MarshalIndent(snapshot, "", "  ")
	}
	if err != nil {
		return dto.Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return dto.Snapshot{}, fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return dto.Snapshot{}, fmt.Errorf("write snapshot: %w", err)
	}
	return snapshot, nil
}

func (h CLIHandler) ImportFile(ctx context.Context, path string) (dto.ImportOutput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return dto.ImportOutput{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snapshot dto.Snapshot
	if isYAML(path) {
		err = yaml.Unmarshal(raw, &snapshot)
	} else {
		err = json.Unmarshal(raw, &snapshot)
	}
	if err != nil {
		return dto.ImportOutput{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return h.usecase.Import(ctx, snapshot)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
