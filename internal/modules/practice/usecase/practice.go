package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"typetrack/internal/modules/practice/domain"
	"typetrack/internal/modules/practice/dto"
	practicein "typetrack/internal/modules/practice/port/in"
	practiceout "typetrack/internal/modules/practice/port/out"
	"typetrack/internal/modules/practice/service"
	apperrors "typetrack/internal/platform/errors"
	"typetrack/internal/platform/schema"
)

const SnapshotVersion = 1

type Interactor struct {
	svc    *service.PracticeService
	chart  practiceout.ChartRenderer
	opener practiceout.Opener
	logger hclog.Logger
}

func NewInteractor(svc *service.PracticeService, chart practiceout.ChartRenderer, opener practiceout.Opener, logger hclog.Logger) practicein.Usecase {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Interactor{svc: svc, chart: chart, opener: opener, logger: logger}
}

func (i *Interactor) Install(ctx context.Context) (dto.InstallOutput, error) {
	installed, at, err := i.svc.Install(ctx)
	if err != nil {
		return dto.InstallOutput{}, err
	}
	return dto.InstallOutput{Installed: installed, InstalledAt: at}, nil
}

// SaveTimeTyping persists first and notifies second. A notification failure is reported in
// the output but never undoes the save.
func (i *Interactor) SaveTimeTyping(ctx context.Context, input dto.SaveInput) (dto.SaveOutput, error) {
	merge, err := i.svc.Save(ctx, input.Minutes, input.At)
	if err != nil {
		return dto.SaveOutput{}, err
	}
	out := dto.SaveOutput{
		Previous: toRecord(merge.Previous),
		Today:    toRecord(merge.Today),
	}
	if merge.Archived != nil {
		archived := toRecord(*merge.Archived)
		out.Archived = &archived
	}
	milestone, err := i.svc.Notify(ctx, merge.Previous, merge.Today)
	out.Milestone = string(milestone)
	if err != nil {
		i.logger.Warn("notification failed", "milestone", milestone, "error", err)
		out.NotifyError = err.Error()
	}
	return out, nil
}

func (i *Interactor) Status(ctx context.Context) (dto.StatusOutput, error) {
	today, err := i.svc.Today(ctx)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	goals, err := i.svc.Goals(ctx)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	freq, err := i.svc.Frequency(ctx)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	history, err := i.svc.History(ctx)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	// A record from an earlier day counts as zero minutes typed today.
	now := i.svc.Now()
	if !domain.SameDay(today.Date, now) {
		today = domain.TimeTypingRecord{Date: now}
	}
	ratio, hasGoal := domain.ProgressRatio(today, goals)
	return dto.StatusOutput{
		Today:       toRecord(today),
		Weekday:     domain.WeekdayNames[today.Date.UTC().Weekday()],
		Goal:        goals.For(today.Date),
		HasGoal:     hasGoal,
		Ratio:       ratio,
		Percent:     domain.ProgressPercent(today, goals),
		Frequency:   string(freq),
		HistoryDays: len(history),
	}, nil
}

func (i *Interactor) Goals(ctx context.Context) (dto.GoalsOutput, error) {
	goals, err := i.svc.Goals(ctx)
	if err != nil {
		return dto.GoalsOutput{}, err
	}
	return toGoalsOutput(goals), nil
}

func (i *Interactor) SetGoals(ctx context.Context, input dto.SetGoalsInput) (dto.GoalsOutput, error) {
	goals, err := domain.GoalsFromMap(input.Goals)
	if err != nil {
		return dto.GoalsOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := i.svc.SetGoals(ctx, goals); err != nil {
		return dto.GoalsOutput{}, err
	}
	return toGoalsOutput(goals), nil
}

func (i *Interactor) SetGoal(ctx context.Context, input dto.SetGoalInput) (dto.GoalsOutput, error) {
	day, err := domain.ParseWeekday(input.Weekday)
	if err != nil {
		return dto.GoalsOutput{}, err
	}
	goals, err := i.svc.Goals(ctx)
	if err != nil {
		return dto.GoalsOutput{}, err
	}
	goals[day] = input.Minutes
	if err := i.svc.SetGoals(ctx, goals); err != nil {
		return dto.GoalsOutput{}, err
	}
	return toGoalsOutput(goals), nil
}

func (i *Interactor) Frequency(ctx context.Context) (dto.FrequencyOutput, error) {
	freq, err := i.svc.Frequency(ctx)
	if err != nil {
		return dto.FrequencyOutput{}, err
	}
	return toFrequencyOutput(freq), nil
}

func (i *Interactor) SetFrequency(ctx context.Context, frequency string) (dto.FrequencyOutput, error) {
	freq, err := domain.ParseFrequency(strings.TrimSpace(frequency))
	if err != nil {
		return dto.FrequencyOutput{}, err
	}
	if err := i.svc.SetFrequency(ctx, freq); err != nil {
		return dto.FrequencyOutput{}, err
	}
	return toFrequencyOutput(freq), nil
}

func (i *Interactor) History(ctx context.Context) (dto.HistoryOutput, error) {
	history, err := i.svc.History(ctx)
	if err != nil {
		return dto.HistoryOutput{}, err
	}
	out := dto.HistoryOutput{Records: make([]dto.Record, 0, len(history))}
	for _, record := range history {
		out.Records = append(out.Records, toRecord(record))
	}
	today, err := i.svc.Today(ctx)
	if err != nil {
		return dto.HistoryOutput{}, err
	}
	current := toRecord(today)
	out.Today = &current
	return out, nil
}

func (i *Interactor) RenderChart(ctx context.Context, input dto.ChartInput) (dto.ChartOutput, error) {
	if strings.TrimSpace(input.Path) == "" {
		return dto.ChartOutput{}, fmt.Errorf("%w: chart path is required", apperrors.ErrInvalidInput)
	}
	if i.chart == nil {
		return dto.ChartOutput{}, fmt.Errorf("chart renderer is not configured")
	}
	history, err := i.svc.History(ctx)
	if err != nil {
		return dto.ChartOutput{}, err
	}
	today, err := i.svc.Today(ctx)
	if err != nil {
		return dto.ChartOutput{}, err
	}
	goals, err := i.svc.Goals(ctx)
	if err != nil {
		return dto.ChartOutput{}, err
	}
	points := make([]practiceout.ChartPoint, 0, len(history)+1)
	for _, record := range append(history, today) {
		points = append(points, practiceout.ChartPoint{Day: record.Date, Minutes: record.Minutes, Goal: goals.For(record.Date)})
	}
	if err := i.chart.Render(ctx, points, input.Path); err != nil {
		return dto.ChartOutput{}, fmt.Errorf("render chart: %w", err)
	}
	out := dto.ChartOutput{Path: input.Path, Days: len(points)}
	if input.Open && i.opener != nil {
		if err := i.opener.Open(input.Path); err != nil {
			return out, fmt.Errorf("open chart: %w", err)
		}
		out.Opened = true
	}
	return out, nil
}

func (i *Interactor) Export(ctx context.Context) (dto.Snapshot, error) {
	today, err := i.svc.Today(ctx)
	if err != nil {
		return dto.Snapshot{}, err
	}
	history, err := i.svc.History(ctx)
	if err != nil {
		return dto.Snapshot{}, err
	}
	goals, err := i.svc.Goals(ctx)
	if err != nil {
		return dto.Snapshot{}, err
	}
	freq, err := i.svc.Frequency(ctx)
	if err != nil {
		return dto.Snapshot{}, err
	}
	installedAt, _, err := i.svc.InstalledAt(ctx)
	if err != nil {
		return dto.Snapshot{}, err
	}
	snapshot := dto.Snapshot{
		Version:     SnapshotVersion,
		ExportedAt:  i.svc.Now(),
		InstalledAt: installedAt,
		Today:       toRecord(today),
		History:     make([]dto.Record, 0, len(history)),
		Goals:       toGoalsOutput(goals).Goals,
		Frequency:   string(freq),
	}
	for _, record := range history {
		snapshot.History = append(snapshot.History, toRecord(record))
	}
	return snapshot, nil
}

// Import validates the whole snapshot before replacing any stored key.
func (i *Interactor) Import(ctx context.Context, snapshot dto.Snapshot) (dto.ImportOutput, error) {
	if err := ValidateSnapshot(snapshot); err != nil {
		return dto.ImportOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	goals, err := domain.GoalsFromMap(snapshot.Goals)
	if err != nil {
		return dto.ImportOutput{}, err
	}
	freq, err := domain.ParseFrequency(snapshot.Frequency)
	if err != nil {
		return dto.ImportOutput{}, err
	}
	history := make([]domain.TimeTypingRecord, 0, len(snapshot.History))
	for _, record := range snapshot.History {
		history = append(history, fromRecord(record))
	}
	installedAt := snapshot.InstalledAt
	if installedAt.IsZero() {
		installedAt = i.svc.Now()
	}
	if err := i.svc.Replace(ctx, fromRecord(snapshot.Today), history, goals, freq, installedAt); err != nil {
		return dto.ImportOutput{}, fmt.Errorf("import snapshot: %w", err)
	}
	i.logger.Info("imported snapshot", "history_days", len(history))
	return dto.ImportOutput{HistoryDays: len(history)}, nil
}

var recordSchema = schema.Object{Strict: true, Fields: map[string]schema.Node{
	"date":    schema.String{Rules: []schema.Rule{schema.Timestamp{}}},
	"minutes": schema.Number{NonNegative: true},
}}

func snapshotSchema() schema.Object {
	goalFields := make(map[string]schema.Node, len(domain.WeekdayNames))
	for _, name := range domain.WeekdayNames {
		goalFields[name] = schema.Number{NonNegative: true}
	}
	frequencies := make([]string, 0, len(domain.Frequencies))
	for _, f := range domain.Frequencies {
		frequencies = append(frequencies, string(f))
	}
	return schema.Object{Strict: true, Fields: map[string]schema.Node{
		"version":               schema.Number{NonNegative: true},
		"exportedAt":            schema.String{Rules: []schema.Rule{schema.Timestamp{}}},
		"installedAt":           schema.String{Rules: []schema.Rule{schema.Timestamp{}}},
		"timeTypingToday":       recordSchema,
		"timeTypingHistory":     schema.List{Elem: recordSchema},
		"dailyGoalsMinutes":     schema.Object{Strict: true, Fields: goalFields},
		"notificationFrequency": schema.String{Rules: []schema.Rule{schema.OneOf(frequencies)}},
	}}
}

// ValidateSnapshot checks the JSON form of a snapshot field by field.
func ValidateSnapshot(snapshot dto.Snapshot) error {
	if snapshot.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}
	if snapshot.History == nil {
		snapshot.History = []dto.Record{}
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return schema.Validate(doc, snapshotSchema())
}

func toRecord(record domain.TimeTypingRecord) dto.Record {
	return dto.Record{Date: record.Date.UTC(), Minutes: record.Minutes}
}

func fromRecord(record dto.Record) domain.TimeTypingRecord {
	return domain.TimeTypingRecord{Date: record.Date.UTC(), Minutes: record.Minutes}
}

func toGoalsOutput(goals domain.DailyGoals) dto.GoalsOutput {
	out := dto.GoalsOutput{Goals: make(map[string]float64, len(domain.WeekdayNames)), Weekdays: append([]string(nil), domain.WeekdayNames[:]...)}
	for day, name := range domain.WeekdayNames {
		out.Goals[name] = goals[time.Weekday(day)]
	}
	return out
}

func toFrequencyOutput(freq domain.NotificationFrequency) dto.FrequencyOutput {
	options := make([]string, 0, len(domain.Frequencies))
	for _, f := range domain.Frequencies {
		options = append(options, string(f))
	}
	return dto.FrequencyOutput{Frequency: string(freq), Options: options}
}
