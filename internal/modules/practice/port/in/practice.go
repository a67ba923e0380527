package in

import (
	"context"

	"typetrack/internal/modules/practice/dto"
)

type Usecase interface {
	Install(ctx context.Context) (dto.InstallOutput, error)
	SaveTimeTyping(ctx context.Context, input dto.SaveInput) (dto.SaveOutput, error)
	Status(ctx context.Context) (dto.StatusOutput, error)
	Goals(ctx context.Context) (dto.GoalsOutput, error)
	SetGoals(ctx context.Context, input dto.SetGoalsInput) (dto.GoalsOutput, error)
	SetGoal(ctx context.Context, input dto.SetGoalInput) (dto.GoalsOutput, error)
	Frequency(ctx context.Context) (dto.FrequencyOutput, error)
	SetFrequency(ctx context.Context, frequency string) (dto.FrequencyOutput, error)
	History(ctx context.Context) (dto.HistoryOutput, error)
	RenderChart(ctx context.Context, input dto.ChartInput) (dto.ChartOutput, error)
	Export(ctx context.Context) (dto.Snapshot, error)
	Import(ctx context.Context, snapshot dto.Snapshot) (dto.ImportOutput, error)
}
