package out

import (
	"context"
	"time"

	"typetrack/internal/modules/practice/domain"
)

// RecordStore persists the practice keys. Load methods report found=false for absent keys.
type RecordStore interface {
	LoadToday(ctx context.Context) (*domain.TimeTypingRecord, error)
	SaveToday(ctx context.Context, record domain.TimeTypingRecord) error
	LoadHistory(ctx context.Context) ([]domain.TimeTypingRecord, error)
	SaveHistory(ctx context.Context, history []domain.TimeTypingRecord) error
	LoadGoals(ctx context.Context) (domain.DailyGoals, bool, error)
	SaveGoals(ctx context.Context, goals domain.DailyGoals) error
	LoadFrequency(ctx context.Context) (domain.NotificationFrequency, bool, error)
	SaveFrequency(ctx context.Context, freq domain.NotificationFrequency) error
	LoadInstalledAt(ctx context.Context) (time.Time, bool, error)
	SaveInstalledAt(ctx context.Context, at time.Time) error
}

type Notifier interface {
	Create(ctx context.Context, notification domain.Notification) (string, error)
	Clear(ctx context.Context, id string) error
}

type ChartPoint struct {
	Day     time.Time
	Minutes float64
	Goal    float64
}

type ChartRenderer interface {
	Render(ctx context.Context, points []ChartPoint, path string) error
}

type Opener interface {
	Open(path string) error
}
