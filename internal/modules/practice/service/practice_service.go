package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hashicorp/go-hclog"

	"typetrack/internal/modules/practice/domain"
	practiceout "typetrack/internal/modules/practice/port/out"
	"typetrack/internal/platform/clock"
	apperrors "typetrack/internal/platform/errors"
	"typetrack/internal/platform/id"
	"typetrack/internal/platform/tx"
)

type PracticeService struct {
	clock    clock.Clock
	idGen    id.Generator
	store    practiceout.RecordStore
	notifier practiceout.Notifier
	tx       tx.Manager
	logger   hclog.Logger
}

func NewPracticeService(clk clock.Clock, idGen id.Generator, store practiceout.RecordStore, notifier practiceout.Notifier, txm tx.Manager, logger hclog.Logger) *PracticeService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PracticeService{clock: clk, idGen: idGen, store: store, notifier: notifier, tx: txm, logger: logger}
}

func (s *PracticeService) Now() time.Time {
	return s.clock.Now()
}

// Save folds a report into today's record and archives yesterday when the day turned over.
// A zero at falls back to the service clock.
func (s *PracticeService) Save(ctx context.Context, minutes float64, at time.Time) (domain.Merge, error) {
	if minutes < 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return domain.Merge{}, fmt.Errorf("%w: minutes must be a non-negative number", apperrors.ErrInvalidInput)
	}
	if at.IsZero() {
		at = s.clock.Now()
	}
	var merge domain.Merge
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		existing, err := s.store.LoadToday(ctx)
		if err != nil {
			return err
		}
		history, err := s.store.LoadHistory(ctx)
		if err != nil {
			return err
		}
		merge = domain.MergeTypingTime(existing, minutes, at)
		if err := s.store.SaveToday(ctx, merge.Today); err != nil {
			return err
		}
		if merge.Archived == nil {
			return nil
		}
		s.logger.Info("archived day", "date", merge.Archived.Date.Format("2006-01-02"), "minutes", merge.Archived.Minutes)
		return s.store.SaveHistory(ctx, append(history, *merge.Archived))
	})
	if err != nil {
		return domain.Merge{}, err
	}
	return merge, nil
}

// Notify shows a milestone toast when current crossed a threshold that previous had not.
func (s *PracticeService) Notify(ctx context.Context, previous, current domain.TimeTypingRecord) (domain.Milestone, error) {
	freq, err := s.Frequency(ctx)
	if err != nil {
		return "", err
	}
	if freq == domain.FrequencyNever {
		return "", nil
	}
	goals, err := s.Goals(ctx)
	if err != nil {
		return "", err
	}
	milestone, ok := domain.Evaluate(freq, goals, previous, current)
	if !ok {
		return "", nil
	}
	if s.notifier == nil {
		return milestone, fmt.Errorf("notifier is not configured")
	}
	notification := domain.NotificationFor(milestone, current, goals.For(current.Date))
	notification.ID = s.idGen.New()
	created, err := s.notifier.Create(ctx, notification)
	if err != nil {
		return milestone, fmt.Errorf("create notification: %w", err)
	}
	if created == "" {
		created = notification.ID
	}
	if err := s.notifier.Clear(ctx, created); err != nil {
		return milestone, fmt.Errorf("clear notification: %w", err)
	}
	s.logger.Debug("milestone notified", "milestone", milestone, "id", created)
	return milestone, nil
}

// Install seeds first-run state once.
func (s *PracticeService) Install(ctx context.Context) (bool, time.Time, error) {
	var installed bool
	var at time.Time
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		existing, found, err := s.store.LoadInstalledAt(ctx)
		if err != nil {
			return err
		}
		if found {
			at = existing
			return nil
		}
		at = s.clock.Now()
		if err := s.store.SaveHistory(ctx, []domain.TimeTypingRecord{}); err != nil {
			return err
		}
		if err := s.store.SaveToday(ctx, domain.TimeTypingRecord{Date: at, Minutes: 0}); err != nil {
			return err
		}
		if err := s.store.SaveGoals(ctx, domain.DailyGoals{}); err != nil {
			return err
		}
		if err := s.store.SaveFrequency(ctx, domain.FrequencyNever); err != nil {
			return err
		}
		if err := s.store.SaveInstalledAt(ctx, at); err != nil {
			return err
		}
		installed = true
		return nil
	})
	if err != nil {
		return false, time.Time{}, err
	}
	if installed {
		s.logger.Info("seeded practice storage", "at", at.Format(time.RFC3339))
	}
	return installed, at, nil
}

// Today returns the stored record, or a zero record dated now when none exists.
func (s *PracticeService) Today(ctx context.Context) (domain.TimeTypingRecord, error) {
	today, err := s.store.LoadToday(ctx)
	if err != nil {
		return domain.TimeTypingRecord{}, err
	}
	if today == nil {
		return domain.TimeTypingRecord{Date: s.clock.Now()}, nil
	}
	return *today, nil
}

func (s *PracticeService) History(ctx context.Context) ([]domain.TimeTypingRecord, error) {
	return s.store.LoadHistory(ctx)
}

func (s *PracticeService) Goals(ctx context.Context) (domain.DailyGoals, error) {
	goals, _, err := s.store.LoadGoals(ctx)
	return goals, err
}

func (s *PracticeService) SetGoals(ctx context.Context, goals domain.DailyGoals) error {
	if err := goals.Validate(); err != nil {
		return err
	}
	return s.store.SaveGoals(ctx, goals)
}

func (s *PracticeService) Frequency(ctx context.Context) (domain.NotificationFrequency, error) {
	freq, found, err := s.store.LoadFrequency(ctx)
	if err != nil {
		return "", err
	}
	if !found {
		return domain.FrequencyNever, nil
	}
	return freq, nil
}

func (s *PracticeService) SetFrequency(ctx context.Context, freq domain.NotificationFrequency) error {
	if _, err := domain.ParseFrequency(string(freq)); err != nil {
		return err
	}
	return s.store.SaveFrequency(ctx, freq)
}

// Replace overwrites every practice key in one serialized step.
func (s *PracticeService) Replace(ctx context.Context, today domain.TimeTypingRecord, history []domain.TimeTypingRecord, goals domain.DailyGoals, freq domain.NotificationFrequency, installedAt time.Time) error {
	return s.tx.Within(ctx, func(ctx context.Context) error {
		if err := s.store.SaveToday(ctx, today); err != nil {
			return err
		}
		if err := s.store.SaveHistory(ctx, history); err != nil {
			return err
		}
		if err := s.store.SaveGoals(ctx, goals); err != nil {
			return err
		}
		if err := s.store.SaveFrequency(ctx, freq); err != nil {
			return err
		}
		return s.store.SaveInstalledAt(ctx, installedAt)
	})
}

func (s *PracticeService) InstalledAt(ctx context.Context) (time.Time, bool, error) {
	return s.store.LoadInstalledAt(ctx)
}
