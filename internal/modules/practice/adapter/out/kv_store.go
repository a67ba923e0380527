package out

import (
	"context"
	"time"

	"typetrack/internal/modules/practice/domain"
	practiceout "typetrack/internal/modules/practice/port/out"
	storagedto "typetrack/internal/modules/storage/dto"
	storagein "typetrack/internal/modules/storage/port/in"
)

const (
	KeyToday       = "timeTypingToday"
	KeyHistory     = "timeTypingHistory"
	KeyGoals       = "dailyGoalsMinutes"
	KeyFrequency   = "notificationFrequency"
	KeyInstalledAt = "installedAt"
)

// KVRecordStore keeps practice state in the sync partition.
type KVRecordStore struct {
	storage storagein.Usecase
}

func NewKVRecordStore(storage storagein.Usecase) practiceout.RecordStore {
	return &KVRecordStore{storage: storage}
}

func (s *KVRecordStore) LoadToday(ctx context.Context) (*domain.TimeTypingRecord, error) {
	var record domain.TimeTypingRecord
	found, err := s.storage.Get(ctx, storagedto.Sync, KeyToday, &record)
	if err != nil || !found {
		return nil, err
	}
	record.Date = record.Date.UTC()
	return &record, nil
}

func (s *KVRecordStore) SaveToday(ctx context.Context, record domain.TimeTypingRecord) error {
	record.Date = record.Date.UTC()
	return s.storage.Set(ctx, storagedto.Sync, KeyToday, record)
}

func (s *KVRecordStore) LoadHistory(ctx context.Context) ([]domain.TimeTypingRecord, error) {
	history := []domain.TimeTypingRecord{}
	if _, err := s.storage.Get(ctx, storagedto.Sync, KeyHistory, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.TimeTypingRecord{}
	}
	return history, nil
}

func (s *KVRecordStore) SaveHistory(ctx context.Context, history []domain.TimeTypingRecord) error {
	if history == nil {
		history = []domain.TimeTypingRecord{}
	}
	return s.storage.Set(ctx, storagedto.Sync, KeyHistory, history)
}

func (s *KVRecordStore) LoadGoals(ctx context.Context) (domain.DailyGoals, bool, error) {
	var goals domain.DailyGoals
	found, err := s.storage.Get(ctx, storagedto.Sync, KeyGoals, &goals)
	if err != nil {
		return domain.DailyGoals{}, found, err
	}
	return goals, found, nil
}

func (s *KVRecordStore) SaveGoals(ctx context.Context, goals domain.DailyGoals) error {
	return s.storage.Set(ctx, storagedto.Sync, KeyGoals, goals)
}

func (s *KVRecordStore) LoadFrequency(ctx context.Context) (domain.NotificationFrequency, bool, error) {
	var freq domain.NotificationFrequency
	found, err := s.storage.Get(ctx, storagedto.Sync, KeyFrequency, &freq)
	if err != nil {
		return "", found, err
	}
	return freq, found, nil
}

func (s *KVRecordStore) SaveFrequency(ctx context.Context, freq domain.NotificationFrequency) error {
	return s.storage.Set(ctx, storagedto.Sync, KeyFrequency, freq)
}

func (s *KVRecordStore) LoadInstalledAt(ctx context.Context) (time.Time, bool, error) {
	var at time.Time
	found, err := s.storage.Get(ctx, storagedto.Sync, KeyInstalledAt, &at)
	if err != nil || !found {
		return time.Time{}, found, err
	}
	return at.UTC(), true, nil
}

func (s *KVRecordStore) SaveInstalledAt(ctx context.Context, at time.Time) error {
	return s.storage.Set(ctx, storagedto.Sync, KeyInstalledAt, at.UTC())
}
