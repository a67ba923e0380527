package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"typetrack/internal/modules/storage/dto"
	storagein "typetrack/internal/modules/storage/port/in"
	storageout "typetrack/internal/modules/storage/port/out"
)

type Interactor struct {
	backend storageout.Backend
}

func NewInteractor(backend storageout.Backend) storagein.Usecase {
	return &Interactor{backend: backend}
}

func (i *Interactor) Get(ctx context.Context, partition dto.Partition, key string, dst any) (bool, error) {
	if err := partition.Validate(); err != nil {
		return false, err
	}
	raw, ok, err := i.backend.Get(ctx, partition, key)
	if err != nil {
		return false, fmt.Errorf("get %s/%s: %w", partition, key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %s/%s: %w", partition, key, err)
	}
	return true, nil
}

func (i *Interactor) Set(ctx context.Context, partition dto.Partition, key string, value any) error {
	if err := partition.Validate(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("storage key is required")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", partition, key, err)
	}
	if err := i.backend.Put(ctx, partition, key, raw); err != nil {
		return fmt.Errorf("set %s/%s: %w", partition, key, err)
	}
	return nil
}

func (i *Interactor) Delete(ctx context.Context, partition dto.Partition, key string) error {
	if err := partition.Validate(); err != nil {
		return err
	}
	if err := i.backend.Delete(ctx, partition, key); err != nil {
		return fmt.Errorf("delete %s/%s: %w", partition, key, err)
	}
	return nil
}

func (i *Interactor) Keys(ctx context.Context, partition dto.Partition) ([]string, error) {
	if err := partition.Validate(); err != nil {
		return nil, err
	}
	keys, err := i.backend.Keys(ctx, partition)
	if err != nil {
		return nil, fmt.Errorf("list %s keys: %w", partition, err)
	}
	return keys, nil
}

func (i *Interactor) Clear(ctx context.Context, partition dto.Partition) error {
	if err := partition.Validate(); err != nil {
		return err
	}
	if err := i.backend.Clear(ctx, partition); err != nil {
		return fmt.Errorf("clear %s: %w", partition, err)
	}
	return nil
}
