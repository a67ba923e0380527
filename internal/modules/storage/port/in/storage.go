package in

import (
	"context"

	"typetrack/internal/modules/storage/dto"
)

// Usecase is the storage facade every other module reads and writes through.
// Values are JSON documents; Get decodes into dst and reports whether the key existed.
type Usecase interface {
	Get(ctx context.Context, partition dto.Partition, key string, dst any) (bool, error)
	Set(ctx context.Context, partition dto.Partition, key string, value any) error
	Delete(ctx context.Context, partition dto.Partition, key string) error
	Keys(ctx context.Context, partition dto.Partition) ([]string, error)
	Clear(ctx context.Context, partition dto.Partition) error
}
