package out

import (
	"context"

	"typetrack/internal/modules/storage/dto"
)

type Backend interface {
	Get(ctx context.Context, partition dto.Partition, key string) ([]byte, bool, error)
	Put(ctx context.Context, partition dto.Partition, key string, value []byte) error
	Delete(ctx context.Context, partition dto.Partition, key string) error
	Keys(ctx context.Context, partition dto.Partition) ([]string, error)
	Clear(ctx context.Context, partition dto.Partition) error
	Close() error
}
