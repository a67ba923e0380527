package out

import (
	"context"

	storagedto "typetrack/internal/modules/storage/dto"
	storagein "typetrack/internal/modules/storage/port/in"
	"typetrack/internal/modules/theme/domain"
	themeout "typetrack/internal/modules/theme/port/out"
)

const KeyThemes = "themes"

// KVMappingStore keeps the mapping in the session partition so it ends with the daemon run.
type KVMappingStore struct {
	storage storagein.Usecase
}

func NewKVMappingStore(storage storagein.Usecase) themeout.MappingStore {
	return &KVMappingStore{storage: storage}
}

func (s *KVMappingStore) Load(ctx context.Context) (domain.Mapping, bool, error) {
	var mapping domain.Mapping
	found, err := s.storage.Get(ctx, storagedto.Session, KeyThemes, &mapping)
	if err != nil {
		return nil, found, err
	}
	return mapping, found, nil
}

func (s *KVMappingStore) Save(ctx context.Context, mapping domain.Mapping) error {
	if mapping == nil {
		mapping = domain.Mapping{}
	}
	return s.storage.Set(ctx, storagedto.Session, KeyThemes, mapping)
}
