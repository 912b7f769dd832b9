package secretstore

import (
	"context"
	"sync"
)

var _ Backend = (*MemoryStore)(nil)

// MemoryStore keeps payloads in process memory. Nothing survives a restart.
type MemoryStore struct {
	values map[string][]byte
	lock   sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
	}
}

func (ms *MemoryStore) Store(_ context.Context, key string, value []byte) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	ms.values[key] = clone(value)
	return nil
}

func (ms *MemoryStore) Retrieve(_ context.Context, key string) ([]byte, bool, error) {
	ms.lock.RLock()
	defer ms.lock.RUnlock()

	value, ok := ms.values[key]
	if !ok {
		return nil, false, nil
	}
	return clone(value), true, nil
}

func (ms *MemoryStore) Remove(_ context.Context, key string) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	delete(ms.values, key)
	return nil
}

func (ms *MemoryStore) Close() error {
	return nil
}

// Callers must never share the backing array with the map.
func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
