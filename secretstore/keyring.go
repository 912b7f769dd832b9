package secretstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

var _ Backend = (*KeyringStore)(nil)

// KeyringStore keeps payloads in the platform credential store (macOS Keychain,
// Secret Service on Linux, Windows Credential Manager).
//
// Entries are scoped by service, and by accessGroup when one is given. Platform
// stores hold strings, so payloads are base64 encoded. Windows limits an entry to
// roughly 2.5KB. Calls are serialized within the process.
type KeyringStore struct {
	service string
	lock    sync.Mutex
}

func NewKeyringStore(service, accessGroup string) *KeyringStore {
	if accessGroup != "" {
		service = fmt.Sprintf("%s.%s", accessGroup, service)
	}
	return &KeyringStore{service: service}
}

func (ks *KeyringStore) Store(_ context.Context, key string, value []byte) error {
	encoded := base64.StdEncoding.EncodeToString(value)
	ks.lock.Lock()
	defer ks.lock.Unlock()
	return storageErr(opStore, key, keyring.Set(ks.service, key, encoded))
}

func (ks *KeyringStore) Retrieve(_ context.Context, key string) ([]byte, bool, error) {
	ks.lock.Lock()
	encoded, err := keyring.Get(ks.service, key)
	ks.lock.Unlock()
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storageErr(opRetrieve, key, err)
	}

	value, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false, storageErr(opRetrieve, key, fmt.Errorf("decode keyring entry: %w", err))
	}
	return value, true, nil
}

func (ks *KeyringStore) Remove(_ context.Context, key string) error {
	ks.lock.Lock()
	defer ks.lock.Unlock()
	err := keyring.Delete(ks.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return storageErr(opRemove, key, err)
}

func (ks *KeyringStore) Close() error {
	return nil
}
