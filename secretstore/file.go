package secretstore

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	saltFileName = ".salt"
	saltLength   = 16
	fileSuffix   = ".secret"

	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
)

var _ Backend = (*FileStore)(nil)

// FileStore keeps one encrypted file per key inside a directory.
//
// The encryption key is derived once from a passphrase with argon2id and a random
// salt persisted alongside the secrets. Payloads are sealed with XChaCha20-Poly1305
// using the key name as additional data, so a file renamed to another key fails to
// open. Writes land in a temporary file that is renamed into place.
type FileStore struct {
	dir  string
	aead cipher.AEAD
	lock sync.RWMutex
}

// NewFileStore opens (creating if needed) an encrypted store rooted at dir.
func NewFileStore(dir, passphrase string) (*FileStore, error) {
	if passphrase == "" {
		return nil, errors.New("[secretstore NewFileStore] passphrase is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("[secretstore NewFileStore] create dir: %w", err)
	}

	salt, err := loadOrCreateSalt(filepath.Join(dir, saltFileName))
	if err != nil {
		return nil, fmt.Errorf("[secretstore NewFileStore] salt: %w", err)
	}

	key := argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, chacha20poly1305.KeySize)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("[secretstore NewFileStore] cipher: %w", err)
	}

	return &FileStore{dir: dir, aead: aead}, nil
}

func loadOrCreateSalt(path string) ([]byte, error) {
	salt, err := os.ReadFile(path)
	if err == nil {
		if len(salt) != saltLength {
			return nil, fmt.Errorf("unexpected salt length %d", len(salt))
		}
		return salt, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	salt = make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	if err := writeAtomic(filepath.Dir(path), path, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

func (s *FileStore) Store(_ context.Context, key string, value []byte) error {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return storageErr(opStore, key, err)
	}
	sealed := s.aead.Seal(nonce, nonce, value, []byte(key))

	s.lock.Lock()
	defer s.lock.Unlock()
	return storageErr(opStore, key, writeAtomic(s.dir, s.path(key), sealed))
}

func (s *FileStore) Retrieve(_ context.Context, key string) ([]byte, bool, error) {
	s.lock.RLock()
	sealed, err := os.ReadFile(s.path(key))
	s.lock.RUnlock()

	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storageErr(opRetrieve, key, err)
	}

	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, false, storageErr(opRetrieve, key, errors.New("ciphertext too short"))
	}
	value, err := s.aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], []byte(key))
	if err != nil {
		return nil, false, storageErr(opRetrieve, key, fmt.Errorf("decrypt: %w", err))
	}
	if value == nil {
		value = []byte{}
	}
	return value, true, nil
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return storageErr(opRemove, key, err)
}

func (s *FileStore) Close() error {
	return nil
}

// Key names are arbitrary strings, so they are encoded before touching the filesystem.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, base64.RawURLEncoding.EncodeToString([]byte(key))+fileSuffix)
}

func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
