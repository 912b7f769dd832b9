package config

type StoreBackend string

const (
	MemoryBackend   StoreBackend = "memory"
	FileBackend     StoreBackend = "file"
	RedisBackend    StoreBackend = "redis"
	PostgresBackend StoreBackend = "postgres"
	KeyringBackend  StoreBackend = "keyring"
)

type StoreConfig interface {
	GetStoreBackend() StoreBackend
	GetFileDir() string
	GetFilePassphrase() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
	GetPostgresURL() string
	GetKeyringService() string
	GetKeyringAccessGroup() string
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetStoreBackend() StoreBackend {
	return StoreBackend(GetEnv("AUTH_SESSION_STORE", string(FileBackend)))
}

func (Store) GetFileDir() string {
	return GetEnv("AUTH_SESSION_FILE_DIR", "./data/secrets")
}

// GetFilePassphrase is the secret the file backend derives its encryption key from.
func (Store) GetFilePassphrase() string {
	return GetEnv("AUTH_SESSION_FILE_PASSPHRASE", "")
}

func (Store) GetRedisAddr() string {
	return GetEnv("AUTH_SESSION_REDIS_ADDR", "localhost:6379")
}

func (Store) GetRedisPassword() string {
	return GetEnv("AUTH_SESSION_REDIS_PASSWORD", "")
}

func (Store) GetRedisDB() int {
	return GetEnvInt("AUTH_SESSION_REDIS_DB", 0)
}

func (Store) GetRedisPrefix() string {
	return GetEnv("AUTH_SESSION_REDIS_PREFIX", "secret:")
}

func (Store) GetPostgresURL() string {
	return GetEnv("AUTH_SESSION_DATABASE_URL", "")
}

func (Store) GetKeyringService() string {
	return GetEnv("AUTH_SESSION_KEYRING_SERVICE", "go-auth-session")
}

// GetKeyringAccessGroup optionally scopes keyring entries to a sharing group.
func (Store) GetKeyringAccessGroup() string {
	return GetEnv("AUTH_SESSION_KEYRING_ACCESS_GROUP", "")
}
