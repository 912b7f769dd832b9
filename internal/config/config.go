package config

type Config interface {
	EnvConfig
	SessionConfig
	StoreConfig
}

type EnvConfig interface {
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	Session
	Store
}

func New() Config {
	return mainConfig{}
}
