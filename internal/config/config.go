package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StoreDriverSQLite = "sqlite"
	StoreDriverFile   = "file"
	StoreDriverRedis  = "redis"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	HTTP     HTTPConfig
	Store    StoreConfig
	Notifier NotifierConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"3001"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// StoreConfig selects the backing medium for the todo collection.
type StoreConfig struct {
	Driver   string `env:"STORE_DRIVER" env-default:"sqlite"`
	Path     string `env:"SQLITE_PATH" env-default:"todos.db"`
	FilePath string `env:"STORE_FILE_PATH" env-default:"todos.json"`
	Redis    RedisConfig
}

type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB" env-default:"0"`
	Key         string        `env:"REDIS_KEY" env-default:"todoflow_tasks"`
	PingTimeout time.Duration `env:"REDIS_PING_TIMEOUT" env-default:"10s"`
}

type NotifierConfig struct {
	Enabled  bool          `env:"NOTIFIER_ENABLED" env-default:"true"`
	Interval time.Duration `env:"NOTIFIER_INTERVAL" env-default:"60s"`
}
