package config

import (
	"time"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

// ServerConfig is the runtime configuration of the simulation daemon.
type ServerConfig struct {
	Log      LogConfig      `mapstructure:"log"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	GRPC     GRPCConfig     `mapstructure:"grpc"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Executor ExecutorConfig `mapstructure:"executor"`
	Notifier NotifierConfig `mapstructure:"notifier"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or text
}

// HTTPConfig configures the REST listener and its request limiter.
type HTTPConfig struct {
	Addr           string  `mapstructure:"addr"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"` // 0 disables limiting
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// GRPCConfig configures the gRPC listener. An empty address disables it.
type GRPCConfig struct {
	Addr string `mapstructure:"addr"`
}

// Cache backends.
const (
	CacheBackendNone   = "none"
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// CacheConfig configures the result cache.
type CacheConfig struct {
	Backend    string        `mapstructure:"backend"`
	RedisAddr  string        `mapstructure:"redis_addr"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// ExecutorConfig bounds concurrent work.
type ExecutorConfig struct {
	MaxParallel int `mapstructure:"max_parallel"`
}

// NotifierConfig controls completion callback delivery.
type NotifierConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
}

// ScenarioSet is a named list of failure profiles evaluated against one input.
type ScenarioSet struct {
	Name      string                           `yaml:"name,omitempty" json:"name,omitempty"`
	Scenarios []models.FailureInjectionProfile `yaml:"scenarios" json:"scenarios"`
}
