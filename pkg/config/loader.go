package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

// EnvPrefix prefixes every environment override, e.g. ARCHSIM_HTTP_ADDR.
const EnvPrefix = "ARCHSIM"

// LoadInput loads an architecture document. Files ending in .json are
// decoded as JSON, everything else as YAML.
func LoadInput(path string) (*models.SimulationInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read architecture file %s: %w", path, err)
	}

	var in *models.SimulationInput
	if strings.EqualFold(filepath.Ext(path), ".json") {
		in, err = ParseInputJSON(data)
	} else {
		in, err = ParseInputYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse architecture file %s: %w", path, err)
	}
	return in, nil
}

// LoadScenarioSet loads and parses a scenario set file.
func LoadScenarioSet(path string) (*ScenarioSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}
	set, err := ParseScenarioSetYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}
	return set, nil
}

// LoadServerConfig merges defaults, an optional config file and ARCHSIM_*
// environment variables. An empty path skips the file; a path that does not
// exist is an error.
func LoadServerConfig(path string) (*ServerConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode server config: %w", err)
	}
	if err := validateServerConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.rate_limit_rps", 50.0)
	v.SetDefault("http.rate_limit_burst", 100)
	v.SetDefault("grpc.addr", ":50051")
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.max_entries", 1024)
	v.SetDefault("executor.max_parallel", 4)
	v.SetDefault("notifier.max_retries", 3)
	v.SetDefault("notifier.base_delay", 200*time.Millisecond)
}

// DefaultServerConfig returns the built-in defaults, ignoring files and
// environment.
func DefaultServerConfig() *ServerConfig {
	v := viper.New()
	setDefaults(v)
	var cfg ServerConfig
	_ = v.Unmarshal(&cfg)
	return &cfg
}
