// Package cache stores engine outcomes keyed by their inputs. The engine is
// a pure function, so an outcome can be reused for any identical request.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/config"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

// ResultCache is implemented by every backend. A miss is (nil, false, nil).
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.RunOutcome, bool, error)
	Set(ctx context.Context, key string, outcome *models.RunOutcome) error
}

type keyMaterial struct {
	Input   models.SimulationInput          `json:"input"`
	Profile *models.FailureInjectionProfile `json:"profile,omitempty"`
}

// Key returns the hex SHA-256 of the canonical JSON of the input and the
// optional failure profile.
func Key(in models.SimulationInput, profile *models.FailureInjectionProfile) (string, error) {
	data, err := json.Marshal(keyMaterial{Input: in, Profile: profile})
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func encode(outcome *models.RunOutcome) ([]byte, error) {
	data, err := json.Marshal(outcome)
	if err != nil {
		return nil, fmt.Errorf("failed to encode outcome: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*models.RunOutcome, error) {
	var outcome models.RunOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, fmt.Errorf("failed to decode outcome: %w", err)
	}
	return &outcome, nil
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.RunOutcome, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, string, *models.RunOutcome) error { return nil }

// New builds the backend selected by cfg.
func New(cfg config.CacheConfig) (ResultCache, error) {
	switch cfg.Backend {
	case config.CacheBackendNone, "":
		return Noop{}, nil
	case config.CacheBackendMemory:
		return NewMemoryCache(cfg.MaxEntries, cfg.TTL), nil
	case config.CacheBackendRedis:
		return NewRedisCache(RedisOptions{Addr: cfg.RedisAddr, TTL: cfg.TTL}), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
