package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"turtlebot/pkg/transposition"
)

// ErrInvalidConfig is returned for configurations the engine cannot run with
var ErrInvalidConfig = errors.New("engine: invalid config")

// Config controls search depth and the evaluation cache
type Config struct {
	BaseDepth     int                   `json:"base_depth"`     // plies searched, the root move included
	EndgameDepth  int                   `json:"endgame_depth"`  // plies searched once few pieces remain
	EndgamePieces int                   `json:"endgame_pieces"` // fewer occupied squares than this selects EndgameDepth
	Cache         transposition.Options `json:"cache"`
}

// DefaultConfig returns the stock settings: three plies, five with fewer
// than twelve pieces on the board, and a cache that never evicts
func DefaultConfig() Config {
	return Config{
		BaseDepth:     3,
		EndgameDepth:  5,
		EndgamePieces: 12,
		Cache:         transposition.Options{Policy: transposition.Unbounded},
	}
}

// Validate checks the depths and cache options
func (c Config) Validate() error {
	if c.BaseDepth < 1 {
		return fmt.Errorf("%w: base depth %d, need at least 1", ErrInvalidConfig, c.BaseDepth)
	}
	if c.EndgameDepth < 1 {
		return fmt.Errorf("%w: endgame depth %d, need at least 1", ErrInvalidConfig, c.EndgameDepth)
	}
	if c.EndgamePieces < 0 || c.EndgamePieces > 64 {
		return fmt.Errorf("%w: endgame piece threshold %d out of range", ErrInvalidConfig, c.EndgamePieces)
	}
	switch c.Cache.Policy {
	case transposition.Unbounded, "":
	case transposition.Reset, transposition.LRU:
		if c.Cache.Capacity <= 0 {
			return fmt.Errorf("%w: cache policy %q needs a positive capacity", ErrInvalidConfig, c.Cache.Policy)
		}
	default:
		return fmt.Errorf("%w: unknown cache policy %q", ErrInvalidConfig, c.Cache.Policy)
	}
	return nil
}

// LoadConfig reads a JSON config file. Fields missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("engine: read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, cfg.Validate()
}
