package stress

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrInvalidConfig is returned for configurations that cannot be run.
	ErrInvalidConfig = errors.New("invalid stress config")
	// ErrInvariant is returned when a run observed at least one violation.
	ErrInvariant = errors.New("dispatch invariant violated")
)

// Weights sets how often each action is picked when a slot runs. Only the
// ratios matter.
type Weights struct {
	Idle       int `toml:"idle"`
	Connect    int `toml:"connect"`
	Disconnect int `toml:"disconnect"`
	Self       int `toml:"self_disconnect"`
	Move       int `toml:"move"`
	Emit       int `toml:"emit"`
	Fail       int `toml:"fail"`
	Close      int `toml:"close"`
}

func (w Weights) total() int {
	return w.Idle + w.Connect + w.Disconnect + w.Self + w.Move + w.Emit + w.Fail + w.Close
}

// Config describes one stress run.
type Config struct {
	Seed int64 `toml:"seed"`
	// Rounds is the number of top level emissions.
	Rounds int `toml:"rounds"`
	// Slots is the population restored before every round.
	Slots int `toml:"slots"`
	// MaxDepth bounds nested emissions, the top level one included.
	MaxDepth int     `toml:"max_depth"`
	Weights  Weights `toml:"weights"`
}

func DefaultConfig() Config {
	return Config{
		Seed:     1,
		Rounds:   1000,
		Slots:    16,
		MaxDepth: 4,
		Weights: Weights{
			Idle:       60,
			Connect:    10,
			Disconnect: 10,
			Self:       5,
			Move:       10,
			Emit:       6,
			Fail:       2,
			Close:      1,
		},
	}
}

// LoadConfig reads a TOML scenario on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading stress config: %w", err)
	}
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing stress config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Rounds <= 0:
		return fmt.Errorf("%w: rounds must be positive, got %d", ErrInvalidConfig, c.Rounds)
	case c.Slots < 0:
		return fmt.Errorf("%w: slots must not be negative, got %d", ErrInvalidConfig, c.Slots)
	case c.MaxDepth < 1:
		return fmt.Errorf("%w: max_depth must be at least 1, got %d", ErrInvalidConfig, c.MaxDepth)
	}

	w := c.Weights
	for _, v := range []int{w.Idle, w.Connect, w.Disconnect, w.Self, w.Move, w.Emit, w.Fail, w.Close} {
		if v < 0 {
			return fmt.Errorf("%w: weights must not be negative", ErrInvalidConfig)
		}
	}
	if w.total() == 0 {
		return fmt.Errorf("%w: at least one weight must be set", ErrInvalidConfig)
	}
	return nil
}
