package solver

import (
	"errors"
	"fmt"
)

// Default learning constants.
const (
	DefaultDiscountFactor  = 0.4
	DefaultExplorationRate = 0.7
	DefaultLogEvery        = 1000
)

// ErrInvalidConfig is returned when a solver configuration is out of range.
var ErrInvalidConfig = errors.New("invalid solver config")

// Rewards defines the reward shaping constants.
type Rewards struct {
	Win      float64 // Added when the agent reaches the End cell.
	WallBump float64 // Added for every blocked direction found in a scan.
	Step     float64 // Added for every move.
}

// DefaultRewards rewards winning and penalizes bumps and long walks.
var DefaultRewards = Rewards{
	Win:      10000,
	WallBump: -5,
	Step:     -0.1,
}

// Config holds the run parameters of a solver.
type Config struct {
	// DiscountFactor blends the current estimate with the new signal, in (0, 1].
	DiscountFactor float64
	// ExplorationRate is the probability of exploiting the best known action,
	// in [0, 1]. Higher means less exploration.
	ExplorationRate float64
	Rewards         Rewards
	// MaxSteps stops an unsolvable run. Zero means no limit.
	MaxSteps int
	// LogEvery is the number of steps between progress log lines.
	LogEvery int
	// Seed for the action selection. Zero picks a time based seed.
	Seed int64
}

// DefaultConfig returns the default learning parameters.
func DefaultConfig() Config {
	return Config{
		DiscountFactor:  DefaultDiscountFactor,
		ExplorationRate: DefaultExplorationRate,
		Rewards:         DefaultRewards,
		LogEvery:        DefaultLogEvery,
	}
}

// Validate checks that the parameters are in range.
func (c Config) Validate() error {
	if c.DiscountFactor <= 0 || c.DiscountFactor > 1 {
		return fmt.Errorf("%w: discount factor %v not in (0, 1]", ErrInvalidConfig, c.DiscountFactor)
	}
	if c.ExplorationRate < 0 || c.ExplorationRate > 1 {
		return fmt.Errorf("%w: exploration rate %v not in [0, 1]", ErrInvalidConfig, c.ExplorationRate)
	}
	if c.Rewards.Win <= 0 || c.Rewards.WallBump > 0 || c.Rewards.Step > 0 {
		return fmt.Errorf("%w: rewards must be positive for winning and non-positive for bumps and steps", ErrInvalidConfig)
	}
	if c.MaxSteps < 0 || c.LogEvery < 0 {
		return fmt.Errorf("%w: negative step count", ErrInvalidConfig)
	}
	return nil
}
