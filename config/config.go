// Package config holds solver, logging and storage settings for curve
// calibration.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	Solver  Solver  `mapstructure:"solver"`
	Logging Logging `mapstructure:"logging"`
	Store   Store   `mapstructure:"store"`
}

// Solver holds the bootstrap's numerical parameters.
type Solver struct {
	// Accuracy is the quote-error tolerance for a single node and the
	// discount factor change that ends the outer passes.
	Accuracy float64 `mapstructure:"accuracy"`

	// MaxIterations bounds the root-finder iterations per node.
	MaxIterations int `mapstructure:"max_iterations"`

	// MaxPasses bounds the number of sweeps over all nodes. Helpers whose
	// latest date lies past their pillar need more than one.
	MaxPasses int `mapstructure:"max_passes"`

	// MinRate and MaxRate bracket the continuously compounded forward over
	// each segment; they give the bisection fallback its bounds.
	MinRate float64 `mapstructure:"min_rate"`
	MaxRate float64 `mapstructure:"max_rate"`

	// GuessRate seeds every node before the first pass.
	GuessRate float64 `mapstructure:"guess_rate"`

	// DerivativeThreshold is the minimum derivative magnitude.
	// Below this, Newton iteration falls back to bisection.
	DerivativeThreshold float64 `mapstructure:"derivative_threshold"`

	// ParallelJobs caps curves bootstrapped concurrently by RunJobs.
	ParallelJobs int `mapstructure:"parallel_jobs"`
}

// Logging mirrors the logrus/lumberjack knobs.
type Logging struct {
	Level         string `mapstructure:"level"`
	FilePath      string `mapstructure:"file_path"`
	ConsoleOutput bool   `mapstructure:"console_output"`
	RotationSize  int    `mapstructure:"rotation_size"`
	MaxBackups    int    `mapstructure:"max_backups"`
}

// Store locates the quote and fixing database.
type Store struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	Solver: Solver{
		Accuracy:            1e-12,
		MaxIterations:       100,
		MaxPasses:           50,
		MinRate:             -0.5,
		MaxRate:             1.0,
		GuessRate:           0.02,
		DerivativeThreshold: 1e-15,
		ParallelJobs:        4,
	},
	Logging: Logging{
		Level:         "info",
		ConsoleOutput: true,
		RotationSize:  2,
		MaxBackups:    30,
	},
	Store: Store{
		Driver: "postgres",
	},
}

var (
	mu  sync.RWMutex
	cfg = DefaultConfig
)

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	mu.Lock()
	cfg = c
	mu.Unlock()
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// EnvPrefix prefixes environment overrides, e.g. FWDCURVE_SOLVER_ACCURACY.
const EnvPrefix = "FWDCURVE"

// Load reads a yaml file over DefaultConfig and applies environment
// overrides. An empty path reads defaults and environment only.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config.Load: %w", err)
		}
	}

	var out Config
	if err := v.Unmarshal(&out); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	if err := out.Validate(); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	return out, nil
}

// setDefaults registers every key so AutomaticEnv can override keys absent
// from the file.
func setDefaults(v *viper.Viper, c Config) {
	s := c.Solver
	v.SetDefault("solver.accuracy", s.Accuracy)
	v.SetDefault("solver.max_iterations", s.MaxIterations)
	v.SetDefault("solver.max_passes", s.MaxPasses)
	v.SetDefault("solver.min_rate", s.MinRate)
	v.SetDefault("solver.max_rate", s.MaxRate)
	v.SetDefault("solver.guess_rate", s.GuessRate)
	v.SetDefault("solver.derivative_threshold", s.DerivativeThreshold)
	v.SetDefault("solver.parallel_jobs", s.ParallelJobs)

	l := c.Logging
	v.SetDefault("logging.level", l.Level)
	v.SetDefault("logging.file_path", l.FilePath)
	v.SetDefault("logging.console_output", l.ConsoleOutput)
	v.SetDefault("logging.rotation_size", l.RotationSize)
	v.SetDefault("logging.max_backups", l.MaxBackups)

	v.SetDefault("store.driver", c.Store.Driver)
	v.SetDefault("store.dsn", c.Store.DSN)
}

// Validate rejects solver settings the bootstrap cannot run with.
func (c Config) Validate() error {
	s := c.Solver
	switch {
	case s.Accuracy <= 0:
		return fmt.Errorf("solver.accuracy must be positive, got %g", s.Accuracy)
	case s.MaxIterations <= 0:
		return fmt.Errorf("solver.max_iterations must be positive, got %d", s.MaxIterations)
	case s.MaxPasses <= 0:
		return fmt.Errorf("solver.max_passes must be positive, got %d", s.MaxPasses)
	case s.MinRate >= s.MaxRate:
		return fmt.Errorf("solver.min_rate %g not below max_rate %g", s.MinRate, s.MaxRate)
	case s.ParallelJobs <= 0:
		return fmt.Errorf("solver.parallel_jobs must be positive, got %d", s.ParallelJobs)
	}
	return nil
}
