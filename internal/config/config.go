// Package config loads the Configuration Surface: cache sizing, execution
// timeouts, syntactic-comparator weights, and the semantic-equivalence
// boost amounts, from a config file, environment variables, and flags, via
// viper.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	codejudgeerrors "codejudge/internal/errors"
)

// Weights mirrors syntactic.Weights without importing it, so this package
// stays a leaf the rest of the module depends on rather than the reverse.
type Weights struct {
	Structural  float64 `mapstructure:"structural"`
	ControlFlow float64 `mapstructure:"control_flow"`
	Operations  float64 `mapstructure:"operations"`
	NodeTypes   float64 `mapstructure:"node_types"`
	Functions   float64 `mapstructure:"functions"`
}

// Config is the resolved configuration surface.
type Config struct {
	CacheTTLMS        int64   `mapstructure:"cache_ttl_ms"`
	CacheSoftLimit    int     `mapstructure:"cache_soft_limit"`
	ExecTimeoutMS     int64   `mapstructure:"exec_timeout_ms"`
	Weights           Weights `mapstructure:"weights"`
	BoostIntermediate int     `mapstructure:"boost_intermediate"`
	BoostIRMinorDiff  int     `mapstructure:"boost_ir_minor_diff"`
	LogLevel          string  `mapstructure:"log_level"`
	JudgeEnabled      bool    `mapstructure:"judge_enabled"`
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMS) * time.Millisecond
}

func (c Config) ExecTimeout() time.Duration {
	return time.Duration(c.ExecTimeoutMS) * time.Millisecond
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache_ttl_ms", 3_600_000)
	v.SetDefault("cache_soft_limit", 100)
	v.SetDefault("exec_timeout_ms", 10_000)
	v.SetDefault("weights.structural", 0.30)
	v.SetDefault("weights.control_flow", 0.20)
	v.SetDefault("weights.operations", 0.20)
	v.SetDefault("weights.node_types", 0.20)
	v.SetDefault("weights.functions", 0.10)
	v.SetDefault("boost_intermediate", 10)
	v.SetDefault("boost_ir_minor_diff", 95)
	v.SetDefault("log_level", "info")
	v.SetDefault("judge_enabled", false)
}

// Load resolves the Configuration Surface from (in ascending priority)
// defaults, an optional config file, `CODEJUDGE_`-prefixed environment
// variables, and CLI flags already registered on flags.
func Load(configPath string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("codejudge")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", configPath, err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("config: binding flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

const weightSumTolerance = 1e-6

// validate enforces that the five comparator weights sum to 1.0 and that
// the cache size bound is positive, surfacing a failure as an
// invalid-input Diagnostic rather than a bare error string.
func validate(cfg Config) error {
	sum := cfg.Weights.Structural + cfg.Weights.ControlFlow + cfg.Weights.Operations +
		cfg.Weights.NodeTypes + cfg.Weights.Functions
	if math.Abs(sum-1.0) > weightSumTolerance {
		return codejudgeerrors.New(codejudgeerrors.InvalidInput,
			fmt.Sprintf("comparator weights must sum to 1.0, got %f", sum))
	}
	if cfg.CacheSoftLimit <= 0 {
		return codejudgeerrors.New(codejudgeerrors.InvalidInput,
			fmt.Sprintf("cache_soft_limit must be positive, got %d", cfg.CacheSoftLimit))
	}
	return nil
}
