// Package config loads CLI settings from an optional YAML file and
// ECDSA_-prefixed environment variables.
package config

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/smallyu/go-ecdsa/internal/crypto/randsrc"
	"github.com/smallyu/go-ecdsa/pkg/ecdsa"
)

// Config is the resolved configuration.
type Config struct {
	// Domain names a preset domain. Empty means the domain is given
	// explicitly on the command line.
	Domain string
	// MaxAttempts bounds the signing retry loop.
	MaxAttempts int
	// LogLevel is a zap level name.
	LogLevel string
	// Seed, when set, is the hex-encoded 32-byte seed of a deterministic
	// randomness source.
	Seed string
	// UserID is printed by the userid command.
	UserID string
}

// Load reads path (if non-empty) and the environment. Environment
// variables override the file: ECDSA_DOMAIN, ECDSA_SIGN_MAX_ATTEMPTS,
// ECDSA_LOG_LEVEL, ECDSA_SEED, ECDSA_USER_ID.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("domain", "")
	v.SetDefault("sign.max_attempts", ecdsa.DefaultMaxAttempts)
	v.SetDefault("log.level", "info")
	v.SetDefault("seed", "")
	v.SetDefault("user_id", "")

	v.SetEnvPrefix("ECDSA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
	}

	c := &Config{
		Domain:      v.GetString("domain"),
		MaxAttempts: v.GetInt("sign.max_attempts"),
		LogLevel:    v.GetString("log.level"),
		Seed:        v.GetString("seed"),
		UserID:      v.GetString("user_id"),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.MaxAttempts < 1 {
		return errors.Errorf("sign.max_attempts must be positive, got %d", c.MaxAttempts)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log.level")
	}
	if c.Domain != "" {
		if _, err := ecdsa.LookupDomain(c.Domain); err != nil {
			return err
		}
	}
	return nil
}

// Rand returns the configured randomness source: deterministic when a
// seed is set, crypto/rand otherwise.
func (c *Config) Rand() (randsrc.Source, error) {
	if c.Seed == "" {
		return randsrc.Default, nil
	}
	seed, err := hex.DecodeString(c.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "decoding seed")
	}
	src, err := randsrc.NewDeterministic(seed)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Options returns the scheme options implied by c.
func (c *Config) Options(logger *zap.Logger) ([]ecdsa.Option, error) {
	src, err := c.Rand()
	if err != nil {
		return nil, err
	}
	return []ecdsa.Option{
		ecdsa.WithRand(src),
		ecdsa.WithMaxAttempts(c.MaxAttempts),
		ecdsa.WithLogger(logger),
	}, nil
}

// NewLogger builds a console logger writing to stderr at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build()
}
