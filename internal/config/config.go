// Package config loads runtime settings from the environment.
package config

import (
    "errors"
    "fmt"
    "time"

    "github.com/caarlos0/env/v11"
    "github.com/sirupsen/logrus"
)

// Config holds the settings shared by the serve and play commands.
type Config struct {
    HTTPAddr             string        `env:"TICTACTOE_HTTP_ADDR" envDefault:"localhost:8080"`
    ComputerMovesFirst   bool          `env:"TICTACTOE_COMPUTER_FIRST" envDefault:"false"`
    RandomizeOpeningMove bool          `env:"TICTACTOE_RANDOMIZE_OPENING" envDefault:"true"`
    ComputerDelay        time.Duration `env:"TICTACTOE_COMPUTER_DELAY" envDefault:"500ms"`
    ResetDelay           time.Duration `env:"TICTACTOE_RESET_DELAY" envDefault:"4s"`
    Heartbeat            time.Duration `env:"TICTACTOE_HEARTBEAT" envDefault:"15s"`
    LogLevel             string        `env:"TICTACTOE_LOG_LEVEL" envDefault:"info"`
}

// Load reads the process environment.
func Load() (Config, error) {
    return parse(env.Options{})
}

// LoadFrom reads vars instead of the process environment. A nil map falls
// back to the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
    return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
    var cfg Config
    if err := env.ParseWithOptions(&cfg, opts); err != nil {
        return Config{}, fmt.Errorf("parse env: %w", err)
    }
    if err := cfg.Validate(); err != nil {
        return Config{}, err
    }
    return cfg, nil
}

// Validate checks values the tags cannot express.
func (c Config) Validate() error {
    if c.HTTPAddr == "" {
        return errors.New("http address is empty")
    }
    if c.ComputerDelay < 0 || c.ResetDelay < 0 || c.Heartbeat < 0 {
        return errors.New("delays must not be negative")
    }
    if _, err := c.Level(); err != nil {
        return err
    }
    return nil
}

// Level parses LogLevel.
func (c Config) Level() (logrus.Level, error) {
    lvl, err := logrus.ParseLevel(c.LogLevel)
    if err != nil {
        return logrus.InfoLevel, fmt.Errorf("log level: %w", err)
    }
    return lvl, nil
}
