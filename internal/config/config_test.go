package config

import (
    "testing"
    "time"

    "github.com/sirupsen/logrus"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
    cfg, err := LoadFrom(map[string]string{})
    require.NoError(t, err)
    assert.Equal(t, "localhost:8080", cfg.HTTPAddr)
    assert.False(t, cfg.ComputerMovesFirst)
    assert.True(t, cfg.RandomizeOpeningMove)
    assert.Equal(t, 500*time.Millisecond, cfg.ComputerDelay)
    assert.Equal(t, 4*time.Second, cfg.ResetDelay)
    assert.Equal(t, 15*time.Second, cfg.Heartbeat)

    lvl, err := cfg.Level()
    require.NoError(t, err)
    assert.Equal(t, logrus.InfoLevel, lvl)
}

func TestLoadFromOverrides(t *testing.T) {
    cfg, err := LoadFrom(map[string]string{
        "TICTACTOE_HTTP_ADDR":         ":9090",
        "TICTACTOE_COMPUTER_FIRST":    "true",
        "TICTACTOE_RANDOMIZE_OPENING": "false",
        "TICTACTOE_COMPUTER_DELAY":    "1s",
        "TICTACTOE_RESET_DELAY":       "250ms",
        "TICTACTOE_LOG_LEVEL":         "debug",
    })
    require.NoError(t, err)
    assert.Equal(t, ":9090", cfg.HTTPAddr)
    assert.True(t, cfg.ComputerMovesFirst)
    assert.False(t, cfg.RandomizeOpeningMove)
    assert.Equal(t, time.Second, cfg.ComputerDelay)
    assert.Equal(t, 250*time.Millisecond, cfg.ResetDelay)
    assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFromRejectsBadValues(t *testing.T) {
    cases := []map[string]string{
        {"TICTACTOE_COMPUTER_DELAY": "soon"},
        {"TICTACTOE_COMPUTER_DELAY": "-1s"},
        {"TICTACTOE_COMPUTER_FIRST": "maybe"},
        {"TICTACTOE_LOG_LEVEL": "loud"},
    }
    for _, vars := range cases {
        _, err := LoadFrom(vars)
        assert.Error(t, err, "vars %v", vars)
    }
}
