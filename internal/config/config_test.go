package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "menu", cfg.PanelName)
	assert.Equal(t, 33*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 200*time.Millisecond, cfg.PreviewDelay)
	assert.Equal(t, 64, cfg.HistorySize)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.PresetPath)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("OVERLAY_DEBUG", "true")
	t.Setenv("OVERLAY_PANEL", "slam")
	t.Setenv("OVERLAY_TICK_INTERVAL", "16ms")
	t.Setenv("OVERLAY_HISTORY_SIZE", "10")
	t.Setenv("OVERLAY_PRESET", "/tmp/preset.hcl")
	t.Setenv("OVERLAY_DUMP_ON_EXIT", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "slam", cfg.PanelName)
	assert.Equal(t, 16*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 10, cfg.HistorySize)
	assert.Equal(t, "/tmp/preset.hcl", cfg.PresetPath)
	assert.True(t, cfg.DumpOnExit)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("OVERLAY_TICK_INTERVAL", "0s")
	t.Setenv("OVERLAY_HISTORY_SIZE", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tick interval")
	assert.Contains(t, err.Error(), "history size")
}

func TestLoadRejectsUnparsableValues(t *testing.T) {
	t.Setenv("OVERLAY_TICK_INTERVAL", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "parse env")
}
