package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/evade/internal/config"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 500.0, cfg.Game.PlayerSpeed)
	assert.Equal(t, 64.0, cfg.Game.PlayerSize)
	assert.Equal(t, 64.0, cfg.Game.EnemySize)
	assert.Equal(t, 5, cfg.Game.NumberOfEnemies)
	assert.Equal(t, 100.0, cfg.Game.EnemySpeed)
	assert.Equal(t, 32.0, cfg.Game.SpawnMargin)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
}

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	loaded, source, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Embedded, source)
	assert.Equal(t, config.Default(), loaded)
}

func TestParseMergesOntoDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
game:
  number_of_enemies: 12
  enemy_speed: 250
audio:
  enabled: false
  min_interval: 200ms
`))
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Game.NumberOfEnemies)
	assert.Equal(t, 250.0, cfg.Game.EnemySpeed)
	assert.Equal(t, 500.0, cfg.Game.PlayerSpeed, "untouched keys keep defaults")
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.Audio.MinInterval)
	assert.Equal(t, 800, cfg.Window.Width)
}

func TestLoad(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("window:\n  width: 1024\n"), 0o644))

		cfg, source, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, path, source)
		assert.Equal(t, 1024, cfg.Window.Width)
		assert.Equal(t, 600, cfg.Window.Height)
	})

	t.Run("missing explicit path", func(t *testing.T) {
		_, _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config: failed to read")
	})

	t.Run("malformed explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("game: [1, 2"), 0o644))

		_, _, err := config.Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config: failed to parse")
	})

	t.Run("user config wins over local", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		require.NoError(t, os.MkdirAll(filepath.Join(home, ".evade"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(home, ".evade", "config.yaml"), []byte("game:\n  tps: 30\n"), 0o644))

		work := t.TempDir()
		t.Chdir(work)
		require.NoError(t, os.MkdirAll("configs", 0o755))
		require.NoError(t, os.WriteFile(filepath.Join("configs", "evade.yaml"), []byte("game:\n  tps: 120\n"), 0o644))

		cfg, source, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".evade", "config.yaml"), source)
		assert.Equal(t, 30, cfg.Game.TPS)
	})

	t.Run("local config", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Chdir(t.TempDir())
		require.NoError(t, os.MkdirAll("configs", 0o755))
		require.NoError(t, os.WriteFile(filepath.Join("configs", "evade.yaml"), []byte("game:\n  tps: 120\n"), 0o644))

		cfg, source, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("configs", "evade.yaml"), source)
		assert.Equal(t, 120, cfg.Game.TPS)
	})
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero player speed", func(c *config.Config) { c.Game.PlayerSpeed = 0 }, "game.player_speed"},
		{"negative enemy size", func(c *config.Config) { c.Game.EnemySize = -1 }, "game.enemy_size"},
		{"negative enemy count", func(c *config.Config) { c.Game.NumberOfEnemies = -3 }, "game.number_of_enemies"},
		{"zero tps", func(c *config.Config) { c.Game.TPS = 0 }, "game.tps"},
		{"tiny window", func(c *config.Config) { c.Window.Width = 10 }, "smaller than"},
		{"loud volume", func(c *config.Config) { c.Audio.Volume = 2 }, "audio.volume"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Game.PlayerSpeed = 0
	cfg.Game.EnemySpeed = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game.player_speed")
	assert.Contains(t, err.Error(), "game.enemy_speed")
}

func TestZeroEnemiesIsValid(t *testing.T) {
	cfg := config.Default()
	cfg.Game.NumberOfEnemies = 0
	assert.NoError(t, cfg.Validate())
}
