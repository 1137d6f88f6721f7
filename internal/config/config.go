// Package config provides the YAML configuration of the game: movement
// tunables, window, assets, audio and session history settings.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the full configuration of one run.
type Config struct {
	Game    Game    `yaml:"game"`
	Window  Window  `yaml:"window"`
	Assets  Assets  `yaml:"assets"`
	Audio   Audio   `yaml:"audio"`
	Session Session `yaml:"session"`
}

// Game holds the movement tunables. Sizes are in pixels, speeds in pixels
// per second.
type Game struct {
	PlayerSpeed     float64 `yaml:"player_speed"`
	PlayerSize      float64 `yaml:"player_size"`
	EnemySize       float64 `yaml:"enemy_size"`
	NumberOfEnemies int     `yaml:"number_of_enemies"`
	EnemySpeed      float64 `yaml:"enemy_speed"`
	SpawnMargin     float64 `yaml:"spawn_margin"`
	TPS             int     `yaml:"tps"`
	MaxFrameDelta   float64 `yaml:"max_frame_delta"`
}

// Window defines the game window.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Assets names the files the renderer and audio player load, relative to Root.
type Assets struct {
	Root         string `yaml:"root"`
	PlayerSprite string `yaml:"player_sprite"`
	EnemySprite  string `yaml:"enemy_sprite"`
	ImpactSound  string `yaml:"impact_sound"`
}

// Audio configures cue playback.
type Audio struct {
	Enabled     bool          `yaml:"enabled"`
	Volume      float64       `yaml:"volume"`
	SampleRate  int           `yaml:"sample_rate"`
	MinInterval time.Duration `yaml:"min_interval"`
}

// Session configures the play history database.
type Session struct {
	DBPath string `yaml:"db_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Game: Game{
			PlayerSpeed:     500,
			PlayerSize:      64,
			EnemySize:       64,
			NumberOfEnemies: 5,
			EnemySpeed:      100,
			SpawnMargin:     32,
			TPS:             60,
			MaxFrameDelta:   0.1,
		},
		Window: Window{
			Width:  800,
			Height: 600,
			Title:  "evade",
		},
		Assets: Assets{
			Root:         "assets",
			PlayerSprite: "sprites/ball_blue_large.png",
			EnemySprite:  "sprites/ball_red_large.png",
			ImpactSound:  "audio/impactGlass_heavy_000.ogg",
		},
		Audio: Audio{
			Enabled:     true,
			Volume:      0.5,
			SampleRate:  44100,
			MinInterval: 50 * time.Millisecond,
		},
		Session: Session{
			DBPath: "~/.evade/sessions.db",
		},
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}

	g := c.Game
	positive("game.player_speed", g.PlayerSpeed)
	positive("game.player_size", g.PlayerSize)
	positive("game.enemy_size", g.EnemySize)
	positive("game.enemy_speed", g.EnemySpeed)
	positive("game.max_frame_delta", g.MaxFrameDelta)
	if g.NumberOfEnemies < 0 {
		errs = append(errs, fmt.Errorf("game.number_of_enemies must not be negative, got %d", g.NumberOfEnemies))
	}
	if g.SpawnMargin < 0 {
		errs = append(errs, fmt.Errorf("game.spawn_margin must not be negative, got %v", g.SpawnMargin))
	}
	if g.TPS <= 0 {
		errs = append(errs, fmt.Errorf("game.tps must be positive, got %d", g.TPS))
	}

	w := c.Window
	largest := max(g.PlayerSize, g.EnemySize)
	if float64(w.Width) < largest || float64(w.Height) < largest {
		errs = append(errs, fmt.Errorf("window %dx%d is smaller than a %v px sprite", w.Width, w.Height, largest))
	}
	if float64(w.Width) <= 2*g.SpawnMargin || float64(w.Height) <= 2*g.SpawnMargin {
		errs = append(errs, fmt.Errorf("window %dx%d leaves no room inside a %v px spawn margin", w.Width, w.Height, g.SpawnMargin))
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume must be within [0, 1], got %v", c.Audio.Volume))
	}
	if c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
}
