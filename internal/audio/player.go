// Package audio plays the game's sound cues through ebiten's audio context.
package audio

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/plus3/evade/internal/assets"
	"github.com/plus3/evade/internal/config"
	"github.com/plus3/evade/internal/game"
)

// Throttle limits how often the same key may fire.
type Throttle struct {
	interval time.Duration
	last     map[string]time.Time
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval, last: make(map[string]time.Time)}
}

// Allow reports whether key may fire at now and, if so, records it.
func (t *Throttle) Allow(key string, now time.Time) bool {
	if last, ok := t.last[key]; ok && now.Sub(last) < t.interval {
		return false
	}
	t.last[key] = now
	return true
}

// CuePlayer starts one ebiten player per cue and never waits on it.
// It is used from the game goroutine only.
type CuePlayer struct {
	ctx      *audio.Context
	lib      *assets.Library
	volume   float64
	throttle *Throttle
	fallback []byte
	logger   *log.Logger

	played  int
	dropped int
}

// NewCuePlayer creates a player. A nil ctx or disabled audio yields a player
// that only counts cues.
func NewCuePlayer(ctx *audio.Context, lib *assets.Library, cfg config.Audio, logger *log.Logger) *CuePlayer {
	p := &CuePlayer{
		lib:      lib,
		volume:   cfg.Volume,
		throttle: NewThrottle(cfg.MinInterval),
		logger:   logger,
	}
	if !cfg.Enabled {
		return p
	}
	p.ctx = ctx

	pcm, err := Synthesize(cfg.SampleRate, 1)
	if err != nil {
		logger.Warn("impact tone unavailable", "err", err)
	}
	p.fallback = pcm
	return p
}

// Play starts every cue that is not throttled.
func (p *CuePlayer) Play(cues []game.Cue, now time.Time) {
	for _, cue := range cues {
		if !p.throttle.Allow(cue.Asset, now) {
			p.dropped++
			continue
		}
		p.played++
		if p.ctx == nil {
			continue
		}

		pcm, ok := p.lib.Sound(p.lib.Load(cue.Asset))
		if !ok {
			pcm = p.fallback
		}
		if len(pcm) == 0 {
			continue
		}
		player := p.ctx.NewPlayerFromBytes(pcm)
		player.SetVolume(p.volume)
		player.Play()
		p.logger.Debug("cue", "kind", cue.Kind, "asset", cue.Asset)
	}
}

// Played returns the number of cues started (or counted, when muted).
func (p *CuePlayer) Played() int { return p.played }

// Dropped returns the number of cues suppressed by the throttle.
func (p *CuePlayer) Dropped() int { return p.dropped }
