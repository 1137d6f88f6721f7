// Package app hosts the game in an ebiten window: it samples input, steps the
// world once per tick, plays cues, draws sprites and the HUD, and records the
// session when play ends.
package app

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/evade/internal/assets"
	cueaudio "github.com/plus3/evade/internal/audio"
	"github.com/plus3/evade/internal/config"
	"github.com/plus3/evade/internal/debugui"
	"github.com/plus3/evade/internal/game"
	"github.com/plus3/evade/internal/render"
	"github.com/plus3/evade/internal/session"
)

var backgroundColor = color.RGBA{0x1f, 0x29, 0x37, 0xff}

type Options struct {
	Config config.Config
	Seed   uint64
	Debug  bool
	Mute   bool
	Logger *log.Logger
	// Store receives one record per played session; nil disables history.
	Store *session.Store
}

// Game implements ebiten.Game.
type Game struct {
	cfg    config.Config
	logger *log.Logger
	store  *session.Store

	world    *game.World
	renderer *render.WorldRenderer
	hud      *render.HUD
	cues     *cueaudio.CuePlayer
	overlay  *debugui.Overlay

	started time.Time
}

func New(opts Options) (*Game, error) {
	cfg := opts.Config
	lib := assets.NewLibrary(os.DirFS(cfg.Assets.Root), cfg.Audio.SampleRate, opts.Logger)

	hud, err := render.NewHUD()
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	audioCfg := cfg.Audio
	if opts.Mute {
		audioCfg.Enabled = false
	}
	var ctx *audio.Context
	if audioCfg.Enabled {
		ctx = audio.NewContext(audioCfg.SampleRate)
	}

	world := game.NewWorld(game.Settings{Game: cfg.Game, Assets: cfg.Assets}, opts.Seed)
	world.SetWindow(float64(cfg.Window.Width), float64(cfg.Window.Height))

	g := &Game{
		cfg:      cfg,
		logger:   opts.Logger,
		store:    opts.Store,
		world:    world,
		renderer: render.NewWorldRenderer(lib),
		hud:      hud,
		cues:     cueaudio.NewCuePlayer(ctx, lib, audioCfg, opts.Logger),
		started:  time.Now(),
	}

	if opts.Debug {
		g.overlay = debugui.New(world, cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	} else {
		ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
		ebiten.SetWindowTitle(cfg.Window.Title)
	}
	ebiten.SetTPS(cfg.Game.TPS)
	return g, nil
}

// Run opens the window and blocks until the player quits, then records the session.
func Run(opts Options) error {
	g, err := New(opts)
	if err != nil {
		return err
	}
	opts.Logger.Info("game started", "seed", opts.Seed, "enemies", opts.Config.Game.NumberOfEnemies, "debug", opts.Debug)

	err = ebiten.RunGame(g)
	g.recordSession()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("app: %w", err)
	}
	return nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	dt := game.ClampElapsed(1/float64(g.cfg.Game.TPS), g.cfg.Game.MaxFrameDelta)
	keyboard := g.overlay == nil || !g.overlay.WantsKeyboard()

	restart := keyboard && inpututil.IsKeyJustPressed(ebiten.KeyR)
	if g.overlay != nil && g.overlay.TakeRestart() {
		restart = true
	}
	if restart {
		g.recordSession()
		g.world.Restart()
		g.started = time.Now()
		g.logger.Info("restarted")
	}

	if g.overlay == nil || !g.overlay.Paused() {
		var in game.Input
		if keyboard {
			in = game.Input{
				Up:    ebiten.IsKeyPressed(ebiten.KeyArrowUp),
				Down:  ebiten.IsKeyPressed(ebiten.KeyArrowDown),
				Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
				Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight),
			}
		}
		g.world.SetInput(in)
		g.cues.Play(g.world.Step(dt), time.Now())
	}

	if g.overlay != nil {
		g.overlay.Update()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.renderer.Draw(screen, g.world)
	g.hud.Draw(screen, render.HUDLines(g.world.Tally(), g.overlay != nil && g.overlay.Paused()))
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

// Layout keeps the logical screen at the configured size and lets ebiten scale it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.cfg.Window.Width, g.cfg.Window.Height
	g.world.SetWindow(float64(w), float64(h))
	if g.overlay != nil {
		g.overlay.Layout(w, h)
	}
	return w, h
}

// recordSession stores the current run if anything was played.
func (g *Game) recordSession() {
	tally := g.world.Tally()
	if g.store == nil || tally.Frames == 0 {
		return
	}
	record := session.Record{
		StartedAt: g.started,
		Seconds:   tally.Elapsed,
		Frames:    tally.Frames,
		Cues:      tally.Cues,
		Bounces:   tally.Bounces,
		Proximity: tally.Proximity,
		Enemies:   g.cfg.Game.NumberOfEnemies,
		Seed:      g.world.Seed(),
	}
	if _, err := g.store.Save(record); err != nil {
		g.logger.Warn("session not recorded", "err", err)
		return
	}
	g.logger.Info("session recorded", "seconds", fmt.Sprintf("%.1f", tally.Elapsed), "bounces", tally.Bounces)
}
