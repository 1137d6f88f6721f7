// Package soak runs the game headless for a long time with scripted input and
// checks the confinement and direction invariants on every frame.
package soak

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/plus3/evade/ecs"
	"github.com/plus3/evade/internal/game"
)

// maxSamples bounds how many violation messages a report keeps.
const maxSamples = 10

// Options configures a soak run. With Frames set the run steps a fixed
// DeltaTime that many times as fast as possible; otherwise it runs in real
// time at DeltaTime intervals until Duration elapses.
type Options struct {
	Settings  game.Settings
	Window    game.Window
	Seed      uint64
	Frames    int64
	Duration  time.Duration
	DeltaTime float64
	// InputEvery is the number of frames between changes of the held keys.
	InputEvery int
	Logger     *log.Logger
}

func (o Options) validate() error {
	var errs []error
	if o.Frames <= 0 && o.Duration <= 0 {
		errs = append(errs, errors.New("either frames or duration must be positive"))
	}
	if o.DeltaTime <= 0 {
		errs = append(errs, fmt.Errorf("delta time must be positive, got %v", o.DeltaTime))
	}
	if !o.Window.Valid() {
		errs = append(errs, fmt.Errorf("window %vx%v is empty", o.Window.Width, o.Window.Height))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("soak: invalid options: %w", errors.Join(errs...))
}

// probeSystem runs after the game systems. It checks the invariants, drains
// the cue queue the way the host would, and changes the held keys.
type probeSystem struct {
	Window   ecs.Singleton[game.Window]
	Settings ecs.Singleton[game.Settings]
	Cues     ecs.Singleton[game.Cues]
	Input    ecs.Singleton[game.Input]
	Players  ecs.Query[struct {
		ecs.EntityId
		*game.Transform
		*game.Player
	}]
	Enemies ecs.Query[struct {
		ecs.EntityId
		*game.Transform
		*game.Enemy
	}]

	rng        *rand.Rand
	inputEvery int
	frame      int64
	report     *Report
}

func (s *probeSystem) Execute(frame *ecs.UpdateFrame) {
	s.frame++
	s.report.CuesDrained += len(s.Cues.Get().Drain())

	window := s.Window.Get()
	settings := s.Settings.Get()
	if window.Valid() {
		playerBounds := game.BoundsFor(*window, settings.Game.PlayerSize)
		for player := range s.Players.Values() {
			if !playerBounds.Contains(player.Position) {
				s.violation("player %v outside %v", player.Position, playerBounds)
			}
		}

		enemyBounds := game.BoundsFor(*window, settings.Game.EnemySize)
		for enemy := range s.Enemies.Values() {
			if !enemyBounds.Contains(enemy.Position) {
				s.violation("enemy %d at %v outside %v", enemy.EntityId, enemy.Position, enemyBounds)
			}
			if l := enemy.Direction.Len(); math.Abs(l-1) > 1e-9 {
				s.violation("enemy %d direction %v has length %v", enemy.EntityId, enemy.Direction, l)
			}
		}
	}

	if s.inputEvery > 0 && s.frame%int64(s.inputEvery) == 0 {
		keys := s.rng.IntN(16)
		*s.Input.Get() = game.Input{
			Up:    keys&1 != 0,
			Down:  keys&2 != 0,
			Left:  keys&4 != 0,
			Right: keys&8 != 0,
		}
	}
}

func (s *probeSystem) violation(format string, args ...any) {
	s.report.Violations++
	if len(s.report.Samples) < maxSamples {
		msg := fmt.Sprintf("frame %d: ", s.frame) + fmt.Sprintf(format, args...)
		s.report.Samples = append(s.report.Samples, msg)
	}
}

// Run executes a soak run and returns its report. Cancelling ctx ends the run
// early; the report then covers the frames executed so far.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	world := game.NewWorld(opts.Settings, opts.Seed)
	world.SetWindow(opts.Window.Width, opts.Window.Height)

	report := &Report{
		Seed:      opts.Seed,
		Enemies:   opts.Settings.Game.NumberOfEnemies,
		Window:    opts.Window,
		DeltaTime: opts.DeltaTime,
		Frames:    opts.Frames,
		Duration:  opts.Duration,
	}
	world.Scheduler.Register(&probeSystem{
		rng:        rand.New(rand.NewPCG(opts.Seed, opts.Seed+1)),
		inputEvery: opts.InputEvery,
		report:     report,
	})

	runtime.ReadMemStats(&report.MemStatsStart)
	start := time.Now()

	if opts.Frames > 0 {
		logger.Info("soak started", "frames", opts.Frames, "seed", opts.Seed, "enemies", report.Enemies)
	Loop:
		for range opts.Frames {
			select {
			case <-ctx.Done():
				break Loop
			default:
				world.Step(opts.DeltaTime)
			}
		}
	} else {
		logger.Info("soak started", "duration", opts.Duration, "seed", opts.Seed, "enemies", report.Enemies)
		runRealtime(ctx, world, opts)
	}

	report.WallTime = time.Since(start)
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.Tally = world.Tally()
	report.Systems = world.Scheduler.GetStats().Systems
	report.StorageStats = world.Storage.CollectStats()

	logger.Info("soak finished",
		"frames", report.Tally.Frames,
		"bounces", report.Tally.Bounces,
		"violations", report.Violations,
		"wall", report.WallTime.Round(time.Millisecond))
	return report, nil
}

// runRealtime steps the world every DeltaTime with the measured wall time
// since the previous step, capped the way the host caps it.
func runRealtime(ctx context.Context, world *game.World, opts Options) {
	ctx, cancel := context.WithTimeout(ctx, opts.Duration)
	defer cancel()

	ticker := time.NewTicker(time.Duration(opts.DeltaTime * float64(time.Second)))
	defer ticker.Stop()

	limit := opts.Settings.Game.MaxFrameDelta
	last := time.Now()
	world.Step(0)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			world.Step(game.ClampElapsed(now.Sub(last).Seconds(), limit))
			last = now
		}
	}
}
