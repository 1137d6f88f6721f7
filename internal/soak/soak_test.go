package soak_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/evade/internal/config"
	"github.com/plus3/evade/internal/game"
	"github.com/plus3/evade/internal/soak"
)

func testOptions() soak.Options {
	cfg := config.Default()
	return soak.Options{
		Settings:   game.Settings{Game: cfg.Game, Assets: cfg.Assets},
		Window:     game.Window{Width: 800, Height: 600},
		Seed:       2024,
		DeltaTime:  1.0 / 60,
		InputEvery: 20,
		Logger:     log.New(io.Discard),
	}
}

func TestFixedSoakHasNoViolations(t *testing.T) {
	opts := testOptions()
	opts.Frames = 1200

	report, err := soak.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.True(t, report.OK(), "violations: %v", report.Samples)
	assert.Equal(t, int64(1200), report.Tally.Frames)
	assert.InDelta(t, 20.0, report.Tally.Elapsed, 1e-6)
	assert.Positive(t, report.Tally.Bounces)
	assert.Equal(t, report.Tally.Cues, report.CuesDrained)
	assert.Equal(t, 6, report.StorageStats.TotalEntityCount)

	var names []string
	for _, s := range report.Systems {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "EnemyDirectionSystem")
	assert.Contains(t, names, "probeSystem")
}

func TestFixedSoakIsDeterministic(t *testing.T) {
	opts := testOptions()
	opts.Frames = 600

	a, err := soak.Run(context.Background(), opts)
	require.NoError(t, err)
	b, err := soak.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, a.Tally, b.Tally)
}

func TestManyEnemiesSmallWindow(t *testing.T) {
	opts := testOptions()
	opts.Frames = 600
	opts.Settings.Game.NumberOfEnemies = 40
	opts.Window = game.Window{Width: 200, Height: 150}

	report, err := soak.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, report.OK(), "violations: %v", report.Samples)
	assert.Equal(t, 41, report.StorageStats.TotalEntityCount)
}

func TestRealtimeSoakStopsAfterDuration(t *testing.T) {
	opts := testOptions()
	opts.Duration = 100 * time.Millisecond
	opts.DeltaTime = 0.005

	start := time.Now()
	report, err := soak.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Positive(t, report.Tally.Frames)
	assert.True(t, report.OK(), "violations: %v", report.Samples)

	// Game time follows the wall clock through World.Step, not a fixed delta.
	assert.InDelta(t, 0.1, report.Tally.Elapsed, 0.06)
	assert.LessOrEqual(t, report.Tally.Elapsed, report.WallTime.Seconds())
}

func TestRealtimeSoakCapsStalls(t *testing.T) {
	opts := testOptions()
	opts.Duration = 120 * time.Millisecond
	opts.DeltaTime = 0.05
	opts.Settings.Game.MaxFrameDelta = 0.001

	report, err := soak.Run(context.Background(), opts)
	require.NoError(t, err)
	require.Positive(t, report.Tally.Frames)
	assert.LessOrEqual(t, report.Tally.Elapsed, float64(report.Tally.Frames)*0.001+1e-9)
}

func TestCancelledSoak(t *testing.T) {
	opts := testOptions()
	opts.Frames = 1_000_000

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := soak.Run(ctx, opts)
	require.NoError(t, err)
	assert.Zero(t, report.Tally.Frames)
}

func TestInvalidOptions(t *testing.T) {
	opts := testOptions()
	opts.DeltaTime = 0
	opts.Window = game.Window{}

	_, err := soak.Run(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frames or duration")
	assert.Contains(t, err.Error(), "delta time")
	assert.Contains(t, err.Error(), "window")
}

func TestReportGenerate(t *testing.T) {
	opts := testOptions()
	opts.Frames = 120

	report, err := soak.Run(context.Background(), opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	out := buf.String()

	assert.Contains(t, out, "# Soak Report")
	assert.Contains(t, out, "**Seed:** 2024")
	assert.Contains(t, out, "**Frame Limit:** 120")
	assert.Contains(t, out, "all frames passed")
	assert.Contains(t, out, "PlayerMovementSystem")

	report.Violations = 1
	report.Samples = []string{"frame 3: enemy outside"}
	buf.Reset()
	require.NoError(t, report.Generate(&buf))
	assert.Contains(t, buf.String(), "frame 3: enemy outside")
}
