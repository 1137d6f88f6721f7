package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/plus3/evade/ecs"
)

type players = ecs.Query[struct {
	ecs.EntityId
	*Transform
	*Player
}]

type enemies = ecs.Query[struct {
	ecs.EntityId
	*Transform
	*Enemy
}]

// SpawnPlayerSystem places the player at the center of the window.
type SpawnPlayerSystem struct {
	Window   ecs.Singleton[Window]
	Settings ecs.Singleton[Settings]
	Players  players
}

func (s *SpawnPlayerSystem) Execute(frame *ecs.UpdateFrame) {
	window := s.Window.Get()
	if !window.Valid() || s.Players.Count() > 0 {
		return
	}
	settings := s.Settings.Get()

	frame.Commands.Spawn(
		Transform{Position: mgl64.Vec2{window.Width / 2, window.Height / 2}},
		Player{},
		Sprite{Asset: settings.Assets.PlayerSprite, Size: settings.Game.PlayerSize, Color: PlayerColor},
	)
}

// SpawnEnemiesSystem places NumberOfEnemies enemies at random positions,
// each heading in a random direction.
type SpawnEnemiesSystem struct {
	Window   ecs.Singleton[Window]
	Settings ecs.Singleton[Settings]
	Random   ecs.Singleton[Random]
}

func (s *SpawnEnemiesSystem) Execute(frame *ecs.UpdateFrame) {
	window := s.Window.Get()
	if !window.Valid() {
		return
	}
	settings := s.Settings.Get()
	rng := s.Random.Get()

	for range settings.Game.NumberOfEnemies {
		frame.Commands.Spawn(
			Transform{Position: RandomSpawn(rng.Rand, *window, settings.Game.SpawnMargin)},
			Enemy{Direction: RandomDirection(rng.Rand)},
			Sprite{Asset: settings.Assets.EnemySprite, Size: settings.Game.EnemySize, Color: EnemyColor},
		)
	}
}

type PlayerMovementSystem struct {
	Input    ecs.Singleton[Input]
	Settings ecs.Singleton[Settings]
	Players  players
}

func (s *PlayerMovementSystem) Execute(frame *ecs.UpdateFrame) {
	player, ok := s.Players.Single()
	if !ok {
		return
	}
	var in Input
	if held := s.Input.Get(); held != nil {
		in = *held
	}
	speed := s.Settings.Get().Game.PlayerSpeed
	player.Position = MovePlayer(player.Position, in, speed, frame.DeltaTime)
}

type EnemyMovementSystem struct {
	Settings ecs.Singleton[Settings]
	Enemies  enemies
}

func (s *EnemyMovementSystem) Execute(frame *ecs.UpdateFrame) {
	speed := s.Settings.Get().Game.EnemySpeed
	for enemy := range s.Enemies.Values() {
		enemy.Position = MoveEnemy(enemy.Position, enemy.Direction, speed, frame.DeltaTime)
	}
}

type ConfinePlayerSystem struct {
	Window   ecs.Singleton[Window]
	Settings ecs.Singleton[Settings]
	Players  players
}

func (s *ConfinePlayerSystem) Execute(frame *ecs.UpdateFrame) {
	window := s.Window.Get()
	if !window.Valid() {
		return
	}
	bounds := BoundsFor(*window, s.Settings.Get().Game.PlayerSize)
	for player := range s.Players.Values() {
		player.Position = Confine(player.Position, bounds)
	}
}

// ConfineEnemiesSystem clamps every enemy, however many there are.
type ConfineEnemiesSystem struct {
	Window   ecs.Singleton[Window]
	Settings ecs.Singleton[Settings]
	Enemies  enemies
}

func (s *ConfineEnemiesSystem) Execute(frame *ecs.UpdateFrame) {
	window := s.Window.Get()
	if !window.Valid() {
		return
	}
	bounds := BoundsFor(*window, s.Settings.Get().Game.EnemySize)
	for enemy := range s.Enemies.Values() {
		enemy.Position = Confine(enemy.Position, bounds)
	}
}

// EnemyDirectionSystem bounces enemies off the window edges and queues one
// impact cue per enemy that bounced or is touching the player. Touching the
// player does not change the enemy's direction.
type EnemyDirectionSystem struct {
	Window   ecs.Singleton[Window]
	Settings ecs.Singleton[Settings]
	Cues     ecs.Singleton[Cues]
	Tally    ecs.Singleton[Tally]
	Players  players
	Enemies  enemies
}

func (s *EnemyDirectionSystem) Execute(frame *ecs.UpdateFrame) {
	window := s.Window.Get()
	if !window.Valid() {
		return
	}
	settings := s.Settings.Get()
	cues := s.Cues.Get()
	tally := s.Tally.Get()
	bounds := BoundsFor(*window, settings.Game.EnemySize)
	player, hasPlayer := s.Players.Single()

	for enemy := range s.Enemies.Values() {
		changed := false

		if hasPlayer && Near(player.Position, enemy.Position, settings.Game.EnemySize) {
			changed = true
			if tally != nil {
				tally.Proximity++
			}
		}

		dir, bounced := Bounce(enemy.Position, enemy.Direction, bounds)
		enemy.Direction = dir
		if bounced {
			changed = true
			if tally != nil {
				tally.Bounces++
			}
		}

		if changed && cues != nil {
			cues.Push(Cue{Kind: CueImpact, Asset: settings.Assets.ImpactSound})
			if tally != nil {
				tally.Cues++
			}
		}
	}
}

// TallySystem counts frames and elapsed game time.
type TallySystem struct {
	Tally ecs.Singleton[Tally]
}

func (s *TallySystem) Execute(frame *ecs.UpdateFrame) {
	tally := s.Tally.Get()
	if tally == nil {
		return
	}
	tally.Frames++
	tally.Elapsed += frame.DeltaTime
}
