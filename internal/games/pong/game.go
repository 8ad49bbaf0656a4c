// Package pong implements classic Pong on the entity-component pipeline.
// Player 1 controls the left paddle, a skill-scaled CPU the right one.
// All motion and collision response runs through the shared physics
// systems; this package only adds control, serving and match rules.
package pong

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/velmik/ecs-arcade/internal/components"
	"github.com/velmik/ecs-arcade/internal/config"
	"github.com/velmik/ecs-arcade/internal/core"
	"github.com/velmik/ecs-arcade/internal/ecs"
	"github.com/velmik/ecs-arcade/internal/physics"
	"github.com/velmik/ecs-arcade/internal/registry"
)

// Visual characters for rendering
const (
	PaddleChar = '█'
	BallChar   = '●'
	NetChar    = '│'
)

// Game implements Pong on top of the shared world and pipeline.
type Game struct {
	cfg  config.PongConfig
	diff *config.DifficultyManager

	world *ecs.World
	set   components.Set
	pipe  *ecs.Pipeline
	ctx   ecs.Context

	collide *physics.Collision
	ai      *cpuFollow

	ball   ecs.Entity
	player ecs.Entity
	cpu    ecs.Entity

	runtime      core.RuntimeConfig
	rng          *rand.Rand
	paddleHeight int

	gameOver   bool
	paused     bool
	winner     int
	serving    bool
	serveDelay int
	pendingVX  float64
	pendingVY  float64
	tickCount  int
}

// New creates a Pong game with the loaded configuration.
func New() *Game {
	return NewWithConfig(loadConfig())
}

// NewWithConfig creates a Pong game with an explicit configuration.
func NewWithConfig(cfg config.PongConfig) *Game {
	return &Game{
		cfg:  cfg,
		diff: config.NewDifficultyManager(cfg.Difficulty),
	}
}

func (g *Game) ID() string    { return "pong" }
func (g *Game) Title() string { return "Pong" }

// Reset builds a fresh world: field bounds, both paddles, the ball, and
// the system pipeline. Called at start and on restart after game over.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed))
	g.paddleHeight = core.Clamp(runtime.ScreenH/5, 3, g.cfg.Paddle.Height+2)

	g.world = ecs.NewWorld()
	g.set = components.Register(g.world)
	g.ctx = ecs.NewContext()

	bounds := g.fieldBounds()
	centerY := bounds.Y + bounds.H/2

	paddleShape := components.Rectangle(float64(g.cfg.Paddle.Width), float64(g.paddleHeight))
	g.player = components.Spawn(g.world, g.set, components.Bundle{
		Position:   &components.Position{X: float64(g.cfg.Paddle.Offset), Y: centerY - float64(g.paddleHeight)/2},
		Velocity:   &components.Velocity{},
		Collider:   &components.Collider{Shape: paddleShape},
		Renderable: &components.Renderable{Glyph: PaddleChar, Color: core.ColorCyan, Layer: 1},
		Paddle:     &components.Paddle{PlayerControlled: true},
	})
	g.cpu = components.Spawn(g.world, g.set, components.Bundle{
		Position:   &components.Position{X: bounds.Right() - float64(g.cfg.Paddle.Offset+g.cfg.Paddle.Width), Y: centerY - float64(g.paddleHeight)/2},
		Velocity:   &components.Velocity{},
		Collider:   &components.Collider{Shape: paddleShape},
		Renderable: &components.Renderable{Glyph: PaddleChar, Color: core.ColorRed, Layer: 1},
		Paddle:     &components.Paddle{},
	})
	g.ball = components.Spawn(g.world, g.set, components.Bundle{
		Position:   &components.Position{X: bounds.X + bounds.W/2, Y: centerY},
		Velocity:   &components.Velocity{},
		Collider:   &components.Collider{Shape: components.Rectangle(g.cfg.Ball.Size, g.cfg.Ball.Size)},
		Renderable: &components.Renderable{Glyph: BallChar, Color: core.ColorBrightWhite, Layer: 2},
		Ball:       &components.Ball{},
	})

	logger := log.Default()
	rules := physics.Rules{
		Bounds:       bounds,
		WallTop:      true,
		WallBottom:   true,
		ScoreLeft:    true,
		ScoreRight:   true,
		NominalSpeed: g.cfg.Ball.Speed,
		SpinFactor:   g.cfg.Paddle.SpinFactor,
		Orientation:  physics.PaddlesVertical,
	}
	g.collide = physics.NewCollision(g.world, rules, g.rng, logger)
	g.ai = newCPUFollow(g.world, g.cfg.Paddle.Speed, g.cfg.Rules.CPUSkillMin)
	control := newPaddleControl(g.world, g.cfg.Paddle.Speed)
	integrate := physics.NewIntegrator(g.world, logger)
	clamp := newClampPaddles(g.world, bounds)

	g.pipe = ecs.NewPipeline(g.world, logger)
	must := func(err error) {
		if err != nil {
			panic(fmt.Sprintf("pong: pipeline setup: %v", err))
		}
	}
	must(g.pipe.Register("input", control, control.Access()))
	must(g.pipe.Register("cpu", g.ai, g.ai.Access()))
	must(g.pipe.Register("integrate", integrate, integrate.Access(), "input", "cpu"))
	must(g.pipe.Register("collide", g.collide, g.collide.Access(), "integrate"))
	must(g.pipe.Register("clamp_paddles", clamp, clamp.Access(), "collide"))
	must(g.pipe.Build())

	g.ctx.Score = ecs.Score{}
	g.gameOver = false
	g.paused = false
	g.winner = 0
	g.tickCount = 0

	g.startServe(-1)
}

// fieldBounds reserves the top row for the score line and the bottom row
// for the platform status bar.
func (g *Game) fieldBounds() core.FRect {
	return core.NewFRect(0, 1, float64(g.runtime.ScreenW), float64(g.runtime.ScreenH-2))
}

// startServe freezes the ball at center for the serve delay. dirX picks
// which side the serve travels toward; 0 randomizes.
func (g *Game) startServe(dirX float64) {
	g.serving = true
	g.serveDelay = g.cfg.Rules.ServeDelayTicks

	bounds := g.fieldBounds()
	pos, _ := g.set.Positions.Get(g.ball)
	vel, _ := g.set.Velocities.Get(g.ball)
	col, _ := g.set.Colliders.Get(g.ball)
	pos.X = bounds.X + bounds.W/2 - col.Shape.W/2
	pos.Y = bounds.Y + bounds.H/2 - col.Shape.H/2

	if dirX == 0 {
		if g.rng.Float64() < 0.5 {
			dirX = -1
		} else {
			dirX = 1
		}
	}
	angle := (g.rng.Float64() - 0.5) * 0.6
	speed := g.currentBallSpeed()
	g.pendingVX = dirX * speed
	g.pendingVY = angle * speed
	vel.X = 0
	vel.Y = 0
}

// currentBallSpeed applies difficulty scaling to the configured speed.
func (g *Game) currentBallSpeed() float64 {
	score := g.ctx.Score.Player + g.ctx.Score.Opponent
	return g.diff.Speed(g.cfg.Ball.Speed, score, g.tickCount)
}

// Step advances the match by one fixed tick.
func (g *Game) Step(in core.InputSnapshot) core.StepResult {
	if in.JustPressed(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.gameOver && in.JustPressed(core.ActionRestart) {
		g.Reset(g.runtime)
	}
	if g.paused || g.gameOver {
		return g.result()
	}

	g.tickCount++

	if g.serving {
		g.serveDelay--
		if g.serveDelay <= 0 {
			g.serving = false
			vel, _ := g.set.Velocities.Get(g.ball)
			vel.X = g.pendingVX
			vel.Y = g.pendingVY
		}
	}

	// Retune per-tick difficulty before the systems run.
	totalScore := g.ctx.Score.Player + g.ctx.Score.Opponent
	g.ai.setSkill(g.diff.CPUSkill(g.cfg.Rules.CPUSkillMin, g.cfg.Rules.CPUSkillMax, totalScore, g.tickCount))
	g.collide.SetNominalSpeed(g.currentBallSpeed())

	prev := g.ctx.Score
	g.ctx.Time.Delta = 1.0 / float64(g.runtime.TickRate)
	g.ctx.Time.Elapsed += g.ctx.Time.Delta
	g.ctx.Input = in

	g.pipe.Dispatch(&g.ctx)
	g.world.Maintain()

	if g.ctx.Score != prev {
		g.onScore(prev)
	}

	return g.result()
}

// onScore converts the collision system's same-tick reset into a serve
// delay: the ball is already recentered with a randomized velocity, so we
// park that velocity until the delay expires. Ends the match at WinScore.
func (g *Game) onScore(prev ecs.Score) {
	switch {
	case g.ctx.Score.Player > prev.Player && g.ctx.Score.Player >= g.cfg.Rules.WinScore:
		g.gameOver = true
		g.winner = 1
	case g.ctx.Score.Opponent > prev.Opponent && g.ctx.Score.Opponent >= g.cfg.Rules.WinScore:
		g.gameOver = true
		g.winner = 2
	default:
		vel, _ := g.set.Velocities.Get(g.ball)
		g.serving = true
		g.serveDelay = g.cfg.Rules.ServeDelayTicks
		g.pendingVX = vel.X
		g.pendingVY = vel.Y
		vel.X = 0
		vel.Y = 0
	}
}

func (g *Game) result() core.StepResult {
	return core.StepResult{State: g.State()}
}

// Render draws the field from the (Position, Renderable) join plus the
// score line and any modal message.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	centerX := dst.Width() / 2
	for y := 1; y < dst.Height()-1; y += 2 {
		dst.Set(centerX, y, NetChar)
	}

	g.drawEntities(dst)

	dst.DrawText(centerX-5, 0, fmt.Sprintf("%d", g.ctx.Score.Player))
	dst.DrawText(centerX+4, 0, fmt.Sprintf("%d", g.ctx.Score.Opponent))
	dst.DrawText(1, 0, "P1")
	dst.DrawText(dst.Width()-4, 0, "CPU")

	if g.paused {
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if g.gameOver {
		msg := "CPU WINS!"
		if g.winner == 1 {
			msg = "YOU WIN!"
		}
		drawCenteredMessage(dst, msg,
			fmt.Sprintf("%d - %d  |  Press R to restart", g.ctx.Score.Player, g.ctx.Score.Opponent))
	}
}

// drawEntities rasterizes every renderable over its collider footprint.
// The ball blinks while a serve is pending, same tell as the scoreline.
func (g *Game) drawEntities(dst *core.Screen) {
	ecs.Join3(g.world, g.set.Positions, g.set.Renderables, g.set.Colliders,
		func(e ecs.Entity, p *components.Position, r *components.Renderable, col *components.Collider) bool {
			if e == g.ball && g.serving && (g.serveDelay/10)%2 != 0 {
				return true
			}
			box := col.Shape.AABB(components.Position{X: p.X, Y: p.Y})
			for dy := 0; dy < int(box.H+0.5) || dy == 0; dy++ {
				for dx := 0; dx < int(box.W+0.5) || dx == 0; dx++ {
					dst.SetColored(int(box.X)+dx, int(box.Y)+dy, r.Glyph, r.Color)
				}
			}
			return true
		})
}

// drawCenteredMessage draws a bordered message box in the screen center.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawText(boxX+(boxW-len(title))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len(subtitle))/2, boxY+3, subtitle)
}

// State reports the player's score and match status.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.ctx.Score.Player,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

func init() {
	registry.Register("pong", func() registry.Game {
		return New()
	})
}
