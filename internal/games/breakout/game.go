// Package breakout implements Breakout on the entity-component pipeline.
// A horizontal paddle at the bottom keeps the ball in play against a grid
// of destructible bricks; losing the ball costs a life.
package breakout

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
	PaddleChar = '▀'
	BallChar   = '●'
	BrickChar  = '█'
)

// brickColors maps remaining hits to a color, strongest first.
var brickColors = []core.Color{
	core.ColorGreen,  // 1 hit left
	core.ColorYellow, // 2 hits left
	core.ColorRed,    // 3+ hits left
}

// Game implements Breakout on top of the shared world and pipeline.
type Game struct {
	cfg  config.BreakoutConfig
	diff *config.DifficultyManager

	world *ecs.World
	set   components.Set
	pipe  *ecs.Pipeline
	ctx   ecs.Context

	collide *physics.Collision

	ball   ecs.Entity
	paddle ecs.Entity

	runtime core.RuntimeConfig
	rng     *rand.Rand

	gameOver   bool
	won        bool
	paused     bool
	serving    bool
	serveDelay int
	pendingVX  float64
	pendingVY  float64
	tickCount  int
}

// New creates a Breakout game with the loaded configuration.
func New() *Game {
	return NewWithConfig(loadConfig())
}

// NewWithConfig creates a Breakout game with an explicit configuration.
func NewWithConfig(cfg config.BreakoutConfig) *Game {
	return &Game{
		cfg:  cfg,
		diff: config.NewDifficultyManager(cfg.Difficulty),
	}
}

func (g *Game) ID() string    { return "breakout" }
func (g *Game) Title() string { return "Breakout" }

// Reset builds a fresh world: paddle, ball, the brick grid from the level
// layout, and the system pipeline.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed))

	g.world = ecs.NewWorld()
	g.set = components.Register(g.world)
	g.ctx = ecs.NewContext()
	g.ctx.Score.Lives = g.cfg.Rules.Lives

	bounds := g.fieldBounds()

	paddleW := float64(g.cfg.Paddle.Width)
	g.paddle = components.Spawn(g.world, g.set, components.Bundle{
		Position:   &components.Position{X: bounds.X + bounds.W/2 - paddleW/2, Y: bounds.Bottom() - 1},
		Velocity:   &components.Velocity{},
		Collider:   &components.Collider{Shape: components.Rectangle(paddleW, 1)},
		Renderable: &components.Renderable{Glyph: PaddleChar, Color: core.ColorCyan, Layer: 1},
		Paddle:     &components.Paddle{PlayerControlled: true},
	})
	g.ball = components.Spawn(g.world, g.set, components.Bundle{
		Position:   &components.Position{X: bounds.X + bounds.W/2, Y: bounds.Y + bounds.H/2},
		Velocity:   &components.Velocity{},
		Collider:   &components.Collider{Shape: components.Rectangle(g.cfg.Ball.Size, g.cfg.Ball.Size)},
		Renderable: &components.Renderable{Glyph: BallChar, Color: core.ColorBrightWhite, Layer: 2},
		Ball:       &components.Ball{},
	})

	g.buildBricks(bounds)

	logger := log.Default()
	rules := physics.Rules{
		Bounds:       bounds,
		WallTop:      true,
		WallLeft:     true,
		WallRight:    true,
		DropBottom:   true,
		NominalSpeed: g.cfg.Ball.Speed,
		SpinFactor:   g.cfg.Paddle.SpinFactor,
		Orientation:  physics.PaddlesHorizontal,
	}
	g.collide = physics.NewCollision(g.world, rules, g.rng, logger)
	control := newPaddleControl(g.world, g.cfg.Paddle.Speed)
	integrate := physics.NewIntegrator(g.world, logger)
	clamp := newClampPaddle(g.world, bounds)

	g.pipe = ecs.NewPipeline(g.world, logger)
	must := func(err error) {
		if err != nil {
			panic(fmt.Sprintf("breakout: pipeline setup: %v", err))
		}
	}
	must(g.pipe.Register("input", control, control.Access()))
	must(g.pipe.Register("integrate", integrate, integrate.Access(), "input"))
	must(g.pipe.Register("collide", g.collide, g.collide.Access(), "integrate"))
	must(g.pipe.Register("clamp_paddle", clamp, clamp.Access(), "collide"))
	must(g.pipe.Build())

	g.gameOver = false
	g.won = false
	g.paused = false
	g.tickCount = 0

	g.startServe()
}

// fieldBounds reserves the top row for the HUD and the bottom row for the
// platform status bar.
func (g *Game) fieldBounds() core.FRect {
	return core.NewFRect(0, 1, float64(g.runtime.ScreenW), float64(g.runtime.ScreenH-2))
}

// buildBricks spawns the brick grid from the level layout. Each digit row
// is stretched across the field width; '1'-'9' sets the hit count, '0',
// '.' and space leave gaps.
func (g *Game) buildBricks(bounds core.FRect) {
	fieldW := int(bounds.W)
	y := int(bounds.Y) + g.cfg.Level.TopMargin
	for _, row := range g.cfg.Level.Rows {
		if len(row) == 0 {
			y++
			continue
		}
		cellW := fieldW / len(row)
		if cellW < 1 {
			cellW = 1
		}
		for i, ch := range row {
			if ch < '1' || ch > '9' {
				continue
			}
			hits := int(ch - '0')
			x := int(bounds.X) + i*cellW
			w := cellW
			if i == len(row)-1 {
				w = fieldW - i*cellW // last brick absorbs the remainder
			}
			components.Spawn(g.world, g.set, components.Bundle{
				Position:   &components.Position{X: float64(x), Y: float64(y)},
				Collider:   &components.Collider{Shape: components.Rectangle(float64(w-1), 1)},
				Renderable: &components.Renderable{Glyph: BrickChar, Layer: 0},
				Brick:      &components.Brick{HitsLeft: hits, Points: hits * g.cfg.Rules.PointsPerHit},
			})
		}
		y++
	}
}

// startServe parks the ball above the paddle for the serve delay. Serves
// always travel upward with a small random horizontal component.
func (g *Game) startServe() {
	g.serving = true
	g.serveDelay = g.cfg.Rules.ServeDelayTicks

	bounds := g.fieldBounds()
	pos, _ := g.set.Positions.Get(g.ball)
	vel, _ := g.set.Velocities.Get(g.ball)
	col, _ := g.set.Colliders.Get(g.ball)
	pos.X = bounds.X + bounds.W/2 - col.Shape.W/2
	pos.Y = bounds.Y + bounds.H/2 - col.Shape.H/2

	speed := g.currentBallSpeed()
	angle := (g.rng.Float64() - 0.5) * 0.6
	g.pendingVX = angle * speed
	g.pendingVY = -speed
	vel.X = 0
	vel.Y = 0
}

func (g *Game) currentBallSpeed() float64 {
	return g.diff.Speed(g.cfg.Ball.Speed, g.ctx.Score.Points, g.tickCount)
}

// Step advances the game by one fixed tick.
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

	g.collide.SetNominalSpeed(g.currentBallSpeed())

	prevLives := g.ctx.Score.Lives
	g.ctx.Time.Delta = 1.0 / float64(g.runtime.TickRate)
	g.ctx.Time.Elapsed += g.ctx.Time.Delta
	g.ctx.Input = in

	g.pipe.Dispatch(&g.ctx)
	g.world.Maintain()

	if g.ctx.Score.Lives < prevLives {
		if g.ctx.Score.Lives <= 0 {
			g.gameOver = true
		} else {
			// Ball already recentered with a fresh serve velocity;
			// hold it for the serve delay.
			vel, _ := g.set.Velocities.Get(g.ball)
			g.serving = true
			g.serveDelay = g.cfg.Rules.ServeDelayTicks
			g.pendingVX = vel.X
			g.pendingVY = vel.Y
			vel.X = 0
			vel.Y = 0
		}
	}

	if g.set.Bricks.Len() == 0 {
		g.gameOver = true
		g.won = true
	}

	return g.result()
}

func (g *Game) result() core.StepResult {
	return core.StepResult{State: g.State()}
}

// Render draws bricks, paddle and ball from the renderable join plus the
// HUD line and any modal message.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.drawEntities(dst)

	dst.DrawText(1, 0, fmt.Sprintf("SCORE %d", g.ctx.Score.Points))
	lives := fmt.Sprintf("LIVES %d", g.ctx.Score.Lives)
	dst.DrawText(dst.Width()-len(lives)-1, 0, lives)

	if g.paused {
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if g.gameOver {
		msg := "GAME OVER"
		if g.won {
			msg = "LEVEL CLEAR!"
		}
		drawCenteredMessage(dst, msg,
			fmt.Sprintf("Score %d  |  Press R to restart", g.ctx.Score.Points))
	}
}

func (g *Game) drawEntities(dst *core.Screen) {
	ecs.Join3(g.world, g.set.Positions, g.set.Renderables, g.set.Colliders,
		func(e ecs.Entity, p *components.Position, r *components.Renderable, col *components.Collider) bool {
			if e == g.ball && g.serving && (g.serveDelay/10)%2 != 0 {
				return true
			}
			color := r.Color
			if brick, ok := g.set.Bricks.Get(e); ok {
				idx := core.Min(brick.HitsLeft, len(brickColors)) - 1
				if idx >= 0 {
					color = brickColors[idx]
				}
			}
			box := col.Shape.AABB(components.Position{X: p.X, Y: p.Y})
			for dy := 0; dy < int(box.H+0.5) || dy == 0; dy++ {
				for dx := 0; dx < int(box.W+0.5) || dx == 0; dx++ {
					dst.SetColored(int(box.X)+dx, int(box.Y)+dy, r.Glyph, color)
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

// State reports the accumulated points and game status.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.ctx.Score.Points,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

func init() {
	registry.Register("breakout", func() registry.Game {
		return New()
	})
}
