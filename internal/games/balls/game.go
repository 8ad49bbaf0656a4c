// Package balls implements a bouncing-balls sandbox: circles under gravity
// reflecting off the field edges and off each other. There is no scoring
// and no fail state; the demo exists to exercise circle collision response
// and acceleration integration.
package balls

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/velmik/ecs-arcade/internal/components"
	"github.com/velmik/ecs-arcade/internal/config"
	"github.com/velmik/ecs-arcade/internal/core"
	"github.com/velmik/ecs-arcade/internal/ecs"
	"github.com/velmik/ecs-arcade/internal/physics"
	"github.com/velmik/ecs-arcade/internal/registry"
)

const BallChar = '●'

var ballColors = []core.Color{
	core.ColorRed,
	core.ColorGreen,
	core.ColorYellow,
	core.ColorBlue,
	core.ColorMagenta,
	core.ColorCyan,
	core.ColorBrightWhite,
}

// Game implements the sandbox on top of the shared world and pipeline.
type Game struct {
	cfg config.BallsConfig

	world *ecs.World
	set   components.Set
	pipe  *ecs.Pipeline
	ctx   ecs.Context

	runtime   core.RuntimeConfig
	rng       *rand.Rand
	paused    bool
	tickCount int
}

// New creates the sandbox with the loaded configuration.
func New() *Game {
	return NewWithConfig(loadConfig())
}

// NewWithConfig creates the sandbox with an explicit configuration.
func NewWithConfig(cfg config.BallsConfig) *Game {
	return &Game{cfg: cfg}
}

func (g *Game) ID() string    { return "balls" }
func (g *Game) Title() string { return "Bouncing Balls" }

// Reset scatters the configured number of balls across the field with
// random headings and builds the physics pipeline.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed))

	g.world = ecs.NewWorld()
	g.set = components.Register(g.world)
	g.ctx = ecs.NewContext()
	g.paused = false
	g.tickCount = 0

	bounds := g.fieldBounds()

	for i := 0; i < g.cfg.Count; i++ {
		radius := g.cfg.MinRadius + g.rng.Float64()*(g.cfg.MaxRadius-g.cfg.MinRadius)
		heading := g.rng.Float64() * 2 * math.Pi
		components.Spawn(g.world, g.set, components.Bundle{
			Position: &components.Position{
				X: bounds.X + radius + g.rng.Float64()*(bounds.W-2*radius),
				Y: bounds.Y + radius + g.rng.Float64()*(bounds.H-2*radius),
			},
			Velocity: &components.Velocity{
				X: math.Cos(heading) * g.cfg.Speed,
				Y: math.Sin(heading) * g.cfg.Speed,
			},
			Acceleration: &components.Acceleration{Y: g.cfg.Gravity},
			Collider:     &components.Collider{Shape: components.Circle(radius)},
			Renderable: &components.Renderable{
				Glyph: BallChar,
				Color: ballColors[i%len(ballColors)],
			},
			Ball: &components.Ball{},
		})
	}

	logger := log.Default()
	rules := physics.Rules{
		Bounds:       bounds,
		WallTop:      true,
		WallBottom:   true,
		WallLeft:     true,
		WallRight:    true,
		NominalSpeed: g.cfg.Speed,
		BallBounce:   true,
	}
	collide := physics.NewCollision(g.world, rules, g.rng, logger)
	integrate := physics.NewIntegrator(g.world, logger)

	g.pipe = ecs.NewPipeline(g.world, logger)
	must := func(err error) {
		if err != nil {
			panic(fmt.Sprintf("balls: pipeline setup: %v", err))
		}
	}
	must(g.pipe.Register("integrate", integrate, integrate.Access()))
	must(g.pipe.Register("collide", collide, collide.Access(), "integrate"))
	must(g.pipe.Build())
}

func (g *Game) fieldBounds() core.FRect {
	return core.NewFRect(0, 1, float64(g.runtime.ScreenW), float64(g.runtime.ScreenH-2))
}

// Step advances the sandbox by one fixed tick.
func (g *Game) Step(in core.InputSnapshot) core.StepResult {
	if in.JustPressed(core.ActionPause) {
		g.paused = !g.paused
	}
	if in.JustPressed(core.ActionRestart) {
		g.Reset(g.runtime)
	}
	if g.paused {
		return g.result()
	}

	g.tickCount++
	g.ctx.Time.Delta = 1.0 / float64(g.runtime.TickRate)
	g.ctx.Time.Elapsed += g.ctx.Time.Delta
	g.ctx.Input = in

	g.pipe.Dispatch(&g.ctx)
	g.world.Maintain()

	return g.result()
}

func (g *Game) result() core.StepResult {
	return core.StepResult{State: g.State()}
}

// Render draws every ball at its center cell.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	ecs.Join2(g.world, g.set.Positions, g.set.Renderables,
		func(_ ecs.Entity, p *components.Position, r *components.Renderable) bool {
			dst.SetColored(int(p.X), int(p.Y), r.Glyph, r.Color)
			return true
		})
	dst.DrawText(1, 0, fmt.Sprintf("BALLS %d", g.cfg.Count))
	if g.paused {
		dst.DrawTextCentered(0, "PAUSED")
	}
}

// State reports pause status; the sandbox has no score and never ends.
func (g *Game) State() core.GameState {
	return core.GameState{Paused: g.paused}
}

func init() {
	registry.Register("balls", func() registry.Game {
		return New()
	})
}
