package breakout

import (
	"testing"

	"github.com/velmik/ecs-arcade/internal/config"
	"github.com/velmik/ecs-arcade/internal/core"
)

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     12345,
	}
}

func TestGameDeterminism(t *testing.T) {
	cfg := testRuntime()

	inputs := make([]core.InputSnapshot, 400)
	for i := range inputs {
		inputs[i] = core.NewInputSnapshot()
		if i > 60 && i%9 < 4 {
			inputs[i].Hold(core.ActionLeft)
		} else if i > 60 {
			inputs[i].Hold(core.ActionRight)
		}
	}

	run := func() (*Game, core.GameState) {
		g := New()
		g.Reset(cfg)
		var state core.GameState
		for _, in := range inputs {
			state = g.Step(in).State
			if state.GameOver {
				break
			}
		}
		return g, state
	}

	g1, s1 := run()
	g2, s2 := run()

	if s1 != s2 {
		t.Errorf("states differ: %+v vs %+v", s1, s2)
	}
	p1, _ := g1.set.Positions.Get(g1.ball)
	p2, _ := g2.set.Positions.Get(g2.ball)
	if p1.X != p2.X || p1.Y != p2.Y {
		t.Errorf("ball positions differ: (%f,%f) vs (%f,%f)", p1.X, p1.Y, p2.X, p2.Y)
	}
	if g1.set.Bricks.Len() != g2.set.Bricks.Len() {
		t.Errorf("brick counts differ: %d vs %d", g1.set.Bricks.Len(), g2.set.Bricks.Len())
	}
}

func TestGameReset(t *testing.T) {
	g := New()
	g.Reset(testRuntime())

	if g.State().GameOver {
		t.Error("fresh game should not be over")
	}
	if g.ctx.Score.Lives != g.cfg.Rules.Lives {
		t.Errorf("lives = %d, want %d", g.ctx.Score.Lives, g.cfg.Rules.Lives)
	}
	if g.set.Bricks.Len() == 0 {
		t.Error("reset should build the brick grid")
	}
	if !g.serving {
		t.Error("fresh game should start with a serve")
	}
}

func TestBrickGridFromLayout(t *testing.T) {
	cfg := config.DefaultBreakoutConfig()
	cfg.Level.Rows = []string{"11", "0.", ""}
	g := NewWithConfig(cfg)
	g.Reset(testRuntime())

	// Two bricks from the first row; gaps and empty rows spawn nothing.
	if got := g.set.Bricks.Len(); got != 2 {
		t.Errorf("brick count = %d, want 2", got)
	}
}

func TestServeReleasesBallUpward(t *testing.T) {
	g := New()
	g.Reset(testRuntime())

	idle := core.NewInputSnapshot()
	for i := 0; i <= g.cfg.Rules.ServeDelayTicks; i++ {
		g.Step(idle)
	}

	if g.serving {
		t.Fatal("serve delay elapsed but still serving")
	}
	vel, _ := g.set.Velocities.Get(g.ball)
	if vel.Y >= 0 {
		t.Errorf("serve should travel upward, got vy=%f", vel.Y)
	}
}

func TestLostBallCostsLife(t *testing.T) {
	cfg := config.DefaultBreakoutConfig()
	cfg.Rules.ServeDelayTicks = 1
	g := NewWithConfig(cfg)
	g.Reset(testRuntime())

	// Park the paddle at the far left so the ball eventually drops.
	left := core.NewInputSnapshot()
	left.Hold(core.ActionLeft)
	start := g.ctx.Score.Lives
	for i := 0; i < 60*60 && g.ctx.Score.Lives == start; i++ {
		g.Step(left)
	}

	if g.ctx.Score.Lives >= start {
		t.Fatal("ball never dropped")
	}
	if !g.serving && !g.gameOver {
		t.Error("losing a ball should start a new serve")
	}
}

func TestGameOverAtZeroLives(t *testing.T) {
	cfg := config.DefaultBreakoutConfig()
	cfg.Rules.Lives = 1
	cfg.Rules.ServeDelayTicks = 1
	g := NewWithConfig(cfg)
	g.Reset(testRuntime())

	left := core.NewInputSnapshot()
	left.Hold(core.ActionLeft)
	for i := 0; i < 60*120 && !g.State().GameOver; i++ {
		g.Step(left)
	}

	if !g.State().GameOver {
		t.Fatal("game never ended with a single life")
	}
	if g.won {
		t.Error("dropping the last ball should not count as a win")
	}
}

func TestLevelClearWins(t *testing.T) {
	cfg := config.DefaultBreakoutConfig()
	cfg.Level.Rows = []string{"1"}
	cfg.Rules.ServeDelayTicks = 1
	g := NewWithConfig(cfg)
	g.Reset(testRuntime())

	// A single full-width one-hit brick cannot survive the first ascent.
	idle := core.NewInputSnapshot()
	for i := 0; i < 60*60 && !g.State().GameOver; i++ {
		g.Step(idle)
	}

	if !g.won {
		t.Error("clearing all bricks should win the level")
	}
	if g.ctx.Score.Points == 0 {
		t.Error("breaking a brick should award points")
	}
}

func TestPaddleStaysInField(t *testing.T) {
	g := New()
	g.Reset(testRuntime())

	right := core.NewInputSnapshot()
	right.Hold(core.ActionRight)
	for range 600 {
		g.Step(right)
	}

	pos, _ := g.set.Positions.Get(g.paddle)
	col, _ := g.set.Colliders.Get(g.paddle)
	bounds := g.fieldBounds()
	if pos.X+col.Shape.W > bounds.Right() {
		t.Errorf("paddle right edge %f exceeds field edge %f", pos.X+col.Shape.W, bounds.Right())
	}
}

func TestRenderDrawsHUD(t *testing.T) {
	g := New()
	rt := testRuntime()
	g.Reset(rt)

	s := core.NewScreen(rt.ScreenW, rt.ScreenH)
	g.Render(s)

	if row := s.Row(0); len(row) == 0 || row[1] != 'S' {
		t.Errorf("HUD row missing score label: %q", row)
	}
}
