package physics

import (
	"math"
	"testing"

	"github.com/velmik/ecs-arcade/internal/components"
	"github.com/velmik/ecs-arcade/internal/ecs"
)

func newTestWorld() (*ecs.World, components.Set) {
	w := ecs.NewWorld()
	return w, components.Register(w)
}

func TestIntegratorSemiImplicitOrder(t *testing.T) {
	w, set := newTestWorld()
	integ := NewIntegrator(w, nil)

	e := components.Spawn(w, set, components.Bundle{
		Position:     &components.Position{X: 0, Y: 0},
		Velocity:     &components.Velocity{X: 0, Y: 0},
		Acceleration: &components.Acceleration{Y: 10},
	})

	ctx := ecs.NewContext()
	ctx.Time.Delta = 1
	integ.Run(w, &ctx)

	// Semi-implicit: velocity updates first, then position moves with the
	// fresh velocity. Explicit Euler would leave Y at 0 after one step.
	v, _ := set.Velocities.Get(e)
	p, _ := set.Positions.Get(e)
	if v.Y != 10 {
		t.Errorf("vel.Y = %f, want 10", v.Y)
	}
	if p.Y != 10 {
		t.Errorf("pos.Y = %f, want 10 (fresh velocity must move position)", p.Y)
	}
}

func TestIntegratorConstantVelocity(t *testing.T) {
	w, set := newTestWorld()
	integ := NewIntegrator(w, nil)

	e := components.Spawn(w, set, components.Bundle{
		Position: &components.Position{X: 1, Y: 2},
		Velocity: &components.Velocity{X: 3, Y: -4},
	})

	ctx := ecs.NewContext()
	ctx.Time.Delta = 0.5
	integ.Run(w, &ctx)

	p, _ := set.Positions.Get(e)
	if p.X != 2.5 || p.Y != 0 {
		t.Errorf("pos = (%f, %f), want (2.5, 0)", p.X, p.Y)
	}
}

func TestIntegratorSkipsNonFiniteDelta(t *testing.T) {
	w, set := newTestWorld()
	integ := NewIntegrator(w, nil)

	e := components.Spawn(w, set, components.Bundle{
		Position:     &components.Position{X: 1, Y: 1},
		Velocity:     &components.Velocity{X: 5, Y: 5},
		Acceleration: &components.Acceleration{X: 1},
	})

	for _, dt := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		ctx := ecs.NewContext()
		ctx.Time.Delta = dt
		integ.Run(w, &ctx)

		p, _ := set.Positions.Get(e)
		v, _ := set.Velocities.Get(e)
		if p.X != 1 || p.Y != 1 {
			t.Errorf("dt=%f mutated position to (%f, %f)", dt, p.X, p.Y)
		}
		if v.X != 5 || v.Y != 5 {
			t.Errorf("dt=%f mutated velocity to (%f, %f)", dt, v.X, v.Y)
		}
	}
}

func TestIntegratorIgnoresEntitiesWithoutVelocity(t *testing.T) {
	w, set := newTestWorld()
	integ := NewIntegrator(w, nil)

	e := components.Spawn(w, set, components.Bundle{
		Position: &components.Position{X: 7, Y: 7},
	})

	ctx := ecs.NewContext()
	ctx.Time.Delta = 1
	integ.Run(w, &ctx)

	p, _ := set.Positions.Get(e)
	if p.X != 7 || p.Y != 7 {
		t.Errorf("static entity moved to (%f, %f)", p.X, p.Y)
	}
}

func TestIntegratorAccessDeclaration(t *testing.T) {
	w, _ := newTestWorld()
	integ := NewIntegrator(w, nil)

	acc := integ.Access()
	wantWrites := map[string]bool{
		ecs.Key[components.Position]().String(): true,
		ecs.Key[components.Velocity]().String(): true,
	}
	for _, k := range acc.WritesComponents {
		if !wantWrites[k.String()] {
			t.Errorf("unexpected write declaration %s", k)
		}
		delete(wantWrites, k.String())
	}
	for k := range wantWrites {
		t.Errorf("missing write declaration %s", k)
	}
}
