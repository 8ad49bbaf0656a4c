package breakout

import (
	"reflect"

	"github.com/velmik/ecs-arcade/internal/components"
	"github.com/velmik/ecs-arcade/internal/core"
	"github.com/velmik/ecs-arcade/internal/ecs"
)

// paddleControl turns held left/right actions into paddle velocity.
type paddleControl struct {
	paddles    *ecs.Storage[components.Paddle]
	velocities *ecs.Storage[components.Velocity]
	speed      float64
}

func newPaddleControl(w *ecs.World, speed float64) *paddleControl {
	return &paddleControl{
		paddles:    ecs.MustStorage[components.Paddle](w),
		velocities: ecs.MustStorage[components.Velocity](w),
		speed:      speed,
	}
}

func (s *paddleControl) Access() ecs.Access {
	return ecs.Access{
		ReadsComponents:  []reflect.Type{ecs.Key[components.Paddle]()},
		WritesComponents: []reflect.Type{ecs.Key[components.Velocity]()},
		ReadsResources:   []ecs.Resource{ecs.ResInput},
	}
}

func (s *paddleControl) Run(w *ecs.World, ctx *ecs.Context) {
	var vx float64
	if ctx.Input.IsHeld(core.ActionLeft) {
		vx -= s.speed
	}
	if ctx.Input.IsHeld(core.ActionRight) {
		vx += s.speed
	}
	ecs.Join2(w, s.paddles, s.velocities, func(_ ecs.Entity, _ *components.Paddle, v *components.Velocity) bool {
		v.X = vx
		return true
	})
}

// clampPaddle keeps the paddle inside the field after integration.
type clampPaddle struct {
	paddles   *ecs.Storage[components.Paddle]
	positions *ecs.Storage[components.Position]
	colliders *ecs.Storage[components.Collider]
	bounds    core.FRect
}

func newClampPaddle(w *ecs.World, bounds core.FRect) *clampPaddle {
	return &clampPaddle{
		paddles:   ecs.MustStorage[components.Paddle](w),
		positions: ecs.MustStorage[components.Position](w),
		colliders: ecs.MustStorage[components.Collider](w),
		bounds:    bounds,
	}
}

func (s *clampPaddle) Access() ecs.Access {
	return ecs.Access{
		ReadsComponents:  []reflect.Type{ecs.Key[components.Paddle](), ecs.Key[components.Collider]()},
		WritesComponents: []reflect.Type{ecs.Key[components.Position]()},
	}
}

func (s *clampPaddle) Run(w *ecs.World, ctx *ecs.Context) {
	ecs.Join3(w, s.paddles, s.positions, s.colliders,
		func(_ ecs.Entity, _ *components.Paddle, p *components.Position, col *components.Collider) bool {
			p.X = core.ClampF(p.X, s.bounds.X, s.bounds.Right()-col.Shape.W)
			return true
		})
}
