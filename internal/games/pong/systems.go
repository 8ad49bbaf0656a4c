package pong

import (
	"math"
	"reflect"

	"github.com/velmik/ecs-arcade/internal/components"
	"github.com/velmik/ecs-arcade/internal/core"
	"github.com/velmik/ecs-arcade/internal/ecs"
)

// paddleControl turns held input actions into player paddle velocity.
// Velocity-based movement keeps paddle motion inside the normal
// integration step instead of teleporting positions.
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
	var vy float64
	if ctx.Input.IsHeld(core.ActionUp) {
		vy -= s.speed
	}
	if ctx.Input.IsHeld(core.ActionDown) {
		vy += s.speed
	}
	ecs.Join2(w, s.paddles, s.velocities, func(_ ecs.Entity, p *components.Paddle, v *components.Velocity) bool {
		if p.PlayerControlled {
			v.Y = vy
		}
		return true
	})
}

// cpuFollow steers the CPU paddle toward the ball with imperfect,
// skill-scaled tracking. It only reacts while the ball travels toward it,
// the same tell the reference opponent had.
type cpuFollow struct {
	paddles    *ecs.Storage[components.Paddle]
	positions  *ecs.Storage[components.Position]
	velocities *ecs.Storage[components.Velocity]
	colliders  *ecs.Storage[components.Collider]
	balls      *ecs.Storage[components.Ball]
	speed      float64
	skill      float64 // 0-1, fraction of paddle speed used for tracking
}

func newCPUFollow(w *ecs.World, speed, skill float64) *cpuFollow {
	return &cpuFollow{
		paddles:    ecs.MustStorage[components.Paddle](w),
		positions:  ecs.MustStorage[components.Position](w),
		velocities: ecs.MustStorage[components.Velocity](w),
		colliders:  ecs.MustStorage[components.Collider](w),
		balls:      ecs.MustStorage[components.Ball](w),
		speed:      speed,
		skill:      skill,
	}
}

func (s *cpuFollow) Access() ecs.Access {
	return ecs.Access{
		ReadsComponents: []reflect.Type{
			ecs.Key[components.Paddle](),
			ecs.Key[components.Position](),
			ecs.Key[components.Ball](),
			ecs.Key[components.Collider](),
		},
		WritesComponents: []reflect.Type{ecs.Key[components.Velocity]()},
	}
}

func (s *cpuFollow) setSkill(skill float64) {
	s.skill = skill
}

func (s *cpuFollow) Run(w *ecs.World, ctx *ecs.Context) {
	var ballY, ballVX float64
	found := false
	ecs.Join3(w, s.balls, s.positions, s.velocities,
		func(_ ecs.Entity, _ *components.Ball, p *components.Position, v *components.Velocity) bool {
			ballY = p.Y
			ballVX = v.X
			found = true
			return false
		})
	if !found {
		return
	}

	ecs.Join4(w, s.paddles, s.positions, s.velocities, s.colliders,
		func(_ ecs.Entity, pad *components.Paddle, p *components.Position, v *components.Velocity, col *components.Collider) bool {
			if pad.PlayerControlled {
				return true
			}
			v.Y = 0
			if ballVX <= 0 {
				return true // ball heading away, hold position
			}
			target := ballY - col.Shape.H/2
			diff := target - p.Y
			moveSpeed := s.speed * s.skill
			if math.Abs(diff) > 1 {
				if diff > 0 {
					v.Y = moveSpeed
				} else {
					v.Y = -moveSpeed
				}
			}
			return true
		})
}

// clampPaddles keeps every paddle inside the field after integration.
type clampPaddles struct {
	paddles   *ecs.Storage[components.Paddle]
	positions *ecs.Storage[components.Position]
	colliders *ecs.Storage[components.Collider]
	bounds    core.FRect
}

func newClampPaddles(w *ecs.World, bounds core.FRect) *clampPaddles {
	return &clampPaddles{
		paddles:   ecs.MustStorage[components.Paddle](w),
		positions: ecs.MustStorage[components.Position](w),
		colliders: ecs.MustStorage[components.Collider](w),
		bounds:    bounds,
	}
}

func (s *clampPaddles) Access() ecs.Access {
	return ecs.Access{
		ReadsComponents:  []reflect.Type{ecs.Key[components.Paddle](), ecs.Key[components.Collider]()},
		WritesComponents: []reflect.Type{ecs.Key[components.Position]()},
	}
}

func (s *clampPaddles) Run(w *ecs.World, ctx *ecs.Context) {
	ecs.Join3(w, s.paddles, s.positions, s.colliders,
		func(_ ecs.Entity, _ *components.Paddle, p *components.Position, col *components.Collider) bool {
			p.Y = core.ClampF(p.Y, s.bounds.Y, s.bounds.Bottom()-col.Shape.H)
			p.X = core.ClampF(p.X, s.bounds.X, s.bounds.Right()-col.Shape.W)
			return true
		})
}
