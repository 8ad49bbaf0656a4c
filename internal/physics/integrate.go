// Package physics implements the simulation systems: semi-implicit Euler
// integration and shape collision detection/response for the arcade demos.
package physics

import (
	"math"
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/velmik/ecs-arcade/internal/components"
	"github.com/velmik/ecs-arcade/internal/ecs"
)

// Integrator advances kinematics by one fixed step. Acceleration folds into
// velocity before velocity moves position, within the same tick
// (semi-implicit Euler). Integrating the other way around compounds half a
// step of error per tick and visibly flattens ball arcs under gravity.
type Integrator struct {
	positions     *ecs.Storage[components.Position]
	velocities    *ecs.Storage[components.Velocity]
	accelerations *ecs.Storage[components.Acceleration]
	logger        *log.Logger
}

// NewIntegrator resolves the component storages once at construction. A
// missing registration panics here, before the first dispatch.
func NewIntegrator(w *ecs.World, logger *log.Logger) *Integrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Integrator{
		positions:     ecs.MustStorage[components.Position](w),
		velocities:    ecs.MustStorage[components.Velocity](w),
		accelerations: ecs.MustStorage[components.Acceleration](w),
		logger:        logger,
	}
}

// Access declares the integrator's read/write sets for pipeline scheduling.
func (s *Integrator) Access() ecs.Access {
	return ecs.Access{
		ReadsComponents:  []reflect.Type{ecs.Key[components.Acceleration]()},
		WritesComponents: []reflect.Type{ecs.Key[components.Position](), ecs.Key[components.Velocity]()},
		ReadsResources:   []ecs.Resource{ecs.ResTime},
	}
}

// Run applies one integration step. A non-finite dt skips the whole step
// with a diagnostic rather than propagating NaN into positions.
func (s *Integrator) Run(w *ecs.World, ctx *ecs.Context) {
	dt := ctx.Time.Delta
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		s.logger.Warn("skipping integration step, non-finite dt", "dt", dt)
		return
	}

	ecs.Join2(w, s.velocities, s.accelerations, func(_ ecs.Entity, v *components.Velocity, a *components.Acceleration) bool {
		v.X += a.X * dt
		v.Y += a.Y * dt
		return true
	})

	ecs.Join2(w, s.positions, s.velocities, func(_ ecs.Entity, p *components.Position, v *components.Velocity) bool {
		p.X += v.X * dt
		p.Y += v.Y * dt
		return true
	})
}
