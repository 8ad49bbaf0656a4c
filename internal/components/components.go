// Package components defines the component types shared by the arcade
// demos: kinematics, collision shapes, rendering tags and the Pong/Breakout
// gameplay markers. Components are plain data; all behavior lives in
// systems.
package components

import (
	"github.com/velmik/ecs-arcade/internal/core"
	"github.com/velmik/ecs-arcade/internal/ecs"
)

// Position is a world-space location. Mutated only by the integration and
// collision systems.
type Position struct {
	X, Y float64
}

// Velocity is the signed rate of change of Position.
type Velocity struct {
	X, Y float64
}

// Acceleration is a constant or externally set force equivalent, read-only
// to the integration system.
type Acceleration struct {
	X, Y float64
}

// ShapeKind discriminates the collision shape variants. Only the two kinds
// the demos need exist; the set is closed on purpose.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
)

// Shape is the tagged collision shape union. Radius is meaningful for
// circles, W/H for axis-aligned rectangles. Position is the circle center
// or the rectangle's top-left corner.
type Shape struct {
	Kind   ShapeKind
	Radius float64
	W, H   float64
}

// Circle builds a circle shape.
func Circle(radius float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: radius}
}

// Rectangle builds an axis-aligned rectangle shape.
func Rectangle(w, h float64) Shape {
	return Shape{Kind: ShapeRect, W: w, H: h}
}

// AABB returns the shape's bounding box anchored at the given position.
// For circles the position is the center; for rectangles the top-left.
func (s Shape) AABB(pos Position) core.FRect {
	if s.Kind == ShapeCircle {
		return core.NewFRect(pos.X-s.Radius, pos.Y-s.Radius, 2*s.Radius, 2*s.Radius)
	}
	return core.NewFRect(pos.X, pos.Y, s.W, s.H)
}

// Collider attaches a collision shape to an entity. Every moving entity
// with a Collider must also carry a Position; the collision system treats a
// violation as a programming error.
type Collider struct {
	Shape   Shape
	Trigger bool // Trigger colliders report overlaps without response
}

// Renderable marks an entity for drawing. Demos walk the
// (Position, Renderable) join after each dispatch; the simulation itself
// draws nothing.
type Renderable struct {
	Glyph rune
	Color core.Color
	Layer int
}

// Ball tags the dynamic body the collision rules apply to.
type Ball struct{}

// Paddle marks a paddle body.
type Paddle struct {
	PlayerControlled bool
}

// Brick is a destructible block. HitsLeft decrements per collision; the
// entity is marked for removal when it reaches zero.
type Brick struct {
	HitsLeft int
	Points   int
}

// Set bundles the storages of every shared component type after world
// registration, so systems and spawn code resolve them once.
type Set struct {
	Positions     *ecs.Storage[Position]
	Velocities    *ecs.Storage[Velocity]
	Accelerations *ecs.Storage[Acceleration]
	Colliders     *ecs.Storage[Collider]
	Renderables   *ecs.Storage[Renderable]
	Balls         *ecs.Storage[Ball]
	Paddles       *ecs.Storage[Paddle]
	Bricks        *ecs.Storage[Brick]
}

// Register adds every shared component type to the world and returns the
// storage set. Call once per world, before building pipelines.
func Register(w *ecs.World) Set {
	return Set{
		Positions:     ecs.RegisterComponent[Position](w, "position"),
		Velocities:    ecs.RegisterComponent[Velocity](w, "velocity"),
		Accelerations: ecs.RegisterComponent[Acceleration](w, "acceleration"),
		Colliders:     ecs.RegisterComponent[Collider](w, "collider"),
		Renderables:   ecs.RegisterComponent[Renderable](w, "renderable"),
		Balls:         ecs.RegisterComponent[Ball](w, "ball"),
		Paddles:       ecs.RegisterComponent[Paddle](w, "paddle"),
		Bricks:        ecs.RegisterComponent[Brick](w, "brick"),
	}
}

// Bundle is a plain value struct of optional component fields for one-call
// entity construction. Nil fields are skipped.
type Bundle struct {
	Position     *Position
	Velocity     *Velocity
	Acceleration *Acceleration
	Collider     *Collider
	Renderable   *Renderable
	Ball         *Ball
	Paddle       *Paddle
	Brick        *Brick
}

// Spawn creates an entity and inserts every non-nil bundle field.
func Spawn(w *ecs.World, set Set, b Bundle) ecs.Entity {
	e := w.Create()
	if b.Position != nil {
		set.Positions.Insert(e, *b.Position)
	}
	if b.Velocity != nil {
		set.Velocities.Insert(e, *b.Velocity)
	}
	if b.Acceleration != nil {
		set.Accelerations.Insert(e, *b.Acceleration)
	}
	if b.Collider != nil {
		set.Colliders.Insert(e, *b.Collider)
	}
	if b.Renderable != nil {
		set.Renderables.Insert(e, *b.Renderable)
	}
	if b.Ball != nil {
		set.Balls.Insert(e, *b.Ball)
	}
	if b.Paddle != nil {
		set.Paddles.Insert(e, *b.Paddle)
	}
	if b.Brick != nil {
		set.Bricks.Insert(e, *b.Brick)
	}
	return e
}
