package physics

import (
	"math"
	"math/rand"
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/velmik/ecs-arcade/internal/components"
	"github.com/velmik/ecs-arcade/internal/core"
	"github.com/velmik/ecs-arcade/internal/ecs"
)

// Speed cap applied after paddle spin: a hit that would exceed the trigger
// multiple of nominal speed is rescaled down to the target multiple. Caps
// runaway acceleration from repeated spin while still rewarding edge hits.
const (
	SpeedCapTrigger = 1.5
	SpeedCapTarget  = 1.2
)

// PaddleOrientation selects which axis a paddle hit reflects. Pong paddles
// stand vertically at the field sides, Breakout's lies horizontally at the
// bottom.
type PaddleOrientation uint8

const (
	PaddlesVertical PaddleOrientation = iota
	PaddlesHorizontal
)

// Rules configures the collision response for one demo's field.
type Rules struct {
	// Bounds is the playable field. Balls reflect off enabled edges and
	// are clamped back inside to prevent tunneling.
	Bounds core.FRect

	WallTop    bool
	WallBottom bool
	WallLeft   bool
	WallRight  bool

	// ScoreLeft/ScoreRight turn the side edges into scoring edges: the
	// opposite player's counter increments and the ball resets to center
	// within the same tick, so no extra physics step runs off-field.
	ScoreLeft  bool
	ScoreRight bool

	// DropBottom makes the bottom edge consume the ball (Breakout): a
	// life is lost and the ball resets to center.
	DropBottom bool

	// NominalSpeed is the reference ball speed for serves and the cap.
	NominalSpeed float64
	// SpinFactor scales the tangential perturbation added on paddle
	// contact, proportional to the normalized hit offset in [-1, 1].
	SpinFactor float64

	Orientation PaddleOrientation

	// Strict panics on a collider without a position instead of skipping
	// the entity with a logged error.
	Strict bool

	// BallBounce enables circle-circle response between balls (the
	// bouncing-balls demo); Pong and Breakout run a single ball.
	BallBounce bool
}

// Collision detects overlaps between the ball and walls, paddles and
// bricks, applies the response and raises the domain effects: score
// changes, lost lives, brick removal tags. Pair testing follows join order
// (registry creation order), so outcomes are reproducible given identical
// input. Only the first qualifying paddle or brick hit per ball per tick is
// resolved, matching the first-hit-only policy of the reference demos.
type Collision struct {
	rules  Rules
	rng    *rand.Rand
	logger *log.Logger

	positions  *ecs.Storage[components.Position]
	velocities *ecs.Storage[components.Velocity]
	colliders  *ecs.Storage[components.Collider]
	balls      *ecs.Storage[components.Ball]
	paddles    *ecs.Storage[components.Paddle]
	bricks     *ecs.Storage[components.Brick]
}

// NewCollision builds the collision system. The rng drives serve direction
// randomization after scoring; a missing component registration panics at
// construction.
func NewCollision(w *ecs.World, rules Rules, rng *rand.Rand, logger *log.Logger) *Collision {
	if logger == nil {
		logger = log.Default()
	}
	return &Collision{
		rules:      rules,
		rng:        rng,
		logger:     logger,
		positions:  ecs.MustStorage[components.Position](w),
		velocities: ecs.MustStorage[components.Velocity](w),
		colliders:  ecs.MustStorage[components.Collider](w),
		balls:      ecs.MustStorage[components.Ball](w),
		paddles:    ecs.MustStorage[components.Paddle](w),
		bricks:     ecs.MustStorage[components.Brick](w),
	}
}

// Rules returns the active rule set.
func (c *Collision) Rules() Rules {
	return c.rules
}

// SetNominalSpeed retunes the reference ball speed, letting difficulty
// scaling speed the game up between ticks without rebuilding the system.
func (c *Collision) SetNominalSpeed(v float64) {
	c.rules.NominalSpeed = v
}

// Access declares the collision system's read/write sets.
func (c *Collision) Access() ecs.Access {
	return ecs.Access{
		ReadsComponents: []reflect.Type{
			ecs.Key[components.Collider](),
			ecs.Key[components.Ball](),
			ecs.Key[components.Paddle](),
		},
		WritesComponents: []reflect.Type{
			ecs.Key[components.Position](),
			ecs.Key[components.Velocity](),
			ecs.Key[components.Brick](),
			ecs.Key[ecs.MarkedForRemoval](),
		},
		WritesResources: []ecs.Resource{ecs.ResScore},
	}
}

// Run performs one collision step.
func (c *Collision) Run(w *ecs.World, ctx *ecs.Context) {
	c.checkColliderInvariant(w)

	ecs.Join4(w, c.balls, c.colliders, c.positions, c.velocities,
		func(ball ecs.Entity, _ *components.Ball, col *components.Collider, pos *components.Position, vel *components.Velocity) bool {
			c.resolveWalls(pos, vel, col)
			c.resolvePaddles(w, ball, pos, vel, col)
			c.resolveBricks(w, ball, pos, vel, col, ctx)
			if c.rules.BallBounce {
				c.resolveBallPairs(w, ball, pos, vel, col)
			}
			c.resolveScoringEdges(pos, vel, col, ctx)
			return true
		})
}

// checkColliderInvariant fails loudly on a collider without a paired
// position: panic in strict mode, log-and-skip otherwise. The offending
// entity is excluded from this tick's pair tests either way, so one bad
// entity cannot corrupt the rest.
func (c *Collision) checkColliderInvariant(w *ecs.World) {
	c.colliders.EachDense(func(e ecs.Entity, _ *components.Collider) bool {
		if !w.Alive(e) || c.positions.Has(e) {
			return true
		}
		if c.rules.Strict {
			panic("physics: collider without position")
		}
		c.logger.Error("collider without position, skipping entity", "entity", e.ID)
		return true
	})
}

func (c *Collision) resolveWalls(pos *components.Position, vel *components.Velocity, col *components.Collider) {
	b := c.rules.Bounds
	box := col.Shape.AABB(*pos)
	// Clamp offsets translate the AABB edge back to the wall; positions
	// anchor differently per shape, so move by box deltas.
	if c.rules.WallTop && box.Y < b.Y && vel.Y < 0 {
		pos.Y += b.Y - box.Y
		vel.Y = -vel.Y
	}
	if c.rules.WallBottom && box.Bottom() > b.Bottom() && vel.Y > 0 {
		pos.Y -= box.Bottom() - b.Bottom()
		vel.Y = -vel.Y
	}
	if c.rules.WallLeft && box.X < b.X && vel.X < 0 {
		pos.X += b.X - box.X
		vel.X = -vel.X
	}
	if c.rules.WallRight && box.Right() > b.Right() && vel.X > 0 {
		pos.X -= box.Right() - b.Right()
		vel.X = -vel.X
	}
}

// resolvePaddles reflects the ball off the first overlapping paddle and
// adds spin proportional to the contact offset from the paddle center.
// Breaking after the first match avoids double-reflection artifacts when
// colliders overlap within one tick.
func (c *Collision) resolvePaddles(w *ecs.World, ball ecs.Entity, pos *components.Position, vel *components.Velocity, col *components.Collider) {
	ballBox := col.Shape.AABB(*pos)
	ecs.Join3(w, c.paddles, c.positions, c.colliders,
		func(e ecs.Entity, _ *components.Paddle, ppos *components.Position, pcol *components.Collider) bool {
			if e == ball {
				return true
			}
			paddleBox := pcol.Shape.AABB(*ppos)
			if !ballBox.Intersects(paddleBox) {
				return true
			}
			if c.rules.Orientation == PaddlesVertical {
				// Approach check keeps a ball that is already
				// leaving from re-reflecting next tick.
				ballCX := ballBox.X + ballBox.W/2
				paddleCX := paddleBox.X + paddleBox.W/2
				if (vel.X < 0) != (ballCX > paddleCX) {
					return true
				}
				vel.X = -vel.X
				offset := hitOffset(ballBox.Y+ballBox.H/2, paddleBox.Y, paddleBox.H)
				vel.Y += offset * c.rules.SpinFactor
			} else {
				ballCY := ballBox.Y + ballBox.H/2
				paddleCY := paddleBox.Y + paddleBox.H/2
				if (vel.Y < 0) != (ballCY > paddleCY) {
					return true
				}
				vel.Y = -vel.Y
				offset := hitOffset(ballBox.X+ballBox.W/2, paddleBox.X, paddleBox.W)
				vel.X += offset * c.rules.SpinFactor
			}
			c.capSpeed(vel)
			return false // first hit only
		})
}

// resolveBricks reflects the vertical velocity off the first overlapping
// brick, decrements its hit counter and tags it for removal at zero. Only
// one brick per ball per tick; a fast ball crossing several bricks in one
// step resolves against whichever joins first.
func (c *Collision) resolveBricks(w *ecs.World, ball ecs.Entity, pos *components.Position, vel *components.Velocity, col *components.Collider, ctx *ecs.Context) {
	ballBox := col.Shape.AABB(*pos)
	ecs.Join3(w, c.bricks, c.positions, c.colliders,
		func(e ecs.Entity, brick *components.Brick, bpos *components.Position, bcol *components.Collider) bool {
			if e == ball || brick.HitsLeft <= 0 {
				return true
			}
			if !ballBox.Intersects(bcol.Shape.AABB(*bpos)) {
				return true
			}
			vel.Y = -vel.Y
			brick.HitsLeft--
			if brick.HitsLeft == 0 {
				ctx.Score.Points += brick.Points
				w.MarkRemove(e)
			}
			return false // first hit only
		})
}

// resolveBallPairs applies an equal-mass elastic exchange between
// overlapping circle balls: the velocity components along the contact
// normal swap and the pair separates. Pairs are visited in join order and
// each pair once, with the earlier-created entity leading.
func (c *Collision) resolveBallPairs(w *ecs.World, ball ecs.Entity, pos *components.Position, vel *components.Velocity, col *components.Collider) {
	if col.Shape.Kind != components.ShapeCircle {
		return
	}
	passed := false
	ecs.Join4(w, c.balls, c.colliders, c.positions, c.velocities,
		func(other ecs.Entity, _ *components.Ball, ocol *components.Collider, opos *components.Position, ovel *components.Velocity) bool {
			if other == ball {
				passed = true
				return true
			}
			if !passed || ocol.Shape.Kind != components.ShapeCircle {
				return true // each pair resolves once, led by the earlier entity
			}
			dx := opos.X - pos.X
			dy := opos.Y - pos.Y
			dist := math.Hypot(dx, dy)
			minDist := col.Shape.Radius + ocol.Shape.Radius
			if dist >= minDist || dist == 0 {
				return true
			}
			nx, ny := dx/dist, dy/dist
			// Project velocities onto the contact normal and swap.
			p1 := vel.X*nx + vel.Y*ny
			p2 := ovel.X*nx + ovel.Y*ny
			vel.X += (p2 - p1) * nx
			vel.Y += (p2 - p1) * ny
			ovel.X += (p1 - p2) * nx
			ovel.Y += (p1 - p2) * ny
			// Separate to the contact distance so the pair does not
			// re-collide while still overlapping next tick.
			overlap := (minDist - dist) / 2
			pos.X -= nx * overlap
			pos.Y -= ny * overlap
			opos.X += nx * overlap
			opos.Y += ny * overlap
			return true
		})
}

// resolveScoringEdges handles out-of-bounds balls: the appropriate counter
// changes and the ball resets to field center with a randomized serve, in
// the same tick as detection.
func (c *Collision) resolveScoringEdges(pos *components.Position, vel *components.Velocity, col *components.Collider, ctx *ecs.Context) {
	b := c.rules.Bounds
	box := col.Shape.AABB(*pos)

	if c.rules.ScoreLeft && box.Right() < b.X {
		ctx.Score.Opponent++
		c.resetBall(pos, vel, col, +1)
		return
	}
	if c.rules.ScoreRight && box.X > b.Right() {
		ctx.Score.Player++
		c.resetBall(pos, vel, col, -1)
		return
	}
	if c.rules.DropBottom && box.Y > b.Bottom() {
		ctx.Score.Lives--
		c.resetBall(pos, vel, col, 0)
	}
}

// resetBall recenters the ball and serves at nominal speed. dirX forces the
// horizontal serve direction (away from the scored edge); zero randomizes
// it. The vertical angle is always randomized.
func (c *Collision) resetBall(pos *components.Position, vel *components.Velocity, col *components.Collider, dirX float64) {
	b := c.rules.Bounds
	cx := b.X + b.W/2
	cy := b.Y + b.H/2
	if col.Shape.Kind == components.ShapeRect {
		cx -= col.Shape.W / 2
		cy -= col.Shape.H / 2
	}
	pos.X = cx
	pos.Y = cy

	if dirX == 0 {
		if c.rng.Float64() < 0.5 {
			dirX = -1
		} else {
			dirX = 1
		}
	}
	angle := (c.rng.Float64() - 0.5) * 0.6 // -0.3 to 0.3
	speed := c.rules.NominalSpeed
	if c.rules.Orientation == PaddlesHorizontal {
		// Breakout serves upward, angle spreads horizontally.
		vel.X = speed * angle * dirX
		vel.Y = -speed
		return
	}
	vel.X = speed * dirX
	vel.Y = speed * angle
}

// capSpeed rescales the velocity to SpeedCapTarget times nominal when spin
// pushed it past SpeedCapTrigger times nominal, preserving direction.
func (c *Collision) capSpeed(vel *components.Velocity) {
	nominal := c.rules.NominalSpeed
	speed := math.Hypot(vel.X, vel.Y)
	if speed > nominal*SpeedCapTrigger {
		scale := nominal * SpeedCapTarget / speed
		vel.X *= scale
		vel.Y *= scale
	}
}

// hitOffset normalizes a contact coordinate against an extent to [-1, 1]
// from the extent's center.
func hitOffset(contact, start, extent float64) float64 {
	center := start + extent/2
	half := extent / 2
	if half == 0 {
		return 0
	}
	off := (contact - center) / half
	if off < -1 {
		off = -1
	}
	if off > 1 {
		off = 1
	}
	return off
}

// CirclesOverlap reports whether two circles overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	return math.Hypot(x2-x1, y2-y1) < r1+r2
}
