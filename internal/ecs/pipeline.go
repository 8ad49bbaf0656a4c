package ecs

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/charmbracelet/log"
)

// System is a unit of behavior executed once per dispatch. Run must be
// synchronous, finite and non-blocking, and must only touch the components
// and resources declared in the system's Access set.
type System interface {
	Run(w *World, ctx *Context)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(w *World, ctx *Context)

func (f SystemFunc) Run(w *World, ctx *Context) { f(w, ctx) }

// Access declares what a system reads and writes. The pipeline uses it to
// validate registrations against the world and to decide which systems may
// run concurrently: readers of a set may share, a writer is exclusive.
type Access struct {
	ReadsComponents  []reflect.Type
	WritesComponents []reflect.Type
	ReadsResources   []Resource
	WritesResources  []Resource
}

// conflicts reports whether two access sets cannot overlap in time.
func (a Access) conflicts(b Access) bool {
	if typesOverlap(a.WritesComponents, b.ReadsComponents) ||
		typesOverlap(a.WritesComponents, b.WritesComponents) ||
		typesOverlap(b.WritesComponents, a.ReadsComponents) {
		return true
	}
	if resourcesOverlap(a.WritesResources, b.ReadsResources) ||
		resourcesOverlap(a.WritesResources, b.WritesResources) ||
		resourcesOverlap(b.WritesResources, a.ReadsResources) {
		return true
	}
	return false
}

func typesOverlap(xs, ys []reflect.Type) bool {
	for _, x := range xs {
		for _, y := range ys {
			if x == y {
				return true
			}
		}
	}
	return false
}

func resourcesOverlap(xs, ys []Resource) bool {
	for _, x := range xs {
		for _, y := range ys {
			if x == y {
				return true
			}
		}
	}
	return false
}

type node struct {
	name  string
	sys   System
	acc   Access
	after []string
	index int // registration order, the stable tie-break
}

// Pipeline is the ordered system dispatcher. Systems are registered with a
// name, an access declaration and explicit "runs after" edges; Build
// resolves the dependency DAG into topological levels; Dispatch runs every
// system exactly once per tick, fanning out non-conflicting systems within a
// level to goroutines while presenting a sequentially consistent view to
// anything ordered later.
type Pipeline struct {
	world  *World
	nodes  []*node
	byName map[string]*node
	levels [][]*node
	built  bool
	logger *log.Logger
}

// NewPipeline creates a pipeline bound to a world. A nil logger falls back
// to the package default.
func NewPipeline(w *World, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		world:  w,
		byName: make(map[string]*node),
		logger: logger,
	}
}

// Register adds a system under a unique name with explicit dependency edges.
// Component types in the access set must already be registered with the
// world; an unknown type is a registration-time error, never a silent no-op
// at runtime. Forward references in after are allowed and resolved by Build.
func (p *Pipeline) Register(name string, sys System, acc Access, after ...string) error {
	if name == "" {
		return fmt.Errorf("ecs: system name must not be empty")
	}
	if _, dup := p.byName[name]; dup {
		return fmt.Errorf("ecs: system %q already registered", name)
	}
	for _, key := range acc.ReadsComponents {
		if !p.world.registered(key) {
			return fmt.Errorf("ecs: system %q reads unregistered component %s", name, key)
		}
	}
	for _, key := range acc.WritesComponents {
		if !p.world.registered(key) {
			return fmt.Errorf("ecs: system %q writes unregistered component %s", name, key)
		}
	}
	n := &node{name: name, sys: sys, acc: acc, after: after, index: len(p.nodes)}
	p.nodes = append(p.nodes, n)
	p.byName[name] = n
	p.built = false
	return nil
}

// Build resolves dependency edges into topological levels. Unknown
// dependency names and cycles are construction-time fatal errors.
func (p *Pipeline) Build() error {
	preds := make(map[*node][]*node, len(p.nodes))
	for _, n := range p.nodes {
		for _, dep := range n.after {
			d, ok := p.byName[dep]
			if !ok {
				return fmt.Errorf("ecs: system %q depends on unknown system %q", n.name, dep)
			}
			preds[n] = append(preds[n], d)
		}
	}

	// Longest-path depth assignment; registration order settles ties
	// because nodes are visited in that order per level.
	depth := make(map[*node]int, len(p.nodes))
	placed := 0
	for placed < len(p.nodes) {
		progressed := false
		for _, n := range p.nodes {
			if _, done := depth[n]; done {
				continue
			}
			d := 0
			ready := true
			for _, pr := range preds[n] {
				pd, done := depth[pr]
				if !done {
					ready = false
					break
				}
				if pd+1 > d {
					d = pd + 1
				}
			}
			if ready {
				depth[n] = d
				placed++
				progressed = true
			}
		}
		if !progressed {
			return fmt.Errorf("ecs: cycle in system dependency graph")
		}
	}

	maxDepth := 0
	for _, d := range depth {
		if d > maxDepth {
			maxDepth = d
		}
	}
	levels := make([][]*node, maxDepth+1)
	for _, n := range p.nodes {
		levels[depth[n]] = append(levels[depth[n]], n)
	}
	p.levels = levels
	p.built = true
	return nil
}

// Dispatch runs every system exactly once, in topological order with stable
// registration-order tie-breaks. Within a level, consecutive systems whose
// access sets do not conflict run concurrently; a conflicting system starts
// a new sequential batch. A panicking system is recovered and logged so one
// bad system cannot stall the simulation.
func (p *Pipeline) Dispatch(ctx *Context) {
	if !p.built {
		panic("ecs: pipeline dispatched before Build")
	}
	for _, level := range p.levels {
		var batch []*node
		for _, n := range level {
			if p.batchConflicts(batch, n) {
				p.runBatch(batch, ctx)
				batch = batch[:0]
			}
			batch = append(batch, n)
		}
		p.runBatch(batch, ctx)
	}
}

func (p *Pipeline) batchConflicts(batch []*node, n *node) bool {
	for _, b := range batch {
		if b.acc.conflicts(n.acc) {
			return true
		}
	}
	return false
}

func (p *Pipeline) runBatch(batch []*node, ctx *Context) {
	switch len(batch) {
	case 0:
	case 1:
		p.runOne(batch[0], ctx)
	default:
		var wg sync.WaitGroup
		wg.Add(len(batch))
		for _, n := range batch {
			go func(n *node) {
				defer wg.Done()
				p.runOne(n, ctx)
			}(n)
		}
		wg.Wait()
	}
}

func (p *Pipeline) runOne(n *node, ctx *Context) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("system panicked, skipping for this tick", "system", n.name, "panic", r)
		}
	}()
	n.sys.Run(p.world, ctx)
}

// Systems returns the registered system names in registration order.
func (p *Pipeline) Systems() []string {
	names := make([]string, len(p.nodes))
	for i, n := range p.nodes {
		names[i] = n.name
	}
	return names
}

// Order returns the execution order Build resolved, flattened across levels.
func (p *Pipeline) Order() []string {
	if !p.built {
		return nil
	}
	var names []string
	for _, level := range p.levels {
		for _, n := range level {
			names = append(names, n.name)
		}
	}
	return names
}
