package ecs

import (
	"reflect"
	"strings"
	"sync"
	"testing"
)

// recorder appends its name to a shared log under a mutex so concurrent
// batches can be inspected after the dispatch.
type recorder struct {
	name string
	mu   *sync.Mutex
	log  *[]string
}

func (r recorder) Run(*World, *Context) {
	r.mu.Lock()
	*r.log = append(*r.log, r.name)
	r.mu.Unlock()
}

func newRecorded(t *testing.T) (*Pipeline, func(name string, acc Access, after ...string), *[]string) {
	t.Helper()
	w := NewWorld()
	p := NewPipeline(w, nil)
	var mu sync.Mutex
	log := &[]string{}
	add := func(name string, acc Access, after ...string) {
		t.Helper()
		if err := p.Register(name, recorder{name: name, mu: &mu, log: log}, acc, after...); err != nil {
			t.Fatalf("Register(%q): %v", name, err)
		}
	}
	return p, add, log
}

func indexOf(names []string, want string) int {
	for i, n := range names {
		if n == want {
			return i
		}
	}
	return -1
}

func TestRegisterValidation(t *testing.T) {
	w := NewWorld()
	p := NewPipeline(w, nil)
	noop := SystemFunc(func(*World, *Context) {})

	if err := p.Register("", noop, Access{}); err == nil {
		t.Error("empty system name should error")
	}
	if err := p.Register("a", noop, Access{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := p.Register("a", noop, Access{}); err == nil {
		t.Error("duplicate system name should error")
	}

	err := p.Register("b", noop, Access{ReadsComponents: []reflect.Type{Key[pos]()}})
	if err == nil {
		t.Error("reading an unregistered component should error")
	}
	err = p.Register("c", noop, Access{WritesComponents: []reflect.Type{Key[pos]()}})
	if err == nil {
		t.Error("writing an unregistered component should error")
	}

	RegisterComponent[pos](w, "pos")
	if err := p.Register("d", noop, Access{WritesComponents: []reflect.Type{Key[pos]()}}); err != nil {
		t.Errorf("registered component should pass validation: %v", err)
	}
}

func TestBuildUnknownDependency(t *testing.T) {
	w := NewWorld()
	p := NewPipeline(w, nil)
	noop := SystemFunc(func(*World, *Context) {})

	if err := p.Register("a", noop, Access{}, "ghost"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := p.Build()
	if err == nil {
		t.Fatal("unknown dependency should fail Build")
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error should name the missing dependency: %v", err)
	}
}

func TestBuildCycle(t *testing.T) {
	w := NewWorld()
	p := NewPipeline(w, nil)
	noop := SystemFunc(func(*World, *Context) {})

	if err := p.Register("a", noop, Access{}, "b"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := p.Register("b", noop, Access{}, "a"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := p.Build()
	if err == nil {
		t.Fatal("mutual after edges should fail Build")
	}
	if err.Error() != "ecs: cycle in system dependency graph" {
		t.Errorf("unexpected cycle error: %v", err)
	}
}

func TestOrderRespectsDependencies(t *testing.T) {
	p, add, _ := newRecorded(t)

	// Forward reference: "input" depends on a system registered later.
	add("integrate", Access{}, "input")
	add("input", Access{})
	add("collide", Access{}, "integrate")
	add("clamp", Access{}, "collide")

	if err := p.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	order := p.Order()
	if len(order) != 4 {
		t.Fatalf("order has %d systems, want 4", len(order))
	}
	pairs := [][2]string{
		{"input", "integrate"},
		{"integrate", "collide"},
		{"collide", "clamp"},
	}
	for _, pr := range pairs {
		if indexOf(order, pr[0]) >= indexOf(order, pr[1]) {
			t.Errorf("%q should run before %q, order = %v", pr[0], pr[1], order)
		}
	}
}

func TestOrderTieBreakIsRegistrationOrder(t *testing.T) {
	p, add, _ := newRecorded(t)

	add("root", Access{})
	add("late", Access{}, "root")
	add("early", Access{}, "root")

	if err := p.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	order := p.Order()
	if indexOf(order, "late") >= indexOf(order, "early") {
		t.Errorf("same-depth systems should keep registration order, got %v", order)
	}
}

func TestDispatchRunsEverySystemOnce(t *testing.T) {
	p, add, log := newRecorded(t)

	add("a", Access{})
	add("b", Access{}, "a")
	add("c", Access{}, "a")
	add("d", Access{}, "b", "c")

	if err := p.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	ctx := NewContext()
	p.Dispatch(&ctx)

	if len(*log) != 4 {
		t.Fatalf("dispatch ran %d systems, want 4", len(*log))
	}
	seen := map[string]int{}
	for _, n := range *log {
		seen[n]++
	}
	for _, n := range []string{"a", "b", "c", "d"} {
		if seen[n] != 1 {
			t.Errorf("system %q ran %d times, want 1", n, seen[n])
		}
	}
	if indexOf(*log, "a") != 0 {
		t.Errorf("root should run first, log = %v", *log)
	}
	if indexOf(*log, "d") != 3 {
		t.Errorf("sink should run last, log = %v", *log)
	}
}

func TestDispatchConflictingWritersAreSequential(t *testing.T) {
	w := NewWorld()
	velocities := RegisterComponent[vel](w, "vel")
	p := NewPipeline(w, nil)

	e := w.Create()
	velocities.Insert(e, vel{})

	writes := Access{WritesComponents: []reflect.Type{Key[vel]()}}
	// Both systems mutate the same component with no ordering edge. The
	// batcher must serialize them, so the read-modify-write below is safe.
	bump := SystemFunc(func(w *World, _ *Context) {
		v, _ := velocities.Get(e)
		v.X++
	})
	if err := p.Register("w1", bump, writes); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := p.Register("w2", bump, writes); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := p.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	ctx := NewContext()
	for i := 0; i < 100; i++ {
		p.Dispatch(&ctx)
	}
	if v, _ := velocities.Get(e); v.X != 200 {
		t.Errorf("X = %f after 100 dispatches of two writers, want 200", v.X)
	}
}

func TestDispatchResourceConflict(t *testing.T) {
	w := NewWorld()
	p := NewPipeline(w, nil)

	shared := 0
	writes := Access{WritesResources: []Resource{ResScore}}
	bump := SystemFunc(func(*World, *Context) { shared++ })
	if err := p.Register("s1", bump, writes); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := p.Register("s2", bump, writes); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := p.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	ctx := NewContext()
	for i := 0; i < 100; i++ {
		p.Dispatch(&ctx)
	}
	if shared != 200 {
		t.Errorf("shared = %d, want 200", shared)
	}
}

func TestDispatchBeforeBuildPanics(t *testing.T) {
	w := NewWorld()
	p := NewPipeline(w, nil)

	defer func() {
		if recover() == nil {
			t.Error("dispatch before Build should panic")
		}
	}()
	ctx := NewContext()
	p.Dispatch(&ctx)
}

func TestDispatchRecoversPanickingSystem(t *testing.T) {
	p, add, log := newRecorded(t)

	if err := p.Register("boom", SystemFunc(func(*World, *Context) {
		panic("kaboom")
	}), Access{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	add("after", Access{}, "boom")

	if err := p.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	ctx := NewContext()
	p.Dispatch(&ctx)

	if indexOf(*log, "after") < 0 {
		t.Error("system ordered after a panicking one should still run")
	}
}

func TestSystemsReturnsRegistrationOrder(t *testing.T) {
	p, add, _ := newRecorded(t)

	add("z", Access{})
	add("a", Access{}, "z")
	add("m", Access{})

	got := p.Systems()
	want := []string{"z", "a", "m"}
	if len(got) != len(want) {
		t.Fatalf("Systems() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Systems()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOrderNilBeforeBuild(t *testing.T) {
	w := NewWorld()
	p := NewPipeline(w, nil)
	if p.Order() != nil {
		t.Error("Order before Build should be nil")
	}
}
