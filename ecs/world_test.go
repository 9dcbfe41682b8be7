package ecs

import (
	"testing"

	"github.com/milk9111/cityfps/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex < 0 {
				return
			}
			if !DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if IsAlive(w, ents[c.destroyIndex]) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("second destroy must report false")
			}
		})
	}
}

func TestStaleHandleDoesNotAliasReusedSlot(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()

	old := CreateEntity(w)
	if err := Add(w, old, kind, intPtr(1)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)

	reused := CreateEntity(w)
	if reused.id() != old.id() {
		t.Fatalf("expected slot reuse, got %v and %v", old, reused)
	}
	if reused == old {
		t.Fatalf("reused handle must carry a new generation")
	}
	if Has(w, reused, kind) {
		t.Fatalf("components must not survive destruction")
	}
	if err := Add(w, old, kind, intPtr(2)); err != component.ErrEntityNotAlive {
		t.Fatalf("adding to a stale handle: got %v", err)
	}
	if _, ok := Get(w, old, kind); ok {
		t.Fatalf("stale handle must not resolve")
	}
}

func TestComponentsAndQueries(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() bool { return Remove(w, e1, h1.Kind()) },
		},
		{
			name: "add_str_to_both",
			setup: func() error {
				a, b := "a", "b"
				if err := Add(w, e1, h2.Kind(), &a); err != nil {
					return err
				}
				return Add(w, e2, h2.Kind(), &b)
			},
			check: func(t *testing.T) {
				if !Has(w, e1, h2.Kind()) || !Has(w, e2, h2.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
				if got := Count(w, h2.Kind()); got != 2 {
					t.Fatalf("count = %d, want 2", got)
				}
			},
			teardown: func() bool { return Remove(w, e1, h2.Kind()) },
		},
		{
			name:  "nil_value_rejected",
			setup: func() error { return nil },
			check: func(t *testing.T) {
				if err := Add[int](w, e1, h1.Kind(), nil); err != component.ErrNilComponent {
					t.Fatalf("got %v, want ErrNilComponent", err)
				}
			},
			teardown: func() bool { return true },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}
}

func TestForEachSkipsMissingAndDestroyed(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)
	for _, e := range []Entity{e1, e2, e3} {
		if err := Add(w, e, ka, intPtr(1)); err != nil {
			t.Fatal(err)
		}
	}
	if err := Add(w, e2, kb, intPtr(2)); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e3, kb, intPtr(3)); err != nil {
		t.Fatal(err)
	}

	var res []Entity
	ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { res = append(res, e) })
	set := toSet(res)
	if len(set) != 2 {
		t.Fatalf("expected e2 and e3, got %v", res)
	}
	if _, ok := set[e1]; ok {
		t.Fatalf("e1 has no kb")
	}

	// Destroying during iteration must not break the walk.
	visited := 0
	ForEach(w, ka, func(e Entity, _ *int) {
		visited++
		DestroyEntity(w, e3)
	})
	if visited < 2 {
		t.Fatalf("visited %d entities", visited)
	}
	if IsAlive(w, e3) {
		t.Fatalf("e3 should be destroyed")
	}

	res = nil
	ForEach3(w, ka, kb, component.NewComponentKind[int](), func(e Entity, _, _, _ *int) { res = append(res, e) })
	if len(res) != 0 {
		t.Fatalf("missing store must yield nothing, got %v", res)
	}
}

func TestEventQueueEachAndFlush(t *testing.T) {
	w := NewWorld()
	w.Events().Push(Event{Type: "a", Data: 1})
	w.Events().Push(Event{Type: "b", Data: 2})
	w.Events().Push(Event{Type: "a", Data: 3})

	var got []int
	w.Events().Each("a", func(e Event) { got = append(got, e.Data.(int)) })
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("unexpected events %v", got)
	}

	w.FlushEvents()
	if w.Events().Len() != 0 {
		t.Fatalf("flush should clear the queue")
	}
}

type countingSystem struct{ n *int }

func (s countingSystem) Update(*World) { *s.n++ }

type panicSystem struct{}

func (panicSystem) Update(*World) { panic("boom") }

func TestSchedulerGuardIsolatesPanics(t *testing.T) {
	n := 0
	s := NewScheduler(panicSystem{}, countingSystem{n: &n}, nil)
	recovered := 0
	s.SetGuard(func(_ System, run func()) {
		defer func() {
			if recover() != nil {
				recovered++
			}
		}()
		run()
	})
	s.Update(NewWorld())
	if n != 1 || recovered != 1 {
		t.Fatalf("n=%d recovered=%d", n, recovered)
	}
	if len(s.Systems()) != 2 {
		t.Fatalf("nil systems must be dropped")
	}
}

func TestWorldClock(t *testing.T) {
	w := NewWorld()
	w.Advance(0.5)
	w.Advance(0.25)
	if w.Delta() != 0.25 || w.Elapsed() != 0.75 || w.Tick() != 2 {
		t.Fatalf("delta=%v elapsed=%v tick=%v", w.Delta(), w.Elapsed(), w.Tick())
	}
}
