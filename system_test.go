package ecs

import "testing"

type lifecycleSystem struct {
	creates, updates, destroys int
}

func (s *lifecycleSystem) OnCreate(state *SystemState)  { s.creates++ }
func (s *lifecycleSystem) OnUpdate(state *SystemState)  { s.updates++ }
func (s *lifecycleSystem) OnDestroy(state *SystemState) { s.destroys++ }

func TestSystemOnCreateRunsLazilyOnFirstUpdate(t *testing.T) {
	w := NewWorld(WorldOptions{})
	sys := &lifecycleSystem{}
	Register(w, sys)

	if sys.creates != 0 {
		t.Fatalf("OnCreate should not run at Register time, got %d calls", sys.creates)
	}

	w.Update(0.016)
	if sys.creates != 1 {
		t.Fatalf("OnCreate calls after first Update = %d, want 1", sys.creates)
	}
	if sys.updates != 1 {
		t.Fatalf("OnUpdate calls after first Update = %d, want 1 (OnCreate and OnUpdate both fire on the creating frame)", sys.updates)
	}

	w.Update(0.016)
	if sys.creates != 1 {
		t.Fatalf("OnCreate should only ever run once, got %d calls", sys.creates)
	}
	if sys.updates != 2 {
		t.Fatalf("OnUpdate calls after second Update = %d, want 2", sys.updates)
	}
}

func TestSystemOnDestroyOnlyRunsForCreatedSystems(t *testing.T) {
	w := NewWorld(WorldOptions{})
	ran := &lifecycleSystem{}
	neverRan := &lifecycleSystem{}
	Register(w, ran)

	w.Update(0.016)
	// Registered after the frame that would have created it, so it
	// never reaches OnCreate.
	Register(w, neverRan)
	w.DestroySystems()

	if ran.destroys != 1 {
		t.Fatalf("a system that reached OnCreate should get exactly one OnDestroy call, got %d", ran.destroys)
	}
	if neverRan.destroys != 0 {
		t.Fatalf("a system that never ran OnCreate must not get an OnDestroy call, got %d", neverRan.destroys)
	}

	w.DestroySystems()
	if ran.destroys != 1 {
		t.Fatalf("OnDestroy must not run twice, got %d", ran.destroys)
	}
}
