package ecs

// systemLifecycle bitflags track a System's lifecycle so Update/
// Destroy each run a system's hooks in the right order exactly once,
// the same discipline the teacher's world applied per-system.
type systemLifecycle uint8

const (
	sysCreated systemLifecycle = 1 << iota
	sysRunning
	sysDestroyed
)

// SystemState is what a System actually sees each frame: the World
// itself plus the per-frame values (delta time, frame count) a
// simulation loop threads through every system without every system
// reaching into World internals directly.
type SystemState struct {
	World     *World
	DeltaTime float32
	Frame     uint64
	// Temp is the World's scratch arena. It is reset after every
	// system's hooks run, so nothing allocated from it may be kept past
	// the current OnCreate/OnUpdate/OnDestroy call.
	Temp *ScratchAllocator
}

// System is one unit of per-frame logic registered against a World.
// OnCreate runs once, on the system's first Update pass; OnUpdate runs
// once per Update call (in registration order); OnDestroy runs once
// when the World is torn down.
type System interface {
	OnCreate(s *SystemState)
	OnUpdate(s *SystemState)
	OnDestroy(s *SystemState)
}

// BaseSystem gives a System type empty OnCreate/OnDestroy hooks for
// free; embed it and only override what you need.
type BaseSystem struct{}

func (BaseSystem) OnCreate(s *SystemState)  {}
func (BaseSystem) OnDestroy(s *SystemState) {}

type registeredSystem struct {
	system System
	state  systemLifecycle
}

// Register appends sys to w's system list with a zeroed lifecycle
// state. OnCreate does not run here — it runs lazily on sys's first
// Update, matching the original's flag-gated lifecycle rather than an
// eager call at registration time.
func Register(w *World, sys System) {
	w.systemRegistry = append(w.systemRegistry, registeredSystem{system: sys})
}

// Update visits every registered system once, in registration order:
// a system neither created nor destroyed gets its OnCreate hook and is
// marked created|running; a running system then gets its OnUpdate hook
// in that same pass, so a system's first Update call runs both
// OnCreate and OnUpdate back to back. Deferred entity removals queued
// during the frame are flushed once every system has run.
func (w *World) Update(deltaTime float32) {
	w.systemVersion++
	w.frame++
	state := &SystemState{World: w, DeltaTime: deltaTime, Frame: w.frame, Temp: w.scratch}
	for i := range w.systemRegistry {
		rs := &w.systemRegistry[i]
		if rs.state&(sysCreated|sysDestroyed) == 0 {
			rs.system.OnCreate(state)
			rs.state |= sysCreated | sysRunning
		}
		if rs.state&sysRunning != 0 {
			rs.system.OnUpdate(state)
		}
		w.scratch.Reset()
	}
	w.ProcessRemovals()
}

// DestroySystems runs OnDestroy, in registration order, for every
// system that actually reached OnCreate and hasn't already been
// destroyed, then clears the registry.
func (w *World) DestroySystems() {
	state := &SystemState{World: w, Frame: w.frame, Temp: w.scratch}
	for i := range w.systemRegistry {
		rs := &w.systemRegistry[i]
		if rs.state&sysCreated == 0 || rs.state&sysDestroyed != 0 {
			continue
		}
		rs.system.OnDestroy(state)
		rs.state |= sysDestroyed
	}
	w.systemRegistry = nil
}
