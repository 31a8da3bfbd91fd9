package hostecs

import "sort"

// System operates on the entities of an EntityStore once per scheduler
// step. Systems are written against the interface, not *World, so a host
// ECS other than this package's reference World can run them too.
type System interface {
	Update(w EntityStore, dt float64)
}

// SystemRegistration describes how a System should be scheduled: its
// priority (lower runs first), optional ordering relative to other named
// systems, and whether it runs on the fixed-step or variable-rate loop.
type SystemRegistration struct {
	Name        string
	System      System
	Priority    int
	Before      []string
	After       []string
	FixedUpdate bool
}

// AddSystem registers a system with the world's scheduler.
func (w *World) AddSystem(reg SystemRegistration) {
	w.systems = append(w.systems, &reg)
	w.schedDirty = true
}

// FixedStep runs every FixedUpdate system in scheduled order.
func (w *World) FixedStep(dt float64) {
	w.ensureScheduled()
	for _, reg := range w.fixedOrdered {
		reg.System.Update(w, dt)
	}
}

// Update runs every variable-rate (non-FixedUpdate) system in scheduled order.
func (w *World) Update(dt float64) {
	w.ensureScheduled()
	for _, reg := range w.variOrdered {
		reg.System.Update(w, dt)
	}
}

// ensureScheduled rebuilds the ordered fixed/variable system lists,
// honoring Priority first and Before/After constraints among systems that
// share a priority.
func (w *World) ensureScheduled() {
	if !w.schedDirty {
		return
	}

	var fixed, vari []*SystemRegistration
	for _, reg := range w.systems {
		if reg.FixedUpdate {
			fixed = append(fixed, reg)
		} else {
			vari = append(vari, reg)
		}
	}

	w.fixedOrdered = orderSystems(fixed)
	w.variOrdered = orderSystems(vari)
	w.schedDirty = false
}

// orderSystems sorts by Priority ascending (stable), then applies a
// single pass of Before/After adjustments among equal-priority systems.
// This is a reference scheduler, not a general topological sort: it is
// sufficient for the small, non-cyclic system sets a network core
// registers (ordering prediction before input-send, tick-increment before
// input-processing, and so on).
func orderSystems(regs []*SystemRegistration) []*SystemRegistration {
	ordered := make([]*SystemRegistration, len(regs))
	copy(ordered, regs)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	byName := make(map[string]int, len(ordered))
	for i, reg := range ordered {
		if reg.Name != "" {
			byName[reg.Name] = i
		}
	}

	for i, reg := range ordered {
		for _, before := range reg.Before {
			if j, ok := byName[before]; ok && j < i && ordered[j].Priority == reg.Priority {
				ordered = swapToBefore(ordered, i, j)
				rebuildIndex(ordered, byName)
			}
		}
	}

	for i, reg := range ordered {
		for _, after := range reg.After {
			if j, ok := byName[after]; ok && j > i && ordered[j].Priority == reg.Priority {
				ordered = swapToBefore(ordered, i, j)
				rebuildIndex(ordered, byName)
			}
		}
	}

	return ordered
}

func swapToBefore(ordered []*SystemRegistration, i, j int) []*SystemRegistration {
	item := ordered[i]
	ordered = append(ordered[:i], ordered[i+1:]...)
	ordered = append(ordered[:j], append([]*SystemRegistration{item}, ordered[j:]...)...)
	return ordered
}

func rebuildIndex(ordered []*SystemRegistration, byName map[string]int) {
	for i, reg := range ordered {
		if reg.Name != "" {
			byName[reg.Name] = i
		}
	}
}
