package server

import (
	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
	"github.com/kaelstrand/netplay/pkg/netcore/proto"
	"github.com/kaelstrand/netplay/pkg/netcore/simulate"
)

// tickSystem increments the server's tick counter before any other
// per-tick system runs.
type tickSystem struct{ s *Server }

func (t tickSystem) Update(w hostecs.EntityStore, dt float64) {
	t.s.mu.Lock()
	t.s.tickCounter++
	t.s.mu.Unlock()
}

// inputProcessingSystem integrates every networked, client-controlled
// entity's position from its current input, per §4.9.
type inputProcessingSystem struct{ s *Server }

func (sys inputProcessingSystem) Update(w hostecs.EntityStore, dt float64) {
	s := sys.s
	inputType := (&components.ClientInputState{}).Type()
	posType := (components.NetworkPosition{}).Type()
	velType := (components.NetworkVelocity{}).Type()

	for _, e := range w.Query(posType, velType, inputType) {
		posRaw, _ := w.GetComponent(e, posType)
		pos := posRaw.(components.NetworkPosition)
		inputRaw, _ := w.GetComponent(e, inputType)
		input := inputRaw.(*components.ClientInputState)

		next, vel := simulate.Integrate(pos.Vector(), input.Move(), s.moveSpeed, dt, s.bounds)

		w.AddComponent(e, components.NetworkPosition{X: next.X, Y: next.Y})
		w.AddComponent(e, components.NetworkVelocity{X: vel.X, Y: vel.Y})
	}
}

// broadcastSystem sends a world_snapshot at most once per
// NetworkConfig.SnapshotInterval() (SnapshotRate times a second),
// throttled by wall clock.
type broadcastSystem struct{ s *Server }

func (sys broadcastSystem) Update(w hostecs.EntityStore, dt float64) {
	s := sys.s

	s.mu.Lock()
	now := s.now()
	interval := s.cfg.SnapshotInterval()
	due := now.Sub(s.lastSnapshotTime) >= interval
	if due {
		s.lastSnapshotTime = now
	}
	tick := s.tickCounter
	s.mu.Unlock()

	if !due {
		return
	}

	idType := (components.NetworkID{}).Type()
	entities := w.Query(idType)
	serialized := make([]proto.SerializedEntity, 0, len(entities))
	for _, e := range entities {
		serialized = append(serialized, serializeEntity(w, e))
	}

	msg, err := proto.Encode(proto.TypeWorldSnapshot, proto.WorldSnapshotMessage{
		Timestamp: now.UnixMilli(),
		Tick:      tick,
		Entities:  serialized,
	})
	if err != nil {
		s.log.WithError(err).Error("encode world_snapshot")
		return
	}
	s.tr.Broadcast(msg)
}
