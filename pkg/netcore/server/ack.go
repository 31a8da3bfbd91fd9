package server

import (
	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/proto"
	"github.com/kaelstrand/netplay/pkg/netcore/transport"
)

// handleInput applies an input sample to the sending client's entity and
// acknowledges it synchronously. Per §4.8: a client with no joined entity,
// or an out-of-order/duplicate sequence, is dropped silently — no ack is
// sent either way.
func (s *Server) handleInput(id transport.ConnectionID, msg proto.InputMessage) {
	s.mu.Lock()
	client, ok := s.clients[id]
	if !ok || !client.Joined {
		s.mu.Unlock()
		return
	}
	if client.HasInput && msg.Sequence <= client.LastInputSequence {
		s.mu.Unlock()
		return
	}
	entity := client.Entity
	s.mu.Unlock()

	raw, ok := s.world.GetComponent(entity, (&components.ClientInputState{}).Type())
	if !ok {
		return
	}
	state := raw.(*components.ClientInputState)

	sample := components.InputSample{
		MoveX:   msg.Inputs.MoveX,
		MoveY:   msg.Inputs.MoveY,
		AimX:    msg.Inputs.AimX,
		AimY:    msg.Inputs.AimY,
		Actions: msg.Inputs.Actions,
	}
	state.Apply(sample, msg.Sequence, msg.Timestamp)

	s.mu.Lock()
	client.LastInputTime = msg.Timestamp
	client.LastInputSequence = msg.Sequence
	client.HasInput = true
	tick := s.tickCounter
	s.mu.Unlock()

	posRaw, _ := s.world.GetComponent(entity, (components.NetworkPosition{}).Type())
	pos, _ := posRaw.(components.NetworkPosition)
	velRaw, _ := s.world.GetComponent(entity, (components.NetworkVelocity{}).Type())
	vel, _ := velRaw.(components.NetworkVelocity)

	ack, err := proto.Encode(proto.TypeInputAck, proto.InputAckMessage{
		Timestamp:  s.nowMillis(),
		Sequence:   msg.Sequence,
		Position:   proto.Vec2{X: pos.X, Y: pos.Y},
		Velocity:   &proto.Vec2{X: vel.X, Y: vel.Y},
		ServerTick: tick,
		ServerTime: s.nowMillis(),
	})
	if err != nil {
		s.log.WithError(err).Error("encode input_ack")
		return
	}
	if err := s.tr.Send(id, ack); err != nil {
		s.log.WithError(err).Warn("send input_ack")
	}
}
