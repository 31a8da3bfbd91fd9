package client

import (
	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
	"github.com/kaelstrand/netplay/pkg/netcore/proto"
	"github.com/kaelstrand/netplay/pkg/netcore/simulate"
)

// handleInputAck updates ServerState from an acknowledgment and, when
// reconciliation is enabled, snaps the local entity to the authoritative
// state and replays any unacked tail with the same integration rule
// prediction uses, per §4.4.
func (c *Client) handleInputAck(msg proto.InputAckMessage) {
	c.mu.RLock()
	e, ok := c.localPlayerEntity, c.hasLocalPlayer
	c.mu.RUnlock()
	if !ok {
		return
	}

	stateRaw, ok := c.world.GetComponent(e, (components.ServerState{}).Type())
	if !ok {
		return
	}
	state := stateRaw.(components.ServerState)

	state.LastAckSequence = msg.Sequence
	state.ServerPosition = components.Vector2{X: msg.Position.X, Y: msg.Position.Y}
	if msg.Velocity != nil {
		state.ServerVelocity = components.Vector2{X: msg.Velocity.X, Y: msg.Velocity.Y}
	}
	state.ServerTick = msg.ServerTick
	state.LastUpdateTime = msg.Timestamp
	c.world.AddComponent(e, state)

	bufRaw, ok := c.world.GetComponent(e, (&components.InputBuffer{}).Type())
	if !ok {
		return
	}
	buf := bufRaw.(*components.InputBuffer)
	buf.Acknowledge(msg.Sequence)

	if !c.cfg.EnableReconciliation {
		return
	}
	c.replay(e, state, buf.UnacknowledgedTail())
}

// replay snaps position/velocity to the acked server state, then
// integrates each unacknowledged buffered input in sequence order using
// the same Integrate call the prediction system uses.
func (c *Client) replay(e hostecs.Entity, state components.ServerState, tail []components.SequencedInput) {
	dt := c.cfg.ClientTickInterval().Seconds()

	pos := state.ServerPosition
	vel := state.ServerVelocity
	for _, entry := range tail {
		move := components.Vector2{X: entry.Input.MoveX, Y: entry.Input.MoveY}
		pos, vel = simulate.Integrate(pos, move, c.moveSpeed, dt, c.bounds)
	}

	c.world.AddComponent(e, components.NetworkPosition{X: pos.X, Y: pos.Y})
	c.world.AddComponent(e, components.NetworkVelocity{X: vel.X, Y: vel.Y})
}
