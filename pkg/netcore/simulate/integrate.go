// Package simulate holds the single pure integration rule shared by every
// site that advances a networked entity's position: the client's
// prediction system, the client's reconciliation replay loop, and the
// server's input-processing system. Keeping one function means the
// client's predicted trajectory and the server's authoritative trajectory
// can never diverge due to a copy-paste drift in the math.
package simulate

import "github.com/kaelstrand/netplay/pkg/netcore/components"

// WorldBounds is the axis-aligned rectangle entity positions are clamped
// to. It is a tunable constant of the host integration, not a protocol
// invariant — hosts embedding this engine are free to use a different
// rectangle (or none) by supplying their own value instead of
// DefaultWorldBounds.
type WorldBounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// DefaultWorldBounds is the reference world rectangle, 800x600 units with
// the origin at the top-left corner.
func DefaultWorldBounds() WorldBounds {
	return WorldBounds{MinX: 0, MinY: 0, MaxX: 800, MaxY: 600}
}

// DefaultMoveSpeed is the reference movement speed in units/second applied
// to a unit-length move input.
const DefaultMoveSpeed = 200.0

// Integrate advances position one step: velocity is recomputed from move
// scaled by moveSpeed, then position is advanced by velocity*dt and
// clamped to bounds. It returns the new (position, velocity) pair and has
// no side effects, so it can be called identically during prediction,
// reconciliation replay, and server simulation.
func Integrate(pos, move components.Vector2, moveSpeed, dt float64, bounds WorldBounds) (components.Vector2, components.Vector2) {
	vel := move.Scale(moveSpeed)
	next := pos.Add(vel.Scale(dt)).Clamp(bounds.MinX, bounds.MinY, bounds.MaxX, bounds.MaxY)
	return next, vel
}
