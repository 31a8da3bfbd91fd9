package components

// ServerState mirrors the last authoritative state the client received
// for its local player via input_ack. It is written only from the ack
// path, never from world_snapshot — the local entity's position comes
// from prediction, reconciled against this state.
type ServerState struct {
	LastAckSequence uint64
	ServerPosition  Vector2
	ServerVelocity  Vector2
	ServerTick      uint64
	LastUpdateTime  int64
}

// Type implements hostecs.Component.
func (ServerState) Type() string { return "ServerState" }

// ClientInputState is the server's mirror of one client's most recently
// applied input, updated only by the session manager on a valid input
// message. LastSequence is monotonic per client.
type ClientInputState struct {
	MoveX, MoveY  float64
	AimX, AimY    float64
	Actions       map[string]bool
	LastSequence  uint64
	LastInputTime int64
}

// Type implements hostecs.Component.
func (*ClientInputState) Type() string { return "ClientInputState" }

// Apply assigns sample's fields and records sequence/timestamp. Callers
// must already have verified sequence > LastSequence.
func (c *ClientInputState) Apply(sample InputSample, sequence uint64, timestamp int64) {
	c.MoveX, c.MoveY = sample.MoveX, sample.MoveY
	c.AimX, c.AimY = sample.AimX, sample.AimY
	c.Actions = sample.Actions
	c.LastSequence = sequence
	c.LastInputTime = timestamp
}

// Move returns the movement axes as a Vector2.
func (c *ClientInputState) Move() Vector2 { return Vector2{X: c.MoveX, Y: c.MoveY} }
