package components

// NetworkID identifies a networked entity. EntityID is immutable once set
// and identical on the server and every client referring to the same
// entity. OwnerID is empty for server-owned, non-player entities.
type NetworkID struct {
	EntityID       string
	OwnerID        string
	EntityType     string
	Dirty          bool
	LastUpdateTick uint64
}

// Type implements hostecs.Component.
func (NetworkID) Type() string { return "NetworkID" }

// NetworkPosition is authoritative on the server; on the client it is
// predicted (local player) or interpolated (remote entities).
type NetworkPosition struct {
	X, Y float64
}

// Type implements hostecs.Component.
func (NetworkPosition) Type() string { return "NetworkPosition" }

// Vector returns the position as a Vector2.
func (p NetworkPosition) Vector() Vector2 { return Vector2{X: p.X, Y: p.Y} }

// NetworkVelocity is paired with NetworkPosition and updated under the
// same rules (authoritative on the server, predicted/interpolated on the
// client).
type NetworkVelocity struct {
	X, Y float64
}

// Type implements hostecs.Component.
func (NetworkVelocity) Type() string { return "NetworkVelocity" }

// Vector returns the velocity as a Vector2.
func (v NetworkVelocity) Vector() Vector2 { return Vector2{X: v.X, Y: v.Y} }
