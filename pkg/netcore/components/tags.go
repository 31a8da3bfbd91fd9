package components

// LocalPlayer tags the networked entity that represents this process's
// own player. Exactly one entity carries LocalPlayer or RemotePlayer (or
// neither, for a server-owned non-player entity) per networked entity on
// the client.
type LocalPlayer struct {
	ClientID string
}

// Type implements hostecs.Component.
func (LocalPlayer) Type() string { return "LocalPlayer" }

// RemotePlayer tags a networked entity owned by another client.
type RemotePlayer struct {
	ClientID string
}

// Type implements hostecs.Component.
func (RemotePlayer) Type() string { return "RemotePlayer" }
