package components

// InterpSnapshot is one buffered sample of a remote entity's state at a
// point in time, as reported by a world_snapshot.
type InterpSnapshot struct {
	Position  Vector2
	Velocity  *Vector2
	Timestamp int64
	Tick      uint64
}

// InterpolationBuffer holds the recent history of a remote entity's
// reported state, in non-decreasing Timestamp order, for the client's
// render-time interpolation lookup. The buffer drops its oldest entry
// once it exceeds MaxSnapshots.
type InterpolationBuffer struct {
	entries      []InterpSnapshot
	maxSnapshots int
	delayMs      int64
}

// NewInterpolationBuffer creates an empty buffer retaining at most
// maxSnapshots entries, rendering delayMs behind wall time.
func NewInterpolationBuffer(maxSnapshots int, delayMs int64) *InterpolationBuffer {
	return &InterpolationBuffer{maxSnapshots: maxSnapshots, delayMs: delayMs}
}

// Type implements hostecs.Component.
func (*InterpolationBuffer) Type() string { return "InterpolationBuffer" }

// Append records snap, dropping the oldest entry if the buffer is full.
func (b *InterpolationBuffer) Append(snap InterpSnapshot) {
	b.entries = append(b.entries, snap)
	if b.maxSnapshots > 0 && len(b.entries) > b.maxSnapshots {
		b.entries = b.entries[len(b.entries)-b.maxSnapshots:]
	}
}

// Snapshots returns a copy of the buffered entries, oldest first.
func (b *InterpolationBuffer) Snapshots() []InterpSnapshot {
	out := make([]InterpSnapshot, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of buffered snapshots.
func (b *InterpolationBuffer) Len() int { return len(b.entries) }

// DelayMillis returns the render-time delay this buffer was created with.
func (b *InterpolationBuffer) DelayMillis() int64 { return b.delayMs }
