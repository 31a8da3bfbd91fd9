package components

// InputSample is a point-in-time capture of a NetworkInput's fields, the
// shape carried in a SequencedInput and replayed during reconciliation.
type InputSample struct {
	MoveX, MoveY float64
	AimX, AimY   float64
	Actions      map[string]bool
}

// NetworkInput holds the client's locally captured control state.
// MoveX/MoveY are clamped to [-1, 1] on every assignment.
type NetworkInput struct {
	MoveX, MoveY float64
	AimX, AimY   float64
	Actions      map[string]bool
}

// Type implements hostecs.Component.
func (NetworkInput) Type() string { return "NetworkInput" }

// InputPatch carries a partial update to NetworkInput: nil pointer fields
// are left unchanged, and Actions entries are merged key by key rather
// than replacing the whole map.
type InputPatch struct {
	MoveX   *float64
	MoveY   *float64
	AimX    *float64
	AimY    *float64
	Actions map[string]bool
}

// Apply merges patch into n, clamping move axes to [-1, 1].
func (n *NetworkInput) Apply(patch InputPatch) {
	if patch.MoveX != nil {
		n.MoveX = clampFloat(*patch.MoveX, -1, 1)
	}
	if patch.MoveY != nil {
		n.MoveY = clampFloat(*patch.MoveY, -1, 1)
	}
	if patch.AimX != nil {
		n.AimX = *patch.AimX
	}
	if patch.AimY != nil {
		n.AimY = *patch.AimY
	}
	for action, pressed := range patch.Actions {
		if n.Actions == nil {
			n.Actions = make(map[string]bool)
		}
		n.Actions[action] = pressed
	}
}

// IsDefault reports whether the input holds no signal: no movement and no
// pressed actions. The send step skips emitting a message for default
// input frames.
func (n NetworkInput) IsDefault() bool {
	if n.MoveX != 0 || n.MoveY != 0 {
		return false
	}
	for _, pressed := range n.Actions {
		if pressed {
			return false
		}
	}
	return true
}

// Sample captures the current input state as an InputSample, copying the
// Actions map so later mutation of n does not alias the sample.
func (n NetworkInput) Sample() InputSample {
	var actions map[string]bool
	if len(n.Actions) > 0 {
		actions = make(map[string]bool, len(n.Actions))
		for k, v := range n.Actions {
			actions[k] = v
		}
	}
	return InputSample{MoveX: n.MoveX, MoveY: n.MoveY, AimX: n.AimX, AimY: n.AimY, Actions: actions}
}

// SequencedInput is one buffered input sample awaiting acknowledgment.
type SequencedInput struct {
	Sequence  uint64
	Input     InputSample
	Timestamp int64
	Applied   bool
}

// InputBuffer holds the client's unacknowledged input history. Sequences
// are strictly monotonically increasing; the buffer drops its oldest
// entry once it exceeds MaxSize.
type InputBuffer struct {
	entries           []SequencedInput
	nextSequence      uint64
	lastAckedSequence uint64
	hasAcked          bool
	maxSize           int
}

// NewInputBuffer creates an empty buffer retaining at most maxSize entries.
func NewInputBuffer(maxSize int) *InputBuffer {
	return &InputBuffer{maxSize: maxSize}
}

// Type implements hostecs.Component.
func (*InputBuffer) Type() string { return "InputBuffer" }

// Append records sample under a freshly allocated, monotonically
// increasing sequence number and returns the buffered entry.
func (b *InputBuffer) Append(sample InputSample, timestamp int64) SequencedInput {
	entry := SequencedInput{Sequence: b.nextSequence, Input: sample, Timestamp: timestamp}
	b.nextSequence++
	b.entries = append(b.entries, entry)
	if b.maxSize > 0 && len(b.entries) > b.maxSize {
		b.entries = b.entries[len(b.entries)-b.maxSize:]
	}
	return entry
}

// Acknowledge removes every buffered entry with Sequence <= seq and
// records seq as the last acknowledged sequence, if it is newer than the
// one currently recorded.
func (b *InputBuffer) Acknowledge(seq uint64) {
	if !b.hasAcked || seq > b.lastAckedSequence {
		b.lastAckedSequence = seq
		b.hasAcked = true
	}
	kept := b.entries[:0:0]
	for _, e := range b.entries {
		if e.Sequence > seq {
			kept = append(kept, e)
		}
	}
	b.entries = kept
}

// UnacknowledgedTail returns the entries remaining after the most recent
// Acknowledge call, oldest first.
func (b *InputBuffer) UnacknowledgedTail() []SequencedInput {
	out := make([]SequencedInput, len(b.entries))
	copy(out, b.entries)
	return out
}

// NextSequence returns the sequence number the next Append call will use.
func (b *InputBuffer) NextSequence() uint64 { return b.nextSequence }

// LastAckedSequence returns the most recently acknowledged sequence.
func (b *InputBuffer) LastAckedSequence() uint64 { return b.lastAckedSequence }

// Len returns the number of buffered, unacknowledged entries.
func (b *InputBuffer) Len() int { return len(b.entries) }
