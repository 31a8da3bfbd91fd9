package components

import "testing"

func TestInterpolationBufferAppendAndDrop(t *testing.T) {
	b := NewInterpolationBuffer(2, 100)
	b.Append(InterpSnapshot{Timestamp: 1})
	b.Append(InterpSnapshot{Timestamp: 2})
	b.Append(InterpSnapshot{Timestamp: 3})

	snaps := b.Snapshots()
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].Timestamp != 2 || snaps[1].Timestamp != 3 {
		t.Fatalf("expected oldest dropped, got %+v", snaps)
	}
}

func TestInterpolationBufferDelayMillis(t *testing.T) {
	b := NewInterpolationBuffer(10, 150)
	if b.DelayMillis() != 150 {
		t.Fatalf("expected 150, got %d", b.DelayMillis())
	}
}

func TestInterpolationBufferSnapshotsIsCopy(t *testing.T) {
	b := NewInterpolationBuffer(10, 100)
	b.Append(InterpSnapshot{Timestamp: 1})
	snaps := b.Snapshots()
	snaps[0].Timestamp = 999
	if b.Snapshots()[0].Timestamp != 1 {
		t.Fatal("expected Snapshots to return an independent copy")
	}
}
