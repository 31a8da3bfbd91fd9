package simulate

import (
	"testing"

	"github.com/kaelstrand/netplay/pkg/netcore/components"
)

func TestIntegrateAdvancesPosition(t *testing.T) {
	bounds := DefaultWorldBounds()
	pos := components.Vector2{X: 100, Y: 100}
	move := components.Vector2{X: 1, Y: 0}

	next, vel := Integrate(pos, move, DefaultMoveSpeed, 0.5, bounds)

	if vel != (components.Vector2{X: 200, Y: 0}) {
		t.Fatalf("expected velocity {200 0}, got %+v", vel)
	}
	if next != (components.Vector2{X: 200, Y: 100}) {
		t.Fatalf("expected position {200 100}, got %+v", next)
	}
}

func TestIntegrateClampsToBounds(t *testing.T) {
	bounds := WorldBounds{MinX: 0, MinY: 0, MaxX: 800, MaxY: 600}
	pos := components.Vector2{X: 790, Y: 590}
	move := components.Vector2{X: 1, Y: 1}

	next, _ := Integrate(pos, move, DefaultMoveSpeed, 1, bounds)

	if next.X != 800 || next.Y != 600 {
		t.Fatalf("expected clamped to bounds, got %+v", next)
	}
}

func TestIntegrateZeroMoveHoldsPosition(t *testing.T) {
	bounds := DefaultWorldBounds()
	pos := components.Vector2{X: 50, Y: 50}

	next, vel := Integrate(pos, components.Vector2{}, DefaultMoveSpeed, 1, bounds)

	if next != pos {
		t.Fatalf("expected unchanged position, got %+v", next)
	}
	if vel != (components.Vector2{}) {
		t.Fatalf("expected zero velocity, got %+v", vel)
	}
}
