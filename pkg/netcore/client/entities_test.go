package client

import (
	"testing"

	"github.com/kaelstrand/netplay/pkg/netcore/components"
)

func TestCreateNetworkEntityLocalTracksByID(t *testing.T) {
	cl, world, _, _ := newJoinedClient(t, "local-1")

	pos := components.Vector2{X: 5, Y: 6}
	e, err := cl.CreateNetworkEntity(components.SpawnOptions{EntityType: "effect", Position: &pos, Tags: []string{"vfx"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !world.HasTag(e, "vfx") {
		t.Fatal("expected tag to be applied")
	}

	idRaw, ok := world.GetComponent(e, (components.NetworkID{}).Type())
	if !ok {
		t.Fatal("expected NetworkID component")
	}
	id := idRaw.(components.NetworkID).EntityID

	found, ok := cl.GetNetworkEntity(id)
	if !ok || found != e {
		t.Fatal("expected to resolve the created entity by its generated id")
	}

	cl.DestroyNetworkEntity(id)
	if world.Exists(e) {
		t.Fatal("expected entity to be destroyed")
	}
}

func TestCreateNetworkEntityRequiresEntityType(t *testing.T) {
	cl, _, _, _ := newJoinedClient(t, "local-1")
	if _, err := cl.CreateNetworkEntity(components.SpawnOptions{}); err == nil {
		t.Fatal("expected an error for a missing entity_type")
	}
}
