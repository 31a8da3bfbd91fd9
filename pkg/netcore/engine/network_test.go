package engine

import (
	"testing"

	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/config"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
	"github.com/kaelstrand/netplay/pkg/netcore/mocktransport"
	"github.com/kaelstrand/netplay/pkg/netcore/proto"
)

func TestServerNetworkAttachesAndReportsRole(t *testing.T) {
	world := hostecs.NewWorld()
	tr := mocktransport.NewServer()
	if err := tr.Listen(0, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n := NewServerNetwork(world, world, tr, config.DefaultNetworkConfig())
	if !n.IsServer() || n.IsClient() {
		t.Fatal("expected server role")
	}
	if !n.IsConnected() {
		t.Fatal("expected a server instance to report connected")
	}

	api, ok := world.GetAPI(APIName)
	if !ok || api != n {
		t.Fatal("expected the network façade to be attached under APIName")
	}
}

func TestClientNetworkWrongRoleCallsFailWithoutMutation(t *testing.T) {
	world := hostecs.NewWorld()
	mockClient, _, err := mocktransport.NewPair()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n := NewClientNetwork(world, world, mockClient, config.DefaultNetworkConfig())
	if !n.IsClient() || n.IsServer() {
		t.Fatal("expected client role")
	}

	if err := n.Listen(0, ""); err != ErrWrongRole {
		t.Fatalf("expected ErrWrongRole from Listen, got %v", err)
	}
	if err := n.Close(); err != ErrWrongRole {
		t.Fatalf("expected ErrWrongRole from Close, got %v", err)
	}
	if _, err := n.GetConnectedClients(); err != ErrWrongRole {
		t.Fatalf("expected ErrWrongRole from GetConnectedClients, got %v", err)
	}
	if err := n.KickClient("conn-1", ""); err != ErrWrongRole {
		t.Fatalf("expected ErrWrongRole from KickClient, got %v", err)
	}
}

func TestServerNetworkWrongRoleCallsFail(t *testing.T) {
	world := hostecs.NewWorld()
	tr := mocktransport.NewServer()
	if err := tr.Listen(0, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := NewServerNetwork(world, world, tr, config.DefaultNetworkConfig())

	if err := n.Connect("mock://x", "Alice"); err != ErrWrongRole {
		t.Fatalf("expected ErrWrongRole from Connect, got %v", err)
	}
	if err := n.Disconnect(); err != ErrWrongRole {
		t.Fatalf("expected ErrWrongRole from Disconnect, got %v", err)
	}
	if err := n.SetInput(components.InputPatch{}); err != ErrWrongRole {
		t.Fatalf("expected ErrWrongRole from SetInput, got %v", err)
	}
	if _, ok := n.GetLocalPlayer(); ok {
		t.Fatal("expected no local player on a server-mode network")
	}
}

func TestServerNetworkCreateAndDestroyEntity(t *testing.T) {
	world := hostecs.NewWorld()
	tr := mocktransport.NewServer()
	if err := tr.Listen(0, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := NewServerNetwork(world, world, tr, config.DefaultNetworkConfig())

	client, err := tr.Dial()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sawSpawn, sawDestroy bool
	client.OnMessage(func(raw []byte) {
		typ, _, _ := proto.Decode(raw)
		switch typ {
		case proto.TypeEntitySpawn:
			sawSpawn = true
		case proto.TypeEntityDestroy:
			sawDestroy = true
		}
	})

	e, err := n.CreateNetworkEntity(components.SpawnOptions{EntityType: "crate"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sawSpawn {
		t.Fatal("expected entity_spawn broadcast")
	}

	found, ok := n.GetNetworkEntity(networkIDOfForTest(world, e))
	if !ok || found != e {
		t.Fatal("expected to resolve the created entity")
	}

	n.DestroyNetworkEntity(networkIDOfForTest(world, e))
	if !sawDestroy {
		t.Fatal("expected entity_destroy broadcast")
	}
}

func networkIDOfForTest(world hostecs.EntityStore, e hostecs.Entity) string {
	raw, ok := world.GetComponent(e, (components.NetworkID{}).Type())
	if !ok {
		return ""
	}
	return raw.(components.NetworkID).EntityID
}
