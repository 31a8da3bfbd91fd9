package client

import (
	"testing"

	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/config"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
	"github.com/kaelstrand/netplay/pkg/netcore/mocktransport"
	"github.com/kaelstrand/netplay/pkg/netcore/proto"
	"github.com/kaelstrand/netplay/pkg/netcore/transport"
)

// newJoinedClient builds a Client over a mock transport pair already wired
// to a server stub that accepts the join and assigns networkEntityID to
// the joining connection. It drives the handshake the same way a real
// transport would once dialed (handleTransportConnect sends join), without
// going through Client.Connect/Transport.Connect: the mock transport's
// Client is always already connected, since pairing happens via
// Server.Dial rather than a deferred dial, so there is no separate
// "connect" edge for it to fire.
func newJoinedClient(t *testing.T, networkEntityID string) (*Client, *hostecs.World, *mocktransport.Client, *mocktransport.Server) {
	t.Helper()
	return newJoinedClientWithConfig(t, networkEntityID, config.DefaultNetworkConfig())
}

func newJoinedClientWithConfig(t *testing.T, networkEntityID string, cfg config.NetworkConfig) (*Client, *hostecs.World, *mocktransport.Client, *mocktransport.Server) {
	t.Helper()
	world := hostecs.NewWorld()
	mockClient, srv, err := mocktransport.NewPair()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	srv.OnMessage(func(id transport.ConnectionID, raw []byte) {
		typ, _, err := proto.Decode(raw)
		if err != nil || typ != proto.TypeJoin {
			return
		}
		accepted, _ := proto.Encode(proto.TypeJoinAccepted, proto.JoinAcceptedMessage{
			Timestamp:       1,
			ClientID:        string(id),
			NetworkEntityID: networkEntityID,
			ServerConfig:    map[string]any{"tick_rate": float64(20)},
		})
		srv.Send(id, accepted)
	})

	cl := NewClient(world, world, mockClient, cfg)
	cl.mu.Lock()
	cl.state = StateConnecting
	cl.playerNameOnConnect = "Alice"
	cl.mu.Unlock()
	cl.handleTransportConnect()

	if !cl.IsConnected() {
		t.Fatal("expected client to be connected after join_accepted")
	}
	return cl, world, mockClient, srv
}

func TestJoinAcceptedTransitionsToConnected(t *testing.T) {
	cl, _, _, _ := newJoinedClient(t, "entity-1")
	if cl.JoinRejectedReason() != "" {
		t.Fatalf("expected no rejection reason, got %q", cl.JoinRejectedReason())
	}
	if _, ok := cl.LocalPlayerEntity(); ok {
		t.Fatal("expected no local player entity until a snapshot names it")
	}
	if rate := cl.ServerConfig()["tick_rate"]; rate != float64(20) {
		t.Fatalf("expected server_config.tick_rate=20, got %v", cl.ServerConfig())
	}
}

func TestConnectGuardsAgainstDoubleConnect(t *testing.T) {
	world := hostecs.NewWorld()
	mockClient, _, err := mocktransport.NewPair()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cl := NewClient(world, world, mockClient, config.DefaultNetworkConfig())

	cl.mu.Lock()
	cl.state = StateConnecting
	cl.mu.Unlock()

	if err := cl.Connect("mock://server", "Alice"); err != ErrAlreadyConnecting {
		t.Fatalf("expected ErrAlreadyConnecting, got %v", err)
	}
}

func TestJoinRejectedDisconnects(t *testing.T) {
	world := hostecs.NewWorld()
	mockClient, srv, err := mocktransport.NewPair()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	srv.OnMessage(func(id transport.ConnectionID, raw []byte) {
		typ, _, _ := proto.Decode(raw)
		if typ != proto.TypeJoin {
			return
		}
		rejected, _ := proto.Encode(proto.TypeJoinRejected, proto.JoinRejectedMessage{Timestamp: 1, Reason: "server full"})
		srv.Send(id, rejected)
	})

	cl := NewClient(world, world, mockClient, config.DefaultNetworkConfig())
	cl.mu.Lock()
	cl.state = StateConnecting
	cl.playerNameOnConnect = "Alice"
	cl.mu.Unlock()
	cl.handleTransportConnect()

	if cl.IsConnected() {
		t.Fatal("expected client to not be connected after rejection")
	}
	if cl.JoinRejectedReason() != "server full" {
		t.Fatalf("expected reason %q, got %q", "server full", cl.JoinRejectedReason())
	}
}

func TestWorldSnapshotMaterializesLocalPlayerOnce(t *testing.T) {
	cl, world, _, srv := newJoinedClient(t, "local-1")

	snapshot, _ := proto.Encode(proto.TypeWorldSnapshot, proto.WorldSnapshotMessage{
		Timestamp: 1000,
		Tick:      1,
		Entities: []proto.SerializedEntity{
			{NetworkEntityID: "local-1", EntityType: "player", Position: &proto.Vec2{X: 10, Y: 20}},
		},
	})
	srv.Broadcast(snapshot)

	e, ok := cl.LocalPlayerEntity()
	if !ok {
		t.Fatal("expected local player entity to be materialized")
	}
	posRaw, _ := world.GetComponent(e, (components.NetworkPosition{}).Type())
	pos := posRaw.(components.NetworkPosition)
	if pos.X != 10 || pos.Y != 20 {
		t.Fatalf("expected spawn position (10,20), got (%v,%v)", pos.X, pos.Y)
	}

	// Move the entity locally (as prediction would), then feed a second
	// snapshot naming the same local entity: it must not be overwritten.
	world.AddComponent(e, components.NetworkPosition{X: 123, Y: 456})

	snapshot2, _ := proto.Encode(proto.TypeWorldSnapshot, proto.WorldSnapshotMessage{
		Timestamp: 2000,
		Tick:      2,
		Entities: []proto.SerializedEntity{
			{NetworkEntityID: "local-1", EntityType: "player", Position: &proto.Vec2{X: 10, Y: 20}},
		},
	})
	srv.Broadcast(snapshot2)

	posRaw2, _ := world.GetComponent(e, (components.NetworkPosition{}).Type())
	pos2 := posRaw2.(components.NetworkPosition)
	if pos2.X != 123 || pos2.Y != 456 {
		t.Fatalf("expected local position to be left alone at (123,456), got (%v,%v)", pos2.X, pos2.Y)
	}
}

func TestWorldSnapshotMaterializesRemoteEntityWithInterpolationBuffer(t *testing.T) {
	cl, world, _, srv := newJoinedClient(t, "local-1")

	snapshot, _ := proto.Encode(proto.TypeWorldSnapshot, proto.WorldSnapshotMessage{
		Timestamp: 1000,
		Tick:      1,
		Entities: []proto.SerializedEntity{
			{NetworkEntityID: "remote-1", EntityType: "player", OwnerID: "other-client", Position: &proto.Vec2{X: 50, Y: 60}},
		},
	})
	srv.Broadcast(snapshot)

	e, ok := cl.GetNetworkEntity("remote-1")
	if !ok {
		t.Fatal("expected remote entity to be materialized")
	}
	if !world.HasComponent(e, (components.RemotePlayer{}).Type()) {
		t.Fatal("expected remote entity to carry RemotePlayer")
	}
	bufRaw, ok := world.GetComponent(e, (&components.InterpolationBuffer{}).Type())
	if !ok {
		t.Fatal("expected remote entity to carry an InterpolationBuffer")
	}
	buf := bufRaw.(*components.InterpolationBuffer)
	if buf.Len() != 1 {
		t.Fatalf("expected 1 buffered snapshot, got %d", buf.Len())
	}
}

func broadcastTwoRemoteSnapshots(t *testing.T, srv *mocktransport.Server) {
	t.Helper()
	first, _ := proto.Encode(proto.TypeWorldSnapshot, proto.WorldSnapshotMessage{
		Timestamp: 1000,
		Tick:      1,
		Entities: []proto.SerializedEntity{
			{NetworkEntityID: "remote-1", EntityType: "player", OwnerID: "other-client", Position: &proto.Vec2{X: 0, Y: 0}},
		},
	})
	srv.Broadcast(first)
	second, _ := proto.Encode(proto.TypeWorldSnapshot, proto.WorldSnapshotMessage{
		Timestamp: 2000,
		Tick:      2,
		Entities: []proto.SerializedEntity{
			{NetworkEntityID: "remote-1", EntityType: "player", OwnerID: "other-client", Position: &proto.Vec2{X: 100, Y: 100}},
		},
	})
	srv.Broadcast(second)
}

func TestInterpolationSystemWritesPositionWhenEnabled(t *testing.T) {
	cl, world, _, srv := newJoinedClient(t, "local-1")
	broadcastTwoRemoteSnapshots(t, srv)

	e, ok := cl.GetNetworkEntity("remote-1")
	if !ok {
		t.Fatal("expected remote entity to be materialized")
	}
	world.Update(cl.cfg.ClientTickInterval().Seconds())

	posRaw, _ := world.GetComponent(e, (components.NetworkPosition{}).Type())
	pos := posRaw.(components.NetworkPosition)
	if pos.X == 0 {
		t.Fatalf("expected interpolation to move NetworkPosition off the first snapshot when enabled, got %v", pos)
	}
}

func TestInterpolationSystemSkippedWhenDisabled(t *testing.T) {
	cfg := config.DefaultNetworkConfig()
	cfg.EnableInterpolation = false
	cl, world, _, srv := newJoinedClientWithConfig(t, "local-1", cfg)
	broadcastTwoRemoteSnapshots(t, srv)

	e, ok := cl.GetNetworkEntity("remote-1")
	if !ok {
		t.Fatal("expected remote entity to be materialized")
	}
	world.Update(cl.cfg.ClientTickInterval().Seconds())

	posRaw, _ := world.GetComponent(e, (components.NetworkPosition{}).Type())
	pos := posRaw.(components.NetworkPosition)
	if pos.X != 0 {
		t.Fatalf("expected NetworkPosition to stay at the materialized value when EnableInterpolation is false, got %v", pos)
	}
}

func TestRemovedEntityIDsDestroyEntity(t *testing.T) {
	cl, world, _, srv := newJoinedClient(t, "local-1")

	snapshot, _ := proto.Encode(proto.TypeWorldSnapshot, proto.WorldSnapshotMessage{
		Timestamp: 1000,
		Tick:      1,
		Entities: []proto.SerializedEntity{
			{NetworkEntityID: "remote-1", EntityType: "player", OwnerID: "other-client", Position: &proto.Vec2{X: 50, Y: 60}},
		},
	})
	srv.Broadcast(snapshot)

	e, ok := cl.GetNetworkEntity("remote-1")
	if !ok {
		t.Fatal("expected remote entity to exist")
	}

	removal, _ := proto.Encode(proto.TypeWorldSnapshot, proto.WorldSnapshotMessage{
		Timestamp:        2000,
		Tick:             2,
		RemovedEntityIDs: []string{"remote-1"},
	})
	srv.Broadcast(removal)

	if world.Exists(e) {
		t.Fatal("expected removed entity to be destroyed")
	}
	if _, ok := cl.GetNetworkEntity("remote-1"); ok {
		t.Fatal("expected network id mapping to be cleared after destroy")
	}
}

func TestPredictionIntegratesLocalPlayerPosition(t *testing.T) {
	cl, world, _, srv := newJoinedClient(t, "local-1")

	snapshot, _ := proto.Encode(proto.TypeWorldSnapshot, proto.WorldSnapshotMessage{
		Timestamp: 1000,
		Tick:      1,
		Entities: []proto.SerializedEntity{
			{NetworkEntityID: "local-1", EntityType: "player", Position: &proto.Vec2{X: 10, Y: 20}},
		},
	})
	srv.Broadcast(snapshot)

	e, _ := cl.LocalPlayerEntity()
	cl.SetInput(components.InputPatch{MoveX: f64p(1)})
	world.FixedStep(cl.cfg.ClientTickInterval().Seconds())

	posRaw, _ := world.GetComponent(e, (components.NetworkPosition{}).Type())
	pos := posRaw.(components.NetworkPosition)
	if pos.X <= 10 {
		t.Fatalf("expected position to advance past initial spawn x=10, got %v", pos.X)
	}
}

func TestSendSystemSkipsDefaultInputAndSendsNonDefault(t *testing.T) {
	cl, world, _, srv := newJoinedClient(t, "local-1")

	snapshot, _ := proto.Encode(proto.TypeWorldSnapshot, proto.WorldSnapshotMessage{
		Timestamp: 1000,
		Tick:      1,
		Entities: []proto.SerializedEntity{
			{NetworkEntityID: "local-1", EntityType: "player", Position: &proto.Vec2{X: 10, Y: 20}},
		},
	})
	srv.Broadcast(snapshot)

	var seenInput bool
	srv.OnMessage(func(id transport.ConnectionID, raw []byte) {
		typ, _, _ := proto.Decode(raw)
		if typ == proto.TypeInput {
			seenInput = true
		}
	})

	world.FixedStep(cl.cfg.ClientTickInterval().Seconds())
	if seenInput {
		t.Fatal("unexpected input message for default (zero) input")
	}

	cl.SetInput(components.InputPatch{MoveX: f64p(1)})
	world.FixedStep(cl.cfg.ClientTickInterval().Seconds())
	if !seenInput {
		t.Fatal("expected an input message once input became non-default")
	}
}

func TestInputAckReconciliationReplaysUnackedTail(t *testing.T) {
	cl, world, _, srv := newJoinedClient(t, "local-1")

	snapshot, _ := proto.Encode(proto.TypeWorldSnapshot, proto.WorldSnapshotMessage{
		Timestamp: 1000,
		Tick:      1,
		Entities: []proto.SerializedEntity{
			{NetworkEntityID: "local-1", EntityType: "player", Position: &proto.Vec2{X: 10, Y: 20}},
		},
	})
	srv.Broadcast(snapshot)

	var lastSequence uint64
	srv.OnMessage(func(id transport.ConnectionID, raw []byte) {
		typ, msg, _ := proto.Decode(raw)
		if typ == proto.TypeInput {
			lastSequence = msg.(proto.InputMessage).Sequence
		}
	})

	cl.SetInput(components.InputPatch{MoveX: f64p(1)})
	world.FixedStep(cl.cfg.ClientTickInterval().Seconds())
	world.FixedStep(cl.cfg.ClientTickInterval().Seconds())

	e, _ := cl.LocalPlayerEntity()
	posBeforeAckRaw, _ := world.GetComponent(e, (components.NetworkPosition{}).Type())
	posBeforeAck := posBeforeAckRaw.(components.NetworkPosition)

	// Server acknowledges a divergent authoritative position; reconciliation
	// must snap to it and replay the still-unacked tail back out from there.
	ack, _ := proto.Encode(proto.TypeInputAck, proto.InputAckMessage{
		Timestamp:  3000,
		Sequence:   lastSequence,
		Position:   proto.Vec2{X: 500, Y: 500},
		ServerTick: 1,
	})
	srv.Send(serverConnIDFor(srv), ack)

	posAfterAckRaw, _ := world.GetComponent(e, (components.NetworkPosition{}).Type())
	posAfterAck := posAfterAckRaw.(components.NetworkPosition)
	if posAfterAck.X == posBeforeAck.X && posAfterAck.Y == posBeforeAck.Y {
		t.Fatal("expected reconciliation to change the predicted position")
	}
	if posAfterAck.X < 500 {
		t.Fatalf("expected reconciled position to start from the acked server position 500, got %v", posAfterAck.X)
	}
}

// serverConnIDFor returns the single connected client id tracked by srv,
// for tests with exactly one connection.
func serverConnIDFor(srv *mocktransport.Server) transport.ConnectionID {
	ids := srv.ConnectedClients()
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

func TestSetInputNoopBeforeLocalPlayerMaterializes(t *testing.T) {
	cl, _, _, _ := newJoinedClient(t, "local-1")
	// No snapshot has been delivered yet, so the local player entity does
	// not exist; SetInput must not panic.
	cl.SetInput(components.InputPatch{MoveX: f64p(1)})
}

func TestInterpolatePositionCases(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if _, ok := InterpolatePosition(nil, 1000); ok {
			t.Fatal("expected no position from an empty buffer")
		}
	})

	t.Run("single snapshot returns that position", func(t *testing.T) {
		snaps := []components.InterpSnapshot{{Position: components.Vector2{X: 1, Y: 2}, Timestamp: 1000}}
		pos, ok := InterpolatePosition(snaps, 2000)
		if !ok || pos.X != 1 || pos.Y != 2 {
			t.Fatalf("expected (1,2), got %v ok=%v", pos, ok)
		}
	})

	t.Run("bracketed interpolates at midpoint", func(t *testing.T) {
		snaps := []components.InterpSnapshot{
			{Position: components.Vector2{X: 0, Y: 0}, Timestamp: 1000},
			{Position: components.Vector2{X: 10, Y: 0}, Timestamp: 2000},
		}
		pos, ok := InterpolatePosition(snaps, 1500)
		if !ok || pos.X != 5 {
			t.Fatalf("expected x=5 at midpoint, got %v ok=%v", pos, ok)
		}
	})

	t.Run("past latest extrapolates using stored velocity", func(t *testing.T) {
		vel := components.Vector2{X: 10, Y: 0}
		snaps := []components.InterpSnapshot{
			{Position: components.Vector2{X: 0, Y: 0}, Timestamp: 1000},
			{Position: components.Vector2{X: 5, Y: 0}, Velocity: &vel, Timestamp: 2000},
		}
		pos, ok := InterpolatePosition(snaps, 2500)
		if !ok || pos.X != 10 {
			t.Fatalf("expected extrapolated x=10, got %v ok=%v", pos, ok)
		}
	})

	t.Run("before oldest clamps to first snapshot", func(t *testing.T) {
		snaps := []components.InterpSnapshot{
			{Position: components.Vector2{X: 0, Y: 0}, Timestamp: 1000},
			{Position: components.Vector2{X: 10, Y: 0}, Timestamp: 2000},
		}
		pos, ok := InterpolatePosition(snaps, 500)
		if !ok || pos.X != 0 {
			t.Fatalf("expected clamp to first snapshot x=0, got %v ok=%v", pos, ok)
		}
	})
}

func f64p(v float64) *float64 { return &v }
