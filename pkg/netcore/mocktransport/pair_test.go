package mocktransport

import (
	"testing"

	"github.com/kaelstrand/netplay/pkg/netcore/transport"
)

func TestNewPairConnectsImmediately(t *testing.T) {
	client, srv, err := NewPair()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(srv.ConnectedClients()) != 1 {
		t.Fatalf("expected 1 connected client, got %d", len(srv.ConnectedClients()))
	}
	if err := client.Send([]byte("hello")); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
}

func TestServerDialBeforeListenFails(t *testing.T) {
	srv := NewServer()
	if _, err := srv.Dial(); err != transport.ErrNotListening {
		t.Fatalf("expected ErrNotListening, got %v", err)
	}
}

func TestListenTwiceFails(t *testing.T) {
	srv := NewServer()
	if err := srv.Listen(0, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := srv.Listen(0, ""); err != transport.ErrAlreadyListening {
		t.Fatalf("expected ErrAlreadyListening, got %v", err)
	}
}

func TestClientToServerDelivery(t *testing.T) {
	client, srv, err := NewPair()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var gotID transport.ConnectionID
	var gotMsg []byte
	srv.OnMessage(func(id transport.ConnectionID, raw []byte) {
		gotID = id
		gotMsg = raw
	})

	if err := client.Send([]byte("ping")); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	if string(gotMsg) != "ping" {
		t.Fatalf("expected %q, got %q", "ping", gotMsg)
	}
	if gotID == "" {
		t.Fatal("expected non-empty connection id")
	}
}

func TestServerToClientSend(t *testing.T) {
	client, srv, err := NewPair()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []byte
	client.OnMessage(func(raw []byte) { got = raw })

	ids := srv.ConnectedClients()
	if len(ids) != 1 {
		t.Fatalf("expected 1 client, got %d", len(ids))
	}
	if err := srv.Send(ids[0], []byte("world_snapshot")); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	if string(got) != "world_snapshot" {
		t.Fatalf("expected %q, got %q", "world_snapshot", got)
	}
}

func TestBroadcastExcept(t *testing.T) {
	srv := NewServer()
	if err := srv.Listen(0, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, err := srv.Dial()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := srv.Dial()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var aGot, bGot bool
	a.OnMessage(func(raw []byte) { aGot = true })
	b.OnMessage(func(raw []byte) { bGot = true })

	ids := srv.ConnectedClients()
	var excludeID transport.ConnectionID
	for _, id := range ids {
		excludeID = id
		break
	}
	srv.BroadcastExcept(excludeID, []byte("x"))

	if aGot && bGot {
		t.Fatal("expected exactly one client to receive the broadcast")
	}
	if !aGot && !bGot {
		t.Fatal("expected one client to receive the broadcast")
	}
}

func TestDisconnectClientFiresBothSides(t *testing.T) {
	client, srv, err := NewPair()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var clientDisconnected bool
	var serverSawDisconnect bool
	client.OnDisconnect(func(reason string) { clientDisconnected = true })
	srv.OnDisconnect(func(id transport.ConnectionID, reason string) { serverSawDisconnect = true })

	ids := srv.ConnectedClients()
	if err := srv.DisconnectClient(ids[0], "kicked"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !clientDisconnected || !serverSawDisconnect {
		t.Fatal("expected both sides to observe disconnection")
	}
	if err := client.Send([]byte("x")); err != transport.ErrNotConnected {
		t.Fatalf("expected ErrNotConnected after disconnect, got %v", err)
	}
	if len(srv.ConnectedClients()) != 0 {
		t.Fatal("expected server to have removed the disconnected client")
	}
}

func TestSendToUnknownConnectionFails(t *testing.T) {
	srv := NewServer()
	if err := srv.Listen(0, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := srv.Send("bogus", []byte("x")); err != transport.ErrUnknownConnection {
		t.Fatalf("expected ErrUnknownConnection, got %v", err)
	}
}

func TestLatencyAndTimeOffsetSettable(t *testing.T) {
	client, _, err := NewPair()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.SetLatencyMillis(42)
	client.SetServerTimeOffsetMillis(-7)
	if got := client.LatencyMillis(); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := client.ServerTimeOffsetMillis(); got != -7 {
		t.Fatalf("expected -7, got %d", got)
	}
}
