// Package engine exposes the network core's server and client roles as a
// single façade an embedding host attaches to itself as a named API
// (conventionally "network"), matching the host ECS's extension-hook
// contract in pkg/netcore/hostecs. It never adds behavior of its own
// beyond routing to the active role and enforcing role exclusivity; all
// simulation, prediction, and reconciliation logic lives in
// pkg/netcore/server and pkg/netcore/client.
package engine

import (
	"errors"
	"time"

	"github.com/kaelstrand/netplay/pkg/netcore/client"
	"github.com/kaelstrand/netplay/pkg/netcore/components"
	"github.com/kaelstrand/netplay/pkg/netcore/config"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
	"github.com/kaelstrand/netplay/pkg/netcore/server"
	"github.com/kaelstrand/netplay/pkg/netcore/transport"
)

// ErrWrongRole is returned by any call that only makes sense for the
// opposite role (e.g. Listen on a client-mode Network). The call fails
// without mutating any state.
var ErrWrongRole = errors.New("engine: operation not valid for this network role")

// APIName is the conventional name a host attaches this façade under via
// hostecs.EntityStore.AttachAPI.
const APIName = "network"

// Network is the engine.network façade: exactly one of srv/cli is set,
// for the lifetime of the instance, satisfying role exclusivity.
type Network struct {
	srv *server.Server
	cli *client.Client
}

// NewServerNetwork constructs the server role and attaches itself to world
// under APIName.
func NewServerNetwork(world hostecs.EntityStore, scheduler hostecs.SystemScheduler, tr transport.ServerTransport, cfg config.NetworkConfig, opts ...server.Option) *Network {
	n := &Network{srv: server.NewServer(world, scheduler, tr, cfg, opts...)}
	world.AttachAPI(APIName, n)
	return n
}

// NewClientNetwork constructs the client role and attaches itself to world
// under APIName.
func NewClientNetwork(world hostecs.EntityStore, scheduler hostecs.SystemScheduler, tr transport.Transport, cfg config.NetworkConfig, opts ...client.Option) *Network {
	n := &Network{cli: client.NewClient(world, scheduler, tr, cfg, opts...)}
	world.AttachAPI(APIName, n)
	return n
}

// IsServer reports whether this instance holds the authoritative role.
func (n *Network) IsServer() bool { return n.srv != nil }

// IsClient reports whether this instance holds the predicting role.
func (n *Network) IsClient() bool { return n.cli != nil }

// IsConnected reports session liveness: always true for a listening
// server's existence as a role (server-to-server connectivity is
// per-client, see GetConnectedClients), and the join handshake's
// completion for a client.
func (n *Network) IsConnected() bool {
	if n.cli != nil {
		return n.cli.IsConnected()
	}
	return true
}

// LatencyMillis is 0 on the server; on the client it is the transport's
// measured round-trip time.
func (n *Network) LatencyMillis() int64 {
	if n.cli != nil {
		return n.cli.LatencyMillis()
	}
	return 0
}

// ServerTimeMillis returns the estimated current server wall-clock time:
// exact on the server, clock-synced estimate on the client.
func (n *Network) ServerTimeMillis() int64 {
	if n.cli != nil {
		return n.cli.ServerTimeMillis()
	}
	return time.Now().UnixMilli()
}

// CurrentTick returns the authoritative simulation tick count. Always 0
// on a client; the client does not run the fixed-step simulation tick
// counter.
func (n *Network) CurrentTick() uint64 {
	if n.srv != nil {
		return n.srv.CurrentTick()
	}
	return 0
}

// CreateNetworkEntity creates a networked entity under the active role.
func (n *Network) CreateNetworkEntity(opts components.SpawnOptions) (hostecs.Entity, error) {
	if n.srv != nil {
		return n.srv.CreateNetworkEntity(opts)
	}
	return n.cli.CreateNetworkEntity(opts)
}

// DestroyNetworkEntity destroys the entity identified by networkEntityID
// under the active role. A no-op for an unknown id.
func (n *Network) DestroyNetworkEntity(networkEntityID string) {
	if n.srv != nil {
		n.srv.DestroyNetworkEntity(networkEntityID)
		return
	}
	n.cli.DestroyNetworkEntity(networkEntityID)
}

// GetNetworkEntity resolves a network_entity_id to its host entity handle.
func (n *Network) GetNetworkEntity(networkEntityID string) (hostecs.Entity, bool) {
	if n.srv != nil {
		return n.srv.GetNetworkEntity(networkEntityID)
	}
	return n.cli.GetNetworkEntity(networkEntityID)
}

// GetLocalPlayer returns the local player's entity. Server-side there is
// no single local player; callers should use GetConnectedClients instead.
func (n *Network) GetLocalPlayer() (hostecs.Entity, bool) {
	if n.cli != nil {
		return n.cli.LocalPlayerEntity()
	}
	return 0, false
}

// SetInput applies a partial input update to the client's local player.
// Returns ErrWrongRole on a server-mode Network without mutating anything.
func (n *Network) SetInput(patch components.InputPatch) error {
	if n.cli == nil {
		return ErrWrongRole
	}
	n.cli.SetInput(patch)
	return nil
}

// GetConnectedClients lists joined clients. Returns ErrWrongRole on a
// client-mode Network.
func (n *Network) GetConnectedClients() ([]server.ClientConnection, error) {
	if n.srv == nil {
		return nil, ErrWrongRole
	}
	return n.srv.ConnectedClients(), nil
}

// KickClient disconnects a connected client. Returns ErrWrongRole on a
// client-mode Network.
func (n *Network) KickClient(id transport.ConnectionID, reason string) error {
	if n.srv == nil {
		return ErrWrongRole
	}
	return n.srv.KickClient(id, reason)
}

// Listen begins accepting connections. Returns ErrWrongRole on a
// client-mode Network.
func (n *Network) Listen(port int, host string) error {
	if n.srv == nil {
		return ErrWrongRole
	}
	return n.srv.Listen(port, host)
}

// Close stops accepting connections. Returns ErrWrongRole on a
// client-mode Network.
func (n *Network) Close() error {
	if n.srv == nil {
		return ErrWrongRole
	}
	return n.srv.Close()
}

// Connect dials the server. Returns ErrWrongRole on a server-mode Network.
func (n *Network) Connect(url, playerName string) error {
	if n.cli == nil {
		return ErrWrongRole
	}
	return n.cli.Connect(url, playerName)
}

// Disconnect ends the client session. Returns ErrWrongRole on a
// server-mode Network.
func (n *Network) Disconnect() error {
	if n.cli == nil {
		return ErrWrongRole
	}
	return n.cli.Disconnect()
}
