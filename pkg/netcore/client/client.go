// Package client implements the predicting side of the network core:
// session lifecycle, the capture/prediction/send input pipeline,
// ack-triggered reconciliation, and remote-entity interpolation. It is
// written only against pkg/netcore/hostecs's EntityStore/SystemScheduler
// interfaces and pkg/netcore/transport's Transport interface.
package client

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/kaelstrand/netplay/pkg/netcore/config"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
	"github.com/kaelstrand/netplay/pkg/netcore/logging"
	"github.com/kaelstrand/netplay/pkg/netcore/proto"
	"github.com/kaelstrand/netplay/pkg/netcore/simulate"
	"github.com/kaelstrand/netplay/pkg/netcore/transport"
)

// ConnectionState is the client's session lifecycle state.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
)

// ErrAlreadyConnecting is returned by Connect when a connection attempt or
// an established connection is already in progress.
var ErrAlreadyConnecting = errors.New("client: already connecting or connected")

// ErrNotConnected names the state of having no established session. No
// Client method returns it: before the join handshake completes, input is
// simply not sent.
var ErrNotConnected = errors.New("client: not connected")

// Client is the predicting role: it captures local input, predicts
// movement, reconciles against server acks, and interpolates remote
// entities for rendering.
type Client struct {
	mu sync.RWMutex

	world     hostecs.EntityStore
	scheduler hostecs.SystemScheduler
	tr        transport.Transport
	cfg       config.NetworkConfig
	bounds    simulate.WorldBounds
	moveSpeed float64
	log       *logrus.Entry

	state ConnectionState

	clientID              string
	localPlayerNetworkID  string
	localPlayerEntity     hostecs.Entity
	hasLocalPlayer        bool
	playerNameOnConnect   string
	entitiesByNetworkID   map[string]hostecs.Entity

	timeOffsetMillis int64

	joinRejectedReason string
	serverConfig       map[string]any
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithWorldBounds overrides the reference 800x600 world rectangle used to
// clamp predicted/replayed positions.
func WithWorldBounds(b simulate.WorldBounds) Option {
	return func(c *Client) { c.bounds = b }
}

// WithMoveSpeed overrides the reference 200 units/s movement speed.
func WithMoveSpeed(speed float64) Option {
	return func(c *Client) { c.moveSpeed = speed }
}

// NewClient constructs a Client over world/scheduler and a Transport,
// registers its fixed-step prediction/send systems and variable-rate
// interpolation system, and wires transport callbacks to the session
// lifecycle and message handlers.
func NewClient(world hostecs.EntityStore, scheduler hostecs.SystemScheduler, tr transport.Transport, cfg config.NetworkConfig, opts ...Option) *Client {
	c := &Client{
		world:               world,
		scheduler:           scheduler,
		tr:                  tr,
		cfg:                 cfg,
		bounds:              simulate.DefaultWorldBounds(),
		moveSpeed:           simulate.DefaultMoveSpeed,
		log:                 logging.ClientLogger(logging.NewLoggerFromEnv()),
		entitiesByNetworkID: make(map[string]hostecs.Entity),
	}
	for _, opt := range opts {
		opt(c)
	}

	scheduler.AddSystem(hostecs.SystemRegistration{
		Name:        "prediction",
		System:      predictionSystem{c: c},
		Priority:    0,
		Before:      []string{"input-send"},
		FixedUpdate: true,
	})
	scheduler.AddSystem(hostecs.SystemRegistration{
		Name:        "input-send",
		System:      sendSystem{c: c},
		Priority:    0,
		After:       []string{"prediction"},
		FixedUpdate: true,
	})
	scheduler.AddSystem(hostecs.SystemRegistration{
		Name:        "interpolation",
		System:      interpolationSystem{c: c},
		Priority:    0,
		FixedUpdate: false,
	})

	tr.OnConnect(c.handleTransportConnect)
	tr.OnMessage(c.handleTransportMessage)
	tr.OnDisconnect(c.handleTransportDisconnect)
	tr.OnError(func(err error) {
		c.log.WithError(err).Error("transport error")
	})

	world.OnShutdown(func() {
		_ = c.Disconnect()
	})

	return c
}

// Connect transitions to connecting and dials the transport. join is sent
// once the transport reports open.
func (c *Client) Connect(url, playerName string) error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return ErrAlreadyConnecting
	}
	c.state = StateConnecting
	c.playerNameOnConnect = playerName
	c.mu.Unlock()

	if err := c.tr.Connect(url); err != nil {
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		return fmt.Errorf("client: connect: %w", err)
	}
	return nil
}

// Disconnect is terminal: the transport is destroyed and the client
// returns to the disconnected state.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	if c.state == StateDisconnected {
		c.mu.Unlock()
		return nil
	}
	c.state = StateDisconnected
	c.mu.Unlock()

	c.tr.Destroy()
	return nil
}

// IsConnected reports whether the session has completed its join handshake.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == StateConnected
}

// LatencyMillis returns the transport's measured round-trip latency.
func (c *Client) LatencyMillis() int64 {
	return c.tr.LatencyMillis()
}

// ServerTimeMillis returns the estimated current server wall-clock time.
func (c *Client) ServerTimeMillis() int64 {
	c.mu.RLock()
	offset := c.timeOffsetMillis
	c.mu.RUnlock()
	return nowMillis() + offset
}

// LocalPlayerEntity returns the local player's entity handle, if known.
func (c *Client) LocalPlayerEntity() (hostecs.Entity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.localPlayerEntity, c.hasLocalPlayer
}

// GetNetworkEntity resolves a network_entity_id to a host entity handle.
func (c *Client) GetNetworkEntity(networkEntityID string) (hostecs.Entity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entitiesByNetworkID[networkEntityID]
	return e, ok
}

// JoinRejectedReason returns the reason given by the most recent
// join_rejected message, if any.
func (c *Client) JoinRejectedReason() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.joinRejectedReason
}

// ServerConfig returns the server_config payload the server sent alongside
// its most recent join_accepted, if any. A host can use this to line up
// client-side display/timing assumptions with the server's actual tuning.
func (c *Client) ServerConfig() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverConfig
}
