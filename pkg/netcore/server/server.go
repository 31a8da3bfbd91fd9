// Package server implements the authoritative side of the network core:
// session lifecycle, input application, fixed-step simulation, and
// throttled world-state broadcast. It is written only against
// pkg/netcore/hostecs's EntityStore/SystemScheduler interfaces and
// pkg/netcore/transport's ServerTransport interface, so any host ECS or
// transport implementing those contracts can drive it.
package server

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kaelstrand/netplay/pkg/netcore/config"
	"github.com/kaelstrand/netplay/pkg/netcore/hostecs"
	"github.com/kaelstrand/netplay/pkg/netcore/logging"
	"github.com/kaelstrand/netplay/pkg/netcore/simulate"
	"github.com/kaelstrand/netplay/pkg/netcore/transport"
)

// ErrNotListening is returned by operations requiring an active listener
// when the server has not called Listen.
var ErrNotListening = errors.New("server: not listening")

// ClientConnection records one connected client's session state.
type ClientConnection struct {
	ID                transport.ConnectionID
	PlayerName        string
	NetworkEntityID   string
	Entity            hostecs.Entity
	JoinedAt          time.Time
	LastInputTime     int64
	LastInputSequence uint64
	HasInput          bool
	LatencyMillis     int64
	Joined            bool
}

// Server is the authoritative role: it owns the simulation tick, applies
// client input, and broadcasts world state.
type Server struct {
	mu sync.RWMutex

	world     hostecs.EntityStore
	scheduler hostecs.SystemScheduler
	tr        transport.ServerTransport
	cfg       config.NetworkConfig
	bounds    simulate.WorldBounds
	moveSpeed float64
	log       *logrus.Entry

	listening bool
	clients   map[transport.ConnectionID]*ClientConnection

	tickCounter      uint64
	lastSnapshotTime time.Time
	now              func() time.Time
	rng              *rand.Rand
}

// Option customizes a Server at construction time.
type Option func(*Server)

// WithWorldBounds overrides the reference 800x600 world rectangle used to
// clamp entity positions.
func WithWorldBounds(b simulate.WorldBounds) Option {
	return func(s *Server) { s.bounds = b }
}

// WithMoveSpeed overrides the reference 200 units/s movement speed.
func WithMoveSpeed(speed float64) Option {
	return func(s *Server) { s.moveSpeed = speed }
}

// WithClock overrides the wall-clock source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithSeed fixes the seed used for spawn-point randomness, so a server
// process (and its tests) can be made reproducible. Without this option
// NewServer seeds from the current time, once, at construction.
func WithSeed(seed int64) Option {
	return func(s *Server) { s.rng = rand.New(rand.NewSource(seed)) }
}

// NewServer constructs a Server over world/scheduler (typically the same
// hostecs.World) and a ServerTransport, registers its fixed-step
// simulation system and variable-rate broadcast system, and wires
// transport callbacks to the session lifecycle.
func NewServer(world hostecs.EntityStore, scheduler hostecs.SystemScheduler, tr transport.ServerTransport, cfg config.NetworkConfig, opts ...Option) *Server {
	s := &Server{
		world:     world,
		scheduler: scheduler,
		tr:        tr,
		cfg:       cfg,
		bounds:    simulate.DefaultWorldBounds(),
		moveSpeed: simulate.DefaultMoveSpeed,
		log:       logging.ServerLogger(logging.NewLoggerFromEnv()),
		clients:   make(map[transport.ConnectionID]*ClientConnection),
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}

	scheduler.AddSystem(hostecs.SystemRegistration{
		Name:        "tick-counter",
		System:      tickSystem{s: s},
		Priority:    0,
		FixedUpdate: true,
	})
	scheduler.AddSystem(hostecs.SystemRegistration{
		Name:        "input-processing",
		System:      inputProcessingSystem{s: s},
		Priority:    10,
		After:       []string{"tick-counter"},
		FixedUpdate: true,
	})
	scheduler.AddSystem(hostecs.SystemRegistration{
		Name:        "broadcast",
		System:      broadcastSystem{s: s},
		Priority:    0,
		FixedUpdate: false,
	})

	tr.OnConnect(s.handleTransportConnect)
	tr.OnMessage(s.handleTransportMessage)
	tr.OnDisconnect(s.handleTransportDisconnect)
	tr.OnError(func(err error) {
		s.log.WithError(err).Error("transport error")
	})

	world.OnShutdown(func() {
		_ = s.Close()
	})

	return s
}

// Listen begins accepting connections on port/host via the transport.
func (s *Server) Listen(port int, host string) error {
	if err := s.tr.Listen(port, host); err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	s.mu.Lock()
	s.listening = true
	s.mu.Unlock()
	s.log.WithField("port", port).Info("listening")
	return nil
}

// Close stops accepting connections and tears down the transport.
func (s *Server) Close() error {
	s.mu.Lock()
	if !s.listening {
		s.mu.Unlock()
		return ErrNotListening
	}
	s.listening = false
	s.mu.Unlock()

	if err := s.tr.Close(); err != nil {
		return fmt.Errorf("server: close: %w", err)
	}
	return nil
}

// ConnectedClients returns a snapshot of every currently joined client.
func (s *Server) ConnectedClients() []ClientConnection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ClientConnection, 0, len(s.clients))
	for _, c := range s.clients {
		if c.Joined {
			out = append(out, *c)
		}
	}
	return out
}

// KickClient disconnects id via the transport; the standard disconnect
// path then runs from the transport's OnDisconnect callback.
func (s *Server) KickClient(id transport.ConnectionID, reason string) error {
	if err := s.tr.DisconnectClient(id, reason); err != nil {
		return fmt.Errorf("server: kick %s: %w", id, err)
	}
	return nil
}

// CurrentTick returns the number of fixed-step simulation ticks run so far.
func (s *Server) CurrentTick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tickCounter
}

func (s *Server) allocateEntityID() string {
	return uuid.NewString()
}

// serverConfigPayload builds the join_accepted ServerConfig field: the
// subset of NetworkConfig a client needs to interpret the session it just
// joined (the client stores it as-is and exposes it via ServerConfig()).
func (s *Server) serverConfigPayload() map[string]any {
	return map[string]any{
		"tick_rate":              s.cfg.TickRate,
		"snapshot_rate":          s.cfg.SnapshotRate,
		"interpolation_delay_ms": s.cfg.InterpolationDelayMs,
		"reconciliation_window":  s.cfg.ReconciliationWindow,
	}
}
