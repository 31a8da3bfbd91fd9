// Package transport defines the abstract byte-message transport contract
// the network core depends on. Concrete transports (websocket, in-memory,
// etc.) are external collaborators that implement these interfaces; the
// core never imports a concrete transport package.
package transport

import "errors"

// Sentinel errors surfaced by conforming transports.
var (
	// ErrAlreadyConnected is returned by Connect when the client is already
	// connected to a server.
	ErrAlreadyConnected = errors.New("transport: already connected")

	// ErrNotConnected is returned by operations that require an active
	// connection when none exists.
	ErrNotConnected = errors.New("transport: not connected")

	// ErrAlreadyListening is returned by Listen when the server transport
	// is already accepting connections.
	ErrAlreadyListening = errors.New("transport: already listening")

	// ErrNotListening is returned by server operations that require an
	// active listener when none exists.
	ErrNotListening = errors.New("transport: not listening")

	// ErrUnknownConnection is returned by server operations addressing a
	// connection id the transport does not recognize.
	ErrUnknownConnection = errors.New("transport: unknown connection")
)

// MessageHandler is invoked with the raw bytes of a delivered message.
type MessageHandler func(raw []byte)

// ConnectHandler is invoked once a connection transitions to open.
type ConnectHandler func()

// DisconnectHandler is invoked once a connection transitions to closed,
// with an optional human-readable reason.
type DisconnectHandler func(reason string)

// ErrorHandler is invoked for transport-level errors that do not
// necessarily end the connection.
type ErrorHandler func(err error)

// Transport is the client-side contract: connect to a single remote
// endpoint, exchange byte messages, and observe connection lifecycle
// events.
//
// Conforming implementations guarantee: (1) messages are delivered in
// order per connection, or dropped, never reordered; (2) a delivered
// message equals the sent message byte-for-byte; (3) connection-state
// callbacks fire exactly once per transition.
type Transport interface {
	// Connect establishes a connection to url. Returns ErrAlreadyConnected
	// if already connected.
	Connect(url string) error

	// Disconnect closes the connection. Safe to call when not connected.
	Disconnect() error

	// Send transmits message. Returns ErrNotConnected if not connected;
	// the message is dropped, not queued.
	Send(message []byte) error

	// OnMessage registers the handler invoked for each delivered message.
	OnMessage(handler MessageHandler)

	// OnConnect registers the handler invoked when the connection opens.
	OnConnect(handler ConnectHandler)

	// OnDisconnect registers the handler invoked when the connection closes.
	OnDisconnect(handler DisconnectHandler)

	// OnError registers the handler invoked for transport errors.
	OnError(handler ErrorHandler)

	// LatencyMillis returns the current measured round-trip latency.
	LatencyMillis() int64

	// ServerTimeOffsetMillis returns the estimated offset to add to local
	// time to approximate server time.
	ServerTimeOffsetMillis() int64

	// Destroy releases all resources held by the transport. The transport
	// must not be reused afterward.
	Destroy()
}

// ConnectionID identifies one connected client on a ServerTransport.
type ConnectionID string

// ServerTransport is the server-side contract: accept connections from
// multiple clients, exchange byte messages with each, and observe
// connection lifecycle events.
type ServerTransport interface {
	// Listen begins accepting connections on the given port and optional
	// host (empty host means all interfaces).
	Listen(port int, host string) error

	// Close stops accepting connections and disconnects all clients.
	Close() error

	// Send transmits message to a single connection. Returns
	// ErrUnknownConnection if id is not connected.
	Send(id ConnectionID, message []byte) error

	// Broadcast transmits message to every connected client.
	Broadcast(message []byte)

	// BroadcastExcept transmits message to every connected client except
	// exclude.
	BroadcastExcept(exclude ConnectionID, message []byte)

	// ConnectedClients lists the currently connected connection ids.
	ConnectedClients() []ConnectionID

	// DisconnectClient forcibly disconnects id with an optional reason.
	DisconnectClient(id ConnectionID, reason string) error

	// OnMessage registers the handler invoked for each delivered message,
	// receiving the sending connection's id.
	OnMessage(handler func(id ConnectionID, raw []byte))

	// OnConnect registers the handler invoked when a new client connects.
	OnConnect(handler func(id ConnectionID))

	// OnDisconnect registers the handler invoked when a client disconnects.
	OnDisconnect(handler func(id ConnectionID, reason string))

	// OnError registers the handler invoked for transport errors.
	OnError(handler ErrorHandler)

	// Destroy releases all resources held by the transport.
	Destroy()
}
