// Package mocktransport provides an in-process, connected client/server
// transport pair implementing pkg/netcore/transport's interfaces without
// any real network I/O — for unit and end-to-end tests of the network
// core itself, and for host applications that want to integration-test
// against the core without a real transport.
//
// Delivery is synchronous: Send on one side invokes the peer's registered
// handlers immediately, on the caller's goroutine. This still satisfies the
// core's single-threaded cooperative model (§5): callers are expected to
// drive both sides from the same goroutine in tests, exactly as a host
// application drives systems and message handlers from one update loop.
package mocktransport

import (
	"fmt"
	"sync"

	"github.com/kaelstrand/netplay/pkg/netcore/transport"
)

// Server is an in-process ServerTransport. Use NewPair to obtain a Server
// already wired to accept Clients.
type Server struct {
	mu        sync.Mutex
	listening bool
	clients   map[transport.ConnectionID]*Client
	nextID    int

	onMessage    func(id transport.ConnectionID, raw []byte)
	onConnect    func(id transport.ConnectionID)
	onDisconnect func(id transport.ConnectionID, reason string)
	onError      transport.ErrorHandler
}

// NewServer creates an unconnected mock server transport.
func NewServer() *Server {
	return &Server{clients: make(map[transport.ConnectionID]*Client)}
}

// Listen marks the server as accepting connections. Host/port are ignored;
// this transport never touches a real socket.
func (s *Server) Listen(port int, host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listening {
		return transport.ErrAlreadyListening
	}
	s.listening = true
	return nil
}

// Close stops accepting connections and disconnects all clients.
func (s *Server) Close() error {
	s.mu.Lock()
	if !s.listening {
		s.mu.Unlock()
		return transport.ErrNotListening
	}
	s.listening = false
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		c.Disconnect()
	}
	return nil
}

// Dial connects a new Client to this server, as if the client had dialed
// a real listening address. Returns the new Client, or ErrNotListening
// before Listen.
func (s *Server) Dial() (*Client, error) {
	s.mu.Lock()
	if !s.listening {
		s.mu.Unlock()
		return nil, transport.ErrNotListening
	}
	s.nextID++
	id := transport.ConnectionID(fmt.Sprintf("conn-%d", s.nextID))
	s.mu.Unlock()

	client := &Client{server: s, id: id}

	s.mu.Lock()
	s.clients[id] = client
	onConnect := s.onConnect
	s.mu.Unlock()

	client.connected = true
	if onConnect != nil {
		onConnect(id)
	}
	return client, nil
}

func (s *Server) removeClient(id transport.ConnectionID, reason string) {
	s.mu.Lock()
	_, ok := s.clients[id]
	if ok {
		delete(s.clients, id)
	}
	onDisconnect := s.onDisconnect
	s.mu.Unlock()

	if ok && onDisconnect != nil {
		onDisconnect(id, reason)
	}
}

func (s *Server) deliverFromClient(id transport.ConnectionID, raw []byte) {
	s.mu.Lock()
	handler := s.onMessage
	s.mu.Unlock()
	if handler != nil {
		handler(id, raw)
	}
}

// Send transmits message to one connected client.
func (s *Server) Send(id transport.ConnectionID, message []byte) error {
	s.mu.Lock()
	client, ok := s.clients[id]
	s.mu.Unlock()
	if !ok {
		return transport.ErrUnknownConnection
	}
	client.deliverFromServer(message)
	return nil
}

// Broadcast transmits message to every connected client.
func (s *Server) Broadcast(message []byte) {
	s.mu.Lock()
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		c.deliverFromServer(message)
	}
}

// BroadcastExcept transmits message to every connected client except exclude.
func (s *Server) BroadcastExcept(exclude transport.ConnectionID, message []byte) {
	s.mu.Lock()
	clients := make([]*Client, 0, len(s.clients))
	for id, c := range s.clients {
		if id != exclude {
			clients = append(clients, c)
		}
	}
	s.mu.Unlock()

	for _, c := range clients {
		c.deliverFromServer(message)
	}
}

// ConnectedClients lists currently connected connection ids.
func (s *Server) ConnectedClients() []transport.ConnectionID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]transport.ConnectionID, 0, len(s.clients))
	for id := range s.clients {
		ids = append(ids, id)
	}
	return ids
}

// DisconnectClient forcibly disconnects id.
func (s *Server) DisconnectClient(id transport.ConnectionID, reason string) error {
	s.mu.Lock()
	client, ok := s.clients[id]
	s.mu.Unlock()
	if !ok {
		return transport.ErrUnknownConnection
	}
	client.disconnectWithReason(reason)
	return nil
}

// OnMessage registers the handler invoked for messages sent by clients.
func (s *Server) OnMessage(handler func(id transport.ConnectionID, raw []byte)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMessage = handler
}

// OnConnect registers the handler invoked when a client connects.
func (s *Server) OnConnect(handler func(id transport.ConnectionID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConnect = handler
}

// OnDisconnect registers the handler invoked when a client disconnects.
func (s *Server) OnDisconnect(handler func(id transport.ConnectionID, reason string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDisconnect = handler
}

// OnError registers the handler invoked for transport errors. The mock
// transport never produces errors on its own; this exists to satisfy the
// interface.
func (s *Server) OnError(handler transport.ErrorHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = handler
}

// Destroy releases resources. A no-op beyond Close for this transport.
func (s *Server) Destroy() {
	s.Close()
}

var _ transport.ServerTransport = (*Server)(nil)
