package ws

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/kaelstrand/netplay/pkg/netcore/logging"
	"github.com/kaelstrand/netplay/pkg/netcore/transport"
)

// Server is a gorilla/websocket-backed ServerTransport. One HTTP server
// accepts upgrade requests on Path (default "/"); each accepted
// connection gets its own read/write pump, same as Client. Drain must be
// called once per host tick to dispatch queued events.
type Server struct {
	// Path is the HTTP path upgraded to a websocket connection. Defaults
	// to "/" if left empty before Listen.
	Path string

	mu         sync.Mutex
	listening  bool
	listener   net.Listener
	httpServer *http.Server
	upgrader   websocket.Upgrader
	clients    map[transport.ConnectionID]*serverConn
	nextID     int

	events chan event

	onMessage    func(id transport.ConnectionID, raw []byte)
	onConnect    func(id transport.ConnectionID)
	onDisconnect func(id transport.ConnectionID, reason string)
	onError      transport.ErrorHandler

	log *logrus.Entry
}

type serverConn struct {
	id      transport.ConnectionID
	conn    *websocket.Conn
	writeCh chan []byte
	done    chan struct{}
}

// NewServer constructs an unlistening websocket ServerTransport.
func NewServer() *Server {
	return &Server{
		clients: make(map[transport.ConnectionID]*serverConn),
		events:  make(chan event, eventQueueSize),
		log:     logging.TransportLogger(logging.NewLoggerFromEnv()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Listen binds host:port (port 0 picks an ephemeral port, discoverable
// via Addr) and starts accepting websocket upgrades on Path in the
// background.
func (s *Server) Listen(port int, host string) error {
	s.mu.Lock()
	if s.listening {
		s.mu.Unlock()
		return transport.ErrAlreadyListening
	}
	s.mu.Unlock()

	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return fmt.Errorf("ws: listen: %w", err)
	}

	path := s.Path
	if path == "" {
		path = "/"
	}
	mux := http.NewServeMux()
	mux.HandleFunc(path, s.handleUpgrade)

	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{Handler: mux}
	s.listening = true
	s.mu.Unlock()

	go s.httpServer.Serve(ln)
	return nil
}

// Addr returns the bound listener's address, valid once Listen has
// returned successfully. Useful to discover the actual port when Listen
// was called with port 0.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.pushEvent(event{kind: eventError, err: fmt.Errorf("ws: upgrade: %w", err)})
		return
	}

	s.mu.Lock()
	s.nextID++
	id := transport.ConnectionID(uuid.NewString())
	sc := &serverConn{id: id, conn: conn, writeCh: make(chan []byte, writeQueueSize), done: make(chan struct{})}
	s.clients[id] = sc
	s.mu.Unlock()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go s.writePump(sc)
	s.pushEvent(event{kind: eventConnect, connID: id})
	s.readPump(sc)
}

func (s *Server) readPump(sc *serverConn) {
	for {
		_, raw, err := sc.conn.ReadMessage()
		if err != nil {
			s.removeConn(sc, err.Error())
			return
		}
		s.pushEvent(event{kind: eventMessage, connID: sc.id, raw: raw})
	}
}

func (s *Server) writePump(sc *serverConn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sc.done:
			return
		case msg, ok := <-sc.writeCh:
			if !ok {
				return
			}
			sc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sc.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.pushEvent(event{kind: eventError, err: fmt.Errorf("ws: write to %s: %w", sc.id, err)})
			}
		case <-ticker.C:
			sc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sc.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.pushEvent(event{kind: eventError, err: fmt.Errorf("ws: ping %s: %w", sc.id, err)})
			}
		}
	}
}

func (s *Server) removeConn(sc *serverConn, reason string) {
	s.mu.Lock()
	_, ok := s.clients[sc.id]
	if ok {
		delete(s.clients, sc.id)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	close(sc.done)
	sc.conn.Close()
	s.pushEvent(event{kind: eventDisconnect, connID: sc.id, reason: reason})
}

func (s *Server) pushEvent(e event) {
	select {
	case s.events <- e:
	default:
		s.log.Warn("event queue full, dropping event")
	}
}

// Drain dispatches every queued event to its registered handler, in
// arrival order. Call once per host tick, never concurrently.
func (s *Server) Drain() {
	for {
		select {
		case e := <-s.events:
			s.dispatch(e)
		default:
			return
		}
	}
}

func (s *Server) dispatch(e event) {
	switch e.kind {
	case eventConnect:
		if s.onConnect != nil {
			s.onConnect(e.connID)
		}
	case eventMessage:
		if s.onMessage != nil {
			s.onMessage(e.connID, e.raw)
		}
	case eventDisconnect:
		if s.onDisconnect != nil {
			s.onDisconnect(e.connID, e.reason)
		}
	case eventError:
		if s.onError != nil {
			s.onError(e.err)
		}
	}
}

// Close stops accepting connections and disconnects every client.
func (s *Server) Close() error {
	s.mu.Lock()
	if !s.listening {
		s.mu.Unlock()
		return transport.ErrNotListening
	}
	s.listening = false
	httpServer := s.httpServer
	conns := make([]*serverConn, 0, len(s.clients))
	for _, c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		s.removeConn(c, "server closed")
	}

	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("ws: shutdown: %w", err)
		}
	}
	return nil
}

// Send transmits message to one connected client.
func (s *Server) Send(id transport.ConnectionID, message []byte) error {
	s.mu.Lock()
	sc, ok := s.clients[id]
	s.mu.Unlock()
	if !ok {
		return transport.ErrUnknownConnection
	}
	select {
	case sc.writeCh <- message:
		return nil
	default:
		s.log.Warn("write queue full, dropping outbound message")
		return nil
	}
}

// Broadcast transmits message to every connected client.
func (s *Server) Broadcast(message []byte) {
	s.mu.Lock()
	conns := make([]*serverConn, 0, len(s.clients))
	for _, c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		select {
		case c.writeCh <- message:
		default:
			s.log.Warn("write queue full, dropping broadcast message")
		}
	}
}

// BroadcastExcept transmits message to every connected client except exclude.
func (s *Server) BroadcastExcept(exclude transport.ConnectionID, message []byte) {
	s.mu.Lock()
	conns := make([]*serverConn, 0, len(s.clients))
	for id, c := range s.clients {
		if id != exclude {
			conns = append(conns, c)
		}
	}
	s.mu.Unlock()

	for _, c := range conns {
		select {
		case c.writeCh <- message:
		default:
			s.log.Warn("write queue full, dropping broadcast message")
		}
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
	sc, ok := s.clients[id]
	s.mu.Unlock()
	if !ok {
		return transport.ErrUnknownConnection
	}
	s.removeConn(sc, reason)
	return nil
}

// OnMessage registers the handler invoked by Drain for messages sent by clients.
func (s *Server) OnMessage(handler func(id transport.ConnectionID, raw []byte)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMessage = handler
}

// OnConnect registers the handler invoked by Drain when a client connects.
func (s *Server) OnConnect(handler func(id transport.ConnectionID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConnect = handler
}

// OnDisconnect registers the handler invoked by Drain when a client disconnects.
func (s *Server) OnDisconnect(handler func(id transport.ConnectionID, reason string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDisconnect = handler
}

// OnError registers the handler invoked by Drain for transport errors.
func (s *Server) OnError(handler transport.ErrorHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = handler
}

// Destroy is equivalent to Close for this transport.
func (s *Server) Destroy() {
	s.Close()
}

var _ transport.ServerTransport = (*Server)(nil)
