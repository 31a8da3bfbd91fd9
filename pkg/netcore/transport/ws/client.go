package ws

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/kaelstrand/netplay/pkg/netcore/logging"
	"github.com/kaelstrand/netplay/pkg/netcore/transport"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	eventQueueSize = 256
	writeQueueSize = 256
)

// Client is a gorilla/websocket-backed Transport. It must be Drained by
// the host between ticks; handlers registered via OnMessage/OnConnect/
// OnDisconnect/OnError are invoked only from Drain, never from the
// internal read/write goroutines.
type Client struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	writeCh   chan []byte
	done      chan struct{}

	events chan event

	latencyMillis          atomic.Int64
	serverTimeOffsetMillis atomic.Int64
	lastPingSentAt         atomic.Int64

	onMessage    transport.MessageHandler
	onConnect    transport.ConnectHandler
	onDisconnect transport.DisconnectHandler
	onError      transport.ErrorHandler

	log *logrus.Entry
}

// NewClient constructs an unconnected websocket Transport.
func NewClient() *Client {
	return &Client{
		events: make(chan event, eventQueueSize),
		log:    logging.TransportLogger(logging.NewLoggerFromEnv()),
	}
}

// Connect dials url and starts the read/write pumps. A dial failure is
// returned directly and queues no event; after a successful dial,
// handlers see on_connect only on the next Drain.
func (c *Client) Connect(url string) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return transport.ErrAlreadyConnected
	}
	c.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("ws: dial %s: %w", url, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.writeCh = make(chan []byte, writeQueueSize)
	c.done = make(chan struct{})
	c.mu.Unlock()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		sentAt := c.lastPingSentAt.Load()
		if sentAt != 0 {
			c.latencyMillis.Store(time.Now().UnixMilli() - sentAt)
		}
		return nil
	})

	go c.readPump()
	go c.writePump()

	c.pushEvent(event{kind: eventConnect})
	return nil
}

func (c *Client) readPump() {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.closeConnection(err.Error())
			return
		}
		c.pushEvent(event{kind: eventMessage, raw: raw})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case msg, ok := <-c.writeCh:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.pushEvent(event{kind: eventError, err: fmt.Errorf("ws: write: %w", err)})
			}
		case <-ticker.C:
			c.lastPingSentAt.Store(time.Now().UnixMilli())
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.pushEvent(event{kind: eventError, err: fmt.Errorf("ws: ping: %w", err)})
			}
		}
	}
}

func (c *Client) closeConnection(reason string) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return
	}
	c.connected = false
	conn := c.conn
	done := c.done
	c.mu.Unlock()

	close(done)
	conn.Close()
	c.pushEvent(event{kind: eventDisconnect, reason: reason})
}

func (c *Client) pushEvent(e event) {
	select {
	case c.events <- e:
	default:
		c.log.Warn("event queue full, dropping event")
	}
}

// Drain dispatches every queued event to its registered handler, in
// arrival order. Call once per host tick, never concurrently.
func (c *Client) Drain() {
	for {
		select {
		case e := <-c.events:
			c.dispatch(e)
		default:
			return
		}
	}
}

func (c *Client) dispatch(e event) {
	switch e.kind {
	case eventConnect:
		if c.onConnect != nil {
			c.onConnect()
		}
	case eventMessage:
		if c.onMessage != nil {
			c.onMessage(e.raw)
		}
	case eventDisconnect:
		if c.onDisconnect != nil {
			c.onDisconnect(e.reason)
		}
	case eventError:
		if c.onError != nil {
			c.onError(e.err)
		}
	}
}

// Disconnect closes the connection. Safe to call when not connected.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	connected := c.connected
	c.mu.Unlock()
	if !connected {
		return nil
	}
	c.closeConnection("client disconnected")
	return nil
}

// Send queues message for the write pump. Returns ErrNotConnected if not
// connected; a full write queue drops the message and logs a warning
// rather than blocking the caller's tick.
func (c *Client) Send(message []byte) error {
	c.mu.Lock()
	connected := c.connected
	ch := c.writeCh
	c.mu.Unlock()
	if !connected {
		return transport.ErrNotConnected
	}
	select {
	case ch <- message:
		return nil
	default:
		c.log.Warn("write queue full, dropping outbound message")
		return nil
	}
}

// OnMessage registers the handler invoked by Drain for each delivered
// message.
func (c *Client) OnMessage(handler transport.MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = handler
}

// OnConnect registers the handler invoked by Drain when the connection opens.
func (c *Client) OnConnect(handler transport.ConnectHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onConnect = handler
}

// OnDisconnect registers the handler invoked by Drain when the connection closes.
func (c *Client) OnDisconnect(handler transport.DisconnectHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDisconnect = handler
}

// OnError registers the handler invoked by Drain for transport errors.
func (c *Client) OnError(handler transport.ErrorHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = handler
}

// LatencyMillis returns the most recently measured websocket ping/pong
// round-trip time.
func (c *Client) LatencyMillis() int64 {
	return c.latencyMillis.Load()
}

// ServerTimeOffsetMillis returns the estimated offset to local time. The
// websocket transport itself does not estimate clock offset; the network
// core computes it from protocol-level ping/pong messages instead, so
// this always reports 0.
func (c *Client) ServerTimeOffsetMillis() int64 {
	return c.serverTimeOffsetMillis.Load()
}

// Destroy disconnects and releases resources. The client must not be
// reused afterward.
func (c *Client) Destroy() {
	c.Disconnect()
}

var _ transport.Transport = (*Client)(nil)
