package mocktransport

import (
	"sync"

	"github.com/kaelstrand/netplay/pkg/netcore/transport"
)

// Client is an in-process Transport dialed against a Server via
// Server.Dial or NewPair. It never performs real I/O.
type Client struct {
	mu        sync.Mutex
	server    *Server
	id        transport.ConnectionID
	connected bool

	latencyMillis int64
	timeOffset    int64

	onMessage    transport.MessageHandler
	onConnect    transport.ConnectHandler
	onDisconnect transport.DisconnectHandler
	onError      transport.ErrorHandler
}

// NewPair builds a listening Server and a Client already connected to it,
// convenient for tests that need a working client/server pair without
// separately calling Listen and Dial.
func NewPair() (*Client, *Server, error) {
	srv := NewServer()
	if err := srv.Listen(0, ""); err != nil {
		return nil, nil, err
	}
	client, err := srv.Dial()
	if err != nil {
		return nil, nil, err
	}
	return client, srv, nil
}

// Connect never dials: it exists only to satisfy the Transport interface,
// and dialing happens via Server.Dial. It returns ErrAlreadyConnected for
// a connected Client and ErrNotConnected otherwise.
func (c *Client) Connect(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return transport.ErrAlreadyConnected
	}
	return transport.ErrNotConnected
}

// Disconnect closes the client's connection to its server.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil
	}
	c.connected = false
	handler := c.onDisconnect
	server := c.server
	id := c.id
	c.mu.Unlock()

	if handler != nil {
		handler("client disconnected")
	}
	if server != nil {
		server.removeClient(id, "client disconnected")
	}
	return nil
}

// disconnectWithReason is invoked by the server side to force-close this
// client, e.g. via ServerTransport.DisconnectClient.
func (c *Client) disconnectWithReason(reason string) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return
	}
	c.connected = false
	handler := c.onDisconnect
	server := c.server
	id := c.id
	c.mu.Unlock()

	if handler != nil {
		handler(reason)
	}
	if server != nil {
		server.removeClient(id, reason)
	}
}

func (c *Client) deliverFromServer(raw []byte) {
	c.mu.Lock()
	handler := c.onMessage
	connected := c.connected
	c.mu.Unlock()
	if connected && handler != nil {
		handler(raw)
	}
}

// Send transmits message to the connected server.
func (c *Client) Send(message []byte) error {
	c.mu.Lock()
	connected := c.connected
	server := c.server
	id := c.id
	c.mu.Unlock()
	if !connected {
		return transport.ErrNotConnected
	}
	server.deliverFromClient(id, message)
	return nil
}

// OnMessage registers the handler invoked for each message from the server.
func (c *Client) OnMessage(handler transport.MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMessage = handler
}

// OnConnect registers the handler invoked when the connection opens. Since
// NewPair/Dial connect synchronously, registering after dialing will not
// retroactively fire this handler.
func (c *Client) OnConnect(handler transport.ConnectHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onConnect = handler
}

// OnDisconnect registers the handler invoked when the connection closes.
func (c *Client) OnDisconnect(handler transport.DisconnectHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDisconnect = handler
}

// OnError registers the handler invoked for transport errors. The mock
// transport never produces errors on its own.
func (c *Client) OnError(handler transport.ErrorHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = handler
}

// LatencyMillis returns the simulated latency, settable via SetLatencyMillis.
func (c *Client) LatencyMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latencyMillis
}

// SetLatencyMillis sets the value LatencyMillis reports, for tests that
// exercise latency-dependent behavior.
func (c *Client) SetLatencyMillis(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latencyMillis = ms
}

// ServerTimeOffsetMillis returns the simulated clock offset, settable via
// SetServerTimeOffsetMillis.
func (c *Client) ServerTimeOffsetMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeOffset
}

// SetServerTimeOffsetMillis sets the value ServerTimeOffsetMillis reports.
func (c *Client) SetServerTimeOffsetMillis(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeOffset = ms
}

// Destroy disconnects the client. The client must not be reused afterward.
func (c *Client) Destroy() {
	c.Disconnect()
}

var _ transport.Transport = (*Client)(nil)
