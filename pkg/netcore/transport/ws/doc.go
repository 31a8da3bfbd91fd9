// Package ws implements pkg/netcore/transport's Transport and
// ServerTransport interfaces over gorilla/websocket. Unlike
// pkg/netcore/mocktransport's synchronous, same-goroutine delivery, this
// transport runs real I/O: one reader goroutine and one writer goroutine
// per connection, standard for gorilla/websocket (a *websocket.Conn
// permits at most one concurrent reader and one concurrent writer).
//
// Inbound events (message/connect/disconnect/error) are never dispatched
// directly from the reader goroutine. They are pushed onto a bounded
// channel and only invoke the registered handlers when the host calls
// Drain, which runs on the host's own update-loop goroutine. This is how
// the transport satisfies §5's requirement that the core's message
// handlers run on the same cooperative context as its systems — Drain is
// the marshaling point.
package ws
