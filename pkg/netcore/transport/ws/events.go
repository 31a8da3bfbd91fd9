package ws

import "github.com/kaelstrand/netplay/pkg/netcore/transport"

type eventKind int

const (
	eventConnect eventKind = iota
	eventMessage
	eventDisconnect
	eventError
)

// event is one queued transition or delivery, carrying only the fields
// relevant to its kind.
type event struct {
	kind   eventKind
	connID transport.ConnectionID
	raw    []byte
	reason string
	err    error
}
