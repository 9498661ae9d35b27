package realtime

import (
	"sync/atomic"
	"time"

	"github.com/mcoot/dicegame-go/internal/model"
)

const (
	// Buffer size for outgoing messages
	sendBufferSize = 256
)

var clientSeq atomic.Uint64

// Client is one persistent connection, websocket or SSE
type Client struct {
	id          uint64
	label       string
	transport   string
	connectedAt time.Time

	// send is written only by the hub and closed by it on unregister
	send chan Frame

	// rooms is owned by the hub's event loop
	rooms map[model.RoomID]struct{}
}

// NewClient creates a client. label identifies it in logs, typically the
// username the client supplied.
func NewClient(transport, label string) *Client {
	return &Client{
		id:          clientSeq.Add(1),
		label:       label,
		transport:   transport,
		connectedAt: time.Now(),
		send:        make(chan Frame, sendBufferSize),
		rooms:       make(map[model.RoomID]struct{}),
	}
}

// Send returns the channel of frames destined for this client.
// It is closed when the client is unregistered or the hub stops.
func (c *Client) Send() <-chan Frame {
	return c.send
}
