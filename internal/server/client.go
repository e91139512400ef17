package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// NOTE: the pump structure below follows the room/client design from the
// gorilla/websocket chat example (credit to the Gorilla toolkit authors).
const (
	// Time allowed to write a message to a client
	sendToClientWait = 10 * time.Second

	// Time allowed to read a pong message from a client (after sending a
	// ping); ping-pong detects dead connections even when no game traffic
	// is flowing, so the OS can reclaim the TCP connection sooner
	pongWait = 60 * time.Second

	// Interval at which to send pings to a client; must be less than pongWait
	pingInterval = 50 * time.Second

	// Room snapshots carry full tile layouts, so the read limit is roomier
	// than a chat server would need
	maxMessageSize = 16 * 1024
)

// A client is a WebSocket connection with some added metadata (the claimed
// player name) and a link to the room hub the connection belongs to.
type client struct {
	// We are "extending" a WebSocket connection
	*websocket.Conn

	id  uuid.UUID
	hub *hub
	log zerolog.Logger

	// player is the roster name this connection has claimed, empty until a
	// claim request. Claiming a new name implicitly releases the previous
	// one; only the hub goroutine touches this field after registration.
	player string

	// Buffered channel of outgoing messages
	send chan []byte

	// limiter caps inbound request rate per connection; excess messages
	// are dropped rather than queued
	limiter *rate.Limiter
}

func newClient(conn *websocket.Conn, h *hub, player string, log zerolog.Logger) *client {
	id := uuid.New()
	return &client{
		Conn:    conn,
		id:      id,
		hub:     h,
		log:     log.With().Str("client", id.String()).Logger(),
		player:  player,
		send:    make(chan []byte, 64),
		limiter: rate.NewLimiter(20, 40),
	}
}

// Send attempts to deliver a message, kicking the client from the hub if
// its send channel is full. ONLY SAFE TO CALL FROM THE HUB'S GOROUTINE.
func (c *client) Send(msg []byte) {
	select {
	case c.send <- msg:
	default:
		// A blocked send channel (which has a sizeable buffer) means this
		// client is far too slow to keep up; reclaim the resources
		c.hub.dropMember(c)
	}
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.Close()
	}()

	c.SetReadLimit(maxMessageSize)
	c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}
		if !c.limiter.Allow() {
			c.log.Warn().Msg("rate limit exceeded, dropping request")
			continue
		}
		select {
		case c.hub.requests <- request{src: c, msg: msg}:
		case <-c.hub.done:
			return
		}
	}
}

func (c *client) writePump() {
	pingTicker := time.NewTicker(pingInterval)

	defer func() {
		pingTicker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg, chanStillOpen := <-c.send:
			c.SetWriteDeadline(time.Now().Add(sendToClientWait))

			// The hub kills a connection by closing its send channel.
			// Calling Close() on the WebSocket does NOT send a proper close
			// message, so do it here; otherwise the client sees an abnormal
			// closure with no warning.
			if !chanStillOpen {
				c.WriteMessage(websocket.CloseMessage, nil)
				return
			}

			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-pingTicker.C:
			deadline := time.Now().Add(sendToClientWait)
			if err := c.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
