package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/shamrock-game/shamrock/internal/game"
	"github.com/shamrock-game/shamrock/internal/store"
)

// Server owns the HTTP surface: a health endpoint plus the websocket
// entrypoint that attaches clients to per-room hubs. Hubs are created on
// first connect and garbage-collected when their last member leaves.
type Server struct {
	store  *store.Mem
	engine *game.Engine
	log    zerolog.Logger

	upgrader websocket.Upgrader

	hubsMtx sync.Mutex
	hubs    map[string]*hub
}

func New(st *store.Mem, eng *game.Engine, frontendOrigin string, log zerolog.Logger) *Server {
	return &Server{
		store:  st,
		engine: eng,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || frontendOrigin == "*" || origin == frontendOrigin
			},
		},
		hubs: map[string]*hub{},
	}
}

// Router builds the gin engine serving the health check and the websocket
// endpoint.
func (s *Server) Router(frontendOrigin string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if frontendOrigin == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{frontendOrigin}
	}
	corsCfg.AllowCredentials = true
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/rooms", s.handleListRooms)
	router.GET("/ws", s.handleWebsocket)

	return router
}

// roomSummary is the lobby listing view of one room.
type roomSummary struct {
	Name          string  `json:"name"`
	Status        string  `json:"status"`
	Players       int     `json:"players"`
	ReadyFraction float64 `json:"readyFraction"`
}

func (s *Server) handleListRooms(c *gin.Context) {
	rooms := s.store.List()
	out := make([]roomSummary, len(rooms))
	for i, r := range rooms {
		out[i] = roomSummary{
			Name:          r.Name,
			Status:        string(r.Status),
			Players:       len(r.Players),
			ReadyFraction: r.ReadyFraction(),
		}
	}
	c.JSON(http.StatusOK, out)
}

// handleWebsocket expects a "room" query parameter naming the room to join
// and an optional "name" parameter claiming a player up front. The room
// document is created lazily by the hub if it does not exist yet.
func (s *Server) handleWebsocket(c *gin.Context) {
	roomName := c.Query("room")
	if roomName == "" {
		c.String(http.StatusBadRequest, "Must specify a room with 'room' URL query parameter")
		return
	}
	playerName := c.Query("name")

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// No need to send an HTTP error reply because the .Upgrade() call
		// sends one before returning an error to our code.
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	// The hub we fetched may be shutting down (its last member just left);
	// in that case its done channel is closed and we grab a fresh one.
	for {
		h := s.getOrCreateHub(roomName)
		cli := newClient(conn, h, playerName, s.log)
		select {
		case h.register <- cli:
		case <-h.done:
			continue
		}

		// Start read/write in new goroutines so we can return from this
		// HTTP handler and let the request get cleaned up.
		go cli.readPump()
		go cli.writePump()
		return
	}
}

func (s *Server) getOrCreateHub(roomName string) *hub {
	s.hubsMtx.Lock()
	defer s.hubsMtx.Unlock()

	if h, ok := s.hubs[roomName]; ok {
		select {
		case <-h.done:
			// Dead hub not yet removed by its cleanup goroutine; replace it.
		default:
			return h
		}
	}

	h := newHub(roomName, s.store, s.engine, s.log)
	s.hubs[roomName] = h

	go func() {
		h.run()

		s.hubsMtx.Lock()
		// A fresh hub may have replaced this one while it was shutting
		// down; only remove our own entry.
		if s.hubs[roomName] == h {
			delete(s.hubs, roomName)
		}
		s.hubsMtx.Unlock()
	}()

	return h
}
