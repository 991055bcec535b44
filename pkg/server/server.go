// Package server pushes universe snapshots to rendering clients over
// WebSocket and applies their control messages.
package server

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/helioslab/orbitd/pkg/universe"
)

// clientMessage is the envelope rendering clients send back over the socket.
type clientMessage struct {
	Type      string  `json:"type"`
	TimeScale float64 `json:"timeScale,omitempty"`
	Parent    string  `json:"parent,omitempty"`
	On        bool    `json:"on,omitempty"`
}

type spawnReply struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	BodyID    int    `json:"bodyId"`
}

// client is one connected renderer. The mutex serializes writes to the
// connection between the broadcast loop and direct replies.
type client struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	session string
	bodyID  int // 0 until the client spawns a craft
}

// Hub owns a universe, ticks it at a fixed wall-clock interval and pushes a
// snapshot to every connected client after each tick. All universe access,
// including spacecraft insertion, is serialized through mu, so a spawn never
// interleaves with a tick.
type Hub struct {
	mu  sync.Mutex
	uni *universe.Universe

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*client

	interval time.Duration
	upgrader websocket.Upgrader
}

// New creates a hub around uni, ticking every interval once Run is called.
func New(uni *universe.Universe, interval time.Duration) *Hub {
	return &Hub{
		uni:      uni,
		clients:  make(map[*websocket.Conn]*client),
		interval: interval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Run drives the tick loop until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.mu.Lock()
			h.uni.Update()
			snap := h.uni.Snapshot()
			h.mu.Unlock()
			h.broadcast(snap)
		}
	}
}

func (h *Hub) broadcast(snap universe.Snapshot) {
	h.clientsMu.RLock()
	var failed []*websocket.Conn
	for conn, c := range h.clients {
		c.mu.Lock()
		err := conn.WriteJSON(snap)
		c.mu.Unlock()
		if err != nil {
			log.Printf("websocket write: %v", err)
			conn.Close()
			failed = append(failed, conn)
		}
	}
	h.clientsMu.RUnlock()

	if len(failed) > 0 {
		h.clientsMu.Lock()
		for _, conn := range failed {
			delete(h.clients, conn)
		}
		h.clientsMu.Unlock()
	}
}

// HandleWS upgrades the request and serves the client until the connection
// closes. The first frame sent is a snapshot so the client can render
// before the next tick lands.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	c := &client{conn: conn}
	h.clientsMu.Lock()
	h.clients[conn] = c
	h.clientsMu.Unlock()
	defer func() {
		h.clientsMu.Lock()
		delete(h.clients, conn)
		h.clientsMu.Unlock()
	}()

	h.mu.Lock()
	snap := h.uni.Snapshot()
	h.mu.Unlock()
	c.mu.Lock()
	err = conn.WriteJSON(snap)
	c.mu.Unlock()
	if err != nil {
		return
	}

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		h.handleMessage(c, msg)
	}
}

func (h *Hub) handleMessage(c *client, msg clientMessage) {
	switch msg.Type {
	case "timeScale":
		h.mu.Lock()
		h.uni.TimeScale = msg.TimeScale
		h.mu.Unlock()
		log.Printf("time scale set to %g", msg.TimeScale)

	case "spawn":
		parent := msg.Parent
		if parent == "" {
			parent = "earth"
		}
		h.mu.Lock()
		id, err := h.uni.SpawnSpacecraft(parent)
		h.mu.Unlock()
		if err != nil {
			log.Printf("spawn: %v", err)
			return
		}
		c.session = newSessionID()
		c.bodyID = id
		log.Printf("spawned body %d for session %s", id, c.session)

		if c.conn != nil {
			c.mu.Lock()
			err = c.conn.WriteJSON(spawnReply{Type: "spawned", SessionID: c.session, BodyID: id})
			c.mu.Unlock()
			if err != nil {
				log.Printf("websocket write: %v", err)
			}
		}

	case "thrust":
		if c.bodyID == 0 {
			return
		}
		h.mu.Lock()
		if b := h.uni.BodyByID(c.bodyID); b != nil {
			b.Thrust = msg.On
		}
		h.mu.Unlock()

	default:
		log.Printf("websocket: unknown message type %q", msg.Type)
	}
}
