package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/helioslab/orbitd/pkg/universe"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestInitialSnapshotAndSpawn(t *testing.T) {
	uni := universe.NewSolarSystem(100, 1)
	hub := New(uni, time.Hour) // loop not started; ticks are driven by tests

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	conn := dial(t, srv)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snap universe.Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if len(snap.Bodies) != 6 {
		t.Fatalf("got %d bodies, want 6", len(snap.Bodies))
	}
	if snap.Bodies[0].Parent != 0 {
		t.Errorf("root parent: got %d, want 0", snap.Bodies[0].Parent)
	}

	if err := conn.WriteJSON(map[string]any{"type": "spawn"}); err != nil {
		t.Fatal(err)
	}
	var reply spawnReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read spawn reply: %v", err)
	}
	if reply.Type != "spawned" {
		t.Errorf("reply type: got %q", reply.Type)
	}
	if len(reply.SessionID) != 32 {
		t.Errorf("session id: got %q", reply.SessionID)
	}
	if reply.BodyID != 7 {
		t.Errorf("body id: got %d, want 7", reply.BodyID)
	}
}

func TestHandleMessageControls(t *testing.T) {
	uni := universe.NewSolarSystem(100, 1)
	hub := New(uni, time.Hour)

	hub.handleMessage(&client{}, clientMessage{Type: "timeScale", TimeScale: 2500})
	if uni.TimeScale != 2500 {
		t.Errorf("time scale: got %g", uni.TimeScale)
	}

	c := &client{}
	hub.handleMessage(c, clientMessage{Type: "spawn", Parent: "earth"})
	if c.bodyID == 0 {
		t.Fatal("spawn did not assign a body")
	}
	if c.session == "" {
		t.Error("spawn did not assign a session")
	}

	hub.handleMessage(c, clientMessage{Type: "thrust", On: true})
	if b := uni.BodyByID(c.bodyID); !b.Thrust {
		t.Error("thrust message did not reach the body")
	}
	hub.handleMessage(c, clientMessage{Type: "thrust", On: false})
	if b := uni.BodyByID(c.bodyID); b.Thrust {
		t.Error("thrust message did not clear the flag")
	}

	// Thrust without a spawned craft is ignored.
	hub.handleMessage(&client{}, clientMessage{Type: "thrust", On: true})

	// Spawning around an unknown body leaves the client unbound.
	c2 := &client{}
	hub.handleMessage(c2, clientMessage{Type: "spawn", Parent: "vulcan"})
	if c2.bodyID != 0 {
		t.Errorf("bad spawn assigned body %d", c2.bodyID)
	}
}

func TestTickLoopBroadcasts(t *testing.T) {
	uni := universe.NewSolarSystem(50, 1)
	hub := New(uni, 10*time.Millisecond)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	conn := dial(t, srv)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	// Initial snapshot, then at least one ticked broadcast.
	var snap universe.Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	for {
		if err := conn.ReadJSON(&snap); err != nil {
			t.Fatalf("read broadcast: %v", err)
		}
		if snap.SimTime >= 50 {
			break
		}
	}
}
