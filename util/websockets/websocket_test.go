package websockets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func startManager(t *testing.T) (*WebSocketManager, *httptest.Server) {
	t.Helper()
	m := NewWebSocketManager(zap.NewNop(), "http://localhost:5173")

	ctx, cancel := context.WithCancel(context.Background())
	go m.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = m.Serve(w, r, r.URL.Query().Get("user"))
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return m, srv
}

func dial(t *testing.T, srv *httptest.Server, user string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + user
	return websocket.DefaultDialer.Dial(url, header)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNotifyReachesEverySessionOfUser(t *testing.T) {
	m, srv := startManager(t)

	first, _, err := dial(t, srv, "u1", nil)
	if err != nil {
		t.Fatalf("dial returned error %v", err)
	}
	defer first.Close()
	second, _, err := dial(t, srv, "u1", nil)
	if err != nil {
		t.Fatalf("dial returned error %v", err)
	}
	defer second.Close()
	other, _, err := dial(t, srv, "u2", nil)
	if err != nil {
		t.Fatalf("dial returned error %v", err)
	}
	defer other.Close()

	waitFor(t, func() bool { return m.Connections("u1") == 2 && m.Connections("u2") == 1 })

	m.Notify("u1", Event{Type: EventTripUpdated, TripID: "trip-1", Day: 2})

	for _, conn := range []*websocket.Conn{first, second} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage returned error %v", err)
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if ev.Type != EventTripUpdated || ev.TripID != "trip-1" || ev.Day != 2 || ev.At.IsZero() {
			t.Errorf("event = %+v", ev)
		}
	}

	_ = other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Error("a different user should not receive the event")
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	m, srv := startManager(t)

	conn, _, err := dial(t, srv, "u1", nil)
	if err != nil {
		t.Fatalf("dial returned error %v", err)
	}
	waitFor(t, func() bool { return m.Connections("u1") == 1 })

	conn.Close()
	waitFor(t, func() bool { return m.Connections("u1") == 0 })
}

func TestRejectsForeignOrigin(t *testing.T) {
	_, srv := startManager(t)

	header := http.Header{"Origin": []string{"https://evil.example"}}
	if _, resp, err := dial(t, srv, "u1", header); err == nil {
		t.Fatal("expected the upgrade to be refused")
	} else if resp != nil && resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d; want 403", resp.StatusCode)
	}
}

func TestNotifyWithoutSessionsDoesNotBlock(t *testing.T) {
	m := NewWebSocketManager(zap.NewNop(), "")

	done := make(chan struct{})
	go func() {
		for i := 0; i < queueSize+10; i++ {
			m.Notify("nobody", Event{Type: EventTripDeleted})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked without a running manager")
	}
}

func TestNilManagerNotify(t *testing.T) {
	var m *WebSocketManager
	m.Notify("u1", Event{Type: EventTripUpdated})
}
