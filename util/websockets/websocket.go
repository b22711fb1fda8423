package websockets

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
	queueSize      = 256
)

// WebSocketManager tracks open sessions per user and fans events out to them.
type WebSocketManager struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}

	direct chan DirectMessage
}

// NewWebSocketManager accepts upgrades from allowedOrigin, or from clients that
// send no Origin header at all.
func NewWebSocketManager(logger *zap.Logger, allowedOrigin string) *WebSocketManager {
	return &WebSocketManager{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
		logger:  logger,
		clients: make(map[string]map[*Client]struct{}),
		direct:  make(chan DirectMessage, queueSize),
	}
}

// Run delivers queued messages until ctx is cancelled, then closes every session.
func (m *WebSocketManager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case msg := <-m.direct:
			m.deliver(msg)
		}
	}
}

// Notify queues ev for every session of userID. It never blocks; when the
// queue is full the event is dropped.
func (m *WebSocketManager) Notify(userID string, ev Event) {
	if m == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		m.logger.Error("marshal websocket event", zap.Error(err))
		return
	}

	select {
	case m.direct <- DirectMessage{ReceiverID: userID, Payload: payload}:
	default:
		m.logger.Warn("websocket queue full, dropping event", zap.String("user_id", userID), zap.String("type", ev.Type))
	}
}

// Connections returns how many sessions userID has open.
func (m *WebSocketManager) Connections(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID])
}

// Serve upgrades the request and blocks until the session ends.
func (m *WebSocketManager) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{conn: conn, userID: userID, send: make(chan []byte, sendBuffer)}
	m.register(client)

	go m.writePump(client)
	m.readPump(client)
	return nil
}

func (m *WebSocketManager) register(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clients[c.userID] == nil {
		m.clients[c.userID] = make(map[*Client]struct{})
	}
	m.clients[c.userID][c] = struct{}{}
	m.logger.Debug("websocket client connected", zap.String("user_id", c.userID))
}

func (m *WebSocketManager) unregister(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions, ok := m.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := sessions[c]; !ok {
		return
	}
	delete(sessions, c)
	if len(sessions) == 0 {
		delete(m.clients, c.userID)
	}
	close(c.send)
	m.logger.Debug("websocket client disconnected", zap.String("user_id", c.userID))
}

func (m *WebSocketManager) deliver(msg DirectMessage) {
	m.mu.RLock()
	var slow []*Client
	for c := range m.clients[msg.ReceiverID] {
		select {
		case c.send <- msg.Payload:
		default:
			slow = append(slow, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range slow {
		m.unregister(c)
	}
}

func (m *WebSocketManager) closeAll() {
	m.mu.RLock()
	var all []*Client
	for _, sessions := range m.clients {
		for c := range sessions {
			all = append(all, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range all {
		m.unregister(c)
	}
}

// readPump discards client input; it exists to process control frames and
// notice disconnects.
func (m *WebSocketManager) readPump(c *Client) {
	defer func() {
		m.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.logger.Debug("websocket read error", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}
	}
}

func (m *WebSocketManager) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
