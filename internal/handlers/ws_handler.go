package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"bugtracker-api/internal/realtime"
	"bugtracker-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// wsClient implements realtime.Client by wrapping a websocket connection.
// Sends are serialized: snapshots and alerts arrive on mutator goroutines,
// and gorilla/websocket supports at most one concurrent writer per
// connection.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) Send(message []byte) bool {
	if c == nil || c.conn == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return false
	}
	return true
}

func (c *wsClient) Close() {
	if c != nil && c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is already handled at Gin level; allow upgrade from any origin here
		return true
	},
}

// ackMessage is the only client-to-server frame: dismissing an assignment
// alert. Dismissal is explicit and one-shot.
type ackMessage struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId"`
}

// WSHandler upgrades connections into hub sessions and keeps them fed.
type WSHandler struct {
	hub   *realtime.Hub
	store store.Store
}

// NewWSHandler wires the websocket endpoint to the hub and store.
func NewWSHandler(hub *realtime.Hub, s store.Store) *WSHandler {
	return &WSHandler{hub: hub, store: s}
}

// Handle upgrades the connection and registers the session with the hub.
// It requires JWT middleware to have set "username" in context. The first
// frame out is the current snapshot, which also primes the session's
// assignment tracker so the initial snapshot never raises an alert.
func (h *WSHandler) Handle(c *gin.Context) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade error:", err)
		return
	}

	client := &wsClient{conn: conn}
	session := realtime.NewSession(username, client)

	if tasks, err := h.store.List(c.Request.Context()); err == nil {
		if msg, err := json.Marshal(realtime.SnapshotEvent{Type: "snapshot", Tasks: tasks}); err == nil {
			client.Send(msg)
		}
		session.Observe(tasks) // baseline, never notifies
	}
	h.hub.Register(session)

	// Heartbeat: send periodic pings; close on error
	pingTicker := time.NewTicker(30 * time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-pingTicker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
					// ping failed; reader loop will exit on next error
					return
				}
			}
		}
	}()
	defer func() {
		close(done)
		pingTicker.Stop()
		h.hub.Unregister(session)
		client.Close()
	}()

	// Reader loop: handle assignment acks, keep connection alive via pongs
	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Normal close or error; exit loop
			return
		}
		var msg ackMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "ack_assignment" && msg.TaskID != "" {
			// dismissing one alert releases the next queued assignment
			if next := session.Acknowledge(msg.TaskID); next != nil {
				if alert, err := json.Marshal(realtime.AssignmentEvent{Type: "assignment", Task: next}); err == nil {
					client.Send(alert)
				}
			}
		}
	}
}
