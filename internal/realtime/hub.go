// Package realtime fans snapshots out to every connected client and runs
// each session's assignment tracker against the new snapshot.
package realtime

import (
	"encoding/json"
	"sync"

	"bugtracker-api/internal/models"
	"bugtracker-api/internal/notify"
)

// Client represents a single connected client. The network conn is managed
// by the websocket handler; the hub only pushes bytes.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Session pairs a connected client with its assignment tracker. The
// tracker is guarded here because snapshots arrive on mutator goroutines
// while acknowledgements arrive on the connection's read loop.
type Session struct {
	User   string
	Client Client

	mu      sync.Mutex
	tracker *notify.Tracker
}

// NewSession builds a session for a user's connection.
func NewSession(user string, client Client) *Session {
	return &Session{
		User:    user,
		Client:  client,
		tracker: notify.NewTracker(user),
	}
}

// Observe feeds a snapshot to the session's tracker.
func (s *Session) Observe(snapshot []models.Task) *notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Observe(snapshot)
}

// Acknowledge dismisses the session's outstanding assignment alert and
// returns the next queued one, if any.
func (s *Session) Acknowledge(taskID string) *notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Acknowledge(taskID)
}

// Hub maintains active sessions and publishes snapshots to them.
type Hub struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[*Session]struct{})}
}

// Register adds a session.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s] = struct{}{}
}

// Unregister removes a session.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s)
}

// SnapshotEvent is the payload every client receives when the task set
// changes anywhere, including from other clients.
type SnapshotEvent struct {
	Type  string        `json:"type"`
	Tasks []models.Task `json:"tasks"`
}

// AssignmentEvent is the one-shot alert for a manually assigned task,
// delivered only to the assignee's sessions.
type AssignmentEvent struct {
	Type string               `json:"type"`
	Task *notify.Notification `json:"task"`
}

// Publish delivers the snapshot to every session, then lets each session's
// tracker inspect the delta for a new manual assignment.
func (h *Hub) Publish(snapshot []models.Task) {
	msg, err := json.Marshal(SnapshotEvent{Type: "snapshot", Tasks: snapshot})
	if err != nil {
		return
	}

	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		if ok := s.Client.Send(msg); !ok {
			// client write failed; the ws handler cleans it up on its side
			continue
		}
		if n := s.Observe(snapshot); n != nil {
			if alert, err := json.Marshal(AssignmentEvent{Type: "assignment", Task: n}); err == nil {
				s.Client.Send(alert)
			}
		}
	}
}
