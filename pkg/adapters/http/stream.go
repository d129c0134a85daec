package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Event is one message on a net's event stream.
type Event struct {
	Type string `json:"type"`
	Net  string `json:"net"`
	Data any    `json:"data,omitempty"`
}

// StreamManager fans net events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // net id -> set of channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a buffered channel for id. The returned func
// unregisters and closes it.
func (sm *StreamManager) Subscribe(id string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[id]; !ok {
		sm.subscribers[id] = make(map[chan<- string]struct{})
	}
	sm.subscribers[id][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[id]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, id)
			}
		}
	}
}

// Broadcast delivers msg to every subscriber of id. Slow subscribers miss
// messages rather than block the sender.
func (sm *StreamManager) Broadcast(id string, msg string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sent := 0
	for ch := range sm.subscribers[id] {
		select {
		case ch <- msg:
			sent++
		default:
			slog.Warn("SSE: Client buffer full, dropping message", "net", id)
		}
	}
	return sent
}

// Subscribers returns the number of live subscriptions for id.
func (sm *StreamManager) Subscribers(id string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[id])
}

func (s *Server) broadcast(id, kind string, data any) {
	msg, err := json.Marshal(Event{Type: kind, Net: id, Data: data})
	if err != nil {
		s.Logger.Error("Event encode failed", "err", err)
		return
	}
	s.Streams.Broadcast(id, string(msg))
}

// SubscribeEvents handles GET /nets/{id}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	id := chi.URLParam(r, "id")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()
	s.Logger.Info("SSE: Subscribed", "net", id)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: Client disconnected", "net", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
