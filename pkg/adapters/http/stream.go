package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/namecardai/namecard/internal/pitch"
	"github.com/namecardai/namecard/internal/tutorial"
	"github.com/namecardai/namecard/internal/wizard"
	"github.com/namecardai/namecard/pkg/session"
)

// Event names pushed over SSE.
const (
	EventTutorial = "tutorial"
	EventSignup   = "signup"
	EventPitch    = "pitch"
	EventHeader   = "header"
	EventContent  = "content"
)

// DefaultKeepAlive is the ping interval of an idle event stream.
const DefaultKeepAlive = 15 * time.Second

var allEvents = []string{EventTutorial, EventSignup, EventPitch, EventHeader, EventContent}

// Event is one server-sent message.
type Event struct {
	Name string
	Data []byte
}

// HeaderState is the derived header style of a session.
type HeaderState struct {
	ScrollY  int  `json:"scroll_y"`
	Scrolled bool `json:"scrolled"`
}

func headerOf(sess *session.Session) HeaderState {
	return HeaderState{ScrollY: sess.Scroll.Get(), Scrolled: sess.Scrolled.Get()}
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{} // SessionID -> Set of Channels
	bridges     map[string]*bridge
	logger      *slog.Logger
}

// bridge forwards controller snapshots of one session to its subscribers.
// It is reference counted by the number of open streams.
type bridge struct {
	refs int
	stop func()
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan Event]struct{}),
		bridges:     make(map[string]*bridge),
		logger:      logger,
	}
}

// Subscribe opens a stream for sess. The first stream of a session attaches
// to its controllers; the last one to close detaches.
func (sm *StreamManager) Subscribe(sess *session.Session) (<-chan Event, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Event, 16)
	if _, ok := sm.subscribers[sess.ID]; !ok {
		sm.subscribers[sess.ID] = make(map[chan Event]struct{})
	}
	sm.subscribers[sess.ID][ch] = struct{}{}

	b, ok := sm.bridges[sess.ID]
	if !ok {
		// Controller Subscribe does not call back synchronously, so attaching
		// under the lock cannot deadlock with Broadcast.
		b = &bridge{stop: sm.attach(sess)}
		sm.bridges[sess.ID] = b
	}
	b.refs++

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			var stop func()
			if subs, ok := sm.subscribers[sess.ID]; ok {
				delete(subs, ch)
				close(ch)
				if len(subs) == 0 {
					delete(sm.subscribers, sess.ID)
				}
			}
			if b, ok := sm.bridges[sess.ID]; ok {
				b.refs--
				if b.refs <= 0 {
					delete(sm.bridges, sess.ID)
					stop = b.stop
				}
			}
			sm.mu.Unlock()
			if stop != nil {
				stop()
			}
		})
	}
}

func (sm *StreamManager) attach(sess *session.Session) func() {
	id := sess.ID
	emit := func(name string, v any) {
		data, err := json.Marshal(v)
		if err != nil {
			sm.logger.Error("SSE: encode failed", "event", name, "error", err)
			return
		}
		sm.Broadcast(id, Event{Name: name, Data: data})
	}
	unsubs := []func(){
		sess.Tutorial.Subscribe(func(s tutorial.Snapshot) { emit(EventTutorial, s) }),
		sess.Wizard.Subscribe(func(s wizard.Snapshot) { emit(EventSignup, s) }),
		sess.Pitch.Subscribe(func(s pitch.Snapshot) { emit(EventPitch, s) }),
		sess.Scrolled.Subscribe(func(bool) { emit(EventHeader, headerOf(sess)) }),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Broadcast sends e to every stream of sessionID without blocking.
func (sm *StreamManager) Broadcast(sessionID string, e Event) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- e:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "session_id", sessionID, "event", e.Name)
		}
	}
}

// BroadcastAll sends e to every open stream.
func (sm *StreamManager) BroadcastAll(e Event) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for id, subs := range sm.subscribers {
		for ch := range subs {
			select {
			case ch <- e:
			default:
				sm.logger.Warn("SSE: Client buffer full, dropping message", "session_id", id, "event", e.Name)
			}
		}
	}
}

// Streams reports the number of open streams.
func (sm *StreamManager) Streams() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	n := 0
	for _, subs := range sm.subscribers {
		n += len(subs)
	}
	return n
}

// SubscribeEvents handles GET /api/sessions/{id}/events.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.apiSession(w, r)
	if !ok {
		return
	}
	watch, err := queryString(r, "watch")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	watchList := allEvents
	if watch != nil && *watch != "" {
		watchList = nil
		for _, name := range strings.Split(*watch, ",") {
			watchList = append(watchList, strings.TrimSpace(name))
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	ch, cancel := s.Streams.Subscribe(sess)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	initial := map[string]any{
		EventTutorial: sess.Tutorial.Snapshot(),
		EventSignup:   sess.Wizard.Snapshot(),
		EventPitch:    sess.Pitch.Snapshot(),
		EventHeader:   headerOf(sess),
	}
	for _, name := range watchList {
		if v, ok := initial[name]; ok {
			if data, err := json.Marshal(v); err == nil {
				writeEvent(w, Event{Name: name, Data: data})
			}
		}
	}
	flusher.Flush()
	s.logger.Debug("SSE: Subscribed", "session_id", sess.ID, "watch", watchList)

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fmt.Fprintf(w, "event: ping\ndata: keepalive\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			s.logger.Debug("SSE Client Disconnected", "session_id", sess.ID)
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if !slices.Contains(watchList, e.Name) {
				continue
			}
			writeEvent(w, e)
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, e Event) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Name, e.Data)
}
