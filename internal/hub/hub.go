// Package hub fans events out to every live connection of a user. Nothing
// here is persisted: a mailbox exists from subscribe to close, and
// undelivered messages die with it.
package hub

import (
	"encoding/json"
	"log"
	"sync"
)

// mailboxSize bounds a single connection's backlog. A client that cannot
// drain this many events loses the excess; delivery is at-most-once.
const mailboxSize = 32

// Message is one serialized event ready for transport framing.
type Message struct {
	Event string
	Data  []byte
}

// Subscriber is the mailbox for one live connection.
type Subscriber struct {
	userID int64
	ch     chan Message
	hub    *Hub

	closeOnce sync.Once
}

// C is the receive side of the mailbox. It is closed by Close.
func (s *Subscriber) C() <-chan Message {
	return s.ch
}

// Close deregisters the mailbox; pending messages are discarded.
func (s *Subscriber) Close() {
	s.closeOnce.Do(func() {
		s.hub.unsubscribe(s)
	})
}

// Hub is the process-wide registry of user mailboxes. One coarse lock
// guards the registry; every operation under it is O(connections per user).
type Hub struct {
	mu   sync.Mutex
	subs map[int64]map[*Subscriber]struct{}
}

func New() *Hub {
	return &Hub{subs: map[int64]map[*Subscriber]struct{}{}}
}

// Subscribe registers a new mailbox for userID. The caller must Close it
// when the connection ends.
func (h *Hub) Subscribe(userID int64) *Subscriber {
	sub := &Subscriber{
		userID: userID,
		ch:     make(chan Message, mailboxSize),
		hub:    h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[userID]
	if !ok {
		set = map[*Subscriber]struct{}{}
		h.subs[userID] = set
	}
	set[sub] = struct{}{}
	return sub
}

func (h *Hub) unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[sub.userID]
	if !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.userID)
	}
	close(sub.ch)
}

// Broadcast serializes payload once and appends it to every mailbox of
// userID. It never blocks: a full mailbox drops the message.
func (h *Hub) Broadcast(userID int64, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("hub: drop %s for user %d: %v", event, userID, err)
		return
	}
	msg := Message{Event: event, Data: data}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[userID] {
		select {
		case sub.ch <- msg:
		default:
		}
	}
}

// Connections reports how many mailboxes are registered for userID.
func (h *Hub) Connections(userID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}
