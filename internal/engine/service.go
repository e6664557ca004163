package engine

import (
	"database/sql"
	"math/rand"
	"sync"
	"time"
)

// Broadcaster pushes an event to every live connection of a user. Delivery
// is best-effort; the engine never blocks on it.
type Broadcaster interface {
	Broadcast(userID int64, event string, payload any)
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(int64, string, any) {}

// Service owns the reward core: all progress mutations go through it, one
// writer per user at a time.
type Service struct {
	db  *sql.DB
	hub Broadcaster

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex

	now        func() time.Time
	rollReward func() int
}

func NewService(db *sql.DB, hub Broadcaster) *Service {
	if hub == nil {
		hub = noopBroadcaster{}
	}
	return &Service{
		db:        db,
		hub:       hub,
		userLocks: map[int64]*sync.Mutex{},
		now:       time.Now,
		rollReward: func() int {
			return MinTaskReward + rand.Intn(MaxTaskReward-MinTaskReward+1)
		},
	}
}

// userLock returns the mutex serializing progress mutations for one user.
// Locks are never evicted; the map grows with the active user set, a few
// dozen bytes per user.
func (s *Service) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[userID] = l
	}
	return l
}
