// Package memory keeps per-user conversation history in process memory.
// Nothing here survives a restart.
package memory

import (
	"sync"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a user's conversation.
type Message struct {
	Role    string
	Content string
}

type session struct {
	turns    []Message
	lastSeen time.Time

	// lock serializes one full exchange (append user turn, call the model,
	// append assistant turn) per user. Distinct users never contend.
	lock sync.Mutex
}

// Store maps user ids to their conversation sessions. Session count is
// capped; the least-recently-active session is evicted once the cap is hit.
type Store struct {
	mu          sync.Mutex
	sessions    map[int64]*session
	maxSessions int
}

func NewStore(maxSessions int) *Store {
	if maxSessions <= 0 {
		maxSessions = 1000
	}
	return &Store{
		sessions:    make(map[int64]*session),
		maxSessions: maxSessions,
	}
}

func (s *Store) getOrCreateLocked(userID int64) *session {
	sess := s.sessions[userID]
	if sess == nil {
		if len(s.sessions) >= s.maxSessions {
			s.evictOldestLocked()
		}
		sess = &session{}
		s.sessions[userID] = sess
	}
	sess.lastSeen = time.Now()
	return sess
}

func (s *Store) evictOldestLocked() {
	var oldestID int64
	var oldest time.Time
	first := true
	for id, sess := range s.sessions {
		if first || sess.lastSeen.Before(oldest) {
			oldestID = id
			oldest = sess.lastSeen
			first = false
		}
	}
	if !first {
		delete(s.sessions, oldestID)
	}
}

// Append adds a message to the user's session, creating it if absent.
func (s *Store) Append(userID int64, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(userID)
	sess.turns = append(sess.turns, Message{Role: role, Content: content})
}

// Recent returns the last n messages for the user in chronological order.
// Returns an empty slice when the user has no session.
func (s *Store) Recent(userID int64, n int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessions[userID]
	if sess == nil || n <= 0 {
		return nil
	}

	turns := sess.turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}

	out := make([]Message, len(turns))
	copy(out, turns)
	return out
}

// LockUser acquires the user's exchange lock and returns the unlock func.
// Callers hold it across a full append/complete/append exchange so two
// concurrent messages from one user cannot interleave their history.
func (s *Store) LockUser(userID int64) (unlock func()) {
	s.mu.Lock()
	sess := s.getOrCreateLocked(userID)
	s.mu.Unlock()

	sess.lock.Lock()
	return sess.lock.Unlock
}

// Sessions reports the current number of live sessions.
func (s *Store) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
