package relay

import (
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/protocol"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/transport"
)

// Session is a paired match context holding two role slots and a score pair.
type Session struct {
	ID uint64

	p1, p2           transport.Conn
	scoreP1, scoreP2 int
}

// Slot returns the connection occupying role, or nil.
func (s *Session) Slot(role protocol.Role) transport.Conn {
	switch role {
	case protocol.RoleP1:
		return s.p1
	case protocol.RoleP2:
		return s.p2
	default:
		return nil
	}
}

// Scores returns both counters.
func (s *Session) Scores() (p1, p2 int) {
	return s.scoreP1, s.scoreP2
}

// Occupancy returns the number of non-empty slots.
func (s *Session) Occupancy() int {
	n := 0
	if s.p1 != nil {
		n++
	}
	if s.p2 != nil {
		n++
	}

	return n
}

func (s *Session) claim(role protocol.Role, c transport.Conn) {
	switch role {
	case protocol.RoleP1:
		s.p1 = c
	case protocol.RoleP2:
		s.p2 = c
	}
}

// release empties role if c still occupies it.
func (s *Session) release(role protocol.Role, c transport.Conn) {
	if s.Slot(role) == c {
		s.claim(role, nil)
	}
}

func (s *Session) addPoint(role protocol.Role) {
	switch role {
	case protocol.RoleP1:
		s.scoreP1++
	case protocol.RoleP2:
		s.scoreP2++
	}
}

func (s *Session) resetScores() {
	s.scoreP1, s.scoreP2 = 0, 0
}

// sessionStore holds every live session in creation order. Accessed only
// from the relay loop goroutine.
type sessionStore struct {
	lastID   uint64
	sessions []*Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{}
}

// create registers a new session with both slots empty and both scores zero.
func (ss *sessionStore) create() *Session {
	ss.lastID++
	s := &Session{ID: ss.lastID}
	ss.sessions = append(ss.sessions, s)

	return s
}

func (ss *sessionStore) get(id uint64) (*Session, bool) {
	for _, s := range ss.sessions {
		if s.ID == id {
			return s, true
		}
	}

	return nil, false
}

func (ss *sessionStore) delete(id uint64) {
	for i, s := range ss.sessions {
		if s.ID == id {
			ss.sessions = append(ss.sessions[:i], ss.sessions[i+1:]...)

			return
		}
	}
}

// firstOpen returns the earliest created session with fewer than two
// occupants and role empty.
func (ss *sessionStore) firstOpen(role protocol.Role) *Session {
	for _, s := range ss.sessions {
		if s.Occupancy() < 2 && s.Slot(role) == nil {
			return s
		}
	}

	return nil
}

func (ss *sessionStore) len() int {
	return len(ss.sessions)
}

func (ss *sessionStore) paired() int {
	n := 0
	for _, s := range ss.sessions {
		if s.Occupancy() == 2 {
			n++
		}
	}

	return n
}
