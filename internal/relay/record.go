package relay

import (
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/protocol"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/transport"
	"github.com/sirupsen/logrus"
)

// recordState is the matchmaking state of a connection.
type recordState int

const (
	// unassigned connections hold no role and no session.
	unassigned recordState = iota

	// assigned connections hold exactly one slot in exactly one session.
	// A join-request in this state is a resync, never a reassignment.
	assigned
)

// record is the per-connection metadata kept by the registry.
type record struct {
	conn      transport.Conn
	state     recordState
	role      protocol.Role
	sessionID uint64
	alive     bool
	logger    *logrus.Entry
}

// assign moves the record from unassigned to assigned.
func (rec *record) assign(s *Session, role protocol.Role) {
	rec.state = assigned
	rec.role = role
	rec.sessionID = s.ID
	rec.logger = rec.logger.WithFields(logrus.Fields{
		"session_id": s.ID,
		"role":       role,
	})
}
