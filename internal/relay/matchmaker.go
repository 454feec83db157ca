package relay

import (
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/protocol"
)

// assign places rec into the first session, in creation order, whose role
// slot is open, creating a new session when none qualifies. A record that is
// already assigned only has its score state re-sent.
func (r *Relay) assign(rec *record, role protocol.Role) {
	if rec.state == assigned {
		if s, ok := r.sessions.get(rec.sessionID); ok {
			rec.logger.Debug("resync on repeated join")
			r.sendScore(rec.conn, s)
		}

		return
	}

	s := r.sessions.firstOpen(role)
	if s == nil {
		s = r.sessions.create()
		r.logger.WithField("session_id", s.ID).Debug("session created")
	}

	s.claim(role, rec.conn)
	rec.assign(s, role)
	rec.logger.
		WithField("occupancy", s.Occupancy()).
		Info("joined session")

	r.publish()
	r.sendScore(rec.conn, s)
}
