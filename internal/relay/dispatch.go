package relay

import (
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/protocol"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/transport"
)

// dispatch decodes one frame from rec and performs its effect. Frames which
// cannot be decoded are dropped without a reply.
func (r *Relay) dispatch(rec *record, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		rec.logger.WithError(err).Debug("dropping message")

		return
	}

	switch m := msg.(type) {
	case protocol.JoinRequest:
		r.assign(rec, m.Role)

	case protocol.StateUpdate:
		if s, ok := r.sessionOf(rec); ok {
			r.forward(rec, s, m.Peer(rec.role))
		}

	case protocol.ShotEvent:
		if s, ok := r.sessionOf(rec); ok {
			r.forward(rec, s, m.Peer(rec.role, r.timestamp()))
		}

	case protocol.ScoreEvent:
		s, ok := r.sessionOf(rec)
		if !ok || m.Kind != protocol.KindEnemy {
			return
		}

		s.addPoint(rec.role)
		r.broadcastScore(s)

	case protocol.ResetRequest:
		if s, ok := r.sessionOf(rec); ok {
			r.resetScores(s)
		}
	}
}

// sessionOf returns the session rec is assigned to.
func (r *Relay) sessionOf(rec *record) (*Session, bool) {
	if rec.state != assigned {
		rec.logger.Debug("dropping message from unassigned connection")

		return nil, false
	}

	return r.sessions.get(rec.sessionID)
}

// forward sends msg to the other slot of s. Nothing is queued when the peer
// slot is empty or its connection is no longer open.
func (r *Relay) forward(rec *record, s *Session, msg interface{}) {
	peer := s.Slot(rec.role.Other())
	if peer == nil || !peer.IsOpen() {
		return
	}

	r.send(peer, msg)
}

// resetScores zeroes both counters of s and broadcasts the result.
func (r *Relay) resetScores(s *Session) {
	s.resetScores()
	r.broadcastScore(s)
}

// broadcastScore sends the same score snapshot to every occupied, open slot.
func (r *Relay) broadcastScore(s *Session) {
	for _, role := range []protocol.Role{protocol.RoleP1, protocol.RoleP2} {
		c := s.Slot(role)
		if c == nil || !c.IsOpen() {
			continue
		}

		r.sendScore(c, s)
	}
}

func (r *Relay) sendScore(c transport.Conn, s *Session) {
	p1, p2 := s.Scores()
	r.send(c, protocol.NewScoreState(p1, p2, r.cfg.PointsToWin))
}

// send encodes msg and enqueues it on c. Failures are logged and otherwise
// ignored.
func (r *Relay) send(c transport.Conn, msg interface{}) {
	data, err := protocol.Encode(msg)
	if err != nil {
		r.logger.WithError(err).Error("error encoding message")

		return
	}

	if err = c.Send(data); err != nil {
		r.logger.
			WithError(err).
			WithField("conn_id", c.ID()).
			Warn("error sending message")
	}
}
