package protocol

import "encoding/json"

type (
	// ScoreState carries both counters of a session under one snapshot.
	ScoreState struct {
		Type        string `json:"type"`
		ScoreP1     int    `json:"scoreP1"`
		ScoreP2     int    `json:"scoreP2"`
		PointsToWin int    `json:"pointsToWin"`
	}

	// PeerState is a StateUpdate as delivered to the other slot.
	PeerState struct {
		Type     string   `json:"type"`
		From     Role     `json:"from"`
		SnapX    float64  `json:"snapX"`
		SnapY    float64  `json:"snapY"`
		Crouch   float64  `json:"crouch"`
		AimX     float64  `json:"aimX"`
		AimY     float64  `json:"aimY"`
		Exposure float64  `json:"exposure"`
		TargetX  *float64 `json:"targetX"`
		TargetY  *float64 `json:"targetY"`
		TargetZ  *float64 `json:"targetZ"`
		T        float64  `json:"t"`
	}

	// PeerShot is a ShotEvent as delivered to the other slot.
	PeerShot struct {
		Type     string          `json:"type"`
		From     Role            `json:"from"`
		Start    json.RawMessage `json:"start"`
		Velocity json.RawMessage `json:"velocity"`
		Radius   *float64        `json:"radius,omitempty"`
		Color    json.RawMessage `json:"color,omitempty"`
		T        float64         `json:"t"`
	}
)

// NewScoreState returns a score-state message.
func NewScoreState(scoreP1, scoreP2, pointsToWin int) ScoreState {
	return ScoreState{
		Type:        TypeScoreState,
		ScoreP1:     scoreP1,
		ScoreP2:     scoreP2,
		PointsToWin: pointsToWin,
	}
}

// Peer returns the message forwarded to the other slot of the sender's session.
func (s StateUpdate) Peer(from Role) PeerState {
	return PeerState{
		Type:     TypePeerState,
		From:     from,
		SnapX:    s.SnapX,
		SnapY:    s.SnapY,
		Crouch:   s.Crouch,
		AimX:     s.AimX,
		AimY:     s.AimY,
		Exposure: s.Exposure,
		TargetX:  s.TargetX,
		TargetY:  s.TargetY,
		TargetZ:  s.TargetZ,
		T:        s.T,
	}
}

// Peer returns the message forwarded to the other slot of the sender's
// session. now is used as the timestamp when the sender supplied none.
func (s ShotEvent) Peer(from Role, now float64) PeerShot {
	t := now
	if s.T != nil {
		t = *s.T
	}

	return PeerShot{
		Type:     TypePeerShot,
		From:     from,
		Start:    s.Start,
		Velocity: s.Velocity,
		Radius:   s.Radius,
		Color:    s.Color,
		T:        t,
	}
}
