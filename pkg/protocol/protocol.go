// Package protocol implements the JSON messages exchanged between the relay
// and its clients.
//
// Every inbound message is decoded into one variant of the closed Inbound set.
// Numeric fields are validated once, at decode time, and replaced by their
// documented default when absent or not numeric.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound type tags.
const (
	TypeJoinRequest  = "join-request"
	TypeStateUpdate  = "state-update"
	TypeShotEvent    = "shot-event"
	TypeScoreEvent   = "score-event"
	TypeResetRequest = "reset-request"
)

// Outbound type tags.
const (
	TypeScoreState = "score-state"
	TypePeerState  = "peer-state"
	TypePeerShot   = "peer-shot"
)

// KindEnemy is the only score-event kind which changes a score.
const KindEnemy = "enemy"

var (
	// ErrMalformed is returned when a frame is not a JSON object.
	ErrMalformed = errors.New("malformed message")

	// ErrMissingType is returned when the type discriminator is absent or not a string.
	ErrMissingType = errors.New("missing message type")
)

// UnknownTypeError is returned when the type discriminator names no known message.
type UnknownTypeError string

func (e UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown message type: %q", string(e))
}

// Role is the name of a slot within a session.
type Role string

const (
	RoleNone Role = ""
	RoleP1   Role = "p1"
	RoleP2   Role = "p2"
)

// Valid reports whether r names a slot.
func (r Role) Valid() bool {
	return r == RoleP1 || r == RoleP2
}

// Other returns the opposite slot name.
func (r Role) Other() Role {
	switch r {
	case RoleP1:
		return RoleP2
	case RoleP2:
		return RoleP1
	default:
		return RoleNone
	}
}

type (
	// Inbound is implemented by JoinRequest, StateUpdate, ShotEvent,
	// ScoreEvent and ResetRequest only.
	Inbound interface {
		inbound()
	}

	// JoinRequest asks to be matched into a session under Role.
	JoinRequest struct {
		Role Role
	}

	// StateUpdate is a player state snapshot to forward to the peer.
	StateUpdate struct {
		SnapX    float64
		SnapY    float64
		Crouch   float64
		AimX     float64
		AimY     float64
		Exposure float64

		// Target coordinates are nil when the sender has no target, which is
		// distinct from a target at the origin.
		TargetX *float64
		TargetY *float64
		TargetZ *float64

		T float64
	}

	// ShotEvent is a fired shot to forward to the peer.
	ShotEvent struct {
		Start    json.RawMessage
		Velocity json.RawMessage
		Radius   *float64
		Color    json.RawMessage

		// T is nil when the sender supplied no numeric timestamp.
		T *float64
	}

	// ScoreEvent reports a hit scored by the sender.
	ScoreEvent struct {
		Kind string
	}

	// ResetRequest asks for both scores of the sender's session to be zeroed.
	ResetRequest struct{}
)

func (JoinRequest) inbound()  {}
func (StateUpdate) inbound()  {}
func (ShotEvent) inbound()    {}
func (ScoreEvent) inbound()   {}
func (ResetRequest) inbound() {}

// Decode decodes one frame into its Inbound variant.
func Decode(data []byte) (Inbound, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	raw, ok := fields["type"]
	if !ok {
		return nil, ErrMissingType
	}

	typ, ok := stringValue(raw)
	if !ok {
		return nil, ErrMissingType
	}

	switch typ {
	case TypeJoinRequest:
		return JoinRequest{Role: RoleOr(fields["role"], RoleP1)}, nil

	case TypeStateUpdate:
		return StateUpdate{
			SnapX:    NumberOr(fields["snapX"], 0),
			SnapY:    NumberOr(fields["snapY"], 0),
			Crouch:   NumberOr(fields["crouch"], 0),
			AimX:     NumberOr(fields["aimX"], 0),
			AimY:     NumberOr(fields["aimY"], 0),
			Exposure: NumberOr(fields["exposure"], 0),
			TargetX:  OptionalNumber(fields["targetX"]),
			TargetY:  OptionalNumber(fields["targetY"]),
			TargetZ:  OptionalNumber(fields["targetZ"]),
			T:        NumberOr(fields["t"], 0),
		}, nil

	case TypeShotEvent:
		return ShotEvent{
			Start:    Passthrough(fields["start"]),
			Velocity: Passthrough(fields["velocity"]),
			Radius:   OptionalNumber(fields["radius"]),
			Color:    Passthrough(fields["color"]),
			T:        OptionalNumber(fields["t"]),
		}, nil

	case TypeScoreEvent:
		return ScoreEvent{Kind: StringOr(fields["kind"], "")}, nil

	case TypeResetRequest:
		return ResetRequest{}, nil
	}

	return nil, UnknownTypeError(typ)
}

// Encode encodes an outbound message.
func Encode(msg interface{}) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	return data, nil
}
