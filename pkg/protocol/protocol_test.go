package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func float(v float64) *float64 {
	return &v
}

func Test_Decode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want Inbound
	}{
		{
			name: "join with role",
			in:   `{"type":"join-request","role":"p2"}`,
			want: JoinRequest{Role: RoleP2},
		},
		{
			name: "join defaults to p1",
			in:   `{"type":"join-request"}`,
			want: JoinRequest{Role: RoleP1},
		},
		{
			name: "join with invalid role defaults to p1",
			in:   `{"type":"join-request","role":"p3"}`,
			want: JoinRequest{Role: RoleP1},
		},
		{
			name: "join with non-string role defaults to p1",
			in:   `{"type":"join-request","role":2}`,
			want: JoinRequest{Role: RoleP1},
		},
		{
			name: "state defaults missing and non-numeric fields",
			in:   `{"type":"state-update","snapX":1.5,"snapY":"2","crouch":null,"targetX":0,"targetY":"x"}`,
			want: StateUpdate{
				SnapX:   1.5,
				TargetX: float(0),
			},
		},
		{
			name: "state passes every numeric field",
			in: `{"type":"state-update","snapX":1,"snapY":2,"crouch":3,"aimX":4,"aimY":5,` +
				`"exposure":6,"targetX":7,"targetY":8,"targetZ":9,"t":10}`,
			want: StateUpdate{
				SnapX: 1, SnapY: 2, Crouch: 3, AimX: 4, AimY: 5, Exposure: 6,
				TargetX: float(7), TargetY: float(8), TargetZ: float(9), T: 10,
			},
		},
		{
			name: "shot passes vectors through",
			in:   `{"type":"shot-event","start":{"x":1},"velocity":[1,2,3],"radius":0.5,"color":"#fff","t":99}`,
			want: ShotEvent{
				Start:    json.RawMessage(`{"x":1}`),
				Velocity: json.RawMessage(`[1,2,3]`),
				Radius:   float(0.5),
				Color:    json.RawMessage(`"#fff"`),
				T:        float(99),
			},
		},
		{
			name: "shot without optional fields",
			in:   `{"type":"shot-event","radius":"big"}`,
			want: ShotEvent{},
		},
		{
			name: "score kind",
			in:   `{"type":"score-event","kind":"enemy"}`,
			want: ScoreEvent{Kind: KindEnemy},
		},
		{
			name: "score non-string kind",
			in:   `{"type":"score-event","kind":1}`,
			want: ScoreEvent{},
		},
		{
			name: "reset",
			in:   `{"type":"reset-request","extra":true}`,
			want: ResetRequest{},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Decode([]byte(tt.in))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func Test_DecodeErrors(t *testing.T) {
	t.Parallel()
	_, err := Decode([]byte(`not json`))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = Decode([]byte(`[1,2]`))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = Decode([]byte(`{"role":"p1"}`))
	require.ErrorIs(t, err, ErrMissingType)

	_, err = Decode([]byte(`{"type":7}`))
	require.ErrorIs(t, err, ErrMissingType)

	_, err = Decode([]byte(`null`))
	require.ErrorIs(t, err, ErrMissingType)

	_, err = Decode([]byte(`{"type":"dance"}`))
	require.Equal(t, UnknownTypeError("dance"), err)
}

func Test_EncodePeerState(t *testing.T) {
	t.Parallel()
	in, err := Decode([]byte(`{"type":"state-update","snapX":1.5}`))
	require.NoError(t, err)

	data, err := Encode(in.(StateUpdate).Peer(RoleP1))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"type":"peer-state","from":"p1",
		"snapX":1.5,"snapY":0,"crouch":0,"aimX":0,"aimY":0,"exposure":0,
		"targetX":null,"targetY":null,"targetZ":null,"t":0
	}`, string(data))
}

func Test_EncodePeerShot(t *testing.T) {
	t.Parallel()
	in, err := Decode([]byte(`{"type":"shot-event"}`))
	require.NoError(t, err)

	data, err := Encode(in.(ShotEvent).Peer(RoleP2, 1234))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"peer-shot","from":"p2","start":null,"velocity":null,"t":1234}`, string(data))

	in, err = Decode([]byte(`{"type":"shot-event","start":[0,1,0],"radius":2,"color":"red","t":5}`))
	require.NoError(t, err)

	data, err = Encode(in.(ShotEvent).Peer(RoleP1, 1234))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"type":"peer-shot","from":"p1","start":[0,1,0],"velocity":null,
		"radius":2,"color":"red","t":5
	}`, string(data))
}

func Test_EncodeScoreState(t *testing.T) {
	t.Parallel()
	data, err := Encode(NewScoreState(1, 0, 5))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"score-state","scoreP1":1,"scoreP2":0,"pointsToWin":5}`, string(data))
}

func Test_RoleOther(t *testing.T) {
	t.Parallel()
	require.Equal(t, RoleP2, RoleP1.Other())
	require.Equal(t, RoleP1, RoleP2.Other())
	require.Equal(t, RoleNone, RoleNone.Other())
	require.False(t, RoleNone.Valid())
}
