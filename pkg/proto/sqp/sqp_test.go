package sqp

import (
	"bytes"
	"testing"

	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/proto"
	"github.com/stretchr/testify/require"
)

func challenge(t *testing.T, q proto.QueryResponder, addr string) []byte {
	t.Helper()

	resp, err := q.Respond(addr, []byte{0, 0, 0, 0, 0})
	require.NoError(t, err)
	require.Len(t, resp, 5)
	require.Equal(t, byte(0), resp[0])

	return resp[1:5]
}

func Test_Respond(t *testing.T) {
	t.Parallel()

	state := &proto.QueryState{MaxPlayers: 2}
	state.SetCurrentPlayers(1)

	q, err := NewQueryResponder(state)
	require.NoError(t, err)
	require.NotNil(t, q)

	addr := "client-addr:65534"
	c := challenge(t, q, addr)

	// Query packet
	resp, err := q.Respond(
		addr,
		bytes.Join(
			[][]byte{
				{1},
				c,      // challenge
				{0, 1}, // SQP version
				{1},    // Request chunks (server info only)
			},
			nil,
		),
	)
	require.NoError(t, err)
	require.Equal(
		t,
		bytes.Join(
			[][]byte{
				{1},
				c,
				{0, 1},
				{0},
				{0},
				{0x0, 0xe, 0x0, 0x0, 0x0, 0xa, 0x0, 0x1, 0x0, 0x2, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0},
			},
			nil,
		),
		resp,
	)

	// The challenge is single use.
	_, err = q.Respond(addr, bytes.Join([][]byte{{1}, c, {0, 1}, {1}}, nil))
	require.ErrorIs(t, err, ErrNoChallenge)
}

func Test_RespondServerInfo(t *testing.T) {
	t.Parallel()

	state := &proto.QueryState{
		MaxPlayers: 64,
		ServerName: "relay",
		GameType:   "duel",
		Port:       8000,
	}
	state.SetCurrentPlayers(3)

	q, err := NewQueryResponder(state)
	require.NoError(t, err)

	addr := "client-addr:1"
	c := challenge(t, q, addr)

	resp, err := q.Respond(addr, bytes.Join([][]byte{{1}, c, {0, 1}, {1}}, nil))
	require.NoError(t, err)
	require.Equal(
		t,
		bytes.Join(
			[][]byte{
				{1},
				c,
				{0, 1},
				{0},
				{0},
				{0x0, 0x17},           // payload length
				{0x0, 0x0, 0x0, 0x13}, // server info length
				{0x0, 0x3},            // current players
				{0x0, 0x40},           // max players
				append([]byte{5}, "relay"...),
				append([]byte{4}, "duel"...),
				{0},
				{0},
				{0x1f, 0x40}, // port
			},
			nil,
		),
		resp,
	)
}

func Test_RespondNoChunks(t *testing.T) {
	t.Parallel()

	q, err := NewQueryResponder(&proto.QueryState{})
	require.NoError(t, err)

	addr := "client-addr:2"
	c := challenge(t, q, addr)

	resp, err := q.Respond(addr, bytes.Join([][]byte{{1}, c, {0, 1}, {0}}, nil))
	require.NoError(t, err)
	require.Equal(t, bytes.Join([][]byte{{1}, c, {0, 1}, {0}, {0}, {0, 0}}, nil), resp)
}

func Test_RespondErrors(t *testing.T) {
	t.Parallel()

	q, err := NewQueryResponder(&proto.QueryState{})
	require.NoError(t, err)

	_, err = q.Respond("a", nil)
	require.ErrorIs(t, err, ErrInvalidPacketLength)

	_, err = q.Respond("a", []byte{9, 0, 0, 0, 0})
	require.ErrorIs(t, err, ErrUnsupportedQuery)

	_, err = q.Respond("a", []byte{1, 0, 0, 0, 0, 0, 1, 1})
	require.ErrorIs(t, err, ErrNoChallenge)

	_, err = q.Respond("a", []byte{1, 0, 0})
	require.ErrorIs(t, err, ErrInvalidPacketLength)

	c := challenge(t, q, "b")
	mismatch := []byte{c[0] ^ 0xff, c[1], c[2], c[3]}
	_, err = q.Respond("b", bytes.Join([][]byte{{1}, mismatch, {0, 1}, {1}}, nil))
	require.ErrorIs(t, err, ErrChallengeMismatch)

	c = challenge(t, q, "c")
	_, err = q.Respond("c", bytes.Join([][]byte{{1}, c, {0, 2}, {1}}, nil))
	require.EqualError(t, err, "unsupported sqp version: 2")
}
