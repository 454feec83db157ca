package a2s

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/proto"
	"github.com/stretchr/testify/require"
)

func Test_Respond(t *testing.T) {
	t.Parallel()

	state := &proto.QueryState{
		MaxPlayers: 64,
		ServerName: "relay",
		GameType:   "duel",
	}
	state.SetCurrentPlayers(2)

	q, err := NewQueryResponder(state)
	require.NoError(t, err)

	resp, err := q.Respond("client-addr:1", a2sInfoRequest)
	require.NoError(t, err)
	require.Equal(
		t,
		bytes.Join(
			[][]byte{
				a2sInfoResponse,
				{1},
				[]byte("relay\x00"),
				[]byte("n/a\x00"),
				[]byte("n/a\x00"),
				[]byte("duel\x00"),
				{0, 0}, // steam app id
				{2},    // players
				{64},   // max players
				{0},    // bots
				{'d'},
				{environmentFromRuntime(runtime.GOOS)},
				{0},
				{0},
			},
			nil,
		),
		resp,
	)
}

func Test_RespondUnsupported(t *testing.T) {
	t.Parallel()

	q, err := NewQueryResponder(nil)
	require.NoError(t, err)

	_, err = q.Respond("client-addr:1", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x55})
	require.EqualError(t, err, "unsupported query: ffffffff55")

	_, err = q.Respond("client-addr:1", []byte{0xFF})
	var target *UnsupportedQueryError
	require.ErrorAs(t, err, &target)
}

func Test_clamp(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint8(0), clamp(-1))
	require.Equal(t, uint8(12), clamp(12))
	require.Equal(t, uint8(255), clamp(1000))
}
