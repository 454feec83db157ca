// Package a2s implements the A2S_INFO server query.
package a2s

import (
	"bytes"
	"runtime"

	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/proto"
)

type (
	QueryResponder struct {
		enc   *encoder
		state *proto.QueryState
	}

	// infoWireFormat describes the format of a A2S_INFO query response.
	infoWireFormat struct {
		Header      []byte
		Protocol    byte
		ServerName  string
		GameMap     string
		GameFolder  string
		GameName    string
		SteamAppID  int16
		PlayerCount uint8
		MaxPlayers  uint8
		NumBots     uint8
		ServerType  byte
		Environment byte
		Visibility  byte
		VACEnabled  byte
	}
)

const (
	notAvailable = "n/a"

	// serverTypeDedicated marks the server as a dedicated server.
	serverTypeDedicated = byte('d')
)

var (
	a2sInfoRequest  = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x54}
	a2sInfoResponse = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x49}
)

// NewQueryResponder returns creates a new responder capable of responding
// to a2s-formatted queries.
func NewQueryResponder(state *proto.QueryState) (proto.QueryResponder, error) {
	q := &QueryResponder{
		enc:   &encoder{},
		state: state,
	}

	return q, nil
}

// Respond writes a query response to the requester in the A2S wire protocol.
func (q *QueryResponder) Respond(_ string, buf []byte) ([]byte, error) {
	if len(buf) < len(a2sInfoRequest) {
		return nil, NewUnsupportedQueryError(buf)
	}

	if bytes.Equal(buf[0:5], a2sInfoRequest) {
		return q.handleInfoRequest()
	}

	return nil, NewUnsupportedQueryError(buf[0:5])
}

func (q *QueryResponder) handleInfoRequest() ([]byte, error) {
	resp := bytes.NewBuffer(nil)
	f := infoWireFormat{
		Header:      a2sInfoResponse,
		Protocol:    1,
		ServerName:  notAvailable,
		GameMap:     notAvailable,
		GameFolder:  notAvailable,
		GameName:    notAvailable,
		ServerType:  serverTypeDedicated,
		Environment: environmentFromRuntime(runtime.GOOS),
	}

	if q.state != nil {
		s := q.state.Snapshot()
		f.ServerName = orNotAvailable(s.ServerName)
		f.GameMap = orNotAvailable(s.Map)
		f.GameName = orNotAvailable(s.GameType)
		f.PlayerCount = clamp(s.CurrentPlayers)
		f.MaxPlayers = clamp(s.MaxPlayers)
	}

	if err := proto.WireWrite(resp, q.enc, f); err != nil {
		return nil, err
	}

	return resp.Bytes(), nil
}

func orNotAvailable(s string) string {
	if s == "" {
		return notAvailable
	}

	return s
}

// clamp fits a player count into the single byte A2S allows.
func clamp(n int32) uint8 {
	switch {
	case n < 0:
		return 0
	case n > 255:
		return 255
	default:
		return uint8(n)
	}
}

func environmentFromRuntime(rt string) byte {
	switch rt {
	case "darwin":
		return byte('m')
	case "windows":
		return byte('w')
	default:
		return byte('l')
	}
}
