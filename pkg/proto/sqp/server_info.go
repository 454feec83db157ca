package sqp

import (
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/proto"
)

type (
	sqpServerInfo struct {
		CurrentPlayers uint16
		MaxPlayers     uint16
		ServerName     string
		GameType       string
		BuildID        string
		GameMap        string
		Port           uint16
	}
)

// queryStateToServerInfo converts a snapshot of proto.QueryState to sqpServerInfo.
func queryStateToServerInfo(qs *proto.QueryState) sqpServerInfo {
	if qs == nil {
		return sqpServerInfo{}
	}

	s := qs.Snapshot()

	return sqpServerInfo{
		CurrentPlayers: uint16(s.CurrentPlayers),
		MaxPlayers:     uint16(s.MaxPlayers),
		ServerName:     truncate(s.ServerName),
		GameType:       truncate(s.GameType),
		BuildID:        truncate(s.BuildID),
		GameMap:        truncate(s.Map),
		Port:           s.Port,
	}
}

// truncate limits s to what a single length byte can describe.
func truncate(s string) string {
	if len(s) > maxStringLength {
		return s[:maxStringLength]
	}

	return s
}

// Size returns the number of bytes sqpServerInfo will use on the wire.
func (si sqpServerInfo) Size() uint32 {
	return uint32(
		2 + // CurrentPlayers
			2 + // MaxPlayers
			len(si.ServerName) + 1 +
			len(si.GameType) + 1 +
			len(si.BuildID) + 1 +
			len(si.GameMap) + 1 +
			2, // Port
	)
}
