package proto

import (
	"bytes"
	"encoding/binary"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEncoder writes strings null terminated and numbers big endian.
type testEncoder struct{}

func (testEncoder) WriteString(resp *bytes.Buffer, s string) error {
	resp.WriteString(s)

	return resp.WriteByte(0)
}

func (testEncoder) Write(resp *bytes.Buffer, v interface{}) error {
	return binary.Write(resp, binary.BigEndian, v)
}

func Test_WireWrite(t *testing.T) {
	t.Parallel()

	type inner struct {
		Port uint16
	}

	port := uint16(8001)
	data := struct {
		Header byte
		Name   string
		Inner  inner
		Opt    *uint16
		Nil    *uint16
	}{
		Header: 1,
		Name:   "relay",
		Inner:  inner{Port: 8000},
		Opt:    &port,
	}

	resp := bytes.NewBuffer(nil)
	require.NoError(t, WireWrite(resp, testEncoder{}, data))
	require.Equal(t, []byte{1, 'r', 'e', 'l', 'a', 'y', 0, 0x1f, 0x40, 0x1f, 0x41}, resp.Bytes())
}

func Test_QueryStateSnapshot(t *testing.T) {
	t.Parallel()

	qs := &QueryState{MaxPlayers: 4, ServerName: "relay"}

	var wg sync.WaitGroup
	for i := 1; i <= 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			qs.SetCurrentPlayers(n)
			_ = qs.Snapshot()
		}(i)
	}
	wg.Wait()

	qs.SetCurrentPlayers(3)
	qs.SetServerName("relay - alloc")
	require.Equal(t, QueryInfo{
		CurrentPlayers: 3,
		MaxPlayers:     4,
		ServerName:     "relay - alloc",
	}, qs.Snapshot())
}
