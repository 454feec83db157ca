package relay

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/protocol"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/transport"
	"github.com/stretchr/testify/require"
)

// fakeConn is an in-memory transport.Conn which records everything sent to it.
type fakeConn struct {
	mu         sync.Mutex
	id         string
	open       bool
	sent       [][]byte
	pings      int
	terminated int
	sendErr    error
}

var _ transport.Conn = (*fakeConn)(nil)

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id, open: true}
}

func (c *fakeConn) ID() string         { return c.id }
func (c *fakeConn) RemoteAddr() string { return fmt.Sprintf("%s:1234", c.id) }

func (c *fakeConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sendErr != nil {
		return c.sendErr
	}
	if !c.open {
		return transport.ErrClosed
	}

	c.sent = append(c.sent, data)

	return nil
}

func (c *fakeConn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pings++

	return nil
}

func (c *fakeConn) Terminate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open = false
	c.terminated++
}

func (c *fakeConn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.open
}

func (c *fakeConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open = false
}

// messages returns and clears everything sent so far.
func (c *fakeConn) messages() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.sent
	c.sent = nil

	return m
}

// scoreStates decodes every pending message as a score-state.
func (c *fakeConn) scoreStates(t *testing.T) []protocol.ScoreState {
	t.Helper()

	var states []protocol.ScoreState
	for _, m := range c.messages() {
		var s protocol.ScoreState
		require.NoError(t, json.Unmarshal(m, &s))
		require.Equal(t, protocol.TypeScoreState, s.Type)
		states = append(states, s)
	}

	return states
}
