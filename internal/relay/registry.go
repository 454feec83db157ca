package relay

import (
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/protocol"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/transport"
	"github.com/sirupsen/logrus"
)

// registry holds the record of every known connection. Accessed only from
// the relay loop goroutine.
type registry struct {
	records map[transport.Conn]*record
}

func newRegistry() *registry {
	return &registry{records: make(map[transport.Conn]*record)}
}

// register creates a fresh record for c: unassigned, no session, alive.
func (g *registry) register(c transport.Conn, logger *logrus.Entry) *record {
	rec := &record{
		conn:  c,
		state: unassigned,
		role:  protocol.RoleNone,
		alive: true,
		logger: logger.WithFields(logrus.Fields{
			"conn_id":     c.ID(),
			"remote_addr": c.RemoteAddr(),
		}),
	}
	g.records[c] = rec

	return rec
}

func (g *registry) lookup(c transport.Conn) (*record, bool) {
	rec, ok := g.records[c]

	return rec, ok
}

func (g *registry) markAlive(c transport.Conn) {
	if rec, ok := g.records[c]; ok {
		rec.alive = true
	}
}

// remove deletes the record of c and returns it so the caller can release
// any slot it held.
func (g *registry) remove(c transport.Conn) (*record, bool) {
	rec, ok := g.records[c]
	if ok {
		delete(g.records, c)
	}

	return rec, ok
}

func (g *registry) len() int {
	return len(g.records)
}
