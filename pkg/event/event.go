package event

import (
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/config"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/transport"
)

type (
	// Typ is a type of event processed by the relay loop.
	Typ int

	// Event is a single unit of work for the relay loop. Events are processed
	// one at a time, to completion, in the order they were queued.
	Event struct {
		Type   Typ
		Conn   transport.Conn
		Data   []byte
		Config *config.Config
	}
)

const (
	// Connected indicates that the transport accepted a new connection.
	Connected = Typ(iota)

	// Message carries one decoded frame received from a connection.
	Message

	// Alive indicates that a connection answered a liveness probe.
	Alive

	// Disconnected indicates that the transport observed a connection close.
	Disconnected

	// Reconfigured carries a freshly loaded configuration.
	Reconfigured

	// TerminateAll asks the relay to drop every connection, for example when
	// the hosting platform deallocates this server.
	TerminateAll
)
