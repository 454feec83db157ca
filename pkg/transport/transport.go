// Package transport defines the boundary between the relay core and the
// network layer that accepts connections and frames messages.
package transport

import "errors"

var (
	// ErrSendQueueFull is returned when a connection's outbound queue cannot
	// take another message without blocking.
	ErrSendQueueFull = errors.New("send queue full")

	// ErrClosed is returned by operations on a connection that has been closed.
	ErrClosed = errors.New("connection closed")
)

type (
	// Conn abstracts a single client connection. The relay core never touches
	// sockets or framing directly.
	Conn interface {
		// ID returns an identifier which is unique for the lifetime of the process.
		ID() string

		// RemoteAddr returns the remote address for logging.
		RemoteAddr() string

		// Send enqueues one encoded message for delivery. It never blocks.
		Send(data []byte) error

		// Ping sends a liveness probe. A response is reported through Handler.Alive.
		Ping() error

		// Terminate forcibly closes the connection.
		Terminate()

		// IsOpen reports whether the connection can still deliver messages.
		IsOpen() bool
	}

	// Handler receives connection lifecycle events from a transport.
	Handler interface {
		Connected(c Conn)
		Message(c Conn, data []byte)
		Alive(c Conn)
		Disconnected(c Conn)
	}
)
