// Package ws accepts websocket clients and adapts them to transport.Conn.
package ws

import (
	"net/http"
	"time"

	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/transport"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	defaultWriteWait      = 10 * time.Second
	defaultSendQueueSize  = 64
	defaultMaxMessageSize = 64 * 1024
	bufferSize            = 1024
)

type (
	// Options controls the limits applied to every accepted connection.
	Options struct {
		// MaxMessageSize is the largest inbound frame accepted, in bytes.
		MaxMessageSize int64

		// SendQueueSize is the number of outbound messages buffered per connection.
		SendQueueSize int

		// WriteWait bounds the time allowed for a single write.
		WriteWait time.Duration
	}

	// Acceptor upgrades HTTP requests to websocket connections and reports
	// their lifecycle to a transport.Handler.
	Acceptor struct {
		handler  transport.Handler
		logger   *logrus.Entry
		opts     Options
		upgrader websocket.Upgrader
	}
)

// NewAcceptor returns an Acceptor which reports to h. Zero options are
// replaced by defaults.
func NewAcceptor(logger *logrus.Entry, h transport.Handler, opts Options) *Acceptor {
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = defaultMaxMessageSize
	}

	if opts.SendQueueSize <= 0 {
		opts.SendQueueSize = defaultSendQueueSize
	}

	if opts.WriteWait <= 0 {
		opts.WriteWait = defaultWriteWait
	}

	return &Acceptor{
		handler: h,
		logger:  logger,
		opts:    opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  bufferSize,
			WriteBufferSize: bufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP implements http.Handler.
func (a *Acceptor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied with an HTTP error.
		a.logger.WithError(err).Debug("websocket upgrade failed")

		return
	}

	c := newConn(ws, a.handler, a.logger, a.opts)
	a.handler.Connected(c)

	go c.writePump()
	go c.readPump()
}
