package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/transport"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Conn is a transport.Conn backed by a websocket connection.
//
// Outbound messages are queued and written by a single write pump. Inbound
// frames, pongs and the final close are reported to the handler by a single
// read pump, so a handler observes them in order.
type Conn struct {
	id      string
	ws      *websocket.Conn
	handler transport.Handler
	logger  *logrus.Entry
	opts    Options

	send      chan []byte
	ping      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closed    int32
}

// Compile-time check that Conn implements transport.Conn.
var _ transport.Conn = (*Conn)(nil)

func newConn(ws *websocket.Conn, h transport.Handler, logger *logrus.Entry, opts Options) *Conn {
	id := uuid.New().String()

	return &Conn{
		id:      id,
		ws:      ws,
		handler: h,
		logger:  logger.WithField("conn_id", id),
		opts:    opts,
		send:    make(chan []byte, opts.SendQueueSize),
		ping:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// ID implements transport.Conn.
func (c *Conn) ID() string {
	return c.id
}

// RemoteAddr implements transport.Conn.
func (c *Conn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// Send implements transport.Conn. It never blocks: when the outbound queue is
// full the message is rejected with transport.ErrSendQueueFull.
func (c *Conn) Send(data []byte) error {
	if !c.IsOpen() {
		return transport.ErrClosed
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return transport.ErrClosed
	default:
		return transport.ErrSendQueueFull
	}
}

// Ping implements transport.Conn. It never blocks: the ping frame is written
// by the write pump, and a ping still pending is not queued twice.
func (c *Conn) Ping() error {
	if !c.IsOpen() {
		return transport.ErrClosed
	}

	select {
	case c.ping <- struct{}{}:
	default:
	}

	return nil
}

// Terminate implements transport.Conn. The read pump observes the closed
// socket and reports the disconnect.
func (c *Conn) Terminate() {
	c.shutdown()
}

// IsOpen implements transport.Conn.
func (c *Conn) IsOpen() bool {
	return atomic.LoadInt32(&c.closed) == 0
}

func (c *Conn) shutdown() {
	c.closeOnce.Do(func() {
		atomic.StoreInt32(&c.closed, 1)
		close(c.done)

		if err := c.ws.Close(); err != nil {
			c.logger.WithError(err).Debug("error closing websocket")
		}
	})
}

// readPump delivers inbound frames to the handler until the socket fails.
func (c *Conn) readPump() {
	defer func() {
		c.shutdown()
		c.handler.Disconnected(c)
	}()

	c.ws.SetReadLimit(c.opts.MaxMessageSize)
	c.ws.SetPongHandler(func(string) error {
		c.handler.Alive(c)

		return nil
	})

	for {
		typ, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && c.IsOpen() {
				c.logger.WithError(err).Debug("websocket read error")
			}

			return
		}

		if typ != websocket.TextMessage && typ != websocket.BinaryMessage {
			continue
		}

		c.handler.Message(c, data)
	}
}

// writePump writes queued messages and pings until the connection shuts down.
func (c *Conn) writePump() {
	defer c.shutdown()

	for {
		select {
		case data := <-c.send:
			if err := c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteWait)); err != nil {
				return
			}

			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.WithError(err).Debug("websocket write error")

				return
			}

		case <-c.ping:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.opts.WriteWait)); err != nil {
				c.logger.WithError(err).Debug("websocket ping error")

				return
			}

		case <-c.done:
			return
		}
	}
}
