package server

import (
	"fmt"

	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/config"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/proto"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/proto/a2s"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/proto/sqp"
	"github.com/sirupsen/logrus"
)

// minQueryBuffer is the smallest read buffer which holds any supported query.
const minQueryBuffer = 16

// newQueryResponder returns the responder for the configured query protocol.
func newQueryResponder(queryType string, state *proto.QueryState) (proto.QueryResponder, error) {
	switch queryType {
	case "a2s":
		return a2s.NewQueryResponder(state)
	case "sqp":
		return sqp.NewQueryResponder(state)
	}

	return nil, fmt.Errorf("%w: %q", config.ErrUnsupportedQueryType, queryType)
}

// handleQuery handles responding to query commands on an incoming UDP port
// until the binding is closed.
func handleQuery(q proto.QueryResponder, logger *logrus.Entry, b *udpBinding, readBuffer int) {
	size := minQueryBuffer
	if readBuffer > size {
		size = readBuffer
	}

	buf := make([]byte, size)

	for {
		n, to, err := b.Read(buf)
		if err != nil {
			if b.IsDone() {
				return
			}

			logger.
				WithError(err).
				Error("read from udp")

			continue
		}

		resp, err := q.Respond(to.String(), buf[:n])
		if err != nil {
			logger.
				WithError(err).
				WithField("client_ip", to.String()).
				Debug("error responding to query")

			continue
		}

		if _, err = b.Write(resp, to); err != nil {
			if b.IsDone() {
				return
			}

			logger.
				WithError(err).
				Error("error writing response")
		}
	}
}
