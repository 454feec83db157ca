// Command relay-probe joins a relay session and prints every message it receives.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/protocol"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type joinRequest struct {
	Type string        `json:"type"`
	Role protocol.Role `json:"role"`
}

func main() {
	logger := logrus.New()

	url := flag.String("url", "ws://localhost:8000/ws", "websocket URL of the relay")
	role := flag.String("role", "p1", "role to request, p1 or p2")
	flag.Parse()

	if err := probe(logger, *url, protocol.Role(*role)); err != nil {
		logger.WithError(err).Fatal("probe failed")
	}
}

func probe(logger *logrus.Logger, url string, role protocol.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("dial relay: %w", err)
	}
	defer conn.Close()

	join, err := json.Marshal(joinRequest{Type: protocol.TypeJoinRequest, Role: role})
	if err != nil {
		return fmt.Errorf("encode join request: %w", err)
	}

	if err = conn.WriteMessage(websocket.TextMessage, join); err != nil {
		return fmt.Errorf("send join request: %w", err)
	}

	logger.
		WithField("url", url).
		WithField("role", role).
		Info("joined, waiting for messages")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}

			return fmt.Errorf("read: %w", err)
		}

		fmt.Println(string(data))
	}
}
