// Package sdkclient is a client for the hosting platform's SDK daemon, which
// announces allocation lifecycle events over a centrifuge channel.
package sdkclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/centrifugal/centrifuge-go"
	"github.com/sirupsen/logrus"
)

const (
	RequestTimeout      = 2 * time.Second
	ReadyForPlayersPath = "/v1/server/%d/allocation/%s/ready-for-players"
	WebsocketPath       = "/v1/connection/websocket"

	// errorBufferSize is the number of client errors kept until read.
	errorBufferSize = 16
)

// SDKDaemonClient provides a client for the SDK daemon.
//
// Callers should read Errors(); errors are dropped once its buffer is full.
type SDKDaemonClient struct {
	client     *centrifugeClientWrapper
	httpClient *http.Client
	url        string
	logger     *logrus.Entry
}

// NewSDKDaemonClient returns an SDK Daemon client configured to connect to the
// daemon on the given host:port.
func NewSDKDaemonClient(url string, l *logrus.Entry) *SDKDaemonClient {
	wsURL := fmt.Sprintf("ws://%s%s", url, WebsocketPath)

	w := &centrifugeClientWrapper{
		Client: centrifuge.NewJsonClient(wsURL, centrifuge.DefaultConfig()),
		logger: l,
		errc:   make(chan error, errorBufferSize),
		done:   make(chan struct{}),
	}
	w.Client.OnMessage(w)

	return &SDKDaemonClient{
		client:     w,
		httpClient: &http.Client{Timeout: RequestTimeout},
		url:        url,
		logger:     l,
	}
}

// Connect connects to the SDK daemon.
func (s *SDKDaemonClient) Connect() error {
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	return nil
}

// Subscribe creates a subscription for the given server ID. Failed
// subscriptions are retried until Close is called.
func (s *SDKDaemonClient) Subscribe(serverID int64) error {
	if err := s.client.newSubscription(serverCentrifugeChannel(serverID)); err != nil {
		return err
	}

	s.logger.
		WithField("channel", s.client.sub.Channel()).
		Debug("subscription created")

	return s.client.subscribe()
}

// OnAllocate executes cb when an Allocate event is received from the server.
// It must be called before Subscribe.
func (s *SDKDaemonClient) OnAllocate(cb AllocateCallback) {
	s.client.allocateFunc = cb
}

// OnDeallocate executes cb when a Deallocate event is received from the server.
// It must be called before Subscribe.
func (s *SDKDaemonClient) OnDeallocate(cb DeallocateCallback) {
	s.client.deallocateFunc = cb
}

// ReadyForPlayers mark server as ready for players.
func (s *SDKDaemonClient) ReadyForPlayers(ctx context.Context, serverID int64, allocationID string) error {
	url := fmt.Sprintf("http://%s"+ReadyForPlayersPath, s.url, serverID, allocationID)

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("ready for players request: %w", err)
	}

	res, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sdk request to daemon: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return UnexpectedHTTPStatusError(res.StatusCode)
	}

	return nil
}

// Errors returns a channel of underlying errors from the client.
func (s *SDKDaemonClient) Errors() <-chan error {
	return s.client.errc
}

// Close shuts down the underlying Centrifuge connection.
func (s *SDKDaemonClient) Close() error {
	return s.client.Close()
}

// serverCentrifugeChannel returns a Centrifuge channel name for the given server ID.
//
// We're using a Centrifuge user channel boundary here to ensure that only users
// identifying themselves as the given server can subscribe to this channel.
//
// See: https://centrifugal.dev/docs/server/channels#user-channel-boundary-
func serverCentrifugeChannel(serverID int64) string {
	return fmt.Sprintf("server#%d", serverID)
}
