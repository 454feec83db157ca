package server

import (
	"context"
	"fmt"

	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/config"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/sdkclient"
)

// hostingClient marks an allocated server as ready to accept players.
type hostingClient interface {
	ReadyForPlayers(ctx context.Context, serverID int64, allocationID string) error
}

// connectHosting connects to the hosting SDK daemon and subscribes to the
// allocation lifecycle of this server.
func (s *Server) connectHosting(cfg *config.Config) error {
	s.sdk = sdkclient.NewSDKDaemonClient(cfg.SDKDaemonURL, s.logger.WithField("component", "sdk"))
	s.sdk.OnAllocate(s.allocateHandler)
	s.sdk.OnDeallocate(s.deallocateHandler)
	s.hosting = s.sdk

	if err := s.sdk.Connect(); err != nil {
		return fmt.Errorf("sdk daemon: %w", err)
	}

	if err := s.sdk.Subscribe(cfg.ServerID); err != nil {
		return fmt.Errorf("sdk daemon: %w", err)
	}

	s.wg.Add(1)
	go s.processHostingErrors()

	return nil
}

// processHostingErrors logs errors reported by the SDK daemon client.
func (s *Server) processHostingErrors() {
	defer s.wg.Done()

	for {
		select {
		case err := <-s.sdk.Errors():
			s.logger.
				WithError(err).
				Error("sdk daemon client error")

		case <-s.done:
			return
		}
	}
}

// allocateHandler is an allocation event handler for the SDK daemon.
func (s *Server) allocateHandler(evt sdkclient.AllocateEvent) {
	cfg := s.Config()
	logger := s.logger.WithField("allocation_uuid", evt.AllocationID)

	s.state.SetServerName(fmt.Sprintf("%s - %s", cfg.ServerName, evt.AllocationID))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-s.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := s.hosting.ReadyForPlayers(ctx, cfg.ServerID, evt.AllocationID); err != nil {
		logger.
			WithError(err).
			Error("error marking server ready for players")

		return
	}

	logger.Info("allocated")
}

// deallocateHandler is a deallocation event handler for the SDK daemon.
func (s *Server) deallocateHandler(evt sdkclient.DeallocateEvent) {
	s.state.SetServerName(s.Config().ServerName)
	s.relay.TerminateAll()

	s.logger.
		WithField("allocation_uuid", evt.AllocationID).
		Info("deallocated")
}
