// Package server hosts the relay: the websocket and HTTP status endpoints,
// the UDP query endpoint, configuration reloads and the hosting lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/internal/relay"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/internal/transport/ws"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/config"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/proto"
	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/sdkclient"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// shutdownTimeout bounds the time allowed for in-flight HTTP requests on stop.
const shutdownTimeout = 5 * time.Second

type (
	// Server represents one running relay process.
	Server struct {
		// cfgFile is the file path this server reads its configuration from
		cfgFile string

		// mu guards cfg, which is replaced when the configuration file changes
		mu  sync.RWMutex
		cfg *config.Config

		// done is closed when the server is going away
		done chan struct{}

		// logger handles structured logging for this server
		logger *logrus.Entry

		// port is the port number the websocket and HTTP endpoints listen on
		port uint

		// queryPort is the port number the query server will listen on
		queryPort uint

		// relay pairs clients and forwards their messages
		relay *relay.Relay

		// httpServer serves the websocket and status endpoints
		httpServer *http.Server
		listener   net.Listener

		// queryBind is a UDP endpoint which responds to server queries
		queryBind *udpBinding

		// queryProto is an implementation of an interface which responds on a particular
		// query format, for example sqp or a2s
		queryProto proto.QueryResponder

		// state represents current server state which is applicable to an incoming query,
		// for example current players or server name
		state *proto.QueryState

		// sdk is the hosting SDK daemon client, nil when not configured
		sdk *sdkclient.SDKDaemonClient

		// hosting receives ready-for-players notifications, usually sdk
		hosting hostingClient

		// wg handles synchronising termination of all active
		// goroutines this server manages
		wg sync.WaitGroup
	}
)

// New creates a new server, configured with the provided configuration file.
func New(logger *logrus.Entry, configPath string, port, queryPort uint) (*Server, error) {
	if configPath != "" {
		p, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("config path: %w", err)
		}

		configPath = p
	}

	return &Server{
		cfgFile:   configPath,
		done:      make(chan struct{}),
		logger:    logger,
		port:      port,
		queryPort: queryPort,
	}, nil
}

// Start loads the configuration and opens the websocket, HTTP and query ports.
func (s *Server) Start() error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}

	s.setConfig(cfg)

	s.state = &proto.QueryState{
		MaxPlayers: int32(cfg.MaxPlayers),
		ServerName: cfg.ServerName,
		GameType:   cfg.GameType,
		Port:       uint16(s.port),
	}

	if s.queryProto, err = newQueryResponder(cfg.QueryType, s.state); err != nil {
		return err
	}

	s.relay = relay.New(s.logger, cfg, s.state)

	if s.queryBind, err = newUDPBinding(fmt.Sprintf(":%d", s.queryPort), cfg.ReadBuffer, cfg.WriteBuffer); err != nil {
		return err
	}

	if s.listener, err = net.Listen("tcp", fmt.Sprintf(":%d", s.port)); err != nil {
		_ = s.queryBind.Close()

		return fmt.Errorf("listen on relay port: %w", err)
	}

	acceptor := ws.NewAcceptor(s.logger, s.relay, ws.Options{
		MaxMessageSize: cfg.MaxMessageSize,
		SendQueueSize:  cfg.SendQueueSize,
	})
	s.httpServer = &http.Server{
		Handler:           s.router(acceptor),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.relay.Start()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		handleQuery(s.queryProto, s.logger, s.queryBind, cfg.ReadBuffer)
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("http server failed")
		}
	}()

	if s.cfgFile != "" {
		if err = s.watchConfig(); err != nil {
			s.logger.WithError(err).Warn("configuration changes will not be reloaded")
		}
	}

	if cfg.SDKDaemonURL != "" {
		if err = s.connectHosting(cfg); err != nil {
			return multierror.Append(err, s.Stop())
		}
	}

	s.logger.
		WithField("port", s.Addr()).
		WithField("queryport", s.QueryAddr()).
		WithField("proto", cfg.QueryType).
		Info("server started")

	return nil
}

// Stop stops the server and closes all connections.
func (s *Server) Stop() error {
	s.logger.Info("stopping")

	var result *multierror.Error

	select {
	case <-s.done:
		return nil
	default:
		close(s.done)
	}

	if s.sdk != nil {
		if err := s.sdk.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close sdk client: %w", err))
		}
	}

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("shutdown http server: %w", err))
		}
	}

	// Websocket connections are hijacked, so the relay closes them itself.
	if s.relay != nil {
		s.relay.Stop()
	}

	if s.queryBind != nil {
		if err := s.queryBind.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close query binding: %w", err))
		}
	}

	s.wg.Wait()
	s.logger.Info("stopped")

	return result.ErrorOrNil()
}

// Addr returns the address of the websocket and HTTP endpoints.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// QueryAddr returns the address of the query endpoint.
func (s *Server) QueryAddr() string {
	if s.queryBind == nil {
		return ""
	}

	return s.queryBind.LocalAddr().String()
}

// Config returns the configuration currently in effect.
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cfg
}

func (s *Server) setConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = cfg
}

// loadConfig reads the configuration file, falling back to defaults and
// environment overrides when there is none.
func (s *Server) loadConfig() (*config.Config, error) {
	if s.cfgFile == "" {
		return config.NewDefaultConfig()
	}

	cfg, err := config.NewConfigFromFile(s.cfgFile)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.
			WithField("path", s.cfgFile).
			Warn("config file not found, using defaults")

		return config.NewDefaultConfig()
	}

	return cfg, err
}
