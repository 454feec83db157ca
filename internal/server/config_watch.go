package server

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/pkg/config"
	"github.com/fsnotify/fsnotify"
)

// watchConfig watches the configuration file for changes and hands every
// valid new configuration to the relay.
func (s *Server) watchConfig() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory, editors and the hosting platform replace the file.
	if err = w.Add(filepath.Dir(s.cfgFile)); err != nil {
		_ = w.Close()

		return fmt.Errorf("watch config directory: %w", err)
	}

	s.wg.Add(1)
	go s.processConfigEvents(w)

	return nil
}

// processConfigEvents reloads the configuration whenever the file is
// written, until the server stops.
func (s *Server) processConfigEvents(w *fsnotify.Watcher) {
	defer s.wg.Done()
	defer w.Close()

	for {
		select {
		case evt, ok := <-w.Events:
			if !ok {
				return
			}

			// Ignore events for other files.
			if filepath.Clean(evt.Name) != s.cfgFile {
				continue
			}

			// We only care about when the config file has been rewritten.
			if evt.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			c, err := config.NewConfigFromFile(s.cfgFile)
			if err != nil {
				// Rewriting a file truncates it first, which results in two
				// writes. The first write produces an empty file, meaning
				// JSON parsing will fail.
				if !errors.Is(err, io.EOF) {
					s.logger.
						WithError(err).
						Error("error loading config")
				}

				continue
			}

			s.reconfigure(c)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}

			s.logger.
				WithError(err).
				Error("error watching files")

		case <-s.done:
			return
		}
	}
}

// reconfigure applies the settings which can change while running. Ports,
// limits and the query protocol keep their startup values.
func (s *Server) reconfigure(c *config.Config) {
	prev := s.Config()
	if prev != nil && *prev == *c {
		return
	}

	s.setConfig(c)
	s.relay.Reconfigure(c)
}
