package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Unity-Technologies/multiplay-examples/simple-relay-server-go/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type flags struct {
	config    string
	log       string
	envFile   string
	port      uint
	queryPort uint
	logLevel  string
}

// parseFlags parses the supported flags and returns the values supplied to these flags.
func parseFlags(args []string) (flags, error) {
	var fl flags

	dir, _ := os.UserHomeDir()
	f := flag.NewFlagSet("simple-relay-server-go", flag.ContinueOnError)

	f.StringVar(&fl.config, "config", filepath.Join(dir, "server.json"), "path to the config file to use")
	f.StringVar(&fl.log, "log", "", "path to the log directory to write to, stdout when empty")
	f.StringVar(&fl.envFile, "env", ".env", "path to an optional file of RELAY_* environment overrides")
	f.UintVar(&fl.port, "port", 8000, "port for the websocket and status endpoints to bind to")
	f.UintVar(&fl.queryPort, "queryport", 8001, "port for the query endpoint to bind to")
	f.StringVar(&fl.logLevel, "loglevel", "info", "log level for the logger")

	return fl, f.Parse(args)
}

// loadEnvFile loads environment overrides from path. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	fl, err := parseFlags(os.Args[1:])
	if err != nil {
		logger.WithError(err).Fatal("error parsing flags")
	}

	ll, err := logrus.ParseLevel(fl.logLevel)
	if err != nil {
		logger.WithError(err).Error("Couldn't parse log level, defaulting to info")
		ll = logrus.InfoLevel
	}

	logger.SetLevel(ll)

	if ll < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	if fl.log != "" {
		logFile, err := os.OpenFile(filepath.Join(fl.log, "server.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err == nil {
			defer logFile.Close()
			logger.Out = logFile
		} else {
			logger.WithError(err).Warning("could not open log file for writing")
		}
	}

	if err = loadEnvFile(fl.envFile); err != nil {
		logger.WithError(err).Fatal("error loading env file")
	}

	s, err := server.New(logger.WithField("service", "relay"), fl.config, fl.port, fl.queryPort)
	if err != nil {
		logger.WithError(err).Fatal("error creating server")
	}

	if err = s.Start(); err != nil {
		logger.WithError(err).Fatal("unable to start server")
	}

	// The hosting platform signals the server to stop. A graceful stop
	// signal (SIGTERM) is sent if the fleet has been configured to support it.
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	if err = s.Stop(); err != nil {
		logger.WithError(err).Error("error stopping server")
	}
}
