package main

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_parseFlags(t *testing.T) {
	t.Parallel()
	fl, err := parseFlags([]string{
		"-config", "my-config.json",
		"-log", "/tmp/",
		"-env", "relay.env",
		"-port", "9000",
		"-queryport", "9001",
		"-loglevel", "debug",
	})

	require.NoError(t, err)
	require.Equal(t, flags{
		config:    "my-config.json",
		log:       "/tmp/",
		envFile:   "relay.env",
		port:      9000,
		queryPort: 9001,
		logLevel:  "debug",
	}, fl)
}

func Test_parseFlagsDefaults(t *testing.T) {
	t.Parallel()
	fl, err := parseFlags(nil)

	require.NoError(t, err)
	require.Equal(t, uint(8000), fl.port)
	require.Equal(t, uint(8001), fl.queryPort)
	require.Equal(t, "info", fl.logLevel)
	require.Equal(t, ".env", fl.envFile)
	require.Equal(t, "server.json", path.Base(fl.config))
}

func Test_parseFlagsUnknown(t *testing.T) {
	t.Parallel()
	_, err := parseFlags([]string{"-tracebackLevel", "all"})

	require.Error(t, err)
}

func Test_loadEnvFile(t *testing.T) {
	p := path.Join(t.TempDir(), "relay.env")
	require.NoError(t, os.WriteFile(p, []byte("RELAY_TEST_POINTS=11\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("RELAY_TEST_POINTS")
	})

	require.NoError(t, loadEnvFile(p))
	require.Equal(t, "11", os.Getenv("RELAY_TEST_POINTS"))

	require.NoError(t, loadEnvFile(path.Join(t.TempDir(), "missing.env")))
	require.NoError(t, loadEnvFile(""))
}
