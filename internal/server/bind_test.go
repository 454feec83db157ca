package server

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_BindLifecycle(t *testing.T) {
	t.Parallel()
	b, err := newUDPBinding(":0", 0, 0)
	require.NoError(t, err)
	require.NotNil(t, b)
	require.False(t, b.IsDone())

	endpoint, err := net.ResolveUDPAddr("udp4", b.LocalAddr().String())
	require.NoError(t, err)
	client, err := net.DialUDP("udp4", nil, endpoint)
	require.NoError(t, err)
	defer client.Close()

	expected := []byte("hello bind")
	_, err = client.Write(expected)
	require.NoError(t, err)

	actual := make([]byte, len(expected))
	_, from, err := b.Read(actual)
	require.NoError(t, err)
	require.Equal(t, expected, actual)

	_, err = b.Write([]byte("hello client"), from)
	require.NoError(t, err)

	reply := make([]byte, 32)
	n, err := client.Read(reply)
	require.NoError(t, err)
	require.Equal(t, "hello client", string(reply[:n]))

	require.NoError(t, b.Close())
	require.True(t, b.IsDone())
	require.NoError(t, b.Close())

	_, _, err = b.Read(actual)
	require.ErrorIs(t, err, errBindingClosed)
	_, err = b.Write(expected, from)
	require.ErrorIs(t, err, errBindingClosed)
}
