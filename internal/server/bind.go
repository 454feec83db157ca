package server

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

// errBindingClosed is returned by operations on a closed udpBinding.
var errBindingClosed = errors.New("binding is closed")

// queryWriteTimeout bounds the time allowed to write one query response.
const queryWriteTimeout = time.Second

type (
	// udpBinding is a managed wrapper for a generic UDP listener.
	udpBinding struct {
		conn      *net.UDPConn
		done      chan struct{}
		closeOnce sync.Once
	}
)

// newUDPBinding creates a new UDP binding on the specified address.
func newUDPBinding(bindAddress string, readBuffer, writeBuffer int) (*udpBinding, error) {
	address, err := net.ResolveUDPAddr("udp4", bindAddress)
	if err != nil {
		return nil, fmt.Errorf("resolve query address: %w", err)
	}

	conn, err := net.ListenUDP("udp4", address)
	if err != nil {
		return nil, fmt.Errorf("listen on query address: %w", err)
	}

	if readBuffer > 0 {
		if err = conn.SetReadBuffer(readBuffer); err != nil {
			conn.Close()

			return nil, fmt.Errorf("set read buffer: %w", err)
		}
	}

	if writeBuffer > 0 {
		if err = conn.SetWriteBuffer(writeBuffer); err != nil {
			conn.Close()

			return nil, fmt.Errorf("set write buffer: %w", err)
		}
	}

	return &udpBinding{
		conn: conn,
		done: make(chan struct{}),
	}, nil
}

// Read reads data from the open connection into the supplied buffer.
func (b *udpBinding) Read(buf []byte) (int, *net.UDPAddr, error) {
	if b.IsDone() {
		return 0, nil, errBindingClosed
	}

	return b.conn.ReadFromUDP(buf)
}

// Write writes data to the specified UDP address.
func (b *udpBinding) Write(buf []byte, to *net.UDPAddr) (int, error) {
	if b.IsDone() {
		return 0, errBindingClosed
	}

	if err := b.conn.SetWriteDeadline(time.Now().Add(queryWriteTimeout)); err != nil {
		return 0, fmt.Errorf("error setting write deadline: %w", err)
	}

	return b.conn.WriteToUDP(buf, to)
}

// LocalAddr returns the address the binding listens on.
func (b *udpBinding) LocalAddr() net.Addr {
	return b.conn.LocalAddr()
}

// Close marks the binding as complete, closing any open connections.
func (b *udpBinding) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.done)
		err = b.conn.Close()
	})

	return err
}

// IsDone determines whether the binding is complete.
func (b *udpBinding) IsDone() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}
