// Package proto contains the pieces shared by the UDP server query protocols.
package proto

import (
	"bytes"
	"reflect"
	"sync"
)

type (
	// QueryResponder represents an interface to a concrete type which responds
	// to query requests.
	QueryResponder interface {
		Respond(clientAddress string, buf []byte) ([]byte, error)
	}

	// WireEncoder is an interface which allows for different query implementations
	// to write data to a byte buffer in a specific format.
	WireEncoder interface {
		WriteString(resp *bytes.Buffer, s string) error
		Write(resp *bytes.Buffer, v interface{}) error
	}

	// QueryState represents the state of the running relay as reported to
	// server browsers and the hosting platform. It is written by the relay
	// and the hosting lifecycle while query responders read it.
	QueryState struct {
		mu sync.RWMutex

		CurrentPlayers int32
		MaxPlayers     int32
		ServerName     string
		GameType       string
		BuildID        string
		Map            string
		Port           uint16
	}

	// QueryInfo is a consistent copy of a QueryState.
	QueryInfo struct {
		CurrentPlayers int32
		MaxPlayers     int32
		ServerName     string
		GameType       string
		BuildID        string
		Map            string
		Port           uint16
	}
)

// SetCurrentPlayers stores the number of connected clients.
func (qs *QueryState) SetCurrentPlayers(n int) {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	qs.CurrentPlayers = int32(n)
}

// SetServerName stores the name reported to queries.
func (qs *QueryState) SetServerName(name string) {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	qs.ServerName = name
}

// Snapshot returns a copy of the state which is safe to read without
// further synchronisation.
func (qs *QueryState) Snapshot() QueryInfo {
	qs.mu.RLock()
	defer qs.mu.RUnlock()

	return QueryInfo{
		CurrentPlayers: qs.CurrentPlayers,
		MaxPlayers:     qs.MaxPlayers,
		ServerName:     qs.ServerName,
		GameType:       qs.GameType,
		BuildID:        qs.BuildID,
		Map:            qs.Map,
		Port:           qs.Port,
	}
}

// WireWrite writes the provided data to resp with the provided WireEncoder w.
func WireWrite(resp *bytes.Buffer, w WireEncoder, data interface{}) error {
	t := reflect.TypeOf(data)
	vs := reflect.Indirect(reflect.ValueOf(data))
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		v := vs.FieldByName(f.Name)

		// Dereference pointer
		if f.Type.Kind() == reflect.Ptr {
			if v.IsNil() {
				continue
			}
			v = v.Elem()
		}

		switch v.Kind() {
		case reflect.Struct:
			if err := WireWrite(resp, w, v.Interface()); err != nil {
				return err
			}

		case reflect.String:
			if err := w.WriteString(resp, v.String()); err != nil {
				return err
			}

		default:
			if err := w.Write(resp, v.Interface()); err != nil {
				return err
			}
		}
	}

	return nil
}
