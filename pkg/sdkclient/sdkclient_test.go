package sdkclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/centrifugal/centrifuge-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func Test_EventJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(NewAllocateEvent(1234, "alloc-uuid"))
	require.NoError(t, err)

	evt, err := UnmarshalEventJSON(b)
	require.NoError(t, err)
	require.Equal(t, AllocateEventType, evt.Type())

	ae, ok := evt.(AllocateEvent)
	require.True(t, ok)
	require.Equal(t, "alloc-uuid", ae.AllocationID)
	require.Equal(t, int64(1234), ae.ServerID)
	require.NotEmpty(t, ae.EventID)

	b, err = json.Marshal(NewDeallocateEvent(1234, "alloc-uuid"))
	require.NoError(t, err)

	evt, err = UnmarshalEventJSON(b)
	require.NoError(t, err)
	require.Equal(t, DeallocateEventType, evt.Type())
}

func Test_UnmarshalEventJSONErrors(t *testing.T) {
	t.Parallel()

	_, err := UnmarshalEventJSON([]byte(`{"EventType":"ReadyEventType"}`))
	require.ErrorIs(t, err, InvalidEventTypeError("ReadyEventType"))

	_, err = UnmarshalEventJSON([]byte(`not json`))
	require.Error(t, err)
}

func Test_ParseEventType(t *testing.T) {
	t.Parallel()

	et, err := ParseEventType("DEALLOCATEEVENTTYPE")
	require.NoError(t, err)
	require.Equal(t, DeallocateEventType, et)
	require.Equal(t, "DeallocateEventType", et.String())
	require.Equal(t, "EventType(7)", EventType(7).String())
}

func Test_dispatch(t *testing.T) {
	t.Parallel()

	var allocated, deallocated []string
	w := &centrifugeClientWrapper{
		logger: logrus.NewEntry(logrus.New()),
		errc:   make(chan error, 1),
		done:   make(chan struct{}),
		allocateFunc: func(e AllocateEvent) {
			allocated = append(allocated, e.AllocationID)
		},
		deallocateFunc: func(e DeallocateEvent) {
			deallocated = append(deallocated, e.AllocationID)
		},
	}

	b, err := json.Marshal(NewAllocateEvent(1, "a"))
	require.NoError(t, err)

	var pe centrifuge.PublishEvent
	pe.Data = b
	w.OnPublish(nil, pe)

	b, err = json.Marshal(NewDeallocateEvent(1, "a"))
	require.NoError(t, err)

	var me centrifuge.MessageEvent
	me.Data = b
	w.OnMessage(nil, me)

	require.Equal(t, []string{"a"}, allocated)
	require.Equal(t, []string{"a"}, deallocated)

	// Undecodable events are reported, and dropped once the buffer is full.
	w.dispatch([]byte(`[]`))
	w.dispatch([]byte(`[]`))
	require.Error(t, <-w.errc)
	require.Empty(t, w.errc)
}

func Test_ReadyForPlayers(t *testing.T) {
	t.Parallel()

	paths := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)

			return
		}

		paths <- r.URL.Path

		if strings.Contains(r.URL.Path, "bad") {
			w.WriteHeader(http.StatusConflict)

			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewSDKDaemonClient(strings.TrimPrefix(srv.URL, "http://"), logrus.NewEntry(logrus.New()))

	require.NoError(t, c.ReadyForPlayers(context.Background(), 1234, "alloc-uuid"))
	require.Equal(t, "/v1/server/1234/allocation/alloc-uuid/ready-for-players", <-paths)

	err := c.ReadyForPlayers(context.Background(), 1234, "bad")
	require.ErrorIs(t, err, UnexpectedHTTPStatusError(http.StatusConflict))
}

func Test_serverCentrifugeChannel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "server#42", serverCentrifugeChannel(42))
}
