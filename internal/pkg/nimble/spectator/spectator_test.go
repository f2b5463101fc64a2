package spectator

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/stepid"
)

func TestBroadcastDeliversToConnectedSpectator(t *testing.T) {
	hub, err := New()
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(hub.Handle))
	defer srv.Close()

	wsURL := "ws" + srv.URL[len("http"):]
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(stepid.StepId(42), []byte{0x01, 0x02})

	var got StepBroadcast
	conn.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, conn.ReadJSON(&got))
	require.Equal(t, stepid.StepId(42), got.StepId)
	require.Equal(t, []byte{0x01, 0x02}, got.Body)
}

func TestCountDropsOnDisconnect(t *testing.T) {
	hub, err := New()
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(hub.Handle))
	defer srv.Close()

	wsURL := "ws" + srv.URL[len("http"):]
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 10*time.Millisecond)
}
