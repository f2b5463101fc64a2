package transportconn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectDisconnect(t *testing.T) {
	pool := NewPool(4)
	conn := pool.Connect(2)
	require.True(t, conn.IsUsed)
	require.Equal(t, uint8(2), conn.TransportConnectionId)
	require.Equal(t, PhaseIdle, conn.Phase)

	conn.InLogic.Accept(5)
	pool.Disconnect(2)
	require.False(t, conn.IsUsed)
	require.False(t, conn.InLogic.HasReceivedInitialDatagram())
}

func TestGetOutOfRange(t *testing.T) {
	pool := NewPool(4)
	require.Nil(t, pool.Get(4))
}
