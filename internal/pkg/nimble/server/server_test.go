package server

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/transport"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/wire"
)

type testAddr string

func (a testAddr) Network() string { return "test" }
func (a testAddr) String() string  { return string(a) }

type fakeTransport struct {
	inbox chan transport.Inbound
	sent  map[string][][]byte
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{inbox: make(chan transport.Inbound, 64), sent: map[string][][]byte{}}
}

func (f *fakeTransport) Inbox() <-chan transport.Inbound { return f.inbox }

func (f *fakeTransport) SendTo(addr net.Addr, data []byte) error {
	f.sent[addr.String()] = append(f.sent[addr.String()], data)
	return nil
}

func (f *fakeTransport) Close() error { return nil }

func (f *fakeTransport) deliver(addr net.Addr, sequenceId uint8, cmd wire.Command, payload []byte) {
	f.inbox <- transport.Inbound{Addr: addr, Data: wire.WriteHeader(sequenceId, cmd, payload)}
}

func TestJoinAndStepEndToEnd(t *testing.T) {
	ft := newFakeTransport()
	s, err := New(WithTransport(ft))
	require.NoError(t, err)
	s.SetGameState([]byte("snapshot"), 0)

	addr := testAddr("client-a")
	ft.deliver(addr, 0, wire.CmdJoinGameRequest, wire.EncodeJoinGameRequest(wire.JoinGameRequest{LocalPlayerCount: 1}))
	require.NoError(t, s.Update(time.Now()))

	require.Len(t, ft.sent[addr.String()], 1)
	_, cmd, payload, err := wire.SplitHeader(ft.sent[addr.String()][0])
	require.NoError(t, err)
	require.Equal(t, wire.CmdJoinGameResponse, cmd)
	joinResp, err := wire.DecodeJoinGameResponse(payload)
	require.NoError(t, err)
	require.Equal(t, []uint8{1}, joinResp.ParticipantIds)

	stepReq, err := wire.EncodeGameStepRequest(wire.GameStepRequest{
		WaitingForStepId:     0,
		FirstPredictedStepId: 0,
		Steps: []wire.CombinedStep{
			{{ParticipantId: 1, Bytes: []byte{0x42}}},
		},
	})
	require.NoError(t, err)
	ft.deliver(addr, 1, wire.CmdGameStep, stepReq)
	require.NoError(t, s.Update(time.Now()))

	require.Equal(t, 1, s.Game().AuthoritativeSteps.StepsCount())
}

func TestTwoClientsComposeOneAuthoritativeStepEachTick(t *testing.T) {
	ft := newFakeTransport()
	s, err := New(WithTransport(ft))
	require.NoError(t, err)
	s.SetGameState([]byte("snapshot"), 0)

	addrA := testAddr("client-a")
	addrB := testAddr("client-b")
	joinReq := wire.EncodeJoinGameRequest(wire.JoinGameRequest{LocalPlayerCount: 1})
	ft.deliver(addrA, 0, wire.CmdJoinGameRequest, joinReq)
	ft.deliver(addrB, 0, wire.CmdJoinGameRequest, joinReq)
	require.NoError(t, s.Update(time.Now()))

	_, _, payloadA, err := wire.SplitHeader(ft.sent[addrA.String()][0])
	require.NoError(t, err)
	joinRespA, err := wire.DecodeJoinGameResponse(payloadA)
	require.NoError(t, err)
	_, _, payloadB, err := wire.SplitHeader(ft.sent[addrB.String()][0])
	require.NoError(t, err)
	joinRespB, err := wire.DecodeJoinGameResponse(payloadB)
	require.NoError(t, err)

	stepReqA, err := wire.EncodeGameStepRequest(wire.GameStepRequest{
		Steps: []wire.CombinedStep{{{ParticipantId: joinRespA.ParticipantIds[0], Bytes: []byte{0x01}}}},
	})
	require.NoError(t, err)
	stepReqB, err := wire.EncodeGameStepRequest(wire.GameStepRequest{
		Steps: []wire.CombinedStep{{{ParticipantId: joinRespB.ParticipantIds[0], Bytes: []byte{0x02}}}},
	})
	require.NoError(t, err)
	ft.deliver(addrA, 1, wire.CmdGameStep, stepReqA)
	ft.deliver(addrB, 1, wire.CmdGameStep, stepReqB)
	require.NoError(t, s.Update(time.Now()))

	require.Equal(t, 1, s.Game().AuthoritativeSteps.StepsCount())
}

func TestOutOfOrderDatagramDropped(t *testing.T) {
	ft := newFakeTransport()
	s, err := New(WithTransport(ft))
	require.NoError(t, err)

	addr := testAddr("client-a")
	joinReq := wire.EncodeJoinGameRequest(wire.JoinGameRequest{LocalPlayerCount: 1})
	ft.deliver(addr, 5, wire.CmdJoinGameRequest, joinReq)
	ft.deliver(addr, 5, wire.CmdJoinGameRequest, joinReq)
	require.NoError(t, s.Update(time.Now()))

	require.Len(t, ft.sent[addr.String()], 1)
}

func TestTooManyConnectionsRejected(t *testing.T) {
	ft := newFakeTransport()
	s, err := New(WithTransport(ft), WithMaxConnectionCount(1))
	require.NoError(t, err)

	joinReq := wire.EncodeJoinGameRequest(wire.JoinGameRequest{LocalPlayerCount: 1})
	ft.deliver(testAddr("client-a"), 0, wire.CmdJoinGameRequest, joinReq)
	ft.deliver(testAddr("client-b"), 0, wire.CmdJoinGameRequest, joinReq)
	require.NoError(t, s.Update(time.Now()))

	require.Len(t, ft.sent["client-a"], 1)
	require.Len(t, ft.sent["client-b"], 0)
}

func TestNewRejectsConnectionCapAboveLimit(t *testing.T) {
	ft := newFakeTransport()
	_, err := New(WithTransport(ft), WithMaxConnectionCount(65))
	require.ErrorIs(t, err, ErrResourceCapExceeded)
}

func TestNewRejectsStepOctetCapAboveLimit(t *testing.T) {
	ft := newFakeTransport()
	_, err := New(WithTransport(ft), WithMaxSingleParticipantStepOctetCount(25))
	require.ErrorIs(t, err, ErrResourceCapExceeded)
}

func TestDisconnectReleasesParticipants(t *testing.T) {
	ft := newFakeTransport()
	s, err := New(WithTransport(ft))
	require.NoError(t, err)

	addr := testAddr("client-a")
	ft.deliver(addr, 0, wire.CmdJoinGameRequest, wire.EncodeJoinGameRequest(wire.JoinGameRequest{LocalPlayerCount: 2}))
	require.NoError(t, s.Update(time.Now()))

	conn, ok := s.participants.FindByTransportConnectionId(0)
	require.True(t, ok)
	require.Len(t, conn.ParticipantRefs, 2)

	s.disconnect(0)

	_, ok = s.participants.FindByTransportConnectionId(0)
	require.False(t, ok)
	require.Nil(t, s.game.Participants.Get(1))
}
