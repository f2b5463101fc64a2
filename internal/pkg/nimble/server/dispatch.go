package server

import (
	"net"

	"github.com/pkg/errors"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/composer"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/wire"
)

// handleDatagram routes one inbound datagram through OrderedDatagramCodec
// acceptance and the matching request handler, then sends back whatever
// response the handler produced.
func (s *Server) handleDatagram(addr net.Addr, datagram []byte) {
	sequenceId, cmd, payload, err := wire.SplitHeader(datagram)
	if err != nil {
		s.log.WithError(err).Debug("dropping short datagram")
		return
	}

	tc, index, err := s.connectionFor(addr)
	if err != nil {
		s.log.WithError(err).Warn("rejecting datagram, no free connection slot")
		return
	}

	if !tc.InLogic.Accept(sequenceId) {
		s.log.WithFields(connectionLogFields(index)).Debug("dropping out-of-order datagram")
		return
	}

	respPayload, respCmd, result, err := s.dispatch(index, cmd, payload)
	s.applyComposeResult(result)
	if err != nil {
		level := s.log.Debug
		if !isErrorExternal(err) {
			level = s.log.Error
		}
		level(errors.Wrapf(err, "dispatch %s from transport conn %d", cmd, index))
		return
	}
	if respPayload == nil {
		return
	}

	out := wire.WriteHeader(tc.OutLogic.Next(), respCmd, respPayload)
	if err := s.transport.SendTo(addr, out); err != nil {
		s.log.WithError(err).Warn("send response failed")
		return
	}
	s.datagramsOutPerSecond.Add(1)
}

// dispatch routes payload to the matching request handler. Only
// CmdGameStep ever produces a non-zero composer.Result: composing
// authoritative steps happens inline with that request, not on a
// separate tick, so its result is threaded back out for the caller to
// apply (stats, spectator broadcast, forced-step disconnects).
func (s *Server) dispatch(index uint8, cmd wire.Command, payload []byte) ([]byte, wire.Command, composer.Result, error) {
	switch cmd {
	case wire.CmdJoinGameRequest:
		resp, err := s.handlers.HandleJoinGameRequest(index, payload)
		return resp, wire.CmdJoinGameResponse, composer.Result{}, err
	case wire.CmdGameStep:
		resp, result, err := s.handlers.HandleGameStep(index, payload)
		return resp, wire.CmdGameStepResponse, result, err
	case wire.CmdDownloadGameStateRequest:
		resp, err := s.handlers.HandleDownloadGameStateRequest(index, payload)
		return resp, wire.CmdDownloadGameStateResponse, composer.Result{}, err
	case wire.CmdDownloadGameStateStatus:
		resp, err := s.handlers.HandleDownloadGameStateStatus(index, payload)
		return resp, wire.CmdBlobStreamChunk, composer.Result{}, err
	default:
		return nil, 0, composer.Result{}, errors.Wrapf(ErrUnknownCommand, "cmd=%d", uint8(cmd))
	}
}

// applyComposeResult records the stats and side effects of a Compose
// call made during request handling: the rolling composed-steps rate,
// the spectator broadcast of every newly produced step, and the
// disconnection of any connection whose forced-step run crossed the
// threshold.
func (s *Server) applyComposeResult(result composer.Result) {
	s.composedStepsPerSecond.Add(result.AdvanceCount)
	if s.spectators != nil {
		for _, emitted := range result.Emitted {
			s.spectators.Broadcast(emitted.Id, emitted.Body)
		}
	}
	for _, conn := range result.Disconnect {
		s.disconnect(conn.TransportConnectionId)
	}
}
