package handler

import "github.com/pkg/errors"

var (
	// ErrUnknownTransportConnection is returned when a request arrives on
	// a transport connection index the server has no record of.
	ErrUnknownTransportConnection = errors.New("handler: unknown transport connection")
	// ErrNotJoined is returned when a request that requires an assigned
	// ParticipantConnection arrives before JoinGame.
	ErrNotJoined = errors.New("handler: connection has not joined the game")
	// ErrInvalidLocalPlayerCount is returned when a JoinGame request asks
	// for zero or more than limits.MaxLocalPlayers local players.
	ErrInvalidLocalPlayerCount = errors.New("handler: invalid local player count")
)
