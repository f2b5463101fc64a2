package server

import "github.com/pkg/errors"

var (
	// ErrMissingDependency is returned by New when a required Cfg was not
	// supplied.
	ErrMissingDependency = errors.New("server: missing required dependency")
	// ErrTooManyConnections is returned when a datagram arrives from a new
	// remote address but every transport connection slot is already in
	// use.
	ErrTooManyConnections = errors.New("server: too many connections")
	// ErrUnknownCommand is returned when a datagram's command byte does
	// not match any known Command.
	ErrUnknownCommand = errors.New("server: unknown command")
	// ErrResourceCapExceeded is returned by New when a Cfg requests a
	// preallocated resource cap above what the wire format and ring
	// buffers were designed to address.
	ErrResourceCapExceeded = errors.New("server: resource cap exceeded")
	// ErrBlobStreamActive is returned by ReInitWithGame when a connection
	// is still mid-transfer on an outbound state snapshot; discarding the
	// game state it refers to out from under it would leave that
	// transfer streaming garbage chunks.
	ErrBlobStreamActive = errors.New("server: blob stream still active")
)
