// Package admin is a minimal net/http status endpoint exposing the
// server's stats counters, since the core server package tracks them
// internally but never exposes them outside the process on its own.
package admin

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Status is the shape served at GET /status.
type Status struct {
	ConnectionCount        int     `json:"connectionCount"`
	ParticipantCount       int     `json:"participantCount"`
	ComposedStepsPerSecond float64 `json:"composedStepsPerSecond"`
	DatagramsInPerSecond   float64 `json:"datagramsInPerSecond"`
	DatagramsOutPerSecond  float64 `json:"datagramsOutPerSecond"`
}

// StatusSource is whatever can produce a current Status snapshot. The
// server package satisfies this without admin importing it back.
type StatusSource func() Status

// Server serves Status snapshots over HTTP.
type Server struct {
	httpServer *http.Server
	source     StatusSource
	log        *logrus.Entry
}

// Cfg configures a Server.
type Cfg func(*Server) error

// WithAddr sets the listen address, e.g. ":8090".
func WithAddr(addr string) Cfg {
	return func(s *Server) error {
		s.httpServer.Addr = addr
		return nil
	}
}

// WithStatusSource sets the callback used to produce each response.
func WithStatusSource(source StatusSource) Cfg {
	return func(s *Server) error {
		s.source = source
		return nil
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log *logrus.Entry) Cfg {
	return func(s *Server) error {
		s.log = log
		return nil
	}
}

// New creates an admin Server from cfgs.
func New(cfgs ...Cfg) (*Server, error) {
	s := &Server{
		httpServer: &http.Server{},
		log:        logrus.NewEntry(logrus.StandardLogger()),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	s.httpServer.Handler = mux

	for _, cfg := range cfgs {
		if err := cfg(s); err != nil {
			return nil, errors.Wrap(err, "apply admin cfg")
		}
	}
	if s.source == nil {
		return nil, errors.New("admin: missing status source")
	}
	return s, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.source()); err != nil {
		s.log.WithError(err).Warn("encode status response failed")
	}
}

// ListenAndServe starts the HTTP listener, blocking until it stops.
func (s *Server) ListenAndServe() error {
	return errors.Wrap(s.httpServer.ListenAndServe(), "admin http server")
}

// Shutdown gracefully stops the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return errors.Wrap(s.httpServer.Shutdown(ctx), "shutdown admin http server")
}
