// Package internal holds the application-wide settings shared across
// cmd/nimbled's subcommands: environment, logging, ports, and the
// server's preallocated resource caps.
package internal

import (
	"github.com/pkg/errors"

	"github.com/opera-aberglund/nimble-server-lib/internal/app/flags"
)

// Settings populated from flags/env, consumed by internal/app/cfg.
var (
	Env      string
	LogLevel string

	Port          int
	AdminPort     int
	SpectatorPort int

	MaxConnectionCount                 int
	MaxParticipantCount                int
	MaxSingleParticipantStepOctetCount int
	ApplicationVersion                 int

	ServerTickerMS int
)

// EnvFlag selects the deployment environment, e.g. "development" or
// "production".
var EnvFlag = flags.Flag{
	Name:    "env",
	Usage:   "deployment environment",
	EnvVar:  "NIMBLE_ENV",
	Target:  &Env,
	Default: "development",
}

// LogLevelFlag sets the logrus level.
var LogLevelFlag = flags.Flag{
	Name:    "log-level",
	Usage:   "log level (debug, info, warn, error)",
	EnvVar:  "NIMBLE_LOG_LEVEL",
	Target:  &LogLevel,
	Default: "info",
}

// PortFlag is the UDP port the game server listens on.
var PortFlag = flags.Flag{
	Name:    "port",
	Usage:   "UDP port the game server listens on",
	EnvVar:  "NIMBLE_PORT",
	Target:  &Port,
	Default: 7000,
}

// AdminPortFlag is the HTTP port the admin status endpoint listens on.
var AdminPortFlag = flags.Flag{
	Name:    "admin-port",
	Usage:   "HTTP port the admin status endpoint listens on",
	EnvVar:  "NIMBLE_ADMIN_PORT",
	Target:  &AdminPort,
	Default: 7090,
}

// SpectatorPortFlag is the HTTP/websocket port the spectator feed
// listens on.
var SpectatorPortFlag = flags.Flag{
	Name:    "spectator-port",
	Usage:   "HTTP port the spectator websocket feed listens on",
	EnvVar:  "NIMBLE_SPECTATOR_PORT",
	Target:  &SpectatorPort,
	Default: 7091,
}

// MaxConnectionCountFlag is the preallocated transport connection cap.
var MaxConnectionCountFlag = flags.Flag{
	Name:    "max-connection-count",
	Usage:   "maximum number of simultaneous transport connections",
	EnvVar:  "NIMBLE_MAX_CONNECTION_COUNT",
	Target:  &MaxConnectionCount,
	Default: 0,
}

// MaxParticipantCountFlag is the preallocated participant cap.
var MaxParticipantCountFlag = flags.Flag{
	Name:    "max-participant-count",
	Usage:   "maximum number of simultaneous participants",
	EnvVar:  "NIMBLE_MAX_PARTICIPANT_COUNT",
	Target:  &MaxParticipantCount,
	Default: 0,
}

// MaxSingleParticipantStepOctetCountFlag is the per-tick per-participant
// payload cap.
var MaxSingleParticipantStepOctetCountFlag = flags.Flag{
	Name:    "max-single-participant-step-octet-count",
	Usage:   "maximum octet count of a single participant's per-tick step payload",
	EnvVar:  "NIMBLE_MAX_SINGLE_PARTICIPANT_STEP_OCTET_COUNT",
	Target:  &MaxSingleParticipantStepOctetCount,
	Default: 0,
}

// ApplicationVersionFlag is the version DownloadGameStateRequest is
// checked against.
var ApplicationVersionFlag = flags.Flag{
	Name:    "application-version",
	Usage:   "application version clients must match to download game state",
	EnvVar:  "NIMBLE_APPLICATION_VERSION",
	Target:  &ApplicationVersion,
	Default: 1,
}

// ServerTickerMSFlag is the interval between Server.Update calls.
var ServerTickerMSFlag = flags.Flag{
	Name:    "server-ticker-ms",
	Usage:   "milliseconds between server update ticks",
	EnvVar:  "NIMBLE_SERVER_TICKER_MS",
	Target:  &ServerTickerMS,
	Default: 16,
}

// ValidateEnv checks that Env holds a recognized value.
func ValidateEnv() error {
	switch Env {
	case "development", "staging", "production":
		return nil
	default:
		return errors.Errorf("unrecognized environment: %q", Env)
	}
}
