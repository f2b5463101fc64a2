// Package log adds logging utilities shared across the server binary.
package log

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/wire"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger sets the default logger's level and formatter.
func SetLogger(level string) {
	logrus.SetLevel(logrus.InfoLevel)
	customFormatter := new(logrus.TextFormatter)
	customFormatter.TimestampFormat = time.RFC3339
	customFormatter.FullTimestamp = true
	logrus.SetFormatter(customFormatter)
	switch strings.ToLower(level) {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// DatagramFields describes an inbound or outbound datagram for structured
// logging: which transport connection it belongs to, and the command it
// carries.
func DatagramFields(transportConnIndex uint8, cmd wire.Command, octetCount int) logrus.Fields {
	return logrus.Fields{
		"transportConnIndex": transportConnIndex,
		"command":            cmd.String(),
		"octetCount":         octetCount,
	}
}

// ConnectionFields describes a transport connection lifecycle event.
func ConnectionFields(transportConnIndex uint8) logrus.Fields {
	return logrus.Fields{
		"transportConnIndex": transportConnIndex,
	}
}

// StatsFields describes one periodic server-stats log line.
func StatsFields(connectionCount, participantCount int, composedStepsPerSecond, datagramsInPerSecond, datagramsOutPerSecond float64) logrus.Fields {
	return logrus.Fields{
		"connectionCount":        connectionCount,
		"participantCount":       participantCount,
		"composedStepsPerSecond": composedStepsPerSecond,
		"datagramsInPerSecond":   datagramsInPerSecond,
		"datagramsOutPerSecond":  datagramsOutPerSecond,
	}
}
