// Package cfg implements functionality to configure an app.
//
// The configuration objects defined here need only be implemented once,
// but can be applied to multiple types.
//
// In order to add support for a new type, the configuration
// need only implement an ApplyX method.
package cfg

import (
	"github.com/opera-aberglund/nimble-server-lib/internal"
	"github.com/opera-aberglund/nimble-server-lib/internal/app/apps"
)

// PortCfg is configuration for the game, admin, and spectator ports a
// ServerApp binds.
type PortCfg struct {
	port          uint16
	adminPort     uint16
	spectatorPort uint16
}

// NewPortCfg creates a new PortCfg from explicit ports.
func NewPortCfg(port, adminPort, spectatorPort uint16) *PortCfg {
	return &PortCfg{port: port, adminPort: adminPort, spectatorPort: spectatorPort}
}

// PortFromEnv creates a new PortCfg from the current environment.
func PortFromEnv() *PortCfg {
	return &PortCfg{
		port:          uint16(internal.Port),
		adminPort:     uint16(internal.AdminPort),
		spectatorPort: uint16(internal.SpectatorPort),
	}
}

// ApplyServerApp applies the PortCfg to a ServerApp.
func (cfg PortCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Port = cfg.port
	app.AdminPort = cfg.adminPort
	app.SpectatorPort = cfg.spectatorPort
	return nil
}
