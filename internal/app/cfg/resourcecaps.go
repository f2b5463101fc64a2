package cfg

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/opera-aberglund/nimble-server-lib/internal"
	"github.com/opera-aberglund/nimble-server-lib/internal/app/apps"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/server"
)

// ResourceCapsCfg is configuration for the server's preallocated
// resource limits. It can be read from a YAML file with
// LoadResourceCapsFile or built from the flag/env settings with
// ResourceCapsFromEnv; cmd/nimbled uses ResourceCapsFromEnv only.
type ResourceCapsCfg struct {
	MaxConnectionCount                 int `yaml:"maxConnectionCount"`
	MaxParticipantCount                int `yaml:"maxParticipantCount"`
	MaxSingleParticipantStepOctetCount int `yaml:"maxSingleParticipantStepOctetCount"`
	ApplicationVersion                 int `yaml:"applicationVersion"`
}

// LoadResourceCapsFile reads a ResourceCapsCfg from a YAML file at path.
func LoadResourceCapsFile(path string) (*ResourceCapsCfg, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read resource caps file")
	}
	cfg := &ResourceCapsCfg{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal resource caps file")
	}
	return cfg, nil
}

// ResourceCapsFromEnv creates a ResourceCapsCfg from the current
// environment, falling back to whatever internal package defaults were
// assigned by flags.
func ResourceCapsFromEnv() *ResourceCapsCfg {
	return &ResourceCapsCfg{
		MaxConnectionCount:                 internal.MaxConnectionCount,
		MaxParticipantCount:                internal.MaxParticipantCount,
		MaxSingleParticipantStepOctetCount: internal.MaxSingleParticipantStepOctetCount,
		ApplicationVersion:                 internal.ApplicationVersion,
	}
}

// ApplyServerApp applies the ResourceCapsCfg to a ServerApp.
func (cfg ResourceCapsCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.ResourceCaps = server.ResourceCaps{
		MaxConnectionCount:                 cfg.MaxConnectionCount,
		MaxParticipantCount:                cfg.MaxParticipantCount,
		MaxSingleParticipantStepOctetCount: cfg.MaxSingleParticipantStepOctetCount,
	}
	if cfg.ApplicationVersion > 0 {
		app.ApplicationVersion = uint32(cfg.ApplicationVersion)
	}
	return nil
}
