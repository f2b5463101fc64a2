// Package main is the nimble server application entrypoint.
package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opera-aberglund/nimble-server-lib/internal"
	"github.com/opera-aberglund/nimble-server-lib/internal/app/apps"
	"github.com/opera-aberglund/nimble-server-lib/internal/app/cfg"
	"github.com/opera-aberglund/nimble-server-lib/internal/app/flags"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/log"
)

// CLI command definitions.
var (
	logger logrus.FieldLogger = logrus.StandardLogger()

	rootCmd = &cobra.Command{
		RunE: func(*cobra.Command, []string) error {
			return nil
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Starts the nimble authoritative server.",
		RunE:  runCmd,
	}
)

func newApp(cmd *cobra.Command) (apps.App, error) {
	switch cmd.Name() {
	case "serve":
		app, err := apps.NewServerApp(cfg.PortFromEnv(), cfg.ResourceCapsFromEnv(), cfg.TickerFromEnv())
		if err != nil {
			return nil, errors.Wrap(err, "new server app failed")
		}
		return app, nil
	default:
		return nil, fmt.Errorf("unknown command: %s", cmd.Name())
	}
}

func runCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := chainedCheck(ctx, envCheck); err != nil {
		return errors.Wrap(err, "chained check failed")
	}
	app, err := newApp(cmd)
	if err != nil {
		return errors.Wrapf(err, "new %s app failed", cmd.Name())
	}
	return errors.Wrap(app.Run(ctx, args), "run app failed")
}

func envCheck(ctx context.Context) error {
	if err := internal.ValidateEnv(); err != nil {
		return errors.Wrap(err, "validate env failed")
	}
	log.SetLogger(internal.LogLevel)
	return nil
}

func chainedCheck(ctx context.Context, checks ...func(context.Context) error) error {
	for _, check := range checks {
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	err := flags.RegisterCommandFlags(rootCmd, []*flags.Flag{
		&internal.EnvFlag,
		&internal.LogLevelFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	err = flags.RegisterCommandFlags(serveCmd, []*flags.Flag{
		&internal.PortFlag,
		&internal.AdminPortFlag,
		&internal.SpectatorPortFlag,
		&internal.ApplicationVersionFlag,
		&internal.ServerTickerMSFlag,
		&internal.MaxConnectionCountFlag,
		&internal.MaxParticipantCountFlag,
		&internal.MaxSingleParticipantStepOctetCountFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(errors.Wrap(err, "execute root command failed"))
	}
}
