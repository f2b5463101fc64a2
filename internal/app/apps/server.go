package apps

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/admin"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/limits"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/server"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/spectator"
	"github.com/opera-aberglund/nimble-server-lib/internal/pkg/nimble/transport"
)

// ServerAppCfg configures a ServerApp.
type ServerAppCfg interface {
	ApplyServerApp(*ServerApp) error
}

// ServerApp is the nimble authoritative server application: the game
// UDP listener, the admin status endpoint, and the spectator feed,
// driven by a single ticker loop.
type ServerApp struct {
	Port          uint16
	AdminPort     uint16
	SpectatorPort uint16

	ApplicationVersion uint32
	ResourceCaps       server.ResourceCaps

	ServerTickerMS int

	log *logrus.Entry
}

// NewServerApp creates a new ServerApp.
func NewServerApp(cfgs ...ServerAppCfg) (*ServerApp, error) {
	app := &ServerApp{
		ApplicationVersion: 1,
		ServerTickerMS:     16,
		log:                logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, cfg := range cfgs {
		if err := cfg.ApplyServerApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ServerApp cfg failed")
		}
	}
	if app.Port == 0 {
		return nil, errors.New("ServerApp: port is required")
	}
	return app, nil
}

// Run starts the UDP listener, the admin and spectator HTTP listeners,
// and drives the server's update loop until ctx is cancelled.
func (app *ServerApp) Run(ctx context.Context, args []string) error {
	conn, err := net.ListenPacket("udp", fmt.Sprintf(":%d", app.Port))
	if err != nil {
		return errors.Wrap(err, "listen udp failed")
	}
	defer conn.Close()

	t := transport.NewUDP(conn, limits.MaxDatagramsPerUpdate, app.log)
	defer t.Close()

	spectators, err := spectator.New(spectator.WithLogger(app.log))
	if err != nil {
		return errors.Wrap(err, "create spectator hub failed")
	}

	srv, err := server.New(
		server.WithTransport(t),
		server.WithApplicationVersion(app.ApplicationVersion),
		server.WithResourceCaps(app.ResourceCaps),
		server.WithSpectatorHub(spectators),
		server.WithLogger(app.log),
	)
	if err != nil {
		return errors.Wrap(err, "create server failed")
	}

	adminSrv, err := admin.New(
		admin.WithAddr(fmt.Sprintf(":%d", app.AdminPort)),
		admin.WithStatusSource(func() admin.Status {
			s := srv.Status()
			return admin.Status{
				ConnectionCount:        s.ConnectionCount,
				ParticipantCount:       s.ParticipantCount,
				ComposedStepsPerSecond: s.ComposedStepsPerSecond,
				DatagramsInPerSecond:   s.DatagramsInPerSecond,
				DatagramsOutPerSecond:  s.DatagramsOutPerSecond,
			}
		}),
		admin.WithLogger(app.log),
	)
	if err != nil {
		return errors.Wrap(err, "create admin server failed")
	}

	spectatorMux := http.NewServeMux()
	spectatorMux.HandleFunc("/ws", spectators.Handle)
	spectatorSrv := &http.Server{Addr: fmt.Sprintf(":%d", app.SpectatorPort), Handler: spectatorMux}

	errs := make(chan error, 2)
	go func() {
		if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- errors.Wrap(err, "admin server failed")
		}
	}()
	go func() {
		if err := spectatorSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- errors.Wrap(err, "spectator server failed")
		}
	}()

	ticker := time.NewTicker(time.Duration(app.ServerTickerMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			adminSrv.Shutdown(shutdownCtx)
			spectatorSrv.Shutdown(shutdownCtx)
			return nil
		case err := <-errs:
			return err
		case now := <-ticker.C:
			if err := srv.Update(now); err != nil {
				app.log.WithError(err).Error("server update failed")
			}
		}
	}
}
