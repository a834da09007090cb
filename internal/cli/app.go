package cli

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prohmpiriya/canteen-storefront/internal/di"
	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/guard"
	"github.com/prohmpiriya/canteen-storefront/pkg/config"
	"github.com/prohmpiriya/canteen-storefront/pkg/logger"
	pkgredis "github.com/prohmpiriya/canteen-storefront/pkg/redis"
)

// access is what a command needs from the session before it runs
type access int

const (
	accessPublic access = iota
	accessShopper
	accessAdmin
)

// app is the wiring one command invocation runs against
type app struct {
	cfg       *config.Config
	container *di.Container
	redis     *pkgredis.Client
	out       io.Writer
}

func (a *app) close() {
	if a.redis != nil {
		a.redis.Close()
	}
	logger.Sync()
}

// runE builds the app, restores the session and checks access before fn
func (o *rootOptions) runE(level access, fn func(ctx context.Context, a *app, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		a, err := o.newApp(ctx, cmd.OutOrStdout(), verbose)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.authorize(level); err != nil {
			return err
		}
		return fn(ctx, a, args)
	}
}

func (o *rootOptions) newApp(ctx context.Context, out io.Writer, verbose bool) (*app, error) {
	cfg, err := config.LoadWithViper(o.v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	level := "error"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(&logger.Config{Level: level, ServiceName: "canteenctl", Development: true}); err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}

	a := &app{cfg: cfg, out: out}
	if cfg.Session.Backend == config.SessionBackendRedis {
		a.redis, err = pkgredis.NewClient(ctx, di.RedisConfig(cfg))
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to redis")
		}
	}

	a.container, err = di.NewContainer(&di.ContainerConfig{Config: cfg, Redis: a.redis})
	if err != nil {
		a.close()
		return nil, errors.Wrap(err, "failed to build container")
	}

	// A command runs once, so restoring the session is synchronous. A
	// failed restore still leaves a usable, signed-out session.
	if err := a.container.Session.Hydrate(ctx); err != nil {
		logger.Get().Named("cli").Warn("Session restore failed", zap.Error(err))
	}

	return a, nil
}

// authorize applies the same decision the storefront's guarded views use
func (a *app) authorize(level access) error {
	snap := a.container.Session.Snapshot()

	var decision guard.Decision
	switch level {
	case accessShopper:
		decision = guard.EvaluateLogin(snap)
	case accessAdmin:
		decision = guard.Evaluate(snap, domain.RoleAdmin)
	default:
		return nil
	}

	if decision == guard.Authorized {
		return nil
	}
	if level == accessAdmin && snap.IsLoggedIn {
		return notice(errAccessDenied, "",
			"Signed in as "+snap.Role.String()+". Browse the menu with `canteenctl products`.")
	}
	return notice(errNotLoggedIn, "", "Sign in with `canteenctl login`.")
}
