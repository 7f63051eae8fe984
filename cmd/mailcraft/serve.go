package main

import (
	"context"

	"github.com/docopt/docopt-go"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/mailcraft/core/api"
	"github.com/dmitrymomot/mailcraft/core/config"
	"github.com/dmitrymomot/mailcraft/core/logger"
	"github.com/dmitrymomot/mailcraft/core/server"
	"github.com/dmitrymomot/mailcraft/pkg/ratelimiter"
)

// serve runs the HTTP API until ctx is cancelled. Without a usable assistant
// configuration the assist route answers 503 and everything else still works.
func (a *app) serve(ctx context.Context, opts docopt.Opts) error {
	var srvCfg server.Config
	if err := config.Load(&srvCfg); err != nil {
		return err
	}
	if addr := str(opts, "--addr"); addr != "" {
		srvCfg.Addr = addr
	}
	var rlCfg ratelimiter.Config
	if err := config.Load(&rlCfg); err != nil {
		return err
	}

	store := ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreLogger(a.log))
	limiter, err := ratelimiter.NewBucket(store, rlCfg)
	if err != nil {
		return err
	}

	apiOpts := []api.Option{
		api.WithLogger(a.log),
		api.WithLimiter(limiter),
		api.WithReadinessChecks(store.Healthcheck),
	}
	if collab, err := a.assistant(ctx); err != nil {
		a.log.WarnContext(ctx, "assistant disabled", logger.Component("cli"), logger.Error(err))
	} else {
		apiOpts = append(apiOpts, api.WithCollaborator(collab))
	}

	srv, err := server.NewFromConfig(srvCfg, server.WithLogger(a.log))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(store.Run(ctx))
	g.Go(srv.Run(ctx, api.New(apiOpts...).Handler()))
	return g.Wait()
}
