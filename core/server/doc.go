// Package server runs an http.Handler with graceful shutdown.
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	return srv.Run(ctx, handler)()
//
// Run returns a func() error so the server can join an errgroup next to other
// long-running components. Cancelling ctx triggers a graceful shutdown bounded
// by the shutdown timeout.
package server
