package app

// pkg/app/server.go bridges Application → internal/server. It starts the
// background loops and the optional gRPC health server, then hands the
// handler to internal/server for the listen/serve lifecycle.

import (
	"context"

	"github.com/shashiranjanraj/grocery/internal/server"
	grpcserver "github.com/shashiranjanraj/grocery/pkg/grpc"
	"github.com/shashiranjanraj/grocery/pkg/logger"
	"github.com/shashiranjanraj/grocery/pkg/metrics"
)

// Serve runs the HTTP server until ctx is cancelled or SIGINT/SIGTERM
// arrives, then shuts down gracefully.
func (a *Application) Serve(ctx context.Context) error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.Feed.Run(ctx)
	metrics.ObserveFeedClients(a.Feed.ClientCount)
	if a.limiter != nil {
		go a.limiter.Run(ctx)
	}

	if a.Config.GRPCPort != "" {
		srv, err := grpcserver.Start(a.Config.GRPCPort, a.Ping)
		if err != nil {
			return err
		}
		defer grpcserver.Stop(srv)
	}

	err = server.Run(ctx, ":"+a.Config.Port, handler)
	a.Events.Wait()
	logger.Info("app: stopped")
	return err
}
