// Package router assembles the ops gRPC server.
package router

import (
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/couponhub/internal/api/grpc/handler"
	"github.com/dtroode/couponhub/internal/api/grpc/middleware"
	"github.com/dtroode/couponhub/internal/logger"
)

type Router struct {
	health *handler.Health
	logger *logger.Logger
}

// New creates a router whose health service pings db.
func New(db handler.Pinger, logger *logger.Logger) *Router {
	return &Router{
		health: handler.NewHealth(db, logger),
		logger: logger,
	}
}

// Health exposes the health service so callers can flip it to NOT_SERVING on shutdown.
func (r *Router) Health() *handler.Health {
	return r.health
}

// Register builds the gRPC server with logging and panic recovery, and
// registers the health and reflection services.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recoveryOpts := middleware.RecoveryOptions(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recoveryOpts...),
		),
		grpc.ChainStreamInterceptor(
			logging.HandleGRPCStream,
			recovery.StreamServerInterceptor(recoveryOpts...),
		),
	)

	grpc_health_v1.RegisterHealthServer(s, r.health)
	reflection.Register(s)

	return s
}
