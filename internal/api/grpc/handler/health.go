// Package handler implements the ops gRPC services.
package handler

import (
	"context"

	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/couponhub/internal/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health serves grpc.health.v1.Health. The overall status ("" service) also
// requires the database to answer a ping.
type Health struct {
	*health.Server
	db     Pinger
	logger *logger.Logger
}

func NewHealth(db Pinger, logger *logger.Logger) *Health {
	return &Health{
		Server: health.NewServer(),
		db:     db,
		logger: logger,
	}
}

func (h *Health) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	if req.GetService() == "" && h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn("Health handler: database ping failed",
				"error", err.Error())
			return &grpc_health_v1.HealthCheckResponse{
				Status: grpc_health_v1.HealthCheckResponse_NOT_SERVING,
			}, nil
		}
	}
	return h.Server.Check(ctx, req)
}
