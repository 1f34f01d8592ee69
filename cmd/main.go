package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpctx "github.com/dtroode/couponhub/internal/api/http/context"
	httpRouter "github.com/dtroode/couponhub/internal/api/http/router"
	httpServer "github.com/dtroode/couponhub/internal/api/http/server"
	grpcRouter "github.com/dtroode/couponhub/internal/api/grpc/router"
	grpcServer "github.com/dtroode/couponhub/internal/api/grpc/server"
	"github.com/dtroode/couponhub/internal/config"
	"github.com/dtroode/couponhub/internal/logger"
	"github.com/dtroode/couponhub/internal/model"
	"github.com/dtroode/couponhub/internal/password"
	"github.com/dtroode/couponhub/internal/repository/postgres"
	"github.com/dtroode/couponhub/internal/server"
	"github.com/dtroode/couponhub/internal/service"
	storage "github.com/dtroode/couponhub/internal/storage/minio"
	"github.com/dtroode/couponhub/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	couponRepo := postgres.NewCouponRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	tokenManager := token.NewJWT(cfg.Session.Secret, cfg.Session.TTL)

	sessionService := service.NewSessionService(tokenManager, sessionRepo, cfg.Session.TTL, logger.With("component", "session"))
	authService := service.NewAuth(userRepo, password.NewBcryptHasher(cfg.Bcrypt.Cost), sessionService, logger.With("component", "auth"))
	couponLogger := logger.With("component", "coupon")
	couponService := service.NewCoupon(couponRepo, newManifestStorage(ctx, cfg.Storage, couponLogger), couponLogger)

	err = service.Bootstrap(ctx, authService, couponService, model.AdminParams{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Phone:    cfg.Admin.Phone,
		Password: cfg.Admin.Password,
	})
	if err != nil {
		logger.Fatal("failed to bootstrap", "error", err)
	}

	web := httpServer.NewHTTPServer(
		httpRouter.New(authService, couponService, db, httpctx.NewManager(), cfg.Session, logger.With("component", "http")).Register(),
		fmt.Sprintf(":%s", cfg.HTTP.Port),
	)
	opsRouter := grpcRouter.New(db, logger.With("component", "grpc"))
	ops := grpcServer.NewGRPCServer(opsRouter.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))

	var wg sync.WaitGroup
	start := func(s model.Server, sl model.SecurityLayer) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}()
	}
	start(web, server.NewSecurityLayer(cfg.HTTP))
	start(ops, server.NewPlainListener())

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")
	opsRouter.Health().Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range []model.Server{web, ops} {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// newManifestStorage connects to object storage when it is enabled. Export
// is optional, so a connection failure only disables it.
func newManifestStorage(ctx context.Context, cfg config.Storage, logger *logger.Logger) model.Storage {
	if !cfg.Enabled {
		return nil
	}
	client, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize storage client, manifest export disabled", "error", err)
		return nil
	}
	return client
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
