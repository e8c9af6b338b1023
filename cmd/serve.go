package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/Leganyst/class-scheduler/internal/admin"
	timetablepb "github.com/Leganyst/class-scheduler/internal/api/timetable/v1"
	"github.com/Leganyst/class-scheduler/internal/auth"
	"github.com/Leganyst/class-scheduler/internal/config"
	"github.com/Leganyst/class-scheduler/internal/metrics"
	"github.com/Leganyst/class-scheduler/internal/model"
	"github.com/Leganyst/class-scheduler/internal/notify"
	"github.com/Leganyst/class-scheduler/internal/repository"
	"github.com/Leganyst/class-scheduler/internal/scheduling"
	"github.com/Leganyst/class-scheduler/internal/service"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC timetable service and the admin HTTP endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.bootstrap()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logrus.NewEntry(logger), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Run AutoMigrate before serving")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log *logrus.Entry, migrate bool) error {
	// 1. Подключаемся к БД через GORM.
	gormDB, closeDB, err := openDB(cfg, log.Logger)
	if err != nil {
		return err
	}
	defer closeDB()

	// 2. Миграции моделей.
	if migrate {
		if err := model.AutoMigrate(gormDB); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	store := repository.NewStore(gormDB)

	// 3. Метрики.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// 4. Уведомления: Redis, если задан адрес, иначе лог.
	publisher, closePub := newPublisher(ctx, cfg.Redis, log)
	defer closePub()

	// 5. Ядро расписаний и gRPC-сервис.
	orch := scheduling.NewOrchestrator(store, scheduling.Options{
		Policy:        scheduling.Policy{AdminCanMutateSchedules: cfg.Policy.AdminCanMutateSchedules},
		UndoWindow:    cfg.Policy.UndoWindow,
		UndoOwnerOnly: cfg.Policy.UndoOwnerOnly,
		Logger:        log,
		Metrics:       m,
		Publisher:     publisher,
	})
	if cfg.Auth.JWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET is empty: every call will be rejected as unauthenticated")
	}
	svc := service.NewTimetableService(orch, auth.NewAuthenticator(cfg.Auth.JWTSecret, store.Users), log, cfg.Server.RequestTimeout)

	// 6. Настраиваем gRPC-сервер.
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(service.UnaryLogger(log.WithField("component", "grpc"))))
	timetablepb.RegisterTimetableServiceServer(grpcServer, svc)
	hs := health.NewServer()
	hs.SetServingStatus(timetablepb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, hs)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.GRPCAddr, err)
	}

	adminSrv := admin.NewServer(cfg.Server.AdminAddr, admin.NewRouter(reg, store, log))

	// 7. Запускаем серверы в горутинах.
	errs := make(chan error, 2)
	go func() {
		log.WithField("addr", cfg.Server.GRPCAddr).Info("core gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			errs <- fmt.Errorf("grpc serve: %w", err)
		}
	}()
	go func() {
		log.WithField("addr", cfg.Server.AdminAddr).Info("admin HTTP server listening")
		if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("admin serve: %w", err)
		}
	}()

	// 8. Грейсфул-шатдаун по сигналу или по падению одного из серверов.
	select {
	case <-ctx.Done():
	case err = <-errs:
		log.WithError(err).Error("server stopped")
	}

	log.Info("shutting down...")
	hs.Shutdown()
	grpcServer.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := adminSrv.Shutdown(shutdownCtx); serr != nil {
		log.WithError(serr).Warn("admin shutdown")
	}
	return err
}

func newPublisher(ctx context.Context, cfg config.RedisConfig, log *logrus.Entry) (notify.Publisher, func()) {
	if cfg.Addr == "" {
		return notify.NewLogPublisher(log.WithField("component", "notify")), func() {}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		// публикация best-effort: сервис поднимается и без Redis
		log.WithError(err).Warn("redis ping failed; change notifications may be lost")
	}
	return notify.NewRedisPublisher(client, cfg.Channel), func() { _ = client.Close() }
}
