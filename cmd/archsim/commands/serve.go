package commands

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/GoSim-25-26J-441/archsim-core/internal/cache"
	"github.com/GoSim-25-26J-441/archsim-core/internal/metrics"
	"github.com/GoSim-25-26J-441/archsim-core/internal/simd"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/config"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/logger"
)

func newServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation daemon (HTTP and gRPC)",
		Long: `serve starts the HTTP API, the gRPC service and the Prometheus endpoint.
Settings come from --config and ARCHSIM_* environment variables, e.g.
ARCHSIM_HTTP_ADDR=:9090 or ARCHSIM_CACHE_BACKEND=redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServerConfig(configPath)
			if err != nil {
				return err
			}
			logger.SetDefault(logger.NewWithFormat(cfg.Log.Format, cfg.Log.Level, cmd.ErrOrStderr()))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "server config file (YAML)")
	return cmd
}

func serve(ctx context.Context, cfg *config.ServerConfig) error {
	results, err := cache.New(cfg.Cache)
	if err != nil {
		return err
	}
	if closer, ok := results.(io.Closer); ok {
		defer closer.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	notifier := simd.NewNotifier(
		simd.WithRetries(cfg.Notifier.MaxRetries, cfg.Notifier.BaseDelay),
		simd.WithNotifierMetrics(collector),
	)
	executor := simd.NewRunExecutor(simd.NewRunStore(),
		simd.WithCache(results),
		simd.WithMetrics(collector),
		simd.WithNotifier(notifier),
		simd.WithMaxParallel(cfg.Executor.MaxParallel),
	)

	httpSrv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: simd.NewHTTPServer(executor, simd.HTTPOptions{
			RateLimitRPS:   cfg.HTTP.RateLimitRPS,
			RateLimitBurst: cfg.HTTP.RateLimitBurst,
			MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		}).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var grpcServer *grpc.Server
	if cfg.GRPC.Addr != "" {
		grpcLis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			logger.Error("failed to listen for gRPC", "addr", cfg.GRPC.Addr, "error", err)
			return err
		}
		grpcServer = grpc.NewServer()
		simd.RegisterSimulationServiceServer(grpcServer, simd.NewSimulationGRPCServer(executor))
		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPC.Addr)
			if err := grpcServer.Serve(grpcLis); err != nil {
				logger.Error("gRPC server error", "error", err)
				cancel()
			}
		}()
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTP.Addr, "cache", cfg.Cache.Backend)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	executor.Wait()
	return nil
}
