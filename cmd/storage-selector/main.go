package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/table-storage/pkg/tablestorage"
	"github.com/tendant/table-storage/pkg/tablestorage/api"
	"github.com/tendant/table-storage/pkg/tablestorage/config"
	"github.com/tendant/table-storage/pkg/tablestorage/metrics"
	"github.com/tendant/table-storage/pkg/tablestorage/storage"
	"github.com/tendant/table-storage/pkg/tablestorage/tracing"
)

type Config struct {
	ClusterConfigPath string        `env:"CLUSTER_CONFIG_PATH" env-default:""`
	OtelEndpoint      string        `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT" env-default:""`
	LogDecisions      bool          `env:"LOG_DECISIONS" env-default:"false"`
	ReadyTimeout      time.Duration `env:"READY_TIMEOUT" env-default:"3s"`
}

func main() {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	shutdown, err := tracing.Setup(ctx, "storage-selector", cfg.OtelEndpoint)
	if err != nil {
		slog.Error("Failed to set up tracing", "err", err)
		os.Exit(1)
	}
	defer shutdown(ctx)

	var opts []config.Option
	if cfg.ClusterConfigPath != "" {
		opts = append(opts, config.WithFile(cfg.ClusterConfigPath))
	}
	opts = append(opts, config.WithEnv())

	clusterConfig, err := config.Load(opts...)
	if err != nil {
		slog.Error("Failed to load cluster configuration", "err", err)
		os.Exit(1)
	}

	registry, err := clusterConfig.BuildRegistry()
	if err != nil {
		slog.Error("Failed to build storage registry", "err", err)
		os.Exit(1)
	}

	strategy, err := clusterConfig.BuildStrategy(registry)
	if err != nil {
		slog.Error("Failed to build selection strategy", "err", err)
		os.Exit(1)
	}

	promSink, err := metrics.NewPrometheusSink(prometheus.DefaultRegisterer)
	if err != nil {
		slog.Error("Failed to register metrics", "err", err)
		os.Exit(1)
	}

	selectorOpts := []tablestorage.Option{
		tablestorage.WithDecisionSink(promSink),
		tablestorage.WithDecisionSink(tracing.NewSpanSink()),
	}
	if cfg.LogDecisions {
		selectorOpts = append(selectorOpts, tablestorage.WithDecisionSink(tablestorage.NewLoggingDecisionSink(slog.Default())))
	}

	selector, err := tablestorage.New(strategy, selectorOpts...)
	if err != nil {
		slog.Error("Failed to build storage selector", "err", err)
		os.Exit(1)
	}

	locators, err := storage.NewLocators(registry)
	if err != nil {
		slog.Error("Failed to build storage locators", "err", err)
		os.Exit(1)
	}

	slog.Info("Storage selector configured",
		"cluster", clusterConfig.Name,
		"default_type", registry.DefaultType().String(),
		"types", len(registry.Types()),
		"strategy", strategy.Name(),
	)

	server := app.DefaultApp()

	// Selection counters land in the default registry, which chi-demo serves
	// on its own metrics listener.
	mountRoutes(server.R, api.NewStorageHandler(selector, registry, locators), locators, cfg.ReadyTimeout)

	server.Run()
}

func mountRoutes(r *chi.Mux, storageHandler *api.StorageHandler, locators map[tablestorage.StorageType]tablestorage.Locator, readyTimeout time.Duration) {
	app.RoutesHealthz(r)
	r.Get("/healthz/ready", api.NewReadinessHandler(locators, readyTimeout))

	r.Route("/api/v1/storage", func(r chi.Router) {
		r.Use(api.RequestIDMiddleware)
		r.Use(api.RecoveryMiddleware)
		r.Use(tracing.Middleware(nil))
		r.Use(api.LoggingMiddleware(slog.Default()))
		r.Use(api.JSONContentType)
		r.Mount("/", storageHandler.Routes())
	})
}
