package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"evacuation/internal/history"
	"evacuation/internal/report"
	"evacuation/internal/scenario"
	"evacuation/internal/server"
	"evacuation/internal/service"
	"evacuation/pkg/cache"
	"evacuation/pkg/config"
	"evacuation/pkg/database"
	"evacuation/pkg/logger"
	"evacuation/pkg/metrics"
	"evacuation/pkg/telemetry"
)

func main() {
	var (
		serve      = flag.Bool("serve", false, "запустить HTTP сервер вместо разового отчёта")
		configPath = flag.String("config", "", "путь к файлу конфигурации")
		format     = flag.String("format", "", "формат отчёта: csv, json, markdown, excel, pdf")
		output     = flag.String("output", "", "путь к файлу отчёта; \"-\" - stdout")
	)
	flag.Parse()

	// Загружаем конфигурацию
	var opts []config.LoaderOption
	if *configPath != "" {
		opts = append(opts, config.WithConfigPaths(*configPath))
	}
	cfg, err := config.NewLoader(opts...).Load()
	if err != nil {
		logger.Init("error")
		logger.Fatal("Failed to load config", "error", err)
	}

	// Инициализируем логгер
	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	logger.Log.Info("Starting evacuation planning service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Метрики
	if cfg.Metrics.Enabled {
		m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
		m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)
	}

	// Телеметрия
	tp, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		logger.Fatal("Failed to init telemetry", "error", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Telemetry shutdown error", "error", err)
		}
	}()

	// Здание и сценарии из конфигурации
	base, err := cfg.Building.ToGraph()
	if err != nil {
		logger.Fatal("Failed to build graph", "error", err)
	}
	scenarios := config.ToScenarios(cfg.Scenarios)

	logger.Log.Info("Building loaded",
		"building", base.Name(),
		"nodes", base.NodeCount(),
		"corridors", base.CorridorCount(),
		"scenarios", len(scenarios),
	)

	// История прогонов (опционально)
	var repo history.RunRepository
	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		defer db.Close()

		if err := history.Migrate(ctx, db.Pool(), &cfg.Database); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}

		repo = history.NewPostgresRunRepository(db)
	}

	// Кэш планов (опционально)
	var planCache *cache.PlanCache
	if cfg.Cache.Enabled {
		c, err := cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			logger.Fatal("Failed to init cache", "error", err)
		}
		defer func() {
			if err := c.Close(); err != nil {
				logger.Log.Error("Cache close error", "error", err)
			}
		}()
		planCache = cache.NewPlanCache(c, cfg.Cache.DefaultTTL)
	}

	runner := scenario.NewRunner(&cfg.Runner)
	planner := service.NewPlanner(base, scenarios, runner, planCache, repo)

	// Разовый режим: план и отчёт, как в пилотном расчёте
	if !*serve {
		if err := runOnce(ctx, cfg, planner, *format, *output); err != nil {
			logger.Fatal("Plan failed", "error", err)
		}
		return
	}

	// Режим сервера
	handler := server.NewHandler(base, planner, runner, repo)
	srv := server.New(cfg, handler)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server shutdown error", "error", err)
	}

	logger.Log.Info("Server stopped")
}

// runOnce считает план и пишет отчёт в файл или stdout
func runOnce(ctx context.Context, cfg *config.Config, planner *service.Planner, formatFlag, outputFlag string) error {
	f := report.Format(cfg.Report.Format)
	if formatFlag != "" {
		f = report.Format(formatFlag)
	}

	opts := report.DefaultOptions()
	if cfg.Report.Title != "" {
		opts.Title = fmt.Sprintf("%s: %s", cfg.Report.Title, planner.Building())
	}

	plan, data, err := planner.PlanAndReport(ctx, f, opts)
	if err != nil {
		return err
	}

	for _, res := range plan.Results {
		logger.WithScenario(res.Scenario.Name).Info("scenario result",
			"flow_value", res.FlowValue,
			"time_cost", res.TotalTimeCost,
			"warnings", len(res.Warnings),
		)
	}

	if outputFlag == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	path := outputFlag
	if path == "" {
		path = filepath.Join(cfg.Report.OutputDir,
			fmt.Sprintf("evacuation-plan-%s.%s", plan.RunID, f.Extension()))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	logger.WithRunID(plan.RunID).Info("report written",
		"path", path,
		"format", string(f),
		"bytes", len(data),
	)
	return nil
}
