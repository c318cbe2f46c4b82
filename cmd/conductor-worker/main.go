// Command conductor-worker runs the per-node scheduler loop: it pulls jobs
// from the shared Redis store, drives them through the ingestion pipeline,
// and reports liveness through heartbeats.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"conductor/internal/config"
	"conductor/internal/gates"
	"conductor/internal/jobstore"
	"conductor/internal/ledger"
	"conductor/internal/logging"
	"conductor/internal/notifications"
	"conductor/internal/pipeline"
	"conductor/internal/power"
	"conductor/internal/services/classifier"
	"conductor/internal/services/embedder"
	"conductor/internal/services/extractor"
	"conductor/internal/triage"
	"conductor/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	logger = logger.With(logging.String(logging.FieldWorker, cfg.Worker.Hostname))

	store, err := jobstore.Open(ctx, cfg)
	if err != nil {
		logger.Error("open job store", logging.Error(err))
		return
	}
	defer store.Close()

	ledgerStore, err := ledger.Open(cfg)
	if err != nil {
		logger.Error("open ledger", logging.Error(err))
		return
	}
	defer ledgerStore.Close()

	engine := gates.NewEngine(cfg.Gates.ConfidenceFloor, cfg.Gates.ConfidenceTarget, ledgerStore)
	notifier := notifications.NewService(cfg)
	pipe := pipeline.New(
		cfg,
		engine,
		ledgerStore,
		extractor.NewClient(extractor.Config{
			PrimaryURL:     cfg.Extractor.PrimaryURL,
			SecondaryURL:   cfg.Extractor.SecondaryURL,
			TimeoutSeconds: cfg.Extractor.TimeoutSeconds,
		}),
		classifier.NewClient(classifier.Config{
			URL:            cfg.Classifier.URL,
			Model:          cfg.Classifier.Model,
			TimeoutSeconds: cfg.Classifier.TimeoutSeconds,
		}),
		embedder.NewClient(embedder.Config{
			Enabled:        cfg.Embedder.Enabled,
			URL:            cfg.Embedder.URL,
			VectorStoreURL: cfg.Embedder.VectorStoreURL,
			Collection:     cfg.Embedder.Collection,
			TimeoutSeconds: cfg.Embedder.TimeoutSeconds,
		}),
		notifier,
		logger,
	)

	tr := triage.New(store, cfg.Triage.DeadLetterThreshold, logger)
	w := worker.New(cfg, store, pipe, tr, logger,
		worker.WithSignal(power.NewProcessSignal(cfg.Worker.ContentionProcesses)),
		worker.WithInhibitor(power.NewInhibitor(cfg.Worker.PreventSleep, logger)),
	)

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("worker loop exited", logging.Error(err))
		return
	}
	logger.Info("worker shut down")
}
