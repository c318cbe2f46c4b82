package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"conductor/internal/config"
	"conductor/internal/fileutil"
	"conductor/internal/gates"
	"conductor/internal/jobstore"
	"conductor/internal/ledger"
	"conductor/internal/logging"
	"conductor/internal/notifications"
	"conductor/internal/services"
	"conductor/internal/services/classifier"
	"conductor/internal/services/extractor"
)

// Extractor is the slice of the extraction client the pipeline uses.
type Extractor interface {
	Extract(ctx context.Context, path, mimeType string) (*extractor.Result, error)
}

// Classifier is the slice of the classification client the pipeline uses.
type Classifier interface {
	Classify(ctx context.Context, text, filename string) (*classifier.Classification, error)
}

// Embedder is the slice of the embedding client the pipeline uses.
type Embedder interface {
	Enabled() bool
	Embed(ctx context.Context, text string) ([]float32, error)
	Upsert(ctx context.Context, id string, vector []float32, payload map[string]any) error
}

// Result is the terminal outcome of one job's trip through the pipeline.
type Result struct {
	State      State
	TargetPath string
	Category   string
	Report     gates.Report
}

// Pipeline drives one file from discovery to its terminal disposition.
type Pipeline struct {
	cfg        *config.Config
	engine     *gates.Engine
	ledger     *ledger.Store
	extractor  Extractor
	classifier Classifier
	embedder   Embedder
	notifier   notifications.Service
	logger     *slog.Logger
}

// New wires a pipeline from its collaborators.
func New(
	cfg *config.Config,
	engine *gates.Engine,
	ledgerStore *ledger.Store,
	ext Extractor,
	cls Classifier,
	emb Embedder,
	notifier notifications.Service,
	logger *slog.Logger,
) *Pipeline {
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:        cfg,
		engine:     engine,
		ledger:     ledgerStore,
		extractor:  ext,
		classifier: cls,
		embedder:   emb,
		notifier:   notifier,
		logger:     logger,
	}
}

// Process runs the state machine for one job. A non-nil error means the
// file hit an unexpected failure; it has already been routed to the
// processing-error quarantine and recorded as failed, and the caller is
// expected to mark the job failed and move on.
func (p *Pipeline) Process(ctx context.Context, job *jobstore.Job) (*Result, error) {
	sourcePath := job.SourcePath()
	logger := p.logger.With(
		logging.String(logging.FieldJobID, job.ID),
		logging.String(logging.FieldSource, sourcePath),
	)
	logger.Info("pipeline started", logging.String(logging.FieldStage, string(StateDiscovered)))

	result, err := p.process(ctx, job, sourcePath, logger)
	if err != nil {
		p.routeProcessingError(ctx, sourcePath, err, logger)
		return &Result{State: StateFailed}, err
	}
	return result, nil
}

func (p *Pipeline) process(ctx context.Context, job *jobstore.Job, sourcePath string, logger *slog.Logger) (*Result, error) {
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, fmt.Errorf("source file: %w", err)
	}
	contentHash, err := fileutil.HashFile(sourcePath)
	if err != nil {
		return nil, err
	}
	mimeType := fileutil.DetectMIME(sourcePath)

	extraction := p.extract(ctx, sourcePath, mimeType, logger)
	classification := p.classify(ctx, extraction.Text, sourcePath, logger)

	cls := classification.Classification
	filename := gates.GenerateFilename(filepath.Base(sourcePath), cls.Category, cls.Entity(), "")
	targetFolder := gates.TargetFolder(p.cfg.Paths.ArchiveDir, cls.Category)

	logger.Info("gating", logging.String(logging.FieldStage, string(StateGating)),
		logging.String("category", cls.Category),
		logging.Float64("confidence", cls.Confidence))

	report := p.engine.Run(ctx, gates.Input{
		ContentHash:      contentHash,
		OriginalFilename: filepath.Base(sourcePath),
		NewFilename:      filename,
		TargetFolder:     targetFolder,
		Category:         cls.Category,
		Confidence:       cls.Confidence,
		MIMEType:         mimeType,
		ExtractedText:    extraction.Text,
		Description:      summaryOf(cls),
	})

	if report.Passed {
		return p.archive(ctx, job, sourcePath, contentHash, filename, targetFolder, extraction, cls, report, logger)
	}
	return p.quarantine(ctx, sourcePath, contentHash, filename, cls, report, logger)
}

// extract runs the fallback chain and always yields an outcome; total
// extraction failure degrades to empty text rather than aborting.
func (p *Pipeline) extract(ctx context.Context, sourcePath, mimeType string, logger *slog.Logger) ExtractionOutcome {
	logger.Info("extracting", logging.String(logging.FieldStage, string(StateExtracting)))
	res, err := p.extractor.Extract(ctx, sourcePath, mimeType)
	if err != nil {
		logger.Warn("extraction degraded to empty text", logging.Error(err))
		return ExtractionOutcome{Status: StageDegraded, Warning: err.Error()}
	}
	if res.Text == "" {
		return ExtractionOutcome{Status: StageDegraded, Source: res.Source, Warning: "extraction produced no text"}
	}
	return ExtractionOutcome{Status: StageOk, Text: res.Text, Source: res.Source}
}

// classify degrades to the default category on collaborator failure so
// gating still runs and the confidence gate records the reason.
func (p *Pipeline) classify(ctx context.Context, text, sourcePath string, logger *slog.Logger) ClassificationOutcome {
	logger.Info("classifying", logging.String(logging.FieldStage, string(StateClassifying)))
	res, err := p.classifier.Classify(ctx, text, filepath.Base(sourcePath))
	if err != nil {
		logger.Warn("classification degraded to defaults", logging.Error(err))
		return ClassificationOutcome{
			Status:         StageDegraded,
			Classification: classifier.Classification{Category: "Sonstiges", Confidence: 0},
			Warning:        err.Error(),
		}
	}
	return ClassificationOutcome{Status: StageOk, Classification: *res}
}

func (p *Pipeline) archive(
	ctx context.Context,
	job *jobstore.Job,
	sourcePath, contentHash, filename, targetFolder string,
	extraction ExtractionOutcome,
	cls classifier.Classification,
	report gates.Report,
	logger *slog.Logger,
) (*Result, error) {
	targetPath := filepath.Join(targetFolder, filename)
	if err := fileutil.MoveFile(sourcePath, targetPath); err != nil {
		return nil, fmt.Errorf("archive move: %w", err)
	}

	entry := &ledger.Entry{
		ContentHash: contentHash,
		SourcePath:  sourcePath,
		TargetPath:  targetPath,
		Filename:    filename,
		Category:    gates.CleanCategory(cls.Category),
		Status:      ledger.StatusIndexed,
		Confidence:  cls.Confidence,
		Summary:     summaryOf(cls),
		ProcessedAt: time.Now().UTC(),
	}
	if err := p.ledger.Record(ctx, entry); err != nil {
		// The file is already in place; a ledger failure is logged, not
		// a rollback.
		logger.Error("ledger record failed after archive", logging.Error(err))
	}

	p.index(ctx, job, extraction.Text, entry, logger)

	logger.Info("archived",
		logging.String(logging.FieldStage, string(StateIndexed)),
		logging.String("target", targetPath))
	if err := p.notifier.NotifyArchived(ctx, filepath.Base(sourcePath), entry.Category, targetPath); err != nil {
		logger.Warn("archive notification failed", logging.Error(err))
	}

	return &Result{State: StateIndexed, TargetPath: targetPath, Category: entry.Category, Report: report}, nil
}

// index pushes text into the embedding collaborators. Strictly
// best-effort: failures are logged and the archive stands.
func (p *Pipeline) index(ctx context.Context, job *jobstore.Job, text string, entry *ledger.Entry, logger *slog.Logger) {
	if p.embedder == nil || !p.embedder.Enabled() || text == "" {
		return
	}
	vector, err := p.embedder.Embed(ctx, text)
	if err != nil {
		logger.Warn("embedding failed", logging.Error(err))
		return
	}
	payload := map[string]any{
		"category":     entry.Category,
		"filename":     entry.Filename,
		"target_path":  entry.TargetPath,
		"content_hash": entry.ContentHash,
	}
	if err := p.embedder.Upsert(ctx, job.ID, vector, payload); err != nil {
		logger.Warn("vector upsert failed", logging.Error(err))
	}
}

func (p *Pipeline) quarantine(
	ctx context.Context,
	sourcePath, contentHash, filename string,
	cls classifier.Classification,
	report gates.Report,
	logger *slog.Logger,
) (*Result, error) {
	bucketDir := filepath.Join(p.cfg.Paths.QuarantineDir, report.Bucket)
	targetPath := fileutil.UniqueDestination(filepath.Join(bucketDir, filepath.Base(sourcePath)))
	if err := fileutil.MoveFile(sourcePath, targetPath); err != nil {
		return nil, fmt.Errorf("quarantine move: %w", err)
	}

	entry := &ledger.Entry{
		ContentHash:      contentHash,
		SourcePath:       sourcePath,
		TargetPath:       targetPath,
		Filename:         filename,
		Category:         gates.CleanCategory(cls.Category),
		Status:           ledger.StatusQuarantined,
		QuarantineReason: report.QuarantineReason,
		Confidence:       cls.Confidence,
		ProcessedAt:      time.Now().UTC(),
	}
	if err := p.ledger.Record(ctx, entry); err != nil && !errors.Is(err, services.ErrDuplicate) {
		logger.Error("ledger record failed after quarantine", logging.Error(err))
	}

	logger.Info("quarantined",
		logging.String(logging.FieldStage, string(StateQuarantined)),
		logging.String("bucket", report.Bucket),
		logging.String("reason", report.QuarantineReason))
	if err := p.notifier.NotifyQuarantined(ctx, filepath.Base(sourcePath), report.QuarantineReason, report.Bucket); err != nil {
		logger.Warn("quarantine notification failed", logging.Error(err))
	}

	return &Result{State: StateQuarantined, TargetPath: targetPath, Category: entry.Category, Report: report}, nil
}

// routeProcessingError is the catch-all: the file lands in the
// processing-error bucket and the ledger records the failure, so nothing
// is silently dropped even when the pipeline itself broke.
func (p *Pipeline) routeProcessingError(ctx context.Context, sourcePath string, cause error, logger *slog.Logger) {
	logger.Error("pipeline failed", logging.String(logging.FieldStage, string(StateFailed)), logging.Error(cause))

	contentHash := ""
	if hash, hashErr := fileutil.HashFile(sourcePath); hashErr == nil {
		contentHash = hash
	}

	if _, statErr := os.Stat(sourcePath); statErr == nil {
		dst := fileutil.UniqueDestination(filepath.Join(p.cfg.Paths.QuarantineDir, gates.BucketProcessingError, filepath.Base(sourcePath)))
		if moveErr := fileutil.MoveFile(sourcePath, dst); moveErr != nil {
			logger.Error("processing-error move failed", logging.Error(moveErr))
		}
	}

	// Hash is unavailable when the source itself is gone; a synthetic
	// hash keeps the ledger row insertable without colliding.
	if contentHash == "" {
		contentHash = "failed:" + filepath.Base(sourcePath) + ":" + time.Now().UTC().Format(time.RFC3339Nano)
	}
	entry := &ledger.Entry{
		ContentHash:      contentHash,
		SourcePath:       sourcePath,
		Status:           ledger.StatusFailed,
		QuarantineReason: cause.Error(),
		ProcessedAt:      time.Now().UTC(),
	}
	if err := p.ledger.Record(ctx, entry); err != nil && !errors.Is(err, services.ErrDuplicate) {
		logger.Error("ledger record failed after processing error", logging.Error(err))
	}

	if err := p.notifier.NotifyError(ctx, cause, filepath.Base(sourcePath)); err != nil {
		logger.Warn("error notification failed", logging.Error(err))
	}
}

func summaryOf(cls classifier.Classification) string {
	if len(cls.Tags) == 0 {
		return cls.Subcategory
	}
	if cls.Subcategory == "" {
		return strings.Join(cls.Tags, ", ")
	}
	return cls.Subcategory + ": " + strings.Join(cls.Tags, ", ")
}
