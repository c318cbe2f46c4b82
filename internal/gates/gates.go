package gates

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"conductor/internal/ledger"
	"conductor/internal/services"
)

// Severity classifies the weight of a gate finding. Only error findings
// block archival; warnings ride along in the report.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Gate names as they appear in reports and job errors.
const (
	GateDuplicateCheck      = "DUPLICATE_CHECK"
	GateCategoryPlausible   = "CATEGORY_PLAUSIBILITY"
	GateFilenameQuality     = "FILENAME_QUALITY"
	GateTargetFolderValid   = "TARGET_FOLDER_VALID"
	GateNoCollision         = "NO_COLLISION"
	GateConfidenceThreshold = "CONFIDENCE_THRESHOLD"
	GateContentExtracted    = "CONTENT_EXTRACTED"
)

// Quarantine bucket directory names, resolved against the configured
// quarantine root by the caller.
const (
	BucketDuplicates      = "_duplicates"
	BucketLowConfidence   = "_low_confidence"
	BucketReviewNeeded    = "_review_needed"
	BucketProcessingError = "_processing_error"
)

// Result is the finding of a single gate.
type Result struct {
	Gate     string   `json:"gate"`
	Passed   bool     `json:"passed"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Report aggregates all gate findings. Passed is true iff no gate reported
// an error finding. On failure, QuarantineReason is the message of the
// first failing gate in evaluation order and Bucket is the quarantine
// subdirectory chosen for it.
type Report struct {
	Passed           bool     `json:"passed"`
	Results          []Result `json:"results"`
	QuarantineReason string   `json:"quarantine_reason,omitempty"`
	Bucket           string   `json:"bucket,omitempty"`
}

// Warnings returns the passing findings with warning severity.
func (r Report) Warnings() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Passed && res.Severity == SeverityWarning {
			out = append(out, res)
		}
	}
	return out
}

// Input carries everything the gates need to judge a proposed ingestion
// result.
type Input struct {
	ContentHash      string
	OriginalFilename string
	NewFilename      string
	TargetFolder     string
	Category         string
	Confidence       float64
	MIMEType         string
	ExtractedText    string
	Description      string
}

// DuplicateChecker is the slice of the ledger the duplicate gate needs.
type DuplicateChecker interface {
	FindByHash(ctx context.Context, contentHash string) (*ledger.Entry, error)
}

// Engine evaluates the fixed gate sequence. Evaluation order is part of
// the contract: the first error finding selects the quarantine reason and
// bucket, and the duplicate check runs first so identical content is
// always routed to the duplicates bucket whatever else is wrong with it.
type Engine struct {
	floor      float64
	target     float64
	duplicates DuplicateChecker
}

// NewEngine builds a gate engine with the given confidence thresholds.
// A nil duplicate checker disables the duplicate gate.
func NewEngine(confidenceFloor, confidenceTarget float64, duplicates DuplicateChecker) *Engine {
	return &Engine{floor: confidenceFloor, target: confidenceTarget, duplicates: duplicates}
}

// Run executes every gate against the input and aggregates the findings.
// Gates never abort each other; the full result list is always populated.
func (e *Engine) Run(ctx context.Context, in Input) Report {
	results := []Result{
		e.checkDuplicate(ctx, in),
		checkCategory(in),
		checkFilename(in),
		checkTargetFolder(in),
		checkCollision(in),
		e.checkConfidence(in),
		checkContent(in),
	}

	report := Report{Passed: true, Results: results}
	for _, res := range results {
		if !res.Passed {
			report.Passed = false
			report.QuarantineReason = res.Message
			report.Bucket = bucketForGate(res.Gate)
			break
		}
	}
	return report
}

func bucketForGate(gate string) string {
	switch gate {
	case GateDuplicateCheck:
		return BucketDuplicates
	case GateConfidenceThreshold:
		return BucketLowConfidence
	default:
		return BucketReviewNeeded
	}
}

func (e *Engine) checkDuplicate(ctx context.Context, in Input) Result {
	if e.duplicates == nil || strings.TrimSpace(in.ContentHash) == "" {
		return Result{Gate: GateDuplicateCheck, Passed: true, Severity: SeverityInfo, Message: "no content hash to check"}
	}
	entry, err := e.duplicates.FindByHash(ctx, in.ContentHash)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return Result{Gate: GateDuplicateCheck, Passed: true, Severity: SeverityInfo, Message: "no prior entry for content hash"}
		}
		// A broken ledger must not cause silent duplicate ingestion.
		return Result{Gate: GateDuplicateCheck, Passed: false, Severity: SeverityError, Message: fmt.Sprintf("duplicate lookup failed: %v", err)}
	}
	original := entry.TargetPath
	if original == "" {
		original = entry.SourcePath
	}
	return Result{Gate: GateDuplicateCheck, Passed: false, Severity: SeverityError, Message: "duplicate of: " + original}
}

// validCategories is the closed category vocabulary. Classifier output
// outside this set is never archived.
var validCategories = map[string]struct{}{
	"Finanzen":    {},
	"Arbeit":      {},
	"Privat":      {},
	"Medien":      {},
	"Dokumente":   {},
	"Technologie": {},
	"Gesundheit":  {},
	"Reisen":      {},
	"Sonstiges":   {},
}

// categoryMIMEPrefixes lists MIME prefixes considered usual per category.
// A mismatch only produces a warning.
var categoryMIMEPrefixes = map[string][]string{
	"Finanzen":  {"application/pdf", "image/", "text/"},
	"Medien":    {"image/", "video/", "audio/"},
	"Dokumente": {"application/pdf", "application/msword", "application/vnd.", "text/"},
}

// CleanCategory strips alternative suggestions and path-style suffixes
// from raw classifier output, keeping only the primary label.
func CleanCategory(category string) string {
	primary := strings.SplitN(category, "|", 2)[0]
	primary = strings.SplitN(primary, "/", 2)[0]
	return strings.TrimSpace(primary)
}

func checkCategory(in Input) Result {
	category := CleanCategory(in.Category)
	if _, ok := validCategories[category]; !ok {
		return Result{Gate: GateCategoryPlausible, Passed: false, Severity: SeverityError, Message: "invalid category: " + category}
	}
	if prefixes, ok := categoryMIMEPrefixes[category]; ok && in.MIMEType != "" {
		matched := false
		for _, prefix := range prefixes {
			if strings.HasPrefix(in.MIMEType, prefix) {
				matched = true
				break
			}
		}
		if !matched {
			return Result{
				Gate:     GateCategoryPlausible,
				Passed:   true,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("MIME type %s unusual for category %s", in.MIMEType, category),
			}
		}
	}
	return Result{Gate: GateCategoryPlausible, Passed: true, Severity: SeverityInfo, Message: "category " + category + " plausible"}
}

var filenamePattern = regexp.MustCompile(`(?i)^\d{4}-\d{2}-\d{2}_[A-Za-zäöüÄÖÜß]+_[\w\-]+\.[a-z0-9]+$`)

func checkFilename(in Input) Result {
	if in.NewFilename == "" {
		return Result{Gate: GateFilenameQuality, Passed: false, Severity: SeverityError, Message: "no filename generated"}
	}
	if strings.ContainsAny(in.NewFilename, `<>:"/\|?*`) {
		return Result{Gate: GateFilenameQuality, Passed: false, Severity: SeverityError, Message: "unsafe characters in filename: " + in.NewFilename}
	}
	if !filenamePattern.MatchString(in.NewFilename) {
		return Result{
			Gate:     GateFilenameQuality,
			Passed:   true,
			Severity: SeverityWarning,
			Message:  "filename deviates from date_category_entity scheme: " + in.NewFilename,
		}
	}
	return Result{Gate: GateFilenameQuality, Passed: true, Severity: SeverityInfo, Message: "filename valid: " + in.NewFilename}
}

func checkTargetFolder(in Input) Result {
	if strings.TrimSpace(in.TargetFolder) == "" {
		return Result{Gate: GateTargetFolderValid, Passed: false, Severity: SeverityError, Message: "no target folder defined"}
	}
	if !filepath.IsAbs(in.TargetFolder) {
		return Result{Gate: GateTargetFolderValid, Passed: false, Severity: SeverityError, Message: "target folder is not absolute: " + in.TargetFolder}
	}
	if pathExists(in.TargetFolder) || pathExists(filepath.Dir(in.TargetFolder)) {
		return Result{Gate: GateTargetFolderValid, Passed: true, Severity: SeverityInfo, Message: "target folder valid: " + in.TargetFolder}
	}
	return Result{Gate: GateTargetFolderValid, Passed: false, Severity: SeverityError, Message: "target folder unreachable: " + in.TargetFolder}
}

func checkCollision(in Input) Result {
	if in.TargetFolder == "" || in.NewFilename == "" {
		return Result{Gate: GateNoCollision, Passed: false, Severity: SeverityError, Message: "target folder or filename missing"}
	}
	target := filepath.Join(in.TargetFolder, in.NewFilename)
	if pathExists(target) {
		return Result{Gate: GateNoCollision, Passed: false, Severity: SeverityError, Message: "file already exists: " + target}
	}
	return Result{Gate: GateNoCollision, Passed: true, Severity: SeverityInfo, Message: "no name collision"}
}

func (e *Engine) checkConfidence(in Input) Result {
	if in.Confidence < e.floor {
		return Result{
			Gate:     GateConfidenceThreshold,
			Passed:   false,
			Severity: SeverityError,
			Message:  fmt.Sprintf("confidence too low: %.0f%% (min %.0f%%)", in.Confidence*100, e.floor*100),
		}
	}
	if in.Confidence < e.target {
		return Result{
			Gate:     GateConfidenceThreshold,
			Passed:   true,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("confidence below target: %.0f%% (target %.0f%%)", in.Confidence*100, e.target*100),
		}
	}
	return Result{
		Gate:     GateConfidenceThreshold,
		Passed:   true,
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("confidence sufficient: %.0f%%", in.Confidence*100),
	}
}

func checkContent(in Input) Result {
	if in.ExtractedText == "" && in.Description == "" {
		return Result{Gate: GateContentExtracted, Passed: false, Severity: SeverityError, Message: "neither text nor description extracted"}
	}
	if len(in.ExtractedText) < 50 && len(in.Description) < 20 {
		return Result{
			Gate:     GateContentExtracted,
			Passed:   true,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("little content extracted (%d chars)", len(in.ExtractedText)),
		}
	}
	return Result{Gate: GateContentExtracted, Passed: true, Severity: SeverityInfo, Message: fmt.Sprintf("content extracted (%d chars)", len(in.ExtractedText))}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
