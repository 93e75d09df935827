// Package pipeline orchestrates one job end to end — load mesh, align,
// reconstruct named selections, rewrite the template, run the solver,
// extract results — and is the single error boundary the rest of the
// core reports through (spec §7 "internal/pipeline is the single job
// boundary").
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/A6721jpn/vexis/internal/align"
	"github.com/A6721jpn/vexis/internal/config"
	"github.com/A6721jpn/vexis/internal/extract"
	"github.com/A6721jpn/vexis/internal/febdoc"
	"github.com/A6721jpn/vexis/internal/geometry"
	"github.com/A6721jpn/vexis/internal/meshio"
	"github.com/A6721jpn/vexis/internal/reconstruct"
	"github.com/A6721jpn/vexis/internal/rewrite"
	"github.com/A6721jpn/vexis/internal/solver"
)

// Outcome is the terminal state a job reaches, accumulated by the batch
// runner into its exit code (spec §6 exit codes 0/1/2).
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeFailed
	OutcomeCancelled
)

// JobSpec names one unit of work: a freshly generated mesh to swap into a
// template, and the directory its artefacts land in.
type JobSpec struct {
	Name         string
	MeshPath     string
	TemplatePath string
	OutputDir    string
}

func (j JobSpec) preparedPath() string { return filepath.Join(j.OutputDir, j.Name+".prepared.feb") }
func (j JobSpec) logPath() string      { return filepath.Join(j.OutputDir, j.Name+".log") }
func (j JobSpec) csvPath() string      { return filepath.Join(j.OutputDir, j.Name+".csv") }
func (j JobSpec) pngPath() string      { return filepath.Join(j.OutputDir, j.Name+".png") }
func (j JobSpec) errPath() string      { return filepath.Join(j.OutputDir, j.Name+".err") }

// JobResult is one job's terminal record.
type JobResult struct {
	Name    string
	Outcome Outcome
	Err     error
}

// BatchResult accumulates every job's outcome; the batch never aborts on
// one job's failure (spec §7 "a batch never aborts on a single failing
// job").
type BatchResult struct {
	Results []JobResult
}

// ExitCode maps a BatchResult onto spec §6's process exit codes: 2 if
// there were no jobs at all, 1 if any job failed, else 0 (a cancelled job
// does not count as failed).
func (b BatchResult) ExitCode() int {
	if len(b.Results) == 0 {
		return 2
	}
	for _, r := range b.Results {
		if r.Outcome == OutcomeFailed {
			return 1
		}
	}
	return 0
}

// RunBatch runs every job strictly sequentially — the core's concurrency
// model has one orchestration goroutine with a single background reader
// per solver invocation (spec §5), not a job-level worker pool.
func RunBatch(ctx context.Context, jobs []JobSpec, cfg config.Config, logger *slog.Logger) BatchResult {
	var batch BatchResult
	for _, job := range jobs {
		outcome, err := RunJob(ctx, job, cfg, logger.With("job", job.Name))
		batch.Results = append(batch.Results, JobResult{Name: job.Name, Outcome: outcome, Err: err})
	}
	return batch
}

// RunJob drives one job through every stage (spec §2 data-flow: Mesh
// Loader → Aligner → [Set Reconstructor ‖ XML Document Model] → Document
// Rewriter → Solver Driver → Result Extractor), recovering any fatal
// error at this boundary and writing a ".err" sibling next to the job's
// other artefacts (spec §7 "[FULL] Representation").
func RunJob(ctx context.Context, job JobSpec, cfg config.Config, logger *slog.Logger) (Outcome, error) {
	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return OutcomeFailed, err
	}

	err := runStages(ctx, job, cfg, logger)
	switch {
	case err == nil:
		return OutcomeOK, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Info("cancelled", "reason", err)
		cleanupArtefacts(job)
		return OutcomeCancelled, nil
	default:
		logger.Error("job failed", "error", err)
		writeErrFile(job, err)
		return OutcomeFailed, err
	}
}

func runStages(ctx context.Context, job JobSpec, cfg config.Config, logger *slog.Logger) error {
	templateSrc, err := os.ReadFile(job.TemplatePath)
	if err != nil {
		return err
	}
	doc, err := febdoc.Parse(templateSrc)
	if err != nil {
		return err
	}

	logger.Info("loading mesh")
	newMesh, err := meshio.Load(job.MeshPath, doc.PartNames())
	if err != nil {
		return err
	}

	oldMesh, err := doc.EmbeddedMesh()
	if err != nil {
		return err
	}

	logger.Info("aligning")
	offset, err := align.Compute(oldMesh, newMesh, cfg.ReferencePartName)
	if err != nil {
		return err
	}
	align.Apply(newMesh, offset)

	logger.Info("reconstructing named selections")
	result, err := reconstructSelections(doc, oldMesh, newMesh, cfg)
	if err != nil {
		return err
	}
	for _, pair := range doc.ContactPairs {
		if err := reconstruct.EnforceContactPolicy(newMesh, pair.Name, pair.Primary, pair.Secondary, result.Surfaces, result.ResolvedRules); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Info("rewriting template")
	if err := rewrite.Write(doc, newMesh, result, job.preparedPath()); err != nil {
		return err
	}

	preparedSrc, err := os.ReadFile(job.preparedPath())
	if err != nil {
		return err
	}
	totalTime, err := febdoc.TotalSimulatedTime(preparedSrc)
	if err != nil {
		return err
	}

	logger.Info("running solver", "total_time", totalTime)
	if err := runSolver(ctx, job, cfg, totalTime, logger); err != nil {
		return err
	}

	logger.Info("extracting results")
	return extractResults(job, logger)
}

// runSolver spawns the solver and drains its progress channel; the
// draining goroutine and its completion handshake mirror the teacher's
// reader-goroutine-plus-channel pattern (spec §4.7, §9 "streaming
// subprocess I/O").
func runSolver(ctx context.Context, job JobSpec, cfg config.Config, totalTime float64, logger *slog.Logger) error {
	lines := make(chan solver.Line, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for l := range lines {
			if l.Progress > 0 {
				logger.Info("progress", "fraction", l.Progress)
			}
		}
	}()

	err := solver.Run(ctx, solver.Config{
		Primary:      cfg.FebioPath,
		Fallback:     cfg.FebioFallbackPath,
		Args:         []string{job.preparedPath()},
		WorkDir:      job.OutputDir,
		GraceTimeout: solver.DefaultGraceTimeout,
	}, totalTime, job.logPath(), lines)
	close(lines)
	<-done
	return err
}

// extractResults handles the Result Extractor's non-fatal ExtractorWarn
// recovery inline: an empty series produces an empty CSV and skips the
// plot rather than failing the job (spec §7).
func extractResults(job JobSpec, logger *slog.Logger) error {
	points, err := extract.ScanLogFile(job.logPath())
	if err != nil {
		return err
	}
	if len(points) == 0 {
		logger.Warn("extractor found no rigid-body rows, treating as ExtractorWarn")
		return extract.WriteCSV(nil, job.csvPath())
	}
	if err := extract.WriteCSV(points, job.csvPath()); err != nil {
		return err
	}
	return extract.WritePNG(points, job.pngPath())
}

// reconstructSelections builds one reconstruct.Request per named
// selection the template declares and resolves them all against the new
// mesh (spec §4.5).
func reconstructSelections(doc *febdoc.Document, oldMesh, newMesh *geometry.Mesh, cfg config.Config) (reconstruct.Result, error) {
	var reqs []reconstruct.Request

	for _, name := range doc.NodeSetNames() {
		ids, nonEmpty, err := oldSelection(doc, oldMesh, reconstruct.NodeSetKind, name)
		if err != nil {
			return reconstruct.Result{}, fmt.Errorf("pipeline: node set %q: %w", name, err)
		}
		reqs = append(reqs, reconstruct.Request{Name: name, Kind: reconstruct.NodeSetKind, OldNonEmpty: nonEmpty, OldIDs: ids})
	}
	for _, name := range doc.ElementSetNames() {
		ids, nonEmpty, err := oldSelection(doc, oldMesh, reconstruct.ElementSetKind, name)
		if err != nil {
			return reconstruct.Result{}, fmt.Errorf("pipeline: element set %q: %w", name, err)
		}
		reqs = append(reqs, reconstruct.Request{Name: name, Kind: reconstruct.ElementSetKind, OldNonEmpty: nonEmpty, OldIDs: ids})
	}
	for _, name := range doc.SurfaceNames() {
		ids, nonEmpty, err := oldSelection(doc, oldMesh, reconstruct.SurfaceKind, name)
		if err != nil {
			return reconstruct.Result{}, fmt.Errorf("pipeline: surface %q: %w", name, err)
		}
		reqs = append(reqs, reconstruct.Request{Name: name, Kind: reconstruct.SurfaceKind, OldNonEmpty: nonEmpty, OldIDs: ids})
	}

	ctx := config.ReconstructContext(cfg, newMesh, "")
	ruleTable := cfg.ReconstructionRules
	return reconstruct.Reconstruct(newMesh, oldMesh, ruleTable, ctx, reqs)
}

func writeErrFile(job JobSpec, err error) {
	_ = os.WriteFile(job.errPath(), []byte(fmt.Sprintf("%v\n", err)), 0o644)
}

// cleanupArtefacts removes anything a cancelled run may have partially
// produced, so cancellation never promotes artefacts (spec §7
// "Cancelled — clean exit; no artefacts promoted").
func cleanupArtefacts(job JobSpec) {
	_ = os.Remove(job.preparedPath() + ".tmp")
	_ = os.Remove(job.preparedPath())
	_ = os.Remove(job.csvPath())
	_ = os.Remove(job.pngPath())
}
