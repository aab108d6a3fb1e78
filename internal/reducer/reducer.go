package reducer

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vvka-141/fmured/internal/archive"
	"github.com/vvka-141/fmured/internal/checksum"
	"github.com/vvka-141/fmured/internal/config"
	"github.com/vvka-141/fmured/internal/files/scanner"
	"github.com/vvka-141/fmured/internal/params"
	"github.com/vvka-141/fmured/pkg/fmured"
)

// Service runs batch reductions over a directory of FMU archives.
// Thread-Safety: NOT safe for concurrent Run() calls on the same instance.
// Create separate instances for concurrent runs.
type Service struct {
	calculator  checksum.Calculator
	scanner     *scanner.Scanner
	interactive fmured.Approver
	forced      fmured.Approver
	logger      fmured.Logger
}

// NewService creates a Service with all dependencies injected.
// Panics on nil dependencies: those are programmer errors that should
// fail loudly at startup, not surface as nil dereferences mid-batch.
func NewService(interactive, forced fmured.Approver, logger fmured.Logger) *Service {
	if interactive == nil {
		panic("interactive approver cannot be nil")
	}
	if forced == nil {
		panic("forced approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	calculator := checksum.New()
	return &Service{
		calculator:  calculator,
		scanner:     scanner.NewScanner(calculator),
		interactive: interactive,
		forced:      forced,
		logger:      logger,
	}
}

// Run reduces every .fmu archive directly inside sourcePath according to
// the fmured.yaml found there, with .env and process-environment
// overrides applied. Per-file failures are recorded in the result and the
// batch continues; Run itself fails only when the run cannot start at all
// (bad config, unreadable directory, denied approval).
//
// force skips the interactive confirmation for in-place runs and shows a
// countdown instead.
func (s *Service) Run(ctx context.Context, sourcePath string, force bool) (fmured.ReduceResult, error) {
	cfg, overrides, err := s.loadRunConfig(sourcePath)
	if err != nil {
		return fmured.ReduceResult{}, err
	}
	force = force || overrides.Force

	archives, err := s.scanner.ScanDirectory(sourcePath)
	if err != nil {
		return fmured.ReduceResult{}, err
	}
	if len(archives) == 0 {
		return fmured.ReduceResult{}, fmt.Errorf("no %s archives found in %s", fmured.ArchiveSuffix, sourcePath)
	}
	s.logger.Verbose("Found %d archive(s) in %s", len(archives), sourcePath)

	if cfg.InPlace() {
		if err := s.approveInPlace(ctx, sourcePath, force); err != nil {
			return fmured.ReduceResult{}, err
		}
	}

	if cfg.OutputDir != "" {
		outputDir := resolveDir(sourcePath, cfg.OutputDir)
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmured.ReduceResult{}, fmt.Errorf("creating output directory: %w", err)
		}
	}

	result := fmured.ReduceResult{Directory: sourcePath}
	for _, af := range archives {
		fr := s.reduceFile(af, sourcePath, cfg)
		switch fr.Outcome {
		case fmured.OutcomeReduced:
			result.Reduced++
			s.logger.Info("✓ %s: removed %d variable(s)", af.Name, len(fr.Deleted))
		case fmured.OutcomeUnchanged:
			result.Unchanged++
			s.logger.Verbose("%s: nothing to remove", af.Name)
		case fmured.OutcomeFailed:
			result.Failed++
			s.logger.Error("%s: %v", af.Name, fr.Err)
		}
		result.Files = append(result.Files, fr)
	}

	s.logger.Info("✓ Reduction completed: %d reduced, %d unchanged, %d failed",
		result.Reduced, result.Unchanged, result.Failed)
	return result, nil
}

// loadRunConfig loads fmured.yaml and applies environment overrides.
func (s *Service) loadRunConfig(sourcePath string) (*config.ReductionConfig, params.Overrides, error) {
	cfg, err := config.Load(sourcePath)
	if err != nil {
		return nil, params.Overrides{}, err
	}

	overrides, err := params.LoadOverrides(sourcePath)
	if err != nil {
		return nil, params.Overrides{}, err
	}
	overrides.Apply(cfg)

	s.logger.Verbose("Causality filter: %s", cfg.EffectiveCausality())
	return cfg, overrides, nil
}

// approveInPlace gates runs that overwrite their source archives.
func (s *Service) approveInPlace(ctx context.Context, sourcePath string, force bool) error {
	approver := s.interactive
	if force {
		approver = s.forced
	}

	approved, err := approver.RequestApproval(ctx, sourcePath)
	if err != nil {
		return fmt.Errorf("approval failed: %w", err)
	}
	if !approved {
		return fmt.Errorf("%w: in-place reduction of %s", fmured.ErrApprovalDenied, sourcePath)
	}
	return nil
}

// reduceFile applies the configured reduction to one archive. Any failure
// is captured in the returned FileResult so the batch can continue.
func (s *Service) reduceFile(af scanner.ArchiveFile, sourcePath string, cfg *config.ReductionConfig) fmured.FileResult {
	fr := fmured.FileResult{
		Source:       af.Path,
		SourceDigest: af.Digest,
	}
	fail := func(err error) fmured.FileResult {
		fr.Outcome = fmured.OutcomeFailed
		fr.Err = err
		fr.Error = err.Error()
		return fr
	}

	fmu, err := archive.Open(af.Path)
	if err != nil {
		return fail(err)
	}
	defer fmu.Close()

	candidates, err := fmu.Query(fmured.Query{Causality: cfg.EffectiveCausality()})
	if err != nil {
		return fail(err)
	}

	doomed := selectDoomed(candidates, cfg)
	target := targetPath(af, sourcePath, cfg)
	fr.Target = target

	if len(doomed) == 0 {
		fr.Outcome = fmured.OutcomeUnchanged
		if cfg.InPlace() {
			// Nothing changed and the target is the source: skip the write.
			fr.TargetDigest = af.Digest
			return fr
		}
		// An explicit output location always receives a copy.
		if err := fmu.Save(target); err != nil {
			return fail(err)
		}
		fr.TargetDigest, err = s.digestTarget(af.Path, target)
		if err != nil {
			return fail(err)
		}
		return fr
	}

	for _, name := range doomed {
		if err := fmu.Delete(name); err != nil {
			return fail(err)
		}
	}
	if cfg.RefreshGUID {
		if _, err := fmu.RefreshGUID(); err != nil {
			return fail(err)
		}
	}

	if err := fmu.Save(target); err != nil {
		return fail(err)
	}

	fr.Outcome = fmured.OutcomeReduced
	fr.Deleted = doomed
	fr.TargetDigest, err = s.digestTarget(af.Path, target)
	if err != nil {
		return fail(err)
	}
	return fr
}

// selectDoomed applies the delete globs and then the keep globs to the
// candidate variables. Keep wins when both match a name. Order follows
// the declaration order of the variables.
func selectDoomed(candidates []fmured.Variable, cfg *config.ReductionConfig) []string {
	var doomed []string
	for _, v := range candidates {
		if !matchesAny(cfg.Delete, v.Name) {
			continue
		}
		if matchesAny(cfg.Keep, v.Name) {
			continue
		}
		doomed = append(doomed, v.Name)
	}
	return doomed
}

func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		// Patterns are validated at config load time.
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// targetPath computes where the (possibly) reduced archive is written:
// the configured output directory or the source directory, with the
// configured suffix inserted before the extension.
func targetPath(af scanner.ArchiveFile, sourcePath string, cfg *config.ReductionConfig) string {
	dir := sourcePath
	if cfg.OutputDir != "" {
		dir = resolveDir(sourcePath, cfg.OutputDir)
	}

	name := af.Name
	if cfg.Suffix != "" {
		ext := filepath.Ext(name)
		name = strings.TrimSuffix(name, ext) + cfg.Suffix + ext
	}
	return filepath.Join(dir, name)
}

// resolveDir interprets a configured directory relative to the source
// directory unless it is absolute.
func resolveDir(sourcePath, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(sourcePath, dir)
}

// digestTarget computes the archive digest of the written target after
// checking that every member other than the model description carries
// the same content as in the source archive.
func (s *Service) digestTarget(source, target string) (string, error) {
	content, err := os.ReadFile(target)
	if err != nil {
		return "", fmt.Errorf("reading written archive: %w", err)
	}
	if err := s.verifyCarryOver(source, content); err != nil {
		return "", err
	}
	return s.calculator.Archive(content), nil
}

// verifyCarryOver compares per-member digests between the source
// archive and the written bytes. Member digests are computed over
// decompressed content, so recompression alone never trips the check.
func (s *Service) verifyCarryOver(sourcePath string, written []byte) error {
	sourceContent, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("reading source archive: %w", err)
	}
	want, err := s.calculator.Members(sourceContent)
	if err != nil {
		return err
	}
	got, err := s.calculator.Members(written)
	if err != nil {
		return err
	}
	for name, digest := range want {
		if name == fmured.ModelDescriptionMember {
			continue
		}
		if got[name] != digest {
			return fmt.Errorf("member %s was not carried over intact", name)
		}
	}
	return nil
}
