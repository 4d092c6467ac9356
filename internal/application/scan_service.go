package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mcpscan/mcpscan/internal/domain"
	"github.com/mcpscan/mcpscan/internal/domain/rules"
	"github.com/mcpscan/mcpscan/internal/logging"
)

// ScanOptions carry per-run overrides. Zero values defer to the config file.
type ScanOptions struct {
	// ConfigDir is where .mcpscan.yaml is looked up when ConfigPath is empty.
	ConfigDir  string
	ConfigPath string

	MinimumSeverity string
	Enhanced        *bool
	Thresholds      domain.Thresholds

	BaselinePath      string
	WriteBaselinePath string

	Version string
}

// ScanService orchestrates the analysis pipeline:
// config → discover → rules → enrich → filter → summarize → gate.
type ScanService struct {
	provider     domain.MetadataProvider
	configLoader domain.ConfigLoader
	gitInfo      domain.GitInfo
	baseline     domain.BaselineStore
	logger       *zap.Logger
}

// NewScanService wires the pipeline. gitInfo and baseline may be nil.
func NewScanService(
	provider domain.MetadataProvider,
	configLoader domain.ConfigLoader,
	gitInfo domain.GitInfo,
	baseline domain.BaselineStore,
	logger *zap.Logger,
) *ScanService {
	return &ScanService{
		provider:     provider,
		configLoader: configLoader,
		gitInfo:      gitInfo,
		baseline:     baseline,
		logger:       logging.OrNop(logger),
	}
}

// Scan runs the full pipeline over target. A failing gate is reported in the
// returned report, not as an error.
func (s *ScanService) Scan(ctx context.Context, target string, opts ScanOptions) (*domain.ScanReport, error) {
	// 0. Load config and resolve overrides
	dir := opts.ConfigDir
	if dir == "" {
		dir = "."
	}
	cfg, err := s.configLoader.Load(dir, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	minSeverity := cfg.MinSeverity()
	if opts.MinimumSeverity != "" {
		if minSeverity, err = domain.ParseSeverity(opts.MinimumSeverity); err != nil {
			return nil, fmt.Errorf("--min-severity: %w", err)
		}
	}

	enhanced := cfg.IsEnhanced()
	if opts.Enhanced != nil {
		enhanced = *opts.Enhanced
	}

	if err := validateThresholds(opts.Thresholds); err != nil {
		return nil, err
	}
	thresholds := cfg.Thresholds().Override(opts.Thresholds)

	vocab, err := cfg.Vocabulary()
	if err != nil {
		return nil, fmt.Errorf("building vocabulary: %w", err)
	}

	var known map[string]bool
	if opts.BaselinePath != "" && s.baseline != nil {
		if known, err = s.baseline.Load(opts.BaselinePath); err != nil {
			return nil, fmt.Errorf("loading baseline: %w", err)
		}
	}

	// 1. Discover capabilities
	discovery, err := s.provider.Discover(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("discovering capabilities: %w", err)
	}
	discovery = domain.PruneEmptyGroups(discovery)
	groups := discovery.Groups()
	s.logger.Debug("discovered capabilities",
		zap.Int("units", len(discovery.Units)),
		zap.Int("groups", len(groups)),
		zap.Int("capabilities", discovery.CapabilityCount()))

	// 2. Run rules
	raw, err := rules.NewEngine(vocab, enhanced).Evaluate(ctx, groups)
	if err != nil {
		return nil, fmt.Errorf("evaluating rules: %w", err)
	}
	s.logger.Debug("rules evaluated", zap.Int("findings", len(raw)), zap.Bool("enhanced", enhanced))

	// 3. Enrich with classification and remediation
	enriched := domain.Enrich(raw)

	// 4. Filter: severity, categories, suppressions
	outcome := domain.ApplyFilters(enriched, domain.FilterOptions{
		MinimumSeverity:   minSeverity,
		ExcludeCategories: cfg.ExcludedCategories(),
		Suppressions:      cfg.Suppressions,
	})

	if opts.WriteBaselinePath != "" && s.baseline != nil {
		if err := s.baseline.Save(opts.WriteBaselinePath, outcome.Result.Findings); err != nil {
			return nil, fmt.Errorf("writing baseline: %w", err)
		}
		s.logger.Debug("baseline written", zap.String("path", opts.WriteBaselinePath), zap.Int("findings", len(outcome.Result.Findings)))
	}

	// 5. Drop findings already accepted in the baseline
	if len(known) > 0 {
		b := domain.ApplyFilters(outcome.Result.Findings, domain.FilterOptions{Baseline: known})
		outcome.Result = b.Result
		outcome.Stats.InBaseline = b.Stats.InBaseline
	}
	s.logger.Debug("findings filtered",
		zap.Int("below_severity", outcome.Stats.BelowSeverity),
		zap.Int("excluded_by_category", outcome.Stats.ExcludedByCategory),
		zap.Int("suppressed", outcome.Stats.Suppressed),
		zap.Int("in_baseline", outcome.Stats.InBaseline),
		zap.Int("remaining", outcome.Result.Summary.Total))

	// 6. Gate
	gate := domain.EvaluateGate(outcome.Result.Summary, thresholds)
	s.logger.Debug("gate evaluated", zap.Bool("passed", gate.Passed), zap.Strings("reasons", gate.Reasons))

	report := &domain.ScanReport{
		Tool:      domain.ToolInfo{Name: "mcpscan", Version: opts.Version},
		Source:    target,
		Enhanced:  enhanced,
		Units:     discovery.Units,
		Findings:  outcome.Result.Findings,
		Summary:   outcome.Result.Summary,
		Filtering: outcome.Stats,
		Gate:      gate,
	}
	if report.Units == nil {
		report.Units = []domain.Unit{}
	}
	if s.gitInfo != nil && s.gitInfo.IsGitRepo(target) {
		if hash, err := s.gitInfo.CommitHash(target); err == nil {
			report.Commit = hash
		} else {
			s.logger.Debug("no git provenance", zap.String("target", target), zap.Error(err))
		}
	}

	return report, nil
}

func validateThresholds(t domain.Thresholds) error {
	if t.Critical != nil && *t.Critical < 0 {
		return fmt.Errorf("%w: --critical-threshold must be >= 0", domain.ErrInvalidConfig)
	}
	if t.High != nil && *t.High < 0 {
		return fmt.Errorf("%w: --high-threshold must be >= 0", domain.ErrInvalidConfig)
	}
	return nil
}
