package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mcpscan/mcpscan/internal/adapters/outbound/baseline"
	"github.com/mcpscan/mcpscan/internal/adapters/outbound/config"
	"github.com/mcpscan/mcpscan/internal/adapters/outbound/gitinfo"
	"github.com/mcpscan/mcpscan/internal/adapters/outbound/history"
	"github.com/mcpscan/mcpscan/internal/adapters/outbound/mcpclient"
	"github.com/mcpscan/mcpscan/internal/adapters/outbound/metadata"
	"github.com/mcpscan/mcpscan/internal/adapters/outbound/report"
	"github.com/mcpscan/mcpscan/internal/adapters/outbound/tui"
	"github.com/mcpscan/mcpscan/internal/application"
	"github.com/mcpscan/mcpscan/internal/domain"
)

const defaultOutputName = "mcpscan-report"

func newScanCmd(root *rootOptions) *cobra.Command {
	var (
		configPath    string
		minSeverity   string
		enhanced      bool
		formats       []string
		outputDir     string
		outputName    string
		jsonOutput    bool
		criticalMax   int
		highMax       int
		mcpMode       bool
		glob          string
		baselinePath  string
		writeBaseline string
		historyPath   string
	)

	cmd := &cobra.Command{
		Use:   "scan [target]",
		Short: "Scan capability metadata or a live MCP server",
		Long: "Analyze capability metadata files (a file or a directory of *.capabilities.json) " +
			"or, with --mcp, a live MCP server launched over stdio, and report security findings.\n\n" +
			"Exit codes: 0 pass, 1 error, 2 threshold gate failed.",
		Example: "  mcpscan scan ./metadata --format sarif,md\n" +
			"  mcpscan scan --mcp -- npx -y @modelcontextprotocol/server-everything",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := application.ResolveTarget(args, mcpMode)
			if err != nil {
				return err
			}

			var exportFormats []report.Format
			if len(formats) > 0 {
				if exportFormats, err = report.ParseFormats(formats...); err != nil {
					return err
				}
			}

			logger, err := root.logger()
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			var provider domain.MetadataProvider
			if mcpMode {
				provider = mcpclient.New(
					mcpclient.WithLogger(logger),
					mcpclient.WithClientInfo("mcpscan", version),
					mcpclient.WithCommand(target.Command...),
				)
			} else {
				provider = metadata.New(metadata.WithGlob(glob), metadata.WithLogger(logger))
			}

			svc := application.NewScanService(provider, config.New(), gitinfo.New(), baseline.New(), logger)

			opts := application.ScanOptions{
				ConfigDir:         target.ConfigDir,
				ConfigPath:        configPath,
				MinimumSeverity:   minSeverity,
				BaselinePath:      baselinePath,
				WriteBaselinePath: writeBaseline,
				Version:           version,
			}
			if cmd.Flags().Changed("enhanced") {
				opts.Enhanced = &enhanced
			}
			if cmd.Flags().Changed("critical-threshold") {
				opts.Thresholds.Critical = &criticalMax
			}
			if cmd.Flags().Changed("high-threshold") {
				opts.Thresholds.High = &highMax
			}

			result, err := svc.Scan(cmd.Context(), target.Source, opts)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if jsonOutput {
				if err := report.WriteJSON(cmd.OutOrStdout(), result); err != nil {
					return fmt.Errorf("writing json: %w", err)
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(result))
			}

			if historyPath != "" {
				// Best-effort: a history write never fails the scan.
				if err := history.New().Save(historyPath, domain.NewScanEntry(result, time.Now())); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "✗ history: %v\n", err)
				}
			}

			if len(exportFormats) > 0 {
				artifacts := report.Export(outputDir, outputName, exportFormats, result)
				for _, a := range artifacts {
					if a.Err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", a.Format, a.Err)
						continue
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", a.Path)
				}
				if err := report.Errors(artifacts); err != nil {
					return err
				}
			}

			if !result.Gate.Passed {
				logger.Debug("gate failed", zap.Strings("reasons", result.Gate.Reasons))
				return &domain.GateError{Result: result.Gate}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: .mcpscan.yaml next to the target)")
	cmd.Flags().StringVar(&minSeverity, "min-severity", "", "Drop findings below this severity (low, medium, high, critical)")
	cmd.Flags().BoolVar(&enhanced, "enhanced", false, "Also run the secrets exposure and audit logging rules")
	cmd.Flags().StringSliceVar(&formats, "format", nil, "Report files to write: json, sarif, csv, md or all")
	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "Directory for report files")
	cmd.Flags().StringVar(&outputName, "output-name", defaultOutputName, "Base name for report files")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the JSON report to stdout instead of the summary")
	cmd.Flags().IntVar(&criticalMax, "critical-threshold", 0, "Fail when critical findings exceed this count")
	cmd.Flags().IntVar(&highMax, "high-threshold", 0, "Fail when high findings exceed this count")
	cmd.Flags().BoolVar(&mcpMode, "mcp", false, "Treat the arguments as an MCP server command to launch over stdio")
	cmd.Flags().StringVar(&glob, "glob", metadata.DefaultGlob, "Metadata file pattern for directory targets")
	cmd.Flags().StringVar(&baselinePath, "baseline", "", "Hide findings recorded in this baseline file")
	cmd.Flags().StringVar(&writeBaseline, "write-baseline", "", "Record the current findings to this baseline file")
	cmd.Flags().StringVar(&historyPath, "history", "", "Append a summary of this scan to a history file")

	return cmd
}
