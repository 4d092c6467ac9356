package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mcpscan/mcpscan/internal/adapters/outbound/config"
	"github.com/mcpscan/mcpscan/internal/adapters/outbound/gitinfo"
	"github.com/mcpscan/mcpscan/internal/adapters/outbound/mcpclient"
	"github.com/mcpscan/mcpscan/internal/adapters/outbound/metadata"
	"github.com/mcpscan/mcpscan/internal/application"
	"github.com/mcpscan/mcpscan/internal/domain"
)

// registerTools registers all mcpscan MCP tools on the given server.
func registerTools(s *server.MCPServer, version string, logger *zap.Logger) {
	// 1. mcpscan_scan
	s.AddTool(
		mcplib.NewTool("mcpscan_scan",
			mcplib.WithDescription("Scan capability metadata (a file or directory) or a live MCP server command and return the security report as JSON"),
			mcplib.WithTitleAnnotation("Scan MCP capabilities"),
			mcplib.WithString("target",
				mcplib.Required(),
				mcplib.Description("Metadata file or directory, or an MCP server command line when mcp is true"),
			),
			mcplib.WithBoolean("mcp", mcplib.Description("Launch target as an MCP server over stdio")),
			mcplib.WithArray("args",
				mcplib.WithStringItems(),
				mcplib.Description("Server arguments when mcp is true; each item is passed as is. Without it the target command line is split on whitespace"),
			),
			mcplib.WithString("min_severity", mcplib.Description("Drop findings below this severity: low, medium, high or critical")),
			mcplib.WithBoolean("enhanced", mcplib.Description("Also run the secrets exposure and audit logging rules")),
			mcplib.WithString("config", mcplib.Description("Path to a .mcpscan.yaml config file")),
		),
		handleScan(version, logger),
	)

	// 2. mcpscan_rules
	s.AddTool(
		mcplib.NewTool("mcpscan_rules",
			mcplib.WithDescription("Returns the finding categories with their classification codes and remediation guidance"),
			mcplib.WithTitleAnnotation("List rule categories"),
		),
		handleRules(),
	)
}

// newScanService creates the scan pipeline with the provider matching the target kind.
func newScanService(target application.Target, version string, logger *zap.Logger) *application.ScanService {
	var provider domain.MetadataProvider
	if len(target.Command) > 0 {
		provider = mcpclient.New(
			mcpclient.WithLogger(logger),
			mcpclient.WithClientInfo("mcpscan", version),
			mcpclient.WithCommand(target.Command...),
		)
	} else {
		provider = metadata.New(metadata.WithLogger(logger))
	}
	return application.NewScanService(provider, config.New(), gitinfo.New(), nil, logger)
}

func handleScan(version string, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		raw, err := request.RequireString("target")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		mcpMode := request.GetBool("mcp", false)

		args := []string{raw}
		if mcpMode {
			if extra := request.GetStringSlice("args", nil); len(extra) > 0 {
				args = append(args, extra...)
			} else {
				args = strings.Fields(raw)
			}
		}
		target, err := application.ResolveTarget(args, mcpMode)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		opts := application.ScanOptions{
			ConfigDir:       target.ConfigDir,
			ConfigPath:      request.GetString("config", ""),
			MinimumSeverity: request.GetString("min_severity", ""),
			Version:         version,
		}
		if _, ok := request.GetArguments()["enhanced"]; ok {
			enhanced := request.GetBool("enhanced", false)
			opts.Enhanced = &enhanced
		}

		report, err := newScanService(target, version, logger).Scan(ctx, target.Source, opts)
		if err != nil {
			return errorResult(fmt.Sprintf("scan failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleRules() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(domain.Catalog())
	}
}

// jsonResult marshals v into an indented JSON text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns an error content result.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
