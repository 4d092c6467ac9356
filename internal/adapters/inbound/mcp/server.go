package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mcpscan/mcpscan/internal/logging"
)

// NewMCPScanServer creates an MCP server exposing scans and the rule catalog
// as tools and resources. Scans run with the caller's working directory as
// the base for relative targets.
func NewMCPScanServer(version string, logger *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"mcpscan",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	logger = logging.OrNop(logger)
	registerTools(s, version, logger)
	registerResources(s)

	return s
}
