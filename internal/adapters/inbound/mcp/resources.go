package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mcpscan/mcpscan/internal/domain"
)

const (
	rulesURI      = "mcpscan://rules"
	vocabularyURI = "mcpscan://vocabulary"
)

// registerResources registers all mcpscan MCP resources on the given server.
func registerResources(s *server.MCPServer) {
	// 1. mcpscan://rules - category catalog
	s.AddResource(
		mcplib.NewResource(
			rulesURI,
			"Rule Categories",
			mcplib.WithResourceDescription("Finding categories with classification codes, remediation and documentation links"),
			mcplib.WithMIMEType("application/json"),
		),
		jsonResource(rulesURI, func() any { return domain.Catalog() }),
	)

	// 2. mcpscan://vocabulary - built-in detection terms
	s.AddResource(
		mcplib.NewResource(
			vocabularyURI,
			"Detection Vocabulary",
			mcplib.WithResourceDescription("Built-in term lists per vocabulary group, overridable under patterns in .mcpscan.yaml"),
			mcplib.WithMIMEType("application/json"),
		),
		jsonResource(vocabularyURI, func() any { return domain.DefaultVocabulary() }),
	)
}

func jsonResource(uri string, load func() any) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(load(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling %s: %w", uri, err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
