// Package mcpclient discovers capabilities by asking a live MCP server.
package mcpclient

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/mcpscan/mcpscan/internal/domain"
)

// Dialer connects to the MCP server started by argv. The returned client
// must be started but not yet initialized.
type Dialer func(ctx context.Context, argv []string) (client.MCPClient, error)

// StdioDialer launches argv and talks to it over stdio.
func StdioDialer(_ context.Context, argv []string) (client.MCPClient, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty MCP server command")
	}
	c, err := client.NewStdioMCPClient(argv[0], os.Environ(), argv[1:]...)
	if err != nil {
		return nil, fmt.Errorf("starting %s: %w", argv[0], err)
	}
	return c, nil
}

// Provider implements domain.MetadataProvider against an MCP server.
type Provider struct {
	dial          Dialer
	command       []string
	logger        *zap.Logger
	clientName    string
	clientVersion string
}

// Option configures a Provider.
type Option func(*Provider)

// WithDialer replaces the stdio dialer.
func WithDialer(d Dialer) Option {
	return func(p *Provider) { p.dial = d }
}

// WithCommand sets the server argv. Without it the target passed to
// Discover is split on whitespace.
func WithCommand(argv ...string) Option {
	return func(p *Provider) {
		p.command = append([]string(nil), argv...)
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClientInfo sets the implementation info sent during initialization.
func WithClientInfo(name, version string) Option {
	return func(p *Provider) {
		p.clientName = name
		p.clientVersion = version
	}
}

// New creates a Provider that launches servers over stdio by default.
func New(opts ...Option) *Provider {
	p := &Provider{
		dial:          StdioDialer,
		logger:        zap.NewNop(),
		clientName:    "mcpscan",
		clientVersion: "dev",
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Discover initializes a session with the server and maps its tools,
// resources and prompts to one unit with up to three groups. Lists the
// server does not advertise are skipped.
func (p *Provider) Discover(ctx context.Context, target string) (*domain.Discovery, error) {
	argv := p.command
	if len(argv) == 0 {
		argv = strings.Fields(target)
	}
	c, err := p.dial(ctx, argv)
	if err != nil {
		return nil, fmt.Errorf("connecting to MCP server: %w", err)
	}
	defer c.Close()

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: p.clientName, Version: p.clientVersion}
	res, err := c.Initialize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("initializing MCP session: %w", err)
	}

	server := serverName(res.ServerInfo.Name, argv)
	p.logger.Debug("connected to MCP server",
		zap.String("server", server),
		zap.String("version", res.ServerInfo.Version),
		zap.String("protocol", res.ProtocolVersion))

	unit := domain.Unit{Path: target, Server: true, Groups: []domain.CapabilityGroup{}}
	caps := res.Capabilities

	if caps.Tools != nil {
		list, err := c.ListTools(ctx, mcp.ListToolsRequest{})
		if err != nil {
			return nil, fmt.Errorf("listing tools: %w", err)
		}
		unit.Groups = append(unit.Groups, toolGroup(server, list.Tools))
	} else {
		p.logger.Debug("server does not advertise tools", zap.String("server", server))
	}

	if caps.Resources != nil {
		list, err := c.ListResources(ctx, mcp.ListResourcesRequest{})
		if err != nil {
			return nil, fmt.Errorf("listing resources: %w", err)
		}
		unit.Groups = append(unit.Groups, resourceGroup(server, list.Resources))
	} else {
		p.logger.Debug("server does not advertise resources", zap.String("server", server))
	}

	if caps.Prompts != nil {
		list, err := c.ListPrompts(ctx, mcp.ListPromptsRequest{})
		if err != nil {
			return nil, fmt.Errorf("listing prompts: %w", err)
		}
		unit.Groups = append(unit.Groups, promptGroup(server, list.Prompts))
	} else {
		p.logger.Debug("server does not advertise prompts", zap.String("server", server))
	}

	return &domain.Discovery{Units: []domain.Unit{unit}}, nil
}

func serverName(reported string, argv []string) string {
	if name := strings.TrimSpace(reported); name != "" {
		return name
	}
	if len(argv) > 0 {
		return filepath.Base(argv[0])
	}
	return "mcp"
}

func toolGroup(server string, tools []mcp.Tool) domain.CapabilityGroup {
	g := newGroup(server+".tools", domain.GroupTool, len(tools))
	for _, t := range tools {
		g.Members = append(g.Members, domain.NewCapability(
			g.TypeName, t.Name, domain.KindTool, t.Name, t.Annotations.Title, t.Description, nil,
		))
	}
	sortMembers(g.Members)
	return g
}

func resourceGroup(server string, resources []mcp.Resource) domain.CapabilityGroup {
	g := newGroup(server+".resources", domain.GroupResource, len(resources))
	for _, r := range resources {
		member := r.Name
		if member == "" {
			member = r.URI
		}
		g.Members = append(g.Members, domain.NewCapability(
			g.TypeName, member, domain.KindResource, r.Name, "", r.Description, audiences(r.Annotations),
		))
	}
	sortMembers(g.Members)
	return g
}

func promptGroup(server string, prompts []mcp.Prompt) domain.CapabilityGroup {
	g := newGroup(server+".prompts", domain.GroupPrompt, len(prompts))
	for _, pr := range prompts {
		g.Members = append(g.Members, domain.NewCapability(
			g.TypeName, pr.Name, domain.KindPrompt, pr.Name, "", pr.Description, nil,
		))
	}
	sortMembers(g.Members)
	return g
}

func newGroup(name string, kind domain.GroupKind, n int) domain.CapabilityGroup {
	return domain.CapabilityGroup{TypeName: name, Kind: kind, Members: make([]domain.Capability, 0, n)}
}

func audiences(a *mcp.Annotations) []string {
	if a == nil {
		return nil
	}
	out := make([]string, 0, len(a.Audience))
	for _, r := range a.Audience {
		out = append(out, string(r))
	}
	return out
}

func sortMembers(ms []domain.Capability) {
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].MemberName < ms[j].MemberName })
}
