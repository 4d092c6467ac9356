package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Target is a resolved scan target.
type Target struct {
	// Source names the target in reports: an absolute metadata path, or the
	// server command line in MCP mode.
	Source string
	// Command is the server argv in MCP mode. Arguments are kept intact.
	Command []string
	// ConfigDir is where .mcpscan.yaml is looked up.
	ConfigDir string
}

// ResolveTarget turns command arguments into a scan target. In MCP mode args
// is the server argv and config is read from the working directory. Otherwise
// args holds at most one metadata path and config is read next to it.
func ResolveTarget(args []string, mcpMode bool) (Target, error) {
	if mcpMode {
		if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
			return Target{}, fmt.Errorf("--mcp requires a server command")
		}
		argv := append([]string(nil), args...)
		return Target{Source: strings.Join(argv, " "), Command: argv, ConfigDir: "."}, nil
	}

	if len(args) > 1 {
		return Target{}, fmt.Errorf("accepts at most 1 target, received %d (use --mcp to launch a server command)", len(args))
	}
	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return Target{}, fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return Target{}, fmt.Errorf("target: %w", err)
	}
	if info.IsDir() {
		return Target{Source: absPath, ConfigDir: absPath}, nil
	}
	return Target{Source: absPath, ConfigDir: filepath.Dir(absPath)}, nil
}
