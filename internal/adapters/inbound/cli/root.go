package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mcpscan/mcpscan/internal/domain"
	"github.com/mcpscan/mcpscan/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

type rootOptions struct {
	debug bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "mcpscan",
		Short: "Heuristic security scanner for MCP capabilities",
		Long: "mcpscan inspects the tools, resources and prompts an MCP server exposes and " +
			"reports likely security weaknesses such as prompt injection, tool poisoning and toxic flows.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Write debug logs to stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newScanCmd(opts))
	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	return logging.New(o.debug)
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the root command; ctx cancels in-flight scans and MCP sessions.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// ExitCode maps a command error to the process exit status: 0 on success,
// 2 when the threshold gate failed and 1 for anything else.
func ExitCode(err error) int {
	var gateErr *domain.GateError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &gateErr):
		return 2
	default:
		return 1
	}
}
