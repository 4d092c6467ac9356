package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcpscan/mcpscan/internal/adapters/outbound/config"
	"github.com/mcpscan/mcpscan/internal/adapters/outbound/tui"
	"github.com/mcpscan/mcpscan/internal/domain"
)

// rulesDocument is the --json shape of the rules command.
type rulesDocument struct {
	Categories []domain.CategoryInfo `json:"categories"`
	Vocabulary domain.Vocabulary     `json:"vocabulary"`
}

func newRulesCmd() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "rules [dir]",
		Short: "List finding categories and the active vocabulary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg, err := config.New().Load(dir, configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			vocab, err := cfg.Vocabulary()
			if err != nil {
				return fmt.Errorf("building vocabulary: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rulesDocument{Categories: domain.Catalog(), Vocabulary: vocab})
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRules(domain.Catalog(), vocab))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: .mcpscan.yaml in dir)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output rules as JSON")

	return cmd
}
