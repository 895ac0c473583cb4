package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	serverCmd "github.com/sentra-ai/sentra/cmd/sentra/commands/server"
	"github.com/sentra-ai/sentra/pkg/appctx"
	"github.com/sentra-ai/sentra/pkg/config"
	"github.com/sentra-ai/sentra/pkg/logging"
)

const cliExecutable = "sentra"

// NewCommand constructs the top-level sentra CLI command, wiring global
// flags, configuration loading, and logging setup.
func NewCommand() *cobra.Command {
	var (
		configFile     string
		verbosityCount int
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Sentra fuses security logs with MITRE techniques for incident analysis",
		Long: `Sentra is an evidence fusion service for incident response.

It normalizes security logs (Zeek, Windows Event Log, AWS CloudTrail) into
a vector store and analyzes incident text by fusing keyword technique
matching, semantic technique matching, retrieved evidence, and a generated
analyst summary.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			manager := config.NewManager()
			if err := manager.Load(cmd.Flags(), configFile); err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			cfg := manager.Get()
			level := cfg.Log.Level
			if verbosityCount > 0 {
				level = "debug"
			}
			if err := logging.ConfigureGlobalLogging(level, cfg.Log.Format); err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			ctx := appctx.WithConfig(cmd.Context(), manager)
			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}

			log.Debug().Str("component", "cli").Msg("configuration loaded")
			return nil
		},
	}

	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().CountVarP(&verbosityCount, "verbosity", "v", "Increase logging verbosity (repeatable)")
	cmd.PersistentFlags().String("output", "table", "Output format: table | json")
	cmd.PersistentFlags().Bool("quiet", false, "Suppress summary output")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	config.BindServerFlags(cmd.PersistentFlags())

	cmd.AddCommand(serverCmd.NewCommand())
	cmd.AddCommand(NewIngestCommand())
	cmd.AddCommand(NewAnalyzeCommand())
	cmd.AddCommand(NewRulesCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
