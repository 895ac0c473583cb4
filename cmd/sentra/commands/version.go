package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sentra-ai/sentra/cmd/sentra/internal/format"
	"github.com/sentra-ai/sentra/pkg/version"
)

// NewVersionCommand creates the 'sentra version' command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)
			if flag := cmd.Flags().Lookup("output"); flag != nil && format.ParseMode(flag.Value.String()) == format.ModeJSON {
				return formatter.PrintJSON(version.Get())
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			return err
		},
	}
}
