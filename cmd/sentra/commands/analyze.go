package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sentra-ai/sentra/cmd/sentra/internal/format"
	"github.com/sentra-ai/sentra/pkg/analysis"
	"github.com/sentra-ai/sentra/pkg/appctx"
	"github.com/sentra-ai/sentra/pkg/logging"
	"github.com/sentra-ai/sentra/pkg/server/app"
)

// Lipgloss styles for analysis output
var (
	// Section heading style - bold cyan
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	// Technique ID style - yellow
	techniqueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")) // Yellow

	// Evidence metadata style - gray
	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")) // Gray
)

// NewAnalyzeCommand creates the 'sentra analyze' command.
//
// Runs the full fusion analysis over incident text given as arguments or
// read from a file, and prints the summary, technique matches, and
// retrieved evidence.
//
// Example usage:
//
//	sentra analyze "powershell -enc JAB... connecting to 185.220.101.4"
//	sentra analyze --file incident.txt --top-k 10
func NewAnalyzeCommand() *cobra.Command {
	var (
		file string
		topK int
	)

	cmd := &cobra.Command{
		Use:   "analyze [incident text]",
		Short: "Analyze incident text against stored evidence and techniques",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)

			text := strings.TrimSpace(strings.Join(args, " "))
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					_ = formatter.PrintError(fmt.Errorf("read incident file: %w", err))
					return err
				}
				text = strings.TrimSpace(string(data))
			}
			if text == "" {
				err := fmt.Errorf("no incident text given (pass arguments or --file)")
				_ = formatter.PrintError(err)
				return err
			}

			manager, ok := appctx.Config(cmd.Context())
			if !ok {
				err := fmt.Errorf("configuration manager unavailable on context")
				_ = formatter.PrintError(err)
				return err
			}
			cfg := manager.Get()

			logger := logging.NewLogger("analyze", zerolog.InfoLevel)
			deps, err := app.Bootstrap(cmd.Context(), &cfg, manager, logger)
			if err != nil {
				_ = formatter.PrintError(err)
				return err
			}

			result, err := deps.Analyzer.Analyze(cmd.Context(), text, topK)
			if err != nil {
				_ = formatter.PrintError(err)
				return err
			}

			return printResult(cmd, formatter, result)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read incident text from file instead of arguments")
	cmd.Flags().IntVar(&topK, "top-k", 0, "Number of evidence documents to retrieve (0 uses the default)")

	return cmd
}

func printResult(cmd *cobra.Command, formatter format.Formatter, result *analysis.Result) error {
	if flag := cmd.Flags().Lookup("output"); flag != nil && format.ParseMode(flag.Value.String()) == format.ModeJSON {
		return formatter.PrintJSON(result)
	}

	out := cmd.OutOrStdout()

	fmt.Fprintln(out, headingStyle.Render("Summary"))
	fmt.Fprintln(out, result.Summary)
	fmt.Fprintln(out)

	fmt.Fprintln(out, headingStyle.Render(fmt.Sprintf("Technique matches (%d)", len(result.Matches))))
	for _, m := range result.Matches {
		line := fmt.Sprintf("%s  %s [%s]", techniqueStyle.Render(m.TechniqueID), m.Name, m.Tactic)
		if m.Distance != nil {
			line += metaStyle.Render(fmt.Sprintf("  distance=%.3f", *m.Distance))
		}
		fmt.Fprintln(out, line)
		if m.Evidence != "" {
			fmt.Fprintln(out, metaStyle.Render("  evidence: "+m.Evidence))
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, headingStyle.Render(fmt.Sprintf("Evidence (%d)", len(result.Evidence))))
	for _, hit := range result.Evidence {
		header := hit.ID
		if hit.Distance != nil {
			header += fmt.Sprintf("  distance=%.3f", *hit.Distance)
		}
		fmt.Fprintln(out, metaStyle.Render(header))
		fmt.Fprintln(out, hit.Text)
	}

	return nil
}
