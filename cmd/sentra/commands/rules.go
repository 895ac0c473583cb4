package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sentra-ai/sentra/cmd/sentra/internal/format"
	"github.com/sentra-ai/sentra/pkg/appctx"
	"github.com/sentra-ai/sentra/pkg/chroma"
	"github.com/sentra-ai/sentra/pkg/ingest"
	"github.com/sentra-ai/sentra/pkg/ollama"
	"github.com/sentra-ai/sentra/pkg/rules"
)

// NewRulesCommand creates the 'sentra rules' command group.
func NewRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and seed the technique rule set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newRulesListCommand())
	cmd.AddCommand(newRulesSeedCommand())

	return cmd
}

// newRulesListCommand creates the 'sentra rules list' command.
func newRulesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the loaded technique rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)

			set, err := loadRuleSet(cmd)
			if err != nil {
				_ = formatter.PrintError(err)
				return err
			}

			rows := make([][]string, 0, len(set.Rules))
			for _, rule := range set.Rules {
				rows = append(rows, []string{
					rule.ID,
					rule.Name,
					rule.Tactic,
					strconv.Itoa(len(rule.Patterns)),
					strings.Join(rule.Tags, ","),
				})
			}

			if err := formatter.PrintTable([]string{"id", "name", "tactic", "patterns", "tags"}, rows); err != nil {
				return err
			}
			return formatter.PrintSummary(fmt.Sprintf("%d rule(s) loaded", len(set.Rules)))
		},
	}
}

// newRulesSeedCommand creates the 'sentra rules seed' command.
//
// Embeds every rule document and stores it in the technique collection so
// semantic matching has something to search. Safe to re-run: the
// collection is created when missing and rule IDs are stable.
func newRulesSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Embed the technique rules into the vector store",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)

			set, err := loadRuleSet(cmd)
			if err != nil {
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

			store := chroma.New(cfg.Chroma.Host)
			if err := store.Heartbeat(cmd.Context()); err != nil {
				wrapped := fmt.Errorf("vector store unreachable at %s: %w", cfg.Chroma.Host, err)
				_ = formatter.PrintError(wrapped)
				return wrapped
			}
			techniques, err := store.GetOrCreateCollection(cmd.Context(), cfg.Chroma.TechniqueCollection)
			if err != nil {
				_ = formatter.PrintError(err)
				return err
			}

			model := ollama.New(ollama.Options{
				Host:          cfg.Ollama.Host,
				EmbedModel:    cfg.Ollama.EmbedModel,
				GenModel:      cfg.Ollama.GenModel,
				EmbedTimeout:  cfg.Ollama.EmbedTimeout,
				GenTimeout:    cfg.Ollama.GenTimeout,
				MaxConcurrent: cfg.Ollama.MaxConcurrent,
			})

			seeded, err := ingest.SeedRules(cmd.Context(), model, techniques, set)
			if err != nil {
				_ = formatter.PrintError(err)
				return err
			}

			return formatter.PrintSummary(fmt.Sprintf(
				"Seeded %d/%d rule(s) into %q", seeded, len(set.Rules), techniques.Name()))
		},
	}
}

func loadRuleSet(cmd *cobra.Command) (*rules.Set, error) {
	path := ""
	if manager, ok := appctx.Config(cmd.Context()); ok {
		path = manager.Get().Rules.Path
	}
	set, err := rules.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load technique rules: %w", err)
	}
	return set, nil
}
