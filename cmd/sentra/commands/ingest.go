package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sentra-ai/sentra/cmd/sentra/internal/format"
	"github.com/sentra-ai/sentra/pkg/appctx"
	"github.com/sentra-ai/sentra/pkg/logging"
	"github.com/sentra-ai/sentra/pkg/server/app"
)

// NewIngestCommand creates the 'sentra ingest' command.
//
// Reads raw log records from a file (JSON array or one JSON object per
// line), runs them through the ingest pipeline, and prints the outcome
// counts.
//
// Example usage:
//
//	sentra ingest conn.log.json --source zeek
//	sentra ingest mixed_batch.jsonl
func NewIngestCommand() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest a batch of security log records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)

			items, err := readItems(args[0])
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

			logger := logging.NewLogger("ingest", zerolog.InfoLevel)
			deps, err := app.Bootstrap(cmd.Context(), &cfg, manager, logger)
			if err != nil {
				_ = formatter.PrintError(err)
				return err
			}

			report, err := deps.Ingester.Run(cmd.Context(), items, source)
			if err != nil {
				_ = formatter.PrintError(err)
				return err
			}

			if err := formatter.PrintJSON(report); err != nil {
				return err
			}
			return formatter.PrintSummary(fmt.Sprintf(
				"Ingested %d record(s) (%d malformed, %d duplicate, %d embed failures)",
				report.Stored, report.Malformed, report.Duplicates, report.EmbedFailed))
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Declared log source for the whole batch: zeek | windows | cloudtrail")

	return cmd
}

// readItems loads raw records from a JSON array file or a JSONL file.
func readItems(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parse JSON array: %w", err)
		}
		return items, nil
	}

	// One JSON object per line. Unparseable lines are passed through as
	// strings so the pipeline counts them as malformed.
	var items []any
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			items = append(items, line)
			continue
		}
		items = append(items, obj)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan input file: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no records found in %s", path)
	}
	return items, nil
}
