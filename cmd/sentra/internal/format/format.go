// Copyright 2025 Sentra Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package format renders CLI command output as either human-readable tables
// or machine-readable JSON, keeping the two streams separate: data on
// stdout, diagnostics on stderr.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// OutputMode selects how command output is rendered.
type OutputMode string

const (
	ModeJSON  OutputMode = "json"
	ModeTable OutputMode = "table"
)

// ParseMode maps a flag value to an OutputMode, defaulting to table.
func ParseMode(mode string) OutputMode {
	if strings.EqualFold(mode, string(ModeJSON)) {
		return ModeJSON
	}
	return ModeTable
}

// Formatter is the output surface every command renders through.
type Formatter interface {
	// PrintJSON writes data as indented JSON to stdout.
	PrintJSON(data any) error

	// PrintTable writes rows as an aligned table, or as JSON objects keyed
	// by header when the formatter is in JSON mode.
	PrintTable(headers []string, rows [][]string) error

	// PrintSummary writes a human status line. Suppressed in quiet mode; in
	// JSON mode it goes to stderr so stdout stays parseable.
	PrintSummary(message string) error

	// PrintError reports a command failure: a structured object on stdout
	// in JSON mode, a red "Error:" line on stderr otherwise.
	PrintError(err error) error
}

type formatter struct {
	stdout io.Writer
	stderr io.Writer
	mode   OutputMode
	quiet  bool
	color  bool
}

// New builds a Formatter writing to the given streams.
func New(stdout, stderr io.Writer, mode OutputMode, quiet, colored bool) Formatter {
	return &formatter{stdout: stdout, stderr: stderr, mode: mode, quiet: quiet, color: colored}
}

func (f *formatter) PrintJSON(data any) error {
	enc := json.NewEncoder(f.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *formatter) PrintTable(headers []string, rows [][]string) error {
	if f.mode == ModeJSON {
		return f.PrintJSON(rowsAsObjects(headers, rows))
	}

	w := tabwriter.NewWriter(f.stdout, 0, 0, 2, ' ', 0)

	cells := make([]string, len(headers))
	for i, h := range headers {
		if f.color {
			cells[i] = color.New(color.Bold).Sprint(strings.ToUpper(h))
		} else {
			cells[i] = h
		}
	}
	if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return w.Flush()
}

// rowsAsObjects re-keys table rows by their headers for JSON consumers.
func rowsAsObjects(headers []string, rows [][]string) []map[string]string {
	var items []map[string]string
	for _, row := range rows {
		item := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				item[header] = row[i]
			}
		}
		items = append(items, item)
	}
	return items
}

func (f *formatter) PrintSummary(message string) error {
	if f.quiet {
		return nil
	}

	if f.mode == ModeJSON {
		_, err := fmt.Fprintln(f.stderr, message)
		return err
	}

	if f.color {
		_, err := color.New(color.FgGreen).Fprintln(f.stdout, message)
		return err
	}
	_, err := fmt.Fprintln(f.stdout, message)
	return err
}

func (f *formatter) PrintError(err error) error {
	if err == nil {
		return nil
	}

	if f.mode == ModeJSON {
		return f.PrintJSON(map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	}

	if f.color {
		_, writeErr := color.New(color.FgRed).Fprintf(f.stderr, "Error: %v\n", err)
		return writeErr
	}
	_, writeErr := fmt.Fprintf(f.stderr, "Error: %v\n", err)
	return writeErr
}
