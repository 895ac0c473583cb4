package format

import (
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// FromCommand builds a Formatter from a command's writers and the shared
// --output/--quiet/--no-color flags. Flags the command does not define fall
// back to table mode with color.
func FromCommand(cmd *cobra.Command) Formatter {
	mode := ModeTable
	if flag := cmd.Flags().Lookup("output"); flag != nil {
		mode = ParseMode(flag.Value.String())
	}

	return New(
		writerOr(cmd.OutOrStdout(), os.Stdout),
		writerOr(cmd.ErrOrStderr(), os.Stderr),
		mode,
		boolFlag(cmd, "quiet"),
		!boolFlag(cmd, "no-color"),
	)
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}

func boolFlag(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return false
	}
	val, err := strconv.ParseBool(flag.Value.String())
	return err == nil && val
}
