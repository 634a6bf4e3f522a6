package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// newRootCmd wires the cobra tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "astview",
		Short:         "Render and inspect AST dumps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr")

	root.AddCommand(
		newRenderCmd(),
		newOutlineCmd(),
		newParseCmd(),
		newSamplesCmd(),
	)
	return root
}

func logger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// readInput returns the named file, or the command's stdin for "-" or no
// argument.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	return string(data), err
}
