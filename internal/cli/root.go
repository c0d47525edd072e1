package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// Execute builds the command tree, runs it with args and returns the first
// command error. Log output goes to w; --verbose lowers the level to debug
// for every subcommand.
func Execute(ctx context.Context, args []string, w io.Writer) error {
	c := New(w, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	attach := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		if attach == nil {
			return nil
		}
		return attach(cmd, args)
	}
	return root.ExecuteContext(ctx)
}
