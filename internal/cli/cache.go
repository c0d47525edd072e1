package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stepwise/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the render cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the render cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := c.cacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show how many frames are cached",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fc, err := c.openFileCache()
				if err != nil || fc == nil {
					return err
				}
				entries, size, err := fc.Stats()
				if err != nil {
					return fmt.Errorf("scan cache: %w", err)
				}
				printKeyValue("Directory", fc.Dir())
				printKeyValue("Entries", StyleNumber.Render(fmt.Sprint(entries)))
				printKeyValue("Size", StyleNumber.Render(humanBytes(size)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every cached frame",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fc, err := c.openFileCache()
				if err != nil || fc == nil {
					return err
				}
				n, err := fc.Clear()
				if err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				printSuccess("Removed %d cached frames", n)
				printDetail("%s", fc.Dir())
				return nil
			},
		},
	)
	return cmd
}

// openFileCache opens the configured cache directory. It returns nil when
// the directory was never created, after telling the user so.
func (c *CLI) openFileCache() (*cache.FileCache, error) {
	dir, err := c.cacheDir()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		printInfo("No render cache at %s", dir)
		return nil, nil
	}
	return cache.NewFileCache(dir)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
