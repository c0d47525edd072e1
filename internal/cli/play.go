package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stepwise/pkg/demo"
	"github.com/matzehuels/stepwise/pkg/errors"
	"github.com/matzehuels/stepwise/pkg/render"
)

// playCommand creates the interactive play command.
func (c *CLI) playCommand() *cobra.Command {
	var (
		input    string
		view     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:               "play <algorithm>",
		Short:             "Step through a demo interactively",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeAlgorithms,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "--interval must be positive, got %s", interval)
			}
			opts, err := (render.Options{View: render.View(view)}).Validate()
			if err != nil {
				return err
			}
			info, values, err := resolveInput(args[0], input)
			if err != nil {
				return err
			}
			s, err := demo.New(info.Name, values)
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewPlayModel(s, opts.View, interval),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(PlayModel); ok {
				loggerFromContext(cmd.Context()).Debug("play finished",
					"algorithm", info.Name, "depth", m.Frame.Depth, "done", m.Frame.Done)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "comma-separated integers (default: the demo's sample)")
	cmd.Flags().StringVar(&view, "view", string(render.ViewArray), "layout: array, tree")
	cmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "autoplay step interval")

	return cmd
}
