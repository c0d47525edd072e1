package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stepwise/pkg/demo"
	"github.com/matzehuels/stepwise/pkg/render"
	"github.com/matzehuels/stepwise/pkg/step"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	input    string // comma-separated integers; empty uses the sample
	trace    bool   // print every frame, not just the last
	view     string // text layout: array or tree
	maxSteps int    // abort runs longer than this
}

// runCommand creates the run command, which drives a demo to completion.
func (c *CLI) runCommand() *cobra.Command {
	opts := runOpts{view: string(render.ViewArray), maxSteps: defaultMaxSteps}

	cmd := &cobra.Command{
		Use:               "run <algorithm>",
		Short:             "Run a demo to completion",
		Long:              "Run a demo from its input to DONE and print the final frame. With --trace every intermediate frame is printed.",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeAlgorithms,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRun(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "comma-separated integers (default: the demo's sample)")
	cmd.Flags().BoolVarP(&opts.trace, "trace", "t", false, "print every frame")
	cmd.Flags().StringVar(&opts.view, "view", opts.view, "text layout: array, tree")
	cmd.Flags().IntVar(&opts.maxSteps, "max-steps", opts.maxSteps, "abort after this many steps")

	return cmd
}

func (c *CLI) runRun(cmd *cobra.Command, name string, opts runOpts) error {
	logger := loggerFromContext(cmd.Context())
	view, err := (render.Options{View: render.View(opts.view), Format: render.FormatText}).Validate()
	if err != nil {
		return err
	}
	info, input, err := resolveInput(name, opts.input)
	if err != nil {
		return err
	}

	s, err := demo.New(info.Name, input)
	if err != nil {
		return err
	}
	logger.Debug("running", "algorithm", info.Name, "input", demo.FormatInput(input))

	out := cmd.OutOrStdout()
	prog := newProgress(logger)
	var frame step.Frame[int]
	var steps int
	if opts.trace {
		frame, steps, err = trace(out, s, view.View, opts.maxSteps)
	} else {
		frame, steps, err = step.RunToEnd(s, opts.maxSteps)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, render.Text(render.SceneOf(frame), view.View))
	prog.done(fmt.Sprintf("Finished %s in %d steps", info.Name, steps))
	return nil
}

// trace prints every frame before the final one and returns the final frame.
func trace(w io.Writer, s step.Stepper[int], view render.View, maxSteps int) (step.Frame[int], int, error) {
	frame := s.Frame()
	for steps := 0; ; steps++ {
		if s.Done() {
			return frame, steps, nil
		}
		if steps >= maxSteps {
			return frame, steps, fmt.Errorf("%w: %s after %d steps", step.ErrStepLimit, s.Name(), steps)
		}
		fmt.Fprintln(w, render.Text(render.SceneOf(frame), view))
		frame = s.Next()
	}
}
