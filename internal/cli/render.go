package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stepwise/pkg/demo"
	"github.com/matzehuels/stepwise/pkg/render"
	"github.com/matzehuels/stepwise/pkg/step"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	input   string   // comma-separated integers; empty uses the sample
	output  string   // output file (single frame and format) or base path
	formats []string // output formats: svg, png, pdf, dot, txt, json
	view    string   // array or tree
	scale   float64  // PNG scale factor
	step    int      // frame to render; -1 renders the final frame
	all     bool     // render every frame
	noCache bool     // bypass the render cache
}

// renderCommand creates the render command for writing frames to files.
//
// Default settings:
//   - format: svg
//   - view: array
//   - step: the final frame
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{view: string(render.ViewArray), scale: 2, step: -1}

	cmd := &cobra.Command{
		Use:               "render <algorithm>",
		Short:             "Render demo frames to SVG, PNG, PDF, DOT, text or JSON",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeAlgorithms,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats, opts.view); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "comma-separated integers (default: the demo's sample)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single frame and format) or base path")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, txt, json (comma-separated)")
	cmd.Flags().StringVar(&opts.view, "view", opts.view, "layout: array, tree")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().IntVar(&opts.step, "step", opts.step, "render the frame after this many steps (-1: final frame)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "render every frame from input to done")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{string(render.FormatSVG)}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats and the view are valid.
func validateFormats(formats []string, view string) error {
	for _, f := range formats {
		if _, err := (render.Options{Format: render.Format(f), View: render.View(view)}).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// isFormatExt reports whether ext (with or without the dot) names a format.
func isFormatExt(ext string) bool {
	return slices.Contains(render.Formats(), render.Format(strings.TrimPrefix(ext, ".")))
}

// basePath derives the base output path. If output is empty, the algorithm
// name is used. If output has a format extension, it is stripped.
func basePath(output, algorithm string) string {
	if output == "" {
		return algorithm
	}
	if ext := filepath.Ext(output); isFormatExt(ext) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// frames collects the frames to render: every frame with all, otherwise the
// frame after opts.step steps (or the final frame).
func frames(s step.Stepper[int], opts renderOpts) ([]step.Frame[int], error) {
	if opts.all {
		out := []step.Frame[int]{s.Frame()}
		for !s.Done() {
			if len(out) > defaultMaxSteps {
				return nil, fmt.Errorf("%w: %s after %d steps", step.ErrStepLimit, s.Name(), len(out)-1)
			}
			out = append(out, s.Next())
		}
		return out, nil
	}
	if opts.step < 0 {
		f, _, err := step.RunToEnd(s, defaultMaxSteps)
		return []step.Frame[int]{f}, err
	}
	for s.Depth() < opts.step && !s.Done() {
		s.Next()
	}
	return []step.Frame[int]{s.Frame()}, nil
}

// runRender builds the demo, collects the requested frames and writes one
// file per frame and format.
func (c *CLI) runRender(ctx context.Context, name string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	info, input, err := resolveInput(name, opts.input)
	if err != nil {
		return err
	}
	s, err := demo.New(info.Name, input)
	if err != nil {
		return err
	}
	fs, err := frames(s, opts)
	if err != nil {
		return err
	}
	if !opts.all && opts.step > fs[0].Depth {
		printWarning("%s finishes after %d steps; rendering the final frame", info.Name, fs[0].Depth)
	}
	logger.Infof("Rendering %s: %d frame(s), %s", info.Name, len(fs), strings.Join(opts.formats, ","))

	r, err := c.newRenderer(ctx, opts.noCache)
	if err != nil {
		return err
	}

	single := len(fs) == 1 && len(opts.formats) == 1
	base := basePath(opts.output, info.Name)

	var spinner *Spinner
	if len(fs) > 1 {
		spinner = newSpinner(ctx, "Rendering", len(fs)*len(opts.formats))
		spinner.Start()
	}

	prog := newProgress(logger)
	var paths []string
	allCached := true
	for _, f := range fs {
		for _, format := range opts.formats {
			ropts := render.Options{Format: render.Format(format), View: render.View(opts.view), Scale: opts.scale}
			data, cached, err := r.Render(ctx, render.SceneOf(f), ropts)
			if err != nil {
				if spinner != nil {
					spinner.StopWithError("Render failed")
				}
				return err
			}
			allCached = allCached && cached

			path := framePath(base, format, f.Depth, len(fs) > 1)
			if single && opts.output != "" {
				path = opts.output
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				if spinner != nil {
					spinner.StopWithError("Write failed")
				}
				return fmt.Errorf("write %s: %w", path, err)
			}
			paths = append(paths, path)
			if spinner != nil {
				spinner.Advance()
			}
		}
	}
	if spinner != nil {
		spinner.Stop()
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(paths)))

	printSuccess("Rendered %s", info.Name)
	printStats(fs[len(fs)-1].Depth, len(fs), allCached)
	for _, p := range paths {
		printFile(p)
	}
	printNextStep("Step through it", fmt.Sprintf("%s play %s -i %s", appName, info.Name, demo.FormatInput(input)))
	return nil
}

// framePath names the output file of one frame. Multi-frame renders get a
// zero-padded depth suffix.
func framePath(base, format string, depth int, numbered bool) string {
	if numbered {
		return fmt.Sprintf("%s_%03d.%s", base, depth, format)
	}
	return base + "." + format
}
