package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stepwise/pkg/algo/dp"
	"github.com/matzehuels/stepwise/pkg/algo/kmeans"
	"github.com/matzehuels/stepwise/pkg/demo"
	"github.com/matzehuels/stepwise/pkg/errors"
)

// newTable returns a rounded table with the CLI header style.
func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// =============================================================================
// edit-distance
// =============================================================================

func (c *CLI) editDistanceCommand() *cobra.Command {
	var showTable, asJSON bool

	cmd := &cobra.Command{
		Use:   "edit-distance <source> <target>",
		Short: "Compute the edit distance and an optimal edit script",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range args {
				if err := errors.ValidateText(s); err != nil {
					return err
				}
			}
			x, y := []rune(args[0]), []rune(args[1])
			t := dp.NewEditTable(x, y)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSONTo(out, struct {
					Distance int           `json:"distance"`
					Ops      []dp.TextEdit `json:"ops"`
				}{t.Cost(), dp.TextScript(t.Path())})
			}

			printKeyValue("distance", StyleNumber.Render(strconv.Itoa(t.Cost())))
			fmt.Fprintln(out, editScript(t.Path()))
			if showTable {
				fmt.Fprintln(out, costTable(x, y, t))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTable, "table", false, "print the full cost table")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// editScript renders an edit script as one row per operation.
func editScript(edits []dp.Edit[rune]) string {
	t := newTable("Op", "From", "To")
	for _, e := range edits {
		from, to := "", ""
		if e.Op != dp.Insert {
			from = strconv.QuoteRune(e.From)
		}
		if e.Op != dp.Delete {
			to = strconv.QuoteRune(e.To)
		}
		t.Row(e.Op.String(), from, to)
	}
	return t.Render()
}

// costTable renders the dynamic programming table with the source down the
// side and the target across the top.
func costTable(x, y []rune, t *dp.Table[rune]) string {
	headers := []string{"", "ε"}
	for _, r := range y {
		headers = append(headers, string(r))
	}
	tbl := newTable(headers...)
	for i, row := range t.Rows() {
		label := "ε"
		if i > 0 {
			label = string(x[i-1])
		}
		cells := []string{label}
		for _, v := range row {
			cells = append(cells, strconv.Itoa(v))
		}
		tbl.Row(cells...)
	}
	return tbl.Render()
}

// =============================================================================
// knapsack
// =============================================================================

func (c *CLI) knapsackCommand() *cobra.Command {
	var weights string
	var capacity int

	cmd := &cobra.Command{
		Use:   "knapsack",
		Short: "Select the largest number of items that fit a capacity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := demo.ParseInput(weights)
			if err != nil {
				return err
			}
			if capacity < 0 || capacity > errors.MaxInputLength*1000 {
				return errors.New(errors.ErrCodeInvalidInput, "capacity must be between 0 and %d", errors.MaxInputLength*1000)
			}
			count, chosen := dp.Knapsack(ws, capacity)

			t := newTable("Item", "Weight")
			total := 0
			for _, i := range chosen {
				t.Row(strconv.Itoa(i), strconv.Itoa(ws[i]))
				total += ws[i]
			}
			printKeyValue("items", StyleNumber.Render(strconv.Itoa(count)))
			printKeyValue("weight", fmt.Sprintf("%d / %d", total, capacity))
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}

	cmd.Flags().StringVarP(&weights, "weights", "w", "", "comma-separated item weights")
	cmd.Flags().IntVarP(&capacity, "capacity", "c", 0, "knapsack capacity")
	_ = cmd.MarkFlagRequired("weights")
	return cmd
}

// =============================================================================
// kmeans
// =============================================================================

// kmeansOpts holds the flags of the kmeans command. Flags override the
// config file.
type kmeansOpts struct {
	k             int
	seed          uint64
	maxIterations int
	tolerance     float64
	random        int
	dimension     int
	trace         bool
	asJSON        bool
}

func (c *CLI) kmeansCommand() *cobra.Command {
	var opts kmeansOpts

	cmd := &cobra.Command{
		Use:   "kmeans [config.toml]",
		Short: "Cluster points with Lloyd's k-means",
		Long: `Cluster the points of a TOML config, or a seeded random point set.

Example config:

  k = 2
  max_iterations = 20
  points = [[1.0, 1.0], [1.5, 2.0], [3.0, 4.0], [5.0, 7.0]]`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg kmeans.Config
			if len(args) == 1 {
				var err error
				if cfg, err = kmeans.LoadConfig(args[0]); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidConfig, err, "kmeans config")
				}
			}
			opts.apply(cmd, &cfg)
			return runKMeans(cmd.OutOrStdout(), cfg, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.k, "k", "k", kmeans.DefaultK, "number of clusters when the config has no centroids")
	cmd.Flags().Uint64Var(&opts.seed, "seed", kmeans.DefaultSeed, "seed for centroid selection and random points")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", kmeans.DefaultMaxIterations, "iteration limit")
	cmd.Flags().Float64Var(&opts.tolerance, "tolerance", 0, "stop once no centroid moves further than this")
	cmd.Flags().IntVar(&opts.random, "random", 0, "cluster this many random points")
	cmd.Flags().IntVar(&opts.dimension, "dim", 2, "dimension of random points")
	cmd.Flags().BoolVarP(&opts.trace, "trace", "t", false, "print every iteration")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON")
	return cmd
}

// apply copies explicitly set flags into cfg.
func (o kmeansOpts) apply(cmd *cobra.Command, cfg *kmeans.Config) {
	flags := cmd.Flags()
	if flags.Changed("k") || cfg.K == 0 {
		cfg.K = o.k
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = o.seed
	}
	if flags.Changed("max-iterations") || cfg.MaxIterations == 0 {
		cfg.MaxIterations = o.maxIterations
	}
	if flags.Changed("tolerance") {
		cfg.Tolerance = o.tolerance
	}
	if o.random > 0 {
		cfg.Points = nil
		cfg.Random = &kmeans.RandomConfig{Count: o.random, Dimension: o.dimension}
	}
}

func runKMeans(w io.Writer, cfg kmeans.Config, opts kmeansOpts) error {
	if opts.trace {
		s, err := kmeans.NewStepper(cfg)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "kmeans")
		}
		t := newTable("Iteration", "Error", "Shift", "Sizes")
		snap := s.Snapshot()
		for {
			t.Row(strconv.Itoa(snap.Iteration), formatFloat(snap.Error), formatShift(snap.Shift), clusterSizes(snap.Labels, len(snap.Centroids)))
			if s.Done() {
				break
			}
			snap = s.Next()
		}
		fmt.Fprintln(w, t.Render())
		return nil
	}

	res, err := kmeans.Run(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "kmeans")
	}
	if opts.asJSON {
		return writeJSONTo(w, res)
	}

	printKeyValue("iterations", StyleNumber.Render(strconv.Itoa(res.Iterations)))
	printKeyValue("converged", strconv.FormatBool(res.Converged))
	if n := len(res.Errors); n > 0 {
		printKeyValue("error", formatFloat(res.Errors[n-1]))
	}
	sizes := make([]int, len(res.Centroids))
	for _, l := range res.Labels {
		sizes[l]++
	}
	t := newTable("Cluster", "Centroid", "Points")
	for i, c := range res.Centroids {
		t.Row(strconv.Itoa(i), formatPoint(c), strconv.Itoa(sizes[i]))
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }

func formatShift(v float64) string {
	if v < 0 {
		return "-"
	}
	return formatFloat(v)
}

func formatPoint(p []float64) string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = formatFloat(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func clusterSizes(labels []int, k int) string {
	sizes := make([]string, k)
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}
	for i, n := range counts {
		sizes[i] = strconv.Itoa(n)
	}
	return strings.Join(sizes, "/")
}

func writeJSONTo(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
