package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stepwise/pkg/demo"
)

// listCommand creates the list command showing the registered demos.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the step-through demos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), algorithmTable(demo.List()))
			return nil
		},
	}
}

// algorithmTable renders demo infos as a rounded lipgloss table.
func algorithmTable(infos []demo.Info) string {
	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{info.Name, info.Description, info.Unit, demo.FormatInput(info.Sample)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("Algorithm", "Description", "Step", "Sample").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorTeal).Bold(true)
			case col == 3:
				return lipgloss.NewStyle().Foreground(colorMuted)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// resolveInput looks up a demo and parses its input, falling back to the
// demo's sample input when raw is empty.
func resolveInput(name, raw string) (demo.Info, []int, error) {
	info, err := demo.Lookup(name)
	if err != nil {
		return info, nil, err
	}
	if raw == "" {
		return info, info.Sample, nil
	}
	input, err := demo.ParseInput(raw)
	if err != nil {
		return info, nil, err
	}
	return info, input, nil
}

// completeAlgorithms offers demo names for shell completion.
func completeAlgorithms(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return demo.Names(), cobra.ShellCompDirectiveNoFileComp
}
