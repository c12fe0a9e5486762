package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackmixer/pkg/mixer"
	"github.com/matzehuels/stackmixer/pkg/pipeline"
	"github.com/matzehuels/stackmixer/pkg/render/chart"
)

// levelsCommand creates the levels command, which reports the coarsening
// hierarchy without running a layout.
func (c *CLI) levelsCommand() *cobra.Command {
	var (
		htmlOut     string
		interactive bool
		noCache     bool
		flags       pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "levels [graph.json]",
		Short: "Show the coarsening hierarchy of a graph",
		Long: `Show the coarsening hierarchy of a graph.

The levels command coarsens the graph with the configured strategy and prints
the node and edge count of every level. Use --html to write an interactive
chart of the hierarchy and --interactive to browse it in the terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.effectiveOptions(cmd, flags)
			return c.runLevels(cmd.Context(), args[0], opts, htmlOut, interactive, noCache)
		},
	}

	cmd.Flags().StringVar(&htmlOut, "html", "", "write an HTML chart of the level sizes to this file")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the levels interactively")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	bindCoarsenFlags(cmd, &flags)

	return cmd
}

func (c *CLI) runLevels(ctx context.Context, input string, opts pipeline.Options, htmlOut string, interactive, noCache bool) error {
	g, err := readGraph(ctx, input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	report, cached, err := runner.LevelsWithCacheInfo(ctx, g, opts)
	if err != nil {
		return fmt.Errorf("coarsen: %w", err)
	}
	prog.done("hierarchy built", "levels", len(report.Sizes)-1, "cached", cached)

	if htmlOut != "" {
		if err := writeLevelChart(htmlOut, input, report); err != nil {
			return err
		}
	}

	if interactive {
		_, err := tea.NewProgram(NewLevelModel(report)).Run()
		return err
	}

	fmt.Println(levelTable(report.Sizes, -1))
	printKeyValue("coarsener", report.Coarsener)
	printStatus(report.Status)
	printStats(len(g.Nodes), len(g.Edges), len(report.Sizes)-1, cached)
	if htmlOut != "" {
		printFile(htmlOut)
	}
	return nil
}

func writeLevelChart(path, title string, report pipeline.LevelReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	err = chart.Render(f, chart.Report{
		Title:     title,
		Coarsener: report.Coarsener,
		Status:    report.Status,
		Sizes:     report.Sizes,
	})
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return f.Close()
}

// levelTable renders the level sizes as a table. The row at index selected
// is highlighted; pass -1 for none.
func levelTable(sizes []mixer.LevelSize, selected int) string {
	rows := make([][]string, len(sizes))
	for i, s := range sizes {
		rows[i] = []string{
			strconv.Itoa(s.Level),
			strconv.Itoa(s.Nodes),
			strconv.Itoa(s.Edges),
			shrink(sizes, i),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Level", "Nodes", "Edges", "Shrink").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == selected:
				return cellStyle.Foreground(colorCyan).Bold(true)
			case col == 0:
				return cellStyle.Foreground(colorGray)
			default:
				return cellStyle.Foreground(colorWhite)
			}
		}).
		Render()
}

// shrink formats the node ratio between level i-1 and level i.
func shrink(sizes []mixer.LevelSize, i int) string {
	if i == 0 || sizes[i].Nodes == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2fx", float64(sizes[i-1].Nodes)/float64(sizes[i].Nodes))
}
