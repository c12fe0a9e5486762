package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stackmixer/pkg/pipeline"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// LevelModel - Interactive hierarchy browser
// =============================================================================

// LevelModel is the bubbletea model for browsing a coarsening hierarchy.
// The cursor selects a level; the footer compares it with the input graph.
type LevelModel struct {
	Report pipeline.LevelReport
	Cursor int
}

// NewLevelModel creates a browser positioned on the coarsest level.
func NewLevelModel(report pipeline.LevelReport) LevelModel {
	return LevelModel{Report: report, Cursor: max(len(report.Sizes)-1, 0)}
}

func (m LevelModel) Init() tea.Cmd {
	return nil
}

func (m LevelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Report.Sizes)-1 {
			m.Cursor++
		}
	case "home", "g":
		m.Cursor = 0
	case "end", "G":
		m.Cursor = max(len(m.Report.Sizes)-1, 0)
	}
	return m, nil
}

func (m LevelModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Coarsening Levels"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(m.Report.Coarsener + " · " + m.Report.Status))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Report.Sizes) == 0 {
		b.WriteString(listDimStyle.Render("  no levels"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(levelTable(m.Report.Sizes, m.Cursor))
	b.WriteString("\n\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	return b.String()
}

// detail summarizes the selected level relative to the input graph.
func (m LevelModel) detail() string {
	in, cur := m.Report.Sizes[0], m.Report.Sizes[m.Cursor]
	pct := 100.0
	if in.Nodes > 0 {
		pct = 100 * float64(cur.Nodes) / float64(in.Nodes)
	}
	return fmt.Sprintf("  level %s: %s nodes, %s of the input",
		StyleNumber.Render(fmt.Sprint(cur.Level)),
		StyleValue.Render(fmt.Sprint(cur.Nodes)),
		StyleHighlight.Render(fmt.Sprintf("%.1f%%", pct)))
}
