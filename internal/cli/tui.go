package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/grid"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DashboardListModel - Interactive dashboard selection
// =============================================================================

// DashboardListModel is the bubbletea model for picking one dashboard out of
// a server listing.
type DashboardListModel struct {
	Dashboards []*dashboard.Dashboard
	Cursor     int
	Selected   *dashboard.Dashboard
	Height     int
	Offset     int
}

// NewDashboardListModel creates a new dashboard list model.
func NewDashboardListModel(dashboards []*dashboard.Dashboard) DashboardListModel {
	return DashboardListModel{
		Dashboards: dashboards,
		Cursor:     0,
		Height:     15,
		Offset:     0,
	}
}

func (m DashboardListModel) Init() tea.Cmd {
	return nil
}

func (m DashboardListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Dashboards)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Dashboards[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m DashboardListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Dashboard"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Dashboards) {
		end = len(m.Dashboards)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		d := m.Dashboards[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			d.Name,
			strconv.Itoa(d.Cols),
			strconv.Itoa(len(d.Widgets)),
			strconv.Itoa(grid.MaxBottom(d.Items())),
			formatRelativeTime(d.UpdatedAt),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Dashboard", "Cols", "Widgets", "Rows", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Dashboards) {
				return lipgloss.NewStyle()
			}
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col == 5 {
				if isCurrent {
					return base.Foreground(colorGray).Bold(true)
				}
				return base.Foreground(colorDim)
			}
			if isCurrent {
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Dashboards))))

	return b.String()
}

// =============================================================================
// InspectModel - Interactive dashboard browser
// =============================================================================

// InspectModel is the bubbletea model behind the inspect command. The cell
// grid is drawn above a scrollable widget list; the cursored widget's cells
// are highlighted. Pressing r repacks the layout in memory so a reflow can
// be previewed without touching the file.
type InspectModel struct {
	Dashboard *dashboard.Dashboard
	Cursor    int
	Height    int
	Offset    int
	Note      string
}

// NewInspectModel creates a new inspect model.
func NewInspectModel(d *dashboard.Dashboard) InspectModel {
	return InspectModel{
		Dashboard: d,
		Height:    10,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Dashboard.Widgets)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "r":
			next := m.Dashboard.Clone()
			items, err := next.Grid().Rebuild(next.Requests())
			if err != nil {
				m.Note = StyleWarning.Render("repack failed: " + err.Error())
				return m, nil
			}
			if err := next.ApplyLayout(items); err != nil {
				m.Note = StyleWarning.Render("repack failed: " + err.Error())
				return m, nil
			}
			m.Dashboard = next
			m.Note = listDimStyle.Render("layout repacked in memory, file unchanged")
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder
	d := m.Dashboard

	b.WriteString(StyleTitle.Render(d.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ widgets  r repack  q quit"))
	b.WriteString("\n\n")

	b.WriteString(renderCanvas(d, m.Cursor))
	b.WriteString("\n")

	end := m.Offset + m.Height
	if end > len(d.Widgets) {
		end = len(d.Widgets)
	}

	for i := m.Offset; i < end; i++ {
		w := d.Widgets[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		span := ""
		if w.IsFullWidth() {
			span = "  full"
		}

		line := fmt.Sprintf("%s%c %-24s %dx%d @ (%d,%d)%s",
			cursor, cellRune(i), truncateLabel(widgetLabel(w), 24), w.W, w.H, w.X, w.Y, span)

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(d.Widgets) > 0 {
		w := d.Widgets[m.Cursor]
		typ := w.Type
		if typ == "" {
			typ = "—"
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %s %s\n", listDimStyle.Render("id:  "), w.ID))
		b.WriteString(fmt.Sprintf("  %s %s\n", listDimStyle.Render("type:"), typ))
	}

	pos := 0
	if len(d.Widgets) > 0 {
		pos = m.Cursor + 1
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d cols  updated %s",
		pos, len(d.Widgets), d.Cols, formatRelativeTime(d.UpdatedAt))))
	if m.Note != "" {
		b.WriteString("\n  ")
		b.WriteString(m.Note)
	}
	b.WriteString("\n")

	return b.String()
}

// renderCanvas draws the cell grid, one styled rune per cell, with the
// cursored widget's cells highlighted.
func renderCanvas(d *dashboard.Dashboard, cursor int) string {
	cols := d.Grid().Cols()
	rows := grid.MaxBottom(d.Items())
	if rows == 0 {
		return listDimStyle.Render("  (no widgets)") + "\n"
	}

	owner := make([][]int, rows)
	for y := range owner {
		owner[y] = make([]int, cols)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}
	for i, w := range d.Widgets {
		for y := w.Y; y < w.Y+w.H && y < rows; y++ {
			if y < 0 {
				continue
			}
			for x := w.X; x < w.X+w.W && x < cols; x++ {
				if x < 0 {
					continue
				}
				owner[y][x] = i
			}
		}
	}

	var b strings.Builder
	for y := 0; y < rows; y++ {
		b.WriteString("  ")
		for x := 0; x < cols; x++ {
			switch idx := owner[y][x]; {
			case idx == -1:
				b.WriteString(listDimStyle.Render("."))
			case idx == cursor:
				b.WriteString(listSelectedStyle.Render(string(cellRune(idx))))
			default:
				b.WriteString(listNormalStyle.Render(string(cellRune(idx))))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// cellRune is the fill letter for the widget at index i, matching the text
// renderer's labeling: A-Z, then a-z, then wrapping.
func cellRune(i int) rune {
	const n = 26
	switch {
	case i < n:
		return rune('A' + i)
	case i < 2*n:
		return rune('a' + i - n)
	default:
		return rune('A' + i%n)
	}
}

func truncateLabel(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
