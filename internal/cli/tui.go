package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/martialmarel/linkrank/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listBarStyle      = lipgloss.NewStyle().Foreground(colorCyan)
)

// barWidth is the width of the score bar at the maximum score.
const barWidth = 24

// =============================================================================
// RankListModel - Interactive ranking browser
// =============================================================================

// RankListModel is the bubbletea model for browsing a ranking. Entries can
// be viewed by rank or by node index.
type RankListModel struct {
	Entries []pipeline.Entry
	ByIndex bool
	Cursor  int
	Height  int
	Offset  int

	total float64
	max   float64
}

// NewRankListModel creates a browser over the ranked entries of res.
func NewRankListModel(res *pipeline.Result) RankListModel {
	m := RankListModel{
		Entries: res.Ranked(),
		Height:  15,
		total:   res.Sum(),
	}
	for _, e := range m.Entries {
		m.max = max(m.max, e.Score)
	}
	return m
}

func (m RankListModel) Init() tea.Cmd {
	return nil
}

func (m RankListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Entries)-1, 0)
		case "s":
			m.ByIndex = !m.ByIndex
			m.sort()
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

// sort orders Entries by rank position or by node index.
func (m *RankListModel) sort() {
	entries := append([]pipeline.Entry(nil), m.Entries...)
	if m.ByIndex {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })
	} else {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
	}
	m.Entries = entries
}

func (m RankListModel) View() string {
	var b strings.Builder

	order := "rank"
	if m.ByIndex {
		order = "index"
	}
	b.WriteString(StyleTitle.Render("PageRank"))
	b.WriteString(listDimStyle.Render("  by " + order))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  s sort  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", e.Position),
			e.Name,
			formatScore(e.Score),
			listBarStyle.Render(m.bar(e.Score)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Node", "Score", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor && col != 4 {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if len(m.Entries) > 0 {
		e := m.Entries[m.Cursor]
		share := 0.0
		if m.total > 0 {
			share = 100 * e.Score / m.total
		}
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s · node %d · %.2f%% of total",
			e.Name, e.Index, share)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// bar draws score as a horizontal bar scaled to the maximum score.
func (m RankListModel) bar(score float64) string {
	if m.max <= 0 {
		return ""
	}
	n := int(score / m.max * barWidth)
	return strings.Repeat("█", n)
}

// browseRanking runs the ranking browser until the user quits or ctx ends.
func browseRanking(ctx context.Context, res *pipeline.Result) error {
	_, err := tea.NewProgram(NewRankListModel(res), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
