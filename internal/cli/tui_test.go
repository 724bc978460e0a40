package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/martialmarel/linkrank/pkg/pipeline"
)

func testResult() *pipeline.Result {
	return &pipeline.Result{
		Names:  []string{"a", "b", "c"},
		Scores: []float64{0.2, 0.5, 0.3},
	}
}

func press(m RankListModel, keys ...string) RankListModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(RankListModel)
	}
	return m
}

func TestRankListModelOrder(t *testing.T) {
	m := NewRankListModel(testResult())
	var names []string
	for _, e := range m.Entries {
		names = append(names, e.Name)
	}
	if got := strings.Join(names, ","); got != "b,c,a" {
		t.Errorf("entries = %s, want b,c,a", got)
	}

	m = press(m, "s")
	if !m.ByIndex || m.Entries[0].Name != "a" {
		t.Errorf("after s: ByIndex=%v first=%s, want index order", m.ByIndex, m.Entries[0].Name)
	}
	m = press(m, "s")
	if m.ByIndex || m.Entries[0].Name != "b" {
		t.Errorf("second s should restore rank order")
	}
}

func TestRankListModelNavigation(t *testing.T) {
	m := NewRankListModel(testResult())

	m = press(m, "up")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0 at top", m.Cursor)
	}
	m = press(m, "down", "down", "down", "down")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want clamped to 2", m.Cursor)
	}
	m = press(m, "g")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d after g, want 0", m.Cursor)
	}
	m = press(m, "G")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d after G, want 2", m.Cursor)
	}
}

func TestRankListModelScroll(t *testing.T) {
	res := &pipeline.Result{Names: make([]string, 20), Scores: make([]float64, 20)}
	for i := range res.Names {
		res.Names[i] = string(rune('a' + i))
		res.Scores[i] = float64(20 - i)
	}
	m := NewRankListModel(res)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 15})
	m = next.(RankListModel)
	if m.Height != 5 {
		t.Fatalf("height = %d, want 5", m.Height)
	}

	m = press(m, "G")
	if m.Offset != 15 {
		t.Errorf("offset = %d, want 15 to keep the cursor visible", m.Offset)
	}
	m = press(m, "g")
	if m.Offset != 0 {
		t.Errorf("offset = %d, want 0", m.Offset)
	}
}

func TestRankListModelView(t *testing.T) {
	m := NewRankListModel(testResult())
	view := m.View()
	for _, want := range []string{"PageRank", "by rank", "0.500000", "[1/3]", "50.00% of total"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q:\n%s", want, view)
		}
	}
}

func TestRankListModelQuit(t *testing.T) {
	m := NewRankListModel(testResult())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
