package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/vectorstudio/pkg/editor"
	"github.com/matzehuels/vectorstudio/pkg/layers"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listStatusStyle = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
)

// =============================================================================
// LayerPanelModel - Interactive layer panel
// =============================================================================

// LayerPanelModel is the bubbletea model for the layer panel. Rows are
// listed top layer first, as in a drawing program.
type LayerPanelModel struct {
	Editor *editor.Editor
	Save   func(*scene.Document) error

	Cursor int
	Height int
	Offset int
	Dirty  bool
	Saved  bool
	Status string
	Err    error
}

// NewLayerPanelModel creates a layer panel over ed. save is called on "w".
func NewLayerPanelModel(ed *editor.Editor, save func(*scene.Document) error) LayerPanelModel {
	return LayerPanelModel{
		Editor: ed,
		Save:   save,
		Height: 15,
	}
}

// rows returns the layers top first.
func (m LayerPanelModel) rows() []layers.Layer {
	ls := m.Editor.Layers()
	out := make([]layers.Layer, len(ls))
	for i, l := range ls {
		out[len(ls)-1-i] = l
	}
	return out
}

func (m LayerPanelModel) current() (layers.Layer, bool) {
	rows := m.rows()
	if m.Cursor < 0 || m.Cursor >= len(rows) {
		return layers.Layer{}, false
	}
	return rows[m.Cursor], true
}

func (m LayerPanelModel) Init() tea.Cmd {
	return nil
}

func (m LayerPanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.Status = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.rows())-1 {
				m.Cursor++
			}
		case "v", " ":
			m = m.onLayer(m.Editor.ToggleLayerVisibility, "visibility toggled")
		case "l":
			m = m.onLayer(m.Editor.ToggleLayerLock, "lock toggled")
		case "enter":
			if l, ok := m.current(); ok {
				if m.Editor.SelectLayer(l.ID) {
					m.Status = "selected " + l.Name
				} else {
					m.Status = l.Name + " is locked"
				}
			}
		case "d", "delete":
			m = m.onSelection(func() bool { return m.Editor.DeleteSelected() }, "deleted")
		case "c":
			m = m.onSelection(func() bool {
				_, ok := m.Editor.DuplicateSelected()
				return ok
			}, "duplicated")
		case "]":
			m = m.onSelection(m.Editor.BringForward, "moved up")
		case "[":
			m = m.onSelection(m.Editor.SendBackward, "moved down")
		case "u":
			if m.Editor.Undo() {
				m.Dirty, m.Status = true, "undone"
			}
		case "r", "ctrl+r":
			if m.Editor.Redo() {
				m.Dirty, m.Status = true, "redone"
			}
		case "w":
			m = m.write()
		}
		m = m.clampCursor()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

// onLayer applies fn to the layer under the cursor.
func (m LayerPanelModel) onLayer(fn func(id string) bool, status string) LayerPanelModel {
	if l, ok := m.current(); ok && fn(l.ID) {
		m.Dirty, m.Status = true, status
	}
	return m
}

// onSelection selects the layer under the cursor and applies fn to the
// selection. Locked layers cannot be selected.
func (m LayerPanelModel) onSelection(fn func() bool, status string) LayerPanelModel {
	l, ok := m.current()
	if !ok {
		return m
	}
	if !m.Editor.SelectLayer(l.ID) {
		if sel, _ := m.Editor.Selection(); sel != l.ObjectID {
			m.Status = l.Name + " is locked"
			return m
		}
	}
	if fn() {
		m.Dirty, m.Status = true, status
		m = m.follow(m.Editor.Selection())
	}
	return m
}

// follow moves the cursor onto the row of object id.
func (m LayerPanelModel) follow(id string, ok bool) LayerPanelModel {
	if !ok {
		return m
	}
	for i, l := range m.rows() {
		if l.ObjectID == id {
			m.Cursor = i
			break
		}
	}
	return m
}

func (m LayerPanelModel) write() LayerPanelModel {
	if m.Save == nil {
		return m
	}
	if err := m.Save(m.Editor.Document()); err != nil {
		m.Err = err
		m.Status = "write failed: " + err.Error()
		return m
	}
	m.Dirty, m.Saved = false, true
	m.Status = "written"
	return m
}

func (m LayerPanelModel) clampCursor() LayerPanelModel {
	n := len(m.rows())
	m.Cursor = max(0, min(m.Cursor, n-1))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m LayerPanelModel) View() string {
	var b strings.Builder

	title := "Layers"
	if m.Dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  v visible  l lock  ⏎ select  d delete  c duplicate  [/] order  u/r undo/redo  w write  q quit"))
	b.WriteString("\n\n")

	all := m.rows()
	if len(all) == 0 {
		b.WriteString(listDimStyle.Render("  no layers"))
		b.WriteString("\n")
		return b.String()
	}

	selected, _ := m.Editor.Selection()
	end := min(m.Offset+m.Height, len(all))
	visible := all[m.Offset:end]
	rows := make([][]string, 0, len(visible))
	for i, l := range visible {
		cursor := "  "
		if m.Offset+i == m.Cursor {
			cursor = "▸ "
		}
		mark := ""
		if l.ObjectID == selected {
			mark = "●"
		}
		rows = append(rows, []string{cursor, mark, l.Name, string(l.Kind), check(l.Visible), check(l.Locked)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Layer", "Kind", "Visible", "Locked").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(all) {
				return lipgloss.NewStyle()
			}
			l := all[idx]
			base := lipgloss.NewStyle()
			switch {
			case !l.Visible:
				base = base.Foreground(colorDim)
			case l.Locked:
				base = base.Foreground(colorGray)
			default:
				base = base.Foreground(colorWhite)
			}
			if idx == m.Cursor {
				return base.Bold(true).Foreground(colorCyan)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(all))))
	if m.Status != "" {
		b.WriteString("  " + listStatusStyle.Render(m.Status))
	}
	b.WriteString("\n")

	return b.String()
}

func check(b bool) string {
	if b {
		return "✓"
	}
	return ""
}
