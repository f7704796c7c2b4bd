package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/magic"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle        = lipgloss.NewStyle().PaddingLeft(2)
)

// =============================================================================
// ExploreModel - Interactive hierarchy browser
// =============================================================================

// ExploreModel is the bubbletea model for browsing a tag hierarchy. The
// left column lists every type; the right panel shows the selected type's
// ancestors, components and resolved attribute defaults.
type ExploreModel struct {
	Engine *magic.Engine
	Types  []tag.ID
	Cursor int
	Height int
	Offset int
}

// NewExploreModel creates an explorer over the types of eng.
func NewExploreModel(eng *magic.Engine) ExploreModel {
	return ExploreModel{
		Engine: eng,
		Types:  eng.Hierarchy().Types(),
		Height: 15,
	}
}

// Selected returns the type under the cursor.
func (m ExploreModel) Selected() (tag.ID, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Types) {
		return "", false
	}
	return m.Types[m.Cursor], true
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Types)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Types)-1, 0)
		case "p":
			// jump to the nearest ancestor
			if t, ok := m.Selected(); ok {
				if anc := m.Engine.AncestorsOf(t); len(anc) > 0 {
					m.Cursor = m.indexOf(anc[0])
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	m.Offset = scroll(m.Cursor, m.Offset, m.Height)
	return m, nil
}

func (m ExploreModel) indexOf(t tag.ID) int {
	for i, id := range m.Types {
		if id == t {
			return i
		}
	}
	return m.Cursor
}

// scroll keeps cursor inside the visible window of height rows.
func scroll(cursor, offset, height int) int {
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+height {
		return cursor - height + 1
	}
	return offset
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Tag Hierarchy"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  p parent  q quit"))
	b.WriteString("\n\n")

	if len(m.Types) == 0 {
		b.WriteString(listDimStyle.Render("no tag types"))
		return b.String()
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.list(), panelStyle.Render(m.detail())))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Types))))
	return b.String()
}

func (m ExploreModel) list() string {
	var b strings.Builder
	end := min(m.Offset+m.Height, len(m.Types))
	for i := m.Offset; i < end; i++ {
		t := m.Types[i]
		line := "  " + string(t)
		if len(m.Engine.Hierarchy().Components(t)) > 0 {
			line += listDimStyle.Render(" +")
		}
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + string(t)))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m ExploreModel) detail() string {
	t, ok := m.Selected()
	if !ok {
		return ""
	}
	h := m.Engine.Hierarchy()

	var b strings.Builder
	b.WriteString(StyleTitle.Render(string(t)))
	b.WriteString("\n")
	b.WriteString(styleKey.Render("extends") + " " + fmtTypes(h.Parents(t)) + "\n")
	b.WriteString(styleKey.Render("ancestors") + " " + fmtTypes(h.AncestorsOf(t)) + "\n")
	if components := h.Components(t); len(components) > 0 {
		b.WriteString(styleKey.Render("composes") + " " + fmtTypes(components) + "\n")
	}
	b.WriteString("\n")

	names := h.Attributes(t)
	if len(names) == 0 {
		b.WriteString(listDimStyle.Render("no attributes"))
		return b.String()
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		spec, _ := h.Spec(t, name)
		declarer, _ := h.Declarer(t, name)
		rows = append(rows, []string{name, spec.Type.String(), m.defaultValue(t, name), string(declarer)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Attribute", "Type", "Value", "Declared by").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 && row >= 0 && row < len(rows) && rows[row][2] == valueRequired {
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(tbl.Render())
	return b.String()
}

// valueRequired marks attributes that have no value without an explicit one.
const valueRequired = "required"

// defaultValue resolves name on a bare instance of t.
func (m ExploreModel) defaultValue(t tag.ID, name string) string {
	v, err := m.Engine.EffectiveValue(tag.Of(t), name)
	if errs.Is(err, errs.ErrCodeMissingRequiredAttribute) {
		return valueRequired
	}
	if err != nil {
		return err.Error()
	}
	return v.String()
}
