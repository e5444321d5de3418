package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/entrez"
)

var (
	pickSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	pickNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	pickDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	pickCheckedStyle  = lipgloss.NewStyle().Foreground(colorGreen)
)

// assemblyPickerModel is the bubbletea model for interactive assembly
// selection after a search.
type assemblyPickerModel struct {
	summaries []entrez.AssemblySummary
	checked   map[int]bool
	cursor    int
	height    int
	offset    int
	confirmed bool
}

func newAssemblyPicker(summaries []entrez.AssemblySummary) assemblyPickerModel {
	return assemblyPickerModel{
		summaries: summaries,
		checked:   make(map[int]bool),
		height:    15,
	}
}

func (m assemblyPickerModel) Init() tea.Cmd {
	return nil
}

func (m assemblyPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.summaries)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case " ", "space":
			m.checked[m.cursor] = !m.checked[m.cursor]
		case "a":
			all := len(m.checked) != len(m.summaries)
			for i := range m.summaries {
				m.checked[i] = all
			}
			if !all {
				m.checked = make(map[int]bool)
			}
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m assemblyPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Assemblies"))
	b.WriteString("\n")
	b.WriteString(pickDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.summaries) {
		end = len(m.summaries)
	}

	for i := m.offset; i < end; i++ {
		s := m.summaries[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.checked[i] {
			check = pickCheckedStyle.Render("[✓]")
		}

		line := fmt.Sprintf("%s%s %s  %s", cursor, check, s.Accession, s.Organism)
		if i == m.cursor {
			b.WriteString(pickSelectedStyle.Render(line))
		} else {
			b.WriteString(pickNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(pickDimStyle.Render(fmt.Sprintf("%d of %d selected", m.selectedCount(), len(m.summaries))))
	return b.String()
}

func (m assemblyPickerModel) selectedCount() int {
	n := 0
	for _, v := range m.checked {
		if v {
			n++
		}
	}
	return n
}

// selected returns the checked summaries in listing order.
func (m assemblyPickerModel) selected() []entrez.AssemblySummary {
	var out []entrez.AssemblySummary
	for i, s := range m.summaries {
		if m.checked[i] {
			out = append(out, s)
		}
	}
	return out
}

// pickAssemblies runs the interactive picker and returns the chosen
// summaries. A cancelled picker returns an empty slice, not an error.
func pickAssemblies(ctx context.Context, summaries []entrez.AssemblySummary) ([]entrez.AssemblySummary, error) {
	p := tea.NewProgram(newAssemblyPicker(summaries), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	m, ok := final.(assemblyPickerModel)
	if !ok || !m.confirmed {
		return nil, nil
	}
	return m.selected(), nil
}
