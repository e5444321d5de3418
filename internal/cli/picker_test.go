package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/entrez"
)

func pickerSummaries() []entrez.AssemblySummary {
	return []entrez.AssemblySummary{
		{Accession: "GCF_000000001.1", Organism: "Escherichia coli"},
		{Accession: "GCF_000000002.1", Organism: "Salmonella enterica"},
		{Accession: "GCF_000000003.1", Organism: "Vibrio cholerae"},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestPickerToggleAndConfirm(t *testing.T) {
	var m tea.Model = newAssemblyPicker(pickerSummaries())

	m, _ = m.Update(key(" "))       // select first
	m, _ = m.Update(key("j"))       // move down
	m, _ = m.Update(key("j"))       // move down
	m, _ = m.Update(key(" "))       // select third
	m, _ = m.Update(key("enter"))   // confirm

	picker := m.(assemblyPickerModel)
	if !picker.confirmed {
		t.Fatal("enter should confirm")
	}
	sel := picker.selected()
	if len(sel) != 2 || sel[0].Accession != "GCF_000000001.1" || sel[1].Accession != "GCF_000000003.1" {
		t.Errorf("selected = %+v", sel)
	}
}

func TestPickerSelectAll(t *testing.T) {
	var m tea.Model = newAssemblyPicker(pickerSummaries())

	m, _ = m.Update(key("a"))
	picker := m.(assemblyPickerModel)
	if picker.selectedCount() != 3 {
		t.Errorf("selected = %d, want 3", picker.selectedCount())
	}

	m, _ = m.Update(key("a"))
	picker = m.(assemblyPickerModel)
	if picker.selectedCount() != 0 {
		t.Errorf("second 'a' should clear, got %d", picker.selectedCount())
	}
}

func TestPickerCancel(t *testing.T) {
	var m tea.Model = newAssemblyPicker(pickerSummaries())

	m, _ = m.Update(key(" "))
	m, _ = m.Update(key("esc"))

	picker := m.(assemblyPickerModel)
	if picker.confirmed {
		t.Error("esc should not confirm")
	}
}

func TestPickerView(t *testing.T) {
	m := newAssemblyPicker(pickerSummaries())
	view := m.View()

	for _, want := range []string{"Select Assemblies", "GCF_000000001.1", "Escherichia coli", "0 of 3 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestPickerCursorBounds(t *testing.T) {
	var m tea.Model = newAssemblyPicker(pickerSummaries())

	m, _ = m.Update(key("k")) // up at top stays
	picker := m.(assemblyPickerModel)
	if picker.cursor != 0 {
		t.Errorf("cursor = %d", picker.cursor)
	}

	for range 10 {
		m, _ = m.Update(key("j"))
	}
	picker = m.(assemblyPickerModel)
	if picker.cursor != 2 {
		t.Errorf("cursor = %d, want 2", picker.cursor)
	}
}
