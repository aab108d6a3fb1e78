package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeString(t *testing.T, model tea.Model, s string) tea.Model {
	t.Helper()
	for _, r := range s {
		updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		model = updated
	}
	return model
}

func TestConfirm_ExactMatchApproves(t *testing.T) {
	var model tea.Model = NewConfirm("In-place reduction", "Sources will be overwritten", "models")

	model = typeString(t, model, "models")
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !model.(Confirm).Confirmed() {
		t.Error("expected confirmation after typing the exact phrase")
	}
}

func TestConfirm_MismatchDenies(t *testing.T) {
	var model tea.Model = NewConfirm("In-place reduction", "Sources will be overwritten", "models")

	model = typeString(t, model, "modelz")
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if model.(Confirm).Confirmed() {
		t.Error("expected denial after typing a mismatched phrase")
	}
}

func TestConfirm_EscapeCancels(t *testing.T) {
	var model tea.Model = NewConfirm("In-place reduction", "Sources will be overwritten", "models")

	model = typeString(t, model, "models")
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if model.(Confirm).Confirmed() {
		t.Error("escape must cancel even with a matching phrase typed")
	}
}

func TestConfirm_ViewShowsPhrase(t *testing.T) {
	c := NewConfirm("In-place reduction", "Sources will be overwritten", "models")

	view := c.View()
	if !strings.Contains(view, "models") {
		t.Errorf("view should name the expected phrase, got:\n%s", view)
	}
	if !strings.Contains(view, "Sources will be overwritten") {
		t.Errorf("view should include the warning, got:\n%s", view)
	}
}
