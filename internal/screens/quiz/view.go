package quiz

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/persona/internal/ui/components"
	"github.com/abhisek/persona/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, height, s.errMsg)
	}

	_, prog, ok := s.ctrl.View()
	if !ok || !s.hasView {
		return renderLoading(width, height)
	}

	cw := components.ContentWidth(width)

	sections := []string{
		components.NewQuestionProgress(prog.Current, prog.Total, cw).View(),
		components.Card(s.view.View(cw-6), cw),
		s.renderSaveStatus(cw),
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (s *QuizScreen) renderSaveStatus(cw int) string {
	line := " "
	if s.spinning || s.ctrl.IsSaving() {
		line = s.spinner.View() + " " + theme.Hint.Render("Saving your answers…")
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Right).Render(line)
}

func renderLoading(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(theme.Hint.Render("Loading questions…"))
}

func renderError(width, height int, msg string) string {
	body := theme.ErrorText.Bold(true).Render("Something went wrong") + "\n\n" +
		theme.Body.Render(msg) + "\n\n" +
		theme.Hint.Render("Press Esc to go home")
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}
