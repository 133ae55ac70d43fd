package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/persona/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label   string
	Percent float64
	Width   int
}

// NewQuestionProgress returns a bar labelled "Question current of total".
// current is 1-based.
func NewQuestionProgress(current, total, width int) ProgressBar {
	var pct float64
	if total > 0 {
		pct = float64(current) / float64(total)
	}
	return ProgressBar{
		Label:   fmt.Sprintf("Question %d of %d", current, total),
		Percent: pct,
		Width:   width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	barWidth := max(p.Width-lipgloss.Width(result), 4)
	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)

	return result +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
}
