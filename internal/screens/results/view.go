package results

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/persona/internal/profile"
	"github.com/abhisek/persona/internal/ui/components"
	"github.com/abhisek/persona/internal/ui/theme"
)

// maxTraitRows caps the tally so the screen fits small terminals.
const maxTraitRows = 5

func (r *ResultsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	sections := []string{r.renderHeadline(cw)}
	if len(r.tally) > 0 {
		sections = append(sections, components.Card(renderTally(r.tally, cw-6), cw))
	}
	if p := r.renderProfile(cw); p != "" {
		sections = append(sections, p)
	}
	sections = append(sections,
		components.Card(renderAnswers(r, cw-6), cw),
		r.renderSaveStatus(cw),
	)
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (r *ResultsScreen) renderHeadline(cw int) string {
	if len(r.records) == 0 {
		return components.Centered(theme.Title.Render("No answers recorded"), cw)
	}
	top, ok := profile.Dominant(r.tally)
	if !ok {
		return components.Centered(theme.Title.Render("Thanks for answering!"), cw)
	}
	return components.Centered(
		theme.Subtitle.Render("You lean towards")+"\n"+theme.Title.Render(top), cw)
}

func renderTally(tally []profile.TraitCount, width int) string {
	total := 0
	for _, tc := range tally {
		total += tc.Count
	}
	labelWidth := 0
	for _, tc := range tally[:min(len(tally), maxTraitRows)] {
		labelWidth = max(labelWidth, lipgloss.Width(tc.Trait))
	}

	lines := make([]string, 0, maxTraitRows)
	for _, tc := range tally[:min(len(tally), maxTraitRows)] {
		bar := components.ProgressBar{
			Label:   fmt.Sprintf("%-*s", labelWidth, tc.Trait),
			Percent: float64(tc.Count) / float64(total),
			Width:   width - 4,
		}
		lines = append(lines, bar.View()+theme.Hint.Render(fmt.Sprintf(" %d", tc.Count)))
	}
	return strings.Join(lines, "\n")
}

func (r *ResultsScreen) renderProfile(cw int) string {
	switch {
	case r.profilePending:
		return components.Centered(r.spinner.View()+" "+theme.Hint.Render("Writing your profile…"), cw)
	case r.profile != nil:
		var b strings.Builder
		b.WriteString(theme.Body.Bold(true).Render(r.profile.Headline))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(cw - 6).Render(r.profile.Summary))
		for _, s := range r.profile.Strengths {
			b.WriteString("\n" + theme.Checked.Render("• ") + theme.Body.Render(s))
		}
		return components.Card(b.String(), cw)
	case r.profileErr != nil:
		return components.Centered(theme.Hint.Render("Profile unavailable right now."), cw)
	}
	return ""
}

func renderAnswers(r *ResultsScreen, width int) string {
	if len(r.records) == 0 {
		return theme.Hint.Render("Nothing to show.")
	}
	var lines []string
	for _, a := range r.records {
		chosen := strings.Join(a.SelectedOptions, ", ")
		if chosen == "" {
			chosen = "(skipped)"
		}
		lines = append(lines,
			lipgloss.NewStyle().Width(width).Render(theme.Body.Render(a.QuestionText)),
			"  "+theme.Checked.Render("→ ")+theme.Hint.Render(chosen),
		)
	}
	return strings.Join(lines, "\n")
}

func (r *ResultsScreen) renderSaveStatus(cw int) string {
	var line string
	switch r.status {
	case statusChecking:
		line = r.spinner.View() + " " + theme.Hint.Render("Checking saved answers…")
	case statusSaved:
		line = theme.Checked.Render("✓ Answers saved")
	case statusNoSession:
		line = theme.Warning.Render("Not saved: sign in to keep your answers")
	case statusStillSaving:
		line = theme.Warning.Render("Still saving in the background")
	case statusMismatch:
		line = theme.Warning.Render("Not saved: stored answers differ from this run")
	case statusFailed:
		line = theme.ErrorText.Render("Not saved: could not read stored answers")
	}
	return components.Centered(line, cw)
}
