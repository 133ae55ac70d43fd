package profile

import (
	"fmt"
	"strings"

	"github.com/abhisek/persona/internal/quiz"
)

const systemPrompt = `You write warm, specific personality profiles from the answers someone gave to a short personality quiz. Never diagnose, never mention the quiz mechanics, and stay grounded in the answers given.`

func buildUserMessage(answers []quiz.Answer, counts []TraitCount) string {
	var b strings.Builder

	b.WriteString("Answers:\n")
	for i, a := range answers {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a.QuestionText)
		if len(a.SelectedOptions) == 0 {
			b.WriteString("   (skipped)\n")
			continue
		}
		for _, opt := range a.SelectedOptions {
			fmt.Fprintf(&b, "   - %s\n", opt)
		}
	}

	b.WriteString("\nTrait signals:\n")
	if len(counts) == 0 {
		b.WriteString("None\n")
	}
	for _, c := range counts {
		fmt.Fprintf(&b, "- %s: %d\n", c.Trait, c.Count)
	}

	b.WriteString("\nWrite the profile.")
	return b.String()
}
