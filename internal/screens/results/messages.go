package results

import "github.com/abhisek/persona/internal/profile"

// saveCheckedMsg reports how the stored answers compare to this run's.
type saveCheckedMsg struct {
	status saveStatus
	err    error
}

// profileMsg carries the AI-written profile, or why there is none.
type profileMsg struct {
	profile *profile.Profile
	err     error
}
