package quiz

// guardTickMsg fires after the grace delay. It only acts when gen still
// matches the screen's guard generation.
type guardTickMsg struct {
	gen int
}

// resultsTickMsg fires after the last answer to move to the results screen.
type resultsTickMsg struct{}

// savesSettledMsg is sent once no background save is in flight.
type savesSettledMsg struct{}
