package quiz

// DefaultSaveEvery is the save interval in questions: answers are pushed
// to the backend after questions 0, 3, 6, ... (zero-based).
const DefaultSaveEvery = 3

// Navigation targets.
const (
	PathHome    = "/"
	PathQuiz    = "/quiz"
	PathResults = "/results"
)

// ShouldSave reports whether answering the question at index triggers a
// save. The last question always saves.
func ShouldSave(index, total, every int) bool {
	if every < 1 {
		every = DefaultSaveEvery
	}
	return index == total-1 || index%every == 0
}
