package game

import "fmt"

var (
	defaultCategories = []string{"Category A", "Category B", "Category C", "Category D", "Category E"}
	defaultValues     = []int{100, 200, 300, 400, 500}
)

// NewDefaultBoard builds the placeholder board every fresh room starts with:
// five categories of five clues each, on a fixed 100..500 value ladder. The
// question/answer text is seed data the host is expected to talk over.
func NewDefaultBoard() []Category {
	board := make([]Category, len(defaultCategories))

	for c, title := range defaultCategories {
		cat := Category{
			ID:    fmt.Sprintf("cat_%d", c),
			Title: title,
			Clues: make([]Clue, len(defaultValues)),
		}
		for r, value := range defaultValues {
			cat.Clues[r] = Clue{
				ID:       fmt.Sprintf("q_%d_%d", c, r),
				Value:    value,
				Question: fmt.Sprintf("Question %s (%d)", title, value),
				Answer:   fmt.Sprintf("Answer for %s (%d)", title, value),
			}
		}
		board[c] = cat
	}

	return board
}
