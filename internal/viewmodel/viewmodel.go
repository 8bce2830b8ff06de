// Package viewmodel holds the data the views render. It does not import game
// logic so views stay free of import cycles.
package viewmodel

// GamePage holds data for the full game page.
type GamePage struct {
	Title string
	Board Board
}

// Board holds data for the board fragment: masked word, letter buttons and
// countdown.
type Board struct {
	Status       string
	StatusText   string
	MaskedWord   string
	Word         string
	Letters      []LetterButton
	Finished     bool
	HasTimer     bool
	DeadlineMs   int64
	RemainingSec int
}

// LetterButton is one letter of the alphabet row.
type LetterButton struct {
	Letter  string
	Guessed bool
}
