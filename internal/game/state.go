package game

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type Clue struct {
	ID       string `json:"id"`
	Value    int    `json:"value"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Used     bool   `json:"used"`
}

type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Clues []Clue `json:"clues"`
}

// Overlay is the "clue currently being presented" projection.
// Invariant: Open == false implies ClueID == "".
type Overlay struct {
	Open   bool   `json:"open"`
	ClueID string `json:"clueId"`
}

type BuzzEntry struct {
	PlayerID string `json:"playerId"`
	At       int64  `json:"at"`
}

type BuzzState struct {
	Active           bool        `json:"active"`
	Queue            []BuzzEntry `json:"queue"`
	SelectedPlayerID string      `json:"selectedPlayerId"`
}

// State is the authoritative per-room game state. It is broadcast verbatim
// to every participant; answers are not redacted per role.
type State struct {
	Version           int        `json:"version"`
	Players           []Player   `json:"players"`
	Board             []Category `json:"board"`
	Overlay           Overlay    `json:"overlay"`
	AnsweringPlayerID string     `json:"answeringPlayerId"`
	Buzz              BuzzState  `json:"buzz"`
	LastUpdateAt      int64      `json:"lastUpdateAt"`
}

func NewState() *State {
	return &State{
		Version: 1,
		Players: []Player{},
		Board:   NewDefaultBoard(),
		Overlay: Overlay{},
		Buzz:    BuzzState{Queue: []BuzzEntry{}},
	}
}

// Clone returns a deep copy, safe to hand to another goroutine while the
// room keeps mutating the original.
func (s *State) Clone() *State {
	out := *s

	out.Players = append([]Player{}, s.Players...)

	out.Board = make([]Category, len(s.Board))
	for i, cat := range s.Board {
		out.Board[i] = cat
		out.Board[i].Clues = append([]Clue{}, cat.Clues...)
	}

	out.Buzz.Queue = append([]BuzzEntry{}, s.Buzz.Queue...)

	return &out
}

func (s *State) findPlayer(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// HasPlayer reports whether a roster player with the given id exists.
func (s *State) HasPlayer(id string) bool {
	return s.findPlayer(id) != nil
}

func (s *State) findClue(id string) *Clue {
	for i := range s.Board {
		for j := range s.Board[i].Clues {
			if s.Board[i].Clues[j].ID == id {
				return &s.Board[i].Clues[j]
			}
		}
	}
	return nil
}
