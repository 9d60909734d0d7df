package game

import "testing"

func TestNewDefaultBoard_Shape(t *testing.T) {
	board := NewDefaultBoard()

	if len(board) != 5 {
		t.Fatalf("want 5 categories, got %d", len(board))
	}

	seen := map[string]bool{}
	for _, cat := range board {
		if cat.ID == "" || cat.Title == "" {
			t.Fatalf("category missing id/title: %+v", cat)
		}
		if len(cat.Clues) != 5 {
			t.Fatalf("category %s: want 5 clues, got %d", cat.ID, len(cat.Clues))
		}
		prev := 0
		for _, clue := range cat.Clues {
			if seen[clue.ID] {
				t.Fatalf("duplicate clue id %q", clue.ID)
			}
			seen[clue.ID] = true
			if clue.Value <= prev {
				t.Fatalf("category %s: values not strictly increasing (%d after %d)",
					cat.ID, clue.Value, prev)
			}
			prev = clue.Value
			if clue.Used {
				t.Fatalf("fresh clue %q marked used", clue.ID)
			}
			if clue.Question == "" || clue.Answer == "" {
				t.Fatalf("clue %q missing text", clue.ID)
			}
		}
	}
}

func TestNewState_Defaults(t *testing.T) {
	s := NewState()

	if s.Version != 1 {
		t.Fatalf("want version 1, got %d", s.Version)
	}
	if len(s.Players) != 0 || s.Players == nil {
		t.Fatalf("want empty non-nil roster, got %#v", s.Players)
	}
	if s.Overlay.Open || s.Overlay.ClueID != "" {
		t.Fatalf("overlay should start closed: %+v", s.Overlay)
	}
	if s.Buzz.Active || s.Buzz.Queue == nil || len(s.Buzz.Queue) != 0 {
		t.Fatalf("buzzer should start inactive and empty: %+v", s.Buzz)
	}
	if s.AnsweringPlayerID != "" {
		t.Fatalf("no answerer expected on a fresh state")
	}
}

func TestClone_IsDeep(t *testing.T) {
	s := NewState()
	addPlayer(t, s, "Ada")
	s.Buzz.Queue = append(s.Buzz.Queue, BuzzEntry{PlayerID: s.Players[0].ID, At: 1})

	snap := s.Clone()

	s.Players[0].Score = 999
	s.Board[0].Clues[0].Used = true
	s.Buzz.Queue[0].At = 42

	if snap.Players[0].Score != 0 {
		t.Fatalf("clone shares roster backing array")
	}
	if snap.Board[0].Clues[0].Used {
		t.Fatalf("clone shares board backing array")
	}
	if snap.Buzz.Queue[0].At != 1 {
		t.Fatalf("clone shares buzz queue backing array")
	}
}
