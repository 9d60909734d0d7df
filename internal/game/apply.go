package game

import (
	"errors"
	"sort"
	"strings"

	"github.com/mhartmann/jeopardy-backend/internal/ident"
)

var ErrEmptyName = errors.New("empty player name")
var ErrUnknownPlayer = errors.New("unknown player")
var ErrUnknownClue = errors.New("unknown clue")
var ErrClueUsed = errors.New("clue already used")
var ErrOverlayClosed = errors.New("no clue is open")
var ErrOverlayOpen = errors.New("a clue is already open")
var ErrNoAnswerer = errors.New("no answering player resolved")
var ErrBuzzerInactive = errors.New("buzzer is not active")
var ErrAlreadyBuzzed = errors.New("player already buzzed")
var ErrEmptyQueue = errors.New("buzz queue is empty")
var ErrUnsupportedCommand = errors.New("unsupported command")

type CommandType string

const (
	CmdAddPlayer         CommandType = "AddPlayer"
	CmdRemovePlayer      CommandType = "RemovePlayer"
	CmdSetAnswering      CommandType = "SetAnswering"
	CmdOpenClue          CommandType = "OpenClue"
	CmdCloseOverlay      CommandType = "CloseOverlay"
	CmdMarkCorrect       CommandType = "MarkCorrect"
	CmdMarkWrong         CommandType = "MarkWrong"
	CmdSelectBuzzedFirst CommandType = "SelectBuzzedFirst"
	CmdClearBuzz         CommandType = "ClearBuzz"
	CmdBuzz              CommandType = "Buzz"
)

// HostOnly reports whether the command may only be issued by the room host.
func (t CommandType) HostOnly() bool {
	return t != CmdBuzz
}

type Command struct {
	Type     CommandType
	Name     string // AddPlayer
	PlayerID string // RemovePlayer, SetAnswering, Buzz
	ClueID   string // OpenClue
	At       int64  // Buzz arrival, unix millis
}

// newPlayerID is a package var so tests can pin deterministic ids.
var newPlayerID = ident.NewPlayerID

// Apply runs one command against the state, mutating it in place. A non-nil
// error means the command was rejected before any mutation; the caller
// decides whether the error is surfaced to the acting channel or swallowed.
func Apply(s *State, cmd Command) error {
	switch cmd.Type {
	case CmdAddPlayer:
		name := strings.TrimSpace(cmd.Name)
		if name == "" {
			return ErrEmptyName
		}

		id := newPlayerID()
		s.Players = append(s.Players, Player{ID: id, Name: name})

		// Bootstrap the common one-player flow.
		if s.AnsweringPlayerID == "" {
			s.AnsweringPlayerID = id
		}
		return nil

	case CmdRemovePlayer:
		// Deleting an unknown id is a no-op, not an error.
		players := s.Players[:0]
		for _, p := range s.Players {
			if p.ID != cmd.PlayerID {
				players = append(players, p)
			}
		}
		s.Players = players

		if s.AnsweringPlayerID == cmd.PlayerID {
			s.AnsweringPlayerID = ""
		}
		if s.Buzz.SelectedPlayerID == cmd.PlayerID {
			s.Buzz.SelectedPlayerID = ""
		}
		queue := s.Buzz.Queue[:0]
		for _, e := range s.Buzz.Queue {
			if e.PlayerID != cmd.PlayerID {
				queue = append(queue, e)
			}
		}
		s.Buzz.Queue = queue
		return nil

	case CmdSetAnswering:
		if !s.HasPlayer(cmd.PlayerID) {
			return ErrUnknownPlayer
		}
		s.AnsweringPlayerID = cmd.PlayerID
		return nil

	case CmdOpenClue:
		if s.Overlay.Open {
			return ErrOverlayOpen
		}
		clue := s.findClue(cmd.ClueID)
		if clue == nil {
			return ErrUnknownClue
		}
		if clue.Used {
			return ErrClueUsed
		}

		s.Overlay = Overlay{Open: true, ClueID: cmd.ClueID}
		s.resetBuzz(false)

		if s.AnsweringPlayerID == "" && len(s.Players) > 0 {
			s.AnsweringPlayerID = s.Players[0].ID
		}
		return nil

	case CmdCloseOverlay:
		s.Overlay = Overlay{}
		return nil

	case CmdMarkCorrect:
		clue, player, err := s.resolveOpenClue()
		if err != nil {
			return err
		}

		player.Score += clue.Value
		clue.Used = true

		s.Overlay = Overlay{}
		s.resetBuzz(false)
		return nil

	case CmdMarkWrong:
		clue, player, err := s.resolveOpenClue()
		if err != nil {
			return err
		}

		// Half the value, rounded down; scores may go negative.
		player.Score -= clue.Value / 2

		// Same clue stays open; a fresh buzz round decides who answers next.
		s.resetBuzz(true)
		return nil

	case CmdSelectBuzzedFirst:
		if len(s.Buzz.Queue) == 0 {
			return ErrEmptyQueue
		}

		sorted := append([]BuzzEntry{}, s.Buzz.Queue...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].At < sorted[j].At
		})
		s.Buzz.SelectedPlayerID = sorted[0].PlayerID
		s.AnsweringPlayerID = sorted[0].PlayerID
		return nil

	case CmdClearBuzz:
		s.Buzz.Queue = []BuzzEntry{}
		s.Buzz.SelectedPlayerID = ""
		return nil

	case CmdBuzz:
		if !s.Buzz.Active {
			return ErrBuzzerInactive
		}
		for _, e := range s.Buzz.Queue {
			if e.PlayerID == cmd.PlayerID {
				return ErrAlreadyBuzzed
			}
		}
		s.Buzz.Queue = append(s.Buzz.Queue, BuzzEntry{PlayerID: cmd.PlayerID, At: cmd.At})
		return nil

	default:
		return ErrUnsupportedCommand
	}
}

// resolveOpenClue finds the currently presented clue and the player whose
// answer is being judged: the buzz-selected player while the buzzer is
// active, otherwise the assigned answerer.
func (s *State) resolveOpenClue() (*Clue, *Player, error) {
	if !s.Overlay.Open || s.Overlay.ClueID == "" {
		return nil, nil, ErrOverlayClosed
	}
	clue := s.findClue(s.Overlay.ClueID)
	if clue == nil {
		return nil, nil, ErrUnknownClue
	}

	pid := s.AnsweringPlayerID
	if s.Buzz.Active {
		pid = s.Buzz.SelectedPlayerID
	}
	if pid == "" {
		return nil, nil, ErrNoAnswerer
	}
	player := s.findPlayer(pid)
	if player == nil {
		return nil, nil, ErrUnknownPlayer
	}
	return clue, player, nil
}

func (s *State) resetBuzz(active bool) {
	s.Buzz.Active = active
	s.Buzz.Queue = []BuzzEntry{}
	s.Buzz.SelectedPlayerID = ""
}
