package types

import "github.com/mhartmann/jeopardy-backend/internal/game"

// ClientMessage is the inbound JSON envelope. Type selects the action; the
// remaining fields are populated per action.
type ClientMessage struct {
	Type        string `json:"type"`
	RoomID      string `json:"roomId,omitempty"`      // join
	Role        string `json:"role,omitempty"`        // join
	DisplayName string `json:"displayName,omitempty"` // join
	PlayerID    string `json:"playerId,omitempty"`    // set_player, host_remove_player, host_set_answering
	Name        string `json:"name,omitempty"`        // host_add_player
	ClueID      string `json:"clueId,omitempty"`      // host_open_clue
}

// ServerMessage is the outbound JSON envelope.
// Type is "joined" | "state" | "error_msg" | "info_msg".
type ServerMessage struct {
	Type        string      `json:"type"`
	RoomID      string      `json:"roomId,omitempty"`
	Role        string      `json:"role,omitempty"`
	IsHost      bool        `json:"isHost,omitempty"`
	HostPresent bool        `json:"hostPresent,omitempty"`
	State       *game.State `json:"state,omitempty"`
	Text        string      `json:"text,omitempty"`
}
