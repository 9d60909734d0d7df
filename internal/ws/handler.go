package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/mhartmann/jeopardy-backend/internal/game"
	"github.com/mhartmann/jeopardy-backend/internal/hub"
	"github.com/mhartmann/jeopardy-backend/internal/ident"
	"github.com/mhartmann/jeopardy-backend/internal/room"
	"github.com/mhartmann/jeopardy-backend/internal/types"
)

const (
	joinTimeout  = 30 * time.Second
	writeTimeout = 3 * time.Second
)

// Handler upgrades the connection and bridges it to a room actor. The first
// message on the socket must be a join carrying the room id; everything
// after that is forwarded as commands.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := ident.NewClientID()

		joinCtx, cancel := context.WithTimeout(r.Context(), joinTimeout)
		_, data, err := conn.Read(joinCtx)
		cancel()
		if err != nil {
			return
		}

		var cm types.ClientMessage
		if err := json.Unmarshal(data, &cm); err != nil || cm.Type != "join" {
			_ = conn.Write(r.Context(), websocket.MessageText,
				[]byte(`{"type":"error_msg","text":"expected a join message"}`))
			return
		}

		// A room can be torn down between the registry lookup and the join:
		// its last participant leaving queues a removal, and the registry
		// processes messages in order. A join answered by a closed outbox
		// (or not at all) retries against a fresh lookup, which lands after
		// that removal.
		var rm *room.Room
		var out chan room.Event
		var first room.Event
		bound := false
		for attempt := 0; attempt < 2 && !bound; attempt++ {
			reply := make(chan *room.Room, 1)
			h.Inbox() <- hub.EnsureRoom{Key: cm.RoomID, Reply: reply}
			rm = <-reply

			out = make(chan room.Event, 16)
			if !rm.Send(room.Join{
				ClientID:    clientID,
				Role:        cm.Role,
				DisplayName: cm.DisplayName,
				Outbox:      out,
			}) {
				continue
			}

			select {
			case ev, ok := <-out:
				if !ok {
					continue
				}
				first = ev
				bound = true
			case <-time.After(joinTimeout):
			}
		}
		if !bound {
			return
		}
		defer func() { rm.Send(room.Leave{ClientID: clientID}) }()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		writeEvent := func(ev room.Event) {
			payload, err := json.Marshal(toServerMessage(ev))
			if err != nil {
				return
			}
			ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
			_ = conn.Write(ctx, websocket.MessageText, payload)
			cancel()
		}

		writeEvent(first)

		// Writer goroutine. A closed outbox means the room is gone; closing
		// the connection unblocks the reader so the client can reconnect.
		go func() {
			for ev := range out {
				writeEvent(ev)
			}
			conn.Close(websocket.StatusGoingAway, "room closed")
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (room.Leave in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error_msg","text":"bad json"}`))
				continue
			}

			switch cm.Type {
			case "join":
				// The channel is already bound to a room.
				continue
			case "set_player":
				if !rm.Send(room.SetPlayer{ClientID: clientID, PlayerID: cm.PlayerID}) {
					return
				}
				continue
			}

			cmd, ok := toCommand(cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error_msg","text":"unknown type"}`))
				continue
			}

			if !rm.Send(room.FromClient{ClientID: clientID, Cmd: cmd}) {
				return
			}
		}
	}
}

func toCommand(m types.ClientMessage) (game.Command, bool) {
	switch m.Type {
	case "host_add_player":
		return game.Command{Type: game.CmdAddPlayer, Name: m.Name}, true
	case "host_remove_player":
		return game.Command{Type: game.CmdRemovePlayer, PlayerID: m.PlayerID}, true
	case "host_set_answering":
		return game.Command{Type: game.CmdSetAnswering, PlayerID: m.PlayerID}, true
	case "host_open_clue":
		return game.Command{Type: game.CmdOpenClue, ClueID: m.ClueID}, true
	case "host_close_overlay":
		return game.Command{Type: game.CmdCloseOverlay}, true
	case "host_mark_correct":
		return game.Command{Type: game.CmdMarkCorrect}, true
	case "host_mark_wrong":
		return game.Command{Type: game.CmdMarkWrong}, true
	case "host_select_buzzed_first":
		return game.Command{Type: game.CmdSelectBuzzedFirst}, true
	case "host_clear_buzz":
		return game.Command{Type: game.CmdClearBuzz}, true
	case "buzz":
		return game.Command{Type: game.CmdBuzz}, true
	default:
		return game.Command{}, false
	}
}

func toServerMessage(ev room.Event) types.ServerMessage {
	switch ev.Kind {
	case room.EventJoined:
		return types.ServerMessage{
			Type:        "joined",
			RoomID:      ev.RoomID,
			Role:        ev.Role,
			IsHost:      ev.IsHost,
			HostPresent: ev.HostPresent,
		}
	case room.EventState:
		return types.ServerMessage{Type: "state", State: ev.State}
	case room.EventInfo:
		return types.ServerMessage{Type: "info_msg", Text: ev.Text}
	default:
		return types.ServerMessage{Type: "error_msg", Text: ev.Text}
	}
}
