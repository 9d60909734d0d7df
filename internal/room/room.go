package room

import (
	"context"

	"go.uber.org/zap"

	"github.com/mhartmann/jeopardy-backend/internal/game"
	"github.com/mhartmann/jeopardy-backend/internal/ident"
)

const (
	RoleHost     = "host"
	RoleAudience = "audience"
)

type Msg interface{ isRoomMsg() }

// Join registers a channel with the room. The resolved role may differ from
// the requested one: a second host claim is demoted to audience.
type Join struct {
	ClientID    string
	Role        string
	DisplayName string
	Outbox      chan Event // where this client receives events
}

func (Join) isRoomMsg() {}

type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

// FromClient carries a game command together with the acting channel, so
// authorization and validation failures can be answered unicast.
type FromClient struct {
	ClientID string
	Cmd      game.Command
}

func (FromClient) isRoomMsg() {}

// SetPlayer links the acting channel to an existing roster player. It is
// self-service identity binding, open to any role, and never broadcasts.
type SetPlayer struct {
	ClientID string
	PlayerID string
}

func (SetPlayer) isRoomMsg() {}

type GetView struct {
	Reply chan View
}

func (GetView) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type EventKind string

const (
	EventJoined EventKind = "joined"
	EventState  EventKind = "state"
	EventError  EventKind = "error_msg"
	EventInfo   EventKind = "info_msg"
)

// Event is one outbound message to a single client.
type Event struct {
	Kind EventKind

	// EventJoined
	RoomID      string
	Role        string
	IsHost      bool
	HostPresent bool

	// EventState
	State *game.State

	// EventError / EventInfo
	Text string
}

// Participant is the connection-scoped binding of a channel: its role, a
// display name, and an optional link to a roster player. It is volatile and
// dies with the connection, unlike the room-scoped game state.
type Participant struct {
	Role        string
	DisplayName string
	PlayerID    string
}

// View reflects internal state for tests without data races.
type View struct {
	Key             string
	HostID          string
	NumParticipants int
	Participants    map[string]Participant
	State           *game.State
}

type Room struct {
	key          string
	inbox        chan Msg
	state        *game.State
	hostID       string
	participants map[string]*Participant
	clients      map[string]chan Event
	clock        *ident.Clock
	onEmpty      func()
	log          *zap.Logger
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewRoom starts the room actor. onEmpty is called from the actor goroutine
// when the last participant leaves; the registry uses it to delete the room.
func NewRoom(parent context.Context, key string, onEmpty func(), log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)

	if log == nil {
		log = zap.NewNop()
	}

	r := &Room{
		key:          key,
		inbox:        make(chan Msg, 64),
		state:        game.NewState(),
		participants: make(map[string]*Participant),
		clients:      make(map[string]chan Event),
		clock:        ident.NewClock(),
		onEmpty:      onEmpty,
		log:          log.With(zap.String("room", key)),
		ctx:          ctx,
		cancel:       cancel,
	}

	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Send delivers a message to the room actor, reporting false once the room
// has shut down. Callers holding a stale *Room from the registry must check
// the result instead of blocking on a loop that will never drain the inbox.
func (r *Room) Send(m Msg) bool {
	select {
	case <-r.ctx.Done():
		return false
	default:
	}
	select {
	case r.inbox <- m:
		return true
	case <-r.ctx.Done():
		return false
	}
}

func (r *Room) Key() string { return r.key }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)

			case Leave:
				r.disconnect(msg.ClientID)

			case SetPlayer:
				r.handleSetPlayer(msg)

			case FromClient:
				r.handleCommand(msg)

			case GetView:
				msg.Reply <- r.view()

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	role := msg.Role
	if role != RoleHost {
		role = RoleAudience
	}

	demoted := false
	if role == RoleHost {
		// disconnect clears the host slot the moment the host's channel
		// goes, so a recorded host is always a live participant here.
		if r.hostID == "" {
			r.hostID = msg.ClientID
			r.log.Info("host claimed", zap.String("client", msg.ClientID))
		} else if r.hostID != msg.ClientID {
			role = RoleAudience
			demoted = true
		}
	}

	name := msg.DisplayName
	if name == "" {
		name = "Client"
	}
	r.clients[msg.ClientID] = msg.Outbox
	r.participants[msg.ClientID] = &Participant{Role: role, DisplayName: name}

	if demoted {
		r.sendTo(msg.ClientID, Event{Kind: EventError, Text: "This room already has a host."})
	}

	r.sendTo(msg.ClientID, Event{
		Kind:        EventJoined,
		RoomID:      r.key,
		Role:        role,
		IsHost:      r.hostID == msg.ClientID,
		HostPresent: r.hostID != "",
	})

	// Joining does not mutate shared state, so only the joiner gets a
	// snapshot here.
	r.sendTo(msg.ClientID, Event{Kind: EventState, State: r.state.Clone()})
}

func (r *Room) handleSetPlayer(msg SetPlayer) {
	p, ok := r.participants[msg.ClientID]
	if !ok {
		return
	}

	if !r.state.HasPlayer(msg.PlayerID) {
		r.sendTo(msg.ClientID, Event{Kind: EventError, Text: "Unknown player."})
		return
	}

	p.PlayerID = msg.PlayerID
	r.sendTo(msg.ClientID, Event{Kind: EventInfo, Text: "Player linked."})
}

func (r *Room) handleCommand(msg FromClient) {
	p, ok := r.participants[msg.ClientID]
	if !ok {
		return
	}

	cmd := msg.Cmd

	if cmd.Type.HostOnly() && !r.ensureHost(msg.ClientID) {
		return
	}

	if cmd.Type == game.CmdBuzz {
		// An idle buzzer swallows the buzz before any link check, so
		// an unlinked channel is not nagged outside a buzz round.
		if !r.state.Buzz.Active {
			return
		}
		if p.PlayerID == "" {
			r.sendTo(msg.ClientID, Event{Kind: EventError, Text: "Select a player before buzzing."})
			return
		}
		cmd.PlayerID = p.PlayerID
		cmd.At = r.clock.NowMillis()
	}

	if err := game.Apply(r.state, cmd); err != nil {
		// Rejections and unmet preconditions degrade to no-ops;
		// nothing mutated, nothing broadcast.
		r.log.Debug("command rejected",
			zap.String("client", msg.ClientID),
			zap.String("cmd", string(cmd.Type)),
			zap.Error(err))
		return
	}

	if cmd.Type == game.CmdRemovePlayer {
		for _, part := range r.participants {
			if part.PlayerID == cmd.PlayerID {
				part.PlayerID = ""
			}
		}
	}

	r.broadcastState()
}

// ensureHost verifies the acting channel holds the host slot, answering the
// channel with an authorization error otherwise.
func (r *Room) ensureHost(clientID string) bool {
	if r.hostID != clientID {
		r.sendTo(clientID, Event{Kind: EventError, Text: "Only the host may perform this action."})
		return false
	}
	return true
}

func (r *Room) disconnect(clientID string) {
	if ch, ok := r.clients[clientID]; ok {
		close(ch)
		delete(r.clients, clientID)
	}
	if _, ok := r.participants[clientID]; !ok {
		return
	}
	delete(r.participants, clientID)

	if r.hostID == clientID {
		r.hostID = ""
		r.log.Info("host released", zap.String("client", clientID))
		r.broadcastEvent(Event{Kind: EventInfo, Text: "The host has left the room. A new host may join."})
	}

	if len(r.participants) == 0 && r.onEmpty != nil {
		r.onEmpty()
	}
}

func (r *Room) broadcastState() {
	r.state.Version++
	r.state.LastUpdateAt = r.clock.NowMillis()
	snap := r.state.Clone()
	r.broadcastEvent(Event{Kind: EventState, State: snap})
}

func (r *Room) broadcastEvent(ev Event) {
	var dropped []string
	for id, ch := range r.clients {
		select {
		case ch <- ev:
		default:
			// Client is slow/full - treat it as disconnected.
			dropped = append(dropped, id)
		}
	}
	for _, id := range dropped {
		r.disconnect(id)
	}
}

func (r *Room) sendTo(clientID string, ev Event) {
	ch, ok := r.clients[clientID]
	if !ok {
		return
	}
	select {
	case ch <- ev:
	default:
		r.disconnect(clientID)
	}
}

func (r *Room) view() View {
	parts := make(map[string]Participant, len(r.participants))
	for id, p := range r.participants {
		parts[id] = *p
	}
	return View{
		Key:             r.key,
		HostID:          r.hostID,
		NumParticipants: len(r.participants),
		Participants:    parts,
		State:           r.state.Clone(),
	}
}

func (r *Room) shutdown() {
	r.cancel()
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	clear(r.participants)

	// Joins already queued behind the shutdown would otherwise leave
	// their connection waiting on an outbox nobody will ever write to.
	for {
		select {
		case m := <-r.inbox:
			if j, ok := m.(Join); ok {
				close(j.Outbox)
			}
		default:
			return
		}
	}
}
