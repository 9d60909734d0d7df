package hub

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mhartmann/jeopardy-backend/internal/room"
)

// DefaultRoomKey is used when a join carries an empty room id.
const DefaultRoomKey = "DEFAULT"

// NormalizeKey maps a raw room id to its canonical registry key.
func NormalizeKey(key string) string {
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		return DefaultRoomKey
	}
	return key
}

type HubMsg interface{ isHubMsg() }

// EnsureRoom replies with the room for the normalized key, creating it on
// first reference.
type EnsureRoom struct {
	Key   string
	Reply chan *room.Room
}

// GetRoom replies with the room for the normalized key, or nil.
type GetRoom struct {
	Key   string
	Reply chan *room.Room
}

// RemoveRoom drops a room from the registry and shuts it down. Rooms send it
// about themselves once their last participant leaves.
type RemoveRoom struct {
	Key string
}

type ShutdownHub struct{}

func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)

	if log == nil {
		log = zap.NewNop()
	}

	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				key := NormalizeKey(msg.Key)
				if rm := h.rooms[key]; rm != nil {
					msg.Reply <- rm
					break
				}
				rm := room.NewRoom(h.ctx, key, func() {
					h.inbox <- RemoveRoom{Key: key}
				}, h.log)
				h.rooms[key] = rm
				h.log.Info("room created", zap.String("room", key))
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- h.rooms[NormalizeKey(msg.Key)] // May be nil

			case RemoveRoom:
				key := NormalizeKey(msg.Key)
				if rm := h.rooms[key]; rm != nil {
					delete(h.rooms, key)
					rm.Send(room.Shutdown{})
					h.log.Info("room removed", zap.String("room", key))
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for _, rm := range h.rooms {
		rm.Send(room.Shutdown{})
	}
	clear(h.rooms)
	h.cancel()
}
