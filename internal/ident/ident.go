package ident

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NewPlayerID returns a fresh identifier for a roster player.
func NewPlayerID() string {
	return uuid.NewString()
}

const clientIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewClientID returns a short random identifier for a websocket connection.
func NewClientID() string {
	id := make([]byte, 8)
	for i := range id {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(clientIDCharset))))
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		id[i] = clientIDCharset[num.Int64()]
	}
	return string(id)
}

// Clock hands out millisecond timestamps that never decrease, so buzz
// arrival order stays well-defined even if the wall clock steps backwards.
type Clock struct {
	mu   sync.Mutex
	last int64
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) NowMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixMilli()
	if now < c.last {
		now = c.last
	}
	c.last = now
	return now
}
