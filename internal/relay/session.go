package relay

import (
	"sync"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

// session pairs one room with the live connections bound to its slots. All
// room mutations and the broadcasts they produce happen under the session
// lock, so each connection sees messages in the order the session produced
// them.
type session struct {
	mu    sync.Mutex
	room  *entity.Room
	slots [2]*client
}

func newSession(id int) *session {
	return &session{
		room: entity.NewRoom(id),
	}
}

// broadcast - best-effort write to every occupied slot. Callers hold the
// session lock.
func (that *session) broadcast(command, payload string) {
	for _, cl := range that.slots {
		if cl == nil {
			continue
		}
		_ = cl.send(command, payload)
	}
}

// occupiedCount - slot occupancy under the session lock, for status reports.
func (that *session) occupiedCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.room.OccupiedCount()
}
