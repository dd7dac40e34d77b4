package relay

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
	"github.com/rocketscienceinc/caro-backend/internal/protocol"
)

// matchmaker owns the session registry and assigns authenticated connections
// to slots. All assignment runs under one lock, so two connections can never
// race onto the same free slot. Sessions are reused after being emptied;
// occupancy only grows under the matchmaker lock and only shrinks under the
// session lock, so a picked session cannot fill up behind our back.
type matchmaker struct {
	mu       sync.Mutex
	sessions []*session
}

func newMatchmaker() *matchmaker {
	return &matchmaker{}
}

// assign - binds the connection to the lowest free slot of the chosen session,
// sends its role and starts the game if the session is now full.
func (that *matchmaker) assign(cl *client) (*session, int, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	sess := that.pick()

	sess.mu.Lock()
	defer sess.mu.Unlock()

	slot, started, err := sess.room.Join()
	if err != nil {
		sess = that.grow()
		sess.mu.Lock()
		defer sess.mu.Unlock()
		slot, started, _ = sess.room.Join()
	}

	sess.slots[slot] = cl

	role := entity.RoleForSlot(slot)
	_ = cl.send(protocol.CmdRole, fmt.Sprintf("%s,%d", role, sess.room.ID))

	if started {
		sess.broadcast(protocol.CmdStart, "")
	}

	return sess, slot, started
}

// pick - applies the assignment policy: an emptied session first, then a
// waiting session with a single occupant, then a new session with the next
// sequential id.
func (that *matchmaker) pick() *session {
	for _, sess := range that.sessions {
		sess.mu.Lock()
		empty := sess.room.IsEmpty()
		sess.mu.Unlock()

		if empty {
			return sess
		}
	}

	for _, sess := range that.sessions {
		sess.mu.Lock()
		partial := sess.room.OccupiedCount() == 1 && sess.room.IsWaiting()
		sess.mu.Unlock()

		if partial {
			return sess
		}
	}

	return that.grow()
}

func (that *matchmaker) grow() *session {
	sess := newSession(len(that.sessions))
	that.sessions = append(that.sessions, sess)

	return sess
}

// snapshot - counts sessions and those with a game in progress.
func (that *matchmaker) snapshot() (int, int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	playing := 0
	for _, sess := range that.sessions {
		sess.mu.Lock()
		if sess.room.IsPlaying() {
			playing++
		}
		sess.mu.Unlock()
	}

	return len(that.sessions), playing
}

// clear - drops the whole registry; only the shutdown path uses it.
func (that *matchmaker) clear() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions = nil
}
