package usecase_room

import (
	"context"
	"sync"

	"github.com/humanbelnik/kinoswap/rooms/internal/model"
)

// roomLocks serializes read-modify-write sequences per room.
// Entries are reference counted and dropped once nobody holds or waits for them.
type roomLocks struct {
	mu    sync.Mutex
	locks map[model.RoomID]*roomLock
}

type roomLock struct {
	slot chan struct{}
	refs int
}

func newRoomLocks() *roomLocks {
	return &roomLocks{
		locks: make(map[model.RoomID]*roomLock),
	}
}

// lock blocks until the room is free or ctx is done.
func (l *roomLocks) lock(ctx context.Context, roomID model.RoomID) (unlock func(), err error) {
	l.mu.Lock()
	rl, ok := l.locks[roomID]
	if !ok {
		rl = &roomLock{slot: make(chan struct{}, 1)}
		l.locks[roomID] = rl
	}
	rl.refs++
	l.mu.Unlock()

	select {
	case rl.slot <- struct{}{}:
	case <-ctx.Done():
		l.release(roomID, rl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-rl.slot
			l.release(roomID, rl)
		})
	}, nil
}

func (l *roomLocks) release(roomID model.RoomID, rl *roomLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rl.refs--
	if rl.refs == 0 {
		delete(l.locks, roomID)
	}
}

func (l *roomLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
