package model

import "time"

type RoomID string

type Member struct {
	UserID   string
	JoinedAt time.Time
}

// Room is treated as an immutable value: the helpers below return
// modified copies and never touch the receiver's Members slice.
type Room struct {
	ID             RoomID
	OwnerUserID    string
	Scope          Scope
	IsClosed       bool
	CreatedAt      time.Time
	LastActivityAt time.Time
	Members        []Member
}

func NewRoom(id RoomID, ownerUserID string, scope Scope, now time.Time) Room {
	return Room{
		ID:             id,
		OwnerUserID:    ownerUserID,
		Scope:          scope,
		CreatedAt:      now,
		LastActivityAt: now,
		Members:        []Member{{UserID: ownerUserID, JoinedAt: now}},
	}
}

func (r Room) HasMember(userID string) bool {
	for _, m := range r.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func (r Room) IsOwner(userID string) bool {
	return r.OwnerUserID == userID
}

func (r Room) Clone() Room {
	members := make([]Member, len(r.Members))
	copy(members, r.Members)
	r.Members = members
	return r
}

func (r Room) WithMember(userID string, now time.Time) Room {
	next := r.Touched(now)
	next.Members = append(next.Members, Member{UserID: userID, JoinedAt: now})
	return next
}

func (r Room) Closed(now time.Time) Room {
	next := r.Touched(now)
	next.IsClosed = true
	return next
}

func (r Room) Touched(now time.Time) Room {
	next := r.Clone()
	next.LastActivityAt = now
	return next
}
