package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownAction = errors.New("unknown interaction action")

type InteractionAction int

const (
	ActionLike InteractionAction = iota + 1
	ActionNope
	ActionSkip
	ActionSuperlike
)

func (a InteractionAction) String() string {
	switch a {
	case ActionLike:
		return "like"
	case ActionNope:
		return "nope"
	case ActionSkip:
		return "skip"
	case ActionSuperlike:
		return "superlike"
	}
	return fmt.Sprintf("InteractionAction(%d)", int(a))
}

// Positive reports whether the action endorses the movie.
func (a InteractionAction) Positive() bool {
	switch a {
	case ActionLike, ActionSuperlike:
		return true
	case ActionNope, ActionSkip:
		return false
	}
	return false
}

func ParseInteractionAction(s string) (InteractionAction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "like":
		return ActionLike, nil
	case "nope":
		return ActionNope, nil
	case "skip":
		return ActionSkip, nil
	case "superlike":
		return ActionSuperlike, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

type Interaction struct {
	UserID    string
	Scope     Scope
	TmdbID    int
	Action    InteractionAction
	CreatedAt time.Time

	// Seq is the position in the room log, assigned on append.
	// Breaks ties between interactions with equal CreatedAt.
	Seq uint64
}
