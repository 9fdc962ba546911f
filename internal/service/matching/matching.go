package matching

import (
	"slices"

	"github.com/humanbelnik/kinoswap/rooms/internal/model"
)

const MinQuorum = 2

type stanceKey struct {
	userID string
	tmdbID int
}

/*
QuorumMatches returns ascending, distinct tmdb ids that are matched in scope.

Only each user's current stance per movie counts: the interaction with the
latest CreatedAt, and on equal timestamps the one with the higher Seq.
A movie matches when at least max(2, minUsers) users currently like or
superlike it. A current superlike matches on its own, whatever the quorum.
Nothing matches while fewer than two distinct users interacted in scope.
*/
func QuorumMatches(scope model.Scope, interactions []model.Interaction, minUsers int) []int {
	quorum := max(MinQuorum, minUsers)

	users := make(map[string]struct{})
	stances := make(map[stanceKey]model.Interaction)
	for _, in := range interactions {
		if in.Scope != scope {
			continue
		}
		users[in.UserID] = struct{}{}

		k := stanceKey{userID: in.UserID, tmdbID: in.TmdbID}
		if cur, ok := stances[k]; !ok || newer(in, cur) {
			stances[k] = in
		}
	}
	if len(users) < MinQuorum {
		return []int{}
	}

	positive := make(map[int]int)
	superliked := make(map[int]struct{})
	for k, in := range stances {
		if !in.Action.Positive() {
			continue
		}
		positive[k.tmdbID]++
		if in.Action == model.ActionSuperlike {
			superliked[k.tmdbID] = struct{}{}
		}
	}

	matches := make([]int, 0, len(positive))
	for tmdbID, votes := range positive {
		_, super := superliked[tmdbID]
		if votes >= quorum || super {
			matches = append(matches, tmdbID)
		}
	}
	slices.Sort(matches)
	return matches
}

func newer(a, b model.Interaction) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.Seq > b.Seq
}
