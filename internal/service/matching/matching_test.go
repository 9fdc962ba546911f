package matching

import (
	"testing"
	"time"

	"github.com/humanbelnik/kinoswap/rooms/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
)

type MatchingUnitSuite struct {
	suite.Suite
}

var (
	radarr = model.Scope{Kind: model.ServiceRadarr, ServerID: "srv1"}
	plex   = model.Scope{Kind: model.ServicePlex, ServerID: "srv1"}
	base   = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
)

// InteractionBuilder cooks interactions with sane defaults.
type InteractionBuilder struct {
	in model.Interaction
}

func NewInteraction(userID string, tmdbID int, action model.InteractionAction) *InteractionBuilder {
	return &InteractionBuilder{
		in: model.Interaction{
			UserID:    userID,
			Scope:     radarr,
			TmdbID:    tmdbID,
			Action:    action,
			CreatedAt: base,
		},
	}
}

func (b *InteractionBuilder) At(minutes int) *InteractionBuilder {
	b.in.CreatedAt = base.Add(time.Duration(minutes) * time.Minute)
	return b
}

func (b *InteractionBuilder) Seq(seq uint64) *InteractionBuilder {
	b.in.Seq = seq
	return b
}

func (b *InteractionBuilder) In(scope model.Scope) *InteractionBuilder {
	b.in.Scope = scope
	return b
}

func (b *InteractionBuilder) Build() model.Interaction {
	return b.in
}

func (s *MatchingUnitSuite) TestQuorumMatches(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		scope        model.Scope
		interactions []model.Interaction
		minUsers     int
		expected     []int
	}{
		{
			name:     "Should return empty for no interactions",
			scope:    radarr,
			minUsers: 2,
			expected: []int{},
		},
		{
			name:  "Should match movie liked by two users",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 10, model.ActionLike).Build(),
				NewInteraction("b", 10, model.ActionLike).At(1).Build(),
			},
			minUsers: 2,
			expected: []int{10},
		},
		{
			name:  "Should clamp quorum below two",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 10, model.ActionLike).Build(),
				NewInteraction("b", 11, model.ActionNope).Build(),
			},
			minUsers: 0,
			expected: []int{},
		},
		{
			name:  "Should require every member when quorum equals member count",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 10, model.ActionLike).Build(),
				NewInteraction("b", 10, model.ActionLike).Build(),
				NewInteraction("c", 10, model.ActionNope).Build(),
				NewInteraction("a", 11, model.ActionLike).Build(),
				NewInteraction("b", 11, model.ActionSuperlike).Build(),
				NewInteraction("c", 11, model.ActionLike).Build(),
			},
			minUsers: 3,
			expected: []int{11},
		},
		{
			name:  "Should not quorum match likes when fewer users than quorum participate",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 10, model.ActionLike).Build(),
				NewInteraction("b", 10, model.ActionLike).Build(),
			},
			minUsers: 3,
			expected: []int{},
		},
		{
			name:  "Should include superlike when fewer users than quorum participate",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 10, model.ActionLike).Build(),
				NewInteraction("b", 10, model.ActionSuperlike).Build(),
			},
			minUsers: 3,
			expected: []int{10},
		},
		{
			name:  "Should include superlike with two participants under quorum of three",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 77, model.ActionSuperlike).Build(),
				NewInteraction("b", 5, model.ActionNope).Build(),
			},
			minUsers: 3,
			expected: []int{77},
		},
		{
			name:  "Should include superlike with two participants under maximum quorum",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 77, model.ActionSuperlike).Build(),
				NewInteraction("b", 5, model.ActionLike).Build(),
			},
			minUsers: 50,
			expected: []int{77},
		},
		{
			name:  "Should include superlike rejected by everyone else",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 42, model.ActionSuperlike).Build(),
				NewInteraction("b", 42, model.ActionNope).Build(),
				NewInteraction("c", 42, model.ActionNope).Build(),
			},
			minUsers: 3,
			expected: []int{42},
		},
		{
			name:  "Should ignore lone superlike without a second participant",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 42, model.ActionSuperlike).Build(),
			},
			minUsers: 2,
			expected: []int{},
		},
		{
			name:  "Should use latest stance",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 10, model.ActionLike).At(0).Build(),
				NewInteraction("b", 10, model.ActionLike).At(1).Build(),
				NewInteraction("a", 10, model.ActionSkip).At(2).Build(),
			},
			minUsers: 2,
			expected: []int{},
		},
		{
			name:  "Should use latest stance regardless of input order",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 10, model.ActionLike).At(5).Build(),
				NewInteraction("b", 10, model.ActionLike).At(1).Build(),
				NewInteraction("a", 10, model.ActionNope).At(2).Build(),
			},
			minUsers: 2,
			expected: []int{10},
		},
		{
			name:  "Should drop superlike overridden later",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 42, model.ActionSuperlike).At(0).Build(),
				NewInteraction("a", 42, model.ActionNope).At(1).Build(),
				NewInteraction("b", 10, model.ActionNope).Build(),
			},
			minUsers: 2,
			expected: []int{},
		},
		{
			name:  "Should break timestamp ties by sequence",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 10, model.ActionSkip).Seq(3).Build(),
				NewInteraction("a", 10, model.ActionLike).Seq(1).Build(),
				NewInteraction("b", 10, model.ActionLike).Seq(2).Build(),
				NewInteraction("b", 11, model.ActionNope).Seq(4).Build(),
				NewInteraction("b", 11, model.ActionLike).Seq(5).Build(),
				NewInteraction("a", 11, model.ActionLike).Seq(6).Build(),
			},
			minUsers: 2,
			expected: []int{11},
		},
		{
			name:  "Should ignore interactions from other scopes",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 10, model.ActionLike).Build(),
				NewInteraction("b", 10, model.ActionLike).In(plex).Build(),
				NewInteraction("c", 99, model.ActionSuperlike).In(plex).Build(),
				NewInteraction("d", 99, model.ActionSuperlike).In(model.Scope{Kind: model.ServiceRadarr, ServerID: "srv2"}).Build(),
			},
			minUsers: 2,
			expected: []int{},
		},
		{
			name:  "Should return empty when only other scopes have superlikes",
			scope: plex,
			interactions: []model.Interaction{
				NewInteraction("a", 42, model.ActionSuperlike).Build(),
				NewInteraction("b", 42, model.ActionSuperlike).Build(),
			},
			minUsers: 2,
			expected: []int{},
		},
		{
			name:  "Should sort and dedupe",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 30, model.ActionLike).Build(),
				NewInteraction("b", 30, model.ActionLike).Build(),
				NewInteraction("a", 20, model.ActionSuperlike).Build(),
				NewInteraction("b", 20, model.ActionSuperlike).Build(),
				NewInteraction("a", 10, model.ActionLike).Build(),
				NewInteraction("a", 10, model.ActionLike).At(1).Build(),
				NewInteraction("b", 10, model.ActionLike).Build(),
			},
			minUsers: 2,
			expected: []int{10, 20, 30},
		},
		{
			name:  "Should not count repeated likes from one user twice",
			scope: radarr,
			interactions: []model.Interaction{
				NewInteraction("a", 10, model.ActionLike).At(0).Build(),
				NewInteraction("a", 10, model.ActionLike).At(1).Build(),
				NewInteraction("a", 10, model.ActionLike).At(2).Build(),
				NewInteraction("b", 11, model.ActionNope).Build(),
			},
			minUsers: 2,
			expected: []int{},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			got := QuorumMatches(tc.scope, tc.interactions, tc.minUsers)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestMatchingUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(MatchingUnitSuite))
}
