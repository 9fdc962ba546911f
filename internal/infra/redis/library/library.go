package infra_redis_library

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/kinoswap/rooms/internal/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Driver reads the set of tmdb ids a Radarr server already has,
// stored as <prefix>:radarr:<serverID>.
type Driver struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

func New(
	client *redis.Client,
	prefix string,
) *Driver {
	return &Driver{
		client: client,
		prefix: prefix,
		logger: log.With().Str("module", "infra.redis.library").Logger(),
	}
}

func (d *Driver) key(scope model.Scope) string {
	return fmt.Sprintf("%s:%s:%s", d.prefix, scope.Kind, scope.ServerID)
}

func (d *Driver) OwnedIDs(ctx context.Context, scope model.Scope) (map[int]struct{}, error) {
	owned := make(map[int]struct{})
	if scope.Kind != model.ServiceRadarr {
		return owned, nil
	}

	members, err := d.client.WithContext(ctx).SMembers(d.key(scope)).Result()
	if err == redis.Nil {
		return owned, nil
	}
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", d.key(scope), err)
	}

	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			d.logger.Warn().Str("scope", scope.String()).Str("member", m).Msg("skipping non numeric library id")
			continue
		}
		owned[id] = struct{}{}
	}
	return owned, nil
}
