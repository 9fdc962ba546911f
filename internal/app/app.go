package app

import (
	"context"

	"github.com/humanbelnik/kinoswap/rooms/internal/config"
	http_init "github.com/humanbelnik/kinoswap/rooms/internal/delivery/http/init"
	http_room "github.com/humanbelnik/kinoswap/rooms/internal/delivery/http/room"
	http_swagger "github.com/humanbelnik/kinoswap/rooms/internal/delivery/http/swagger"
	ws_room "github.com/humanbelnik/kinoswap/rooms/internal/delivery/ws/room"
	infra_memory_interaction "github.com/humanbelnik/kinoswap/rooms/internal/infra/memory/interaction"
	infra_memory_room "github.com/humanbelnik/kinoswap/rooms/internal/infra/memory/room"
	infra_postgres_candidate "github.com/humanbelnik/kinoswap/rooms/internal/infra/postgres/candidate"
	infra_pg_init "github.com/humanbelnik/kinoswap/rooms/internal/infra/postgres/init"
	infra_redis_init "github.com/humanbelnik/kinoswap/rooms/internal/infra/redis/init"
	infra_redis_library "github.com/humanbelnik/kinoswap/rooms/internal/infra/redis/library"
	"github.com/humanbelnik/kinoswap/rooms/internal/service/sweeper"
	usecase_room "github.com/humanbelnik/kinoswap/rooms/internal/usecase/room"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Go wires the service and blocks until ctx is done or a component fails.
func Go(ctx context.Context, cfg *config.Config) error {
	redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
	defer redisConn.Close()
	pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)
	defer pgConn.Close()

	roomStore := infra_memory_room.New(infra_memory_room.WithTTL(cfg.Rooms.TTL))
	interactionLog := infra_memory_interaction.New(infra_memory_interaction.WithTTL(cfg.Rooms.TTL))
	candidateSource := infra_postgres_candidate.New(pgConn)
	libraryCache := infra_redis_library.New(redisConn, cfg.Redis.LibraryPrefix)

	roomUC := usecase_room.New(roomStore, interactionLog, candidateSource, libraryCache)

	hub := ws_room.NewHub(roomUC)
	roomSweeper := sweeper.New(roomUC, cfg.Rooms.SweepInterval)

	controllerPool := http_init.NewControllerPool(http_init.WithAllowedOrigins(cfg.HTTP.AllowedOrigins))
	controllerPool.Add(http_swagger.New())
	controllerPool.Add(http_room.New(roomUC, hub))
	controllerPool.Add(ws_room.NewController(hub))
	controllerPool.Register()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return roomSweeper.Run(gctx)
	})
	g.Go(func() error {
		return controllerPool.Serve(gctx, cfg.HTTP.Host, cfg.HTTP.Port)
	})

	err := g.Wait()
	log.Info().Str("module", "app").Msg("service stopped")
	return err
}
