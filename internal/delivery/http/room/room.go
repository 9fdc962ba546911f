package http_room

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/kinoswap/rooms/internal/delivery/http/common"
	"github.com/humanbelnik/kinoswap/rooms/internal/model"
	usecase_room "github.com/humanbelnik/kinoswap/rooms/internal/usecase/room"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultDeckLimit = 10

// Notifier pushes room events to connected websocket clients.
type Notifier interface {
	NotifyLobby(roomID model.RoomID)
	NotifyClosed(roomID model.RoomID)
	NotifyMatches(roomID model.RoomID)
}

type Controller struct {
	uc       *usecase_room.Usecase
	notifier Notifier

	logger zerolog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func New(
	uc *usecase_room.Usecase,
	notifier Notifier,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		uc:       uc,
		notifier: notifier,
		logger:   log.With().Str("module", "delivery.http.room").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", c.health)

	rooms := router.Group("/rooms")
	rooms.POST("", c.create)

	room := router.Group("/rooms/:room_id")
	room.GET("", c.get)
	room.POST("/members", c.join)
	room.POST("/close", c.close)
	room.GET("/deck", c.deck)
	room.POST("/swipes", c.swipe)
	room.GET("/matches", c.matches)
}

func (c *Controller) writeError(ctx *gin.Context, op string, err error) {
	status, message := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, usecase_room.ErrRoomNotFound):
		status, message = http.StatusNotFound, "room not found"
	case errors.Is(err, usecase_room.ErrRoomClosed):
		status, message = http.StatusConflict, "room is closed"
	case errors.Is(err, usecase_room.ErrNotRoomOwner):
		status, message = http.StatusForbidden, "only the room owner can do this"
	case errors.Is(err, usecase_room.ErrNotRoomMember):
		status, message = http.StatusForbidden, "not a room member"
	case errors.Is(err, usecase_room.ErrLibraryNotSynced):
		status, message = http.StatusConflict, "library not synced yet"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, message = http.StatusServiceUnavailable, "request cancelled"
	}

	ev := c.logger.Warn()
	if status >= http.StatusInternalServerError {
		ev = c.logger.Error()
	}
	ev.Err(err).Str("op", op).Str("room", ctx.Param("room_id")).Int("status", status).Msg("request failed")

	ctx.JSON(status, http_common.ErrorResponse{Message: message})
}

// health
// @Summary Проверка доступности
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponseDTO
// @Router /health [get]
func (c *Controller) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, HealthResponseDTO{Status: "ok"})
}

// create создает комнату
// @Summary Создание комнаты
// @Description Создает комнату в указанном медиа-сервере; создатель становится владельцем и первым участником
// @Tags Rooms
// @Accept json
// @Produce json
// @Param request body CreateRoomRequestDTO true "Сервис и сервер"
// @Success 201 {object} RoomDTO "Комната создана"
// @Failure 400 {object} http_common.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} http_common.ErrorResponse "Не авторизован"
// @Security UserToken
// @Router /rooms [post]
func (c *Controller) create(ctx *gin.Context) {
	userID, ok := http_common.UserToken(ctx)
	if !ok {
		return
	}

	var req CreateRoomRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}
	if err := req.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	room, err := c.uc.Create(ctx.Request.Context(), userID, req.Scope())
	if err != nil {
		c.writeError(ctx, "create", err)
		return
	}

	ctx.JSON(http.StatusCreated, toRoomDTO(room))
}

// get возвращает комнату
// @Summary Получение комнаты
// @Tags Rooms
// @Produce json
// @Param room_id path string true "ID комнаты"
// @Success 200 {object} RoomDTO
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Router /rooms/{room_id} [get]
func (c *Controller) get(ctx *gin.Context) {
	room, err := c.uc.Get(ctx.Request.Context(), model.RoomID(ctx.Param("room_id")))
	if err != nil {
		c.writeError(ctx, "get", err)
		return
	}

	ctx.JSON(http.StatusOK, toRoomDTO(room))
}

// join добавляет участника
// @Summary Вход в комнату
// @Description Повторный вход участника ничего не меняет, в том числе в закрытой комнате
// @Tags Rooms
// @Produce json
// @Param room_id path string true "ID комнаты"
// @Success 200 {object} RoomDTO
// @Failure 401 {object} http_common.ErrorResponse "Не авторизован"
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Failure 409 {object} http_common.ErrorResponse "Комната закрыта"
// @Security UserToken
// @Router /rooms/{room_id}/members [post]
func (c *Controller) join(ctx *gin.Context) {
	userID, ok := http_common.UserToken(ctx)
	if !ok {
		return
	}
	roomID := model.RoomID(ctx.Param("room_id"))

	room, err := c.uc.Join(ctx.Request.Context(), roomID, userID)
	if err != nil {
		c.writeError(ctx, "join", err)
		return
	}

	c.notifier.NotifyLobby(roomID)
	ctx.JSON(http.StatusOK, toRoomDTO(room))
}

// close закрывает комнату
// @Summary Закрытие комнаты
// @Description Закрытая комната не принимает новых участников
// @Tags Rooms
// @Produce json
// @Param room_id path string true "ID комнаты"
// @Success 200 {object} RoomDTO
// @Failure 401 {object} http_common.ErrorResponse "Не авторизован"
// @Failure 403 {object} http_common.ErrorResponse "Не владелец"
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Security UserToken
// @Router /rooms/{room_id}/close [post]
func (c *Controller) close(ctx *gin.Context) {
	userID, ok := http_common.UserToken(ctx)
	if !ok {
		return
	}
	roomID := model.RoomID(ctx.Param("room_id"))

	room, err := c.uc.Close(ctx.Request.Context(), roomID, userID)
	if err != nil {
		c.writeError(ctx, "close", err)
		return
	}

	c.notifier.NotifyClosed(roomID)
	ctx.JSON(http.StatusOK, toRoomDTO(room))
}

// deck возвращает колоду
// @Summary Колода для свайпов
// @Description Фильмы, которые участник еще не свайпал в этой комнате
// @Tags Swipes
// @Produce json
// @Param room_id path string true "ID комнаты"
// @Param limit query int false "Размер колоды (1..50)"
// @Success 200 {object} DeckResponseDTO
// @Failure 401 {object} http_common.ErrorResponse "Не авторизован"
// @Failure 403 {object} http_common.ErrorResponse "Не участник"
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Failure 409 {object} http_common.ErrorResponse "Библиотека не синхронизирована"
// @Failure 502 {object} http_common.ErrorResponse "Ошибка источника фильмов"
// @Security UserToken
// @Router /rooms/{room_id}/deck [get]
func (c *Controller) deck(ctx *gin.Context) {
	userID, ok := http_common.UserToken(ctx)
	if !ok {
		return
	}

	limit := defaultDeckLimit
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
				Message: "limit must be an integer",
			})
			return
		}
		limit = n
	}

	deck, err := c.uc.SwipeDeck(ctx.Request.Context(), model.RoomID(ctx.Param("room_id")), userID, limit)
	if err != nil {
		if isUsecaseError(err) {
			c.writeError(ctx, "deck", err)
			return
		}
		c.logger.Error().Err(err).Str("room", ctx.Param("room_id")).Msg("candidate source failed")
		ctx.JSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "candidate source unavailable",
		})
		return
	}

	ctx.JSON(http.StatusOK, toDeckDTO(deck))
}

// swipe записывает свайп
// @Summary Свайп
// @Tags Swipes
// @Accept json
// @Produce json
// @Param room_id path string true "ID комнаты"
// @Param request body SwipeRequestDTO true "Фильм и действие (like, nope, skip, superlike)"
// @Success 201 {object} InteractionDTO
// @Failure 400 {object} http_common.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} http_common.ErrorResponse "Не авторизован"
// @Failure 403 {object} http_common.ErrorResponse "Не участник"
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Security UserToken
// @Router /rooms/{room_id}/swipes [post]
func (c *Controller) swipe(ctx *gin.Context) {
	userID, ok := http_common.UserToken(ctx)
	if !ok {
		return
	}

	var req SwipeRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: "invalid request format",
		})
		return
	}
	if err := req.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, http_common.ErrorResponse{
			Message: err.Error(),
		})
		return
	}
	roomID := model.RoomID(ctx.Param("room_id"))

	in, err := c.uc.AddInteraction(ctx.Request.Context(), roomID, userID, req.TmdbID, req.InteractionAction())
	if err != nil {
		c.writeError(ctx, "swipe", err)
		return
	}

	c.notifier.NotifyMatches(roomID)
	ctx.JSON(http.StatusCreated, toInteractionDTO(in))
}

// matches возвращает совпадения
// @Summary Совпадения комнаты
// @Description Фильмы, которые набрали кворум участников, и фильмы с суперлайком
// @Tags Swipes
// @Produce json
// @Param room_id path string true "ID комнаты"
// @Success 200 {object} MatchesResponseDTO
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Router /rooms/{room_id}/matches [get]
func (c *Controller) matches(ctx *gin.Context) {
	ids, err := c.uc.ListMatches(ctx.Request.Context(), model.RoomID(ctx.Param("room_id")))
	if err != nil {
		c.writeError(ctx, "matches", err)
		return
	}

	ctx.JSON(http.StatusOK, MatchesResponseDTO{TmdbIDs: ids})
}

func isUsecaseError(err error) bool {
	return errors.Is(err, usecase_room.ErrRoomNotFound) ||
		errors.Is(err, usecase_room.ErrNotRoomMember) ||
		errors.Is(err, usecase_room.ErrLibraryNotSynced) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
