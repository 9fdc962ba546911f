package ws_room

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	http_common "github.com/humanbelnik/kinoswap/rooms/internal/delivery/http/common"
	"github.com/humanbelnik/kinoswap/rooms/internal/model"
	usecase_room "github.com/humanbelnik/kinoswap/rooms/internal/usecase/room"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Controller struct {
	hub *Hub
}

func NewController(hub *Hub) *Controller {
	return &Controller{hub: hub}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/rooms/:room_id/ws", c.roomWS)
}

// roomWS подписывает участника на события комнаты
// @Summary События комнаты
// @Description Websocket: LOBBY_UPDATE, ROOM_CLOSED, MATCHES_UPDATED. Браузеры передают токен в query-параметре token
// @Tags Rooms
// @Param room_id path string true "ID комнаты"
// @Param token query string false "Токен пользователя"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} http_common.ErrorResponse "Не авторизован"
// @Failure 403 {object} http_common.ErrorResponse "Не участник"
// @Failure 404 {object} http_common.ErrorResponse "Комната не найдена"
// @Router /rooms/{room_id}/ws [get]
func (c *Controller) roomWS(ctx *gin.Context) {
	userID := ctx.GetHeader(http_common.UserTokenHeader)
	if userID == "" {
		userID = ctx.Query("token")
	}
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, http_common.ErrorResponse{
			Message: "user token required",
		})
		return
	}
	roomID := model.RoomID(ctx.Param("room_id"))

	room, err := c.hub.rooms.Get(ctx.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, usecase_room.ErrRoomNotFound) {
			ctx.JSON(http.StatusNotFound, http_common.ErrorResponse{Message: "room not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, http_common.ErrorResponse{Message: "internal error"})
		return
	}
	if !room.HasMember(userID) {
		ctx.JSON(http.StatusForbidden, http_common.ErrorResponse{Message: "not a room member"})
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.hub.logger.Error().Err(err).Str("room", string(roomID)).Msg("failed to upgrade to websocket")
		return
	}

	client := &Client{
		hub:    c.hub,
		conn:   conn,
		send:   make(chan Event, sendBuffer),
		userID: userID,
		roomID: roomID,
	}
	c.hub.Register(client)

	go client.writePump()
	go client.readPump()
}
