package http_room

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/humanbelnik/kinoswap/rooms/internal/model"
)

// CreateRoomRequestDTO DTO для создания комнаты
type CreateRoomRequestDTO struct {
	ServiceType string `json:"service_type"`
	ServerID    string `json:"server_id"`
}

func (r CreateRoomRequestDTO) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ServiceType, validation.Required, validation.By(func(value interface{}) error {
			_, err := model.ParseServiceType(value.(string))
			return err
		})),
		validation.Field(&r.ServerID, validation.Required, validation.Length(1, 256)),
	)
}

func (r CreateRoomRequestDTO) Scope() model.Scope {
	kind, _ := model.ParseServiceType(r.ServiceType)
	return model.Scope{Kind: kind, ServerID: r.ServerID}
}

// SwipeRequestDTO DTO для свайпа
type SwipeRequestDTO struct {
	TmdbID int    `json:"tmdb_id"`
	Action string `json:"action"`
}

func (r SwipeRequestDTO) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TmdbID, validation.Required, validation.Min(1)),
		validation.Field(&r.Action, validation.Required, validation.By(func(value interface{}) error {
			_, err := model.ParseInteractionAction(value.(string))
			return err
		})),
	)
}

func (r SwipeRequestDTO) InteractionAction() model.InteractionAction {
	action, _ := model.ParseInteractionAction(r.Action)
	return action
}

type MemberDTO struct {
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// RoomDTO DTO комнаты
type RoomDTO struct {
	RoomID         string      `json:"room_id"`
	OwnerUserID    string      `json:"owner_user_id"`
	ServiceType    string      `json:"service_type"`
	ServerID       string      `json:"server_id"`
	IsClosed       bool        `json:"is_closed"`
	CreatedAt      time.Time   `json:"created_at"`
	LastActivityAt time.Time   `json:"last_activity_at"`
	Members        []MemberDTO `json:"members"`
}

func toRoomDTO(room model.Room) RoomDTO {
	members := make([]MemberDTO, len(room.Members))
	for i, m := range room.Members {
		members[i] = MemberDTO{UserID: m.UserID, JoinedAt: m.JoinedAt}
	}
	return RoomDTO{
		RoomID:         string(room.ID),
		OwnerUserID:    room.OwnerUserID,
		ServiceType:    room.Scope.Kind.String(),
		ServerID:       room.Scope.ServerID,
		IsClosed:       room.IsClosed,
		CreatedAt:      room.CreatedAt,
		LastActivityAt: room.LastActivityAt,
		Members:        members,
	}
}

type CardDTO struct {
	TmdbID      int      `json:"tmdb_id"`
	Title       string   `json:"title"`
	Overview    *string  `json:"overview,omitempty"`
	PosterURL   *string  `json:"poster_url,omitempty"`
	BackdropURL *string  `json:"backdrop_url,omitempty"`
	ReleaseYear *int     `json:"release_year,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
}

// DeckResponseDTO DTO колоды для свайпов
type DeckResponseDTO struct {
	Cards []CardDTO `json:"cards"`
}

func toDeckDTO(deck []model.SwipeCard) DeckResponseDTO {
	cards := make([]CardDTO, len(deck))
	for i, c := range deck {
		cards[i] = CardDTO{
			TmdbID:      c.TmdbID,
			Title:       c.Title,
			Overview:    c.Overview,
			PosterURL:   c.PosterURL,
			BackdropURL: c.BackdropURL,
			ReleaseYear: c.ReleaseYear,
			Rating:      c.Rating,
		}
	}
	return DeckResponseDTO{Cards: cards}
}

// InteractionDTO DTO записанного свайпа
type InteractionDTO struct {
	UserID    string    `json:"user_id"`
	TmdbID    int       `json:"tmdb_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

func toInteractionDTO(in model.Interaction) InteractionDTO {
	return InteractionDTO{
		UserID:    in.UserID,
		TmdbID:    in.TmdbID,
		Action:    in.Action.String(),
		CreatedAt: in.CreatedAt,
	}
}

// MatchesResponseDTO DTO совпадений
type MatchesResponseDTO struct {
	TmdbIDs []int `json:"tmdb_ids"`
}

type HealthResponseDTO struct {
	Status string `json:"status"`
}
