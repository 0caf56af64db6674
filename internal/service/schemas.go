package service

import (
	"fmt"
	"time"

	"futurama-api/internal/domain"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// CharacterResponse персонаж в ответе API.
type CharacterResponse struct {
	ID        int64     `json:"id"`
	UUID      uuid.UUID `json:"uuid"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Gender    string    `json:"gender"`
	Species   string    `json:"species"`
	Image     *string   `json:"image"`
}

// CharacterCreateRequest запрос на создание персонажа.
type CharacterCreateRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=128"`
	Status  string  `json:"status" validate:"omitempty"`
	Gender  string  `json:"gender" validate:"omitempty"`
	Species string  `json:"species" validate:"omitempty"`
	Image   *string `json:"image" validate:"omitempty,max=256"`
}

// SeasonRef краткое представление сезона внутри эпизода.
type SeasonRef struct {
	ID   int64     `json:"id"`
	UUID uuid.UUID `json:"uuid"`
}

// EpisodeResponse эпизод в ответе API.
type EpisodeResponse struct {
	ID              int64               `json:"id"`
	UUID            uuid.UUID           `json:"uuid"`
	CreatedAt       time.Time           `json:"created_at"`
	Name            string              `json:"name"`
	AirDate         *string             `json:"air_date"`
	Duration        *int                `json:"duration"`
	ProductionCode  *string             `json:"production_code"`
	BroadcastNumber *int                `json:"broadcast_number"`
	BroadcastCode   string              `json:"broadcast_code"`
	Season          *SeasonRef          `json:"season"`
	Characters      []CharacterResponse `json:"characters"`
}

// EpisodeRef краткое представление эпизода внутри сезона.
type EpisodeRef struct {
	ID            int64     `json:"id"`
	UUID          uuid.UUID `json:"uuid"`
	Name          string    `json:"name"`
	AirDate       *string   `json:"air_date"`
	BroadcastCode string    `json:"broadcast_code"`
}

// SeasonResponse сезон в ответе API.
type SeasonResponse struct {
	ID        int64        `json:"id"`
	UUID      uuid.UUID    `json:"uuid"`
	CreatedAt time.Time    `json:"created_at"`
	Episodes  []EpisodeRef `json:"episodes"`
}

// UserResponse профиль пользователя.
type UserResponse struct {
	ID           int64     `json:"id"`
	UUID         uuid.UUID `json:"uuid"`
	CreatedAt    time.Time `json:"created_at"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	MiddleName   *string   `json:"middle_name"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	IsConfirmed  bool      `json:"is_confirmed"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// UserSearchResult публичная информация о пользователе.
type UserSearchResult struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsMe     bool   `json:"is_me"`
}

// UserCreateRequest запрос на регистрацию.
type UserCreateRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=64"`
	Surname      string  `json:"surname" validate:"required,min=1,max=64"`
	MiddleName   *string `json:"middle_name" validate:"omitempty,max=64"`
	Email        string  `json:"email" validate:"required,email,max=320"`
	Username     string  `json:"username" validate:"required,min=5,max=64"`
	Password     string  `json:"password" validate:"required,min=8,max=128"`
	IsSubscribed *bool   `json:"is_subscribed"`
}

// UserUpdateRequest частичное обновление профиля: nil поля не меняются.
type UserUpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=64"`
	Surname      *string `json:"surname" validate:"omitempty,min=1,max=64"`
	MiddleName   *string `json:"middle_name" validate:"omitempty,max=64"`
	Password     *string `json:"password" validate:"omitempty,min=8,max=128"`
	IsSubscribed *bool   `json:"is_subscribed"`
}

// LinkCreateRequest запрос на сокращение ссылки.
type LinkCreateRequest struct {
	URL string `json:"url" validate:"required,http_url,max=4096"`
}

// LinkResponse короткая ссылка пользователя.
type LinkResponse struct {
	ID        int64     `json:"id"`
	UUID      uuid.UUID `json:"uuid"`
	CreatedAt time.Time `json:"created_at"`
	URL       string    `json:"url"`
	Shortened string    `json:"shortened"`
	ShortURL  string    `json:"shortened_url"`
	Counter   int64     `json:"counter"`
}

// SecretMessageCreateRequest запрос на создание одноразового сообщения.
type SecretMessageCreateRequest struct {
	Text string `json:"text" validate:"required,min=1,max=8192"`
}

// SecretMessageCreated ответ на создание сообщения.
type SecretMessageCreated struct {
	URL       string    `json:"url"`
	AccessURL string    `json:"access_url"`
	CreatedAt time.Time `json:"created_at"`
}

// SecretMessageResponse прочитанное сообщение.
type SecretMessageResponse struct {
	Text         string    `json:"text"`
	VisitCounter int64     `json:"visit_counter"`
	CreatedAt    time.Time `json:"created_at"`
}

// CallbackRequest запрос на отложенную доставку сущности.
type CallbackRequest struct {
	CallbackURL string `json:"callback_url" validate:"required,http_url,max=2048"`
}

// CallbackResponse подтверждение постановки в очередь.
type CallbackResponse struct {
	ItemID int64 `json:"item_id"`
	Delay  int   `json:"delay"`
}

func toCharacterResponse(c *domain.Character) CharacterResponse {
	return CharacterResponse{
		ID:        c.ID,
		UUID:      c.UUID,
		CreatedAt: c.CreatedAt,
		Name:      c.Name,
		Status:    string(c.Status),
		Gender:    string(c.Gender),
		Species:   string(c.Species),
		Image:     c.Image,
	}
}

// broadcastCode собирает код вида S01E05.
func broadcastCode(seasonID int64, number *int) string {
	if number == nil {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", seasonID, *number)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toEpisodeResponse(e *domain.Episode) EpisodeResponse {
	resp := EpisodeResponse{
		ID:              e.ID,
		UUID:            e.UUID,
		CreatedAt:       e.CreatedAt,
		Name:            e.Name,
		AirDate:         formatDate(e.AirDate),
		Duration:        e.Duration,
		ProductionCode:  e.ProductionCode,
		BroadcastNumber: e.BroadcastNumber,
		BroadcastCode:   broadcastCode(e.SeasonID, e.BroadcastNumber),
	}
	if e.Season != nil {
		resp.Season = &SeasonRef{ID: e.Season.ID, UUID: e.Season.UUID}
	}
	resp.Characters = make([]CharacterResponse, len(e.Characters))
	for i := range e.Characters {
		resp.Characters[i] = toCharacterResponse(&e.Characters[i])
	}
	return resp
}

func toSeasonResponse(s *domain.Season) SeasonResponse {
	episodes := make([]EpisodeRef, len(s.Episodes))
	for i := range s.Episodes {
		e := &s.Episodes[i]
		episodes[i] = EpisodeRef{
			ID:            e.ID,
			UUID:          e.UUID,
			Name:          e.Name,
			AirDate:       formatDate(e.AirDate),
			BroadcastCode: broadcastCode(s.ID, e.BroadcastNumber),
		}
	}
	return SeasonResponse{ID: s.ID, UUID: s.UUID, CreatedAt: s.CreatedAt, Episodes: episodes}
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		UUID:         u.UUID,
		CreatedAt:    u.CreatedAt,
		Name:         u.Name,
		Surname:      u.Surname,
		MiddleName:   u.MiddleName,
		Email:        u.Email,
		Username:     u.Username,
		IsConfirmed:  u.IsConfirmed,
		IsSubscribed: u.IsSubscribed,
	}
}

func toUserSearchResult(u *domain.User) UserSearchResult {
	return UserSearchResult{ID: u.ID, Username: u.Username}
}
