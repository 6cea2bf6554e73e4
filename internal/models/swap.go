package models

import (
	"time"

	"github.com/google/uuid"
)

// SwapStatus определяет состояние предложения обмена
type SwapStatus string

const (
	SwapStatusPending  SwapStatus = "pending"
	SwapStatusAccepted SwapStatus = "accepted"
	SwapStatusRejected SwapStatus = "rejected"
)

// ParseSwapStatus разбирает фильтр статуса; "", "all" и "any" дают пустой статус (без фильтра)
func ParseSwapStatus(s string) (SwapStatus, bool) {
	switch s {
	case "", "all", "any":
		return "", true
	case string(SwapStatusPending), string(SwapStatusAccepted), string(SwapStatusRejected):
		return SwapStatus(s), true
	}
	return "", false
}

// IsTerminal сообщает, что статус больше не может измениться
func (s SwapStatus) IsTerminal() bool {
	return s == SwapStatusAccepted || s == SwapStatusRejected
}

// Direction показывает, отправлено предложение зрителем или получено им
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// SwapRequest представляет предложение обменять один навык на другой
type SwapRequest struct {
	ID           uuid.UUID  `json:"id"`
	RequesterID  uuid.UUID  `json:"requester_id"`
	RecipientID  uuid.UUID  `json:"recipient_id"`
	OfferedSkill string     `json:"offered_skill"`
	WantedSkill  string     `json:"wanted_skill"`
	Message      string     `json:"message"`
	Status       SwapStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
}

// Involves проверяет, является ли пользователь участником предложения
func (r *SwapRequest) Involves(userID uuid.UUID) bool {
	return r.RequesterID == userID || r.RecipientID == userID
}

// Direction возвращает направление предложения с точки зрения зрителя
func (r *SwapRequest) Direction(viewerID uuid.UUID) Direction {
	if r.RequesterID == viewerID {
		return DirectionSent
	}
	return DirectionReceived
}

// Counterpart возвращает ID другой стороны предложения
func (r *SwapRequest) Counterpart(userID uuid.UUID) uuid.UUID {
	if r.RequesterID == userID {
		return r.RecipientID
	}
	return r.RequesterID
}

// SwapView - предложение вместе с направлением для конкретного зрителя
type SwapView struct {
	SwapRequest
	Direction Direction `json:"direction"`
}

// Connection - производная связь двух пользователей с хотя бы одним принятым обменом
type Connection struct {
	UserID       uuid.UUID `json:"user_id"`
	PartnerID    uuid.UUID `json:"partner_id"`
	RequestID    uuid.UUID `json:"request_id"`
	OfferedSkill string    `json:"offered_skill"`
	WantedSkill  string    `json:"wanted_skill"`
	ConnectedAt  time.Time `json:"connected_at"`

	// Дополнительные поля для API
	Partner *UserProfile `json:"partner,omitempty"`
}
