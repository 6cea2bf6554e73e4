package models

import (
	"time"

	"github.com/google/uuid"
)

// Message представляет сообщение между двумя связанными пользователями
type Message struct {
	ID          uuid.UUID `json:"id"`
	SenderID    uuid.UUID `json:"sender_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// Feedback - отзыв об участнике по итогам принятого обмена
type Feedback struct {
	ID            uuid.UUID `json:"id"`
	SwapRequestID uuid.UUID `json:"swap_request_id"`
	AuthorID      uuid.UUID `json:"author_id"`
	SubjectID     uuid.UUID `json:"subject_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
