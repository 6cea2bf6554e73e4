package models

// EventType - тип события, которое отправляется пользователю в реальном времени
type EventType string

const (
	EventSwapCreated  EventType = "swap_created"
	EventSwapAccepted EventType = "swap_accepted"
	EventSwapRejected EventType = "swap_rejected"
	EventSwapDeleted  EventType = "swap_deleted"
	EventNewMessage   EventType = "new_message"
)
