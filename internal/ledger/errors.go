package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation совпадает (errors.Is) с любой ValidationError
	ErrValidation        = errors.New("некорректное предложение обмена")
	ErrNotFound          = errors.New("предложение обмена не найдено")
	ErrNotAuthorized     = errors.New("недостаточно прав для действия с предложением")
	ErrInvalidTransition = errors.New("предложение уже не находится в ожидании")
)

// Reason - причина отказа в создании предложения
type Reason string

const (
	ReasonMissingField    Reason = "MissingField"
	ReasonSkillNotOffered Reason = "SkillNotOffered"
	ReasonSkillNotWanted  Reason = "SkillNotWanted"
	ReasonSelfRequest     Reason = "SelfRequest"
)

// ValidationError описывает ошибку проверки при создании предложения
type ValidationError struct {
	Reason Reason
	Field  string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingField:
		return fmt.Sprintf("не заполнено обязательное поле: %s", e.Field)
	case ReasonSkillNotOffered:
		return "вы не предлагаете этот навык"
	case ReasonSkillNotWanted:
		return "получатель не ищет этот навык"
	case ReasonSelfRequest:
		return "нельзя предложить обмен самому себе"
	}
	return string(e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ReasonOf возвращает причину ошибки проверки, если она есть
func ReasonOf(err error) (Reason, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return "", false
}
