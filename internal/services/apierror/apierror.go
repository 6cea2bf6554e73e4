// Package apierror переводит ошибки доменных пакетов в HTTP ответы
package apierror

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/chat"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
	"github.com/rajivgeraev/skillswap-api/internal/reviews"
)

// Status возвращает HTTP статус для ошибки
func Status(err error) int {
	switch {
	case errors.Is(err, ledger.ErrValidation),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrMessageTooLong),
		errors.Is(err, reviews.ErrInvalidRating),
		errors.Is(err, reviews.ErrCommentTooLong):
		return fiber.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, profile.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ledger.ErrNotAuthorized), errors.Is(err, chat.ErrNotConnected):
		return fiber.StatusForbidden
	case errors.Is(err, ledger.ErrInvalidTransition),
		errors.Is(err, reviews.ErrNotAccepted),
		errors.Is(err, reviews.ErrAlreadyReviewed),
		errors.Is(err, profile.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// Respond пишет JSON с ошибкой. Внутренние ошибки логируются и не раскрываются клиенту.
func Respond(c fiber.Ctx, err error) error {
	status := Status(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(status).JSON(fiber.Map{"error": "Внутренняя ошибка сервера"})
	}

	body := fiber.Map{"error": err.Error()}
	if reason, ok := ledger.ReasonOf(err); ok {
		body["reason"] = reason
	}
	return c.Status(status).JSON(body)
}
