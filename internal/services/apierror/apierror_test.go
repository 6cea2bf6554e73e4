package apierror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"

	"github.com/rajivgeraev/skillswap-api/internal/chat"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
	"github.com/rajivgeraev/skillswap-api/internal/reviews"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&ledger.ValidationError{Reason: ledger.ReasonSelfRequest}, fiber.StatusBadRequest},
		{chat.ErrEmptyMessage, fiber.StatusBadRequest},
		{reviews.ErrInvalidRating, fiber.StatusBadRequest},
		{ledger.ErrNotFound, fiber.StatusNotFound},
		{fmt.Errorf("пользователь: %w", profile.ErrNotFound), fiber.StatusNotFound},
		{ledger.ErrNotAuthorized, fiber.StatusForbidden},
		{chat.ErrNotConnected, fiber.StatusForbidden},
		{ledger.ErrInvalidTransition, fiber.StatusConflict},
		{reviews.ErrAlreadyReviewed, fiber.StatusConflict},
		{context.Canceled, fiber.StatusServiceUnavailable},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}
