// Package connections выводит связи между пользователями из принятых предложений обмена.
// Связи не хранятся отдельно и пересчитываются при каждом запросе.
package connections

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// SwapLister - источник предложений, видимых пользователю
type SwapLister interface {
	List(ctx context.Context, viewerID uuid.UUID, status models.SwapStatus) ([]models.SwapView, error)
}

// Deriver вычисляет связи по текущему содержимому ledger
type Deriver struct {
	swaps SwapLister
}

// NewDeriver создает Deriver
func NewDeriver(swaps SwapLister) *Deriver {
	return &Deriver{swaps: swaps}
}

// ConnectionsFor возвращает по одной связи на каждого партнёра с принятым обменом.
// Для партнёра показывается последняя принятая пара навыков; свежие связи идут первыми.
func (d *Deriver) ConnectionsFor(ctx context.Context, userID uuid.UUID) ([]models.Connection, error) {
	accepted, err := d.swaps.List(ctx, userID, models.SwapStatusAccepted)
	if err != nil {
		return nil, err
	}

	byPartner := make(map[uuid.UUID]models.Connection)
	for _, req := range accepted {
		if req.Status != models.SwapStatusAccepted {
			continue
		}
		conn := models.Connection{
			UserID:       userID,
			PartnerID:    req.Counterpart(userID),
			RequestID:    req.ID,
			OfferedSkill: req.OfferedSkill,
			WantedSkill:  req.WantedSkill,
			ConnectedAt:  acceptedAt(req.SwapRequest),
		}
		if existing, ok := byPartner[conn.PartnerID]; ok && !conn.ConnectedAt.After(existing.ConnectedAt) {
			continue
		}
		byPartner[conn.PartnerID] = conn
	}

	out := make([]models.Connection, 0, len(byPartner))
	for _, conn := range byPartner {
		out = append(out, conn)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ConnectedAt.Equal(out[j].ConnectedAt) {
			return out[i].ConnectedAt.After(out[j].ConnectedAt)
		}
		return out[i].PartnerID.String() < out[j].PartnerID.String()
	})
	return out, nil
}

// CanMessage сообщает, связаны ли пользователи хотя бы одним принятым обменом
func (d *Deriver) CanMessage(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	if userA == userB {
		return false, nil
	}
	accepted, err := d.swaps.List(ctx, userA, models.SwapStatusAccepted)
	if err != nil {
		return false, err
	}
	for _, req := range accepted {
		if req.Status == models.SwapStatusAccepted && req.Counterpart(userA) == userB {
			return true, nil
		}
	}
	return false, nil
}

func acceptedAt(req models.SwapRequest) time.Time {
	if req.RespondedAt != nil {
		return *req.RespondedAt
	}
	return req.CreatedAt
}
