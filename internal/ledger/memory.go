package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

type memoryEntry struct {
	seq int64
	req models.SwapRequest
}

// MemoryRepository хранит предложения в памяти
type MemoryRepository struct {
	mu      sync.RWMutex
	seq     int64
	entries map[uuid.UUID]memoryEntry
}

// NewMemoryRepository создает пустое хранилище предложений
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[uuid.UUID]memoryEntry)}
}

func (r *MemoryRepository) Insert(ctx context.Context, req models.SwapRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.entries[req.ID] = memoryEntry{seq: r.seq, req: req}
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id uuid.UUID) (*models.SwapRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	req := e.req
	return &req, nil
}

func (r *MemoryRepository) Transition(ctx context.Context, id uuid.UUID, from, to models.SwapStatus, at time.Time) (*models.SwapRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if e.req.Status != from {
		return nil, ErrInvalidTransition
	}

	e.req.Status = to
	e.req.RespondedAt = &at
	r.entries[id] = e

	req := e.req
	return &req, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *MemoryRepository) ListForUser(ctx context.Context, userID uuid.UUID, status models.SwapStatus) ([]models.SwapRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []memoryEntry
	for _, e := range r.entries {
		if !e.req.Involves(userID) {
			continue
		}
		if status != "" && e.req.Status != status {
			continue
		}
		matched = append(matched, e)
	}

	// Новые первыми; при равном времени - позже добавленные первыми
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.req.CreatedAt.Equal(b.req.CreatedAt) {
			return a.req.CreatedAt.After(b.req.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]models.SwapRequest, 0, len(matched))
	for _, e := range matched {
		out = append(out, e.req)
	}
	return out, nil
}
