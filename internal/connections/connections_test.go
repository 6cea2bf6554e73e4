package connections

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
)

type world struct {
	ledger  *ledger.Ledger
	deriver *Deriver
	alice   uuid.UUID
	bob     uuid.UUID
	carol   uuid.UUID
}

func newWorld(t *testing.T) *world {
	t.Helper()
	ctx := context.Background()
	profiles := profile.NewMemoryStore()

	create := func(name string) uuid.UUID {
		p, err := profiles.Create(ctx, models.UserProfile{
			DisplayName:   name,
			SkillsOffered: []string{"Go", "SQL"},
			SkillsWanted:  []string{"Go", "SQL"},
		})
		require.NoError(t, err)
		return p.ID
	}

	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Minute)
		return now
	}

	l := ledger.New(ledger.NewMemoryRepository(), profiles, ledger.WithClock(clock))
	return &world{
		ledger:  l,
		deriver: NewDeriver(l),
		alice:   create("Alice"),
		bob:     create("Bob"),
		carol:   create("Carol"),
	}
}

func (w *world) swap(t *testing.T, from, to uuid.UUID, offered, wanted string) *models.SwapRequest {
	t.Helper()
	req, err := w.ledger.Submit(context.Background(), from, to, offered, wanted, "let's trade")
	require.NoError(t, err)
	return req
}

func TestCanMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("pending request does not connect", func(t *testing.T) {
		w := newWorld(t)
		w.swap(t, w.alice, w.bob, "Go", "SQL")

		ok, err := w.deriver.CanMessage(ctx, w.alice, w.bob)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("acceptance connects both directions", func(t *testing.T) {
		w := newWorld(t)
		req := w.swap(t, w.alice, w.bob, "Go", "SQL")
		_, err := w.ledger.Accept(ctx, req.ID, w.bob)
		require.NoError(t, err)

		ok, err := w.deriver.CanMessage(ctx, w.alice, w.bob)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = w.deriver.CanMessage(ctx, w.bob, w.alice)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = w.deriver.CanMessage(ctx, w.alice, w.carol)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("later rejection keeps the connection", func(t *testing.T) {
		w := newWorld(t)
		first := w.swap(t, w.alice, w.bob, "Go", "SQL")
		_, err := w.ledger.Accept(ctx, first.ID, w.bob)
		require.NoError(t, err)

		second := w.swap(t, w.bob, w.alice, "SQL", "Go")
		_, err = w.ledger.Reject(ctx, second.ID, w.alice)
		require.NoError(t, err)

		ok, err := w.deriver.CanMessage(ctx, w.alice, w.bob)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("deleting the last accepted request disconnects", func(t *testing.T) {
		w := newWorld(t)
		req := w.swap(t, w.alice, w.bob, "Go", "SQL")
		_, err := w.ledger.Accept(ctx, req.ID, w.bob)
		require.NoError(t, err)

		_, err = w.ledger.Delete(ctx, req.ID, w.alice)
		require.NoError(t, err)

		ok, err := w.deriver.CanMessage(ctx, w.alice, w.bob)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("nobody messages themselves", func(t *testing.T) {
		w := newWorld(t)
		ok, err := w.deriver.CanMessage(ctx, w.alice, w.alice)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestConnectionsFor(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	older := w.swap(t, w.alice, w.bob, "Go", "SQL")
	withCarol := w.swap(t, w.carol, w.alice, "SQL", "Go")
	newer := w.swap(t, w.bob, w.alice, "SQL", "SQL")
	w.swap(t, w.alice, w.carol, "SQL", "SQL") // остаётся pending

	_, err := w.ledger.Accept(ctx, older.ID, w.bob)
	require.NoError(t, err)
	_, err = w.ledger.Accept(ctx, withCarol.ID, w.alice)
	require.NoError(t, err)
	_, err = w.ledger.Accept(ctx, newer.ID, w.alice)
	require.NoError(t, err)

	conns, err := w.deriver.ConnectionsFor(ctx, w.alice)
	require.NoError(t, err)
	require.Len(t, conns, 2)

	// Bob: последняя принятая пара - встречное предложение
	assert.Equal(t, w.bob, conns[0].PartnerID)
	assert.Equal(t, newer.ID, conns[0].RequestID)
	assert.Equal(t, "SQL", conns[0].OfferedSkill)
	assert.Equal(t, "SQL", conns[0].WantedSkill)
	assert.Equal(t, w.alice, conns[0].UserID)

	assert.Equal(t, w.carol, conns[1].PartnerID)
	assert.True(t, conns[0].ConnectedAt.After(conns[1].ConnectedAt))

	// Удаление новой пары возвращает предыдущую
	_, err = w.ledger.Delete(ctx, newer.ID, w.bob)
	require.NoError(t, err)

	conns, err = w.deriver.ConnectionsFor(ctx, w.alice)
	require.NoError(t, err)
	require.Len(t, conns, 2)
	assert.Equal(t, w.carol, conns[0].PartnerID)
	assert.Equal(t, w.bob, conns[1].PartnerID)
	assert.Equal(t, older.ID, conns[1].RequestID)

	bobConns, err := w.deriver.ConnectionsFor(ctx, w.bob)
	require.NoError(t, err)
	require.Len(t, bobConns, 1)
	assert.Equal(t, w.alice, bobConns[0].PartnerID)
}
