package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create normalizes skills and keeps insertion order", func(t *testing.T) {
		s := NewMemoryStore()

		first, err := s.Create(ctx, models.UserProfile{
			DisplayName:   " Sarah ",
			SkillsOffered: []string{"React", "react", "React", " ", "TypeScript"},
			SkillsWanted:  []string{"Python", "Python"},
			Availability:  models.AvailabilityWeekends,
			Rating:        7,
		})
		require.NoError(t, err)
		_, err = s.Create(ctx, models.UserProfile{DisplayName: "Michael"})
		require.NoError(t, err)

		assert.Equal(t, "Sarah", first.DisplayName)
		assert.Equal(t, []string{"React", "react", "TypeScript"}, first.SkillsOffered)
		assert.Equal(t, []string{"Python"}, first.SkillsWanted)
		assert.Equal(t, 5.0, first.Rating)

		all, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Sarah", all[0].DisplayName)
		assert.Equal(t, "Michael", all[1].DisplayName)
	})

	t.Run("duplicate telegram id", func(t *testing.T) {
		s := NewMemoryStore()
		_, err := s.Create(ctx, models.UserProfile{DisplayName: "A", TelegramID: 42})
		require.NoError(t, err)

		_, err = s.Create(ctx, models.UserProfile{DisplayName: "B", TelegramID: 42})
		assert.ErrorIs(t, err, ErrAlreadyExists)

		found, err := s.GetByTelegramID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "A", found.DisplayName)
	})

	t.Run("update is visible immediately", func(t *testing.T) {
		s := NewMemoryStore()
		p, err := s.Create(ctx, models.UserProfile{DisplayName: "A", SkillsOffered: []string{"Go"}})
		require.NoError(t, err)

		private := false
		updated, err := s.Update(ctx, p.ID, Edit{
			SkillsOffered: []string{"Rust", "Rust"},
			IsPublic:      &private,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Rust"}, updated.SkillsOffered)
		assert.False(t, updated.IsPublic)

		got, err := s.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Rust"}, got.SkillsOffered)
		assert.Equal(t, "A", got.DisplayName)
	})

	t.Run("returned profiles are copies", func(t *testing.T) {
		s := NewMemoryStore()
		p, err := s.Create(ctx, models.UserProfile{DisplayName: "A", SkillsOffered: []string{"Go"}})
		require.NoError(t, err)

		p.SkillsOffered[0] = "mutated"

		got, err := s.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Go"}, got.SkillsOffered)
	})

	t.Run("unknown profile", func(t *testing.T) {
		s := NewMemoryStore()
		_, err := s.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.Update(ctx, uuid.New(), Edit{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("apply rating", func(t *testing.T) {
		s := NewMemoryStore()
		p, err := s.Create(ctx, models.UserProfile{DisplayName: "A", Rating: 4.0, ReviewCount: 1})
		require.NoError(t, err)

		updated, err := s.ApplyRating(ctx, p.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 4.5, updated.Rating)
		assert.Equal(t, 2, updated.ReviewCount)
	})
}

func TestAddRating(t *testing.T) {
	p := &models.UserProfile{}
	AddRating(p, 3)
	assert.Equal(t, 3.0, p.Rating)
	assert.Equal(t, 1, p.ReviewCount)

	seeded := &models.UserProfile{Rating: 4.8, ReviewCount: 24}
	AddRating(seeded, 1)
	assert.Equal(t, 4.6, seeded.Rating)
	assert.Equal(t, 25, seeded.ReviewCount)
	assert.InDelta(t, 116.2, seeded.RatingTotal, 1e-9)
}

func TestAddRating_NoRoundingDrift(t *testing.T) {
	// 8/7 = 1.14; при пересчёте от округлённого среднего получилось бы 1.2
	p := &models.UserProfile{}
	for _, r := range []int{1, 1, 1, 1, 1, 2, 1} {
		AddRating(p, r)
	}
	assert.Equal(t, 1.1, p.Rating)
	assert.Equal(t, 7, p.ReviewCount)
	assert.Equal(t, 8.0, p.RatingTotal)
}

func TestApplyRating_KeepsTotal(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p, err := s.Create(ctx, models.UserProfile{DisplayName: "A"})
	require.NoError(t, err)

	for _, r := range []int{1, 1, 1, 1, 1, 2, 1} {
		p, err = s.ApplyRating(ctx, p.ID, r)
		require.NoError(t, err)
	}
	assert.Equal(t, 1.1, p.Rating)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, got.RatingTotal)
}
