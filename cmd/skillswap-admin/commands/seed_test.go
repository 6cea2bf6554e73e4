package commands

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
)

func TestParseSeed_DemoFile(t *testing.T) {
	f, err := os.Open("../../../configs/demo_profiles.yaml")
	require.NoError(t, err)
	defer f.Close()

	profiles, err := parseSeed(f)
	require.NoError(t, err)
	require.Len(t, profiles, 6)

	sarah := profiles[0]
	assert.Equal(t, "Sarah Johnson", sarah.DisplayName)
	assert.Equal(t, int64(1001), sarah.TelegramID)
	assert.Equal(t, []string{"React", "TypeScript", "UI/UX Design"}, sarah.SkillsOffered)
	assert.Equal(t, models.AvailabilityWeekends, sarah.Availability)
	assert.Equal(t, 4.8, sarah.Rating)
	assert.Equal(t, 24, sarah.ReviewCount)
	assert.True(t, sarah.IsPublic)
}

func TestParseSeed_Errors(t *testing.T) {
	_, err := parseSeed(strings.NewReader("profiles:\n  - location: nowhere\n"))
	assert.Error(t, err)

	_, err = parseSeed(strings.NewReader("profiles:\n  - display_name: X\n    availability: mornings\n"))
	assert.Error(t, err)

	profiles, err := parseSeed(strings.NewReader("profiles:\n  - display_name: X\n    availability: evenings\n  - display_name: Y\n"))
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityEvenings, profiles[0].Availability)
	assert.Equal(t, models.AvailabilityFlexible, profiles[1].Availability)
}

func TestSeedProfiles_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := profile.NewMemoryStore()
	input := []models.UserProfile{
		{TelegramID: 1, DisplayName: "A", IsPublic: true},
		{TelegramID: 2, DisplayName: "B", IsPublic: true},
		{DisplayName: "No Telegram"},
	}

	created, skipped, err := seedProfiles(ctx, store, input)
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Equal(t, 0, skipped)

	created, skipped, err = seedProfiles(ctx, store, input[:2])
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 2, skipped)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	var out bytes.Buffer
	require.NoError(t, printProfiles(&out, list))
	assert.Contains(t, out.String(), "No Telegram")
	assert.Contains(t, out.String(), "ДОСТУПНОСТЬ")
}
