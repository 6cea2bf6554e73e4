package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/discovery"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

func setup(t *testing.T) (*fiber.App, string) {
	t.Helper()
	ctx := context.Background()
	profiles := profile.NewMemoryStore()

	mocks := []models.UserProfile{
		{DisplayName: "Sarah Johnson", SkillsOffered: []string{"Photoshop", "Graphic Design"}, SkillsWanted: []string{"Excel"}, Availability: models.AvailabilityWeekends, IsPublic: true},
		{DisplayName: "Michael Chen", SkillsOffered: []string{"JavaScript", "React"}, SkillsWanted: []string{"Photography"}, Availability: models.AvailabilityEvenings, IsPublic: true},
		{DisplayName: "Emily Rodriguez", SkillsOffered: []string{"Spanish"}, SkillsWanted: []string{"Guitar"}, Availability: models.AvailabilityFlexible, IsPublic: true},
		{DisplayName: "David Kumar", SkillsOffered: []string{"Python"}, SkillsWanted: []string{"Photoshop"}, Availability: models.AvailabilityWeekends, IsPublic: true},
		{DisplayName: "Lisa Zhang", SkillsOffered: []string{"Excel"}, SkillsWanted: []string{"JavaScript"}, Availability: models.AvailabilityEvenings, IsPublic: true},
		{DisplayName: "Alex Thompson", SkillsOffered: []string{"Guitar"}, SkillsWanted: []string{"Spanish"}, Availability: models.AvailabilityFlexible, IsPublic: true},
		{DisplayName: "Hidden Photographer", SkillsOffered: []string{"Photography"}, Availability: models.AvailabilityWeekends, IsPublic: false},
	}
	for _, p := range mocks {
		_, err := profiles.Create(ctx, p)
		require.NoError(t, err)
	}

	viewer, err := profiles.Create(ctx, models.UserProfile{DisplayName: "Photo Fan", SkillsWanted: []string{"Photography"}, IsPublic: true})
	require.NoError(t, err)

	jwtService := utils.NewJWTService("secret")
	token, err := jwtService.GenerateToken(viewer.ID.String())
	require.NoError(t, err)

	app := fiber.New()
	cfg := &config.Config{DiscoveryConfig: config.DiscoveryConfig{PageSize: 4}}
	NewDiscoveryService(cfg, profiles, middleware.AuthMiddleware(jwtService, nil)).SetupRoutes(app)
	return app, token
}

func search(t *testing.T, app *fiber.App, token, query string) discovery.Result {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/profiles"+query, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out discovery.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func names(r discovery.Result) []string {
	out := make([]string, 0, len(r.Items))
	for _, p := range r.Items {
		out = append(out, p.DisplayName)
	}
	return out
}

func TestSearch(t *testing.T) {
	app, token := setup(t)

	t.Run("first page excludes viewer and hidden profiles", func(t *testing.T) {
		r := search(t, app, token, "")
		assert.Equal(t, 6, r.TotalMatches)
		assert.Equal(t, 2, r.TotalPages)
		assert.Equal(t, 4, r.PageSize)
		assert.Equal(t, []string{"Sarah Johnson", "Michael Chen", "Emily Rodriguez", "David Kumar"}, names(r))
	})

	t.Run("second page", func(t *testing.T) {
		r := search(t, app, token, "?page=2")
		assert.Equal(t, []string{"Lisa Zhang", "Alex Thompson"}, names(r))
	})

	t.Run("page out of range", func(t *testing.T) {
		r := search(t, app, token, "?page=9")
		assert.Empty(t, r.Items)
		assert.Equal(t, 6, r.TotalMatches)
	})

	t.Run("max int page is empty", func(t *testing.T) {
		r := search(t, app, token, "?page=9223372036854775807")
		assert.Empty(t, r.Items)
		assert.Equal(t, 6, r.TotalMatches)
	})

	t.Run("search matches wanted skills case-insensitively", func(t *testing.T) {
		r := search(t, app, token, "?q=photo")
		assert.Equal(t, []string{"Sarah Johnson", "Michael Chen", "David Kumar"}, names(r))
	})

	t.Run("availability facet", func(t *testing.T) {
		r := search(t, app, token, "?availability=evenings")
		assert.Equal(t, []string{"Michael Chen", "Lisa Zhang"}, names(r))

		r = search(t, app, token, "?availability=all&q=guitar")
		assert.Equal(t, []string{"Emily Rodriguez", "Alex Thompson"}, names(r))
	})

	t.Run("garbage page falls back to first", func(t *testing.T) {
		r := search(t, app, token, "?page=abc")
		assert.Equal(t, 1, r.Page)
	})
}
