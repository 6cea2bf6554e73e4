package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatcore "github.com/rajivgeraev/skillswap-api/internal/chat"
	"github.com/rajivgeraev/skillswap-api/internal/connections"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/profile"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

type user struct {
	id    uuid.UUID
	token string
}

type testEnv struct {
	app    *fiber.App
	ledger *ledger.Ledger
	emily  user
	alex   user
	david  user
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	profiles := profile.NewMemoryStore()
	jwtService := utils.NewJWTService("secret")

	create := func(name string, offers, wants []string) user {
		p, err := profiles.Create(ctx, models.UserProfile{DisplayName: name, SkillsOffered: offers, SkillsWanted: wants, IsPublic: true})
		require.NoError(t, err)
		token, err := jwtService.GenerateToken(p.ID.String())
		require.NoError(t, err)
		return user{id: p.ID, token: token}
	}

	l := ledger.New(ledger.NewMemoryRepository(), profiles)
	deriver := connections.NewDeriver(l)
	app := fiber.New()
	NewChatService(chatcore.NewService(chatcore.NewMemoryStore(), deriver, nil), deriver, profiles,
		middleware.AuthMiddleware(jwtService, nil)).SetupRoutes(app)

	return &testEnv{
		app:    app,
		ledger: l,
		emily:  create("Emily Rodriguez", []string{"Spanish"}, []string{"Guitar"}),
		alex:   create("Alex Thompson", []string{"Guitar"}, []string{"Spanish"}),
		david:  create("David Kumar", []string{"Python"}, nil),
	}
}

func (e *testEnv) connect(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	req, err := e.ledger.Submit(ctx, e.emily.id, e.alex.id, "Spanish", "Spanish", "¿Hola?")
	require.NoError(t, err)
	_, err = e.ledger.Accept(ctx, req.ID, e.alex.id)
	require.NoError(t, err)
}

func (e *testEnv) do(t *testing.T, method, path string, u user, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+u.token)

	resp, err := e.app.Test(req)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestChatRequiresConnection(t *testing.T) {
	env := setup(t)
	path := "/api/chats/" + env.alex.id.String() + "/messages"

	status, _ := env.do(t, http.MethodPost, path, env.emily, `{"text":"hi"}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(t, http.MethodGet, path, env.emily, "")
	assert.Equal(t, http.StatusForbidden, status)

	status, out := env.do(t, http.MethodGet, "/api/connections", env.emily, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, out["count"])
}

func TestChatConversation(t *testing.T) {
	env := setup(t)
	env.connect(t)

	status, out := env.do(t, http.MethodGet, "/api/connections", env.alex, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, out["count"])
	conn := out["connections"].([]any)[0].(map[string]any)
	assert.Equal(t, env.emily.id.String(), conn["partner_id"])
	assert.Equal(t, "Emily Rodriguez", conn["partner"].(map[string]any)["display_name"])

	toAlex := "/api/chats/" + env.alex.id.String() + "/messages"
	toEmily := "/api/chats/" + env.emily.id.String() + "/messages"

	status, msg := env.do(t, http.MethodPost, toAlex, env.emily, `{"text":"When can we start?"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, env.alex.id.String(), msg["recipient_id"])

	status, _ = env.do(t, http.MethodPost, toEmily, env.alex, `{"text":"Saturday?"}`)
	require.Equal(t, http.StatusCreated, status)

	status, _ = env.do(t, http.MethodPost, toEmily, env.alex, `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, out = env.do(t, http.MethodGet, toAlex, env.emily, "")
	require.Equal(t, http.StatusOK, status)
	msgs := out["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "When can we start?", msgs[0].(map[string]any)["text"])
	assert.Equal(t, "Saturday?", msgs[1].(map[string]any)["text"])

	status, out = env.do(t, http.MethodGet, toAlex+"?limit=1", env.emily, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, out["count"])

	// Посторонний пользователь не может писать ни одному из них
	status, _ = env.do(t, http.MethodPost, toEmily, env.david, `{"text":"hey"}`)
	assert.Equal(t, http.StatusForbidden, status)
}
