package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

func startServer(t *testing.T, m *Manager, users map[string]uuid.UUID) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(m.Handler(func(r *http.Request, token string) (uuid.UUID, error) {
		if id, ok := users[token]; ok {
			return id, nil
		}
		return uuid.Nil, errors.New("unknown token")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	return websocket.DefaultDialer.Dial(url, nil)
}

func TestHandler_RejectsBadToken(t *testing.T) {
	m := NewManager()
	t.Cleanup(m.Shutdown)
	srv := startServer(t, m, map[string]uuid.UUID{})

	_, resp, err := dial(t, srv, "nope")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = dial(t, srv, "")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNotify_DeliversToEveryConnectionOfUser(t *testing.T) {
	m := NewManager()
	t.Cleanup(m.Shutdown)
	alice, bob := uuid.New(), uuid.New()
	srv := startServer(t, m, map[string]uuid.UUID{"alice": alice, "bob": bob})

	phone, _, err := dial(t, srv, "alice")
	require.NoError(t, err)
	defer phone.Close()
	laptop, _, err := dial(t, srv, "alice")
	require.NoError(t, err)
	defer laptop.Close()

	require.Eventually(t, func() bool {
		m.userMutex.RLock()
		defer m.userMutex.RUnlock()
		return len(m.userClients[alice]) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, m.IsOnline(bob))

	m.Notify(alice, models.EventSwapCreated, map[string]string{"id": "42"})

	for _, conn := range []*websocket.Conn{phone, laptop} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, models.EventSwapCreated, ev.Type)
		assert.Equal(t, alice.String(), ev.UserID)
		assert.JSONEq(t, `{"id":"42"}`, string(ev.Payload))
		assert.False(t, ev.Timestamp.IsZero())
	}

	// Офлайн-пользователю событие просто не доставляется
	m.Notify(bob, models.EventNewMessage, map[string]string{"text": "hi"})
}

func TestClient_PingAndDisconnect(t *testing.T) {
	m := NewManager()
	t.Cleanup(m.Shutdown)
	alice := uuid.New()
	srv := startServer(t, m, map[string]uuid.UUID{"alice": alice})

	conn, _, err := dial(t, srv, "alice")
	require.NoError(t, err)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var reply map[string]any
	require.NoError(t, json.Unmarshal(data, &reply))
	assert.Equal(t, "pong", reply["type"])

	require.Eventually(t, func() bool { return m.IsOnline(alice) }, 2*time.Second, 10*time.Millisecond)
	conn.Close()
	assert.Eventually(t, func() bool { return !m.IsOnline(alice) }, 2*time.Second, 10*time.Millisecond)
}
