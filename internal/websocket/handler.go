package websocket

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Authenticator проверяет токен из строки запроса и возвращает ID пользователя
type Authenticator func(r *http.Request, token string) (uuid.UUID, error)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Mini App открывается с домена Telegram, origin не проверяем
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler возвращает HTTP обработчик, который поднимает WebSocket соединение
// для пользователя из токена ?token=<jwt>
func (m *Manager) Handler(auth Authenticator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		userID, err := auth(r, token)
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ Ошибка апгрейда WebSocket: %v", err)
			return
		}

		NewClient(userID, conn, m).Start()
	})
}
