package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// Manager представляет центральный менеджер для всех WebSocket соединений
type Manager struct {
	clients      map[uuid.UUID]*Client
	clientsMutex sync.RWMutex
	userClients  map[uuid.UUID]map[uuid.UUID]bool // userID -> map[clientID]bool
	userMutex    sync.RWMutex
	ctx          context.Context
	cancel       context.CancelFunc
}

// Event представляет структуру сообщения для WebSocket
type Event struct {
	Type      models.EventType `json:"type"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   json.RawMessage  `json:"payload,omitempty"`
}

// NewManager создает новый экземпляр Manager
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[uuid.UUID]map[uuid.UUID]bool),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// AddClient регистрирует нового клиента
func (m *Manager) AddClient(client *Client) {
	m.clientsMutex.Lock()
	m.clients[client.ID] = client
	m.clientsMutex.Unlock()

	// Связываем клиент с пользователем
	m.userMutex.Lock()
	if _, exists := m.userClients[client.UserID]; !exists {
		m.userClients[client.UserID] = make(map[uuid.UUID]bool)
	}
	m.userClients[client.UserID][client.ID] = true
	m.userMutex.Unlock()

	log.Printf("🔌 WebSocket клиент %s подключен для пользователя %s", client.ID, client.UserID)
}

// RemoveClient удаляет клиента
func (m *Manager) RemoveClient(clientID uuid.UUID) {
	m.clientsMutex.Lock()
	client, exists := m.clients[clientID]
	if exists {
		delete(m.clients, clientID)
	}
	m.clientsMutex.Unlock()

	if !exists {
		return
	}

	userID := client.UserID

	m.userMutex.Lock()
	if clients, ok := m.userClients[userID]; ok {
		delete(clients, clientID)
		// Последнее соединение пользователя закрыто
		if len(clients) == 0 {
			delete(m.userClients, userID)
		}
	}
	m.userMutex.Unlock()

	log.Printf("🔌 WebSocket клиент %s отключен для пользователя %s", clientID, userID)
}

// IsOnline сообщает, есть ли у пользователя открытые соединения
func (m *Manager) IsOnline(userID uuid.UUID) bool {
	m.userMutex.RLock()
	defer m.userMutex.RUnlock()
	return len(m.userClients[userID]) > 0
}

// Notify сериализует payload и отправляет событие всем соединениям пользователя
func (m *Manager) Notify(userID uuid.UUID, eventType models.EventType, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("❌ Ошибка сериализации события %s: %v", eventType, err)
		return
	}
	m.SendToUser(userID, Event{
		Type:    eventType,
		UserID:  userID.String(),
		Payload: data,
	})
}

// SendToUser отправляет событие всем соединениям конкретного пользователя.
// Доставка негарантированная: офлайн-пользователь увидит данные при следующем запросе к API.
func (m *Manager) SendToUser(userID uuid.UUID, event Event) {
	if userID == uuid.Nil {
		return
	}

	m.userMutex.RLock()
	clientIDs := make([]uuid.UUID, 0, len(m.userClients[userID]))
	for id := range m.userClients[userID] {
		clientIDs = append(clientIDs, id)
	}
	m.userMutex.RUnlock()

	if len(clientIDs) == 0 {
		return
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Ошибка сериализации события: %v", err)
		return
	}

	for _, clientID := range clientIDs {
		m.clientsMutex.RLock()
		client, exists := m.clients[clientID]
		m.clientsMutex.RUnlock()

		if !exists {
			continue
		}

		select {
		case client.send <- eventJSON:
		default:
			// Канал заполнен, клиент слишком медленный - закрываем соединение
			log.Printf("⚠️ Очередь клиента %s переполнена, закрываем соединение", client.ID)
			client.conn.Close()
			m.RemoveClient(client.ID)
		}
	}
}

// Shutdown корректно завершает работу менеджера WebSocket
func (m *Manager) Shutdown() {
	m.cancel()

	m.clientsMutex.Lock()
	for _, client := range m.clients {
		client.conn.Close()
	}
	m.clients = make(map[uuid.UUID]*Client)
	m.clientsMutex.Unlock()

	m.userMutex.Lock()
	m.userClients = make(map[uuid.UUID]map[uuid.UUID]bool)
	m.userMutex.Unlock()
}
