package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Максимальное время ожидания для pong от клиента
	pongWait = 60 * time.Second

	// Отправлять ping-сообщения клиенту с этим интервалом
	pingPeriod = (pongWait * 9) / 10

	writeWait = 10 * time.Second

	// Клиент присылает только служебные сообщения
	maxMessageSize = 4 * 1024

	// Размер буфера для отправляемых сообщений
	writeBufferSize = 256
)

// Client представляет собой отдельное WebSocket соединение
type Client struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	conn      *websocket.Conn
	send      chan []byte // Буферизованный канал исходящих сообщений
	manager   *Manager
	closeChan chan struct{}
}

// NewClient создает новый экземпляр Client
func NewClient(userID uuid.UUID, conn *websocket.Conn, manager *Manager) *Client {
	return &Client{
		ID:        uuid.New(),
		UserID:    userID,
		conn:      conn,
		send:      make(chan []byte, writeBufferSize),
		manager:   manager,
		closeChan: make(chan struct{}),
	}
}

// Start регистрирует клиента и запускает горутины чтения и записи
func (c *Client) Start() {
	c.manager.AddClient(c)

	go c.readPump()
	go c.writePump()
}

// readPump читает входящие сообщения до закрытия соединения
func (c *Client) readPump() {
	defer func() {
		c.manager.RemoveClient(c.ID)
		c.conn.Close()
		close(c.closeChan)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️ Неожиданное закрытие WebSocket: %v", err)
			}
			break
		}

		c.handleIncomingMessage(message)
	}
}

// writePump отправляет сообщения клиенту
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("❌ Ошибка отправки WebSocket сообщения: %v", err)
				return
			}
		case <-ticker.C:
			// Отправляем ping для поддержания соединения
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.manager.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		case <-c.closeChan:
			return
		}
	}
}

// handleIncomingMessage обрабатывает служебные сообщения клиента.
// Все изменения данных идут через HTTP API, поэтому здесь поддерживается только ping.
func (c *Client) handleIncomingMessage(message []byte) {
	var event struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(message, &event); err != nil {
		log.Printf("⚠️ Некорректное WebSocket сообщение от %s: %v", c.UserID, err)
		return
	}

	switch event.Type {
	case "ping":
		pong, _ := json.Marshal(map[string]any{"type": "pong", "timestamp": time.Now()})
		select {
		case c.send <- pong:
		default:
		}
	default:
		log.Printf("⚠️ Необрабатываемый тип события: %s", event.Type)
	}
}
