package service

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

const sendBuffer = 64

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub раздаёт алерты подключённым websocket-клиентам.
// Publish не блокируется: клиент с забитым буфером отключается.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// ServeHTTP — апгрейд до websocket. ?chat_id=N оставляет только алерты этого чата.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var chatID int64
	if v := r.URL.Query().Get("chat_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "bad chat_id", http.StatusBadRequest)
			return
		}
		chatID = id
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("[FEED] ws upgrade error: %v", err)
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		hub:    h,
		chatID: chatID,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	logger.Info("[FEED] ws client connected (%d total)", count)

	go c.writePump()
	go c.readPump()
}

func (h *Hub) Publish(alert models.Alert) {
	msg, err := sonic.Marshal(&alert)
	if err != nil {
		logger.Error("[FEED] marshal alert %s: %v", alert.ID, err)
		return
	}

	var slow []*client

	h.mu.RLock()
	for c := range h.clients {
		if c.chatID != 0 && c.chatID != alert.ChatID {
			continue
		}
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logger.Info("[FEED] dropping slow client")
		h.remove(c)
	}
}

// remove идемпотентен: канал закрывается один раз и только под записью в mu.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close отключает всех клиентов, новые не принимаются.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
