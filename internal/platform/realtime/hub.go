// Package realtime mantiene clientes websocket suscritos a topics y les reenvía eventos.
package realtime

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"automed-dashboard/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer = 64
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type Event struct {
	Type      string          `json:"type"`
	Topic     string          `json:"topic"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ClientMessage: {"action":"subscribe","topics":["dashboard"]}
type ClientMessage struct {
	Action string   `json:"action"`
	Topics []string `json:"topics"`
}

type Client struct {
	ID     string
	Topics []string
	Send   chan []byte
}

func NewClient(topics []string) *Client {
	return &Client{
		ID:     uuid.NewString(),
		Topics: topics,
		Send:   make(chan []byte, sendBuffer),
	}
}

// Hub indexa clientes por topic y guarda el último evento de cada topic
// para entregarlo apenas alguien se suscribe.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	all     map[*Client]struct{}
	last    map[string][]byte

	now func() time.Time
	log logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		all:     make(map[*Client]struct{}),
		last:    make(map[string][]byte),
		now:     time.Now,
		log:     log.With(map[string]any{"component": "realtime"}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[c] = struct{}{}
	c.Topics = freshTopics(c.Topics, nil)
	h.subscribeLocked(c, c.Topics)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[c]; !ok {
		return
	}
	for _, topic := range c.Topics {
		if subs, ok := h.clients[topic]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.clients, topic)
			}
		}
	}
	delete(h.all, c)
	close(c.Send)
}

func (h *Hub) Subscribe(c *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[c]; !ok {
		return
	}
	fresh := freshTopics(topics, c.Topics)
	c.Topics = append(c.Topics, fresh...)
	h.subscribeLocked(c, fresh)
}

func (h *Hub) subscribeLocked(c *Client, topics []string) {
	for _, topic := range topics {
		if h.clients[topic] == nil {
			h.clients[topic] = make(map[*Client]struct{})
		}
		h.clients[topic][c] = struct{}{}

		if data, ok := h.last[topic]; ok {
			trySend(c, data)
		}
	}
}

func (h *Hub) Unsubscribe(c *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	topics = freshTopics(topics, nil)
	remaining := c.Topics[:0:0]
	for _, t := range c.Topics {
		if contains(topics, t) {
			if subs, ok := h.clients[t]; ok {
				delete(subs, c)
				if len(subs) == 0 {
					delete(h.clients, t)
				}
			}
			continue
		}
		remaining = append(remaining, t)
	}
	c.Topics = remaining
}

func (h *Hub) ProcessMessage(c *Client, msg ClientMessage) {
	switch msg.Action {
	case "subscribe":
		h.Subscribe(c, msg.Topics)
	case "unsubscribe":
		h.Unsubscribe(c, msg.Topics)
	}
}

// Publish serializa data y la envía a los suscriptores del topic. Nunca bloquea:
// un cliente con el buffer lleno pierde el evento (el próximo trae el estado completo).
func (h *Hub) Publish(topic, eventType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.log.Error("marshal event failed", map[string]any{"topic": topic, "err": err})
		return
	}
	msg, err := json.Marshal(Event{
		Type:      eventType,
		Topic:     topic,
		Timestamp: h.now().UTC(),
		Data:      raw,
	})
	if err != nil {
		h.log.Error("marshal event failed", map[string]any{"topic": topic, "err": err})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last[topic] = msg
	for c := range h.clients[topic] {
		trySend(c, msg)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

func (h *Hub) TopicCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

func trySend(c *Client, data []byte) {
	select {
	case c.Send <- data:
	default:
	}
}

// freshTopics recorta, descarta vacíos y duplicados, y omite los ya suscritos.
func freshTopics(topics, existing []string) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t == "" || contains(existing, t) || contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS ya se valida en el router.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler hace el upgrade y suscribe al cliente a los topics indicados
// (?topic=a&topic=b) o a defaults si no vienen.
func (h *Hub) Handler(defaults ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topics := r.URL.Query()["topic"]
		if len(topics) == 0 {
			topics = defaults
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade ya respondió con el error HTTP
			h.log.Warn("websocket upgrade failed", map[string]any{"err": err})
			return
		}

		c := NewClient(append([]string(nil), topics...))
		h.Register(c)
		h.log.Debug("client connected", map[string]any{"client_id": c.ID, "topics": c.Topics})

		go h.writePump(c, ws)
		go h.readPump(c, ws)
	}
}

func (h *Hub) readPump(c *Client, ws *websocket.Conn) {
	defer func() {
		h.Unregister(c)
		_ = ws.Close()
		h.log.Debug("client disconnected", map[string]any{"client_id": c.ID})
	}()

	ws.SetReadLimit(4096)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		h.ProcessMessage(c, msg)
	}
}

func (h *Hub) writePump(c *Client, ws *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
