package notifications

import (
	"strings"
	"sync"
	"time"
)

const (
	EventConnected            = "connected"
	EventFinancialHealthReady = "financial_health_report"
)

const subscriberBuffer = 10

type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub раздает события подписчикам по идентификатору пользователя.
// Медленный подписчик теряет события, а не блокирует публикацию.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	now         func() time.Time
}

// NewHub создает хаб для SSE-подписок.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe подписывает пользователя на события и возвращает канал и функцию отписки.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	key := normalizeKey(userID)
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	userSubs, ok := h.subscribers[key]
	if !ok {
		userSubs = make(map[chan Event]struct{})
		h.subscribers[key] = userSubs
	}
	userSubs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if subs, exists := h.subscribers[key]; exists {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(h.subscribers, key)
				}
			}
			close(ch)
		})
	}
}

// Publish отправляет событие всем подписчикам пользователя и возвращает число доставок.
func (h *Hub) Publish(userID string, event Event) int {
	key := normalizeKey(userID)
	if key == "" {
		return 0
	}
	event.Timestamp = h.now()

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subscribers[key] {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers возвращает число активных подписок пользователя.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[normalizeKey(userID)])
}

func normalizeKey(userID string) string {
	return strings.ToLower(strings.TrimSpace(userID))
}
