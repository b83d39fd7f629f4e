// Package notify получает push-уведомления из брокера сообщений и показывает их локально.
package notify

import (
	"sync"
	"time"
)

// DefaultFeedSize задаёт размер ленты по умолчанию.
const DefaultFeedSize = 50

// Notification описывает уведомление, показанное сотруднику.
type Notification struct {
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	Data       map[string]any `json:"data,omitempty"`
	ReceivedAt time.Time      `json:"received_at"`
}

// Feed хранит последние уведомления, самое новое в конце.
type Feed struct {
	mu    sync.Mutex
	limit int
	items []Notification
}

// NewFeed создаёт ленту на limit уведомлений.
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = DefaultFeedSize
	}
	return &Feed{limit: limit}
}

// Push добавляет уведомление, вытесняя самое старое при переполнении.
func (f *Feed) Push(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, n)
	if over := len(f.items) - f.limit; over > 0 {
		f.items = append(f.items[:0:0], f.items[over:]...)
	}
}

// Recent возвращает копию ленты.
func (f *Feed) Recent() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Notification{}, f.items...)
}
