package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultTitle используется, когда сообщение пришло без заголовка.
const DefaultTitle = "Notificação"

var ErrEmptyMessage = errors.New("empty notification payload")

type payload struct {
	Notification *struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	} `json:"notification"`
	Data map[string]any `json:"data"`
}

// Decode разбирает тело сообщения брокера.
func Decode(body []byte, now time.Time) (Notification, error) {
	if len(body) == 0 {
		return Notification{}, ErrEmptyMessage
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Notification{}, fmt.Errorf("decode notification: %w", err)
	}

	n := Notification{
		Title:      DefaultTitle,
		Data:       p.Data,
		ReceivedAt: now,
	}
	if p.Notification != nil {
		if p.Notification.Title != "" {
			n.Title = p.Notification.Title
		}
		n.Body = p.Notification.Body
	}
	return n, nil
}
