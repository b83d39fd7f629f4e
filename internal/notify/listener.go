package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Exchange задаёт fanout-обменник, в который сервер публикует уведомления.
const Exchange = "notifications_fanout"

const consumerTag = "santana-waiter"

var (
	ErrPermissionDenied = errors.New("notifications are disabled")
	ErrNotConnected     = errors.New("notification broker is not connected")
	ErrDeliveriesClosed = errors.New("delivery channel closed")
)

// Listener подписывается на уведомления и складывает их в ленту.
type Listener struct {
	url     string
	enabled bool
	feed    *Feed
	logger  *zap.Logger

	conn  *amqp.Connection
	ch    *amqp.Channel
	token string
}

// NewListener создаёт слушателя без соединения. Соединение открывает Connect.
func NewListener(url string, enabled bool, feed *Feed, logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener{
		url:     url,
		enabled: enabled,
		feed:    feed,
		logger:  logger,
	}
}

// Permission сообщает, разрешены ли уведомления на этом устройстве.
func (l *Listener) Permission() bool {
	return l.enabled && l.url != ""
}

// Connect открывает соединение и канал к брокеру.
func (l *Listener) Connect() error {
	if !l.Permission() {
		return ErrPermissionDenied
	}

	conn, err := amqp.Dial(l.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	l.conn = conn
	l.ch = ch
	return nil
}

// RegisterToken объявляет эксклюзивную очередь, привязанную к обменнику уведомлений.
// Имя очереди, выданное брокером, служит токеном доставки.
func (l *Listener) RegisterToken() (string, error) {
	if l.ch == nil {
		return "", ErrNotConnected
	}

	if err := l.ch.ExchangeDeclare(Exchange, "fanout", true, false, false, false, nil); err != nil {
		return "", fmt.Errorf("declare %s: %w", Exchange, err)
	}
	q, err := l.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return "", fmt.Errorf("declare queue: %w", err)
	}
	if err := l.ch.QueueBind(q.Name, "", Exchange, false, nil); err != nil {
		return "", fmt.Errorf("bind queue: %w", err)
	}

	l.token = q.Name
	l.logger.Info("notification token registered", zap.String("token", q.Name))
	return q.Name, nil
}

// Listen получает уведомления до отмены контекста. Без разрешения сразу возвращает nil.
func (l *Listener) Listen(ctx context.Context) error {
	if !l.Permission() {
		l.logger.Info("notifications disabled")
		return nil
	}

	if err := l.Connect(); err != nil {
		return err
	}
	defer l.Close()

	token, err := l.RegisterToken()
	if err != nil {
		return err
	}

	deliveries, err := l.ch.Consume(token, consumerTag, false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", token, err)
	}

	return l.handleDeliveries(ctx, deliveries)
}

func (l *Listener) handleDeliveries(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			l.handle(d)
		}
	}
}

func (l *Listener) handle(d amqp.Delivery) {
	n, err := Decode(d.Body, time.Now())
	if err != nil {
		l.logger.Warn("malformed notification dropped", zap.Error(err))
	} else {
		l.feed.Push(n)
		l.logger.Info("notification received", zap.String("title", n.Title), zap.String("body", n.Body))
	}

	if err := d.Ack(false); err != nil {
		l.logger.Error("failed to ack notification", zap.Error(err))
	}
}

// Close закрывает канал и соединение с брокером.
func (l *Listener) Close() {
	if l.ch != nil {
		_ = l.ch.Close()
		l.ch = nil
	}
	if l.conn != nil {
		_ = l.conn.Close()
		l.conn = nil
	}
}
