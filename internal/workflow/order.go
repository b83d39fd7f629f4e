package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mmeshcher/santana-waiter/internal/model"
	"github.com/mmeshcher/santana-waiter/internal/validation"
)

// OpenTable открывает заказ для стола и загружает категории меню.
// Сбой загрузки категорий не отменяет открытый заказ: возвращаются и заказ, и ошибка загрузки.
// Повторить загрузку можно через LoadCategories.
func (s *Session) OpenTable(ctx context.Context, input string) (model.Order, error) {
	table, ok := validation.ParsePositiveInt(input)
	if !ok {
		return model.Order{}, ErrInvalidTable
	}

	s.mu.Lock()
	switch s.state {
	case StateIdle:
	case StateUnauthenticated:
		s.mu.Unlock()
		return model.Order{}, fmt.Errorf("%w: not signed in", ErrAuth)
	default:
		state := s.state
		s.mu.Unlock()
		return model.Order{}, fmt.Errorf("%w: cannot open table in state %s", ErrInvalidState, state)
	}
	s.state = StateTableOpening
	gen := s.generation
	s.mu.Unlock()

	token, err := s.token(ctx)
	if err != nil {
		s.revert(gen, StateIdle)
		return model.Order{}, err
	}

	order, err := s.api.OpenOrder(ctx, token, table)
	if err != nil {
		s.revert(gen, StateIdle)
		return model.Order{}, s.fail(ctx, OpOpenTable, err)
	}
	if order.ID == "" {
		s.revert(gen, StateIdle)
		return model.Order{}, &OpError{Op: OpOpenTable, Err: fmt.Errorf("%w: order without id", ErrServer)}
	}
	order.Items = []model.OrderItem{}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return model.Order{}, ErrOrderChanged
	}
	s.resetLocked()
	active := order
	s.order = &active
	s.outcome = ""
	s.state = StateOrderActive
	s.mu.Unlock()

	s.logger.Info("table opened", zap.Int("table", order.Table), zap.String("order_id", order.ID))

	if err := s.LoadCategories(ctx); err != nil {
		s.logger.Warn("categories not loaded", zap.String("order_id", order.ID), zap.Error(err))
		return order, err
	}

	return order, nil
}

// AddItem добавляет выбранный продукт в заказ. Позиция появляется локально только после ответа сервера.
func (s *Session) AddItem(ctx context.Context, amountInput string) (model.OrderItem, error) {
	s.mu.Lock()
	if err := s.activeLocked(); err != nil {
		s.mu.Unlock()
		return model.OrderItem{}, err
	}
	if s.product == nil {
		s.mu.Unlock()
		return model.OrderItem{}, ErrNoProduct
	}
	amount, ok := validation.ParsePositiveInt(amountInput)
	if !ok {
		s.mu.Unlock()
		return model.OrderItem{}, ErrInvalidAmount
	}
	orderID := s.order.ID
	product := *s.product
	gen := s.generation
	s.pending++
	s.mu.Unlock()

	token, err := s.token(ctx)
	if err != nil {
		s.settle(gen)
		return model.OrderItem{}, err
	}

	itemID, err := s.api.AddItem(ctx, token, orderID, product.ID, amount)
	if err != nil {
		s.settle(gen)
		return model.OrderItem{}, s.fail(ctx, OpAddItem, err)
	}
	if itemID == "" {
		s.settle(gen)
		return model.OrderItem{}, &OpError{Op: OpAddItem, Err: fmt.Errorf("%w: item without id", ErrServer)}
	}

	item := model.OrderItem{
		ID:        itemID,
		ProductID: product.ID,
		Name:      product.Name,
		Amount:    amount,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return model.OrderItem{}, ErrOrderChanged
	}
	s.pending--
	for _, existing := range s.order.Items {
		if existing.ID == itemID {
			return existing, nil
		}
	}
	s.order.Items = append(s.order.Items, item)

	s.logger.Debug("item added", zap.String("order_id", orderID), zap.String("item_id", itemID))
	return item, nil
}

// RemoveItem удаляет позицию по идентификатору после подтверждения сервера.
func (s *Session) RemoveItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	if err := s.activeLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if !hasItem(s.order.Items, itemID) {
		s.mu.Unlock()
		return ErrUnknownItem
	}
	orderID := s.order.ID
	gen := s.generation
	s.pending++
	s.mu.Unlock()

	token, err := s.token(ctx)
	if err != nil {
		s.settle(gen)
		return err
	}

	if err := s.api.RemoveItem(ctx, token, itemID); err != nil {
		s.settle(gen)
		return s.fail(ctx, OpRemoveItem, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return ErrOrderChanged
	}
	s.pending--
	items := s.order.Items[:0]
	for _, item := range s.order.Items {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	s.order.Items = items

	s.logger.Debug("item removed", zap.String("order_id", orderID), zap.String("item_id", itemID))
	return nil
}

// Finalize отправляет непустой заказ на кухню и возвращает сценарий к выбору стола.
func (s *Session) Finalize(ctx context.Context) error {
	orderID, gen, err := s.beginClosing(func(order *model.Order) error {
		if len(order.Items) == 0 {
			return ErrOrderEmpty
		}
		if s.pending > 0 {
			return ErrPendingItems
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.finishClosing(ctx, OpFinalize, orderID, gen, StateClosed, s.api.SendOrder)
}

// Discard удаляет пустой заказ на сервере и возвращает сценарий к выбору стола.
func (s *Session) Discard(ctx context.Context) error {
	orderID, gen, err := s.beginClosing(func(order *model.Order) error {
		if len(order.Items) > 0 {
			return ErrOrderNotEmpty
		}
		if s.pending > 0 {
			return ErrPendingItems
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.finishClosing(ctx, OpDiscard, orderID, gen, StateDiscarded, s.api.DeleteOrder)
}

func (s *Session) beginClosing(check func(order *model.Order) error) (string, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.activeLocked(); err != nil {
		return "", 0, err
	}
	if err := check(s.order); err != nil {
		return "", 0, err
	}
	s.state = StateFinalizing
	return s.order.ID, s.generation, nil
}

func (s *Session) finishClosing(
	ctx context.Context,
	op Op,
	orderID string,
	gen uint64,
	outcome State,
	call func(ctx context.Context, token, orderID string) error,
) error {
	token, err := s.token(ctx)
	if err != nil {
		s.revert(gen, StateOrderActive)
		return err
	}

	if err := call(ctx, token, orderID); err != nil {
		s.revert(gen, StateOrderActive)
		return s.fail(ctx, op, err)
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return ErrOrderChanged
	}
	s.resetLocked()
	s.outcome = outcome
	s.state = StateIdle
	s.mu.Unlock()

	s.logger.Info("order closed", zap.String("order_id", orderID), zap.String("outcome", outcome.String()))
	return nil
}

// settle снимает отметку о запросе к позициям, если сценарий не сменился за время запроса.
func (s *Session) settle(gen uint64) {
	s.mu.Lock()
	if s.generation == gen {
		s.pending--
	}
	s.mu.Unlock()
}

// revert возвращает прежнее состояние, если сценарий не сменился за время запроса.
func (s *Session) revert(gen uint64, state State) {
	s.mu.Lock()
	if s.generation == gen {
		s.state = state
	}
	s.mu.Unlock()
}

func hasItem(items []model.OrderItem, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func cloneOrder(order model.Order) model.Order {
	order.Items = append(make([]model.OrderItem, 0, len(order.Items)), order.Items...)
	return order
}
