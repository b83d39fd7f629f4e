package workflow

import (
	"context"
	"strings"

	"github.com/mmeshcher/santana-waiter/internal/model"
	"github.com/mmeshcher/santana-waiter/internal/validation"
)

// OpenOrders возвращает открытые заказы всех столов.
func (s *Session) OpenOrders(ctx context.Context) ([]model.Order, error) {
	token, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := s.api.ListOrders(ctx, token)
	if err != nil {
		return nil, s.fail(ctx, OpListOrders, err)
	}
	return orders, nil
}

// OrderDetail возвращает заказ вместе с позициями.
func (s *Session) OrderDetail(ctx context.Context, orderID string) (model.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return model.Order{}, ErrMissingOrderID
	}

	token, err := s.authenticated(ctx)
	if err != nil {
		return model.Order{}, err
	}

	order, err := s.api.OrderDetail(ctx, token, orderID)
	if err != nil {
		return model.Order{}, s.fail(ctx, OpOrderDetail, err)
	}
	return order, nil
}

// UpdateTable переносит заказ на другой стол. Активный заказ обновляется локально после ответа сервера.
func (s *Session) UpdateTable(ctx context.Context, orderID, input string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ErrMissingOrderID
	}
	table, ok := validation.ParsePositiveInt(input)
	if !ok {
		return ErrInvalidTable
	}

	token, err := s.authenticated(ctx)
	if err != nil {
		return err
	}

	if err := s.api.UpdateOrderTable(ctx, token, orderID, table); err != nil {
		return s.fail(ctx, OpUpdateTable, err)
	}

	s.mu.Lock()
	if s.order != nil && s.order.ID == orderID {
		s.order.Table = table
	}
	s.mu.Unlock()
	return nil
}

func (s *Session) authenticated(ctx context.Context) (string, error) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state == StateUnauthenticated {
		return "", ErrAuth
	}
	return s.token(ctx)
}
