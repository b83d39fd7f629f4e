package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mmeshcher/santana-waiter/internal/model"
)

type sessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type openOrderRequest struct {
	Table int `json:"table"`
}

type addItemRequest struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Amount    int    `json:"amount"`
}

type orderRefRequest struct {
	OrderID string `json:"order_id"`
}

type updateTableRequest struct {
	OrderID string `json:"order_id"`
	Table   int    `json:"table"`
}

type idResponse struct {
	ID string `json:"id"`
}

type itemPayload struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Amount    int    `json:"amount"`
	Product   struct {
		Name string `json:"name"`
	} `json:"product"`
}

type orderPayload struct {
	ID    string        `json:"id"`
	Table int           `json:"table"`
	Items []itemPayload `json:"items"`
}

func (p orderPayload) toModel() model.Order {
	items := make([]model.OrderItem, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, model.OrderItem{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Product.Name,
			Amount:    it.Amount,
		})
	}
	return model.Order{ID: p.ID, Table: p.Table, Items: items}
}

// CreateSession выполняет вход сотрудника и возвращает выданную сервером сессию.
func (c *Client) CreateSession(ctx context.Context, email, password string) (model.Credential, error) {
	var cred model.Credential
	err := c.Do(ctx, http.MethodPost, "/session", nil, sessionRequest{Email: email, Password: password}, "", &cred)
	return cred, err
}

// OpenOrder открывает заказ для стола.
func (c *Client) OpenOrder(ctx context.Context, token string, table int) (model.Order, error) {
	var resp orderPayload
	if err := c.Do(ctx, http.MethodPost, "/order", nil, openOrderRequest{Table: table}, token, &resp); err != nil {
		return model.Order{}, err
	}
	order := resp.toModel()
	if order.Table == 0 {
		order.Table = table
	}
	return order, nil
}

// ListCategories возвращает категории меню.
func (c *Client) ListCategories(ctx context.Context, token string) ([]model.Category, error) {
	var res []model.Category
	if err := c.Do(ctx, http.MethodGet, "/category", nil, nil, token, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// ListProducts возвращает продукты указанной категории.
func (c *Client) ListProducts(ctx context.Context, token, categoryID string) ([]model.Product, error) {
	var res []model.Product
	q := url.Values{"category_id": {categoryID}}
	if err := c.Do(ctx, http.MethodGet, "/category/product", q, nil, token, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// AddItem добавляет позицию в заказ и возвращает назначенный сервером идентификатор строки.
func (c *Client) AddItem(ctx context.Context, token, orderID, productID string, amount int) (string, error) {
	var resp idResponse
	req := addItemRequest{OrderID: orderID, ProductID: productID, Amount: amount}
	if err := c.Do(ctx, http.MethodPost, "/order/add", nil, req, token, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// RemoveItem удаляет строку заказа.
func (c *Client) RemoveItem(ctx context.Context, token, itemID string) error {
	q := url.Values{"item_id": {itemID}}
	return c.Do(ctx, http.MethodDelete, "/order/remove", q, nil, token, nil)
}

// ListOrders возвращает открытые заказы.
func (c *Client) ListOrders(ctx context.Context, token string) ([]model.Order, error) {
	var resp []orderPayload
	if err := c.Do(ctx, http.MethodGet, "/orders", nil, nil, token, &resp); err != nil {
		return nil, err
	}
	orders := make([]model.Order, 0, len(resp))
	for _, p := range resp {
		orders = append(orders, p.toModel())
	}
	return orders, nil
}

// OrderDetail возвращает заказ вместе с позициями.
func (c *Client) OrderDetail(ctx context.Context, token, orderID string) (model.Order, error) {
	var resp orderPayload
	q := url.Values{"order_id": {orderID}}
	if err := c.Do(ctx, http.MethodGet, "/order/detail", q, nil, token, &resp); err != nil {
		return model.Order{}, err
	}
	return resp.toModel(), nil
}

// UpdateOrderTable переносит заказ на другой стол.
func (c *Client) UpdateOrderTable(ctx context.Context, token, orderID string, table int) error {
	return c.Do(ctx, http.MethodPut, "/order/update", nil, updateTableRequest{OrderID: orderID, Table: table}, token, nil)
}

// SendOrder отправляет заказ на кухню.
func (c *Client) SendOrder(ctx context.Context, token, orderID string) error {
	return c.Do(ctx, http.MethodPut, "/order/enviar", nil, orderRefRequest{OrderID: orderID}, token, nil)
}

// DeleteOrder удаляет пустой заказ.
func (c *Client) DeleteOrder(ctx context.Context, token, orderID string) error {
	q := url.Values{"order_id": {orderID}}
	return c.Do(ctx, http.MethodDelete, "/order", q, nil, token, nil)
}
