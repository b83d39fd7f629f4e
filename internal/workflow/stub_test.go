package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mmeshcher/santana-waiter/internal/apiclient"
	"github.com/mmeshcher/santana-waiter/internal/model"
)

type stubAPI struct {
	mu     sync.Mutex
	calls  []string
	nextID int

	createSession  func(email, password string) (model.Credential, error)
	openOrder      func(table int) (model.Order, error)
	listCategories func() ([]model.Category, error)
	listProducts   func(categoryID string) ([]model.Product, error)
	addItem        func(orderID, productID string, amount int) (string, error)
	removeItem     func(itemID string) error
	listOrders     func() ([]model.Order, error)
	orderDetail    func(orderID string) (model.Order, error)
	updateTable    func(orderID string, table int) error
	sendOrder      func(orderID string) error
	deleteOrder    func(orderID string) error
}

func (a *stubAPI) record(call string) {
	a.mu.Lock()
	a.calls = append(a.calls, call)
	a.mu.Unlock()
}

func (a *stubAPI) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

func (a *stubAPI) count(prefix string) int {
	n := 0
	for _, c := range a.Calls() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (a *stubAPI) CreateSession(ctx context.Context, email, password string) (model.Credential, error) {
	a.record("CreateSession")
	if a.createSession != nil {
		return a.createSession(email, password)
	}
	return model.Credential{ID: "u1", Name: "Ana", Email: email, Token: "tok"}, nil
}

func (a *stubAPI) OpenOrder(ctx context.Context, token string, table int) (model.Order, error) {
	a.record(fmt.Sprintf("OpenOrder %d", table))
	if a.openOrder != nil {
		return a.openOrder(table)
	}
	return model.Order{ID: "o1", Table: table}, nil
}

func (a *stubAPI) ListCategories(ctx context.Context, token string) ([]model.Category, error) {
	a.record("ListCategories")
	if a.listCategories != nil {
		return a.listCategories()
	}
	return []model.Category{{ID: "c1", Name: "Pizzas"}, {ID: "c2", Name: "Bebidas"}}, nil
}

func (a *stubAPI) ListProducts(ctx context.Context, token, categoryID string) ([]model.Product, error) {
	a.record("ListProducts " + categoryID)
	if a.listProducts != nil {
		return a.listProducts(categoryID)
	}
	return defaultProducts(categoryID), nil
}

func (a *stubAPI) AddItem(ctx context.Context, token, orderID, productID string, amount int) (string, error) {
	a.record(fmt.Sprintf("AddItem %s %s %d", orderID, productID, amount))
	if a.addItem != nil {
		return a.addItem(orderID, productID, amount)
	}
	a.mu.Lock()
	a.nextID++
	id := fmt.Sprintf("i%d", a.nextID)
	a.mu.Unlock()
	return id, nil
}

func (a *stubAPI) RemoveItem(ctx context.Context, token, itemID string) error {
	a.record("RemoveItem " + itemID)
	if a.removeItem != nil {
		return a.removeItem(itemID)
	}
	return nil
}

func (a *stubAPI) ListOrders(ctx context.Context, token string) ([]model.Order, error) {
	a.record("ListOrders")
	if a.listOrders != nil {
		return a.listOrders()
	}
	return nil, nil
}

func (a *stubAPI) OrderDetail(ctx context.Context, token, orderID string) (model.Order, error) {
	a.record("OrderDetail " + orderID)
	if a.orderDetail != nil {
		return a.orderDetail(orderID)
	}
	return model.Order{ID: orderID}, nil
}

func (a *stubAPI) UpdateOrderTable(ctx context.Context, token, orderID string, table int) error {
	a.record(fmt.Sprintf("UpdateOrderTable %s %d", orderID, table))
	if a.updateTable != nil {
		return a.updateTable(orderID, table)
	}
	return nil
}

func (a *stubAPI) SendOrder(ctx context.Context, token, orderID string) error {
	a.record("SendOrder " + orderID)
	if a.sendOrder != nil {
		return a.sendOrder(orderID)
	}
	return nil
}

func (a *stubAPI) DeleteOrder(ctx context.Context, token, orderID string) error {
	a.record("DeleteOrder " + orderID)
	if a.deleteOrder != nil {
		return a.deleteOrder(orderID)
	}
	return nil
}

func defaultProducts(categoryID string) []model.Product {
	switch categoryID {
	case "c1":
		return []model.Product{{ID: "p1", Name: "Calabresa"}, {ID: "p2", Name: "Margherita"}}
	case "c2":
		return []model.Product{{ID: "p3", Name: "Refrigerante"}}
	default:
		return nil
	}
}

type memStore struct {
	mu     sync.Mutex
	cred   model.Credential
	ok     bool
	getErr error
	setErr error
}

func (m *memStore) Get(ctx context.Context) (model.Credential, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return model.Credential{}, false, m.getErr
	}
	return m.cred, m.ok, nil
}

func (m *memStore) Set(ctx context.Context, cred model.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.cred, m.ok = cred, true
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred, m.ok = model.Credential{}, false
	return nil
}

func (m *memStore) has() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ok
}

func unauthorized(path string) error {
	return &apiclient.HTTPError{Method: "POST", Path: path, Status: 401}
}

func serverError(path string) error {
	return &apiclient.HTTPError{Method: "POST", Path: path, Status: 500, Body: "boom"}
}

func conflict(path string) error {
	return &apiclient.HTTPError{Method: "DELETE", Path: path, Status: 409}
}

func offline(path string) error {
	return &apiclient.TransportError{Method: "POST", Path: path, Err: errors.New("connection refused")}
}
