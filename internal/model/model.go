// Package model содержит доменные сущности терминала официанта пиццерии.
package model

// Credential описывает сессию авторизованного сотрудника.
// Сохраняется целиком в хранилище устройства, поля пользователя сопровождают токен.
type Credential struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Token string `json:"token"`
}

// Valid сообщает, содержит ли сессия токен.
func (c Credential) Valid() bool {
	return c.Token != ""
}

// Category описывает группу меню.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product описывает позицию меню внутри категории.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrderItem описывает строку заказа.
// Идентификатор всегда назначается сервером, количество строго положительное.
type OrderItem struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Amount    int    `json:"amount"`
}

// Order описывает открытый счёт стола.
type Order struct {
	ID    string      `json:"id"`
	Table int         `json:"table"`
	Items []OrderItem `json:"items"`
}
