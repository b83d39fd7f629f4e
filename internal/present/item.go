package present

import (
	"fmt"

	"github.com/mmeshcher/santana-waiter/internal/model"
)

// RowView содержит отрисованную строку позиции заказа.
type RowView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
	Label  string `json:"label"`
}

// ItemRow отображает позицию заказа с действием удаления.
type ItemRow struct {
	item     model.OrderItem
	onDelete func(itemID string) error
}

// NewItemRow создаёт строку позиции с обработчиком удаления.
func NewItemRow(item model.OrderItem, onDelete func(itemID string) error) ItemRow {
	return ItemRow{item: item, onDelete: onDelete}
}

// Render возвращает строку вида "2 x Calabresa".
func (r ItemRow) Render() RowView {
	return RowView{
		ID:     r.item.ID,
		Name:   r.item.Name,
		Amount: r.item.Amount,
		Label:  fmt.Sprintf("%d x %s", r.item.Amount, r.item.Name),
	}
}

// Delete передаёт идентификатор позиции обработчику удаления.
func (r ItemRow) Delete() error {
	if r.onDelete == nil {
		return nil
	}
	return r.onDelete(r.item.ID)
}

// ItemRows строит строки для всех позиций заказа.
func ItemRows(items []model.OrderItem, onDelete func(itemID string) error) []ItemRow {
	rows := make([]ItemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, NewItemRow(item, onDelete))
	}
	return rows
}

// RenderRows возвращает пустой срез, а не nil, чтобы экран всегда получал список.
func RenderRows(rows []ItemRow) []RowView {
	views := make([]RowView, 0, len(rows))
	for _, r := range rows {
		views = append(views, r.Render())
	}
	return views
}
