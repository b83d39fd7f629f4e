// Package present содержит помощники отображения для экранов заказа:
// модальный список выбора и строку позиции заказа. Сетевой и бизнес-логики здесь нет.
package present

import (
	"errors"

	"github.com/mmeshcher/santana-waiter/internal/model"
)

// ErrUnknownOption возвращается при выборе варианта, которого нет в списке.
var ErrUnknownOption = errors.New("unknown option")

// Option описывает именованный вариант выбора.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PickerView содержит отрисованный модальный список.
type PickerView struct {
	Title    string   `json:"title"`
	Visible  bool     `json:"visible"`
	Selected string   `json:"selected,omitempty"`
	Options  []Option `json:"options"`
}

// Picker реализует модальный список вариантов с обработчиком выбора.
type Picker struct {
	title    string
	options  []Option
	selected string
	onSelect func(Option) error
	visible  bool
}

// NewPicker создаёт закрытый список выбора.
func NewPicker(title string, options []Option, selected string, onSelect func(Option) error) *Picker {
	return &Picker{
		title:    title,
		options:  options,
		selected: selected,
		onSelect: onSelect,
	}
}

// Open показывает список.
func (p *Picker) Open() { p.visible = true }

// Close скрывает список, выбранный вариант сохраняется.
func (p *Picker) Close() { p.visible = false }

// Visible сообщает, открыт ли список.
func (p *Picker) Visible() bool {
	return p.visible
}

// Render возвращает снимок списка для экрана, в том числе закрытого.
// Если список вариантов не передан, возвращает nil.
func (p *Picker) Render() *PickerView {
	if p == nil || p.options == nil {
		return nil
	}
	return &PickerView{
		Title:    p.title,
		Visible:  p.visible,
		Selected: p.selected,
		Options:  append([]Option{}, p.options...),
	}
}

// Choose передаёт выбранный вариант обработчику и закрывает список.
func (p *Picker) Choose(id string) error {
	if p == nil {
		return ErrUnknownOption
	}
	for _, opt := range p.options {
		if opt.ID != id {
			continue
		}
		defer p.Close()
		p.selected = opt.ID
		if p.onSelect == nil {
			return nil
		}
		return p.onSelect(opt)
	}
	return ErrUnknownOption
}

// CategoryOptions возвращает nil для nil-списка, чтобы пустой выбор не отрисовывался.
func CategoryOptions(categories []model.Category) []Option {
	if categories == nil {
		return nil
	}
	opts := make([]Option, 0, len(categories))
	for _, c := range categories {
		opts = append(opts, Option{ID: c.ID, Name: c.Name})
	}
	return opts
}

func ProductOptions(products []model.Product) []Option {
	if products == nil {
		return nil
	}
	opts := make([]Option, 0, len(products))
	for _, p := range products {
		opts = append(opts, Option{ID: p.ID, Name: p.Name})
	}
	return opts
}
