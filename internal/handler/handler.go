// Package handler содержит HTTP-обработчики экранов терминала официанта.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/santana-waiter/internal/middleware"
	"github.com/mmeshcher/santana-waiter/internal/model"
	"github.com/mmeshcher/santana-waiter/internal/notify"
	"github.com/mmeshcher/santana-waiter/internal/present"
	"github.com/mmeshcher/santana-waiter/internal/workflow"
)

// Workflow определяет контракт сценария официанта, используемый экранами.
type Workflow interface {
	SignIn(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	OpenTable(ctx context.Context, input string) (model.Order, error)
	LoadCategories(ctx context.Context) error
	SelectCategory(ctx context.Context, categoryID string) error
	SelectProduct(productID string) error
	AddItem(ctx context.Context, amountInput string) (model.OrderItem, error)
	RemoveItem(ctx context.Context, itemID string) error
	Finalize(ctx context.Context) error
	Discard(ctx context.Context) error
	OpenOrders(ctx context.Context) ([]model.Order, error)
	OrderDetail(ctx context.Context, orderID string) (model.Order, error)
	UpdateTable(ctx context.Context, orderID, input string) error
	Snapshot() workflow.View
	State() workflow.State
}

// Feed отдаёт последние локальные уведомления.
type Feed interface {
	Recent() []notify.Notification
}

// Handler реализует HTTP-обработчики экранов.
type Handler struct {
	workflow Workflow
	feed     Feed
	logger   *zap.Logger
	guard    *middleware.SessionGuard
}

// NewHandler создаёт обработчики экранов поверх сценария официанта.
func NewHandler(wf Workflow, feed Feed, logger *zap.Logger) *Handler {
	h := &Handler{
		workflow: wf,
		feed:     feed,
		logger:   logger,
	}
	h.guard = middleware.NewSessionGuard(func() bool {
		return wf.State() != workflow.StateUnauthenticated
	}, workflow.Message(workflow.ErrAuth))
	return h
}

// input принимает как строку, так и число: экраны присылают текст поля ввода.
type input string

func (in *input) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*in = input(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*in = input(n.String())
	return nil
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tableRequest struct {
	Table input `json:"table"`
}

type selectRequest struct {
	ID string `json:"id"`
}

type amountRequest struct {
	Amount input `json:"amount"`
}

type sessionResponse struct {
	State     workflow.State `json:"state"`
	UserName  string         `json:"user_name,omitempty"`
	UserEmail string         `json:"user_email,omitempty"`
}

// SignIn обрабатывает экран входа.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.workflow.SignIn(r.Context(), req.Email, req.Password); err != nil {
		h.writeError(w, err)
		return
	}

	v := h.workflow.Snapshot()
	writeJSON(w, http.StatusOK, sessionResponse{State: v.State, UserName: v.UserName, UserEmail: v.UserEmail})
}

// Logout завершает сессию сотрудника.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.Logout(r.Context()); err != nil {
		h.logger.Error("logout error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// OpenTable открывает заказ для стола с экрана выбора стола.
func (h *Handler) OpenTable(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	order, err := h.workflow.OpenTable(r.Context(), string(req.Table))
	if err != nil && (order.ID == "" || errors.Is(err, workflow.ErrAuth)) {
		h.writeError(w, err)
		return
	}

	screen := h.orderScreen(r.Context())
	if err != nil {
		// Заказ открыт, но меню не загрузилось.
		screen.Error = workflow.Message(err)
	}
	writeJSON(w, http.StatusCreated, screen)
}

type orderScreen struct {
	State           workflow.State      `json:"state"`
	Outcome         workflow.State      `json:"outcome,omitempty"`
	OrderID         string              `json:"order_id,omitempty"`
	Table           int                 `json:"table,omitempty"`
	Items           []present.RowView   `json:"items"`
	CategoryPicker  *present.PickerView `json:"category_picker,omitempty"`
	ProductPicker   *present.PickerView `json:"product_picker,omitempty"`
	CanFinalize     bool                `json:"can_finalize"`
	CanDiscard      bool                `json:"can_discard"`
	SelectedProduct string              `json:"selected_product,omitempty"`
	Error           string              `json:"error,omitempty"`
}

// Order возвращает экран активного заказа.
func (h *Handler) Order(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.orderScreen(r.Context()))
}

func (h *Handler) orderScreen(ctx context.Context) orderScreen {
	v := h.workflow.Snapshot()

	screen := orderScreen{
		State:       v.State,
		Outcome:     v.Outcome,
		CanFinalize: v.CanFinalize,
		CanDiscard:  v.CanDiscard,
	}
	if v.Order == nil {
		screen.Items = []present.RowView{}
		return screen
	}

	screen.OrderID = v.Order.ID
	screen.Table = v.Order.Table
	screen.Items = present.RenderRows(h.itemRows(ctx, v))
	screen.CategoryPicker = h.categoryPicker(ctx, v).Render()
	screen.ProductPicker = h.productPicker(v).Render()
	if v.Product != nil {
		screen.SelectedProduct = v.Product.Name
	}
	return screen
}

func (h *Handler) categoryPicker(ctx context.Context, v workflow.View) *present.Picker {
	var selected string
	if v.Category != nil {
		selected = v.Category.ID
	}
	return present.NewPicker("Categorias", present.CategoryOptions(v.Categories), selected, func(opt present.Option) error {
		return h.workflow.SelectCategory(ctx, opt.ID)
	})
}

func (h *Handler) productPicker(v workflow.View) *present.Picker {
	var selected string
	if v.Product != nil {
		selected = v.Product.ID
	}
	return present.NewPicker("Produtos", present.ProductOptions(v.Products), selected, func(opt present.Option) error {
		return h.workflow.SelectProduct(opt.ID)
	})
}

func (h *Handler) itemRows(ctx context.Context, v workflow.View) []present.ItemRow {
	if v.Order == nil {
		return nil
	}
	return present.ItemRows(v.Order.Items, func(itemID string) error {
		return h.workflow.RemoveItem(ctx, itemID)
	})
}

// SelectCategory выбирает категорию через модальный список.
func (h *Handler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	picker := h.categoryPicker(r.Context(), h.workflow.Snapshot())
	picker.Open()
	err := picker.Choose(req.ID)
	if errors.Is(err, present.ErrUnknownOption) {
		err = h.workflow.SelectCategory(r.Context(), req.ID)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.orderScreen(r.Context()))
}

// SelectProduct выбирает продукт через модальный список.
func (h *Handler) SelectProduct(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	picker := h.productPicker(h.workflow.Snapshot())
	picker.Open()
	err := picker.Choose(req.ID)
	if errors.Is(err, present.ErrUnknownOption) {
		err = h.workflow.SelectProduct(req.ID)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.orderScreen(r.Context()))
}

// ReloadCategories повторяет загрузку меню после сбоя.
func (h *Handler) ReloadCategories(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.LoadCategories(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.orderScreen(r.Context()))
}

// AddItem добавляет выбранный продукт в заказ.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if _, err := h.workflow.AddItem(r.Context(), string(req.Amount)); err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.orderScreen(r.Context()))
}

// RemoveItem удаляет позицию по запросу строки списка.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	var err error
	removed := false
	for _, row := range h.itemRows(r.Context(), h.workflow.Snapshot()) {
		if row.Render().ID == itemID {
			err = row.Delete()
			removed = true
			break
		}
	}
	if !removed {
		err = h.workflow.RemoveItem(r.Context(), itemID)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.orderScreen(r.Context()))
}

// Finish отправляет заказ на кухню с экрана подтверждения.
func (h *Handler) Finish(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.Finalize(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.orderScreen(r.Context()))
}

// Discard удаляет пустой заказ.
func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.Discard(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.orderScreen(r.Context()))
}

type openOrderResponse struct {
	ID    string `json:"id"`
	Table int    `json:"table"`
}

// OpenOrders возвращает открытые заказы всех столов.
func (h *Handler) OpenOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.workflow.OpenOrders(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	resp := make([]openOrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, openOrderResponse{ID: o.ID, Table: o.Table})
	}
	writeJSON(w, http.StatusOK, resp)
}

type orderDetailResponse struct {
	ID    string            `json:"id"`
	Table int               `json:"table"`
	Items []present.RowView `json:"items"`
}

// OrderDetail возвращает позиции заказа для модального окна.
func (h *Handler) OrderDetail(w http.ResponseWriter, r *http.Request) {
	order, err := h.workflow.OrderDetail(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orderDetailResponse{
		ID:    order.ID,
		Table: order.Table,
		Items: present.RenderRows(present.ItemRows(order.Items, nil)),
	})
}

// UpdateTable переносит заказ на другой стол.
func (h *Handler) UpdateTable(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.workflow.UpdateTable(r.Context(), chi.URLParam(r, "orderID"), string(req.Table)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Notifications возвращает последние уведомления.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	items := h.feed.Recent()
	if len(items) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, workflow.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, workflow.ErrValidation), errors.Is(err, workflow.ErrInvalidState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, workflow.ErrNotFoundOrConflict):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrTransport), errors.Is(err, workflow.ErrServer):
		return http.StatusBadGateway
	case errors.Is(err, workflow.ErrStorage):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err), zap.Int("status", status))
	}
	writeJSON(w, status, map[string]string{"error": workflow.Message(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
