// Package workflow реализует сценарий работы официанта: вход, открытие стола,
// набор позиций и закрытие счёта.
//
// Состояние сессии защищено мьютексом, который никогда не удерживается во время
// сетевых вызовов. Завершения запросов применяются только если активный заказ
// не сменился, пока запрос был в пути.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/santana-waiter/internal/model"
)

// State описывает фазу сценария.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateIdle            State = "idle"
	StateTableOpening    State = "table_opening"
	StateOrderActive     State = "order_active"
	StateFinalizing      State = "finalizing"
	StateClosed          State = "closed"
	StateDiscarded       State = "discarded"
)

func (s State) String() string {
	return string(s)
}

// API описывает удалённые вызовы, которые использует сценарий.
type API interface {
	CreateSession(ctx context.Context, email, password string) (model.Credential, error)
	OpenOrder(ctx context.Context, token string, table int) (model.Order, error)
	ListCategories(ctx context.Context, token string) ([]model.Category, error)
	ListProducts(ctx context.Context, token, categoryID string) ([]model.Product, error)
	AddItem(ctx context.Context, token, orderID, productID string, amount int) (string, error)
	RemoveItem(ctx context.Context, token, itemID string) error
	ListOrders(ctx context.Context, token string) ([]model.Order, error)
	OrderDetail(ctx context.Context, token, orderID string) (model.Order, error)
	UpdateOrderTable(ctx context.Context, token, orderID string, table int) error
	SendOrder(ctx context.Context, token, orderID string) error
	DeleteOrder(ctx context.Context, token, orderID string) error
}

// CredentialStore хранит сессию сотрудника между запусками.
type CredentialStore interface {
	Get(ctx context.Context) (model.Credential, bool, error)
	Set(ctx context.Context, cred model.Credential) error
	Clear(ctx context.Context) error
}

// Session хранит состояние сценария официанта.
type Session struct {
	api    API
	store  CredentialStore
	logger *zap.Logger

	mu         sync.Mutex
	state      State
	outcome    State
	user       model.Credential
	order      *model.Order
	generation uint64
	pending    int

	categories []model.Category
	category   *model.Category
	products   []model.Product
	product    *model.Product
	productSeq uint64
}

// New создаёт сценарий в состоянии без авторизации.
func New(api API, store CredentialStore, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		api:    api,
		store:  store,
		logger: logger,
		state:  StateUnauthenticated,
	}
}

// Restore поднимает сохранённую сессию при старте. Возвращает true, если сессия найдена.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	cred, ok, err := s.store.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("restore credential: %w", err)
	}
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	s.resetLocked()
	s.user = cred
	s.state = StateIdle
	s.mu.Unlock()

	s.logger.Info("session restored", zap.String("email", cred.Email))
	return true, nil
}

// SignIn обменивает email и пароль на токен и сохраняет его.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrMissingCredentials
	}

	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state != StateUnauthenticated {
		return ErrAlreadyAuthenticated
	}

	cred, err := s.api.CreateSession(ctx, email, password)
	if err != nil {
		if isUnauthorized(err) {
			s.logger.Info("sign in rejected", zap.String("email", email))
			return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		s.logger.Warn("sign in failed", zap.String("email", email), zap.Error(err))
		return &OpError{Op: OpSignIn, Err: classify(err)}
	}
	if !cred.Valid() {
		return &OpError{Op: OpSignIn, Err: fmt.Errorf("%w: session without token", ErrServer)}
	}
	if cred.Email == "" {
		cred.Email = email
	}

	if err := s.store.Set(ctx, cred); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}

	s.mu.Lock()
	s.resetLocked()
	s.user = cred
	s.state = StateIdle
	s.mu.Unlock()

	s.logger.Info("signed in", zap.String("email", cred.Email))
	return nil
}

// Logout удаляет сохранённую сессию и сбрасывает состояние заказа.
// Состояние сбрасывается даже если хранилище вернуло ошибку.
func (s *Session) Logout(ctx context.Context) error {
	err := s.store.Clear(ctx)

	s.mu.Lock()
	s.resetLocked()
	s.user = model.Credential{}
	s.state = StateUnauthenticated
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	s.logger.Info("signed out")
	return nil
}

// token читает токен из хранилища. При его отсутствии сессия завершается без сетевого вызова.
// Сбой чтения хранилища не завершает сессию и не считается ошибкой авторизации.
func (s *Session) token(ctx context.Context) (string, error) {
	cred, ok, err := s.store.Get(ctx)
	if err != nil {
		s.logger.Error("failed to read credential", zap.Error(err))
		return "", fmt.Errorf("%w: read credential: %w", ErrStorage, err)
	}
	if !ok {
		s.mu.Lock()
		s.resetLocked()
		s.user = model.Credential{}
		s.state = StateUnauthenticated
		s.mu.Unlock()
		return "", fmt.Errorf("%w: no stored credential", ErrAuth)
	}
	return cred.Token, nil
}

// fail оборачивает ошибку удалённого вызова. Ответ 401 завершает сессию.
func (s *Session) fail(ctx context.Context, op Op, err error) error {
	if isUnauthorized(err) {
		s.expire(ctx)
		return &OpError{Op: op, Err: fmt.Errorf("%w: %w", ErrSessionExpired, err)}
	}
	s.logger.Warn("request failed", zap.String("op", string(op)), zap.Error(err))
	return &OpError{Op: op, Err: classify(err)}
}

func (s *Session) expire(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error("failed to clear expired credential", zap.Error(err))
	}

	s.mu.Lock()
	s.resetLocked()
	s.user = model.Credential{}
	s.state = StateUnauthenticated
	s.mu.Unlock()

	s.logger.Info("session expired")
}

// resetLocked сбрасывает заказ и каталог. Смена поколения отбрасывает ответы на запросы в пути.
func (s *Session) resetLocked() {
	s.generation++
	s.order = nil
	s.pending = 0
	s.categories = nil
	s.category = nil
	s.products = nil
	s.product = nil
	s.productSeq++
}

// activeLocked проверяет, что открыт заказ и его можно менять.
func (s *Session) activeLocked() error {
	switch s.state {
	case StateOrderActive:
		return nil
	case StateFinalizing:
		return ErrOrderBusy
	case StateUnauthenticated:
		return fmt.Errorf("%w: not signed in", ErrAuth)
	default:
		return ErrNoActiveOrder
	}
}
