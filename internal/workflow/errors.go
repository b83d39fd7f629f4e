package workflow

import (
	"errors"
	"fmt"

	"github.com/mmeshcher/santana-waiter/internal/apiclient"
)

// Классы ошибок. Любая ошибка операции сводится ровно к одному из них через errors.Is.
var (
	// ErrValidation: некорректный локальный ввод, запрос не отправлялся.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidState: операция недоступна в текущем состоянии, запрос не отправлялся.
	ErrInvalidState = errors.New("operation not allowed in current state")
	// ErrAuth: токен отсутствует или отвергнут сервером (401).
	ErrAuth = errors.New("not authenticated")
	// ErrNotFoundOrConflict: сервер ответил 4xx, отличным от 401.
	ErrNotFoundOrConflict = errors.New("rejected by server")
	// ErrTransport: сеть недоступна или соединение прервано.
	ErrTransport = errors.New("transport failure")
	// ErrServer: сервер ответил 5xx или прислал некорректный ответ.
	ErrServer = errors.New("server failure")
	// ErrStorage: хранилище устройства недоступно, запрос не отправлялся.
	ErrStorage = errors.New("device storage failure")
)

var (
	ErrMissingCredentials = fmt.Errorf("%w: email and password are required", ErrValidation)
	ErrInvalidTable       = fmt.Errorf("%w: table must be a positive integer", ErrValidation)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be a positive integer", ErrValidation)
	ErrMissingOrderID     = fmt.Errorf("%w: order id is required", ErrValidation)
	ErrUnknownCategory    = fmt.Errorf("%w: category is not in the fetched list", ErrValidation)
	ErrUnknownProduct     = fmt.Errorf("%w: product is not in the fetched list", ErrValidation)
	ErrUnknownItem        = fmt.Errorf("%w: item is not in the order", ErrValidation)
	ErrNoProduct          = fmt.Errorf("%w: no product selected", ErrValidation)

	ErrAlreadyAuthenticated = fmt.Errorf("%w: already signed in", ErrInvalidState)
	ErrNoActiveOrder        = fmt.Errorf("%w: no active order", ErrInvalidState)
	ErrOrderBusy            = fmt.Errorf("%w: order is being closed", ErrInvalidState)
	ErrOrderEmpty           = fmt.Errorf("%w: order has no items", ErrInvalidState)
	ErrOrderNotEmpty        = fmt.Errorf("%w: order still has items", ErrInvalidState)
	ErrPendingItems         = fmt.Errorf("%w: item changes are still in flight", ErrInvalidState)
	ErrOrderChanged         = fmt.Errorf("%w: active order changed while the request was in flight", ErrInvalidState)

	ErrInvalidCredentials = fmt.Errorf("%w: wrong email or password", ErrAuth)
	ErrSessionExpired     = fmt.Errorf("%w: session expired", ErrAuth)
)

// Op называет операцию сценария для сообщений об ошибках.
type Op string

const (
	OpSignIn         Op = "sign_in"
	OpOpenTable      Op = "open_table"
	OpLoadCategories Op = "load_categories"
	OpLoadProducts   Op = "load_products"
	OpAddItem        Op = "add_item"
	OpRemoveItem     Op = "remove_item"
	OpFinalize       Op = "finalize"
	OpDiscard        Op = "discard"
	OpListOrders     Op = "list_orders"
	OpOrderDetail    Op = "order_detail"
	OpUpdateTable    Op = "update_table"
)

// OpError связывает сбой удалённого вызова с операцией, в которой он произошёл.
type OpError struct {
	Op  Op
	Err error
}

func (e *OpError) Error() string {
	return string(e.Op) + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// classify сводит ошибку клиента API к одному из классов.
func classify(err error) error {
	var httpErr *apiclient.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.Unauthorized():
			return fmt.Errorf("%w: %w", ErrAuth, err)
		case httpErr.Status >= 400 && httpErr.Status < 500:
			return fmt.Errorf("%w: %w", ErrNotFoundOrConflict, err)
		default:
			return fmt.Errorf("%w: %w", ErrServer, err)
		}
	}

	var transportErr *apiclient.TransportError
	if errors.As(err, &transportErr) {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	return fmt.Errorf("%w: %w", ErrServer, err)
}

func isUnauthorized(err error) bool {
	var httpErr *apiclient.HTTPError
	return errors.As(err, &httpErr) && httpErr.Unauthorized()
}
