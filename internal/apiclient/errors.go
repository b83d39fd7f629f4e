package apiclient

import (
	"fmt"
	"net/http"
)

// HTTPError описывает ответ удалённого API с неуспешным статусом.
type HTTPError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Unauthorized сообщает, что сервер отверг учётные данные или токен.
func (e *HTTPError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// TransportError описывает сбой доставки запроса: сеть недоступна, соединение разорвано, истёк таймаут.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
