// Package validation содержит функции валидации пользовательского ввода.
package validation

import (
	"strconv"
	"strings"
)

// ParsePositiveInt разбирает свободный ввод (номер стола, количество) как целое число больше нуля.
// Пробелы по краям допускаются, всё остальное отвергается.
func ParsePositiveInt(input string) (int, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, false
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}
