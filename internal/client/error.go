package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError — структурированный отказ бэкенда. Поле Detail, если сервер его
// прислал, показывается пользователю дословно.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("сервис вернул статус %d", e.StatusCode)
}

// newAPIError разбирает тело ошибочного ответа. Отсутствие или нечитаемость
// поля detail не считается ошибкой: Detail остается пустым, и вызывающая
// сторона подставит запасной текст операции.
func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(body, &payload)
	return &APIError{StatusCode: status, Detail: payload.Detail}
}

// ErrorDetail возвращает текст для показа пользователю: detail
// структурированной ошибки, если он есть, иначе запасной текст операции.
func ErrorDetail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
