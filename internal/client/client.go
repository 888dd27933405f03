package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client — обертка над HTTP-клиентом для обращения к двум внешним сервисам
// (общий API и сервис аутентификации). Если передан токен, он подставляется
// в заголовок Authorization каждого запроса; при его отсутствии заголовок
// не отправляется. Ответ 401/403 не приводит ни к выходу из сессии, ни к
// повтору запроса: ошибка возвращается вызывающей стороне как есть.
type Client struct {
	apiURL  string
	authURL string
	http    *http.Client
}

// New создает клиента для указанных базовых адресов сервисов.
func New(apiURL, authURL string) *Client {
	return &Client{
		apiURL:  apiURL,
		authURL: authURL,
		http:    &http.Client{},
	}
}

// do выполняет запрос и декодирует JSON-ответ в out (если out != nil).
// Статусы >= 400 превращаются в *APIError с полем detail из тела ответа.
func (c *Client) do(method, url, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("не удалось сериализовать тело запроса: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("не удалось подготовить запрос: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Транспортная ошибка: структурированного ответа нет
		return fmt.Errorf("запрос %s %s не выполнен: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("не удалось прочитать ответ: %w", err)
	}
	if resp.StatusCode >= 400 {
		return newAPIError(resp.StatusCode, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("не удалось разобрать ответ: %w", err)
		}
	}
	return nil
}
