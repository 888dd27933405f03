package client

import "net/http"

// AuthClient — типизированный клиент сервиса аутентификации.
type AuthClient struct {
	c *Client
}

// NewAuthClient создает клиента сервиса аутентификации.
func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

// TokenResponse — ответ сервиса на успешный вход.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token обменивает имя пользователя и пароль на bearer-токен.
func (a *AuthClient) Token(username, password string) (*TokenResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var res TokenResponse
	if err := a.c.do(http.MethodPost, a.c.authURL+"/token", "", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register создает новую учетную запись.
func (a *AuthClient) Register(username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return a.c.do(http.MethodPost, a.c.authURL+"/register", "", body, nil)
}
