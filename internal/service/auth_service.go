package service

import (
	"errors"

	"github.com/SebaxtriUTP/colombia-explora/internal/client"
	"github.com/SebaxtriUTP/colombia-explora/internal/session"
)

// ErrAutoLoginFailed означает, что учетная запись создана, но последующий
// автоматический вход не удался: пользователю предлагается войти вручную.
var ErrAutoLoginFailed = errors.New("Cuenta creada pero hubo un error al iniciar sesión. Por favor inicia sesión manualmente.")

// AuthService выполняет вход, регистрацию и выход пользователя клиента.
type AuthService struct {
	auth     *client.AuthClient
	sessions *session.Store
}

// NewAuthService создает новый сервис аутентификации.
func NewAuthService(auth *client.AuthClient, sessions *session.Store) *AuthService {
	return &AuthService{auth: auth, sessions: sessions}
}

// Login обменивает учетные данные на токен и сохраняет его в сессии чата.
// При отказе сервиса токен не сохраняется, ошибка передается наверх.
func (s *AuthService) Login(chatID int64, username, password string) error {
	res, err := s.auth.Token(username, password)
	if err != nil {
		return err
	}
	return s.sessions.SetToken(chatID, res.AccessToken)
}

// Register создает учетную запись и сразу выполняет вход с теми же
// данными, как это делал веб-клиент.
func (s *AuthService) Register(chatID int64, username, email, password string) error {
	if err := s.auth.Register(username, email, password); err != nil {
		return err
	}
	if err := s.Login(chatID, username, password); err != nil {
		return ErrAutoLoginFailed
	}
	return nil
}

// Logout безусловно завершает сессию чата; повторный вызов безопасен.
func (s *AuthService) Logout(chatID int64) error {
	return s.sessions.Clear(chatID)
}
