package session

import (
	"fmt"
	"sync"
)

// TokenRepository — долговременное хранилище токенов (по одному на чат).
type TokenRepository interface {
	Get(chatID int64) (string, error)
	Save(chatID int64, token string) error
	Delete(chatID int64) error
}

// Store хранит текущие токены сессий и выводит из них состояние авторизации.
// Создается один раз при старте приложения и передается по ссылке всем
// потребителям; кроме входа и выхода его никто не изменяет.
type Store struct {
	repo TokenRepository

	mu    sync.Mutex
	cache map[int64]string
}

// NewStore создает хранилище сессий поверх долговременного репозитория.
func NewStore(repo TokenRepository) *Store {
	return &Store{repo: repo, cache: make(map[int64]string)}
}

// Token возвращает текущий токен чата, если он есть.
func (s *Store) Token(chatID int64) (string, bool) {
	s.mu.Lock()
	if token, ok := s.cache[chatID]; ok {
		s.mu.Unlock()
		return token, true
	}
	s.mu.Unlock()

	token, err := s.repo.Get(chatID)
	if err != nil || token == "" {
		return "", false
	}
	s.mu.Lock()
	s.cache[chatID] = token
	s.mu.Unlock()
	return token, true
}

// SetToken сохраняет токен после успешного входа. Если запись в хранилище
// не удалась, токен не считается сохраненным.
func (s *Store) SetToken(chatID int64, token string) error {
	if err := s.repo.Save(chatID, token); err != nil {
		return fmt.Errorf("вход выполнен, но сессию сохранить не удалось: %w", err)
	}
	s.mu.Lock()
	s.cache[chatID] = token
	s.mu.Unlock()
	return nil
}

// Clear безусловно удаляет токен чата. Повторный вызов безопасен.
func (s *Store) Clear(chatID int64) error {
	s.mu.Lock()
	delete(s.cache, chatID)
	s.mu.Unlock()
	return s.repo.Delete(chatID)
}

// IsAuthenticated: сессия есть, если есть токен. Срок действия не
// проверяется, обращений к серверу нет.
func (s *Store) IsAuthenticated(chatID int64) bool {
	_, ok := s.Token(chatID)
	return ok
}

// IsAdmin сообщает, заявлена ли в токене роль администратора. Подсказка
// влияет только на видимость админских экранов; бэкенд авторизует
// привилегированные операции независимо.
func (s *Store) IsAdmin(chatID int64) bool {
	token, ok := s.Token(chatID)
	if !ok {
		return false
	}
	role, ok := DecodeRoleHint(token)
	return ok && role == "admin"
}
