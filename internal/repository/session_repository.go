package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SessionRepository обеспечивает долговременное хранение токенов сессий в
// базе данных: один токен на чат под известным ключом (chat_id). Записи
// переживают перезапуск процесса и удаляются только явным выходом из сессии.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository создает новый репозиторий сессий.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get возвращает сохраненный токен чата. Если токена нет, возвращается
// ошибка sql.ErrNoRows (через sqlx.Get).
func (r *SessionRepository) Get(chatID int64) (string, error) {
	var token string
	err := r.db.Get(&token, "SELECT token FROM sessions WHERE chat_id=$1", chatID)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Save сохраняет токен чата, заменяя предыдущий.
func (r *SessionRepository) Save(chatID int64, token string) error {
	query := `INSERT INTO sessions (chat_id, token) VALUES ($1, $2)
	          ON CONFLICT (chat_id) DO UPDATE SET token = EXCLUDED.token, updated_at = NOW()`
	if _, err := r.db.Exec(query, chatID, token); err != nil {
		return fmt.Errorf("не удалось сохранить токен сессии: %w", err)
	}
	return nil
}

// Delete удаляет токен чата. Отсутствие записи не считается ошибкой.
func (r *SessionRepository) Delete(chatID int64) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE chat_id=$1", chatID); err != nil {
		return fmt.Errorf("не удалось удалить токен сессии: %w", err)
	}
	return nil
}
