package session

import (
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
)

// memRepo — хранилище токенов в памяти для тестов.
type memRepo struct {
	tokens  map[int64]string
	saveErr error
}

func newMemRepo() *memRepo {
	return &memRepo{tokens: make(map[int64]string)}
}

func (r *memRepo) Get(chatID int64) (string, error) {
	token, ok := r.tokens[chatID]
	if !ok {
		return "", sql.ErrNoRows
	}
	return token, nil
}

func (r *memRepo) Save(chatID int64, token string) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.tokens[chatID] = token
	return nil
}

func (r *memRepo) Delete(chatID int64) error {
	delete(r.tokens, chatID)
	return nil
}

// makeToken собирает структурно корректный токен с заданной полезной
// нагрузкой (подпись фиктивная — она не проверяется).
func makeToken(t *testing.T, payload map[string]interface{}) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(body) + "." + enc.EncodeToString([]byte("sig"))
}

func TestDecodeRoleHintMalformed(t *testing.T) {
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"one segment", "abc"},
		{"two segments", "abc.def"},
		{"invalid base64", "##.##.##"},
		{"payload not json", header + "." + enc.EncodeToString([]byte("not json")) + ".sig"},
		{"payload json array", header + "." + enc.EncodeToString([]byte(`[1,2]`)) + ".sig"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if role, ok := DecodeRoleHint(tc.token); ok {
				t.Fatalf("ожидался отказ, получена роль %q", role)
			}
		})
	}
}

func TestDecodeRoleHintRoles(t *testing.T) {
	cases := []struct {
		name     string
		payload  map[string]interface{}
		wantRole string
		wantOK   bool
	}{
		{"admin", map[string]interface{}{"role": "admin", "sub": "ana"}, "admin", true},
		{"plain user", map[string]interface{}{"role": "user"}, "user", true},
		{"role absent", map[string]interface{}{"sub": "ana"}, "", false},
		{"role not a string", map[string]interface{}{"role": 7}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			role, ok := DecodeRoleHint(makeToken(t, tc.payload))
			if ok != tc.wantOK || role != tc.wantRole {
				t.Fatalf("получено (%q, %v), ожидалось (%q, %v)", role, ok, tc.wantRole, tc.wantOK)
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	store := NewStore(newMemRepo())
	if store.IsAdmin(1) {
		t.Fatal("без токена не может быть администратора")
	}

	if err := store.SetToken(1, makeToken(t, map[string]interface{}{"role": "admin"})); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if !store.IsAdmin(1) {
		t.Fatal("роль admin в токене должна давать true")
	}

	if err := store.SetToken(2, makeToken(t, map[string]interface{}{"role": "user"})); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if store.IsAdmin(2) {
		t.Fatal("роль user не должна давать true")
	}

	if err := store.SetToken(3, "совсем не токен"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if store.IsAdmin(3) {
		t.Fatal("битый токен не должен давать true")
	}
	if !store.IsAuthenticated(3) {
		t.Fatal("битый токен все равно означает наличие сессии")
	}
}

func TestLogoutAlwaysUnauthenticated(t *testing.T) {
	store := NewStore(newMemRepo())

	// Выход без входа безопасен
	if err := store.Clear(5); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.IsAuthenticated(5) {
		t.Fatal("после выхода сессии быть не должно")
	}

	if err := store.SetToken(5, "tok"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if !store.IsAuthenticated(5) {
		t.Fatal("после входа сессия должна быть")
	}
	if err := store.Clear(5); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.IsAuthenticated(5) {
		t.Fatal("после выхода сессии быть не должно")
	}
}

func TestTokenSurvivesRestart(t *testing.T) {
	repo := newMemRepo()
	if err := NewStore(repo).SetToken(9, "tok"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	// Новый Store поверх того же репозитория — «перезапуск процесса»
	restarted := NewStore(repo)
	token, ok := restarted.Token(9)
	if !ok || token != "tok" {
		t.Fatalf("токен должен переживать перезапуск, получено (%q, %v)", token, ok)
	}
}

func TestSetTokenStoreFailure(t *testing.T) {
	repo := newMemRepo()
	repo.saveErr = errors.New("диск переполнен")
	store := NewStore(repo)

	if err := store.SetToken(1, "tok"); err == nil {
		t.Fatal("ожидалась ошибка сохранения")
	}
	if store.IsAuthenticated(1) {
		t.Fatal("несохраненный токен не должен давать сессию")
	}
}
