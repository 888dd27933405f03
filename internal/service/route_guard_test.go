package service

import (
	"database/sql"
	"testing"

	"github.com/SebaxtriUTP/colombia-explora/internal/session"
)

type memTokenRepo struct {
	tokens map[int64]string
}

func (r *memTokenRepo) Get(chatID int64) (string, error) {
	token, ok := r.tokens[chatID]
	if !ok {
		return "", sql.ErrNoRows
	}
	return token, nil
}

func (r *memTokenRepo) Save(chatID int64, token string) error {
	r.tokens[chatID] = token
	return nil
}

func (r *memTokenRepo) Delete(chatID int64) error {
	delete(r.tokens, chatID)
	return nil
}

func TestCanEnter(t *testing.T) {
	store := session.NewStore(&memTokenRepo{tokens: map[int64]string{42: "tok"}})
	guard := NewRouteGuard(store)

	cases := []struct {
		route  Route
		chatID int64
		want   bool
	}{
		{RouteHome, 1, true},
		{RouteLogin, 1, true},
		{RouteRegister, 1, true},
		{RouteReservations, 1, false},
		{RouteReserve, 1, false},
		{RouteAdmin, 1, false},
		{RouteReservations, 42, true},
		{RouteReserve, 42, true},
		{RouteAdmin, 42, true},
	}
	for _, tc := range cases {
		if got := guard.CanEnter(tc.route, tc.chatID); got != tc.want {
			t.Errorf("CanEnter(%q, %d) = %v, ожидалось %v", tc.route, tc.chatID, got, tc.want)
		}
	}
}

func TestCanEnterAfterLogout(t *testing.T) {
	store := session.NewStore(&memTokenRepo{tokens: map[int64]string{7: "tok"}})
	guard := NewRouteGuard(store)

	if !guard.CanEnter(RouteReservations, 7) {
		t.Fatal("с токеном переход разрешен")
	}
	if err := store.Clear(7); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if guard.CanEnter(RouteReservations, 7) {
		t.Fatal("после выхода переход запрещен")
	}
}
