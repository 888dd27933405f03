package service

import "github.com/SebaxtriUTP/colombia-explora/internal/session"

// Route — экран клиента, на который запрашивается переход.
type Route string

const (
	RouteHome         Route = "home"
	RouteLogin        Route = "login"
	RouteRegister     Route = "register"
	RouteReservations Route = "reservations"
	RouteReserve      Route = "reserve"
	RouteAdmin        Route = "admin"
)

// authRequired перечисляет экраны, доступные только авторизованным
// пользователям. Экран администратора требует лишь входа: роль admin
// скрывает или показывает пункт меню, а сами операции авторизует бэкенд.
var authRequired = map[Route]bool{
	RouteReservations: true,
	RouteReserve:      true,
	RouteAdmin:        true,
}

// RouteGuard пропускает или блокирует переходы между экранами по состоянию
// сессии. При отказе вызывающая сторона показывает экран входа; исходная
// цель перехода не запоминается.
type RouteGuard struct {
	sessions *session.Store
}

// NewRouteGuard создает охранника маршрутов.
func NewRouteGuard(sessions *session.Store) *RouteGuard {
	return &RouteGuard{sessions: sessions}
}

// CanEnter сообщает, разрешен ли данному чату переход на экран.
func (g *RouteGuard) CanEnter(route Route, chatID int64) bool {
	if !authRequired[route] {
		return true
	}
	return g.sessions.IsAuthenticated(chatID)
}
