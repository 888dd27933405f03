package session

import "github.com/golang-jwt/jwt/v5"

// DecodeRoleHint читает поле role из полезной нагрузки токена БЕЗ проверки
// подписи. Это непроверенная подсказка для интерфейса, не граница
// безопасности. Любой дефект токена (не три сегмента, битый base64,
// не-JSON нагрузка, отсутствующее поле) дает ("", false) — функция никогда
// не возвращает ошибку.
func DecodeRoleHint(token string) (string, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", false
	}
	return role, true
}
