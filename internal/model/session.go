package model

// Session хранит bearer-токен, выданный сервису аутентификации, для одного
// чата. Токен непрозрачен для клиента: подпись не проверяется, полезная
// нагрузка читается только как подсказка для интерфейса.
type Session struct {
	ChatID int64  `db:"chat_id"`
	Token  string `db:"token"`
}
