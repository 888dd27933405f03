package model

// Reservation представляет бронь, рассчитанную и сохраненную бэкендом.
// Поле TotalPrice — авторитетное значение сервера; клиентская оценка
// стоимости используется только для предварительного показа.
type Reservation struct {
	ID            int     `json:"id"`
	UserID        int     `json:"user_id"`
	DestinationID int     `json:"destination_id"`
	People        int     `json:"people"`
	CheckIn       string  `json:"check_in"`  // дата в формате YYYY-MM-DD
	CheckOut      string  `json:"check_out"` // дата в формате YYYY-MM-DD
	TotalPrice    float64 `json:"total_price"`
	CreatedAt     string  `json:"created_at"`
}

// CreateReservation — тело запроса на создание брони. Итоговую стоимость
// сервер вычисляет сам.
type CreateReservation struct {
	DestinationID int    `json:"destination_id"`
	People        int    `json:"people"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
}
