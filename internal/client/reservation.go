package client

import (
	"net/http"

	"github.com/SebaxtriUTP/colombia-explora/internal/model"
)

// ReservationClient — типизированный клиент броней текущего пользователя.
type ReservationClient struct {
	c *Client
}

// NewReservationClient создает клиента броней.
func NewReservationClient(c *Client) *ReservationClient {
	return &ReservationClient{c: c}
}

// List возвращает брони пользователя, которому принадлежит токен.
func (r *ReservationClient) List(token string) ([]model.Reservation, error) {
	reservations := []model.Reservation{}
	if err := r.c.do(http.MethodGet, r.c.apiURL+"/reservations", token, nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// Create отправляет заявку на бронь. Итоговую стоимость считает бэкенд;
// возвращенное значение total_price — авторитетное.
func (r *ReservationClient) Create(token string, payload model.CreateReservation) (*model.Reservation, error) {
	var res model.Reservation
	if err := r.c.do(http.MethodPost, r.c.apiURL+"/reservations", token, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
