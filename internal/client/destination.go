package client

import (
	"fmt"
	"net/http"

	"github.com/SebaxtriUTP/colombia-explora/internal/model"
)

// DestinationClient — типизированный клиент каталога направлений.
type DestinationClient struct {
	c *Client
}

// NewDestinationClient создает клиента каталога направлений.
func NewDestinationClient(c *Client) *DestinationClient {
	return &DestinationClient{c: c}
}

// List возвращает весь каталог направлений. Отдельного запроса одного
// направления у API нет: нужный элемент ищется в списке.
func (d *DestinationClient) List(token string) ([]model.Destination, error) {
	dests := []model.Destination{}
	if err := d.c.do(http.MethodGet, d.c.apiURL+"/destinations", token, nil, &dests); err != nil {
		return nil, err
	}
	return dests, nil
}

// Create добавляет направление в каталог (только для администраторов).
func (d *DestinationClient) Create(token string, payload model.CreateDestination) (*model.Destination, error) {
	var dest model.Destination
	if err := d.c.do(http.MethodPost, d.c.apiURL+"/destinations", token, payload, &dest); err != nil {
		return nil, err
	}
	return &dest, nil
}

// Update частично обновляет направление по идентификатору.
func (d *DestinationClient) Update(token string, id int, payload model.UpdateDestination) (*model.Destination, error) {
	var dest model.Destination
	url := fmt.Sprintf("%s/destinations/%d", d.c.apiURL, id)
	if err := d.c.do(http.MethodPatch, url, token, payload, &dest); err != nil {
		return nil, err
	}
	return &dest, nil
}

// Delete удаляет направление по идентификатору.
func (d *DestinationClient) Delete(token string, id int) error {
	url := fmt.Sprintf("%s/destinations/%d", d.c.apiURL, id)
	return d.c.do(http.MethodDelete, url, token, nil, nil)
}
