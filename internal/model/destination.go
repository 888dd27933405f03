package model

// Destination представляет туристическое направление из каталога бэкенда.
// Каталог принадлежит серверу: клиент хранит только читаемые копии и меняет
// их исключительно через явные вызовы create/update/delete.
type Destination struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Region      string   `json:"region,omitempty"`
	Price       *float64 `json:"price,omitempty"` // цена за человека в день; может отсутствовать
}

// CreateDestination — тело запроса на создание направления.
type CreateDestination struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Region      string   `json:"region,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// UpdateDestination — тело частичного обновления (PATCH): передаются только
// заполненные поля.
type UpdateDestination struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Region      *string  `json:"region,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}
