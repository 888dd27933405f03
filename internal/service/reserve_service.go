package service

import (
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SebaxtriUTP/colombia-explora/internal/client"
	"github.com/SebaxtriUTP/colombia-explora/internal/model"
)

// DateLayout — формат дат заезда и выезда, принятый API.
const DateLayout = "2006-01-02"

// FallbackLoadDestination и FallbackCreateReservation — запасные тексты
// ошибок экрана бронирования (когда бэкенд не прислал detail).
const (
	FallbackLoadDestination   = "Error al cargar el destino"
	FallbackCreateReservation = "Error al crear la reserva"
)

// ErrNotSubmittable возвращается при попытке отправить заявку, когда форма
// неполна, некорректна или отправка уже идет.
var ErrNotSubmittable = errors.New("заявка не готова к отправке")

// DestinationLister получает каталог направлений.
type DestinationLister interface {
	List(token string) ([]model.Destination, error)
}

// ReservationCreator отправляет заявку на бронирование.
type ReservationCreator interface {
	Create(token string, payload model.CreateReservation) (*model.Reservation, error)
}

// ReserveState — состояние диалога бронирования.
type ReserveState int

const (
	StateLoading ReserveState = iota
	StateNotFound
	StateEditing
	StateSubmitting
	StateDone
)

// ReserveFlow ведет оформление одной брони: загрузку направления,
// редактирование параметров с пересчетом стоимости и отправку заявки.
// Ошибка отправки возвращает диалог в режим редактирования для повтора.
type ReserveFlow struct {
	state ReserveState
	dest  *model.Destination

	People   int
	CheckIn  string
	CheckOut string

	// Предварительная оценка; ноль означает «данные неполны или
	// некорректны», отправка при этом недоступна.
	Nights int
	Total  float64

	Error      string
	submitting bool
}

// State возвращает текущее состояние диалога.
func (f *ReserveFlow) State() ReserveState { return f.state }

// Destination возвращает загруженное направление (nil, если не найдено).
func (f *ReserveFlow) Destination() *model.Destination { return f.dest }

// Submitting сообщает, идет ли отправка заявки прямо сейчас.
func (f *ReserveFlow) Submitting() bool { return f.submitting }

// SetPeople меняет число участников и пересчитывает оценку.
func (f *ReserveFlow) SetPeople(n int) {
	f.People = n
	f.recompute()
}

// SetCheckIn меняет дату заезда и пересчитывает оценку.
func (f *ReserveFlow) SetCheckIn(date string) {
	f.CheckIn = date
	f.recompute()
}

// SetCheckOut меняет дату выезда и пересчитывает оценку.
func (f *ReserveFlow) SetCheckOut(date string) {
	f.CheckOut = date
	f.recompute()
}

func (f *ReserveFlow) recompute() {
	var price *float64
	if f.dest != nil {
		price = f.dest.Price
	}
	f.Nights, f.Total = Quote(price, f.People, f.CheckIn, f.CheckOut)
}

// Quote вычисляет число ночей и предварительную стоимость брони.
// Отсутствующая цена, пустые даты или выезд не позже заезда дают нулевую
// оценку: это «данные неполны», а не ошибка.
func Quote(price *float64, people int, checkIn, checkOut string) (nights int, total float64) {
	if price == nil || checkIn == "" || checkOut == "" {
		return 0, 0
	}
	start, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return 0, 0
	}
	end, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return 0, 0
	}
	if !end.After(start) {
		return 0, 0
	}
	nights = int(math.Ceil(end.Sub(start).Hours() / 24))
	return nights, *price * float64(people) * float64(nights)
}

// reservationInput — параметры брони, проверяемые перед отправкой.
type reservationInput struct {
	DestinationID int    `validate:"required"`
	People        int    `validate:"min=1,max=20"`
	CheckIn       string `validate:"required"`
	CheckOut      string `validate:"required"`
}

// ReserveService создает диалоги бронирования поверх клиентов ресурсов.
type ReserveService struct {
	destinations DestinationLister
	reservations ReservationCreator
	validate     *validator.Validate
}

// NewReserveService создает новый сервис бронирования.
func NewReserveService(destinations DestinationLister, reservations ReservationCreator) *ReserveService {
	return &ReserveService{
		destinations: destinations,
		reservations: reservations,
		validate:     validator.New(),
	}
}

// StartFlow загружает каталог и находит направление линейным поиском по
// идентификатору. Если направление не найдено или каталог недоступен,
// диалог завершается состоянием NotFound.
func (s *ReserveService) StartFlow(token string, destinationID int) *ReserveFlow {
	flow := &ReserveFlow{state: StateLoading, People: 1}
	dests, err := s.destinations.List(token)
	if err != nil {
		flow.state = StateNotFound
		flow.Error = client.ErrorDetail(err, FallbackLoadDestination)
		return flow
	}
	for i := range dests {
		if dests[i].ID == destinationID {
			flow.dest = &dests[i]
			break
		}
	}
	if flow.dest == nil {
		flow.state = StateNotFound
		return flow
	}
	flow.state = StateEditing
	flow.recompute()
	return flow
}

// CanSubmit сообщает, готова ли заявка к отправке: диалог в режиме
// редактирования, отправка не идет, оценка ненулевая и поля проходят
// проверку (люди в пределах 1–20, обе даты заданы).
func (s *ReserveService) CanSubmit(flow *ReserveFlow) bool {
	if flow.state != StateEditing || flow.submitting || flow.Total <= 0 {
		return false
	}
	input := reservationInput{
		DestinationID: flow.dest.ID,
		People:        flow.People,
		CheckIn:       flow.CheckIn,
		CheckOut:      flow.CheckOut,
	}
	return s.validate.Struct(input) == nil
}

// Submit отправляет заявку. Итоговую стоимость считает бэкенд; клиентская
// оценка с ней не сверяется. При отказе диалог остается в режиме
// редактирования с текстом ошибки, автоматических повторов нет.
func (s *ReserveService) Submit(flow *ReserveFlow, token string) (*model.Reservation, error) {
	if !s.CanSubmit(flow) {
		return nil, ErrNotSubmittable
	}
	flow.state = StateSubmitting
	flow.submitting = true
	flow.Error = ""

	res, err := s.reservations.Create(token, model.CreateReservation{
		DestinationID: flow.dest.ID,
		People:        flow.People,
		CheckIn:       flow.CheckIn,
		CheckOut:      flow.CheckOut,
	})
	flow.submitting = false
	if err != nil {
		flow.state = StateEditing
		flow.Error = client.ErrorDetail(err, FallbackCreateReservation)
		return nil, err
	}
	flow.state = StateDone
	return res, nil
}
