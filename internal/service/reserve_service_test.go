package service

import (
	"errors"
	"testing"

	"github.com/SebaxtriUTP/colombia-explora/internal/client"
	"github.com/SebaxtriUTP/colombia-explora/internal/model"
)

type fakeDestinations struct {
	list []model.Destination
	err  error
}

func (f *fakeDestinations) List(token string) ([]model.Destination, error) {
	return f.list, f.err
}

type fakeReservations struct {
	res   *model.Reservation
	err   error
	calls int
}

func (f *fakeReservations) Create(token string, payload model.CreateReservation) (*model.Reservation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

func price(v float64) *float64 { return &v }

func catalog() []model.Destination {
	return []model.Destination{
		{ID: 1, Name: "Valle de Cocora", Region: "Quindío", Price: price(50)},
		{ID: 2, Name: "Nevado del Ruiz", Region: "Caldas"},
	}
}

func TestQuote(t *testing.T) {
	cases := []struct {
		name       string
		price      *float64
		people     int
		in, out    string
		wantNights int
		wantTotal  float64
	}{
		{"three nights", price(50), 2, "2024-01-01", "2024-01-04", 3, 300},
		{"single night", price(80), 1, "2024-03-10", "2024-03-11", 1, 80},
		{"checkout equals checkin", price(50), 2, "2024-01-01", "2024-01-01", 0, 0},
		{"checkout before checkin", price(50), 2, "2024-01-04", "2024-01-01", 0, 0},
		{"no price", nil, 2, "2024-01-01", "2024-01-04", 0, 0},
		{"blank checkin", price(50), 2, "", "2024-01-04", 0, 0},
		{"blank checkout", price(50), 2, "2024-01-01", "", 0, 0},
		{"garbage date", price(50), 2, "mañana", "2024-01-04", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nights, total := Quote(tc.price, tc.people, tc.in, tc.out)
			if nights != tc.wantNights || total != tc.wantTotal {
				t.Fatalf("получено (%d, %.2f), ожидалось (%d, %.2f)", nights, total, tc.wantNights, tc.wantTotal)
			}
		})
	}
}

func TestStartFlowLocatesDestination(t *testing.T) {
	svc := NewReserveService(&fakeDestinations{list: catalog()}, &fakeReservations{})

	flow := svc.StartFlow("tok", 1)
	if flow.State() != StateEditing {
		t.Fatalf("состояние %v, ожидалось StateEditing", flow.State())
	}
	if flow.Destination() == nil || flow.Destination().Name != "Valle de Cocora" {
		t.Fatal("найдено не то направление")
	}
	if flow.People != 1 {
		t.Fatalf("число участников по умолчанию %d, ожидалось 1", flow.People)
	}
}

func TestStartFlowNotFound(t *testing.T) {
	svc := NewReserveService(&fakeDestinations{list: catalog()}, &fakeReservations{})

	flow := svc.StartFlow("tok", 99)
	if flow.State() != StateNotFound {
		t.Fatalf("состояние %v, ожидалось StateNotFound", flow.State())
	}
	if svc.CanSubmit(flow) {
		t.Fatal("из NotFound отправка недоступна")
	}
}

func TestStartFlowListError(t *testing.T) {
	svc := NewReserveService(&fakeDestinations{err: errors.New("conn refused")}, &fakeReservations{})

	flow := svc.StartFlow("tok", 1)
	if flow.State() != StateNotFound {
		t.Fatalf("состояние %v, ожидалось StateNotFound", flow.State())
	}
	if flow.Error != FallbackLoadDestination {
		t.Fatalf("текст %q, ожидался запасной %q", flow.Error, FallbackLoadDestination)
	}
}

func TestRecomputeOnEveryChange(t *testing.T) {
	svc := NewReserveService(&fakeDestinations{list: catalog()}, &fakeReservations{})
	flow := svc.StartFlow("tok", 1)

	flow.SetCheckIn("2024-01-01")
	flow.SetCheckOut("2024-01-04")
	flow.SetPeople(2)
	if flow.Nights != 3 || flow.Total != 300 {
		t.Fatalf("получено (%d, %.2f), ожидалось (3, 300.00)", flow.Nights, flow.Total)
	}
	if !svc.CanSubmit(flow) {
		t.Fatal("корректная заявка должна быть отправляемой")
	}

	// Инвертированный диапазон обнуляет оценку и блокирует отправку
	flow.SetCheckOut("2023-12-31")
	if flow.Nights != 0 || flow.Total != 0 {
		t.Fatalf("получено (%d, %.2f), ожидалось (0, 0.00)", flow.Nights, flow.Total)
	}
	if svc.CanSubmit(flow) {
		t.Fatal("нулевая оценка должна блокировать отправку")
	}
}

func TestCanSubmitPeopleBounds(t *testing.T) {
	svc := NewReserveService(&fakeDestinations{list: catalog()}, &fakeReservations{})
	flow := svc.StartFlow("tok", 1)
	flow.SetCheckIn("2024-01-01")
	flow.SetCheckOut("2024-01-04")

	for _, n := range []int{0, 21} {
		flow.SetPeople(n)
		if svc.CanSubmit(flow) {
			t.Fatalf("people=%d должно блокировать отправку", n)
		}
	}
	flow.SetPeople(20)
	if !svc.CanSubmit(flow) {
		t.Fatal("people=20 допустимо")
	}
}

func TestSubmitTrustsBackendTotal(t *testing.T) {
	backend := &fakeReservations{res: &model.Reservation{ID: 7, TotalPrice: 999}}
	svc := NewReserveService(&fakeDestinations{list: catalog()}, backend)
	flow := svc.StartFlow("tok", 1)
	flow.SetPeople(2)
	flow.SetCheckIn("2024-01-01")
	flow.SetCheckOut("2024-01-04")

	res, err := svc.Submit(flow, "tok")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if flow.State() != StateDone {
		t.Fatalf("состояние %v, ожидалось StateDone", flow.State())
	}
	// Локальная оценка (300) не сверяется с ответом сервера
	if res.TotalPrice != 999 {
		t.Fatalf("итог %v, ожидалось авторитетное значение сервера 999", res.TotalPrice)
	}
}

func TestSubmitFailureKeepsEditing(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantText string
	}{
		{"detail from backend", &client.APIError{StatusCode: 400, Detail: "Destination has no price set"}, "Destination has no price set"},
		{"no detail", &client.APIError{StatusCode: 500}, FallbackCreateReservation},
		{"transport failure", errors.New("conn reset"), FallbackCreateReservation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewReserveService(&fakeDestinations{list: catalog()}, &fakeReservations{err: tc.err})
			flow := svc.StartFlow("tok", 1)
			flow.SetPeople(2)
			flow.SetCheckIn("2024-01-01")
			flow.SetCheckOut("2024-01-04")

			if _, err := svc.Submit(flow, "tok"); err == nil {
				t.Fatal("ожидалась ошибка")
			}
			if flow.State() != StateEditing {
				t.Fatalf("состояние %v, ожидался возврат в StateEditing", flow.State())
			}
			if flow.Error != tc.wantText {
				t.Fatalf("текст %q, ожидалось %q", flow.Error, tc.wantText)
			}
			// Повтор возможен только вручную
			if !svc.CanSubmit(flow) {
				t.Fatal("после отказа заявка должна оставаться отправляемой")
			}
		})
	}
}

func TestSubmitRejectsIncomplete(t *testing.T) {
	backend := &fakeReservations{res: &model.Reservation{ID: 7}}
	svc := NewReserveService(&fakeDestinations{list: catalog()}, backend)
	flow := svc.StartFlow("tok", 1)

	if _, err := svc.Submit(flow, "tok"); !errors.Is(err, ErrNotSubmittable) {
		t.Fatalf("ожидался ErrNotSubmittable, получено %v", err)
	}
	if backend.calls != 0 {
		t.Fatal("неполная заявка не должна отправляться")
	}
}
