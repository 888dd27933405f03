package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/SebaxtriUTP/colombia-explora/internal/client"
	"github.com/SebaxtriUTP/colombia-explora/internal/model"
)

// Запасные и успешные тексты операций администратора.
const (
	FallbackCreateDestination = "Error al crear el destino"
	FallbackUpdateDestination = "Error al actualizar el destino"
	FallbackDeleteDestination = "Error al eliminar el destino"

	MsgDestinationCreated = "Destino creado exitosamente"
	MsgDestinationUpdated = "Destino actualizado exitosamente"
	MsgDestinationDeleted = "Destino eliminado exitosamente"
)

// DestinationEditor — операции администратора над каталогом направлений.
type DestinationEditor interface {
	List(token string) ([]model.Destination, error)
	Create(token string, payload model.CreateDestination) (*model.Destination, error)
	Update(token string, id int, payload model.UpdateDestination) (*model.Destination, error)
	Delete(token string, id int) error
}

// DestinationForm — редактируемые поля направления, общие для формы
// создания и формы правки.
type DestinationForm struct {
	Name        string  `validate:"required"`
	Description string  `validate:"-"`
	Region      string  `validate:"-"`
	Price       float64 `validate:"gte=0"`
}

// editDialog — открытая правка одного направления. Form — независимая
// копия полей цели: до сохранения правки не видны в списке.
type editDialog struct {
	target model.Destination
	Form   DestinationForm
	Error  string
	saving bool
}

// deleteDialog — открытое подтверждение удаления одного направления.
// Само удаление выполняется только вторым явным действием.
type deleteDialog struct {
	target   model.Destination
	Error    string
	deleting bool
}

// AdminFlow хранит переходное состояние экрана администратора: форму
// создания и открытые диалоги правки/удаления (не более одного каждого).
type AdminFlow struct {
	Destinations []model.Destination

	NewDest       DestinationForm
	CreateSuccess string
	CreateError   string
	creating      bool

	edit *editDialog
	del  *deleteDialog
}

// StartEdit открывает правку направления со снимком его полей. Открытие
// новой правки полностью замещает предыдущую вместе с ее изменениями.
func (f *AdminFlow) StartEdit(dest model.Destination) {
	form := DestinationForm{
		Name:        dest.Name,
		Description: dest.Description,
		Region:      dest.Region,
	}
	if dest.Price != nil {
		form.Price = *dest.Price
	}
	f.edit = &editDialog{target: dest, Form: form}
}

// CancelEdit закрывает правку, отбрасывая снимок и ошибку.
func (f *AdminFlow) CancelEdit() { f.edit = nil }

// EditTarget возвращает цель открытой правки, если она есть.
func (f *AdminFlow) EditTarget() (model.Destination, bool) {
	if f.edit == nil {
		return model.Destination{}, false
	}
	return f.edit.target, true
}

// EditForm возвращает редактируемый снимок полей (nil, если правка закрыта).
func (f *AdminFlow) EditForm() *DestinationForm {
	if f.edit == nil {
		return nil
	}
	return &f.edit.Form
}

// EditError возвращает текст ошибки открытой правки.
func (f *AdminFlow) EditError() string {
	if f.edit == nil {
		return ""
	}
	return f.edit.Error
}

// ConfirmDelete открывает подтверждение удаления направления.
func (f *AdminFlow) ConfirmDelete(dest model.Destination) {
	f.del = &deleteDialog{target: dest}
}

// CancelDelete закрывает подтверждение удаления.
func (f *AdminFlow) CancelDelete() { f.del = nil }

// DeleteTarget возвращает цель открытого подтверждения удаления.
func (f *AdminFlow) DeleteTarget() (model.Destination, bool) {
	if f.del == nil {
		return model.Destination{}, false
	}
	return f.del.target, true
}

// DeleteError возвращает текст ошибки открытого подтверждения удаления.
func (f *AdminFlow) DeleteError() string {
	if f.del == nil {
		return ""
	}
	return f.del.Error
}

// AdminService выполняет операции экрана администратора поверх клиента
// каталога.
type AdminService struct {
	editor   DestinationEditor
	validate *validator.Validate
}

// NewAdminService создает новый сервис администратора.
func NewAdminService(editor DestinationEditor) *AdminService {
	return &AdminService{editor: editor, validate: validator.New()}
}

// NewFlow создает состояние экрана администратора и загружает каталог.
func (s *AdminService) NewFlow(token string) *AdminFlow {
	flow := &AdminFlow{}
	s.Refresh(flow, token)
	return flow
}

// Refresh перечитывает каталог. При ошибке прежний список сохраняется,
// как и в веб-клиенте, без сообщения.
func (s *AdminService) Refresh(flow *AdminFlow, token string) {
	dests, err := s.editor.List(token)
	if err != nil {
		return
	}
	flow.Destinations = dests
}

// Create отправляет форму создания. Успех очищает форму и обновляет
// список; отказ показывает ошибку и сохраняет введенные значения.
func (s *AdminService) Create(flow *AdminFlow, token string) {
	if flow.creating {
		return
	}
	flow.creating = true
	flow.CreateSuccess = ""
	flow.CreateError = ""

	if err := s.validate.Struct(flow.NewDest); err != nil {
		flow.CreateError = FallbackCreateDestination
		flow.creating = false
		return
	}
	price := flow.NewDest.Price
	_, err := s.editor.Create(token, model.CreateDestination{
		Name:        flow.NewDest.Name,
		Description: flow.NewDest.Description,
		Region:      flow.NewDest.Region,
		Price:       &price,
	})
	flow.creating = false
	if err != nil {
		flow.CreateError = client.ErrorDetail(err, FallbackCreateDestination)
		return
	}
	flow.CreateSuccess = MsgDestinationCreated
	flow.NewDest = DestinationForm{}
	s.Refresh(flow, token)
}

// SaveEdit сохраняет открытую правку частичным обновлением по id. Без
// открытой правки вызов ничего не делает. Успех закрывает диалог и
// обновляет список; отказ оставляет диалог открытым с текстом ошибки.
func (s *AdminService) SaveEdit(flow *AdminFlow, token string) {
	if flow.edit == nil || flow.edit.saving {
		return
	}
	flow.edit.saving = true
	flow.edit.Error = ""

	if err := s.validate.Struct(flow.edit.Form); err != nil {
		flow.edit.Error = FallbackUpdateDestination
		flow.edit.saving = false
		return
	}
	form := flow.edit.Form
	_, err := s.editor.Update(token, flow.edit.target.ID, model.UpdateDestination{
		Name:        &form.Name,
		Description: &form.Description,
		Region:      &form.Region,
		Price:       &form.Price,
	})
	if err != nil {
		flow.edit.Error = client.ErrorDetail(err, FallbackUpdateDestination)
		flow.edit.saving = false
		return
	}
	flow.edit = nil
	flow.CreateSuccess = MsgDestinationUpdated
	s.Refresh(flow, token)
}

// ExecuteDelete выполняет подтвержденное удаление. Без открытого
// подтверждения вызов ничего не делает и не шлет запросов. Успех закрывает
// диалог и обновляет список; отказ оставляет подтверждение открытым.
func (s *AdminService) ExecuteDelete(flow *AdminFlow, token string) {
	if flow.del == nil || flow.del.deleting {
		return
	}
	flow.del.deleting = true
	flow.del.Error = ""

	if err := s.editor.Delete(token, flow.del.target.ID); err != nil {
		flow.del.Error = client.ErrorDetail(err, FallbackDeleteDestination)
		flow.del.deleting = false
		return
	}
	flow.del = nil
	flow.CreateSuccess = MsgDestinationDeleted
	s.Refresh(flow, token)
}
