package state

import "github.com/Freeeeeet/attendance_bot/internal/service"

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Состояния для добавления ученика
	StateAddName    UserState = "add_name"
	StateAddAge     UserState = "add_age"
	StateAddPhone   UserState = "add_phone"
	StateAddCourse  UserState = "add_course"
	StateAddClasses UserState = "add_classes"
	StateAddDates   UserState = "add_dates"
	StateAddNotes   UserState = "add_notes"

	// Редактирование одного поля ученика
	StateEditField UserState = "edit_field"
)

// EditField поле ученика или абонемента, которое меняется в диалоге
type EditField string

const (
	FieldName   EditField = "name"
	FieldAge    EditField = "age"
	FieldPhone  EditField = "phone"
	FieldCourse EditField = "course"
	FieldNotes  EditField = "notes"
	FieldStart  EditField = "start"
	FieldEnd    EditField = "end"
	FieldTotal  EditField = "total"
	FieldUsed   EditField = "used"
)

// EditFields поля в порядке кнопок меню редактирования
func EditFields() []EditField {
	return []EditField{
		FieldName, FieldAge, FieldPhone, FieldCourse, FieldNotes,
		FieldStart, FieldEnd, FieldTotal, FieldUsed,
	}
}

// Valid проверяет, что поле известно
func (f EditField) Valid() bool {
	for _, field := range EditFields() {
		if f == field {
			return true
		}
	}
	return false
}

// UserData хранит состояние и черновик ученика во время диалога
type UserData struct {
	State UserState
	Draft service.NewStudent

	// Заполняются только в StateEditField
	StudentID string
	Field     EditField
}
