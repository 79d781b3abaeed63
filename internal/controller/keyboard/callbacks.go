package keyboard

import "strings"

// Форматы callback data. Префиксы с двоеточием дополняются ID ученика
const (
	ViewStudent   = "student:"        // student:<id>
	MarkPresent   = "present:"        // present:<id>[:<дата>]
	MarkAbsent    = "absent:"         // absent:<id>[:<дата>]
	Unmark        = "unmark:"         // unmark:<id>[:<дата>]
	Day           = "day:"            // day:<дата>
	UseClass      = "use_class:"      // use_class:<id>
	Renew         = "renew:"          // renew:<id>
	Calendar      = "calendar:"       // calendar:<id>
	Edit          = "edit:"           // edit:<id>
	EditField     = "edit_field:"     // edit_field:<поле>:<id>
	EditCourse    = "edit_course:"    // edit_course:<индекс курса>
	DeleteStudent = "delete:"         // delete:<id>
	ConfirmDelete = "confirm_delete:" // confirm_delete:<id>
	AddCourse     = "add_course:"     // add_course:<индекс курса>
	Subscriptions = "subs:"           // subs:<статус>, пустой статус = все
	Noop          = "noop"
)

// Payload отрезает префикс и возвращает аргумент callback data
func Payload(data, prefix string) (string, bool) {
	if !strings.HasPrefix(data, prefix) {
		return "", false
	}
	return strings.TrimPrefix(data, prefix), true
}

// WithDate добавляет дату к ID ученика. Пустая дата означает сегодня
func WithDate(id, date string) string {
	if date == "" {
		return id
	}
	return id + ":" + date
}

// SplitDate разбирает аргумент, собранный WithDate
func SplitDate(arg string) (id, date string) {
	id, date, _ = strings.Cut(arg, ":")
	return id, date
}
