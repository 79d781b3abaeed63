package model

import "time"

type Student struct {
	ID           string       `json:"id"`
	FullName     string       `json:"fullName"`
	Age          int          `json:"age"` // 5-18, не проверяется
	ParentPhone  string       `json:"parentPhone"`
	Course       Course       `json:"course"`
	Subscription Subscription `json:"subscription"`
	Notes        string       `json:"notes,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// StudentInput данные нового ученика без ID и временных меток
type StudentInput struct {
	FullName     string
	Age          int
	ParentPhone  string
	Course       Course
	Subscription Subscription
	Notes        string
}

// StudentPatch частичное обновление ученика. ID и CreatedAt изменить нельзя
type StudentPatch struct {
	FullName     *string
	Age          *int
	ParentPhone  *string
	Course       *Course
	Subscription *Subscription
	Notes        *string
}

// Apply возвращает копию ученика с применёнными изменениями
func (p StudentPatch) Apply(st Student) Student {
	if p.FullName != nil {
		st.FullName = *p.FullName
	}
	if p.Age != nil {
		st.Age = *p.Age
	}
	if p.ParentPhone != nil {
		st.ParentPhone = *p.ParentPhone
	}
	if p.Course != nil {
		st.Course = *p.Course
	}
	if p.Subscription != nil {
		st.Subscription = *p.Subscription
	}
	if p.Notes != nil {
		st.Notes = *p.Notes
	}
	return st
}

// StudentStats сводка по абонементам всех учеников.
// Expired объединяет статусы expired и exhausted
type StudentStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
}
