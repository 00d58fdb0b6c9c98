package models

import "time"

// DefaultPhoneTypes are the rows seeded into user_phone_types. A phone's
// Type must name one of the known types.
var DefaultPhoneTypes = []string{"cellphone", "home", "work"}

type Phone struct {
	ID          string    `json:"-"`
	UserID      string    `json:"id_user"`
	Type        string    `json:"type"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// PhonePatch carries the fields of a phone update. Nil means keep.
type PhonePatch struct {
	Type        *string
	PhoneNumber *string
}

func (p PhonePatch) Apply(ph *Phone) {
	if p.Type != nil {
		ph.Type = *p.Type
	}
	if p.PhoneNumber != nil {
		ph.PhoneNumber = *p.PhoneNumber
	}
}
