package models

import "time"

type Address struct {
	ID          string    `json:"-"`
	UserID      string    `json:"id_user"`
	State       string    `json:"state"`
	District    string    `json:"district"`
	City        string    `json:"city"`
	HouseNumber int       `json:"house_number"`
	PostalCode  string    `json:"postal_code"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// AddressPatch carries the fields of an address update. Nil means keep.
type AddressPatch struct {
	State       *string
	District    *string
	City        *string
	HouseNumber *int
	PostalCode  *string
}

// Apply copies the non-nil fields of p onto a.
func (p AddressPatch) Apply(a *Address) {
	if p.State != nil {
		a.State = *p.State
	}
	if p.District != nil {
		a.District = *p.District
	}
	if p.City != nil {
		a.City = *p.City
	}
	if p.HouseNumber != nil {
		a.HouseNumber = *p.HouseNumber
	}
	if p.PostalCode != nil {
		a.PostalCode = *p.PostalCode
	}
}
