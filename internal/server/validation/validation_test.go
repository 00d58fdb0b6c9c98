package validation

import (
	"testing"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type addressInput struct {
	UserID     string  `json:"id_user" validate:"required,uuid"`
	City       string  `json:"city" validate:"required,min=3"`
	PostalCode string  `json:"postal_code" validate:"required,min=7"`
	Phone      *string `json:"phone_number" validate:"omitempty,min=9"`
}

func TestCheck(t *testing.T) {
	short := "123"

	tests := []struct {
		name     string
		in       any
		wantCode string
		wantMsg  string
	}{
		{
			name: "valid user",
			in:   userInput{Name: "Al", Email: "al@example.com", Password: "12345678"},
		},
		{
			name:     "short name",
			in:       userInput{Name: "A", Email: "al@example.com", Password: "12345678"},
			wantCode: common.ErrInvalidParam.Code,
			wantMsg:  "The name field is a empty string or less than 2 characters",
		},
		{
			name:     "bad email",
			in:       userInput{Name: "Al", Email: "nope", Password: "12345678"},
			wantCode: common.ErrInvalidParam.Code,
			wantMsg:  "The email field is a invalid email address",
		},
		{
			name:     "short password",
			in:       userInput{Name: "Al", Email: "al@example.com", Password: "1234567"},
			wantCode: common.ErrInvalidParam.Code,
			wantMsg:  "The password field is a password with less than 8 characters",
		},
		{
			name:     "missing fields are listed together",
			in:       userInput{Name: "Al"},
			wantCode: common.ErrMissingParam.Code,
			wantMsg:  "The field(s): [email,password] is missing.",
		},
		{
			name:     "bad uuid reported first",
			in:       addressInput{UserID: "123", City: "ab", PostalCode: "1"},
			wantCode: common.ErrInvalidParam.Code,
			wantMsg:  "The id_user does not have a valid uuid format",
		},
		{
			name:     "generic field message",
			in:       addressInput{UserID: "0b6a5a3e-6d1f-4a8e-9d0c-2c8f0e3f7a11", City: "ab", PostalCode: "1234567"},
			wantCode: common.ErrInvalidParam.Code,
			wantMsg:  "The param: city is invalid.",
		},
		{
			name:     "postal code",
			in:       addressInput{UserID: "0b6a5a3e-6d1f-4a8e-9d0c-2c8f0e3f7a11", City: "abc", PostalCode: "123"},
			wantCode: common.ErrInvalidParam.Code,
			wantMsg:  "The param postal_code is not valid",
		},
		{
			name:     "optional pointer checked when set",
			in:       addressInput{UserID: "0b6a5a3e-6d1f-4a8e-9d0c-2c8f0e3f7a11", City: "abc", PostalCode: "1234567", Phone: &short},
			wantCode: common.ErrInvalidParam.Code,
			wantMsg:  "The param: phone_number have less than 9 characters",
		},
		{
			name: "optional pointer skipped when nil",
			in:   addressInput{UserID: "0b6a5a3e-6d1f-4a8e-9d0c-2c8f0e3f7a11", City: "abc", PostalCode: "1234567"},
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := v.Check(tt.in)
			if tt.wantCode == "" {
				assert.Nil(t, f)
				return
			}
			require.NotNil(t, f)
			assert.Equal(t, tt.wantCode, f.Code)
			assert.Equal(t, tt.wantMsg, f.Message)
			assert.Equal(t, common.KindValidation, f.Kind)
		})
	}
}

func TestCheck_NonStructInput(t *testing.T) {
	f := New().Check("not a struct")
	require.NotNil(t, f)
	assert.ErrorIs(t, f, common.ErrInvalidParam)
}

func TestAtLeastOne(t *testing.T) {
	assert.Nil(t, AtLeastOne(true, "type", "phone_number"))

	f := AtLeastOne(false, "type", "phone_number")
	require.NotNil(t, f)
	assert.ErrorIs(t, f, common.ErrMissingParam)
	assert.Equal(t, "The requisition must includes at least one of the following fields: [type,phone_number].", f.Message)
}
