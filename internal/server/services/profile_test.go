package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validAddress(userID string) AddressInput {
	return AddressInput{
		UserID:      userID,
		State:       "Sao Paulo",
		District:    "Centro",
		City:        "Santos",
		HouseNumber: 12,
		PostalCode:  "11010-000",
	}
}

func TestCreateAddress(t *testing.T) {
	e := newEnv(t)
	u := register(t, e, "Alice", "alice@example.com", "password123")

	res, err := e.prof.CreateAddress(context.Background(), validAddress(u.ID))
	a := requireRight(t, res, err)
	assert.Equal(t, u.ID, a.UserID)
	assert.Equal(t, "Santos", a.City)

	res, err = e.prof.CreateAddress(context.Background(), validAddress(u.ID))
	f := requireLeft(t, res, err)
	assert.ErrorIs(t, f, common.ErrUserAlreadyHasAddress)
}

func TestCreateAddress_Rejections(t *testing.T) {
	e := newEnv(t)
	u := register(t, e, "Alice", "alice@example.com", "password123")

	short := validAddress(u.ID)
	short.City = "ab"

	noUUID := validAddress("not-a-uuid")

	zeroHouse := validAddress(u.ID)
	zeroHouse.HouseNumber = 0

	for name, in := range map[string]AddressInput{"short city": short, "bad id": noUUID, "no house number": zeroHouse} {
		t.Run(name, func(t *testing.T) {
			res, err := e.prof.CreateAddress(context.Background(), in)
			f := requireLeft(t, res, err)
			assert.Equal(t, common.KindValidation, f.Kind)
		})
	}

	res, err := e.prof.CreateAddress(context.Background(), validAddress(uuid.NewString()))
	f := requireLeft(t, res, err)
	assert.ErrorIs(t, f, common.ErrUserNotFound)
}

func TestUpdateAddress(t *testing.T) {
	e := newEnv(t)
	u := register(t, e, "Alice", "alice@example.com", "password123")

	res, err := e.prof.UpdateAddress(context.Background(), AddressUpdateInput{UserID: u.ID, City: ptr("Campinas")})
	f := requireLeft(t, res, err)
	assert.ErrorIs(t, f, common.ErrUserMustHaveAddress)

	cres, err := e.prof.CreateAddress(context.Background(), validAddress(u.ID))
	requireRight(t, cres, err)

	res, err = e.prof.UpdateAddress(context.Background(), AddressUpdateInput{UserID: u.ID, City: ptr("Campinas"), HouseNumber: ptr(40)})
	a := requireRight(t, res, err)
	assert.Equal(t, "Campinas", a.City)
	assert.Equal(t, 40, a.HouseNumber)
	assert.Equal(t, "Centro", a.District)
}

func TestUpdateAddress_Rejections(t *testing.T) {
	e := newEnv(t)
	u := register(t, e, "Alice", "alice@example.com", "password123")

	res, err := e.prof.UpdateAddress(context.Background(), AddressUpdateInput{UserID: u.ID})
	f := requireLeft(t, res, err)
	assert.Equal(t, common.KindValidation, f.Kind)

	res, err = e.prof.UpdateAddress(context.Background(), AddressUpdateInput{UserID: u.ID, PostalCode: ptr("123")})
	f = requireLeft(t, res, err)
	assert.Equal(t, common.KindValidation, f.Kind)

	res, err = e.prof.UpdateAddress(context.Background(), AddressUpdateInput{UserID: uuid.NewString(), City: ptr("Campinas")})
	f = requireLeft(t, res, err)
	assert.ErrorIs(t, f, common.ErrUserNotFound)
}

func TestPhone_CreateAndUpdate(t *testing.T) {
	e := newEnv(t)
	u := register(t, e, "Alice", "alice@example.com", "password123")

	ures, err := e.prof.UpdatePhone(context.Background(), PhoneUpdateInput{UserID: u.ID, Type: ptr("fax1")})
	f := requireLeft(t, ures, err)
	assert.ErrorIs(t, f, common.ErrUserMustHavePhone)

	res, err := e.prof.CreatePhone(context.Background(), PhoneInput{UserID: u.ID, Type: "home", PhoneNumber: "1332221100"})
	p := requireRight(t, res, err)
	assert.Equal(t, "home", p.Type)

	res, err = e.prof.CreatePhone(context.Background(), PhoneInput{UserID: u.ID, Type: "home", PhoneNumber: "1332221100"})
	f = requireLeft(t, res, err)
	assert.ErrorIs(t, f, common.ErrUserAlreadyHasPhone)

	ures, err = e.prof.UpdatePhone(context.Background(), PhoneUpdateInput{UserID: u.ID, PhoneNumber: ptr("13999998888")})
	p = requireRight(t, ures, err)
	assert.Equal(t, "13999998888", p.PhoneNumber)
	assert.Equal(t, "home", p.Type)

	ures, err = e.prof.UpdatePhone(context.Background(), PhoneUpdateInput{UserID: u.ID, Type: ptr("work")})
	p = requireRight(t, ures, err)
	assert.Equal(t, "work", p.Type)
}

func TestPhone_UnknownType(t *testing.T) {
	e := newEnv(t)
	u := register(t, e, "Alice", "alice@example.com", "password123")

	res, err := e.prof.CreatePhone(context.Background(), PhoneInput{UserID: u.ID, Type: "pager", PhoneNumber: "1332221100"})
	f := requireLeft(t, res, err)
	assert.ErrorIs(t, f, common.ErrInvalidPhoneType)
	assert.Equal(t, common.KindValidation, f.Kind)

	_, err = e.store.Phones().FindByUserID(context.Background(), u.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	res, err = e.prof.CreatePhone(context.Background(), PhoneInput{UserID: u.ID, Type: "cellphone", PhoneNumber: "1332221100"})
	requireRight(t, res, err)

	ures, err := e.prof.UpdatePhone(context.Background(), PhoneUpdateInput{UserID: u.ID, Type: ptr("pager")})
	f = requireLeft(t, ures, err)
	assert.ErrorIs(t, f, common.ErrInvalidPhoneType)

	got, err := e.store.Phones().FindByUserID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "cellphone", got.Type)
}

func TestPhone_Rejections(t *testing.T) {
	e := newEnv(t)
	u := register(t, e, "Alice", "alice@example.com", "password123")

	res, err := e.prof.CreatePhone(context.Background(), PhoneInput{UserID: u.ID, Type: "tel", PhoneNumber: "1332221100"})
	f := requireLeft(t, res, err)
	assert.Equal(t, common.KindValidation, f.Kind)

	res, err = e.prof.CreatePhone(context.Background(), PhoneInput{UserID: u.ID, Type: "home", PhoneNumber: "123"})
	f = requireLeft(t, res, err)
	assert.Equal(t, common.KindValidation, f.Kind)

	ures, err := e.prof.UpdatePhone(context.Background(), PhoneUpdateInput{UserID: u.ID})
	f = requireLeft(t, ures, err)
	assert.Equal(t, common.KindValidation, f.Kind)
}
