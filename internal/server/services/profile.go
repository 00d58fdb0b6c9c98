package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/validation"
)

type AddressInput struct {
	UserID      string `json:"id_user" validate:"required,uuid"`
	State       string `json:"state" validate:"required,min=3"`
	District    string `json:"district" validate:"required,min=3"`
	City        string `json:"city" validate:"required,min=3"`
	HouseNumber int    `json:"house_number" validate:"required,min=1"`
	PostalCode  string `json:"postal_code" validate:"required,min=7"`
}

// AddressUpdateInput carries a partial update; nil fields are kept.
type AddressUpdateInput struct {
	UserID      string  `json:"id_user" validate:"required,uuid"`
	State       *string `json:"state" validate:"omitempty,min=3"`
	District    *string `json:"district" validate:"omitempty,min=3"`
	City        *string `json:"city" validate:"omitempty,min=3"`
	HouseNumber *int    `json:"house_number" validate:"omitempty,min=1"`
	PostalCode  *string `json:"postal_code" validate:"omitempty,min=7"`
}

func (in AddressUpdateInput) patch() models.AddressPatch {
	return models.AddressPatch{
		State:       in.State,
		District:    in.District,
		City:        in.City,
		HouseNumber: in.HouseNumber,
		PostalCode:  in.PostalCode,
	}
}

func (in AddressUpdateInput) empty() bool {
	return in.State == nil && in.District == nil && in.City == nil && in.HouseNumber == nil && in.PostalCode == nil
}

type PhoneInput struct {
	UserID      string `json:"id_user" validate:"required,uuid"`
	Type        string `json:"type" validate:"required,min=4"`
	PhoneNumber string `json:"phone_number" validate:"required,min=9"`
}

type PhoneUpdateInput struct {
	UserID      string  `json:"id_user" validate:"required,uuid"`
	Type        *string `json:"type" validate:"omitempty,min=4"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,min=9"`
}

// ProfileService manages the address and phone attached to an account.
// A user has at most one of each.
type ProfileService struct {
	Deps
}

func NewProfileService(d Deps) *ProfileService {
	return &ProfileService{Deps: d}
}

func (s *ProfileService) CreateAddress(ctx context.Context, in AddressInput) (res Result[*models.Address], err error) {
	defer func() { s.Metrics.RecordOperation("create_address", outcome(res.IsRight(), err)) }()

	if f := s.Validator.Check(in); f != nil {
		return left[*models.Address](f)
	}
	if f, err := s.requireUser(ctx, in.UserID); f != nil || err != nil {
		return leftOrFault[*models.Address](f, err)
	}

	addresses := s.Repos.Addresses(s.Tx.Conn())

	_, err = addresses.FindByUserID(ctx, in.UserID)
	switch {
	case err == nil:
		return left[*models.Address](common.ErrUserAlreadyHasAddress)
	case !errors.Is(err, common.ErrorNotFound):
		return fault[*models.Address](fmt.Errorf("error searching address: %w", err))
	}

	a, err := addresses.Create(ctx, &models.Address{
		UserID:      in.UserID,
		State:       in.State,
		District:    in.District,
		City:        in.City,
		HouseNumber: in.HouseNumber,
		PostalCode:  in.PostalCode,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return left[*models.Address](common.ErrUserAlreadyHasAddress)
		}
		return fault[*models.Address](fmt.Errorf("error creating address: %w", err))
	}
	return right(a)
}

func (s *ProfileService) UpdateAddress(ctx context.Context, in AddressUpdateInput) (res Result[*models.Address], err error) {
	defer func() { s.Metrics.RecordOperation("update_address", outcome(res.IsRight(), err)) }()

	if f := validation.AtLeastOne(!in.empty(), "state", "district", "city", "house_number", "postal_code"); f != nil {
		return left[*models.Address](f)
	}
	if f := s.Validator.Check(in); f != nil {
		return left[*models.Address](f)
	}
	if f, err := s.requireUser(ctx, in.UserID); f != nil || err != nil {
		return leftOrFault[*models.Address](f, err)
	}

	a, err := s.Repos.Addresses(s.Tx.Conn()).Update(ctx, in.UserID, in.patch())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return left[*models.Address](common.ErrUserMustHaveAddress)
		}
		return fault[*models.Address](fmt.Errorf("error updating address: %w", err))
	}
	return right(a)
}

func (s *ProfileService) CreatePhone(ctx context.Context, in PhoneInput) (res Result[*models.Phone], err error) {
	defer func() { s.Metrics.RecordOperation("create_phone", outcome(res.IsRight(), err)) }()

	if f := s.Validator.Check(in); f != nil {
		return left[*models.Phone](f)
	}
	if f, err := s.requireUser(ctx, in.UserID); f != nil || err != nil {
		return leftOrFault[*models.Phone](f, err)
	}

	phones := s.Repos.Phones(s.Tx.Conn())

	_, err = phones.FindByUserID(ctx, in.UserID)
	switch {
	case err == nil:
		return left[*models.Phone](common.ErrUserAlreadyHasPhone)
	case !errors.Is(err, common.ErrorNotFound):
		return fault[*models.Phone](fmt.Errorf("error searching phone: %w", err))
	}

	p, err := phones.Create(ctx, &models.Phone{UserID: in.UserID, Type: in.Type, PhoneNumber: in.PhoneNumber})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			return left[*models.Phone](common.ErrUserAlreadyHasPhone)
		case errors.Is(err, common.ErrorUnknownReference):
			return left[*models.Phone](common.ErrInvalidPhoneType)
		}
		return fault[*models.Phone](fmt.Errorf("error creating phone: %w", err))
	}
	return right(p)
}

func (s *ProfileService) UpdatePhone(ctx context.Context, in PhoneUpdateInput) (res Result[*models.Phone], err error) {
	defer func() { s.Metrics.RecordOperation("update_phone", outcome(res.IsRight(), err)) }()

	if f := validation.AtLeastOne(in.Type != nil || in.PhoneNumber != nil, "type", "phone_number"); f != nil {
		return left[*models.Phone](f)
	}
	if f := s.Validator.Check(in); f != nil {
		return left[*models.Phone](f)
	}
	if f, err := s.requireUser(ctx, in.UserID); f != nil || err != nil {
		return leftOrFault[*models.Phone](f, err)
	}

	phones := s.Repos.Phones(s.Tx.Conn())

	if _, err := phones.FindByUserID(ctx, in.UserID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return left[*models.Phone](common.ErrUserMustHavePhone)
		}
		return fault[*models.Phone](fmt.Errorf("error searching phone: %w", err))
	}

	p, err := phones.Update(ctx, in.UserID, models.PhonePatch{Type: in.Type, PhoneNumber: in.PhoneNumber})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return left[*models.Phone](common.ErrUserMustHavePhone)
		case errors.Is(err, common.ErrorUnknownReference):
			return left[*models.Phone](common.ErrInvalidPhoneType)
		}
		return fault[*models.Phone](fmt.Errorf("error updating phone: %w", err))
	}
	return right(p)
}

func (s *ProfileService) requireUser(ctx context.Context, userID string) (*common.Failure, error) {
	_, err := s.Repos.Users(s.Tx.Conn()).FindByID(ctx, userID)
	if err == nil {
		return nil, nil
	}
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrUserNotFound, nil
	}
	return nil, fmt.Errorf("error searching user: %w", err)
}
