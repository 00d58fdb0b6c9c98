package memory

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/google/uuid"
)

type AddressesRepository struct {
	s *Store
}

func (r *AddressesRepository) Create(_ context.Context, a *models.Address) (*models.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[a.UserID]; !ok {
		return nil, common.ErrorNotFound
	}
	if _, ok := r.s.addresses[a.UserID]; ok {
		return nil, common.ErrorAlreadyExists
	}

	now := r.s.now()
	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.s.addresses[a.UserID] = *a

	out := *a
	return &out, nil
}

func (r *AddressesRepository) FindByUserID(_ context.Context, userID string) (*models.Address, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.addresses[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *AddressesRepository) Update(_ context.Context, userID string, patch models.AddressPatch) (*models.Address, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.addresses[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	patch.Apply(&a)
	a.UpdatedAt = r.s.now()
	r.s.addresses[userID] = a
	return &a, nil
}

type PhonesRepository struct {
	s *Store
}

func (r *PhonesRepository) Create(_ context.Context, p *models.Phone) (*models.Phone, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[p.UserID]; !ok {
		return nil, common.ErrorNotFound
	}
	if _, ok := r.s.phones[p.UserID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.s.phoneTypes[p.Type]; !ok {
		return nil, common.ErrorUnknownReference
	}

	now := r.s.now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.s.phones[p.UserID] = *p

	out := *p
	return &out, nil
}

func (r *PhonesRepository) FindByUserID(_ context.Context, userID string) (*models.Phone, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.phones[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r *PhonesRepository) Update(_ context.Context, userID string, patch models.PhonePatch) (*models.Phone, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if patch.Type != nil {
		if _, ok := r.s.phoneTypes[*patch.Type]; !ok {
			return nil, common.ErrorUnknownReference
		}
	}
	p, ok := r.s.phones[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	patch.Apply(&p)
	p.UpdatedAt = r.s.now()
	r.s.phones[userID] = p
	return &p, nil
}
