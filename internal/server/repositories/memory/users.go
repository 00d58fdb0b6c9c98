package memory

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/google/uuid"
)

type UsersRepository struct {
	s *Store
}

func (r *UsersRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	now := r.s.now()
	user.ID = uuid.NewString()
	user.IsVerified = false
	user.CreatedAt = now
	user.UpdatedAt = now

	r.s.users[user.ID] = *user
	r.s.byEmail[user.Email] = user.ID

	out := *user
	return &out, nil
}

func (r *UsersRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

func (r *UsersRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *UsersRepository) IsEmailVerified(ctx context.Context, email string) (bool, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return u.IsVerified, nil
}

func (r *UsersRepository) UpdatePassword(_ context.Context, id string, digest string) error {
	return r.update(id, func(u *models.User) { u.Password = digest })
}

func (r *UsersRepository) MarkEmailVerified(_ context.Context, id string) error {
	return r.update(id, func(u *models.User) { u.IsVerified = true })
}

func (r *UsersRepository) update(id string, fn func(u *models.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(&u)
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}
