package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/oklog/ulid/v2"
)

type UserTokensRepository struct {
	s *Store
}

func (r *UserTokensRepository) Create(_ context.Context, t *models.UserToken) (*models.UserToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[t.UserID]; !ok {
		return nil, common.ErrorNotFound
	}
	for _, existing := range r.s.tokens {
		if existing.Token == t.Token {
			return nil, common.ErrorAlreadyExists
		}
	}

	if t.ID == "" {
		t.ID = ulid.Make().String()
	}
	t.CreatedAt = r.s.now()
	r.s.tokens[t.ID] = *t

	out := *t
	return &out, nil
}

// FindByUserID returns the newest token of kind. ULIDs sort by creation, so
// the greatest ID wins ties on CreatedAt.
func (r *UserTokensRepository) FindByUserID(_ context.Context, userID string, kind models.TokenKind) (*models.UserToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *models.UserToken
	for _, t := range r.s.tokens {
		if t.UserID != userID || t.Kind != kind {
			continue
		}
		if found == nil || t.CreatedAt.After(found.CreatedAt) ||
			(t.CreatedAt.Equal(found.CreatedAt) && t.ID > found.ID) {
			c := t
			found = &c
		}
	}
	if found == nil {
		return nil, common.ErrorNotFound
	}
	return found, nil
}

func (r *UserTokensRepository) FindByToken(_ context.Context, token string) (*models.UserToken, error) {
	return r.find(func(t models.UserToken) bool { return t.Token == token })
}

func (r *UserTokensRepository) FindByUserIDAndToken(_ context.Context, userID string, token string) (*models.UserToken, error) {
	return r.find(func(t models.UserToken) bool { return t.UserID == userID && t.Token == token })
}

func (r *UserTokensRepository) find(match func(models.UserToken) bool) (*models.UserToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.tokens {
		if match(t) {
			c := t
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *UserTokensRepository) DeleteByID(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tokens[id]; !ok {
		return false, nil
	}
	delete(r.s.tokens, id)
	return true, nil
}

func (r *UserTokensRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, t := range r.s.tokens {
		if !now.Before(t.ExpiresAt) {
			delete(r.s.tokens, id)
			n++
		}
	}
	return n, nil
}
