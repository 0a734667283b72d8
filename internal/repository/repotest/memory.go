// Package repotest はテスト用のインメモリUserRepository。
package repotest

import (
	"context"
	"sync"

	"jidauth/internal/domain/model"
	"jidauth/internal/repository"
)

type MemoryUserRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*model.User

	// 次の呼び出しをすべて失敗させる（DB障害の代わり）
	Err error
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byID: map[int64]*model.User{}}
}

var _ repository.UserRepository = (*MemoryUserRepository)(nil)

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	for _, u := range r.byID {
		if u.Email == user.Email {
			return repository.ErrEmailAlreadyExists
		}
	}

	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, userID int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	u, ok := r.byID[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *MemoryUserRepository) IncrementTokenVersion(_ context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}

	u, ok := r.byID[userID]
	if !ok {
		return 0, repository.ErrUserNotFound
	}
	u.TokenVersion++
	return u.TokenVersion, nil
}

// Delete はユーザーを消す（token発行後に消えたケース用）
func (r *MemoryUserRepository) Delete(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, userID)
}
