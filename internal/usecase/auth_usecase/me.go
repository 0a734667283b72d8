package auth

import (
	"context"
	"errors"

	"jidauth/internal/domain/model"
	"jidauth/internal/repository"
)

// ログイン中のユーザー情報
type MeUsecase struct {
	userRepo repository.UserRepository
}

func NewMeUsecase(userRepo repository.UserRepository) *MeUsecase {
	return &MeUsecase{userRepo: userRepo}
}

func (u *MeUsecase) Execute(ctx context.Context, userID int64) (model.PublicUser, error) {
	if userID <= 0 {
		return model.PublicUser{}, ErrNotAuthenticated
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		// access tokenは有効でもユーザーが消えている
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.PublicUser{}, ErrNotAuthenticated
		}
		return model.PublicUser{}, storageError("find user by id", err)
	}

	return user.Public(), nil
}
