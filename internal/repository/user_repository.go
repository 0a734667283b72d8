package repository

import (
	"context"
	"errors"

	"jidauth/internal/domain/model"
)

var (
	// ユーザーが見つかりませんを統一
	ErrUserNotFound = errors.New("user not found")

	// email重複（unique違反）
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（IDはDBが採番してuserに入る）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。なければErrUserNotFound
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。なければErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//トークンのバージョンを＋１して、更新後の値を返す（DB側で原子的に）
	IncrementTokenVersion(ctx context.Context, userID int64) (int, error)
}
