package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jidauth/internal/domain/model"
	"jidauth/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 会員登録の入力
type RegisterUserInput struct {
	Email    string
	Password string
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.PublicUser `json:"user"`
}

// 入力チェックの約束（実装はvalidatorパッケージ）
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo  repository.UserRepository
	validator AuthValidator
	hasher    PasswordHasher
	clock     Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	validator AuthValidator,
	hasher PasswordHasher,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo:  userRepo,
		validator: validator,
		hasher:    hasher,
		clock:     clock,
	}
}

// 会員登録実行
// email重複はDBのunique制約で判定する（事前のSELECTだと同時登録をすり抜ける）
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	email := NormalizeEmail(in.Email)
	if err := u.validator.ValidateRegister(ctx, email, in.Password); err != nil {
		return out, err
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return out, ErrPasswordTooLong
		}
		return out, fmt.Errorf("hash password: %w", err)
	}

	now := u.clock.Now()
	user := &model.User{
		Email:        email,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		TokenVersion: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// DBへ保存
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailAlreadyExists) {
			return out, ErrEmailAlreadyExists
		}
		return out, storageError("create user", err)
	}

	out.User = user.Public()
	return out, nil
}

// 前後の空白を落として小文字に
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

// bcryptでハッシュ化
func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

// 平文(plain)をbcryptで比較
func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}

// 本番用の時計
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
