package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"jidauth/internal/domain/model"
	"jidauth/internal/repository"
	auth "jidauth/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newRegisterUC(userRepo *MockUserRepository, v *MockAuthValidator) *auth.RegisterUserUsecase {
	return auth.NewRegisterUserUsecase(userRepo, v, auth.NewBcryptPasswordHasher(bcrypt.MinCost), fixedClock{t: time.Unix(1700000000, 0)})
}

func TestRegister_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	v := new(MockAuthValidator)

	v.On("ValidateRegister", mock.Anything, "user@test.com", "CorrectPW1").Return(nil)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		// 平文は保存しない・versionは0から
		return u.Email == "user@test.com" &&
			u.TokenVersion == 0 &&
			u.PasswordHash != "CorrectPW1" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("CorrectPW1")) == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = 5
	}).Return(nil)

	out, err := newRegisterUC(userRepo, v).Execute(context.Background(), auth.RegisterUserInput{
		Email:    "  User@Test.com ",
		Password: "CorrectPW1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PublicUser{ID: 5, Email: "user@test.com"}, out.User)

	userRepo.AssertExpectations(t)
	v.AssertExpectations(t)
}

func TestRegister_ValidationError_NoStorage(t *testing.T) {
	userRepo := new(MockUserRepository)
	v := new(MockAuthValidator)

	v.On("ValidateRegister", mock.Anything, "bad", "x").Return(auth.ErrInvalidEmailFormat)

	_, err := newRegisterUC(userRepo, v).Execute(context.Background(), auth.RegisterUserInput{Email: "bad", Password: "x"})
	assert.ErrorIs(t, err, auth.ErrInvalidEmailFormat)
	assert.True(t, auth.IsValidationError(err))
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	v := new(MockAuthValidator)

	v.On("ValidateRegister", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	userRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailAlreadyExists)

	_, err := newRegisterUC(userRepo, v).Execute(context.Background(), auth.RegisterUserInput{Email: "a@test.com", Password: "CorrectPW1"})
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

func TestRegister_StorageError(t *testing.T) {
	userRepo := new(MockUserRepository)
	v := new(MockAuthValidator)

	boom := errors.New("connection reset")
	v.On("ValidateRegister", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	userRepo.On("Create", mock.Anything, mock.Anything).Return(boom)

	_, err := newRegisterUC(userRepo, v).Execute(context.Background(), auth.RegisterUserInput{Email: "a@test.com", Password: "CorrectPW1"})
	assert.ErrorIs(t, err, auth.ErrStorageUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

// 検証を通ってもbcryptの上限を超えたら400系のエラーにする
func TestRegister_PasswordTooLongForBcrypt(t *testing.T) {
	userRepo := new(MockUserRepository)
	v := new(MockAuthValidator)

	long := strings.Repeat("x", 80)
	v.On("ValidateRegister", mock.Anything, mock.Anything, long).Return(nil)

	_, err := newRegisterUC(userRepo, v).Execute(context.Background(), auth.RegisterUserInput{Email: "a@test.com", Password: long})
	assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
	assert.True(t, auth.IsValidationError(err))
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNewBcryptPasswordHasher_ClampsCost(t *testing.T) {
	h := auth.NewBcryptPasswordHasher(100)
	hashed, err := h.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
	assert.True(t, auth.NewBcryptPasswordVerifier().Verify("pw", hashed))
	assert.False(t, auth.NewBcryptPasswordVerifier().Verify("other", hashed))
}
