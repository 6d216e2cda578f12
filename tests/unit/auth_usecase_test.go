package unit

import (
	"context"
	"testing"
	"time"

	"vibestack/internal/domain/model"
	"vibestack/internal/repository"
	"vibestack/internal/token"
	"vibestack/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSecret     = "unit-test-secret"
	testAccessTTL  = 60 * time.Minute
	testRefreshTTL = 7 * 24 * time.Hour
)

func newAuthUC(userRepo *MockUserRepository, rtRepo *MockRefreshTokenRepository, v *MockAuthValidator, clock *fixedClock) *usecase.AuthUsecase {
	issuer := token.NewIssuer(testSecret, testAccessTTL, testRefreshTTL)
	verifier := token.NewVerifier(testSecret)
	return usecase.NewAuthUsecase(
		userRepo, rtRepo, issuer, verifier,
		usecase.NewBcryptPasswordHasher(4),
		usecase.NewBcryptPasswordVerifier(),
		v, clock,
	)
}

func activeUser(t *testing.T, pass string) *model.User {
	t.Helper()
	username := "user"
	return &model.User{
		ID:           1,
		Email:        "user@test.com",
		PasswordHash: mustHash(t, pass),
		Username:     &username,
		Role:         model.RoleUser,
		IsActive:     true,
	}
}

// =====================
// Register
// =====================

func TestAuthUsecase_Register_Success(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	rtRepo := new(MockRefreshTokenRepository)
	v := new(MockAuthValidator)
	clock := &fixedClock{t: time.Now()}

	email := "new@test.com"
	pass := "Correct1234"

	v.On("ValidateRegister", mock.Anything, email, pass, mock.Anything).Return(nil)
	userRepo.On("FindByEmail", mock.Anything, email).Return(nil, nil)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		// 保存されるユーザーが最低限正しい形かを見る。平文は残らない。
		return u.Email == email && u.IsActive && u.PasswordHash != "" && u.PasswordHash != pass
	})).Return(nil)

	u := newAuthUC(userRepo, rtRepo, v, clock)

	out, err := u.Register(ctx, usecase.AuthRegisterRequest{Email: email, Password: pass})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, email, out.Email)

	userRepo.AssertExpectations(t)
	v.AssertExpectations(t)
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	rtRepo := new(MockRefreshTokenRepository)
	v := new(MockAuthValidator)
	clock := &fixedClock{t: time.Now()}

	email := "dup@test.com"
	pass := "Correct1234"

	v.On("ValidateRegister", mock.Anything, email, pass, mock.Anything).Return(nil)
	userRepo.On("FindByEmail", mock.Anything, email).Return(&model.User{ID: 9, Email: email}, nil)

	u := newAuthUC(userRepo, rtRepo, v, clock)

	_, err := u.Register(ctx, usecase.AuthRegisterRequest{Email: email, Password: pass})
	assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)

	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// Login
// =====================

func TestAuthUsecase_Login_Success(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	rtRepo := new(MockRefreshTokenRepository)
	v := new(MockAuthValidator)
	now := time.Now()
	clock := &fixedClock{t: now}

	pass := "Correct1234"
	user := activeUser(t, pass)

	v.On("ValidateLogin", mock.Anything, user.Email, pass).Return(nil)
	userRepo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
	userRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	// DeleteExpiredは呼ばれても失敗してもログイン継続
	rtRepo.On("DeleteExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
	rtRepo.On("Create", mock.Anything, mock.MatchedBy(func(rt *model.RefreshToken) bool {
		return rt.UserID == user.ID && rt.ID != ""
	})).Return(nil)

	u := newAuthUC(userRepo, rtRepo, v, clock)

	out, err := u.Login(ctx, usecase.AuthLoginRequest{Email: user.Email, Password: pass}, "go-test")
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, int(testAccessTTL.Seconds()), out.ExpiresIn)

	// 発行されたペアはそれぞれの種別でだけ通る
	verifier := token.NewVerifier(testSecret)

	claims, err := verifier.Verify(out.AccessToken, token.TypeAccess, now)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)

	_, err = verifier.Verify(out.AccessToken, token.TypeRefresh, now)
	assert.ErrorIs(t, err, token.ErrWrongTokenType)

	_, err = verifier.Verify(out.RefreshToken, token.TypeRefresh, now)
	assert.NoError(t, err)

	_, err = verifier.Verify(out.RefreshToken, token.TypeAccess, now)
	assert.ErrorIs(t, err, token.ErrWrongTokenType)

	rtRepo.AssertExpectations(t)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	rtRepo := new(MockRefreshTokenRepository)
	v := new(MockAuthValidator)
	clock := &fixedClock{t: time.Now()}

	user := activeUser(t, "Correct1234")

	v.On("ValidateLogin", mock.Anything, user.Email, "Wrong1234").Return(nil)
	userRepo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	u := newAuthUC(userRepo, rtRepo, v, clock)

	out, err := u.Login(ctx, usecase.AuthLoginRequest{Email: user.Email, Password: "Wrong1234"}, "go-test")
	assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
	assert.Nil(t, out)

	rtRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	rtRepo := new(MockRefreshTokenRepository)
	v := new(MockAuthValidator)
	clock := &fixedClock{t: time.Now()}

	v.On("ValidateLogin", mock.Anything, "ghost@test.com", "Whatever1").Return(nil)
	userRepo.On("FindByEmail", mock.Anything, "ghost@test.com").Return(nil, repository.ErrUserNotFound)

	u := newAuthUC(userRepo, rtRepo, v, clock)

	_, err := u.Login(ctx, usecase.AuthLoginRequest{Email: "ghost@test.com", Password: "Whatever1"}, "go-test")
	assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
}

func TestAuthUsecase_Login_InactiveUser(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	rtRepo := new(MockRefreshTokenRepository)
	v := new(MockAuthValidator)
	clock := &fixedClock{t: time.Now()}

	pass := "Correct1234"
	user := activeUser(t, pass)
	user.IsActive = false

	v.On("ValidateLogin", mock.Anything, user.Email, pass).Return(nil)
	userRepo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	u := newAuthUC(userRepo, rtRepo, v, clock)

	_, err := u.Login(ctx, usecase.AuthLoginRequest{Email: user.Email, Password: pass}, "go-test")
	assert.ErrorIs(t, err, usecase.ErrIdentityInactive)

	rtRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
