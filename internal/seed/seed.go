package seed

import (
	"context"
	"errors"
	"os"

	"vibestack/internal/domain/model"
	"vibestack/internal/repository"
	"vibestack/internal/usecase"
)

// Run は初期ユーザー（admin/test）を投入する。既にあれば何もしない。
func Run(ctx context.Context, users repository.UserRepository, hasher usecase.PasswordHasher) error {
	adminEmail := getenv("ADMIN_EMAIL", "admin@vibestack.dev")
	adminPassword := getenv("ADMIN_PASSWORD", "Admin1234!")
	testEmail := getenv("TEST_EMAIL", "test@vibestack.dev")
	testPassword := getenv("TEST_PASSWORD", "Test1234!")

	admin := "admin"
	if err := ensure(ctx, users, hasher, adminEmail, adminPassword, &admin, true, model.RoleAdmin); err != nil {
		return err
	}

	tester := "testuser"
	return ensure(ctx, users, hasher, testEmail, testPassword, &tester, false, model.RoleUser)
}

func ensure(
	ctx context.Context,
	users repository.UserRepository,
	hasher usecase.PasswordHasher,
	email string,
	password string,
	username *string,
	superuser bool,
	role model.Role,
) error {
	existing, err := users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}
	if existing != nil {
		return nil
	}

	pwHash, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	return users.Create(ctx, &model.User{
		Email:        email,
		PasswordHash: pwHash,
		Username:     username,
		Role:         role,
		IsActive:     true,
		IsVerified:   true,
		IsSuperuser:  superuser,
	})
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
