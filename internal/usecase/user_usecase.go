package usecase

import (
	"context"
	"errors"
	"net/mail"

	"vibestack/internal/repository"
)

type UpdateUserRequest struct {
	Email     *string `json:"email"`
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UserUsecase はユーザーCRUDと管理系操作。
type UserUsecase struct {
	users     repository.UserRepository
	rtRepo    repository.RefreshTokenRepository
	hasher    PasswordHasher
	passwords PasswordVerifier
	clock     Clock
}

func NewUserUsecase(
	users repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	hasher PasswordHasher,
	passwords PasswordVerifier,
	clock Clock,
) *UserUsecase {
	return &UserUsecase{
		users:     users,
		rtRepo:    rtRepo,
		hasher:    hasher,
		passwords: passwords,
		clock:     clock,
	}
}

// Me は現在のユーザーの公開フィールドを返す。
func (u *UserUsecase) Me(ctx context.Context, userID int64) (*UserDTO, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrIdentityInactive
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// List はskip/limitページングで一覧を返す（管理者用）。
func (u *UserUsecase) List(ctx context.Context, skip int, limit int) ([]UserDTO, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	users, err := u.users.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, toUserDTO(&users[i]))
	}
	return dtos, nil
}

// Get はIDで1件取得（管理者用）。
func (u *UserUsecase) Get(ctx context.Context, userID int64) (*UserDTO, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// UpdateMe は自分のプロフィールを更新。email/usernameは重複チェックあり。
func (u *UserUsecase) UpdateMe(ctx context.Context, userID int64, req UpdateUserRequest) (*UserDTO, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return nil, ErrValidation
		}
		existing, err := u.users.FindByEmail(ctx, *req.Email)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}
		user.Email = *req.Email
	}

	if req.Username != nil {
		current := ""
		if user.Username != nil {
			current = *user.Username
		}
		if *req.Username != current {
			taken, err := u.users.FindByUsername(ctx, *req.Username)
			if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
				return nil, err
			}
			if taken != nil {
				return nil, ErrUsernameTaken
			}
			user.Username = req.Username
		}
	}

	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// ChangePassword は現在のパスワードを確認してから差し替える。
func (u *UserUsecase) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrIdentityNotFound
		}
		return err
	}

	if ok := u.passwords.Verify(req.CurrentPassword, user.PasswordHash); !ok {
		return ErrInvalidCredentials
	}

	if err := CheckPasswordStrength(req.NewPassword); err != nil {
		return err
	}

	pwHash, err := u.hasher.Hash(req.NewPassword)
	if err != nil {
		return ErrInternal
	}

	user.PasswordHash = pwHash
	if err := u.users.Update(ctx, user); err != nil {
		return err
	}

	//パスワード変更後は既存セッションを切る
	_ = u.rtRepo.DeleteAllByUserID(ctx, userID)

	return nil
}

// Deactivate は論理削除（is_active=false）。refreshも全失効。
func (u *UserUsecase) Deactivate(ctx context.Context, userID int64) error {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrIdentityNotFound
		}
		return err
	}

	user.IsActive = false
	if err := u.users.Update(ctx, user); err != nil {
		return err
	}

	if err := u.rtRepo.DeleteAllByUserID(ctx, userID); err != nil {
		return err
	}

	return nil
}

// ForceLogout は対象ユーザーのrefreshトークンを全削除（管理者用）。
func (u *UserUsecase) ForceLogout(ctx context.Context, userID int64) error {
	if _, err := u.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrIdentityNotFound
		}
		return err
	}

	return u.rtRepo.DeleteAllByUserID(ctx, userID)
}
