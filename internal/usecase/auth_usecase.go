package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"vibestack/internal/domain/model"
	"vibestack/internal/repository"
	"vibestack/internal/token"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email string, password string, username *string) error
	ValidateLogin(ctx context.Context, email string, password string) error
	ValidateRefresh(ctx context.Context, refreshToken string) error
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type UserDTO struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Username    *string    `json:"username"`
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	Bio         *string    `json:"bio"`
	AvatarURL   *string    `json:"avatar_url"`
	IsActive    bool       `json:"is_active"`
	IsVerified  bool       `json:"is_verified"`
	IsSuperuser bool       `json:"is_superuser"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// ログイン・リフレッシュで返すトークンペア
type TokenDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type AuthRegisterRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthUsecase struct {
	users     repository.UserRepository
	rtRepo    repository.RefreshTokenRepository
	issuer    *token.Issuer
	verifier  *token.Verifier
	hasher    PasswordHasher
	passwords PasswordVerifier
	validator AuthValidator
	clock     Clock
}

func NewAuthUsecase(
	users repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	issuer *token.Issuer,
	verifier *token.Verifier,
	hasher PasswordHasher,
	passwords PasswordVerifier,
	validator AuthValidator,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		rtRepo:    rtRepo,
		issuer:    issuer,
		verifier:  verifier,
		hasher:    hasher,
		passwords: passwords,
		validator: validator,
		clock:     clock,
	}
}

// Register は会員登録。パスワードは必ずハッシュ化して保存（平文保存しない）。
func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (*UserDTO, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, req.Email, req.Password, req.Username); err != nil {
		return nil, err
	}

	//email重複チェック
	existing, err := u.users.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	//username重複チェック（指定時のみ）
	if req.Username != nil && *req.Username != "" {
		taken, err := u.users.FindByUsername(ctx, *req.Username)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		if taken != nil {
			return nil, ErrUsernameTaken
		}
	}

	pwHash, err := u.hasher.Hash(req.Password)
	if err != nil {
		return nil, ErrInternal
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: pwHash,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleUser,
		IsActive:     true,
	}

	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// Login は認証してトークンペアを発行する。
func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest, userAgent string) (*TokenDTO, error) {
	//入力検証
	if err := u.validator.ValidateLogin(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	//ユーザー取得
	user, err := u.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	//パスワード照合（bcrypt）
	if ok := u.passwords.Verify(req.Password, user.PasswordHash); !ok {
		return nil, ErrInvalidCredentials
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return nil, ErrIdentityInactive
	}

	now := u.clock.Now()

	//期限切れレコードの掃除。失敗してもログインは継続。
	_, _ = u.rtRepo.DeleteExpired(ctx, now)

	pair, err := u.issuePair(ctx, user, userAgent, now)
	if err != nil {
		return nil, err
	}

	//last_login更新
	user.LastLoginAt = &now
	_ = u.users.Update(ctx, user)

	return pair, nil
}

// Refresh は有効なrefreshトークンを新しいペアに交換する（1回限り）。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string, userAgent string) (*TokenDTO, error) {
	//入力検証
	if err := u.validator.ValidateRefresh(ctx, refreshToken); err != nil {
		return nil, err
	}

	now := u.clock.Now()

	//署名・構造・種別・期限。失敗はそのまま伝える。
	claims, err := u.verifier.Verify(refreshToken, token.TypeRefresh, now)
	if err != nil {
		return nil, err
	}
	if claims.TokenID == "" {
		return nil, token.ErrMalformedToken
	}

	//サーバー側状態の照合（jti）
	rt, err := u.rtRepo.FindByID(ctx, claims.TokenID)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, ErrRefreshTokenInvalid
		}
		return nil, err
	}

	if rt.ExpiresAt.Before(now) {
		_ = u.rtRepo.DeleteByID(ctx, rt.ID)
		return nil, ErrRefreshTokenInvalid
	}

	if rt.RevokedAt != nil {
		return nil, ErrRefreshTokenInvalid
	}

	//used済みが来たらリプレイ → 全削除
	if rt.UsedAt != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return nil, ErrRefreshTokenReplayed
	}

	//ユーザーを再解決。トークンが生きていても停止済みなら拒否。
	userID, perr := strconv.ParseInt(claims.Subject, 10, 64)
	if perr != nil || userID <= 0 || userID != rt.UserID {
		return nil, ErrRefreshTokenInvalid
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrIdentityNotFound
		}
		// Session Store障害はfail closed
		return nil, ErrIdentityNotFound
	}
	if !user.IsActive {
		return nil, ErrIdentityInactive
	}

	//旧トークンをアトミックにusedへ。負けたらリプレイ扱い。
	if err := u.rtRepo.MarkUsed(ctx, rt.ID, now); err != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return nil, ErrRefreshTokenReplayed
	}

	//新ペアは現在のユーザー情報で発行（古いクレームは使わない）
	return u.issuePair(ctx, user, userAgent, now)
}

// Logout は提示されたrefreshトークンを失効させる。
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	now := u.clock.Now()

	claims, err := u.verifier.Verify(refreshToken, token.TypeRefresh, now)
	if err != nil {
		return err
	}
	if claims.TokenID == "" {
		return token.ErrMalformedToken
	}

	if err := u.rtRepo.DeleteByID(ctx, claims.TokenID); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return ErrRefreshTokenInvalid
		}
		return err
	}

	return nil
}

// ペア発行 + refresh状態の保存。
func (u *AuthUsecase) issuePair(ctx context.Context, user *model.User, userAgent string, now time.Time) (*TokenDTO, error) {
	pair, err := u.issuer.IssuePair(identityOf(user), now)
	if err != nil {
		return nil, ErrInternal
	}

	rt := &model.RefreshToken{
		ID:        pair.RefreshTokenID,
		UserID:    user.ID,
		UserAgent: userAgent,
		ExpiresAt: pair.RefreshExpiresAt,
	}

	if err := u.rtRepo.Create(ctx, rt); err != nil {
		return nil, err
	}

	return &TokenDTO{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(pair.AccessExpiresAt.Sub(now).Seconds()),
	}, nil
}

func identityOf(user *model.User) token.Identity {
	id := token.Identity{
		Subject:     strconv.FormatInt(user.ID, 10),
		Email:       user.Email,
		IsSuperuser: user.IsSuperuser,
		Role:        string(user.Role),
	}
	if user.Username != nil {
		id.Username = *user.Username
	}
	return id
}

// model.UserをAPI返却用DTOに変換。password_hashは含めない。
func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		IsActive:    u.IsActive,
		IsVerified:  u.IsVerified,
		IsSuperuser: u.IsSuperuser,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
