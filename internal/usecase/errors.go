package usecase

import "errors"

var (
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//401 メールまたはパスワードが違う
	ErrInvalidCredentials = errors.New("invalid credentials")
	//401 アカウントが存在しない（refresh時の再解決で発覚）
	ErrIdentityNotFound = errors.New("identity not found")
	//403 停止済みアカウント
	ErrIdentityInactive = errors.New("identity inactive")
	//401 サーバー側で無効化済み・不明なrefresh
	ErrRefreshTokenInvalid = errors.New("refresh token invalid")
	//401 使用済みrefreshの再利用（リプレイ）
	ErrRefreshTokenReplayed = errors.New("refresh token replayed")
	//409 email/username重複
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	//500
	ErrInternal = errors.New("internal error")
)
