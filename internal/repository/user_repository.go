package repository

import (
	"context"
	"errors"

	"vibestack/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを1件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//usernameからユーザーを1件取得する。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// ユーザー情報の更新（プロフィール・最終ログインなど）
	Update(ctx context.Context, user *model.User) error
	// 一覧（skip/limitページング）
	List(ctx context.Context, skip int, limit int) ([]model.User, error)
}
