package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User は認証対象のユーザーレコード。
// role / tenant_id はRBAC・マルチテナント用のプレースホルダ。
type User struct {
	ID           int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Email        string  `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string  `json:"-" gorm:"column:password_hash;size:255;not null"`
	Username     *string `json:"username" gorm:"size:100;uniqueIndex"`
	FirstName    *string `json:"first_name" gorm:"size:100"`
	LastName     *string `json:"last_name" gorm:"size:100"`
	Bio          *string `json:"bio" gorm:"type:text"`
	AvatarURL    *string `json:"avatar_url" gorm:"size:500"`

	IsActive    bool `json:"is_active" gorm:"not null;default:true"`
	IsVerified  bool `json:"is_verified" gorm:"not null;default:false"`
	IsSuperuser bool `json:"is_superuser" gorm:"not null;default:false"`

	Role     Role    `json:"role" gorm:"type:varchar(50);not null;default:'user'"`
	TenantID *string `json:"tenant_id,omitempty" gorm:"size:100;index"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func (User) TableName() string {
	return "users"
}
