package token

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Issuer はHS256でaccess/refreshトークンを発行する。
// secretはプロセス起動時に1度だけ渡す（グローバル参照しない）。
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Identity は発行時に埋め込むユーザー情報。
type Identity struct {
	Subject     string
	Email       string
	Username    string
	IsSuperuser bool
	Role        string
}

// Pair はログイン・リフレッシュ時に返す (access, refresh) の組。
type Pair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshTokenID   string
	RefreshExpiresAt time.Time
}

// IssueAccess はアクセストークンを発行する。expは発行時点の絶対時刻。
func (i *Issuer) IssueAccess(id Identity, now time.Time) (string, time.Time, error) {
	return i.sign(id, TypeAccess, "", now, now.Add(i.accessTTL))
}

// IssueRefresh はjti付きのリフレッシュトークンを発行する。
func (i *Issuer) IssueRefresh(id Identity, tokenID string, now time.Time) (string, time.Time, error) {
	return i.sign(id, TypeRefresh, tokenID, now, now.Add(i.refreshTTL))
}

// IssuePair はaccess+refreshをまとめて発行する。refreshのjtiは新規uuid。
func (i *Issuer) IssuePair(id Identity, now time.Time) (Pair, error) {
	access, accessExp, err := i.IssueAccess(id, now)
	if err != nil {
		return Pair{}, err
	}

	tokenID := uuid.NewString()
	refresh, refreshExp, err := i.IssueRefresh(id, tokenID, now)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshTokenID:   tokenID,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (i *Issuer) sign(id Identity, typ string, tokenID string, now time.Time, expiresAt time.Time) (string, time.Time, error) {
	claims := &Claims{
		Subject:     id.Subject,
		Email:       id.Email,
		Username:    id.Username,
		IsSuperuser: id.IsSuperuser,
		Role:        id.Role,
		TokenType:   typ,
		TokenID:     tokenID,
		IssuedAt:    now.Unix(),
		ExpiresAt:   expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
