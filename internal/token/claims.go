package token

// トークン種別の識別子。accessとrefreshは署名が正しくても相互に使えない。
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims はトークンに埋め込むクレームの閉じた型。
// sub / type / exp は必須。欠けていればMalformed扱い。
type Claims struct {
	Subject     string `json:"sub"`
	Email       string `json:"email,omitempty"`
	Username    string `json:"username,omitempty"`
	IsSuperuser bool   `json:"is_superuser,omitempty"`
	Role        string `json:"role,omitempty"`
	TokenType   string `json:"type"`
	TokenID     string `json:"jti,omitempty"`
	IssuedAt    int64  `json:"iat"`
	ExpiresAt   int64  `json:"exp"`
}

// jwt.Claimsを満たすためのメソッド。検証はVerifierが順番に行う。
func (c *Claims) Valid() error { return nil }
