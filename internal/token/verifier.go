package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Verifier はトークンを順番に検証する。
// 署名 → 構造 → 種別 → 期限。どれか失敗したらそこで打ち切り。
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		// 期限チェックは自前で行うのでライブラリ側のclaims検証は切る
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// Verify はexpectedType（access/refresh）を指定して検証し、クレームを返す。
func (v *Verifier) Verify(tokenString string, expectedType string, now time.Time) (*Claims, error) {
	parsed, err := v.parser.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, mapParseError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformedToken
	}

	// 必須クレーム
	if claims.Subject == "" || claims.TokenType == "" || claims.ExpiresAt == 0 {
		return nil, ErrMalformedToken
	}

	// 種別の取り違えは署名が正しくても拒否
	if claims.TokenType != expectedType {
		return nil, ErrWrongTokenType
	}

	if !now.Before(time.Unix(claims.ExpiresAt, 0)) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

func mapParseError(err error) error {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		switch {
		case ve.Errors&jwt.ValidationErrorMalformed != 0:
			return ErrMalformedToken
		case ve.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable) != 0:
			return ErrInvalidSignature
		}
	}
	return ErrMalformedToken
}
