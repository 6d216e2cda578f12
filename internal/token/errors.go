package token

import "errors"

var (
	// 署名が一致しない（改ざん・別シークレット）
	ErrInvalidSignature = errors.New("invalid signature")
	// 構造が壊れている・必須クレーム欠落
	ErrMalformedToken = errors.New("malformed token")
	// access/refreshの取り違え
	ErrWrongTokenType = errors.New("wrong token type")
	// 有効期限切れ
	ErrTokenExpired = errors.New("token expired")
)
