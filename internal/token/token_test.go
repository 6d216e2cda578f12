package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testIssuer() *Issuer {
	return NewIssuer(testSecret, 60*time.Minute, 7*24*time.Hour)
}

func testIdentity() Identity {
	return Identity{
		Subject:     "1",
		Email:       "user@test.com",
		Username:    "user",
		IsSuperuser: false,
		Role:        "user",
	}
}

func TestIssuePair_VerifiesAsOwnType(t *testing.T) {
	now := time.Now()
	issuer := testIssuer()
	verifier := NewVerifier(testSecret)

	pair, err := issuer.IssuePair(testIdentity(), now)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEmpty(t, pair.RefreshTokenID)

	//accessはaccessとして通る
	claims, err := verifier.Verify(pair.AccessToken, TypeAccess, now)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, "user@test.com", claims.Email)
	assert.Equal(t, TypeAccess, claims.TokenType)

	//refreshはrefreshとして通り、jtiを持つ
	rClaims, err := verifier.Verify(pair.RefreshToken, TypeRefresh, now)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshTokenID, rClaims.TokenID)

	//相互には使えない
	_, err = verifier.Verify(pair.AccessToken, TypeRefresh, now)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = verifier.Verify(pair.RefreshToken, TypeAccess, now)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestVerify_WrongSecret(t *testing.T) {
	now := time.Now()
	issuer := testIssuer()
	verifier := NewVerifier("another-secret")

	pair, err := issuer.IssuePair(testIdentity(), now)
	require.NoError(t, err)

	//クレームが正しくても別シークレット署名は拒否
	_, err = verifier.Verify(pair.AccessToken, TypeAccess, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = verifier.Verify(pair.RefreshToken, TypeRefresh, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_Expired(t *testing.T) {
	now := time.Now()
	issuer := testIssuer()
	verifier := NewVerifier(testSecret)

	access, expiresAt, err := issuer.IssueAccess(testIdentity(), now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(60*time.Minute).Unix(), expiresAt.Unix())

	//期限ちょうど・期限後は拒否。署名も種別も正しい場合でも。
	_, err = verifier.Verify(access, TypeAccess, expiresAt)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = verifier.Verify(access, TypeAccess, expiresAt.Add(time.Second))
	assert.ErrorIs(t, err, ErrTokenExpired)

	//期限内は通る
	_, err = verifier.Verify(access, TypeAccess, expiresAt.Add(-time.Second))
	assert.NoError(t, err)
}

func TestVerify_Malformed(t *testing.T) {
	verifier := NewVerifier(testSecret)

	for _, tc := range []string{"", "garbage", "not.a.jwt", "a.b"} {
		_, err := verifier.Verify(tc, TypeAccess, time.Now())
		assert.ErrorIs(t, err, ErrMalformedToken, "input %q", tc)
	}
}

func TestVerify_MissingRequiredClaims(t *testing.T) {
	now := time.Now()
	verifier := NewVerifier(testSecret)

	//subが無い正規署名トークンはMalformed扱い
	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"type": TypeAccess,
		"exp":  now.Add(time.Hour).Unix(),
	})
	signed, err := noSub.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = verifier.Verify(signed, TypeAccess, now)
	assert.ErrorIs(t, err, ErrMalformedToken)

	//typeが無い場合も同様
	noType := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": now.Add(time.Hour).Unix(),
	})
	signed, err = noType.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = verifier.Verify(signed, TypeAccess, now)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestVerify_NoneAlgorithmRejected(t *testing.T) {
	now := time.Now()
	verifier := NewVerifier(testSecret)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Subject:   "1",
		TokenType: TypeAccess,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	})
	signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = verifier.Verify(signed, TypeAccess, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestIssuer_DistinctSecretsPerInstance(t *testing.T) {
	now := time.Now()

	a := NewIssuer("secret-a", time.Hour, time.Hour)
	b := NewVerifier("secret-b")

	tok, _, err := a.IssueAccess(testIdentity(), now)
	assert.NoError(t, err)

	_, err = b.Verify(tok, TypeAccess, now)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}
