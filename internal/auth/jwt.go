// Package auth はトークンの発行・検証とログイン処理を提供する。
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims はトークンに埋め込むクレーム。標準クレームに加えユーザーIDを持つ。
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"objectId"`
}

// TokenManager は署名付きトークンの発行と検証を行う。
// トークンはサーバー側に保存しないステートレスなベアラー資格情報で、
// 認証済みリクエストのたびに再発行される（スライディングセッション）。
type TokenManager struct {
	secret    []byte
	expiresIn time.Duration
}

// NewTokenManager はTokenManagerを生成する。
func NewTokenManager(secret string, expiresIn time.Duration) *TokenManager {
	return &TokenManager{
		secret:    []byte(secret),
		expiresIn: expiresIn,
	}
}

// Generate は指定ユーザーIDを載せた固定期限のトークンを発行する。
func (m *TokenManager) Generate(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名と期限を検証し、ユーザーIDを返す。
// 検証失敗時もクレームから期限が読み取れた場合は第2戻り値で返す
// （開発モードのエラーメッセージ組み立て用）。
func (m *TokenManager) Verify(tokenString string) (string, time.Time, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err != nil {
		return "", expiresAt, err
	}
	if !token.Valid {
		return "", expiresAt, jwt.ErrTokenUnverifiable
	}
	return claims.UserID, expiresAt, nil
}
