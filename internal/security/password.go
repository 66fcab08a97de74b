// Package security はパスワードの不可逆ハッシュ化を提供する。
package security

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// PasswordHash は平文パスワードのSHA-512ダイジェストを16進文字列で返す。
// 決定的な変換であり、同じ入力は常に同じダイジェストになる。
// 保存時・照合時の両方でこの関数を使う。
func PasswordHash(plain string) string {
	sum := sha512.Sum512([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// PasswordCompare は候補の平文を再ハッシュして保存済みダイジェストと比較する。
func PasswordCompare(candidate, storedDigest string) bool {
	digest := PasswordHash(candidate)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(storedDigest)) == 1
}
