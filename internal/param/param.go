// Package param はクエリパラメータの取り出しと正規化を提供する。
package param

import (
	"net/url"
	"strconv"
	"strings"
)

// クエリパラメータ名
const (
	KeyID        = "_id"
	KeyName      = "name"
	KeyProjectID = "projectId"
	KeyUserID    = "userId"
	KeyYYYYMM    = "yyyymm"
	KeyLimit     = "__limit"
	KeySkip      = "__skip"
)

// ページネーション境界値
const (
	LimitDefault = 50
	LimitMax     = 100
)

// Limit は__limitパラメータを取り出して正規化する。
// 数値でない値と負値はデフォルトに、上限を超える値は上限にクランプする。
// 有限かつ非負の値しか返さない。
func Limit(values url.Values) int {
	v, err := strconv.Atoi(values.Get(KeyLimit))
	if err != nil || v < 0 {
		return LimitDefault
	}
	if v > LimitMax {
		return LimitMax
	}
	return v
}

// Skip は__skipパラメータを取り出して正規化する。
// 数値でない値と負値は0になる。
func Skip(values url.Values) int {
	v, err := strconv.Atoi(values.Get(KeySkip))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike はユーザー入力をLIKE/ILIKEパターン内のリテラルとして扱えるよう
// メタ文字をエスケープする。部分一致検索で `%` + EscapeLike(s) + `%` の形で使う。
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
