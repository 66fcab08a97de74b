// Package model はドメインモデルを定義する。
package model

import (
	"fmt"

	"github.com/hitoshi/assignman/internal/validation"
)

// APIError は統一エラーフォーマットを表す。
type APIError struct {
	Code    string // エラーコード
	Message string // エラーメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeAuthFailed       = "AUTH_FAILED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeDuplicateKey     = "DUPLICATE_KEY"
	ErrCodeWrongPassword    = "WRONG_PASSWORD"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// NewAuthFailedError は認証失敗エラーを生成する。
// detailは開発モードでのみ呼び出し側が付与する（本番では空文字列を渡す）。
func NewAuthFailedError(detail string) *APIError {
	msg := "認証に失敗しました。"
	if detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, detail)
	}
	return &APIError{Code: ErrCodeAuthFailed, Message: msg}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{Code: ErrCodeForbidden, Message: "この操作には管理者権限が必要です。"}
}

// NewNotFoundError は対象未検出エラーを生成する。
func NewNotFoundError() *APIError {
	return &APIError{Code: ErrCodeNotFound, Message: "指定されたリソースが見つかりません。"}
}

// NewBadRequestError はリクエスト不正エラーを生成する。
func NewBadRequestError(reason string) *APIError {
	return &APIError{Code: ErrCodeBadRequest, Message: reason}
}

// NewRequiredParamError は必須パラメータ未指定エラーを生成する。
func NewRequiredParamError(param string) *APIError {
	return &APIError{Code: ErrCodeBadRequest, Message: fmt.Sprintf("%s は必須です。", param)}
}

// NewDuplicateKeyError は一意制約違反エラーを生成する。
// 一意フィールドの重複保存は無関係なレコードを上書きせず、必ずこのエラーになる。
func NewDuplicateKeyError() *APIError {
	return &APIError{Code: ErrCodeDuplicateKey, Message: "同じ値がすでに登録されています。"}
}

// NewWrongPasswordError は現在パスワードの不一致エラーを生成する。
func NewWrongPasswordError() *APIError {
	return &APIError{Code: ErrCodeWrongPassword, Message: "現在のパスワードが正しくありません。"}
}

// ValidationError はフィールド単位の検証エラーの集合を表す。
// Errorsが空でないことが保証される（空ならエラー自体を返さない）。
type ValidationError struct {
	Errors validation.Errors
}

// Error はerrorインターフェースを実装する。
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Errors))
}
