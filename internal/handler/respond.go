// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/assignman/internal/middleware"
	"github.com/hitoshi/assignman/internal/model"
	"github.com/hitoshi/assignman/internal/validation"
)

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response",
			slog.String("error", err.Error()),
		)
	}
}

// writeSuccess は{"success": true}を書き込む。validate系エンドポイントの
// 検証通過レスポンス。
func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// validationFailedBody は検証エラーレスポンスのフォーマット。
// errorsはフィールド名から違反コードの配列へのマッピング。
type validationFailedBody struct {
	Code   string            `json:"code"`
	Errors validation.Errors `json:"errors"`
}

// writeValidationFailed はフィールド検証エラーのレスポンスを書き込む。
func writeValidationFailed(w http.ResponseWriter, errs validation.Errors) {
	writeJSON(w, http.StatusBadRequest, validationFailedBody{
		Code:   model.ErrCodeValidationFailed,
		Errors: errs,
	})
}

// errorStatus はエラーコードからHTTPステータスへの対応。
var errorStatus = map[string]int{
	model.ErrCodeAuthFailed:    http.StatusUnauthorized,
	model.ErrCodeForbidden:     http.StatusForbidden,
	model.ErrCodeNotFound:      http.StatusNotFound,
	model.ErrCodeBadRequest:    http.StatusBadRequest,
	model.ErrCodeDuplicateKey:  http.StatusConflict,
	model.ErrCodeWrongPassword: http.StatusBadRequest,
}

// handleServiceError はサービス層のエラーを適切なHTTPレスポンスに変換する。
// 未知のエラーは詳細をログに残し、一般的な500を返す。
func handleServiceError(w http.ResponseWriter, err error) {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		writeValidationFailed(w, vErr.Errors)
		return
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		status, ok := errorStatus[apiErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		middleware.WriteErrorResponse(w, status, apiErr)
		return
	}

	slog.Error("unhandled service error",
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w)
}

// decodeJSONBody はリクエストボディをJSONとしてデコードする。
// 失敗時はBadRequestを書き込みfalseを返す。
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewBadRequestError("リクエストボディを解析できません。"))
		return false
	}
	return true
}
