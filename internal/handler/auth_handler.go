package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/hitoshi/assignman/internal/auth"
	"github.com/hitoshi/assignman/internal/metrics"
	"github.com/hitoshi/assignman/internal/middleware"
	"github.com/hitoshi/assignman/internal/model"
)

// AuthService はログイン処理のインターフェース。auth.Serviceがこれを満たす。
type AuthService interface {
	Login(ctx context.Context, username, password string) (*model.User, string, error)
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	auth         AuthService
	recorder     metrics.Recorder
	cookieSecure bool
	dev          bool
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(authSvc AuthService, recorder metrics.Recorder, cookieSecure, dev bool) *AuthHandler {
	return &AuthHandler{
		auth:         authSvc,
		recorder:     recorder,
		cookieSecure: cookieSecure,
		dev:          dev,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Login はPOST /authを処理する。
// 成功時はトークンCookieを設定し、ユーザーとトークンを返す。
// ユーザー不在とパスワード不一致はどちらも同じ401にする。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrWrongPassword) {
			h.recorder.RecordLoginFailure()
			detail := ""
			if h.dev {
				detail = err.Error()
			}
			middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthFailedError(detail))
			return
		}
		handleServiceError(w, err)
		return
	}

	h.recorder.RecordLoginSuccess()
	middleware.SetTokenCookie(w, token, h.cookieSecure)
	writeJSON(w, http.StatusOK, loginResponse{User: user, Token: token})
}

// Check はGET /auth/checkを処理する。認証ミドルウェア通過済みの
// ユーザーをそのまま返す。
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteInternalServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*model.User{"user": user})
}

// Logout はGET /auth/logoutを処理する。トークンCookieを削除する。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearTokenCookie(w, h.cookieSecure)
	writeSuccess(w)
}
