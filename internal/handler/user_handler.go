package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/assignman/internal/middleware"
	"github.com/hitoshi/assignman/internal/model"
	"github.com/hitoshi/assignman/internal/param"
	"github.com/hitoshi/assignman/internal/user"
	"github.com/hitoshi/assignman/internal/validation"
)

// UserService はユーザー管理のインターフェース。user.Serviceがこれを満たす。
type UserService interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, filter string, limit, skip int) ([]*model.User, int, error)
	ListByProjectMonth(ctx context.Context, projectID, yyyymm string) ([]*model.User, error)
	Save(ctx context.Context, params user.SaveParams, receivePassword bool) (*model.User, error)
	ValidateSave(ctx context.Context, params user.SaveParams, receivePassword bool) (*model.User, validation.Errors, error)
	ChangePassword(ctx context.Context, userID, oldPass, newPass string) (*model.User, error)
	RemoveByID(ctx context.Context, id string) (*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	users UserService
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Get はGET /user?_id=を処理する。
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(param.KeyID)
	if id == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewRequiredParamError(param.KeyID))
		return
	}

	u, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	u.ClearPassword()
	writeJSON(w, http.StatusOK, map[string]*model.User{"user": u})
}

type userListResponse struct {
	TotalItems int           `json:"totalItems"`
	Users      []*model.User `json:"users"`
}

// List はGET /user/listを処理する。
// nameは部分一致フィルタ、__limit/__skipはページネーション。
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := q.Get(param.KeyName)

	users, total, err := h.users.List(r.Context(), filter, param.Limit(q), param.Skip(q))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	for _, u := range users {
		u.ClearPassword()
	}
	if users == nil {
		users = []*model.User{}
	}
	writeJSON(w, http.StatusOK, userListResponse{TotalItems: total, Users: users})
}

// ProjectMonth はGET /user/project-month?projectId=&yyyymm=を処理する。
// 指定プロジェクト・指定月にアサインされているユーザーを返す。
func (h *UserHandler) ProjectMonth(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projectID := q.Get(param.KeyProjectID)
	yyyymm := q.Get(param.KeyYYYYMM)
	if projectID == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewRequiredParamError(param.KeyProjectID))
		return
	}
	if yyyymm == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewRequiredParamError(param.KeyYYYYMM))
		return
	}

	users, err := h.users.ListByProjectMonth(r.Context(), projectID, yyyymm)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	for _, u := range users {
		u.ClearPassword()
	}
	if users == nil {
		users = []*model.User{}
	}
	writeJSON(w, http.StatusOK, map[string][]*model.User{"users": users})
}

// Save はPOST /userを処理する。IDのないリクエストは新規作成として
// パスワードを受け取り、IDのあるリクエストは既存更新としてパスワードを
// 受け取らない。
func (h *UserHandler) Save(w http.ResponseWriter, r *http.Request) {
	var params user.SaveParams
	if !decodeJSONBody(w, r, &params) {
		return
	}

	saved, err := h.users.Save(r.Context(), params, params.ID == "")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// Validate はPOST /user/validateを処理する。検証のみで永続化しない。
func (h *UserHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var params user.SaveParams
	if !decodeJSONBody(w, r, &params) {
		return
	}

	_, errs, err := h.users.ValidateSave(r.Context(), params, params.ID == "")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if len(errs) != 0 {
		writeValidationFailed(w, errs)
		return
	}
	writeSuccess(w)
}

type changePassRequest struct {
	OldPass        string `json:"oldPass"`
	NewPass        string `json:"newPass"`
	NewPassConfirm string `json:"newPassConfirm"`
}

// ChangePassword はPUT /user/change-passを処理する。
// 対象はリクエストした本人（コンテキストの認証済みユーザー）。
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePassRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if errs := user.ValidateChangePassword(req.OldPass, req.NewPass, req.NewPassConfirm); len(errs) != 0 {
		writeValidationFailed(w, errs)
		return
	}

	me, err := middleware.UserFromContext(r.Context())
	if err != nil {
		middleware.WriteInternalServerError(w)
		return
	}

	saved, err := h.users.ChangePassword(r.Context(), me.ID, req.OldPass, req.NewPass)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// ChangePasswordValidate はPUT /user/change-pass/validateを処理する。
// フィールド検証のみで、現在パスワードの照合や永続化は行わない。
func (h *UserHandler) ChangePasswordValidate(w http.ResponseWriter, r *http.Request) {
	var req changePassRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if errs := user.ValidateChangePassword(req.OldPass, req.NewPass, req.NewPassConfirm); len(errs) != 0 {
		writeValidationFailed(w, errs)
		return
	}
	writeSuccess(w)
}

// Delete はDELETE /user?_id=を処理する。
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(param.KeyID)
	if id == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewRequiredParamError(param.KeyID))
		return
	}

	deleted, err := h.users.RemoveByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	deleted.ClearPassword()
	writeJSON(w, http.StatusOK, map[string]*model.User{"deleted": deleted})
}
