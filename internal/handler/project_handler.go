package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/assignman/internal/middleware"
	"github.com/hitoshi/assignman/internal/model"
	"github.com/hitoshi/assignman/internal/param"
	"github.com/hitoshi/assignman/internal/project"
	"github.com/hitoshi/assignman/internal/validation"
)

// ProjectService はプロジェクト管理のインターフェース。project.Serviceがこれを満たす。
type ProjectService interface {
	FindByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, filter string, limit, skip int) ([]*model.Project, int, error)
	ListByUserMonth(ctx context.Context, userID, yyyymm string) ([]*model.Project, error)
	Save(ctx context.Context, params project.SaveParams) (*model.Project, error)
	ValidateSave(ctx context.Context, params project.SaveParams) (*model.Project, validation.Errors, error)
	RemoveByID(ctx context.Context, id string) (*model.Project, error)
}

// ProjectHandler はプロジェクト管理のHTTPハンドラー。
type ProjectHandler struct {
	projects ProjectService
}

// NewProjectHandler はProjectHandlerを生成する。
func NewProjectHandler(projects ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// Get はGET /project?_id=を処理する。
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(param.KeyID)
	if id == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewRequiredParamError(param.KeyID))
		return
	}

	p, err := h.projects.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*model.Project{"project": p})
}

type projectListResponse struct {
	TotalItems int              `json:"totalItems"`
	Projects   []*model.Project `json:"projects"`
}

// List はGET /project/listを処理する。
// nameは部分一致フィルタ、__limit/__skipはページネーション。
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := q.Get(param.KeyName)

	projects, total, err := h.projects.List(r.Context(), filter, param.Limit(q), param.Skip(q))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	writeJSON(w, http.StatusOK, projectListResponse{TotalItems: total, Projects: projects})
}

// UserMonth はGET /project/user-month?userId=&yyyymm=を処理する。
// 指定ユーザーが指定月にアサインされているプロジェクトを返す。
func (h *ProjectHandler) UserMonth(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get(param.KeyUserID)
	yyyymm := q.Get(param.KeyYYYYMM)
	if userID == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewRequiredParamError(param.KeyUserID))
		return
	}
	if yyyymm == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewRequiredParamError(param.KeyYYYYMM))
		return
	}

	projects, err := h.projects.ListByUserMonth(r.Context(), userID, yyyymm)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	writeJSON(w, http.StatusOK, map[string][]*model.Project{"projects": projects})
}

// Save はPOST /projectを処理する。
func (h *ProjectHandler) Save(w http.ResponseWriter, r *http.Request) {
	var params project.SaveParams
	if !decodeJSONBody(w, r, &params) {
		return
	}

	saved, err := h.projects.Save(r.Context(), params)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// Validate はPOST /project/validateを処理する。検証のみで永続化しない。
func (h *ProjectHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var params project.SaveParams
	if !decodeJSONBody(w, r, &params) {
		return
	}

	_, errs, err := h.projects.ValidateSave(r.Context(), params)
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

// Delete はDELETE /project?_id=を処理する。
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(param.KeyID)
	if id == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewRequiredParamError(param.KeyID))
		return
	}

	deleted, err := h.projects.RemoveByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*model.Project{"deleted": deleted})
}
