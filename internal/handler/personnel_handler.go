package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/assignman/internal/middleware"
	"github.com/hitoshi/assignman/internal/model"
	"github.com/hitoshi/assignman/internal/param"
	"github.com/hitoshi/assignman/internal/personnel"
	"github.com/hitoshi/assignman/internal/repository"
)

// PersonnelService はプロジェクト要員アサインのインターフェース。
// personnel.Serviceがこれを満たす。
type PersonnelService interface {
	GetByProject(ctx context.Context, projectID string) (*model.Project, []repository.PersonnelWithUser, error)
	Replace(ctx context.Context, projectID string, items []personnel.SaveParams) ([]*model.ProjectPersonnel, error)
}

// PersonnelHandler はプロジェクト要員アサインのHTTPハンドラー。
type PersonnelHandler struct {
	personnel PersonnelService
}

// NewPersonnelHandler はPersonnelHandlerを生成する。
func NewPersonnelHandler(personnelSvc PersonnelService) *PersonnelHandler {
	return &PersonnelHandler{personnel: personnelSvc}
}

// assignedUser はアサイン一覧に埋め込むユーザー情報の部分集合。
type assignedUser struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Admin       bool   `json:"admin"`
}

// personnelItem はユーザー情報を展開したアサイン1件のレスポンス表現。
type personnelItem struct {
	ID         string       `json:"_id"`
	ProjectID  string       `json:"projectId"`
	User       assignedUser `json:"user"`
	PeriodFrom string       `json:"periodFrom"`
	PeriodTo   string       `json:"periodTo"`
	Created    time.Time    `json:"created"`
	Modified   time.Time    `json:"modified"`
}

type personnelGetResponse struct {
	Project           *model.Project  `json:"project"`
	ProjectPersonnels []personnelItem `json:"projectPersonnels"`
}

// Get はGET /project-personnel?projectId=を処理する。
// プロジェクトとその全アサインをユーザー情報付きで返す。
func (h *PersonnelHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get(param.KeyProjectID)
	if projectID == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewRequiredParamError(param.KeyProjectID))
		return
	}

	project, assignments, err := h.personnel.GetByProject(r.Context(), projectID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]personnelItem, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, personnelItem{
			ID:        a.ID,
			ProjectID: a.ProjectID,
			User: assignedUser{
				ID:          a.UserID,
				Username:    a.Username,
				DisplayName: a.DisplayName,
				Admin:       a.Admin,
			},
			PeriodFrom: a.PeriodFrom,
			PeriodTo:   a.PeriodTo,
			Created:    a.Created,
			Modified:   a.Modified,
		})
	}
	writeJSON(w, http.StatusOK, personnelGetResponse{Project: project, ProjectPersonnels: items})
}

type personnelReplaceRequest struct {
	ProjectID         string                 `json:"projectId"`
	ProjectPersonnels []personnel.SaveParams `json:"projectPersonnels"`
}

type personnelReplaceResponse struct {
	ProjectPersonnels []*model.ProjectPersonnel `json:"projectPersonnels"`
}

// Replace はPOST /project-personnelを処理する。
// プロジェクトのアサイン一覧を受け取った内容で総入れ替えする。
func (h *PersonnelHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req personnelReplaceRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	saved, err := h.personnel.Replace(r.Context(), req.ProjectID, req.ProjectPersonnels)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, personnelReplaceResponse{ProjectPersonnels: saved})
}
