// Package personnel はプロジェクト要員アサインのドメインロジックを提供する。
package personnel

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/assignman/internal/model"
	"github.com/hitoshi/assignman/internal/repository"
)

// SaveParams はアサイン1件分の入力フィールド集合。
// projectIdはリクエスト側で指定されていても置換対象プロジェクトのIDで強制上書きする。
type SaveParams struct {
	UserID     string `json:"userId"`
	PeriodFrom string `json:"periodFrom"`
	PeriodTo   string `json:"periodTo"`
}

// Service はプロジェクト要員アサインのサービス層。
type Service struct {
	projects  repository.ProjectRepository
	personnel repository.PersonnelRepository
}

// NewService はServiceを生成する。
func NewService(projects repository.ProjectRepository, personnel repository.PersonnelRepository) *Service {
	return &Service{projects: projects, personnel: personnel}
}

// GetByProject はプロジェクトとその全アサイン（ユーザー情報付き）を返す。
// プロジェクトが存在しなければNotFound。ユーザーが消えているアサインは返さない。
func (s *Service) GetByProject(ctx context.Context, projectID string) (*model.Project, []repository.PersonnelWithUser, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil {
		return nil, nil, model.NewNotFoundError()
	}

	assignments, err := s.personnel.ListWithUsersByProjectID(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return project, assignments, nil
}

// Replace はプロジェクトのアサイン一覧を受け取った内容で総入れ替えする。
// 既存の全アサインを削除したうえで受け取った全件を挿入する。空配列なら
// 削除のみになる。削除と挿入はトランザクションで括らない。挿入が失敗すると
// 削除だけが反映された状態になるが、再送で回復できる。
func (s *Service) Replace(ctx context.Context, projectID string, items []SaveParams) ([]*model.ProjectPersonnel, error) {
	if projectID == "" {
		return nil, model.NewRequiredParamError("projectId")
	}
	for i, item := range items {
		if item.UserID == "" {
			return nil, model.NewBadRequestError(fmt.Sprintf("projectPersonnels[%d].userId は必須です。", i))
		}
		if item.PeriodFrom == "" {
			return nil, model.NewBadRequestError(fmt.Sprintf("projectPersonnels[%d].periodFrom は必須です。", i))
		}
		if item.PeriodTo == "" {
			return nil, model.NewBadRequestError(fmt.Sprintf("projectPersonnels[%d].periodTo は必須です。", i))
		}
	}

	now := time.Now()
	assignments := make([]*model.ProjectPersonnel, 0, len(items))
	for _, item := range items {
		assignments = append(assignments, &model.ProjectPersonnel{
			ID:         uuid.NewString(),
			ProjectID:  projectID,
			UserID:     item.UserID,
			PeriodFrom: item.PeriodFrom,
			PeriodTo:   item.PeriodTo,
			Created:    now,
			Modified:   now,
		})
	}

	if _, err := s.personnel.DeleteByProjectID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to delete assignments: %w", err)
	}
	if len(assignments) == 0 {
		return assignments, nil
	}
	if err := s.personnel.InsertMany(ctx, assignments); err != nil {
		return nil, fmt.Errorf("failed to insert assignments: %w", err)
	}
	return assignments, nil
}
