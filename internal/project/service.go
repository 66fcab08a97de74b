package project

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/assignman/internal/model"
	"github.com/hitoshi/assignman/internal/repository"
	"github.com/hitoshi/assignman/internal/validation"
)

// SaveParams はプロジェクト保存リクエストのフィールド集合。
// IDが空なら新規作成、指定されていれば既存ドキュメントへの上書きになる。
type SaveParams struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	ProjectCode string `json:"projectCode"`
	Note        string `json:"note"`
}

// Service はプロジェクト管理のサービス層。
type Service struct {
	projects  repository.ProjectRepository
	personnel repository.PersonnelRepository
}

// NewService はServiceを生成する。
func NewService(projects repository.ProjectRepository, personnel repository.PersonnelRepository) *Service {
	return &Service{projects: projects, personnel: personnel}
}

// materializeForSave は保存候補のプロジェクトを完全な形に組み立てる。
// IDが指定されていれば永続化済みの現状を読み込み、その上に指定フィールドを
// 上書きする（タイムスタンプは上書き対象外）。
func (s *Service) materializeForSave(ctx context.Context, params SaveParams) (*model.Project, error) {
	doc := &model.Project{ID: params.ID}
	if params.ID != "" {
		existing, err := s.projects.FindByID(ctx, params.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load project for save: %w", err)
		}
		if existing != nil {
			doc = existing
		}
	}

	doc.Name = params.Name
	doc.ProjectCode = params.ProjectCode
	doc.Note = params.Note
	return doc, nil
}

// ValidateSave は保存候補を組み立てて検証し、候補と違反マッピングを返す。
// 違反マッピングが空なら保存可能。永続化は行わない。
func (s *Service) ValidateSave(ctx context.Context, params SaveParams) (*model.Project, validation.Errors, error) {
	doc, err := s.materializeForSave(ctx, params)
	if err != nil {
		return nil, nil, err
	}
	errors := ValidateSave(doc.Name, doc.ProjectCode, doc.Note)
	return doc, errors, nil
}

// Save は検証のうえプロジェクトをupsertする。modifiedは保存のたびに更新する。
// 検証違反は*model.ValidationError、name重複は*model.APIErrorで返す。
func (s *Service) Save(ctx context.Context, params SaveParams) (*model.Project, error) {
	doc, errors, err := s.ValidateSave(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(errors) != 0 {
		return nil, &model.ValidationError{Errors: errors}
	}

	now := time.Now()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Created.IsZero() {
		doc.Created = now
	}
	doc.Modified = now

	if err := s.projects.Upsert(ctx, doc); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, model.NewDuplicateKeyError()
		}
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	return doc, nil
}

// FindByID は指定IDのプロジェクトを返す。存在しなければNotFound。
func (s *Service) FindByID(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil {
		return nil, model.NewNotFoundError()
	}
	return project, nil
}

// List はfilterに部分一致するプロジェクトと総件数を返す。
func (s *Service) List(ctx context.Context, filter string, limit, skip int) ([]*model.Project, int, error) {
	total, err := s.projects.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}
	projects, err := s.projects.List(ctx, filter, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// ListByUserMonth は指定ユーザーが指定月にアサインされている
// プロジェクトを返す。アサインからprojectIdを集めて二段目の一括検索を行う。
func (s *Service) ListByUserMonth(ctx context.Context, userID, yyyymm string) ([]*model.Project, error) {
	assignments, err := s.personnel.ListByUserMonth(ctx, userID, yyyymm)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	projectIDs := make([]string, 0, len(assignments))
	for _, pp := range assignments {
		projectIDs = append(projectIDs, pp.ProjectID)
	}

	projects, err := s.projects.ListByIDs(ctx, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects by IDs: %w", err)
	}
	return projects, nil
}

// RemoveByID は指定IDのプロジェクトを削除し、削除したプロジェクトを返す。
// 存在しなければNotFound。アサインは残るが、ユーザー情報付き一覧には現れない。
func (s *Service) RemoveByID(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil {
		return nil, model.NewNotFoundError()
	}
	if err := s.projects.DeleteByID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}
	return project, nil
}
