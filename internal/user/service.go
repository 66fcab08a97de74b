package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/assignman/internal/model"
	"github.com/hitoshi/assignman/internal/repository"
	"github.com/hitoshi/assignman/internal/security"
	"github.com/hitoshi/assignman/internal/validation"
)

// SaveParams はユーザー保存リクエストのフィールド集合。
// IDが空なら新規作成、指定されていれば既存ドキュメントへの上書きになる。
type SaveParams struct {
	ID           string `json:"_id"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DisplayName  string `json:"displayName"`
	EmployeeCode string `json:"employeeCode"`
	Admin        bool   `json:"admin"`
}

// Service はユーザー管理のサービス層。
// 保存・削除・検索とパスワード変更のライフサイクルを提供する。
type Service struct {
	users     repository.UserRepository
	logs      repository.PasswordLogRepository
	personnel repository.PersonnelRepository
}

// NewService はServiceを生成する。
func NewService(
	users repository.UserRepository,
	logs repository.PasswordLogRepository,
	personnel repository.PersonnelRepository,
) *Service {
	return &Service{users: users, logs: logs, personnel: personnel}
}

// materializeForSave は保存候補のユーザーを完全な形に組み立てる。
// IDが指定されていれば永続化済みの現状を読み込み、その上に指定フィールドを
// 上書きする（タイムスタンプは上書き対象外）。部分的なフィールド集合でも
// 検証が完全なオブジェクトを見られるようにするための処理。
func (s *Service) materializeForSave(ctx context.Context, params SaveParams, receivePassword bool) (*model.User, error) {
	doc := &model.User{ID: params.ID}
	if params.ID != "" {
		existing, err := s.users.FindByID(ctx, params.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user for save: %w", err)
		}
		if existing != nil {
			doc = existing
		}
	}

	doc.Username = params.Username
	doc.DisplayName = params.DisplayName
	doc.EmployeeCode = params.EmployeeCode
	doc.Admin = params.Admin
	if receivePassword {
		// この時点では平文。検証通過後、保存直前にハッシュ化する。
		doc.Password = params.Password
	}
	return doc, nil
}

// ValidateSave は保存候補を組み立てて検証し、候補と違反マッピングを返す。
// 違反マッピングが空なら保存可能。永続化は行わない。
func (s *Service) ValidateSave(ctx context.Context, params SaveParams, receivePassword bool) (*model.User, validation.Errors, error) {
	doc, err := s.materializeForSave(ctx, params, receivePassword)
	if err != nil {
		return nil, nil, err
	}
	password := ""
	if receivePassword {
		password = doc.Password
	}
	errors := ValidateSave(doc.Username, password, doc.DisplayName, doc.EmployeeCode, receivePassword)
	return doc, errors, nil
}

// Save は検証のうえユーザーをupsertする。
// receivePasswordがtrueのとき、パスワードは保存パスで明示的に再ハッシュされ、
// 同時に監査ログ（PasswordLog）が追記される。modifiedは保存のたびに更新する。
// 検証違反は*model.ValidationError、username重複は*model.APIErrorで返す。
func (s *Service) Save(ctx context.Context, params SaveParams, receivePassword bool) (*model.User, error) {
	doc, errors, err := s.ValidateSave(ctx, params, receivePassword)
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

	if receivePassword {
		doc.Password = security.PasswordHash(doc.Password)

		// パスワードが設定されるたびに監査レコードを残す
		log := &model.PasswordLog{
			ID:          uuid.NewString(),
			UserID:      doc.ID,
			Username:    doc.Username,
			Password:    doc.Password,
			DisplayName: doc.DisplayName,
			Created:     now,
		}
		if err := s.logs.Append(ctx, log); err != nil {
			return nil, fmt.Errorf("failed to append password log: %w", err)
		}
	}

	if err := s.users.Upsert(ctx, doc); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, model.NewDuplicateKeyError()
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	saved := *doc
	saved.ClearPassword()
	return &saved, nil
}

// ChangePassword は現在パスワードを照合のうえ新パスワードで保存し直す。
// フィールド検証はハンドラー側でValidateChangePasswordを通過済みであること。
func (s *Service) ChangePassword(ctx context.Context, userID, oldPass, newPass string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError()
	}

	if !security.PasswordCompare(oldPass, user.Password) {
		return nil, model.NewWrongPasswordError()
	}

	return s.Save(ctx, SaveParams{
		ID:           user.ID,
		Username:     user.Username,
		Password:     newPass,
		DisplayName:  user.DisplayName,
		EmployeeCode: user.EmployeeCode,
		Admin:        user.Admin,
	}, true)
}

// FindByID は指定IDのユーザーを返す。存在しなければNotFound。
func (s *Service) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError()
	}
	return user, nil
}

// List はfilterに部分一致するユーザーと総件数を返す。
func (s *Service) List(ctx context.Context, filter string, limit, skip int) ([]*model.User, int, error) {
	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	users, err := s.users.List(ctx, filter, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// ListByProjectMonth は指定プロジェクト・指定月にアサインされている
// ユーザーを返す。アサインからuserIdを集めて二段目の一括検索を行う。
func (s *Service) ListByProjectMonth(ctx context.Context, projectID, yyyymm string) ([]*model.User, error) {
	assignments, err := s.personnel.ListByProjectMonth(ctx, projectID, yyyymm)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	userIDs := make([]string, 0, len(assignments))
	for _, pp := range assignments {
		userIDs = append(userIDs, pp.UserID)
	}

	users, err := s.users.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by IDs: %w", err)
	}
	return users, nil
}

// RemoveByID は指定IDのユーザーを削除し、削除したユーザーを返す。
// 存在しなければNotFound。
func (s *Service) RemoveByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewNotFoundError()
	}
	if err := s.users.DeleteByID(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	return user, nil
}
