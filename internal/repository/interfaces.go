// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"github.com/hitoshi/assignman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername はusernameでユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// List はfilterに部分一致するユーザーをid昇順で取得する。
	// filterはusername、displayName、employeeCodeいずれかへの
	// 大文字小文字を区別しない部分一致。空文字列は全件。
	List(ctx context.Context, filter string, limit, skip int) ([]*model.User, error)

	// Count はfilter条件に一致するユーザーの総数を返す。
	Count(ctx context.Context, filter string) (int, error)

	// ListByIDs は指定IDのユーザーをid昇順で取得する。存在しないIDは無視する。
	ListByIDs(ctx context.Context, ids []string) ([]*model.User, error)

	// Upsert はidをキーにinsert-or-replaceする。
	Upsert(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// ProjectRepository はプロジェクトデータの永続化インターフェース。
type ProjectRepository interface {
	// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Project, error)

	// List はfilterに部分一致するプロジェクトをid昇順で取得する。
	// filterはnameまたはprojectCodeへの大文字小文字を区別しない部分一致。
	List(ctx context.Context, filter string, limit, skip int) ([]*model.Project, error)

	// Count はfilter条件に一致するプロジェクトの総数を返す。
	Count(ctx context.Context, filter string) (int, error)

	// ListByIDs は指定IDのプロジェクトをid昇順で取得する。
	ListByIDs(ctx context.Context, ids []string) ([]*model.Project, error)

	// Upsert はidをキーにinsert-or-replaceする。
	Upsert(ctx context.Context, project *model.Project) error

	// DeleteByID は指定IDのプロジェクトを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// PersonnelWithUser はアサインとユーザー情報を結合した構造体。
type PersonnelWithUser struct {
	model.ProjectPersonnel
	Username    string
	DisplayName string
	Admin       bool
}

// PersonnelRepository はプロジェクト要員アサインの永続化インターフェース。
type PersonnelRepository interface {
	// ListWithUsersByProjectID はプロジェクトの全アサインをユーザー情報付きで
	// id昇順に取得する。対応するユーザーが消えている行は返さない。
	ListWithUsersByProjectID(ctx context.Context, projectID string) ([]PersonnelWithUser, error)

	// ListByProjectMonth は指定プロジェクトで指定月
	// （periodFrom <= yyyymm <= periodTo、辞書順比較）に有効なアサインを返す。
	ListByProjectMonth(ctx context.Context, projectID, yyyymm string) ([]*model.ProjectPersonnel, error)

	// ListByUserMonth は指定ユーザーで指定月に有効なアサインを返す。
	ListByUserMonth(ctx context.Context, userID, yyyymm string) ([]*model.ProjectPersonnel, error)

	// DeleteByProjectID はプロジェクトの全アサインを削除し、削除件数を返す。
	DeleteByProjectID(ctx context.Context, projectID string) (int, error)

	// InsertMany は複数のアサインを一括挿入する。
	InsertMany(ctx context.Context, assignments []*model.ProjectPersonnel) error
}

// PasswordLogRepository はパスワード監査ログの永続化インターフェース。
// 追記のみで、更新・削除のメソッドは持たない。
type PasswordLogRepository interface {
	// Append は監査レコードを1件追記する。
	Append(ctx context.Context, log *model.PasswordLog) error
}

// IsUniqueViolation はerrがPostgreSQLの一意制約違反かどうかを報告する。
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505"
}
