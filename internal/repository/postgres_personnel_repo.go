package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/assignman/internal/model"
)

// PostgresPersonnelRepo はPostgreSQLを使用した要員アサインリポジトリ。
type PostgresPersonnelRepo struct {
	db *sql.DB
}

// NewPostgresPersonnelRepo はPostgresPersonnelRepoを生成する。
func NewPostgresPersonnelRepo(db *sql.DB) *PostgresPersonnelRepo {
	return &PostgresPersonnelRepo{db: db}
}

const personnelColumns = `pp.id, pp.project_id, pp.user_id, pp.period_from, pp.period_to, pp.created, pp.modified`

// ListWithUsersByProjectID はプロジェクトの全アサインをユーザー情報付きで
// id昇順に取得する。INNER JOINのため、ユーザーが削除済みの行は返さない。
func (r *PostgresPersonnelRepo) ListWithUsersByProjectID(ctx context.Context, projectID string) ([]PersonnelWithUser, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+personnelColumns+`, u.username, u.display_name, u.admin
		 FROM project_personnel pp
		 JOIN users u ON u.id = pp.user_id
		 WHERE pp.project_id = $1
		 ORDER BY pp.id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list personnel with users: %w", err)
	}
	defer rows.Close()

	var result []PersonnelWithUser
	for rows.Next() {
		var pw PersonnelWithUser
		err := rows.Scan(
			&pw.ID, &pw.ProjectID, &pw.UserID, &pw.PeriodFrom, &pw.PeriodTo,
			&pw.Created, &pw.Modified,
			&pw.Username, &pw.DisplayName, &pw.Admin,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan personnel: %w", err)
		}
		result = append(result, pw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate personnel: %w", err)
	}
	return result, nil
}

// listByMonth はkeyColumnで絞り込み、指定月に有効なアサインを返す。
// period_from/period_toは"YYYYMM"文字列の辞書順比較。
func (r *PostgresPersonnelRepo) listByMonth(ctx context.Context, keyColumn, keyValue, yyyymm string) ([]*model.ProjectPersonnel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+personnelColumns+`
		 FROM project_personnel pp
		 WHERE pp.`+keyColumn+` = $1 AND pp.period_from <= $2 AND pp.period_to >= $2
		 ORDER BY pp.id`,
		keyValue, yyyymm,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list personnel by month: %w", err)
	}
	defer rows.Close()

	var result []*model.ProjectPersonnel
	for rows.Next() {
		pp := &model.ProjectPersonnel{}
		err := rows.Scan(
			&pp.ID, &pp.ProjectID, &pp.UserID, &pp.PeriodFrom, &pp.PeriodTo,
			&pp.Created, &pp.Modified,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan personnel: %w", err)
		}
		result = append(result, pp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate personnel: %w", err)
	}
	return result, nil
}

// ListByProjectMonth は指定プロジェクトで指定月に有効なアサインを返す。
func (r *PostgresPersonnelRepo) ListByProjectMonth(ctx context.Context, projectID, yyyymm string) ([]*model.ProjectPersonnel, error) {
	return r.listByMonth(ctx, "project_id", projectID, yyyymm)
}

// ListByUserMonth は指定ユーザーで指定月に有効なアサインを返す。
func (r *PostgresPersonnelRepo) ListByUserMonth(ctx context.Context, userID, yyyymm string) ([]*model.ProjectPersonnel, error) {
	return r.listByMonth(ctx, "user_id", userID, yyyymm)
}

// DeleteByProjectID はプロジェクトの全アサインを削除し、削除件数を返す。
func (r *PostgresPersonnelRepo) DeleteByProjectID(ctx context.Context, projectID string) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM project_personnel WHERE project_id = $1`, projectID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete personnel: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(affected), nil
}

// InsertMany は複数のアサインを一括挿入する。
func (r *PostgresPersonnelRepo) InsertMany(ctx context.Context, assignments []*model.ProjectPersonnel) error {
	stmt, err := r.db.PrepareContext(ctx,
		`INSERT INTO project_personnel (id, project_id, user_id, period_from, period_to, created, modified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare personnel insert: %w", err)
	}
	defer stmt.Close()

	for _, pp := range assignments {
		_, err := stmt.ExecContext(ctx,
			pp.ID, pp.ProjectID, pp.UserID, pp.PeriodFrom, pp.PeriodTo,
			pp.Created, pp.Modified,
		)
		if err != nil {
			return fmt.Errorf("failed to insert personnel: %w", err)
		}
	}
	return nil
}

// compile-time interface check
var _ PersonnelRepository = (*PostgresPersonnelRepo)(nil)
