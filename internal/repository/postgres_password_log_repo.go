package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/assignman/internal/model"
)

// PostgresPasswordLogRepo はPostgreSQLを使用したパスワード監査ログリポジトリ。
// 追記専用で、更新・削除は提供しない。
type PostgresPasswordLogRepo struct {
	db *sql.DB
}

// NewPostgresPasswordLogRepo はPostgresPasswordLogRepoを生成する。
func NewPostgresPasswordLogRepo(db *sql.DB) *PostgresPasswordLogRepo {
	return &PostgresPasswordLogRepo{db: db}
}

// Append は監査レコードを1件追記する。
func (r *PostgresPasswordLogRepo) Append(ctx context.Context, log *model.PasswordLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_logs (id, user_id, username, password, display_name, created)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, log.UserID, log.Username, log.Password, log.DisplayName, log.Created,
	)
	if err != nil {
		return fmt.Errorf("failed to append password log: %w", err)
	}
	return nil
}

// compile-time interface check
var _ PasswordLogRepository = (*PostgresPasswordLogRepo)(nil)
