package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/assignman/internal/model"
	"github.com/hitoshi/assignman/internal/param"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, username, password, display_name, employee_code, admin, created, modified`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Password, &user.DisplayName,
		&user.EmployeeCode, &user.Admin, &user.Created, &user.Modified,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindByUsername はusernameでユーザーを検索する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// userFilterClause はusername/displayName/employeeCodeへの部分一致条件。
// $1には既にLIKEエスケープ済みのパターン（または全件を表す空文字列）が入る。
const userFilterClause = `($1 = '' OR username ILIKE $1 OR display_name ILIKE $1 OR employee_code ILIKE $1)`

// List はfilterに部分一致するユーザーをid昇順で取得する。
func (r *PostgresUserRepo) List(ctx context.Context, filter string, limit, skip int) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+userFilterClause+`
		 ORDER BY id LIMIT $2 OFFSET $3`,
		likePattern(filter), limit, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Count はfilter条件に一致するユーザーの総数を返す。
func (r *PostgresUserRepo) Count(ctx context.Context, filter string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE `+userFilterClause,
		likePattern(filter),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// ListByIDs は指定IDのユーザーをid昇順で取得する。存在しないIDは無視する。
func (r *PostgresUserRepo) ListByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1) ORDER BY id`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by IDs: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Upsert はidをキーにinsert-or-replaceする。
// usernameの一意制約違反はそのまま返す（IsUniqueViolationで判定できる）。
func (r *PostgresUserRepo) Upsert(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password, display_name, employee_code, admin, created, modified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   username = EXCLUDED.username,
		   password = EXCLUDED.password,
		   display_name = EXCLUDED.display_name,
		   employee_code = EXCLUDED.employee_code,
		   admin = EXCLUDED.admin,
		   modified = EXCLUDED.modified`,
		user.ID, user.Username, user.Password, user.DisplayName,
		user.EmployeeCode, user.Admin, user.Created, user.Modified,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのユーザーを削除する。
func (r *PostgresUserRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// likePattern はエスケープ済みの部分一致パターンを組み立てる。
// filterが空の場合は空文字列のまま返し、SQL側で全件扱いになる。
func likePattern(filter string) string {
	if filter == "" {
		return ""
	}
	return "%" + param.EscapeLike(filter) + "%"
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
