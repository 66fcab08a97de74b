package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/assignman/internal/model"
)

// PostgresProjectRepo はPostgreSQLを使用したプロジェクトリポジトリ。
type PostgresProjectRepo struct {
	db *sql.DB
}

// NewPostgresProjectRepo はPostgresProjectRepoを生成する。
func NewPostgresProjectRepo(db *sql.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db}
}

const projectColumns = `id, name, project_code, note, created, modified`

func scanProject(row interface{ Scan(...any) error }) (*model.Project, error) {
	project := &model.Project{}
	err := row.Scan(
		&project.ID, &project.Name, &project.ProjectCode, &project.Note,
		&project.Created, &project.Modified,
	)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
func (r *PostgresProjectRepo) FindByID(ctx context.Context, id string) (*model.Project, error) {
	project, err := scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project by ID: %w", err)
	}
	return project, nil
}

// projectFilterClause はname/projectCodeへの部分一致条件。
const projectFilterClause = `($1 = '' OR name ILIKE $1 OR project_code ILIKE $1)`

// List はfilterに部分一致するプロジェクトをid昇順で取得する。
func (r *PostgresProjectRepo) List(ctx context.Context, filter string, limit, skip int) ([]*model.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE `+projectFilterClause+`
		 ORDER BY id LIMIT $2 OFFSET $3`,
		likePattern(filter), limit, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

// Count はfilter条件に一致するプロジェクトの総数を返す。
func (r *PostgresProjectRepo) Count(ctx context.Context, filter string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE `+projectFilterClause,
		likePattern(filter),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

// ListByIDs は指定IDのプロジェクトをid昇順で取得する。存在しないIDは無視する。
func (r *PostgresProjectRepo) ListByIDs(ctx context.Context, ids []string) ([]*model.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ANY($1) ORDER BY id`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects by IDs: %w", err)
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

// Upsert はidをキーにinsert-or-replaceする。
// nameの一意制約違反はそのまま返す（IsUniqueViolationで判定できる）。
func (r *PostgresProjectRepo) Upsert(ctx context.Context, project *model.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, project_code, note, created, modified)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   project_code = EXCLUDED.project_code,
		   note = EXCLUDED.note,
		   modified = EXCLUDED.modified`,
		project.ID, project.Name, project.ProjectCode, project.Note,
		project.Created, project.Modified,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to upsert project: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのプロジェクトを削除する。
func (r *PostgresProjectRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ProjectRepository = (*PostgresProjectRepo)(nil)
