package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

// 各Postgres実装が対応するインターフェースを満たすことを検証
func TestPostgresRepos_ImplementInterfaces(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
	var _ ProjectRepository = (*PostgresProjectRepo)(nil)
	var _ PersonnelRepository = (*PostgresPersonnelRepo)(nil)
	var _ PasswordLogRepository = (*PostgresPasswordLogRepo)(nil)
}

func TestNewPostgresRepos_Initialize(t *testing.T) {
	if NewPostgresUserRepo(nil) == nil {
		t.Error("expected non-nil user repo")
	}
	if NewPostgresProjectRepo(nil) == nil {
		t.Error("expected non-nil project repo")
	}
	if NewPostgresPersonnelRepo(nil) == nil {
		t.Error("expected non-nil personnel repo")
	}
	if NewPostgresPasswordLogRepo(nil) == nil {
		t.Error("expected non-nil password log repo")
	}
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   string
	}{
		{"通常の文字列", "taro", "%taro%"},
		{"空文字列", "", "%%"},
		{"パーセントはエスケープ", "100%", `%100\%%`},
		{"アンダースコアはエスケープ", "a_b", `%a\_b%`},
		{"バックスラッシュはエスケープ", `a\b`, `%a\\b%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := likePattern(tt.filter); got != tt.want {
				t.Errorf("likePattern(%q) = %q, want %q", tt.filter, got, tt.want)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"一意制約違反", &pq.Error{Code: "23505"}, true},
		{"ラップされた一意制約違反", fmt.Errorf("failed to save: %w", &pq.Error{Code: "23505"}), true},
		{"別のPostgreSQLエラー", &pq.Error{Code: "23503"}, false},
		{"pq以外のエラー", errors.New("connection refused"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
