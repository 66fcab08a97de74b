package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/assignman/internal/model"
	"github.com/hitoshi/assignman/internal/security"
)

// mockUserFinder はUserFinderのモック実装。
type mockUserFinder struct {
	findFn func(ctx context.Context, username string) (*model.User, error)
}

func (m *mockUserFinder) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.findFn(ctx, username)
}

func newTestService(finder UserFinder) *Service {
	return NewService(finder, NewTokenManager("test-secret", time.Hour))
}

func TestService_Login_Success(t *testing.T) {
	finder := &mockUserFinder{
		findFn: func(ctx context.Context, username string) (*model.User, error) {
			if username != "setup" {
				t.Errorf("username = %q, want %q", username, "setup")
			}
			return &model.User{
				ID:       "user-1",
				Username: "setup",
				Password: security.PasswordHash("password"),
				Admin:    true,
			}, nil
		},
	}

	svc := newTestService(finder)
	user, token, err := svc.Login(context.Background(), "setup", "password")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token == "" {
		t.Error("token is empty")
	}
	// レスポンスに載るユーザーのパスワードは空文字列にクリアされている
	if user.Password != "" {
		t.Errorf("user.Password = %q, want empty", user.Password)
	}

	// 発行されたトークンは検証可能で、ユーザーIDを運んでいる
	userID, _, err := NewTokenManager("test-secret", time.Hour).Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("token userID = %q, want %q", userID, "user-1")
	}
}

func TestService_Login_UserNotFound(t *testing.T) {
	finder := &mockUserFinder{
		findFn: func(ctx context.Context, username string) (*model.User, error) {
			return nil, nil
		},
	}

	svc := newTestService(finder)
	_, _, err := svc.Login(context.Background(), "ghost", "password")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}

func TestService_Login_WrongPassword(t *testing.T) {
	finder := &mockUserFinder{
		findFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{
				ID:       "user-1",
				Username: "setup",
				Password: security.PasswordHash("password"),
			}, nil
		},
	}

	svc := newTestService(finder)
	_, _, err := svc.Login(context.Background(), "setup", "wrong")
	if !errors.Is(err, ErrWrongPassword) {
		t.Errorf("error = %v, want ErrWrongPassword", err)
	}
}

func TestService_Login_RepositoryError(t *testing.T) {
	finder := &mockUserFinder{
		findFn: func(ctx context.Context, username string) (*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}

	svc := newTestService(finder)
	_, _, err := svc.Login(context.Background(), "setup", "password")
	if err == nil || errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrWrongPassword) {
		t.Errorf("error = %v, want wrapped repository error", err)
	}
}
