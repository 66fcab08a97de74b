package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/hitoshi/assignman/internal/model"
	"github.com/hitoshi/assignman/internal/security"
)

// ログイン失敗の内部理由。ハンドラー側で開発モードのときのみ詳細を露出する。
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
)

// UserFinder はログイン処理が必要とするユーザー検索インターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// Service はログインとトークン発行のサービス層。
type Service struct {
	users  UserFinder
	tokens *TokenManager
}

// NewService はServiceを生成する。
func NewService(users UserFinder, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// Login は資格情報を検証し、成功時はパスワードを消去したユーザーと
// 新しいトークンを返す。ユーザー不在・パスワード不一致はそれぞれ
// ErrUserNotFound / ErrWrongPasswordを返す。
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}

	if !security.PasswordCompare(password, user.Password) {
		return nil, "", ErrWrongPassword
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user.ClearPassword()
	return user, token, nil
}
