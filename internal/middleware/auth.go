package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hitoshi/assignman/internal/model"
)

// トークンの受け渡し位置。抽出はこの優先順で行う。
const (
	TokenBodyField  = "token"
	TokenQueryField = "token"
	TokenHeaderName = "X-Access-Token"
	TokenCookieName = "token"
)

// tokenBodyPeekLimit はボディからトークンを探すときに読む最大バイト数。
const tokenBodyPeekLimit = 1 << 20

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userContextKey はリクエストコンテキストに認証済みユーザーを格納するためのキー。
var userContextKey = contextKey("auth_user")

// UserFinder は認証ミドルウェアが必要とするユーザー検索インターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// TokenIssuer はトークンの検証と再発行のインターフェース。
// auth.TokenManagerがこれを満たす。
type TokenIssuer interface {
	Generate(userID string) (string, error)
	Verify(token string) (userID string, expiresAt time.Time, err error)
}

// AuthConfig は認証ミドルウェアの設定。
type AuthConfig struct {
	// CookieSecure はトークンCookieにSecure属性を付けるかどうか。
	// 開発モード以外ではtrueにする。
	CookieSecure bool
	// Dev がtrueのとき、認証失敗レスポンスに検証エラーの詳細を含める。
	Dev bool
}

// NewAuthMiddleware はトークンを検証し認証済みユーザーをコンテキストに
// 注入するミドルウェアを返す。
//
// トークンはボディのtokenフィールド、クエリのtoken、X-Access-Tokenヘッダー、
// tokenクッキーの優先順で探す。どこにもなければ即401を返す。
// 検証成功時はユーザーを再解決したうえで新しいトークンを再発行し
// Cookieに設定する（リクエストごとのローリング更新）。
func NewAuthMiddleware(tokens TokenIssuer, users UserFinder, cfg AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				detail := ""
				if cfg.Dev {
					detail = "トークンがありません"
				}
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthFailedError(detail))
				return
			}

			userID, expiresAt, err := tokens.Verify(token)
			if err != nil {
				detail := ""
				if cfg.Dev {
					detail = err.Error()
					if !expiresAt.IsZero() {
						detail = fmt.Sprintf("%s - expiredAt: %s", detail, expiresAt.Format(time.RFC3339))
					}
				}
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthFailedError(detail))
				return
			}

			// トークンのユーザーが今も存在するか再解決する
			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				slog.Error("failed to resolve token user",
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthFailedError(""))
				return
			}
			if user == nil {
				detail := ""
				if cfg.Dev {
					detail = "ユーザーが見つかりません"
				}
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthFailedError(detail))
				return
			}

			// トークンを再発行してセッションをスライドさせる
			newToken, err := tokens.Generate(user.ID)
			if err != nil {
				slog.Error("failed to refresh token",
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}
			SetTokenCookie(w, newToken, cfg.CookieSecure)

			// コンテキストに渡す前にパスワードハッシュを消しておく
			user.ClearPassword()
			ctx := ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin は管理者のみ通過させるミドルウェア。
// 認証ミドルウェアの後段に配置すること。コンテキストにユーザーがいない
// 状態で到達するのはミドルウェアチェーンの構成ミスであり、500を返す。
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := UserFromContext(r.Context())
		if err != nil {
			slog.Error("RequireAdmin reached without authenticated user",
				slog.String("path", r.URL.Path),
			)
			WriteInternalServerError(w)
			return
		}

		if !user.Admin {
			WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ExtractToken はリクエストからトークンを取り出す。
// ボディ > クエリ > ヘッダー > Cookieの優先順。見つからなければ空文字列。
func ExtractToken(r *http.Request) string {
	if token := tokenFromBody(r); token != "" {
		return token
	}
	if token := r.URL.Query().Get(TokenQueryField); token != "" {
		return token
	}
	if token := r.Header.Get(TokenHeaderName); token != "" {
		return token
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// tokenFromBody はJSONボディのtokenフィールドを読み取る。
// 後段のハンドラーがボディを読めるよう、読んだ分は差し戻す。
func tokenFromBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, tokenBodyPeekLimit))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(body), r.Body), r.Body}
	if err != nil {
		return ""
	}

	var probe struct {
		Token string `json:"token"`
	}
	// ボディがJSONオブジェクトでない場合は黙って諦める
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	return probe.Token
}

// SetTokenCookie はHTTP OnlyのトークンCookieを設定する。
func SetTokenCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie はトークンCookieを削除する。
// トークン自体はステートレスなので、サーバー側で無効化するものはない。
func ClearTokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserFromContext はリクエストコンテキストから認証済みユーザーを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("authenticated user not found in context")
	}
	return user, nil
}

// ContextWithUser はコンテキストに認証済みユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
