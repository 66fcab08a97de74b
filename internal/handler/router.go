package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/assignman/internal/metrics"
	"github.com/hitoshi/assignman/internal/middleware"
	"github.com/hitoshi/assignman/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	TokenIssuer       middleware.TokenIssuer
	UserFinder        middleware.UserFinder
	AuthConfig        middleware.AuthConfig
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// メトリクス
	Recorder metrics.Recorder
	Gatherer prometheus.Gatherer

	// サービス
	AuthService      AuthService
	UserService      UserService
	ProjectService   ProjectService
	PersonnelService PersonnelService

	// 動作モード
	Dev bool
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → SecurityHeaders → CORS
//
// ログインと認証済みグループにはそれぞれのレート制限を追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewMetricsMiddleware(deps.Recorder))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.Recorder, deps.AuthConfig.CookieSecure, deps.Dev)
	userHandler := NewUserHandler(deps.UserService)
	projectHandler := NewProjectHandler(deps.ProjectService)
	personnelHandler := NewPersonnelHandler(deps.PersonnelService)
	setupHandler := NewSetupHandler(deps.UserService, deps.Dev)

	// --- 認証不要のルート ---

	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	// ログイン（ブルートフォース対策のIP別レート制限付き）
	r.With(deps.RateLimiter.LoginMiddleware()).Post("/auth", authHandler.Login)

	// 開発環境の初期データ投入
	r.Get("/setup", setupHandler.Setup)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenIssuer, deps.UserFinder, deps.AuthConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// セッション確認
		r.Route("/auth", func(r chi.Router) {
			r.Get("/check", authHandler.Check)
			r.Get("/logout", authHandler.Logout)
		})

		// ユーザー管理
		r.Route("/user", func(r chi.Router) {
			r.Get("/", userHandler.Get)
			r.Get("/list", userHandler.List)
			r.Get("/project-month", userHandler.ProjectMonth)
			r.Post("/validate", userHandler.Validate)
			r.Put("/change-pass", userHandler.ChangePassword)
			r.Put("/change-pass/validate", userHandler.ChangePasswordValidate)

			// 作成・更新・削除は管理者のみ
			r.With(middleware.RequireAdmin).Post("/", userHandler.Save)
			r.With(middleware.RequireAdmin).Delete("/", userHandler.Delete)
		})

		// プロジェクト管理
		r.Route("/project", func(r chi.Router) {
			r.Get("/", projectHandler.Get)
			r.Get("/list", projectHandler.List)
			r.Get("/user-month", projectHandler.UserMonth)
			r.Post("/validate", projectHandler.Validate)

			r.With(middleware.RequireAdmin).Post("/", projectHandler.Save)
			r.With(middleware.RequireAdmin).Delete("/", projectHandler.Delete)
		})

		// プロジェクト要員アサイン
		r.Route("/project-personnel", func(r chi.Router) {
			r.Get("/", personnelHandler.Get)
			r.With(middleware.RequireAdmin).Post("/", personnelHandler.Replace)
		})
	})

	// 未定義ルートもJSONの統一フォーマットで返す
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError())
	})

	return r
}

// handleHealth はGET /healthを処理する。死活監視用。
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
