package handler

import (
	"net/http"

	"github.com/hitoshi/assignman/internal/middleware"
	"github.com/hitoshi/assignman/internal/model"
	"github.com/hitoshi/assignman/internal/user"
)

// 初期管理者の資格情報。開発環境のセットアップ専用。
const (
	setupUsername    = "setup"
	setupPassword    = "password"
	setupDisplayName = "setupUser"
)

// SetupHandler は開発環境の初期データ投入ハンドラー。
type SetupHandler struct {
	users UserService
	dev   bool
}

// NewSetupHandler はSetupHandlerを生成する。
func NewSetupHandler(users UserService, dev bool) *SetupHandler {
	return &SetupHandler{users: users, dev: dev}
}

// Setup はGET /setupを処理する。開発モードでのみ初期管理者を作成する。
// 開発モード以外では存在しないルートとして404を返す。
func (h *SetupHandler) Setup(w http.ResponseWriter, r *http.Request) {
	if !h.dev {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewNotFoundError())
		return
	}

	saved, err := h.users.Save(r.Context(), user.SaveParams{
		Username:    setupUsername,
		Password:    setupPassword,
		DisplayName: setupDisplayName,
		Admin:       true,
	}, true)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*model.User{"user": saved})
}
