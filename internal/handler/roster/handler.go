package roster

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mxw1477641857-create/HeartSpace/internal/model/profile"
	chatService "github.com/mxw1477641857-create/HeartSpace/internal/service/chat"
	moodService "github.com/mxw1477641857-create/HeartSpace/internal/service/mood"
	reportService "github.com/mxw1477641857-create/HeartSpace/internal/service/report"
	rosterService "github.com/mxw1477641857-create/HeartSpace/internal/service/roster"
	"github.com/mxw1477641857-create/HeartSpace/pkg/utils"
)

// Handler 咨询师视图的HTTP处理器
type Handler struct {
	chatSvc     *chatService.Service
	moodSvc     *moodService.Service
	reportStore *reportService.Store
	fixtures    profile.Store
}

// New 创建咨询师视图处理器
func New(chatSvc *chatService.Service, moodSvc *moodService.Service, reportStore *reportService.Store, fixtures profile.Store) *Handler {
	return &Handler{
		chatSvc:     chatSvc,
		moodSvc:     moodSvc,
		reportStore: reportStore,
		fixtures:    fixtures,
	}
}

// RegisterRoutes 注册咨询师视图路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/roster", h.handleRoster)
}

// handleRoster 每次请求都重新读取在线学生的状态再合并名单
func (h *Handler) handleRoster(w http.ResponseWriter, r *http.Request) {
	live := rosterService.LiveState{
		MoodHistory:  h.moodSvc.List(r.Context()),
		LatestReport: h.reportStore.Latest(),
	}
	if session, ok := h.chatSvc.LiveSession(r.Context()); ok {
		liveSession := session
		live.Session = &liveSession
	}

	utils.RespondJSON(w, http.StatusOK, rosterService.BuildRoster(live, h.fixtures.List()))
}
