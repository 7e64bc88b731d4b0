package report

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mxw1477641857-create/HeartSpace/internal/config"
	chatModel "github.com/mxw1477641857-create/HeartSpace/internal/model/chat"
	reportModel "github.com/mxw1477641857-create/HeartSpace/internal/model/report"
	chatService "github.com/mxw1477641857-create/HeartSpace/internal/service/chat"
	moodService "github.com/mxw1477641857-create/HeartSpace/internal/service/mood"
	reportService "github.com/mxw1477641857-create/HeartSpace/internal/service/report"
	"github.com/mxw1477641857-create/HeartSpace/pkg/utils"
)

// needMoreDataMessage 在数据不足时直接返回给用户，不触发远端调用。
const needMoreDataMessage = "心语需要更多一点的聊天或心情记录才能生成报告哦 🌱"

// Handler 评估报告的HTTP处理器
type Handler struct {
	chatSvc   *chatService.Service
	moodSvc   *moodService.Service
	generator *reportService.Generator
	store     *reportService.Store
	cfg       config.ReportConfig
}

// New 创建报告处理器
func New(chatSvc *chatService.Service, moodSvc *moodService.Service, generator *reportService.Generator, store *reportService.Store, cfg config.ReportConfig) *Handler {
	return &Handler{
		chatSvc:   chatSvc,
		moodSvc:   moodSvc,
		generator: generator,
		store:     store,
		cfg:       cfg,
	}
}

// RegisterRoutes 注册报告相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/report", h.handleGenerate)
	r.Get("/report", h.handleLatest)
	r.Get("/report/export", h.handleExport)
}

// handleGenerate 基于当前对话与心情快照生成新报告，成功后整体替换旧报告。
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var turns []chatModel.Turn
	if session, ok := h.chatSvc.LiveSession(ctx); ok {
		transcript, err := h.chatSvc.Transcript(ctx, session.ID)
		if err == nil {
			turns = transcript
		}
	}
	moods := h.moodSvc.List(ctx)

	// 数据不足直接短路，远端调用一次都不发生。
	if countUserTurns(turns) < h.cfg.MinUserTurns && len(moods) == 0 {
		utils.RespondJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": needMoreDataMessage})
		return
	}

	if !h.generator.Enabled() {
		utils.RespondError(w, http.StatusServiceUnavailable, "report generation unavailable")
		return
	}

	assessment := h.generator.Generate(ctx, turns, moods)
	if assessment == nil {
		// 旧报告保持不变，用户可以手动重试。
		utils.RespondError(w, http.StatusBadGateway, "report generation failed")
		return
	}

	h.store.Set(assessment)
	utils.RespondJSON(w, http.StatusOK, assessment)
}

// handleLatest 返回当前报告
func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	latest := h.store.Latest()
	if latest == nil {
		utils.RespondError(w, http.StatusNotFound, "no report generated yet")
		return
	}
	utils.RespondJSON(w, http.StatusOK, latest)
}

// handleExport 以固定的纯文本版式下载当前报告
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	latest := h.store.Latest()
	if latest == nil {
		utils.RespondError(w, http.StatusNotFound, "no report generated yet")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	// 文件名取下载当天的日期，而不是报告生成日。
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportModel.ExportFilename(time.Now())))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(latest.ExportText()))
}

func countUserTurns(turns []chatModel.Turn) int {
	count := 0
	for _, turn := range turns {
		if turn.Role == chatModel.RoleUser {
			count++
		}
	}
	return count
}
