package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mxw1477641857-create/HeartSpace/internal/model/chat"
	chatService "github.com/mxw1477641857-create/HeartSpace/internal/service/chat"
	moodService "github.com/mxw1477641857-create/HeartSpace/internal/service/mood"
	reportService "github.com/mxw1477641857-create/HeartSpace/internal/service/report"
	"github.com/mxw1477641857-create/HeartSpace/pkg/utils"
)

// Handler 会话与对话记录的HTTP处理器
type Handler struct {
	chatSvc     *chatService.Service
	moodSvc     *moodService.Service
	reportStore *reportService.Store
}

// New 创建聊天处理器。心情日记和报告属于当前会话的学生，
// 因此会话的创建/注销同时负责清空它们。
func New(chatSvc *chatService.Service, moodSvc *moodService.Service, reportStore *reportService.Store) *Handler {
	return &Handler{chatSvc: chatSvc, moodSvc: moodSvc, reportStore: reportStore}
}

// RegisterRoutes 注册会话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Delete("/session/{sessionID}", h.handleDisposeSession)
	r.Get("/session/{sessionID}/messages", h.handleTranscript)
	r.Post("/messages", h.handleAppendTurn)
}

// handleCreateSession 登录后创建（或替换）唯一的在线会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		StudentName string `json:"studentName"`
		StudentID   string `json:"studentId"`
		Avatar      string `json:"avatar"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.StudentName == "" {
		utils.RespondError(w, http.StatusBadRequest, "studentName is required")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(), payload.StudentName, payload.StudentID, payload.Avatar)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// A new session may replace a previous student's; their mood journal and
	// report must not leak into the new one.
	h.resetDerivedState(r)

	utils.RespondJSON(w, http.StatusCreated, session)
}

// handleDisposeSession 注销会话
func (h *Handler) handleDisposeSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.chatSvc.DisposeSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	h.resetDerivedState(r)

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "disposed"})
}

// resetDerivedState 清空属于上一个会话的心情日记与报告
func (h *Handler) resetDerivedState(r *http.Request) {
	h.moodSvc.Reset(r.Context())
	h.reportStore.Clear()
}

// handleTranscript 返回完整对话记录
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	turns, err := h.chatSvc.Transcript(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, turns)
}

// handleAppendTurn 追加一条消息
func (h *Handler) handleAppendTurn(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Role      string `json:"role"`
		Text      string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role := chat.Role(payload.Role)
	if role != chat.RoleUser && role != chat.RoleAssistant {
		utils.RespondError(w, http.StatusBadRequest, "role must be user or assistant")
		return
	}

	turn, err := h.chatSvc.AppendTurn(r.Context(), chat.Turn{
		SessionID: payload.SessionID,
		Role:      role,
		Text:      payload.Text,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, chatService.ErrSessionNotFound):
			status = http.StatusNotFound
		case errors.Is(err, chatService.ErrEmptyText):
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, turn)
}
