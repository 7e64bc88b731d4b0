package mood

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mxw1477641857-create/HeartSpace/internal/model/mood"
	moodService "github.com/mxw1477641857-create/HeartSpace/internal/service/mood"
	"github.com/mxw1477641857-create/HeartSpace/pkg/utils"
)

// Handler 心情日记的HTTP处理器
type Handler struct {
	moodSvc *moodService.Service
}

// New 创建心情日记处理器
func New(moodSvc *moodService.Service) *Handler {
	return &Handler{moodSvc: moodSvc}
}

// RegisterRoutes 注册心情日记相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/moods", h.handleList)
	r.Post("/moods", h.handleInsert)
	r.Delete("/moods/{entryID}", h.handleDelete)
}

// handleList 返回全部心情记录，最新的在前
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.moodSvc.List(r.Context()))
}

// handleInsert 写入一条心情记录
func (h *Handler) handleInsert(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Mood string    `json:"mood"`
		Note string    `json:"note"`
		Date time.Time `json:"date"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.moodSvc.Insert(r.Context(), mood.Entry{
		Mood: mood.Mood(payload.Mood),
		Note: payload.Note,
		Date: payload.Date,
	})
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, entry)
}

// handleDelete 删除一条心情记录，id不存在时同样按成功处理
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	h.moodSvc.Delete(r.Context(), chi.URLParam(r, "entryID"))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
