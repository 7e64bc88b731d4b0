package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mxw1477641857-create/HeartSpace/internal/config"
	chatHandler "github.com/mxw1477641857-create/HeartSpace/internal/handler/chat"
	moodHandler "github.com/mxw1477641857-create/HeartSpace/internal/handler/mood"
	reportHandler "github.com/mxw1477641857-create/HeartSpace/internal/handler/report"
	rosterHandler "github.com/mxw1477641857-create/HeartSpace/internal/handler/roster"
	"github.com/mxw1477641857-create/HeartSpace/internal/handler/stream"
	wsHandler "github.com/mxw1477641857-create/HeartSpace/internal/handler/ws"
	middlewarePkg "github.com/mxw1477641857-create/HeartSpace/internal/middleware"
	"github.com/mxw1477641857-create/HeartSpace/internal/model/profile"
	aiService "github.com/mxw1477641857-create/HeartSpace/internal/service/ai"
	chatService "github.com/mxw1477641857-create/HeartSpace/internal/service/chat"
	moodService "github.com/mxw1477641857-create/HeartSpace/internal/service/mood"
	reportService "github.com/mxw1477641857-create/HeartSpace/internal/service/report"
	"github.com/mxw1477641857-create/HeartSpace/pkg/utils"
)

// Deps bundles the services the router wires together.
type Deps struct {
	AISvc       *aiService.Service
	ChatSvc     *chatService.Service
	MoodSvc     *moodService.Service
	Generator   *reportService.Generator
	ReportStore *reportService.Store
	Fixtures    profile.Store
	ReportCfg   config.ReportConfig
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	streamHandler := stream.New(deps.AISvc, deps.ChatSvc)

	r.Route("/api", func(api chi.Router) {
		chatHandler.New(deps.ChatSvc, deps.MoodSvc, deps.ReportStore).RegisterRoutes(api)
		moodHandler.New(deps.MoodSvc).RegisterRoutes(api)
		reportHandler.New(deps.ChatSvc, deps.MoodSvc, deps.Generator, deps.ReportStore, deps.ReportCfg).RegisterRoutes(api)
		rosterHandler.New(deps.ChatSvc, deps.MoodSvc, deps.ReportStore, deps.Fixtures).RegisterRoutes(api)
		wsHandler.New(deps.AISvc, deps.ChatSvc).RegisterRoutes(api)

		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				log.Printf("[stream] error handling request: %v", err)
				utils.RespondError(w, http.StatusInternalServerError, "streaming failed")
			}
		})
	})

	return r
}
