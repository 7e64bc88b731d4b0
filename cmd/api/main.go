package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mxw1477641857-create/HeartSpace/internal/config"
	"github.com/mxw1477641857-create/HeartSpace/internal/handler"
	"github.com/mxw1477641857-create/HeartSpace/internal/model/profile"
	"github.com/mxw1477641857-create/HeartSpace/internal/service/ai"
	"github.com/mxw1477641857-create/HeartSpace/internal/service/chat"
	"github.com/mxw1477641857-create/HeartSpace/internal/service/mood"
	"github.com/mxw1477641857-create/HeartSpace/internal/service/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	chatSvc := chat.NewService()
	moodSvc := mood.NewService()
	fixtures := profile.NewMemoryStore(profile.Seed())
	reportStore := report.NewStore()

	// The companion keeps running without credentials, every reply degrades
	// to the offline fallback.
	aiSvc := ai.NewService(cfg.AI)
	if err := aiSvc.Initialize(ctx); err != nil {
		log.Printf("warning: AI session not initialized: %v", err)
		log.Println("心语将以离线降级模式运行 - 请检查 Ark 模型相关环境变量")
	} else {
		log.Println("AI session initialized successfully")
	}

	generator, err := report.NewGenerator(ctx, aiSvc.ChatModel(), cfg.Report)
	if err != nil {
		log.Fatalf("failed to initialize report generator: %v", err)
	}
	if !generator.Enabled() {
		log.Println("report generation disabled, requires AI credentials")
	}

	router := handler.NewRouter(handler.Deps{
		AISvc:       aiSvc,
		ChatSvc:     chatSvc,
		MoodSvc:     moodSvc,
		Generator:   generator,
		ReportStore: reportStore,
		Fixtures:    fixtures,
		ReportCfg:   cfg.Report,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("HeartSpace backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
