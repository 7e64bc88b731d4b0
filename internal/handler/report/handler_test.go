package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mxw1477641857-create/HeartSpace/internal/config"
	chatModel "github.com/mxw1477641857-create/HeartSpace/internal/model/chat"
	moodModel "github.com/mxw1477641857-create/HeartSpace/internal/model/mood"
	reportModel "github.com/mxw1477641857-create/HeartSpace/internal/model/report"
	chatservice "github.com/mxw1477641857-create/HeartSpace/internal/service/chat"
	moodservice "github.com/mxw1477641857-create/HeartSpace/internal/service/mood"
	reportservice "github.com/mxw1477641857-create/HeartSpace/internal/service/report"
)

type env struct {
	router  *chi.Mux
	chatSvc *chatservice.Service
	moodSvc *moodservice.Service
	store   *reportservice.Store
}

func setup(t *testing.T) env {
	t.Helper()

	chatSvc := chatservice.NewService()
	moodSvc := moodservice.NewService()
	store := reportservice.NewStore()

	// A generator without a model: any invocation would yield nil, and the
	// short-circuit path must not even reach it.
	generator, err := reportservice.NewGenerator(context.Background(), nil, config.DefaultReportConfig())
	if err != nil {
		t.Fatalf("NewGenerator err: %v", err)
	}

	handler := New(chatSvc, moodSvc, generator, store, config.DefaultReportConfig())
	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	return env{router: r, chatSvc: chatSvc, moodSvc: moodSvc, store: store}
}

func TestGenerateShortCircuitsOnInsufficientData(t *testing.T) {
	e := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/report", nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "心语需要更多") {
		t.Fatalf("expected need-more-data message, got %s", resp.Body.String())
	}
}

func TestGenerateUnavailableWithoutModel(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	// One mood entry satisfies the precondition; the disabled generator is
	// then reported as unavailable, never as a crash.
	if _, err := e.moodSvc.Insert(ctx, moodModel.Entry{Mood: moodModel.Sad, Note: "睡不好"}); err != nil {
		t.Fatalf("Insert err: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/report", nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
	if e.store.Latest() != nil {
		t.Fatal("failed generation must not update the stored report")
	}
}

func TestPreconditionCountsUserTurnsOnly(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	// Greeting plus one user turn: still below the two-user-turn threshold.
	session, err := e.chatSvc.CreateSession(ctx, "小明", "2024001", "😊")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	if _, err := e.chatSvc.AppendTurn(ctx, chatModel.Turn{SessionID: session.ID, Role: chatModel.RoleUser, Text: "你好"}); err != nil {
		t.Fatalf("AppendTurn err: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/report", nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestLatestNotFound(t *testing.T) {
	e := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestExportDownload(t *testing.T) {
	e := setup(t)

	// Generated days ago; the filename still carries the download date.
	generated := time.Now().AddDate(0, 0, -3)
	e.store.Set(&reportModel.Assessment{
		Summary:     "正在穿过一片多云地带",
		MoodTrend:   "整体平稳",
		Stressors:   []string{"学业压力"},
		Suggestions: []string{"早点休息"},
		WarmMessage: "心语一直在你身边",
		GeneratedAt: generated,
	})

	req := httptest.NewRequest(http.MethodGet, "/report/export", nil)
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got, want := resp.Header().Get("Content-Disposition"), reportModel.ExportFilename(time.Now()); !strings.Contains(got, want) {
		t.Fatalf("expected filename %s in Content-Disposition, got %s", want, got)
	}
	if !strings.Contains(resp.Body.String(), "=== HeartSpace 心理成长档案 ===") {
		t.Fatalf("export missing archive header:\n%s", resp.Body.String())
	}
}
