package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	chatModel "github.com/mxw1477641857-create/HeartSpace/internal/model/chat"
	moodModel "github.com/mxw1477641857-create/HeartSpace/internal/model/mood"
	reportModel "github.com/mxw1477641857-create/HeartSpace/internal/model/report"
	chatservice "github.com/mxw1477641857-create/HeartSpace/internal/service/chat"
	moodservice "github.com/mxw1477641857-create/HeartSpace/internal/service/mood"
	reportservice "github.com/mxw1477641857-create/HeartSpace/internal/service/report"
)

type handlerEnv struct {
	router      *chi.Mux
	chatSvc     *chatservice.Service
	moodSvc     *moodservice.Service
	reportStore *reportservice.Store
}

func setupEnv() handlerEnv {
	chatSvc := chatservice.NewService()
	moodSvc := moodservice.NewService()
	reportStore := reportservice.NewStore()
	handler := New(chatSvc, moodSvc, reportStore)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return handlerEnv{router: r, chatSvc: chatSvc, moodSvc: moodSvc, reportStore: reportStore}
}

func setupRouter() (*chi.Mux, *chatservice.Service) {
	env := setupEnv()
	return env.router, env.chatSvc
}

func postSession(t *testing.T, r *chi.Mux, name string) chatModel.Session {
	t.Helper()

	payload, _ := json.Marshal(map[string]string{"studentName": name})
	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var session chatModel.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return session
}

func TestCreateSession(t *testing.T) {
	r, _ := setupRouter()
	body := map[string]string{"studentName": "小明", "studentId": "2024001", "avatar": "😊"}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var session chatModel.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.StudentName != "小明" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestCreateSessionMissingName(t *testing.T) {
	r, _ := setupRouter()
	payload := []byte(`{}`)

	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestTranscriptIncludesGreeting(t *testing.T) {
	r, chatSvc := setupRouter()

	session, err := chatSvc.CreateSession(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "小明", "2024001", "😊")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/session/"+session.ID+"/messages", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var turns []chatModel.Turn
	if err := json.Unmarshal(resp.Body.Bytes(), &turns); err != nil {
		t.Fatalf("decode turns: %v", err)
	}
	if len(turns) != 1 || turns[0].Role != chatModel.RoleAssistant {
		t.Fatalf("expected seeded greeting, got %+v", turns)
	}
}

func TestAppendTurnUnknownSession(t *testing.T) {
	r, _ := setupRouter()
	body := map[string]string{"sessionId": "missing", "role": "user", "text": "你好"}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCreateSessionResetsJournalAndReport(t *testing.T) {
	env := setupEnv()
	ctx := context.Background()

	postSession(t, env.router, "学生A")
	if _, err := env.moodSvc.Insert(ctx, moodModel.Entry{Mood: moodModel.Sad, Note: "压力很大"}); err != nil {
		t.Fatalf("Insert err: %v", err)
	}
	env.reportStore.Set(&reportModel.Assessment{Summary: "学生A的总结"})

	// A second student logs in: the previous student's journal and report
	// must not carry over.
	postSession(t, env.router, "学生B")

	if latest := env.reportStore.Latest(); latest != nil {
		t.Fatalf("report must be cleared on session replacement, got %+v", latest)
	}
	if entries := env.moodSvc.List(ctx); len(entries) != 0 {
		t.Fatalf("mood journal must be cleared on session replacement, got %d entries", len(entries))
	}
}

func TestDisposeSessionResetsJournalAndReport(t *testing.T) {
	env := setupEnv()
	ctx := context.Background()

	session := postSession(t, env.router, "学生A")
	if _, err := env.moodSvc.Insert(ctx, moodModel.Entry{Mood: moodModel.Happy}); err != nil {
		t.Fatalf("Insert err: %v", err)
	}
	env.reportStore.Set(&reportModel.Assessment{Summary: "学生A的总结"})

	req := httptest.NewRequest(http.MethodDelete, "/session/"+session.ID, nil)
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if latest := env.reportStore.Latest(); latest != nil {
		t.Fatalf("report must be cleared on dispose, got %+v", latest)
	}
	if entries := env.moodSvc.List(ctx); len(entries) != 0 {
		t.Fatalf("mood journal must be cleared on dispose, got %d entries", len(entries))
	}
}

func TestAppendTurnInvalidRole(t *testing.T) {
	r, chatSvc := setupRouter()

	session, err := chatSvc.CreateSession(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "小明", "2024001", "😊")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	body := map[string]string{"sessionId": session.ID, "role": "system", "text": "你好"}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
