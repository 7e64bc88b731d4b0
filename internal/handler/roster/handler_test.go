package roster

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mxw1477641857-create/HeartSpace/internal/model/profile"
	chatservice "github.com/mxw1477641857-create/HeartSpace/internal/service/chat"
	moodservice "github.com/mxw1477641857-create/HeartSpace/internal/service/mood"
	reportservice "github.com/mxw1477641857-create/HeartSpace/internal/service/report"
	rosterService "github.com/mxw1477641857-create/HeartSpace/internal/service/roster"
)

func setupRouter() (*chi.Mux, *chatservice.Service) {
	chatSvc := chatservice.NewService()
	handler := New(chatSvc, moodservice.NewService(), reportservice.NewStore(), profile.NewMemoryStore(profile.Seed()))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func TestRosterFixturesOnlyWithoutSession(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/roster", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var roster []profile.Profile
	if err := json.Unmarshal(resp.Body.Bytes(), &roster); err != nil {
		t.Fatalf("decode roster: %v", err)
	}
	if len(roster) != len(profile.Seed()) {
		t.Fatalf("expected fixtures only, got %d profiles", len(roster))
	}
}

func TestRosterLiveProfileFirst(t *testing.T) {
	r, chatSvc := setupRouter()

	if _, err := chatSvc.CreateSession(context.Background(), "小明", "2024001", "😊"); err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/roster", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var roster []profile.Profile
	if err := json.Unmarshal(resp.Body.Bytes(), &roster); err != nil {
		t.Fatalf("decode roster: %v", err)
	}
	if len(roster) != len(profile.Seed())+1 {
		t.Fatalf("expected live profile plus fixtures, got %d", len(roster))
	}
	if roster[0].ID != rosterService.LiveProfileID {
		t.Fatalf("live profile must be first, got %s", roster[0].ID)
	}
	if roster[0].RiskLevel != profile.RiskLow {
		t.Fatalf("expected low risk without a report, got %s", roster[0].RiskLevel)
	}
}
