package roster_test

import (
	"testing"
	"time"

	chatModel "github.com/mxw1477641857-create/HeartSpace/internal/model/chat"
	"github.com/mxw1477641857-create/HeartSpace/internal/model/profile"
	reportModel "github.com/mxw1477641857-create/HeartSpace/internal/model/report"
	"github.com/mxw1477641857-create/HeartSpace/internal/service/roster"
)

func liveSession() *chatModel.Session {
	return &chatModel.Session{
		ID:          "sess-1",
		StudentName: "小明",
		StudentID:   "2024001",
		Avatar:      "😊",
		CreatedAt:   time.Now(),
	}
}

func TestBuildRosterLiveProfileFirst(t *testing.T) {
	fixtures := profile.Seed()
	live := roster.LiveState{Session: liveSession()}

	got := roster.BuildRoster(live, fixtures)

	if len(got) != len(fixtures)+1 {
		t.Fatalf("expected %d profiles, got %d", len(fixtures)+1, len(got))
	}
	if got[0].ID != roster.LiveProfileID {
		t.Fatalf("live profile must be first, got %s", got[0].ID)
	}
	if got[0].Name != "小明" || got[0].Avatar != "😊" {
		t.Fatalf("live profile identity mismatch: %+v", got[0])
	}
}

func TestBuildRosterRiskDerivation(t *testing.T) {
	live := roster.LiveState{Session: liveSession()}

	got := roster.BuildRoster(live, nil)
	if got[0].RiskLevel != profile.RiskLow {
		t.Fatalf("no report should derive low risk, got %s", got[0].RiskLevel)
	}

	live.LatestReport = &reportModel.Assessment{Summary: "x", GeneratedAt: time.Now()}
	got = roster.BuildRoster(live, nil)
	if got[0].RiskLevel != profile.RiskMedium {
		t.Fatalf("report present should derive medium risk, got %s", got[0].RiskLevel)
	}
}

func TestBuildRosterFixtureAvatarFallback(t *testing.T) {
	fixtures := []profile.Profile{
		{ID: "s1", Name: "张同学"},
		{ID: "s2", Name: "李同学", Avatar: "🎓"},
	}

	got := roster.BuildRoster(roster.LiveState{Session: liveSession()}, fixtures)

	if got[1].Avatar != "张" {
		t.Fatalf("expected first rune fallback avatar, got %q", got[1].Avatar)
	}
	if got[2].Avatar != "🎓" {
		t.Fatalf("explicit avatar must be preserved, got %q", got[2].Avatar)
	}
}

func TestBuildRosterWithoutLiveSession(t *testing.T) {
	fixtures := profile.Seed()

	got := roster.BuildRoster(roster.LiveState{}, fixtures)

	if len(got) != len(fixtures) {
		t.Fatalf("expected fixtures only, got %d profiles", len(got))
	}
	if got[0].ID == roster.LiveProfileID {
		t.Fatal("no live profile expected without a session")
	}
}

func TestDeriveRiskLevel(t *testing.T) {
	if got := roster.DeriveRiskLevel(nil); got != profile.RiskLow {
		t.Fatalf("DeriveRiskLevel(nil) = %s, want low", got)
	}
	if got := roster.DeriveRiskLevel(&reportModel.Assessment{}); got != profile.RiskMedium {
		t.Fatalf("DeriveRiskLevel(report) = %s, want medium", got)
	}
}
