package roster

import (
	"time"

	"github.com/mxw1477641857-create/HeartSpace/internal/model/chat"
	"github.com/mxw1477641857-create/HeartSpace/internal/model/mood"
	"github.com/mxw1477641857-create/HeartSpace/internal/model/profile"
	"github.com/mxw1477641857-create/HeartSpace/internal/model/report"
)

// LiveProfileID marks the roster entry backed by the real session.
const LiveProfileID = "live-user"

// LiveState snapshots the live session's derived state. MoodHistory and
// LatestReport are re-read on every roster build, never cached.
type LiveState struct {
	Session      *chat.Session
	MoodHistory  []mood.Entry
	LatestReport *report.Assessment
}

// DeriveRiskLevel maps the live profile's state to a risk label:
//
//	report present  -> medium
//	otherwise       -> low
//
// This is a placeholder demo policy, not a clinical model.
func DeriveRiskLevel(latest *report.Assessment) profile.RiskLevel {
	if latest != nil {
		return profile.RiskMedium
	}
	return profile.RiskLow
}

// BuildRoster composes the counselor view: the live profile always comes
// first, fixtures follow with the first rune of the name as avatar fallback.
// Pure function, safe to call on every render.
func BuildRoster(live LiveState, fixtures []profile.Profile) []profile.Profile {
	if live.Session == nil {
		return append([]profile.Profile(nil), fixtures...)
	}

	liveProfile := profile.Profile{
		ID:           LiveProfileID,
		Name:         live.Session.StudentName,
		StudentID:    live.Session.StudentID,
		Avatar:       live.Session.Avatar,
		RiskLevel:    DeriveRiskLevel(live.LatestReport),
		LastActive:   time.Now(),
		MoodHistory:  live.MoodHistory,
		LatestReport: live.LatestReport,
	}

	roster := make([]profile.Profile, 0, len(fixtures)+1)
	roster = append(roster, liveProfile)
	for _, fixture := range fixtures {
		if fixture.Avatar == "" && fixture.Name != "" {
			fixture.Avatar = string([]rune(fixture.Name)[0])
		}
		roster = append(roster, fixture)
	}
	return roster
}
