package profile

import (
	"time"

	"github.com/mxw1477641857-create/HeartSpace/internal/model/mood"
	"github.com/mxw1477641857-create/HeartSpace/internal/model/report"
)

// RiskLevel labels a profile for the counselor view.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Profile is one counselor-facing record combining identity, mood history and
// the latest report. Exactly one profile in a roster is backed by the live
// session; the rest are read-only fixtures.
type Profile struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	StudentID    string             `json:"studentId"`
	Avatar       string             `json:"avatar"`
	RiskLevel    RiskLevel          `json:"riskLevel"`
	LastActive   time.Time          `json:"lastActive"`
	MoodHistory  []mood.Entry       `json:"moodHistory"`
	LatestReport *report.Assessment `json:"latestReport"`
}
