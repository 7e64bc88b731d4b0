package chat

import "time"

// Session captures the live student's conversational context. The identity
// fields come from the welcome screen and feed the counselor roster.
type Session struct {
	ID          string    `json:"id"`
	StudentName string    `json:"studentName"`
	StudentID   string    `json:"studentId"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"createdAt"`
}
