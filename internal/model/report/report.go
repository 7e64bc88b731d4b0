package report

import (
	"fmt"
	"strings"
	"time"
)

// Assessment is the AI-generated, non-diagnostic state report. It is a value
// object: regenerating produces a whole new Assessment, never a patch.
type Assessment struct {
	Summary     string    `json:"summary"`
	MoodTrend   string    `json:"moodTrend"`
	Stressors   []string  `json:"stressors"`
	Suggestions []string  `json:"suggestions"`
	WarmMessage string    `json:"warmMessage"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// ExportText renders the fixed plain-text archive layout shown on the report
// screen's download button.
func (a *Assessment) ExportText() string {
	var b strings.Builder

	b.WriteString("=== HeartSpace 心理成长档案 ===\n")
	fmt.Fprintf(&b, "生成时间: %s\n\n", a.GeneratedAt.Format("2006-01-02 15:04:05"))

	b.WriteString("【状态速览】\n")
	b.WriteString(a.Summary)
	b.WriteString("\n\n【情绪天气】\n")
	b.WriteString(a.MoodTrend)

	b.WriteString("\n\n【压力源识别】\n")
	for i, s := range a.Stressors {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + s)
	}

	b.WriteString("\n\n【心语建议】\n")
	for i, s := range a.Suggestions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + s)
	}

	fmt.Fprintf(&b, "\n\n【给你的寄语】\n\"%s\"\n\n", a.WarmMessage)
	b.WriteString("--------------------------------\n")
	b.WriteString("*本报告由AI生成，仅供参考。\n")

	return b.String()
}

// ExportFilename names the downloaded archive by generation date.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("HeartSpace_Report_%s.txt", t.Format("2006-01-02"))
}
