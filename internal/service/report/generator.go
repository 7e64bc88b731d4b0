package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/mxw1477641857-create/HeartSpace/internal/config"
	"github.com/mxw1477641857-create/HeartSpace/internal/model/chat"
	"github.com/mxw1477641857-create/HeartSpace/internal/model/mood"
	"github.com/mxw1477641857-create/HeartSpace/internal/model/report"
)

// reportSystemPrompt 约束输出为固定五字段的 JSON，便于本地校验。
const reportSystemPrompt = `你是"心语" (HeartSpace)，一位温暖的心理陪伴者。你会收到一位学生最近的聊天片段和心情日记。

请只输出一个 JSON 对象，不要包含任何其他文字或代码块标记，字段如下（全部必填）：
{
  "summary": "一句话概括用户当前状态（例如：正在穿过一片多云地带，朝着太阳走去）",
  "moodTrend": "对情绪稳定性与趋势的分析",
  "stressors": ["识别出的潜在压力源"],
  "suggestions": ["3条可执行的、温和的自我关怀建议"],
  "warmMessage": "一封来自心语的简短鼓励信"
}`

const reportUserPrompt = `基于以下学生的聊天记录和心情日记，生成一份温暖、非诊断性的心理状态评估报告。

[聊天记录片段]:
{transcript}

[心情记录]:
{moods}

请分析并返回JSON格式。语气要像朋友写信一样温暖。`

// Generator turns bounded conversation + mood context into an Assessment.
// A nil chat model produces a permanently degraded generator: Generate
// returns nil instead of erroring, matching the chat fallback policy.
type Generator struct {
	cfg   config.ReportConfig
	chain compose.Runnable[map[string]any, *schema.Message]
	now   func() time.Time
}

// NewGenerator compiles the structured-output chain. chatModel may reuse the
// chat session's model instance; pass nil when AI is unavailable.
func NewGenerator(ctx context.Context, chatModel model.ChatModel, cfg config.ReportConfig) (*Generator, error) {
	gen := &Generator{cfg: cfg, now: time.Now}

	if chatModel == nil {
		return gen, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{input}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile report chain: %w", err)
	}

	gen.chain = runnable
	return gen, nil
}

// Enabled reports whether a model is wired in.
func (g *Generator) Enabled() bool {
	return g != nil && g.chain != nil
}

// Generate produces an Assessment from the most recent context windows, or
// nil when AI is unavailable, the call fails, or the payload does not match
// the schema. Callers must treat nil as "do not update state". No retry: a
// manual regenerate is the recovery path.
func (g *Generator) Generate(ctx context.Context, turns []chat.Turn, moods []mood.Entry) *report.Assessment {
	if !g.Enabled() {
		return nil
	}

	input := map[string]any{
		"system": reportSystemPrompt,
		"input":  g.buildPrompt(turns, moods),
	}

	msg, err := g.chain.Invoke(ctx, input)
	if err != nil {
		log.Printf("[report] generation failed: %v", err)
		return nil
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		log.Printf("[report] empty model response")
		return nil
	}

	assessment, err := parseAssessment(msg.Content)
	if err != nil {
		log.Printf("[report] response rejected: %v", err)
		return nil
	}

	// 远端不提供时间戳，以本地时间落款。
	assessment.GeneratedAt = g.now()
	return assessment
}

// buildPrompt embeds the most recent user turns and mood entries. Turns are
// chronological so the window is the tail; moods are newest-first so the
// window is the head.
func (g *Generator) buildPrompt(turns []chat.Turn, moods []mood.Entry) string {
	userTurns := make([]string, 0, g.cfg.TurnWindow)
	for _, turn := range turns {
		if turn.Role == chat.RoleUser {
			userTurns = append(userTurns, turn.Text)
		}
	}
	if len(userTurns) > g.cfg.TurnWindow {
		userTurns = userTurns[len(userTurns)-g.cfg.TurnWindow:]
	}

	window := moods
	if len(window) > g.cfg.MoodWindow {
		window = window[:g.cfg.MoodWindow]
	}
	moodLines := make([]string, 0, len(window))
	for _, entry := range window {
		moodLines = append(moodLines, fmt.Sprintf("%s: %s - %s", entry.Date.Format("2006-01-02"), entry.Mood, entry.Note))
	}

	replacer := strings.NewReplacer(
		"{transcript}", strings.Join(userTurns, "\n"),
		"{moods}", strings.Join(moodLines, "\n"),
	)
	return replacer.Replace(reportUserPrompt)
}

type assessmentPayload struct {
	Summary     string   `json:"summary"`
	MoodTrend   string   `json:"moodTrend"`
	Stressors   []string `json:"stressors"`
	Suggestions []string `json:"suggestions"`
	WarmMessage string   `json:"warmMessage"`
}

// parseAssessment 解析大模型返回的 JSON，五个字段缺一不可。
func parseAssessment(content string) (*report.Assessment, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &assessmentPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}

	if strings.TrimSpace(payload.Summary) == "" {
		return nil, fmt.Errorf("missing summary")
	}
	if strings.TrimSpace(payload.MoodTrend) == "" {
		return nil, fmt.Errorf("missing moodTrend")
	}
	if len(payload.Stressors) == 0 {
		return nil, fmt.Errorf("missing stressors")
	}
	if len(payload.Suggestions) == 0 {
		return nil, fmt.Errorf("missing suggestions")
	}
	if strings.TrimSpace(payload.WarmMessage) == "" {
		return nil, fmt.Errorf("missing warmMessage")
	}

	return &report.Assessment{
		Summary:     payload.Summary,
		MoodTrend:   payload.MoodTrend,
		Stressors:   payload.Stressors,
		Suggestions: payload.Suggestions,
		WarmMessage: payload.WarmMessage,
	}, nil
}
