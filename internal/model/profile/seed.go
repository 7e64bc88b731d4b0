package profile

import (
	"time"

	"github.com/mxw1477641857-create/HeartSpace/internal/model/mood"
	"github.com/mxw1477641857-create/HeartSpace/internal/model/report"
)

func daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}

// Seed provides the demo fixture students shown in the counselor view.
func Seed() []Profile {
	return []Profile{
		{
			ID:         "s1",
			Name:       "张同学",
			StudentID:  "2021001",
			RiskLevel:  RiskHigh,
			LastActive: daysAgo(0),
			MoodHistory: []mood.Entry{
				{ID: "m1", Date: daysAgo(0), Mood: mood.Sad, Note: "感觉没有力气，不想去上课。"},
				{ID: "m2", Date: daysAgo(1), Mood: mood.Anxious, Note: "失眠到凌晨三点。"},
				{ID: "m3", Date: daysAgo(2), Mood: mood.Sad, Note: "我想回家。"},
			},
			LatestReport: &report.Assessment{
				Summary:     "用户近期表现出持续的低落情绪和回避社交的倾向，睡眠质量受到显著影响。",
				MoodTrend:   "呈现持续下降趋势，焦虑与抑郁情绪交织。",
				Stressors:   []string{"学业压力", "睡眠障碍", "社交孤立"},
				Suggestions: []string{"建议辅导员介入关注", "尝试简单的呼吸练习助眠", "鼓励参与集体活动"},
				WarmMessage: "无论黑夜多么漫长，黎明终会到来。我们一直在你身边。",
				GeneratedAt: daysAgo(0),
			},
		},
		{
			ID:         "s2",
			Name:       "李同学",
			StudentID:  "2021045",
			RiskLevel:  RiskMedium,
			LastActive: daysAgo(1),
			MoodHistory: []mood.Entry{
				{ID: "m1", Date: daysAgo(1), Mood: mood.Anxious, Note: "期末考快到了，复习不完。"},
				{ID: "m2", Date: daysAgo(3), Mood: mood.Neutral, Note: "一般般的一天。"},
				{ID: "m3", Date: daysAgo(5), Mood: mood.Happy, Note: "打球赢了！"},
			},
			LatestReport: &report.Assessment{
				Summary:     "主要压力来源于即将到来的考试，存在考前焦虑，但仍保有积极的调节能力。",
				MoodTrend:   "波动较大，随外部事件（考试、娱乐）变化明显。",
				Stressors:   []string{"期末考试", "时间管理"},
				Suggestions: []string{"制定合理的复习计划", "保持运动习惯"},
				WarmMessage: "压力也是动力的一部分，相信你之前的努力。",
				GeneratedAt: daysAgo(1),
			},
		},
		{
			ID:         "s3",
			Name:       "王同学",
			StudentID:  "2021088",
			RiskLevel:  RiskLow,
			LastActive: daysAgo(2),
			MoodHistory: []mood.Entry{
				{ID: "m1", Date: daysAgo(2), Mood: mood.Happy, Note: "图书馆的猫好可爱。"},
				{ID: "m2", Date: daysAgo(4), Mood: mood.Happy, Note: "食堂新菜不错。"},
			},
			LatestReport: &report.Assessment{
				Summary:     "心态积极阳光，善于发现生活中的小确幸，心理韧性强。",
				MoodTrend:   "稳定且积极。",
				Stressors:   []string{"无明显压力源"},
				Suggestions: []string{"继续保持", "可以尝试帮助身边焦虑的同学"},
				WarmMessage: "你的笑容很有感染力，继续发光吧！",
				GeneratedAt: daysAgo(2),
			},
		},
	}
}
