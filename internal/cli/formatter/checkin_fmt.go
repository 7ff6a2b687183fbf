package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/actai/internal/domain"
)

const trendBarWidth = 20

// FormatCheckin renders a single check-in card.
func FormatCheckin(c *domain.DailyCheckin) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("MOOD "), StylePurple.Render(c.Mood)))
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("SCORE"), FormatScore(c.ProductivityScore)))
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("ID   "), TruncID(c.ID)))
	if c.AchievementsToday != "" {
		b.WriteString("\n" + Header("Achievements") + "\n" + c.AchievementsToday + "\n")
	}
	if c.ReflectionNotes != "" {
		b.WriteString("\n" + Header("Reflection") + "\n" + c.ReflectionNotes + "\n")
	}
	if c.MotivationalQuote != "" {
		b.WriteString("\n" + StyleYellow.Italic(true).Render("“"+c.MotivationalQuote+"”") + "\n")
	}
	return RenderBox("Check-in "+ShortDate(c.CheckinDate), strings.TrimRight(b.String(), "\n"))
}

// FormatCheckinList renders check-ins one row per day.
func FormatCheckinList(checkins []*domain.DailyCheckin) string {
	if len(checkins) == 0 {
		return RenderBox("Check-ins", Dim("No check-ins in range"))
	}

	headers := []string{"DATE", "MOOD", "SCORE", "ACHIEVEMENTS"}
	rows := make([][]string, 0, len(checkins))
	for _, c := range checkins {
		rows = append(rows, []string{
			c.CheckinDate.Format("2006-01-02"),
			StylePurple.Render(c.Mood),
			FormatScore(c.ProductivityScore),
			orDash(truncate(c.AchievementsToday, 40)),
		})
	}
	return RenderBox("Check-ins", RenderTable(headers, rows))
}

// FormatMoodStats renders aggregate check-in statistics. Moods are listed
// by count, then name.
func FormatMoodStats(s *domain.MoodStats) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %d\n", Dim("CHECK-INS"), s.Total))
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("AVG SCORE"), FormatScore(s.AvgProductivity)))
	b.WriteString(fmt.Sprintf("%s  %s\n", Dim("STREAK   "), StyleGreen.Render(fmt.Sprintf("%d days", s.CurrentStreakDays))))

	if len(s.MoodCounts) > 0 {
		moods := make([]string, 0, len(s.MoodCounts))
		for m := range s.MoodCounts {
			moods = append(moods, m)
		}
		sort.Slice(moods, func(i, j int) bool {
			ci, cj := s.MoodCounts[moods[i]], s.MoodCounts[moods[j]]
			if ci != cj {
				return ci > cj
			}
			return moods[i] < moods[j]
		})

		rows := make([][]string, 0, len(moods))
		for _, m := range moods {
			rows = append(rows, []string{StylePurple.Render(m), fmt.Sprintf("%d", s.MoodCounts[m])})
		}
		b.WriteString("\n" + RenderTable([]string{"MOOD", "COUNT"}, rows))
	}
	return RenderBox("Mood stats", strings.TrimRight(b.String(), "\n"))
}

// FormatTrends renders productivity points as horizontal bars.
func FormatTrends(points []domain.ProductivityPoint) string {
	if len(points) == 0 {
		return RenderBox("Productivity", Dim("No check-ins in range"))
	}

	var b strings.Builder
	for _, p := range points {
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			Dim(p.Date.Format("Jan 02")),
			RenderScoreBar(p.ProductivityScore, trendBarWidth),
			FormatScore(p.ProductivityScore)))
	}
	return RenderBox("Productivity", strings.TrimRight(b.String(), "\n"))
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
