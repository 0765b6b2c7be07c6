package handler

import (
	"fmt"
	"strings"

	"franca/internal/domain"
)

// directionLabel renders a drill direction for the practice header
func directionLabel(d domain.Direction) string {
	if d == domain.GermanToFrench {
		return "🇩🇪 → 🇫🇷"
	}
	return "🇫🇷 → 🇩🇪"
}

// stageBadge marks where a card sits in the scheduler
func stageBadge(stage domain.Stage) string {
	switch stage {
	case domain.StageNew:
		return "🆕 neu"
	case domain.StageLearning:
		return "📖 beim Lernen"
	case domain.StageDue:
		return "⏰ fällig"
	default:
		return string(stage)
	}
}

// formatCounters renders the session counters header line
func formatCounters(c domain.SessionCounters) string {
	return fmt.Sprintf("🆕 %d neu · 📖 %d beim Lernen · ⏰ %d fällig heute", c.New, c.Learning, c.Due)
}

// formatCard renders the current card, front side or both sides
func formatCard(item domain.QueueItem, position, total int, revealed bool, d domain.Direction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🧠 Üben %s — Karte %d/%d\n", directionLabel(d), position, total)
	fmt.Fprintf(&b, "%s\n\n", stageBadge(item.Stage))
	fmt.Fprintf(&b, "📝 %s", item.Word)
	if revealed {
		fmt.Fprintf(&b, "\n🔄 %s", item.Translation)
	}
	return b.String()
}

// formatFeedback renders the scheduler's answer to the last rating
func formatFeedback(fb domain.ReviewFeedback) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📅 Wiederholung in %s", formatInterval(fb.IntervalDays))
	if !fb.DueDate.IsZero() {
		fmt.Fprintf(&b, " (%s)", fb.DueDate.Format("02.01."))
	}
	if fb.Phase != "" {
		fmt.Fprintf(&b, " · Phase: %s", fb.Phase)
	}
	if fb.EaseFactor != nil {
		fmt.Fprintf(&b, " · Leichtigkeit %.2f", *fb.EaseFactor)
	}
	return b.String()
}

// formatInterval renders a next-due interval in days
func formatInterval(days float64) string {
	if days < 1 {
		return "weniger als einem Tag"
	}
	if days < 2 {
		return "1 Tag"
	}
	return fmt.Sprintf("%.0f Tagen", days)
}

// formatCompleted renders the end-of-session message
func formatCompleted(score, total int) string {
	if total == 0 {
		return "✅ Alles gelernt! Gerade ist nichts fällig. Schau später wieder vorbei."
	}
	return fmt.Sprintf("🎉 Geschafft! %d von %d Karten gewusst.", score, total)
}

// formatProgress renders the progress dashboard
func formatProgress(p domain.ProgressSummary) string {
	var b strings.Builder

	b.WriteString("📊 Dein Fortschritt\n\n")
	fmt.Fprintf(&b, "⭐ %d XP · Stufe %d\n", p.XP, p.Level)
	fmt.Fprintf(&b, "🔥 %d Tage in Folge\n", p.StreakDays)
	fmt.Fprintf(&b, "📚 %d Wörter gelernt\n", p.WordsLearned)
	fmt.Fprintf(&b, "✅ %d Wiederholungen heute", p.ReviewsToday)
	return b.String()
}

// formatAchievements renders the achievements screen
func formatAchievements(achievements []domain.Achievement) string {
	if len(achievements) == 0 {
		return "🏆 Noch keine Erfolge. Fang mit einer Geschichte an!"
	}

	var b strings.Builder
	b.WriteString("🏆 Deine Erfolge\n")
	for _, a := range achievements {
		badge := "🔒"
		if a.Unlocked {
			badge = "🏅"
		}
		fmt.Fprintf(&b, "\n%s %s — %s", badge, a.Title, a.Description)
	}
	return b.String()
}

// formatStory renders one story line for the list screen
func formatStory(s domain.Story) string {
	return fmt.Sprintf("%s (%s, %d Kapitel)", s.Title, s.Level, s.ChapterCount)
}
