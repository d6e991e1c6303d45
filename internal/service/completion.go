package service

import (
	"fmt"
	"math"

	"github.com/liliaaaaaGit/MusikAkademie-sub003/internal/models"
)

// EvaluateCompletion считает выполнение договора по журналу занятий.
// В знаменателе только доступные занятия: исключённые (is_available = false)
// не попадают ни в числитель, ни в знаменатель. Пустой или полностью
// исключённый журнал никогда не считается выполненным.
func EvaluateCompletion(lessons []models.Lesson) models.CompletionStats {
	stats := models.CompletionStats{
		Total: len(lessons),
	}

	for _, lesson := range lessons {
		if !lesson.IsAvailable {
			stats.Excluded++
			continue
		}
		stats.Available++
		if lesson.IsCompleted() {
			stats.Completed++
		}
	}

	stats.IsComplete = stats.Available > 0 && stats.Completed == stats.Available

	if stats.Available > 0 {
		pct := float64(stats.Completed) / float64(stats.Available) * 100
		stats.CompletionPercentage = math.Round(pct*100) / 100
	}

	return stats
}

// FormatAttendance возвращает строку счётчика посещений "выполнено/доступно".
func FormatAttendance(stats models.CompletionStats) string {
	return fmt.Sprintf("%d/%d", stats.Completed, stats.Available)
}
