package views

import (
	"math"
	"sort"
	"time"

	"github.com/taskkeeper/backend/domain"
)

// Summary carries the dashboard numbers and card lists.
type Summary struct {
	TotalTasks        int           `json:"total_tasks"`
	CompletedTasks    int           `json:"completed_tasks"`
	PendingTasks      int           `json:"pending_tasks"`
	CompletionRate    int           `json:"completion_rate"`
	HighPriority      []domain.Task `json:"high_priority"`
	DueSoon           []domain.Task `json:"due_soon"`
	RecentlyCompleted []domain.Task `json:"recently_completed"`
}

const recentlyCompletedLimit = 3

// BuildSummary computes the dashboard view over the full task collection.
// DueSoon covers incomplete tasks due after now and within the next 7 days.
func BuildSummary(tasks []domain.Task, now time.Time) Summary {
	s := Summary{TotalTasks: len(tasks)}
	nextWeek := now.AddDate(0, 0, 7)

	var completed []domain.Task
	for _, t := range tasks {
		if t.Completed {
			s.CompletedTasks++
			completed = append(completed, t)
			continue
		}
		if t.Priority == domain.PriorityHigh {
			s.HighPriority = append(s.HighPriority, t)
		}
		if t.DueDate != nil && t.DueDate.After(now) && t.DueDate.Before(nextWeek) {
			s.DueSoon = append(s.DueSoon, t)
		}
	}
	s.PendingTasks = s.TotalTasks - s.CompletedTasks
	if s.TotalTasks > 0 {
		s.CompletionRate = int(math.Round(float64(s.CompletedTasks) / float64(s.TotalTasks) * 100))
	}

	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].CreatedAt.After(completed[j].CreatedAt)
	})
	if len(completed) > recentlyCompletedLimit {
		completed = completed[:recentlyCompletedLimit]
	}
	s.RecentlyCompleted = completed

	return s
}
