package views

import (
	"sort"
	"time"

	"github.com/taskkeeper/backend/domain"
)

// BucketKey names a due-date range in the upcoming view.
type BucketKey string

const (
	BucketOverdue   BucketKey = "overdue"
	BucketToday     BucketKey = "today"
	BucketTomorrow  BucketKey = "tomorrow"
	BucketThisWeek  BucketKey = "thisWeek"
	BucketThisMonth BucketKey = "thisMonth"
	BucketFuture    BucketKey = "future"
)

// bucketOrder is the fixed render order of the upcoming view.
var bucketOrder = []BucketKey{
	BucketOverdue,
	BucketToday,
	BucketTomorrow,
	BucketThisWeek,
	BucketThisMonth,
	BucketFuture,
}

// Bucket is one rendered group of upcoming tasks.
type Bucket struct {
	Key   BucketKey     `json:"key"`
	Tasks []domain.Task `json:"tasks"`
}

// UpcomingBuckets groups incomplete tasks that carry a due date. Tasks are
// sorted ascending by due date before grouping, so each bucket keeps that
// order. Each task lands in exactly one bucket; empty buckets are omitted.
func UpcomingBuckets(tasks []domain.Task, now time.Time) []Bucket {
	var upcoming []domain.Task
	for _, t := range tasks {
		if !t.Completed && t.DueDate != nil {
			upcoming = append(upcoming, t)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(*upcoming[j].DueDate)
	})

	grouped := make(map[BucketKey][]domain.Task)
	for _, t := range upcoming {
		key := classify(&t, now)
		grouped[key] = append(grouped[key], t)
	}

	var out []Bucket
	for _, key := range bucketOrder {
		if tasks := grouped[key]; len(tasks) > 0 {
			out = append(out, Bucket{Key: key, Tasks: tasks})
		}
	}
	return out
}

// classify places a task into its bucket. The checks run in precedence order.
// A task due earlier on the current calendar day counts as "today", not
// "overdue"; overdue is reserved for past days.
func classify(t *domain.Task, now time.Time) BucketKey {
	switch {
	case t.DueBefore(now) && !t.DueOn(now):
		return BucketOverdue
	case t.DueOn(now):
		return BucketToday
	case t.DueBefore(now.AddDate(0, 0, 1)):
		return BucketTomorrow
	case t.DueBefore(now.AddDate(0, 0, 7)):
		return BucketThisWeek
	case t.DueBefore(now.AddDate(0, 0, 30)):
		return BucketThisMonth
	default:
		return BucketFuture
	}
}
