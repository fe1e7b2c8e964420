// Package views holds the pure derived-view functions the presentation layer
// renders from: list filtering and sorting, due-date bucketing, and the
// dashboard summary. Nothing here mutates state or touches persistence.
package views

import (
	"sort"
	"strings"

	"github.com/taskkeeper/backend/domain"
)

// PageFilter is the fixed filter a list page is opened with.
type PageFilter string

const (
	PageAll       PageFilter = "all"
	PageCompleted PageFilter = "completed"
	PageCategory  PageFilter = "category"
)

// StatusFilter is the user-selected completion filter.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusCompleted StatusFilter = "completed"
	StatusPending   StatusFilter = "pending"
)

// SortOrder selects how the final list is ordered.
type SortOrder string

const (
	SortNewest   SortOrder = "newest"
	SortOldest   SortOrder = "oldest"
	SortPriority SortOrder = "priority"
)

// ListQuery combines the page-level filter with the user-selected controls.
type ListQuery struct {
	Page           PageFilter
	PageCategoryID string
	Status         StatusFilter
	CategoryID     string
	Search         string
	Sort           SortOrder
}

// ApplyList filters and sorts tasks for the list view. The composition order
// matters: the page-level filter runs first and suppresses the user-selected
// filter for the dimension it already constrains, then search narrows the
// result, then the sort runs last.
func ApplyList(tasks []domain.Task, q ListQuery) []domain.Task {
	result := append([]domain.Task(nil), tasks...)

	switch {
	case q.Page == PageCompleted:
		result = keep(result, func(t domain.Task) bool { return t.Completed })
	case q.Page == PageCategory && q.PageCategoryID != "":
		result = keep(result, func(t domain.Task) bool { return t.CategoryID == q.PageCategoryID })
	}

	if q.Page != PageCompleted && q.Status != "" && q.Status != StatusAll {
		wantCompleted := q.Status == StatusCompleted
		result = keep(result, func(t domain.Task) bool { return t.Completed == wantCompleted })
	}

	if q.Page != PageCategory && q.CategoryID != "" && q.CategoryID != "all" {
		result = keep(result, func(t domain.Task) bool { return t.CategoryID == q.CategoryID })
	}

	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		result = keep(result, func(t domain.Task) bool {
			return strings.Contains(strings.ToLower(t.Title), needle) ||
				strings.Contains(strings.ToLower(t.Description), needle)
		})
	}

	sortTasks(result, q.Sort)
	return result
}

// sortTasks orders tasks in place. All orders are stable so equal elements
// keep their relative insertion order.
func sortTasks(tasks []domain.Task, order SortOrder) {
	switch order {
	case SortOldest:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		})
	case SortPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
		})
	default: // newest
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	}
}

func keep(tasks []domain.Task, pred func(domain.Task) bool) []domain.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}
