package tasks

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskkeeper/backend/domain"
)

// Seed data shown to a user with no stored snapshot.

func defaultCategories() []domain.Category {
	return []domain.Category{
		{ID: uuid.NewString(), Name: "Work", Color: "#3b82f6"},
		{ID: uuid.NewString(), Name: "Personal", Color: "#8b5cf6"},
		{ID: uuid.NewString(), Name: "Shopping", Color: "#ec4899"},
		{ID: uuid.NewString(), Name: "Health", Color: "#10b981"},
	}
}

func sampleTasks(userID string, categories []domain.Category, now time.Time) []domain.Task {
	categoryID := func(name string) string {
		for _, c := range categories {
			if c.Name == name {
				return c.ID
			}
		}
		return ""
	}
	due := func(days int) *time.Time {
		d := now.AddDate(0, 0, days)
		return &d
	}

	return []domain.Task{
		{
			ID:          uuid.NewString(),
			UserID:      userID,
			Title:       "Complete project proposal",
			Description: "Finish the draft by end of day",
			Priority:    domain.PriorityHigh,
			CategoryID:  categoryID("Work"),
			DueDate:     due(7),
			CreatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			UserID:      userID,
			Title:       "Buy groceries",
			Description: "Milk, eggs, bread, fruits",
			Completed:   true,
			Priority:    domain.PriorityMedium,
			CategoryID:  categoryID("Shopping"),
			DueDate:     due(1),
			CreatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			UserID:      userID,
			Title:       "Morning workout",
			Description: "30 minutes cardio",
			Priority:    domain.PriorityLow,
			CategoryID:  categoryID("Health"),
			DueDate:     due(2),
			CreatedAt:   now,
		},
	}
}
