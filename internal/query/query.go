// Package query derives filtered and aggregate views from a todo
// snapshot. Everything here is a pure function of its inputs.
package query

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/avelichko/todoflow/internal/models"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// upcomingWindowDays bounds the "due soon" view to the next week,
// inclusive of today.
const upcomingWindowDays = 7

// View selects a subset of the collection. The zero value selects
// everything. Filters compose as a logical AND, so the order they are
// applied in does not change the result.
type View struct {
	// Status filters by completion state. Empty and StatusAll
	// disable the filter.
	Status Status

	// Category is an exact match. Empty and "all" disable the
	// filter.
	Category string

	// Search is a case-insensitive substring match against the
	// title or the description. Empty disables the filter.
	Search string
}

func (v View) matches(todo *models.Todo) bool {
	switch v.Status {
	case StatusActive:
		if todo.Completed {
			return false
		}
	case StatusCompleted:
		if !todo.Completed {
			return false
		}
	}

	if v.Category != "" && v.Category != "all" && todo.Category != v.Category {
		return false
	}

	if v.Search != "" {
		needle := strings.ToLower(v.Search)
		if !strings.Contains(strings.ToLower(todo.Title), needle) &&
			!strings.Contains(strings.ToLower(todo.Description), needle) {
			return false
		}
	}
	return true
}

// Filter returns the todos selected by the view, preserving the input
// order.
func Filter(todos []*models.Todo, v View) []*models.Todo {
	filtered := make([]*models.Todo, 0, len(todos))
	for _, todo := range todos {
		if v.matches(todo) {
			filtered = append(filtered, todo)
		}
	}
	return filtered
}

// GroupByCategory partitions todos by category, preserving each
// group's relative order from the input sequence.
func GroupByCategory(todos []*models.Todo) map[string][]*models.Todo {
	groups := make(map[string][]*models.Todo)
	for _, todo := range todos {
		category := todo.Category
		if category == "" {
			category = models.DefaultCategory
		}
		groups[category] = append(groups[category], todo)
	}
	return groups
}

// Stats aggregates the full, unfiltered collection.
type Stats struct {
	Total     int
	Completed int
	Active    int

	// CompletionRate is a rounded integer percentage, 0 for an
	// empty collection.
	CompletionRate int

	ByCategory map[string]int
	ByPriority map[string]int

	// Upcoming holds the active todos due within the next week,
	// soonest first.
	Upcoming []*models.Todo
}

func Collect(todos []*models.Todo, now time.Time) Stats {
	stats := Stats{
		Total:      len(todos),
		ByCategory: make(map[string]int),
		ByPriority: make(map[string]int),
	}

	for _, todo := range todos {
		if todo.Completed {
			stats.Completed++
		}

		category := todo.Category
		if category == "" {
			category = models.DefaultCategory
		}
		stats.ByCategory[category]++
		stats.ByPriority[todo.Priority]++
	}
	stats.Active = stats.Total - stats.Completed

	if stats.Total > 0 {
		rate := float64(stats.Completed) / float64(stats.Total) * 100
		stats.CompletionRate = int(math.Round(rate))
	}

	stats.Upcoming = Upcoming(todos, now)
	return stats
}

// Upcoming returns the active todos whose due date falls within the
// next week inclusive of today, sorted by due date ascending.
func Upcoming(todos []*models.Todo, now time.Time) []*models.Todo {
	var upcoming []*models.Todo
	for _, todo := range todos {
		if todo.Completed || todo.DueDate == nil {
			continue
		}
		days := daysUntil(now, *todo.DueDate)
		if days >= 0 && days <= upcomingWindowDays {
			upcoming = append(upcoming, todo)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(*upcoming[j].DueDate)
	})
	return upcoming
}

// daysUntil counts day distance rounding up, so a just-passed due
// date still lands on day zero and counts as due today.
func daysUntil(now, due time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}
