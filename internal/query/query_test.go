package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichko/todoflow/internal/models"
)

func todoFixture(id int64, title string, completed bool, category string) *models.Todo {
	return &models.Todo{
		ID:        id,
		Title:     title,
		Completed: completed,
		Priority:  models.PriorityMedium,
		Category:  category,
		CreatedAt: time.Now(),
	}
}

func TestFilter_StatusPartitionsSnapshot(t *testing.T) {
	todos := []*models.Todo{
		todoFixture(1, "one", false, "general"),
		todoFixture(2, "two", true, "general"),
		todoFixture(3, "three", false, "work"),
		todoFixture(4, "four", true, "work"),
	}

	active := Filter(todos, View{Status: StatusActive})
	completed := Filter(todos, View{Status: StatusCompleted})

	// Active and completed are disjoint and together cover the
	// whole snapshot.
	assert.Len(t, active, 2)
	assert.Len(t, completed, 2)

	seen := make(map[int64]bool)
	for _, todo := range append(active, completed...) {
		assert.False(t, seen[todo.ID])
		seen[todo.ID] = true
	}
	assert.Len(t, seen, len(todos))

	all := Filter(todos, View{Status: StatusAll})
	assert.Equal(t, todos, all)
}

func TestFilter_CategoryExactMatch(t *testing.T) {
	todos := []*models.Todo{
		todoFixture(1, "one", false, "work"),
		todoFixture(2, "two", false, "workout"),
	}

	filtered := Filter(todos, View{Category: "work"})
	require.Len(t, filtered, 1)
	assert.EqualValues(t, 1, filtered[0].ID)

	assert.Len(t, Filter(todos, View{Category: "all"}), 2)
	assert.Len(t, Filter(todos, View{}), 2)
}

func TestFilter_SearchMatchesTitleOrDescription(t *testing.T) {
	todos := []*models.Todo{
		{ID: 1, Title: "Buy MILK", Category: "shopping"},
		{ID: 2, Title: "Call mom", Description: "about the milk delivery", Category: "personal"},
		{ID: 3, Title: "Write report", Category: "work"},
	}

	filtered := Filter(todos, View{Search: "milk"})
	require.Len(t, filtered, 2)
	assert.EqualValues(t, 1, filtered[0].ID)
	assert.EqualValues(t, 2, filtered[1].ID)
}

func TestFilter_ComposesAsAND(t *testing.T) {
	todos := []*models.Todo{
		{ID: 1, Title: "Buy milk", Completed: false, Category: "shopping"},
		{ID: 2, Title: "Buy milk", Completed: true, Category: "shopping"},
		{ID: 3, Title: "Buy bread", Completed: false, Category: "shopping"},
		{ID: 4, Title: "Buy milk", Completed: false, Category: "general"},
	}

	view := View{
		Status:   StatusActive,
		Category: "shopping",
		Search:   "milk",
	}
	filtered := Filter(todos, view)
	require.Len(t, filtered, 1)
	assert.EqualValues(t, 1, filtered[0].ID)
}

func TestGroupByCategory_PreservesOrder(t *testing.T) {
	todos := []*models.Todo{
		todoFixture(1, "one", false, "work"),
		todoFixture(2, "two", false, "home"),
		todoFixture(3, "three", false, "work"),
		{ID: 4, Title: "four"},
	}

	groups := GroupByCategory(todos)
	require.Len(t, groups, 3)

	work := groups["work"]
	require.Len(t, work, 2)
	assert.EqualValues(t, 1, work[0].ID)
	assert.EqualValues(t, 3, work[1].ID)

	// An empty category falls into the default group.
	require.Len(t, groups[models.DefaultCategory], 1)
	assert.EqualValues(t, 4, groups[models.DefaultCategory][0].ID)
}

func TestCollect_EmptyCollection(t *testing.T) {
	stats := Collect(nil, time.Now())

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Completed)
	assert.Zero(t, stats.Active)
	assert.Zero(t, stats.CompletionRate)
	assert.Empty(t, stats.Upcoming)
}

func TestCollect_CompletionRate(t *testing.T) {
	allDone := []*models.Todo{
		todoFixture(1, "one", true, "general"),
		todoFixture(2, "two", true, "general"),
	}
	assert.Equal(t, 100, Collect(allDone, time.Now()).CompletionRate)

	oneOfThree := []*models.Todo{
		todoFixture(1, "one", true, "general"),
		todoFixture(2, "two", false, "general"),
		todoFixture(3, "three", false, "general"),
	}
	// 1/3 rounds to 33.
	assert.Equal(t, 33, Collect(oneOfThree, time.Now()).CompletionRate)
}

func TestCollect_CountsByCategoryAndPriority(t *testing.T) {
	todos := []*models.Todo{
		{ID: 1, Title: "a", Category: "work", Priority: models.PriorityHigh},
		{ID: 2, Title: "b", Category: "work", Priority: models.PriorityLow},
		{ID: 3, Title: "c", Category: "home", Priority: models.PriorityHigh},
	}

	stats := Collect(todos, time.Now())
	assert.Equal(t, 2, stats.ByCategory["work"])
	assert.Equal(t, 1, stats.ByCategory["home"])
	assert.Equal(t, 2, stats.ByPriority[models.PriorityHigh])
	assert.Equal(t, 1, stats.ByPriority[models.PriorityLow])
}

func TestUpcoming_WindowAndOrder(t *testing.T) {
	now := time.Now()
	at := func(d time.Duration) *time.Time {
		due := now.Add(d)
		return &due
	}

	todos := []*models.Todo{
		{ID: 1, Title: "due next week", DueDate: at(6 * 24 * time.Hour)},
		{ID: 2, Title: "due tomorrow", DueDate: at(24 * time.Hour)},
		{ID: 3, Title: "too far out", DueDate: at(9 * 24 * time.Hour)},
		{ID: 4, Title: "long overdue", DueDate: at(-3 * 24 * time.Hour)},
		{ID: 5, Title: "done already", Completed: true, DueDate: at(time.Hour)},
		{ID: 6, Title: "no deadline"},
		{ID: 7, Title: "just slipped", DueDate: at(-5 * time.Minute)},
	}

	upcoming := Upcoming(todos, now)
	require.Len(t, upcoming, 3)

	// Soonest first: the just-passed one, then tomorrow, then next
	// week.
	assert.EqualValues(t, 7, upcoming[0].ID)
	assert.EqualValues(t, 2, upcoming[1].ID)
	assert.EqualValues(t, 1, upcoming[2].ID)
}
