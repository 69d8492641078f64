package models

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const DefaultCategory = "general"

// SuggestedCategories is the set offered by clients. The store accepts
// any category text and round-trips it unchanged.
var SuggestedCategories = []string{
	"general",
	"work",
	"personal",
	"shopping",
	"health",
	"learning",
}

type Todo struct {
	ID          int64
	Title       string
	Description string
	Completed   bool
	Priority    string
	DueDate     *time.Time
	Category    string
	CreatedAt   time.Time
	// Notified marks that the due-date alert already fired for this
	// item. It is not part of the wire shape.
	Notified bool
}

// Clone returns a deep copy so readers never share memory with the
// repository's canonical record.
func (t *Todo) Clone() *Todo {
	clone := *t
	if t.DueDate != nil {
		due := *t.DueDate
		clone.DueDate = &due
	}
	return &clone
}

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
