// Package query filters and sorts snapshots of the task collection.
package query

import (
	"slices"
	"strings"

	"github.com/phrazzld/taskboard/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField selects the attribute tasks are ordered by.
type SortField string

// Supported sort fields.
const (
	SortByCreatedAt SortField = "createdAt"
	SortByPriority  SortField = "priority"
	SortByTitle     SortField = "title"
)

// Order is the sort direction.
type Order string

// Supported sort directions.
const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Criteria is the combination of filters and sort directives used when
// listing tasks. The zero value matches every task and orders by creation
// time, newest first.
type Criteria struct {
	Text     string
	Status   domain.Status
	Priority domain.Priority
	Sort     SortField
	Order    Order
}

// Result is the filtered, sorted view together with its size.
type Result struct {
	Items []domain.Task
	Total int
}

// Apply returns the tasks that match c, sorted as c requests. The input
// slice is not modified. Ties keep their input order.
func Apply(tasks []domain.Task, c Criteria) Result {
	text := strings.ToLower(strings.TrimSpace(c.Text))

	items := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesText(t, text) && matchesStatus(t, c.Status) && matchesPriority(t, c.Priority) {
			items = append(items, t)
		}
	}

	cmp := comparator(c.Sort)
	desc := c.Order != OrderAsc
	slices.SortStableFunc(items, func(a, b domain.Task) int {
		if desc {
			return -cmp(a, b)
		}
		return cmp(a, b)
	})

	return Result{Items: items, Total: len(items)}
}

func matchesText(t domain.Task, text string) bool {
	if text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), text) ||
		strings.Contains(strings.ToLower(t.Description), text)
}

func matchesStatus(t domain.Task, status domain.Status) bool {
	return status == "" || t.Status == status
}

func matchesPriority(t domain.Task, priority domain.Priority) bool {
	return priority == "" || t.Priority == priority
}

// comparator returns an ascending comparison for the field. An empty field
// means createdAt; an unknown field compares everything as equal.
func comparator(field SortField) func(a, b domain.Task) int {
	switch field {
	case SortByCreatedAt, "":
		return func(a, b domain.Task) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case SortByPriority:
		return func(a, b domain.Task) int {
			return a.Priority.Rank() - b.Priority.Rank()
		}
	case SortByTitle:
		// A Collator keeps internal buffers, so each call gets its own.
		col := collate.New(language.Und)
		return func(a, b domain.Task) int {
			return col.CompareString(a.Title, b.Title)
		}
	default:
		return func(a, b domain.Task) int { return 0 }
	}
}

// IsValidSortField reports whether f is a supported sort field.
func IsValidSortField(f SortField) bool {
	return f == SortByCreatedAt || f == SortByPriority || f == SortByTitle
}

// IsValidOrder reports whether o is a supported sort direction.
func IsValidOrder(o Order) bool {
	return o == OrderAsc || o == OrderDesc
}
