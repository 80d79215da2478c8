package api

import (
	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/query"
)

// Request structures. Pointer fields distinguish an absent field from an
// empty one so that a missing title reports "Required" and an empty title
// reports its length.

// CreateTaskRequest defines the payload for POST /api/tasks.
type CreateTaskRequest struct {
	Title       *string   `json:"title"       validate:"required,min=1"`
	Description *string   `json:"description" validate:"omitnil"`
	Priority    *string   `json:"priority"    validate:"required,oneof=low medium high"`
	Status      *string   `json:"status"      validate:"omitnil,oneof=pending completed"`
	DueDate     *string   `json:"dueDate"     validate:"omitnil,isodate"`
	Tags        []*string `json:"tags"        validate:"omitnil,dive,required"`
}

// ToInput converts the validated request into service input.
func (req CreateTaskRequest) ToInput() domain.TaskInput {
	in := domain.TaskInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Priority:    domain.Priority(deref(req.Priority)),
		Status:      domain.Status(deref(req.Status)),
		DueDate:     deref(req.DueDate),
		Tags:        derefAll(req.Tags),
	}
	if in.Status == "" {
		in.Status = domain.StatusPending
	}
	return in
}

// UpdateTaskRequest defines the payload for PUT /api/tasks/{id}.
// Every field is optional; absent fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string   `json:"title"       validate:"omitnil,min=1"`
	Description *string   `json:"description" validate:"omitnil"`
	Priority    *string   `json:"priority"    validate:"omitnil,oneof=low medium high"`
	Status      *string   `json:"status"      validate:"omitnil,oneof=pending completed"`
	DueDate     *string   `json:"dueDate"     validate:"omitnil,isodate"`
	Tags        []*string `json:"tags"        validate:"omitnil,dive,required"`
}

// ToPatch converts the validated request into a service patch.
func (req UpdateTaskRequest) ToPatch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Tags:        derefAll(req.Tags),
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		s := domain.Status(*req.Status)
		patch.Status = &s
	}
	return patch
}

// UpdateStatusRequest defines the payload for PATCH /api/tasks/{id}/status.
type UpdateStatusRequest struct {
	Status *string `json:"status" validate:"required,oneof=pending completed"`
}

// ListTasksQuery holds the query parameters of GET /api/tasks.
// Search is the older name of Q and is used only when Q is absent.
type ListTasksQuery struct {
	Q        *string `query:"q"        validate:"omitnil,min=1"`
	Search   *string `query:"search"   validate:"omitnil"`
	Status   *string `query:"status"   validate:"omitnil,oneof=pending completed"`
	Priority *string `query:"priority" validate:"omitnil,oneof=low medium high"`
	Sort     *string `query:"sort"     validate:"omitnil,oneof=createdAt priority title"`
	Order    *string `query:"order"    validate:"omitnil,oneof=asc desc"`
}

// ToCriteria converts the validated query into list criteria.
func (q ListTasksQuery) ToCriteria() query.Criteria {
	text := deref(q.Q)
	if q.Q == nil {
		text = deref(q.Search)
	}
	return query.Criteria{
		Text:     text,
		Status:   domain.Status(deref(q.Status)),
		Priority: domain.Priority(deref(q.Priority)),
		Sort:     query.SortField(deref(q.Sort)),
		Order:    query.Order(deref(q.Order)),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// derefAll flattens validated tag pointers. A nil slice stays nil so an
// absent field is distinguishable from an empty list.
func derefAll(ss []*string) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, deref(s))
	}
	return out
}

func domainStatus(s *string) domain.Status {
	return domain.Status(deref(s))
}
