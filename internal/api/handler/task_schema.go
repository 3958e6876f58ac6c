package handler

type createTaskRequest struct {
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
}

// taskUpdateFields is the allow-list for PATCH /tasks/:id. Any other key
// rejects the whole update. The owner is deliberately absent: it can never
// be changed.
var taskUpdateFields = map[string]bool{
	"description": true,
	"completed":   true,
}
