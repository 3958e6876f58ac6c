package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-manager/internal/api/metrics"
	"github.com/taskforge/task-manager/internal/core/ports"
)

// TaskHandler handles ownership-scoped task CRUD routes.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create stores a new task owned by the requester. Any owner value in the
// payload is ignored by construction: the request schema has no owner field
// and the service forces the requester's id.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  domain.Task
// @Failure      400   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.service.Create(c.Request().Context(), user.ID, ports.CreateTaskInput{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return err
	}

	metrics.TasksCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, task)
}

// List returns the requester's tasks. Query options: completed=true|false,
// limit, skip (non-negative integers; invalid or absent values are ignored),
// and sortBy=field:asc|desc.
//
// @Summary      List own tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        completed  query  string  false  "Filter by completion state"
// @Param        limit      query  int     false  "Page size"
// @Param        skip       query  int     false  "Offset"
// @Param        sortBy     query  string  false  "field:asc|desc"
// @Success      200  {array}  domain.Task
// @Failure      401  {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	input := parseListQuery(c)
	tasks, err := h.service.List(c.Request().Context(), user.ID, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// Get fetches one of the requester's tasks by id.
//
// @Summary      Get a task by id
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Task id"
// @Success      200  {object}  domain.Task
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Update applies a partial update to one of the requester's tasks. The body
// keys must be a subset of {description, completed}.
//
// @Summary      Update a task by id
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Task id"
// @Success      200  {object}  domain.Task
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	for key := range raw {
		if !taskUpdateFields[key] {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid updates")
		}
	}

	var update ports.TaskUpdate
	if v, ok := raw["description"]; ok {
		if update.Description, err = decodeString(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}
	if v, ok := raw["completed"]; ok {
		var completed bool
		if err := json.Unmarshal(v, &completed); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		update.Completed = &completed
	}

	task, err := h.service.Update(c.Request().Context(), user.ID, c.Param("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Delete removes one of the requester's tasks and returns it.
//
// @Summary      Delete a task by id
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Task id"
// @Success      200  {object}  domain.Task
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	task, err := h.service.Delete(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// parseListQuery maps the listing query parameters to service input.
// Invalid or negative limit/skip values behave as "no limit" / "no skip";
// an unrecognised completed value applies no filter.
func parseListQuery(c echo.Context) ports.ListTasksInput {
	var input ports.ListTasksInput

	switch c.QueryParam("completed") {
	case "true":
		v := true
		input.Completed = &v
	case "false":
		v := false
		input.Completed = &v
	}

	if n, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64); err == nil && n > 0 {
		input.Limit = n
	}
	if n, err := strconv.ParseInt(c.QueryParam("skip"), 10, 64); err == nil && n > 0 {
		input.Skip = n
	}

	if sortBy := c.QueryParam("sortBy"); sortBy != "" {
		field, dir, _ := strings.Cut(sortBy, ":")
		input.SortField = field
		input.SortAsc = dir != "desc"
	}

	return input
}
