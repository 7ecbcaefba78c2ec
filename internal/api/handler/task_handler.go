package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskmanager/task-tracker/internal/core/domain"
	"github.com/taskmanager/task-tracker/internal/core/ports"
)

// idempotencyHeader lets clients retry POST /tasks without creating duplicates.
const idempotencyHeader = "Idempotency-Key"

// TaskHandler handles HTTP requests for the caller's own tasks.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /tasks.
//
// @Summary      List the caller's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   taskResponse
// @Failure      401  {object}  errorResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.ListOwn(c.Request().Context(), p.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// Create handles POST /tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createTaskRequest  true   "Task details"
// @Success      201              {object}  taskResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	key := c.Request().Header.Get(idempotencyHeader)
	task, err := h.service.Create(c.Request().Context(), p.Username, toCreateInput(req, key))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Update handles PUT /tasks/:id.
//
// @Summary      Update a task
// @Description  Only fields present in the body are changed. Owners and administrators may update.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.service.Update(c.Request().Context(), p, id, toUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete handles DELETE /tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  int  true  "Task id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), p, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Statistics handles GET /tasks/statistics.
//
// @Summary      Statistics over the caller's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statisticsResponse
// @Failure      401  {object}  errorResponse
// @Router       /tasks/statistics [get]
func (h *TaskHandler) Statistics(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Statistics(c.Request().Context(), p.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatisticsResponse(stats))
}

// taskID parses the :id path parameter. Ids that cannot exist are reported as not found.
func taskID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrTaskNotFound
	}
	return id, nil
}
