package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmanager/task-tracker/internal/core/ports"
)

// AdminHandler serves the administrator-only listings.
type AdminHandler struct {
	tasks ports.TaskService
	users ports.UserService
}

func NewAdminHandler(tasks ports.TaskService, users ports.UserService) *AdminHandler {
	return &AdminHandler{tasks: tasks, users: users}
}

// ListTasks handles GET /admin/tasks.
//
// @Summary      List every task, newest first
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   taskResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/tasks [get]
func (h *AdminHandler) ListTasks(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.ListAll(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// ListUsers handles GET /admin/users.
//
// @Summary      List every user with task counts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userSummaryResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	users, err := h.users.ListUsers(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserSummaryResponses(users))
}
