package handler

import (
	"github.com/taskmanager/task-tracker/internal/core/domain"
	"github.com/taskmanager/task-tracker/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createTaskRequest, idempotencyKey string) ports.CreateTaskInput {
	return ports.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       string(req.Priority),
		DueDate:        string(req.DueDate),
		Category:       req.Category,
		IdempotencyKey: idempotencyKey,
	}
}

func toUpdateInput(req updateTaskRequest) ports.UpdateTaskInput {
	return ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority.ptr(),
		DueDate:     req.DueDate.ptr(),
		Category:    req.Category,
	}
}

// --- Service result → HTTP response ---

func toTaskResponse(t *domain.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		Category:    t.Category,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
		Username:    t.Owner,
	}
	if t.DueDate != nil {
		due := t.DueDate.UTC()
		resp.DueDate = &due
	}
	return resp
}

func toTaskResponses(tasks []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func toStatisticsResponse(s *ports.TaskStatistics) statisticsResponse {
	return statisticsResponse{
		Total:          s.Total,
		Completed:      s.Completed,
		Pending:        s.Pending,
		Overdue:        s.Overdue,
		CompletionRate: s.CompletionRate,
		PriorityCount:  s.PriorityCount,
	}
}

func roleNames(roles []domain.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Roles: roleNames(u.Roles)}
}

func toUserSummaryResponses(users []ports.UserSummary) []userSummaryResponse {
	out := make([]userSummaryResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userSummaryResponse{
			ID:        u.ID,
			Username:  u.Username,
			Roles:     roleNames(u.Roles),
			TaskCount: u.TaskCount,
		})
	}
	return out
}
