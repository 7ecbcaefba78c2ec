package handler

import (
	"encoding/json"
	"time"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
}

type createTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Priority    scalarText `json:"priority"`
	DueDate     scalarText `json:"dueDate"`
	Category    string `json:"category"    validate:"max=100"`
}

// updateTaskRequest distinguishes absent fields (nil) from zero values.
type updateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Completed   *bool   `json:"completed"`
	Priority    *scalarText `json:"priority"`
	DueDate     *scalarText `json:"dueDate"`
	Category    *string `json:"category"    validate:"omitempty,max=100"`
}

// scalarText decodes any JSON scalar to its text, so {"priority": 5} reads as "5"
// and is then corrected like any other unknown value. Objects and arrays decode to "".
type scalarText string

func (s *scalarText) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = scalarText(str)
		return nil
	}
	switch data[0] {
	case '{', '[', 'n':
		*s = ""
	default:
		*s = scalarText(data)
	}
	return nil
}

func (s *scalarText) ptr() *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

// --- Response types ---

type userResponse struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Username    string     `json:"username"`
}

type statisticsResponse struct {
	Total          int64            `json:"total"`
	Completed      int64            `json:"completed"`
	Pending        int64            `json:"pending"`
	Overdue        int64            `json:"overdue"`
	CompletionRate float64          `json:"completionRate"`
	PriorityCount  map[string]int64 `json:"priorityCount"`
}

type userSummaryResponse struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Roles     []string `json:"roles"`
	TaskCount int64    `json:"taskCount"`
}
