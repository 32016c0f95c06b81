package dtos

import (
	"time"

	"codeclub/clubhouse/internal/constants"
)

// Project owns a collection of tasks.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	Members     []string  `json:"members"`
	TechStack   []string  `json:"tech_stack"`
	GithubURL   *string   `json:"github_url,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectCreate is the create-project payload.
type ProjectCreate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TechStack   []string `json:"tech_stack"`
	GithubURL   *string  `json:"github_url,omitempty"`
}

// Task belongs to exactly one project.
type Task struct {
	ID          string               `json:"id"`
	ProjectID   string               `json:"project_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	AssigneeID  *string              `json:"assignee_id,omitempty"`
	Status      constants.TaskStatus `json:"status"`
	Priority    constants.Priority   `json:"priority"`
	CreatedAt   time.Time            `json:"created_at"`
}

// TaskCreate is the create-task payload. New tasks always land in todo.
type TaskCreate struct {
	ProjectID   string             `json:"project_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	AssigneeID  *string            `json:"assignee_id,omitempty"`
	Priority    constants.Priority `json:"priority"`
}

// TaskStatusUpdate is the PATCH body for a status transition.
type TaskStatusUpdate struct {
	Status constants.TaskStatus `json:"status"`
}
