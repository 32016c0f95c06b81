package services

import (
	"context"
	"strings"
	"sync"

	"codeclub/clubhouse/internal/constants"
	"codeclub/clubhouse/internal/logging"
	"codeclub/clubhouse/internal/models/dtos"
	"codeclub/clubhouse/internal/providers"
)

// BoardService is the kanban engine over one project's tasks. It holds a
// locally cached task list refreshed by full reload after every mutation;
// nothing is patched speculatively.
type BoardService struct {
	provider  *providers.ClubAPIProvider
	projectID string

	mu    sync.Mutex
	tasks []dtos.Task
}

// NewBoardService creates a board bound to one project.
func NewBoardService(provider *providers.ClubAPIProvider, projectID string) *BoardService {
	return &BoardService{
		provider:  provider,
		projectID: projectID,
	}
}

// ProjectID returns the owning project.
func (s *BoardService) ProjectID() string { return s.projectID }

// Load replaces the local task list with the backend's.
func (s *BoardService) Load(ctx context.Context) error {
	tasks, err := s.provider.GetTasks(ctx, s.projectID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

// Tasks returns a snapshot of the current task list.
func (s *BoardService) Tasks() []dtos.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dtos.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Lanes groups the snapshot into the three fixed board lanes.
func (s *BoardService) Lanes() map[constants.TaskStatus][]dtos.Task {
	lanes := make(map[constants.TaskStatus][]dtos.Task, len(constants.TaskLanes))
	for _, lane := range constants.TaskLanes {
		lanes[lane] = []dtos.Task{}
	}
	for _, t := range s.Tasks() {
		lanes[t.Status] = append(lanes[t.Status], t)
	}
	return lanes
}

// CreateTask creates a new task in todo and reloads the board.
func (s *BoardService) CreateTask(ctx context.Context, title, description string, priority constants.Priority) (*dtos.Task, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return nil, providers.NewValidationError(constants.MsgEmptyTaskFields)
	}
	if !priority.IsValid() {
		priority = constants.PriorityMedium
	}

	task, err := s.provider.CreateTask(ctx, dtos.TaskCreate{
		ProjectID:   s.projectID,
		Title:       title,
		Description: description,
		Priority:    priority,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Load(ctx); err != nil {
		// Creation succeeded; the stale view repairs on the next load.
		logging.Warn("Board reload after create failed", "project_id", s.projectID, "error", err.Error())
	}
	return task, nil
}

// NextStatus reports the single transition offered from a status. Done
// tasks offer none.
func (s *BoardService) NextStatus(status constants.TaskStatus) (constants.TaskStatus, bool) {
	return constants.NextTaskStatus(status)
}

// Advance moves a task one step forward. Backward or lane-skipping
// targets are rejected locally without a network call. A failed advance
// leaves the last known-good status in place; it is not retried.
func (s *BoardService) Advance(ctx context.Context, taskID string, target constants.TaskStatus) error {
	s.mu.Lock()
	var current *dtos.Task
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			current = &s.tasks[i]
			break
		}
	}
	if current == nil {
		s.mu.Unlock()
		return providers.NewValidationError("Unknown task")
	}
	from := current.Status
	s.mu.Unlock()

	if !constants.CanTransition(from, target) {
		return providers.NewValidationError(constants.MsgInvalidTransition)
	}

	if _, err := s.provider.UpdateTaskStatus(ctx, taskID, target); err != nil {
		return err
	}

	return s.Load(ctx)
}
