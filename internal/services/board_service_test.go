package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"codeclub/clubhouse/internal/constants"
	"codeclub/clubhouse/internal/models/dtos"
	"codeclub/clubhouse/internal/providers"
)

// taskBackend is an in-memory stand-in for the task endpoints.
type taskBackend struct {
	mu       sync.Mutex
	tasks    []dtos.Task
	requests int
}

func (b *taskBackend) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.requests++

		switch {
		case r.Method == "GET" && strings.HasPrefix(r.URL.Path, "/tasks/"):
			json.NewEncoder(w).Encode(b.tasks)
		case r.Method == "POST" && r.URL.Path == "/tasks":
			var req dtos.TaskCreate
			json.NewDecoder(r.Body).Decode(&req)
			task := dtos.Task{
				ID:          "task-new",
				ProjectID:   req.ProjectID,
				Title:       req.Title,
				Description: req.Description,
				Status:      constants.TaskStatusTodo,
				Priority:    req.Priority,
			}
			b.tasks = append(b.tasks, task)
			json.NewEncoder(w).Encode(task)
		case r.Method == "PATCH" && strings.HasPrefix(r.URL.Path, "/tasks/"):
			id := strings.TrimPrefix(r.URL.Path, "/tasks/")
			var req dtos.TaskStatusUpdate
			json.NewDecoder(r.Body).Decode(&req)
			for i := range b.tasks {
				if b.tasks[i].ID == id {
					b.tasks[i].Status = req.Status
				}
			}
			json.NewEncoder(w).Encode(dtos.MessageResponse{Message: "Task updated"})
		default:
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
}

func (b *taskBackend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests
}

func newBoard(t *testing.T, backend *taskBackend) (*BoardService, *httptest.Server) {
	server := httptest.NewServer(backend.handler(t))
	board := NewBoardService(newTestProvider(server.URL), "proj-1")
	if err := board.Load(context.Background()); err != nil {
		t.Fatalf("Expected initial load to succeed, got %v", err)
	}
	return board, server
}

func TestBoardService_AdvanceWalksForward(t *testing.T) {
	backend := &taskBackend{tasks: []dtos.Task{
		{ID: "task-1", ProjectID: "proj-1", Title: "Ship it", Status: constants.TaskStatusTodo},
	}}
	board, server := newBoard(t, backend)
	defer server.Close()

	ctx := context.Background()

	if err := board.Advance(ctx, "task-1", constants.TaskStatusInProgress); err != nil {
		t.Fatalf("Expected advance to in_progress, got %v", err)
	}
	if got := board.Tasks()[0].Status; got != constants.TaskStatusInProgress {
		t.Errorf("Expected in_progress, got %s", got)
	}

	if err := board.Advance(ctx, "task-1", constants.TaskStatusDone); err != nil {
		t.Fatalf("Expected advance to done, got %v", err)
	}
	if got := board.Tasks()[0].Status; got != constants.TaskStatusDone {
		t.Errorf("Expected done, got %s", got)
	}

	// A done task offers no further transition.
	if _, ok := board.NextStatus(constants.TaskStatusDone); ok {
		t.Error("done must offer no next status")
	}
	if err := board.Advance(ctx, "task-1", constants.TaskStatusTodo); err == nil {
		t.Error("Expected backward advance to be rejected")
	}
}

func TestBoardService_RejectsSkippingALane(t *testing.T) {
	backend := &taskBackend{tasks: []dtos.Task{
		{ID: "task-1", ProjectID: "proj-1", Status: constants.TaskStatusTodo},
	}}
	board, server := newBoard(t, backend)
	defer server.Close()

	before := backend.requestCount()
	err := board.Advance(context.Background(), "task-1", constants.TaskStatusDone)
	if !providers.IsCode(err, constants.ErrCodeValidation) {
		t.Errorf("Expected VALIDATION_ERROR, got %v", err)
	}
	if backend.requestCount() != before {
		t.Error("Illegal transition must not reach the backend")
	}
	if got := board.Tasks()[0].Status; got != constants.TaskStatusTodo {
		t.Errorf("Status must stay todo, got %s", got)
	}
}

func TestBoardService_FailedAdvanceKeepsLastKnownGood(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "GET" {
			json.NewEncoder(w).Encode([]dtos.Task{
				{ID: "task-1", ProjectID: "proj-1", Status: constants.TaskStatusTodo},
			})
			return
		}
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Transition rejected"}`))
	}))
	defer server.Close()

	board := NewBoardService(newTestProvider(server.URL), "proj-1")
	if err := board.Load(context.Background()); err != nil {
		t.Fatalf("Expected load, got %v", err)
	}

	err := board.Advance(context.Background(), "task-1", constants.TaskStatusInProgress)
	if !providers.IsCode(err, constants.ErrCodeValidation) {
		t.Errorf("Expected VALIDATION_ERROR, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected exactly one attempt, got %d", calls)
	}
	if got := board.Tasks()[0].Status; got != constants.TaskStatusTodo {
		t.Errorf("Failed advance must keep last known-good status, got %s", got)
	}
}

func TestBoardService_CreateTaskValidation(t *testing.T) {
	backend := &taskBackend{}
	board, server := newBoard(t, backend)
	defer server.Close()

	before := backend.requestCount()
	for _, tc := range [][2]string{{"", "desc"}, {"title", ""}, {"  ", "desc"}} {
		_, err := board.CreateTask(context.Background(), tc[0], tc[1], constants.PriorityLow)
		if !providers.IsCode(err, constants.ErrCodeValidation) {
			t.Errorf("Expected VALIDATION_ERROR for %q/%q, got %v", tc[0], tc[1], err)
		}
	}
	if backend.requestCount() != before {
		t.Error("Invalid creates must not reach the backend")
	}
}

func TestBoardService_CreateTaskReloadsBoard(t *testing.T) {
	backend := &taskBackend{}
	board, server := newBoard(t, backend)
	defer server.Close()

	task, err := board.CreateTask(context.Background(), "Write docs", "For the wiki", constants.PriorityHigh)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.Status != constants.TaskStatusTodo {
		t.Errorf("New tasks must start in todo, got %s", task.Status)
	}

	lanes := board.Lanes()
	if len(lanes[constants.TaskStatusTodo]) != 1 {
		t.Errorf("Expected the new task in the todo lane, got %+v", lanes)
	}
}
