package constants

// TaskStatus is a kanban lane. Transitions only ever move forward:
// todo -> in_progress -> done.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) String() string { return string(s) }

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// taskTransitions maps each status to the single forward transition
// offered from it. done has no entry.
var taskTransitions = map[TaskStatus]TaskStatus{
	TaskStatusTodo:       TaskStatusInProgress,
	TaskStatusInProgress: TaskStatusDone,
}

// NextTaskStatus returns the transition offered from s, if any.
func NextTaskStatus(s TaskStatus) (TaskStatus, bool) {
	next, ok := taskTransitions[s]
	return next, ok
}

// CanTransition reports whether moving from -> to is a legal forward step.
// Skipping a lane or moving backward is never legal.
func CanTransition(from, to TaskStatus) bool {
	next, ok := taskTransitions[from]
	return ok && next == to
}

// TaskLanes is the fixed board lane order.
var TaskLanes = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) String() string { return string(p) }

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// MemberStatus tracks the registration lifecycle. A record stays pending
// until exactly one approval promotes it.
type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusApproved MemberStatus = "approved"
)

func (s MemberStatus) String() string { return string(s) }
