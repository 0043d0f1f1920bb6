package taskRepo

import "tasknotify/models"

// TaskRepository defines methods for task data access. Tasks live under
// households/{household}/tasks/{task}; this service reads them and performs a
// single conditional write of the is_done_enabled flag.
type TaskRepository interface {
	// GetByPath retrieves a task by its household and task IDs.
	GetByPath(household, taskID string) (*models.Task, error)
	// SetDoneEnabled re-arms the client-side done control on a task.
	SetDoneEnabled(household, taskID string, enabled bool) error
}
