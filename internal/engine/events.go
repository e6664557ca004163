package engine

// Event types delivered over the live stream.
const (
	EventConnected     = "connected"
	EventTaskCreated   = "task_created"
	EventTaskUpdated   = "task_updated"
	EventTaskDeleted   = "task_deleted"
	EventTaskCompleted = "task_completed"
)
