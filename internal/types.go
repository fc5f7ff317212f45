package internal

// TaskStatus represents the status of a pipeline task
type TaskStatus string

const (
	// TaskStatusPending means the task is queued but not started
	TaskStatusPending TaskStatus = "pending"

	// TaskStatusDownloading means the audio download is in progress
	TaskStatusDownloading TaskStatus = "downloading"

	// TaskStatusTranscribing means the transcription is in progress
	TaskStatusTranscribing TaskStatus = "transcribing"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusDownloading || ts == TaskStatusTranscribing
}

// IsFinished returns true if the task is in a finished state
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}
