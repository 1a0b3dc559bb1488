// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// Limits enforced on task fields at creation and update time.
const (
	TaskTitleMaxLen       = 255
	TaskDescriptionMaxLen = 1000
)

// Task is an owned resource. OwnerID links the task to exactly one user and
// is immutable after creation; no operation may touch a task whose owner
// differs from the authenticated caller.
type Task struct {
	ID          int64     // Store-assigned identifier.
	OwnerID     int64     // Foreign key to the owning user, immutable.
	Title       string    // Required, 1 to 255 characters.
	Description string    // Optional, at most 1000 characters.
	Completed   bool      // Completion flag, defaults to false.
	CreatedAt   time.Time // Timestamp of task creation.
	UpdatedAt   time.Time // Timestamp of the last modification.
}
