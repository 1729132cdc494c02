package task

import (
	"context"

	"github.com/google/uuid"
)

// Task type constants
const (
	TypeGenerateSummary = "generate_summary"
	TypeAppendContent   = "append_content"
)

// Task is a unit of work run by a Pool.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier, used in logs and metrics
	Type() string

	// Execute runs the task logic. ctx is the submitter's context.
	Execute(ctx context.Context) error
}
