// Package runlog allocates the identity and timing envelope a single
// scheduling invocation is recorded under.
package runlog

import (
	"time"

	"github.com/google/uuid"
)

// Run identifies one invocation of the vacation/shift pipeline.
type Run struct {
	ID        uuid.UUID
	StartedAt time.Time
}

// New allocates a fresh run identity, stamped at the current time.
func New() Run {
	return Run{ID: uuid.New(), StartedAt: time.Now()}
}

// String returns the run ID as used in log fields and storage keys.
func (r Run) String() string {
	return r.ID.String()
}
