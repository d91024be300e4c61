package application

import "filerename/internal/domain"

// Re-export status types for use by adapters
type (
	JobStatus         = domain.JobStatus
	TaskStatus        = domain.TaskStatus
	CollisionStrategy = domain.CollisionStrategy
)

const (
	JobCreated = domain.JobCreated
	JobReady   = domain.JobReady
	JobRunning = domain.JobRunning
	JobSuccess = domain.JobSuccess
	JobFailed  = domain.JobFailed

	TaskCreated = domain.TaskCreated
	TaskRunning = domain.TaskRunning
	TaskSuccess = domain.TaskSuccess
	TaskFailure = domain.TaskFailure

	CollisionFail      = domain.CollisionFail
	CollisionEnumerate = domain.CollisionEnumerate
)

// ParseCollisionStrategy parses FAIL or ENUMERATE, case-insensitively
func ParseCollisionStrategy(s string) (CollisionStrategy, error) {
	return domain.ParseCollisionStrategy(s)
}

// KnownMarkers returns the marker abbreviations in rule priority order
func KnownMarkers() []string {
	return domain.KnownAbbreviations()
}

// AssignsNumbersAtRun reports whether output carries the <<E>> marker.
// Its values are drawn from a counter as jobs are prepared, so a preview and
// the run that follows it can number files differently.
func AssignsNumbersAtRun(output string) bool {
	_, ok := domain.FindMarker(output, domain.AbbrEnumeration)
	return ok
}
