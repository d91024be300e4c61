package domain

import (
	"fmt"
	"strings"
)

// JobStatus is the lifecycle state of a single-file rename job
type JobStatus int

const (
	JobCreated JobStatus = iota
	JobReady
	JobRunning
	JobSuccess
	JobFailed
)

func (s JobStatus) String() string {
	switch s {
	case JobCreated:
		return "CREATED"
	case JobReady:
		return "READY"
	case JobRunning:
		return "RUNNING"
	case JobSuccess:
		return "SUCCESS"
	case JobFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transition is possible
func (s JobStatus) Terminal() bool {
	return s == JobSuccess || s == JobFailed
}

// CanTransition reports whether a job may move from s to next.
// A job fails from CREATED when its name cannot be resolved.
func (s JobStatus) CanTransition(next JobStatus) bool {
	switch s {
	case JobCreated:
		return next == JobReady || next == JobFailed
	case JobReady:
		return next == JobRunning
	case JobRunning:
		return next == JobSuccess || next == JobFailed
	default:
		return false
	}
}

// JobStatuses lists every job status in lifecycle order
var JobStatuses = []JobStatus{JobCreated, JobReady, JobRunning, JobSuccess, JobFailed}

// TaskStatus is the lifecycle state of one engine invocation
type TaskStatus int

const (
	TaskCreated TaskStatus = iota
	TaskRunning
	TaskSuccess
	TaskFailure
)

func (s TaskStatus) String() string {
	switch s {
	case TaskCreated:
		return "CREATED"
	case TaskRunning:
		return "RUNNING"
	case TaskSuccess:
		return "SUCCESS"
	case TaskFailure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// CollisionStrategy governs what happens when the computed output name already exists
type CollisionStrategy int

const (
	CollisionFail CollisionStrategy = iota
	CollisionEnumerate
)

func (c CollisionStrategy) String() string {
	switch c {
	case CollisionEnumerate:
		return "ENUMERATE"
	default:
		return "FAIL"
	}
}

// ParseCollisionStrategy accepts FAIL or ENUMERATE, case-insensitively.
// An empty value selects FAIL.
func ParseCollisionStrategy(s string) (CollisionStrategy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "FAIL":
		return CollisionFail, nil
	case "ENUMERATE":
		return CollisionEnumerate, nil
	default:
		return CollisionFail, fmt.Errorf("%w: unknown collision strategy %q (expected FAIL or ENUMERATE)", ErrInvalidArgument, s)
	}
}
