package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"

	"filerename/internal/domain"
	"filerename/internal/ports"
)

// JobArguments holds everything one job needs to rename a single file
type JobArguments struct {
	Source     string
	Rules      *domain.RuleSet
	Search     *regexp.Regexp
	Copy       bool
	DryRun     bool
	Collision  domain.CollisionStrategy
	MaxRetries int
}

// JobReport is the outcome of one job
type JobReport struct {
	Source    string
	Target    string
	Status    domain.JobStatus
	Attempts  int
	Unchanged bool
	DryRun    bool
	Err       error
}

// RenameJob renames or copies exactly one file.
// Prepare resolves the target name; Run performs the filesystem operation.
type RenameJob struct {
	fs   ports.FileSystem
	log  ports.Logger
	args JobArguments

	mu         sync.Mutex
	status     domain.JobStatus
	target     string
	attempts   int
	unchanged  bool
	err        error
	enumerator *domain.FileEnumerator
}

// NewRenameJob creates a job in the CREATED state
func NewRenameJob(fs ports.FileSystem, log ports.Logger, args JobArguments) *RenameJob {
	return &RenameJob{fs: fs, log: log, args: args, status: domain.JobCreated}
}

// Status returns the current lifecycle state
func (j *RenameJob) Status() domain.JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Target returns the path the file was, or will be, written to
func (j *RenameJob) Target() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.target
}

func (j *RenameJob) transition(next domain.JobStatus) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.status.CanTransition(next) {
		return fmt.Errorf("invalid job transition for %s: %s -> %s", j.args.Source, j.status, next)
	}
	j.status = next
	return nil
}

func (j *RenameJob) fail(err error) error {
	j.mu.Lock()
	j.err = err
	j.mu.Unlock()
	if terr := j.transition(domain.JobFailed); terr != nil {
		return terr
	}
	j.log.Warnf("%s: %v", filepath.Base(j.args.Source), err)
	return err
}

// Prepare folds every rule over the output template to resolve the
// target name. A rule failure fails this job only.
func (j *RenameJob) Prepare() error {
	if s := j.Status(); s != domain.JobCreated {
		return fmt.Errorf("cannot prepare job for %s in state %s", j.args.Source, s)
	}

	subject := domain.NewSubject(j.args.Source, j.args.Search)
	name, err := j.args.Rules.Resolve(subject)
	if err != nil {
		return j.fail(err)
	}

	j.mu.Lock()
	j.target = filepath.Join(filepath.Dir(j.args.Source), name)
	j.mu.Unlock()
	return j.transition(domain.JobReady)
}

// Run performs the move or copy. Under ENUMERATE an existing destination
// is retried with "-N" names until one is free or MaxRetries is used up.
// A context cancelled before Run leaves the job READY.
func (j *RenameJob) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := j.transition(domain.JobRunning); err != nil {
		return err
	}

	source, target := j.args.Source, j.Target()

	if sameFile(source, target) {
		return j.keep(source)
	}

	if j.args.DryRun {
		j.log.Infof("[DRY] %s -> %s", source, target)
		return j.transition(domain.JobSuccess)
	}

	op, verb := j.fs.Move, "moved"
	if j.args.Copy {
		op, verb = j.fs.Copy, "copied"
	}

	candidate := target
	for retries := 0; ; retries++ {
		if err := ctx.Err(); err != nil {
			return j.fail(err)
		}
		// an enumerated name can be the one the file already has
		if sameFile(source, candidate) {
			return j.keep(source)
		}

		j.mu.Lock()
		j.attempts++
		j.mu.Unlock()

		err := op(source, candidate)
		if err == nil {
			j.mu.Lock()
			j.target = candidate
			j.mu.Unlock()
			j.log.Infof("%s %s -> %s", verb, source, candidate)
			return j.transition(domain.JobSuccess)
		}

		if !errors.Is(err, domain.ErrDestinationExists) || j.args.Collision != domain.CollisionEnumerate {
			j.mu.Lock()
			j.target = candidate
			j.mu.Unlock()
			return j.fail(err)
		}
		if retries >= j.args.MaxRetries {
			return j.fail(fmt.Errorf("%w: %d attempts for %s", domain.ErrRetriesExhausted, retries+1, target))
		}

		next, err := j.nextCandidate(target)
		if err != nil {
			return j.fail(err)
		}
		j.log.Debugf("%s exists, trying %s", filepath.Base(candidate), filepath.Base(next))
		candidate = next
	}
}

// keep finishes the job without touching the file
func (j *RenameJob) keep(source string) error {
	j.mu.Lock()
	j.target = source
	j.unchanged = true
	j.mu.Unlock()
	j.log.Debugf("%s: name unchanged", source)
	return j.transition(domain.JobSuccess)
}

func sameFile(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

// nextCandidate creates the enumerator on first use and returns its next name
func (j *RenameJob) nextCandidate(target string) (string, error) {
	if j.enumerator == nil {
		e, err := domain.NewFileEnumerator(filepath.Base(target))
		if err != nil {
			return "", err
		}
		j.enumerator = e
	}
	return filepath.Join(filepath.Dir(target), j.enumerator.Next()), nil
}

// Report returns a snapshot of the job's outcome
func (j *RenameJob) Report() JobReport {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobReport{
		Source:    j.args.Source,
		Target:    j.target,
		Status:    j.status,
		Attempts:  j.attempts,
		Unchanged: j.unchanged,
		DryRun:    j.args.DryRun,
		Err:       j.err,
	}
}

// String renders a one-line, human-readable summary of the job
func (j *RenameJob) String() string {
	r := j.Report()
	switch {
	case r.Err != nil:
		return fmt.Sprintf("%s %s: %v", r.Status, r.Source, r.Err)
	case r.Target == "":
		return fmt.Sprintf("%s %s", r.Status, r.Source)
	case r.Unchanged:
		return fmt.Sprintf("%s %s (unchanged)", r.Status, r.Source)
	default:
		return fmt.Sprintf("%s %s -> %s", r.Status, r.Source, r.Target)
	}
}
