package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"filerename/internal/application"
	"filerename/internal/domain"
	"filerename/internal/ports"
)

// TaskArguments configures one rename task: one template pair over one root
type TaskArguments struct {
	Root             string
	InputTemplate    string
	OutputTemplate   string
	MaxDepth         int // 0 = unbounded, 1 = root only
	Copy             bool
	DryRun           bool
	Collision        domain.CollisionStrategy
	MaxRetries       int
	Concurrency      int // <= 0 uses GOMAXPROCS
	EnumerationStart int64
	Location         *time.Location
}

// TaskResult is the outcome of a task and all of its jobs
type TaskResult struct {
	TaskID           string
	Status           domain.TaskStatus
	Root             string
	InputTemplate    string
	OutputTemplate   string
	SearchExpression string
	Rules            []string
	DryRun           bool
	Jobs             []JobReport
	Counts           map[domain.JobStatus]int
	Duration         time.Duration
	Message          string
}

// Count returns the number of jobs that ended in status
func (r *TaskResult) Count(status domain.JobStatus) int {
	return r.Counts[status]
}

// Summary renders the per-status counts on one line
func (r *TaskResult) Summary() string {
	var parts []string
	for _, s := range domain.JobStatuses {
		if n := r.Counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", s, n))
		}
	}
	counts := "no files matched"
	if len(parts) > 0 {
		counts = strings.Join(parts, " ")
	}
	prefix := ""
	if r.DryRun {
		prefix = "[DRY] "
	}
	return fmt.Sprintf("%stask %s %s: %d file(s), %s (%s)",
		prefix, r.TaskID, r.Status, len(r.Jobs), counts, r.Duration.Round(time.Millisecond))
}

// RenameTask validates a template pair, finds matching files under a root,
// and runs one RenameJob per file.
type RenameTask struct {
	fs      ports.FileSystem
	log     ports.Logger
	Args    TaskArguments
	id      string
	counter atomic.Int64 // shared by every job of this task

	mu     sync.Mutex
	status domain.TaskStatus
	jobs   []*RenameJob
}

// NewRenameTask creates a task in the CREATED state with a fresh ID
func NewRenameTask(fs ports.FileSystem, log ports.Logger, args TaskArguments) *RenameTask {
	return &RenameTask{
		fs:     fs,
		log:    log,
		Args:   args,
		id:     uuid.NewString(),
		status: domain.TaskCreated,
	}
}

// ID returns the task's unique identifier
func (t *RenameTask) ID() string {
	return t.id
}

// Status returns the current task state
func (t *RenameTask) Status() domain.TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *RenameTask) setStatus(s domain.TaskStatus) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Validate checks the arguments that do not need the filesystem
func (t *RenameTask) Validate() error {
	if err := application.ValidateRequired("root", t.Args.Root); err != nil {
		return err
	}
	if err := application.ValidateRequired("inputTemplate", t.Args.InputTemplate); err != nil {
		return err
	}
	if err := application.ValidateRequired("outputTemplate", t.Args.OutputTemplate); err != nil {
		return err
	}
	if err := application.ValidateNonNegative("maxRetries", t.Args.MaxRetries); err != nil {
		return err
	}
	if t.Args.EnumerationStart < 0 {
		return &application.ValidationError{Field: "enumerationStart", Message: "enumeration start must not be negative"}
	}
	return nil
}

// Plan builds the rule set and compiles the search expression without
// touching the filesystem.
func (t *RenameTask) Plan() (*domain.RuleSet, *regexp.Regexp, error) {
	t.counter.Store(t.Args.EnumerationStart)
	factory := &domain.RuleFactory{
		Metadata: t.fs,
		Counter:  &t.counter,
		Location: t.Args.Location,
	}
	rules, err := factory.Build(t.Args.InputTemplate, t.Args.OutputTemplate)
	if err != nil {
		return nil, nil, err
	}
	search, err := rules.CompileSearch()
	if err != nil {
		return nil, nil, err
	}
	return rules, search, nil
}

// Execute runs the task. Template errors and discovery failures abort
// before any job is created and return a TaskError. Per-file failures
// are recorded in the result and never returned.
//
// If ctx is cancelled while jobs run, the partial result is returned
// together with the cancellation error.
func (t *RenameTask) Execute(ctx context.Context) (*TaskResult, error) {
	start := time.Now()
	if err := t.Validate(); err != nil {
		t.setStatus(domain.TaskFailure)
		return nil, err
	}
	t.setStatus(domain.TaskRunning)
	t.log.Infof("task %s: %q -> %q in %s", t.id, t.Args.InputTemplate, t.Args.OutputTemplate, t.Args.Root)

	rules, search, err := t.Plan()
	if err != nil {
		t.setStatus(domain.TaskFailure)
		return nil, &application.TaskError{TaskID: t.id, Stage: "template validation", Err: err}
	}
	var descriptions []string
	for _, r := range rules.Rules() {
		descriptions = append(descriptions, r.String())
		t.log.Infof("  %s", r)
	}
	t.log.Debugf("search expression: %s", search)

	files, err := t.fs.Find(ctx, t.Args.Root, t.Args.MaxDepth, func(path string, regular bool) bool {
		return regular && search.MatchString(filepath.Base(path))
	})
	if err != nil {
		t.setStatus(domain.TaskFailure)
		return nil, &application.TaskError{TaskID: t.id, Stage: "file discovery", Err: err}
	}
	t.log.Infof("task %s: %d file(s) matched", t.id, len(files))

	jobs := make([]*RenameJob, len(files))
	for i, f := range files {
		jobs[i] = NewRenameJob(t.fs, t.log, JobArguments{
			Source:     f,
			Rules:      rules,
			Search:     search,
			Copy:       t.Args.Copy,
			DryRun:     t.Args.DryRun,
			Collision:  t.Args.Collision,
			MaxRetries: t.Args.MaxRetries,
		})
	}
	t.mu.Lock()
	t.jobs = jobs
	t.mu.Unlock()

	t.forEach(ctx, jobs, func(j *RenameJob) {
		j.Prepare()
	})
	t.forEach(ctx, jobs, func(j *RenameJob) {
		if j.Status() == domain.JobReady {
			j.Run(ctx)
		}
	})

	result := &TaskResult{
		TaskID:           t.id,
		Root:             t.Args.Root,
		InputTemplate:    t.Args.InputTemplate,
		OutputTemplate:   t.Args.OutputTemplate,
		SearchExpression: search.String(),
		Rules:            descriptions,
		DryRun:           t.Args.DryRun,
		Counts:           make(map[domain.JobStatus]int),
	}
	for _, j := range jobs {
		r := j.Report()
		result.Jobs = append(result.Jobs, r)
		result.Counts[r.Status]++
	}

	var runErr error
	if err := ctx.Err(); err != nil {
		t.setStatus(domain.TaskFailure)
		runErr = &application.TaskError{TaskID: t.id, Stage: "execution", Err: err}
	} else {
		t.setStatus(domain.TaskSuccess)
	}
	result.Status = t.Status()
	result.Duration = time.Since(start)
	result.Message = result.Summary()
	t.log.Infof("%s", result.Message)
	return result, runErr
}

// forEach fans fn out over jobs with bounded concurrency and waits for all
// of them. Jobs not yet started when ctx is cancelled are skipped.
func (t *RenameTask) forEach(ctx context.Context, jobs []*RenameJob, fn func(*RenameJob)) {
	var g errgroup.Group
	g.SetLimit(t.concurrency())
	for _, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() == nil {
				fn(j)
			}
			return nil
		})
	}
	g.Wait()
}

func (t *RenameTask) concurrency() int {
	if t.Args.Concurrency > 0 {
		return t.Args.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// Jobs returns the jobs created by the last Execute
func (t *RenameTask) Jobs() []*RenameJob {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.jobs
}
