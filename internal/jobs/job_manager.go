package jobs

import (
	"fmt"
)

// Job is a background task with an explicit lifecycle.
type Job interface {
	Start() error
	Stop()
}

type namedJob struct {
	name string
	job  Job
}

// JobManager starts and stops all background jobs of the application.
type JobManager struct {
	jobs    []namedJob
	started []namedJob
}

// NewJobManager creates a manager that starts and stops the housekeeping job.
func NewJobManager(housekeeping *HousekeepingJob) *JobManager {
	return &JobManager{
		jobs: []namedJob{{name: "housekeeping", job: housekeeping}},
	}
}

// StartAll starts the jobs in order. If one fails, the ones already running
// are stopped again.
func (jm *JobManager) StartAll() error {
	for _, j := range jm.jobs {
		if err := j.job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", j.name, err)
		}
		jm.started = append(jm.started, j)
	}
	return nil
}

// StopAll stops the running jobs in reverse start order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].job.Stop()
	}
	jm.started = nil
}
