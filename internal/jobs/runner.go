package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/content-pipeline/internal/db"
	"github.com/jonathan/content-pipeline/internal/pipeline"
)

// Runner executes a single queued job to completion. It performs no
// cross-job scheduling; each Run call claims exactly one job and runs it
// synchronously.
type Runner struct {
	store  db.Store
	engine *pipeline.Engine
}

// NewRunner creates a job runner over the given store and engine
func NewRunner(store db.Store, engine *pipeline.Engine) *Runner {
	return &Runner{store: store, engine: engine}
}

// Run claims the job, dispatches the transition for its job type, and
// records the terminal status. The queued->running write is persisted
// before dispatch, so a crash mid-execution is observable as
// stuck-in-running rather than a silent revert to queued.
//
// On dispatch failure the job is marked failed and returned alongside the
// error; partial document/run writes already committed by the engine are
// not rolled back. Failed and done jobs are terminal: re-running one
// yields db.ErrJobNotRunnable from the claim gate.
func (r *Runner) Run(ctx context.Context, jobID uuid.UUID) (*db.Job, error) {
	job, err := r.store.ClaimJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &ErrJobNotFound{JobID: jobID}
	}

	if execErr := r.dispatch(ctx, job); execErr != nil {
		log.Printf("[jobs] job %s failed: %v", jobID, execErr)
		failed, err := r.store.UpdateJobStatus(ctx, jobID, db.JobStatusFailed)
		if err != nil {
			return nil, fmt.Errorf("failed to mark job %s failed: %w", jobID, err)
		}
		return failed, execErr
	}

	done, err := r.store.UpdateJobStatus(ctx, jobID, db.JobStatusDone)
	if err != nil {
		return nil, fmt.Errorf("failed to mark job %s done: %w", jobID, err)
	}
	return done, nil
}

func (r *Runner) dispatch(ctx context.Context, job *db.Job) error {
	payload, err := DecodePayload(job.JobType, job.PayloadJSON)
	if err != nil {
		return err
	}

	switch job.JobType {
	case db.JobTypeGenerate:
		_, _, err = r.engine.Generate(ctx, payload.DocumentID())
	case db.JobTypePublish:
		_, _, err = r.engine.Publish(ctx, payload.DocumentID())
	default:
		// Unreachable: DecodePayload already rejects unknown types.
		err = &ErrUnsupportedJobType{JobType: job.JobType}
	}
	return err
}
