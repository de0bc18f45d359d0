package inboxservice

import (
	"context"

	"github.com/riverqueue/river"
)

// PollArgs is the job payload for an inbox poll. The poll carries no
// parameters; scheduling interval lives in the periodic job config.
type PollArgs struct{}

// Kind implements river.JobArgs.
func (PollArgs) Kind() string { return "inbox_poll" }

// PollWorker runs one inbox check per job. River owns retry and
// failure-isolation semantics for the polling loop.
type PollWorker struct {
	river.WorkerDefaults[PollArgs]
	Watcher *Watcher
}

// Work implements river.Worker.
func (w *PollWorker) Work(ctx context.Context, _ *river.Job[PollArgs]) error {
	return w.Watcher.CheckInbox(ctx)
}
