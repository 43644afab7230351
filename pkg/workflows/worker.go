package workflows

import (
	"go.temporal.io/sdk/worker"
)

// NewWorker returns a worker polling the client's task queue. Confirmation
// timers are short and few, so pollers and slots stay small.
func (tc *TemporalClient) NewWorker() worker.Worker {
	return worker.New(tc.Client, tc.TaskQueue, worker.Options{
		MaxConcurrentWorkflowTaskPollers:       2,
		MaxConcurrentActivityExecutionSize:     10,
		MaxConcurrentWorkflowTaskExecutionSize: 10,
	})
}
