// Package workflows runs the durable timer that reverts an order left in
// awaiting_confirmation back to draft when nobody confirms or cancels it.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

// SignalConfirmationResolved ends the wait early. Its payload is a Resolution.
const SignalConfirmationResolved = "confirmation-resolved"

// Outcomes reported by ConfirmationExpiryWorkflow.
const (
	OutcomeConfirmed = "confirmed"
	OutcomeCancelled = "cancelled"
	OutcomeExpired   = "expired"
	// OutcomeStale means the timer fired but the order had already left awaiting_confirmation.
	OutcomeStale = "stale"
)

// ExpiryInput identifies the order being waited on.
type ExpiryInput struct {
	OrgID     uuid.UUID     `json:"org_id"`
	Reference string        `json:"reference"`
	Timeout   time.Duration `json:"timeout"`
}

// Resolution is sent with SignalConfirmationResolved.
type Resolution struct {
	Outcome string `json:"outcome"`
}

// ConfirmationExpiryWorkflow waits for a resolution signal or the timeout,
// whichever comes first. On timeout it runs ExpireConfirmation.
func ConfirmationExpiryWorkflow(ctx workflow.Context, in ExpiryInput) (string, error) {
	log := workflow.GetLogger(ctx)
	log.Info("waiting for confirmation", "order_ref", in.Reference, "timeout", in.Timeout)

	var outcome string
	signals := workflow.GetSignalChannel(ctx, SignalConfirmationResolved)

	timerCtx, cancelTimer := workflow.WithCancel(ctx)
	timer := workflow.NewTimer(timerCtx, in.Timeout)

	selector := workflow.NewSelector(ctx)
	selector.AddReceive(signals, func(c workflow.ReceiveChannel, _ bool) {
		var r Resolution
		c.Receive(ctx, &r)
		outcome = r.Outcome
	})
	selector.AddFuture(timer, func(workflow.Future) {
		outcome = OutcomeExpired
	})
	selector.Select(ctx)
	cancelTimer()

	if outcome != OutcomeExpired {
		log.Info("confirmation resolved", "order_ref", in.Reference, "outcome", outcome)
		return outcome, nil
	}

	actx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})
	var a *Activities
	var expired bool
	if err := workflow.ExecuteActivity(actx, a.ExpireConfirmation, in).Get(ctx, &expired); err != nil {
		return "", fmt.Errorf("expire confirmation: %w", err)
	}
	if !expired {
		return OutcomeStale, nil
	}
	log.Warn("confirmation expired, order reverted to draft", "order_ref", in.Reference)
	return OutcomeExpired, nil
}

// Expirer reverts an order from awaiting_confirmation to draft. It reports
// false when the order had already moved on.
type Expirer interface {
	ExpireConfirmation(ctx context.Context, orgID uuid.UUID, reference string) (bool, error)
}

// Activities holds the activity implementations for this package.
type Activities struct {
	Orders Expirer
}

// ExpireConfirmation is the activity run when the timer fires.
func (a *Activities) ExpireConfirmation(ctx context.Context, in ExpiryInput) (bool, error) {
	return a.Orders.ExpireConfirmation(ctx, in.OrgID, in.Reference)
}

// Register adds the workflow and activities to w.
func Register(w worker.Worker, orders Expirer) {
	w.RegisterWorkflow(ConfirmationExpiryWorkflow)
	w.RegisterActivity(&Activities{Orders: orders})
}

// Scheduler starts and resolves confirmation workflows through a Temporal client.
type Scheduler struct {
	client    client.Client
	taskQueue string
	timeout   time.Duration
}

// NewScheduler returns a Scheduler that starts workflows on taskQueue with the given timeout.
func NewScheduler(c client.Client, taskQueue string, timeout time.Duration) *Scheduler {
	return &Scheduler{client: c, taskQueue: taskQueue, timeout: timeout}
}

// WorkflowID is stable per order so resolve signals find the running timer.
func WorkflowID(orgID uuid.UUID, reference string) string {
	return fmt.Sprintf("order-confirmation:%s:%s", orgID, reference)
}

// ScheduleExpiry starts the timer workflow for an order that just entered awaiting_confirmation.
func (s *Scheduler) ScheduleExpiry(ctx context.Context, orgID uuid.UUID, reference string) error {
	_, err := s.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        WorkflowID(orgID, reference),
		TaskQueue: s.taskQueue,
	}, ConfirmationExpiryWorkflow, ExpiryInput{OrgID: orgID, Reference: reference, Timeout: s.timeout})
	if err != nil {
		return fmt.Errorf("start confirmation workflow: %w", err)
	}
	return nil
}

// Resolve signals the running timer that the order was confirmed or cancelled.
// A workflow that already finished is not an error.
func (s *Scheduler) Resolve(ctx context.Context, orgID uuid.UUID, reference, outcome string) error {
	err := s.client.SignalWorkflow(ctx, WorkflowID(orgID, reference), "", SignalConfirmationResolved, Resolution{Outcome: outcome})
	var notFound *serviceerror.NotFound
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("signal confirmation workflow: %w", err)
	}
	return nil
}
