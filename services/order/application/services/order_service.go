package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	pkgcache "github.com/ghuser/exportdesk/pkg/cache"
	"github.com/ghuser/exportdesk/pkg/logger"
	"github.com/ghuser/exportdesk/pkg/telemetry"
	"github.com/ghuser/exportdesk/services/order/application/workflows"
	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
	"github.com/ghuser/exportdesk/services/order/domain/models"
	"github.com/ghuser/exportdesk/services/order/domain/repositories"
	domainsvcs "github.com/ghuser/exportdesk/services/order/domain/services"
)

// ConfirmationScheduler runs the expiry timer for orders awaiting confirmation.
type ConfirmationScheduler interface {
	ScheduleExpiry(ctx context.Context, orgID uuid.UUID, reference string) error
	Resolve(ctx context.Context, orgID uuid.UUID, reference, outcome string) error
}

// OrderLocker serialises writes to one order across instances.
type OrderLocker interface {
	Acquire(ctx context.Context, orgID uuid.UUID, reference string) (func(), error)
}

// DocumentCache stores the shipment-document read model.
type DocumentCache interface {
	Get(ctx context.Context, orgID uuid.UUID, reference string) ([]domainsvcs.CargoDocument, error)
	Set(ctx context.Context, orgID uuid.UUID, reference string, docs []domainsvcs.CargoDocument) error
	Delete(ctx context.Context, orgID uuid.UUID, reference string) error
}

// Deps wires an OrderService. Repo, Stock and Log are required; the rest may be nil.
type Deps struct {
	Repo      repositories.OrderRepository
	Stock     repositories.StockLedger
	Defaults  repositories.ItemDefaultsStore
	DocCache  DocumentCache
	Locker    OrderLocker
	Scheduler ConfirmationScheduler
	Metrics   *telemetry.OrderMetrics
	Log       logger.Logger
}

var _ workflows.Expirer = (*OrderService)(nil)

// OrderService orchestrates order creation, line revision, submission and
// cargo allocation. Event publishing is handled by the repository (outbox).
type OrderService struct {
	Deps
}

// NewOrderService returns an OrderService wired with d.
func NewOrderService(d Deps) *OrderService {
	return &OrderService{Deps: d}
}

// CreateOrderInput carries a new order as received at the API boundary.
// Cargos is optional; when present it must already respect ordered quantities.
type CreateOrderInput struct {
	Reference string
	Currency  string
	Type      models.OrderType
	Export    models.ExportDetails
	Lines     []models.OrderLine
	Cargos    []models.Cargo
}

// Create validates and persists a draft order. The repository publishes OrderCreatedEvent.
func (s *OrderService) Create(ctx context.Context, orgID uuid.UUID, in CreateOrderInput) (*models.Order, error) {
	if err := domainsvcs.ValidateReference(in.Reference); err != nil {
		return nil, fmt.Errorf("%w: %w", orderdomain.ErrInvalidOrder, err)
	}
	order, err := models.NewOrder(orgID, in.Reference, in.Currency, in.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", orderdomain.ErrInvalidOrder, err)
	}
	order.Export = in.Export
	order.Lines = in.Lines
	order.Normalize()
	if err := validateForSave(order); err != nil {
		return nil, err
	}

	ctx = logger.WithOrderRef(ctx, order.Reference)
	if len(in.Cargos) > 0 {
		cargos, err := domainsvcs.NewAllocationEngine(order, in.Cargos).Commit()
		if err != nil {
			s.saveBlocked(ctx, err)
			return nil, err
		}
		order.Cargos = cargos
	}

	if err := s.Repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.Log.InfoContext(ctx, "order created", "order_type", order.Type, "lines", len(order.Lines))
	return order, nil
}

// Get returns an order with lines and cargo.
func (s *OrderService) Get(ctx context.Context, orgID uuid.UUID, reference string) (*models.Order, error) {
	return s.load(ctx, orgID, reference)
}

// List returns a page of orders for the org plus the total count.
func (s *OrderService) List(ctx context.Context, orgID uuid.UUID, opts repositories.QueryOpts) ([]*models.Order, int, error) {
	orders, total, err := s.Repo.FindByOrgID(ctx, orgID, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// LinesRevision replaces an order's lines. Export and Currency are left
// unchanged when nil/empty. Acknowledge accepts a stock shortfall on a
// submitted order; Operator records who did.
type LinesRevision struct {
	Lines       []models.OrderLine
	Export      *models.ExportDetails
	Currency    string
	Acknowledge bool
	Operator    string
}

// ReviseLines replaces the line collection. On submitted orders only the
// increase over the persisted quantities is checked against stock.
func (s *OrderService) ReviseLines(ctx context.Context, orgID uuid.UUID, reference string, rev LinesRevision) (*models.Order, error) {
	return s.editLines(ctx, orgID, reference, rev.Acknowledge, rev.Operator, func(order *models.Order) error {
		order.Lines = slices.Clone(rev.Lines)
		if rev.Export != nil {
			order.Export = *rev.Export
		}
		if rev.Currency != "" {
			order.Currency = strings.ToUpper(rev.Currency)
		}
		return nil
	})
}

// AddLine appends one line after checking it does not duplicate an existing one.
func (s *OrderService) AddLine(ctx context.Context, orgID uuid.UUID, reference string, line models.OrderLine, acknowledge bool, operator string) (*models.Order, error) {
	return s.editLines(ctx, orgID, reference, acknowledge, operator, func(order *models.Order) error {
		if err := domainsvcs.CheckLineChange(order.Lines, domainsvcs.NewLineIndex, line.Key()); err != nil {
			return err
		}
		order.Lines = append(order.Lines, line)
		return nil
	})
}

// UpdateLine replaces the line at index. An article or depot change is
// rejected when another line already uses the new pair.
func (s *OrderService) UpdateLine(ctx context.Context, orgID uuid.UUID, reference string, index int, line models.OrderLine, acknowledge bool, operator string) (*models.Order, error) {
	return s.editLines(ctx, orgID, reference, acknowledge, operator, func(order *models.Order) error {
		if index < 0 || index >= len(order.Lines) {
			return fmt.Errorf("%w: no line at index %d", orderdomain.ErrInvalidOrder, index)
		}
		if err := domainsvcs.CheckLineChange(order.Lines, index, line.Key()); err != nil {
			return err
		}
		order.Lines[index] = line
		return nil
	})
}

// RemoveLine deletes the line at index. Allocations against it must be removed first.
func (s *OrderService) RemoveLine(ctx context.Context, orgID uuid.UUID, reference string, index int) (*models.Order, error) {
	return s.editLines(ctx, orgID, reference, false, "", func(order *models.Order) error {
		if index < 0 || index >= len(order.Lines) {
			return fmt.Errorf("%w: no line at index %d", orderdomain.ErrInvalidOrder, index)
		}
		order.Lines = slices.Delete(order.Lines, index, index+1)
		return nil
	})
}

// editLines loads the order under the order lock, applies mutate to a copy
// and saves the copy.
func (s *OrderService) editLines(ctx context.Context, orgID uuid.UUID, reference string, acknowledge bool, operator string, mutate func(*models.Order) error) (*models.Order, error) {
	ctx = logger.WithOrderRef(ctx, reference)
	release, err := s.lock(ctx, orgID, reference)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.loadEditable(ctx, orgID, reference)
	if err != nil {
		return nil, err
	}
	revised := *order
	revised.Lines = slices.Clone(order.Lines)
	if err := mutate(&revised); err != nil {
		return nil, err
	}
	return s.saveLines(ctx, order, &revised, acknowledge, operator)
}

func (s *OrderService) saveLines(ctx context.Context, persisted, revised *models.Order, acknowledge bool, operator string) (*models.Order, error) {
	if persisted.Status == models.StatusAwaitingConfirmation {
		return nil, fmt.Errorf("%w: cancel the pending submission before editing lines", orderdomain.ErrInvalidTransition)
	}

	revised.Normalize()
	if err := validateForSave(revised); err != nil {
		return nil, err
	}
	// Lines may not shrink below what is already loaded into cargo.
	if violations := domainsvcs.ValidateBeforeSave(revised, revised.Cargos); len(violations) > 0 {
		s.saveBlocked(ctx, violations)
		return nil, violations
	}

	if persisted.Persisted() {
		issues, err := s.collectIssues(ctx, domainsvcs.NewEditAdvisor(persisted), revised)
		if err != nil {
			return nil, err
		}
		if err := domainsvcs.ApplyRevision(revised, issues, acknowledge, operator); err != nil {
			return nil, err
		}
	}

	if err := s.Repo.SaveLines(ctx, revised); err != nil {
		return nil, fmt.Errorf("save lines: %w", err)
	}
	s.invalidateDocuments(ctx, revised)
	s.Log.InfoContext(ctx, "order lines saved", "lines", len(revised.Lines), "status", revised.Status)
	return revised, nil
}

// CheckStock previews stock issues. With proposed nil the stored lines are
// checked in full; otherwise proposed lines are checked the way a save
// would check them (delta-only for submitted orders).
func (s *OrderService) CheckStock(ctx context.Context, orgID uuid.UUID, reference string, proposed []models.OrderLine) ([]orderdomain.StockIssue, error) {
	order, err := s.load(ctx, orgID, reference)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithOrderRef(ctx, order.Reference)
	if proposed == nil {
		return s.collectIssues(ctx, domainsvcs.NewCreateAdvisor(), order)
	}
	revised := *order
	revised.Lines = proposed
	advisor := domainsvcs.NewCreateAdvisor()
	if order.Persisted() {
		advisor = domainsvcs.NewEditAdvisor(order)
	}
	return s.collectIssues(ctx, advisor, &revised)
}

// Submit moves a draft order to submitted, or to awaiting_confirmation when
// stock is short. In the latter case the order is persisted and a
// *ConfirmationRequiredError listing the issues is returned with it.
func (s *OrderService) Submit(ctx context.Context, orgID uuid.UUID, reference string) (*models.Order, error) {
	order, err := s.loadEditable(ctx, orgID, reference)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithOrderRef(ctx, order.Reference)
	if order.Status != models.StatusDraft {
		return nil, fmt.Errorf("%w: order is %s", orderdomain.ErrInvalidTransition, order.Status)
	}

	issues, err := s.collectIssues(ctx, domainsvcs.NewCreateAdvisor(), order)
	if err != nil {
		return nil, err
	}

	from := order.Status
	submitErr := domainsvcs.Submit(order, issues)
	var confirm *orderdomain.ConfirmationRequiredError
	if submitErr != nil && !errors.As(submitErr, &confirm) {
		return nil, submitErr
	}

	if err := s.Repo.UpdateStatus(ctx, order, from); err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}
	s.Metrics.Submitted(ctx, string(order.Status))

	if confirm != nil {
		s.Log.InfoContext(ctx, "order awaiting shortfall confirmation", "issues", len(confirm.Issues))
		s.scheduleExpiry(ctx, order)
		return order, submitErr
	}
	s.Log.InfoContext(ctx, "order submitted")
	return order, nil
}

// Confirm acknowledges a shortfall. Stock is re-read, so an order whose
// shortfall disappeared meanwhile is submitted without a missing-quantity flag.
func (s *OrderService) Confirm(ctx context.Context, orgID uuid.UUID, reference, operator string) (*models.Order, error) {
	order, err := s.loadEditable(ctx, orgID, reference)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithOrderRef(ctx, order.Reference)
	if order.Status != models.StatusAwaitingConfirmation {
		return nil, fmt.Errorf("%w: order is %s", orderdomain.ErrInvalidTransition, order.Status)
	}

	issues, err := s.collectIssues(ctx, domainsvcs.NewCreateAdvisor(), order)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := domainsvcs.Confirm(order, issues, operator); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateStatus(ctx, order, from); err != nil {
		return nil, fmt.Errorf("confirm order: %w", err)
	}
	s.Metrics.Submitted(ctx, string(order.Status))
	s.resolve(ctx, order, workflows.OutcomeConfirmed)
	s.Log.InfoContext(ctx, "order submission confirmed", "status", order.Status, "operator", operator)
	return order, nil
}

// CancelSubmission returns an order awaiting confirmation to draft.
func (s *OrderService) CancelSubmission(ctx context.Context, orgID uuid.UUID, reference string) (*models.Order, error) {
	order, err := s.loadEditable(ctx, orgID, reference)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithOrderRef(ctx, order.Reference)
	from := order.Status
	if err := domainsvcs.CancelSubmission(order); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateStatus(ctx, order, from); err != nil {
		return nil, fmt.Errorf("cancel submission: %w", err)
	}
	s.resolve(ctx, order, workflows.OutcomeCancelled)
	s.Log.InfoContext(ctx, "order submission cancelled")
	return order, nil
}

// ExpireConfirmation reverts an order still awaiting confirmation to draft.
// It reports false when there was nothing to expire.
func (s *OrderService) ExpireConfirmation(ctx context.Context, orgID uuid.UUID, reference string) (bool, error) {
	order, err := s.load(ctx, orgID, reference)
	if errors.Is(err, orderdomain.ErrOrderNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	ctx = logger.WithOrderRef(ctx, order.Reference)
	from := order.Status
	if !domainsvcs.ExpireConfirmation(order) {
		return false, nil
	}
	if err := s.Repo.UpdateStatus(ctx, order, from); err != nil {
		if errors.Is(err, orderdomain.ErrInvalidTransition) {
			return false, nil
		}
		return false, fmt.Errorf("expire confirmation: %w", err)
	}
	s.Metrics.Submitted(ctx, "expired")
	s.Log.WarnContext(ctx, "unconfirmed submission expired, order back to draft")
	return true, nil
}

// MarkDelivered locks a submitted order against further edits.
func (s *OrderService) MarkDelivered(ctx context.Context, orgID uuid.UUID, reference string) (*models.Order, error) {
	order, err := s.loadEditable(ctx, orgID, reference)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithOrderRef(ctx, order.Reference)
	from := order.Status
	if err := domainsvcs.MarkDelivered(order); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateStatus(ctx, order, from); err != nil {
		return nil, fmt.Errorf("mark delivered: %w", err)
	}
	s.Log.InfoContext(ctx, "order delivered")
	return order, nil
}

func (s *OrderService) load(ctx context.Context, orgID uuid.UUID, reference string) (*models.Order, error) {
	order, err := s.Repo.GetByReference(ctx, orgID, reference)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func (s *OrderService) loadEditable(ctx context.Context, orgID uuid.UUID, reference string) (*models.Order, error) {
	order, err := s.load(ctx, orgID, reference)
	if err != nil {
		return nil, err
	}
	if order.Locked() {
		return nil, fmt.Errorf("%w: %s", orderdomain.ErrOrderLocked, order.Reference)
	}
	return order, nil
}

// lock takes the per-order lock. A lock held elsewhere is ErrOrderBusy; a
// Redis failure is logged and the write proceeds under the row lock alone.
func (s *OrderService) lock(ctx context.Context, orgID uuid.UUID, reference string) (func(), error) {
	noop := func() {}
	if s.Locker == nil {
		return noop, nil
	}
	release, err := s.Locker.Acquire(ctx, orgID, reference)
	if errors.Is(err, pkgcache.ErrLockNotObtained) {
		return nil, fmt.Errorf("%w: %s", orderdomain.ErrOrderBusy, reference)
	}
	if err != nil {
		s.Log.WarnContext(ctx, "order lock unavailable, continuing without it", "error", err)
		return noop, nil
	}
	return release, nil
}

func (s *OrderService) collectIssues(ctx context.Context, advisor *domainsvcs.StockSufficiencyAdvisor, order *models.Order) ([]orderdomain.StockIssue, error) {
	keys := make([]models.LineKey, len(order.Lines))
	for i, l := range order.Lines {
		keys[i] = l.Key()
	}
	snapshot, err := s.Stock.Snapshot(ctx, order.OrgID, keys)
	if err != nil {
		return nil, fmt.Errorf("stock snapshot: %w", err)
	}
	issues := advisor.CollectIssues(order, snapshot)
	for _, issue := range issues {
		s.Metrics.StockShortfall(ctx, string(issue.Severity))
	}
	return issues, nil
}

func (s *OrderService) scheduleExpiry(ctx context.Context, order *models.Order) {
	if s.Scheduler == nil {
		return
	}
	if err := s.Scheduler.ScheduleExpiry(ctx, order.OrgID, order.Reference); err != nil {
		s.Log.WarnContext(ctx, "confirmation expiry not scheduled", "error", err)
	}
}

func (s *OrderService) resolve(ctx context.Context, order *models.Order, outcome string) {
	if s.Scheduler == nil {
		return
	}
	if err := s.Scheduler.Resolve(ctx, order.OrgID, order.Reference, outcome); err != nil {
		s.Log.WarnContext(ctx, "confirmation workflow not signalled", "outcome", outcome, "error", err)
	}
}

func (s *OrderService) saveBlocked(ctx context.Context, err error) {
	var overs orderdomain.OverAllocationErrors
	if errors.As(err, &overs) {
		s.Metrics.SaveBlocked(ctx, len(overs))
		s.Log.WarnContext(ctx, "allocation save blocked", "violations", len(overs))
	}
}

// validateForSave tags structural failures with ErrInvalidOrder. Duplicate
// lines keep their own type so the caller can point at the existing line.
func validateForSave(order *models.Order) error {
	err := domainsvcs.ValidateOrderForSave(order)
	if err == nil || errors.Is(err, orderdomain.ErrDuplicateLineItem) {
		return err
	}
	return fmt.Errorf("%w: %w", orderdomain.ErrInvalidOrder, err)
}
