package services

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	pkgcache "github.com/ghuser/exportdesk/pkg/cache"
	"github.com/ghuser/exportdesk/pkg/logger"
	orderdomain "github.com/ghuser/exportdesk/services/order/domain"
	"github.com/ghuser/exportdesk/services/order/domain/models"
	"github.com/ghuser/exportdesk/services/order/domain/repositories"
	domainsvcs "github.com/ghuser/exportdesk/services/order/domain/services"
)

func copyOrder(o *models.Order) *models.Order {
	c := *o
	c.Lines = slices.Clone(o.Lines)
	c.Cargos = models.CloneCargos(o.Cargos)
	return &c
}

// memRepo is an in-memory OrderRepository keyed by reference.
type memRepo struct {
	mu              sync.Mutex
	orders          map[string]*models.Order
	allocationSaves int
}

func newMemRepo() *memRepo {
	return &memRepo{orders: map[string]*models.Order{}}
}

func (r *memRepo) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.Reference]; ok {
		return orderdomain.ErrOrderAlreadyExists
	}
	r.orders[order.Reference] = copyOrder(order)
	return nil
}

func (r *memRepo) GetByReference(_ context.Context, orgID uuid.UUID, reference string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[reference]
	if !ok || o.OrgID != orgID {
		return nil, orderdomain.ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (r *memRepo) FindByOrgID(_ context.Context, orgID uuid.UUID, opts repositories.QueryOpts) ([]*models.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Order
	for _, o := range r.orders {
		if o.OrgID == orgID {
			c := copyOrder(o)
			c.Cargos = nil
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b *models.Order) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	total := len(out)
	lo := min(opts.Offset, total)
	hi := min(lo+opts.Limit, total)
	return out[lo:hi], total, nil
}

func (r *memRepo) SaveLines(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.Reference]
	if !ok {
		return orderdomain.ErrOrderNotFound
	}
	if stored.Locked() {
		return orderdomain.ErrOrderLocked
	}
	c := copyOrder(order)
	c.Cargos = stored.Cargos
	r.orders[order.Reference] = c
	return nil
}

func (r *memRepo) SaveAllocation(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.Reference]
	if !ok {
		return orderdomain.ErrOrderNotFound
	}
	if errs := domainsvcs.ValidateBeforeSave(stored, order.Cargos); len(errs) > 0 {
		return errs
	}
	r.allocationSaves++
	stored.Cargos = models.CloneCargos(domainsvcs.PersistableCargos(order.Cargos))
	return nil
}

func (r *memRepo) UpdateStatus(_ context.Context, order *models.Order, from models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.Reference]
	if !ok {
		return orderdomain.ErrOrderNotFound
	}
	if stored.Status != from {
		return orderdomain.ErrInvalidTransition
	}
	stored.Status = order.Status
	stored.ConfirmedBy = order.ConfirmedBy
	return nil
}

func (r *memRepo) status(reference string) models.OrderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[reference].Status
}

// fixedLedger serves a fixed snapshot.
type fixedLedger struct {
	stock models.StockSnapshot
	err   error
	calls int
}

func (l *fixedLedger) Snapshot(_ context.Context, _ uuid.UUID, _ []models.LineKey) (models.StockSnapshot, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.stock, nil
}

type resolution struct {
	reference string
	outcome   string
}

type recordingScheduler struct {
	scheduled []string
	resolved  []resolution
}

func (s *recordingScheduler) ScheduleExpiry(_ context.Context, _ uuid.UUID, reference string) error {
	s.scheduled = append(s.scheduled, reference)
	return nil
}

func (s *recordingScheduler) Resolve(_ context.Context, _ uuid.UUID, reference, outcome string) error {
	s.resolved = append(s.resolved, resolution{reference, outcome})
	return nil
}

type memDefaults struct {
	mu   sync.Mutex
	meta map[string]models.ShipmentMetadata
}

func (d *memDefaults) Get(_ context.Context, _ uuid.UUID, reference string) (models.ShipmentMetadata, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := d.meta[reference]
	return m, ok, nil
}

func (d *memDefaults) Set(_ context.Context, _ uuid.UUID, reference string, meta models.ShipmentMetadata) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.meta == nil {
		d.meta = map[string]models.ShipmentMetadata{}
	}
	d.meta[reference] = meta
	return nil
}

type memDocs struct {
	mu      sync.Mutex
	docs    map[string][]domainsvcs.CargoDocument
	sets    int
	deletes int
}

func (c *memDocs) Get(_ context.Context, _ uuid.UUID, reference string) ([]domainsvcs.CargoDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.docs[reference]
	if !ok {
		return nil, pkgcache.ErrCacheMiss
	}
	return d, nil
}

func (c *memDocs) Set(_ context.Context, _ uuid.UUID, reference string, docs []domainsvcs.CargoDocument) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.docs == nil {
		c.docs = map[string][]domainsvcs.CargoDocument{}
	}
	c.docs[reference] = docs
	c.sets++
	return nil
}

func (c *memDocs) Delete(_ context.Context, _ uuid.UUID, reference string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.docs, reference)
	c.deletes++
	return nil
}

func (c *memDocs) cached(reference string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.docs[reference]
	return ok
}

// busyLocker refuses every lock while busy is set.
type busyLocker struct {
	busy     bool
	acquired int
}

func (l *busyLocker) Acquire(_ context.Context, _ uuid.UUID, _ string) (func(), error) {
	if l.busy {
		return nil, pkgcache.ErrLockNotObtained
	}
	l.acquired++
	return func() {}, nil
}

type fixture struct {
	svc       *OrderService
	repo      *memRepo
	ledger    *fixedLedger
	scheduler *recordingScheduler
	defaults  *memDefaults
	docs      *memDocs
	locker    *busyLocker
	orgID     uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:      newMemRepo(),
		ledger:    &fixedLedger{stock: models.StockSnapshot{}},
		scheduler: &recordingScheduler{},
		defaults:  &memDefaults{},
		docs:      &memDocs{},
		locker:    &busyLocker{},
		orgID:     uuid.New(),
	}
	f.svc = NewOrderService(Deps{
		Repo:      f.repo,
		Stock:     f.ledger,
		Defaults:  f.defaults,
		DocCache:  f.docs,
		Locker:    f.locker,
		Scheduler: f.scheduler,
		Log:       logger.Discard(),
	})
	return f
}
