package services

import (
	"github.com/ghuser/exportdesk/pkg/app"
	"github.com/ghuser/exportdesk/pkg/cache"
	"github.com/ghuser/exportdesk/services/order/application/workflows"
	"github.com/ghuser/exportdesk/services/order/infrastructure/persistence/postgres"
	"github.com/ghuser/exportdesk/services/order/infrastructure/stock"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Order *OrderService
}

// New wires all order application services with infrastructure from the Application container.
// Redis-backed collaborators and the confirmation scheduler are left nil when
// their backend is not configured.
func New(a *app.Application) *Services {
	deps := Deps{
		Repo:    postgres.NewOrderRepository(a.Db, a.EventBus),
		Stock:   stock.NewHTTPLedger(a.Config.StockServiceURL, a.Config.StockServiceTimeout, a.Logger),
		Metrics: a.Metrics,
		Log:     a.Logger,
	}
	if a.Redis != nil {
		deps.Defaults = cache.NewItemDefaultsStore(a.Redis)
		deps.DocCache = cache.NewDocumentCache(a.Redis)
		deps.Locker = cache.NewOrderLocker(a.Redis)
	}
	if a.TemporalClient != nil {
		deps.Scheduler = workflows.NewScheduler(a.TemporalClient.Client, a.TemporalClient.TaskQueue, a.Config.ConfirmationTimeout)
	}
	return &Services{
		Order: NewOrderService(deps),
	}
}
