package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/exportdesk/pkg/app"
	"github.com/ghuser/exportdesk/services/order/application/handlers"
	appsvcs "github.com/ghuser/exportdesk/services/order/application/services"
)

// OrderRoutes registers order endpoints on the provided chi router.
func OrderRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a))
}

// Mount registers order endpoints backed by svcs.
func Mount(r chi.Router, svcs *appsvcs.Services) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", handlers.NewListOrdersHandler(svcs).Execute)
		r.Post("/", handlers.NewPostOrderHandler(svcs).Execute)

		r.Route("/{ref}", func(r chi.Router) {
			r.Get("/", handlers.NewGetOrderHandler(svcs).Execute)

			r.Put("/lines", handlers.NewPutLinesHandler(svcs).Execute)
			r.Post("/lines", handlers.NewPostLineHandler(svcs).Execute)
			r.Put("/lines/{index}", handlers.NewPutLineHandler(svcs).Execute)
			r.Delete("/lines/{index}", handlers.NewDeleteLineHandler(svcs).Execute)

			r.Post("/stock-check", handlers.NewStockCheckHandler(svcs).Execute)
			r.Post("/submit", handlers.NewSubmitHandler(svcs).Execute)
			r.Post("/confirm", handlers.NewConfirmHandler(svcs).Execute)
			r.Post("/cancel-submission", handlers.NewCancelSubmissionHandler(svcs).Execute)
			r.Post("/deliver", handlers.NewDeliverHandler(svcs).Execute)

			r.Get("/allocation", handlers.NewGetAllocationHandler(svcs).Execute)
			r.Put("/allocation", handlers.NewPutAllocationHandler(svcs).Execute)
			r.Post("/allocation/edits", handlers.NewPostAllocationEditHandler(svcs).Execute)

			r.Get("/documents", handlers.NewGetDocumentsHandler(svcs).Execute)
			r.Get("/item-defaults", handlers.NewGetItemDefaultsHandler(svcs).Execute)
			r.Put("/item-defaults", handlers.NewPutItemDefaultsHandler(svcs).Execute)
		})
	})
}
