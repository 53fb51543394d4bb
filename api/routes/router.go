package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fieldops/fieldops-pos/api/controllers"
	terminalcontrollers "github.com/fieldops/fieldops-pos/api/controllers/terminal"
	"github.com/fieldops/fieldops-pos/api/middleware"
	"github.com/fieldops/fieldops-pos/internal/catalog"
	"github.com/fieldops/fieldops-pos/internal/checkout"
	"github.com/fieldops/fieldops-pos/pkg/config"
	"github.com/fieldops/fieldops-pos/pkg/enums"
	"github.com/fieldops/fieldops-pos/pkg/logger"
)

// Deps bundles what the HTTP surface needs from the composition root.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Gatherer prometheus.Gatherer
	Health   map[string]controllers.Pinger

	Stores   terminalcontrollers.Stores
	Drafts   terminalcontrollers.Drafts
	Checkout checkout.Service
	Catalog  catalog.Service
	Now      func() time.Time
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger
	taxRate := cfg.Checkout.TaxRateDecimal()

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Health))
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/whoami", controllers.Whoami())

		r.Route("/terminal", func(r chi.Router) {
			r.Put("/customer", terminalcontrollers.SetCustomer(deps.Stores, taxRate, logg))

			r.Get("/cart", terminalcontrollers.GetCart(deps.Stores, taxRate, logg))
			r.Delete("/cart", terminalcontrollers.ClearCart(deps.Stores, taxRate, logg))
			r.Post("/cart/items", terminalcontrollers.AddItem(deps.Stores, taxRate, logg))
			r.Delete("/cart/items/{productId}", terminalcontrollers.RemoveItem(deps.Stores, taxRate, logg))
			r.Post("/cart/draft", terminalcontrollers.SaveDraft(deps.Stores, deps.Drafts, logg))

			r.Route("/customers/{customerId}/cart", func(r chi.Router) {
				r.Put("/", terminalcontrollers.LoadCustomerCart(deps.Stores, taxRate, logg))
				r.Post("/restore", terminalcontrollers.RestoreDraft(deps.Stores, deps.Drafts, logg))
				r.Delete("/draft", terminalcontrollers.DiscardDraft(deps.Stores, deps.Drafts, logg))
			})

			r.Delete("/carts", terminalcontrollers.ClearAllCarts(deps.Stores, logg))
			r.Post("/checkout", terminalcontrollers.Checkout(deps.Stores, deps.Checkout, deps.Now, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/customers", controllers.CatalogCustomers(deps.Catalog, logg))
			r.Get("/products", controllers.CatalogProducts(deps.Catalog, logg))
			r.Get("/products/{productId}", controllers.CatalogProduct(deps.Catalog, logg))
		})

		r.With(middleware.RequireRole(logg, enums.OperatorRoleSupervisor)).
			Get("/checkouts", controllers.ListCheckoutAttempts(deps.Checkout, logg))
	})

	return r
}
