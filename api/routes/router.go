package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tanakritw/officestock-backend/api/controllers"
	"github.com/tanakritw/officestock-backend/api/middleware"
	"github.com/tanakritw/officestock-backend/internal/borrows"
	"github.com/tanakritw/officestock-backend/internal/inventory"
	"github.com/tanakritw/officestock-backend/internal/reports"
	"github.com/tanakritw/officestock-backend/internal/rooms"
	"github.com/tanakritw/officestock-backend/internal/storages"
	"github.com/tanakritw/officestock-backend/internal/users"
	"github.com/tanakritw/officestock-backend/pkg/config"
	"github.com/tanakritw/officestock-backend/pkg/db"
	"github.com/tanakritw/officestock-backend/pkg/logger"
)

// Services bundles everything the router mounts.
type Services struct {
	Inventory inventory.Service
	Borrows   borrows.Service
	Rooms     rooms.Service
	Users     *users.Service
	Storages  *storages.Service
	Reports   *reports.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	client *db.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, client))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Post("/", controllers.ItemCreate(svcs.Inventory, logg))
			r.Get("/{itemID}", controllers.ItemGet(svcs.Inventory, logg))
			r.Put("/{itemID}", controllers.ItemUpdate(svcs.Inventory, logg))
			r.Delete("/{itemID}", controllers.ItemDelete(svcs.Inventory, logg))
			r.Post("/{itemID}/withdraw", controllers.ItemWithdraw(svcs.Inventory, logg))
		})

		r.Route("/borrows", func(r chi.Router) {
			r.Post("/", controllers.BorrowCreate(svcs.Borrows, logg))
			r.Post("/{borrowID}/return", controllers.BorrowReturn(svcs.Borrows, logg))
			r.Get("/active", controllers.ActiveBorrows(svcs.Reports, logg))
			r.Get("/history", controllers.BorrowHistory(svcs.Reports, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", controllers.UserCreate(svcs.Users, logg))
			r.Get("/", controllers.UserList(svcs.Users, logg))
			r.Get("/{userID}", controllers.UserGet(svcs.Users, logg))
			r.Put("/{userID}", controllers.UserUpdate(svcs.Users, logg))
			r.Delete("/{userID}", controllers.UserDelete(svcs.Users, logg))
		})

		r.Route("/storages", func(r chi.Router) {
			r.Post("/", controllers.StorageCreate(svcs.Storages, logg))
			r.Get("/", controllers.StorageList(svcs.Storages, logg))
			r.Get("/{storageID}", controllers.StorageGet(svcs.Storages, logg))
			r.Put("/{storageID}", controllers.StorageUpdate(svcs.Storages, logg))
			r.Delete("/{storageID}", controllers.StorageDelete(svcs.Storages, logg))
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Post("/rename", controllers.RoomRename(svcs.Rooms, logg))
			r.Post("/delete", controllers.RoomDelete(svcs.Rooms, logg))
			r.Get("/items", controllers.RoomItems(svcs.Reports, logg))
		})

		r.Get("/dashboard", controllers.Dashboard(svcs.Reports, logg))
		r.Get("/history", controllers.WithdrawHistory(svcs.Reports, logg))

		r.Route("/exports", func(r chi.Router) {
			r.Get("/items", controllers.ExportItems(svcs.Reports, logg))
			r.Get("/history", controllers.ExportHistory(svcs.Reports, logg))
		})
	})

	return r
}
