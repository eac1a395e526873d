package router

import (
	"net/http"
	"time"

	_ "automed-dashboard/docs"
	"automed-dashboard/internal/adapters/storage/docrepo"
	"automed-dashboard/internal/config"
	"automed-dashboard/internal/domain/alerts"
	"automed-dashboard/internal/domain/dashboard"
	"automed-dashboard/internal/domain/device"
	"automed-dashboard/internal/domain/history"
	"automed-dashboard/internal/domain/patients"
	"automed-dashboard/internal/domain/schedules"
	"automed-dashboard/internal/domain/session"
	"automed-dashboard/internal/middleware"
	"automed-dashboard/internal/platform/logger"
	"automed-dashboard/internal/platform/realtime"
	"automed-dashboard/internal/ports/auth"
	"automed-dashboard/internal/ports/docstore"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Config        *config.Config
	Store         docstore.Store
	Authenticator auth.Authenticator
	Logger        logger.Logger

	// Mirror ya iniciado; el ciclo de vida lo maneja quien lo crea.
	Mirror *dashboard.Mirror
	// Hub para /dashboard/ws. Si es nil no se monta el websocket.
	Hub *realtime.Hub
}

func NewRouter(opts Options) http.Handler {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.AuthContext(opts.Authenticator))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Repos sobre el árbol de documentos
	store := opts.Store
	scheduleRepo := docrepo.NewScheduleRepo(store, loc)
	historyRepo := docrepo.NewHistoryRepo(store, loc)
	alertRepo := docrepo.NewAlertRepo(store, loc)
	deviceRepo := docrepo.NewDeviceRepo(store)
	patientRepo := docrepo.NewPatientRepo(store)

	// Services por módulo
	schedulesSvc := schedules.NewService(scheduleRepo, loc)
	historySvc := history.NewService(historyRepo, loc)
	alertsSvc := alerts.NewService(alertRepo, cfg.AlertsDisplayLimit)
	deviceSvc := device.NewService(deviceRepo)
	patientsSvc := patients.NewService(patientRepo, cfg.DeviceID, patients.Patient{
		Name:  cfg.DefaultPatientName,
		Email: cfg.DefaultPatientEmail,
	})

	// Rutas por módulo
	session.RegisterRoutes(r, opts.Authenticator, log)
	schedules.RegisterRoutes(r, schedulesSvc, log)
	history.RegisterRoutes(r, historySvc, log)
	alerts.RegisterRoutes(r, alertsSvc, log)
	device.RegisterRoutes(r, deviceSvc, log)
	patients.RegisterRoutes(r, patientsSvc, log)

	if opts.Mirror != nil {
		var ws http.Handler
		if opts.Hub != nil {
			ws = opts.Hub.Handler(dashboard.Topic)
		}
		dashboard.RegisterRoutes(r, opts.Mirror, ws, log)
	}

	return r
}
