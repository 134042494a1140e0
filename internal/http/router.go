package http

import (
	"net/http"

	"evac-backend/internal/handlers"
	"evac-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	evacueeHandler *handlers.EvacueeHandler,
	familyHandler *handlers.FamilyHandler,
	eventHandler *handlers.EventHandler,
	residentHandler *handlers.ResidentHandler,
	barangayHandler *handlers.BarangayHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
	logger *zap.Logger,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery(logger))
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.RequestLogging(logger))

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes - evacuees. The literal /search route is registered
	// before the {eventId} routes so mux never treats "search" as an id.
	evacueesAPI := api.PathPrefix("/evacuees").Subrouter()
	evacueesAPI.Use(authMiddleware.Authenticate)
	evacueesAPI.HandleFunc("/search", evacueeHandler.SearchByName).Methods("GET")
	evacueesAPI.HandleFunc("", evacueeHandler.Register).Methods("POST")
	evacueesAPI.HandleFunc("/{id:[0-9]+}", evacueeHandler.Update).Methods("PUT")
	evacueesAPI.HandleFunc("/{eventId:[0-9]+}/evacuees-information", eventHandler.EvacueesInformation).Methods("GET")
	evacueesAPI.HandleFunc("/{eventId:[0-9]+}/evacuee-statistics", eventHandler.Statistics).Methods("GET")
	evacueesAPI.HandleFunc("/{eventId:[0-9]+}/family-heads", familyHandler.SearchFamilyHeads).Methods("GET")
	evacueesAPI.HandleFunc("/{eventId:[0-9]+}/{evacueeResidentId:[0-9]+}/edit", evacueeHandler.EditView).Methods("GET")
	evacueesAPI.HandleFunc("/{eventId:[0-9]+}/families/{familyHeadId:[0-9]+}/decamp", familyHandler.Decamp).Methods("POST")
	evacueesAPI.HandleFunc("/{eventId:[0-9]+}/transfer-head", familyHandler.TransferHead).Methods("POST")
	evacueesAPI.HandleFunc("/{eventId:[0-9]+}/rooms", eventHandler.ListRooms).Methods("GET")

	// Protected routes - events
	eventsAPI := api.PathPrefix("/events").Subrouter()
	eventsAPI.Use(authMiddleware.Authenticate)
	eventsAPI.HandleFunc("/{eventId:[0-9]+}", eventHandler.Detail).Methods("GET")
	eventsAPI.HandleFunc("/{eventId:[0-9]+}/rooms", eventHandler.ListRooms).Methods("GET")

	// Protected routes - residents. Global record corrections are restricted
	// to admin and CSWDO staff; camp managers edit through the event-scoped
	// flow instead.
	residentsAPI := api.PathPrefix("/residents").Subrouter()
	residentsAPI.Use(authMiddleware.Authenticate)
	residentsAPI.HandleFunc("/{id:[0-9]+}", residentHandler.Get).Methods("GET")
	residentsAPI.Handle("/{id:[0-9]+}",
		authMiddleware.RequireRole("admin", "cswdo")(http.HandlerFunc(residentHandler.Update))).Methods("PUT")

	// Protected routes - reference data
	barangaysAPI := api.PathPrefix("/barangays").Subrouter()
	barangaysAPI.Use(authMiddleware.Authenticate)
	barangaysAPI.HandleFunc("", barangayHandler.List).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
