package api

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"garagy/internal/auth"
	"garagy/internal/logger"
)

// Pinger reports whether the document store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	Tokens      *auth.TokenManager
	AdminAuth   *AdminAuthHandler
	Admin       *AdminHandler
	Detection   *DetectionHandler
	Gate        *GateHandler
	Garage      *GarageHandler
	Store       Pinger
	UploadDir   string
	CORSOrigins []string
	Logger      *log.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(logger.WithContext(req.Context(), cfg.Logger)))
		})
	})

	r.HandleFunc("/health", health(cfg.Store, cfg.Logger)).Methods("GET")
	if cfg.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(filesOnly{http.Dir(cfg.UploadDir)})))
	}

	// Public endpoints
	r.HandleFunc("/api/auth/login", cfg.AdminAuth.Login).Methods("POST")
	r.HandleFunc("/api/auth/register", cfg.AdminAuth.Register).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(cfg.Tokens))
	admin.HandleFunc("/garage", cfg.Garage.GetProfile).Methods("GET")
	admin.HandleFunc("/garage", cfg.Garage.UpdateProfile).Methods("PUT")
	admin.HandleFunc("/layout/editor", cfg.Admin.Editor).Methods("GET")
	admin.HandleFunc("/layout/configuration", cfg.Admin.EditConfiguration).Methods("POST")
	admin.HandleFunc("/layout/generate", cfg.Admin.Generate).Methods("POST")
	admin.HandleFunc("/layout/resize", cfg.Admin.Resize).Methods("POST")
	admin.HandleFunc("/layout/export.pdf", cfg.Admin.ExportPDF).Methods("GET")
	admin.HandleFunc("/layout", cfg.Admin.GetLayout).Methods("GET")
	admin.HandleFunc("/layout", cfg.Admin.SaveLayout).Methods("PUT")
	admin.HandleFunc("/layout/slots/{slotID}/toggle", cfg.Admin.ToggleSlot).Methods("POST")
	admin.HandleFunc("/layout/slots/{slotID}/reserve", cfg.Admin.ReserveSlot).Methods("POST")
	admin.HandleFunc("/layout/slots/{slotID}/release", cfg.Admin.ReleaseSlot).Methods("POST")
	admin.HandleFunc("/layout/slots/{slotID}/occupant", cfg.Admin.Occupant).Methods("GET")
	admin.HandleFunc("/detection", cfg.Detection.CreatePreview).Methods("POST")
	admin.HandleFunc("/detection/{previewID}", cfg.Detection.GetPreview).Methods("GET")
	admin.HandleFunc("/detection/{previewID}/adopt", cfg.Detection.AdoptPreview).Methods("POST")
	admin.HandleFunc("/detection/{previewID}", cfg.Detection.DiscardPreview).Methods("DELETE")
	admin.HandleFunc("/gate/{direction}/scan", cfg.Gate.Scan).Methods("POST")
	admin.HandleFunc("/gate/events", cfg.Gate.Events).Methods("GET")
	admin.HandleFunc("/snapshots", cfg.Gate.Snapshots).Methods("GET")

	var h http.Handler = r
	h = handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.ExposedHeaders([]string{"Location"}),
	)(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(cfg.Logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel})),
	)(h)
	return handlers.CombinedLoggingHandler(cfg.Logger.StandardLog().Writer(), h)
}

func health(store Pinger, l *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				l.Warn("health check: store unreachable", "err", err)
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
