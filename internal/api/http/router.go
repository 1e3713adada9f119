package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter mounts /health plus every route group given and wraps the result
// in the default CORS policy.
func NewRouter(groups ...func(*mux.Router)) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", HealthCheck).Methods("GET")
	for _, register := range groups {
		register(r)
	}
	return cors.Default().Handler(r)
}

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
