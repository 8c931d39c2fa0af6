package api

import (
	"log"
	"net/http"
)

// NewRouter wires the lookup and metric endpoints. All routes are GET;
// the service exposes no write path.
func NewRouter(handlers *Handlers) http.Handler {
	mux := http.NewServeMux()

	get := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			fn(w, r)
		})
	}

	// Client lookup
	get("/health", handlers.Health)
	get("/clients", handlers.GetClients)
	get("/client/", handlers.GetClient)
	get("/top-clients", handlers.GetTopClients)
	get("/worst-clients", handlers.GetWorstClients)

	// Dashboard metric feeds
	get("/metrics/delayed-orders", handlers.GetDelayedOrders)
	get("/metrics/top-sellers", handlers.GetTopSellers)
	get("/metrics/worst-postal-areas", handlers.GetWorstPostalAreas)
	get("/metrics/rfm", handlers.GetRFM)
	get("/metrics/summary", handlers.GetMetricsSummary)

	return withLogging(mux)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
