package httpserver

import (
	"net/http"
	"strings"
)

// Endpoint dispatches one path to per-method handlers; unsupported methods
// get 405 with an Allow header.
type Endpoint struct {
	Get    http.HandlerFunc
	Post   http.HandlerFunc
	Put    http.HandlerFunc
	Delete http.HandlerFunc
}

// ServeHTTP implements http.Handler.
func (e Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var handler http.HandlerFunc
	switch r.Method {
	case http.MethodGet:
		handler = e.Get
	case http.MethodPost:
		handler = e.Post
	case http.MethodPut:
		handler = e.Put
	case http.MethodDelete:
		handler = e.Delete
	}
	if handler == nil {
		w.Header().Set("Allow", e.allowed())
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	handler(w, r)
}

func (e Endpoint) allowed() string {
	var methods []string
	if e.Get != nil {
		methods = append(methods, http.MethodGet)
	}
	if e.Post != nil {
		methods = append(methods, http.MethodPost)
	}
	if e.Put != nil {
		methods = append(methods, http.MethodPut)
	}
	if e.Delete != nil {
		methods = append(methods, http.MethodDelete)
	}
	return strings.Join(methods, ", ")
}

// Routes groups the service endpoints. Authenticate wraps operator routes;
// health, login and the internal OCPP callback stay open.
type Routes struct {
	Health          http.HandlerFunc
	Login           http.HandlerFunc
	SessionStopped  http.Handler
	Import          http.Handler
	Transactions    Endpoint
	TransactionsPay http.HandlerFunc
	PricingRules    Endpoint
	PricingGroups   Endpoint
	Chargers        Endpoint
	Authenticate    func(http.Handler) http.Handler
}

// NewRouter registers service endpoints.
func NewRouter(routes Routes) http.Handler {
	protect := func(h http.Handler) http.Handler {
		if routes.Authenticate != nil {
			return routes.Authenticate(h)
		}
		return h
	}

	mux := http.NewServeMux()
	if routes.Health != nil {
		mux.Handle("/health", Endpoint{Get: routes.Health})
	}
	if routes.Login != nil {
		mux.Handle("/auth/login", Endpoint{Post: routes.Login})
	}
	if routes.SessionStopped != nil {
		mux.Handle("/internal/ocpp/session-stopped", Endpoint{Post: routes.SessionStopped.ServeHTTP})
	}
	if routes.Import != nil {
		mux.Handle("/billing/import", protect(Endpoint{Post: routes.Import.ServeHTTP}))
	}
	mux.Handle("/billing/transactions", protect(routes.Transactions))
	if routes.TransactionsPay != nil {
		mux.Handle("/billing/transactions/pay", protect(Endpoint{Post: routes.TransactionsPay}))
	}
	mux.Handle("/pricing/rules", protect(routes.PricingRules))
	mux.Handle("/pricing/groups", protect(routes.PricingGroups))
	mux.Handle("/chargers", protect(routes.Chargers))
	return mux
}
