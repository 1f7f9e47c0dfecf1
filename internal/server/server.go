package server

import (
	"log/slog"
	"net/http"

	"admin-pulse/internal/handlers"
	"admin-pulse/internal/services"
	"admin-pulse/internal/store"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

// PageHandlers bind the templ-rendered pages; the server only routes them.
type PageHandlers struct {
	Analytics    http.HandlerFunc
	Customers    http.HandlerFunc
	Transactions http.HandlerFunc
}

func NewServer(st *store.Store, customers *services.CustomerDirectory, ledger *services.TransactionLedger, analytics *services.VisitorAnalytics, logger *slog.Logger, pages *PageHandlers) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(st, customers, ledger, analytics, logger),
		sseHandlers: handlers.NewSSEHandlers(st, customers, ledger, analytics, logger),
	}
	s.setupRoutes(pages)
	return s
}

func (s *Server) setupRoutes(pages *PageHandlers) {
	// Pages
	s.mux.HandleFunc("GET /", pages.Analytics)
	s.mux.HandleFunc("GET /customers", pages.Customers)
	s.mux.HandleFunc("GET /transactions", pages.Transactions)
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/customers", s.apiHandlers.HandleCustomers)
	s.mux.HandleFunc("GET /api/customers/summary", s.apiHandlers.HandleCustomerSummary)
	s.mux.HandleFunc("GET /api/customers/{id}", s.apiHandlers.HandleCustomer)
	s.mux.HandleFunc("GET /api/transactions", s.apiHandlers.HandleTransactions)
	s.mux.HandleFunc("GET /api/transactions/summary", s.apiHandlers.HandleTransactionSummary)
	s.mux.HandleFunc("GET /api/transactions/{id}", s.apiHandlers.HandleTransaction)
	s.mux.HandleFunc("GET /api/analytics/visits", s.apiHandlers.HandleVisits)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/customers", s.sseHandlers.HandleCustomers)
	s.mux.HandleFunc("GET /sse/transactions", s.sseHandlers.HandleTransactions)
	s.mux.HandleFunc("GET /sse/analytics", s.sseHandlers.HandleAnalytics)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
